package issues

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListErr(t *testing.T) {
	var l List
	assert.NoError(t, l.Err(StageSchema))

	l.Add("Doom", "Original game '%s' not found", "Quake")
	l.Append(Issue{Name: "Tetris", Message: "Duplicate original game 'Tetris'", File: "t.yaml", Line: 4})

	err := l.Err(StageIntegrity)
	require.Error(t, err)

	var issueErr *Error
	require.True(t, errors.As(err, &issueErr))
	assert.Equal(t, StageIntegrity, issueErr.Stage)
	require.Len(t, issueErr.Issues, 2)
	assert.Equal(t, "Doom", issueErr.Issues[0].Name)
	assert.Contains(t, err.Error(), "2 errors")
	assert.Contains(t, err.Error(), "t.yaml:4")
}

func TestIssueLocation(t *testing.T) {
	assert.Equal(t, "", Issue{}.Location())
	assert.Equal(t, "a.yaml", Issue{File: "a.yaml"}.Location())
	assert.Equal(t, "a.yaml:3", Issue{File: "a.yaml", Line: 3}.Location())
}

func TestSingleIssueError(t *testing.T) {
	l := List{{Name: "X", Message: "bad"}}
	assert.Equal(t, "schema validation failed: X: bad", l.Err(StageSchema).Error())
}
