// Package issues collects record-level problems found while validating the
// dataset so they can be reported together instead of failing on the first one.
package issues

import (
	"fmt"
	"strings"
)

// Stage identifies which validation pass produced an issue
type Stage string

const (
	StageSchema    Stage = "schema"
	StageIntegrity Stage = "integrity"
)

// Issue describes a single problem with a record
type Issue struct {
	Index   int    `json:"index"`          // Position of the record in its load order, -1 when unknown
	File    string `json:"file,omitempty"` // Source file the record came from, if known
	Line    int    `json:"line,omitempty"` // Line of the record (or offending field) in File
	Name    string `json:"name"`           // Display name of the offending record
	Message string `json:"message"`        // Human-readable description of the violation
}

// Location returns "file:line" when the source position is known
func (i Issue) Location() string {
	if i.File == "" {
		return ""
	}
	if i.Line > 0 {
		return fmt.Sprintf("%s:%d", i.File, i.Line)
	}
	return i.File
}

func (i Issue) String() string {
	if loc := i.Location(); loc != "" {
		return fmt.Sprintf("%s: %s (%s)", i.Name, i.Message, loc)
	}
	return fmt.Sprintf("%s: %s", i.Name, i.Message)
}

// List is an ordered collection of issues; order is input order.
type List []Issue

// Add appends an issue built from a record name and a formatted message
func (l *List) Add(name, format string, args ...interface{}) {
	*l = append(*l, Issue{Index: -1, Name: name, Message: fmt.Sprintf(format, args...)})
}

// Append appends fully populated issues
func (l *List) Append(issues ...Issue) {
	*l = append(*l, issues...)
}

// Empty reports whether no issues were collected
func (l List) Empty() bool {
	return len(l) == 0
}

// Err returns nil for an empty list, otherwise an *Error for the given stage
func (l List) Err(stage Stage) error {
	if l.Empty() {
		return nil
	}
	return &Error{Stage: stage, Issues: l}
}

// Error aborts a build after a whole pass has been checked
type Error struct {
	Stage  Stage
	Issues List
}

func (e *Error) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s validation failed: %s", e.Stage, e.Issues[0])
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s validation failed with %d errors:", e.Stage, len(e.Issues))
	for _, issue := range e.Issues {
		b.WriteString("\n  ")
		b.WriteString(issue.String())
	}
	return b.String()
}
