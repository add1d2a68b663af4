package enrich

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Icon is a static brand hint for a repository host
type Icon struct {
	Name  string `json:"name"`
	Style string `json:"style"`
	Title string `json:"title"`
}

// Badge is an embeddable image reference; DataSrc is the lazily loaded image
// and Src the placeholder shown until it loads.
type Badge struct {
	Alt     string `json:"alt"`
	Src     string `json:"src"`
	DataSrc string `json:"data_src,omitempty"`
}

// RepoInfo holds the presentation hints derived from a repository URL.
// Exactly one of Icon and Badge is set.
type RepoInfo struct {
	Host  string `json:"host"`
	Icon  *Icon  `json:"icon,omitempty"`
	Badge *Badge `json:"badge,omitempty"`
}

var (
	githubIcon     = Icon{Name: "github", Style: "fab", Title: "GitHub"}
	googleCodeIcon = Icon{Name: "google", Style: "fab", Title: "Google Code"}
	bitbucketIcon  = Icon{Name: "bitbucket", Style: "fab", Title: "Bitbucket"}
	gitlabIcon     = Icon{Name: "gitlab", Style: "fab", Title: "GitLab"}
	archiveIcon    = Icon{Name: "box", Style: "fas", Title: "Archive"}
)

var archiveExts = map[string]bool{
	".gz":   true,
	".zip":  true,
	".tar":  true,
	".tgz":  true,
	".tbz2": true,
	".bz2":  true,
	".xz":   true,
	".rar":  true,
}

// ParseRepo derives icon or badge hints from a repository URL. It returns
// nil when the URL matches no known host or archive type.
func ParseRepo(raw string) *RepoInfo {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}

	host := strings.ToLower(u.Host)
	segments := pathSegments(u.Path)

	switch host {
	case "github.com":
		if len(segments) < 2 {
			return iconInfo(host, githubIcon)
		}
		return &RepoInfo{Host: host, Badge: githubBadge(segments[0], segments[1])}
	case "code.google.com":
		return iconInfo(host, googleCodeIcon)
	case "bitbucket.org":
		return iconInfo(host, bitbucketIcon)
	case "gitlab.com":
		if len(segments) < 2 {
			return iconInfo(host, gitlabIcon)
		}
		return &RepoInfo{Host: host, Badge: gitlabBadge(segments[0], segments[1])}
	case "sourceforge.net":
		if len(segments) < 2 || segments[0] != "projects" {
			return nil
		}
		return &RepoInfo{Host: host, Badge: sourceforgeBadge(segments[1])}
	}

	if archiveExts[strings.ToLower(path.Ext(u.Path))] {
		return iconInfo(host, archiveIcon)
	}
	return nil
}

func iconInfo(host string, icon Icon) *RepoInfo {
	return &RepoInfo{Host: host, Icon: &icon}
}

// pathSegments returns the leading non-empty segments of a URL path
func pathSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s == "" {
			if len(out) > 0 {
				break
			}
			continue
		}
		out = append(out, s)
	}
	return out
}

func githubBadge(user, repo string) *Badge {
	return &Badge{
		Alt:     "GitHub stars",
		DataSrc: fmt.Sprintf("https://img.shields.io/github/stars/%s/%s?style=flat-square&logo=github", user, repo),
		Src:     "https://img.shields.io/badge/stars-%3F-blue?style=flat-square&logo=github",
	}
}

// gitlabBadge queries the project API; the project path is escaped once for
// the API and once more as a query parameter of the badge service.
func gitlabBadge(user, repo string) *Badge {
	project := url.QueryEscape(url.PathEscape(user + "/" + repo))
	return &Badge{
		Alt: "GitLab stars",
		Src: "https://img.shields.io/badge/dynamic/json?color=green&label=stars&logo=gitlab" +
			"&query=%24.star_count&url=https%3A%2F%2Fgitlab.com%2Fapi%2Fv4%2Fprojects%2F" + project,
	}
}

func sourceforgeBadge(project string) *Badge {
	return &Badge{
		Alt:     "Sourceforge downloads",
		DataSrc: fmt.Sprintf("https://img.shields.io/sourceforge/dt/%s?style=flat-square&logo=sourceforge", project),
		Src:     "https://img.shields.io/badge/downloads-%3F-brightgreen?style=flat-square&logo=sourceforge",
	}
}
