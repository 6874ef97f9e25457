package githost

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// RepoRef identifies a repository on the hosting provider.
type RepoRef struct {
	Owner string
	Name  string
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Name
}

var ErrInvalidRepoURL = errors.New("invalid repository URL")

// ParseRepoURL extracts owner and repository name from a repository URL.
// A trailing ".git" suffix on the path is tolerated. Fails with
// ErrInvalidRepoURL when fewer than two non-empty path segments remain.
func ParseRepoURL(raw string) (RepoRef, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, raw)
	}

	path := strings.Trim(u.Path, "/")
	path = strings.TrimSuffix(path, ".git")

	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return RepoRef{}, fmt.Errorf("%w: %q", ErrInvalidRepoURL, raw)
	}

	return RepoRef{Owner: parts[0], Name: parts[1]}, nil
}
