package vcs

import (
	"context"

	"github.com/gomantics/cardvault/libs/githost"
)

// ReadFile returns a file's content at ref. An absent path resolves to
// nil content, not an error.
func (s *Service) ReadFile(ctx context.Context, repo githost.RepoRef, path, ref string) ([]byte, error) {
	content, err := s.host.GetContents(ctx, repo, path, ref)
	if err != nil {
		return nil, transportErr("read "+path, err)
	}
	if !content.Found {
		return nil, nil
	}
	return content.Content, nil
}
