package vcs

import (
	"context"
	"fmt"

	"github.com/gomantics/cardvault/libs/githost"
)

// PublishRelease creates a release targeting targetBranch, then reads each
// asset's current content there and uploads it under its name. Uploads are
// independent of release creation and of each other; when some fail the
// release still exists, and the partial outcome is reported through
// *PartialPublishError instead of being swallowed.
func (s *Service) PublishRelease(ctx context.Context, repo githost.RepoRef, tag, title, notes, targetBranch string, assets []ReleaseAsset) (githost.Release, error) {
	release, err := s.host.CreateRelease(ctx, repo, tag, title, notes, targetBranch)
	if err != nil {
		return githost.Release{}, transportErr("create release "+tag, err)
	}

	var uploaded []string
	var failed []AssetFailure
	for _, asset := range assets {
		if err := s.uploadAsset(ctx, repo, release.ID, targetBranch, asset); err != nil {
			failed = append(failed, AssetFailure{Name: asset.Name, Err: err})
			continue
		}
		uploaded = append(uploaded, asset.Name)
	}

	if len(failed) > 0 {
		return release, &PartialPublishError{Release: release, Uploaded: uploaded, Failed: failed}
	}
	return release, nil
}

// ListReleases returns up to limit published releases, newest first.
func (s *Service) ListReleases(ctx context.Context, repo githost.RepoRef, limit int) ([]githost.Release, error) {
	releases, err := s.host.ListReleases(ctx, repo, limit)
	if err != nil {
		return nil, transportErr("list releases", err)
	}
	return releases, nil
}

func (s *Service) uploadAsset(ctx context.Context, repo githost.RepoRef, releaseID int64, ref string, asset ReleaseAsset) error {
	content, err := s.host.GetContents(ctx, repo, asset.Path, ref)
	if err != nil {
		return transportErr("read "+asset.Path, err)
	}
	if !content.Found {
		return fmt.Errorf("%s not present on %s", asset.Path, ref)
	}

	if err := s.host.UploadReleaseAsset(ctx, repo, releaseID, asset.Name, asset.ContentType, content.Content); err != nil {
		return transportErr("upload "+asset.Name, err)
	}
	return nil
}
