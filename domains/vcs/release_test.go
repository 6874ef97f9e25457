package vcs_test

import (
	"context"
	"testing"

	"github.com/gomantics/cardvault/domains/vcs"
	"github.com/gomantics/cardvault/domains/vcs/vcstest"
	"github.com/gomantics/cardvault/libs/githost"
	"github.com/stretchr/testify/require"
)

var releaseAssets = []vcs.ReleaseAsset{
	{Name: "character.json", Path: "character.json", ContentType: "application/json"},
	{Name: "card.png", Path: "card.png", ContentType: "image/png"},
}

func publishFixture(t *testing.T) (*vcs.Service, *vcstest.Host) {
	t.Helper()
	host := seededHost(t)
	svc := vcs.New(host)

	_, err := svc.CommitFiles(context.Background(), repo, "main", []vcs.FileSnapshot{
		{Path: "character.json", Content: []byte(`{"v":1}`)},
		{Path: "card.png", Content: []byte{1, 2, 3}, Binary: true},
	}, "v1")
	require.NoError(t, err)

	return svc, host
}

func TestPublishReleaseUploadsAllAssets(t *testing.T) {
	svc, host := publishFixture(t)

	release, err := svc.PublishRelease(context.Background(), repo, "v1.0.0", "First", "notes", "main", releaseAssets)
	require.NoError(t, err)

	require.Equal(t, "v1.0.0", release.TagName)
	require.ElementsMatch(t, []string{"character.json", "card.png"}, host.Assets("v1.0.0"))
}

func TestPublishReleasePartialFailureIsSurfaced(t *testing.T) {
	svc, host := publishFixture(t)
	host.FailUpload["card.png"] = true

	release, err := svc.PublishRelease(context.Background(), repo, "v1.0.0", "First", "notes", "main", releaseAssets)

	var partial *vcs.PartialPublishError
	require.ErrorAs(t, err, &partial)
	require.Equal(t, "v1.0.0", release.TagName, "the release itself exists")
	require.Equal(t, []string{"character.json"}, partial.Uploaded)
	require.Len(t, partial.Failed, 1)
	require.Equal(t, "card.png", partial.Failed[0].Name)
	require.Equal(t, []string{"character.json"}, host.Assets("v1.0.0"))
}

func TestPublishReleaseMissingAssetIsSurfaced(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)

	// Only the document exists on the branch.
	_, err := svc.CommitFiles(context.Background(), repo, "main", []vcs.FileSnapshot{
		{Path: "character.json", Content: []byte(`{"v":1}`)},
	}, "v1")
	require.NoError(t, err)

	_, err = svc.PublishRelease(context.Background(), repo, "v1.0.0", "First", "notes", "main", releaseAssets)

	var partial *vcs.PartialPublishError
	require.ErrorAs(t, err, &partial)
	require.Equal(t, []string{"character.json"}, partial.Uploaded)
	require.Equal(t, "card.png", partial.Failed[0].Name)
}

func TestPublishReleaseTargetBranchMissing(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)

	_, err := svc.PublishRelease(context.Background(), repo, "v1.0.0", "First", "notes", "nope", releaseAssets)

	var te *vcs.TransportError
	require.ErrorAs(t, err, &te)
}

func TestListReleasesNewestFirst(t *testing.T) {
	svc, _ := publishFixture(t)
	ctx := context.Background()

	_, err := svc.PublishRelease(ctx, repo, "v1.0.0", "First", "", "main", releaseAssets)
	require.NoError(t, err)
	_, err = svc.PublishRelease(ctx, repo, "v1.1.0", "Second", "", "main", releaseAssets)
	require.NoError(t, err)

	releases, err := svc.ListReleases(ctx, repo, 10)
	require.NoError(t, err)
	require.Len(t, releases, 2)
	require.Equal(t, "v1.1.0", releases[0].TagName)
	require.Equal(t, "v1.0.0", releases[1].TagName)
}

func TestForkAndPullRequest(t *testing.T) {
	host := seededHost(t)
	host.Fork = githost.ForkResult{Owner: "me", Name: "cards", Pending: true}
	svc := vcs.New(host)

	fork, err := svc.Fork(context.Background(), repo)
	require.NoError(t, err)
	require.True(t, fork.Pending, "fork completion is asynchronous; callers re-check")

	pr, err := svc.OpenPullRequest(context.Background(), repo, "me:main", "main", "update character", "")
	require.NoError(t, err)
	require.Equal(t, 1, pr.Number)
}
