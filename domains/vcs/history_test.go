package vcs_test

import (
	"context"
	"testing"

	"github.com/gomantics/cardvault/domains/vcs"
	"github.com/gomantics/cardvault/libs/githost"
	"github.com/stretchr/testify/require"
)

func TestListHistoryNewestFirst(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)
	ctx := context.Background()

	v1, err := svc.CommitFiles(ctx, repo, "main", []vcs.FileSnapshot{
		{Path: "character.json", Content: []byte(`{"v":1}`)},
	}, "v1")
	require.NoError(t, err)

	v2, err := svc.CommitFiles(ctx, repo, "main", []vcs.FileSnapshot{
		{Path: "character.json", Content: []byte(`{"v":2}`)},
	}, "v2")
	require.NoError(t, err)

	commits, err := svc.ListHistory(ctx, repo, "main", "")
	require.NoError(t, err)
	require.Len(t, commits, 3)
	require.Equal(t, v2.SHA, commits[0].SHA)
	require.Equal(t, v1.SHA, commits[1].SHA)
	require.Equal(t, "v2", commits[0].Message)
}

func TestListHistoryFiltersByPath(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)
	ctx := context.Background()

	_, err := svc.CommitFiles(ctx, repo, "main", []vcs.FileSnapshot{
		{Path: "character.json", Content: []byte(`{"v":1}`)},
	}, "doc change")
	require.NoError(t, err)

	imageCommit, err := svc.CommitFiles(ctx, repo, "main", []vcs.FileSnapshot{
		{Path: "card.png", Content: []byte{1}, Binary: true},
	}, "image change")
	require.NoError(t, err)

	commits, err := svc.ListHistory(ctx, repo, "main", "card.png")
	require.NoError(t, err)
	require.Len(t, commits, 1)
	require.Equal(t, imageCommit.SHA, commits[0].SHA)
}

func TestListHistoryBranchMissing(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)

	_, err := svc.ListHistory(context.Background(), repo, "nope", "")
	require.ErrorIs(t, err, vcs.ErrBranchNotFound)
}

func TestGetPatch(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)
	ctx := context.Background()

	commit, err := svc.CommitFiles(ctx, repo, "main", []vcs.FileSnapshot{
		{Path: "character.json", Content: []byte(`{"v":1}`)},
	}, "v1")
	require.NoError(t, err)

	host.CommitFiles[commit.SHA] = []githost.CommitFile{
		{Filename: "character.json", Patch: "@@ -0,0 +1 @@\n+{\"v\":1}", HasPatch: true},
		{Filename: "card.png"},
	}

	patch, err := svc.GetPatch(ctx, repo, commit.SHA, "character.json")
	require.NoError(t, err)
	require.Contains(t, patch, `{"v":1}`)
}

func TestGetPatchNoTextualChange(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)
	ctx := context.Background()

	commit, err := svc.CommitFiles(ctx, repo, "main", []vcs.FileSnapshot{
		{Path: "card.png", Content: []byte{1}, Binary: true},
	}, "image only")
	require.NoError(t, err)

	host.CommitFiles[commit.SHA] = []githost.CommitFile{
		{Filename: "card.png"}, // binary: no patch recorded
	}

	// Binary file: present in the commit without a patch.
	_, err = svc.GetPatch(ctx, repo, commit.SHA, "card.png")
	require.ErrorIs(t, err, vcs.ErrNoPatch)

	// File untouched in this commit: absent from the file list.
	_, err = svc.GetPatch(ctx, repo, commit.SHA, "character.json")
	require.ErrorIs(t, err, vcs.ErrNoPatch)
}
