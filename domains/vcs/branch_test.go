package vcs_test

import (
	"context"
	"testing"

	"github.com/gomantics/cardvault/domains/vcs"
	"github.com/gomantics/cardvault/domains/vcs/vcstest"
	"github.com/stretchr/testify/require"
)

func TestEnsureBranchFromBase(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)

	result, err := svc.EnsureBranch(context.Background(), repo, "edits", "main", nil)
	require.NoError(t, err)

	require.Equal(t, "edits", result.Branch)
	require.False(t, result.Bootstrapped)
	require.Equal(t, host.Head("main"), result.HeadSHA)
	require.Equal(t, host.Head("main"), host.Head("edits"))
}

func TestEnsureBranchBaseMissing(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)

	_, err := svc.EnsureBranch(context.Background(), repo, "edits", "nope", nil)
	require.ErrorIs(t, err, vcs.ErrBaseBranchNotFound)
}

func TestEnsureBranchExistingDefault(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)

	result, err := svc.EnsureBranch(context.Background(), repo, "main", "", nil)
	require.NoError(t, err)

	require.Equal(t, "main", result.Branch)
	require.False(t, result.Bootstrapped)
	require.Equal(t, host.Head("main"), result.HeadSHA)
}

func TestEnsureBranchFromDefaultHead(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)

	result, err := svc.EnsureBranch(context.Background(), repo, "edits", "", nil)
	require.NoError(t, err)

	require.False(t, result.Bootstrapped)
	require.Equal(t, host.Head("main"), host.Head("edits"))
	_ = result
}

func TestEnsureBranchBootstrapsEmptyRepository(t *testing.T) {
	host := vcstest.NewEmptyHost("main")
	svc := vcs.New(host)

	result, err := svc.EnsureBranch(context.Background(), repo, "main", "", []byte("# hello"))
	require.NoError(t, err)

	require.True(t, result.Bootstrapped)
	require.Equal(t, result.HeadSHA, host.Head("main"), "the seed write created branch and first commit together")

	readme, ok := host.FileAt("main", "README.md")
	require.True(t, ok)
	require.Equal(t, []byte("# hello"), readme)
	require.Equal(t, "initial commit", host.Message(result.HeadSHA))
}

func TestEnsureBranchExistingDivergedBranch(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)
	ctx := context.Background()

	_, err := svc.EnsureBranch(ctx, repo, "edits", "main", nil)
	require.NoError(t, err)

	commit, err := svc.CommitFiles(ctx, repo, "edits", []vcs.FileSnapshot{
		{Path: "character.json", Content: []byte(`{"v":1}`)},
	}, "diverge")
	require.NoError(t, err)

	result, err := svc.EnsureBranch(ctx, repo, "edits", "main", nil)
	require.NoError(t, err)
	require.Equal(t, commit.SHA, result.HeadSHA, "the existing branch's own head, not the base's")
	require.Equal(t, commit.SHA, host.Head("edits"), "the diverged branch is left alone")
}

func TestListBranches(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)
	ctx := context.Background()

	_, err := svc.EnsureBranch(ctx, repo, "edits", "main", nil)
	require.NoError(t, err)

	branches, err := svc.ListBranches(ctx, repo)
	require.NoError(t, err)
	require.Equal(t, []string{"edits", "main"}, branches)
}

func TestEnsureBranchBootstrapDefaultSeed(t *testing.T) {
	host := vcstest.NewEmptyHost("main")
	svc := vcs.New(host)

	result, err := svc.EnsureBranch(context.Background(), repo, "main", "", nil)
	require.NoError(t, err)
	require.True(t, result.Bootstrapped)

	_, ok := host.FileAt("main", "README.md")
	require.True(t, ok)
}
