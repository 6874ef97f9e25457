package vcs_test

import (
	"context"
	"strings"
	"testing"

	"github.com/gomantics/cardvault/domains/vcs"
	"github.com/gomantics/cardvault/domains/vcs/vcstest"
	"github.com/gomantics/cardvault/libs/githost"
	"github.com/stretchr/testify/require"
)

var repo = githost.RepoRef{Owner: "acme", Name: "cards"}

func seededHost(t *testing.T) *vcstest.Host {
	t.Helper()
	return vcstest.NewHost("main", map[string][]byte{
		"README.md": []byte("# cards\n"),
	})
}

func TestCommitFilesTwoFilesOneCommit(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)
	before := host.Head("main")

	result, err := svc.CommitFiles(context.Background(), repo, "main", []vcs.FileSnapshot{
		{Path: "character.json", Content: []byte(`{"a":1}`)},
		{Path: "card.png", Content: []byte{0x89, 0x50, 0x4e, 0x47}, Binary: true},
	}, "update")
	require.NoError(t, err)

	require.Equal(t, before, result.Parent)
	require.Equal(t, result.SHA, host.Head("main"))

	tree := host.TreeOf(result.SHA)
	require.Contains(t, tree, "character.json")
	require.Contains(t, tree, "card.png")
	require.Contains(t, tree, "README.md", "untouched paths are inherited from the base tree")

	doc, ok := host.FileAt("main", "character.json")
	require.True(t, ok)
	require.Equal(t, []byte(`{"a":1}`), doc)

	img, ok := host.FileAt("main", "card.png")
	require.True(t, ok)
	require.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, img, "binary content survives base64 round trip")
}

func TestCommitFilesRefUpdateIsLastMutation(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)

	_, err := svc.CommitFiles(context.Background(), repo, "main", []vcs.FileSnapshot{
		{Path: "a.txt", Content: []byte("a")},
		{Path: "b.txt", Content: []byte("b")},
	}, "update")
	require.NoError(t, err)

	var refIndexes []int
	for i, event := range host.Events {
		if strings.HasPrefix(event, "ref:") {
			refIndexes = append(refIndexes, i)
		}
	}
	require.Len(t, refIndexes, 1, "exactly one visible mutation")
	require.Equal(t, len(host.Events)-1, refIndexes[0], "the ref update happens after every object creation")
}

func TestCommitFilesEmptyListStillCommits(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)
	before := host.Head("main")
	baseTree := host.TreeOf(before)

	result, err := svc.CommitFiles(context.Background(), repo, "main", nil, "noop")
	require.NoError(t, err)

	require.NotEqual(t, before, result.SHA, "the branch still advances")
	require.Equal(t, before, result.Parent)
	require.Equal(t, baseTree, host.TreeOf(result.SHA), "tree content equals the base tree")
}

func TestCommitFilesBranchMissing(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)

	_, err := svc.CommitFiles(context.Background(), repo, "nope", []vcs.FileSnapshot{
		{Path: "a.txt", Content: []byte("a")},
	}, "update")
	require.ErrorIs(t, err, vcs.ErrBranchNotFound)
}

func TestCommitFilesConflictWhenBranchMoves(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)

	// A racing writer advances the branch between the head read and the
	// ref update.
	host.BeforeRefUpdate = func() {
		_, err := vcs.New(host).CommitFiles(context.Background(), repo, "main", []vcs.FileSnapshot{
			{Path: "racer.txt", Content: []byte("raced")},
		}, "racing commit")
		require.NoError(t, err)
	}

	_, err := svc.CommitFiles(context.Background(), repo, "main", []vcs.FileSnapshot{
		{Path: "a.txt", Content: []byte("a")},
	}, "update")
	require.ErrorIs(t, err, vcs.ErrRemoteConflict)

	_, ok := host.FileAt("main", "racer.txt")
	require.True(t, ok, "the racing commit wins; the loser retries from scratch")
	_, ok = host.FileAt("main", "a.txt")
	require.False(t, ok, "the losing commit never becomes visible")
}
