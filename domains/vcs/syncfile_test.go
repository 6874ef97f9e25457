package vcs_test

import (
	"context"
	"testing"

	"github.com/gomantics/cardvault/domains/vcs"
	"github.com/stretchr/testify/require"
)

func TestSyncFileCreateThenUpdate(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)
	ctx := context.Background()

	first, err := svc.SyncFile(ctx, repo, "main", "character.json", []byte(`{"v":1}`), "create")
	require.NoError(t, err)
	require.True(t, first.Created)

	// The second call reads the SHA the first call wrote; no conflict
	// without a concurrent writer.
	second, err := svc.SyncFile(ctx, repo, "main", "character.json", []byte(`{"v":2}`), "update")
	require.NoError(t, err)
	require.False(t, second.Created)
	require.NotEqual(t, first.ContentSHA, second.ContentSHA)

	content, ok := host.FileAt("main", "character.json")
	require.True(t, ok)
	require.Equal(t, []byte(`{"v":2}`), content)
}

func TestSyncFileConflictOnStaleSHA(t *testing.T) {
	host := seededHost(t)
	svc := vcs.New(host)
	ctx := context.Background()

	_, err := svc.SyncFile(ctx, repo, "main", "character.json", []byte(`{"v":1}`), "create")
	require.NoError(t, err)

	// A concurrent writer lands between our read and our write, so the
	// SHA we pass is stale by write time.
	host.BeforeContentWrite = func() {
		_, err := vcs.New(host).SyncFile(ctx, repo, "main", "character.json", []byte(`{"v":"racer"}`), "race")
		require.NoError(t, err)
	}

	_, err = svc.SyncFile(ctx, repo, "main", "character.json", []byte(`{"v":2}`), "update")
	require.ErrorIs(t, err, vcs.ErrRemoteConflict)

	content, _ := host.FileAt("main", "character.json")
	require.Equal(t, []byte(`{"v":"racer"}`), content, "the provider kept the racer's write")
}
