package artifacts

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExportForwardsAuthHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/characters/export", r.URL.Path)
		require.Equal(t, "ava-1", r.URL.Query().Get("avatar"))
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.Equal(t, "session=abc", r.Header.Get("Cookie"))
		w.Write([]byte{0xCA, 0xFE})
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	auth := http.Header{}
	auth.Set("Authorization", "Bearer tok")
	auth.Set("Cookie", "session=abc")

	snapshot, err := client.Export(context.Background(), "ava-1", auth)
	require.NoError(t, err)
	require.Equal(t, []byte{0xCA, 0xFE}, snapshot)
}

func TestExportSurfacesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	_, err := client.Export(context.Background(), "ava-1", nil)
	require.ErrorContains(t, err, "export failed")
}

func TestImportPostsSnapshot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/characters/import", r.URL.Path)
		require.Equal(t, "card.png", r.URL.Query().Get("preserve"))
		require.Equal(t, "application/octet-stream", r.Header.Get("Content-Type"))

		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, []byte{1, 2, 3}, body)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":"new"}`))
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	descriptor, err := client.Import(context.Background(), []byte{1, 2, 3}, "card.png", nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"id":"new"}`, string(descriptor))
}

func TestImportSurfacesUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewWithBaseURL(srv.URL)
	_, err := client.Import(context.Background(), []byte{1}, "card.png", nil)
	require.ErrorContains(t, err, "import failed")
}
