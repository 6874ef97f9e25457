package githost

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v48/github"
	"github.com/stretchr/testify/require"
)

// newTestClient points a Client at a local provider stub.
func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	gh := github.NewClient(nil)
	base, err := url.Parse(srv.URL + "/api/v3/")
	require.NoError(t, err)
	gh.BaseURL = base

	return &Client{gh: gh, http: srv.Client()}, srv
}

func TestGetContentsInlinePayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/acme/cards/contents/character.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// "eyJ2IjoxfQ==" is base64 of {"v":1}
		fmt.Fprint(w, `{"type":"file","name":"character.json","path":"character.json","sha":"abc123","size":7,"encoding":"base64","content":"eyJ2IjoxfQ=="}`)
	})
	client, _ := newTestClient(t, mux)

	content, err := client.GetContents(context.Background(), RepoRef{Owner: "acme", Name: "cards"}, "character.json", "main")
	require.NoError(t, err)
	require.True(t, content.Found)
	require.Equal(t, "abc123", content.SHA)
	require.JSONEq(t, `{"v":1}`, string(content.Content))
}

func TestGetContentsLargeFileFallsBackToDownloadURL(t *testing.T) {
	payload := []byte{0x89, 0x50, 0x4e, 0x47}

	var serverURL string
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/acme/cards/contents/card.png", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		// Between 1 MB and 100 MB the provider sends no inline payload.
		fmt.Fprintf(w, `{"type":"file","name":"card.png","path":"card.png","sha":"def456","size":2097152,"encoding":"none","content":"","download_url":"%s/raw/card.png"}`, serverURL)
	})
	mux.HandleFunc("/raw/card.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	})
	client, srv := newTestClient(t, mux)
	serverURL = srv.URL

	content, err := client.GetContents(context.Background(), RepoRef{Owner: "acme", Name: "cards"}, "card.png", "main")
	require.NoError(t, err)
	require.True(t, content.Found)
	require.Equal(t, "def456", content.SHA)
	require.Equal(t, payload, content.Content)
}

func TestGetContentsMissingPath(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v3/repos/acme/cards/contents/nope.json", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	client, _ := newTestClient(t, mux)

	content, err := client.GetContents(context.Background(), RepoRef{Owner: "acme", Name: "cards"}, "nope.json", "main")
	require.NoError(t, err)
	require.False(t, content.Found)
}
