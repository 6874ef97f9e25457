package artifacts

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/gomantics/cardvault/config"
)

// Client talks to the host editor's artifact exchange service: an opaque
// byte-producing/consuming HTTP collaborator that exports a character as a
// binary card snapshot and imports one back. Caller-supplied auth headers
// are forwarded unmodified; this client adds none of its own.
type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the configured exchange service.
func New() *Client {
	return &Client{
		baseURL: config.Artifacts.BaseURL(),
		http:    &http.Client{Timeout: config.Artifacts.Timeout()},
	}
}

// NewWithBaseURL returns a client against an explicit endpoint.
func NewWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: config.Artifacts.Timeout()},
	}
}

// Export fetches the binary card snapshot for an avatar.
func (c *Client) Export(ctx context.Context, avatarID string, auth http.Header) ([]byte, error) {
	u := fmt.Sprintf("%s/api/characters/export?avatar=%s", c.baseURL, url.QueryEscape(avatarID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	forward(req, auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("export failed: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Import pushes a binary card snapshot back into the editor, preserving
// the artifact's name, and returns the editor's descriptor response.
func (c *Client) Import(ctx context.Context, snapshot []byte, preservedName string, auth http.Header) ([]byte, error) {
	u := fmt.Sprintf("%s/api/characters/import?preserve=%s", c.baseURL, url.QueryEscape(preservedName))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(snapshot))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	forward(req, auth)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("import failed: %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func forward(req *http.Request, auth http.Header) {
	for name, values := range auth {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}
}
