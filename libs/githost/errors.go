package githost

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/go-github/v48/github"
)

// StatusCode extracts the HTTP status from a provider error response.
// Returns 0 for errors that never reached the provider (network, context).
func StatusCode(err error) int {
	var er *github.ErrorResponse
	if errors.As(err, &er) && er.Response != nil {
		return er.Response.StatusCode
	}
	return 0
}

// IsNotFound reports whether the provider answered 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsConflict reports whether the provider answered 409. The contents API
// uses this for stale-SHA rejections; the Git Data API uses it for reads
// against an empty repository.
func IsConflict(err error) bool {
	return StatusCode(err) == http.StatusConflict
}

// IsUnprocessable reports whether the provider answered 422, which is how
// a non-fast-forward ref update is rejected.
func IsUnprocessable(err error) bool {
	return StatusCode(err) == http.StatusUnprocessableEntity
}

// IsRefAlreadyExists reports whether the provider rejected a ref creation
// because the ref exists. Other 422 causes (malformed ref name, unknown
// object) do not match.
func IsRefAlreadyExists(err error) bool {
	var er *github.ErrorResponse
	if !errors.As(err, &er) || er.Response == nil {
		return false
	}
	return er.Response.StatusCode == http.StatusUnprocessableEntity &&
		strings.Contains(er.Message, "already exists")
}
