package vcs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gomantics/cardvault/libs/githost"
)

var (
	ErrBranchNotFound     = errors.New("branch not found")
	ErrBaseBranchNotFound = errors.New("base branch not found")
	ErrRemoteConflict     = errors.New("remote state changed underneath this update")
	ErrCommitNotFound     = errors.New("commit not found")

	// ErrNoPatch is returned by GetPatch when the commit records no
	// textual change for the requested file (binary content, or the
	// file was untouched in that commit).
	ErrNoPatch = errors.New("no textual change recorded for file")
)

// TransportError wraps any provider or network failure the core does not
// reinterpret. It is never retried here; callers own retry policy because
// multi-step commits are not idempotent.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AssetFailure records one release asset that could not be attached.
type AssetFailure struct {
	Name string
	Err  error
}

// PartialPublishError reports a release where creation succeeded but some
// asset uploads did not. The release and the uploaded assets exist on the
// provider; callers must see exactly what made it.
type PartialPublishError struct {
	Release  githost.Release
	Uploaded []string
	Failed   []AssetFailure
}

func (e *PartialPublishError) Error() string {
	names := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		names = append(names, f.Name)
	}
	return fmt.Sprintf("release %s created but %d of %d assets failed: %s",
		e.Release.TagName, len(e.Failed), len(e.Failed)+len(e.Uploaded), strings.Join(names, ", "))
}

func transportErr(op string, err error) error {
	return &TransportError{Op: op, Err: err}
}

// branchReadErr maps a head read failure: a missing ref is actionable for
// the caller, anything else is transport. A 409 also means the ref cannot
// be resolved (empty repository).
func branchReadErr(branch string, err error) error {
	if githost.IsNotFound(err) || githost.IsConflict(err) {
		return fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
	}
	return transportErr("read branch "+branch, err)
}
