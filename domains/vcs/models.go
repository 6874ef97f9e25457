package vcs

// FileSnapshot is the logical unit the commit machinery manipulates: one
// path with its full new content. Binary selects base64 blob encoding;
// text content is passed through as-is.
type FileSnapshot struct {
	Path    string
	Content []byte
	Binary  bool
}

// TrackedFile names one path the rollback engine restores. Content absent
// at the target commit resolves to "nothing to restore", not an error.
type TrackedFile struct {
	Path   string
	Binary bool
}

// CommitResult describes a commit the engine created and published.
type CommitResult struct {
	SHA     string
	TreeSHA string
	Parent  string
}

// SyncResult describes a single-file create-or-update.
type SyncResult struct {
	CommitSHA  string
	ContentSHA string
	Created    bool
}

// BranchCreation describes the outcome of EnsureBranch.
type BranchCreation struct {
	Branch       string
	HeadSHA      string
	Bootstrapped bool
}

// RevertResult carries the restored contents keyed by path, plus the
// revert commit that published them.
type RevertResult struct {
	Commit   CommitResult
	Restored map[string][]byte
}

// ReleaseAsset names one artifact to read from the target branch and
// attach to a release.
type ReleaseAsset struct {
	Name        string
	Path        string
	ContentType string
}
