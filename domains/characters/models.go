package characters

// Well-known artifact paths inside a character repository. The commit
// machinery below this package treats them as ordinary file entries.
const (
	DocumentPath = "character.json"
	ImagePath    = "card.png"
)

// DefaultBranch is where character versions live unless a caller says
// otherwise.
const DefaultBranch = "main"

// SaveParams describes one atomic save: the JSON document always, the
// card image when the editor produced a new one.
type SaveParams struct {
	RepoURL string
	Branch  string
	Message string

	Document []byte
	Image    []byte
}

// PublishParams describes a release of the current branch state.
type PublishParams struct {
	RepoURL string
	Version string
	Title   string
	Notes   string
	Branch  string
}
