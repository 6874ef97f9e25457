package sessions

// Session binds one editor login to a provider access token. The token is
// stored encrypted and only ever leaves this package decrypted into the
// request that needs it; no operation reads it from process globals.
type Session struct {
	ID       string
	User     string
	Provider string
	Created  int64
	Updated  int64
}

// CreateParams contains parameters for opening a session
type CreateParams struct {
	User     string
	Provider string
	Token    string
}
