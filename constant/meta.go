// Package constant defines immutable application-level identifiers.
package constant

const (
	// Kolekk is the canonical application identifier used for filesystem paths and CLI branding.
	Kolekk = "kolekk"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is sent with every request to remote catalogs.
	UserAgent = Kolekk + "/" + Version + " (+https://github.com/thrombe/kolekk)"

	// BrowserUserAgent is used by scripted providers that scrape HTML pages.
	BrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Build metadata, set with -ldflags "-X".
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)
