// Package key defines every configuration identifier understood by kolekk.
package key

// Search Behavior - these keys tune how sessions page and how interactive search coalesces typing.
const (
	SearchDebounce             = "search.debounce"
	SearchPageSize             = "search.page_size"
	SearchShowQuerySuggestions = "search.show_query_suggestions"
)

// Local Store - these keys configure the full-text object and tag index.
const (
	StoreInMemory = "store.in_memory"
)

// Remote Catalogs - these keys hold endpoints and credentials for the remote search backends.
const (
	TMDBIncludeAdult = "tmdb.include_adult"
	TMDBAPIKey       = "tmdb.api_key"
	LastFMAPIKey     = "lastfm.api_key"
	TachideskURL     = "tachidesk.url"
	TachideskLatest  = "tachidesk.latest"
	MalClientID      = "mal.client_id"
)

// Network Transport - these keys govern the shared HTTP client.
const (
	NetworkTimeout = "network.timeout"
)

// Provider Source Identifiers - these keys select the default scripted catalog.
const (
	DefaultSources    = "sources.default"
	SourcesRepository = "sources.repository"
)

// Opening Results - these keys choose how selected URLs are launched.
const (
	OpenWith = "open.with"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Terminal User Interface (TUI) - these keys define the interactive search view.
const (
	TUIItemSpacing        = "tui.item_spacing"
	TUISearchPromptString = "tui.search_prompt"
	TUIShowURLs           = "tui.show_urls"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the non-TUI application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
