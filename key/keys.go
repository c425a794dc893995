// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Search Interaction - these keys define the discovery behaviour of the search commands.
const (
	SearchShowQuerySuggestions = "search.show_query_suggestions"
	SearchLimit                = "search.limit"
	SearchFetchMetadata        = "search.fetch_metadata"
)

// Provider Source Identifiers - these keys manage the registration and selection of aggregator providers.
const (
	DefaultSources = "sources.default"
)

// History Tracking - these keys configure the persistence of tracking activity.
const (
	HistorySaveOnTrack = "history.save_on_track"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Anilist Service Integration - these keys manage authentication with the Anilist tracker.
const (
	AnilistID       = "anilist.id"
	AnilistSecret   = "anilist.secret"
	AnilistPageSize = "anilist.page_size"
)

// Mangadex Service Integration - these keys manage authentication with the Mangadex tracker.
const (
	MangadexID       = "mangadex.id"
	MangadexSecret   = "mangadex.secret"
	MangadexPageSize = "mangadex.page_size"
)

// Network - these keys govern outbound HTTP behaviour.
const (
	NetworkTimeoutSeconds = "network.timeout_seconds"
)

// Logging - these keys control the diagnostic logging subsystem.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Behaviour - these keys define the global command-line experience.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)
