// Package source defines the domain models and interface for show discovery
// through streaming aggregators.
package source

// Source defines the required capabilities of an aggregator search provider.
type Source interface {
	// Name returns the display name of the provider.
	Name() string

	// ID returns the unique identifier of the source.
	ID() string

	// SearchShows executes a query against the provider to discover matching shows.
	SearchShows(query string) ([]*Show, error)
}
