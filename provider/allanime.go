package provider

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/torii-cli/torii/apierr"
	"github.com/torii-cli/torii/log"
	"github.com/torii-cli/torii/network"
	"github.com/torii-cli/torii/source"
)

const (
	allAnimeAPIURL  = "https://api.allanime.day/api"
	allAnimeReferer = "https://allmanga.to"

	// Persisted search query of the aggregator's GraphQL-over-GET API.
	allAnimeSearchQuery = `query ($search: SearchInput, $limit: Int, $page: Int, $translationType: VaildTranslationTypeEnumType, $countryOrigin: VaildCountryOriginEnumType) {
	shows(search: $search, limit: $limit, page: $page, translationType: $translationType, countryOrigin: $countryOrigin) {
		edges {
			_id
			name
			availableEpisodes
		}
	}
}`
)

// allAnimeSource searches the AllAnime aggregator. The endpoint rejects the
// standard Go TLS stack, so requests go through the spoofed-fingerprint client.
type allAnimeSource struct{}

func (s *allAnimeSource) Name() string { return "allanime" }
func (s *allAnimeSource) ID() string   { return "allanime builtin" }

type allAnimeResponse struct {
	Data struct {
		Shows struct {
			Edges []struct {
				ID                string `json:"_id"`
				Name              string `json:"name"`
				AvailableEpisodes struct {
					Sub int `json:"sub"`
					Dub int `json:"dub"`
				} `json:"availableEpisodes"`
			} `json:"edges"`
		} `json:"shows"`
	} `json:"data"`
}

// SearchShows queries the aggregator for shows matching the query.
func (s *allAnimeSource) SearchShows(query string) ([]*source.Show, error) {
	variables := map[string]any{
		"search":          map[string]any{"query": query},
		"limit":           26,
		"page":            1,
		"translationType": "sub",
		"countryOrigin":   "ALL",
	}

	jsonVariables, err := json.Marshal(variables)
	if err != nil {
		return nil, err
	}

	params := url.Values{
		"variables": {string(jsonVariables)},
		"query":     {allAnimeSearchQuery},
	}

	req, err := http.NewRequest(http.MethodGet, allAnimeAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	network.BrowserHeaders(req)
	req.Header.Set("Referer", allAnimeReferer)

	resp, err := network.TLSClient().Do(req)
	if err != nil {
		// CDN edges occasionally refuse h2; retry once over HTTP/1.1.
		log.Warnf("allanime: h2 request failed, retrying over http/1.1: %v", err)
		resp, err = network.TLSClientH1().Do(req)
		if err != nil {
			return nil, apierr.FromTransport(err)
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &apierr.HTTPError{Status: resp.StatusCode}
	}

	var response allAnimeResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, &apierr.ParseError{Cause: err}
	}

	edges := response.Data.Shows.Edges
	shows := make([]*source.Show, len(edges))
	for i, edge := range edges {
		shows[i] = &source.Show{
			ID:     edge.ID,
			Name:   edge.Name,
			Index:  uint16(i),
			Source: s,
			AvailableEpisodes: source.Episodes{
				Sub: edge.AvailableEpisodes.Sub,
				Dub: edge.AvailableEpisodes.Dub,
			},
		}
	}

	log.Infof("allanime search for %q returned %d shows", query, len(shows))
	return shows, nil
}

var _ source.Source = (*allAnimeSource)(nil)
