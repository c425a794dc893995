package mangadex

import (
	"context"
	"net/url"
	"strconv"

	"github.com/spf13/viper"

	"github.com/torii-cli/torii/fetcher"
	"github.com/torii-cli/torii/key"
	"github.com/torii-cli/torii/log"
	"github.com/torii-cli/torii/query"
)

// SearchFetcher loads manga matching the title one page at a time.
func (c *Client) SearchFetcher(title string) *fetcher.Fetcher[*Manga] {
	_ = query.Remember(title, 1)

	pageSize := viper.GetInt(key.MangadexPageSize)
	return fetcher.New(pageSize, func(ctx context.Context, offset, limit int) ([]*Manga, error) {
		return c.searchPage(ctx, title, offset, limit)
	})
}

func (c *Client) searchPage(ctx context.Context, title string, offset, limit int) ([]*Manga, error) {
	params := url.Values{
		"title":      {title},
		"limit":      {strconv.Itoa(limit)},
		"offset":     {strconv.Itoa(offset)},
		"includes[]": {"cover_art"},
	}

	var mangas []*Manga
	if err := c.get(ctx, "/manga", params, false, &mangas); err != nil {
		return nil, err
	}

	log.Infof("Mangadex search for %q returned %d results at offset %d", title, len(mangas), offset)
	return mangas, nil
}

// GetByID returns the manga with the given id.
func (c *Client) GetByID(ctx context.Context, id string) (*Manga, error) {
	params := url.Values{
		"includes[]": {"cover_art"},
	}

	var manga Manga
	if err := c.get(ctx, "/manga/"+id, params, false, &manga); err != nil {
		return nil, err
	}
	return &manga, nil
}
