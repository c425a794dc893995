package mangadex

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/spf13/viper"

	"github.com/torii-cli/torii/fetcher"
	"github.com/torii-cli/torii/key"
	"github.com/torii-cli/torii/log"
)

// ReadingStatus represents the status of a manga in the user's library.
type ReadingStatus string

const (
	ReadingStatusReading    ReadingStatus = "reading"
	ReadingStatusOnHold     ReadingStatus = "on_hold"
	ReadingStatusPlanToRead ReadingStatus = "plan_to_read"
	ReadingStatusDropped    ReadingStatus = "dropped"
	ReadingStatusReReading  ReadingStatus = "re_reading"
	ReadingStatusCompleted  ReadingStatus = "completed"
)

// FollowsFetcher loads the authenticated user's followed manga one page at a time.
func (c *Client) FollowsFetcher() *fetcher.Fetcher[*Manga] {
	pageSize := viper.GetInt(key.MangadexPageSize)
	return fetcher.New(pageSize, func(ctx context.Context, offset, limit int) ([]*Manga, error) {
		return c.followsPage(ctx, offset, limit)
	})
}

func (c *Client) followsPage(ctx context.Context, offset, limit int) ([]*Manga, error) {
	params := url.Values{
		"limit":      {strconv.Itoa(limit)},
		"offset":     {strconv.Itoa(offset)},
		"includes[]": {"cover_art"},
	}

	var mangas []*Manga
	if err := c.get(ctx, "/user/follows/manga", params, true, &mangas); err != nil {
		return nil, err
	}

	log.Infof("Fetched %d followed manga from Mangadex at offset %d", len(mangas), offset)
	return mangas, nil
}

// Follow adds the manga to the user's library.
func (c *Client) Follow(ctx context.Context, mangaID string) error {
	return c.post(ctx, "/manga/"+mangaID+"/follow", nil, nil)
}

// Unfollow removes the manga from the user's library.
func (c *Client) Unfollow(ctx context.Context, mangaID string) error {
	return c.do(ctx, http.MethodDelete, "/manga/"+mangaID+"/follow", nil, nil, true, nil)
}

// ReadingStatusOf returns the user's reading status for the manga, or empty
// when the manga is not in the library.
func (c *Client) ReadingStatusOf(ctx context.Context, mangaID string) (ReadingStatus, error) {
	var data struct {
		Status ReadingStatus `json:"status"`
	}
	err := c.get(ctx, "/manga/"+mangaID+"/status", nil, true, &data)
	if err != nil {
		return "", err
	}
	return data.Status, nil
}

// SetReadingStatus updates the user's reading status for the manga.
func (c *Client) SetReadingStatus(ctx context.Context, mangaID string, status ReadingStatus) error {
	payload := map[string]ReadingStatus{"status": status}
	if err := c.post(ctx, "/manga/"+mangaID+"/status", payload, nil); err != nil {
		return err
	}

	log.Infof("Set Mangadex reading status of %s to %s", mangaID, status)
	return nil
}
