package anilist

import (
	"context"

	"github.com/spf13/viper"

	"github.com/torii-cli/torii/fetcher"
	"github.com/torii-cli/torii/key"
	"github.com/torii-cli/torii/log"
)

// ListFetcher loads the authenticated user's anime list one page at a time.
// The fetcher is held on the client so a later SaveEntry can patch the loaded
// entries in place; asking for a different viewer starts a fresh one.
func (c *Client) ListFetcher(viewerID int) *fetcher.Fetcher[*MediaListEntry] {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.list == nil || c.listViewer != viewerID {
		pageSize := viper.GetInt(key.AnilistPageSize)
		c.list = fetcher.New(pageSize, func(ctx context.Context, offset, limit int) ([]*MediaListEntry, error) {
			return c.mediaListPage(ctx, viewerID, offset, limit)
		})
		c.listViewer = viewerID
	}
	return c.list
}

// mediaListPage fetches one page of the user's anime list. Anilist paginates
// by page number, so the offset is translated back into one; the fetcher only
// ever asks for aligned offsets.
func (c *Client) mediaListPage(ctx context.Context, viewerID, offset, limit int) ([]*MediaListEntry, error) {
	page := offset/limit + 1

	var data struct {
		Page struct {
			MediaList []*MediaListEntry `json:"mediaList"`
		} `json:"Page"`
	}
	err := c.execute(ctx, mediaListQuery, map[string]any{
		"userId":  viewerID,
		"page":    page,
		"perPage": limit,
	}, true, &data)
	if err != nil {
		return nil, err
	}

	log.Infof("Fetched %d anime list entries from Anilist (page %d)", len(data.Page.MediaList), page)
	return data.Page.MediaList, nil
}

// SaveEntry creates or updates the user's list entry for an anime and returns
// the entry as the server recorded it.
func (c *Client) SaveEntry(ctx context.Context, mediaID, progress int, status MediaListStatus) (*MediaListEntry, error) {
	var data struct {
		SaveMediaListEntry *MediaListEntry `json:"SaveMediaListEntry"`
	}
	err := c.execute(ctx, saveMediaListEntryMutation, map[string]any{
		"mediaId":  mediaID,
		"progress": progress,
		"status":   status,
	}, true, &data)
	if err != nil {
		return nil, err
	}

	entry := data.SaveMediaListEntry

	// Replace the matching row of a previously loaded list with the state
	// the server recorded, instead of re-fetching the whole list.
	c.mu.Lock()
	list := c.list
	c.mu.Unlock()
	if list != nil && entry != nil {
		list.Patch(
			func(e *MediaListEntry) bool { return e.ID == entry.ID },
			func(*MediaListEntry) *MediaListEntry { return entry },
		)
	}

	log.Infof("Saved Anilist list entry for media %d", mediaID)
	return entry, nil
}

// DeleteEntry removes the user's list entry.
func (c *Client) DeleteEntry(ctx context.Context, entryID int) error {
	var data struct {
		DeleteMediaListEntry struct {
			Deleted bool `json:"deleted"`
		} `json:"DeleteMediaListEntry"`
	}
	err := c.execute(ctx, deleteMediaListEntryMutation, map[string]any{"id": entryID}, true, &data)
	if err != nil {
		return err
	}

	log.Infof("Deleted Anilist list entry %d", entryID)
	return nil
}
