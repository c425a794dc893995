package anilist

import (
	"context"
	"fmt"

	"github.com/samber/lo"

	"github.com/torii-cli/torii/log"
	"github.com/torii-cli/torii/query"
)

// GetByID returns the anime with the given id, consulting the id cache first.
func (c *Client) GetByID(ctx context.Context, id int) (*Anime, error) {
	if anime := idCacher.Get(id); anime.IsPresent() {
		return anime.MustGet(), nil
	}

	log.Infof("Searching anilist for anime with id: %d", id)

	var data struct {
		Media *Anime `json:"Media"`
	}
	err := c.execute(ctx, searchByIDQuery, map[string]any{"id": id}, false, &data)
	if err != nil {
		log.Error(err)
		return nil, err
	}

	anime := data.Media
	if anime == nil {
		return nil, fmt.Errorf("anime with id %d not found on Anilist", id)
	}

	log.Infof("Got response from Anilist, found anime with id %d", anime.ID)
	_ = idCacher.Set(id, anime)
	return anime, nil
}

// SearchByName returns a list of animes that match the given name.
func (c *Client) SearchByName(ctx context.Context, name string) ([]*Anime, error) {
	name = normalizedName(name)
	_ = query.Remember(name, 1)

	if _, failed := failCacher.Get(name).Get(); failed {
		return nil, fmt.Errorf("failed to search for %s", name)
	}

	if ids, ok := searchCacher.Get(name).Get(); ok {
		animes := lo.FilterMap(ids, func(item, _ int) (*Anime, bool) {
			return idCacher.Get(item).Get()
		})

		if len(animes) == 0 {
			_ = searchCacher.Delete(name)
			return c.SearchByName(ctx, name)
		}

		return animes, nil
	}

	log.Infof("Searching anilist for anime %s", name)

	var data struct {
		Page struct {
			Media []*Anime `json:"media"`
		} `json:"Page"`
	}
	err := c.execute(ctx, searchByNameQuery, map[string]any{"query": name}, false, &data)
	if err != nil {
		log.Error(err)
		_ = failCacher.Set(name, true)
		return nil, err
	}

	animes := data.Page.Media
	log.Infof("Got response from Anilist, found %d results", len(animes))

	ids := make([]int, len(animes))
	for i, anime := range animes {
		ids[i] = anime.ID
		_ = idCacher.Set(anime.ID, anime)
	}
	_ = searchCacher.Set(name, ids)
	return animes, nil
}
