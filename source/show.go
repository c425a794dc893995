package source

import (
	"context"
	"fmt"

	"github.com/samber/mo"

	"github.com/torii-cli/torii/anilist"
	"github.com/torii-cli/torii/log"
)

// Episodes holds the per-translation episode availability of a show.
type Episodes struct {
	Sub int `json:"sub"`
	Dub int `json:"dub"`
}

// Show represents a media entity discovered through a provider search.
type Show struct {
	Name   string `json:"name"`
	ID     string `json:"id"`
	Index  uint16 `json:"index"`
	Source Source `json:"-"`

	AvailableEpisodes Episodes `json:"availableEpisodes"`

	// Anilist holds the canonical metadata once the show has been bound.
	Anilist mo.Option[*anilist.Anime] `json:"anilist"`
}

func (s *Show) String() string {
	return s.Name
}

// BindWithAnilist resolves the show's name against Anilist and attaches the
// canonical metadata. A show already bound is left untouched.
func (s *Show) BindWithAnilist(ctx context.Context, client *anilist.Client) error {
	if s.Anilist.IsPresent() {
		return nil
	}

	log.Infof("binding %s with anilist", s.Name)
	anime, err := client.FindClosest(ctx, s.Name)
	if err != nil {
		log.Error(err)
		return err
	}

	s.Anilist = mo.Some(anime)
	return nil
}

// Title returns the canonical title when bound, the provider name otherwise.
func (s *Show) Title() string {
	if anime, ok := s.Anilist.Get(); ok {
		return anime.Name()
	}
	return s.Name
}

// EpisodesLabel renders the availability for list output, e.g. "12 sub / 10 dub".
func (s *Show) EpisodesLabel() string {
	return fmt.Sprintf("%d sub / %d dub", s.AvailableEpisodes.Sub, s.AvailableEpisodes.Dub)
}
