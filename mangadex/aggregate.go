package mangadex

import (
	"context"
	"net/url"

	"golang.org/x/exp/slices"
)

// AggregateVolume is one volume entry of the aggregate response.
type AggregateVolume struct {
	Volume   string `json:"volume"`
	Count    int    `json:"count"`
	Chapters map[string]struct {
		Chapter string `json:"chapter"`
		Count   int    `json:"count"`
	} `json:"chapters"`
}

// Aggregate is the condensed volume and chapter layout of a manga, used for
// progress tracking without loading full chapter feeds.
type Aggregate struct {
	Volumes map[string]AggregateVolume `json:"volumes"`
}

// ChapterCount returns the total number of distinct chapters.
func (a *Aggregate) ChapterCount() int {
	total := 0
	for _, volume := range a.Volumes {
		total += len(volume.Chapters)
	}
	return total
}

// ChapterNumbers returns the sorted list of chapter labels across all volumes.
func (a *Aggregate) ChapterNumbers() []string {
	var numbers []string
	for _, volume := range a.Volumes {
		for _, chapter := range volume.Chapters {
			numbers = append(numbers, chapter.Chapter)
		}
	}
	slices.Sort(numbers)
	return numbers
}

// GetAggregate returns the volume and chapter layout of the manga, optionally
// filtered by translated language.
func (c *Client) GetAggregate(ctx context.Context, mangaID, language string) (*Aggregate, error) {
	var params url.Values
	if language != "" {
		params = url.Values{"translatedLanguage[]": {language}}
	}

	var aggregate Aggregate
	if err := c.get(ctx, "/manga/"+mangaID+"/aggregate", params, false, &aggregate); err != nil {
		return nil, err
	}
	return &aggregate, nil
}
