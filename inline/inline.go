package inline

import (
	"context"
	"fmt"
	"os"

	"github.com/torii-cli/torii/log"
	"github.com/torii-cli/torii/source"
)

// Run searches the configured providers and writes the results to the output
// writer, as JSON when requested.
func Run(ctx context.Context, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}

	var shows []*source.Show
	for _, src := range options.Sources {
		found, err := src.SearchShows(options.Query)
		if err != nil {
			return fmt.Errorf("search failed for %s: %w", src.Name(), err)
		}
		shows = append(shows, found...)
	}

	var selected []*source.Show
	if picker, ok := options.ShowPicker.Get(); ok {
		if choice := picker(shows); choice != nil {
			selected = []*source.Show{choice}
		}
	} else {
		selected = shows
	}

	if len(selected) == 0 {
		if options.Json {
			return writeJson(options.Out, []*source.Show{}, options)
		}
		return nil
	}

	if options.IncludeAnilist && options.Anilist != nil {
		for _, show := range selected {
			if err := show.BindWithAnilist(ctx, options.Anilist); err != nil {
				log.Warnf("failed to bind anilist for %s: %v", show.Name, err)
			}
		}
	}

	if options.Json {
		return writeJson(options.Out, selected, options)
	}

	for _, show := range selected {
		fmt.Fprintf(options.Out, "%s (%s)\n", show.Title(), show.EpisodesLabel())
	}

	return nil
}
