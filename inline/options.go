// Package inline provides the application's non-interactive, programmable execution mode.
package inline

import (
	"fmt"
	"io"
	"strconv"

	"github.com/samber/mo"

	"github.com/torii-cli/torii/anilist"
	"github.com/torii-cli/torii/source"
	"github.com/torii-cli/torii/util"
)

// ShowPicker selects one show from search results, nil when nothing matches.
type ShowPicker func([]*source.Show) *source.Show

type Options struct {
	Out            io.Writer
	Sources        []source.Source
	Anilist        *anilist.Client
	IncludeAnilist bool
	Json           bool
	Query          string
	ShowPicker     mo.Option[ShowPicker]
}

// ParseShowPicker builds a picker from its CLI description.
func ParseShowPicker(kind, value string) (ShowPicker, error) {
	switch kind {
	case "first":
		return func(shows []*source.Show) *source.Show {
			if len(shows) == 0 {
				return nil
			}
			return shows[0]
		}, nil
	case "last":
		return func(shows []*source.Show) *source.Show {
			if len(shows) == 0 {
				return nil
			}
			return shows[len(shows)-1]
		}, nil
	case "exact":
		return func(shows []*source.Show) *source.Show {
			for _, s := range shows {
				if s.Name == value {
					return s
				}
			}
			return nil
		}, nil
	case "index":
		idx, err := strconv.ParseUint(value, 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid index: %s", value)
		}
		return func(shows []*source.Show) *source.Show {
			if len(shows) == 0 {
				return nil
			}
			i := util.Min(idx, uint64(len(shows)-1))
			return shows[i]
		}, nil
	default:
		return nil, fmt.Errorf("unknown picker type: %s", kind)
	}
}
