package inline

import (
	"encoding/json"
	"io"

	"github.com/torii-cli/torii/anilist"
	"github.com/torii-cli/torii/source"
)

type Show struct {
	// Source is the name of the provider.
	Source string `json:"source"`
	// Show is the show object from the source.
	Show *source.Show `json:"show"`
	// Anilist is the matched Anilist entry (optional).
	Anilist *anilist.Anime `json:"anilist,omitempty"`
}

type Output struct {
	Query  string  `json:"query"`
	Result []*Show `json:"result"`
}

func asJson(shows []*source.Show, query string, includeAnilist bool) ([]byte, error) {
	result := make([]*Show, len(shows))
	for i, s := range shows {
		var al *anilist.Anime
		if includeAnilist {
			al = s.Anilist.OrElse(nil)
		}

		result[i] = &Show{
			Source:  s.Source.Name(),
			Show:    s,
			Anilist: al,
		}
	}

	return json.Marshal(&Output{
		Query:  query,
		Result: result,
	})
}

func writeJson(out io.Writer, shows []*source.Show, options *Options) error {
	data, err := asJson(shows, options.Query, options.IncludeAnilist)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}
