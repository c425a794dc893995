package custom

import (
	"strconv"

	lua "github.com/yuin/gopher-lua"

	"github.com/torii-cli/torii/constant"
	"github.com/torii-cli/torii/source"
)

// SearchShows invokes the script's search function and translates the result.
func (s *luaSource) SearchShows(query string) ([]*source.Show, error) {
	val, err := s.call(constant.SearchShowsFn, lua.LTTable, lua.LString(query))
	if err != nil {
		return nil, err
	}

	table := val.(*lua.LTable)
	var shows []*source.Show

	var errs []error
	table.ForEach(func(k, v lua.LValue) {
		if k.Type() != lua.LTNumber || v.Type() != lua.LTTable {
			return // Skip invalid entries
		}

		idx, err := strconv.ParseUint(k.String(), 10, 16)
		if err != nil {
			errs = append(errs, err)
			return
		}

		show, err := showFromTable(v.(*lua.LTable), uint16(idx))
		if err != nil {
			errs = append(errs, err)
			return
		}

		show.Source = s
		shows = append(shows, show)
	})

	if len(shows) == 0 && len(errs) > 0 {
		return nil, errs[0]
	}

	return shows, nil
}
