package custom

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/torii-cli/torii/source"
)

// getString reads a string field from a table, empty when absent or mistyped.
func getString(table *lua.LTable, key string) string {
	val := table.RawGetString(key)
	if val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

// getInt reads a numeric field from a table, zero when absent or mistyped.
func getInt(table *lua.LTable, key string) int {
	val := table.RawGetString(key)
	if val.Type() == lua.LTNumber {
		return int(val.(lua.LNumber))
	}
	return 0
}

func showFromTable(table *lua.LTable, index uint16) (*source.Show, error) {
	name := getString(table, "name")
	id := getString(table, "id")
	if id == "" {
		id = getString(table, "url")
	}

	if name == "" || id == "" {
		return nil, fmt.Errorf("show must have name and id")
	}

	show := &source.Show{
		Name:  name,
		ID:    id,
		Index: index,
	}

	// Episode availability is either a flat number or a {sub, dub} table.
	episodes := table.RawGetString("episodes")
	switch episodes.Type() {
	case lua.LTNumber:
		show.AvailableEpisodes.Sub = int(episodes.(lua.LNumber))
	case lua.LTTable:
		t := episodes.(*lua.LTable)
		show.AvailableEpisodes.Sub = getInt(t, "sub")
		show.AvailableEpisodes.Dub = getInt(t, "dub")
	}

	return show, nil
}
