// Package tui provides the minimal interactive picker used by search commands.
package tui

import (
	"fmt"
	"strings"

	"github.com/torii-cli/torii/anilist"
	"github.com/torii-cli/torii/history"
	"github.com/torii-cli/torii/mangadex"
	"github.com/torii-cli/torii/provider"
	"github.com/torii-cli/torii/source"
	"github.com/torii-cli/torii/style"
)

// listItem implements the list.Item interface, wrapping domain models for terminal display.
type listItem struct {
	internal any
}

// Title retrieves the primary display text for the list item.
func (t *listItem) Title() string {
	switch e := t.internal.(type) {
	case *source.Show:
		return e.Title()
	case *anilist.Anime:
		return e.Name()
	case *anilist.MediaListEntry:
		return e.Media.Name()
	case *mangadex.Manga:
		return e.Name()
	case *provider.Provider:
		return e.Name
	case *history.SavedEntry:
		return e.Name
	case string:
		return e
	default:
		return t.FilterValue()
	}
}

// Description retrieves the secondary metadata line for the list item.
func (t *listItem) Description() string {
	switch e := t.internal.(type) {
	case *source.Show:
		return e.EpisodesLabel()
	case *anilist.Anime:
		var parts []string
		if e.Status != "" {
			parts = append(parts, strings.ToLower(e.Status))
		}
		if e.AverageScore > 0 {
			parts = append(parts, fmt.Sprintf("★ %d%%", e.AverageScore))
		}
		if e.Episodes > 0 {
			parts = append(parts, fmt.Sprintf("%d eps", e.Episodes))
		}
		return strings.Join(parts, " • ")
	case *anilist.MediaListEntry:
		label := fmt.Sprintf("%s • %d", strings.ToLower(string(e.Status)), e.Progress)
		if e.Media.Episodes > 0 {
			label = fmt.Sprintf("%s / %d", label, e.Media.Episodes)
		}
		return label
	case *mangadex.Manga:
		var parts []string
		if e.Attributes.Status != "" {
			parts = append(parts, e.Attributes.Status)
		}
		if e.Attributes.Year > 0 {
			parts = append(parts, fmt.Sprintf("%d", e.Attributes.Year))
		}
		return strings.Join(parts, " • ")
	case *provider.Provider:
		if e.IsCustom {
			return "Lua Extension"
		}
		return "Built-in Provider"
	case *history.SavedEntry:
		return style.Faint(e.String())
	default:
		return ""
	}
}

// FilterValue returns the string used for real-time list filtering.
func (t *listItem) FilterValue() string {
	switch e := t.internal.(type) {
	case *source.Show:
		return e.Name
	case *anilist.Anime:
		return e.Name()
	case *anilist.MediaListEntry:
		return e.Media.Name()
	case *mangadex.Manga:
		return e.Name()
	case *provider.Provider:
		return e.Name
	case *history.SavedEntry:
		return e.Name
	case string:
		return e
	default:
		return ""
	}
}
