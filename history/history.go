// Package history persists a local journal of tracking updates.
package history

import (
	"time"

	"github.com/metafates/gache"
	"github.com/spf13/viper"

	"github.com/torii-cli/torii/filesystem"
	"github.com/torii-cli/torii/key"
	"github.com/torii-cli/torii/where"
)

// cacher is the disk-backed registry of tracking updates.
var cacher = gache.New[map[string]*SavedEntry](
	&gache.Options{
		Path:       where.History(),
		FileSystem: &filesystem.GacheFs{},
	},
)

// Get returns the complete collection of journal entries from the persistent store.
func Get() (map[string]*SavedEntry, error) {
	cached, expired, err := cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(map[string]*SavedEntry), nil
	}
	return cached, nil
}

// Save records a tracking update in the journal. A later update for the same
// media replaces the earlier one. Gated on the history.save_on_track setting.
func Save(entry *SavedEntry) error {
	if !viper.GetBool(key.HistorySaveOnTrack) {
		return nil
	}

	saved, err := Get()
	if err != nil {
		return err
	}

	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	saved[entry.encode()] = entry

	return cacher.Set(saved)
}

// Remove permanently deletes a specific entry from the journal.
func Remove(entry *SavedEntry) error {
	saved, err := Get()
	if err != nil {
		return err
	}

	delete(saved, entry.encode())
	return cacher.Set(saved)
}
