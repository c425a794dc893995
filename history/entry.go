package history

import (
	"fmt"
	"time"
)

// SavedEntry is a single tracking update preserved in the user's journal.
type SavedEntry struct {
	Integration string    `json:"integration"`
	MediaID     string    `json:"media_id"`
	Name        string    `json:"name"`
	Progress    int       `json:"progress"`
	Total       int       `json:"total"`
	Status      string    `json:"status"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *SavedEntry) encode() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Integration)
}

func (s *SavedEntry) String() string {
	if s.Total > 0 {
		return fmt.Sprintf("%s : %d / %d", s.Name, s.Progress, s.Total)
	}
	return fmt.Sprintf("%s : %d", s.Name, s.Progress)
}
