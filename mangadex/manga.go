package mangadex

import (
	"encoding/json"
	"fmt"
)

const coversBaseURL = "https://uploads.mangadex.org/covers"

// localized is a Mangadex localized string map, keyed by language code.
type localized map[string]string

// get returns the english value when present, otherwise any value.
func (l localized) get() string {
	if v, ok := l["en"]; ok && v != "" {
		return v
	}
	for _, v := range l {
		if v != "" {
			return v
		}
	}
	return ""
}

// Relationship is one entry of the relationships array that accompanies most
// Mangadex resources. Attributes are only present when the relationship type
// was requested through the includes[] parameter.
type Relationship struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes"`
}

// Tag is one genre or theme tag attached to a manga.
type Tag struct {
	ID         string `json:"id"`
	Attributes struct {
		Name  localized `json:"name"`
		Group string    `json:"group"`
	} `json:"attributes"`
}

// Name returns the tag's display name.
func (t *Tag) Name() string {
	return t.Attributes.Name.get()
}

// Manga is the canonical Mangadex manga projection used across the application.
type Manga struct {
	// ID is the UUID of the manga on Mangadex.
	ID string `json:"id" jsonschema:"description=UUID of the manga on Mangadex."`
	// Attributes carries the manga metadata.
	Attributes struct {
		// Title is the localized primary title.
		Title localized `json:"title"`
		// AltTitles are the localized alternative titles.
		AltTitles []localized `json:"altTitles"`
		// Description is the localized plot summary.
		Description localized `json:"description"`
		// Status is the publication status of the manga.
		Status string `json:"status" jsonschema:"enum=ongoing,enum=completed,enum=hiatus,enum=cancelled"`
		// Year is the year of release.
		Year int `json:"year"`
		// ContentRating is the content rating of the manga.
		ContentRating string `json:"contentRating"`
		// LastChapter is the number of the final chapter, when known.
		LastChapter string `json:"lastChapter"`
		// Tags are the genre and theme tags of the manga.
		Tags []Tag `json:"tags"`
	} `json:"attributes"`
	// Relationships carries linked resources, notably the cover art.
	Relationships []Relationship `json:"relationships"`
}

// Name returns the primary display name of the manga. English is preferred
// when available.
func (m *Manga) Name() string {
	if name := m.Attributes.Title.get(); name != "" {
		return name
	}
	for _, alt := range m.Attributes.AltTitles {
		if name := alt.get(); name != "" {
			return name
		}
	}
	return m.ID
}

// Description returns the plot summary in the preferred language.
func (m *Manga) Description() string {
	return m.Attributes.Description.get()
}

// CoverURL builds the URL of the 512px cover thumbnail from the cover_art
// relationship. Empty when the relationship was not included in the response.
func (m *Manga) CoverURL() string {
	for _, rel := range m.Relationships {
		if rel.Type != "cover_art" || len(rel.Attributes) == 0 {
			continue
		}

		var attrs struct {
			FileName string `json:"fileName"`
		}
		if err := json.Unmarshal(rel.Attributes, &attrs); err != nil || attrs.FileName == "" {
			continue
		}

		return fmt.Sprintf("%s/%s/%s.512.jpg", coversBaseURL, m.ID, attrs.FileName)
	}
	return ""
}

// SiteURL returns the url of the manga on Mangadex.
func (m *Manga) SiteURL() string {
	return "https://mangadex.org/title/" + m.ID
}

// User is the authenticated Mangadex account, used as the session probe.
type User struct {
	ID         string `json:"id"`
	Attributes struct {
		Username string   `json:"username"`
		Roles    []string `json:"roles"`
	} `json:"attributes"`
}
