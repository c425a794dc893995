package anilist

// date represents a calendar date in the Anilist GraphQL API.
type date struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// Anime is the canonical Anilist media projection used across the application.
// Instances are created fresh on every parse and never mutated afterwards.
type Anime struct {
	// Title is the structured title metadata for the anime.
	Title struct {
		// Romaji is the romanized title of the anime.
		Romaji string `json:"romaji" jsonschema:"description=Romanized title of the anime."`
		// English is the english title of the anime.
		English string `json:"english" jsonschema:"description=English title of the anime."`
		// Native is the native title of the anime. (Usually in kanji)
		Native string `json:"native" jsonschema:"description=Native title of the anime. Usually in kanji."`
	} `json:"title"`
	// ID is the unique identifier for the anime on Anilist.
	ID int `json:"id" jsonschema:"description=ID of the anime on Anilist."`
	// Description is the plot summary of the anime in plain text.
	Description string `json:"description" jsonschema:"description=Description of the anime."`
	// CoverImage contains URLs for different sizes of the anime's cover art.
	CoverImage struct {
		// ExtraLarge is the url of the extra large cover image.
		// If the image is not available, large will be used instead.
		ExtraLarge string `json:"extraLarge" jsonschema:"description=URL of the extra large cover image. If the image is not available, large will be used instead."`
		// Large is the url of the large cover image.
		Large string `json:"large" jsonschema:"description=URL of the large cover image."`
		// Medium is the url of the medium cover image.
		Medium string `json:"medium" jsonschema:"description=URL of the medium cover image."`
		// Color is the average color of the cover image.
		Color string `json:"color" jsonschema:"description=Average color of the cover image."`
	} `json:"coverImage" jsonschema:"description=Cover image of the anime."`
	// BannerImage is the URL for the anime's large banner image.
	BannerImage string `json:"bannerImage" jsonschema:"description=Banner image of the anime."`
	// Genres is a collection of strings representing the anime's genres.
	Genres []string `json:"genres" jsonschema:"description=Genres of the anime."`
	// Tags are metadata tags associated with the anime.
	Tags []struct {
		// Name of the tag.
		Name string `json:"name" jsonschema:"description=Name of the tag."`
		// Rank of the tag. How relevant it is to the anime from 1 to 100.
		Rank int `json:"rank" jsonschema:"description=Rank of the tag from 1 to 100."`
	} `json:"tags"`
	// StartDate is the date the anime started airing.
	StartDate date `json:"startDate" jsonschema:"description=Date the anime started airing."`
	// EndDate is the date the anime finished airing.
	EndDate date `json:"endDate" jsonschema:"description=Date the anime finished airing."`
	// Synonyms are the alternative titles of the anime.
	Synonyms []string `json:"synonyms" jsonschema:"description=Alternative titles of the anime."`
	// Status is the airing status of the anime.
	Status string `json:"status" jsonschema:"enum=FINISHED,enum=RELEASING,enum=NOT_YET_RELEASED,enum=CANCELLED,enum=HIATUS"`
	// IDMal is the id of the anime on MyAnimeList.
	IDMal int `json:"idMal" jsonschema:"description=ID of the anime on MyAnimeList."`
	// Episodes is the total episode count, used for progress tracking.
	Episodes int `json:"episodes" jsonschema:"description=Total number of episodes the anime has when complete."`
	// SiteURL is the url of the anime on Anilist.
	SiteURL string `json:"siteUrl" jsonschema:"description=URL of the anime on Anilist."`
	// Country of origin of the anime.
	Country string `json:"countryOfOrigin" jsonschema:"description=Country of origin of the anime."`
	// AverageScore is the average score of the anime on Anilist.
	AverageScore int `json:"averageScore" jsonschema:"description=Average score of the anime on Anilist."`
}

// Name returns the primary display name of the anime. English is preferred
// when available; otherwise Romaji is used.
func (a *Anime) Name() string {
	if a.Title.English == "" {
		return a.Title.Romaji
	}

	return a.Title.English
}

// Viewer is the authenticated Anilist account, used as the session probe.
type Viewer struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// MediaListStatus represents the status of a media in the user's list.
type MediaListStatus string

const (
	MediaListStatusCurrent   MediaListStatus = "CURRENT"
	MediaListStatusPlanning  MediaListStatus = "PLANNING"
	MediaListStatusCompleted MediaListStatus = "COMPLETED"
	MediaListStatusDropped   MediaListStatus = "DROPPED"
	MediaListStatusPaused    MediaListStatus = "PAUSED"
	MediaListStatusRepeating MediaListStatus = "REPEATING"
)

// MediaListEntry is one row of the authenticated user's anime list.
type MediaListEntry struct {
	// ID is the identifier of the list entry itself, required for deletion.
	ID int `json:"id"`
	// Status is the user's list status for the media.
	Status MediaListStatus `json:"status"`
	// Progress is the number of episodes the user has watched.
	Progress int `json:"progress"`
	// Score is the user's score for the media (100-point scale).
	Score float64 `json:"score"`
	// Media is the anime the entry refers to.
	Media Anime `json:"media"`
}
