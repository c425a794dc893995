package anilist

import "fmt"

// animeSubquery defines the common GraphQL selection set for anime metadata retrieval.
var animeSubquery = `
id
idMal
title {
	romaji
	english
	native
}
description(asHtml: false)
tags {
	name
	rank
}
genres
coverImage {
	extraLarge
	large
	medium
	color
}
bannerImage
startDate {
	year
	month
	day
}
endDate {
	year
	month
	day
}
status
synonyms
siteUrl
episodes
countryOfOrigin
averageScore
`

// searchByNameQuery defines the GraphQL query for searching anime by their title.
var searchByNameQuery = fmt.Sprintf(`
query ($query: String) {
	Page (page: 1, perPage: 30) {
		media (search: $query, type: ANIME) {
			%s
		}
	}
}
`, animeSubquery)

// searchByIDQuery defines the GraphQL query for retrieving a specific anime by its identifier.
var searchByIDQuery = fmt.Sprintf(`
query ($id: Int) {
	Media (id: $id, type: ANIME) {
		%s
	}
}`, animeSubquery)

// viewerQuery retrieves the authenticated account. It doubles as the
// lightweight probe that verifies a stored token is still accepted.
var viewerQuery = `
query {
	Viewer {
		id
		name
	}
}`

// mediaListQuery retrieves one page of the user's anime list.
var mediaListQuery = fmt.Sprintf(`
query ($userId: Int, $page: Int, $perPage: Int) {
	Page (page: $page, perPage: $perPage) {
		mediaList (userId: $userId, type: ANIME, sort: UPDATED_TIME_DESC) {
			id
			status
			progress
			score
			media {
				%s
			}
		}
	}
}`, animeSubquery)

// saveMediaListEntryMutation is the GraphQL mutation to update a user's list
// entry. It selects the full entry shape so the response can replace the held
// list row without a re-fetch.
var saveMediaListEntryMutation = fmt.Sprintf(`
mutation ($mediaId: Int, $progress: Int, $status: MediaListStatus) {
	SaveMediaListEntry (mediaId: $mediaId, progress: $progress, status: $status) {
		id
		status
		progress
		score
		media {
			%s
		}
	}
}`, animeSubquery)

// deleteMediaListEntryMutation is the GraphQL mutation to remove a user's list entry.
var deleteMediaListEntryMutation = `
mutation ($id: Int) {
	DeleteMediaListEntry (id: $id) {
		deleted
	}
}`
