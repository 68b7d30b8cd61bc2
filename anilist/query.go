package anilist

import "fmt"

// animeSubquery is the selection set shared by every anime query.
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
status
format
synonyms
siteUrl
episodes
averageScore
`

// searchPageQuery pages through anime. A null search lists everything in the given sort order.
var searchPageQuery = fmt.Sprintf(`
query ($search: String, $page: Int, $perPage: Int, $sort: [MediaSort]) {
	Page (page: $page, perPage: $perPage) {
		pageInfo {
			total
			currentPage
			lastPage
			hasNextPage
			perPage
		}
		media (search: $search, type: ANIME, sort: $sort) {
			%s
		}
	}
}
`, animeSubquery)

var searchByIDQuery = fmt.Sprintf(`
query ($id: Int) {
	Media (id: $id, type: ANIME) {
		%s
	}
}`, animeSubquery)
