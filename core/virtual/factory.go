package virtual

import (
	"strings"

	"MeldFM/model"
)

// group accumulates the records and resolved items of one folded name.
type group struct {
	name    string // First-encountered original spelling
	records []*model.VideoMetadata
	videos  []*model.MediaItem
}

// collect buckets records by the folded value produced by keyOf, keeping
// first-encountered order of both groups and members. Records that carry
// no usable audio tags, or whose key is blank, are skipped. Members whose
// media item no longer resolves are silently dropped.
func collect(records []*model.VideoMetadata, items map[int64]*model.MediaItem, keyOf func(*model.VideoMetadata) string) []*group {
	byKey := make(map[string]*group)
	ordered := make([]*group, 0)
	for _, rec := range records {
		if !rec.HasAudioTags() {
			continue // Blank records are equivalent to absence
		}
		name := strings.TrimSpace(keyOf(rec))
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		g, ok := byKey[key]
		if !ok {
			g = &group{name: name}
			byKey[key] = g
			ordered = append(ordered, g)
		}
		g.records = append(g.records, rec)
		if item, ok := items[rec.MediaID]; ok {
			g.videos = append(g.videos, item)
		}
	}
	return ordered
}

// groupArtwork picks the artwork of the first member that has one,
// scanning members in grouping order. Items are preferred over the
// record's extracted artwork. No artwork is fine; there is no placeholder.
func groupArtwork(g *group) string {
	for _, v := range g.videos {
		if v.ArtworkURL != "" {
			return v.ArtworkURL
		}
	}
	for _, rec := range g.records {
		if rec.ArtworkURL != "" {
			return rec.ArtworkURL
		}
	}
	return ""
}

// BuildArtists materializes virtual artists from cached metadata records.
// Records group by case-folded artist name; groups resolving to zero
// items are skipped, as are groups whose name does not match the query
// filter (same case-insensitive substring rule the native search uses).
func BuildArtists(records []*model.VideoMetadata, items map[int64]*model.MediaItem, q model.Query) []*Artist {
	groups := collect(records, items, func(rec *model.VideoMetadata) string {
		return rec.Artist
	})

	artists := make([]*Artist, 0, len(groups))
	for _, g := range groups {
		if len(g.videos) == 0 {
			continue
		}
		if !q.MatchesFilter(g.name) {
			continue
		}
		artists = append(artists, NewArtist(g.name, groupArtwork(g), g.videos))
	}
	return artists
}

// BuildAlbums materializes virtual albums from cached metadata records,
// grouped by case-folded album name.
func BuildAlbums(records []*model.VideoMetadata, items map[int64]*model.MediaItem, q model.Query) []*Album {
	groups := collect(records, items, func(rec *model.VideoMetadata) string {
		return rec.Album
	})

	albums := make([]*Album, 0, len(groups))
	for _, g := range groups {
		if len(g.videos) == 0 {
			continue
		}
		if !q.MatchesFilter(g.name) {
			continue
		}

		var duration int64
		for _, v := range g.videos {
			duration += v.Duration
		}

		albums = append(albums, NewAlbum(
			g.name,
			albumArtist(g.records),
			groupArtwork(g),
			modalYear(g.records),
			duration,
			g.videos,
		))
	}
	return albums
}

// albumArtist resolves the album artist: the first non-blank album-artist
// tag in the group, else the first non-blank artist tag, else empty.
func albumArtist(records []*model.VideoMetadata) string {
	for _, rec := range records {
		if s := strings.TrimSpace(rec.AlbumArtist); s != "" {
			return s
		}
	}
	for _, rec := range records {
		if s := strings.TrimSpace(rec.Artist); s != "" {
			return s
		}
	}
	return ""
}

// modalYear picks the most frequent non-zero release year in the group.
// Ties go to the year encountered first in record order.
func modalYear(records []*model.VideoMetadata) int {
	counts := make(map[int]int)
	order := make([]int, 0)
	for _, rec := range records {
		if rec.ReleaseYear == 0 {
			continue
		}
		if _, seen := counts[rec.ReleaseYear]; !seen {
			order = append(order, rec.ReleaseYear)
		}
		counts[rec.ReleaseYear]++
	}

	best, bestCount := 0, 0
	for _, year := range order {
		if counts[year] > bestCount {
			best, bestCount = year, counts[year]
		}
	}
	return best
}
