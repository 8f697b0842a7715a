// Package merge combines native library entities with virtual ones
// synthesized from cached video metadata into one deduplicated,
// consistently sorted collection per query.
package merge

import (
	"sort"
	"strings"

	"MeldFM/core/virtual"
	"MeldFM/logger"
	"MeldFM/model"
)

// MergeArtists produces the merged artist collection. Native artists come
// in already sorted and filtered for the query; virtual artists are
// unsorted. A virtual artist whose folded name exactly matches a native
// artist's is dropped: the native entity always wins, and differently
// spelled variants of one name are deliberately not coalesced.
func MergeArtists(native []*model.Artist, virtuals []*virtual.Artist, q model.Query) []model.Entity {
	merged := make([]model.Entity, 0, len(native)+len(virtuals))
	taken := make(map[string]bool, len(native))
	for _, a := range native {
		merged = append(merged, a)
		taken[strings.ToLower(strings.TrimSpace(a.Name))] = true
	}
	dropped := 0
	for _, v := range virtuals {
		if taken[strings.ToLower(strings.TrimSpace(v.Name))] {
			dropped++
			continue
		}
		merged = append(merged, v)
	}

	sortEntities(merged, q)

	logger.Debug("merged artist view",
		logger.Int("native", len(native)),
		logger.Int("virtual", len(virtuals)),
		logger.Int("deduplicated", dropped),
		logger.Int("merged", len(merged)))
	return merged
}

// MergeAlbums produces the merged album collection with the same
// name-based dedup rule as artists.
func MergeAlbums(native []*model.Album, virtuals []*virtual.Album, q model.Query) []model.Entity {
	merged := make([]model.Entity, 0, len(native)+len(virtuals))
	taken := make(map[string]bool, len(native))
	for _, a := range native {
		merged = append(merged, a)
		taken[strings.ToLower(strings.TrimSpace(a.Name))] = true
	}
	dropped := 0
	for _, v := range virtuals {
		if taken[strings.ToLower(strings.TrimSpace(v.Name))] {
			dropped++
			continue
		}
		merged = append(merged, v)
	}

	sortEntities(merged, q)

	logger.Debug("merged album view",
		logger.Int("native", len(native)),
		logger.Int("virtual", len(virtuals)),
		logger.Int("deduplicated", dropped),
		logger.Int("merged", len(merged)))
	return merged
}

// sortEntities applies the shared comparator across the concatenated
// native+virtual set. The sort is stable over the native-before-virtual
// input order, so repeated calls with unchanged inputs are deterministic.
func sortEntities(entities []model.Entity, q model.Query) {
	less := entityLess(q.Sort)
	sort.SliceStable(entities, func(i, j int) bool {
		return less(entities[i], entities[j])
	})
	if q.Desc {
		reverse(entities)
	}
}

// MergeTracks produces the full merged track listing: native audio tracks
// plus every video item, videos without cached metadata included (they
// simply present empty effective fields). The query filter and flags apply
// to the video side here; the native side arrives pre-filtered.
func MergeTracks(native []*model.MediaItem, videos []*model.MediaItem, lookup MetadataLookup, q model.Query) []*model.MediaItem {
	merged := make([]*model.MediaItem, 0, len(native)+len(videos))
	merged = append(merged, native...)
	for _, v := range videos {
		if !videoVisible(v, q) {
			continue
		}
		merged = append(merged, v)
	}

	sortTracks(merged, lookup, q)

	logger.Debug("merged track view",
		logger.Int("native", len(native)),
		logger.Int("merged", len(merged)))
	return merged
}

// TracksForNativeParent unions a native parent's tracks with the videos
// whose cached metadata names that parent. A native artist may have
// videos tagged under their name; those belong in the scoped listing too.
// matches receives the record of a candidate video and reports whether it
// belongs to the parent.
func TracksForNativeParent(native []*model.MediaItem, videos []*model.MediaItem, lookup MetadataLookup, matches func(*model.VideoMetadata) bool, q model.Query) []*model.MediaItem {
	merged := make([]*model.MediaItem, 0, len(native))
	merged = append(merged, native...)
	for _, v := range videos {
		if !videoVisible(v, q) {
			continue
		}
		rec := lookup(v.ID)
		if rec == nil || !rec.HasAudioTags() {
			continue
		}
		if matches(rec) {
			merged = append(merged, v)
		}
	}

	sortTracks(merged, lookup, q)
	return merged
}

// ArtistScope matches records tagged with the given artist name, by the
// same case-insensitive rule the entity dedup uses.
func ArtistScope(name string) func(*model.VideoMetadata) bool {
	folded := strings.ToLower(strings.TrimSpace(name))
	return func(rec *model.VideoMetadata) bool {
		return strings.ToLower(strings.TrimSpace(rec.Artist)) == folded ||
			strings.ToLower(strings.TrimSpace(rec.AlbumArtist)) == folded
	}
}

// AlbumScope matches records tagged with the given album name.
func AlbumScope(name string) func(*model.VideoMetadata) bool {
	folded := strings.ToLower(strings.TrimSpace(name))
	return func(rec *model.VideoMetadata) bool {
		return strings.ToLower(strings.TrimSpace(rec.Album)) == folded
	}
}

// GenreScope matches records tagged with the given genre.
func GenreScope(name string) func(*model.VideoMetadata) bool {
	folded := strings.ToLower(strings.TrimSpace(name))
	return func(rec *model.VideoMetadata) bool {
		return strings.ToLower(strings.TrimSpace(rec.Genre)) == folded
	}
}

func videoVisible(v *model.MediaItem, q model.Query) bool {
	if q.FavoritesOnly && !v.Favorite {
		return false
	}
	if !q.IncludeMissing && v.Missing {
		return false
	}
	return q.MatchesFilter(v.Title)
}

func sortTracks(tracks []*model.MediaItem, lookup MetadataLookup, q model.Query) {
	less := trackLess(q.Sort, lookup)
	sort.SliceStable(tracks, func(i, j int) bool {
		return less(tracks[i], tracks[j])
	})
	if q.Desc {
		reverse(tracks)
	}
}
