package merge

import (
	"strings"

	"MeldFM/model"
)

// Optional sort-key capabilities. Native and virtual albums implement all
// three; artists only sort by name.
type durationSorter interface{ TotalDuration() int64 }
type yearSorter interface{ Year() int }
type artistSorter interface{ ArtistName() string }

func foldedName(e model.Entity) string {
	return strings.ToLower(strings.TrimSpace(e.EntityName()))
}

// entityLess builds the ascending comparator for artist/album entities.
// Fields an entity kind cannot answer fall back to alphabetical, which is
// also the default for unrecognized fields. Ties compare by name so the
// ordering stays total; equal keys keep stable input order.
func entityLess(field model.SortField) func(a, b model.Entity) bool {
	byName := func(a, b model.Entity) bool {
		return foldedName(a) < foldedName(b)
	}
	switch field {
	case model.SortDuration:
		return func(a, b model.Entity) bool {
			da, aok := a.(durationSorter)
			db, bok := b.(durationSorter)
			if aok && bok && da.TotalDuration() != db.TotalDuration() {
				return da.TotalDuration() < db.TotalDuration()
			}
			return byName(a, b)
		}
	case model.SortReleaseDate:
		return func(a, b model.Entity) bool {
			ya, aok := a.(yearSorter)
			yb, bok := b.(yearSorter)
			if aok && bok && ya.Year() != yb.Year() {
				return ya.Year() < yb.Year()
			}
			return byName(a, b)
		}
	case model.SortArtist:
		return func(a, b model.Entity) bool {
			aa, aok := a.(artistSorter)
			ab, bok := b.(artistSorter)
			if aok && bok {
				na := strings.ToLower(aa.ArtistName())
				nb := strings.ToLower(ab.ArtistName())
				if na != nb {
					return na < nb
				}
			}
			return byName(a, b)
		}
	default:
		return byName
	}
}

// MetadataLookup resolves the cached metadata record for a media id, or
// nil when none exists.
type MetadataLookup func(mediaID int64) *model.VideoMetadata

// EffectiveArtist resolves the artist for an item: native audio tags win,
// the cached video record fills in otherwise.
func EffectiveArtist(item *model.MediaItem, rec *model.VideoMetadata) string {
	if item.Artist != "" {
		return item.Artist
	}
	if rec != nil {
		return rec.Artist
	}
	return ""
}

// EffectiveAlbum resolves the album for an item, native tags first.
func EffectiveAlbum(item *model.MediaItem, rec *model.VideoMetadata) string {
	if item.Album != "" {
		return item.Album
	}
	if rec != nil {
		return rec.Album
	}
	return ""
}

// EffectiveGenre resolves the genre for an item, native tags first.
func EffectiveGenre(item *model.MediaItem, rec *model.VideoMetadata) string {
	if item.Genre != "" {
		return item.Genre
	}
	if rec != nil {
		return rec.Genre
	}
	return ""
}

func effectiveYear(item *model.MediaItem, rec *model.VideoMetadata) int {
	if item.ReleaseYear != 0 {
		return item.ReleaseYear
	}
	if rec != nil {
		return rec.ReleaseYear
	}
	return 0
}

func effectivePosition(item *model.MediaItem, rec *model.VideoMetadata) (disc, track int) {
	if item.TrackNumber != 0 || item.DiscNumber != 0 {
		return item.DiscNumber, item.TrackNumber
	}
	if rec != nil {
		return rec.DiscNumber, rec.TrackNumber
	}
	return 0, 0
}

// trackLess builds the ascending comparator for merged track listings.
// Effective fields resolve through lookup so video items sort by their
// cached tags next to native audio.
func trackLess(field model.SortField, lookup MetadataLookup) func(a, b *model.MediaItem) bool {
	rec := func(m *model.MediaItem) *model.VideoMetadata {
		if lookup == nil {
			return nil
		}
		return lookup(m.ID)
	}
	byTitle := func(a, b *model.MediaItem) bool {
		return strings.ToLower(a.Title) < strings.ToLower(b.Title)
	}
	switch field {
	case model.SortDuration:
		return func(a, b *model.MediaItem) bool {
			if a.Duration != b.Duration {
				return a.Duration < b.Duration
			}
			return byTitle(a, b)
		}
	case model.SortInsertionDate:
		return func(a, b *model.MediaItem) bool {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return byTitle(a, b)
		}
	case model.SortLastModified:
		return func(a, b *model.MediaItem) bool {
			if a.LastModified != b.LastModified {
				return a.LastModified < b.LastModified
			}
			return byTitle(a, b)
		}
	case model.SortReleaseDate:
		return func(a, b *model.MediaItem) bool {
			ya, yb := effectiveYear(a, rec(a)), effectiveYear(b, rec(b))
			if ya != yb {
				return ya < yb
			}
			return byTitle(a, b)
		}
	case model.SortFileSize:
		return func(a, b *model.MediaItem) bool {
			if a.FileSize != b.FileSize {
				return a.FileSize < b.FileSize
			}
			return byTitle(a, b)
		}
	case model.SortArtist:
		return func(a, b *model.MediaItem) bool {
			na := strings.ToLower(EffectiveArtist(a, rec(a)))
			nb := strings.ToLower(EffectiveArtist(b, rec(b)))
			if na != nb {
				return na < nb
			}
			return byTitle(a, b)
		}
	case model.SortAlbum:
		return func(a, b *model.MediaItem) bool {
			na := strings.ToLower(EffectiveAlbum(a, rec(a)))
			nb := strings.ToLower(EffectiveAlbum(b, rec(b)))
			if na != nb {
				return na < nb
			}
			da, ta := effectivePosition(a, rec(a))
			db, tb := effectivePosition(b, rec(b))
			if da != db {
				return da < db
			}
			if ta != tb {
				return ta < tb
			}
			return byTitle(a, b)
		}
	case model.SortFilename:
		return func(a, b *model.MediaItem) bool {
			return strings.ToLower(a.Filename()) < strings.ToLower(b.Filename())
		}
	case model.SortTrackNumber:
		return func(a, b *model.MediaItem) bool {
			da, ta := effectivePosition(a, rec(a))
			db, tb := effectivePosition(b, rec(b))
			if da != db {
				return da < db
			}
			if ta != tb {
				return ta < tb
			}
			return byTitle(a, b)
		}
	default:
		return byTitle
	}
}

// reverse flips a sorted slice in place. Descending direction reverses
// the whole merged ordering, not each source separately, so native and
// virtual entries interleave correctly.
func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
