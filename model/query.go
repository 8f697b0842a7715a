package model

import "strings"

// SortField 列表排序字段
type SortField int8

const (
	SortDefault SortField = iota
	SortAlpha
	SortDuration
	SortInsertionDate
	SortLastModified
	SortReleaseDate
	SortFileSize
	SortArtist
	SortAlbum
	SortFilename
	SortTrackNumber
)

// ParseSortField maps a query-string value to a sort field. Unrecognized
// values fall back to alphabetical.
func ParseSortField(s string) SortField {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "default", "alpha", "name":
		return SortAlpha
	case "duration":
		return SortDuration
	case "insertion", "added":
		return SortInsertionDate
	case "lastmodified", "modified":
		return SortLastModified
	case "release", "releasedate", "year":
		return SortReleaseDate
	case "filesize", "size":
		return SortFileSize
	case "artist":
		return SortArtist
	case "album":
		return SortAlbum
	case "filename":
		return SortFilename
	case "track", "tracknumber", "position":
		return SortTrackNumber
	default:
		return SortAlpha
	}
}

func (f SortField) String() string {
	switch f {
	case SortDuration:
		return "duration"
	case SortInsertionDate:
		return "insertion"
	case SortLastModified:
		return "lastmodified"
	case SortReleaseDate:
		return "release"
	case SortFileSize:
		return "filesize"
	case SortArtist:
		return "artist"
	case SortAlbum:
		return "album"
	case SortFilename:
		return "filename"
	case SortTrackNumber:
		return "track"
	default:
		return "alpha"
	}
}

// Query is one listing query shape: free-text filter, sort field and
// direction, plus the favorites / missing visibility flags. The same shape
// parameterizes native library calls, virtual grouping and the view cache key.
type Query struct {
	Filter         string
	Sort           SortField
	Desc           bool
	IncludeMissing bool
	FavoritesOnly  bool
}

// MatchesFilter reports whether name contains the query filter,
// case-insensitively. An empty filter matches everything. Native and
// virtual search use this same rule so results stay in parity.
func (q Query) MatchesFilter(name string) bool {
	if q.Filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(q.Filter))
}
