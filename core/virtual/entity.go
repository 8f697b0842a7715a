// Package virtual synthesizes artist and album entities from cached
// video audio metadata, so videos with embedded audio tags appear in the
// audio browser alongside the native library.
package virtual

import (
	"hash/fnv"
	"strings"

	"MeldFM/model"
)

// SyntheticID derives the stable negative identity for a grouping key.
// The id is a pure function of the key, so the same group always
// re-synthesizes to the same id. Negative values can never collide with
// native library ids, which are positive. Two distinct keys hashing to
// the same 31-bit value would collide; that is a documented limitation
// of the hash-based scheme, not something prevented here.
func SyntheticID(key string) int64 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return -int64(h.Sum32() & 0x7FFFFFFF)
}

// foldName normalizes a tag value into a grouping key.
func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Artist is a virtual artist grouping videos that share a metadata
// artist name. It is never persisted; it is rebuilt from the metadata
// cache on each query.
type Artist struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Artwork string `json:"artwork"`

	videos []*model.MediaItem
}

// NewArtist builds a virtual artist for a display name and its member videos.
func NewArtist(name string, artwork string, videos []*model.MediaItem) *Artist {
	return &Artist{
		ID:      SyntheticID(foldName(name)),
		Name:    name,
		Artwork: artwork,
		videos:  videos,
	}
}

func (a *Artist) EntityID() int64       { return a.ID }
func (a *Artist) EntityName() string    { return a.Name }
func (a *Artist) EntityArtwork() string { return a.Artwork }
func (a *Artist) EntityTrackCount() int { return len(a.videos) }
func (a *Artist) Virtual() bool         { return true }

// Tracks returns the member videos in grouping order.
func (a *Artist) Tracks() []*model.MediaItem {
	return a.videos
}

// PagedTracks returns one page of member videos.
func (a *Artist) PagedTracks(limit, offset int) []*model.MediaItem {
	return pageItems(a.videos, limit, offset)
}

// SearchTracks returns one page of member videos whose title contains the query.
func (a *Artist) SearchTracks(query string, limit, offset int) []*model.MediaItem {
	return searchItems(a.videos, query, limit, offset)
}

// SearchTracksCount counts member videos whose title contains the query.
func (a *Artist) SearchTracksCount(query string) int {
	return searchCount(a.videos, query)
}

// Album is a virtual album grouping videos that share a metadata album name.
type Album struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Artwork     string `json:"artwork"`
	ReleaseYear int    `json:"releaseYear"`
	Duration    int64  `json:"duration"` // Total duration in milliseconds

	videos []*model.MediaItem
}

// NewAlbum builds a virtual album. The id derives from name plus artist,
// so same-named albums by different artists stay distinct.
func NewAlbum(name, artistName, artwork string, releaseYear int, duration int64, videos []*model.MediaItem) *Album {
	return &Album{
		ID:          SyntheticID(foldName(name) + "\x00" + foldName(artistName)),
		Name:        name,
		Artist:      artistName,
		Artwork:     artwork,
		ReleaseYear: releaseYear,
		Duration:    duration,
		videos:      videos,
	}
}

func (a *Album) EntityID() int64       { return a.ID }
func (a *Album) EntityName() string    { return a.Name }
func (a *Album) EntityArtwork() string { return a.Artwork }
func (a *Album) EntityTrackCount() int { return len(a.videos) }
func (a *Album) Virtual() bool         { return true }

// ArtistName returns the album artist, used as a sort key.
func (a *Album) ArtistName() string { return a.Artist }

// Year returns the release year, used as a sort key.
func (a *Album) Year() int { return a.ReleaseYear }

// TotalDuration returns the summed member duration, used as a sort key.
func (a *Album) TotalDuration() int64 { return a.Duration }

// Tracks returns the member videos in grouping order.
func (a *Album) Tracks() []*model.MediaItem {
	return a.videos
}

// PagedTracks returns one page of member videos.
func (a *Album) PagedTracks(limit, offset int) []*model.MediaItem {
	return pageItems(a.videos, limit, offset)
}

// SearchTracks returns one page of member videos whose title contains the query.
func (a *Album) SearchTracks(query string, limit, offset int) []*model.MediaItem {
	return searchItems(a.videos, query, limit, offset)
}

// SearchTracksCount counts member videos whose title contains the query.
func (a *Album) SearchTracksCount(query string) int {
	return searchCount(a.videos, query)
}

func pageItems(videos []*model.MediaItem, limit, offset int) []*model.MediaItem {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(videos) {
		return []*model.MediaItem{}
	}
	end := len(videos)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return videos[offset:end]
}

func searchItems(videos []*model.MediaItem, query string, limit, offset int) []*model.MediaItem {
	if query == "" {
		return pageItems(videos, limit, offset)
	}
	lower := strings.ToLower(query)
	matched := make([]*model.MediaItem, 0)
	for _, v := range videos {
		if strings.Contains(strings.ToLower(v.Title), lower) {
			matched = append(matched, v)
		}
	}
	return pageItems(matched, limit, offset)
}

func searchCount(videos []*model.MediaItem, query string) int {
	if query == "" {
		return len(videos)
	}
	lower := strings.ToLower(query)
	count := 0
	for _, v := range videos {
		if strings.Contains(strings.ToLower(v.Title), lower) {
			count++
		}
	}
	return count
}
