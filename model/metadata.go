package model

import (
	"strings"
	"time"
)

// VideoMetadata is one cached audio-tag record derived from a video file's
// embedded metadata. At most one record exists per media id; records are
// created or overwritten by extraction and deleted when the underlying
// media item leaves the library.
type VideoMetadata struct {
	MediaID      int64     `json:"mediaId"`
	SourcePath   string    `json:"sourcePath"` // Secondary lookup key
	Artist       string    `json:"artist"`
	Album        string    `json:"album"`
	AlbumArtist  string    `json:"albumArtist"`
	Genre        string    `json:"genre"`
	TrackNumber  int       `json:"trackNumber"`
	DiscNumber   int       `json:"discNumber"`
	ArtworkURL   string    `json:"artworkUrl"`
	ReleaseYear  int       `json:"releaseYear"`
	LastModified int64     `json:"lastModified"` // Source file mtime at extraction, unix seconds
	CreatedAt    time.Time `json:"createdAt"`
}

// HasAudioTags reports whether the record carries any usable audio tag.
// A record with artist, album, album artist and genre all blank is
// functionally equivalent to no record at all and is never persisted.
func (v *VideoMetadata) HasAudioTags() bool {
	return strings.TrimSpace(v.Artist) != "" ||
		strings.TrimSpace(v.Album) != "" ||
		strings.TrimSpace(v.AlbumArtist) != "" ||
		strings.TrimSpace(v.Genre) != ""
}

// StaleFor reports whether the record is stale relative to the given
// source file modification time.
func (v *VideoMetadata) StaleFor(itemLastModified int64) bool {
	return v.LastModified < itemLastModified
}
