package model

import "time"

// MediaType 媒体类型
type MediaType int8

const (
	MediaTypeAudio MediaType = iota
	MediaTypeVideo
)

// MediaItem represents one playable unit in the library, either an audio
// track or a video. Audio-only tag fields (Artist, Album, ...) are only
// meaningful when Type is MediaTypeAudio; for videos the effective values
// come from the cached VideoMetadata record instead.
type MediaItem struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Type         MediaType `json:"type" gorm:"index"`
	Title        string    `json:"title"`
	FilePath     string    `json:"-" gorm:"size:767;uniqueIndex"`
	FileSize     int64     `json:"fileSize"`
	Duration     int64     `json:"duration"`     // Duration in milliseconds
	LastModified int64     `json:"lastModified"` // Source file mtime, unix seconds
	Favorite     bool      `json:"favorite"`
	Missing      bool      `json:"missing"` // Source file no longer present on disk
	ArtworkURL   string    `json:"artworkUrl"`

	// Native audio tags, populated by the library scanner for audio items.
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	AlbumArtist string `json:"albumArtist"`
	Genre       string `json:"genre"`
	TrackNumber int    `json:"trackNumber"`
	DiscNumber  int    `json:"discNumber"`
	ReleaseYear int    `json:"releaseYear"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName 指定 GORM 表名
func (MediaItem) TableName() string {
	return "media_items"
}

// IsVideo reports whether the item is a video.
func (m *MediaItem) IsVideo() bool {
	return m.Type == MediaTypeVideo
}

// Filename returns the base name of the source file, used as a sort key.
func (m *MediaItem) Filename() string {
	for i := len(m.FilePath) - 1; i >= 0; i-- {
		if m.FilePath[i] == '/' || m.FilePath[i] == '\\' {
			return m.FilePath[i+1:]
		}
	}
	return m.FilePath
}
