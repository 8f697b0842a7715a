package model

import "time"

// Entity is the common shape of anything listable in the audio browser:
// a native artist/album row or a virtual one synthesized from cached video
// metadata. Two implementations exist, never more (native and virtual),
// distinguished by Virtual().
type Entity interface {
	EntityID() int64
	EntityName() string
	EntityArtwork() string
	EntityTrackCount() int
	Virtual() bool
}

// Artist 表示音乐库中的一个原生艺术家
type Artist struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:255;index"`
	Artwork    string    `json:"artwork"`
	AlbumCount int       `json:"albumCount"`
	TrackCount int       `json:"trackCount"`
	Favorite   bool      `json:"favorite"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Artist) TableName() string { return "artists" }

func (a *Artist) EntityID() int64       { return a.ID }
func (a *Artist) EntityName() string    { return a.Name }
func (a *Artist) EntityArtwork() string { return a.Artwork }
func (a *Artist) EntityTrackCount() int { return a.TrackCount }
func (a *Artist) Virtual() bool         { return false }

// Album 表示音乐库中的一张原生专辑
type Album struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;index"`
	Artist      string    `json:"artist"`
	ArtistID    int64     `json:"artistId" gorm:"index"`
	Artwork     string    `json:"artwork"`
	ReleaseYear int       `json:"releaseYear"`
	TrackCount  int       `json:"trackCount"`
	Duration    int64     `json:"duration"` // Total duration in milliseconds
	Favorite    bool      `json:"favorite"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Album) TableName() string { return "albums" }

func (a *Album) EntityID() int64       { return a.ID }
func (a *Album) EntityName() string    { return a.Name }
func (a *Album) EntityArtwork() string { return a.Artwork }
func (a *Album) EntityTrackCount() int { return a.TrackCount }
func (a *Album) Virtual() bool         { return false }

// ArtistName returns the album artist, used as a sort key.
func (a *Album) ArtistName() string { return a.Artist }

// Year returns the release year, used as a sort key.
func (a *Album) Year() int { return a.ReleaseYear }

// TotalDuration returns the summed track duration, used as a sort key.
func (a *Album) TotalDuration() int64 { return a.Duration }
