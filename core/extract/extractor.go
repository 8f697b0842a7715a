// Package extract reads embedded audio metadata out of video files. It is
// the collaborator boundary of the engine: callers only depend on the
// Extractor contract, never on how a container is parsed.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"MeldFM/logger"
	"MeldFM/model"

	"github.com/dhowden/tag"
)

// ErrNotApplicable means the item either is not a video or its container
// carries no usable audio tags. Nothing is persisted in that case; the
// item is re-evaluated on the next listing, without a retry loop.
var ErrNotApplicable = errors.New("no audio metadata applicable")

// Extractor derives an audio metadata record from a media item.
type Extractor interface {
	Extract(ctx context.Context, item *model.MediaItem) (*model.VideoMetadata, error)
}

// ArtworkStore stores extracted embedded pictures and returns a locator.
// Implemented by storage.MinioStore; nil disables artwork upload.
type ArtworkStore interface {
	PutArtwork(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// TagExtractor reads embedded tags from the source file on disk.
type TagExtractor struct {
	artwork ArtworkStore
}

// NewTagExtractor creates a tag-based extractor. artwork may be nil when
// no object store is configured.
func NewTagExtractor(artwork ArtworkStore) *TagExtractor {
	return &TagExtractor{artwork: artwork}
}

// Extract parses the item's container tags into a metadata record.
// Non-video items and videos with all-blank tags return ErrNotApplicable.
// Parse failures return a wrapped error; neither case persists anything.
func (e *TagExtractor) Extract(ctx context.Context, item *model.MediaItem) (*model.VideoMetadata, error) {
	if !item.IsVideo() {
		return nil, ErrNotApplicable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(item.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", item.FilePath, err)
	}
	defer f.Close()

	m, err := tag.ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read tags from %s: %w", item.FilePath, err)
	}

	rec := &model.VideoMetadata{
		MediaID:      item.ID,
		SourcePath:   item.FilePath,
		Artist:       m.Artist(),
		Album:        m.Album(),
		AlbumArtist:  m.AlbumArtist(),
		Genre:        m.Genre(),
		ReleaseYear:  m.Year(),
		LastModified: item.LastModified,
		CreatedAt:    time.Now(),
	}
	rec.TrackNumber, _ = m.Track()
	rec.DiscNumber, _ = m.Disc()

	// An all-blank parse is the same as no metadata at all. Persisting it
	// would only pollute the cache with no-op records.
	if !rec.HasAudioTags() {
		return nil, ErrNotApplicable
	}

	if pic := m.Picture(); pic != nil && e.artwork != nil {
		name := fmt.Sprintf("video/%d.%s", item.ID, pic.Ext)
		url, err := e.artwork.PutArtwork(ctx, name, pic.Data, pic.MIMEType)
		if err != nil {
			// Artwork upload failure degrades to no artwork, it does not
			// fail the extraction.
			logger.Warn("artwork upload failed",
				logger.Int64("mediaId", item.ID),
				logger.ErrorField(err))
		} else {
			rec.ArtworkURL = url
		}
	}

	return rec, nil
}
