package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"MeldFM/db"
	"MeldFM/model"
)

// MetadataRepository defines the interface for cached video metadata
// operations. A missing record is represented as (nil, nil), never as an
// error. All methods are safe for concurrent use; writes for the same
// media id serialize.
type MetadataRepository interface {
	GetByMediaID(mediaID int64) (*model.VideoMetadata, error)
	GetByMediaIDs(mediaIDs []int64) (map[int64]*model.VideoMetadata, error)
	GetBySourcePath(sourcePath string) (*model.VideoMetadata, error)
	GetAll() ([]*model.VideoMetadata, error)
	Upsert(rec *model.VideoMetadata) error
	UpsertMany(recs []*model.VideoMetadata) error
	Delete(mediaID int64) error
	IsFreshFor(mediaID int64, referenceTimestamp int64) (bool, error)
	Count() (int64, error)
}

// mysqlMetadataRepository implements MetadataRepository for MySQL.
type mysqlMetadataRepository struct {
	DB *sql.DB

	// Per-media-id write serialization. Held only around the persist
	// step, never across extraction.
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

// NewMySQLMetadataRepository creates a new instance of mysqlMetadataRepository.
func NewMySQLMetadataRepository() MetadataRepository {
	return &mysqlMetadataRepository{DB: db.DB, locks: make(map[int64]*sync.Mutex)}
}

// NewMySQLMetadataRepositoryWithDB creates a repository bound to an explicit handle.
func NewMySQLMetadataRepositoryWithDB(database *sql.DB) MetadataRepository {
	return &mysqlMetadataRepository{DB: database, locks: make(map[int64]*sync.Mutex)}
}

func (r *mysqlMetadataRepository) lockFor(mediaID int64) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[mediaID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[mediaID] = l
	}
	return l
}

const metadataColumns = `media_id, source_path, artist, album, album_artist, genre, track_number, disc_number, artwork_url, release_year, last_modified, created_at`

func scanMetadata(row interface{ Scan(...interface{}) error }) (*model.VideoMetadata, error) {
	rec := &model.VideoMetadata{}
	err := row.Scan(&rec.MediaID, &rec.SourcePath, &rec.Artist, &rec.Album, &rec.AlbumArtist,
		&rec.Genre, &rec.TrackNumber, &rec.DiscNumber, &rec.ArtworkURL, &rec.ReleaseYear,
		&rec.LastModified, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// GetByMediaID retrieves the cached record for one media id.
func (r *mysqlMetadataRepository) GetByMediaID(mediaID int64) (*model.VideoMetadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM video_metadata WHERE media_id = ?`
	rec, err := scanMetadata(r.DB.QueryRow(query, mediaID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil // Record not found
		}
		return nil, fmt.Errorf("failed to scan video metadata by media ID %d: %w", mediaID, err)
	}
	return rec, nil
}

// GetByMediaIDs retrieves cached records for a set of media ids. Missing
// ids are simply absent from the returned map.
func (r *mysqlMetadataRepository) GetByMediaIDs(mediaIDs []int64) (map[int64]*model.VideoMetadata, error) {
	result := make(map[int64]*model.VideoMetadata, len(mediaIDs))
	if len(mediaIDs) == 0 {
		return result, nil
	}

	placeholders := strings.Repeat("?,", len(mediaIDs))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]interface{}, len(mediaIDs))
	for i, id := range mediaIDs {
		args[i] = id
	}

	query := `SELECT ` + metadataColumns + ` FROM video_metadata WHERE media_id IN (` + placeholders + `)`
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query video metadata by media IDs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanMetadata(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video metadata in GetByMediaIDs: %w", err)
		}
		result[rec.MediaID] = rec
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetByMediaIDs: %w", err)
	}
	return result, nil
}

// GetBySourcePath retrieves a record by its source locator.
func (r *mysqlMetadataRepository) GetBySourcePath(sourcePath string) (*model.VideoMetadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM video_metadata WHERE source_path = ?`
	rec, err := scanMetadata(r.DB.QueryRow(query, sourcePath))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan video metadata by source path %s: %w", sourcePath, err)
	}
	return rec, nil
}

// GetAll retrieves every cached record.
func (r *mysqlMetadataRepository) GetAll() ([]*model.VideoMetadata, error) {
	query := `SELECT ` + metadataColumns + ` FROM video_metadata`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query all video metadata: %w", err)
	}
	defer rows.Close()

	recs := make([]*model.VideoMetadata, 0)
	for rows.Next() {
		rec, err := scanMetadata(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video metadata in GetAll: %w", err)
		}
		recs = append(recs, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during rows iteration in GetAll: %w", err)
	}
	return recs, nil
}

// Upsert inserts or replaces the record for its media id.
func (r *mysqlMetadataRepository) Upsert(rec *model.VideoMetadata) error {
	l := r.lockFor(rec.MediaID)
	l.Lock()
	defer l.Unlock()

	query := `INSERT INTO video_metadata (media_id, source_path, artist, album, album_artist, genre, track_number, disc_number, artwork_url, release_year, last_modified, created_at)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	           ON DUPLICATE KEY UPDATE
	           source_path = VALUES(source_path), artist = VALUES(artist), album = VALUES(album),
	           album_artist = VALUES(album_artist), genre = VALUES(genre), track_number = VALUES(track_number),
	           disc_number = VALUES(disc_number), artwork_url = VALUES(artwork_url),
	           release_year = VALUES(release_year), last_modified = VALUES(last_modified)`
	stmt, err := r.DB.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for Upsert: %w", err)
	}
	defer stmt.Close()

	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = stmt.Exec(rec.MediaID, rec.SourcePath, rec.Artist, rec.Album, rec.AlbumArtist,
		rec.Genre, rec.TrackNumber, rec.DiscNumber, rec.ArtworkURL, rec.ReleaseYear,
		rec.LastModified, createdAt)
	if err != nil {
		return fmt.Errorf("failed to execute Upsert for media ID %d: %w", rec.MediaID, err)
	}
	return nil
}

// UpsertMany inserts or replaces a batch of records.
func (r *mysqlMetadataRepository) UpsertMany(recs []*model.VideoMetadata) error {
	for _, rec := range recs {
		if err := r.Upsert(rec); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the record for a media id. Deleting a missing record is not an error.
func (r *mysqlMetadataRepository) Delete(mediaID int64) error {
	l := r.lockFor(mediaID)
	l.Lock()
	defer l.Unlock()

	_, err := r.DB.Exec(`DELETE FROM video_metadata WHERE media_id = ?`, mediaID)
	if err != nil {
		return fmt.Errorf("failed to execute Delete for media ID %d: %w", mediaID, err)
	}
	return nil
}

// IsFreshFor reports whether a record exists for the media id with
// last_modified >= referenceTimestamp.
func (r *mysqlMetadataRepository) IsFreshFor(mediaID int64, referenceTimestamp int64) (bool, error) {
	var lastModified int64
	err := r.DB.QueryRow(`SELECT last_modified FROM video_metadata WHERE media_id = ?`, mediaID).Scan(&lastModified)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("failed to check freshness for media ID %d: %w", mediaID, err)
	}
	return lastModified >= referenceTimestamp, nil
}

// Count returns the number of cached records.
func (r *mysqlMetadataRepository) Count() (int64, error) {
	var count int64
	if err := r.DB.QueryRow(`SELECT COUNT(*) FROM video_metadata`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count video metadata: %w", err)
	}
	return count, nil
}
