package repository

import (
	"fmt"

	"MeldFM/db"
	"MeldFM/model"

	"gorm.io/gorm"
)

// LibraryRepository is the adapter to the primary media library. The
// reconciliation engine only ever reads through it; native entities are
// never mutated here. Lists come back already filtered and sorted for the
// requested query shape, counts mirror the same predicates.
type LibraryRepository interface {
	ListArtists(q model.Query) ([]*model.Artist, error)
	CountArtists(q model.Query) (int64, error)
	GetArtistByID(id int64) (*model.Artist, error)

	ListAlbums(q model.Query) ([]*model.Album, error)
	CountAlbums(q model.Query) (int64, error)
	GetAlbumByID(id int64) (*model.Album, error)

	ListTracks(q model.Query) ([]*model.MediaItem, error)
	CountTracks(q model.Query) (int64, error)
	TracksByArtist(artistID int64, q model.Query) ([]*model.MediaItem, error)
	TracksByAlbum(albumID int64, q model.Query) ([]*model.MediaItem, error)
	TracksByGenre(genre string, q model.Query) ([]*model.MediaItem, error)

	ListVideos() ([]*model.MediaItem, error)
	GetItems(mediaIDs []int64) (map[int64]*model.MediaItem, error)
}

// gormLibraryRepository implements LibraryRepository over GORM.
type gormLibraryRepository struct {
	DB *gorm.DB
}

// NewGormLibraryRepository creates a library adapter on the global GORM handle.
func NewGormLibraryRepository() LibraryRepository {
	return &gormLibraryRepository{DB: db.GormDB}
}

// NewGormLibraryRepositoryWithDB creates a library adapter on an explicit handle.
func NewGormLibraryRepositoryWithDB(gdb *gorm.DB) LibraryRepository {
	return &gormLibraryRepository{DB: gdb}
}

// entityOrder maps a sort field to an ORDER BY clause for artist/album
// listings. Fields that do not apply to the entity kind fall back to name.
func entityOrder(q model.Query, isAlbum bool) string {
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	switch q.Sort {
	case model.SortDuration:
		if isAlbum {
			return "duration " + dir + ", name ASC"
		}
	case model.SortInsertionDate:
		return "created_at " + dir + ", name ASC"
	case model.SortReleaseDate:
		if isAlbum {
			return "release_year " + dir + ", name ASC"
		}
	}
	return "name " + dir
}

func (r *gormLibraryRepository) artistQuery(q model.Query) *gorm.DB {
	tx := r.DB.Model(&model.Artist{})
	if q.Filter != "" {
		tx = tx.Where("name LIKE ?", "%"+q.Filter+"%")
	}
	if q.FavoritesOnly {
		tx = tx.Where("favorite = ?", true)
	}
	return tx
}

func (r *gormLibraryRepository) ListArtists(q model.Query) ([]*model.Artist, error) {
	var artists []*model.Artist
	if err := r.artistQuery(q).Order(entityOrder(q, false)).Find(&artists).Error; err != nil {
		return nil, fmt.Errorf("failed to list artists: %w", err)
	}
	return artists, nil
}

func (r *gormLibraryRepository) CountArtists(q model.Query) (int64, error) {
	var count int64
	if err := r.artistQuery(q).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count artists: %w", err)
	}
	return count, nil
}

func (r *gormLibraryRepository) GetArtistByID(id int64) (*model.Artist, error) {
	var artist model.Artist
	err := r.DB.First(&artist, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil // Missing parents are empty results, not errors
		}
		return nil, fmt.Errorf("failed to get artist %d: %w", id, err)
	}
	return &artist, nil
}

func (r *gormLibraryRepository) albumQuery(q model.Query) *gorm.DB {
	tx := r.DB.Model(&model.Album{})
	if q.Filter != "" {
		tx = tx.Where("name LIKE ?", "%"+q.Filter+"%")
	}
	if q.FavoritesOnly {
		tx = tx.Where("favorite = ?", true)
	}
	return tx
}

func (r *gormLibraryRepository) ListAlbums(q model.Query) ([]*model.Album, error) {
	var albums []*model.Album
	if err := r.albumQuery(q).Order(entityOrder(q, true)).Find(&albums).Error; err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

func (r *gormLibraryRepository) CountAlbums(q model.Query) (int64, error) {
	var count int64
	if err := r.albumQuery(q).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count albums: %w", err)
	}
	return count, nil
}

func (r *gormLibraryRepository) GetAlbumByID(id int64) (*model.Album, error) {
	var album model.Album
	err := r.DB.First(&album, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get album %d: %w", id, err)
	}
	return &album, nil
}

// trackOrder maps a sort field to an ORDER BY clause for track listings.
func trackOrder(q model.Query) string {
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	switch q.Sort {
	case model.SortDuration:
		return "duration " + dir + ", title ASC"
	case model.SortInsertionDate:
		return "created_at " + dir + ", title ASC"
	case model.SortLastModified:
		return "last_modified " + dir + ", title ASC"
	case model.SortReleaseDate:
		return "release_year " + dir + ", title ASC"
	case model.SortFileSize:
		return "file_size " + dir + ", title ASC"
	case model.SortArtist:
		return "artist " + dir + ", title ASC"
	case model.SortAlbum:
		return "album " + dir + ", disc_number ASC, track_number ASC"
	case model.SortFilename:
		return "file_path " + dir
	case model.SortTrackNumber:
		return "disc_number " + dir + ", track_number " + dir + ", title ASC"
	default:
		return "title " + dir
	}
}

func (r *gormLibraryRepository) trackQuery(q model.Query) *gorm.DB {
	tx := r.DB.Model(&model.MediaItem{}).Where("type = ?", model.MediaTypeAudio)
	if q.Filter != "" {
		tx = tx.Where("title LIKE ?", "%"+q.Filter+"%")
	}
	if q.FavoritesOnly {
		tx = tx.Where("favorite = ?", true)
	}
	if !q.IncludeMissing {
		tx = tx.Where("missing = ?", false)
	}
	return tx
}

func (r *gormLibraryRepository) ListTracks(q model.Query) ([]*model.MediaItem, error) {
	var tracks []*model.MediaItem
	if err := r.trackQuery(q).Order(trackOrder(q)).Find(&tracks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}

func (r *gormLibraryRepository) CountTracks(q model.Query) (int64, error) {
	var count int64
	if err := r.trackQuery(q).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count tracks: %w", err)
	}
	return count, nil
}

func (r *gormLibraryRepository) TracksByArtist(artistID int64, q model.Query) ([]*model.MediaItem, error) {
	artist, err := r.GetArtistByID(artistID)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return []*model.MediaItem{}, nil
	}
	var tracks []*model.MediaItem
	err = r.trackQuery(q).
		Where("artist = ? OR album_artist = ?", artist.Name, artist.Name).
		Order(trackOrder(q)).Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks of artist %d: %w", artistID, err)
	}
	return tracks, nil
}

func (r *gormLibraryRepository) TracksByAlbum(albumID int64, q model.Query) ([]*model.MediaItem, error) {
	album, err := r.GetAlbumByID(albumID)
	if err != nil {
		return nil, err
	}
	if album == nil {
		return []*model.MediaItem{}, nil
	}
	var tracks []*model.MediaItem
	err = r.trackQuery(q).
		Where("album = ?", album.Name).
		Order(trackOrder(q)).Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks of album %d: %w", albumID, err)
	}
	return tracks, nil
}

func (r *gormLibraryRepository) TracksByGenre(genre string, q model.Query) ([]*model.MediaItem, error) {
	var tracks []*model.MediaItem
	err := r.trackQuery(q).
		Where("genre = ?", genre).
		Order(trackOrder(q)).Find(&tracks).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list tracks of genre %s: %w", genre, err)
	}
	return tracks, nil
}

// ListVideos returns every video item in the library, in discovery order.
func (r *gormLibraryRepository) ListVideos() ([]*model.MediaItem, error) {
	var videos []*model.MediaItem
	err := r.DB.Model(&model.MediaItem{}).
		Where("type = ?", model.MediaTypeVideo).
		Order("id ASC").Find(&videos).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list videos: %w", err)
	}
	return videos, nil
}

// GetItems resolves a set of media ids. Ids that no longer exist are
// simply absent from the returned map.
func (r *gormLibraryRepository) GetItems(mediaIDs []int64) (map[int64]*model.MediaItem, error) {
	result := make(map[int64]*model.MediaItem, len(mediaIDs))
	if len(mediaIDs) == 0 {
		return result, nil
	}
	var items []*model.MediaItem
	if err := r.DB.Where("id IN ?", mediaIDs).Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve media items: %w", err)
	}
	for _, item := range items {
		result[item.ID] = item
	}
	return result, nil
}
