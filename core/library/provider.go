// Package library assembles the audio-browser read path: merged,
// memoized artist/album/track views over the native library and the
// video metadata cache, with lazy extraction scheduling on the side.
package library

import (
	"context"

	"MeldFM/cache"
	"MeldFM/core/merge"
	"MeldFM/core/scheduler"
	"MeldFM/core/virtual"
	"MeldFM/model"
	"MeldFM/repository"
)

// MetadataSource is the read surface of the metadata cache the provider
// needs. Implemented by cache.MetadataCache.
type MetadataSource interface {
	GetAll(ctx context.Context) ([]*model.VideoMetadata, error)
	GetMany(ctx context.Context, mediaIDs []int64) (map[int64]*model.VideoMetadata, error)
}

// Provider serves merged listings. Reads complete with whatever metadata
// is cached right now; stale or missing records are handed to the
// scheduler and the views refresh once extraction lands.
type Provider struct {
	library repository.LibraryRepository
	meta    MetadataSource
	views   *cache.ViewCache
	sched   *scheduler.Scheduler
}

// NewProvider wires the read path together. sched may be nil (listings
// then never trigger extraction, useful for one-shot tooling).
func NewProvider(lib repository.LibraryRepository, meta MetadataSource, views *cache.ViewCache, sched *scheduler.Scheduler) *Provider {
	return &Provider{library: lib, meta: meta, views: views, sched: sched}
}

func neededLength(limit, offset int) int {
	if limit < 0 {
		return cache.CompleteView
	}
	return offset + limit
}

func pageEntities(list []model.Entity, limit, offset int) []model.Entity {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []model.Entity{}
	}
	end := len(list)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

func pageTracks(list []*model.MediaItem, limit, offset int) []*model.MediaItem {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(list) {
		return []*model.MediaItem{}
	}
	end := len(list)
	if limit >= 0 && offset+limit < end {
		end = offset + limit
	}
	return list[offset:end]
}

// videoState loads the current video items and cached records once per
// recompute: the item map feeds virtual grouping, the record map feeds
// effective-field resolution and staleness checks.
func (p *Provider) videoState(ctx context.Context) ([]*model.MediaItem, map[int64]*model.MediaItem, map[int64]*model.VideoMetadata, []*model.VideoMetadata, error) {
	videos, err := p.library.ListVideos()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	records, err := p.meta.GetAll(ctx)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	itemsByID := make(map[int64]*model.MediaItem, len(videos))
	for _, v := range videos {
		itemsByID[v.ID] = v
	}
	recordsByID := make(map[int64]*model.VideoMetadata, len(records))
	for _, rec := range records {
		recordsByID[rec.MediaID] = rec
	}
	return videos, itemsByID, recordsByID, records, nil
}

func (p *Provider) noteListing(videos []*model.MediaItem, records map[int64]*model.VideoMetadata) {
	if p.sched != nil {
		p.sched.NoteListing(videos, records)
	}
}

func viewKey(kind cache.ViewKind, scope string, q model.Query) cache.ViewKey {
	return cache.ViewKey{
		Kind:          kind,
		Scope:         scope,
		Filter:        q.Filter,
		Sort:          q.Sort,
		Desc:          q.Desc,
		FavoritesOnly: q.FavoritesOnly,
	}
}

// Artists returns one page of the merged artist collection.
func (p *Provider) Artists(ctx context.Context, q model.Query, limit, offset int) ([]model.Entity, error) {
	merged, err := p.mergedArtists(ctx, q)
	if err != nil {
		return nil, err
	}
	return pageEntities(merged, limit, offset), nil
}

// ArtistCount returns the merged artist count. It is computed from the
// same merged collection the listing serves, so count and list can never
// drift apart.
func (p *Provider) ArtistCount(ctx context.Context, q model.Query) (int, error) {
	merged, err := p.mergedArtists(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(merged), nil
}

func (p *Provider) mergedArtists(ctx context.Context, q model.Query) ([]model.Entity, error) {
	key := viewKey(cache.ViewArtists, "", q)
	if merged, ok := p.views.GetEntities(key, cache.CompleteView); ok {
		return merged, nil
	}

	native, err := p.library.ListArtists(q)
	if err != nil {
		return nil, err
	}
	videos, itemsByID, recordsByID, records, err := p.videoState(ctx)
	if err != nil {
		return nil, err
	}

	virtuals := virtual.BuildArtists(records, itemsByID, q)
	merged := merge.MergeArtists(native, virtuals, q)
	p.views.PutEntities(key, merged, cache.CompleteView)

	p.noteListing(videos, recordsByID)
	return merged, nil
}

// Albums returns one page of the merged album collection.
func (p *Provider) Albums(ctx context.Context, q model.Query, limit, offset int) ([]model.Entity, error) {
	merged, err := p.mergedAlbums(ctx, q)
	if err != nil {
		return nil, err
	}
	return pageEntities(merged, limit, offset), nil
}

// AlbumCount returns the merged album count.
func (p *Provider) AlbumCount(ctx context.Context, q model.Query) (int, error) {
	merged, err := p.mergedAlbums(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(merged), nil
}

func (p *Provider) mergedAlbums(ctx context.Context, q model.Query) ([]model.Entity, error) {
	key := viewKey(cache.ViewAlbums, "", q)
	if merged, ok := p.views.GetEntities(key, cache.CompleteView); ok {
		return merged, nil
	}

	native, err := p.library.ListAlbums(q)
	if err != nil {
		return nil, err
	}
	videos, itemsByID, recordsByID, records, err := p.videoState(ctx)
	if err != nil {
		return nil, err
	}

	virtuals := virtual.BuildAlbums(records, itemsByID, q)
	merged := merge.MergeAlbums(native, virtuals, q)
	p.views.PutEntities(key, merged, cache.CompleteView)

	p.noteListing(videos, recordsByID)
	return merged, nil
}

// Tracks returns one page of the full merged track listing: native audio
// tracks plus all videos, metadata-less videos included.
func (p *Provider) Tracks(ctx context.Context, q model.Query, limit, offset int) ([]*model.MediaItem, error) {
	merged, err := p.mergedTracks(ctx, q)
	if err != nil {
		return nil, err
	}
	return pageTracks(merged, limit, offset), nil
}

// TrackCount returns the merged track count.
func (p *Provider) TrackCount(ctx context.Context, q model.Query) (int, error) {
	merged, err := p.mergedTracks(ctx, q)
	if err != nil {
		return 0, err
	}
	return len(merged), nil
}

func (p *Provider) mergedTracks(ctx context.Context, q model.Query) ([]*model.MediaItem, error) {
	key := viewKey(cache.ViewTracks, "", q)
	if merged, ok := p.views.GetTracks(key, cache.CompleteView); ok {
		return merged, nil
	}

	native, err := p.library.ListTracks(q)
	if err != nil {
		return nil, err
	}
	videos, _, recordsByID, _, err := p.videoState(ctx)
	if err != nil {
		return nil, err
	}

	lookup := func(mediaID int64) *model.VideoMetadata { return recordsByID[mediaID] }
	merged := merge.MergeTracks(native, videos, lookup, q)
	p.views.PutTracks(key, merged, cache.CompleteView)

	p.noteListing(videos, recordsByID)
	return merged, nil
}

// TracksOfArtist returns one page of the tracks scoped to an artist.
// Negative ids address virtual artists, whose track list is exactly the
// membership; native artists union their library tracks with videos
// tagged under their name.
func (p *Provider) TracksOfArtist(ctx context.Context, artistID int64, q model.Query, limit, offset int) ([]*model.MediaItem, error) {
	key := viewKey(cache.ViewTracks, cache.ScopeArtist(artistID), q)
	if merged, ok := p.views.GetTracks(key, cache.CompleteView); ok {
		return pageTracks(merged, limit, offset), nil
	}

	videos, itemsByID, recordsByID, records, err := p.videoState(ctx)
	if err != nil {
		return nil, err
	}
	defer p.noteListing(videos, recordsByID)

	var merged []*model.MediaItem
	if artistID < 0 {
		merged = []*model.MediaItem{}
		for _, v := range virtual.BuildArtists(records, itemsByID, model.Query{}) {
			if v.ID == artistID {
				merged = v.Tracks()
				break
			}
		}
	} else {
		parent, err := p.library.GetArtistByID(artistID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return []*model.MediaItem{}, nil // Missing parent is an empty result
		}
		native, err := p.library.TracksByArtist(artistID, q)
		if err != nil {
			return nil, err
		}
		lookup := func(mediaID int64) *model.VideoMetadata { return recordsByID[mediaID] }
		merged = merge.TracksForNativeParent(native, videos, lookup, merge.ArtistScope(parent.Name), q)
	}

	p.views.PutTracks(key, merged, cache.CompleteView)
	return pageTracks(merged, limit, offset), nil
}

// TracksOfAlbum returns one page of the tracks scoped to an album, with
// the same virtual/native split as TracksOfArtist.
func (p *Provider) TracksOfAlbum(ctx context.Context, albumID int64, q model.Query, limit, offset int) ([]*model.MediaItem, error) {
	key := viewKey(cache.ViewTracks, cache.ScopeAlbum(albumID), q)
	if merged, ok := p.views.GetTracks(key, cache.CompleteView); ok {
		return pageTracks(merged, limit, offset), nil
	}

	videos, itemsByID, recordsByID, records, err := p.videoState(ctx)
	if err != nil {
		return nil, err
	}
	defer p.noteListing(videos, recordsByID)

	var merged []*model.MediaItem
	if albumID < 0 {
		merged = []*model.MediaItem{}
		for _, v := range virtual.BuildAlbums(records, itemsByID, model.Query{}) {
			if v.ID == albumID {
				merged = v.Tracks()
				break
			}
		}
	} else {
		parent, err := p.library.GetAlbumByID(albumID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return []*model.MediaItem{}, nil
		}
		native, err := p.library.TracksByAlbum(albumID, q)
		if err != nil {
			return nil, err
		}
		lookup := func(mediaID int64) *model.VideoMetadata { return recordsByID[mediaID] }
		merged = merge.TracksForNativeParent(native, videos, lookup, merge.AlbumScope(parent.Name), q)
	}

	p.views.PutTracks(key, merged, cache.CompleteView)
	return pageTracks(merged, limit, offset), nil
}

// TracksOfGenre returns one page of the tracks scoped to a genre name,
// unioning native tracks with videos whose cached genre matches.
func (p *Provider) TracksOfGenre(ctx context.Context, genre string, q model.Query, limit, offset int) ([]*model.MediaItem, error) {
	key := viewKey(cache.ViewTracks, cache.ScopeGenre(genre), q)
	if merged, ok := p.views.GetTracks(key, cache.CompleteView); ok {
		return pageTracks(merged, limit, offset), nil
	}

	videos, _, recordsByID, _, err := p.videoState(ctx)
	if err != nil {
		return nil, err
	}
	defer p.noteListing(videos, recordsByID)

	native, err := p.library.TracksByGenre(genre, q)
	if err != nil {
		return nil, err
	}
	lookup := func(mediaID int64) *model.VideoMetadata { return recordsByID[mediaID] }
	merged := merge.TracksForNativeParent(native, videos, lookup, merge.GenreScope(genre), q)

	p.views.PutTracks(key, merged, cache.CompleteView)
	return pageTracks(merged, limit, offset), nil
}
