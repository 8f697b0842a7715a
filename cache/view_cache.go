package cache

import (
	"fmt"
	"sync"

	"MeldFM/model"
)

// ViewKind 合并视图的实体种类
type ViewKind string

const (
	ViewArtists ViewKind = "artists"
	ViewAlbums  ViewKind = "albums"
	ViewTracks  ViewKind = "tracks"
)

// ViewKey 是合并视图的缓存键：实体种类 + 查询形状。
// 任何一个参数变化都是缓存未命中，绝不返回过期命中。
type ViewKey struct {
	Kind          ViewKind
	Scope         string // 作用域父级，如 "artist:42"；全局列表为空
	Filter        string
	Sort          model.SortField
	Desc          bool
	FavoritesOnly bool
}

// ScopeArtist 构造艺术家作用域标识
func ScopeArtist(id int64) string { return fmt.Sprintf("artist:%d", id) }

// ScopeAlbum 构造专辑作用域标识
func ScopeAlbum(id int64) string { return fmt.Sprintf("album:%d", id) }

// ScopeGenre 构造流派作用域标识
func ScopeGenre(name string) string { return "genre:" + name }

// CompleteView 表示条目是针对完整结果计算的，任意前缀请求都可命中
const CompleteView = -1

type viewEntry struct {
	entities []model.Entity
	tracks   []*model.MediaItem
	// 该条目计算时覆盖的长度上限；CompleteView 表示完整结果。
	// 命中条件是 limit 覆盖本次请求需要的前缀长度，而不只是键相等。
	limit int
}

// ViewCache 是合并结果的进程内备忘录。条目一旦存入即不可变，
// 读者要么拿到旧的一致值要么触发重算，绝不会看到写了一半的切片。
type ViewCache struct {
	mu      sync.RWMutex
	entries map[ViewKey]*viewEntry
}

// NewViewCache 创建视图缓存
func NewViewCache() *ViewCache {
	return &ViewCache{entries: make(map[ViewKey]*viewEntry)}
}

func (c *ViewCache) covers(e *viewEntry, needed int) bool {
	return e.limit == CompleteView || (needed >= 0 && e.limit >= needed)
}

// GetEntities 返回键对应的实体视图。needed 是本次请求需要的前缀长度
// （offset+limit），needed 为 CompleteView 时要求完整结果。
func (c *ViewCache) GetEntities(key ViewKey, needed int) ([]model.Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.entities == nil || !c.covers(e, needed) {
		return nil, false
	}
	return e.entities, true
}

// PutEntities 存入实体视图，limit 为计算时覆盖的长度（CompleteView 表示完整）
func (c *ViewCache) PutEntities(key ViewKey, entities []model.Entity, limit int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &viewEntry{entities: entities, limit: limit}
}

// GetTracks 返回键对应的曲目视图
func (c *ViewCache) GetTracks(key ViewKey, needed int) ([]*model.MediaItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	if !ok || e.tracks == nil || !c.covers(e, needed) {
		return nil, false
	}
	return e.tracks, true
}

// PutTracks 存入曲目视图
func (c *ViewCache) PutTracks(key ViewKey, tracks []*model.MediaItem, limit int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = &viewEntry{tracks: tracks, limit: limit}
}

// Invalidate 失效某一实体种类下的全部视图
func (c *ViewCache) Invalidate(kind ViewKind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if key.Kind == kind {
			delete(c.entries, key)
		}
	}
}

// InvalidateAll 失效全部视图
func (c *ViewCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[ViewKey]*viewEntry)
}

// Len 返回当前缓存条目数，用于诊断
func (c *ViewCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
