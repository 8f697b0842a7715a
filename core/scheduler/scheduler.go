// Package scheduler lazily fills the video metadata cache and keeps the
// merged views consistent. Listing requests hand it the videos they saw;
// extraction happens on a background pool and never blocks the read path.
package scheduler

import (
	"context"
	"errors"
	"sync"

	"MeldFM/cache"
	"MeldFM/core/extract"
	"MeldFM/logger"
	"MeldFM/model"
)

// Store 是调度器需要的元数据存取面，由 cache.MetadataCache 实现
type Store interface {
	Get(ctx context.Context, mediaID int64) (*model.VideoMetadata, error)
	Put(ctx context.Context, rec *model.VideoMetadata) error
}

// RefreshEvent 一批提取完成后的刷新通知
type RefreshEvent struct {
	MediaIDs  []int64 `json:"mediaIds"`  // 本批成功持久化的媒体ID
	Attempted int     `json:"attempted"` // 本批尝试提取的数量
	Succeeded int     `json:"succeeded"` // 本批成功持久化的数量
}

// Scheduler 决定哪些视频需要提取元数据，异步触发提取，
// 完成后失效合并视图并通知订阅者
type Scheduler struct {
	extractor extract.Extractor
	store     Store
	views     *cache.ViewCache

	// 并发上限信号量
	sem chan struct{}

	mu       sync.Mutex
	inFlight map[int64]bool // 正在提取中的媒体ID

	obsMu        sync.Mutex
	observers    map[int64]chan RefreshEvent
	nextObserver int64

	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New 创建提取调度器。workers 是后台提取的并发上限。
func New(extractor extract.Extractor, store Store, views *cache.ViewCache, workers int) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{
		extractor: extractor,
		store:     store,
		views:     views,
		sem:       make(chan struct{}, workers),
		inFlight:  make(map[int64]bool),
		observers: make(map[int64]chan RefreshEvent),
		stopChan:  make(chan struct{}),
	}
}

// Stop 停止调度器并等待在途提取完成。
// 在途提取允许跑完并持久化（缓存填充不浪费），只是不再通知任何观察者。
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stopChan) })
	s.wg.Wait()
}

func (s *Scheduler) stopped() bool {
	select {
	case <-s.stopChan:
		return true
	default:
		return false
	}
}

// StaleVideos 根据已取到的记录算出缺失或过期的视频子集。
// 记录缺失，或 record.lastModified < item.lastModified 时需要提取。
func StaleVideos(items []*model.MediaItem, records map[int64]*model.VideoMetadata) []*model.MediaItem {
	stale := make([]*model.MediaItem, 0)
	for _, item := range items {
		if !item.IsVideo() {
			continue
		}
		rec, ok := records[item.ID]
		if !ok || rec == nil || rec.StaleFor(item.LastModified) {
			stale = append(stale, item)
		}
	}
	return stale
}

// NoteListing 在每次视频列表后调用：算出需要提取的子集并异步派发。
// 立即返回，调用方用当前可得的数据先出结果。
func (s *Scheduler) NoteListing(items []*model.MediaItem, records map[int64]*model.VideoMetadata) {
	if s.stopped() {
		return
	}

	stale := StaleVideos(items, records)
	if len(stale) == 0 {
		return
	}

	// 跳过已在提取中的，重复触发在这里合并
	batch := make([]*model.MediaItem, 0, len(stale))
	s.mu.Lock()
	for _, item := range stale {
		if s.inFlight[item.ID] {
			continue
		}
		s.inFlight[item.ID] = true
		batch = append(batch, item)
	}
	s.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	s.wg.Add(1)
	go s.runBatch(batch)
}

// runBatch 后台执行一批提取并在完成后发布刷新
func (s *Scheduler) runBatch(batch []*model.MediaItem) {
	defer s.wg.Done()

	ctx := context.Background()
	var (
		resMu     sync.Mutex
		persisted []int64
	)

	var itemWg sync.WaitGroup
	for _, item := range batch {
		itemWg.Add(1)
		s.sem <- struct{}{}
		go func(item *model.MediaItem) {
			defer func() {
				<-s.sem
				itemWg.Done()
			}()
			if id, ok := s.extractOne(ctx, item); ok {
				resMu.Lock()
				persisted = append(persisted, id)
				resMu.Unlock()
			}
		}(item)
	}
	itemWg.Wait()

	logger.Info("元数据提取批次完成",
		logger.Int("attempted", len(batch)),
		logger.Int("succeeded", len(persisted)))

	if len(persisted) == 0 {
		return
	}

	// 只有真正落盘的记录才触发视图失效和刷新通知
	if s.views != nil {
		s.views.Invalidate(cache.ViewArtists)
		s.views.Invalidate(cache.ViewAlbums)
		s.views.Invalidate(cache.ViewTracks)
	}
	s.notify(RefreshEvent{MediaIDs: persisted, Attempted: len(batch), Succeeded: len(persisted)})
}

// extractOne 提取单个视频并在成功时持久化。
// 提取过程不持有任何锁；持久化的串行化由存储层负责。
func (s *Scheduler) extractOne(ctx context.Context, item *model.MediaItem) (int64, bool) {
	defer func() {
		s.mu.Lock()
		delete(s.inFlight, item.ID)
		s.mu.Unlock()
	}()

	rec, err := s.extractor.Extract(ctx, item)
	if err != nil {
		if errors.Is(err, extract.ErrNotApplicable) {
			// 无可用标签：不落盘，下次列表时重新评估
			logger.Debug("视频无可用音频标签",
				logger.Int64("mediaId", item.ID))
			return 0, false
		}
		// 瞬态解码失败：本轮记为无元数据，不立即重试
		logger.Warn("元数据提取失败",
			logger.Int64("mediaId", item.ID),
			logger.String("path", item.FilePath),
			logger.ErrorField(err))
		return 0, false
	}

	if err := s.store.Put(ctx, rec); err != nil {
		logger.Error("元数据持久化失败",
			logger.Int64("mediaId", item.ID),
			logger.ErrorField(err))
		return 0, false
	}
	return item.ID, true
}

// Subscribe 注册刷新事件订阅者，返回订阅ID和事件通道
func (s *Scheduler) Subscribe() (int64, <-chan RefreshEvent) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.nextObserver++
	id := s.nextObserver
	ch := make(chan RefreshEvent, 8)
	s.observers[id] = ch
	return id, ch
}

// Unsubscribe 注销订阅者
func (s *Scheduler) Unsubscribe(id int64) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	if ch, ok := s.observers[id]; ok {
		delete(s.observers, id)
		close(ch)
	}
}

// notify 向所有订阅者发布刷新事件。
// 发送不阻塞：已死或已满的订阅者直接跳过，通知失败静默吞掉。
func (s *Scheduler) notify(ev RefreshEvent) {
	if s.stopped() {
		return
	}
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for _, ch := range s.observers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Sweep 同步提取一批过期视频，给一次性维护命令用。
// 与后台路径共用去重和持久化逻辑。
func (s *Scheduler) Sweep(ctx context.Context, items []*model.MediaItem, records map[int64]*model.VideoMetadata) (attempted, succeeded int) {
	stale := StaleVideos(items, records)
	for _, item := range stale {
		s.mu.Lock()
		if s.inFlight[item.ID] {
			s.mu.Unlock()
			continue
		}
		s.inFlight[item.ID] = true
		s.mu.Unlock()

		attempted++
		if _, ok := s.extractOne(ctx, item); ok {
			succeeded++
		}
	}
	if succeeded > 0 && s.views != nil {
		s.views.InvalidateAll()
	}
	return attempted, succeeded
}
