package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"MeldFM/logger"
	"MeldFM/model"
	"MeldFM/repository"

	"github.com/redis/go-redis/v9"
)

// MetadataCache 是挂在 MySQL 元数据仓库前面的 Redis 热缓存。
// 读路径先查 Redis，未命中时回源仓库并写回；写路径直写仓库后刷新缓存。
// Redis 不可用时退化为直接读仓库，只记日志不报错。
type MetadataCache struct {
	repo repository.MetadataRepository
	ttl  time.Duration
}

// NewMetadataCache 创建元数据热缓存
func NewMetadataCache(repo repository.MetadataRepository, ttl time.Duration) *MetadataCache {
	return &MetadataCache{repo: repo, ttl: ttl}
}

// metadataKey 根据媒体ID生成Redis键
func metadataKey(mediaID int64) string {
	return fmt.Sprintf("meldfm:meta:%d", mediaID)
}

// Get 返回一条缓存的元数据记录，不存在时返回 (nil, nil)
func (c *MetadataCache) Get(ctx context.Context, mediaID int64) (*model.VideoMetadata, error) {
	if RedisClient != nil {
		val, err := RedisClient.Get(ctx, metadataKey(mediaID)).Result()
		if err == nil {
			var rec model.VideoMetadata
			if err := json.Unmarshal([]byte(val), &rec); err == nil {
				return &rec, nil
			}
			// 反序列化失败视为未命中，继续回源
		} else if err != redis.Nil {
			logger.Warn("redis 元数据读取失败，回源 MySQL",
				logger.Int64("mediaId", mediaID),
				logger.ErrorField(err))
		}
	}

	rec, err := c.repo.GetByMediaID(mediaID)
	if err != nil || rec == nil {
		return rec, err
	}
	c.fill(ctx, rec)
	return rec, nil
}

// GetMany 批量返回缓存记录，缺失的ID不出现在结果里
func (c *MetadataCache) GetMany(ctx context.Context, mediaIDs []int64) (map[int64]*model.VideoMetadata, error) {
	result := make(map[int64]*model.VideoMetadata, len(mediaIDs))
	if len(mediaIDs) == 0 {
		return result, nil
	}

	missing := mediaIDs
	if RedisClient != nil {
		keys := make([]string, len(mediaIDs))
		for i, id := range mediaIDs {
			keys[i] = metadataKey(id)
		}
		vals, err := RedisClient.MGet(ctx, keys...).Result()
		if err == nil {
			missing = missing[:0:0]
			for i, v := range vals {
				s, ok := v.(string)
				if !ok {
					missing = append(missing, mediaIDs[i])
					continue
				}
				var rec model.VideoMetadata
				if err := json.Unmarshal([]byte(s), &rec); err != nil {
					missing = append(missing, mediaIDs[i])
					continue
				}
				result[rec.MediaID] = &rec
			}
		} else {
			logger.Warn("redis 元数据批量读取失败，回源 MySQL", logger.ErrorField(err))
		}
	}

	if len(missing) > 0 {
		fromDB, err := c.repo.GetByMediaIDs(missing)
		if err != nil {
			return nil, err
		}
		for id, rec := range fromDB {
			result[id] = rec
			c.fill(ctx, rec)
		}
	}
	return result, nil
}

// GetAll 返回全部缓存记录，直接走仓库全表扫描
func (c *MetadataCache) GetAll(ctx context.Context) ([]*model.VideoMetadata, error) {
	return c.repo.GetAll()
}

// Put 持久化一条记录并刷新热缓存
func (c *MetadataCache) Put(ctx context.Context, rec *model.VideoMetadata) error {
	if err := c.repo.Upsert(rec); err != nil {
		return err
	}
	c.fill(ctx, rec)
	return nil
}

// Invalidate 删除一条记录及其热缓存
func (c *MetadataCache) Invalidate(ctx context.Context, mediaID int64) error {
	if err := c.repo.Delete(mediaID); err != nil {
		return err
	}
	if RedisClient != nil {
		if err := RedisClient.Del(ctx, metadataKey(mediaID)).Err(); err != nil {
			logger.Warn("redis 元数据删除失败",
				logger.Int64("mediaId", mediaID),
				logger.ErrorField(err))
		}
	}
	return nil
}

// IsFreshFor 判断记录是否相对给定时间戳仍然新鲜
func (c *MetadataCache) IsFreshFor(ctx context.Context, mediaID int64, referenceTimestamp int64) (bool, error) {
	rec, err := c.Get(ctx, mediaID)
	if err != nil {
		return false, err
	}
	if rec == nil {
		return false, nil
	}
	return rec.LastModified >= referenceTimestamp, nil
}

// fill 将记录写入 Redis 热缓存，失败时静默降级
func (c *MetadataCache) fill(ctx context.Context, rec *model.VideoMetadata) {
	if RedisClient == nil {
		return
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := RedisClient.Set(ctx, metadataKey(rec.MediaID), data, c.ttl).Err(); err != nil {
		logger.Warn("redis 元数据写入失败",
			logger.Int64("mediaId", rec.MediaID),
			logger.ErrorField(err))
	}
}
