package cmd

import (
	"context"
	"fmt"
	"time"

	"MeldFM/cache"
	"MeldFM/config"
	"MeldFM/core/extract"
	"MeldFM/core/scheduler"
	"MeldFM/db"
	"MeldFM/logger"
	"MeldFM/repository"
	"MeldFM/storage"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "一次性提取全部过期视频的音频元数据",
	Long:  `扫描库中所有视频，对缓存缺失或过期的条目同步执行元数据提取，完成后退出`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		logger.Init(logger.Config{Level: cfg.LogLevel, OutputPath: ""})
		defer logger.Sync()

		if err := db.ConnectDB(cfg); err != nil {
			return err
		}
		defer db.DB.Close()
		if err := db.InitDB(); err != nil {
			return err
		}
		if err := db.ConnectGormDB(cfg); err != nil {
			return err
		}
		defer db.CloseGormDB()

		if err := cache.ConnectRedis(cfg); err != nil {
			logger.Warn("Redis unavailable, writing straight to MySQL", logger.ErrorField(err))
		} else {
			defer cache.CloseRedis()
		}

		var artwork extract.ArtworkStore
		if store, err := storage.NewMinioStore(cfg); err != nil {
			logger.Warn("MinIO unavailable, extracted artwork will be dropped", logger.ErrorField(err))
		} else {
			artwork = store
		}

		metaRepo := repository.NewMySQLMetadataRepository()
		libRepo := repository.NewGormLibraryRepository()
		metaCache := cache.NewMetadataCache(metaRepo, time.Duration(cfg.MetadataTTLMin)*time.Minute)

		videos, err := libRepo.ListVideos()
		if err != nil {
			return err
		}
		ids := make([]int64, len(videos))
		for i, v := range videos {
			ids[i] = v.ID
		}
		ctx := context.Background()
		records, err := metaCache.GetMany(ctx, ids)
		if err != nil {
			return err
		}

		sched := scheduler.New(extract.NewTagExtractor(artwork), metaCache, nil, cfg.ExtractWorkers)
		attempted, succeeded := sched.Sweep(ctx, videos, records)
		fmt.Printf("sweep finished: %d videos, %d attempted, %d records written\n",
			len(videos), attempted, succeeded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sweepCmd)
}
