package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MeldFM/cache"
	"MeldFM/config"
	"MeldFM/core/extract"
	"MeldFM/core/library"
	"MeldFM/core/scheduler"
	"MeldFM/db"
	"MeldFM/logger"
	"MeldFM/repository"
	"MeldFM/storage"

	"github.com/gorilla/mux"
)

// Start initializes and starts the HTTP server.
func Start() {
	cfg := config.Load()

	logger.Init(logger.Config{
		Level:      cfg.LogLevel,
		OutputPath: cfg.LogOutput,
		MaxSize:    50,
		MaxBackups: 5,
		MaxAge:     14,
		Compress:   true,
	})
	defer logger.Sync()

	// Connect to the database
	if err := db.ConnectDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database", logger.ErrorField(err))
	}
	defer db.DB.Close()

	if err := db.InitDB(); err != nil {
		logger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}

	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Fatal("Failed to connect to database with GORM", logger.ErrorField(err))
	}
	defer db.CloseGormDB()

	if err := db.MigrateLibraryModels(); err != nil {
		logger.Fatal("Failed to migrate library models", logger.ErrorField(err))
	}

	// Redis 不可用时热缓存退化为直接读 MySQL，不阻止启动
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.Warn("Redis unavailable, metadata hot cache disabled", logger.ErrorField(err))
	} else {
		defer cache.CloseRedis()
	}

	// MinIO 不可用时提取结果不带封面，不阻止启动
	var artwork extract.ArtworkStore
	if store, err := storage.NewMinioStore(cfg); err != nil {
		logger.Warn("MinIO unavailable, extracted artwork will be dropped", logger.ErrorField(err))
	} else {
		artwork = store
	}

	metaRepo := repository.NewMySQLMetadataRepository()
	libRepo := repository.NewGormLibraryRepository()
	metaCache := cache.NewMetadataCache(metaRepo, time.Duration(cfg.MetadataTTLMin)*time.Minute)
	views := cache.NewViewCache()

	extractor := extract.NewTagExtractor(artwork)
	sched := scheduler.New(extractor, metaCache, views, cfg.ExtractWorkers)
	defer sched.Stop()

	provider := library.NewProvider(libRepo, metaCache, views, sched)

	hub := NewNotifyHub(sched)
	go hub.Run()
	defer hub.Stop()

	apiHandler := NewAPIHandler(provider)

	// 使用 gorilla/mux 创建路由器
	router := mux.NewRouter()

	// 添加 CORS 中间件
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS, HEAD")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "86400")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	})

	router.HandleFunc("/api/library/artists", apiHandler.HandleArtists).Methods(http.MethodGet)
	router.HandleFunc("/api/library/artists/count", apiHandler.HandleArtistCount).Methods(http.MethodGet)
	router.HandleFunc("/api/library/artists/{id}/tracks", apiHandler.HandleArtistTracks).Methods(http.MethodGet)
	router.HandleFunc("/api/library/albums", apiHandler.HandleAlbums).Methods(http.MethodGet)
	router.HandleFunc("/api/library/albums/count", apiHandler.HandleAlbumCount).Methods(http.MethodGet)
	router.HandleFunc("/api/library/albums/{id}/tracks", apiHandler.HandleAlbumTracks).Methods(http.MethodGet)
	router.HandleFunc("/api/library/tracks", apiHandler.HandleTracks).Methods(http.MethodGet)
	router.HandleFunc("/api/library/tracks/count", apiHandler.HandleTrackCount).Methods(http.MethodGet)
	router.HandleFunc("/api/library/genres/{name}/tracks", apiHandler.HandleGenreTracks).Methods(http.MethodGet)
	router.HandleFunc("/api/library/refresh", hub.HandleRefreshSocket)

	server := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("MeldFM server listening", logger.String("addr", cfg.ServerAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", logger.ErrorField(err))
		}
	}()

	// 等待退出信号，优雅关停
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", logger.ErrorField(err))
	}
}
