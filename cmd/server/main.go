package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/kerbside-backend-go/internal/api"
	"github.com/jengzang/kerbside-backend-go/internal/config"
	"github.com/jengzang/kerbside-backend-go/internal/database"
	"github.com/jengzang/kerbside-backend-go/internal/finder"
	"github.com/jengzang/kerbside-backend-go/internal/geocoder"
	"github.com/jengzang/kerbside-backend-go/internal/ingest"
	"github.com/jengzang/kerbside-backend-go/internal/logger"
	"github.com/jengzang/kerbside-backend-go/internal/middleware"
	"github.com/jengzang/kerbside-backend-go/internal/service"
	"github.com/jengzang/kerbside-backend-go/internal/store"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		logger.L().Error("config_error", "err", err)
		os.Exit(1)
	}
	l := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 初始化数据源
	var source ingest.Source
	switch cfg.DataSource {
	case config.SourceSQLite:
		var db *sql.DB
		db, err = database.Open(database.Config{Path: cfg.DBPath})
		if err != nil {
			l.Error("database_error", "err", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := database.EnsureSchema(ctx, db); err != nil {
			l.Error("migration_error", "err", err)
			os.Exit(1)
		}
		source = ingest.NewSQLiteSource(db)
	default:
		source = ingest.NewCSVSource(cfg.CSVURL, nil)
	}
	l.Info("data_source", "kind", cfg.DataSource, "csv_url", cfg.CSVURL, "db_path", cfg.DBPath)

	// 快照存储 + 定时刷新
	snapshots := store.NewSnapshotStore()
	scheduler := ingest.NewScheduler(ingest.NewRefresher(source, snapshots, l), cfg.RefreshInterval, l)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// 地理编码：Nominatim + 本地 LRU + 可选 Redis
	var redisTier *geocoder.RedisCache
	if rc := geocoder.OpenRedis(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB); rc != nil {
		defer rc.Close()
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pingCtx).Err(); err != nil {
			l.Warn("redis_unavailable", "addr", cfg.Redis.Addr, "err", err)
		} else {
			redisTier = geocoder.NewRedisCache(rc, cfg.Geocoder.CacheTTL)
		}
		cancel()
	}
	nominatim := geocoder.NewNominatim(geocoder.NominatimConfig{
		BaseURL:      cfg.Geocoder.URL,
		UserAgent:    cfg.Geocoder.UserAgent,
		Suffix:       cfg.Geocoder.Suffix,
		CountryCodes: cfg.Geocoder.Country,
		Viewbox:      cfg.Geocoder.Viewbox,
		RPS:          cfg.Geocoder.RPS,
		Timeout:      cfg.Geocoder.Timeout,
	}, nil)
	gc := geocoder.NewCached(nominatim, geocoder.NewLRU(cfg.Geocoder.CacheSize, cfg.Geocoder.CacheTTL), redisTier)

	f, err := finder.New(cfg.FinderIndex)
	if err != nil {
		l.Error("finder_error", "err", err)
		os.Exit(1)
	}
	gridOpts := cfg.GridOptions()

	// 初始化路由
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, 10*time.Minute)
	go limiter.Run(ctx.Done())

	router := api.SetupRouter(api.Services{
		Query: service.NewQueryService(snapshots, gc, f, gridOpts, l),
		Bays:  service.NewBayService(snapshots, cfg.ListLimit),
	}, limiter, l)

	srv := &http.Server{
		Addr:              cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		l.Info("server_starting", "addr", cfg.Port, "finder", cfg.FinderIndex)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("server_error", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("server_stopping")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		l.Error("shutdown_error", "err", err)
	}
}
