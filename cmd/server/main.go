package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chainpulse/internal/bot"
	"chainpulse/internal/cache"
	"chainpulse/internal/config"
	"chainpulse/internal/db"
	"chainpulse/internal/handler"
	"chainpulse/internal/provider"
	"chainpulse/internal/repository"
	"chainpulse/internal/scheduler"
	"chainpulse/internal/task"
	"chainpulse/internal/ws"
	"chainpulse/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "chainpulse/docs"
)

var (
	loadEnvFunc              = godotenv.Load
	loadConfigFunc           = config.Load
	initPostgresFunc         = db.InitPostgres
	initRedisFunc            = cache.InitRedis
	initTracerFunc           = tracing.InitTracer
	newMetricRepoFunc        = repository.NewMetricRepository
	newCoinGeckoProviderFunc = func(tracer trace.Tracer) (task.MarketProvider, task.PerformanceProvider) {
		p := provider.NewCoinGeckoProvider(tracer)
		return p, p
	}
	newFearGreedProviderFunc = func(tracer trace.Tracer) task.SentimentProvider {
		return provider.NewFearGreedProvider(tracer)
	}
	startTelegramBotFunc   = bot.StartTelegramBot
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// cacheMirrorTTL keeps mirrored entries alive long enough to warm-start
// after a restart without serving ancient state.
const cacheMirrorTTL = 2 * time.Hour

// @title           ChainPulse API
// @version         1.0
// @description     Crypto market data and sentiment aggregation service.

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	sinkEnabled := initPostgresFunc(ctx)
	mirrorEnabled := initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Snapshot cache, optionally mirrored to Redis
	snapshots := cache.NewSnapshotCache()
	if mirrorEnabled {
		mirror := cache.NewMirror(cache.Client, cacheMirrorTTL)
		snapshots.WithMirror(mirror)
		if loaded := mirror.WarmStart(ctx, snapshots); loaded > 0 {
			log.Printf("Warm-started cache with %d mirrored entries", loaded)
		}
	}

	// Scheduler with collectors
	sched := scheduler.New(snapshots, time.Duration(cfg.SchedulerTickSecs)*time.Second, tracer)

	if sinkEnabled {
		metricRepo := newMetricRepoFunc(db.Pool, tracer)
		if err := metricRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
		sched.WithSink(metricRepo)
	}

	hub := ws.NewHub(snapshots)
	hub.Start()
	sched.WithListener(hub)

	marketProvider, perfProvider := newCoinGeckoProviderFunc(tracer)
	fgProvider := newFearGreedProviderFunc(tracer)

	marketCollector, err := task.NewMarketDataCollector(marketProvider, cfg.CoinIDs, tracer)
	if err != nil {
		log.Fatalf("failed to build market data collector: %v", err)
	}
	fearGreedCollector, err := task.NewFearGreedCollector(fgProvider, tracer)
	if err != nil {
		log.Fatalf("failed to build fear & greed collector: %v", err)
	}
	altseasonCollector, err := task.NewAltseasonCollector(perfProvider, tracer)
	if err != nil {
		log.Fatalf("failed to build altcoin season collector: %v", err)
	}
	for _, col := range []task.Collector{marketCollector, fearGreedCollector, altseasonCollector} {
		if err := sched.Register(col); err != nil {
			log.Fatalf("failed to register collector: %v", err)
		}
	}
	if err := sched.Start(ctx); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	// Periodic cache cleanup
	go func() {
		ttl := time.Duration(cfg.CacheTTLSecs) * time.Second
		ticker := time.NewTicker(ttl / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := snapshots.CleanupExpired(ttl); removed > 0 {
					log.Printf("Cleaned up %d expired cache entries", removed)
				}
			}
		}
	}()

	// Start Telegram bot
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	startTelegramBotFunc(snapshots)

	// Routes
	h := handler.New(tracer, snapshots, sched, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("chainpulse"))

	h.RegisterRoutes(r)
	r.GET("/ws", func(c *gin.Context) { hub.Handle(c.Writer, c.Request) })
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()
	sched.Stop()
	hub.Shutdown()
	db.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
