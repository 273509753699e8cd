package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vovarama1992/go-utils/httputil"
	"github.com/Vovarama1992/go-utils/logger"

	"github.com/Vovarama1992/always_evening/internal/ai"
	"github.com/Vovarama1992/always_evening/internal/config"
	"github.com/Vovarama1992/always_evening/internal/delivery"
	"github.com/Vovarama1992/always_evening/internal/domain"
	"github.com/Vovarama1992/always_evening/internal/episodes"
	"github.com/Vovarama1992/always_evening/internal/error_notificator"
	"github.com/Vovarama1992/always_evening/internal/infra"
	"github.com/Vovarama1992/always_evening/internal/ports"
	"github.com/Vovarama1992/always_evening/internal/speech"
	"github.com/Vovarama1992/always_evening/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const serviceName = "always_evening"

func main() {

	// =========================================================================
	// ENV / LOGGER
	// =========================================================================

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := logger.NewZapLogger(baseLogger.Sugar())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// =========================================================================
	// STORAGE
	// =========================================================================

	cache, err := episodes.NewCache(cfg.CacheDir)
	if err != nil {
		log.Fatalf("failed to init episode cache: %v", err)
	}

	var episodeRepo ports.EpisodeRepo
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer db.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		if err := db.PingContext(pingCtx); err != nil {
			log.Fatalf("db ping failed: %v", err)
		}
		if err := infra.MigrateEpisodes(pingCtx, db); err != nil {
			log.Fatalf("%v", err)
		}
		cancel()

		episodeRepo = infra.NewEpisodeRepo(db)
	} else {
		episodeRepo = infra.NewMemoryEpisodeRepo()
	}

	publisher := domain.NewDisabledPublisher()
	if cfg.S3.Enabled() {
		s3Client, err := infra.NewS3Client(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("failed to init s3: %v", err)
		}
		publisher = domain.NewPublishService(s3Client, cache)
	}

	// =========================================================================
	// ERROR NOTIFICATION
	// =========================================================================

	var errInfra error_notificator.Notificator = error_notificator.NewLogInfra(zl)
	if cfg.Telegram.Enabled() {
		tg, err := error_notificator.NewTelegramInfra(cfg.Telegram.BotToken, cfg.Telegram.AdminChatID, zl)
		if err != nil {
			log.Fatalf("failed to init telegram notifier: %v", err)
		}
		errInfra = tg
	}
	errService := error_notificator.NewService(errInfra)

	// =========================================================================
	// CLIENTS (chat / TTS)
	// =========================================================================

	openAIClient := ai.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)

	var ttsClient speech.TTSClient
	switch cfg.TTSProvider {
	case config.TTSProviderElevenLabs:
		ttsClient = speech.NewElevenLabsClient(cfg.ElevenLabs.APIKey, cfg.ElevenLabs.LenaVoice, cfg.ElevenLabs.IsaacVoice)
	default:
		ttsClient = speech.NewOpenAITTS(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	}

	// =========================================================================
	// DOMAIN SERVICES
	// =========================================================================

	dialogueService := ai.NewDialogueService(openAIClient, errService, zl)
	speechService := speech.NewService(ttsClient, errService, cfg.TTSRetryDelay, zl)

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))

	// HANDLERS
	episodeHandler := delivery.NewEpisodeHandler(dialogueService, speechService, cache, episodeRepo, zl)
	fileHandler := delivery.NewFileHandler(cache, publisher, zl)

	// ROUTES
	delivery.RegisterRoutes(r, episodeHandler, fileHandler, delivery.RouteOptions{
		TTSLimiter:   delivery.RateLimitByIP(cfg.TTSRateLimit, cfg.TTSRateWindow),
		PublishToken: cfg.PublishToken,
	})

	r.With(httputil.RecoverMiddleware).Get("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(200)
		w.Write([]byte("pong"))
	})

	r.Handle("/*", web.Handler())

	// =========================================================================
	// BACKGROUND JOBS
	// =========================================================================

	sweeper := episodes.NewSweeper(cache, cfg.CacheMaxAge, cfg.CleanupInterval, episodeRepo, zl)
	go sweeper.Run(ctx)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	zl.Log(logger.LogEntry{
		Level:   "info",
		Message: "listening at " + addr + ", cache at " + cfg.CacheDir,
		Service: serviceName,
	})

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
