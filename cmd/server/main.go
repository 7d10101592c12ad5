package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/antigolpes/backend/internal/api"
	"github.com/antigolpes/backend/internal/domain/question"
	"github.com/antigolpes/backend/internal/domain/quizrun"
	"github.com/antigolpes/backend/internal/flow"
	"github.com/antigolpes/backend/internal/infrastructure/config"
	"github.com/antigolpes/backend/internal/service"
	"github.com/antigolpes/backend/internal/session"
	"github.com/antigolpes/backend/internal/store"

	_ "github.com/antigolpes/backend/docs" // generated swagger docs
)

// @title           Simulador Anti-Golpes API
// @version         1.0
// @description     Local backend for the anti-scam quiz: accounts, quiz flow, progress history and admin view.

// @host      localhost:8080
// @BasePath  /

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	// ── Dependencies ────────────────────────────────────────────────
	db, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	bank, err := loadBank(cfg.QuestionsPath)
	if err != nil {
		logger.Error("failed to load questions", "path", cfg.QuestionsPath, "error", err)
		os.Exit(1)
	}
	logger.Info("question bank loaded", "questions", bank.Len())

	var slot session.Slot = db.SessionSlot()
	if cfg.SessionBackend == config.SessionBackendRedis {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			logger.Error("failed to connect to redis", "address", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		slot = session.NewRedisSlot(rdb, cfg.SessionTTL)
	}

	ctrl := flow.NewController(bank, db, slot, quizrun.Config{MaxQuestions: cfg.QuizLength}, logger)
	if err := ctrl.Restore(context.Background()); err != nil {
		// Start logged out rather than refusing to start.
		logger.Warn("failed to restore session", "error", err)
	}

	progress := service.NewProgressService(db, logger)
	handler := api.NewHandler(ctrl, db, progress, bank, logger)

	// ── Routes ──────────────────────────────────────────────────────
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "ok"}`))
	})

	api.RegisterRoutes(mux, handler)

	// Swagger UI served at /swagger/
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// ── Middleware chain: Logging → CORS → mux ──────────────────────
	logged := api.Logging(logger)(api.CORS(mux))

	// ── Server ──────────────────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.ServerAddress,
		Handler:           logged,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()

		logger.Info("shutting down server")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server forced to shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "address", cfg.ServerAddress)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed to start", "error", err)
		os.Exit(1)
	}
}

func loadBank(path string) (*question.Bank, error) {
	if path == "" {
		return question.Default()
	}
	return question.LoadFile(path)
}
