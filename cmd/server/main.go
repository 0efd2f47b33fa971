package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/mansimran2992/ai-tutor-bot/internal/api"
	"github.com/mansimran2992/ai-tutor-bot/internal/config"
	"github.com/mansimran2992/ai-tutor-bot/internal/events"
	"github.com/mansimran2992/ai-tutor-bot/internal/notes"
	"github.com/mansimran2992/ai-tutor-bot/internal/storage"
	"github.com/mansimran2992/ai-tutor-bot/internal/tutor"
	"github.com/mansimran2992/ai-tutor-bot/internal/web"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "tutor.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := cfg.Logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) error {
	logger.Info("ai tutor starting", "version", Version, "build_time", BuildTime, "addr", cfg.GetServerAddr())

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}

	fileStore, err := storage.NewLocalStore(cfg.GetUploadDir())
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}

	index, err := notes.OpenIndex(cfg.Storage.NotesDatabase, logger)
	if err != nil {
		return fmt.Errorf("open notes index: %w", err)
	}
	defer index.Close()

	responder, err := newResponder(cfg.Tutor)
	if err != nil {
		return err
	}
	logger.Info("tutor ready", "responder", responder.Name(), "model", cfg.Tutor.Model)

	publisher, err := newPublisher(ctx, cfg.Events, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	t := tutor.New(index, responder, tutor.Config{
		SystemPrompt: cfg.Tutor.SystemPrompt,
		MaxHistory:   cfg.Tutor.MaxHistory,
		RequireNotes: cfg.Tutor.RequireNotes,
	}, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	var origins []string
	if cfg.Server.EnableCORS {
		for _, o := range strings.Split(cfg.Server.AllowOrigins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) == 0 {
			origins = []string{"*"}
		}
	}
	api.SetupMiddleware(e, api.MiddlewareConfig{
		Logger:         logger,
		BodyLimit:      cfg.Server.BodyLimit,
		AllowOrigins:   origins,
		RequestLogging: cfg.Logging.RequestLogging,
		ExposeErrors:   cfg.Logging.SlogLevel() == slog.LevelDebug,
	})

	api.RegisterRoutes(e, api.NewHandlers(&api.Dependencies{
		Store:     fileStore,
		Notes:     index,
		Tutor:     t,
		Publisher: publisher,
		Logger:    logger,
		Version:   Version,
	}))
	if err := web.RegisterStaticRoutes(e); err != nil {
		return fmt.Errorf("register static routes: %w", err)
	}

	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "url", "http://"+cfg.GetServerAddr(), "data_dir", cfg.GetDataDir())
		errCh <- e.StartServer(s)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func newResponder(cfg config.TutorConfig) (tutor.Responder, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required for the openai provider")
		}
		return tutor.NewOpenAIResponder(cfg.OpenAIAPIKey, cfg.Model, cfg.MaxTokens, cfg.OpenAIBaseURL,
			&http.Client{Timeout: 60 * time.Second}), nil
	default:
		return tutor.OfflineResponder{}, nil
	}
}

func newPublisher(ctx context.Context, cfg config.EventsConfig, logger *slog.Logger) (events.Publisher, error) {
	if cfg.NatsURL == "" {
		return events.Nop{}, nil
	}
	p, err := events.Connect(ctx, cfg.NatsURL, cfg.NatsToken, logger)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return p, nil
}
