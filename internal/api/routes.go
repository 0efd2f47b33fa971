// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/mansimran2992/ai-tutor-bot/internal/events"
	"github.com/mansimran2992/ai-tutor-bot/internal/storage"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store     storage.Store
	Notes     NotesIndex
	Tutor     Tutor
	Publisher events.Publisher
	Logger    *slog.Logger
	Version   string
}

// Handlers holds all handler instances
type Handlers struct {
	Health HealthHandler
	Upload UploadHandler
	Chat   ChatHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health: NewHealthHandler(deps.Version, deps.Tutor.Responder()),
		Upload: NewUploadHandler(deps.Store, deps.Notes, deps.Publisher, deps.Logger),
		Chat:   NewChatHandler(deps.Tutor, deps.Publisher, deps.Logger),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	e.GET("/health", handlers.Health.HandleHealth)

	// Dashboard endpoints
	e.POST("/upload", handlers.Upload.HandleUpload)
	e.POST("/chat", handlers.Chat.HandleChat)

	e.POST("/api/study", handlers.Chat.HandleStudy)

	fileGroup := e.Group("/api/files")
	fileGroup.GET("/recent", handlers.Upload.HandleGetRecentFiles)
	fileGroup.GET("/:id", handlers.Upload.HandleGetFile)
	fileGroup.DELETE("/:id", handlers.Upload.HandleDeleteFile)
	fileGroup.PUT("/:id", handlers.Upload.HandleRenameFile)
}

// MiddlewareConfig selects the optional middleware.
type MiddlewareConfig struct {
	Logger         *slog.Logger
	BodyLimit      string
	AllowOrigins   []string
	RequestLogging bool
	ExposeErrors   bool
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg MiddlewareConfig) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e.HTTPErrorHandler = NewErrorHandler(logger, cfg.ExposeErrors)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(middleware.Recover())

	if cfg.RequestLogging {
		e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
			LogStatus:    true,
			LogURI:       true,
			LogMethod:    true,
			LogLatency:   true,
			LogRequestID: true,
			LogError:     true,
			HandleError:  true,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/health"
			},
			LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
				attrs := []any{
					"method", v.Method,
					"uri", v.URI,
					"status", v.Status,
					"latency", v.Latency,
					"request_id", v.RequestID,
				}
				if v.Error != nil {
					logger.Warn("request", append(attrs, "error", v.Error)...)
					return nil
				}
				logger.Info("request", attrs...)
				return nil
			},
		}))
	}

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	if len(cfg.AllowOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: cfg.AllowOrigins,
		}))
	}
}
