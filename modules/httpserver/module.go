package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/example/upload-server/modules/storage"
	"github.com/gin-gonic/gin"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// requestIDKey is the gin context key holding the per-request ID.
const requestIDKey = "request_id"

// Config holds the HTTP server configuration, built once at startup.
type Config struct {
	// ListenAddr is the host:port to bind, e.g. "0.0.0.0:2022".
	ListenAddr string
	// DisplayName substitutes the home page's name placeholder.
	DisplayName string
	// SaveMetadata enables the per-upload request-header sidecar.
	SaveMetadata bool
	// QuitAfterOneRequest makes the composition root shut the process
	// down shortly after the first request completes. Debug only.
	QuitAfterOneRequest bool
}

// Module implements the HTTP server using the Gin framework.
type Module struct {
	cfg           Config
	baseURL       string
	server        *http.Server
	engine        *gin.Engine
	handlers      *Handlers
	storageModule *storage.Module
	logger        types.Logger

	firstOnce    sync.Once
	firstHandled chan struct{}
}

// Compile-time interface checks.
var _ mono.Module = (*Module)(nil)

// NewModule creates a new HTTP server module.
func NewModule(cfg Config, logger types.Logger) *Module {
	return &Module{
		cfg:          cfg,
		baseURL:      fmt.Sprintf("http://%s", cfg.ListenAddr),
		logger:       logger,
		firstHandled: make(chan struct{}),
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "http-server"
}

// SetStorageModule sets the storage module dependency.
func (m *Module) SetStorageModule(storageModule *storage.Module) {
	m.storageModule = storageModule
}

// FirstRequestHandled is closed after the first request has been fully
// responded to. The composition root uses it for the debug quit timer.
func (m *Module) FirstRequestHandled() <-chan struct{} {
	return m.firstHandled
}

// Start initializes and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.storageModule == nil {
		return fmt.Errorf("storage module not set")
	}

	home, err := parseHomeTemplate(m.cfg.DisplayName)
	if err != nil {
		return fmt.Errorf("failed to parse home page template: %w", err)
	}
	pages, err := NewPages()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	m.engine = gin.New()
	m.engine.Use(gin.Recovery())
	m.engine.Use(requestIDMiddleware())

	m.handlers = NewHandlers(
		m.storageModule.Store(),
		home,
		pages,
		m.cfg.SaveMetadata,
		m.logger,
		m.noteRequestHandled,
	)
	registerRoutes(m.engine, m.handlers)

	m.server = &http.Server{
		Addr:              m.cfg.ListenAddr,
		Handler:           m.engine,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		m.logger.Info("HTTP server starting", "addr", m.cfg.ListenAddr, "base_url", m.baseURL)
		if err := m.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// Stop gracefully shuts down the HTTP server.
func (m *Module) Stop(ctx context.Context) error {
	if m.server != nil {
		m.logger.Info("Shutting down HTTP server")
		return m.server.Shutdown(ctx)
	}
	return nil
}

// registerRoutes sets up all HTTP routes. Dispatch is by first path
// segment; method enforcement happens inside the upload handlers so a
// wrong method yields a 400 page rather than a bare 405.
func registerRoutes(engine *gin.Engine, h *Handlers) {
	engine.Any("/", h.wrap(h.Home))
	engine.Any("/assets", h.wrap(h.AssetsRoot))
	engine.Any("/assets/:name", h.wrap(h.StaticAsset))
	engine.Any("/text", h.wrap(h.Text))
	engine.Any("/file", h.wrap(h.File))
	engine.NoRoute(h.wrap(h.NotFound))
}

// noteRequestHandled signals first-request completion exactly once.
func (m *Module) noteRequestHandled() {
	m.firstOnce.Do(func() {
		close(m.firstHandled)
	})
}

// requestIDMiddleware tags every request and response with a unique ID.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := uuid.New().String()
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
