package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/ridwanfathin/receipt-tracker/docs"
	"github.com/ridwanfathin/receipt-tracker/internal/config"
	"github.com/ridwanfathin/receipt-tracker/internal/form"
	"github.com/ridwanfathin/receipt-tracker/internal/handler"
	"github.com/ridwanfathin/receipt-tracker/internal/middleware"
	"github.com/ridwanfathin/receipt-tracker/internal/options"
	"github.com/ridwanfathin/receipt-tracker/internal/web"
)

// sweepInterval is how often expired form sessions are dropped
const sweepInterval = time.Minute

// Server represents the HTTP server for the receipt tracker
type Server struct {
	router     *gin.Engine
	httpServer *http.Server
	registry   *form.Registry
	config     *config.Config
	logger     *logrus.Logger

	formHandler    *handler.FormHandler
	receiptHandler *handler.ReceiptHandler
	optionsHandler *handler.OptionsHandler

	sweepCtx    context.Context
	stopSweeper context.CancelFunc
}

// New creates and configures a new server instance
func New(cfg *config.Config, logger *logrus.Logger, pipeline *form.Pipeline, loader *options.Loader) (*Server, error) {
	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	cookie, err := newSecureCookie(cfg)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.SetHTMLTemplate(templates)
	router.MaxMultipartMemory = cfg.MaxImageBytes + 1<<20

	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS())
	router.Use(middleware.RequestResponseLogger(logger))

	registry := form.NewRegistry(pipeline, cfg.FormTTL)

	s := &Server{
		router:   router,
		registry: registry,
		config:   cfg,
		logger:   logger,
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      router,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		formHandler: handler.NewFormHandler(handler.FormHandlerConfig{
			Registry:      registry,
			Cookie:        cookie,
			MaxImageBytes: cfg.MaxImageBytes,
			SecureCookies: cfg.CookieSecure,
			Logger:        logger,
		}),
		receiptHandler: handler.NewReceiptHandler(pipeline, cfg.MaxImageBytes, logger),
		optionsHandler: handler.NewOptionsHandler(loader, logger),
	}

	s.sweepCtx, s.stopSweeper = context.WithCancel(context.Background())
	s.setupRoutes()

	return s, nil
}

// Router returns the gin router instance
func (s *Server) Router() *gin.Engine {
	return s.router
}

// setupRoutes configures all application routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"forms":  s.registry.Len(),
		})
	})

	// Access the Swagger UI at http://localhost:8080/api-docs/index.html
	swaggerHandler := ginSwagger.WrapHandler(swaggerFiles.Handler)
	s.router.GET("/api-docs/*any", swaggerHandler)
	s.router.GET("/api-docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/api-docs/index.html")
	})

	// Server-rendered form
	s.router.GET("/", s.formHandler.ShowForm)
	s.router.POST("/receipts", s.formHandler.SubmitForm)
	s.router.POST("/image/clear", s.formHandler.ClearImage)
	s.router.GET("/image/preview", s.formHandler.PreviewImage)

	v1 := s.router.Group("/v1")
	{
		v1.GET("/options", s.optionsHandler.GetOptions)
		v1.GET("/options/:list", s.optionsHandler.GetOptionList)
		v1.POST("/receipts", s.receiptHandler.CreateReceipt)
	}
}

// Start sweeps expired forms in the background and serves until Stop is
// called. It returns http.ErrServerClosed after a clean shutdown.
func (s *Server) Start() error {
	go s.registry.Run(s.sweepCtx, sweepInterval)

	s.logger.WithField("port", s.config.Port).Info("server listening")
	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts the server down. Submissions already in flight are
// allowed to finish until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.stopSweeper()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	s.logger.Info("server exited gracefully")
	return nil
}

func newSecureCookie(cfg *config.Config) (*securecookie.SecureCookie, error) {
	if cfg.CookieHashKey == "" || cfg.CookieBlockKey == "" {
		return securecookie.New(securecookie.GenerateRandomKey(64), securecookie.GenerateRandomKey(32)), nil
	}

	hashKey, err := base64.StdEncoding.DecodeString(cfg.CookieHashKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_HASH_KEY: %w", err)
	}
	blockKey, err := base64.StdEncoding.DecodeString(cfg.CookieBlockKey)
	if err != nil {
		return nil, fmt.Errorf("decode COOKIE_BLOCK_KEY: %w", err)
	}
	switch len(blockKey) {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("COOKIE_BLOCK_KEY must decode to 16, 24 or 32 bytes, got %d", len(blockKey))
	}

	return securecookie.New(hashKey, blockKey), nil
}
