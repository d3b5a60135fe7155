package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "ai_text_detector/docs"
	"ai_text_detector/internal/aidetect"
	"ai_text_detector/internal/humanize"
	"ai_text_detector/internal/logging"
	"ai_text_detector/internal/workspace"
)

const (
	ServiceName = "ai-text-detector"
	APIVersion  = "2.0"
)

type Detector interface {
	Detect(ctx context.Context, text string) (aidetect.Response, error)
}

type Humanizer interface {
	Humanize(ctx context.Context, text string) (humanize.Result, error)
}

type Options struct {
	CORSOrigins []string
}

type Server struct {
	detector  Detector
	humanizer Humanizer
	uploads   *workspace.Uploads
	logger    *zap.Logger
}

// New wires the HTTP surface. Routes accept both the bare and the
// trailing-slash form.
func New(detector Detector, humanizer Humanizer, uploads *workspace.Uploads, logger *zap.Logger, opts Options) (*gin.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{detector: detector, humanizer: humanizer, uploads: uploads, logger: logger}

	r := gin.New()
	r.RedirectTrailingSlash = false
	r.Use(gin.Recovery(), logging.GinMiddleware(logger))

	if len(opts.CORSOrigins) > 0 {
		handlers, err := corsHandlers(opts.CORSOrigins)
		if err != nil {
			return nil, err
		}
		r.Use(handlers...)
	}

	r.GET("/", s.handleRoot)
	r.GET("/health", s.handleHealth)
	r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api")
	{
		for _, p := range []string{"/detect", "/detect/"} {
			api.POST(p, s.handleDetect)
		}
		for _, p := range []string{"/upload", "/upload/"} {
			api.POST(p, s.handleUpload)
		}
		for _, p := range []string{"/humanize", "/humanize/"} {
			api.POST(p, s.handleHumanize)
		}
	}
	return r, nil
}

// handleRoot godoc
// @Summary  Service banner
// @Tags     meta
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   / [get]
func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "AI Text Detector API",
		"version": APIVersion,
	})
}

// handleHealth godoc
// @Summary  Liveness check
// @Tags     meta
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"service": ServiceName,
	})
}
