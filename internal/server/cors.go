package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"ai_text_detector/internal/logging"
)

var defaultAllowHeaders = []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", logging.RequestIDHeader}

// corsHandlers returns the CORS chain for the given origins. Any header a
// preflight from an allowed origin asks for is allowed.
func corsHandlers(origins []string) ([]gin.HandlerFunc, error) {
	cfg := cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		// Access-Control-Allow-Headers is set by allowRequestedHeaders
		ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("cors config: %w", err)
	}
	return []gin.HandlerFunc{allowRequestedHeaders(origins), cors.New(cfg)}, nil
}

func allowRequestedHeaders(origins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[strings.ToLower(strings.TrimSpace(o))] = struct{}{}
	}
	fallback := strings.Join(defaultAllowHeaders, ",")
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodOptions {
			return
		}
		if _, ok := allowed[strings.ToLower(c.GetHeader("Origin"))]; !ok {
			return
		}
		if requested := strings.TrimSpace(c.GetHeader("Access-Control-Request-Headers")); requested != "" {
			c.Header("Access-Control-Allow-Headers", requested)
			return
		}
		c.Header("Access-Control-Allow-Headers", fallback)
	}
}
