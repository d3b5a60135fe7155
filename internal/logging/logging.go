package logging

import (
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const RequestIDHeader = "X-Request-ID"

// New builds a zap logger. format is "json" (default) or "console".
func New(level, format string) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if strings.TrimSpace(level) != "" {
		parsed, err := zapcore.ParseLevel(strings.TrimSpace(level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		lvl = parsed
	}

	cfg := zap.NewProductionConfig()
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// StageLogger adapts zap to the Log(level, stage, message, detail) shape the
// analysis packages accept.
type StageLogger struct {
	z *zap.Logger
}

func Stage(z *zap.Logger) StageLogger {
	if z == nil {
		z = zap.NewNop()
	}
	return StageLogger{z: z}
}

func (s StageLogger) Log(level, stage, message, detail string) {
	fields := []zap.Field{zap.String("stage", stage)}
	if detail != "" {
		fields = append(fields, zap.String("detail", detail))
	}
	switch strings.ToUpper(level) {
	case "RISK", "WARN":
		s.z.Warn(message, fields...)
	case "ERROR":
		s.z.Error(message, fields...)
	case "DEBUG":
		s.z.Debug(message, fields...)
	default:
		s.z.Info(message, append(fields, zap.String("level_tag", level))...)
	}
}

// GinMiddleware tags each request with an id and logs one line when it
// completes.
func GinMiddleware(z *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		id := strings.TrimSpace(c.GetHeader(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(RequestIDHeader, id)

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", id),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		switch status := c.Writer.Status(); {
		case status >= 500:
			z.Error("request", fields...)
		case status >= 400:
			z.Warn("request", fields...)
		default:
			z.Info("request", fields...)
		}
	}
}

// FromContext returns a logger carrying the request id, when one was set.
func FromContext(c *gin.Context, z *zap.Logger) *zap.Logger {
	if id, ok := c.Get("request_id"); ok {
		if s, ok := id.(string); ok {
			return z.With(zap.String("request_id", s))
		}
	}
	return z
}
