package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ai_text_detector/internal/aidetect"
	"ai_text_detector/internal/classify"
	"ai_text_detector/internal/config"
	"ai_text_detector/internal/db"
	"ai_text_detector/internal/humanize"
	"ai_text_detector/internal/logging"
	"ai_text_detector/internal/server"
	"ai_text_detector/internal/workspace"
)

// @title        AI Text Detector API
// @version      2.0
// @description  Detects AI-generated text, extracts text from documents and paraphrases text.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("logger initialization failed: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	for _, w := range cfg.Warnings() {
		logger.Warn(w)
	}

	var classifier classify.Classifier = classify.NewHFClient(cfg.HFInferenceURL, cfg.DetectorModel, cfg.HFToken, cfg.ClassifyTimeout())
	if cfg.CachePath != "" {
		conn, err := db.Open(cfg.CachePath)
		if err != nil {
			logger.Fatal("classification cache initialization failed", zap.String("path", cfg.CachePath), zap.Error(err))
		}
		defer conn.Close()
		classifier = classify.WithCache(classifier, db.NewCacheRepo(conn, cfg.CacheTTL()), cfg.DetectorModel, logger)
		logger.Info("classification cache enabled", zap.String("path", cfg.CachePath), zap.Duration("ttl", cfg.CacheTTL()))
	}

	detector := aidetect.New(classifier, aidetect.Config{
		MaxChunkChars:    cfg.ChunkChars,
		MinSentenceChars: cfg.MinSentenceChars,
		Workers:          cfg.ClassifyWorkers,
		FakeLabel:        cfg.FakeLabel,
	}, logging.Stage(logger))

	paraphraser, err := humanize.NewParaphraser(humanize.Options{
		Backend:        cfg.HumanizeBackend,
		HFBaseURL:      cfg.HFInferenceURL,
		HFToken:        cfg.HFToken,
		HFModel:        cfg.ParaphraseModel,
		GeminiAPIKey:   cfg.GeminiAPIKey,
		GeminiModel:    cfg.GeminiModel,
		RequestTimeout: cfg.ClassifyTimeout(),
	})
	if err != nil {
		logger.Fatal("humanize backend initialization failed", zap.Error(err))
	}
	humanizer := humanize.NewService(paraphraser)

	uploads, err := workspace.EnsureAt(cfg.UploadDir, cfg.MaxUploadBytes)
	if err != nil {
		logger.Fatal("upload directory initialization failed", zap.Error(err))
	}

	gin.SetMode(cfg.GinMode)
	router, err := server.New(detector, humanizer, uploads, logger, server.Options{CORSOrigins: cfg.CORSOrigins})
	if err != nil {
		logger.Fatal("router initialization failed", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.String("addr", cfg.ServerAddr),
			zap.String("detector_model", cfg.DetectorModel),
			zap.String("humanize_backend", humanizer.Backend()),
			zap.Int("chunk_chars", cfg.ChunkChars))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
