package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerAddr string `yaml:"server_addr"`
	GinMode    string `yaml:"gin_mode"`
	LogLevel   string `yaml:"log_level"`
	LogFormat  string `yaml:"log_format"`

	HFToken        string `yaml:"hf_token"`
	HFInferenceURL string `yaml:"hf_inference_url"`
	DetectorModel  string `yaml:"detector_model"`
	FakeLabel      string `yaml:"fake_label"`

	ChunkChars             int `yaml:"chunk_chars"`
	MinSentenceChars       int `yaml:"min_sentence_chars"`
	ClassifyWorkers        int `yaml:"classify_workers"`
	ClassifyTimeoutSeconds int `yaml:"classify_timeout_seconds"`

	CachePath       string `yaml:"cache_path"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes"`

	HumanizeBackend string `yaml:"humanize_backend"`
	ParaphraseModel string `yaml:"paraphrase_model"`
	GeminiAPIKey    string `yaml:"gemini_api_key"`
	GeminiModel     string `yaml:"gemini_model"`

	UploadDir      string   `yaml:"upload_dir"`
	MaxUploadBytes int64    `yaml:"max_upload_bytes"`
	CORSOrigins    []string `yaml:"cors_origins"`
}

func Default() Config {
	return Config{
		ServerAddr:             ":8000",
		GinMode:                "release",
		LogLevel:               "info",
		LogFormat:              "json",
		HFInferenceURL:         "https://router.huggingface.co/hf-inference/models",
		DetectorModel:          "openai-community/roberta-base-openai-detector",
		FakeLabel:              "Fake",
		ChunkChars:             2000,
		MinSentenceChars:       10,
		ClassifyWorkers:        1,
		ClassifyTimeoutSeconds: 60,
		HumanizeBackend:        "placeholder",
		ParaphraseModel:        "humarin/chatgpt_paraphraser_on_T5_base",
		GeminiModel:            "gemini-2.5-flash",
		UploadDir:              "uploads",
		MaxUploadBytes:         20 << 20,
		CORSOrigins: []string{
			"http://localhost:5174",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
		},
	}
}

// Load layers defaults, an optional .env file, an optional YAML file named by
// CONFIG_FILE and finally the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := Default()
	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerAddr = getenv("SERVER_ADDR", c.ServerAddr)
	c.GinMode = getenv("GIN_MODE", c.GinMode)
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getenv("LOG_FORMAT", c.LogFormat)

	c.HFToken = getenv("HF_TOKEN", getenv("HUGGINGFACE_API_TOKEN", c.HFToken))
	c.HFInferenceURL = getenv("HF_INFERENCE_URL", c.HFInferenceURL)
	c.DetectorModel = getenv("DETECTOR_MODEL", c.DetectorModel)
	c.FakeLabel = getenv("FAKE_LABEL", c.FakeLabel)

	c.ChunkChars = getenvInt("AI_CHUNK_CHARS", c.ChunkChars)
	c.MinSentenceChars = getenvInt("AI_MIN_SENTENCE_CHARS", c.MinSentenceChars)
	c.ClassifyWorkers = getenvInt("CLASSIFY_WORKERS", c.ClassifyWorkers)
	c.ClassifyTimeoutSeconds = getenvInt("CLASSIFY_TIMEOUT_SECONDS", c.ClassifyTimeoutSeconds)

	c.CachePath = getenv("CLASSIFY_CACHE_PATH", c.CachePath)
	c.CacheTTLMinutes = getenvInt("CLASSIFY_CACHE_TTL_MINUTES", c.CacheTTLMinutes)

	c.HumanizeBackend = getenv("HUMANIZE_BACKEND", c.HumanizeBackend)
	c.ParaphraseModel = getenv("PARAPHRASE_MODEL", c.ParaphraseModel)
	c.GeminiAPIKey = getenv("GEMINI_API_KEY", c.GeminiAPIKey)
	c.GeminiModel = getenv("GEMINI_MODEL", c.GeminiModel)

	c.UploadDir = getenv("UPLOAD_DIR", c.UploadDir)
	c.MaxUploadBytes = int64(getenvInt("MAX_UPLOAD_BYTES", int(c.MaxUploadBytes)))
	if raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); raw != "" {
		c.CORSOrigins = splitList(raw)
	}
}

func (c Config) ClassifyTimeout() time.Duration {
	return time.Duration(c.ClassifyTimeoutSeconds) * time.Second
}

func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// Warnings reports settings that let the service start but degrade it.
func (c Config) Warnings() []string {
	var out []string
	if c.HFToken == "" {
		out = append(out, "HF_TOKEN is not set; inference requests will be anonymous and may be rejected")
	}
	if c.ClassifyWorkers > 1 {
		out = append(out, fmt.Sprintf("CLASSIFY_WORKERS=%d; classification calls will run concurrently", c.ClassifyWorkers))
	}
	if len(c.CORSOrigins) == 0 {
		out = append(out, "CORS_ORIGINS is empty; browser clients will be rejected")
	}
	return out
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getenv(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
