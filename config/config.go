package config

import (
	"os"
	"strconv"
	"time"

	"clemfr/grantwatch/pkg/errors"
)

// Config represents the application configuration
type Config struct {
	// LLM configuration
	LLMAPIKey  string
	LLMBaseURL string
	LLMModel   string
	LLMTimeout time.Duration

	// Webhook configuration
	WebhookURL string

	// Fetch configuration
	FetchTimeout      time.Duration
	FetchConcurrency  int
	RunTimeout        time.Duration
	MaxPagesPerSource int

	// Extraction configuration
	ChunkSize        int
	ChunkOverlap     int
	MaxChunksPerPage int

	// Digest configuration
	MaxDigestEntries int
	MaxMessageLength int

	// Sources and keywords, from the built-in registry or SOURCES_FILE
	Sources  []SourceConfig
	Keywords []string

	// Optional run report directory; empty disables report files
	ReportDir string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() (*Config, error) {
	llmTimeout, _ := strconv.Atoi(getEnv("LLM_TIMEOUT_SECONDS", "60"))
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "30"))
	runTimeout, _ := strconv.Atoi(getEnv("RUN_TIMEOUT_SECONDS", "0"))
	concurrency, _ := strconv.Atoi(getEnv("FETCH_CONCURRENCY", "1"))
	maxPages, _ := strconv.Atoi(getEnv("MAX_PAGES_PER_SOURCE", "3"))
	chunkSize, _ := strconv.Atoi(getEnv("CHUNK_SIZE", "4000"))
	chunkOverlap, _ := strconv.Atoi(getEnv("CHUNK_OVERLAP", "200"))
	maxChunks, _ := strconv.Atoi(getEnv("MAX_CHUNKS_PER_PAGE", "5"))
	maxEntries, _ := strconv.Atoi(getEnv("MAX_DIGEST_ENTRIES", "10"))
	maxMessage, _ := strconv.Atoi(getEnv("MAX_MESSAGE_LENGTH", "4000"))

	cfg := &Config{
		LLMAPIKey:         os.Getenv("LLM_API_KEY"),
		LLMBaseURL:        getEnv("LLM_BASE_URL", "https://api.x.ai/v1"),
		LLMModel:          getEnv("LLM_MODEL", "grok-2"),
		LLMTimeout:        time.Duration(llmTimeout) * time.Second,
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		FetchTimeout:      time.Duration(fetchTimeout) * time.Second,
		FetchConcurrency:  concurrency,
		RunTimeout:        time.Duration(runTimeout) * time.Second,
		MaxPagesPerSource: maxPages,
		ChunkSize:         chunkSize,
		ChunkOverlap:      chunkOverlap,
		MaxChunksPerPage:  maxChunks,
		MaxDigestEntries:  maxEntries,
		MaxMessageLength:  maxMessage,
		ReportDir:         os.Getenv("REPORT_DIR"),
		Environment:       getEnv("GRANTWATCH_ENVIRONMENT", "development"),
	}

	sourcesFile := os.Getenv("SOURCES_FILE")
	if sourcesFile != "" {
		sources, keywords, err := LoadSourcesFile(sourcesFile)
		if err != nil {
			return nil, err
		}
		cfg.Sources = sources
		cfg.Keywords = keywords
	} else {
		cfg.Sources = DefaultSources()
		cfg.Keywords = DefaultKeywords()
	}

	return cfg, nil
}

// Validate checks that the configuration is usable. Missing credentials are
// reported before any network call is made.
func (c *Config) Validate() error {
	if c.LLMAPIKey == "" {
		return errors.NewConfiguration("LLM_API_KEY is not set", nil)
	}
	if c.WebhookURL == "" {
		return errors.NewConfiguration("WEBHOOK_URL is not set", nil)
	}
	if len(c.Sources) == 0 {
		return errors.NewConfiguration("no sources configured", nil)
	}
	if len(c.Keywords) == 0 {
		return errors.NewConfiguration("no keywords configured", nil)
	}
	if c.FetchConcurrency < 1 {
		c.FetchConcurrency = 1
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return errors.NewConfiguration("CHUNK_OVERLAP must be smaller than CHUNK_SIZE", nil)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
