// Package config gathers the service settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8080"
	defaultCacheMaxAge     = 2 * time.Hour
	defaultCleanupInterval = 30 * time.Minute
	defaultTTSRateLimit    = 20
	defaultTTSRateWindow   = 5 * time.Minute
	defaultTTSRetryDelay   = time.Second

	TTSProviderOpenAI     = "openai"
	TTSProviderElevenLabs = "elevenlabs"

	defaultLenaVoice  = "EXAVITQu4vr4xnSDxMaL" // Rachel
	defaultIsaacVoice = "pNInz6obpgDQGcFmaJgB" // Adam
)

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// Enabled reports whether episode publishing can be wired.
func (c S3Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != ""
}

type TelegramConfig struct {
	BotToken    string
	AdminChatID int64
}

func (c TelegramConfig) Enabled() bool {
	return c.BotToken != "" && c.AdminChatID != 0
}

type ElevenLabsConfig struct {
	APIKey     string
	LenaVoice  string
	IsaacVoice string
}

type Config struct {
	Port string

	OpenAIAPIKey  string
	OpenAIBaseURL string

	TTSProvider string
	ElevenLabs  ElevenLabsConfig

	CacheDir        string
	CacheMaxAge     time.Duration
	CleanupInterval time.Duration

	TTSRateLimit  int
	TTSRateWindow time.Duration
	TTSRetryDelay time.Duration

	DatabaseURL  string
	PublishToken string

	S3       S3Config
	Telegram TelegramConfig
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getenv("PORT", defaultPort),
		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		CacheDir:      os.Getenv("CACHE_DIR"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		PublishToken:  os.Getenv("PUBLISH_TOKEN"),
		TTSProvider:   getenv("TTS_PROVIDER", TTSProviderOpenAI),
		ElevenLabs: ElevenLabsConfig{
			APIKey:     os.Getenv("ELEVENLABS_API_KEY"),
			LenaVoice:  getenv("ELEVENLABS_VOICE_LENA", defaultLenaVoice),
			IsaacVoice: getenv("ELEVENLABS_VOICE_ISAAC", defaultIsaacVoice),
		},
		S3: S3Config{
			Endpoint:  os.Getenv("S3_ENDPOINT"),
			AccessKey: os.Getenv("S3_ACCESS_KEY"),
			SecretKey: os.Getenv("S3_SECRET_KEY"),
			Bucket:    os.Getenv("S3_BUCKET"),
			Region:    os.Getenv("S3_REGION"),
			UseSSL:    os.Getenv("S3_INSECURE") != "true",
		},
		Telegram: TelegramConfig{
			BotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		},
	}

	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}

	switch cfg.TTSProvider {
	case TTSProviderOpenAI:
	case TTSProviderElevenLabs:
		if cfg.ElevenLabs.APIKey == "" {
			return nil, fmt.Errorf("ELEVENLABS_API_KEY is not set")
		}
	default:
		return nil, fmt.Errorf("unknown TTS_PROVIDER %q", cfg.TTSProvider)
	}

	if cfg.CacheDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working dir: %w", err)
		}
		cfg.CacheDir = filepath.Join(wd, ".cache", "always-evening")
	}

	var err error
	if cfg.CacheMaxAge, err = durationEnv("CACHE_MAX_AGE", defaultCacheMaxAge); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = durationEnv("CLEANUP_INTERVAL", defaultCleanupInterval); err != nil {
		return nil, err
	}
	if cfg.TTSRateWindow, err = durationEnv("TTS_RATE_WINDOW", defaultTTSRateWindow); err != nil {
		return nil, err
	}
	if cfg.TTSRetryDelay, err = durationEnv("TTS_RETRY_DELAY", defaultTTSRetryDelay); err != nil {
		return nil, err
	}
	if cfg.TTSRateLimit, err = intEnv("TTS_RATE_LIMIT", defaultTTSRateLimit); err != nil {
		return nil, err
	}

	if raw := os.Getenv("TELEGRAM_ADMIN_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid TELEGRAM_ADMIN_CHAT_ID: %w", err)
		}
		cfg.Telegram.AdminChatID = id
	}

	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return n, nil
}
