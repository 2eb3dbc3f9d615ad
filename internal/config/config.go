// Package config はアプリケーション設定の読み込みを提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// デプロイメントモード。CLIの位置引数で選択する。
const (
	ModeDev  = "dev"
	ModeTest = "test"
	ModeProd = "prod"
)

// Config はアプリケーション全体の設定を保持する。
// 起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Mode は起動時に選択されたデプロイメントモード。
	Mode string

	// Backend
	APIURLBackend             string
	ProviderSignature         string
	BackendTimeout            time.Duration
	BackendInsecureSkipVerify bool

	// Database（セッションストア）
	DatabaseURL string

	// Session
	SessionMaxAge          int
	SessionCleanupInterval time.Duration

	// Server
	ServerPort string
	BaseURL    string

	// Cookie
	CookieSecure bool
	CookieDomain string

	// Rate Limit（req/min単位）
	RateLimitGeneral int
}

// Load は指定モードの設定を読み込む。
// `.env.<mode>` が存在すればgodotenvで先に取り込み、その後環境変数を読む。
// 必須環境変数が未設定の場合はエラーを返す。
func Load(mode string) (*Config, error) {
	if mode == "" {
		mode = ModeDev
	}

	// プロファイルファイルは任意。存在しない場合は環境変数のみで動作する。
	_ = godotenv.Load(".env." + mode)
	_ = godotenv.Load()

	cfg := &Config{Mode: mode}

	var missing []string

	cfg.APIURLBackend = os.Getenv("API_URL_BACKEND")
	if cfg.APIURLBackend == "" {
		missing = append(missing, "API_URL_BACKEND")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	cfg.ProviderSignature = os.Getenv("PROVIDER_SIGNATURE")
	if cfg.ProviderSignature == "" {
		missing = append(missing, "PROVIDER_SIGNATURE")
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("required environment variables are not set: %v", missing)
	}

	cfg.BackendTimeout = getEnvDuration("BACKEND_TIMEOUT", 120*time.Second)
	cfg.BackendInsecureSkipVerify = getEnvBool("BACKEND_INSECURE_SKIP_VERIFY", false)
	cfg.SessionMaxAge = getEnvInt("SESSION_MAX_AGE", 86400)
	cfg.SessionCleanupInterval = getEnvDuration("SESSION_CLEANUP_INTERVAL", 1*time.Hour)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.BaseURL = getEnvString("BASE_URL", "http://localhost:"+cfg.ServerPort)
	cfg.CookieSecure = strings.HasPrefix(cfg.BaseURL, "https://")
	cfg.CookieDomain = getEnvString("COOKIE_DOMAIN", "")
	cfg.RateLimitGeneral = getEnvInt("RATE_LIMIT_GENERAL", 120)

	return cfg, nil
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
