// Package coingecko はCoinGecko暗号資産APIのクライアントを提供します。
package coingecko

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL            = "https://api.coingecko.com/api/v3"
	defaultRateLimitPerMinute = 30
)

// Config はCoinGecko APIクライアントの設定を保持します。
type Config struct {
	APIKey             string        // デモAPIキー（任意）
	BaseURL            string        // APIのベースURL（例: "https://api.coingecko.com/api/v3"）
	RateLimitPerMinute int           // 1分あたりの最大リクエスト数
	Timeout            time.Duration // HTTPリクエストタイムアウト
}

// LoadConfig は環境変数からCoinGeckoの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		APIKey:             os.Getenv("COINGECKO_API_KEY"),
		BaseURL:            os.Getenv("COINGECKO_BASE_URL"),
		RateLimitPerMinute: defaultRateLimitPerMinute,
		Timeout:            10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if v, err := strconv.Atoi(os.Getenv("COINGECKO_RATE_LIMIT_PER_MINUTE")); err == nil && v > 0 {
		cfg.RateLimitPerMinute = v
	}
	return cfg
}
