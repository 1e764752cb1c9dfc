// Package alphavantage はAlpha Vantage株式APIのクライアントを提供します。
package alphavantage

import (
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL            = "https://www.alphavantage.co"
	defaultRateLimitPerMinute = 5
)

// Config はAlpha Vantage APIクライアントの設定を保持します。
type Config struct {
	APIKey             string        // 認証用APIキー
	BaseURL            string        // APIのベースURL（例: "https://www.alphavantage.co"）
	RateLimitPerMinute int           // 1分あたりの最大リクエスト数（無料枠は5）
	Timeout            time.Duration // HTTPリクエストタイムアウト
}

// LoadConfig は環境変数からAlpha Vantageの設定を読み込みます。
func LoadConfig() Config {
	cfg := Config{
		APIKey:             os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BaseURL:            os.Getenv("ALPHA_VANTAGE_BASE_URL"),
		RateLimitPerMinute: defaultRateLimitPerMinute,
		Timeout:            10 * time.Second,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if v, err := strconv.Atoi(os.Getenv("ALPHA_VANTAGE_RATE_LIMIT_PER_MINUTE")); err == nil && v > 0 {
		cfg.RateLimitPerMinute = v
	}
	return cfg
}
