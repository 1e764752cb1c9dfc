package ratelimiter

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiterInterface は、API呼び出しなどの操作の頻度を制限するインターフェースです。
type RateLimiterInterface interface {
	// WaitIfNeeded は次の呼び出しが許可されるまで待機します。ctxがキャンセルされた場合はエラーを返します。
	WaitIfNeeded(ctx context.Context) error
}

// RateLimiterは、interval あたり limit 回まで操作を許可します。
// 複数のゴルーチンから同時に使用できます。
type RateLimiter struct {
	name    string
	limiter *rate.Limiter
}

var _ RateLimiterInterface = (*RateLimiter)(nil)

// NewRateLimiterは新しいRateLimiterのインスタンスを生成します。
// limit が0以下の場合は無制限になります。
func NewRateLimiter(name string, limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 || interval <= 0 {
		return &RateLimiter{name: name, limiter: rate.NewLimiter(rate.Inf, 0)}
	}
	every := interval / time.Duration(limit)
	return &RateLimiter{
		name:    name,
		limiter: rate.NewLimiter(rate.Every(every), limit),
	}
}

// PerMinute は1分あたり limit 回のRateLimiterを生成します。
func PerMinute(name string, limit int) *RateLimiter {
	return NewRateLimiter(name, limit, time.Minute)
}

// WaitIfNeededはレートリミットの上限に達しているかを確認し、必要であれば待機します。
func (rl *RateLimiter) WaitIfNeeded(ctx context.Context) error {
	r := rl.limiter.Reserve()
	if !r.OK() {
		return rl.limiter.Wait(ctx)
	}
	delay := r.Delay()
	if delay == 0 {
		return nil
	}

	slog.Info("rate limit reached, waiting", "limiter", rl.name, "wait", delay)
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		r.Cancel()
		return ctx.Err()
	}
}
