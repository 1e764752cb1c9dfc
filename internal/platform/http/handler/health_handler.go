// Package handler はプラットフォームレベルのエンドポイント用HTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Banner は GET / で返す文字列です。
const Banner = "Portfolio Tracker API - Ready!"

const checkTimeout = 2 * time.Second

// Check は依存先（DB、キャッシュなど）の疎通確認関数です。
type Check func(ctx context.Context) error

// HealthHandler はヘルスチェックを処理します。
type HealthHandler struct {
	checks map[string]Check
}

// NewHealthHandler は名前付きの疎通確認関数でHealthHandlerを生成します。
// nilのチェックは無視されます。
func NewHealthHandler(checks map[string]Check) *HealthHandler {
	hc := make(map[string]Check, len(checks))
	for name, c := range checks {
		if c != nil {
			hc[name] = c
		}
	}
	return &HealthHandler{checks: hc}
}

// Root はサービスのバナーを返します。
func Root(c *gin.Context) {
	c.String(http.StatusOK, Banner)
}

// Health はサービスヘルスチェック用の /healthz エンドポイントを処理します。
// HTTPメソッドに応じて適切にレスポンスし、キャッシュを防止します。
// いずれかの依存先が失敗した場合は503を返します。
func (h *HealthHandler) Health(c *gin.Context) {
	// 明示的にキャッシュを防止
	c.Header("Cache-Control", "no-store")

	if c.Request.Method == http.MethodOptions {
		c.Status(http.StatusNoContent)
		return
	}

	status, body := h.run(c.Request.Context())
	if c.Request.Method == http.MethodHead {
		c.Status(status)
		return
	}
	c.JSON(status, body)
}

func (h *HealthHandler) run(ctx context.Context) (int, gin.H) {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	deps := gin.H{}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			deps[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	body := gin.H{"status": "ok"}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(deps) > 0 {
		body["checks"] = deps
	}
	return status, body
}
