package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	notifyapp "github.com/muhohoweb/shoe-app/internal/application/notify"
)

type stubTemplateSender struct {
	verifyToken string
}

func (s *stubTemplateSender) SendTemplate(_ context.Context, _ string, _ []string) (string, error) {
	return "wamid.test", nil
}

func (s *stubTemplateSender) VerifyWebhookToken(token string) bool {
	return token == s.verifyToken
}

func newWhatsAppTestRouter() *gin.Engine {
	service := notifyapp.NewWhatsAppService(&stubTemplateSender{verifyToken: "hook-token"}, zap.NewNop())
	h := NewWhatsAppHandler(service)

	engine := gin.New()
	engine.GET("/whatsapp/webhook", h.Verify)
	engine.POST("/whatsapp/webhook", h.Receive)
	return engine
}

func TestWhatsAppVerifyEchoesChallenge(t *testing.T) {
	engine := newWhatsAppTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=hook-token&hub.challenge=12345", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestWhatsAppVerifyRejectsWrongToken(t *testing.T) {
	engine := newWhatsAppTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/whatsapp/webhook?hub.mode=subscribe&hub.verify_token=stolen&hub.challenge=12345", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.NotContains(t, w.Body.String(), "12345")
}

func TestWhatsAppReceiveAlwaysAcks(t *testing.T) {
	engine := newWhatsAppTestRouter()

	// Even junk payloads get a 200 so Meta does not disable the webhook
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/whatsapp/webhook", strings.NewReader("not json"))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
