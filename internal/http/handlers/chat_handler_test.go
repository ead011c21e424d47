// README: Tests for the chat handler request/response contract.
package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"airchat/internal/http/handlers"
	"airchat/internal/modules/chat"
)

// stubChat is a test double for handlers.ChatService.
type stubChat struct {
	reply    chat.Reply
	messages []string
}

func (s *stubChat) Handle(_ context.Context, message string) chat.Reply {
	s.messages = append(s.messages, message)
	return s.reply
}

func buildTestRouter(svc handlers.ChatService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := handlers.NewChatHandler(svc)
	r.POST("/api/chat", h.Chat)
	return r
}

func doRequest(r *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestChat_ReturnsReply(t *testing.T) {
	svc := &stubChat{reply: chat.Reply{
		Response:   "✅ Ticket successfully purchased. Have a nice flight!",
		Suggestion: "check in?",
		RawData:    json.RawMessage(`{"status":"Success"}`),
	}}
	w := doRequest(buildTestRouter(svc), `{"message":"buy flight 8 for Doga"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var got map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v, raw=%s", err, w.Body.String())
	}
	if got["response"] != svc.reply.Response || got["suggestion"] != "check in?" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	raw, _ := got["raw_data"].(map[string]any)
	if raw["status"] != "Success" {
		t.Errorf("raw_data not passed through: %s", w.Body.String())
	}
	if len(svc.messages) != 1 || svc.messages[0] != "buy flight 8 for Doga" {
		t.Errorf("unexpected messages: %v", svc.messages)
	}
}

func TestChat_OmitsEmptyFields(t *testing.T) {
	svc := &stubChat{reply: chat.Reply{Response: chat.EmptyMessageText}}
	w := doRequest(buildTestRouter(svc), `{}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if strings.TrimSpace(w.Body.String()) != `{"response":"Please enter a valid message."}` {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
	if len(svc.messages) != 1 || svc.messages[0] != "" {
		t.Errorf("missing message should reach the service as empty, got %v", svc.messages)
	}
}

func TestChat_InvalidJSON(t *testing.T) {
	for name, body := range map[string]string{
		"not json":      `message=hi`,
		"empty body":    ``,
		"wrong type":    `{"message": 42}`,
		"trailing junk": `{"message": "hi"`,
	} {
		t.Run(name, func(t *testing.T) {
			svc := &stubChat{}
			w := doRequest(buildTestRouter(svc), body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), `"invalid json"`) {
				t.Errorf("unexpected body: %s", w.Body.String())
			}
			if len(svc.messages) != 0 {
				t.Errorf("service should not be called")
			}
		})
	}
}
