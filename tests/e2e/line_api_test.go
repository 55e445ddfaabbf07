package e2e_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/DIMO-Network/line-webhook-relay/internal/clients/line"
)

// mockLineServer stands in for the messaging API. It records replies by
// reply token and serves profiles for any user.
type mockLineServer struct {
	server  *httptest.Server
	replies map[string][]json.RawMessage
	mu      sync.Mutex
}

func setupLineServer(*testing.T) *mockLineServer {
	m := &mockLineServer{
		replies: make(map[string][]json.RawMessage),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v2/bot/message/reply", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-access-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Authentication failed"}`))
			return
		}
		var req line.ReplyMessageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"message":"The request body has 1 error(s)"}`))
			return
		}
		m.mu.Lock()
		m.replies[req.ReplyToken] = req.Messages
		m.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	})
	mux.HandleFunc("GET /v2/bot/profile/{userId}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(line.Profile{
			UserID:      r.PathValue("userId"),
			DisplayName: "Test User",
			PictureURL:  "https://profile.line-scdn.net/test",
		})
	})
	m.server = httptest.NewServer(mux)
	return m
}

func (m *mockLineServer) URL() string {
	return m.server.URL
}

// Reply returns the messages sent with replyToken.
func (m *mockLineServer) Reply(replyToken string) ([]json.RawMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	messages, ok := m.replies[replyToken]
	return messages, ok
}

// ReplyTexts returns the text of every text message sent with replyToken.
func (m *mockLineServer) ReplyTexts(t *testing.T, replyToken string) []string {
	t.Helper()
	messages, ok := m.Reply(replyToken)
	if !ok {
		t.Fatalf("no reply sent for token %s", replyToken)
	}
	texts := make([]string, 0, len(messages))
	for _, raw := range messages {
		var msg struct {
			Type string `json:"type"`
			Text string `json:"text"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			t.Fatalf("invalid reply message %s: %v", raw, err)
		}
		if msg.Type == line.MessageTypeText {
			texts = append(texts, msg.Text)
		}
	}
	return texts
}

func (m *mockLineServer) Close() {
	m.server.Close()
}
