package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
)

// MockAPI is an httptest.Server that simulates the chat API under test:
// /healthz, /v1/chat/completions and /admin/stats.
type MockAPI struct {
	Server *httptest.Server

	mu sync.Mutex

	// HealthCode and HealthBody control GET /healthz.
	HealthCode int
	HealthBody string

	// Answer is returned as {"message":{"content":Answer}} unless ChatBody is set.
	Answer    string
	ChatCode  int
	ChatBody  string
	RequestID string
	// ChatGate, when set, holds every chat response until it is closed.
	ChatGate chan struct{}

	// AdminKey, when set, is required on GET /admin/stats.
	AdminKey  string
	StatsBody string

	lastChat     map[string]any
	lastChatCT   string
	lastAdminKey string
	sawAdminKey  bool
	chatCalls    atomic.Int32
	statsCalls   atomic.Int32
	healthCalls  atomic.Int32
}

// NewMockAPI creates and starts a mock chat API that answers with answer.
func NewMockAPI(answer string) *MockAPI {
	m := &MockAPI{
		HealthCode: http.StatusOK,
		HealthBody: `{"status":"ok"}`,
		Answer:     answer,
		ChatCode:   http.StatusOK,
		RequestID:  "req-test-1",
		StatsBody:  `{"requests":1,"redacted":0}`,
	}
	m.Server = httptest.NewServer(http.HandlerFunc(m.handle))
	return m
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.Server.Close()
}

// URL returns the base URL of the mock server.
func (m *MockAPI) URL() string {
	return m.Server.URL
}

// Set runs fn with the mock locked so tests can change responses safely.
func (m *MockAPI) Set(fn func(m *MockAPI)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m)
}

// LastChat returns the most recent chat request body and its Content-Type.
func (m *MockAPI) LastChat() (map[string]any, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastChat, m.lastChatCT
}

// LastAdminKey returns the X-Admin-Key header of the most recent stats request
// and whether the header was present at all.
func (m *MockAPI) LastAdminKey() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAdminKey, m.sawAdminKey
}

// ChatCalls returns how many chat requests were received.
func (m *MockAPI) ChatCalls() int { return int(m.chatCalls.Load()) }

// StatsCalls returns how many stats requests were received.
func (m *MockAPI) StatsCalls() int { return int(m.statsCalls.Load()) }

// HealthCalls returns how many health requests were received.
func (m *MockAPI) HealthCalls() int { return int(m.healthCalls.Load()) }

func (m *MockAPI) handle(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/healthz" && r.Method == http.MethodGet:
		m.healthCalls.Add(1)
		m.writeHealth(w)
	case r.URL.Path == "/v1/chat/completions" && r.Method == http.MethodPost:
		m.chatCalls.Add(1)
		m.writeChat(w, r)
	case r.URL.Path == "/admin/stats" && r.Method == http.MethodGet:
		m.statsCalls.Add(1)
		m.writeStats(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (m *MockAPI) writeHealth(w http.ResponseWriter) {
	m.mu.Lock()
	code, body := m.HealthCode, m.HealthBody
	m.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	fmt.Fprint(w, body)
}

func (m *MockAPI) writeChat(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	m.mu.Lock()
	m.lastChat = body
	m.lastChatCT = r.Header.Get("Content-Type")
	code, override, answer, reqID := m.ChatCode, m.ChatBody, m.Answer, m.RequestID
	gate := m.ChatGate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}

	length := 0
	if msgs, ok := body["messages"].([]any); ok {
		for _, raw := range msgs {
			if msg, ok := raw.(map[string]any); ok {
				content, _ := msg["content"].(string)
				length += len(content)
			}
		}
	}

	w.Header().Set("X-Request-ID", reqID)
	w.Header().Set("X-PII-Redacted", "none")
	w.Header().Set("X-Original-Length", fmt.Sprint(length))
	w.Header().Set("X-Masked-Length", fmt.Sprint(length))
	w.Header().Set("X-Latency-Seconds", "0.012")

	if override != "" {
		w.WriteHeader(code)
		fmt.Fprint(w, override)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model":   body["model"],
		"message": map[string]any{"role": "assistant", "content": answer},
		"done":    true,
	})
}

func (m *MockAPI) writeStats(w http.ResponseWriter, r *http.Request) {
	key, present := r.Header.Get("X-Admin-Key"), len(r.Header.Values("X-Admin-Key")) > 0

	m.mu.Lock()
	m.lastAdminKey, m.sawAdminKey = key, present
	want, body := m.AdminKey, m.StatsBody
	m.mu.Unlock()

	if want != "" && key != want {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"detail":"invalid admin key"}`)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}
