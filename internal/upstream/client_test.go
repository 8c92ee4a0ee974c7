package upstream

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/chat"
	"github.com/ahmedbadawy4/llm-pii-shield/test/testutil"
)

func TestChat_SendsJSONPayload(t *testing.T) {
	mock := testutil.NewMockAPI("hello")
	defer mock.Close()

	c := NewClient(0, "")
	resp, err := c.Chat(context.Background(), mock.URL(), chat.BuildPayload("m", "", "hi"))
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if !resp.OK() {
		t.Fatalf("expected 2xx, got %d", resp.StatusCode)
	}
	if got := resp.Header.Get("X-Request-ID"); got != "req-test-1" {
		t.Errorf("expected request id header, got %q", got)
	}
	if !strings.Contains(resp.Body, `"content":"hello"`) {
		t.Errorf("unexpected body: %s", resp.Body)
	}

	body, ct := mock.LastChat()
	if ct != "application/json" {
		t.Errorf("expected application/json, got %q", ct)
	}
	if body["model"] != "m" {
		t.Errorf("expected model m, got %v", body["model"])
	}
}

func TestChat_ErrorStatusIsNotAnError(t *testing.T) {
	mock := testutil.NewMockAPI("")
	defer mock.Close()
	mock.Set(func(m *testutil.MockAPI) {
		m.ChatCode = http.StatusBadGateway
		m.ChatBody = "Ollama unreachable"
	})

	resp, err := NewClient(0, "").Chat(context.Background(), mock.URL(), chat.BuildPayload("m", "", "hi"))
	if err != nil {
		t.Fatalf("expected no error for 502, got %v", err)
	}
	if resp.OK() {
		t.Error("expected OK() to be false for 502")
	}
	if resp.Body != "Ollama unreachable" {
		t.Errorf("expected raw body, got %q", resp.Body)
	}
}

func TestStats_AdminKeyHeader(t *testing.T) {
	mock := testutil.NewMockAPI("")
	defer mock.Close()
	c := NewClient(0, "")

	if _, err := c.Stats(context.Background(), mock.URL(), ""); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if _, present := mock.LastAdminKey(); present {
		t.Error("expected no X-Admin-Key header when key is empty")
	}

	if _, err := c.Stats(context.Background(), mock.URL(), "s3cret"); err != nil {
		t.Fatalf("stats: %v", err)
	}
	if key, present := mock.LastAdminKey(); !present || key != "s3cret" {
		t.Errorf("expected X-Admin-Key s3cret, got %q (present=%v)", key, present)
	}
}

func TestHealth_TransportFailure(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().String()
	ln.Close()

	_, err = NewClient(0, "").Health(context.Background(), "http://"+addr)
	if err == nil {
		t.Fatal("expected transport error")
	}
	if !strings.Contains(err.Error(), "health request") {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestHealth_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewClient(0, "").Health(ctx, srv.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewClient_BadProxyFallsBackToEnvironment(t *testing.T) {
	c := NewClient(0, "://not a url")
	transport, ok := c.httpClient.Transport.(*http.Transport)
	if !ok || transport.Proxy == nil {
		t.Fatal("expected an environment proxy func after a bad proxy url")
	}
}

func TestNewClient_ExplicitProxy(t *testing.T) {
	c := NewClient(0, "http://proxy.internal:8080")
	transport := c.httpClient.Transport.(*http.Transport)
	req := httptest.NewRequest(http.MethodGet, "http://shield:8000/healthz", nil)
	got, err := transport.Proxy(req)
	if err != nil {
		t.Fatalf("proxy: %v", err)
	}
	if got == nil || got.Host != "proxy.internal:8080" {
		t.Errorf("expected proxy.internal:8080, got %v", got)
	}
}

func TestParseProxyURL(t *testing.T) {
	for _, raw := range []string{"://not a url", "proxy:3128", "/relative"} {
		if _, err := ParseProxyURL(raw); err == nil {
			t.Errorf("ParseProxyURL(%q): expected error", raw)
		}
	}
	if _, err := ParseProxyURL("https://user:pw@proxy:3128"); err != nil {
		t.Errorf("expected valid proxy url, got %v", err)
	}
}
