// Package e2e runs the harness against a live chat API.
//
// Required environment variables (test skips if absent):
//
//	E2E_API_BASE_URL – base URL of a running PII shield
//	E2E_MODEL        – model the shield's backend serves
//
// Optional:
//
//	E2E_ADMIN_KEY    – X-Admin-Key for /admin/stats
package e2e

import (
	"context"
	"encoding/json"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/harness"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/upstream"
)

// requireEnv returns the value of an env var or skips the test if it is unset.
func requireEnv(t *testing.T, key string) string {
	t.Helper()
	v := os.Getenv(key)
	if v == "" {
		t.Skipf("env %s not set – skipping E2E test", key)
	}
	return v
}

type panels struct {
	mu     sync.Mutex
	text   map[harness.Panel]string
	status harness.Status
}

func (p *panels) SetPanel(panel harness.Panel, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.text[panel] = text
}

func (p *panels) SetStatus(s harness.Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.status = s
}

func (p *panels) SetTrigger(harness.Trigger) {}

func TestLive_HealthSendStats(t *testing.T) {
	base := requireEnv(t, "E2E_API_BASE_URL")
	model := requireEnv(t, "E2E_MODEL")

	h := harness.New(upstream.NewClient(2*time.Minute, ""))
	view := &panels{text: map[harness.Panel]string{}}
	form := harness.Form{
		BaseURL:     base,
		AdminKey:    os.Getenv("E2E_ADMIN_KEY"),
		Model:       model,
		UserPrompt:  "Reply with one word. My email is jane@example.com.",
		ShowPayload: true,
	}
	ctx := context.Background()

	if err := h.CheckHealth(ctx, form, view); err != nil {
		t.Fatalf("health: %v (panel %q)", err, view.text[harness.PanelHealth])
	}

	if err := h.Send(ctx, form, view); err != nil {
		t.Fatalf("send: %v", err)
	}
	h.Wait()

	if view.status.Error {
		t.Fatalf("upstream error: %s\n%s", view.status.Text, view.text[harness.PanelResponse])
	}

	var headers map[string]any
	if err := json.Unmarshal([]byte(view.text[harness.PanelHeaders]), &headers); err != nil {
		t.Fatalf("headers panel: %v", err)
	}
	if headers["x-request-id"] == nil {
		t.Error("expected the shield to return X-Request-ID")
	}
	if headers["x-pii-redacted"] != "email" {
		t.Logf("x-pii-redacted = %v", headers["x-pii-redacted"])
	}
	t.Logf("reply: %s", view.text[harness.PanelReply])
	t.Logf("stats: %s", view.text[harness.PanelStats])
}
