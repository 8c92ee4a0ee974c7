package harness

import (
	"context"
	"sync"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/chat"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/upstream"
)

// API is the chat API under test.
type API interface {
	Health(ctx context.Context, base string) (*upstream.Response, error)
	Chat(ctx context.Context, base string, payload chat.Payload) (*upstream.Response, error)
	Stats(ctx context.Context, base, adminKey string) (*upstream.Response, error)
}

// Harness runs the operator actions against an API and reports the outcome to
// a View. It holds no form state; every call receives its own Form snapshot.
type Harness struct {
	api       API
	followups sync.WaitGroup
}

// New constructs a Harness.
func New(api API) *Harness {
	return &Harness{api: api}
}

// Wait blocks until every follow-up spawned by Send has finished.
func (h *Harness) Wait() {
	h.followups.Wait()
}

// spawnStats refreshes the stats panel without the caller waiting on it. Its
// outcome only ever reaches the stats panel.
func (h *Harness) spawnStats(ctx context.Context, form Form, view View) {
	h.followups.Add(1)
	go func() {
		defer h.followups.Done()
		_ = h.FetchStats(ctx, form, view)
	}()
}
