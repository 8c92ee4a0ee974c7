package harness

import (
	"context"
	"sync"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/chat"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/upstream"
)

// recorder is a View that keeps the latest state of every surface.
type recorder struct {
	mu       sync.Mutex
	panels   map[Panel]string
	statuses []Status
	triggers []Trigger
}

func newRecorder() *recorder {
	return &recorder{panels: map[Panel]string{}}
}

func (r *recorder) SetPanel(p Panel, text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.panels[p] = text
}

func (r *recorder) SetStatus(s Status) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, s)
}

func (r *recorder) SetTrigger(t Trigger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.triggers = append(r.triggers, t)
}

func (r *recorder) panel(p Panel) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	text, ok := r.panels[p]
	return text, ok
}

func (r *recorder) status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 {
		return Status{}
	}
	return r.statuses[len(r.statuses)-1]
}

// fakeAPI returns canned responses and counts calls.
type fakeAPI struct {
	mu         sync.Mutex
	chatResp   *upstream.Response
	chatErr    error
	statsResp  *upstream.Response
	statsErr   error
	healthResp *upstream.Response
	healthErr  error
	chatCalls  int
	statsCalls int
}

func (f *fakeAPI) Health(ctx context.Context, base string) (*upstream.Response, error) {
	return f.healthResp, f.healthErr
}

func (f *fakeAPI) Chat(ctx context.Context, base string, payload chat.Payload) (*upstream.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls++
	return f.chatResp, f.chatErr
}

func (f *fakeAPI) Stats(ctx context.Context, base, adminKey string) (*upstream.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statsCalls++
	return f.statsResp, f.statsErr
}

func (f *fakeAPI) calls() (chatCalls, statsCalls int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.chatCalls, f.statsCalls
}
