package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/harness"
)

var titles = map[harness.Panel]string{
	harness.PanelReply:    "reply",
	harness.PanelResponse: "response",
	harness.PanelHeaders:  "headers",
	harness.PanelPayload:  "payload",
	harness.PanelStats:    "stats",
	harness.PanelHealth:   "api",
}

// Terminal is a harness.View for a terminal. Placeholder updates (waiting,
// loading, checking) are suppressed unless Verbose is set, so only final
// panel contents are printed.
type Terminal struct {
	Out     io.Writer
	Verbose bool

	mu     sync.Mutex
	status harness.Status
}

// NewTerminal constructs a Terminal writing to out.
func NewTerminal(out io.Writer, verbose bool) *Terminal {
	return &Terminal{Out: out, Verbose: verbose}
}

func (t *Terminal) SetPanel(p harness.Panel, text string) {
	if !t.Verbose && transient(text) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	title := titles[p]
	if title == "" {
		title = string(p)
	}
	if !strings.Contains(text, "\n") {
		fmt.Fprintf(t.Out, "%s: %s\n", title, text)
		return
	}
	fmt.Fprintf(t.Out, "── %s ──\n%s\n", title, strings.TrimRight(text, "\n"))
}

func (t *Terminal) SetStatus(s harness.Status) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = s
	if s.Error {
		fmt.Fprintf(t.Out, "status: %s [error]\n", s.Text)
		return
	}
	if t.Verbose || s.Text != harness.TextSending {
		fmt.Fprintf(t.Out, "status: %s\n", s.Text)
	}
}

func (t *Terminal) SetTrigger(tr harness.Trigger) {
	if !t.Verbose {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.Out, "trigger: %s (disabled=%v)\n", tr.Label, tr.Disabled)
}

// Status returns the last status reported.
func (t *Terminal) Status() harness.Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

func transient(text string) bool {
	switch text {
	case harness.TextWaiting, harness.TextLoading, harness.TextChecking:
		return true
	}
	return false
}
