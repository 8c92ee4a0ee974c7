package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/harness"
)

func TestTerminal_SkipsPlaceholders(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	term.SetTrigger(harness.Trigger{Disabled: true, Label: harness.LabelSending})
	term.SetStatus(harness.Status{Text: harness.TextSending})
	term.SetPanel(harness.PanelResponse, harness.TextWaiting)
	term.SetPanel(harness.PanelReply, "hi there")
	term.SetPanel(harness.PanelHeaders, "{\n  \"status\": 200\n}")
	term.SetStatus(harness.Status{Text: harness.TextSuccess})

	out := buf.String()
	if strings.Contains(out, harness.TextWaiting) || strings.Contains(out, "trigger") {
		t.Errorf("expected placeholders suppressed, got:\n%s", out)
	}
	if !strings.Contains(out, "reply: hi there\n") {
		t.Errorf("expected single-line panel, got:\n%s", out)
	}
	if !strings.Contains(out, "── headers ──\n{\n  \"status\": 200\n}\n") {
		t.Errorf("expected block panel, got:\n%s", out)
	}
	if strings.Count(out, "status:") != 1 {
		t.Errorf("expected only the final status line, got:\n%s", out)
	}
	if term.Status().Text != harness.TextSuccess {
		t.Errorf("expected last status Success, got %+v", term.Status())
	}
}

func TestTerminal_VerboseAndErrors(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, true)

	term.SetPanel(harness.PanelStats, harness.TextLoading)
	term.SetStatus(harness.Status{Text: "Upstream error", Error: true})
	term.SetTrigger(harness.Trigger{Label: harness.LabelSend})

	out := buf.String()
	for _, want := range []string{"stats: Loading...", "status: Upstream error [error]", "trigger: Send request (disabled=false)"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in:\n%s", want, out)
		}
	}
}
