package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	apierrors "github.com/ahmedbadawy4/llm-pii-shield/internal/errors"
)

// CheckHealth probes {base}/healthz and renders reachability. Every failure
// collapses to "Not reachable"; the cause is only logged and returned.
func (h *Harness) CheckHealth(ctx context.Context, form Form, view View) error {
	base := NormalizeBaseURL(form.BaseURL)
	if base == "" {
		view.SetPanel(PanelHealth, TextMissingBaseURL)
		return apierrors.ErrMissingBaseURL
	}

	view.SetPanel(PanelHealth, TextChecking)

	status, err := h.probe(ctx, base)
	if err != nil {
		slog.Debug("health check failed", "base_url", base, "error", err)
		view.SetPanel(PanelHealth, TextNotReachable)
		return err
	}
	if status != "" {
		view.SetPanel(PanelHealth, "OK ("+status+")")
	} else {
		view.SetPanel(PanelHealth, "OK")
	}
	return nil
}

// probe returns the health payload's status field, or "" when it has none.
func (h *Harness) probe(ctx context.Context, base string) (string, error) {
	resp, err := h.api.Health(ctx, base)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", fmt.Errorf("%w: %d", apierrors.ErrUnhealthy, resp.StatusCode)
	}

	var payload any
	if err := json.Unmarshal([]byte(resp.Body), &payload); err != nil {
		return "", fmt.Errorf("decode health payload: %w", err)
	}
	switch v := payload.(type) {
	case nil:
		return "", fmt.Errorf("decode health payload: null body")
	case map[string]any:
		return statusLabel(v["status"]), nil
	default:
		return "", nil
	}
}

func statusLabel(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case bool:
		if s {
			return "true"
		}
	case float64:
		if s != 0 {
			return strconv.FormatFloat(s, 'f', -1, 64)
		}
	}
	return ""
}
