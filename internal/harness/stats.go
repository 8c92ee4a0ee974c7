package harness

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/chat"
)

// FetchStats loads the admin statistics into the stats panel. With no base URL
// it does nothing at all, since it also runs unattended after every send.
// Failures stay in the stats panel.
func (h *Harness) FetchStats(ctx context.Context, form Form, view View) error {
	base := NormalizeBaseURL(form.BaseURL)
	if base == "" {
		return nil
	}
	adminKey := strings.TrimSpace(form.AdminKey)

	view.SetPanel(PanelStats, TextLoading)

	resp, err := h.api.Stats(ctx, base, adminKey)
	if err != nil {
		slog.Warn("stats request failed", "base_url", base, "error", err)
		view.SetPanel(PanelStats, "Failed to load stats: "+err.Error())
		return err
	}
	view.SetPanel(PanelStats, chat.ParseBody(resp.Body).Pretty())
	return nil
}
