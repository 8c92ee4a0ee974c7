package harness

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ahmedbadawy4/llm-pii-shield/internal/chat"
	apierrors "github.com/ahmedbadawy4/llm-pii-shield/internal/errors"
)

// Send builds a chat payload from form, posts it and renders the response,
// headers and (optionally) the payload. A completed exchange, whatever its
// status code, triggers a stats refresh in the background.
//
// The returned error is a precondition error (nothing was sent) or a transport
// failure. Non-2xx responses are rendered and are not errors.
func (h *Harness) Send(ctx context.Context, form Form, view View) error {
	base := NormalizeBaseURL(form.BaseURL)
	model := strings.TrimSpace(form.Model)
	system := strings.TrimSpace(form.SystemPrompt)
	prompt := strings.TrimSpace(form.UserPrompt)

	if err := checkSend(base, model, prompt); err != nil {
		view.SetStatus(Status{Text: preconditionText(err), Error: true})
		return err
	}

	payload := chat.BuildPayload(model, system, prompt)

	view.SetTrigger(Trigger{Disabled: true, Label: LabelSending})
	defer view.SetTrigger(Trigger{Disabled: false, Label: LabelSend})

	view.SetStatus(Status{Text: TextSending})
	for _, p := range []Panel{PanelResponse, PanelHeaders, PanelPayload, PanelReply} {
		view.SetPanel(p, TextWaiting)
	}

	resp, err := h.api.Chat(ctx, base, payload)
	if err != nil {
		slog.Warn("chat request failed", "base_url", base, "model", model, "error", err)
		view.SetStatus(Status{Text: "Error: " + err.Error(), Error: true})
		view.SetPanel(PanelResponse, TextRequestFailed)
		view.SetPanel(PanelHeaders, TextRequestFailed)
		view.SetPanel(PanelPayload, TextRequestFailed)
		return err
	}

	body := chat.ParseBody(resp.Body)
	view.SetPanel(PanelResponse, body.Pretty())

	reply := resp.Body
	if text, ok := chat.ExtractReply(body); ok && text != "" {
		reply = text
	}
	view.SetPanel(PanelReply, reply)

	summary := SummarizeHeaders(resp)
	view.SetPanel(PanelHeaders, mustIndent(summary))

	if form.ShowPayload {
		view.SetPanel(PanelPayload, mustIndent(payload))
	} else {
		view.SetPanel(PanelPayload, TextPayloadHidden)
	}

	slog.Info("chat request completed",
		"base_url", base,
		"model", model,
		"status", resp.StatusCode,
		"body_kind", body.Kind.String(),
		"request_id", resp.Header.Get("X-Request-ID"),
	)

	if resp.OK() {
		view.SetStatus(Status{Text: TextSuccess})
	} else {
		view.SetStatus(Status{Text: TextUpstreamError, Error: true})
	}

	h.spawnStats(ctx, form, view)
	return nil
}

func checkSend(base, model, prompt string) error {
	switch {
	case base == "":
		return apierrors.ErrMissingBaseURL
	case model == "":
		return apierrors.ErrMissingModel
	case prompt == "":
		return apierrors.ErrMissingPrompt
	}
	return nil
}

func preconditionText(err error) string {
	switch err {
	case apierrors.ErrMissingBaseURL:
		return "Base URL required"
	case apierrors.ErrMissingModel:
		return "Model is required"
	case apierrors.ErrMissingPrompt:
		return "User message is required"
	}
	return err.Error()
}

// mustIndent renders values whose encoding cannot fail (plain structs of
// strings and ints).
func mustIndent(v any) string {
	out, err := chat.Indent(v)
	if err != nil {
		panic(err)
	}
	return out
}
