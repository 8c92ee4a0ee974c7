package harness

import "strings"

// fallbackBaseURL is used when neither the runtime config nor the page origin
// supplies a base URL.
const fallbackBaseURL = "http://127.0.0.1:8000"

// Form is the operator-editable configuration. Operations read it and never
// write back to it.
type Form struct {
	BaseURL      string `json:"baseUrl"`
	AdminKey     string `json:"adminKey"`
	Model        string `json:"model"`
	SystemPrompt string `json:"system"`
	UserPrompt   string `json:"prompt"`
	ShowPayload  bool   `json:"showPayload"`
}

// RuntimeConfig holds the defaults injected at startup.
type RuntimeConfig struct {
	APIBaseURL   string `json:"API_BASE_URL" yaml:"api_base_url"`
	DefaultModel string `json:"DEFAULT_MODEL" yaml:"default_model"`
	AdminKey     string `json:"ADMIN_KEY" yaml:"admin_key"`
}

// Seed applies rc to form once at startup. The base URL is filled only when
// empty (runtime value, then origin, then a loopback default); the model and
// admin key are overwritten whenever the runtime value is set.
func Seed(form *Form, rc RuntimeConfig, origin string) {
	if form.BaseURL == "" {
		switch {
		case rc.APIBaseURL != "":
			form.BaseURL = rc.APIBaseURL
		case origin != "":
			form.BaseURL = origin
		default:
			form.BaseURL = fallbackBaseURL
		}
	}
	if rc.DefaultModel != "" {
		form.Model = rc.DefaultModel
	}
	if rc.AdminKey != "" {
		form.AdminKey = rc.AdminKey
	}
}

// NormalizeBaseURL trims surrounding whitespace and trailing slashes. Nothing
// else about the URL is checked.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(strings.TrimSpace(raw), "/")
}
