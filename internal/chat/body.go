package chat

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// Kind tells which shape a response body turned out to have.
type Kind int

const (
	// KindText is a body that is not JSON (or is JSON null).
	KindText Kind = iota
	// KindObject is a JSON object.
	KindObject
	// KindValue is any other JSON value: array, string, number or bool.
	KindValue
)

func (k Kind) String() string {
	switch k {
	case KindObject:
		return "object"
	case KindValue:
		return "value"
	default:
		return "text"
	}
}

// Body is a response body of unknown shape. It always keeps the raw text so
// callers can fall back to it.
type Body struct {
	Raw   string
	Kind  Kind
	value any
}

// ParseBody classifies raw. It never fails: anything that is not a single
// well-formed JSON value ends up as KindText.
func ParseBody(raw string) Body {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return Body{Raw: raw}
	}
	if _, err := dec.Token(); err != io.EOF {
		return Body{Raw: raw}
	}

	switch v.(type) {
	case nil:
		return Body{Raw: raw}
	case map[string]any:
		return Body{Raw: raw, Kind: KindObject, value: v}
	default:
		return Body{Raw: raw, Kind: KindValue, value: v}
	}
}

// Parsed reports whether the body decoded as JSON.
func (b Body) Parsed() bool {
	return b.Kind != KindText
}

// Value returns the decoded JSON value, or nil for text bodies.
func (b Body) Value() any {
	return b.value
}

// Pretty renders the body as two-space indented JSON in source key order.
// Like a browser's JSON.parse, a repeated key keeps its first position and its
// last value, and numbers are printed as float64 values (1.50 becomes 1.5).
// Text bodies are returned verbatim.
func (b Body) Pretty() string {
	if !b.Parsed() {
		return b.Raw
	}
	dec := json.NewDecoder(strings.NewReader(b.Raw))
	dec.UseNumber()
	v, err := decodeOrdered(dec)
	if err != nil {
		return b.Raw
	}
	var buf bytes.Buffer
	writePretty(&buf, v, "")
	return buf.String()
}

// ExtractReply pulls the assistant text out of a chat response. It accepts
// {"message":{"content":"..."}} and {"choices":[{"message":{"content":"..."}}]},
// looking only at the first choice.
func ExtractReply(b Body) (string, bool) {
	obj, ok := b.value.(map[string]any)
	if !ok {
		return "", false
	}

	if msg, ok := obj["message"].(map[string]any); ok {
		if content, ok := msg["content"].(string); ok {
			return content, true
		}
	}

	choices, ok := obj["choices"].([]any)
	if !ok || len(choices) == 0 {
		return "", false
	}
	first, ok := choices[0].(map[string]any)
	if !ok {
		return "", false
	}
	msg, ok := first["message"].(map[string]any)
	if !ok {
		return "", false
	}
	content, ok := msg["content"].(string)
	if !ok || content == "" {
		return "", false
	}
	return content, true
}

// Indent encodes v as two-space indented JSON without HTML escaping.
func Indent(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
