package chat

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestBuildPayload_NoSystem(t *testing.T) {
	p := BuildPayload("m", "", "hi")
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"model":"m","messages":[{"role":"user","content":"hi"}]}`
	if string(data) != want {
		t.Errorf("expected %s, got %s", want, data)
	}
}

func TestBuildPayload_SystemFirstUserLast(t *testing.T) {
	p := BuildPayload("m", "be brief", "hi")
	if len(p.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(p.Messages))
	}
	if p.Messages[0].Role != RoleSystem || p.Messages[0].Content != "be brief" {
		t.Errorf("unexpected first message: %+v", p.Messages[0])
	}
	if p.Messages[1].Role != RoleUser || p.Messages[1].Content != "hi" {
		t.Errorf("unexpected last message: %+v", p.Messages[1])
	}
}

func TestParseBody_Kinds(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
	}{
		{`{"a":1}`, KindObject},
		{`  {"a":1}  `, KindObject},
		{`[1,2]`, KindValue},
		{`"str"`, KindValue},
		{`42`, KindValue},
		{`null`, KindText},
		{``, KindText},
		{`not json`, KindText},
		{`{"a":1} trailing`, KindText},
		{`{"a":`, KindText},
	}
	for _, tc := range tests {
		if got := ParseBody(tc.raw).Kind; got != tc.kind {
			t.Errorf("ParseBody(%q): expected %s, got %s", tc.raw, tc.kind, got)
		}
	}
}

func TestBody_PrettyKeepsOrder(t *testing.T) {
	b := ParseBody(`{"z":1.50,"a":{"b":"<x>"},"e":[],"o":{}}`)
	want := "{\n  \"z\": 1.5,\n  \"a\": {\n    \"b\": \"<x>\"\n  },\n  \"e\": [],\n  \"o\": {}\n}"
	if got := b.Pretty(); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestBody_PrettyDuplicateKeyKeepsLastValue(t *testing.T) {
	b := ParseBody(`{"a":1,"n":2,"a":2}`)
	want := "{\n  \"a\": 2,\n  \"n\": 2\n}"
	if got := b.Pretty(); got != want {
		t.Errorf("expected:\n%s\ngot:\n%s", want, got)
	}
}

func TestBody_PrettyAgreesWithExtractReply(t *testing.T) {
	b := ParseBody(`{"message":{"content":"A"},"message":{"content":"B"}}`)
	reply, _ := ExtractReply(b)
	if reply != "B" {
		t.Fatalf("expected B, got %q", reply)
	}
	if got := b.Pretty(); strings.Contains(got, `"A"`) || !strings.Contains(got, `"content": "B"`) {
		t.Errorf("expected only the last message in %s", got)
	}
}

func TestBody_PrettyNumbers(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`1.0e2`, "100"},
		{`-0`, "0"},
		{`0.000001`, "0.000001"},
		{`1.5e-7`, "1.5e-7"},
		{`1e21`, "1e+21"},
		{`123456789012345678`, "123456789012345680"},
		{`1e400`, "null"},
	}
	for _, tc := range tests {
		if got := ParseBody(tc.raw).Pretty(); got != tc.want {
			t.Errorf("Pretty(%s): expected %s, got %s", tc.raw, tc.want, got)
		}
	}
}

func TestBody_PrettyTextIsVerbatim(t *testing.T) {
	raw := "Internal Server Error\n"
	if got := ParseBody(raw).Pretty(); got != raw {
		t.Errorf("expected %q, got %q", raw, got)
	}
}

func TestExtractReply_MessageShape(t *testing.T) {
	got, ok := ExtractReply(ParseBody(`{"message":{"role":"assistant","content":"X"}}`))
	if !ok || got != "X" {
		t.Errorf("expected (X, true), got (%q, %v)", got, ok)
	}
}

func TestExtractReply_ChoicesShapeFirstOnly(t *testing.T) {
	got, ok := ExtractReply(ParseBody(`{"choices":[{"message":{"content":"Y"}},{"message":{"content":"Z"}}]}`))
	if !ok || got != "Y" {
		t.Errorf("expected (Y, true), got (%q, %v)", got, ok)
	}
}

func TestExtractReply_IgnoresLaterChoices(t *testing.T) {
	_, ok := ExtractReply(ParseBody(`{"choices":[{"delta":{}},{"message":{"content":"Z"}}]}`))
	if ok {
		t.Error("expected no reply when only choices[1] carries content")
	}
}

func TestExtractReply_MessageWinsOverChoices(t *testing.T) {
	got, _ := ExtractReply(ParseBody(`{"message":{"content":"A"},"choices":[{"message":{"content":"B"}}]}`))
	if got != "A" {
		t.Errorf("expected A, got %q", got)
	}
}

func TestExtractReply_NotFound(t *testing.T) {
	for _, raw := range []string{
		`plain text`,
		`[{"message":{"content":"X"}}]`,
		`{"message":{"content":5}}`,
		`{"choices":[]}`,
		`{"choices":"nope"}`,
		`{"choices":[{"message":{"content":""}}]}`,
		`{"detail":"upstream failed"}`,
	} {
		if got, ok := ExtractReply(ParseBody(raw)); ok {
			t.Errorf("ExtractReply(%s): expected not found, got %q", raw, got)
		}
	}
}

func TestIndent_RoundTripsPayload(t *testing.T) {
	p := BuildPayload("m", "sys <b>", "hi & bye")
	out, err := Indent(p)
	if err != nil {
		t.Fatalf("indent: %v", err)
	}
	var back Payload
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, p) {
		t.Errorf("expected %+v, got %+v", p, back)
	}
}
