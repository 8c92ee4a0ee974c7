package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// member is one key of an orderedObject.
type member struct {
	key   string
	value any
}

// orderedObject is a JSON object that remembers key order.
type orderedObject struct {
	members []member
	index   map[string]int
}

func (o *orderedObject) set(key string, v any) {
	if i, ok := o.index[key]; ok {
		o.members[i].value = v
		return
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, member{key: key, value: v})
}

// decodeOrdered reads one value from dec, which must have UseNumber set.
func decodeOrdered(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &orderedObject{index: map[string]int{}}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key %v is not a string", keyTok)
			}
			v, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			obj.set(key, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		arr := []any{}
		for dec.More() {
			v, err := decodeOrdered(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

func writePretty(buf *bytes.Buffer, v any, indent string) {
	inner := indent + "  "
	switch t := v.(type) {
	case *orderedObject:
		if len(t.members) == 0 {
			buf.WriteString("{}")
			return
		}
		buf.WriteString("{\n")
		for i, m := range t.members {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(inner)
			buf.WriteString(quote(m.key))
			buf.WriteString(": ")
			writePretty(buf, m.value, inner)
		}
		buf.WriteString("\n" + indent + "}")
	case []any:
		if len(t) == 0 {
			buf.WriteString("[]")
			return
		}
		buf.WriteString("[\n")
		for i, e := range t {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(inner)
			writePretty(buf, e, inner)
		}
		buf.WriteString("\n" + indent + "]")
	case string:
		buf.WriteString(quote(t))
	case json.Number:
		buf.WriteString(formatNumber(t))
	case bool:
		buf.WriteString(strconv.FormatBool(t))
	default:
		buf.WriteString("null")
	}
}

func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	return strings.TrimSuffix(buf.String(), "\n")
}

// formatNumber prints n the way JavaScript prints a double: plain decimals
// between 1e-6 and 1e21, exponent form outside, and null for overflow.
func formatNumber(n json.Number) string {
	f, err := strconv.ParseFloat(n.String(), 64)
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "null"
	}
	if err != nil {
		return n.String()
	}
	if f == 0 {
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e21 || abs < 1e-6 {
		s := strconv.FormatFloat(f, 'e', -1, 64)
		mant, exp, _ := strings.Cut(s, "e")
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
