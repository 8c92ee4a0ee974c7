package harness

import (
	"github.com/ahmedbadawy4/llm-pii-shield/internal/httputil"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/upstream"
)

// HeaderSummary is the headers panel: the status code, the shield's headers of
// interest and every response header. A header that was not sent is encoded
// as null rather than dropped.
type HeaderSummary struct {
	Status         int               `json:"status"`
	PIIRedacted    *string           `json:"x-pii-redacted"`
	OriginalLength *string           `json:"x-original-length"`
	MaskedLength   *string           `json:"x-masked-length"`
	RequestID      *string           `json:"x-request-id"`
	LatencySeconds *string           `json:"x-latency-seconds"`
	All            map[string]string `json:"all"`
}

// SummarizeHeaders builds the headers panel for resp.
func SummarizeHeaders(resp *upstream.Response) HeaderSummary {
	all := httputil.HeaderMap(resp.Header)
	lookup := func(name string) *string {
		if v, ok := all[name]; ok {
			return &v
		}
		return nil
	}
	return HeaderSummary{
		Status:         resp.StatusCode,
		PIIRedacted:    lookup("x-pii-redacted"),
		OriginalLength: lookup("x-original-length"),
		MaskedLength:   lookup("x-masked-length"),
		RequestID:      lookup("x-request-id"),
		LatencySeconds: lookup("x-latency-seconds"),
		All:            all,
	}
}
