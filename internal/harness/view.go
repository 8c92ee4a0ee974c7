package harness

// Panel names one display surface of the console.
type Panel string

const (
	PanelResponse Panel = "responseBox"
	PanelReply    Panel = "responseText"
	PanelHeaders  Panel = "headersBox"
	PanelPayload  Panel = "payloadBox"
	PanelStats    Panel = "statsBox"
	PanelHealth   Panel = "apiStatus"
)

// Operator-facing text.
const (
	TextWaiting        = "Waiting for response..."
	TextRequestFailed  = "Request failed."
	TextPayloadHidden  = "hidden"
	TextSending        = "Sending..."
	TextSuccess        = "Success"
	TextUpstreamError  = "Upstream error"
	TextLoading        = "Loading..."
	TextChecking       = "Checking..."
	TextMissingBaseURL = "Missing base URL"
	TextNotReachable   = "Not reachable"
	LabelSend          = "Send request"
	LabelSending       = "Sending..."
)

// Status is the latest operation outcome shown to the operator.
type Status struct {
	Text  string `json:"text"`
	Error bool   `json:"error"`
}

// Trigger is the state of the send button.
type Trigger struct {
	Disabled bool   `json:"disabled"`
	Label    string `json:"label"`
}

// View receives the output of harness operations. Implementations must be
// safe for concurrent use: a stats follow-up may write while another
// operation is running.
type View interface {
	SetPanel(p Panel, text string)
	SetStatus(s Status)
	SetTrigger(t Trigger)
}
