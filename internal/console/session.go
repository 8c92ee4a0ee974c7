package console

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	apierrors "github.com/ahmedbadawy4/llm-pii-shield/internal/errors"
	"github.com/ahmedbadawy4/llm-pii-shield/internal/harness"
)

// Actions a browser can request.
const (
	actionSend   = "send"
	actionHealth = "health"
	actionStats  = "stats"
)

const writeWait = 10 * time.Second

// errSessionClosed is returned for frames produced after the page went away,
// typically by a stats refresh that outlives its send.
var errSessionClosed = errors.New("session closed")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// inFrame is an operator action together with the form as it was when the
// button was pressed.
type inFrame struct {
	Action string       `json:"action"`
	Form   harness.Form `json:"form"`
}

// outFrame is one display update pushed to the page.
type outFrame struct {
	Type     string        `json:"type"` // "panel" | "status" | "trigger"
	Panel    harness.Panel `json:"panel,omitempty"`
	Text     string        `json:"text"`
	Error    bool          `json:"error,omitempty"`
	Disabled bool          `json:"disabled,omitempty"`
	Label    string        `json:"label,omitempty"`
}

// session is one connected page. It implements harness.View.
type session struct {
	id      uuid.UUID
	conn    *websocket.Conn
	harness *harness.Harness

	writeMu sync.Mutex
	closed  bool // guarded by writeMu
	// sending mirrors the disabled send button.
	sending atomic.Bool
	actions sync.WaitGroup
}

func (s *Server) serveSession(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}

	sess := &session{id: uuid.New(), conn: conn, harness: s.harness}
	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
		s.wg.Done()
	}()

	slog.Info("session opened", "session", sess.id, "remote", r.RemoteAddr)
	sess.run(s.baseCtx)
	slog.Info("session closed", "session", sess.id)
}

func (sess *session) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer func() {
		cancel()
		sess.actions.Wait()
		sess.close()
	}()

	for {
		_, data, err := sess.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("session read failed", "session", sess.id, "error", err)
			}
			return
		}

		var in inFrame
		if err := json.Unmarshal(data, &in); err != nil {
			slog.Debug("bad frame", "session", sess.id, "error", err)
			sess.SetStatus(harness.Status{Text: "Error: " + apierrors.ErrMalformedFrame.Error(), Error: true})
			continue
		}
		sess.dispatch(ctx, in)
	}
}

// dispatch starts the requested action without blocking the read loop, so
// health checks and stats refreshes can overlap with a pending send.
func (sess *session) dispatch(ctx context.Context, in inFrame) {
	var op func(context.Context, harness.Form, harness.View) error
	switch in.Action {
	case actionSend:
		if !sess.sending.CompareAndSwap(false, true) {
			slog.Debug("send ignored while another is pending", "session", sess.id)
			return
		}
		op = sess.harness.Send
	case actionHealth:
		op = sess.harness.CheckHealth
	case actionStats:
		op = sess.harness.FetchStats
	default:
		sess.SetStatus(harness.Status{Text: "Error: unknown action " + in.Action, Error: true})
		return
	}

	sess.actions.Add(1)
	go func() {
		defer sess.actions.Done()
		if in.Action == actionSend {
			defer sess.sending.Store(false)
		}
		if err := op(ctx, in.Form, sess); err != nil {
			slog.Debug("action finished with error", "session", sess.id, "action", in.Action, "error", err)
		}
	}()
}

func (sess *session) SetPanel(p harness.Panel, text string) {
	_ = sess.write(outFrame{Type: "panel", Panel: p, Text: text})
}

func (sess *session) SetStatus(st harness.Status) {
	_ = sess.write(outFrame{Type: "status", Text: st.Text, Error: st.Error})
}

func (sess *session) SetTrigger(t harness.Trigger) {
	_ = sess.write(outFrame{Type: "trigger", Disabled: t.Disabled, Label: t.Label})
}

func (sess *session) write(f outFrame) error {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()

	if sess.closed {
		return errSessionClosed
	}
	_ = sess.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := sess.conn.WriteJSON(f); err != nil {
		slog.Debug("session write failed", "session", sess.id, "type", f.Type, "error", err)
		return err
	}
	return nil
}

func (sess *session) close() {
	sess.writeMu.Lock()
	defer sess.writeMu.Unlock()
	if sess.closed {
		return
	}
	sess.closed = true
	_ = sess.conn.Close()
}
