package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/fault-logbook/backend/internal/models"
	"github.com/fault-logbook/backend/internal/selection"
	"github.com/fault-logbook/backend/internal/session"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

// WebSocket message types for the form protocol
const (
	// Client -> Server messages
	MsgTypeSelect = "select"
	MsgTypeQuery  = "query"
	MsgTypeReset  = "reset"
	MsgTypePing   = "ping"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypeView      = "view"
	MsgTypeChange    = "change"
	MsgTypeError     = "error"
	MsgTypePong      = "pong"
)

// outboxSize bounds queued change notifications per connection. Changes
// beyond it are dropped; the next view message carries the full state.
const outboxSize = 64

// WebSocket message structure
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// WebSocket error response
type WSErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// FormSocketHandlerImpl streams one form's changes to a WebSocket client and
// applies the raw selection events it sends back.
type FormSocketHandlerImpl struct {
	forms    *session.Manager
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewFormSocketHandler creates a new WebSocket form handler
func NewFormSocketHandler(forms *session.Manager, logger *slog.Logger) FormSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FormSocketHandlerImpl{
		forms: forms,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		logger: logger,
	}
}

// HandleFormSocket upgrades the connection and runs the form protocol until
// the client disconnects
func (wsh *FormSocketHandlerImpl) HandleFormSocket(c echo.Context) error {
	id := c.Param("id")
	form, err := wsh.forms.Get(id)
	if err != nil {
		return NewNotFoundError("form", id)
	}

	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()

	logger := wsh.logger.With("form", id)
	logger.Debug("websocket connected")

	out := make(chan WSMessage, outboxSize)
	done := make(chan struct{})
	go wsh.writeLoop(ws, out, done, logger)

	unsubscribe := form.Subscribe(func(change models.FieldChange) {
		select {
		case out <- newMessage(MsgTypeChange, id, change):
		default:
		}
	})

	out <- newMessage(MsgTypeConnected, id, nil)
	out <- newMessage(MsgTypeView, id, form.View())

	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("websocket read failed", "error", err)
			}
			break
		}
		if reply, ok := wsh.handleMessage(form, msg); ok {
			out <- reply
		}
	}

	// Unsubscribe before closing out so no callback sends on a closed channel.
	unsubscribe()
	close(out)
	<-done

	logger.Debug("websocket disconnected")
	return nil
}

func (wsh *FormSocketHandlerImpl) handleMessage(form *session.Form, msg WSMessage) (WSMessage, bool) {
	id := form.ID()

	var apply func(m *selection.Machine) error
	switch msg.Type {
	case MsgTypePing:
		return newMessage(MsgTypePong, id, nil), true
	case MsgTypeSelect:
		var req selectRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return errorMessage(id, "Invalid select payload: "+err.Error(), "INVALID_PAYLOAD"), true
		}
		apply = func(m *selection.Machine) error { return m.Select(models.Field(req.Field), req.Value) }
	case MsgTypeQuery:
		var req queryRequest
		if err := json.Unmarshal(msg.Payload, &req); err != nil {
			return errorMessage(id, "Invalid query payload: "+err.Error(), "INVALID_PAYLOAD"), true
		}
		apply = func(m *selection.Machine) error { return m.SetQuery(models.Field(req.Field), req.Text) }
	case MsgTypeReset:
		apply = func(m *selection.Machine) error {
			m.Reset()
			return nil
		}
	default:
		return errorMessage(id, "Unknown message type: "+msg.Type, "INVALID_TYPE"), true
	}

	if err := form.Do(apply); err != nil {
		return errorMessage(id, err.Error(), "INVALID_FIELD"), true
	}
	return newMessage(MsgTypeView, id, form.View()), true
}

// writeLoop is the only writer on ws. After a write error it keeps draining
// out so senders never block.
func (wsh *FormSocketHandlerImpl) writeLoop(ws *websocket.Conn, out <-chan WSMessage, done chan<- struct{}, logger *slog.Logger) {
	defer close(done)
	failed := false
	for msg := range out {
		if failed {
			continue
		}
		if err := ws.WriteJSON(msg); err != nil {
			logger.Warn("websocket write failed", "error", err)
			failed = true
		}
	}
}

func newMessage(msgType, id string, payload interface{}) WSMessage {
	msg := WSMessage{Type: msgType, ID: id, Timestamp: time.Now().UnixMilli()}
	if payload != nil {
		msg.Payload = mustJSON(payload)
	}
	return msg
}

func errorMessage(id, message, code string) WSMessage {
	return newMessage(MsgTypeError, id, WSErrorResponse{
		Type:    MsgTypeError,
		Message: message,
		Code:    code,
	})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
