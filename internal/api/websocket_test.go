package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fault-logbook/backend/internal/models"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialForm(t *testing.T, env *testEnv, id string) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(env.e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/forms/" + id + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

// readUntil reads messages until one of type msgType arrives.
func readUntil(t *testing.T, ws *websocket.Conn, msgType string) WSMessage {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		var msg WSMessage
		require.NoError(t, ws.ReadJSON(&msg))
		if msg.Type == msgType {
			return msg
		}
	}
}

func send(t *testing.T, ws *websocket.Conn, msgType string, payload interface{}) {
	t.Helper()
	msg := WSMessage{Type: msgType}
	if payload != nil {
		msg.Payload = mustJSON(payload)
	}
	require.NoError(t, ws.WriteJSON(msg))
}

func TestFormSocket_InitialView(t *testing.T) {
	env := newTestEnv(t)
	id := env.createForm(t)
	ws := dialForm(t, env, id)

	readUntil(t, ws, MsgTypeConnected)
	msg := readUntil(t, ws, MsgTypeView)

	var view models.FormView
	require.NoError(t, json.Unmarshal(msg.Payload, &view))
	assert.Equal(t, id, view.ID)
	assert.Equal(t, []string{"L1", "L2"}, fieldView(view, models.FieldLine).Options)
}

func TestFormSocket_SelectAndPing(t *testing.T) {
	env := newTestEnv(t)
	id := env.createForm(t)
	ws := dialForm(t, env, id)
	readUntil(t, ws, MsgTypeView)

	send(t, ws, MsgTypeSelect, selectRequest{Field: "line", Value: "L2"})
	msg := readUntil(t, ws, MsgTypeView)

	var view models.FormView
	require.NoError(t, json.Unmarshal(msg.Payload, &view))
	assert.Equal(t, "L2", fieldView(view, models.FieldLine).Value.String)
	assert.Equal(t, []string{"B1"}, fieldView(view, models.FieldArea).Options)

	send(t, ws, MsgTypePing, nil)
	readUntil(t, ws, MsgTypePong)
}

func TestFormSocket_PushesChangesFromHTTP(t *testing.T) {
	env := newTestEnv(t)
	id := env.createForm(t)
	ws := dialForm(t, env, id)
	readUntil(t, ws, MsgTypeView)

	rec := env.do(http.MethodPost, "/api/forms/"+id+"/select", selectRequest{Field: "loto", Value: "No"})
	require.Equal(t, http.StatusOK, rec.Code)

	msg := readUntil(t, ws, MsgTypeChange)
	var change models.FieldChange
	require.NoError(t, json.Unmarshal(msg.Payload, &change))
	assert.Equal(t, models.FieldLOTO, change.Field)
	assert.Equal(t, "No", change.Value.String)
}

func TestFormSocket_Errors(t *testing.T) {
	env := newTestEnv(t)
	id := env.createForm(t)
	ws := dialForm(t, env, id)
	readUntil(t, ws, MsgTypeView)

	send(t, ws, "explode", nil)
	msg := readUntil(t, ws, MsgTypeError)
	var errResp WSErrorResponse
	require.NoError(t, json.Unmarshal(msg.Payload, &errResp))
	assert.Equal(t, "INVALID_TYPE", errResp.Code)

	send(t, ws, MsgTypeQuery, queryRequest{Field: "nope", Text: "x"})
	msg = readUntil(t, ws, MsgTypeError)
	require.NoError(t, json.Unmarshal(msg.Payload, &errResp))
	assert.Equal(t, "INVALID_FIELD", errResp.Code)
}

func TestFormSocket_UnknownForm(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(http.MethodGet, "/api/forms/missing/ws", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
