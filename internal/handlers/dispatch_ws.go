package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/mailcast/internal"
	"github.com/dmitrymomot/mailcast/pkg/dispatch"
	"github.com/dmitrymomot/mailcast/pkg/validator"
)

const (
	wsWriteWait   = 10 * time.Second
	wsRequestWait = 30 * time.Second
	wsCloseWait   = 5 * time.Second
)

// wsControl is a client message sent after the request. The only known
// type is "cancel"; anything else is ignored.
type wsControl struct {
	Type string `json:"type"`
}

// wsError rejects the opening request. It shares the "error" event type so
// clients can use one decoder for the whole conversation.
type wsError struct {
	Type    dispatch.EventType `json:"type"`
	Error   string             `json:"error"`
	Details any                `json:"details,omitempty"`
}

// socket upgrades the connection, reads one SendRequest and streams the
// run's events as text messages. Closing the socket or sending
// {"type":"cancel"} sets the run's token.
func (h *DispatchHandler) socket(c internal.Context) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			return h.originAllowed(r.Header.Get("Origin"))
		},
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// Upgrade has already replied with an HTTP error.
		c.LogDebug("websocket upgrade failed", slog.String("error", err.Error()))
		return nil
	}
	defer conn.Close()

	conn.SetReadLimit(h.readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(wsRequestWait))

	var req SendRequest
	if err := conn.ReadJSON(&req); err != nil {
		closeWithError(conn, websocket.CloseUnsupportedData, wsError{Type: dispatch.TypeError, Error: "invalid JSON request"})
		return nil
	}
	if err := req.Validate(); err != nil {
		resp := wsError{Type: dispatch.TypeError, Error: "validation failed"}
		if verrs := validator.ExtractValidationErrors(err); verrs != nil {
			resp.Details = verrs.Fields()
		}
		closeWithError(conn, websocket.ClosePolicyViolation, resp)
		return nil
	}
	_ = conn.SetReadDeadline(time.Time{})

	token := dispatch.NewToken()
	stop := token.CancelOnDone(c.Context())
	defer stop()

	readerDone := make(chan struct{})
	go func() {
		defer close(readerDone)
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				token.Cancel()
				return
			}
			var msg wsControl
			if json.Unmarshal(data, &msg) == nil && msg.Type == "cancel" {
				token.Cancel()
			}
		}
	}()

	stopHeartbeat := h.startHeartbeat(func() error {
		return conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait))
	})

	emit := dispatch.EmitterFunc(func(e dispatch.Event) error {
		_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
		return conn.WriteJSON(e)
	})

	_, err = h.dispatcher.Run(c.Context(), req.Dispatch(), token, emit, h.observers(c.Context(), &req)...)
	stopHeartbeat()
	logRunResult(c, err)

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(wsWriteWait))

	select {
	case <-readerDone:
	case <-time.After(wsCloseWait):
	}
	return nil
}

func closeWithError(conn *websocket.Conn, code int, payload wsError) {
	deadline := time.Now().Add(wsWriteWait)
	_ = conn.SetWriteDeadline(deadline)
	if err := conn.WriteJSON(payload); err != nil {
		return
	}
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, payload.Error), deadline)
}
