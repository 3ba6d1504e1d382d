package http

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"quiz-admin-service/internal/app"
)

// MonitorHandler streams proctoring signals over a websocket so clients do not
// need one HTTP round trip per event.
type MonitorHandler struct {
	attempts *app.AttemptService
	upgrader websocket.Upgrader
}

func NewMonitorHandler(attempts *app.AttemptService) *MonitorHandler {
	return &MonitorHandler{
		attempts: attempts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type eventPayload struct {
	Type string         `json:"type"`
	Meta map[string]any `json:"meta"`
}

type loggedPayload struct {
	Count int `json:"count"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and logs every inbound "event" message against the attempt.
func (h *MonitorHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	attemptID := r.URL.Query().Get("attemptId")
	if attemptID == "" {
		http.Error(w, "missing attemptId", http.StatusBadRequest)
		return
	}
	// Unknown attempts are rejected before the upgrade so clients get a plain 404.
	if _, err := h.attempts.GetAttempt(r.Context(), attemptID); err != nil {
		writeError(w, r, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			return
		}
		var reply any
		switch inbound.Type {
		case "event":
			var payload eventPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "invalid event payload"}}
				break
			}
			n, err := h.attempts.LogSuspiciousEvent(r.Context(), attemptID, payload.Type, payload.Meta)
			if err != nil {
				reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				break
			}
			reply = outboundMessage[loggedPayload]{Type: "logged", Payload: loggedPayload{Count: n}}
		default:
			reply = outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
		if err := conn.WriteJSON(reply); err != nil {
			log.Printf("ws write error: %v", err)
			return
		}
	}
}
