package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"embedgate/config"
	"embedgate/services"
	"embedgate/utils"
)

type StreamHandler struct {
	cfg      *config.Config
	audit    *services.OriginAudit
	upgrader websocket.Upgrader
}

func NewStreamHandler(cfg *config.Config, audit *services.OriginAudit) *StreamHandler {
	h := &StreamHandler{
		cfg:   cfg,
		audit: audit,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin wraps the pattern check so every browser connection attempt
// leaves an audit trail.
func (h *StreamHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser clients
	}

	pattern, allowed := matchOrigin(h.cfg.AllowedOrigins, origin)
	h.audit.Record(origin, pattern, allowed, map[string]string{
		"path":        r.URL.Path,
		"remote_addr": r.RemoteAddr,
	})
	if !allowed {
		log.Printf("[Stream] Origin rejected: %s", origin)
	}
	return allowed
}

type streamMessage struct {
	Type string          `json:"type"` // "ping" | "echo"
	Data json.RawMessage `json:"data,omitempty"`
}

type streamResponse struct {
	Type    string          `json:"type"` // "hello" | "pong" | "echo" | "error"
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// HandleWebSocket upgrades the stream connection. Auth is a query-param
// token since browsers cannot set headers on WebSocket upgrades.
func (h *StreamHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Token required"})
		return
	}

	if _, err := utils.ParseStreamToken(h.cfg.JWTSecret, token); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[Stream] WS upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.send(conn, streamResponse{Type: "hello"})

	// Ping/pong keepalive
	conn.SetReadDeadline(time.Now().Add(45 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(45 * time.Second))
		return nil
	})

	done := make(chan struct{})
	defer close(done)

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(5*time.Second)); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[Stream] WebSocket error: %v", err)
			}
			break
		}
		conn.SetReadDeadline(time.Now().Add(45 * time.Second))

		var msg streamMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.send(conn, streamResponse{Type: "error", Message: "Invalid message format"})
			continue
		}

		switch msg.Type {
		case "ping":
			h.send(conn, streamResponse{Type: "pong"})
		case "echo":
			h.send(conn, streamResponse{Type: "echo", Data: msg.Data})
		default:
			h.send(conn, streamResponse{Type: "error", Message: "Unknown message type"})
		}
	}
}

func (h *StreamHandler) send(conn *websocket.Conn, resp streamResponse) {
	data, _ := json.Marshal(resp)
	conn.WriteMessage(websocket.TextMessage, data)
}
