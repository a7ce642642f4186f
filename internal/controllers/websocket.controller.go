package controllers

import (
	"log"
	"net/http"

	"machmon/internal/middleware"
	"machmon/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The API binds to localhost by default
		return true
	},
}

// StreamController handles the live snapshot WebSocket and token issuance
type StreamController struct {
	hub  *services.StreamHub
	auth *services.AuthService
}

// NewStreamController creates a controller over the given hub and auth service
func NewStreamController(hub *services.StreamHub, auth *services.AuthService) *StreamController {
	return &StreamController{hub: hub, auth: auth}
}

// HandleWebSocket upgrades an authenticated connection and attaches it to the hub
func (sc *StreamController) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	claims, err := sc.auth.ValidateToken(token)
	if err != nil {
		log.Printf("[WS] Rejected connection from %s: %v", c.ClientIP(), err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("[WS] Upgrade error: %v", err)
		return
	}

	client := &services.StreamClient{
		ID:   ulid.Make().String(),
		Conn: ws,
		Send: make(chan services.StreamMessage, 64),
	}

	log.Printf("[WS] New connection from %s for server: %s", c.ClientIP(), claims.ServerName)
	sc.hub.Register(client)

	go sc.readPump(client)
	go sc.writePump(client)
}

// readPump drains client messages; only ping is answered
func (sc *StreamController) readPump(client *services.StreamClient) {
	defer func() {
		sc.hub.Unregister(client.ID)
		client.Conn.Close()
	}()

	for {
		var msg services.StreamMessage
		if err := client.Conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Read error: %v", err)
			}
			return
		}

		if msg.Type == "ping" {
			select {
			case client.Send <- services.StreamMessage{Type: "pong"}:
			default:
			}
		}
	}
}

// writePump forwards hub messages to the client
func (sc *StreamController) writePump(client *services.StreamClient) {
	defer client.Conn.Close()

	for msg := range client.Send {
		if err := client.Conn.WriteJSON(msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[WS] Write error: %v", err)
			}
			return
		}
	}
	client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// HandleGetToken issues a bearer token for the status API and stream
func (sc *StreamController) HandleGetToken(c *gin.Context) {
	serverName := c.DefaultQuery("server_name", "machmon")
	if !middleware.ValidServerName(serverName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid server name format"})
		return
	}

	token, err := sc.auth.GenerateToken(serverName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":  token,
		"expiry": sc.auth.TokenExpiry(),
		"server": serverName,
	})
}
