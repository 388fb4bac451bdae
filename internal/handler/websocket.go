package handler

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	ws "github.com/wordageddon/wordageddon/internal/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for now
	},
}

// WebSocketHandler handles WebSocket connections
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
	}
}

// HandleWebSocket subscribes the caller to the event feed of one play
func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	playID := c.QueryParam("play_id")
	if playID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "play_id is required",
		})
	}

	conn, err := upgrader.Upgrade(c.Response().Writer, c.Request(), nil)
	if err != nil {
		return err
	}

	client := &ws.Client{
		Hub:    h.hub,
		Conn:   conn,
		PlayID: playID,
		Send:   make(chan []byte, 256),
	}

	h.hub.Register(client)

	go client.ReadPump()
	go client.WritePump()

	return nil
}

// GetSpectators godoc
// @Summary Count a play's spectators
// @Description Count the WebSocket clients subscribed to a play
// @Tags plays
// @Produce json
// @Param play_id path string true "Play ID"
// @Success 200 {object} map[string]int
// @Router /plays/{play_id}/spectators [get]
func (h *WebSocketHandler) GetSpectators(c echo.Context) error {
	playID := c.Param("play_id")
	return c.JSON(http.StatusOK, map[string]int{
		"spectators": h.hub.PlayClients(playID),
	})
}
