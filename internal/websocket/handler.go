package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches a raw websocket connection to the hub under a fresh
// session id and blocks until the connection closes.
func ServeWs(hub *Hub, c *websocket.Conn) {
	client := &Client{Hub: hub, Conn: c, SessionID: uuid.New(), Send: make(chan []byte, 256)}
	client.Hub.register <- client

	// Allow collection of memory referenced by the caller by doing all work in
	// new goroutines.
	go client.writePump()
	client.readPump() // Run readPump in current goroutine (handler)
}
