package live

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

var collections = map[string]bool{
	"itineraries":   true,
	"anniversaries": true,
	"lovenotes":     true,
}

// ServeWS upgrades GET /ws/:collection and streams snapshots until the
// client disconnects.
func ServeWS(f *Feed) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		collection := ps.ByName("collection")
		if !collections[collection] {
			http.Error(w, "Unknown collection", http.StatusNotFound)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Println("upgrade:", err)
			return
		}
		client := &Client{
			Conn:       conn,
			Send:       make(chan []byte, 8),
			Collection: collection,
		}

		// current snapshot first, then live updates
		if data, ok := f.lastSnapshot(collection); ok {
			client.Send <- data
		}

		select {
		case f.hub.register <- client:
		case <-f.hub.quit:
			conn.Close()
			return
		}
		go writePump(client)
		go readPump(client, f.hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}

func readPump(c *Client, hub *Hub) {
	defer func() {
		select {
		case hub.unregister <- c:
		case <-hub.quit:
		}
		c.Conn.Close()
	}()

	// clients don't send anything meaningful; this just detects close
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
