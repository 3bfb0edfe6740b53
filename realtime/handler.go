package realtime

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var validTopics = map[string]bool{
	"stock":  true,
	"orders": true,
}

// Subscribe upgrades the connection and streams events for one topic until
// the client goes away.
func Subscribe(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		topic := ps.ByName("topic")
		if !validTopics[topic] {
			http.Error(w, "Unknown topic", http.StatusBadRequest)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("realtime: upgrade error: %v", err)
			return
		}

		client := &Client{
			Conn:  conn,
			Send:  make(chan []byte, 256),
			Topic: topic,
		}
		hub.Register(client)

		go writePump(client)
		go readPump(client, hub)
	}
}

func writePump(c *Client) {
	defer c.Conn.Close()
	for msg := range c.Send {
		if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			return
		}
	}
}

// readPump discards inbound frames; its job is to notice the disconnect.
func readPump(c *Client, hub *Hub) {
	defer hub.Unregister(c)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}
