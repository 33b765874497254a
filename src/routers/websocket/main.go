package websocket

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kerberos-io/translator/src/log"
	"github.com/kerberos-io/translator/src/models"
)

type Message struct {
	ClientID    string            `json:"client_id" bson:"client_id"`
	MessageType string            `json:"message_type" bson:"message_type"`
	Message     map[string]string `json:"message" bson:"message"`
}

type Connection struct {
	Socket *websocket.Conn
	mu     sync.Mutex
}

// Concurrency handling - sending messages
func (c *Connection) WriteJson(message interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Socket.WriteJSON(message)
}

// Hub keeps track of the connected clients and forwards every plugin event
// to all of them.
type Hub struct {
	mu      sync.RWMutex
	sockets map[string]*Connection
}

func NewHub() *Hub {
	return &Hub{
		sockets: make(map[string]*Connection),
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sockets)
}

// Broadcast sends the event to every client; clients that fail to receive
// it are disconnected.
func (h *Hub) Broadcast(event models.Event) {
	h.mu.RLock()
	connections := make(map[string]*Connection, len(h.sockets))
	for clientID, connection := range h.sockets {
		connections[clientID] = connection
	}
	h.mu.RUnlock()

	for clientID, connection := range connections {
		if err := connection.WriteJson(event); err != nil {
			log.Log.Warning("routers.websocket.main.Broadcast(): " + clientID + ": " + err.Error())
			h.remove(clientID, connection)
			connection.Socket.Close()
		}
	}
}

func (h *Hub) remove(clientID string, connection *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sockets[clientID] == connection {
		delete(h.sockets, clientID)
	}
}

// WebsocketHandler upgrades the request. A client announces itself with a
// "hello" message carrying its client_id and receives events until it
// disconnects.
func (h *Hub) WebsocketHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Log.Error("routers.websocket.main.WebsocketHandler(): " + err.Error())
		return
	}
	defer conn.Close()

	var message Message
	if err := conn.ReadJSON(&message); err != nil {
		return
	}
	clientID := message.ClientID
	if clientID == "" {
		clientID = conn.RemoteAddr().String()
	}
	connection := &Connection{Socket: conn}

	h.mu.Lock()
	h.sockets[clientID] = connection
	h.mu.Unlock()
	log.Log.Info("routers.websocket.main.WebsocketHandler(): " + clientID + ": connected.")

	// Continuously read messages
	for {
		if message.MessageType == "hello" {
			connection.WriteJson(Message{
				ClientID:    clientID,
				MessageType: "hello-back",
				Message: map[string]string{
					"message": "Hello " + clientID + "!",
				},
			})
		}
		if err := conn.ReadJSON(&message); err != nil {
			break
		}
	}

	h.remove(clientID, connection)
	log.Log.Info("routers.websocket.main.WebsocketHandler(): " + clientID + ": terminated and disconnected websocket connection.")
}
