package services

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"

	"inkwell-notes/inkwell/broker"
	"inkwell-notes/inkwell/config"
)

type NotifierServiceInterface interface {
	Start(cfg config.Config)
	Stop()
	HandleConnection(c *gin.Context)
}

// NotifierService pushes note, label and category events to connected
// websocket clients. Each owner only ever receives their own events.
type NotifierService struct {
	clients    map[*notifierClient]bool
	register   chan *notifierClient
	unregister chan *notifierClient
	upgrader   websocket.Upgrader
	consumer   *broker.Consumer
	stopChan   chan struct{}
	isRunning  bool
}

type notifierClient struct {
	userID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte
}

func NewNotifierService() NotifierServiceInterface {
	return &NotifierService{
		clients:    make(map[*notifierClient]bool),
		register:   make(chan *notifierClient),
		unregister: make(chan *notifierClient),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		stopChan: make(chan struct{}),
	}
}

var NotifierServiceInstance NotifierServiceInterface

func (ns *NotifierService) Start(cfg config.Config) {
	if ns.isRunning {
		return
	}
	ns.isRunning = true

	subjects := []string{broker.NoteSubject, broker.LabelSubject, broker.CategorySubject}
	consumer, err := broker.InitConsumer(cfg, subjects, "notifier")
	if err != nil {
		// The hub still serves connections; clients just receive no events
		// until the broker comes back.
		log.Printf("Warning: failed to initialize notifier consumer: %v", err)
	} else {
		ns.consumer = consumer
	}

	go ns.run()
	log.Println("Notifier service started")
}

func (ns *NotifierService) Stop() {
	if !ns.isRunning {
		return
	}
	ns.isRunning = false
	close(ns.stopChan)
	if ns.consumer != nil {
		ns.consumer.Close()
	}
}

func (ns *NotifierService) run() {
	var messages chan *nats.Msg
	if ns.consumer != nil {
		messages = ns.consumer.GetMessageChannel()
	}

	for {
		select {
		case client := <-ns.register:
			ns.clients[client] = true
		case client := <-ns.unregister:
			if ns.clients[client] {
				delete(ns.clients, client)
				close(client.send)
			}
		case msg := <-messages:
			ns.handleBrokerMessage(msg)
		case <-ns.stopChan:
			for client := range ns.clients {
				close(client.send)
			}
			return
		}
	}
}

// handleBrokerMessage routes an event to the sockets of its owner.
func (ns *NotifierService) handleBrokerMessage(msg *nats.Msg) {
	var envelope struct {
		Payload struct {
			UserID string `json:"user_id"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(msg.Data, &envelope); err != nil {
		log.Printf("Failed to parse broker message on %s: %v", msg.Subject, err)
		return
	}

	ownerID, err := uuid.Parse(envelope.Payload.UserID)
	if err != nil {
		return
	}

	for client := range ns.clients {
		if client.userID != ownerID {
			continue
		}
		select {
		case client.send <- msg.Data:
		default:
			// Slow consumer, drop the connection rather than block the hub.
			delete(ns.clients, client)
			close(client.send)
		}
	}
}

func (ns *NotifierService) HandleConnection(c *gin.Context) {
	userIDValue, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	userID, ok := userIDValue.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return
	}

	conn, err := ns.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("Failed to upgrade websocket connection: %v", err)
		return
	}

	client := &notifierClient{
		userID: userID,
		conn:   conn,
		send:   make(chan []byte, 64),
	}
	ns.register <- client

	go client.writePump()
	go client.readPump(ns)
}

func (c *notifierClient) readPump(ns *NotifierService) {
	defer func() {
		ns.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	for {
		// Clients only listen; the read loop exists to notice the close.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *notifierClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
