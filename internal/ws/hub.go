package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "chat"

// Event is a frame sent to WebSocket clients
type Event struct {
	Type    string      `json:"type"` // "receive_message", "error"
	ChatID  string      `json:"chat_id,omitempty"`
	Payload interface{} `json:"payload"`
}

// RoomRegistry is the room membership and fan-out contract. The in-process
// Hub implements it; a distributed backplane can replace it without
// touching the send path.
type RoomRegistry interface {
	Join(client *Client, chatID string)
	BroadcastTo(chatID string, event *Event)
}

// Hub manages WebSocket clients and per-conversation rooms
type Hub struct {
	// All registered connections
	clients map[*Client]bool

	// Registered clients grouped by conversation id
	rooms map[string]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	// Room membership requests
	join chan *joinRequest

	// Broadcast to a room
	broadcast chan *roomEvent

	mu          sync.RWMutex
	redisClient *redis.Client
	instanceID  string
	ctx         context.Context
	cancel      context.CancelFunc
}

type joinRequest struct {
	client *Client
	chatID string
}

type roomEvent struct {
	ChatID string
	Event  *Event
}

// NewHub creates a new Hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[*Client]bool),
		rooms:       make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		join:        make(chan *joinRequest, 64),
		broadcast:   make(chan *roomEvent, 256),
		redisClient: redisClient,
		instanceID:  uuid.New().String(),
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister removes a client. Safe to call after Stop: once the run loop
// has exited nobody drains the channel, so give up instead of blocking the
// caller's goroutine forever.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.ctx.Done():
	}
}

// Join adds a client to a conversation room. Membership is advisory for
// fan-out; the authoritative participant check happens at send time.
func (h *Hub) Join(client *Client, chatID string) {
	if chatID == "" {
		return
	}
	h.join <- &joinRequest{client: client, chatID: chatID}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			// Disconnection implicitly leaves every joined room
			for chatID, members := range h.rooms {
				if _, ok := members[client]; ok {
					delete(members, client)
					if len(members) == 0 {
						delete(h.rooms, chatID)
					}
				}
			}
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()

		case req := <-h.join:
			h.mu.Lock()
			if h.rooms[req.chatID] == nil {
				h.rooms[req.chatID] = make(map[*Client]bool)
			}
			h.rooms[req.chatID][req.client] = true
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			if clients, ok := h.rooms[msg.ChatID]; ok {
				data, err := json.Marshal(msg.Event)
				if err == nil {
					for client := range clients {
						select {
						case client.send <- data:
						default:
							// Slow client; drop the frame rather than
							// block the whole room
						}
					}
				}
			}
			h.mu.RUnlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// BroadcastTo sends an event to every connection joined to a room,
// locally and via Redis for clients on other instances
func (h *Hub) BroadcastTo(chatID string, event *Event) {
	// Local broadcast
	h.broadcast <- &roomEvent{ChatID: chatID, Event: event}

	// Publish to Redis for multi-instance support
	if h.redisClient != nil {
		msg := &redisMessage{InstanceID: h.instanceID, ChatID: chatID, Event: event}
		data, err := json.Marshal(msg)
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

type redisMessage struct {
	InstanceID string `json:"instance_id"`
	ChatID     string `json:"chat_id"`
	Event      *Event `json:"event"`
}

// subscribeRedis listens for room broadcasts from other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var rm redisMessage
			if err := json.Unmarshal([]byte(msg.Payload), &rm); err == nil {
				// Skip our own publishes (already delivered locally);
				// only local rebroadcast, never re-publish
				if rm.InstanceID != h.instanceID {
					h.broadcast <- &roomEvent{ChatID: rm.ChatID, Event: rm.Event}
				}
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
