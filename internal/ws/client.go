package ws

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/marketzone/marketzone-backend/internal/common"
	"github.com/marketzone/marketzone-backend/internal/domain"
	"github.com/marketzone/marketzone-backend/internal/service"
	pkglogger "github.com/marketzone/marketzone-backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8192
)

// Client represents a single WebSocket connection
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
	chats  service.ChatService
}

// NewClient creates a new WebSocket client
func NewClient(hub *Hub, conn *websocket.Conn, userID string, chats service.ChatService) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, 256),
		userID: userID,
		chats:  chats,
	}
}

// inboundEvent is a client-to-server frame
type inboundEvent struct {
	Type       string   `json:"type"` // "join", "send"
	ChatID     string   `json:"chat_id"`
	ReceiverID string   `json:"receiver_id"`
	Content    string   `json:"content"`
	ImageURLs  []string `json:"image_urls"`
	AdID       int      `json:"ad_id"`
}

// ReadPump reads frames from the WebSocket and dispatches them
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var ev inboundEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			c.sendError("BAD_REQUEST", "malformed event")
			continue
		}

		switch ev.Type {
		case "join":
			c.hub.Join(c, ev.ChatID)
		case "send":
			c.handleSend(&ev)
		default:
			c.sendError("BAD_REQUEST", "unknown event type")
		}
	}
}

// handleSend persists the message, then broadcasts it to the room.
// The broadcast payload is built from the persisted row, so every room
// member (the sender's own connections included) receives the
// authoritative echo.
func (c *Client) handleSend(ev *inboundEvent) {
	// Empty submit guard: silent no-op, not an error
	if strings.TrimSpace(ev.Content) == "" && len(ev.ImageURLs) == 0 {
		return
	}

	msg, err := c.chats.SaveMessage(ev.AdID, c.userID, ev.ReceiverID, ev.Content, ev.ImageURLs)
	if err != nil {
		// Validation failures go back to the initiating connection only;
		// nothing is broadcast
		c.sendError(errorCode(err), err.Error())
		return
	}

	c.hub.BroadcastTo(ev.ChatID, &Event{
		Type:   "receive_message",
		ChatID: ev.ChatID,
		Payload: domain.ChatEvent{
			SenderID:  msg.SenderID,
			Content:   msg.Content,
			ImageURLs: msg.ImageURLs(),
			SentOn:    msg.SentOn.UTC().Format(time.RFC3339Nano),
		},
	})
}

// sendError delivers an error frame to this connection only
func (c *Client) sendError(code, message string) {
	data, err := json.Marshal(&Event{
		Type:    "error",
		Payload: common.ErrorInfo{Code: code, Message: message},
	})
	if err != nil {
		return
	}

	select {
	case c.send <- data:
	default:
		l := pkglogger.WithUserID(c.userID)
		l.Warn().Msg("dropping error frame for slow client")
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, common.ErrAdNotFound):
		return "AD_NOT_FOUND"
	case errors.Is(err, common.ErrInvalidParticipants):
		return "INVALID_PARTICIPANTS"
	case errors.Is(err, common.ErrEmptyMessage):
		return "EMPTY_MESSAGE"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}

// WritePump sends frames to the WebSocket
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message) //nolint:errcheck
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
