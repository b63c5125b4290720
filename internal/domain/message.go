package domain

import "time"

// Message represents a single chat message between an ad's seller and a buyer
type Message struct {
	SentOn     time.Time      `gorm:"column:sent_on;index:idx_messages_pair,priority:4" json:"sent_on"`
	SenderID   string         `gorm:"column:sender_id;size:64;index:idx_messages_pair,priority:2" json:"sender_id"`
	ReceiverID string         `gorm:"column:receiver_id;size:64;index:idx_messages_pair,priority:3" json:"receiver_id"`
	Content    string         `gorm:"column:content;type:text" json:"content"`
	Images     []MessageImage `gorm:"foreignKey:MessageID" json:"images"`
	ID         int            `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AdID       int            `gorm:"column:ad_id;index:idx_messages_pair,priority:1" json:"ad_id"`
}

func (Message) TableName() string {
	return "messages"
}

// ImageURLs returns the attachment URLs in the order they were sent
func (m *Message) ImageURLs() []string {
	urls := make([]string, len(m.Images))
	for i, img := range m.Images {
		urls[i] = img.ImageURL
	}
	return urls
}

// MessageImage is a single image attachment, created atomically with its
// parent message and immutable afterwards
type MessageImage struct {
	ImageURL  string `gorm:"column:image_url;size:500" json:"image_url"`
	ID        int    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	MessageID int    `gorm:"column:message_id;index" json:"message_id"`
}

func (MessageImage) TableName() string {
	return "message_images"
}

// ChatMessageView is a transcript entry with resolved sender display attributes
type ChatMessageView struct {
	SentOn       time.Time `json:"sent_on"`
	SenderID     string    `json:"sender_id"`
	SenderName   string    `json:"sender_name"`
	SenderAvatar string    `json:"sender_avatar_url"`
	Content      string    `json:"content"`
	ImageURLs    []string  `json:"image_urls"`
}

// ChatView is the full state a client needs to render one conversation
type ChatView struct {
	ChatID          string            `json:"chat_id"`
	AdTitle         string            `json:"ad_title"`
	AdImageURL      string            `json:"ad_image_url"`
	CurrentUserID   string            `json:"current_user_id"`
	OtherUserID     string            `json:"other_user_id"`
	OtherUserName   string            `json:"other_user_name"`
	OtherUserAvatar string            `json:"other_user_avatar_url"`
	Messages        []ChatMessageView `json:"messages"`
	AdID            int               `json:"ad_id"`
}

// ChatEvent is the payload broadcast to room members after a message persists
type ChatEvent struct {
	SenderID  string   `json:"sender_id"`
	Content   string   `json:"content"`
	ImageURLs []string `json:"image_urls"`
	SentOn    string   `json:"sent_on"` // RFC 3339 UTC
}
