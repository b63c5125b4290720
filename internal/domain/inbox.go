package domain

import (
	"strings"
	"time"
)

// InboxMode selects which side of the marketplace an inbox shows
type InboxMode int

const (
	// InboxModeBuying lists conversations on ads the user does not own
	InboxModeBuying InboxMode = iota
	// InboxModeSelling lists conversations on ads the user owns
	InboxModeSelling
)

// ParseInboxMode parses the mode query parameter; anything other than
// "selling" falls back to buying
func ParseInboxMode(s string) InboxMode {
	if strings.EqualFold(strings.TrimSpace(s), "selling") {
		return InboxModeSelling
	}
	return InboxModeBuying
}

func (m InboxMode) String() string {
	if m == InboxModeSelling {
		return "selling"
	}
	return "buying"
}

// InboxEntry summarizes one conversation: the latest message exchanged
// with a single counterparty about a single ad
type InboxEntry struct {
	LastMessageTime time.Time `json:"last_message_time"`
	AdTitle         string    `json:"ad_title"`
	OtherUserID     string    `json:"other_user_id"`
	OtherUserName   string    `json:"other_user_name"`
	OtherUserAvatar string    `json:"other_user_avatar_url"`
	LastMessage     string    `json:"last_message"`
	AdID            int       `json:"ad_id"`
}

// InboxView is the full inbox for one user and mode, most recent first
type InboxView struct {
	Mode  string       `json:"mode"`
	Chats []InboxEntry `json:"chats"`
}
