package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/marketzone/marketzone-backend/internal/common"
	"github.com/marketzone/marketzone-backend/internal/domain"
	"github.com/marketzone/marketzone-backend/internal/repository"
)

// ChatService business logic for ad conversations
type ChatService interface {
	// DeriveChatID returns the stable conversation identifier for an ad and
	// a participant pair. Symmetric in the two participants: the seller and
	// a given buyer always converge on the same id, distinct buyers never do.
	DeriveChatID(adID int, currentUserID, otherUserID string) (string, error)
	SaveMessage(adID int, senderID, receiverID, content string, imageURLs []string) (*domain.Message, error)
	GetChat(adID int, currentUserID, otherUserID string) (*domain.ChatView, error)
	GetInbox(userID string, mode domain.InboxMode) (*domain.InboxView, error)
}

type chatService struct {
	messageRepo repository.MessageRepository
	adRepo      repository.AdRepository
	userRepo    repository.UserRepository
}

// NewChatService creates a new ChatService
func NewChatService(messageRepo repository.MessageRepository, adRepo repository.AdRepository, userRepo repository.UserRepository) ChatService {
	return &chatService{
		messageRepo: messageRepo,
		adRepo:      adRepo,
		userRepo:    userRepo,
	}
}

// validateParticipants enforces the seller/buyer invariant: both ids
// non-empty and distinct, exactly one of them the ad's owner.
// Returns the buyer's id (whichever participant is not the owner).
func validateParticipants(ad *domain.Ad, userA, userB string) (string, error) {
	if strings.TrimSpace(userA) == "" || strings.TrimSpace(userB) == "" {
		return "", common.ErrInvalidParticipants
	}
	if userA == userB {
		return "", common.ErrInvalidParticipants
	}

	aIsSeller := ad.UserID == userA
	bIsSeller := ad.UserID == userB
	if aIsSeller == bIsSeller {
		return "", common.ErrInvalidParticipants
	}

	if aIsSeller {
		return userB, nil
	}
	return userA, nil
}

// DeriveChatID resolves the conversation key "ad_{adID}_u_{buyerID}"
func (s *chatService) DeriveChatID(adID int, currentUserID, otherUserID string) (string, error) {
	ad, err := s.adRepo.FindByID(adID)
	if err != nil {
		return "", err
	}

	buyerID, err := validateParticipants(ad, currentUserID, otherUserID)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("ad_%d_u_%s", adID, buyerID), nil
}

// SaveMessage validates and persists a message with its image attachments.
// SentOn is server-assigned at persistence time.
func (s *chatService) SaveMessage(adID int, senderID, receiverID, content string, imageURLs []string) (*domain.Message, error) {
	ad, err := s.adRepo.FindByID(adID)
	if err != nil {
		return nil, err
	}

	if _, err := validateParticipants(ad, senderID, receiverID); err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" && len(imageURLs) == 0 {
		return nil, common.ErrEmptyMessage
	}

	images := make([]domain.MessageImage, len(imageURLs))
	for i, url := range imageURLs {
		images[i] = domain.MessageImage{ImageURL: url}
	}

	msg := &domain.Message{
		AdID:       adID,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    content,
		SentOn:     time.Now().UTC(),
		Images:     images,
	}

	if err := s.messageRepo.Save(msg); err != nil {
		return nil, err
	}

	return msg, nil
}

// GetChat resolves the conversation and its full transcript for rendering
func (s *chatService) GetChat(adID int, currentUserID, otherUserID string) (*domain.ChatView, error) {
	ad, err := s.adRepo.FindByID(adID)
	if err != nil {
		return nil, err
	}

	buyerID, err := validateParticipants(ad, currentUserID, otherUserID)
	if err != nil {
		return nil, err
	}

	otherUser, err := s.userRepo.FindByID(otherUserID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindBetween(adID, currentUserID, otherUserID)
	if err != nil {
		return nil, err
	}

	// Only two senders are possible in a conversation
	senders := map[string]*domain.User{otherUser.ID: otherUser}

	transcript := make([]domain.ChatMessageView, 0, len(messages))
	for _, m := range messages {
		sender, ok := senders[m.SenderID]
		if !ok {
			sender, err = s.userRepo.FindByID(m.SenderID)
			if err != nil {
				return nil, err
			}
			senders[m.SenderID] = sender
		}

		transcript = append(transcript, domain.ChatMessageView{
			SenderID:     m.SenderID,
			SenderName:   sender.Nickname,
			SenderAvatar: avatarOrDefault(sender.AvatarURL),
			Content:      m.Content,
			ImageURLs:    m.ImageURLs(),
			SentOn:       m.SentOn,
		})
	}

	adImage := ad.PreviewImageURL()
	if adImage == "" {
		adImage = common.NoImageURL
	}

	return &domain.ChatView{
		ChatID:          fmt.Sprintf("ad_%d_u_%s", adID, buyerID),
		AdID:            adID,
		AdTitle:         ad.Title,
		AdImageURL:      adImage,
		CurrentUserID:   currentUserID,
		OtherUserID:     otherUser.ID,
		OtherUserName:   otherUser.Nickname,
		OtherUserAvatar: avatarOrDefault(otherUser.AvatarURL),
		Messages:        transcript,
	}, nil
}

type conversationKey struct {
	adID        int
	otherUserID string
}

// GetInbox returns one entry per (ad, counterparty) pair holding that pair's
// most recent message, ordered by recency. Not transactionally consistent
// with concurrent sends; a send committing mid-query may or may not appear.
func (s *chatService) GetInbox(userID string, mode domain.InboxMode) (*domain.InboxView, error) {
	heads, err := s.messageRepo.FindConversationHeads(userID, mode)
	if err != nil {
		return nil, err
	}

	// Heads arrive newest first, so the first message seen for a key is
	// that conversation's latest
	seen := make(map[conversationKey]bool)
	adCache := make(map[int]*domain.Ad)
	userCache := make(map[string]*domain.User)

	entries := make([]domain.InboxEntry, 0, len(heads))
	for _, m := range heads {
		otherID := m.SenderID
		if m.SenderID == userID {
			otherID = m.ReceiverID
		}

		key := conversationKey{adID: m.AdID, otherUserID: otherID}
		if seen[key] {
			continue
		}
		seen[key] = true

		ad, ok := adCache[m.AdID]
		if !ok {
			ad, err = s.adRepo.FindByID(m.AdID)
			if err != nil {
				return nil, err
			}
			adCache[m.AdID] = ad
		}

		entries = append(entries, domain.InboxEntry{
			AdID:            m.AdID,
			AdTitle:         ad.Title,
			OtherUserID:     otherID,
			OtherUserName:   s.displayName(userCache, otherID),
			OtherUserAvatar: s.displayAvatar(userCache, otherID),
			LastMessage:     m.Content,
			LastMessageTime: m.SentOn,
		})
	}

	return &domain.InboxView{
		Mode:  mode.String(),
		Chats: entries,
	}, nil
}

func (s *chatService) lookupUser(cache map[string]*domain.User, userID string) *domain.User {
	if u, ok := cache[userID]; ok {
		return u
	}
	u, err := s.userRepo.FindByID(userID)
	if err != nil {
		// Counterparty account may be gone; keep the inbox row readable
		u = &domain.User{ID: userID, Nickname: "Unknown user"}
	}
	cache[userID] = u
	return u
}

func (s *chatService) displayName(cache map[string]*domain.User, userID string) string {
	return s.lookupUser(cache, userID).Nickname
}

func (s *chatService) displayAvatar(cache map[string]*domain.User, userID string) string {
	return avatarOrDefault(s.lookupUser(cache, userID).AvatarURL)
}

func avatarOrDefault(url string) string {
	if strings.TrimSpace(url) == "" {
		return common.DefaultAvatarURL
	}
	return url
}
