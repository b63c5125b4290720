package repository

import (
	"github.com/marketzone/marketzone-backend/internal/domain"
	"gorm.io/gorm"
)

// MessageRepository message data access interface
type MessageRepository interface {
	Save(msg *domain.Message) error
	FindBetween(adID int, userA, userB string) ([]*domain.Message, error)
	FindConversationHeads(userID string, mode domain.InboxMode) ([]*domain.Message, error)
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Save persists a message and its image attachments in a single transaction.
// A reader never sees the message with a partial image set.
func (r *messageRepository) Save(msg *domain.Message) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		images := msg.Images
		msg.Images = nil

		if err := tx.Create(msg).Error; err != nil {
			msg.Images = images
			return err
		}

		for i := range images {
			images[i].MessageID = msg.ID
			if err := tx.Create(&images[i]).Error; err != nil {
				msg.Images = images
				return err
			}
		}

		msg.Images = images
		return nil
	})
}

// FindBetween returns the full transcript for a participant pair on an ad,
// matched in either direction, oldest first (id breaks same-timestamp ties)
func (r *messageRepository) FindBetween(adID int, userA, userB string) ([]*domain.Message, error) {
	var messages []*domain.Message
	err := r.db.
		Where("ad_id = ? AND ((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))",
			adID, userA, userB, userB, userA).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("message_images.id ASC")
		}).
		Order("sent_on ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

// FindConversationHeads returns every message the user participates in,
// filtered by ad ownership per mode, newest first. The caller keeps the
// first row it sees per (ad, counterparty) pair to get the latest message
// of each conversation.
func (r *messageRepository) FindConversationHeads(userID string, mode domain.InboxMode) ([]*domain.Message, error) {
	query := r.db.Model(&domain.Message{}).
		Joins("JOIN ads ON ads.id = messages.ad_id").
		Where("messages.sender_id = ? OR messages.receiver_id = ?", userID, userID)

	if mode == domain.InboxModeSelling {
		query = query.Where("ads.user_id = ?", userID)
	} else {
		query = query.Where("ads.user_id <> ?", userID)
	}

	var messages []*domain.Message
	err := query.
		Order("messages.sent_on DESC, messages.id DESC").
		Find(&messages).Error
	return messages, err
}
