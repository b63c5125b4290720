package repository

import (
	"testing"
	"time"

	"github.com/marketzone/marketzone-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.Message{}, &domain.MessageImage{}, &domain.Ad{}, &domain.AdImage{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func TestFindBetween_OrdersBySentOnThenID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	// Insert out of chronological order; two rows share a timestamp so the
	// generated id has to break the tie
	rows := []*domain.Message{
		{AdID: 42, SenderID: "b1", ReceiverID: "seller", Content: "third", SentOn: base.Add(2 * time.Minute)},
		{AdID: 42, SenderID: "seller", ReceiverID: "b1", Content: "first", SentOn: base},
		{AdID: 42, SenderID: "b1", ReceiverID: "seller", Content: "second-a", SentOn: base.Add(time.Minute)},
		{AdID: 42, SenderID: "seller", ReceiverID: "b1", Content: "second-b", SentOn: base.Add(time.Minute)},
	}
	for _, m := range rows {
		assert.NoError(t, repo.Save(m))
	}

	messages, err := repo.FindBetween(42, "seller", "b1")
	assert.NoError(t, err)
	assert.Len(t, messages, 4)

	contents := make([]string, len(messages))
	for i, m := range messages {
		contents[i] = m.Content
	}
	assert.Equal(t, []string{"first", "second-a", "second-b", "third"}, contents)

	// Same-timestamp rows come back in persistence order
	assert.True(t, messages[1].ID < messages[2].ID)
}

func TestFindBetween_MatchesPairInEitherDirection(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)

	now := time.Now().UTC()
	assert.NoError(t, repo.Save(&domain.Message{AdID: 42, SenderID: "b1", ReceiverID: "seller", Content: "hi", SentOn: now}))
	assert.NoError(t, repo.Save(&domain.Message{AdID: 42, SenderID: "b2", ReceiverID: "seller", Content: "other buyer", SentOn: now}))

	forward, err := repo.FindBetween(42, "seller", "b1")
	assert.NoError(t, err)
	reversed, err := repo.FindBetween(42, "b1", "seller")
	assert.NoError(t, err)

	assert.Len(t, forward, 1)
	assert.Len(t, reversed, 1)
	assert.Equal(t, forward[0].ID, reversed[0].ID)
}

func TestSave_PersistsImagesAtomically(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)

	msg := &domain.Message{
		AdID:       42,
		SenderID:   "b1",
		ReceiverID: "seller",
		SentOn:     time.Now().UTC(),
		Images: []domain.MessageImage{
			{ImageURL: "/uploads/chat/a.jpg"},
			{ImageURL: "/uploads/chat/b.jpg"},
			{ImageURL: "/uploads/chat/c.jpg"},
		},
	}
	assert.NoError(t, repo.Save(msg))

	messages, err := repo.FindBetween(42, "b1", "seller")
	assert.NoError(t, err)
	assert.Len(t, messages, 1)
	assert.Equal(t, []string{"/uploads/chat/a.jpg", "/uploads/chat/b.jpg", "/uploads/chat/c.jpg"},
		messages[0].ImageURLs())
}

func TestSave_RollsBackMessageWhenImageInsertFails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)

	// Sabotage the image table so the second write in the transaction fails
	assert.NoError(t, db.Migrator().DropTable(&domain.MessageImage{}))

	msg := &domain.Message{
		AdID:       42,
		SenderID:   "b1",
		ReceiverID: "seller",
		Content:    "with attachment",
		SentOn:     time.Now().UTC(),
		Images:     []domain.MessageImage{{ImageURL: "/uploads/chat/a.jpg"}},
	}
	assert.Error(t, repo.Save(msg))

	// All-or-nothing: the message row must not be visible either
	var count int64
	assert.NoError(t, db.Model(&domain.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestFindConversationHeads_FiltersByMode(t *testing.T) {
	db := setupTestDB(t)
	repo := NewMessageRepository(db)

	assert.NoError(t, db.Create(&domain.Ad{ID: 42, UserID: "seller", Title: "Mountain bike"}).Error)
	assert.NoError(t, db.Create(&domain.Ad{ID: 43, UserID: "b1", Title: "Old phone"}).Error)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	// b1 buys on ad 42 and sells on ad 43
	assert.NoError(t, repo.Save(&domain.Message{AdID: 42, SenderID: "b1", ReceiverID: "seller", Content: "buying", SentOn: base}))
	assert.NoError(t, repo.Save(&domain.Message{AdID: 43, SenderID: "seller", ReceiverID: "b1", Content: "selling", SentOn: base.Add(time.Minute)}))

	buying, err := repo.FindConversationHeads("b1", domain.InboxModeBuying)
	assert.NoError(t, err)
	assert.Len(t, buying, 1)
	assert.Equal(t, "buying", buying[0].Content)

	selling, err := repo.FindConversationHeads("b1", domain.InboxModeSelling)
	assert.NoError(t, err)
	assert.Len(t, selling, 1)
	assert.Equal(t, "selling", selling[0].Content)
}
