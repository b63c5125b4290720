package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/marketzone/marketzone-backend/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockObjectUploader struct {
	mock.Mock
}

func (m *mockObjectUploader) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}

func TestUploadChatImage_Valid(t *testing.T) {
	store := new(mockObjectUploader)
	store.On("Upload", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "chat/") && strings.HasSuffix(key, ".jpg")
	}), mock.Anything, "image/jpeg").Return("https://cdn.example.com/chat/x.jpg", nil)

	svc := NewImageService(store)

	url, err := svc.UploadChatImage(context.Background(), strings.NewReader("fake-bytes"), "photo.JPG", "image/jpeg", 1024)
	assert.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/chat/x.jpg", url)

	store.AssertExpectations(t)
}

func TestUploadChatImage_Validation(t *testing.T) {
	store := new(mockObjectUploader)
	svc := NewImageService(store)
	ctx := context.Background()

	cases := []struct {
		name        string
		body        io.Reader
		filename    string
		contentType string
		size        int64
	}{
		{"empty body", nil, "a.jpg", "image/jpeg", 0},
		{"zero size", strings.NewReader(""), "a.jpg", "image/jpeg", 0},
		{"too large", strings.NewReader("x"), "a.jpg", "image/jpeg", maxImageSizeBytes + 1},
		{"bad extension", strings.NewReader("x"), "a.gif", "image/jpeg", 10},
		{"no extension", strings.NewReader("x"), "a", "image/jpeg", 10},
		{"bad mime", strings.NewReader("x"), "a.png", "image/gif", 10},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.UploadChatImage(ctx, tc.body, tc.filename, tc.contentType, tc.size)
			assert.ErrorIs(t, err, common.ErrInvalidImage)
		})
	}

	store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUploadChatImage_StoreFailure(t *testing.T) {
	store := new(mockObjectUploader)
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("connection reset"))

	svc := NewImageService(store)

	_, err := svc.UploadChatImage(context.Background(), strings.NewReader("x"), "a.webp", "image/webp", 10)
	assert.ErrorIs(t, err, common.ErrImageUpload)
}
