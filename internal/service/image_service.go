package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/marketzone/marketzone-backend/internal/common"
)

const maxImageSizeBytes = 5 * 1024 * 1024 // 5 MB

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var allowedImageMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ObjectUploader is the storage backend for image uploads
type ObjectUploader interface {
	Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
}

// ImageService validates and stores chat image attachments
type ImageService interface {
	UploadChatImage(ctx context.Context, body io.Reader, filename, contentType string, size int64) (string, error)
}

type imageService struct {
	store ObjectUploader
}

// NewImageService creates a new ImageService
func NewImageService(store ObjectUploader) ImageService {
	return &imageService{store: store}
}

// UploadChatImage validates the image and stores it under the chat/ prefix,
// returning a stable public URL
func (s *imageService) UploadChatImage(ctx context.Context, body io.Reader, filename, contentType string, size int64) (string, error) {
	if body == nil || size == 0 {
		return "", fmt.Errorf("%w: image is empty", common.ErrInvalidImage)
	}
	if size > maxImageSizeBytes {
		return "", fmt.Errorf("%w: image size exceeds limit", common.ErrInvalidImage)
	}

	ext := strings.ToLower(path.Ext(filename))
	if !allowedImageExtensions[ext] {
		return "", fmt.Errorf("%w: invalid image extension", common.ErrInvalidImage)
	}
	if !allowedImageMIMETypes[contentType] {
		return "", fmt.Errorf("%w: invalid image MIME type", common.ErrInvalidImage)
	}

	key := fmt.Sprintf("chat/%s%s", uuid.New().String(), ext)

	url, err := s.store.Upload(ctx, key, body, contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %v", common.ErrImageUpload, err)
	}

	return url, nil
}
