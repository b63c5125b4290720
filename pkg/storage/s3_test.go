package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicURL_PreservesPathSeparators(t *testing.T) {
	c := &S3Client{bucket: "marketzone-uploads", cdnURL: "https://cdn.marketzone.app"}

	url := c.PublicURL("uploads/chat/abc-123.jpg")
	assert.Equal(t, "https://cdn.marketzone.app/uploads/chat/abc-123.jpg", url)
	assert.NotContains(t, url, "%2F")
}

func TestPublicURL_EscapesSegmentContents(t *testing.T) {
	c := &S3Client{bucket: "marketzone-uploads", cdnURL: "https://cdn.marketzone.app"}

	url := c.PublicURL("uploads/chat/my photo.jpg")
	assert.Equal(t, "https://cdn.marketzone.app/uploads/chat/my%20photo.jpg", url)
}

func TestPublicURL_FallsBackToS3(t *testing.T) {
	c := &S3Client{bucket: "marketzone-uploads"}

	url := c.PublicURL("uploads/chat/abc-123.jpg")
	assert.Equal(t, "https://marketzone-uploads.s3.amazonaws.com/uploads/chat/abc-123.jpg", url)
}
