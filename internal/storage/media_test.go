package storage

import (
	"context"
	"net/url"
	"regexp"
	"strings"
	"testing"
	"time"

	"chronogift/internal/config"
	"chronogift/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func minioConfig() *config.Config {
	return &config.Config{
		S3Endpoint:     "http://127.0.0.1:9000",
		S3Region:       "us-east-1",
		S3Bucket:       "chronogift",
		S3AccessKey:    "minioadmin",
		S3SecretKey:    "minioadmin",
		S3UsePathStyle: true,
	}
}

func TestMediaStore_PresignUpload(t *testing.T) {
	store, err := NewMediaStore(context.Background(), minioConfig())
	require.NoError(t, err)
	require.True(t, store.Enabled())
	store.now = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }

	up, err := store.PresignUpload(context.Background(), 7, KindImage, "image/png")
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^gifts/7/2026/03/09/[0-9a-f-]{36}$`), up.Key)
	assert.Equal(t, "PUT", up.Method)
	assert.Equal(t, "http://127.0.0.1:9000/chronogift/"+up.Key, up.PublicURL)
	assert.Equal(t, time.Date(2026, 3, 9, 12, 15, 0, 0, time.UTC), up.ExpiresAt)

	u, err := url.Parse(up.UploadURL)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/chronogift/gifts/7/"))
	assert.Equal(t, "900", u.Query().Get("X-Amz-Expires"))
}

func TestMediaStore_RejectsMismatchedType(t *testing.T) {
	store, err := NewMediaStore(context.Background(), minioConfig())
	require.NoError(t, err)

	tests := []struct {
		kind, contentType string
	}{
		{KindImage, "video/mp4"},
		{KindVideo, "image/jpeg"},
		{"audio", "audio/mpeg"},
	}
	for _, tt := range tests {
		_, err := store.PresignUpload(context.Background(), 1, tt.kind, tt.contentType)
		assert.True(t, models.HasCode(err, models.CodeValidation), "%s %s", tt.kind, tt.contentType)
	}
}

func TestMediaStore_Disabled(t *testing.T) {
	store, err := NewMediaStore(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.False(t, store.Enabled())

	_, err = store.PresignUpload(context.Background(), 1, KindImage, "image/png")
	assert.True(t, models.HasCode(err, models.CodeUnavailable))

	var nilStore *MediaStore
	_, err = nilStore.PresignUpload(context.Background(), 1, KindImage, "image/png")
	assert.True(t, models.HasCode(err, models.CodeUnavailable))
}

func TestPublicBaseURL(t *testing.T) {
	cfg := &config.Config{S3Bucket: "b", S3Region: "eu-west-1"}
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", publicBaseURL(cfg))

	cfg.S3PublicBaseURL = "https://cdn.example.com/"
	assert.Equal(t, "https://cdn.example.com", publicBaseURL(cfg))
}
