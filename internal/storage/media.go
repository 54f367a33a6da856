// Package storage issues presigned S3 uploads for gift media.
package storage

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"chronogift/internal/config"
	"chronogift/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// UploadExpiry bounds how long a presigned PUT stays valid.
const UploadExpiry = 15 * time.Minute

// Media kinds accepted for upload.
const (
	KindImage = "image"
	KindVideo = "video"
)

// Upload describes a presigned PUT the client performs directly against S3.
type Upload struct {
	Key       string      `json:"key"`
	Method    string      `json:"method"`
	UploadURL string      `json:"upload_url"`
	Headers   http.Header `json:"headers,omitempty"`
	PublicURL string      `json:"public_url"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// MediaStore presigns uploads into the configured bucket. A zero MediaStore
// is valid and reports every request as unavailable.
type MediaStore struct {
	presign    *s3.PresignClient
	bucket     string
	publicBase string
	now        func() time.Time
}

// NewMediaStore builds the presign client from cfg. When S3 is not
// configured it returns a disabled store.
func NewMediaStore(ctx context.Context, cfg *config.Config) (*MediaStore, error) {
	if !cfg.S3Enabled() {
		return &MediaStore{now: time.Now}, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey,
			cfg.S3SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		}
		o.UsePathStyle = cfg.S3UsePathStyle
	})

	return &MediaStore{
		presign:    s3.NewPresignClient(client),
		bucket:     cfg.S3Bucket,
		publicBase: publicBaseURL(cfg),
		now:        time.Now,
	}, nil
}

// Enabled reports whether uploads can be presigned.
func (m *MediaStore) Enabled() bool {
	return m != nil && m.presign != nil
}

// PresignUpload issues a PUT URL for one object under the sender's prefix.
func (m *MediaStore) PresignUpload(ctx context.Context, senderID uint, kind, contentType string) (*Upload, error) {
	if !m.Enabled() {
		return nil, models.NewUnavailableError("Media storage", nil)
	}
	if kind != KindImage && kind != KindVideo {
		return nil, models.NewValidationError("kind must be image or video")
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	if !strings.HasPrefix(contentType, kind+"/") {
		return nil, models.NewValidationError(fmt.Sprintf("content type %q does not match kind %s", contentType, kind))
	}

	now := m.now().UTC()
	key := StorageKey(senderID, now)

	req, err := m.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(UploadExpiry))
	if err != nil {
		return nil, models.NewUnavailableError("Media storage", err)
	}

	return &Upload{
		Key:       key,
		Method:    req.Method,
		UploadURL: req.URL,
		Headers:   req.SignedHeader,
		PublicURL: m.publicBase + "/" + key,
		ExpiresAt: now.Add(UploadExpiry),
	}, nil
}

// StorageKey returns gifts/<sender>/<yyyy>/<mm>/<dd>/<uuid>.
func StorageKey(senderID uint, at time.Time) string {
	return fmt.Sprintf("gifts/%d/%04d/%02d/%02d/%s", senderID, at.Year(), at.Month(), at.Day(), uuid.NewString())
}

func publicBaseURL(cfg *config.Config) string {
	if cfg.S3PublicBaseURL != "" {
		return strings.TrimRight(cfg.S3PublicBaseURL, "/")
	}
	if cfg.S3Endpoint != "" {
		return strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
}
