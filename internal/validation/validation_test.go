package validation

import (
	"errors"
	"testing"
	"time"

	"chronogift/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, models.CodeValidation, appErr.Code)
}

func TestValidateBody_GiftCreate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		valid bool
	}{
		{"minimal", `{"recipientEmail":"a@b.co","unlockInstant":"2030-01-01T00:00:00Z","passcode":"1234"}`, true},
		{"with content and sender", `{"senderId":4,"recipientEmail":"a@b.co","unlockInstant":"2030-01-01T00:00:00Z","passcode":"1234","content":{"textMessage":"hi","imageUrl":"https://x/y.png"}}`, true},
		{"missing passcode", `{"recipientEmail":"a@b.co","unlockInstant":"2030-01-01T00:00:00Z"}`, false},
		{"short passcode", `{"recipientEmail":"a@b.co","unlockInstant":"2030-01-01T00:00:00Z","passcode":"12"}`, false},
		{"missing recipient", `{"unlockInstant":"2030-01-01T00:00:00Z","passcode":"1234"}`, false},
		{"unknown field", `{"recipientEmail":"a@b.co","unlockInstant":"2030-01-01T00:00:00Z","passcode":"1234","isOpened":true}`, false},
		{"unknown content field", `{"recipientEmail":"a@b.co","unlockInstant":"2030-01-01T00:00:00Z","passcode":"1234","content":{"audio":"x"}}`, false},
		{"wrong type", `{"recipientEmail":42,"unlockInstant":"2030-01-01T00:00:00Z","passcode":"1234"}`, false},
		{"not an object", `["a"]`, false},
		{"not json", `recipientEmail=a`, false},
		{"empty", ``, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBody(SchemaGiftCreate, []byte(tt.body))
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assertValidationError(t, err)
			}
		})
	}
}

func TestValidateBody_GiftOpen(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateBody(SchemaGiftOpen, []byte(`{"giftId":"abc","passcode":"1234"}`)))
	assert.NoError(t, ValidateBody(SchemaGiftOpen, []byte(`{"giftId":"abc","passcode":"1234","accessToken":"ya29"}`)))
	assertValidationError(t, ValidateBody(SchemaGiftOpen, []byte(`{"giftId":"abc"}`)))
	assertValidationError(t, ValidateBody(SchemaGiftOpen, []byte(`{"giftId":"abc","passcode":""}`)))
}

func TestValidateBody_Media(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateBody(SchemaMediaUpload, []byte(`{"kind":"image","contentType":"image/png"}`)))
	assertValidationError(t, ValidateBody(SchemaMediaUpload, []byte(`{"kind":"audio","contentType":"audio/mp3"}`)))
	assertValidationError(t, ValidateBody(SchemaMediaUpload, []byte(`{"kind":"image","contentType":"text/html"}`)))
}

func TestValidateBody_UnknownSchema(t *testing.T) {
	t.Parallel()

	err := ValidateBody("nope", []byte(`{}`))
	assert.True(t, models.HasCode(err, models.CodeInternal))
}

func TestDecodeBody(t *testing.T) {
	t.Parallel()

	var req struct {
		Credential string `json:"credential"`
	}
	require.NoError(t, DecodeBody(SchemaIdentity, []byte(`{"credential":"ya29.token"}`), &req))
	assert.Equal(t, "ya29.token", req.Credential)

	assertValidationError(t, DecodeBody(SchemaIdentity, []byte(`{"credential":""}`), &req))
}

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateEmail("grace.hopper+gifts@example.com"))
	assert.Error(t, ValidateEmail(""))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("a@b"))
	assert.Equal(t, "grace@example.com", NormalizeEmail("  Grace@Example.COM "))
}

func TestParseInstant(t *testing.T) {
	t.Parallel()

	got, err := ParseInstant("2030-06-01T09:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2030, 6, 1, 7, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())

	for _, bad := range []string{"", "2030-06-01", "2030-06-01T09:00:00", "tomorrow"} {
		_, err := ParseInstant(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseZone(t *testing.T) {
	t.Parallel()

	loc, err := ParseZone("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = ParseZone("Mars/Olympus_Mons")
	assert.Error(t, err)
	_, err = ParseZone("Local")
	assert.Error(t, err)
}
