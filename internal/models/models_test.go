package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{NewValidationError("bad"), fiber.StatusBadRequest},
		{NewInvalidCredentialError(errors.New("401")), fiber.StatusUnauthorized},
		{NewUnauthorizedError("no token"), fiber.StatusUnauthorized},
		{NewInvalidPasscodeError(), fiber.StatusUnauthorized},
		{NewForbiddenError("wrong recipient"), fiber.StatusForbidden},
		{NewNotFoundError("Gift", "abc"), fiber.StatusNotFound},
		{NewAlreadyOpenedError(), fiber.StatusConflict},
		{NewNotYetUnlockedError(time.Now()), fiber.StatusLocked},
		{NewRateLimitedError(), fiber.StatusTooManyRequests},
		{NewUnavailableError("Store", errors.New("deadline")), fiber.StatusServiceUnavailable},
		{NewInternalError(errors.New("boom")), fiber.StatusInternalServerError},
		{errors.New("plain"), fiber.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NewForbiddenError("x")), fiber.StatusForbidden},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondWithAppError(t *testing.T) {
	t.Parallel()

	unlockAt := time.Date(2030, 1, 2, 3, 4, 5, 0, time.UTC)

	app := fiber.New()
	app.Get("/locked", func(c *fiber.Ctx) error {
		return RespondWithAppError(c, NewNotYetUnlockedError(unlockAt))
	})
	app.Get("/internal", func(c *fiber.Ctx) error {
		return RespondWithAppError(c, NewInternalError(errors.New("pq: connection refused")))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/locked", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusLocked, resp.StatusCode)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, CodeNotYetUnlocked, body.Code)
	assert.Equal(t, "2030-01-02T03:04:05Z", body.Meta["unlock_at"])

	resp, err = app.Test(httptest.NewRequest("GET", "/internal", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.NotContains(t, string(raw), "connection refused")
}

func TestGiftView_OmitsSecrets(t *testing.T) {
	t.Parallel()

	g := &Gift{
		ID:             "6f1c2a9e-0000-4000-8000-000000000001",
		SenderID:       1,
		Sender:         &User{ID: 1, Name: "Ada"},
		RecipientEmail: "grace@example.com",
		TextMessage:    "happy birthday",
		UnlockAt:       time.Date(2030, 1, 1, 0, 0, 0, 0, time.FixedZone("X", 3600)),
		PasscodeHash:   "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA",
	}

	raw, err := json.Marshal(g.View())
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, key := range []string{"passcode", "passcode_hash", "recipient_email", "text_message"} {
		assert.NotContains(t, fields, key)
	}
	assert.Equal(t, "Ada", fields["sender_name"])
	assert.Equal(t, "2029-12-31T23:00:00Z", fields["unlock_at"])
	assert.Equal(t, true, fields["has_message"])

	raw, err = json.Marshal(g)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "argon2id")
}
