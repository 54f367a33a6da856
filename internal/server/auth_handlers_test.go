package server

import (
	"net/http"
	"testing"

	"chronogift/internal/identity"
	"chronogift/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestIdentify(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	profile := identity.Profile{Subject: "g-100", Email: "Ada@Example.com", Name: "Ada", Picture: "https://img.example/ada.png"}
	token, user := env.signIn(t, "good-token", profile)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "g-100", user.GoogleID)

	resp := env.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me models.User
	decode(t, resp, &me)
	assert.Equal(t, user.ID, me.ID)
	assert.Equal(t, "Ada", me.Name)

	// a second sign-in resolves to the same user
	resp = env.do(t, http.MethodPost, "/api/auth/google", "", map[string]string{"accessToken": "good-token"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var again AuthResponse
	decode(t, resp, &again)
	assert.Equal(t, user.ID, again.User.ID)

	var count int64
	require.NoError(t, env.db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestIdentify_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		setup      func(p *MockProvider)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "missing credential",
			body:       map[string]string{},
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeValidation,
		},
		{
			name:       "unknown field",
			body:       map[string]string{"credential": "x", "role": "admin"},
			wantStatus: http.StatusBadRequest,
			wantCode:   models.CodeValidation,
		},
		{
			name: "rejected credential",
			body: map[string]string{"credential": "bad-token"},
			setup: func(p *MockProvider) {
				p.On("Lookup", mock.Anything, "bad-token").Return(nil, identity.ErrInvalidCredential)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.CodeInvalidCredential,
		},
		{
			name: "provider unavailable",
			body: map[string]string{"credential": "slow-token"},
			setup: func(p *MockProvider) {
				p.On("Lookup", mock.Anything, "slow-token").Return(nil, identity.ErrUnavailable)
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   models.CodeUnavailable,
		},
		{
			name: "profile without email",
			body: map[string]string{"credential": "no-email"},
			setup: func(p *MockProvider) {
				p.On("Lookup", mock.Anything, "no-email").Return(&identity.Profile{Subject: "g-1"}, nil)
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   models.CodeInvalidCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil, nil)
			if tt.setup != nil {
				tt.setup(env.provider)
			}

			resp := env.do(t, http.MethodPost, "/api/auth/identity", "", tt.body)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantCode, errorCode(t, resp).Code)
			env.provider.AssertExpectations(t)
		})
	}
}

func TestGetMe_DeletedUser(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	token, err := env.server.generateToken(999)
	require.NoError(t, err)

	resp := env.do(t, http.MethodGet, "/api/users/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
