package server

import (
	"chronogift/internal/models"
	"chronogift/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AuthResponse is returned after a successful sign-in.
type AuthResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Identify handles POST /api/auth/identity
// @Summary Sign in with an identity-provider credential
// @Description Verifies the bearer credential with Google, creates the user on first sight and returns a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{credential=string} true "Identity request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/identity [post]
func (s *Server) Identify(c *fiber.Ctx) error {
	var req struct {
		Credential string `json:"credential"`
	}
	if err := validation.DecodeBody(validation.SchemaIdentity, c.Body(), &req); err != nil {
		return respond(c, err)
	}
	return s.signIn(c, req.Credential)
}

// GoogleSignIn handles POST /api/auth/google
// @Summary Sign in with a Google access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{accessToken=string} true "Google sign-in request"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/google [post]
func (s *Server) GoogleSignIn(c *fiber.Ctx) error {
	var req struct {
		AccessToken string `json:"accessToken"`
	}
	if err := validation.DecodeBody(validation.SchemaGoogleIdentity, c.Body(), &req); err != nil {
		return respond(c, err)
	}
	return s.signIn(c, req.AccessToken)
}

func (s *Server) signIn(c *fiber.Ctx, credential string) error {
	user, err := s.identityService.Resolve(c.UserContext(), credential)
	if err != nil {
		return respond(c, err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return respond(c, models.NewInternalError(err))
	}

	return c.JSON(AuthResponse{Token: token, User: user})
}

// GetMe handles GET /api/users/me
// @Summary Current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	user, err := s.identityService.GetUser(c.UserContext(), userID(c))
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return respond(c, models.NewUnauthorizedError("Session user no longer exists"))
		}
		return respond(c, err)
	}
	return c.JSON(user)
}
