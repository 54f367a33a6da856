package server

import (
	"encoding/json"

	"chronogift/internal/models"
	"chronogift/internal/service"
	"chronogift/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// CreateGiftRequest is the body of POST /api/gift.
type CreateGiftRequest struct {
	SenderID       json.RawMessage `json:"senderId,omitempty" swaggertype:"integer"`
	RecipientEmail string          `json:"recipientEmail"`
	UnlockInstant  string          `json:"unlockInstant"`
	Passcode       string          `json:"passcode"`
	Content        struct {
		TextMessage string `json:"textMessage"`
		ImageURL    string `json:"imageUrl"`
		VideoURL    string `json:"videoUrl"`
	} `json:"content"`
}

// OpenGiftRequest is the body of POST /api/gift/open.
type OpenGiftRequest struct {
	GiftID         string `json:"giftId"`
	Passcode       string `json:"passcode"`
	AccessToken    string `json:"accessToken,omitempty"`
	RecipientEmail string `json:"recipientEmail,omitempty"`
}

// CreateGift handles POST /api/gift
// @Summary Create a gift
// @Description Stores a time-locked, passcode-protected gift and returns its share link
// @Tags gifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateGiftRequest true "Gift"
// @Success 201 {object} models.GiftHandle
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /gift [post]
func (s *Server) CreateGift(c *fiber.Ctx) error {
	var req CreateGiftRequest
	if err := validation.DecodeBody(validation.SchemaGiftCreate, c.Body(), &req); err != nil {
		return respond(c, err)
	}

	callerID := userID(c)
	senderID, err := parseSenderID(req.SenderID)
	if err != nil {
		return respond(c, err)
	}
	if senderID != 0 && senderID != callerID {
		return respond(c, models.NewForbiddenError("senderId must match the signed-in user"))
	}

	sender, err := s.identityService.GetUser(c.UserContext(), callerID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return respond(c, models.NewUnauthorizedError("Session user no longer exists"))
		}
		return respond(c, err)
	}

	handle, err := s.giftService.Create(c.UserContext(), service.CreateGiftInput{
		Sender:         sender,
		RecipientEmail: req.RecipientEmail,
		UnlockInstant:  req.UnlockInstant,
		Passcode:       req.Passcode,
		Content: models.GiftContent{
			TextMessage: req.Content.TextMessage,
			ImageURL:    req.Content.ImageURL,
			VideoURL:    req.Content.VideoURL,
		},
	})
	if err != nil {
		return respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(handle)
}

// OpenGift handles POST /api/gift/open
// @Summary Open a gift
// @Description The opener is the session user, else the owner of accessToken, else (when enabled) recipientEmail
// @Tags gifts
// @Accept json
// @Produce json
// @Param request body OpenGiftRequest true "Open request"
// @Success 200 {object} models.OpenResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 423 {object} models.ErrorResponse
// @Router /gift/open [post]
func (s *Server) OpenGift(c *fiber.Ctx) error {
	var req OpenGiftRequest
	if err := validation.DecodeBody(validation.SchemaGiftOpen, c.Body(), &req); err != nil {
		return respond(c, err)
	}

	opener, err := s.resolveOpener(c, req)
	if err != nil {
		return respond(c, err)
	}

	res, err := s.giftService.Open(c.UserContext(), service.OpenGiftInput{
		GiftID:   req.GiftID,
		Opener:   opener,
		Passcode: req.Passcode,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(res)
}

func (s *Server) resolveOpener(c *fiber.Ctx, req OpenGiftRequest) (service.Opener, error) {
	if id, ok := s.optionalUserID(c); ok {
		user, err := s.identityService.GetUser(c.UserContext(), id)
		if err != nil {
			if models.HasCode(err, models.CodeNotFound) {
				return service.Opener{}, models.NewUnauthorizedError("Session user no longer exists")
			}
			return service.Opener{}, err
		}
		return service.Opener{UserID: &user.ID, Email: user.Email}, nil
	}

	if req.AccessToken != "" {
		user, err := s.identityService.Resolve(c.UserContext(), req.AccessToken)
		if err != nil {
			return service.Opener{}, err
		}
		setUser(c, user.ID)
		return service.Opener{UserID: &user.ID, Email: user.Email}, nil
	}

	if s.config.AllowEmailOpen && req.RecipientEmail != "" {
		email := validation.NormalizeEmail(req.RecipientEmail)
		if err := validation.ValidateEmail(email); err != nil {
			return service.Opener{}, models.NewValidationError(err.Error())
		}
		return service.Opener{Email: email}, nil
	}

	return service.Opener{}, models.NewUnauthorizedError("Sign in to open this gift")
}

// GetGift handles GET /api/gift/:id
// @Summary Gift metadata
// @Description Public view of a gift; never includes the passcode or recipient
// @Tags gifts
// @Produce json
// @Param id path string true "Gift ID"
// @Param tz query string false "IANA timezone for unlock_at_local"
// @Success 200 {object} models.GiftView
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /gift/{id} [get]
func (s *Server) GetGift(c *fiber.Ctx) error {
	view, err := s.giftService.GetMetadata(c.UserContext(), c.Params("id"), c.Query("tz"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(view)
}

// GetGifts handles GET /api/gifts
// @Summary Sent gifts
// @Tags gifts
// @Produce json
// @Security BearerAuth
// @Param sender query int false "Sender user ID (must be the caller)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.SentGift
// @Failure 403 {object} models.ErrorResponse
// @Router /gifts [get]
func (s *Server) GetGifts(c *fiber.Ctx) error {
	senderID := uint(0)
	if raw := c.Query("sender"); raw != "" {
		id, err := parseSenderID(json.RawMessage(raw))
		if err != nil {
			return respond(c, err)
		}
		senderID = id
	}
	return s.listSent(c, senderID)
}

// GetGiftsByUser handles GET /api/gifts/by-user/:userId
// @Summary Sent gifts (legacy path)
// @Tags gifts
// @Produce json
// @Security BearerAuth
// @Param userId path int true "Sender user ID (must be the caller)"
// @Success 200 {array} models.SentGift
// @Failure 403 {object} models.ErrorResponse
// @Router /gifts/by-user/{userId} [get]
func (s *Server) GetGiftsByUser(c *fiber.Ctx) error {
	senderID, err := parseID(c, "userId")
	if err != nil {
		return nil
	}
	return s.listSent(c, senderID)
}

func (s *Server) listSent(c *fiber.Ctx, senderID uint) error {
	page := parsePagination(c, 20)
	gifts, err := s.giftService.ListBySender(c.UserContext(), userID(c), senderID, page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(gifts)
}

// PresignMedia handles POST /api/gift/media
// @Summary Presign a media upload
// @Tags gifts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{kind=string,contentType=string} true "Upload request"
// @Success 201 {object} storage.Upload
// @Failure 400 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /gift/media [post]
func (s *Server) PresignMedia(c *fiber.Ctx) error {
	var req struct {
		Kind        string `json:"kind"`
		ContentType string `json:"contentType"`
	}
	if err := validation.DecodeBody(validation.SchemaMediaUpload, c.Body(), &req); err != nil {
		return respond(c, err)
	}

	upload, err := s.media.PresignUpload(c.UserContext(), userID(c), req.Kind, req.ContentType)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(upload)
}
