package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetTransactions handles GET /api/transactions
// @Summary Gift transaction log
// @Description Audit records where the caller is the sender or the opener
// @Tags audit
// @Produce json
// @Security BearerAuth
// @Param gift_id query string false "Restrict to one gift"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} models.AuditRecord
// @Failure 401 {object} models.ErrorResponse
// @Router /transactions [get]
func (s *Server) GetTransactions(c *fiber.Ctx) error {
	page := parsePagination(c, 50)
	recs, err := s.auditService.ListForUser(c.UserContext(), userID(c), c.Query("gift_id"), page.Limit, page.Offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(recs)
}
