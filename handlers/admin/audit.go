package admin

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mamosta-app/api/utils/response"
)

// ListAuditLogs handles GET /api/v1/admin/audit-logs
func (h *AdminHandler) ListAuditLogs(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "100"))

	entries, err := h.audit.List(c.Context(), limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch audit logs")
	}

	return response.Success(c, entries)
}
