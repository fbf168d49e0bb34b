package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/mamosta-app/api/utils/middleware"
	"github.com/mamosta-app/api/utils/response"
)

// Session returns the currently authenticated admin. The dashboard calls this
// on load to decide whether to show the login screen.
func (h *AuthHandler) Session(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	return response.Success(c, UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	})
}
