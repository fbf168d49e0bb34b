package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mamosta-app/api/utils/middleware"
	"github.com/mamosta-app/api/utils/response"
)

// Logout revokes the current access token. The token stays blacklisted until
// its natural expiry, after which the cleanup cron removes the entry.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return response.Unauthorized(c, "Missing authorization header")
	}
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")

	claims, err := h.jwtManager.ValidateToken(tokenString)
	if err != nil {
		return response.Unauthorized(c, "Invalid token")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	expiresAt, err := h.jwtManager.GetTokenExpiry(tokenString)
	if err != nil {
		return response.InternalServerError(c, "Failed to read token expiry")
	}

	if err := h.blacklistService.RevokeToken(c.Context(), claims.ID, userID, expiresAt, "logout"); err != nil {
		return response.InternalServerError(c, "Failed to revoke token")
	}

	return response.SuccessWithMessage(c, "Logged out successfully", nil)
}

// LogoutAll revokes every token the admin has ever been issued by bumping the
// account's token version
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.blacklistService.RevokeAllUserTokens(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to revoke tokens")
	}

	return response.SuccessWithMessage(c, "All sessions revoked", nil)
}
