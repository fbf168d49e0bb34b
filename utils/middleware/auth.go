package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mamosta-app/api/model"
	"github.com/mamosta-app/api/utils/auth"
	"github.com/mamosta-app/api/utils/response"
	"gorm.io/gorm"
)

// AuthMiddleware handles JWT authentication for admin routes
type AuthMiddleware struct {
	jwtManager       *auth.JWTManager
	blacklistService *auth.BlacklistService
	db               *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:       jwtManager,
		blacklistService: auth.NewBlacklistService(db),
		db:               db,
	}
}

// authenticate validates the bearer token and loads the admin user. On success
// the claims and user are stored in the request locals. On failure the error
// response has already been written and nil claims are returned; callers must
// gate on the claims, not the error.
func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*auth.Claims, error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, response.Unauthorized(c, "Missing authorization token")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, response.Unauthorized(c, "Invalid authorization format")
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		if err == auth.ErrExpiredToken {
			return nil, response.Unauthorized(c, "Token has expired")
		}
		return nil, response.Unauthorized(c, "Invalid token")
	}

	if claims.TokenType != "access" {
		return nil, response.Unauthorized(c, "Invalid token type")
	}

	isRevoked, err := m.blacklistService.IsTokenRevoked(c.Context(), claims.ID)
	if err != nil {
		return nil, response.InternalServerError(c, "Failed to check token status")
	}
	if isRevoked {
		return nil, response.Unauthorized(c, "Token has been revoked")
	}

	var user model.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.Unauthorized(c, "User not found")
		}
		return nil, response.InternalServerError(c, "Failed to load user")
	}

	if user.TokenVersion != claims.TokenVersion {
		return nil, response.Unauthorized(c, "Token has been invalidated")
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("user_email", claims.Email)
	c.Locals("user_role", claims.Role)
	c.Locals("claims", claims)
	c.Locals("user", &user)
	c.Locals("token_jti", claims.ID)

	return claims, nil
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.authenticate(c)
		if claims == nil {
			return err
		}
		return c.Next()
	}
}

// RequireAdmin is middleware that requires a valid token with the admin role
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := m.authenticate(c)
		if claims == nil {
			return err
		}

		if claims.Role != "admin" {
			return response.Forbidden(c, "Admin access required")
		}

		return c.Next()
	}
}

// GetUserID extracts user ID from context
func GetUserID(c *fiber.Ctx) (uint, bool) {
	userID := c.Locals("user_id")
	if userID == nil {
		return 0, false
	}
	id, ok := userID.(uint)
	return id, ok
}

// GetUser extracts the loaded user from context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user := c.Locals("user")
	if user == nil {
		return nil, false
	}
	u, ok := user.(*model.User)
	return u, ok
}
