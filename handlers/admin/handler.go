package admin

import (
	"github.com/mamosta-app/api/services"
	"github.com/mamosta-app/api/utils/cache"
	"gorm.io/gorm"
)

// AdminHandler handles the moderation dashboard: review listings, visibility
// and content mutations, audit history and the stats overview
type AdminHandler struct {
	db         *gorm.DB
	moderation *services.ModerationService
	reviews    *services.ReviewService
	audit      *services.AuditService
	views      *cache.ViewCache
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, moderation *services.ModerationService, reviews *services.ReviewService, audit *services.AuditService, views *cache.ViewCache) *AdminHandler {
	return &AdminHandler{
		db:         db,
		moderation: moderation,
		reviews:    reviews,
		audit:      audit,
		views:      views,
	}
}
