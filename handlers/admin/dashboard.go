package admin

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mamosta-app/api/model"
	"github.com/mamosta-app/api/utils/cache"
	"github.com/mamosta-app/api/utils/response"
)

// DashboardStats is the overview block at the top of the admin dashboard
type DashboardStats struct {
	TotalTeachers   int64     `json:"total_teachers"`
	TotalSchools    int64     `json:"total_schools"`
	TotalReviews    int64     `json:"total_reviews"`
	HiddenReviews   int64     `json:"hidden_reviews"`
	ReportedReviews int64     `json:"reported_reviews"`
	ReviewsToday    int64     `json:"reviews_today"`
	GeneratedAt     time.Time `json:"generated_at"`
}

// Dashboard handles GET /api/v1/admin/dashboard
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	var cached DashboardStats
	if h.views.GetJSON(c.Context(), cache.KeyAdminDashboard, &cached) {
		return response.Success(c, cached)
	}

	stats := DashboardStats{GeneratedAt: time.Now()}

	counts := []struct {
		dest  *int64
		query func() error
	}{
		{&stats.TotalTeachers, func() error {
			return h.db.Model(&model.Teacher{}).Count(&stats.TotalTeachers).Error
		}},
		{&stats.TotalSchools, func() error {
			return h.db.Model(&model.School{}).Count(&stats.TotalSchools).Error
		}},
		{&stats.TotalReviews, func() error {
			return h.db.Model(&model.Review{}).Count(&stats.TotalReviews).Error
		}},
		{&stats.HiddenReviews, func() error {
			return h.db.Model(&model.Review{}).Where("is_hidden = ?", true).Count(&stats.HiddenReviews).Error
		}},
		{&stats.ReportedReviews, func() error {
			return h.db.Model(&model.Review{}).Where("report_count > ?", 0).Count(&stats.ReportedReviews).Error
		}},
		{&stats.ReviewsToday, func() error {
			startOfDay := time.Now().Truncate(24 * time.Hour)
			return h.db.Model(&model.Review{}).Where("created_at >= ?", startOfDay).Count(&stats.ReviewsToday).Error
		}},
	}

	for _, count := range counts {
		if err := count.query(); err != nil {
			return response.InternalServerError(c, "Failed to compute dashboard stats")
		}
	}

	h.views.SetJSON(c.Context(), cache.KeyAdminDashboard, stats)
	return response.Success(c, stats)
}
