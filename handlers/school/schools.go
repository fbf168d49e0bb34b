package school

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mamosta-app/api/model"
	"github.com/mamosta-app/api/services"
	"github.com/mamosta-app/api/utils/middleware"
	"github.com/mamosta-app/api/utils/response"
	"github.com/mamosta-app/api/utils/validation"
	"gorm.io/gorm"
)

// SchoolHandler handles the school directory
type SchoolHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	audit     *services.AuditService
}

// NewSchoolHandler creates a new school handler
func NewSchoolHandler(db *gorm.DB, audit *services.AuditService) *SchoolHandler {
	return &SchoolHandler{
		db:        db,
		validator: validation.NewValidator(),
		audit:     audit,
	}
}

// CreateSchoolRequest represents the request body for creating a school
type CreateSchoolRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
	City string `json:"city" validate:"omitempty,max=255"`
}

// ListSchools handles GET /api/v1/schools
func (h *SchoolHandler) ListSchools(c *fiber.Ctx) error {
	search := c.Query("search", "")

	query := h.db.Model(&model.School{})
	if search != "" {
		query = query.Where("name ILIKE ? OR city ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}

	var schools []model.School
	if err := query.Order("name ASC").Find(&schools).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch schools")
	}

	return response.Success(c, schools)
}

// CreateSchool handles POST /api/v1/admin/schools
func (h *SchoolHandler) CreateSchool(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateSchoolRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.City = validation.SanitizeString(req.City)

	var existing model.School
	if err := h.db.Where("name = ?", req.Name).First(&existing).Error; err == nil {
		return response.Conflict(c, "School with this name already exists")
	}

	school := model.School{
		Name: req.Name,
		City: req.City,
	}

	if err := h.db.Create(&school).Error; err != nil {
		return response.InternalServerError(c, "Failed to create school")
	}

	h.audit.Log(c.Context(), services.AuditEntry{
		AdminID:     user.ID,
		Action:      "school_create",
		Resource:    "schools",
		ResourceID:  strconv.FormatUint(uint64(school.ID), 10),
		NewValue:    school,
		IPAddress:   c.IP(),
		Description: fmt.Sprintf("Created school %q", school.Name),
	})

	return response.Created(c, school)
}
