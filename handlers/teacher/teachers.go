package teacher

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/mamosta-app/api/model"
	"github.com/mamosta-app/api/services"
	"github.com/mamosta-app/api/services/storage"
	"github.com/mamosta-app/api/utils/cache"
	"github.com/mamosta-app/api/utils/messages"
	"github.com/mamosta-app/api/utils/middleware"
	"github.com/mamosta-app/api/utils/response"
	"github.com/mamosta-app/api/utils/validation"
	"gorm.io/gorm"
)

// TeacherHandler handles the public teacher directory and the admin CRUD on it
type TeacherHandler struct {
	db        *gorm.DB
	validator *validation.Validator
	views     *cache.ViewCache
	audit     *services.AuditService
	spaces    *storage.SpacesClient
}

// NewTeacherHandler creates a new teacher handler. spaces may be nil when
// object storage is not configured; image upload then returns an error.
func NewTeacherHandler(db *gorm.DB, views *cache.ViewCache, audit *services.AuditService, spaces *storage.SpacesClient) *TeacherHandler {
	return &TeacherHandler{
		db:        db,
		validator: validation.NewValidator(),
		views:     views,
		audit:     audit,
		spaces:    spaces,
	}
}

// CreateTeacherRequest represents the request body for creating a teacher.
// SchoolName creates (or reuses) a school inline when SchoolID is absent.
type CreateTeacherRequest struct {
	Name       string `json:"name" validate:"required,min=2,max=255"`
	Subject    string `json:"subject" validate:"required,min=2,max=255"`
	SchoolID   *uint  `json:"school_id" validate:"omitempty"`
	SchoolName string `json:"school_name" validate:"omitempty,min=2,max=255"`
	SchoolCity string `json:"school_city" validate:"omitempty,max=255"`
}

// UpdateTeacherRequest represents the request body for updating a teacher
type UpdateTeacherRequest struct {
	Name     string `json:"name" validate:"omitempty,min=2,max=255"`
	Subject  string `json:"subject" validate:"omitempty,min=2,max=255"`
	SchoolID *uint  `json:"school_id" validate:"omitempty"`
}

// teacherListView is the cached shape of the public teacher list
type teacherListView struct {
	Teachers   []model.Teacher         `json:"teachers"`
	Pagination response.PaginationMeta `json:"pagination"`
}

// ListTeachers handles GET /api/v1/teachers
func (h *TeacherHandler) ListTeachers(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	search := c.Query("search", "")
	schoolID := c.Query("school_id", "")

	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	// Only the unfiltered first page is cached; it is what the landing page
	// requests
	cacheable := search == "" && schoolID == "" && page == 1 && limit == 20
	if cacheable {
		var cached teacherListView
		if h.views.GetJSON(c.Context(), cache.KeyTeacherList, &cached) {
			return response.Paginated(c, cached.Teachers, cached.Pagination)
		}
	}

	query := h.db.Model(&model.Teacher{}).Preload("School")

	if search != "" {
		query = query.Where("name ILIKE ? OR subject ILIKE ?",
			"%"+search+"%", "%"+search+"%")
	}
	if schoolID != "" {
		query = query.Where("school_id = ?", schoolID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count teachers")
	}

	offset := (page - 1) * limit
	pagination := response.CalculatePagination(page, limit, total)

	var teachers []model.Teacher
	if err := query.Order("avg_rating DESC, total_reviews DESC, name ASC").
		Limit(limit).
		Offset(offset).
		Find(&teachers).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch teachers")
	}

	if cacheable {
		h.views.SetJSON(c.Context(), cache.KeyTeacherList, teacherListView{
			Teachers:   teachers,
			Pagination: pagination,
		})
	}

	return response.Paginated(c, teachers, pagination)
}

// GetTeacher handles GET /api/v1/teachers/:id. Hidden reviews are never part
// of the public page.
func (h *TeacherHandler) GetTeacher(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.NotFound(c, messages.TeacherNotFound)
	}

	key := cache.TeacherPageKey(uint(id))
	var cached model.Teacher
	if h.views.GetJSON(c.Context(), key, &cached) {
		return response.Success(c, cached)
	}

	var teacher model.Teacher
	err = h.db.Preload("School").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_hidden = ?", false).Order("created_at DESC")
		}).
		First(&teacher, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, messages.TeacherNotFound)
		}
		return response.InternalServerError(c, "Failed to fetch teacher")
	}

	h.views.SetJSON(c.Context(), key, teacher)
	return response.Success(c, teacher)
}

// CreateTeacher handles POST /api/v1/admin/teachers
func (h *TeacherHandler) CreateTeacher(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	req.Name = validation.SanitizeString(req.Name)
	req.Subject = validation.SanitizeString(req.Subject)
	req.SchoolName = validation.SanitizeString(req.SchoolName)
	req.SchoolCity = validation.SanitizeString(req.SchoolCity)

	var teacher model.Teacher
	err := h.db.Transaction(func(tx *gorm.DB) error {
		schoolID := req.SchoolID

		// Inline school creation reuses an existing school of the same name
		if schoolID == nil && req.SchoolName != "" {
			var school model.School
			err := tx.Where("name = ?", req.SchoolName).First(&school).Error
			if err == gorm.ErrRecordNotFound {
				school = model.School{Name: req.SchoolName, City: req.SchoolCity}
				if err := tx.Create(&school).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			}
			schoolID = &school.ID
		}

		if schoolID != nil {
			var count int64
			if err := tx.Model(&model.School{}).Where("id = ?", *schoolID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		teacher = model.Teacher{
			Name:     req.Name,
			Subject:  req.Subject,
			SchoolID: schoolID,
		}
		return tx.Create(&teacher).Error
	})
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.BadRequest(c, "School not found")
		}
		return response.InternalServerError(c, "Failed to create teacher")
	}

	h.audit.Log(c.Context(), services.AuditEntry{
		AdminID:     user.ID,
		Action:      "teacher_create",
		Resource:    "teachers",
		ResourceID:  strconv.FormatUint(uint64(teacher.ID), 10),
		NewValue:    teacher,
		IPAddress:   c.IP(),
		Description: fmt.Sprintf("Created teacher %q", teacher.Name),
	})
	h.views.InvalidateTeacher(c.Context(), teacher.ID)

	return response.Created(c, teacher)
}

// UpdateTeacher handles PUT /api/v1/admin/teachers/:id
func (h *TeacherHandler) UpdateTeacher(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	id := c.Params("id")

	var req UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var teacher model.Teacher
	if err := h.db.First(&teacher, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, messages.TeacherNotFound)
		}
		return response.InternalServerError(c, "Failed to fetch teacher")
	}
	before := teacher

	if req.Name != "" {
		teacher.Name = validation.SanitizeString(req.Name)
	}
	if req.Subject != "" {
		teacher.Subject = validation.SanitizeString(req.Subject)
	}
	if req.SchoolID != nil {
		var count int64
		if err := h.db.Model(&model.School{}).Where("id = ?", *req.SchoolID).Count(&count).Error; err != nil {
			return response.InternalServerError(c, "Failed to fetch school")
		}
		if count == 0 {
			return response.BadRequest(c, "School not found")
		}
		teacher.SchoolID = req.SchoolID
	}

	if err := h.db.Save(&teacher).Error; err != nil {
		return response.InternalServerError(c, "Failed to update teacher")
	}

	h.audit.Log(c.Context(), services.AuditEntry{
		AdminID:     user.ID,
		Action:      "teacher_update",
		Resource:    "teachers",
		ResourceID:  id,
		OldValue:    before,
		NewValue:    teacher,
		IPAddress:   c.IP(),
		Description: fmt.Sprintf("Updated teacher %q", teacher.Name),
	})
	h.views.InvalidateTeacher(c.Context(), teacher.ID)

	return response.SuccessWithMessage(c, "Teacher updated successfully", teacher)
}

// DeleteTeacher handles DELETE /api/v1/admin/teachers/:id. Reviews cascade
// with the teacher.
func (h *TeacherHandler) DeleteTeacher(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	id := c.Params("id")

	var teacher model.Teacher
	if err := h.db.First(&teacher, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, messages.TeacherNotFound)
		}
		return response.InternalServerError(c, "Failed to fetch teacher")
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("teacher_id = ?", teacher.ID).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		return tx.Delete(&teacher).Error
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to delete teacher")
	}

	h.audit.Log(c.Context(), services.AuditEntry{
		AdminID:     user.ID,
		Action:      "teacher_delete",
		Resource:    "teachers",
		ResourceID:  id,
		OldValue:    teacher,
		IPAddress:   c.IP(),
		Description: fmt.Sprintf("Deleted teacher %q", teacher.Name),
	})
	h.views.InvalidateTeacher(c.Context(), teacher.ID)

	return response.SuccessWithMessage(c, "Teacher deleted successfully", nil)
}

// UploadImage handles POST /api/v1/admin/teachers/:id/image
func (h *TeacherHandler) UploadImage(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	if h.spaces == nil {
		return response.InternalServerError(c, "Object storage is not configured")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.NotFound(c, messages.TeacherNotFound)
	}

	var teacher model.Teacher
	if err := h.db.First(&teacher, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, messages.TeacherNotFound)
		}
		return response.InternalServerError(c, "Failed to fetch teacher")
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return response.BadRequest(c, "Image file is required")
	}
	if fileHeader.Size > 5*1024*1024 {
		return response.BadRequest(c, "Image must be 5MB or smaller")
	}

	contentType := fileHeader.Header.Get("Content-Type")
	switch contentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return response.BadRequest(c, "Image must be JPEG, PNG or WebP")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read image")
	}
	defer file.Close()

	url, err := h.spaces.UploadTeacherImage(c.Context(), teacher.ID, fileHeader.Filename, file, contentType)
	if err != nil {
		return response.InternalServerError(c, "Failed to upload image")
	}

	if err := h.db.Model(&teacher).UpdateColumn("image_url", url).Error; err != nil {
		return response.InternalServerError(c, "Failed to save image URL")
	}

	h.audit.Log(c.Context(), services.AuditEntry{
		AdminID:     user.ID,
		Action:      "teacher_image_upload",
		Resource:    "teachers",
		ResourceID:  strconv.FormatUint(id, 10),
		NewValue:    fiber.Map{"image_url": url},
		IPAddress:   c.IP(),
		Description: fmt.Sprintf("Uploaded image for teacher %q", teacher.Name),
	})
	h.views.InvalidateTeacher(c.Context(), teacher.ID)

	return response.SuccessWithMessage(c, "Image uploaded successfully", fiber.Map{"image_url": url})
}
