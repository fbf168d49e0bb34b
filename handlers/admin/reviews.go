package admin

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mamosta-app/api/services"
	"github.com/mamosta-app/api/utils/device"
	"github.com/mamosta-app/api/utils/messages"
	"github.com/mamosta-app/api/utils/middleware"
	"github.com/mamosta-app/api/utils/response"
)

// ListReviews handles GET /api/v1/admin/reviews. Hidden reviews are included;
// this is the moderation view, not the public page.
func (h *AdminHandler) ListReviews(c *fiber.Ctx) error {
	reviews, err := h.moderation.AllReviews(c.Context())
	if err != nil {
		return response.InternalServerError(c, messages.OperationFailed)
	}
	return response.Success(c, reviews)
}

// ListReportedReviews handles GET /api/v1/admin/reviews/reported. Reviews come
// back most urgent first by moderation score.
func (h *AdminHandler) ListReportedReviews(c *fiber.Ctx) error {
	queue, err := h.moderation.ReportedQueue(c.Context())
	if err != nil {
		return response.InternalServerError(c, messages.OperationFailed)
	}
	return response.Success(c, queue)
}

// SetVisibilityRequest represents the request body for hiding or unhiding a
// review
type SetVisibilityRequest struct {
	IsHidden *bool `json:"is_hidden" validate:"required"`
}

// SetReviewVisibility handles PATCH /api/v1/admin/reviews/:id/visibility
func (h *AdminHandler) SetReviewVisibility(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.NotFound(c, messages.ReviewNotFound)
	}

	var req SetVisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.IsHidden == nil {
		return response.BadRequest(c, "is_hidden is required")
	}

	review, err := h.moderation.SetHidden(c.Context(), reviewID, *req.IsHidden)
	if err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			return response.NotFound(c, messages.ReviewNotFound)
		}
		return response.InternalServerError(c, messages.OperationFailed)
	}

	action := "review_hide"
	if !*req.IsHidden {
		action = "review_unhide"
	}
	h.audit.Log(c.Context(), services.AuditEntry{
		AdminID:     user.ID,
		Action:      action,
		Resource:    "reviews",
		ResourceID:  reviewID.String(),
		NewValue:    fiber.Map{"is_hidden": *req.IsHidden},
		IPAddress:   c.IP(),
		Description: fmt.Sprintf("Set review visibility hidden=%t", *req.IsHidden),
	})

	return response.SuccessWithMessage(c, "Review visibility updated", review)
}

// EditReviewRequest represents the request body for editing a review's content
type EditReviewRequest struct {
	Rating  int    `json:"rating" validate:"required"`
	Comment string `json:"comment" validate:"required"`
}

// EditReview handles PATCH /api/v1/admin/reviews/:id
func (h *AdminHandler) EditReview(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.NotFound(c, messages.ReviewNotFound)
	}

	var req EditReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	review, err := h.moderation.UpdateContent(c.Context(), reviewID, req.Rating, req.Comment)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrReviewNotFound):
			return response.NotFound(c, messages.ReviewNotFound)
		case errors.Is(err, services.ErrInvalidRating):
			return response.BadRequest(c, messages.InvalidRating)
		case errors.Is(err, services.ErrInvalidComment):
			return response.BadRequest(c, messages.InvalidComment)
		default:
			return response.InternalServerError(c, messages.OperationFailed)
		}
	}

	h.audit.Log(c.Context(), services.AuditEntry{
		AdminID:     user.ID,
		Action:      "review_edit",
		Resource:    "reviews",
		ResourceID:  reviewID.String(),
		NewValue:    fiber.Map{"rating": req.Rating, "comment": req.Comment},
		IPAddress:   c.IP(),
		Description: "Edited review content",
	})

	return response.SuccessWithMessage(c, "Review updated", review)
}

// DeleteReview handles DELETE /api/v1/admin/reviews/:id
func (h *AdminHandler) DeleteReview(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.NotFound(c, messages.ReviewNotFound)
	}

	if err := h.moderation.Delete(c.Context(), reviewID); err != nil {
		if errors.Is(err, services.ErrReviewNotFound) {
			return response.NotFound(c, messages.ReviewNotFound)
		}
		return response.InternalServerError(c, messages.OperationFailed)
	}

	h.audit.Log(c.Context(), services.AuditEntry{
		AdminID:     user.ID,
		Action:      "review_delete",
		Resource:    "reviews",
		ResourceID:  reviewID.String(),
		IPAddress:   c.IP(),
		Description: "Deleted review",
	})

	return response.SuccessWithMessage(c, "Review deleted", nil)
}

// CreateReviewRequest represents the request body for an admin-submitted
// review. It goes through the same validation and aggregation as a visitor's,
// under a synthetic device id.
type CreateReviewRequest struct {
	TeacherID uint   `json:"teacher_id" validate:"required"`
	UserName  string `json:"user_name" validate:"required"`
	UserPhone string `json:"user_phone" validate:"required"`
	Rating    int    `json:"rating" validate:"required"`
	Comment   string `json:"comment" validate:"required"`
}

// CreateReview handles POST /api/v1/admin/reviews
func (h *AdminHandler) CreateReview(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok || user == nil {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	review, err := h.reviews.Submit(c.Context(), services.SubmitReviewInput{
		TeacherID: req.TeacherID,
		UserName:  req.UserName,
		UserPhone: req.UserPhone,
		DeviceID:  device.SyntheticID(),
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidName):
			return response.BadRequest(c, messages.InvalidName)
		case errors.Is(err, services.ErrInvalidPhone):
			return response.BadRequest(c, messages.InvalidPhone)
		case errors.Is(err, services.ErrInvalidRating):
			return response.BadRequest(c, messages.InvalidRating)
		case errors.Is(err, services.ErrInvalidComment):
			return response.BadRequest(c, messages.InvalidComment)
		case errors.Is(err, services.ErrTeacherNotFound):
			return response.NotFound(c, messages.TeacherNotFound)
		default:
			return response.InternalServerError(c, messages.OperationFailed)
		}
	}

	h.audit.Log(c.Context(), services.AuditEntry{
		AdminID:     user.ID,
		Action:      "review_create",
		Resource:    "reviews",
		ResourceID:  review.ID.String(),
		NewValue:    review,
		IPAddress:   c.IP(),
		Description: fmt.Sprintf("Created review for teacher %d", req.TeacherID),
	})

	return response.Created(c, review)
}
