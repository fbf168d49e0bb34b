package review

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mamosta-app/api/services"
	"github.com/mamosta-app/api/utils/device"
	"github.com/mamosta-app/api/utils/messages"
	"github.com/mamosta-app/api/utils/response"
)

// ReviewHandler handles visitor review submissions, reports and helpful votes.
// Field validation happens in the review service so the rules hold for admin
// submissions too; this layer only resolves the device and maps outcomes to
// their fixed messages.
type ReviewHandler struct {
	reviews *services.ReviewService
	devices device.Provider
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(reviews *services.ReviewService, devices device.Provider) *ReviewHandler {
	return &ReviewHandler{
		reviews: reviews,
		devices: devices,
	}
}

// SubmitReviewRequest represents the request body for submitting a review
type SubmitReviewRequest struct {
	UserName  string `json:"user_name" validate:"required,min=1,max=255"`
	UserPhone string `json:"user_phone" validate:"required"`
	Rating    int    `json:"rating" validate:"required"`
	Comment   string `json:"comment" validate:"required"`
}

// ReportReviewRequest represents the request body for reporting a review
type ReportReviewRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=500"`
}

// SubmitReview handles POST /api/v1/teachers/:id/reviews
func (h *ReviewHandler) SubmitReview(c *fiber.Ctx) error {
	teacherID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.NotFound(c, messages.TeacherNotFound)
	}

	var req SubmitReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	deviceID, err := h.devices.DeviceID(c)
	if err != nil {
		return response.BadRequest(c, "Missing or invalid device identifier")
	}

	submitted, err := h.reviews.Submit(c.Context(), services.SubmitReviewInput{
		TeacherID: uint(teacherID),
		UserName:  req.UserName,
		UserPhone: req.UserPhone,
		DeviceID:  deviceID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		return h.mapSubmitError(c, err)
	}

	return response.Created(c, submitted)
}

// ReportReview handles POST /api/v1/reviews/:id/report
func (h *ReviewHandler) ReportReview(c *fiber.Ctx) error {
	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.NotFound(c, messages.ReviewNotFound)
	}

	// Body is optional; a bare report carries no reason
	var req ReportReviewRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return response.BadRequest(c, "Invalid request body")
		}
	}

	deviceID, err := h.devices.DeviceID(c)
	if err != nil {
		return response.BadRequest(c, "Missing or invalid device identifier")
	}

	if err := h.reviews.Report(c.Context(), reviewID, deviceID, req.Reason); err != nil {
		switch {
		case errors.Is(err, services.ErrReviewNotFound):
			return response.NotFound(c, messages.ReviewNotFound)
		case errors.Is(err, services.ErrDuplicateReport):
			return response.Conflict(c, messages.AlreadyReported)
		default:
			return response.InternalServerError(c, messages.OperationFailed)
		}
	}

	return response.SuccessWithMessage(c, "Review reported", nil)
}

// MarkHelpful handles POST /api/v1/reviews/:id/helpful
func (h *ReviewHandler) MarkHelpful(c *fiber.Ctx) error {
	reviewID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.NotFound(c, messages.ReviewNotFound)
	}

	deviceID, err := h.devices.DeviceID(c)
	if err != nil {
		return response.BadRequest(c, "Missing or invalid device identifier")
	}

	if err := h.reviews.MarkHelpful(c.Context(), reviewID, deviceID); err != nil {
		switch {
		case errors.Is(err, services.ErrReviewNotFound):
			return response.NotFound(c, messages.ReviewNotFound)
		case errors.Is(err, services.ErrDuplicateHelpfulVote):
			return response.Conflict(c, messages.AlreadyMarkedHelpful)
		default:
			return response.InternalServerError(c, messages.OperationFailed)
		}
	}

	return response.SuccessWithMessage(c, "Review marked helpful", nil)
}

// mapSubmitError translates a submission outcome to its fixed user-facing
// message
func (h *ReviewHandler) mapSubmitError(c *fiber.Ctx, err error) error {
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
	case errors.Is(err, services.ErrDuplicateReview):
		return response.Conflict(c, messages.AlreadyReviewed)
	default:
		return response.InternalServerError(c, messages.OperationFailed)
	}
}
