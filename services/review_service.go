package services

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/mamosta-app/api/model"
	"github.com/mamosta-app/api/utils/cache"
	"github.com/mamosta-app/api/utils/validation"
	"gorm.io/gorm"
)

// Typed outcomes of a submission. Handlers map each one to its fixed
// user-facing message.
var (
	ErrInvalidName    = errors.New("name is required")
	ErrInvalidPhone   = errors.New("invalid phone number")
	ErrInvalidRating  = errors.New("rating must be between 1 and 5")
	ErrInvalidComment = errors.New("comment must be 10 to 500 characters")

	ErrDuplicateReview      = errors.New("device already reviewed this teacher")
	ErrDuplicateReport      = errors.New("device already reported this review")
	ErrDuplicateHelpfulVote = errors.New("device already marked this review helpful")

	ErrTeacherNotFound = errors.New("teacher not found")
	ErrReviewNotFound  = errors.New("review not found")

	ErrOperationFailed = errors.New("operation failed")
)

// ReviewStore is the persistence boundary for review submissions. The GORM
// implementation lives in the database package; tests substitute an in-memory
// fake. Uniqueness is enforced by the store's constraints, never by
// check-then-insert in this layer: a single constraint check is atomic under
// concurrent submissions, an application-level check is a race.
type ReviewStore interface {
	CreateReview(ctx context.Context, review *model.Review) error
	CreateReport(ctx context.Context, report *model.ReviewReport) error
	CreateHelpfulVote(ctx context.Context, vote *model.ReviewHelpfulVote) error
	TeacherExists(ctx context.Context, teacherID uint) (bool, error)
	GetReview(ctx context.Context, reviewID uuid.UUID) (*model.Review, error)
}

// ReviewService validates submissions, issues the insert and translates the
// store's response into a typed outcome
type ReviewService struct {
	store ReviewStore
	views cache.Invalidator
}

// NewReviewService creates a new review service
func NewReviewService(store ReviewStore, views cache.Invalidator) *ReviewService {
	return &ReviewService{
		store: store,
		views: views,
	}
}

// SubmitReviewInput is a visitor's (or admin's, with a synthetic device id)
// review submission
type SubmitReviewInput struct {
	TeacherID uint
	UserName  string
	UserPhone string
	DeviceID  string
	Rating    int
	Comment   string
}

// Submit validates the input, inserts the review and recomputes the teacher's
// aggregates. A second submission from the same device for the same teacher
// returns ErrDuplicateReview and stores nothing.
func (s *ReviewService) Submit(ctx context.Context, in SubmitReviewInput) (*model.Review, error) {
	in.UserName = validation.SanitizeString(in.UserName)
	in.Comment = validation.SanitizeString(in.Comment)

	// Local validation never reaches storage
	if in.UserName == "" {
		return nil, ErrInvalidName
	}
	if !validation.ValidatePhone(in.UserPhone) {
		return nil, ErrInvalidPhone
	}
	if !validation.ValidateRating(in.Rating) {
		return nil, ErrInvalidRating
	}
	if !validation.ValidateCommentLength(in.Comment) {
		return nil, ErrInvalidComment
	}

	exists, err := s.store.TeacherExists(ctx, in.TeacherID)
	if err != nil {
		return nil, s.failed("check teacher", err)
	}
	if !exists {
		return nil, ErrTeacherNotFound
	}

	review := &model.Review{
		TeacherID: in.TeacherID,
		UserName:  in.UserName,
		UserPhone: in.UserPhone,
		DeviceID:  in.DeviceID,
		Rating:    in.Rating,
		Comment:   in.Comment,
	}

	if err := s.store.CreateReview(ctx, review); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, s.failed("insert review", err)
	}

	s.views.InvalidateTeacher(ctx, in.TeacherID)
	return review, nil
}

// Report flags a review for moderation. One report per (review, device).
func (s *ReviewService) Report(ctx context.Context, reviewID uuid.UUID, deviceID string, reason *string) error {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return s.failed("load review", err)
	}

	report := &model.ReviewReport{
		ReviewID:         reviewID,
		ReporterDeviceID: deviceID,
		Reason:           reason,
	}

	if err := s.store.CreateReport(ctx, report); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReport
		}
		return s.failed("insert report", err)
	}

	s.views.InvalidateTeacher(ctx, review.TeacherID)
	return nil
}

// MarkHelpful records a helpful vote. One vote per (review, device).
func (s *ReviewService) MarkHelpful(ctx context.Context, reviewID uuid.UUID, deviceID string) error {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReviewNotFound
		}
		return s.failed("load review", err)
	}

	vote := &model.ReviewHelpfulVote{
		ReviewID:      reviewID,
		VoterDeviceID: deviceID,
	}

	if err := s.store.CreateHelpfulVote(ctx, vote); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateHelpfulVote
		}
		return s.failed("insert helpful vote", err)
	}

	s.views.InvalidateTeacher(ctx, review.TeacherID)
	return nil
}

// failed logs the storage error server-side and returns the generic outcome
// shown to the user
func (s *ReviewService) failed(op string, err error) error {
	log.Printf("review service: %s: %v", op, err)
	return ErrOperationFailed
}

// isUniqueViolation classifies a storage error as a uniqueness-constraint
// violation. GORM translates driver errors to ErrDuplicatedKey; the SQLState
// check catches raw Postgres errors without importing the driver.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr interface {
		SQLState() string
		Error() string
	}
	if errors.As(err, &pgErr) && pgErr.SQLState() == "23505" {
		return true
	}
	return false
}
