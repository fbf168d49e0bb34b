package services

import (
	"context"
	"errors"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/mamosta-app/api/model"
	"github.com/mamosta-app/api/utils/cache"
	"github.com/mamosta-app/api/utils/validation"
	"gorm.io/gorm"
)

// Moderation score weights. Each report adds 10, each helpful vote offsets 2,
// and reviews older than 30 days get a flat nudge so stale unresolved reports
// are not buried under new ones. No clamp: a well-liked, lightly reported
// review may score negative.
const (
	reportWeight    = 10
	helpfulWeight   = 2
	agePenalty      = 5
	agePenaltyAfter = 30 // days
)

// ModerationScore ranks a reported review's urgency for the admin queue;
// higher surfaces first
func ModerationScore(reportCount, helpfulCount int, createdAt, now time.Time) int {
	ageDays := int(now.Sub(createdAt).Hours() / 24)

	penalty := 0
	if ageDays > agePenaltyAfter {
		penalty = agePenalty
	}

	return reportCount*reportWeight - helpfulCount*helpfulWeight + penalty
}

// ModerationStore is the persistence boundary for admin review moderation
type ModerationStore interface {
	ListReviews(ctx context.Context, includeHidden bool) ([]model.Review, error)
	ListReported(ctx context.Context) ([]model.Review, error)
	GetReview(ctx context.Context, reviewID uuid.UUID) (*model.Review, error)
	SetReviewHidden(ctx context.Context, reviewID uuid.UUID, hidden bool) error
	UpdateReviewContent(ctx context.Context, reviewID uuid.UUID, rating int, comment string) error
	DeleteReview(ctx context.Context, reviewID uuid.UUID) error
}

// ReportedReview pairs a review with its moderation score for the admin queue
type ReportedReview struct {
	model.Review
	ModerationScore int `json:"moderation_score"`
}

// ModerationService backs the admin dashboard's review views and mutations
type ModerationService struct {
	store ModerationStore
	views cache.Invalidator
	now   func() time.Time
}

// NewModerationService creates a new moderation service
func NewModerationService(store ModerationStore, views cache.Invalidator) *ModerationService {
	return &ModerationService{
		store: store,
		views: views,
		now:   time.Now,
	}
}

// AllReviews lists every review, hidden ones included, for the admin dashboard
func (s *ModerationService) AllReviews(ctx context.Context) ([]model.Review, error) {
	reviews, err := s.store.ListReviews(ctx, true)
	if err != nil {
		return nil, s.failed("list reviews", err)
	}
	return reviews, nil
}

// ReportedQueue returns reviews with at least one report, most urgent first.
// Unreported reviews never appear here regardless of score.
func (s *ModerationService) ReportedQueue(ctx context.Context) ([]ReportedReview, error) {
	reviews, err := s.store.ListReported(ctx)
	if err != nil {
		return nil, s.failed("list reported reviews", err)
	}

	now := s.now()
	queue := make([]ReportedReview, 0, len(reviews))
	for _, r := range reviews {
		queue = append(queue, ReportedReview{
			Review:          r,
			ModerationScore: ModerationScore(r.ReportCount, r.HelpfulCount, r.CreatedAt, now),
		})
	}

	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].ModerationScore > queue[j].ModerationScore
	})

	return queue, nil
}

// SetHidden hides or unhides a review. Hidden reviews disappear from the
// public teacher page but stay in the admin listing; the teacher's aggregates
// are recomputed by the store in the same transaction.
func (s *ModerationService) SetHidden(ctx context.Context, reviewID uuid.UUID, hidden bool) (*model.Review, error) {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.store.SetReviewHidden(ctx, reviewID, hidden); err != nil {
		return nil, s.failed("set review hidden", err)
	}

	review.IsHidden = hidden
	s.views.InvalidateTeacher(ctx, review.TeacherID)
	return review, nil
}

// UpdateContent edits a review's rating and comment on behalf of an admin
func (s *ModerationService) UpdateContent(ctx context.Context, reviewID uuid.UUID, rating int, comment string) (*model.Review, error) {
	comment = validation.SanitizeString(comment)
	if !validation.ValidateRating(rating) {
		return nil, ErrInvalidRating
	}
	if !validation.ValidateCommentLength(comment) {
		return nil, ErrInvalidComment
	}

	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateReviewContent(ctx, reviewID, rating, comment); err != nil {
		return nil, s.failed("update review", err)
	}

	review.Rating = rating
	review.Comment = comment
	s.views.InvalidateTeacher(ctx, review.TeacherID)
	return review, nil
}

// Delete removes a review and its reports and votes
func (s *ModerationService) Delete(ctx context.Context, reviewID uuid.UUID) error {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteReview(ctx, reviewID); err != nil {
		return s.failed("delete review", err)
	}

	s.views.InvalidateTeacher(ctx, review.TeacherID)
	return nil
}

func (s *ModerationService) getReview(ctx context.Context, reviewID uuid.UUID) (*model.Review, error) {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReviewNotFound
		}
		return nil, s.failed("load review", err)
	}
	return review, nil
}

func (s *ModerationService) failed(op string, err error) error {
	log.Printf("moderation service: %s: %v", op, err)
	return ErrOperationFailed
}
