package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/mamosta-app/api/model"
	"gorm.io/gorm"
)

// ReviewStore is the GORM-backed persistence for review submissions and
// moderation. Uniqueness rules live in the composite indexes; constraint
// violations surface to the caller untranslated beyond gorm.ErrDuplicatedKey.
type ReviewStore struct {
	db *gorm.DB
}

// NewReviewStore creates a review store on a GORM connection
func NewReviewStore(db *gorm.DB) *ReviewStore {
	return &ReviewStore{db: db}
}

// CreateReview inserts a review and refreshes the owning teacher's aggregates
// in one transaction
func (s *ReviewStore) CreateReview(ctx context.Context, review *model.Review) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(review).Error; err != nil {
			return err
		}
		return RecomputeTeacherAggregates(tx, review.TeacherID)
	})
}

// CreateReport inserts a report and bumps the review's report counter in one
// transaction
func (s *ReviewStore) CreateReport(ctx context.Context, report *model.ReviewReport) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(report).Error; err != nil {
			return err
		}
		return tx.Model(&model.Review{}).
			Where("id = ?", report.ReviewID).
			UpdateColumn("report_count", gorm.Expr("report_count + ?", 1)).
			Error
	})
}

// CreateHelpfulVote inserts a vote and bumps the review's helpful counter in
// one transaction
func (s *ReviewStore) CreateHelpfulVote(ctx context.Context, vote *model.ReviewHelpfulVote) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(vote).Error; err != nil {
			return err
		}
		return tx.Model(&model.Review{}).
			Where("id = ?", vote.ReviewID).
			UpdateColumn("helpful_count", gorm.Expr("helpful_count + ?", 1)).
			Error
	})
}

// TeacherExists reports whether a teacher row exists
func (s *ReviewStore) TeacherExists(ctx context.Context, teacherID uint) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).
		Model(&model.Teacher{}).
		Where("id = ?", teacherID).
		Count(&count).
		Error
	return count > 0, err
}

// GetReview loads a single review
func (s *ReviewStore) GetReview(ctx context.Context, reviewID uuid.UUID) (*model.Review, error) {
	var review model.Review
	if err := s.db.WithContext(ctx).First(&review, "id = ?", reviewID).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListReviews returns all reviews with their teacher, newest first. With
// includeHidden false only publicly visible reviews are returned.
func (s *ReviewStore) ListReviews(ctx context.Context, includeHidden bool) ([]model.Review, error) {
	query := s.db.WithContext(ctx).
		Preload("Teacher").
		Order("created_at DESC")

	if !includeHidden {
		query = query.Where("is_hidden = ?", false)
	}

	var reviews []model.Review
	if err := query.Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

// ListReported returns only reviews that have been reported at least once
func (s *ReviewStore) ListReported(ctx context.Context) ([]model.Review, error) {
	var reviews []model.Review
	err := s.db.WithContext(ctx).
		Preload("Teacher").
		Where("report_count > ?", 0).
		Order("created_at DESC").
		Find(&reviews).
		Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// SetReviewHidden flips a review's visibility and refreshes the teacher's
// aggregates in one transaction
func (s *ReviewStore) SetReviewHidden(ctx context.Context, reviewID uuid.UUID, hidden bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review model.Review
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			return err
		}
		if err := tx.Model(&review).UpdateColumn("is_hidden", hidden).Error; err != nil {
			return err
		}
		return RecomputeTeacherAggregates(tx, review.TeacherID)
	})
}

// UpdateReviewContent edits a review's rating and comment and refreshes the
// teacher's aggregates in one transaction
func (s *ReviewStore) UpdateReviewContent(ctx context.Context, reviewID uuid.UUID, rating int, comment string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review model.Review
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			return err
		}
		err := tx.Model(&review).Updates(map[string]interface{}{
			"rating":  rating,
			"comment": comment,
		}).Error
		if err != nil {
			return err
		}
		return RecomputeTeacherAggregates(tx, review.TeacherID)
	})
}

// DeleteReview removes a review (reports and votes cascade) and refreshes the
// teacher's aggregates in one transaction
func (s *ReviewStore) DeleteReview(ctx context.Context, reviewID uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var review model.Review
		if err := tx.First(&review, "id = ?", reviewID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&review).Error; err != nil {
			return err
		}
		return RecomputeTeacherAggregates(tx, review.TeacherID)
	})
}
