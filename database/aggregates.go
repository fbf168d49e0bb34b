package database

import (
	"math"

	"github.com/mamosta-app/api/model"
	"gorm.io/gorm"
)

// ComputeVisibleAggregate derives a teacher's average rating and review count
// from its reviews. Hidden reviews are excluded from both figures, matching
// what the public page and the admin dashboard display.
func ComputeVisibleAggregate(reviews []model.Review) (avgRating float64, totalReviews int) {
	sum := 0
	for _, r := range reviews {
		if r.IsHidden {
			continue
		}
		sum += r.Rating
		totalReviews++
	}

	if totalReviews == 0 {
		return 0, 0
	}

	avg := float64(sum) / float64(totalReviews)
	// Two decimal places is what the star widget renders
	return math.Round(avg*100) / 100, totalReviews
}

// RecomputeTeacherAggregates refreshes a teacher's derived avg_rating and
// total_reviews columns. Callers run it inside the same transaction as the
// review mutation so readers never observe stale aggregates.
func RecomputeTeacherAggregates(tx *gorm.DB, teacherID uint) error {
	var reviews []model.Review
	if err := tx.Where("teacher_id = ?", teacherID).Find(&reviews).Error; err != nil {
		return err
	}

	avg, total := ComputeVisibleAggregate(reviews)

	return tx.Model(&model.Teacher{}).
		Where("id = ?", teacherID).
		Updates(map[string]interface{}{
			"avg_rating":    avg,
			"total_reviews": total,
		}).Error
}
