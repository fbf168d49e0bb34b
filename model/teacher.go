package model

import (
	"time"

	"gorm.io/gorm"
)

// Teacher represents a teacher visitors can review.
//
// AvgRating and TotalReviews are derived from the non-hidden reviews and are
// recomputed inside the same transaction as every review insert, delete or
// visibility change. A nightly cron reconciles them against the review rows.
type Teacher struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Name         string         `gorm:"not null;index" json:"name"`
	Subject      string         `gorm:"type:varchar(255);not null" json:"subject"`
	SchoolID     *uint          `gorm:"index" json:"school_id,omitempty"`
	ImageURL     *string        `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	AvgRating    float64        `gorm:"default:0" json:"avg_rating"`
	TotalReviews int            `gorm:"default:0" json:"total_reviews"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	School  *School  `gorm:"foreignKey:SchoolID" json:"school,omitempty"`
	Reviews []Review `gorm:"foreignKey:TeacherID;constraint:OnDelete:CASCADE" json:"reviews,omitempty"`
}

// TableName specifies the table name for Teacher
func (Teacher) TableName() string {
	return "teachers"
}
