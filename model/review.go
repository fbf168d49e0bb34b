package model

import (
	"time"

	"github.com/google/uuid"
)

// Review represents a visitor's rating of a teacher.
//
// The composite unique index on (teacher_id, device_id) is the single source of
// truth for the one-review-per-device rule; concurrent submissions race on the
// constraint, never on application-level checks.
type Review struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	TeacherID    uint      `gorm:"not null;index;uniqueIndex:idx_reviews_teacher_device" json:"teacher_id"`
	UserName     string    `gorm:"type:varchar(255);not null" json:"user_name"`
	UserPhone    string    `gorm:"type:varchar(11);not null" json:"-"`
	DeviceID     string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_reviews_teacher_device" json:"-"`
	Rating       int       `gorm:"not null" json:"rating"`
	Comment      string    `gorm:"type:text;not null" json:"comment"`
	IsHidden     bool      `gorm:"default:false;index" json:"is_hidden"`
	ReportCount  int       `gorm:"default:0" json:"report_count"`
	HelpfulCount int       `gorm:"default:0" json:"helpful_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relationships
	Teacher      *Teacher            `gorm:"foreignKey:TeacherID" json:"teacher,omitempty"`
	Reports      []ReviewReport      `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
	HelpfulVotes []ReviewHelpfulVote `gorm:"foreignKey:ReviewID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Review
func (Review) TableName() string {
	return "reviews"
}
