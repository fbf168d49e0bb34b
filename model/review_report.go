package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewReport flags a review for moderation. One report per device per review,
// enforced by the composite unique index.
type ReviewReport struct {
	ID               uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ReviewID         uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_reports_review_device" json:"review_id"`
	ReporterDeviceID string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_reports_review_device" json:"-"`
	Reason           *string   `gorm:"type:text" json:"reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`

	Review *Review `gorm:"foreignKey:ReviewID" json:"-"`
}

// TableName specifies the table name for ReviewReport
func (ReviewReport) TableName() string {
	return "review_reports"
}
