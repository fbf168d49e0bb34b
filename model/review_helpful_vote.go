package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewHelpfulVote marks a review as helpful. One vote per device per review,
// enforced by the composite unique index.
type ReviewHelpfulVote struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ReviewID      uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_votes_review_device" json:"review_id"`
	VoterDeviceID string    `gorm:"type:varchar(128);not null;uniqueIndex:idx_votes_review_device" json:"-"`
	CreatedAt     time.Time `json:"created_at"`

	Review *Review `gorm:"foreignKey:ReviewID" json:"-"`
}

// TableName specifies the table name for ReviewHelpfulVote
func (ReviewHelpfulVote) TableName() string {
	return "review_helpful_votes"
}
