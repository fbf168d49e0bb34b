package model

import (
	"time"

	"gorm.io/gorm"
)

// JWTTokenBlacklist stores revoked admin tokens until they expire
type JWTTokenBlacklist struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Token     string         `gorm:"type:varchar(64);not null;uniqueIndex" json:"token"` // JTI, not the raw token
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Reason    string         `gorm:"type:varchar(100)" json:"reason"`
	ExpiresAt time.Time      `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for JWTTokenBlacklist
func (JWTTokenBlacklist) TableName() string {
	return "jwt_token_blacklist"
}
