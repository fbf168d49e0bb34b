package model

import (
	"time"

	"gorm.io/gorm"
)

// School represents a school a teacher can belong to
type School struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null;uniqueIndex" json:"name"`
	City      string         `gorm:"type:varchar(255)" json:"city,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Teachers reference the school but are not owned by it; removing a school
	// leaves its teachers in place with a null reference.
	Teachers []Teacher `gorm:"foreignKey:SchoolID;constraint:OnDelete:SET NULL" json:"teachers,omitempty"`
}

// TableName specifies the table name for School
func (School) TableName() string {
	return "schools"
}
