package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminAuditLog represents the audit trail for admin actions
type AdminAuditLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AdminID     uint           `gorm:"not null;index" json:"admin_id"`
	Action      string         `gorm:"type:varchar(100);not null" json:"action"` // e.g., "review_hide", "teacher_delete"
	Resource    string         `gorm:"type:varchar(100)" json:"resource"`        // e.g., "reviews", "teachers"
	ResourceID  string         `gorm:"type:varchar(64)" json:"resource_id"`
	OldValue    datatypes.JSON `gorm:"type:jsonb" json:"old_value,omitempty"`
	NewValue    datatypes.JSON `gorm:"type:jsonb" json:"new_value,omitempty"`
	IPAddress   string         `gorm:"type:varchar(45)" json:"ip_address"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Admin User `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"admin,omitempty"`
}

// TableName specifies the table name for AdminAuditLog
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
