package services

import (
	"context"
	"encoding/json"
	"log"

	"github.com/mamosta-app/api/model"
	"gorm.io/gorm"
)

// AuditService records admin actions. Writes are best effort: a failed audit
// entry is logged but never fails the action itself.
type AuditService struct {
	db *gorm.DB
}

// NewAuditService creates a new audit service
func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

// AuditEntry describes one admin action
type AuditEntry struct {
	AdminID     uint
	Action      string // e.g., "review_hide", "teacher_delete"
	Resource    string // e.g., "reviews", "teachers"
	ResourceID  string
	OldValue    interface{}
	NewValue    interface{}
	IPAddress   string
	Description string
}

// Log persists an audit entry
func (s *AuditService) Log(ctx context.Context, entry AuditEntry) {
	row := model.AdminAuditLog{
		AdminID:     entry.AdminID,
		Action:      entry.Action,
		Resource:    entry.Resource,
		ResourceID:  entry.ResourceID,
		IPAddress:   entry.IPAddress,
		Description: entry.Description,
	}

	if entry.OldValue != nil {
		if data, err := json.Marshal(entry.OldValue); err == nil {
			row.OldValue = data
		}
	}
	if entry.NewValue != nil {
		if data, err := json.Marshal(entry.NewValue); err == nil {
			row.NewValue = data
		}
	}

	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("audit service: failed to record %s on %s/%s: %v",
			entry.Action, entry.Resource, entry.ResourceID, err)
	}
}

// List returns the newest audit entries up to limit
func (s *AuditService) List(ctx context.Context, limit int) ([]model.AdminAuditLog, error) {
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var entries []model.AdminAuditLog
	err := s.db.WithContext(ctx).
		Preload("Admin").
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).
		Error
	return entries, err
}
