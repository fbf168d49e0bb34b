package cache

import (
	"context"
	"fmt"
	"time"
)

// View cache keys. Public pages and the admin dashboard are served from these
// keys read-through; every successful review/teacher mutation drops them.
const (
	KeyTeacherList    = "views:teachers"
	KeyAdminDashboard = "views:admin:dashboard"

	DefaultViewTTL = 5 * time.Minute
)

// TeacherPageKey returns the cache key for a single teacher's public page
func TeacherPageKey(teacherID uint) string {
	return fmt.Sprintf("views:teacher:%d", teacherID)
}

// Invalidator is the invalidation signal fired after a successful mutation.
// Services depend on this instead of the concrete redis wrapper so tests can
// record invalidations in memory.
type Invalidator interface {
	InvalidateTeacher(ctx context.Context, teacherID uint)
	InvalidateDashboard(ctx context.Context)
}

// ViewCache is the redis-backed Invalidator plus read-through helpers for
// handlers. A nil ViewCache is valid and disables caching, so the API keeps
// working when redis is down.
type ViewCache struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewViewCache creates a view cache on top of a redis connection
func NewViewCache(redis *RedisCache) *ViewCache {
	return &ViewCache{redis: redis, ttl: DefaultViewTTL}
}

// GetJSON fills dest from a cached view. Returns false on miss or any redis
// error; a broken cache must never break a page load.
func (v *ViewCache) GetJSON(ctx context.Context, key string, dest interface{}) bool {
	if v == nil || v.redis == nil {
		return false
	}
	if err := v.redis.GetJSON(ctx, key, dest); err != nil {
		return false
	}
	return true
}

// SetJSON stores a rendered view, best effort
func (v *ViewCache) SetJSON(ctx context.Context, key string, value interface{}) {
	if v == nil || v.redis == nil {
		return
	}
	_ = v.redis.SetJSON(ctx, key, value, v.ttl)
}

// InvalidateTeacher drops the teacher's page, the teacher list and the admin
// dashboard, since all three show the teacher's aggregates
func (v *ViewCache) InvalidateTeacher(ctx context.Context, teacherID uint) {
	if v == nil || v.redis == nil {
		return
	}
	_ = v.redis.Delete(ctx, TeacherPageKey(teacherID), KeyTeacherList, KeyAdminDashboard)
}

// InvalidateDashboard drops the admin dashboard view only
func (v *ViewCache) InvalidateDashboard(ctx context.Context) {
	if v == nil || v.redis == nil {
		return
	}
	_ = v.redis.Delete(ctx, KeyAdminDashboard)
}
