package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if helper == nil {
		return
	}

	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.WarnContext(ctx, "Cache invalidation failed",
			"pattern", pattern,
			"error", err.Error())
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if helper == nil || len(keys) == 0 {
		return
	}

	if err := helper.Delete(ctx, keys...); err != nil {
		slog.WarnContext(ctx, "Cache delete failed",
			"keys", fmt.Sprintf("%v", keys),
			"error", err.Error())
	}
}

// CacheInvalidation represents a single cache invalidation operation
type CacheInvalidation struct {
	Type    string // "pattern" or "keys"
	Helper  *CacheHelper
	Pattern string
	Keys    []string
}

// BatchInvalidate performs multiple cache invalidations
func BatchInvalidate(ctx context.Context, invalidations []CacheInvalidation) {
	for _, inv := range invalidations {
		switch inv.Type {
		case "pattern":
			SafeInvalidatePattern(ctx, inv.Helper, inv.Pattern)
		case "keys":
			SafeDelete(ctx, inv.Helper, inv.Keys...)
		}
	}
}

// InvalidateAttendanceCache drops every cached report fed by attendance rows
// for the class. Attendance writes call this so report reads never serve
// overwritten flags for longer than one marking round.
func InvalidateAttendanceCache(ctx context.Context, cm *CacheManager, classID uint) {
	if cm == nil {
		return
	}

	BatchInvalidate(ctx, []CacheInvalidation{
		{Type: "pattern", Helper: cm.Report, Pattern: fmt.Sprintf("class:%d:*", classID)},
		{Type: "pattern", Helper: cm.Report, Pattern: "low-attendance*"},
		{Type: "pattern", Helper: cm.Report, Pattern: "lecture-history*"},
		{Type: "pattern", Helper: cm.Stats, Pattern: "dashboard:*"},
	})
}

// InvalidateUserCache drops caches keyed by a user record
func InvalidateUserCache(ctx context.Context, cm *CacheManager, userID string) {
	if cm == nil {
		return
	}

	BatchInvalidate(ctx, []CacheInvalidation{
		{Type: "keys", Helper: cm.User, Keys: []string{fmt.Sprintf("id:%s", userID)}},
		{Type: "pattern", Helper: cm.Stats, Pattern: "dashboard:*"},
	})
}
