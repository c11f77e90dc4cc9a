package services

import (
	"errors"
	"fmt"
)

// ===== SENTINEL ERRORS =====

var (
	ErrValidationFailed = errors.New("validation failed")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")

	ErrUserNotFound         = errors.New("user not found")
	ErrDepartmentNotFound   = errors.New("department not found")
	ErrClassNotFound        = errors.New("class not found")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrStudentNotFound      = errors.New("student not found")
	ErrTimeSlotNotFound     = errors.New("time slot not found")
	ErrTimetableNotFound    = errors.New("timetable entry not found")
	ErrAttendanceNotFound   = errors.New("attendance record not found")
	ErrLeaveNotFound        = errors.New("leave request not found")
	ErrAnnouncementNotFound = errors.New("announcement not found")

	ErrDuplicateUsername   = errors.New("username already exists")
	ErrDuplicateRollNo     = errors.New("roll number already exists")
	ErrDuplicateEntity     = errors.New("entity already exists")
	ErrTimetableConflict   = errors.New("timetable slot already occupied")
	ErrLeaveAlreadyDecided = errors.New("leave request already decided")
	ErrEditWindowExpired   = errors.New("attendance edit window expired")
)

// ===== PERMISSION ERROR =====

// PermissionError carries the context of a denied action
type PermissionError struct {
	UserID   string
	EntityID uint
	Resource string
	Action   string
	Reason   string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("user %s cannot %s %s %d: %s", e.UserID, e.Action, e.Resource, e.EntityID, e.Reason)
}

func (e *PermissionError) Unwrap() error {
	return ErrForbidden
}

// NewPermissionError creates a new permission error
func NewPermissionError(userID string, entityID uint, resource, action, reason string) *PermissionError {
	return &PermissionError{
		UserID:   userID,
		EntityID: entityID,
		Resource: resource,
		Action:   action,
		Reason:   reason,
	}
}
