package validator

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/opencampus/academics-service/internal/models"
)

// AttendanceEditWindow is how long a faculty member can correct a saved
// attendance flag before it freezes.
const AttendanceEditWindow = 24 * time.Hour

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9@.+_-]{1,150}$`)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateLeaveDates checks the date ordering of a leave request
func (bv *BusinessValidator) ValidateLeaveDates(startDate, endDate time.Time) ValidationErrors {
	var errors ValidationErrors

	if endDate.Before(startDate) {
		errors = append(errors, ValidationError{
			Field:   "end_date",
			Message: "cannot be before start_date",
			Value:   endDate.Format("2006-01-02"),
			Rule:    "date_order",
		})
	}

	return errors
}

// ValidateLeaveTransition checks a leave status change. Only PENDING requests
// may move, and only to a terminal status.
func (bv *BusinessValidator) ValidateLeaveTransition(current, next models.LeaveStatus) ValidationErrors {
	var errors ValidationErrors

	if current != models.LeavePending {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("request already resolved as %s", current),
			Value:   current,
			Rule:    "status_transition",
		})
		return errors
	}

	if !next.Terminal() {
		errors = append(errors, ValidationError{
			Field:   "status",
			Message: fmt.Sprintf("cannot transition from %s to %s", current, next),
			Value:   next,
			Rule:    "status_transition",
		})
	}

	return errors
}

// ValidateAttendanceEdit checks whether a saved attendance record is still
// inside its correction window
func (bv *BusinessValidator) ValidateAttendanceEdit(updatedAt, now time.Time) ValidationErrors {
	var errors ValidationErrors

	if now.Sub(updatedAt) > AttendanceEditWindow {
		errors = append(errors, ValidationError{
			Field:   "updated_at",
			Message: "record is older than 24 hours and can no longer be edited",
			Value:   updatedAt,
			Rule:    "edit_window",
		})
	}

	return errors
}

// ValidateTimetableEntry checks slot-level rules that tags cannot express
func (bv *BusinessValidator) ValidateTimetableEntry(dayOfWeek int) ValidationErrors {
	var errors ValidationErrors

	if dayOfWeek < 1 || dayOfWeek > 7 {
		errors = append(errors, ValidationError{
			Field:   "day_of_week",
			Message: "must be between 1 (Monday) and 7 (Sunday)",
			Value:   dayOfWeek,
			Rule:    "day_of_week",
		})
	}

	return errors
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Role validation
	bv.validate.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return models.UserRole(fl.Field().String()).Valid()
	})

	// Leave status validation
	bv.validate.RegisterValidation("leave_status", func(fl validator.FieldLevel) bool {
		return models.LeaveStatus(fl.Field().String()).Valid()
	})

	// Day of week validation (1 = Monday ... 7 = Sunday)
	bv.validate.RegisterValidation("day_of_week", func(fl validator.FieldLevel) bool {
		day := fl.Field().Int()
		return day >= 1 && day <= 7
	})

	// Username validation (Django-compatible charset)
	bv.validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernameRe.MatchString(fl.Field().String())
	})

	// Roll number validation (1-50 chars, no surrounding whitespace)
	bv.validate.RegisterValidation("roll_no", func(fl validator.FieldLevel) bool {
		roll := fl.Field().String()
		trimmed := strings.TrimSpace(roll)
		return trimmed == roll && len(roll) >= 1 && len(roll) <= 50
	})

	// Date string validation (YYYY-MM-DD)
	bv.validate.RegisterValidation("date_string", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
}
