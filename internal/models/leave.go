package models

import (
	"time"

	"gorm.io/datatypes"
)

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "PENDING"
	LeaveApproved LeaveStatus = "APPROVED"
	LeaveRejected LeaveStatus = "REJECTED"
)

func (s LeaveStatus) Valid() bool {
	switch s {
	case LeavePending, LeaveApproved, LeaveRejected:
		return true
	}
	return false
}

// Terminal reports whether the status can never change again.
// PENDING is the only non-terminal state.
func (s LeaveStatus) Terminal() bool {
	return s == LeaveApproved || s == LeaveRejected
}

type LeaveRequest struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	UserID    string         `json:"user_id" gorm:"not null;size:255;index"`
	User      *User          `json:"user,omitempty" gorm:"foreignKey:UserID"`
	StartDate datatypes.Date `json:"start_date" gorm:"not null"`
	EndDate   datatypes.Date `json:"end_date" gorm:"not null"`
	Reason    string         `json:"reason" gorm:"not null;type:text"`
	Status    LeaveStatus    `json:"status" gorm:"not null;size:20;default:'PENDING';index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
