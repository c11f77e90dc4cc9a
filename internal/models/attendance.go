package models

import (
	"time"

	"gorm.io/datatypes"
)

// Attendance is one student's presence flag for one lecture of a subject.
// At most one record exists per (student, subject, date, time slot); marking
// again for the same key overwrites the flag instead of adding a row. A nil
// time slot is part of the key too: two slotless records for the same
// (student, subject, date) are the same lecture. The unique index enforcing
// this is created in the migration with NULLS NOT DISTINCT, which gorm tags
// cannot express.
type Attendance struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	StudentID  uint            `json:"student_id" gorm:"not null;index"`
	Student    *StudentProfile `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	SubjectID  uint            `json:"subject_id" gorm:"not null;index"`
	Subject    *Subject        `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	Date       datatypes.Date  `json:"date" gorm:"not null;index"`
	TimeSlotID *uint           `json:"time_slot_id" gorm:"index"`
	TimeSlot   *TimeSlot       `json:"time_slot,omitempty" gorm:"foreignKey:TimeSlotID"`
	IsPresent  bool            `json:"is_present" gorm:"not null;default:false"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Attendance) TableName() string {
	return "attendance_records"
}

// StatusLabel renders the presence flag the way exports and reports show it.
func (a *Attendance) StatusLabel() string {
	if a.IsPresent {
		return "Present"
	}
	return "Absent"
}
