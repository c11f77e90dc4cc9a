package models

import (
	"time"

	"gorm.io/datatypes"
)

type Department struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;not null;size:200"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

type Class struct {
	ID           uint        `json:"id" gorm:"primaryKey"`
	Name         string      `json:"name" gorm:"uniqueIndex;not null;size:200"`
	DepartmentID uint        `json:"department_id" gorm:"not null;index"`
	Department   *Department `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Class) TableName() string {
	return "classes"
}

type Subject struct {
	ID        uint    `json:"id" gorm:"primaryKey"`
	Name      string  `json:"name" gorm:"not null;size:200"`
	ClassID   uint    `json:"class_id" gorm:"not null;index"`
	Class     *Class  `json:"class,omitempty" gorm:"foreignKey:ClassID"`
	FacultyID *string `json:"faculty_id" gorm:"size:255;index"`
	Faculty   *User   `json:"faculty,omitempty" gorm:"foreignKey:FacultyID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subject) TableName() string {
	return "subjects"
}

// TimeSlot is a reusable block of the teaching day, shared by all classes.
type TimeSlot struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	StartTime datatypes.Time `json:"start_time" gorm:"not null"`
	EndTime   datatypes.Time `json:"end_time" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TimeSlot) TableName() string {
	return "time_slots"
}

// Timetable pins a subject to a weekday and time slot. The triple is unique:
// a subject cannot occupy the same slot twice.
type Timetable struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	SubjectID  uint      `json:"subject_id" gorm:"not null;uniqueIndex:idx_timetable_slot"`
	Subject    *Subject  `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
	DayOfWeek  int       `json:"day_of_week" gorm:"not null;uniqueIndex:idx_timetable_slot;check:day_of_week BETWEEN 1 AND 7"`
	TimeSlotID uint      `json:"time_slot_id" gorm:"not null;uniqueIndex:idx_timetable_slot"`
	TimeSlot   *TimeSlot `json:"time_slot,omitempty" gorm:"foreignKey:TimeSlotID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Timetable) TableName() string {
	return "timetables"
}

type Announcement struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Title      string `json:"title" gorm:"not null;size:255"`
	Content    string `json:"content" gorm:"not null;type:text"`
	PostedByID string `json:"posted_by_id" gorm:"not null;size:255"`
	PostedBy   *User  `json:"posted_by,omitempty" gorm:"foreignKey:PostedByID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Announcement) TableName() string {
	return "announcements"
}
