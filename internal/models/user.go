package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleHOD     UserRole = "HOD"
	RoleFaculty UserRole = "FACULTY"
	RoleStudent UserRole = "STUDENT"
)

// ValidRoles lists every role a user can be created with. The role is fixed
// at creation time and never changes afterwards.
var ValidRoles = []UserRole{RoleAdmin, RoleHOD, RoleFaculty, RoleStudent}

func (r UserRole) Valid() bool {
	for _, v := range ValidRoles {
		if r == v {
			return true
		}
	}
	return false
}

type User struct {
	ID           string   `json:"id" gorm:"primaryKey;size:255"`
	Username     string   `json:"username" gorm:"uniqueIndex;not null;size:150"`
	FirstName    string   `json:"first_name" gorm:"size:100"`
	LastName     string   `json:"last_name" gorm:"size:100"`
	Email        string   `json:"email" gorm:"size:255"`
	PasswordHash string   `json:"-" gorm:"size:255"`
	Role         UserRole `json:"role" gorm:"not null;size:20;index"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// FullName returns "First Last" with missing parts trimmed away.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// StudentProfile carries the academic identity of a STUDENT user.
// Exactly one profile exists per student account.
type StudentProfile struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	UserID  string `json:"user_id" gorm:"uniqueIndex;not null;size:255"`
	User    *User  `json:"user,omitempty" gorm:"foreignKey:UserID"`
	RollNo  string `json:"roll_no" gorm:"uniqueIndex;not null;size:50"`
	ClassID uint   `json:"class_id" gorm:"not null;index"`
	Class   *Class `json:"class,omitempty" gorm:"foreignKey:ClassID"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}
