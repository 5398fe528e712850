package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User roles
const (
	RoleStudent  = "student"
	RoleEducator = "educator"
)

// User mirrors the identity-provider account. The primary key is the
// provider's string id; rows are upserted/deleted by the identity webhook.
type User struct {
	ID        string `json:"id" gorm:"primaryKey"`
	Email     string `json:"email" gorm:"index;not null"`
	Name      string `json:"name"`
	ImageURL  string `json:"image_url"`
	Role      string `json:"role" gorm:"default:'student'"` // student, educator

	// Legacy mirror of course ids, superseded by Enrollment rows
	EnrolledCourses datatypes.JSON `json:"enrolled_courses"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}
