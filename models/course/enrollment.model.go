package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Enrollment states. Rows are never hard-deleted; access is revoked by
// moving the status off active.
const (
	EnrollmentActive    = "active"
	EnrollmentExpired   = "expired"
	EnrollmentRefunded  = "refunded"
	EnrollmentSuspended = "suspended"
)

// EnrollmentProgress is the denormalized progress snapshot embedded in
// an enrollment row
type EnrollmentProgress struct {
	CompletedLessons   datatypes.JSON `json:"completed_lessons"` // set of lecture ids
	LastAccessedLesson string         `json:"last_accessed_lesson"`
	ProgressPercentage float64        `json:"progress_percentage" gorm:"default:0"`
	LastAccessedAt     *time.Time     `json:"last_accessed_at"`
}

// Enrollment is the access grant linking a user to a course at a plan
// tier. The unique (user, course) index is the correctness backstop for
// duplicate webhook deliveries.
type Enrollment struct {
	gorm.Model
	UserID   string `json:"user_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null"`
	CourseID uint   `json:"course_id" gorm:"uniqueIndex:idx_enrollment_user_course;not null;index:idx_enrollment_course_status"`

	Course *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`

	PlanType string `json:"plan_type" gorm:"default:'standard';not null"` // standard, premium

	PurchaseID *uint `json:"purchase_id"`

	Status string `json:"status" gorm:"default:'active';not null;index:idx_enrollment_course_status"` // active, expired, refunded, suspended

	EnrolledAt time.Time  `json:"enrolled_at"`
	ExpiresAt  *time.Time `json:"expires_at"` // nil = lifetime access

	Progress EnrollmentProgress `json:"progress" gorm:"embedded;embeddedPrefix:progress_"`

	// Upgrade lineage: set when the row was upgraded standard -> premium
	UpgradedFrom *uint      `json:"upgraded_from"`
	UpgradedAt   *time.Time `json:"upgraded_at"`
}
