package course

import (
	"gorm.io/gorm"
)

// Rating moderation states
const (
	RatingPending   = "pending"
	RatingPublished = "published"
	RatingHidden    = "hidden"
)

// Rating is one user's 1-5 review of a course. Only users holding an
// active enrollment may create one (verified-purchase invariant).
type Rating struct {
	gorm.Model
	UserID   string `json:"user_id" gorm:"uniqueIndex:idx_rating_user_course;not null"`
	CourseID uint   `json:"course_id" gorm:"uniqueIndex:idx_rating_user_course;not null;index:idx_rating_course_status"`

	Rating int    `json:"rating" gorm:"not null"` // 1-5
	Review string `json:"review" gorm:"type:text"`

	IsVerifiedPurchase bool `json:"is_verified_purchase" gorm:"default:false"`

	Status string `json:"status" gorm:"default:'published';index:idx_rating_course_status"` // pending, published, hidden

	HelpfulCount int `json:"helpful_count" gorm:"default:0"`
}
