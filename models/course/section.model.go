package course

import (
	"gorm.io/gorm"
)

// Section is the normalized replacement for a legacy embedded chapter
type Section struct {
	gorm.Model
	CourseID uint `json:"course_id" gorm:"uniqueIndex:idx_section_course_sid;not null"`

	// Public id kept from the legacy chapterId for frontend compatibility
	SectionID string `json:"section_id" gorm:"uniqueIndex:idx_section_course_sid;not null"`

	Title             string `json:"title" gorm:"not null"`
	LearningObjective string `json:"learning_objective"`

	OrderIndex int `json:"order_index" gorm:"default:0"` // display order within the course

	IsPublished bool `json:"is_published" gorm:"default:true"`
}
