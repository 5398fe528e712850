package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Lesson types
const (
	LessonVideo      = "video"
	LessonArticle    = "article"
	LessonQuiz       = "quiz"
	LessonAssignment = "assignment"
)

// Lesson access levels: the minimum plan tier required to view it.
// Free lessons need no enrollment at all.
const (
	AccessFree     = "free"
	AccessStandard = "standard"
	AccessPremium  = "premium"
)

// LessonContent is the media/text payload of a lesson, depending on type
type LessonContent struct {
	VideoURL  string         `json:"video_url"`
	Duration  int64          `json:"duration" gorm:"default:0"` // in seconds
	Text      string         `json:"text" gorm:"type:text"`     // article content or description
	Resources datatypes.JSON `json:"resources"`                 // [{name, url}]
}

// Lesson is the normalized replacement for a legacy embedded lecture
type Lesson struct {
	gorm.Model
	CourseID  uint `json:"course_id" gorm:"uniqueIndex:idx_lesson_course_lid;not null;index:idx_lesson_course_access"`
	SectionID uint `json:"section_id" gorm:"index;not null"`

	// Public id kept from the legacy lectureId for frontend compatibility
	LectureID string `json:"lecture_id" gorm:"uniqueIndex:idx_lesson_course_lid;not null"`

	Title string `json:"title" gorm:"not null"`
	Type  string `json:"type" gorm:"default:'video'"` // video, article, quiz, assignment

	Content LessonContent `json:"content" gorm:"embedded;embeddedPrefix:content_"`

	AccessLevel string `json:"access_level" gorm:"default:'standard';not null;index:idx_lesson_course_access"` // free, standard, premium

	IsPreviewFree bool `json:"is_preview_free" gorm:"default:false"`

	OrderIndex int `json:"order_index" gorm:"default:0"` // display order within the section

	IsPublished bool `json:"is_published" gorm:"default:true"`
}
