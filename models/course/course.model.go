package course

import (
	"regexp"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Course lifecycle states. Legacy rows may still carry the old
// uppercase values until BeforeSave or the legacy migration touches them.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// CourseStats holds denormalized counters recomputed from the
// Enrollment/Rating/Purchase tables. Never mutated incrementally.
type CourseStats struct {
	TotalEnrollments    int64   `json:"total_enrollments" gorm:"default:0"`
	StandardEnrollments int64   `json:"standard_enrollments" gorm:"default:0"`
	PremiumEnrollments  int64   `json:"premium_enrollments" gorm:"default:0"`
	AverageRating       float64 `json:"average_rating" gorm:"default:0"`
	TotalRatings        int64   `json:"total_ratings" gorm:"default:0"`
	TotalRevenue        int64   `json:"total_revenue" gorm:"default:0"` // in cents
}

// Course represents a marketplace course owned by one educator
type Course struct {
	gorm.Model
	Title       string `json:"title" gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	Thumbnail   string `json:"thumbnail"`
	Slug        string `json:"slug" gorm:"index"`

	EducatorID string `json:"educator_id" gorm:"index;not null"`

	Status string `json:"status" gorm:"default:'draft';index"` // draft, published, archived

	// Legacy pricing fields, kept for backward compatibility during the
	// schema migration. New pricing lives in CoursePlan.
	CoursePrice     float64        `json:"course_price" gorm:"default:0"`
	Discount        float64        `json:"discount" gorm:"default:0"` // percentage 0-100
	PricingTier     string         `json:"pricing_tier" gorm:"default:'standard'"`
	PremiumPrice    float64        `json:"premium_price" gorm:"default:0"`
	PremiumDiscount float64        `json:"premium_discount" gorm:"default:0"`
	PremiumFeatures datatypes.JSON `json:"premium_features"`

	// Legacy embedded content (chapters with lectures). Write-once source
	// data for the migration; normalized Section/Lesson rows are the source
	// of truth for new logic.
	CourseContent datatypes.JSON `json:"course_content"`

	// Legacy embedded arrays, superseded by Enrollment and Rating rows.
	EnrolledStudents datatypes.JSON `json:"enrolled_students"`
	CourseRatings    datatypes.JSON `json:"course_ratings"`

	Category string         `json:"category" gorm:"default:'Uncategorized'"`
	Tags     datatypes.JSON `json:"tags"`
	Level    string         `json:"level" gorm:"default:'beginner'"` // beginner, intermediate, advanced
	Language string         `json:"language" gorm:"default:'en'"`

	Stats CourseStats `json:"stats" gorm:"embedded;embeddedPrefix:stats_"`

	PublishedAt *time.Time `json:"published_at"`
	IsDeleted   bool       `gorm:"default:false"`
}

// LegacyLecture mirrors one lecture entry inside the embedded course content
type LegacyLecture struct {
	LectureID       string  `json:"lectureId"`
	LectureTitle    string  `json:"lectureTitle"`
	LectureDuration float64 `json:"lectureDuration"` // minutes
	LectureURL      string  `json:"lectureUrl"`
	LectureContent  string  `json:"lectureContent"`
	LectureType     string  `json:"lectureType"`
	IsPreviewFree   bool    `json:"isPreviewFree"`
	LectureOrder    int     `json:"lectureOrder"`
}

// LegacyChapter mirrors one chapter entry inside the embedded course content
type LegacyChapter struct {
	ChapterID         string          `json:"chapterId"`
	ChapterOrder      int             `json:"chapterOrder"`
	ChapterTitle      string          `json:"chapterTitle"`
	LearningObjective string          `json:"learningObjective"`
	ChapterContent    []LegacyLecture `json:"chapterContent"`
}

// LegacyRating mirrors one entry of the embedded ratings array
type LegacyRating struct {
	UserID string `json:"userId"`
	Rating int    `json:"rating"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify builds an URL-friendly slug from a course title
func Slugify(title string) string {
	slug := slugCleaner.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}

// NormalizeStatus coerces legacy status variants (DRAFT, PUBLISHED, ...)
// to the canonical lowercase form
func NormalizeStatus(status string) string {
	switch strings.ToLower(status) {
	case StatusPublished:
		return StatusPublished
	case StatusArchived:
		return StatusArchived
	default:
		return StatusDraft
	}
}

// BeforeSave normalizes the status casing, generates the slug and stamps
// PublishedAt on the first transition to published
func (c *Course) BeforeSave(tx *gorm.DB) error {
	c.Status = NormalizeStatus(c.Status)

	if c.Slug == "" && c.Title != "" {
		c.Slug = Slugify(c.Title)
	}

	if c.Status == StatusPublished && c.PublishedAt == nil {
		now := time.Now()
		c.PublishedAt = &now
	}
	return nil
}
