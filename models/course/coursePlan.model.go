package course

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Plan tiers
const (
	PlanStandard = "standard"
	PlanPremium  = "premium"
)

// Discount types
const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

// CoursePlan holds the pricing of one tier of a course. At most one
// active plan exists per (course, planType) pair.
type CoursePlan struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"uniqueIndex:idx_course_plan_type;not null"`
	PlanType string `json:"plan_type" gorm:"uniqueIndex:idx_course_plan_type;not null"` // standard, premium

	Price    int64  `json:"price" gorm:"not null"` // in cents (e.g. 4999 = $49.99)
	Currency string `json:"currency" gorm:"default:'USD'"`

	DiscountType       string     `json:"discount_type" gorm:"default:'percentage'"` // percentage, fixed
	DiscountValue      int64      `json:"discount_value" gorm:"default:0"`           // percent, or cents for fixed
	DiscountValidFrom  *time.Time `json:"discount_valid_from"`
	DiscountValidUntil *time.Time `json:"discount_valid_until"`

	Features        datatypes.JSON `json:"features"`         // e.g. ["lifetime_access", "certificate"]
	PremiumBenefits datatypes.JSON `json:"premium_benefits"` // premium tier only

	LessonAccessLevel string `json:"lesson_access_level" gorm:"default:'standard'"` // free, standard, premium

	IsActive bool `json:"is_active" gorm:"default:true;index"`
}

// FinalPrice returns the price in cents after applying the discount,
// but only when now falls inside the discount validity window.
func (p *CoursePlan) FinalPrice() int64 {
	return p.FinalPriceAt(time.Now())
}

// FinalPriceAt is FinalPrice evaluated at a given instant
func (p *CoursePlan) FinalPriceAt(now time.Time) int64 {
	if p.DiscountValue == 0 {
		return p.Price
	}
	if p.DiscountValidFrom != nil && now.Before(*p.DiscountValidFrom) {
		return p.Price
	}
	if p.DiscountValidUntil != nil && now.After(*p.DiscountValidUntil) {
		return p.Price
	}

	if p.DiscountType == DiscountFixed {
		discounted := p.Price - p.DiscountValue
		if discounted < 0 {
			return 0
		}
		return discounted
	}
	// percentage
	return p.Price - p.Price*p.DiscountValue/100
}
