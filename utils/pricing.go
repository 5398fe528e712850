package utils

import (
	"math"

	"lms/config"
	"lms/database"
	courseModels "lms/models/course"
)

// StandardPrice returns the standard tier price of a course in cents.
// An active standard CoursePlan wins; otherwise the legacy course
// fields (coursePrice minus percentage discount) are used.
func StandardPrice(course *courseModels.Course) int64 {
	if plan := activePlan(course.ID, courseModels.PlanStandard); plan != nil {
		return plan.FinalPrice()
	}
	price := course.CoursePrice - course.Discount*course.CoursePrice/100
	return toCents(price)
}

// PremiumPrice returns the premium tier price of a course in cents.
// Falls back to the legacy premium fields; courses that never set a
// premium price default to coursePrice times the configured factor.
func PremiumPrice(course *courseModels.Course) int64 {
	if plan := activePlan(course.ID, courseModels.PlanPremium); plan != nil {
		return plan.FinalPrice()
	}

	premium := course.PremiumPrice
	if premium <= 0 {
		factor := 1.5
		if config.AppConfig != nil && config.AppConfig.PremiumPriceFactor > 0 {
			factor = config.AppConfig.PremiumPriceFactor
		}
		premium = course.CoursePrice * factor
	}
	premium -= premium * course.PremiumDiscount / 100
	return toCents(premium)
}

// PlanPrice resolves the checkout price for the requested plan tier
func PlanPrice(course *courseModels.Course, planType string) int64 {
	if planType == courseModels.PlanPremium {
		return PremiumPrice(course)
	}
	return StandardPrice(course)
}

// UpgradePrice is the premium/standard price delta, floored at zero so
// an upgrade never charges a negative amount
func UpgradePrice(course *courseModels.Course) int64 {
	delta := PremiumPrice(course) - StandardPrice(course)
	if delta < 0 {
		return 0
	}
	return delta
}

func activePlan(courseID uint, planType string) *courseModels.CoursePlan {
	var plan courseModels.CoursePlan
	err := database.Database.Db.
		Where("course_id = ? AND plan_type = ? AND is_active = ?", courseID, planType, true).
		First(&plan).Error
	if err != nil {
		return nil
	}
	return &plan
}

func toCents(price float64) int64 {
	if price < 0 {
		return 0
	}
	return int64(math.Round(price * 100))
}
