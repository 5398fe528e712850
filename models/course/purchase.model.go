package course

import (
	"time"

	"gorm.io/gorm"
)

// Purchase states. A purchase only leaves pending through the payment
// webhook; completed rows are immutable except for the refund transition.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseFailed    = "failed"
	PurchaseRefunded  = "refunded"
)

// Purchase records one attempted payment transaction
type Purchase struct {
	gorm.Model
	CourseID uint   `json:"course_id" gorm:"index;not null"`
	UserID   string `json:"user_id" gorm:"index;not null"`

	Amount        int64  `json:"amount" gorm:"not null"` // final amount in cents
	Currency      string `json:"currency" gorm:"default:'USD'"`
	OriginalPrice int64  `json:"original_price"` // price before discounts, cents
	Discount      int64  `json:"discount" gorm:"default:0"`

	PlanType string `json:"plan_type" gorm:"default:'standard'"` // standard, premium

	StripeSessionID       string `json:"stripe_session_id" gorm:"index"`
	StripePaymentIntentID string `json:"stripe_payment_intent_id"`
	PaymentMethod         string `json:"payment_method" gorm:"default:'card'"`

	Status string `json:"status" gorm:"default:'pending';index"` // pending, completed, failed, refunded

	IsUpgrade    bool  `json:"is_upgrade" gorm:"default:false"`
	UpgradedFrom *uint `json:"upgraded_from"` // previous purchase if upgrade

	CompletedAt *time.Time `json:"completed_at"`
	RefundedAt  *time.Time `json:"refunded_at"`
}
