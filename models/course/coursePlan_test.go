package course

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFinalPriceAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	before := now.Add(-24 * time.Hour)
	after := now.Add(24 * time.Hour)

	tests := []struct {
		name string
		plan CoursePlan
		want int64
	}{
		{
			name: "no discount",
			plan: CoursePlan{Price: 10000},
			want: 10000,
		},
		{
			name: "percentage discount without window",
			plan: CoursePlan{Price: 10000, DiscountType: DiscountPercentage, DiscountValue: 20},
			want: 8000,
		},
		{
			name: "percentage discount inside window",
			plan: CoursePlan{
				Price: 10000, DiscountType: DiscountPercentage, DiscountValue: 20,
				DiscountValidFrom: &before, DiscountValidUntil: &after,
			},
			want: 8000,
		},
		{
			name: "discount window not started",
			plan: CoursePlan{
				Price: 10000, DiscountType: DiscountPercentage, DiscountValue: 20,
				DiscountValidFrom: &after,
			},
			want: 10000,
		},
		{
			name: "discount window expired",
			plan: CoursePlan{
				Price: 10000, DiscountType: DiscountPercentage, DiscountValue: 20,
				DiscountValidUntil: &before,
			},
			want: 10000,
		},
		{
			name: "fixed discount",
			plan: CoursePlan{Price: 10000, DiscountType: DiscountFixed, DiscountValue: 2500},
			want: 7500,
		},
		{
			name: "fixed discount exceeding price floors at zero",
			plan: CoursePlan{Price: 1000, DiscountType: DiscountFixed, DiscountValue: 5000},
			want: 0,
		},
		{
			name: "full percentage discount",
			plan: CoursePlan{Price: 10000, DiscountType: DiscountPercentage, DiscountValue: 100},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.plan.FinalPriceAt(now))
		})
	}
}
