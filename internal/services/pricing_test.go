package services

import (
	"testing"

	"camp-management-backend/internal/models"
)

func TestPriceForCategory(t *testing.T) {
	tests := []struct {
		name     string
		baseFee  float64
		category models.Category
		want     float64
	}{
		{
			name:     "no discount",
			baseFee:  100,
			category: models.Category{},
			want:     100,
		},
		{
			name:     "percentage discount",
			baseFee:  100,
			category: models.Category{DiscountPercentage: 20},
			want:     80,
		},
		{
			name:     "fixed amount discount",
			baseFee:  100,
			category: models.Category{DiscountAmount: 30},
			want:     70,
		},
		{
			name:     "amount takes precedence over percentage",
			baseFee:  100,
			category: models.Category{DiscountAmount: 30, DiscountPercentage: 50},
			want:     70,
		},
		{
			name:     "discount larger than fee floors at zero",
			baseFee:  50,
			category: models.Category{DiscountAmount: 80},
			want:     0,
		},
		{
			name:     "full percentage discount",
			baseFee:  100,
			category: models.Category{DiscountPercentage: 100},
			want:     0,
		},
		{
			name:     "fractional result rounds to cents",
			baseFee:  99.99,
			category: models.Category{DiscountPercentage: 33},
			want:     66.99,
		},
		{
			name:     "zero base fee",
			baseFee:  0,
			category: models.Category{DiscountPercentage: 50},
			want:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PriceForCategory(tt.baseFee, &tt.category)
			if got != tt.want {
				t.Errorf("PriceForCategory(%v) = %v, want %v", tt.baseFee, got, tt.want)
			}
		})
	}
}

func TestPriceForCategoryNeverNegative(t *testing.T) {
	fees := []float64{0, 1, 25.50, 100, 9999.99}
	categories := []models.Category{
		{DiscountAmount: 10000},
		{DiscountPercentage: 100},
		{DiscountAmount: 500, DiscountPercentage: 100},
	}

	for _, fee := range fees {
		for _, category := range categories {
			if got := PriceForCategory(fee, &category); got < 0 {
				t.Errorf("PriceForCategory(%v, %+v) = %v, want >= 0", fee, category, got)
			}
		}
	}
}
