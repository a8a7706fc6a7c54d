package services

import (
	"math"

	"camp-management-backend/internal/models"
)

// PriceForCategory computes a registration's total from the camp base fee and
// the category's discount. A fixed discount amount takes precedence over a
// percentage; the result never goes below zero and is rounded to cents.
func PriceForCategory(baseFee float64, category *models.Category) float64 {
	total := baseFee

	if category.DiscountAmount > 0 {
		total = baseFee - category.DiscountAmount
	} else if category.DiscountPercentage > 0 {
		total = baseFee - baseFee*(category.DiscountPercentage/100)
	}

	if total < 0 {
		total = 0
	}

	return math.Round(total*100) / 100
}
