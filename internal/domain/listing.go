package domain

import (
	"math"
	"strconv"
	"strings"
)

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldCategory    = "category"
	FieldCondition   = "condition"
)

var listingFields = []string{FieldName, FieldDescription, FieldPrice, FieldCategory, FieldCondition}

// Listing is a seller's product broadcast for matching. It is never mutated after
// submission; offers keep their own copy.
type Listing struct {
	ID          string  `json:"id"`
	SellerID    string  `json:"sellerId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Condition   string  `json:"condition"`
}

// ListingInput is the raw listing as submitted; price is still text.
type ListingInput struct {
	SellerID    string
	Name        string
	Description string
	Price       string
	Category    string
	Condition   string
}

// Validate checks that every field is present and the price is a positive number.
func (in ListingInput) Validate() (Listing, error) {
	name := strings.TrimSpace(in.Name)
	desc := strings.TrimSpace(in.Description)
	price := strings.TrimSpace(in.Price)
	category := strings.TrimSpace(in.Category)
	condition := strings.TrimSpace(in.Condition)

	verr := &ValidationError{
		Missing: map[string]bool{
			FieldName:        name == "",
			FieldDescription: desc == "",
			FieldPrice:       price == "",
			FieldCategory:    category == "",
			FieldCondition:   condition == "",
		},
	}

	var amount float64
	if price != "" {
		parsed, err := strconv.ParseFloat(price, 64)
		switch {
		case err != nil, math.IsNaN(parsed), math.IsInf(parsed, 0):
			verr.Invalid = map[string]string{FieldPrice: "must be a number"}
		case parsed <= 0:
			verr.Invalid = map[string]string{FieldPrice: "must be positive"}
		default:
			amount = parsed
		}
	}

	if verr.HasMissing() || len(verr.Invalid) > 0 {
		return Listing{}, verr
	}

	return Listing{
		SellerID:    strings.TrimSpace(in.SellerID),
		Name:        name,
		Description: desc,
		Price:       amount,
		Category:    category,
		Condition:   condition,
	}, nil
}
