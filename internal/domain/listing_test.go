package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() ListingInput {
	return ListingInput{
		SellerID:    "seller-1",
		Name:        " Toyota Camry 2022 ",
		Description: "Full option",
		Price:       "125000",
		Category:    "Cars",
		Condition:   "Used - excellent",
	}
}

func TestListingInput_Validate(t *testing.T) {
	listing, err := validInput().Validate()
	require.NoError(t, err)
	assert.Equal(t, "Toyota Camry 2022", listing.Name)
	assert.Equal(t, 125000.0, listing.Price)
	assert.Equal(t, "seller-1", listing.SellerID)
}

func TestListingInput_ValidateMissingFields(t *testing.T) {
	in := validInput()
	in.Name = ""
	in.Category = "  "

	_, err := in.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.True(t, verr.Missing[FieldName])
	assert.True(t, verr.Missing[FieldCategory])
	assert.False(t, verr.Missing[FieldPrice])
	assert.Len(t, verr.Missing, 5)
	assert.Contains(t, err.Error(), "name is required")
}

func TestListingInput_ValidatePrice(t *testing.T) {
	for _, price := range []string{"abc", "NaN", "Inf"} {
		in := validInput()
		in.Price = price
		_, err := in.Validate()
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), price)
		assert.Equal(t, "must be a number", verr.Invalid[FieldPrice], price)
		assert.False(t, verr.HasMissing())
	}

	for _, price := range []string{"0", "-10"} {
		in := validInput()
		in.Price = price
		_, err := in.Validate()
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), price)
		assert.Equal(t, "must be positive", verr.Invalid[FieldPrice], price)
	}
}
