package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrOfferNotFound       = errors.New("offer not found")
	ErrOfferExists         = errors.New("offer already exists")
	ErrInvalidOfferState   = errors.New("offer is not pending")
	ErrInvalidAction       = errors.New("invalid offer action")
	ErrInvalidStatusFilter = errors.New("invalid status filter")
	ErrBuyerNotFound       = errors.New("buyer not found")
	ErrInvalidID           = errors.New("invalid id")
)

// StateError reports a transition attempted on an offer that already left pending.
type StateError struct {
	OfferID string
	Current OfferStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("offer %s is %s: only pending offers can change status", e.OfferID, e.Current)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidOfferState
}

// ValidationError lists the listing fields that were missing or malformed.
type ValidationError struct {
	Missing map[string]bool
	Invalid map[string]string
}

func (e *ValidationError) Error() string {
	var parts []string
	for _, field := range listingFields {
		if e.Missing[field] {
			parts = append(parts, field+" is required")
		}
	}
	invalid := make([]string, 0, len(e.Invalid))
	for field := range e.Invalid {
		invalid = append(invalid, field)
	}
	sort.Strings(invalid)
	for _, field := range invalid {
		parts = append(parts, field+": "+e.Invalid[field])
	}
	if len(parts) == 0 {
		return "invalid listing"
	}
	return "invalid listing: " + strings.Join(parts, ", ")
}

// HasMissing reports whether any required field was absent.
func (e *ValidationError) HasMissing() bool {
	for _, missing := range e.Missing {
		if missing {
			return true
		}
	}
	return false
}
