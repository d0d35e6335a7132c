package domain

import (
	"strings"
	"time"
)

type OfferStatus string

const (
	OfferStatusPending     OfferStatus = "pending"
	OfferStatusAccepted    OfferStatus = "accepted"
	OfferStatusRejected    OfferStatus = "rejected"
	OfferStatusNegotiating OfferStatus = "negotiating"
)

// OfferStatuses lists every status in display order.
var OfferStatuses = []OfferStatus{
	OfferStatusPending,
	OfferStatusAccepted,
	OfferStatusRejected,
	OfferStatusNegotiating,
}

// StatusAll selects every offer when used as a listing filter.
const StatusAll = "all"

// ParseOfferStatus parses a listing filter. An empty string and "all" mean no filter.
func ParseOfferStatus(s string) (OfferStatus, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == StatusAll {
		return "", nil
	}
	for _, status := range OfferStatuses {
		if string(status) == s {
			return status, nil
		}
	}
	return "", ErrInvalidStatusFilter
}

// CanTransition reports whether a buyer action may still change the status.
// Negotiating has no outgoing transition.
func (s OfferStatus) CanTransition() bool {
	return s == OfferStatusPending
}

type OfferAction string

const (
	OfferActionAccept    OfferAction = "accept"
	OfferActionReject    OfferAction = "reject"
	OfferActionNegotiate OfferAction = "negotiate"
)

// OfferActions lists the recognized buyer actions.
var OfferActions = []OfferAction{OfferActionAccept, OfferActionReject, OfferActionNegotiate}

func ParseOfferAction(s string) (OfferAction, error) {
	switch OfferAction(s) {
	case OfferActionAccept, OfferActionReject, OfferActionNegotiate:
		return OfferAction(s), nil
	default:
		return "", ErrInvalidAction
	}
}

// TargetStatus is the status an offer moves to when the action is applied.
func (a OfferAction) TargetStatus() OfferStatus {
	switch a {
	case OfferActionAccept:
		return OfferStatusAccepted
	case OfferActionReject:
		return OfferStatusRejected
	case OfferActionNegotiate:
		return OfferStatusNegotiating
	default:
		return ""
	}
}

// Offer pairs a listing snapshot with a qualified buyer.
type Offer struct {
	ID          string
	ListingID   string
	BuyerID     string
	BuyerName   string
	BuyerEmail  string
	SellerID    string
	Listing     Listing
	Status      OfferStatus
	MatchKind   MatchKind
	MatchReason string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OfferActionRecord is the audit entry written for every applied buyer action.
type OfferActionRecord struct {
	OfferID        string
	Action         OfferAction
	BuyerID        string
	PreviousStatus OfferStatus
	NewStatus      OfferStatus
	Timestamp      time.Time
}

// OfferFilter narrows offer listings. Zero values match everything.
type OfferFilter struct {
	Status  OfferStatus
	BuyerID string
}

func (f OfferFilter) Matches(o Offer) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.BuyerID != "" && o.BuyerID != f.BuyerID {
		return false
	}
	return true
}
