// Package notify builds notification records for offer events and hands them to
// an Emitter. Delivery (push, email, SMS) is not handled here.
package notify

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// OfferCreatedMessage is the text a buyer receives for a personalized offer.
func OfferCreatedMessage(product string) string {
	return fmt.Sprintf("You have a personalized offer: %s", product)
}

// ActionMessage is the text a seller receives when a buyer acts on an offer.
func ActionMessage(action domain.OfferAction, product string) string {
	switch action {
	case domain.OfferActionAccept:
		return fmt.Sprintf(`Offer for "%s" accepted`, product)
	case domain.OfferActionReject:
		return fmt.Sprintf(`Offer for "%s" rejected`, product)
	case domain.OfferActionNegotiate:
		return fmt.Sprintf(`Negotiation requested for "%s"`, product)
	default:
		return fmt.Sprintf(`Offer for "%s" updated`, product)
	}
}

// ForOfferCreated addresses the buyer of a freshly matched offer.
func ForOfferCreated(offer domain.Offer) domain.Notification {
	return domain.Notification{
		ID:          uuid.NewString(),
		Type:        domain.NotificationPersonalizedOffer,
		RecipientID: offer.BuyerID,
		Message:     OfferCreatedMessage(offer.Listing.Name),
		Payload: map[string]any{
			"offerId":     offer.ID,
			"listingId":   offer.ListingID,
			"productName": offer.Listing.Name,
			"price":       offer.Listing.Price,
			"category":    offer.Listing.Category,
			"matchReason": offer.MatchReason,
		},
		CreatedAt: offer.CreatedAt,
	}
}

// ForBuyerAction addresses the seller of the offer's listing.
func ForBuyerAction(offer domain.Offer, rec domain.OfferActionRecord) domain.Notification {
	return domain.Notification{
		ID:          uuid.NewString(),
		Type:        domain.NotificationBuyerAction,
		RecipientID: offer.SellerID,
		Message:     ActionMessage(rec.Action, offer.Listing.Name),
		Payload: map[string]any{
			"offerId":     offer.ID,
			"action":      string(rec.Action),
			"newStatus":   string(rec.NewStatus),
			"productName": offer.Listing.Name,
			"buyerId":     rec.BuyerID,
			"timestamp":   rec.Timestamp.Format(time.RFC3339),
		},
		CreatedAt: rec.Timestamp,
	}
}
