package app

import (
	"context"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// OfferMutation changes an offer while it is locked. Returning an error leaves
// the stored offer untouched.
type OfferMutation func(ctx context.Context, offer *domain.Offer) error

type OfferRepository interface {
	CreateOffers(ctx context.Context, offers []domain.Offer) error
	GetOffer(ctx context.Context, id string) (domain.Offer, error)
	UpdateOffer(ctx context.Context, id string, mutate OfferMutation) (domain.Offer, error)
	// ListOffers returns offers newest first.
	ListOffers(ctx context.Context, filter domain.OfferFilter) ([]domain.Offer, error)
	CountByStatus(ctx context.Context, buyerID string) (map[domain.OfferStatus]int, error)
}

type ActionLog interface {
	RecordAction(ctx context.Context, rec domain.OfferActionRecord) error
	ListActions(ctx context.Context, offerID string) ([]domain.OfferActionRecord, error)
}

type BuyerDirectory interface {
	ListBuyers(ctx context.Context) ([]domain.BuyerProfile, error)
	GetBuyer(ctx context.Context, id string) (domain.BuyerProfile, error)
}
