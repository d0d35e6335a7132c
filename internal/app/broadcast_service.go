package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mazroni9/DasmAdminPanel/internal/clock"
	"github.com/mazroni9/DasmAdminPanel/internal/domain"
	"github.com/mazroni9/DasmAdminPanel/internal/matching"
	"github.com/mazroni9/DasmAdminPanel/internal/notify"
)

const defaultSellerID = "unknown-seller"

type BroadcastService struct {
	buyers   BuyerDirectory
	offers   OfferRepository
	emitter  notify.Emitter
	clock    clock.Clock
	logger   *slog.Logger
	sellerID string
}

type BroadcastServiceOption func(*BroadcastService)

// WithDefaultSeller sets the seller used when a listing names none.
func WithDefaultSeller(id string) BroadcastServiceOption {
	return func(s *BroadcastService) {
		if id != "" {
			s.sellerID = id
		}
	}
}

// WithBroadcastLogger overrides the logger used for notification failures.
func WithBroadcastLogger(logger *slog.Logger) BroadcastServiceOption {
	return func(s *BroadcastService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewBroadcastService(buyers BuyerDirectory, offers OfferRepository, emitter notify.Emitter, clk clock.Clock, opts ...BroadcastServiceOption) *BroadcastService {
	svc := &BroadcastService{
		buyers:   buyers,
		offers:   offers,
		emitter:  emitter,
		clock:    clk,
		logger:   slog.Default(),
		sellerID: defaultSellerID,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type BroadcastResult struct {
	Listing domain.Listing
	Matches []domain.Match
	Offers  []domain.Offer
}

// Preview validates the listing and reports the qualified buyers without
// creating offers.
func (s *BroadcastService) Preview(ctx context.Context, in domain.ListingInput) (domain.Listing, []domain.Match, error) {
	listing, err := s.prepare(in)
	if err != nil {
		return domain.Listing{}, nil, err
	}
	buyers, err := s.buyers.ListBuyers(ctx)
	if err != nil {
		return domain.Listing{}, nil, fmt.Errorf("list buyers: %w", err)
	}
	return listing, matching.Match(listing, buyers), nil
}

// Broadcast matches the listing against the buyer directory and creates one
// pending offer per qualified buyer.
func (s *BroadcastService) Broadcast(ctx context.Context, in domain.ListingInput) (BroadcastResult, error) {
	listing, matches, err := s.Preview(ctx, in)
	if err != nil {
		return BroadcastResult{}, err
	}

	now := s.clock.Now()
	offers := make([]domain.Offer, 0, len(matches))
	for _, m := range matches {
		offers = append(offers, domain.Offer{
			ID:          offerID(listing.ID, m.Buyer.ID),
			ListingID:   listing.ID,
			BuyerID:     m.Buyer.ID,
			BuyerName:   m.Buyer.Name,
			BuyerEmail:  m.Buyer.Email,
			SellerID:    listing.SellerID,
			Listing:     listing,
			Status:      domain.OfferStatusPending,
			MatchKind:   m.Kind,
			MatchReason: m.Reason,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if len(offers) > 0 {
		if err := s.offers.CreateOffers(ctx, offers); err != nil {
			return BroadcastResult{}, err
		}
	}

	for _, offer := range offers {
		n := notify.ForOfferCreated(offer)
		if err := s.emitter.Emit(ctx, n); err != nil {
			s.logger.WarnContext(ctx, "failed to emit offer notification",
				"offer_id", offer.ID,
				"buyer_id", offer.BuyerID,
				"error", err,
			)
		}
	}

	return BroadcastResult{
		Listing: listing,
		Matches: matches,
		Offers:  offers,
	}, nil
}

func (s *BroadcastService) prepare(in domain.ListingInput) (domain.Listing, error) {
	listing, err := in.Validate()
	if err != nil {
		return domain.Listing{}, err
	}
	listing.ID = newListingID()
	if listing.SellerID == "" {
		listing.SellerID = s.sellerID
	}
	return listing, nil
}
