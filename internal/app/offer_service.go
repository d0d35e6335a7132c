package app

import (
	"context"
	"log/slog"

	"github.com/mazroni9/DasmAdminPanel/internal/clock"
	"github.com/mazroni9/DasmAdminPanel/internal/domain"
	"github.com/mazroni9/DasmAdminPanel/internal/notify"
)

type OfferService struct {
	offers  OfferRepository
	actions ActionLog
	emitter notify.Emitter
	clock   clock.Clock
	logger  *slog.Logger
}

type OfferServiceOption func(*OfferService)

// WithOfferLogger overrides the logger used for notification failures.
func WithOfferLogger(logger *slog.Logger) OfferServiceOption {
	return func(s *OfferService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewOfferService(offers OfferRepository, actions ActionLog, emitter notify.Emitter, clk clock.Clock, opts ...OfferServiceOption) *OfferService {
	svc := &OfferService{
		offers:  offers,
		actions: actions,
		emitter: emitter,
		clock:   clk,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

type ApplyInput struct {
	OfferID string
	Action  domain.OfferAction
}

type ApplyResult struct {
	Offer        domain.Offer
	Record       domain.OfferActionRecord
	Notification domain.Notification
}

// Apply moves a pending offer to the status implied by the buyer's action.
// Offers that already left pending are rejected with a *domain.StateError.
func (s *OfferService) Apply(ctx context.Context, in ApplyInput) (ApplyResult, error) {
	action, err := domain.ParseOfferAction(string(in.Action))
	if err != nil {
		return ApplyResult{}, err
	}
	if in.OfferID == "" {
		return ApplyResult{}, domain.ErrOfferNotFound
	}

	now := s.clock.Now()
	var rec domain.OfferActionRecord

	offer, err := s.offers.UpdateOffer(ctx, in.OfferID, func(txCtx context.Context, o *domain.Offer) error {
		if !o.Status.CanTransition() {
			return &domain.StateError{OfferID: o.ID, Current: o.Status}
		}

		rec = domain.OfferActionRecord{
			OfferID:        o.ID,
			Action:         action,
			BuyerID:        o.BuyerID,
			PreviousStatus: o.Status,
			NewStatus:      action.TargetStatus(),
			Timestamp:      now,
		}
		o.Status = rec.NewStatus
		o.UpdatedAt = now

		return s.actions.RecordAction(txCtx, rec)
	})
	if err != nil {
		return ApplyResult{}, err
	}

	n := notify.ForBuyerAction(offer, rec)
	if err := s.emitter.Emit(ctx, n); err != nil {
		s.logger.WarnContext(ctx, "failed to emit seller notification",
			"offer_id", offer.ID,
			"seller_id", offer.SellerID,
			"error", err,
		)
	}

	return ApplyResult{
		Offer:        offer,
		Record:       rec,
		Notification: n,
	}, nil
}

func (s *OfferService) Get(ctx context.Context, id string) (domain.Offer, error) {
	if id == "" {
		return domain.Offer{}, domain.ErrOfferNotFound
	}
	return s.offers.GetOffer(ctx, id)
}

// History returns the recorded actions for an existing offer, oldest first.
func (s *OfferService) History(ctx context.Context, id string) ([]domain.OfferActionRecord, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.actions.ListActions(ctx, id)
}

type OfferList struct {
	Offers      []domain.Offer
	Total       int
	Pending     int
	Accepted    int
	Rejected    int
	Negotiating int
}

// List returns offers newest first. Status counts cover every offer in the
// buyer scope regardless of the status filter.
func (s *OfferService) List(ctx context.Context, filter domain.OfferFilter) (OfferList, error) {
	offers, err := s.offers.ListOffers(ctx, filter)
	if err != nil {
		return OfferList{}, err
	}
	counts, err := s.offers.CountByStatus(ctx, filter.BuyerID)
	if err != nil {
		return OfferList{}, err
	}
	if offers == nil {
		offers = []domain.Offer{}
	}
	return OfferList{
		Offers:      offers,
		Total:       len(offers),
		Pending:     counts[domain.OfferStatusPending],
		Accepted:    counts[domain.OfferStatusAccepted],
		Rejected:    counts[domain.OfferStatusRejected],
		Negotiating: counts[domain.OfferStatusNegotiating],
	}, nil
}
