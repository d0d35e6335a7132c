package postgres

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
	"github.com/mazroni9/DasmAdminPanel/internal/testutil"
)

func TestOfferRepository(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := NewOfferRepository(pool)
	actions := NewActionLog(pool)
	testutil.ApplyMigrations(t, context.Background(), pool)

	base := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	offer := func(id, listingID, buyerID string, at time.Time) domain.Offer {
		return domain.Offer{
			ID:        id,
			ListingID: listingID,
			BuyerID:   buyerID,
			BuyerName: "Ahmed",
			SellerID:  "seller-1",
			Listing: domain.Listing{
				ID:        listingID,
				SellerID:  "seller-1",
				Name:      "Toyota Camry 2022",
				Price:     85000,
				Category:  "sedan",
				Condition: "used",
			},
			Status:      domain.OfferStatusPending,
			MatchKind:   domain.MatchCategory,
			MatchReason: `Interested in category "sedan"`,
			CreatedAt:   at,
			UpdatedAt:   at,
		}
	}

	t.Run("CreateOffers and GetOffer round trip the listing snapshot", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		if err := repo.CreateOffers(ctx, []domain.Offer{offer("o-1", "l-1", "b-1", base)}); err != nil {
			t.Fatalf("create: %v", err)
		}

		got, err := repo.GetOffer(ctx, "o-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Listing.Name != "Toyota Camry 2022" || got.Listing.Price != 85000 || got.Listing.ID != "l-1" {
			t.Fatalf("unexpected listing: %+v", got.Listing)
		}
		if got.Status != domain.OfferStatusPending || got.MatchKind != domain.MatchCategory {
			t.Fatalf("unexpected offer: %+v", got)
		}
		if !got.CreatedAt.Equal(base) {
			t.Fatalf("expected created_at %v, got %v", base, got.CreatedAt)
		}

		_, err = repo.GetOffer(ctx, "offer-404")
		if !errors.Is(err, domain.ErrOfferNotFound) {
			t.Fatalf("expected ErrOfferNotFound, got %v", err)
		}
	})

	t.Run("CreateOffers is all or nothing", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		if err := repo.CreateOffers(ctx, []domain.Offer{offer("o-1", "l-1", "b-1", base)}); err != nil {
			t.Fatalf("create: %v", err)
		}
		err := repo.CreateOffers(ctx, []domain.Offer{
			offer("o-2", "l-2", "b-2", base),
			offer("o-1", "l-1", "b-1", base),
		})
		if !errors.Is(err, domain.ErrOfferExists) {
			t.Fatalf("expected ErrOfferExists, got %v", err)
		}
		if _, err := repo.GetOffer(ctx, "o-2"); !errors.Is(err, domain.ErrOfferNotFound) {
			t.Fatalf("expected o-2 rolled back, got %v", err)
		}
	})

	t.Run("ListOffers filters and orders newest first", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		testutil.InsertOffer(t, ctx, pool, offer("t1", "l-1", "b-1", base))
		testutil.InsertOffer(t, ctx, pool, offer("t3", "l-3", "b-2", base.Add(2*time.Hour)))
		testutil.InsertOffer(t, ctx, pool, offer("t2", "l-2", "b-1", base.Add(time.Hour)))
		accepted := offer("t0", "l-0", "b-1", base.Add(-time.Hour))
		accepted.Status = domain.OfferStatusAccepted
		testutil.InsertOffer(t, ctx, pool, accepted)

		all, err := repo.ListOffers(ctx, domain.OfferFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if got := ids(all); !equal(got, []string{"t3", "t2", "t1", "t0"}) {
			t.Fatalf("unexpected order: %v", got)
		}

		pendingForB1, err := repo.ListOffers(ctx, domain.OfferFilter{Status: domain.OfferStatusPending, BuyerID: "b-1"})
		if err != nil {
			t.Fatalf("list filtered: %v", err)
		}
		if got := ids(pendingForB1); !equal(got, []string{"t2", "t1"}) {
			t.Fatalf("unexpected filtered offers: %v", got)
		}

		counts, err := repo.CountByStatus(ctx, "b-1")
		if err != nil {
			t.Fatalf("count: %v", err)
		}
		if counts[domain.OfferStatusPending] != 2 || counts[domain.OfferStatusAccepted] != 1 {
			t.Fatalf("unexpected counts: %v", counts)
		}

		counts, err = repo.CountByStatus(ctx, "")
		if err != nil {
			t.Fatalf("count all: %v", err)
		}
		if counts[domain.OfferStatusPending] != 3 {
			t.Fatalf("unexpected counts: %v", counts)
		}
	})

	t.Run("ListOffers breaks timestamp ties by insertion order", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)

		testutil.InsertOffer(t, ctx, pool, offer("first", "l-1", "b-1", base))
		testutil.InsertOffer(t, ctx, pool, offer("second", "l-2", "b-1", base))

		got, err := repo.ListOffers(ctx, domain.OfferFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if !equal(ids(got), []string{"second", "first"}) {
			t.Fatalf("unexpected order: %v", ids(got))
		}
	})

	t.Run("UpdateOffer commits the mutation with its action record", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertOffer(t, ctx, pool, offer("o-1", "l-1", "b-1", base))

		at := base.Add(time.Minute)
		updated, err := repo.UpdateOffer(ctx, "o-1", func(txCtx context.Context, o *domain.Offer) error {
			rec := domain.OfferActionRecord{
				OfferID:        o.ID,
				Action:         domain.OfferActionAccept,
				BuyerID:        o.BuyerID,
				PreviousStatus: o.Status,
				NewStatus:      domain.OfferStatusAccepted,
				Timestamp:      at,
			}
			o.Status = domain.OfferStatusAccepted
			o.UpdatedAt = at
			return actions.RecordAction(txCtx, rec)
		})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Status != domain.OfferStatusAccepted {
			t.Fatalf("expected accepted, got %s", updated.Status)
		}

		stored, err := repo.GetOffer(ctx, "o-1")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if stored.Status != domain.OfferStatusAccepted || !stored.UpdatedAt.Equal(at) {
			t.Fatalf("unexpected stored offer: %+v", stored)
		}

		history, err := actions.ListActions(ctx, "o-1")
		if err != nil {
			t.Fatalf("history: %v", err)
		}
		if len(history) != 1 || history[0].Action != domain.OfferActionAccept || history[0].PreviousStatus != domain.OfferStatusPending {
			t.Fatalf("unexpected history: %+v", history)
		}
	})

	t.Run("UpdateOffer rolls back when the mutation fails", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertOffer(t, ctx, pool, offer("o-1", "l-1", "b-1", base))

		boom := errors.New("boom")
		_, err := repo.UpdateOffer(ctx, "o-1", func(txCtx context.Context, o *domain.Offer) error {
			if err := actions.RecordAction(txCtx, domain.OfferActionRecord{
				OfferID:        o.ID,
				Action:         domain.OfferActionReject,
				PreviousStatus: o.Status,
				NewStatus:      domain.OfferStatusRejected,
				Timestamp:      base,
			}); err != nil {
				return err
			}
			o.Status = domain.OfferStatusRejected
			return boom
		})
		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}

		stored, _ := repo.GetOffer(ctx, "o-1")
		if stored.Status != domain.OfferStatusPending {
			t.Fatalf("expected pending, got %s", stored.Status)
		}
		history, _ := actions.ListActions(ctx, "o-1")
		if len(history) != 0 {
			t.Fatalf("expected no history, got %+v", history)
		}

		_, err = repo.UpdateOffer(ctx, "missing", func(context.Context, *domain.Offer) error { return nil })
		if !errors.Is(err, domain.ErrOfferNotFound) {
			t.Fatalf("expected ErrOfferNotFound, got %v", err)
		}
	})

	t.Run("UpdateOffer serializes concurrent transitions", func(t *testing.T) {
		ctx := context.Background()
		testutil.TruncateAll(t, ctx, pool)
		testutil.InsertOffer(t, ctx, pool, offer("o-1", "l-1", "b-1", base))

		const workers = 6
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for i := 0; i < workers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.UpdateOffer(ctx, "o-1", func(_ context.Context, o *domain.Offer) error {
					if !o.Status.CanTransition() {
						return &domain.StateError{OfferID: o.ID, Current: o.Status}
					}
					o.Status = domain.OfferStatusNegotiating
					return nil
				})
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case errors.Is(err, domain.ErrInvalidOfferState):
					conflicts++
				default:
					t.Errorf("unexpected error: %v", err)
				}
			}()
		}
		wg.Wait()

		if successes != 1 || conflicts != workers-1 {
			t.Fatalf("expected 1 success and %d conflicts, got %d and %d", workers-1, successes, conflicts)
		}
	})
}

func ids(offers []domain.Offer) []string {
	out := make([]string, len(offers))
	for i, o := range offers {
		out[i] = o.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
