package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mazroni9/DasmAdminPanel/internal/app"
	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

type storedOffer struct {
	offer domain.Offer
	seq   int64
}

// OfferStore keeps offers in a map. Updates to one offer are serialized by a
// per-offer mutex; different offers never wait on each other.
type OfferStore struct {
	mu     sync.RWMutex
	offers map[string]storedOffer
	seq    int64

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewOfferStore() *OfferStore {
	return &OfferStore{
		offers: make(map[string]storedOffer),
		locks:  make(map[string]*sync.Mutex),
	}
}

var _ app.OfferRepository = (*OfferStore)(nil)

// CreateOffers inserts all offers or none of them.
func (s *OfferStore) CreateOffers(_ context.Context, offers []domain.Offer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(offers))
	for _, o := range offers {
		if o.ID == "" {
			return domain.ErrInvalidID
		}
		if _, exists := s.offers[o.ID]; exists {
			return domain.ErrOfferExists
		}
		if _, dup := seen[o.ID]; dup {
			return domain.ErrOfferExists
		}
		seen[o.ID] = struct{}{}
	}

	for _, o := range offers {
		s.seq++
		s.offers[o.ID] = storedOffer{offer: o, seq: s.seq}
	}
	return nil
}

func (s *OfferStore) GetOffer(_ context.Context, id string) (domain.Offer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.offers[id]
	if !ok {
		return domain.Offer{}, domain.ErrOfferNotFound
	}
	return stored.offer, nil
}

func (s *OfferStore) UpdateOffer(ctx context.Context, id string, mutate app.OfferMutation) (domain.Offer, error) {
	lock := s.keyLock(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.RLock()
	stored, ok := s.offers[id]
	s.mu.RUnlock()
	if !ok {
		return domain.Offer{}, domain.ErrOfferNotFound
	}

	working := stored.offer
	if err := mutate(ctx, &working); err != nil {
		return domain.Offer{}, err
	}
	working.ID = id

	s.mu.Lock()
	stored.offer = working
	s.offers[id] = stored
	s.mu.Unlock()

	return working, nil
}

func (s *OfferStore) ListOffers(_ context.Context, filter domain.OfferFilter) ([]domain.Offer, error) {
	s.mu.RLock()
	matched := make([]storedOffer, 0, len(s.offers))
	for _, stored := range s.offers {
		if filter.Matches(stored.offer) {
			matched = append(matched, stored)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.offer.CreatedAt.Equal(b.offer.CreatedAt) {
			return a.offer.CreatedAt.After(b.offer.CreatedAt)
		}
		return a.seq > b.seq
	})

	out := make([]domain.Offer, 0, len(matched))
	for _, stored := range matched {
		out = append(out, stored.offer)
	}
	return out, nil
}

func (s *OfferStore) CountByStatus(_ context.Context, buyerID string) (map[domain.OfferStatus]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[domain.OfferStatus]int, len(domain.OfferStatuses))
	for _, stored := range s.offers {
		if buyerID != "" && stored.offer.BuyerID != buyerID {
			continue
		}
		counts[stored.offer.Status]++
	}
	return counts, nil
}

func (s *OfferStore) keyLock(id string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}
