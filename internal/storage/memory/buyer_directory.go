package memory

import (
	"context"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// BuyerDirectory serves a fixed list of buyer profiles in the order given.
type BuyerDirectory struct {
	buyers []domain.BuyerProfile
}

func NewBuyerDirectory(buyers []domain.BuyerProfile) *BuyerDirectory {
	return &BuyerDirectory{buyers: cloneBuyers(buyers)}
}

func (d *BuyerDirectory) ListBuyers(_ context.Context) ([]domain.BuyerProfile, error) {
	return cloneBuyers(d.buyers), nil
}

func (d *BuyerDirectory) GetBuyer(_ context.Context, id string) (domain.BuyerProfile, error) {
	for _, b := range d.buyers {
		if b.ID == id {
			return cloneBuyer(b), nil
		}
	}
	return domain.BuyerProfile{}, domain.ErrBuyerNotFound
}

func cloneBuyers(in []domain.BuyerProfile) []domain.BuyerProfile {
	out := make([]domain.BuyerProfile, 0, len(in))
	for _, b := range in {
		out = append(out, cloneBuyer(b))
	}
	return out
}

func cloneBuyer(b domain.BuyerProfile) domain.BuyerProfile {
	b.Interests = append([]string{}, b.Interests...)
	b.Favorites = append([]string{}, b.Favorites...)
	b.PreviousRequests = append([]string{}, b.PreviousRequests...)
	return b
}
