package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// BuyerReader is the minimal interface needed to read the buyer directory.
type BuyerReader interface {
	ListBuyers(ctx context.Context) ([]domain.BuyerProfile, error)
	GetBuyer(ctx context.Context, id string) (domain.BuyerProfile, error)
}

// HandleListBuyers returns an HTTP handler for GET /buyers.
func HandleListBuyers(dir BuyerReader, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}

		buyers, err := dir.ListBuyers(r.Context())
		if err != nil {
			writeDomainError(w, r, logger, err)
			return
		}
		if buyers == nil {
			buyers = []domain.BuyerProfile{}
		}
		writeJSON(w, http.StatusOK, buyersResponse{Success: true, Buyers: buyers, Total: len(buyers)})
	}
}

// HandleBuyer returns an HTTP handler for GET /buyers/{buyerId}.
func HandleBuyer(dir BuyerReader, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/buyers/")
		if id == "" || strings.Contains(id, "/") {
			NotFoundHandler(logger).ServeHTTP(w, r)
			return
		}
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}

		buyer, err := dir.GetBuyer(r.Context(), id)
		if err != nil {
			writeDomainError(w, r, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, buyerEnvelope{Success: true, Buyer: buyer})
	}
}

type buyersResponse struct {
	Success bool                  `json:"success"`
	Buyers  []domain.BuyerProfile `json:"buyers"`
	Total   int                   `json:"total"`
}

type buyerEnvelope struct {
	Success bool                `json:"success"`
	Buyer   domain.BuyerProfile `json:"buyer"`
}
