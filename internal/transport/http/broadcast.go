package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mazroni9/DasmAdminPanel/internal/app"
	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// Broadcaster is the minimal interface needed to broadcast a listing.
type Broadcaster interface {
	Broadcast(ctx context.Context, in domain.ListingInput) (app.BroadcastResult, error)
}

// HandleBroadcast returns an HTTP handler that matches a listing against the
// buyer directory and creates the resulting offers.
func HandleBroadcast(svc Broadcaster, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w, http.MethodPost)
			return
		}

		var req broadcastRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidRequestBody, "invalid request body")
			return
		}

		res, err := svc.Broadcast(r.Context(), req.input())
		if err != nil {
			writeDomainError(w, r, logger, err)
			return
		}

		buyers := make([]matchedBuyer, 0, len(res.Matches))
		for _, m := range res.Matches {
			buyers = append(buyers, matchedBuyer{
				ID:          m.Buyer.ID,
				Name:        m.Buyer.Name,
				MatchReason: m.Reason,
				MatchKind:   string(m.Kind),
			})
		}

		summary := broadcastSummary{
			QualifiedBuyersCount: len(res.Matches),
			Buyers:               buyers,
			OffersCount:          len(res.Offers),
		}
		writeJSON(w, http.StatusOK, broadcastResponse{
			Success:          true,
			Message:          fmt.Sprintf("offer sent to %d qualified buyers", len(res.Offers)),
			broadcastSummary: summary,
			Data: broadcastData{
				Listing:          res.Listing,
				broadcastSummary: summary,
			},
		})
	}
}

type broadcastRequest struct {
	SellerID    string      `json:"sellerId"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Desc        string      `json:"desc"`
	Price       priceString `json:"price"`
	Category    string      `json:"category"`
	Condition   string      `json:"condition"`
}

func (r broadcastRequest) input() domain.ListingInput {
	desc := r.Description
	if desc == "" {
		desc = r.Desc
	}
	return domain.ListingInput{
		SellerID:    r.SellerID,
		Name:        r.Name,
		Description: desc,
		Price:       string(r.Price),
		Category:    r.Category,
		Condition:   r.Condition,
	}
}

// priceString accepts a JSON string or number and keeps its text form.
type priceString string

func (p *priceString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*p = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = priceString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("price must be a string or number: %w", err)
	}
	*p = priceString(n.String())
	return nil
}

type matchedBuyer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MatchReason string `json:"matchReason"`
	MatchKind   string `json:"matchKind"`
}

type broadcastSummary struct {
	QualifiedBuyersCount int            `json:"qualifiedBuyersCount"`
	Buyers               []matchedBuyer `json:"buyers"`
	OffersCount          int            `json:"offersCount"`
}

type broadcastData struct {
	Listing domain.Listing `json:"listing"`
	broadcastSummary
}

type broadcastResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	broadcastSummary
	Data broadcastData `json:"data"`
}
