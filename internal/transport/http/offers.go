package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mazroni9/DasmAdminPanel/internal/app"
	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// OfferService is the minimal interface needed for the offer endpoints.
type OfferService interface {
	Apply(ctx context.Context, in app.ApplyInput) (app.ApplyResult, error)
	Get(ctx context.Context, id string) (domain.Offer, error)
	History(ctx context.Context, id string) ([]domain.OfferActionRecord, error)
	List(ctx context.Context, filter domain.OfferFilter) (app.OfferList, error)
}

// HandleListOffers returns an HTTP handler for GET /offers.
func HandleListOffers(svc OfferService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}

		q := r.URL.Query()
		status, err := domain.ParseOfferStatus(q.Get("status"))
		if err != nil {
			writeDomainError(w, r, logger, err)
			return
		}

		list, err := svc.List(r.Context(), domain.OfferFilter{
			Status:  status,
			BuyerID: strings.TrimSpace(q.Get("buyerId")),
		})
		if err != nil {
			writeDomainError(w, r, logger, err)
			return
		}

		offers := make([]offerResponse, 0, len(list.Offers))
		for _, o := range list.Offers {
			offers = append(offers, toOfferResponse(o))
		}
		writeJSON(w, http.StatusOK, listOffersResponse{
			Success:     true,
			Offers:      offers,
			Total:       list.Total,
			Pending:     list.Pending,
			Accepted:    list.Accepted,
			Rejected:    list.Rejected,
			Negotiating: list.Negotiating,
		})
	}
}

// HandleOffer returns an HTTP handler for the /offers/{offerId} subtree:
// GET /offers/{offerId}, GET /offers/{offerId}/history and
// POST /offers/{offerId}/{action}.
func HandleOffer(svc OfferService, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offerID, sub, ok := parseOfferPath(r.URL.Path)
		if !ok {
			writeError(w, http.StatusNotFound, codeNotFound, "not found")
			return
		}

		switch {
		case sub == "":
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			getOffer(w, r, svc, logger, offerID)
		case sub == "history" && r.Method == http.MethodGet:
			offerHistory(w, r, svc, logger, offerID)
		case r.Method == http.MethodPost:
			applyAction(w, r, svc, logger, offerID, sub)
		default:
			methodNotAllowed(w, http.MethodPost)
		}
	}
}

func getOffer(w http.ResponseWriter, r *http.Request, svc OfferService, logger *slog.Logger, offerID string) {
	offer, err := svc.Get(r.Context(), offerID)
	if err != nil {
		writeNotFoundOrError(w, r, logger, offerID, err)
		return
	}
	writeJSON(w, http.StatusOK, offerEnvelope{Success: true, Offer: toOfferResponse(offer)})
}

func offerHistory(w http.ResponseWriter, r *http.Request, svc OfferService, logger *slog.Logger, offerID string) {
	records, err := svc.History(r.Context(), offerID)
	if err != nil {
		writeNotFoundOrError(w, r, logger, offerID, err)
		return
	}
	history := make([]actionRecordResponse, 0, len(records))
	for _, rec := range records {
		history = append(history, toActionRecordResponse(rec))
	}
	writeJSON(w, http.StatusOK, historyResponse{Success: true, OfferID: offerID, History: history})
}

func applyAction(w http.ResponseWriter, r *http.Request, svc OfferService, logger *slog.Logger, offerID, rawAction string) {
	action, err := domain.ParseOfferAction(rawAction)
	if err != nil {
		writeDomainError(w, r, logger, err)
		return
	}

	res, err := svc.Apply(r.Context(), app.ApplyInput{OfferID: offerID, Action: action})
	if err != nil {
		writeNotFoundOrError(w, r, logger, offerID, err)
		return
	}

	writeJSON(w, http.StatusOK, applyResponse{
		Success: true,
		Message: res.Notification.Message,
		Data: applyData{
			OfferID:            res.Offer.ID,
			Action:             string(res.Record.Action),
			NewStatus:          string(res.Record.NewStatus),
			Timestamp:          res.Record.Timestamp,
			SellerNotification: res.Notification,
		},
	})
}

func writeNotFoundOrError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, offerID string, err error) {
	if isNotFound(err) {
		writeErrorResponse(w, http.StatusNotFound, errorResponse{
			Error:   domain.ErrOfferNotFound.Error(),
			Code:    codeOfferNotFound,
			OfferID: offerID,
		})
		return
	}
	writeDomainError(w, r, logger, err)
}

func parseOfferPath(path string) (offerID, sub string, ok bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) < 2 || len(parts) > 3 || parts[0] != "offers" {
		return "", "", false
	}
	if parts[1] == "" {
		return "", "", false
	}
	if len(parts) == 3 {
		if parts[2] == "" {
			return "", "", false
		}
		sub = parts[2]
	}
	return parts[1], sub, true
}

type offerResponse struct {
	ID          string    `json:"id"`
	ListingID   string    `json:"listingId"`
	BuyerID     string    `json:"buyerId"`
	BuyerName   string    `json:"buyerName"`
	BuyerEmail  string    `json:"buyerEmail"`
	SellerID    string    `json:"sellerId"`
	ProductName string    `json:"productName"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Category    string    `json:"category"`
	Condition   string    `json:"condition"`
	Status      string    `json:"status"`
	MatchKind   string    `json:"matchKind"`
	MatchReason string    `json:"matchReason"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toOfferResponse(o domain.Offer) offerResponse {
	return offerResponse{
		ID:          o.ID,
		ListingID:   o.ListingID,
		BuyerID:     o.BuyerID,
		BuyerName:   o.BuyerName,
		BuyerEmail:  o.BuyerEmail,
		SellerID:    o.SellerID,
		ProductName: o.Listing.Name,
		Description: o.Listing.Description,
		Price:       o.Listing.Price,
		Category:    o.Listing.Category,
		Condition:   o.Listing.Condition,
		Status:      string(o.Status),
		MatchKind:   string(o.MatchKind),
		MatchReason: o.MatchReason,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

type actionRecordResponse struct {
	OfferID        string    `json:"offerId"`
	Action         string    `json:"action"`
	BuyerID        string    `json:"buyerId"`
	PreviousStatus string    `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Timestamp      time.Time `json:"timestamp"`
}

func toActionRecordResponse(rec domain.OfferActionRecord) actionRecordResponse {
	return actionRecordResponse{
		OfferID:        rec.OfferID,
		Action:         string(rec.Action),
		BuyerID:        rec.BuyerID,
		PreviousStatus: string(rec.PreviousStatus),
		NewStatus:      string(rec.NewStatus),
		Timestamp:      rec.Timestamp,
	}
}

type listOffersResponse struct {
	Success     bool            `json:"success"`
	Offers      []offerResponse `json:"offers"`
	Total       int             `json:"total"`
	Pending     int             `json:"pending"`
	Accepted    int             `json:"accepted"`
	Rejected    int             `json:"rejected"`
	Negotiating int             `json:"negotiating"`
}

type offerEnvelope struct {
	Success bool          `json:"success"`
	Offer   offerResponse `json:"offer"`
}

type historyResponse struct {
	Success bool                   `json:"success"`
	OfferID string                 `json:"offerId"`
	History []actionRecordResponse `json:"history"`
}

type applyData struct {
	OfferID            string              `json:"offerId"`
	Action             string              `json:"action"`
	NewStatus          string              `json:"newStatus"`
	Timestamp          time.Time           `json:"timestamp"`
	SellerNotification domain.Notification `json:"sellerNotification"`
}

type applyResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message"`
	Data    applyData `json:"data"`
}
