package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

const (
	codeMethodNotAllowed     = "method_not_allowed"
	codeNotFound             = "not_found"
	codeInvalidRequestBody   = "invalid_request_body"
	codeMissingRequiredField = "missing_required_field"
	codeInvalidPrice         = "invalid_price"
	codeInvalidAction        = "invalid_action"
	codeInvalidStatusFilter  = "invalid_status_filter"
	codeOfferNotFound        = "offer_not_found"
	codeOfferNotPending      = "offer_not_pending"
	codeOfferExists          = "offer_exists"
	codeBuyerNotFound        = "buyer_not_found"
	codeForbidden            = "forbidden"
	codeInternalError        = "internal_error"
)

type errorResponse struct {
	Error         string            `json:"error"`
	Code          string            `json:"code"`
	Missing       map[string]bool   `json:"missing,omitempty"`
	Invalid       map[string]string `json:"invalid,omitempty"`
	ValidActions  []string          `json:"validActions,omitempty"`
	CurrentStatus string            `json:"currentStatus,omitempty"`
	OfferID       string            `json:"offerId,omitempty"`
	Path          string            `json:"path,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeErrorResponse(w, status, errorResponse{Error: msg, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(resp)
	if err != nil {
		_, _ = w.Write([]byte(`{"error":"internal error","code":"internal_error"}`))
		return
	}
	_, _ = w.Write(payload)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
}

// writeDomainError maps service errors to responses. Anything unrecognized is
// logged and reported as a generic 500.
func writeDomainError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var (
		verr  *domain.ValidationError
		state *domain.StateError
	)
	switch {
	case errors.As(err, &verr):
		resp := errorResponse{
			Error:   "all listing fields are required",
			Code:    codeMissingRequiredField,
			Missing: verr.Missing,
			Invalid: verr.Invalid,
		}
		if !verr.HasMissing() {
			resp.Error = err.Error()
			resp.Code = codeInvalidPrice
		}
		writeErrorResponse(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrInvalidAction):
		writeErrorResponse(w, http.StatusBadRequest, errorResponse{
			Error:        err.Error(),
			Code:         codeInvalidAction,
			ValidActions: validActions(),
		})
	case errors.As(err, &state):
		writeErrorResponse(w, http.StatusBadRequest, errorResponse{
			Error:         "only pending offers can change status",
			Code:          codeOfferNotPending,
			CurrentStatus: string(state.Current),
			OfferID:       state.OfferID,
		})
	case errors.Is(err, domain.ErrInvalidOfferState):
		writeError(w, http.StatusBadRequest, codeOfferNotPending, "only pending offers can change status")
	case errors.Is(err, domain.ErrOfferNotFound):
		writeError(w, http.StatusNotFound, codeOfferNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidStatusFilter):
		writeError(w, http.StatusBadRequest, codeInvalidStatusFilter, err.Error())
	case errors.Is(err, domain.ErrBuyerNotFound):
		writeError(w, http.StatusNotFound, codeBuyerNotFound, err.Error())
	case errors.Is(err, domain.ErrOfferExists):
		writeError(w, http.StatusConflict, codeOfferExists, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
	}
}

func validActions() []string {
	out := make([]string, len(domain.OfferActions))
	for i, a := range domain.OfferActions {
		out[i] = string(a)
	}
	return out
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrOfferNotFound)
}
