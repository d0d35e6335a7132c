package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mazroni9/DasmAdminPanel/internal/domain"
)

// NotificationLister reads stored notifications for one recipient.
type NotificationLister interface {
	ListByRecipient(ctx context.Context, recipientID string) ([]domain.Notification, error)
}

// HandleListNotifications returns an HTTP handler for
// GET /notifications?recipientId=...
func HandleListNotifications(store NotificationLister, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w, http.MethodGet)
			return
		}

		recipient := strings.TrimSpace(r.URL.Query().Get("recipientId"))
		if recipient == "" {
			writeErrorResponse(w, http.StatusBadRequest, errorResponse{
				Error:   "recipientId is required",
				Code:    codeMissingRequiredField,
				Missing: map[string]bool{"recipientId": true},
			})
			return
		}

		items, err := store.ListByRecipient(r.Context(), recipient)
		if err != nil {
			writeDomainError(w, r, logger, err)
			return
		}
		if items == nil {
			items = []domain.Notification{}
		}
		writeJSON(w, http.StatusOK, notificationsResponse{
			Success:       true,
			RecipientID:   recipient,
			Notifications: items,
			Total:         len(items),
		})
	}
}

type notificationsResponse struct {
	Success       bool                  `json:"success"`
	RecipientID   string                `json:"recipientId"`
	Notifications []domain.Notification `json:"notifications"`
	Total         int                   `json:"total"`
}
