package domain

import "time"

type NotificationType string

const (
	NotificationPersonalizedOffer NotificationType = "personalized_offer"
	NotificationBuyerAction       NotificationType = "buyer_action"
)

// Notification is a record to be delivered to a buyer or seller. Delivery itself
// happens elsewhere.
type Notification struct {
	ID          string           `json:"id" bson:"_id"`
	Type        NotificationType `json:"type" bson:"type"`
	RecipientID string           `json:"recipientId" bson:"recipient_id"`
	Message     string           `json:"message" bson:"message"`
	Payload     map[string]any   `json:"payload" bson:"payload"`
	CreatedAt   time.Time        `json:"createdAt" bson:"created_at"`
}
