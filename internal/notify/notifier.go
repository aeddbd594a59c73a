package notify

import (
	"context"
	"time"
)

type Kind string

const (
	KindTransferRequested Kind = "transfer_requested"
	KindTransferAccepted  Kind = "transfer_accepted"
	KindTransferDeclined  Kind = "transfer_declined"
)

type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"recipient_id"`
	Kind        Kind      `json:"kind"`
	WordText    string    `json:"word_text"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
}

// Notifier delivers a notification to a player. Delivery is fire-and-forget
// from the caller's point of view: failures are logged, never surfaced.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}
