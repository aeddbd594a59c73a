package store

import (
	"time"

	"github.com/gamma-omg/lexiverse/internal/model"
)

type GetWordRequest struct {
	WordText string
}

type CreateWordRequest struct {
	WordText           string
	Definition         string
	Frequency          float64
	AddedBy            string
	OriginalOwner      string
	OwnershipClaimDate string
}

// SetWordOwnerRequest grants ownership only while the word is unowned.
type SetWordOwnerRequest struct {
	WordText           string
	Owner              string
	OwnershipClaimDate string
}

// TransferWordOwnerRequest hands ownership to a new player and clears the
// pending transfer marker in one write, conditional on the marker still
// pointing at the given transfer.
type TransferWordOwnerRequest struct {
	WordText   string
	NewOwner   string
	TransferID string
}

type GetRejectedWordRequest struct {
	WordText string
}

type UpsertRejectedWordRequest struct {
	WordText            string
	RejectionType       model.RejectionType
	RejectedBy          string
	OriginalSubmitterID string
}

type DeleteRejectedWordRequest struct {
	WordText string
}

type EnqueueSubmissionRequest struct {
	WordText            string
	Definition          string
	Frequency           float64
	SubmitterID         string
	PuzzleDate          string
	IsWordOfTheDayClaim bool
}

type GetQueueEntryRequest struct {
	WordText string
}

type ListQueueRequest struct {
	Limit int
}

type DeleteQueueEntryRequest struct {
	WordText string
}

type CreateTransferRequest struct {
	ID          string
	WordText    string
	SenderID    string
	RecipientID string
	InitiatedAt time.Time
	ExpiresAt   time.Time
}

type GetTransferRequest struct {
	ID string
}

// ResolveTransferRequest moves a transfer out of pending_recipient. The write
// is conditional on the transfer still being pending and fails with
// ErrConflict otherwise.
type ResolveTransferRequest struct {
	ID          string
	Status      model.TransferStatus
	RespondedAt time.Time
}

// SetPendingTransferRequest marks a word as having an in-flight transfer; the
// write is conditional on no other transfer being pending.
type SetPendingTransferRequest struct {
	WordText   string
	TransferID string
}

// ClearPendingTransferRequest clears the marker only if it still points at the
// given transfer.
type ClearPendingTransferRequest struct {
	WordText   string
	TransferID string
}

type IncrementPlayerScoreRequest struct {
	PlayerID string
	Amount   int64
}

type GetPlayerScoreRequest struct {
	PlayerID string
}

type GetPuzzleRequest struct {
	PuzzleDate string
}
