package model

import "time"

type WordStatus string

const (
	WordApproved WordStatus = "approved"
)

type RejectionType string

const (
	RejectionGibberish     RejectionType = "gibberish"
	RejectionAdminDecision RejectionType = "admin_decision"
)

type QueueStatus string

const (
	QueuePendingReview QueueStatus = "pending_review"
)

type TransferStatus string

const (
	TransferPendingRecipient TransferStatus = "pending_recipient"
	TransferAccepted         TransferStatus = "accepted"
	TransferDeclined         TransferStatus = "declined"
	TransferExpired          TransferStatus = "expired"
)

type TransferDecision string

const (
	DecisionAccept  TransferDecision = "accept"
	DecisionDecline TransferDecision = "decline"
)

// WordEntry is one row of the master dictionary, keyed by uppercased word text.
// OriginalOwner is empty for unclaimed words; PendingTransferID is empty when
// no ownership transfer is in flight.
type WordEntry struct {
	WordText           string
	Definition         string
	Frequency          float64
	Status             WordStatus
	AddedBy            string
	DateAdded          time.Time
	OriginalOwner      string
	OwnershipClaimDate string
	PendingTransferID  string
}

type RejectedWordEntry struct {
	WordText            string
	RejectionType       RejectionType
	RejectedBy          string
	DateRejected        time.Time
	OriginalSubmitterID string
}

type SubmissionQueueEntry struct {
	WordText            string
	Definition          string
	Frequency           float64
	Status              QueueStatus
	SubmitterID         string
	PuzzleDate          string
	IsWordOfTheDayClaim bool
	SubmittedAt         time.Time
}

// OwnershipTransfer moves through pending_recipient to exactly one of
// accepted, declined or expired. Resolved transfers are never reopened.
type OwnershipTransfer struct {
	ID          string
	WordText    string
	SenderID    string
	RecipientID string
	Status      TransferStatus
	InitiatedAt time.Time
	ExpiresAt   time.Time
	RespondedAt time.Time
}

// Puzzle is the per-day configuration the admin panel manages: the nine seeded
// letters and the word of the day.
type Puzzle struct {
	PuzzleDate             string
	Letters                string
	WordOfTheDay           string
	WordOfTheDayDefinition string
	WordOfTheDayPoints     int
}
