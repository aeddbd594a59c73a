package store

import (
	"context"
	"errors"

	"github.com/gamma-omg/lexiverse/internal/model"
)

var (
	ErrExists   = errors.New("record already exists")
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned by conditional writes when the guarded state
	// changed under the caller (lost a claim or transfer race).
	ErrConflict = errors.New("record changed concurrently")
)

type DataStore interface {
	GetWord(ctx context.Context, r GetWordRequest) (model.WordEntry, error)
	CreateWord(ctx context.Context, r CreateWordRequest) error
	SetWordOwner(ctx context.Context, r SetWordOwnerRequest) error
	TransferWordOwner(ctx context.Context, r TransferWordOwnerRequest) error

	GetRejectedWord(ctx context.Context, r GetRejectedWordRequest) (model.RejectedWordEntry, error)
	UpsertRejectedWord(ctx context.Context, r UpsertRejectedWordRequest) error
	DeleteRejectedWord(ctx context.Context, r DeleteRejectedWordRequest) error

	EnqueueSubmission(ctx context.Context, r EnqueueSubmissionRequest) error
	GetQueueEntry(ctx context.Context, r GetQueueEntryRequest) (model.SubmissionQueueEntry, error)
	ListQueue(ctx context.Context, r ListQueueRequest) ([]model.SubmissionQueueEntry, error)
	DeleteQueueEntry(ctx context.Context, r DeleteQueueEntryRequest) error

	CreateTransfer(ctx context.Context, r CreateTransferRequest) error
	GetTransfer(ctx context.Context, r GetTransferRequest) (model.OwnershipTransfer, error)
	ResolveTransfer(ctx context.Context, r ResolveTransferRequest) error
	SetPendingTransfer(ctx context.Context, r SetPendingTransferRequest) error
	ClearPendingTransfer(ctx context.Context, r ClearPendingTransferRequest) error

	IncrementPlayerScore(ctx context.Context, r IncrementPlayerScoreRequest) error
	GetPlayerScore(ctx context.Context, r GetPlayerScoreRequest) (int64, error)

	GetPuzzle(ctx context.Context, r GetPuzzleRequest) (model.Puzzle, error)

	WithinTx(ctx context.Context, fn func(tx DataStore) error) error
}
