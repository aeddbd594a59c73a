package service

import (
	"context"

	"github.com/gamma-omg/lexiverse/internal/dictionary"
	"github.com/gamma-omg/lexiverse/internal/model"
	"github.com/gamma-omg/lexiverse/internal/notify"
	"github.com/gamma-omg/lexiverse/internal/store"
)

// mockStore implements store.DataStore with overridable behaviors. Unset
// lookups report not-found and unset writes succeed, so tests only wire the
// calls they care about.
type mockStore struct {
	GetWordFunc              func(ctx context.Context, r store.GetWordRequest) (model.WordEntry, error)
	CreateWordFunc           func(ctx context.Context, r store.CreateWordRequest) error
	SetWordOwnerFunc         func(ctx context.Context, r store.SetWordOwnerRequest) error
	TransferWordOwnerFunc    func(ctx context.Context, r store.TransferWordOwnerRequest) error
	GetRejectedWordFunc      func(ctx context.Context, r store.GetRejectedWordRequest) (model.RejectedWordEntry, error)
	UpsertRejectedWordFunc   func(ctx context.Context, r store.UpsertRejectedWordRequest) error
	DeleteRejectedWordFunc   func(ctx context.Context, r store.DeleteRejectedWordRequest) error
	EnqueueSubmissionFunc    func(ctx context.Context, r store.EnqueueSubmissionRequest) error
	GetQueueEntryFunc        func(ctx context.Context, r store.GetQueueEntryRequest) (model.SubmissionQueueEntry, error)
	ListQueueFunc            func(ctx context.Context, r store.ListQueueRequest) ([]model.SubmissionQueueEntry, error)
	DeleteQueueEntryFunc     func(ctx context.Context, r store.DeleteQueueEntryRequest) error
	CreateTransferFunc       func(ctx context.Context, r store.CreateTransferRequest) error
	GetTransferFunc          func(ctx context.Context, r store.GetTransferRequest) (model.OwnershipTransfer, error)
	ResolveTransferFunc      func(ctx context.Context, r store.ResolveTransferRequest) error
	SetPendingTransferFunc   func(ctx context.Context, r store.SetPendingTransferRequest) error
	ClearPendingTransferFunc func(ctx context.Context, r store.ClearPendingTransferRequest) error
	IncrementPlayerScoreFunc func(ctx context.Context, r store.IncrementPlayerScoreRequest) error
	GetPlayerScoreFunc       func(ctx context.Context, r store.GetPlayerScoreRequest) (int64, error)
	GetPuzzleFunc            func(ctx context.Context, r store.GetPuzzleRequest) (model.Puzzle, error)
}

func (m *mockStore) GetWord(ctx context.Context, r store.GetWordRequest) (model.WordEntry, error) {
	if m.GetWordFunc == nil {
		return model.WordEntry{}, store.ErrNotFound
	}
	return m.GetWordFunc(ctx, r)
}

func (m *mockStore) CreateWord(ctx context.Context, r store.CreateWordRequest) error {
	if m.CreateWordFunc == nil {
		return nil
	}
	return m.CreateWordFunc(ctx, r)
}

func (m *mockStore) SetWordOwner(ctx context.Context, r store.SetWordOwnerRequest) error {
	if m.SetWordOwnerFunc == nil {
		return nil
	}
	return m.SetWordOwnerFunc(ctx, r)
}

func (m *mockStore) TransferWordOwner(ctx context.Context, r store.TransferWordOwnerRequest) error {
	if m.TransferWordOwnerFunc == nil {
		return nil
	}
	return m.TransferWordOwnerFunc(ctx, r)
}

func (m *mockStore) GetRejectedWord(ctx context.Context, r store.GetRejectedWordRequest) (model.RejectedWordEntry, error) {
	if m.GetRejectedWordFunc == nil {
		return model.RejectedWordEntry{}, store.ErrNotFound
	}
	return m.GetRejectedWordFunc(ctx, r)
}

func (m *mockStore) UpsertRejectedWord(ctx context.Context, r store.UpsertRejectedWordRequest) error {
	if m.UpsertRejectedWordFunc == nil {
		return nil
	}
	return m.UpsertRejectedWordFunc(ctx, r)
}

func (m *mockStore) DeleteRejectedWord(ctx context.Context, r store.DeleteRejectedWordRequest) error {
	if m.DeleteRejectedWordFunc == nil {
		return nil
	}
	return m.DeleteRejectedWordFunc(ctx, r)
}

func (m *mockStore) EnqueueSubmission(ctx context.Context, r store.EnqueueSubmissionRequest) error {
	if m.EnqueueSubmissionFunc == nil {
		return nil
	}
	return m.EnqueueSubmissionFunc(ctx, r)
}

func (m *mockStore) GetQueueEntry(ctx context.Context, r store.GetQueueEntryRequest) (model.SubmissionQueueEntry, error) {
	if m.GetQueueEntryFunc == nil {
		return model.SubmissionQueueEntry{}, store.ErrNotFound
	}
	return m.GetQueueEntryFunc(ctx, r)
}

func (m *mockStore) ListQueue(ctx context.Context, r store.ListQueueRequest) ([]model.SubmissionQueueEntry, error) {
	if m.ListQueueFunc == nil {
		return nil, nil
	}
	return m.ListQueueFunc(ctx, r)
}

func (m *mockStore) DeleteQueueEntry(ctx context.Context, r store.DeleteQueueEntryRequest) error {
	if m.DeleteQueueEntryFunc == nil {
		return nil
	}
	return m.DeleteQueueEntryFunc(ctx, r)
}

func (m *mockStore) CreateTransfer(ctx context.Context, r store.CreateTransferRequest) error {
	if m.CreateTransferFunc == nil {
		return nil
	}
	return m.CreateTransferFunc(ctx, r)
}

func (m *mockStore) GetTransfer(ctx context.Context, r store.GetTransferRequest) (model.OwnershipTransfer, error) {
	if m.GetTransferFunc == nil {
		return model.OwnershipTransfer{}, store.ErrNotFound
	}
	return m.GetTransferFunc(ctx, r)
}

func (m *mockStore) ResolveTransfer(ctx context.Context, r store.ResolveTransferRequest) error {
	if m.ResolveTransferFunc == nil {
		return nil
	}
	return m.ResolveTransferFunc(ctx, r)
}

func (m *mockStore) SetPendingTransfer(ctx context.Context, r store.SetPendingTransferRequest) error {
	if m.SetPendingTransferFunc == nil {
		return nil
	}
	return m.SetPendingTransferFunc(ctx, r)
}

func (m *mockStore) ClearPendingTransfer(ctx context.Context, r store.ClearPendingTransferRequest) error {
	if m.ClearPendingTransferFunc == nil {
		return nil
	}
	return m.ClearPendingTransferFunc(ctx, r)
}

func (m *mockStore) IncrementPlayerScore(ctx context.Context, r store.IncrementPlayerScoreRequest) error {
	if m.IncrementPlayerScoreFunc == nil {
		return nil
	}
	return m.IncrementPlayerScoreFunc(ctx, r)
}

func (m *mockStore) GetPlayerScore(ctx context.Context, r store.GetPlayerScoreRequest) (int64, error) {
	if m.GetPlayerScoreFunc == nil {
		return 0, store.ErrNotFound
	}
	return m.GetPlayerScoreFunc(ctx, r)
}

func (m *mockStore) GetPuzzle(ctx context.Context, r store.GetPuzzleRequest) (model.Puzzle, error) {
	if m.GetPuzzleFunc == nil {
		return model.Puzzle{}, store.ErrNotFound
	}
	return m.GetPuzzleFunc(ctx, r)
}

func (m *mockStore) WithinTx(ctx context.Context, fn func(tx store.DataStore) error) error {
	return fn(m)
}

type mockLookup struct {
	lookup func(ctx context.Context, word string) (dictionary.Entry, error)
}

func (m *mockLookup) Lookup(ctx context.Context, word string) (dictionary.Entry, error) {
	return m.lookup(ctx, word)
}

type mockNotifier struct {
	notifications []notify.Notification
	err           error
}

func (m *mockNotifier) Notify(ctx context.Context, n notify.Notification) error {
	if m.err != nil {
		return m.err
	}
	m.notifications = append(m.notifications, n)
	return nil
}
