package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gamma-omg/lexiverse/internal/model"
	"github.com/gamma-omg/lexiverse/internal/pkg/serr"
	"github.com/gamma-omg/lexiverse/internal/store"
)

// ModerationService consumes the submission queue: each review either
// promotes the word into the master dictionary with ownership granted to the
// original submitter, or records it as rejected. The queue entry is removed
// either way.
type ModerationService struct {
	store store.DataStore
}

func NewModerationService(ds store.DataStore) *ModerationService {
	return &ModerationService{store: ds}
}

type ReviewSubmissionRequest struct {
	WordText      string
	ReviewerID    string
	Approve       bool
	RejectionType model.RejectionType
}

// ReviewSubmission resolves one queued word. Approval clears any earlier
// rejection record so a word never exists in both registries.
func (s *ModerationService) ReviewSubmission(ctx context.Context, r ReviewSubmissionRequest) error {
	word := normalizeWord(r.WordText)

	if !r.Approve && r.RejectionType == "" {
		return serr.NewServiceError(nil, http.StatusBadRequest, "rejection type is required")
	}

	return s.store.WithinTx(ctx, func(tx store.DataStore) error {
		entry, err := tx.GetQueueEntry(ctx, store.GetQueueEntryRequest{WordText: word})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				se := serr.NewServiceError(err, http.StatusNotFound, "queued submission not found")
				se.Env["word"] = word
				return se
			}

			return fmt.Errorf("lookup queue entry: %w", err)
		}

		if r.Approve {
			if err := s.approve(ctx, tx, entry, r.ReviewerID); err != nil {
				return err
			}
		} else {
			if err := tx.UpsertRejectedWord(ctx, store.UpsertRejectedWordRequest{
				WordText:            word,
				RejectionType:       r.RejectionType,
				RejectedBy:          r.ReviewerID,
				OriginalSubmitterID: entry.SubmitterID,
			}); err != nil {
				return fmt.Errorf("record rejection: %w", err)
			}
		}

		if err := tx.DeleteQueueEntry(ctx, store.DeleteQueueEntryRequest{WordText: word}); err != nil {
			return fmt.Errorf("remove queue entry: %w", err)
		}

		return nil
	})
}

func (s *ModerationService) approve(ctx context.Context, tx store.DataStore, entry model.SubmissionQueueEntry, reviewerID string) error {
	if err := tx.DeleteRejectedWord(ctx, store.DeleteRejectedWordRequest{WordText: entry.WordText}); err != nil {
		return fmt.Errorf("clear prior rejection: %w", err)
	}

	err := tx.CreateWord(ctx, store.CreateWordRequest{
		WordText:           entry.WordText,
		Definition:         entry.Definition,
		Frequency:          entry.Frequency,
		AddedBy:            reviewerID,
		OriginalOwner:      entry.SubmitterID,
		OwnershipClaimDate: entry.PuzzleDate,
	})
	if err == nil {
		return nil
	}
	if !errors.Is(err, store.ErrExists) {
		return fmt.Errorf("promote word: %w", err)
	}

	// The word was already in the dictionary (a claim on an existing unowned
	// word). Grant ownership only if nobody beat this submitter to it.
	err = tx.SetWordOwner(ctx, store.SetWordOwnerRequest{
		WordText:           entry.WordText,
		Owner:              entry.SubmitterID,
		OwnershipClaimDate: entry.PuzzleDate,
	})
	if err != nil && !errors.Is(err, store.ErrConflict) {
		return fmt.Errorf("grant ownership: %w", err)
	}

	return nil
}

// ListQueue returns pending submissions oldest first.
func (s *ModerationService) ListQueue(ctx context.Context, limit int) ([]model.SubmissionQueueEntry, error) {
	entries, err := s.store.ListQueue(ctx, store.ListQueueRequest{Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("list submission queue: %w", err)
	}

	return entries, nil
}
