package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gamma-omg/lexiverse/internal/model"
	"github.com/gamma-omg/lexiverse/internal/notify"
	"github.com/gamma-omg/lexiverse/internal/pkg/serr"
	"github.com/gamma-omg/lexiverse/internal/store"
	"github.com/google/uuid"
)

// TransferService runs the ownership transfer state machine: a sender offers
// a word they own, the recipient accepts or declines within the TTL, and
// unanswered offers expire lazily on the next read. Word and transfer
// mutations for a single response happen in one transaction so two concurrent
// accepts can never both win.
type TransferService struct {
	store    store.DataStore
	notifier notify.Notifier
	ttl      time.Duration
	now      func() time.Time
}

type TransferServiceConfig struct {
	TTL time.Duration
}

func NewTransferService(ds store.DataStore, notifier notify.Notifier, cfg TransferServiceConfig) *TransferService {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &TransferService{
		store:    ds,
		notifier: notifier,
		ttl:      ttl,
		now:      time.Now,
	}
}

type InitiateTransferRequest struct {
	WordText    string
	SenderID    string
	RecipientID string
}

// Initiate offers ownership of a word to another player. Fails unless the
// sender owns the word and no unexpired transfer is already pending for it.
func (s *TransferService) Initiate(ctx context.Context, r InitiateTransferRequest) (model.OwnershipTransfer, error) {
	word := normalizeWord(r.WordText)
	now := s.now()

	transfer := model.OwnershipTransfer{
		ID:          uuid.NewString(),
		WordText:    word,
		SenderID:    r.SenderID,
		RecipientID: r.RecipientID,
		Status:      model.TransferPendingRecipient,
		InitiatedAt: now,
		ExpiresAt:   now.Add(s.ttl),
	}

	err := s.store.WithinTx(ctx, func(tx store.DataStore) error {
		entry, err := tx.GetWord(ctx, store.GetWordRequest{WordText: word})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				se := serr.NewServiceError(err, http.StatusNotFound, "word not found")
				se.Env["word"] = word
				return se
			}

			return fmt.Errorf("lookup word: %w", err)
		}

		if entry.OriginalOwner != r.SenderID {
			se := serr.NewServiceError(nil, http.StatusForbidden, "you do not own this word")
			se.Env["word"] = word
			se.Env["sender_id"] = r.SenderID
			return se
		}

		if entry.PendingTransferID != "" {
			if err := s.releaseStaleTransfer(ctx, tx, word, entry.PendingTransferID, now); err != nil {
				return err
			}
		}

		if err := tx.CreateTransfer(ctx, store.CreateTransferRequest{
			ID:          transfer.ID,
			WordText:    word,
			SenderID:    r.SenderID,
			RecipientID: r.RecipientID,
			InitiatedAt: transfer.InitiatedAt,
			ExpiresAt:   transfer.ExpiresAt,
		}); err != nil {
			return fmt.Errorf("create transfer: %w", err)
		}

		if err := tx.SetPendingTransfer(ctx, store.SetPendingTransferRequest{
			WordText:   word,
			TransferID: transfer.ID,
		}); err != nil {
			if errors.Is(err, store.ErrConflict) {
				se := serr.NewServiceError(err, http.StatusConflict, "a transfer is already pending for this word")
				se.Env["word"] = word
				return se
			}

			return fmt.Errorf("mark pending transfer: %w", err)
		}

		return nil
	})
	if err != nil {
		return model.OwnershipTransfer{}, err
	}

	s.notifyParty(ctx, r.RecipientID, notify.KindTransferRequested, word,
		fmt.Sprintf("You have been offered ownership of %s.", word))

	return transfer, nil
}

// releaseStaleTransfer clears a pending-transfer marker that no longer blocks
// a new offer: the referenced transfer is expired (lazily transitioned here)
// or already resolved. A live pending transfer is a conflict.
func (s *TransferService) releaseStaleTransfer(ctx context.Context, tx store.DataStore, word, transferID string, now time.Time) error {
	prev, err := tx.GetTransfer(ctx, store.GetTransferRequest{ID: transferID})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("lookup pending transfer: %w", err)
	}

	if err == nil && prev.Status == model.TransferPendingRecipient {
		if now.Before(prev.ExpiresAt) {
			se := serr.NewServiceError(nil, http.StatusConflict, "a transfer is already pending for this word")
			se.Env["word"] = word
			se.Env["transfer_id"] = transferID
			return se
		}

		if err := tx.ResolveTransfer(ctx, store.ResolveTransferRequest{
			ID:          transferID,
			Status:      model.TransferExpired,
			RespondedAt: now,
		}); err != nil && !errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("expire stale transfer: %w", err)
		}
	}

	if err := tx.ClearPendingTransfer(ctx, store.ClearPendingTransferRequest{
		WordText:   word,
		TransferID: transferID,
	}); err != nil {
		return fmt.Errorf("clear stale transfer marker: %w", err)
	}

	return nil
}

type RespondToTransferRequest struct {
	TransferID  string
	ResponderID string
	Decision    model.TransferDecision
}

// Respond resolves a pending transfer. Only the recipient may respond, expiry
// is checked before acting, and resolved transfers never reopen.
func (s *TransferService) Respond(ctx context.Context, r RespondToTransferRequest) (model.OwnershipTransfer, error) {
	transfer, err := s.store.GetTransfer(ctx, store.GetTransferRequest{ID: r.TransferID})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			se := serr.NewServiceError(err, http.StatusNotFound, "transfer not found")
			se.Env["transfer_id"] = r.TransferID
			return model.OwnershipTransfer{}, se
		}

		return model.OwnershipTransfer{}, fmt.Errorf("lookup transfer: %w", err)
	}

	if transfer.RecipientID != r.ResponderID {
		se := serr.NewServiceError(nil, http.StatusForbidden, "only the recipient may respond to this transfer")
		se.Env["transfer_id"] = r.TransferID
		se.Env["responder_id"] = r.ResponderID
		return model.OwnershipTransfer{}, se
	}

	if transfer.Status != model.TransferPendingRecipient {
		se := serr.NewServiceError(nil, http.StatusConflict, "transfer is already resolved")
		se.Env["transfer_id"] = r.TransferID
		se.Env["status"] = string(transfer.Status)
		return model.OwnershipTransfer{}, se
	}

	now := s.now()
	if now.After(transfer.ExpiresAt) {
		if err := s.expireTransfer(ctx, transfer, now); err != nil {
			return model.OwnershipTransfer{}, err
		}

		se := serr.NewServiceError(nil, http.StatusGone, "transfer has expired")
		se.Env["transfer_id"] = r.TransferID
		return model.OwnershipTransfer{}, se
	}

	switch r.Decision {
	case model.DecisionAccept:
		err = s.accept(ctx, transfer, now)
		transfer.Status = model.TransferAccepted
	case model.DecisionDecline:
		err = s.decline(ctx, transfer, now)
		transfer.Status = model.TransferDeclined
	default:
		se := serr.NewServiceError(nil, http.StatusBadRequest, "invalid decision")
		se.Env["decision"] = string(r.Decision)
		return model.OwnershipTransfer{}, se
	}
	if err != nil {
		return model.OwnershipTransfer{}, err
	}

	transfer.RespondedAt = now
	return transfer, nil
}

func (s *TransferService) accept(ctx context.Context, t model.OwnershipTransfer, now time.Time) error {
	err := s.store.WithinTx(ctx, func(tx store.DataStore) error {
		if err := tx.ResolveTransfer(ctx, store.ResolveTransferRequest{
			ID:          t.ID,
			Status:      model.TransferAccepted,
			RespondedAt: now,
		}); err != nil {
			if errors.Is(err, store.ErrConflict) {
				se := serr.NewServiceError(err, http.StatusConflict, "transfer is already resolved")
				se.Env["transfer_id"] = t.ID
				return se
			}

			return fmt.Errorf("resolve transfer: %w", err)
		}

		if err := tx.TransferWordOwner(ctx, store.TransferWordOwnerRequest{
			WordText:   t.WordText,
			NewOwner:   t.RecipientID,
			TransferID: t.ID,
		}); err != nil {
			if errors.Is(err, store.ErrConflict) {
				se := serr.NewServiceError(err, http.StatusConflict, "word is no longer available for transfer")
				se.Env["word"] = t.WordText
				return se
			}

			return fmt.Errorf("transfer word ownership: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.notifyParty(ctx, t.SenderID, notify.KindTransferAccepted, t.WordText,
		fmt.Sprintf("Your transfer of %s was accepted.", t.WordText))
	return nil
}

func (s *TransferService) decline(ctx context.Context, t model.OwnershipTransfer, now time.Time) error {
	err := s.store.WithinTx(ctx, func(tx store.DataStore) error {
		if err := tx.ResolveTransfer(ctx, store.ResolveTransferRequest{
			ID:          t.ID,
			Status:      model.TransferDeclined,
			RespondedAt: now,
		}); err != nil {
			if errors.Is(err, store.ErrConflict) {
				se := serr.NewServiceError(err, http.StatusConflict, "transfer is already resolved")
				se.Env["transfer_id"] = t.ID
				return se
			}

			return fmt.Errorf("resolve transfer: %w", err)
		}

		if err := tx.ClearPendingTransfer(ctx, store.ClearPendingTransferRequest{
			WordText:   t.WordText,
			TransferID: t.ID,
		}); err != nil {
			return fmt.Errorf("clear pending transfer: %w", err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	s.notifyParty(ctx, t.SenderID, notify.KindTransferDeclined, t.WordText,
		fmt.Sprintf("Your transfer of %s was declined.", t.WordText))
	return nil
}

// expireTransfer performs the lazy expiry transition in its own transaction
// so the caller still sees the expiry error after it commits.
func (s *TransferService) expireTransfer(ctx context.Context, t model.OwnershipTransfer, now time.Time) error {
	return s.store.WithinTx(ctx, func(tx store.DataStore) error {
		if err := tx.ResolveTransfer(ctx, store.ResolveTransferRequest{
			ID:          t.ID,
			Status:      model.TransferExpired,
			RespondedAt: now,
		}); err != nil && !errors.Is(err, store.ErrConflict) {
			return fmt.Errorf("expire transfer: %w", err)
		}

		if err := tx.ClearPendingTransfer(ctx, store.ClearPendingTransferRequest{
			WordText:   t.WordText,
			TransferID: t.ID,
		}); err != nil {
			return fmt.Errorf("clear pending transfer: %w", err)
		}

		return nil
	})
}

func (s *TransferService) notifyParty(ctx context.Context, recipientID string, kind notify.Kind, word, message string) {
	if s.notifier == nil {
		return
	}

	err := s.notifier.Notify(ctx, notify.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Kind:        kind,
		WordText:    word,
		Message:     message,
		CreatedAt:   s.now(),
	})
	if err != nil {
		slog.Error("transfer notification failed",
			"recipient", recipientID,
			"kind", kind,
			"word", word,
			"error", err,
		)
	}
}
