package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto/v2"
	"github.com/gamma-omg/lexiverse/internal/dictionary"
	"github.com/gamma-omg/lexiverse/internal/model"
	"github.com/gamma-omg/lexiverse/internal/store"
)

type Status string

const (
	StatusSuccessWotd             Status = "success_wotd"
	StatusSuccessApproved         Status = "success_approved"
	StatusSuccessNewUnverified    Status = "success_new_unverified"
	StatusSuccessDuplicatePending Status = "success_duplicate_pending"
	StatusRejectedRateLimit       Status = "rejected_rate_limit"
	StatusRejectedGibberish       Status = "rejected_gibberish"
	StatusRejectedAdmin           Status = "rejected_admin"
	StatusRejectedNotFound        Status = "rejected_not_found"
	StatusErrorAPI                Status = "error_api"
	StatusErrorUnknown            Status = "error_unknown"
)

const (
	// neutralFrequency sits on the rare/common boundary; used when no source
	// supplies a frequency signal.
	neutralFrequency = 3.5

	// gibberishFrequency treats a gibberish word as maximally common so the
	// deduction is the smallest the score table produces.
	gibberishFrequency = 7

	systemActor = "system:auto-approve"
)

type SubmissionRequest struct {
	WordText    string
	SubmitterID string
	PuzzleDate  string

	WordOfTheDayText       string
	WordOfTheDayDefinition string
	WordOfTheDayPoints     int
}

// ProcessedWordResult is the per-word outcome returned to the session layer.
// PointsAwarded is signed: gibberish resubmissions carry a penalty. WotD
// points are base points; the session layer applies the daily doubling.
type ProcessedWordResult struct {
	Status             Status
	Message            string
	PointsAwarded      int
	IsWordOfTheDay     bool
	IsNewlyOwned       bool
	NewlyOwnedWordText string
}

// SubmissionService decides the fate of every candidate word a game session
// produces: score it, pay royalties, queue it for moderation, or reject it.
type SubmissionService struct {
	store      store.DataStore
	primary    dictionary.Lookup
	secondary  dictionary.Lookup
	limiter    *RateLimiter
	rejections *ristretto.Cache[string, model.RejectedWordEntry]
}

type SubmissionServiceConfig struct {
	RateLimitAttempts  int
	RateLimitWindow    time.Duration
	RejectionCacheKeys int64
	RejectionCacheCost int64
}

func NewSubmissionService(ds store.DataStore, primary, secondary dictionary.Lookup, cfg SubmissionServiceConfig) *SubmissionService {
	cache, err := ristretto.NewCache(&ristretto.Config[string, model.RejectedWordEntry]{
		NumCounters: cfg.RejectionCacheKeys * 10,
		MaxCost:     cfg.RejectionCacheCost,
		BufferItems: 64,
	})
	if err != nil {
		panic(fmt.Sprintf("failed to create rejection cache: %v", err))
	}

	return &SubmissionService{
		store:      ds,
		primary:    primary,
		secondary:  secondary,
		limiter:    NewRateLimiter(cfg.RateLimitAttempts, cfg.RateLimitWindow),
		rejections: cache,
	}
}

// ProcessWordSubmission runs the submission ladder for one candidate word.
// Every anticipated condition comes back as a typed result; a single bad word
// must never take down a session, so unexpected failures are caught here and
// surfaced as error_unknown.
func (s *SubmissionService) ProcessWordSubmission(ctx context.Context, r SubmissionRequest) (res ProcessedWordResult) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("word submission panicked",
				"word", r.WordText,
				"submitter", r.SubmitterID,
				"panic", rec,
			)
			res = ProcessedWordResult{
				Status:  StatusErrorUnknown,
				Message: "Something went wrong. Please try that word again.",
			}
		}
	}()

	res, err := s.process(ctx, r)
	if err != nil {
		slog.Error("word submission failed",
			"word", r.WordText,
			"submitter", r.SubmitterID,
			"error", err,
		)
		return ProcessedWordResult{
			Status:  StatusErrorUnknown,
			Message: "Something went wrong. Please try that word again.",
		}
	}

	return res
}

// normalizeWord uppercases a candidate word the way every registry keys it.
func normalizeWord(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

func (s *SubmissionService) process(ctx context.Context, r SubmissionRequest) (ProcessedWordResult, error) {
	word := normalizeWord(r.WordText)

	if !s.limiter.Check(r.SubmitterID) {
		return ProcessedWordResult{
			Status:  StatusRejectedRateLimit,
			Message: "Slow down! You are submitting words too quickly.",
		}, nil
	}

	wotd := normalizeWord(r.WordOfTheDayText)
	isWotd := wotd != "" && word == wotd

	entry, err := s.store.GetWord(ctx, store.GetWordRequest{WordText: word})
	switch {
	case err == nil:
		return s.processKnownWord(ctx, r, word, entry, isWotd)
	case errors.Is(err, store.ErrNotFound):
	default:
		return ProcessedWordResult{}, fmt.Errorf("lookup word: %w", err)
	}

	if isWotd {
		return s.processWotdClaim(ctx, r, word)
	}

	if rej, found, err := s.lookupRejection(ctx, word); err != nil {
		return ProcessedWordResult{}, fmt.Errorf("lookup rejection: %w", err)
	} else if found {
		return rejectionResult(word, rej), nil
	}

	return s.verifyUnknownWord(ctx, r, word)
}

// processKnownWord handles words already in the master dictionary: score from
// the stored frequency, pay the owner a royalty, or queue an ownership claim
// when the word is unowned.
func (s *SubmissionService) processKnownWord(ctx context.Context, r SubmissionRequest, word string, entry model.WordEntry, isWotd bool) (ProcessedWordResult, error) {
	points := ScoreWord(word, entry.Frequency)

	if isWotd {
		if entry.OriginalOwner == "" {
			// Ownership of the word of the day is never granted inline; a
			// moderation step picks the single winner among duplicate claims.
			def := r.WordOfTheDayDefinition
			if def == "" {
				def = entry.Definition
			}

			err := s.store.EnqueueSubmission(ctx, store.EnqueueSubmissionRequest{
				WordText:            word,
				Definition:          def,
				Frequency:           entry.Frequency,
				SubmitterID:         r.SubmitterID,
				PuzzleDate:          r.PuzzleDate,
				IsWordOfTheDayClaim: true,
			})
			if err != nil && !errors.Is(err, store.ErrExists) {
				return ProcessedWordResult{}, fmt.Errorf("enqueue wotd claim: %w", err)
			}

			return ProcessedWordResult{
				Status:         StatusSuccessWotd,
				Message:        "You found the Word of the Day! Your ownership claim is awaiting review.",
				PointsAwarded:  points,
				IsWordOfTheDay: true,
			}, nil
		}

		if entry.OriginalOwner != r.SubmitterID {
			s.payRoyalty(ctx, entry.OriginalOwner, points, word)
		}

		return ProcessedWordResult{
			Status:         StatusSuccessWotd,
			Message:        "You found the Word of the Day!",
			PointsAwarded:  points,
			IsWordOfTheDay: true,
		}, nil
	}

	if entry.OriginalOwner == "" {
		err := s.store.EnqueueSubmission(ctx, store.EnqueueSubmissionRequest{
			WordText:    word,
			Definition:  entry.Definition,
			Frequency:   entry.Frequency,
			SubmitterID: r.SubmitterID,
			PuzzleDate:  r.PuzzleDate,
		})
		if errors.Is(err, store.ErrExists) {
			return ProcessedWordResult{
				Status:        StatusSuccessDuplicatePending,
				Message:       "Nice find! This word is already awaiting review.",
				PointsAwarded: points,
			}, nil
		}
		if err != nil {
			return ProcessedWordResult{}, fmt.Errorf("enqueue ownership claim: %w", err)
		}

		return ProcessedWordResult{
			Status:        StatusSuccessNewUnverified,
			Message:       "Nice find! Your ownership claim is awaiting review.",
			PointsAwarded: points,
		}, nil
	}

	if entry.OriginalOwner != r.SubmitterID {
		s.payRoyalty(ctx, entry.OriginalOwner, points, word)
	}

	return ProcessedWordResult{
		Status:        StatusSuccessApproved,
		Message:       "Nice find!",
		PointsAwarded: points,
	}, nil
}

// processWotdClaim handles the word of the day before anyone has added it to
// the dictionary: provisional points now, ownership pending moderation.
func (s *SubmissionService) processWotdClaim(ctx context.Context, r SubmissionRequest, word string) (ProcessedWordResult, error) {
	points := r.WordOfTheDayPoints
	if points <= 0 {
		points = ScoreWord(word, neutralFrequency)
	}

	err := s.store.EnqueueSubmission(ctx, store.EnqueueSubmissionRequest{
		WordText:            word,
		Definition:          r.WordOfTheDayDefinition,
		Frequency:           neutralFrequency,
		SubmitterID:         r.SubmitterID,
		PuzzleDate:          r.PuzzleDate,
		IsWordOfTheDayClaim: true,
	})
	if err != nil && !errors.Is(err, store.ErrExists) {
		return ProcessedWordResult{}, fmt.Errorf("enqueue wotd claim: %w", err)
	}

	return ProcessedWordResult{
		Status:         StatusSuccessWotd,
		Message:        "You found the Word of the Day! Your ownership claim is awaiting review.",
		PointsAwarded:  points,
		IsWordOfTheDay: true,
	}, nil
}

// verifyUnknownWord consults the primary source, falling back to the
// secondary on not-found or transport failure. A confirmed word is
// auto-approved with the submitter as owner; an unconfirmed one is a clean
// rejection; a double transport failure is retryable.
func (s *SubmissionService) verifyUnknownWord(ctx context.Context, r SubmissionRequest, word string) (ProcessedWordResult, error) {
	var (
		entry dictionary.Entry
		found bool
	)

	if s.primary != nil {
		e, err := s.primary.Lookup(ctx, word)
		switch {
		case err == nil:
			entry, found = e, true
		case errors.Is(err, dictionary.ErrNotFound):
		default:
			// Unreachable primary falls through to the secondary rather than
			// failing the submission outright.
			slog.Warn("primary dictionary unavailable", "word", word, "error", err)
		}
	}

	if !found {
		e, err := s.secondary.Lookup(ctx, word)
		switch {
		case err == nil:
			entry, found = e, true
		case errors.Is(err, dictionary.ErrNotFound):
		default:
			slog.Warn("secondary dictionary unavailable", "word", word, "error", err)
			return ProcessedWordResult{
				Status:  StatusErrorAPI,
				Message: "We could not verify that word right now. Please try again.",
			}, nil
		}
	}

	if !found {
		return ProcessedWordResult{
			Status:  StatusRejectedNotFound,
			Message: "That word is not in our dictionaries.",
		}, nil
	}

	freq := entry.Frequency
	if freq <= 0 {
		freq = neutralFrequency
	}

	err := s.store.CreateWord(ctx, store.CreateWordRequest{
		WordText:           word,
		Definition:         entry.Definition,
		Frequency:          freq,
		AddedBy:            systemActor,
		OriginalOwner:      r.SubmitterID,
		OwnershipClaimDate: r.PuzzleDate,
	})
	if errors.Is(err, store.ErrExists) {
		// Lost a race with another player verifying the same word; re-read
		// and treat it as a dictionary hit so exactly one submitter owns it.
		won, err := s.store.GetWord(ctx, store.GetWordRequest{WordText: word})
		if err != nil {
			return ProcessedWordResult{}, fmt.Errorf("re-read raced word: %w", err)
		}

		return s.processKnownWord(ctx, r, word, won, false)
	}
	if err != nil {
		return ProcessedWordResult{}, fmt.Errorf("create word: %w", err)
	}

	return ProcessedWordResult{
		Status:             StatusSuccessApproved,
		Message:            fmt.Sprintf("New word! %s is now yours.", word),
		PointsAwarded:      ScoreWord(word, freq),
		IsNewlyOwned:       true,
		NewlyOwnedWordText: word,
	}, nil
}

// lookupRejection checks the rejection registry, caching hits: rejected words
// get hammered by retries within a session and entries only change through
// moderation.
func (s *SubmissionService) lookupRejection(ctx context.Context, word string) (model.RejectedWordEntry, bool, error) {
	if rej, found := s.rejections.Get(word); found {
		return rej, true, nil
	}

	rej, err := s.store.GetRejectedWord(ctx, store.GetRejectedWordRequest{WordText: word})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return model.RejectedWordEntry{}, false, nil
		}

		return model.RejectedWordEntry{}, false, err
	}

	s.rejections.Set(word, rej, 1)
	return rej, true, nil
}

func rejectionResult(word string, rej model.RejectedWordEntry) ProcessedWordResult {
	if rej.RejectionType == model.RejectionGibberish {
		penalty := ScoreWord(word, gibberishFrequency)
		return ProcessedWordResult{
			Status:        StatusRejectedGibberish,
			Message:       fmt.Sprintf("That is not a real word. %d point penalty.", penalty),
			PointsAwarded: -penalty,
		}
	}

	return ProcessedWordResult{
		Status:  StatusRejectedAdmin,
		Message: "That word is not allowed.",
	}
}

// payRoyalty credits the word's owner. Best effort: a failed payout is logged
// and never alters the submitter's own result.
func (s *SubmissionService) payRoyalty(ctx context.Context, ownerID string, points int, word string) {
	err := s.store.IncrementPlayerScore(ctx, store.IncrementPlayerScoreRequest{
		PlayerID: ownerID,
		Amount:   int64(points),
	})
	if err != nil {
		slog.Error("royalty payout failed",
			"owner", ownerID,
			"word", word,
			"points", points,
			"error", err,
		)
	}
}
