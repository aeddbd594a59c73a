package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gamma-omg/lexiverse/internal/store"
)

// CircleScoreAggregator receives a player's final daily score for team score
// sums. The aggregation itself lives outside this service.
type CircleScoreAggregator interface {
	RecordDailyScore(ctx context.Context, playerID, puzzleDate string, finalScore int) error
}

// SessionService closes out a finished game session: it applies the word of
// the day doubling exactly once, credits the player's persistent score, and
// reports the final score to the circle aggregator.
type SessionService struct {
	store   store.DataStore
	circles CircleScoreAggregator
}

func NewSessionService(ds store.DataStore, circles CircleScoreAggregator) *SessionService {
	return &SessionService{
		store:   ds,
		circles: circles,
	}
}

type FinalizeSessionRequest struct {
	PlayerID   string
	PuzzleDate string
	BaseScore  int
	// FoundWordOfTheDay covers pending claims too: finding the word doubles
	// the day even while ownership is still under review.
	FoundWordOfTheDay bool
}

type FinalizeSessionResponse struct {
	FinalScore int
	Doubled    bool
}

// FinalizeSession is the only place the 2x multiplier is applied; per-word
// results always carry base points.
func (s *SessionService) FinalizeSession(ctx context.Context, r FinalizeSessionRequest) (FinalizeSessionResponse, error) {
	final := r.BaseScore
	if r.FoundWordOfTheDay {
		final *= 2
	}

	err := s.store.IncrementPlayerScore(ctx, store.IncrementPlayerScoreRequest{
		PlayerID: r.PlayerID,
		Amount:   int64(final),
	})
	if err != nil {
		return FinalizeSessionResponse{}, fmt.Errorf("credit session score: %w", err)
	}

	if s.circles != nil {
		err := s.circles.RecordDailyScore(ctx, r.PlayerID, r.PuzzleDate, final)
		if err != nil {
			slog.Error("circle score aggregation failed",
				"player", r.PlayerID,
				"puzzle_date", r.PuzzleDate,
				"score", final,
				"error", err,
			)
		}
	}

	return FinalizeSessionResponse{
		FinalScore: final,
		Doubled:    r.FoundWordOfTheDay,
	}, nil
}
