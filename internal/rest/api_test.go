package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gamma-omg/lexiverse/internal/model"
	"github.com/gamma-omg/lexiverse/internal/pkg/middleware"
	"github.com/gamma-omg/lexiverse/internal/pkg/serr"
	"github.com/gamma-omg/lexiverse/internal/pkg/testutil"
	"github.com/gamma-omg/lexiverse/internal/service"
	"github.com/gamma-omg/lexiverse/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockSubmissionService struct {
	ProcessWordSubmissionFunc func(ctx context.Context, r service.SubmissionRequest) service.ProcessedWordResult
}

func (m *mockSubmissionService) ProcessWordSubmission(ctx context.Context, r service.SubmissionRequest) service.ProcessedWordResult {
	return m.ProcessWordSubmissionFunc(ctx, r)
}

type mockSessionService struct {
	FinalizeSessionFunc func(ctx context.Context, r service.FinalizeSessionRequest) (service.FinalizeSessionResponse, error)
}

func (m *mockSessionService) FinalizeSession(ctx context.Context, r service.FinalizeSessionRequest) (service.FinalizeSessionResponse, error) {
	return m.FinalizeSessionFunc(ctx, r)
}

type mockTransferService struct {
	InitiateFunc func(ctx context.Context, r service.InitiateTransferRequest) (model.OwnershipTransfer, error)
	RespondFunc  func(ctx context.Context, r service.RespondToTransferRequest) (model.OwnershipTransfer, error)
}

func (m *mockTransferService) Initiate(ctx context.Context, r service.InitiateTransferRequest) (model.OwnershipTransfer, error) {
	return m.InitiateFunc(ctx, r)
}

func (m *mockTransferService) Respond(ctx context.Context, r service.RespondToTransferRequest) (model.OwnershipTransfer, error) {
	return m.RespondFunc(ctx, r)
}

type mockModerationService struct {
	ReviewSubmissionFunc func(ctx context.Context, r service.ReviewSubmissionRequest) error
	ListQueueFunc        func(ctx context.Context, limit int) ([]model.SubmissionQueueEntry, error)
}

func (m *mockModerationService) ReviewSubmission(ctx context.Context, r service.ReviewSubmissionRequest) error {
	return m.ReviewSubmissionFunc(ctx, r)
}

func (m *mockModerationService) ListQueue(ctx context.Context, limit int) ([]model.SubmissionQueueEntry, error) {
	return m.ListQueueFunc(ctx, limit)
}

type mockPuzzleStore struct {
	GetPuzzleFunc func(ctx context.Context, r store.GetPuzzleRequest) (model.Puzzle, error)
}

func (m *mockPuzzleStore) GetPuzzle(ctx context.Context, r store.GetPuzzleRequest) (model.Puzzle, error) {
	if m.GetPuzzleFunc == nil {
		return model.Puzzle{}, store.ErrNotFound
	}
	return m.GetPuzzleFunc(ctx, r)
}

// sendAs submits a request with the authenticated user already resolved, the
// way the auth middleware leaves it for the handlers.
func sendAs(t *testing.T, h http.Handler, userID, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var bodyRW strings.Builder
	enc := json.NewEncoder(&bodyRW)
	err := enc.Encode(body)
	require.NoError(t, err)

	req, err := http.NewRequest(method, path, strings.NewReader(bodyRW.String()))
	require.NoError(t, err)
	req = req.WithContext(middleware.ContextWithUserID(req.Context(), userID))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec
}

func TestPOSTSubmission(t *testing.T) {
	api := NewAPI(
		&mockSubmissionService{
			ProcessWordSubmissionFunc: func(ctx context.Context, r service.SubmissionRequest) service.ProcessedWordResult {
				assert.Equal(t, "ZEPHYR", r.WordText)
				assert.Equal(t, "player-1", r.SubmitterID)
				assert.Equal(t, "2026-08-28", r.PuzzleDate)
				assert.Equal(t, "ZEPHYR", r.WordOfTheDayText)
				assert.Equal(t, 150, r.WordOfTheDayPoints)

				return service.ProcessedWordResult{
					Status:         service.StatusSuccessWotd,
					Message:        "You found the Word of the Day!",
					PointsAwarded:  150,
					IsWordOfTheDay: true,
				}
			},
		},
		nil, nil, nil,
		&mockPuzzleStore{
			GetPuzzleFunc: func(ctx context.Context, r store.GetPuzzleRequest) (model.Puzzle, error) {
				assert.Equal(t, "2026-08-28", r.PuzzleDate)
				return model.Puzzle{
					PuzzleDate:         "2026-08-28",
					Letters:            "ZEPHYRSAB",
					WordOfTheDay:       "ZEPHYR",
					WordOfTheDayPoints: 150,
				}, nil
			},
		},
	)

	rec := sendAs(t, api, "player-1", "POST", "/submissions", submitWordRequest{
		WordText:   "ZEPHYR",
		PuzzleDate: "2026-08-28",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[submitWordResponse](t, rec)
	assert.Equal(t, "success_wotd", resp.Status)
	assert.Equal(t, 150, resp.PointsAwarded)
	assert.True(t, resp.IsWordOfTheDay)
}

func TestPOSTSubmission_NoPuzzleConfigured(t *testing.T) {
	api := NewAPI(
		&mockSubmissionService{
			ProcessWordSubmissionFunc: func(ctx context.Context, r service.SubmissionRequest) service.ProcessedWordResult {
				assert.Empty(t, r.WordOfTheDayText)
				return service.ProcessedWordResult{Status: service.StatusSuccessApproved, PointsAwarded: 12}
			},
		},
		nil, nil, nil, &mockPuzzleStore{},
	)

	rec := sendAs(t, api, "player-1", "POST", "/submissions", submitWordRequest{
		WordText:   "HELLO",
		PuzzleDate: "2026-08-28",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[submitWordResponse](t, rec)
	assert.Equal(t, "success_approved", resp.Status)
}

func TestPOSTSubmission_BadRequest(t *testing.T) {
	api := NewAPI(&mockSubmissionService{}, nil, nil, nil, &mockPuzzleStore{})

	rec := sendAs(t, api, "player-1", "POST", "/submissions", "not an object")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPOSTSession(t *testing.T) {
	api := NewAPI(nil,
		&mockSessionService{
			FinalizeSessionFunc: func(ctx context.Context, r service.FinalizeSessionRequest) (service.FinalizeSessionResponse, error) {
				assert.Equal(t, "player-1", r.PlayerID)
				assert.Equal(t, 120, r.BaseScore)
				assert.True(t, r.FoundWordOfTheDay)

				return service.FinalizeSessionResponse{FinalScore: 240, Doubled: true}, nil
			},
		},
		nil, nil, &mockPuzzleStore{},
	)

	rec := sendAs(t, api, "player-1", "POST", "/sessions", finalizeSessionRequest{
		PuzzleDate:        "2026-08-28",
		BaseScore:         120,
		FoundWordOfTheDay: true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[finalizeSessionResponse](t, rec)
	assert.Equal(t, 240, resp.FinalScore)
	assert.True(t, resp.Doubled)
}

func TestPUTTransfer(t *testing.T) {
	now := time.Now()
	api := NewAPI(nil, nil,
		&mockTransferService{
			InitiateFunc: func(ctx context.Context, r service.InitiateTransferRequest) (model.OwnershipTransfer, error) {
				assert.Equal(t, "player-1", r.SenderID)
				assert.Equal(t, "player-2", r.RecipientID)

				return model.OwnershipTransfer{
					ID:          "t-1",
					WordText:    "ZEPHYR",
					SenderID:    r.SenderID,
					RecipientID: r.RecipientID,
					Status:      model.TransferPendingRecipient,
					InitiatedAt: now,
					ExpiresAt:   now.Add(24 * time.Hour),
				}, nil
			},
		},
		nil, &mockPuzzleStore{},
	)

	rec := sendAs(t, api, "player-1", "PUT", "/transfers", initiateTransferRequest{
		WordText:    "ZEPHYR",
		RecipientID: "player-2",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := testutil.ParseResponse[transferResponse](t, rec)
	assert.Equal(t, "t-1", resp.TransferID)
	assert.Equal(t, "pending_recipient", resp.Status)
}

func TestPUTTransfer_NotOwner(t *testing.T) {
	api := NewAPI(nil, nil,
		&mockTransferService{
			InitiateFunc: func(ctx context.Context, r service.InitiateTransferRequest) (model.OwnershipTransfer, error) {
				return model.OwnershipTransfer{}, serr.NewServiceError(nil, http.StatusForbidden, "you do not own this word")
			},
		},
		nil, &mockPuzzleStore{},
	)

	rec := sendAs(t, api, "player-1", "PUT", "/transfers", initiateTransferRequest{
		WordText:    "ZEPHYR",
		RecipientID: "player-2",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestPOSTTransferResponse(t *testing.T) {
	api := NewAPI(nil, nil,
		&mockTransferService{
			RespondFunc: func(ctx context.Context, r service.RespondToTransferRequest) (model.OwnershipTransfer, error) {
				assert.Equal(t, "t-1", r.TransferID)
				assert.Equal(t, "player-2", r.ResponderID)
				assert.Equal(t, model.DecisionAccept, r.Decision)

				return model.OwnershipTransfer{
					ID:       "t-1",
					WordText: "ZEPHYR",
					Status:   model.TransferAccepted,
				}, nil
			},
		},
		nil, &mockPuzzleStore{},
	)

	rec := sendAs(t, api, "player-2", "POST", "/transfers/t-1/response", respondToTransferRequest{
		Decision: "accept",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[transferResponse](t, rec)
	assert.Equal(t, "accepted", resp.Status)
}

func TestGETQueue(t *testing.T) {
	submitted := time.Now()
	api := NewAPI(nil, nil, nil,
		&mockModerationService{
			ListQueueFunc: func(ctx context.Context, limit int) ([]model.SubmissionQueueEntry, error) {
				return []model.SubmissionQueueEntry{{
					WordText:            "ZEPHYR",
					Definition:          "a gentle breeze",
					Frequency:           2.0,
					SubmitterID:         "player-1",
					PuzzleDate:          "2026-08-28",
					IsWordOfTheDayClaim: true,
					SubmittedAt:         submitted,
				}}, nil
			},
		},
		&mockPuzzleStore{},
	)

	rec := sendAs(t, api, "admin-1", "GET", "/queue", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := testutil.ParseResponse[listQueueResponse](t, rec)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "ZEPHYR", resp.Entries[0].WordText)
	assert.True(t, resp.Entries[0].IsWordOfTheDayClaim)
}

func TestPOSTQueueReview(t *testing.T) {
	api := NewAPI(nil, nil, nil,
		&mockModerationService{
			ReviewSubmissionFunc: func(ctx context.Context, r service.ReviewSubmissionRequest) error {
				assert.Equal(t, "ZEPHYR", r.WordText)
				assert.Equal(t, "admin-1", r.ReviewerID)
				assert.False(t, r.Approve)
				assert.Equal(t, model.RejectionGibberish, r.RejectionType)
				return nil
			},
		},
		&mockPuzzleStore{},
	)

	rec := sendAs(t, api, "admin-1", "POST", "/queue/ZEPHYR/review", reviewSubmissionRequest{
		Approve:       false,
		RejectionType: "gibberish",
	})
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestPOSTQueueReview_NotFound(t *testing.T) {
	api := NewAPI(nil, nil, nil,
		&mockModerationService{
			ReviewSubmissionFunc: func(ctx context.Context, r service.ReviewSubmissionRequest) error {
				return serr.NewServiceError(nil, http.StatusNotFound, "queued submission not found")
			},
		},
		&mockPuzzleStore{},
	)

	rec := sendAs(t, api, "admin-1", "POST", "/queue/MISSING/review", reviewSubmissionRequest{Approve: true})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
