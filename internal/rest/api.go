package rest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gamma-omg/lexiverse/internal/fn"
	"github.com/gamma-omg/lexiverse/internal/model"
	"github.com/gamma-omg/lexiverse/internal/pkg/httpx"
	"github.com/gamma-omg/lexiverse/internal/pkg/middleware"
	"github.com/gamma-omg/lexiverse/internal/pkg/serr"
	"github.com/gamma-omg/lexiverse/internal/service"
	"github.com/gamma-omg/lexiverse/internal/store"
)

type submissionService interface {
	ProcessWordSubmission(ctx context.Context, r service.SubmissionRequest) service.ProcessedWordResult
}

type sessionService interface {
	FinalizeSession(ctx context.Context, r service.FinalizeSessionRequest) (service.FinalizeSessionResponse, error)
}

type transferService interface {
	Initiate(ctx context.Context, r service.InitiateTransferRequest) (model.OwnershipTransfer, error)
	Respond(ctx context.Context, r service.RespondToTransferRequest) (model.OwnershipTransfer, error)
}

type moderationService interface {
	ReviewSubmission(ctx context.Context, r service.ReviewSubmissionRequest) error
	ListQueue(ctx context.Context, limit int) ([]model.SubmissionQueueEntry, error)
}

type puzzleStore interface {
	GetPuzzle(ctx context.Context, r store.GetPuzzleRequest) (model.Puzzle, error)
}

type API struct {
	submissions submissionService
	sessions    sessionService
	transfers   transferService
	moderation  moderationService
	puzzles     puzzleStore
	mux         http.ServeMux
}

func NewAPI(submissions submissionService, sessions sessionService, transfers transferService, moderation moderationService, puzzles puzzleStore) *API {
	api := &API{
		submissions: submissions,
		sessions:    sessions,
		transfers:   transfers,
		moderation:  moderation,
		puzzles:     puzzles,
		mux:         *http.NewServeMux(),
	}

	api.mount()
	return api
}

func (api *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.mux.ServeHTTP(w, r)
}

func (api *API) mount() {
	api.mux.HandleFunc("POST /submissions", api.handleSubmitWord)
	api.mux.HandleFunc("POST /sessions", api.handleFinalizeSession)
	api.mux.HandleFunc("PUT /transfers", api.handleInitiateTransfer)
	api.mux.HandleFunc("POST /transfers/{transfer_id}/response", api.handleRespondToTransfer)
	api.mux.HandleFunc("GET /queue", api.handleListQueue)
	api.mux.HandleFunc("POST /queue/{word_text}/review", api.handleReviewSubmission)
}

type submitWordRequest struct {
	WordText   string `json:"word_text"`
	PuzzleDate string `json:"puzzle_date"`
}

type submitWordResponse struct {
	Status             string `json:"status"`
	Message            string `json:"message"`
	PointsAwarded      int    `json:"points_awarded"`
	IsWordOfTheDay     bool   `json:"is_word_of_the_day"`
	IsNewlyOwned       bool   `json:"is_newly_owned"`
	NewlyOwnedWordText string `json:"newly_owned_word_text,omitempty"`
}

func (api *API) handleSubmitWord(w http.ResponseWriter, r *http.Request) {
	var req submitWordRequest
	err := httpx.ReadJSON(r, &req)
	if err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	puzzle, err := api.puzzles.GetPuzzle(r.Context(), store.GetPuzzleRequest{PuzzleDate: req.PuzzleDate})
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		httpx.HandleErr(w, r, err)
		return
	}

	result := api.submissions.ProcessWordSubmission(r.Context(), service.SubmissionRequest{
		WordText:               req.WordText,
		SubmitterID:            middleware.UserIDFromContext(r.Context()),
		PuzzleDate:             req.PuzzleDate,
		WordOfTheDayText:       puzzle.WordOfTheDay,
		WordOfTheDayDefinition: puzzle.WordOfTheDayDefinition,
		WordOfTheDayPoints:     puzzle.WordOfTheDayPoints,
	})

	err = httpx.WriteJSON(w, http.StatusOK, submitWordResponse{
		Status:             string(result.Status),
		Message:            result.Message,
		PointsAwarded:      result.PointsAwarded,
		IsWordOfTheDay:     result.IsWordOfTheDay,
		IsNewlyOwned:       result.IsNewlyOwned,
		NewlyOwnedWordText: result.NewlyOwnedWordText,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

type finalizeSessionRequest struct {
	PuzzleDate        string `json:"puzzle_date"`
	BaseScore         int    `json:"base_score"`
	FoundWordOfTheDay bool   `json:"found_word_of_the_day"`
}

type finalizeSessionResponse struct {
	FinalScore int  `json:"final_score"`
	Doubled    bool `json:"doubled"`
}

func (api *API) handleFinalizeSession(w http.ResponseWriter, r *http.Request) {
	var req finalizeSessionRequest
	err := httpx.ReadJSON(r, &req)
	if err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	resp, err := api.sessions.FinalizeSession(r.Context(), service.FinalizeSessionRequest{
		PlayerID:          middleware.UserIDFromContext(r.Context()),
		PuzzleDate:        req.PuzzleDate,
		BaseScore:         req.BaseScore,
		FoundWordOfTheDay: req.FoundWordOfTheDay,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, finalizeSessionResponse{
		FinalScore: resp.FinalScore,
		Doubled:    resp.Doubled,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

type initiateTransferRequest struct {
	WordText    string `json:"word_text"`
	RecipientID string `json:"recipient_id"`
}

type transferResponse struct {
	TransferID  string    `json:"transfer_id"`
	WordText    string    `json:"word_text"`
	SenderID    string    `json:"sender_id"`
	RecipientID string    `json:"recipient_id"`
	Status      string    `json:"status"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (api *API) handleInitiateTransfer(w http.ResponseWriter, r *http.Request) {
	var req initiateTransferRequest
	err := httpx.ReadJSON(r, &req)
	if err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	transfer, err := api.transfers.Initiate(r.Context(), service.InitiateTransferRequest{
		WordText:    req.WordText,
		SenderID:    middleware.UserIDFromContext(r.Context()),
		RecipientID: req.RecipientID,
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusCreated, toTransferResponse(transfer))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

type respondToTransferRequest struct {
	Decision string `json:"decision"`
}

func (api *API) handleRespondToTransfer(w http.ResponseWriter, r *http.Request) {
	var req respondToTransferRequest
	err := httpx.ReadJSON(r, &req)
	if err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	transfer, err := api.transfers.Respond(r.Context(), service.RespondToTransferRequest{
		TransferID:  r.PathValue("transfer_id"),
		ResponderID: middleware.UserIDFromContext(r.Context()),
		Decision:    model.TransferDecision(req.Decision),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, toTransferResponse(transfer))
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

type queueEntryResponse struct {
	WordText            string    `json:"word_text"`
	Definition          string    `json:"definition"`
	Frequency           float64   `json:"frequency"`
	SubmitterID         string    `json:"submitter_id"`
	PuzzleDate          string    `json:"puzzle_date"`
	IsWordOfTheDayClaim bool      `json:"is_wotd_claim"`
	SubmittedAt         time.Time `json:"submitted_at"`
}

type listQueueResponse struct {
	Entries []queueEntryResponse `json:"entries"`
}

func (api *API) handleListQueue(w http.ResponseWriter, r *http.Request) {
	entries, err := api.moderation.ListQueue(r.Context(), 0)
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	err = httpx.WriteJSON(w, http.StatusOK, listQueueResponse{
		Entries: fn.Map(entries, func(e model.SubmissionQueueEntry) queueEntryResponse {
			return queueEntryResponse{
				WordText:            e.WordText,
				Definition:          e.Definition,
				Frequency:           e.Frequency,
				SubmitterID:         e.SubmitterID,
				PuzzleDate:          e.PuzzleDate,
				IsWordOfTheDayClaim: e.IsWordOfTheDayClaim,
				SubmittedAt:         e.SubmittedAt,
			}
		}),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}
}

type reviewSubmissionRequest struct {
	Approve       bool   `json:"approve"`
	RejectionType string `json:"rejection_type,omitempty"`
}

func (api *API) handleReviewSubmission(w http.ResponseWriter, r *http.Request) {
	var req reviewSubmissionRequest
	err := httpx.ReadJSON(r, &req)
	if err != nil {
		httpx.HandleErr(w, r, serr.NewServiceError(err, http.StatusBadRequest, "invalid request body"))
		return
	}

	err = api.moderation.ReviewSubmission(r.Context(), service.ReviewSubmissionRequest{
		WordText:      r.PathValue("word_text"),
		ReviewerID:    middleware.UserIDFromContext(r.Context()),
		Approve:       req.Approve,
		RejectionType: model.RejectionType(req.RejectionType),
	})
	if err != nil {
		httpx.HandleErr(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toTransferResponse(t model.OwnershipTransfer) transferResponse {
	return transferResponse{
		TransferID:  t.ID,
		WordText:    t.WordText,
		SenderID:    t.SenderID,
		RecipientID: t.RecipientID,
		Status:      string(t.Status),
		ExpiresAt:   t.ExpiresAt,
	}
}
