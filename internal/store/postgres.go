package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gamma-omg/lexiverse/internal/model"
	"github.com/lib/pq"
)

const (
	errUniqueViolation     pq.ErrorCode = "23505"
	errForeignKeyViolation pq.ErrorCode = "23503"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresStore implements DataStore using PostgreSQL as the backend.
// Conditional UPDATE guards give the at-most-one-winner semantics the claim
// and transfer paths rely on across server instances.
type PostgresStore struct {
	db *sql.DB
	q  querier
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

func NewPostgresDB(cfg PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.DB))
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, q: db}
}

func (s *PostgresStore) GetWord(ctx context.Context, r GetWordRequest) (model.WordEntry, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT word_text, definition, frequency, status, added_by, date_added,
		       COALESCE(original_owner, ''), COALESCE(ownership_claim_date, ''), COALESCE(pending_transfer_id, '')
		FROM words WHERE word_text = $1`, r.WordText)

	var e model.WordEntry
	err := row.Scan(&e.WordText, &e.Definition, &e.Frequency, &e.Status, &e.AddedBy, &e.DateAdded,
		&e.OriginalOwner, &e.OwnershipClaimDate, &e.PendingTransferID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.WordEntry{}, ErrNotFound
		}

		return model.WordEntry{}, fmt.Errorf("query word: %w", err)
	}

	return e, nil
}

func (s *PostgresStore) CreateWord(ctx context.Context, r CreateWordRequest) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO words (word_text, definition, frequency, status, added_by, original_owner, ownership_claim_date)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), NULLIF($7, ''))`,
		r.WordText, r.Definition, r.Frequency, model.WordApproved, r.AddedBy, r.OriginalOwner, r.OwnershipClaimDate)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return ErrExists
		}

		return fmt.Errorf("insert word: %w", err)
	}

	return nil
}

func (s *PostgresStore) SetWordOwner(ctx context.Context, r SetWordOwnerRequest) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE words SET original_owner = $2, ownership_claim_date = $3
		WHERE word_text = $1 AND original_owner IS NULL`,
		r.WordText, r.Owner, r.OwnershipClaimDate)
	if err != nil {
		return fmt.Errorf("set word owner: %w", err)
	}

	return oneRowOr(res, ErrConflict)
}

func (s *PostgresStore) TransferWordOwner(ctx context.Context, r TransferWordOwnerRequest) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE words SET original_owner = $2, pending_transfer_id = NULL
		WHERE word_text = $1 AND pending_transfer_id = $3`,
		r.WordText, r.NewOwner, r.TransferID)
	if err != nil {
		return fmt.Errorf("transfer word owner: %w", err)
	}

	return oneRowOr(res, ErrConflict)
}

func (s *PostgresStore) GetRejectedWord(ctx context.Context, r GetRejectedWordRequest) (model.RejectedWordEntry, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT word_text, rejection_type, rejected_by, date_rejected, original_submitter_id
		FROM rejected_words WHERE word_text = $1`, r.WordText)

	var e model.RejectedWordEntry
	err := row.Scan(&e.WordText, &e.RejectionType, &e.RejectedBy, &e.DateRejected, &e.OriginalSubmitterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.RejectedWordEntry{}, ErrNotFound
		}

		return model.RejectedWordEntry{}, fmt.Errorf("query rejected word: %w", err)
	}

	return e, nil
}

func (s *PostgresStore) UpsertRejectedWord(ctx context.Context, r UpsertRejectedWordRequest) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO rejected_words (word_text, rejection_type, rejected_by, original_submitter_id)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (word_text) DO UPDATE SET
			rejection_type = EXCLUDED.rejection_type,
			rejected_by = EXCLUDED.rejected_by,
			date_rejected = now()`,
		r.WordText, r.RejectionType, r.RejectedBy, r.OriginalSubmitterID)
	if err != nil {
		return fmt.Errorf("upsert rejected word: %w", err)
	}

	return nil
}

func (s *PostgresStore) DeleteRejectedWord(ctx context.Context, r DeleteRejectedWordRequest) error {
	_, err := s.q.ExecContext(ctx, "DELETE FROM rejected_words WHERE word_text = $1", r.WordText)
	if err != nil {
		return fmt.Errorf("delete rejected word: %w", err)
	}

	return nil
}

func (s *PostgresStore) EnqueueSubmission(ctx context.Context, r EnqueueSubmissionRequest) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO submission_queue (word_text, definition, frequency, status, submitter_id, puzzle_date, is_wotd_claim)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.WordText, r.Definition, r.Frequency, model.QueuePendingReview, r.SubmitterID, r.PuzzleDate, r.IsWordOfTheDayClaim)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return ErrExists
		}

		return fmt.Errorf("enqueue submission: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetQueueEntry(ctx context.Context, r GetQueueEntryRequest) (model.SubmissionQueueEntry, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT word_text, definition, frequency, status, submitter_id, puzzle_date, is_wotd_claim, submitted_at
		FROM submission_queue WHERE word_text = $1`, r.WordText)

	var e model.SubmissionQueueEntry
	err := row.Scan(&e.WordText, &e.Definition, &e.Frequency, &e.Status, &e.SubmitterID, &e.PuzzleDate,
		&e.IsWordOfTheDayClaim, &e.SubmittedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.SubmissionQueueEntry{}, ErrNotFound
		}

		return model.SubmissionQueueEntry{}, fmt.Errorf("query queue entry: %w", err)
	}

	return e, nil
}

func (s *PostgresStore) ListQueue(ctx context.Context, r ListQueueRequest) ([]model.SubmissionQueueEntry, error) {
	limit := r.Limit
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.q.QueryContext(ctx, `
		SELECT word_text, definition, frequency, status, submitter_id, puzzle_date, is_wotd_claim, submitted_at
		FROM submission_queue ORDER BY submitted_at LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query queue: %w", err)
	}
	defer rows.Close()

	var entries []model.SubmissionQueueEntry
	for rows.Next() {
		var e model.SubmissionQueueEntry
		err := rows.Scan(&e.WordText, &e.Definition, &e.Frequency, &e.Status, &e.SubmitterID, &e.PuzzleDate,
			&e.IsWordOfTheDayClaim, &e.SubmittedAt)
		if err != nil {
			return nil, fmt.Errorf("scan queue entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate queue: %w", err)
	}

	return entries, nil
}

func (s *PostgresStore) DeleteQueueEntry(ctx context.Context, r DeleteQueueEntryRequest) error {
	res, err := s.q.ExecContext(ctx, "DELETE FROM submission_queue WHERE word_text = $1", r.WordText)
	if err != nil {
		return fmt.Errorf("delete queue entry: %w", err)
	}

	return oneRowOr(res, ErrNotFound)
}

func (s *PostgresStore) CreateTransfer(ctx context.Context, r CreateTransferRequest) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO ownership_transfers (id, word_text, sender_id, recipient_id, status, initiated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		r.ID, r.WordText, r.SenderID, r.RecipientID, model.TransferPendingRecipient, r.InitiatedAt, r.ExpiresAt)
	if err != nil {
		if isPqErr(err, errUniqueViolation) {
			return ErrExists
		}
		if isPqErr(err, errForeignKeyViolation) {
			return ErrNotFound
		}

		return fmt.Errorf("insert transfer: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetTransfer(ctx context.Context, r GetTransferRequest) (model.OwnershipTransfer, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT id, word_text, sender_id, recipient_id, status, initiated_at, expires_at, responded_at
		FROM ownership_transfers WHERE id = $1`, r.ID)

	var t model.OwnershipTransfer
	var respondedAt sql.NullTime
	err := row.Scan(&t.ID, &t.WordText, &t.SenderID, &t.RecipientID, &t.Status, &t.InitiatedAt, &t.ExpiresAt, &respondedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.OwnershipTransfer{}, ErrNotFound
		}

		return model.OwnershipTransfer{}, fmt.Errorf("query transfer: %w", err)
	}

	if respondedAt.Valid {
		t.RespondedAt = respondedAt.Time
	}

	return t, nil
}

func (s *PostgresStore) ResolveTransfer(ctx context.Context, r ResolveTransferRequest) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE ownership_transfers SET status = $2, responded_at = $3
		WHERE id = $1 AND status = $4`,
		r.ID, r.Status, r.RespondedAt, model.TransferPendingRecipient)
	if err != nil {
		return fmt.Errorf("resolve transfer: %w", err)
	}

	return oneRowOr(res, ErrConflict)
}

func (s *PostgresStore) SetPendingTransfer(ctx context.Context, r SetPendingTransferRequest) error {
	res, err := s.q.ExecContext(ctx, `
		UPDATE words SET pending_transfer_id = $2
		WHERE word_text = $1 AND pending_transfer_id IS NULL`,
		r.WordText, r.TransferID)
	if err != nil {
		return fmt.Errorf("set pending transfer: %w", err)
	}

	return oneRowOr(res, ErrConflict)
}

func (s *PostgresStore) ClearPendingTransfer(ctx context.Context, r ClearPendingTransferRequest) error {
	_, err := s.q.ExecContext(ctx, `
		UPDATE words SET pending_transfer_id = NULL
		WHERE word_text = $1 AND pending_transfer_id = $2`,
		r.WordText, r.TransferID)
	if err != nil {
		return fmt.Errorf("clear pending transfer: %w", err)
	}

	return nil
}

func (s *PostgresStore) IncrementPlayerScore(ctx context.Context, r IncrementPlayerScoreRequest) error {
	_, err := s.q.ExecContext(ctx, `
		INSERT INTO player_scores (player_id, total_score) VALUES ($1, $2)
		ON CONFLICT (player_id) DO UPDATE SET
			total_score = player_scores.total_score + EXCLUDED.total_score,
			updated_at = now()`,
		r.PlayerID, r.Amount)
	if err != nil {
		return fmt.Errorf("increment player score: %w", err)
	}

	return nil
}

func (s *PostgresStore) GetPlayerScore(ctx context.Context, r GetPlayerScoreRequest) (int64, error) {
	row := s.q.QueryRowContext(ctx, "SELECT total_score FROM player_scores WHERE player_id = $1", r.PlayerID)

	var score int64
	err := row.Scan(&score)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}

		return 0, fmt.Errorf("query player score: %w", err)
	}

	return score, nil
}

func (s *PostgresStore) GetPuzzle(ctx context.Context, r GetPuzzleRequest) (model.Puzzle, error) {
	row := s.q.QueryRowContext(ctx, `
		SELECT puzzle_date, letters, COALESCE(wotd_text, ''), COALESCE(wotd_definition, ''), COALESCE(wotd_points, 0)
		FROM puzzles WHERE puzzle_date = $1`, r.PuzzleDate)

	var p model.Puzzle
	err := row.Scan(&p.PuzzleDate, &p.Letters, &p.WordOfTheDay, &p.WordOfTheDayDefinition, &p.WordOfTheDayPoints)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Puzzle{}, ErrNotFound
		}

		return model.Puzzle{}, fmt.Errorf("query puzzle: %w", err)
	}

	return p, nil
}

func (s *PostgresStore) WithinTx(ctx context.Context, fn func(tx DataStore) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&PostgresStore{db: s.db, q: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback tx: %w", rbErr))
		}

		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func oneRowOr(res sql.Result, errNone error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return errNone
	}

	return nil
}

func isPqErr(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == code
}
