package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
	"github.com/SealGummies/online-learning-platform/internal/pkg/dberrors"
)

// AttemptRepository tracks graded submissions per (student, exam). The count
// is consulted and incremented inside the same transaction as grading, so two
// simultaneous submissions cannot both observe a count below the limit and
// both slip past it.
type AttemptRepository struct {
	db *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository
func NewAttemptRepository(db *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// CountTx returns the number of prior graded submissions for the
// (student, exam) pair inside the given transaction. The counter row is
// locked so a concurrent submission for the same pair serializes behind it.
func (r *AttemptRepository) CountTx(ctx context.Context, tx pgx.Tx, examID, studentID int64) (int, error) {
	var attempts int
	err := tx.QueryRow(ctx, `
		SELECT attempts FROM exam_attempts
		WHERE exam_id = $1 AND student_id = $2
		FOR UPDATE`, examID, studentID).Scan(&attempts)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		if dberrors.IsSerializationFailure(err) {
			return 0, apperrors.NewTransientConflict("count exam attempts", err)
		}
		return 0, fmt.Errorf("failed to count exam attempts: %w", err)
	}

	return attempts, nil
}

// IncrementTx bumps the attempt counter by one inside the given transaction
// and returns the new count.
func (r *AttemptRepository) IncrementTx(ctx context.Context, tx pgx.Tx, examID, studentID int64) (int, error) {
	var attempts int
	err := tx.QueryRow(ctx, `
		INSERT INTO exam_attempts (exam_id, student_id, attempts, updated_at)
		VALUES ($1, $2, 1, NOW())
		ON CONFLICT (exam_id, student_id)
		DO UPDATE SET attempts = exam_attempts.attempts + 1, updated_at = NOW()
		RETURNING attempts`, examID, studentID).Scan(&attempts)
	if err != nil {
		if dberrors.IsSerializationFailure(err) {
			return 0, apperrors.NewTransientConflict("increment exam attempts", err)
		}
		return 0, fmt.Errorf("failed to increment exam attempts: %w", err)
	}

	return attempts, nil
}
