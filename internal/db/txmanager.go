package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
	"github.com/SealGummies/online-learning-platform/internal/pkg/dberrors"
	"github.com/SealGummies/online-learning-platform/internal/pkg/logger"
)

// defaultTxTimeout bounds a unit of work that arrives without a deadline.
const defaultTxTimeout = 30 * time.Second

// TxFn is a unit of work: a sequence of dependent store operations that
// commit or abort as a single atomic group. All operations must go through
// the supplied transaction so they stay confined to it.
type TxFn func(ctx context.Context, tx pgx.Tx) error

// Transactor is the store-facing contract the domain services depend on.
type Transactor interface {
	RunInTx(ctx context.Context, fn TxFn) error
	RunSequence(ctx context.Context, fns ...TxFn) error
	RunWithRetry(ctx context.Context, maxAttempts int, fn TxFn) error
}

// txBeginner is satisfied by *pgxpool.Pool and by pgx.Tx (nested transactions).
type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxManager runs units of work inside database transactions. It owns the
// commit-on-success / rollback-on-failure decision and guarantees the
// transaction is finalized exactly once on every exit path, including panics
// and context cancellation. It never reinterprets errors raised by the unit
// of work.
type TxManager struct {
	db txBeginner
}

// NewTxManager creates a new TxManager on top of a connection pool
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{db: pool}
}

// RunInTx executes fn within a transaction. The transaction commits only when
// fn returns nil; any error (or panic) rolls it back and the original error
// propagates unchanged. A commit that fails on a store-reported write
// conflict is wrapped as a transient conflict so callers may retry.
func (m *TxManager) RunInTx(ctx context.Context, fn TxFn) error {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTxTimeout)
		defer cancel()
	}

	tx, err := m.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// Rollback is a no-op once the transaction committed; pgx reports
	// ErrTxClosed for the second finalization, which keeps the
	// release-exactly-once contract on all paths, panics included.
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			logger.Error().Err(rbErr).Msg("Failed to rollback transaction")
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if dberrors.IsSerializationFailure(err) {
			return apperrors.NewTransientConflict("commit", err)
		}
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// RunSequence executes an ordered list of units of work against one shared
// transaction with a single commit or abort. Either every unit's writes
// persist or none do; the first failing unit aborts the whole sequence.
func (m *TxManager) RunSequence(ctx context.Context, fns ...TxFn) error {
	return m.RunInTx(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, fn := range fns {
			if err := fn(ctx, tx); err != nil {
				return err
			}
		}
		return nil
	})
}
