package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
)

func newTestRetryPolicy(beginner *fakeBeginner) *RetryPolicy {
	return NewRetryPolicy(&TxManager{db: beginner})
}

func TestRunWithRetryTransientThenSuccess(t *testing.T) {
	beginner := &fakeBeginner{}
	p := newTestRetryPolicy(beginner)

	calls := 0
	err := p.RunWithRetry(context.Background(), 3, func(ctx context.Context, tx pgx.Tx) error {
		calls++
		if calls == 1 {
			return apperrors.NewTransientConflict("test write", errors.New("conflict"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls, "work must run exactly twice")
	require.Len(t, beginner.txs, 2, "each attempt gets a fresh transaction")
	assert.Equal(t, 1, beginner.txs[0].rollbacks)
	assert.Equal(t, 1, beginner.txs[1].commits)
}

func TestRunWithRetryExhaustsAttempts(t *testing.T) {
	beginner := &fakeBeginner{}
	p := newTestRetryPolicy(beginner)

	calls := 0
	err := p.RunWithRetry(context.Background(), 3, func(ctx context.Context, tx pgx.Tx) error {
		calls++
		return apperrors.NewTransientConflict("test write", errors.New("conflict"))
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls, "must stop after maxAttempts total attempts")
	assert.True(t, apperrors.IsTransient(err), "last transient error propagates")
}

func TestRunWithRetryTerminalErrorPropagatesImmediately(t *testing.T) {
	beginner := &fakeBeginner{}
	p := newTestRetryPolicy(beginner)

	sentinel := errors.New("terminal failure")
	calls := 0
	err := p.RunWithRetry(context.Background(), 3, func(ctx context.Context, tx pgx.Tx) error {
		calls++
		return sentinel
	})

	assert.Equal(t, sentinel, err)
	assert.Equal(t, 1, calls, "terminal errors are never retried")
}

func TestRunWithRetryDuplicateEnrollmentIsTerminal(t *testing.T) {
	beginner := &fakeBeginner{}
	p := newTestRetryPolicy(beginner)

	calls := 0
	err := p.RunWithRetry(context.Background(), 3, func(ctx context.Context, tx pgx.Tx) error {
		calls++
		return apperrors.ErrDuplicateEnrollment
	})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateEnrollment)
	assert.Equal(t, 1, calls)
}

func TestRunWithRetryAtLeastOneAttempt(t *testing.T) {
	beginner := &fakeBeginner{}
	p := newTestRetryPolicy(beginner)

	calls := 0
	err := p.RunWithRetry(context.Background(), 0, func(ctx context.Context, tx pgx.Tx) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
