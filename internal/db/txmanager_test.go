package db

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
)

// fakeTx satisfies pgx.Tx via embedding; only the finalization methods are
// implemented, the rest panic if touched.
type fakeTx struct {
	pgx.Tx
	commits   int
	rollbacks int
	commitErr error
	closed    bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.commits++
	t.closed = true
	return t.commitErr
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.rollbacks++
	t.closed = true
	return nil
}

func (t *fakeTx) finalizations() int {
	return t.commits + t.rollbacks
}

type fakeBeginner struct {
	txs      []*fakeTx
	beginErr error
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.beginErr != nil {
		return nil, b.beginErr
	}
	tx := &fakeTx{}
	b.txs = append(b.txs, tx)
	return tx, nil
}

func TestRunInTxCommitsOnSuccess(t *testing.T) {
	beginner := &fakeBeginner{}
	m := &TxManager{db: beginner}

	var got pgx.Tx
	err := m.RunInTx(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		got = tx
		return nil
	})

	require.NoError(t, err)
	require.Len(t, beginner.txs, 1)
	tx := beginner.txs[0]
	assert.Same(t, tx, got, "unit of work must receive the session it runs in")
	assert.Equal(t, 1, tx.commits)
	assert.Equal(t, 0, tx.rollbacks)
	assert.Equal(t, 1, tx.finalizations())
}

func TestRunInTxRollsBackOnErrorAndPropagatesUnchanged(t *testing.T) {
	beginner := &fakeBeginner{}
	m := &TxManager{db: beginner}

	sentinel := errors.New("domain failure")
	err := m.RunInTx(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		return sentinel
	})

	assert.Equal(t, sentinel, err, "coordinator must not reinterpret errors")
	tx := beginner.txs[0]
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
	assert.Equal(t, 1, tx.finalizations())
}

func TestRunInTxRollsBackOnPanic(t *testing.T) {
	beginner := &fakeBeginner{}
	m := &TxManager{db: beginner}

	require.Panics(t, func() {
		_ = m.RunInTx(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
			panic("unexpected fault")
		})
	})

	tx := beginner.txs[0]
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}

func TestRunInTxBeginFailure(t *testing.T) {
	beginner := &fakeBeginner{beginErr: errors.New("pool exhausted")}
	m := &TxManager{db: beginner}

	err := m.RunInTx(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		t.Fatal("unit of work must not run without a session")
		return nil
	})

	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to begin transaction")
}

func TestRunInTxCommitConflictIsTransient(t *testing.T) {
	beginner := &fakeBeginner{}
	m := &TxManager{db: beginner}

	ran := false
	// Serialization failures can surface at commit time; they must come out
	// classified as retryable.
	beginnerCommitErr := &pgconn.PgError{Code: "40001", Message: "could not serialize access"}
	err := m.RunInTx(context.Background(), func(ctx context.Context, tx pgx.Tx) error {
		tx.(*fakeTx).commitErr = beginnerCommitErr
		ran = true
		return nil
	})

	require.True(t, ran)
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
	assert.Equal(t, 1, beginner.txs[0].finalizations())
}

func TestRunSequenceSharesOneSession(t *testing.T) {
	beginner := &fakeBeginner{}
	m := &TxManager{db: beginner}

	var order []int
	var sessions []pgx.Tx
	err := m.RunSequence(context.Background(),
		func(ctx context.Context, tx pgx.Tx) error {
			order = append(order, 1)
			sessions = append(sessions, tx)
			return nil
		},
		func(ctx context.Context, tx pgx.Tx) error {
			order = append(order, 2)
			sessions = append(sessions, tx)
			return nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, order)
	require.Len(t, beginner.txs, 1, "sequence must use a single transaction")
	assert.Same(t, sessions[0], sessions[1])
	assert.Equal(t, 1, beginner.txs[0].commits)
}

func TestRunSequenceAbortsOnFirstFailure(t *testing.T) {
	beginner := &fakeBeginner{}
	m := &TxManager{db: beginner}

	sentinel := errors.New("second step failed")
	thirdRan := false
	err := m.RunSequence(context.Background(),
		func(ctx context.Context, tx pgx.Tx) error { return nil },
		func(ctx context.Context, tx pgx.Tx) error { return sentinel },
		func(ctx context.Context, tx pgx.Tx) error { thirdRan = true; return nil },
	)

	assert.Equal(t, sentinel, err)
	assert.False(t, thirdRan)
	tx := beginner.txs[0]
	assert.Equal(t, 0, tx.commits)
	assert.Equal(t, 1, tx.rollbacks)
}
