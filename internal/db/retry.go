package db

import (
	"context"

	"github.com/SealGummies/online-learning-platform/internal/pkg/apperrors"
	"github.com/SealGummies/online-learning-platform/internal/pkg/logger"
)

// RetryPolicy re-runs units of work whose failure the store adapter
// classified as a transient conflict. Every attempt goes through the
// embedded TxManager, so each retry starts from a fresh transaction and a
// unit of work must keep all of its effects inside the session for the redo
// to be safe. Terminal errors propagate on first occurrence.
type RetryPolicy struct {
	*TxManager
}

// NewRetryPolicy creates a RetryPolicy around a TxManager
func NewRetryPolicy(tm *TxManager) *RetryPolicy {
	return &RetryPolicy{TxManager: tm}
}

// RunWithRetry executes fn in a transaction, retrying transient conflicts up
// to maxAttempts total attempts. Retries are immediate, with no backoff
// between attempts. On exhaustion the last transient error propagates.
func (p *RetryPolicy) RunWithRetry(ctx context.Context, maxAttempts int, fn TxFn) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = p.RunInTx(ctx, fn)
		if err == nil {
			return nil
		}
		if !apperrors.IsTransient(err) {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		if attempt < maxAttempts {
			logger.Warn().Err(err).Int("attempt", attempt).Msg("Transient conflict, retrying transaction")
		}
	}

	return err
}
