package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type TxOptions struct {
	IsolationLevel sql.IsolationLevel
	ReadOnly       bool
	MaxRetries     int
}

func DefaultTxOptions() TxOptions {
	return TxOptions{
		IsolationLevel: sql.LevelReadCommitted,
		ReadOnly:       false,
		MaxRetries:     3,
	}
}

func WithTransaction(ctx context.Context, db *sql.DB, opts TxOptions, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, &sql.TxOptions{
		Isolation: opts.IsolationLevel,
		ReadOnly:  opts.ReadOnly,
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// retryInterval is the first backoff delay; later ones grow exponentially.
var retryInterval = 50 * time.Millisecond

// WithRetry runs fn in a fresh transaction until it succeeds, fails with a
// permanent error, or opts.MaxRetries is exhausted.
func WithRetry(ctx context.Context, db *sql.DB, opts TxOptions, fn func(*sql.Tx) error) error {
	return retry(ctx, opts.MaxRetries, func() error {
		return WithTransaction(ctx, db, opts, fn)
	})
}

// retry calls op until it returns nil or an error IsRetryable rejects,
// allowing at most maxRetries retries.
func retry(ctx context.Context, maxRetries int, op func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = retryInterval
	exp.RandomizationFactor = 0.25
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(max(maxRetries, 0))), ctx)

	err := backoff.Retry(func() error {
		err := op()
		if err != nil && !IsRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}, b)
	if err != nil && IsRetryable(err) {
		return fmt.Errorf("max retries (%d) exceeded: %w", maxRetries, err)
	}
	return err
}
