// Package service holds the business rules of ChronoGift.
package service

import (
	"context"
	"errors"
	"time"

	"chronogift/internal/models"
)

const defaultStoreTimeout = 5 * time.Second

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = defaultStoreTimeout
	}
	return context.WithTimeout(ctx, d)
}

// storeErr turns a store deadline into a retriable Unavailable error and
// passes every other error through unchanged.
func storeErr(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return models.NewUnavailableError("Store", err)
	}
	return err
}
