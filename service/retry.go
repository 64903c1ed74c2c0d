package service

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	log "github.com/sirupsen/logrus"
)

const maxStorageRetries = 3

// defaultBackOff is the retry policy for storage faults
func defaultBackOff() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 50 * time.Millisecond
	policy.MaxInterval = 500 * time.Millisecond
	policy.MaxElapsedTime = 3 * time.Second
	return backoff.WithMaxRetries(policy, maxStorageRetries)
}

// retryStorage runs op until it succeeds, returns a domain error, or the
// retry budget runs out. Each attempt must open its own unit of work so a
// failed attempt leaves nothing behind.
func retryStorage(ctx context.Context, newBackOff func() backoff.BackOff, operation string, op func() error) error {
	attempt := func() error {
		err := op()
		if err != nil && isDomainError(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, wait time.Duration) {
		log.WithFields(log.Fields{
			"operation": operation,
			"error":     err,
			"retryIn":   wait,
		}).Warn("Storage operation failed, retrying")
	}

	return backoff.RetryNotify(attempt, backoff.WithContext(newBackOff(), ctx), notify)
}
