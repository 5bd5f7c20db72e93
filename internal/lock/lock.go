// Package lock provides exclusive per-key leases used to serialize
// mutations on a single match.
package lock

import (
	"context"
	"errors"
	"time"

	"github.com/codr1/Matchpoint/internal/apperr"
)

// ErrTimeout is wrapped in an Unavailable error when the wait for a lease
// exceeds the configured timeout.
var ErrTimeout = errors.New("lock wait timed out")

// Unlock releases a held lease. Calling it more than once is a no-op.
type Unlock func()

type Locker interface {
	// Acquire blocks until the lease for key is held, ctx is done, or the
	// wait timeout elapses.
	Acquire(ctx context.Context, key string) (Unlock, error)
}

type Options struct {
	WaitTimeout time.Duration
	// TTL bounds how long a Redis lease survives a crashed holder.
	TTL           time.Duration
	RetryInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.WaitTimeout <= 0 {
		o.WaitTimeout = 5 * time.Second
	}
	if o.TTL <= 0 {
		o.TTL = 30 * time.Second
	}
	if o.RetryInterval <= 0 {
		o.RetryInterval = 20 * time.Millisecond
	}
	return o
}

func timeoutError(key string) error {
	return apperr.Wrap(apperr.KindUnavailable, ErrTimeout, "resource "+key+" is busy, retry shortly")
}

// MatchKey is the lease key for participation and cancel mutations on a
// match.
func MatchKey(matchID string) string {
	return "match:" + matchID
}
