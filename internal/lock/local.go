package lock

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// LocalLocker serializes holders of the same key within one process.
type LocalLocker struct {
	opts Options

	mu      sync.Mutex
	entries map[string]*localEntry
}

type localEntry struct {
	slot chan struct{}
	refs int
}

func NewLocalLocker(opts Options) *LocalLocker {
	return &LocalLocker{
		opts:    opts.withDefaults(),
		entries: make(map[string]*localEntry),
	}
}

func (l *LocalLocker) Acquire(ctx context.Context, key string) (Unlock, error) {
	entry := l.ref(key)

	waitCtx, cancel := context.WithTimeout(ctx, l.opts.WaitTimeout)
	defer cancel()

	select {
	case entry.slot <- struct{}{}:
	case <-waitCtx.Done():
		l.unref(key, entry)
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		log.Ctx(ctx).Warn().Str("lock_key", key).Dur("wait", l.opts.WaitTimeout).Msg("Lock wait timed out")
		return nil, timeoutError(key)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-entry.slot
			l.unref(key, entry)
		})
	}, nil
}

func (l *LocalLocker) ref(key string) *localEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry, ok := l.entries[key]
	if !ok {
		entry = &localEntry{slot: make(chan struct{}, 1)}
		l.entries[key] = entry
	}
	entry.refs++
	return entry
}

func (l *LocalLocker) unref(key string, entry *localEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry.refs--
	if entry.refs == 0 {
		delete(l.entries, key)
	}
}
