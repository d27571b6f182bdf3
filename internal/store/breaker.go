package store

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// BreakerSettings tunes the circuit breaker placed in front of a remote store.
type BreakerSettings struct {
	Name        string
	MaxFailures uint32
	Timeout     time.Duration
}

// BreakerStore fails fast once the wrapped store keeps erroring, so a board
// backed by an unreachable server does not stall every request.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker
}

type getResult struct {
	value string
	found bool
}

// NewBreakerStore wraps next with a circuit breaker.
func NewBreakerStore(next Store, settings BreakerSettings) *BreakerStore {
	if settings.Name == "" {
		settings.Name = "kv-store"
	}
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 3
	}
	maxFailures := settings.MaxFailures

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: 1,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(log.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("circuit breaker state changed")
		},
	})

	return &BreakerStore{next: next, cb: cb}
}

func (s *BreakerStore) Get(ctx context.Context, key string) (string, bool, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		value, found, err := s.next.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		return getResult{value: value, found: found}, nil
	})
	if err != nil {
		return "", false, err
	}
	r := res.(getResult)
	return r.value, r.found, nil
}

func (s *BreakerStore) Set(ctx context.Context, key, value string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.next.Set(ctx, key, value)
	})
	return err
}

// State reports the breaker state, for diagnostics.
func (s *BreakerStore) State() gobreaker.State {
	return s.cb.State()
}

func (s *BreakerStore) Close() error {
	return s.next.Close()
}
