package lookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/iyulab/toa-assist/internal/bridge"
	"github.com/sethvargo/go-retry"
)

// ErrNotCached means the deadline passed while the bridge kept answering
// without the contract.
var ErrNotCached = errors.New("contract not in cache yet")

// UnavailableError means the last attempt before the deadline failed at
// the transport level.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("bridge unavailable: %v", e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// Fetcher is the part of the bridge client the poller needs.
type Fetcher interface {
	FetchContract(ctx context.Context, contract string) (bridge.Entry, error)
}

// Match is a successful lookup.
type Match struct {
	Contract string
	Phones   int
	Attempts int
}

// Poller repeats the lookup at a fixed interval until a hit, an HTTP error
// status or the deadline.
type Poller struct {
	fetcher  Fetcher
	wait     time.Duration
	interval time.Duration
	now      func() time.Time
}

// NewPoller creates a Poller. interval must be positive.
func NewPoller(f Fetcher, wait, interval time.Duration) *Poller {
	return &Poller{
		fetcher:  f,
		wait:     wait,
		interval: interval,
		now:      time.Now,
	}
}

// Poll looks contract up until one of:
//   - the entry has a truthy contrato: returns the Match;
//   - the bridge answers with an HTTP error: returns *bridge.StatusError
//     after that single attempt;
//   - the deadline passes: returns *UnavailableError if the last attempt
//     failed in transport, ErrNotCached otherwise.
//
// The deadline is checked after each attempt, so a zero wait still makes
// one request.
func (p *Poller) Poll(ctx context.Context, contract string) (*Match, error) {
	deadline := p.now().Add(p.wait)
	attempts := 0
	var match *Match

	err := retry.Do(ctx, retry.NewConstant(p.interval), func(ctx context.Context) error {
		attempts++
		entry, err := p.fetcher.FetchContract(ctx, contract)
		if err != nil {
			var se *bridge.StatusError
			if errors.As(err, &se) {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if !p.now().Before(deadline) {
				return &UnavailableError{Err: err}
			}
			return retry.RetryableError(err)
		}

		if entry.Found() {
			match = &Match{
				Contract: contract,
				Phones:   entry.Phones(),
				Attempts: attempts,
			}
			return nil
		}

		if !p.now().Before(deadline) {
			return ErrNotCached
		}
		return retry.RetryableError(ErrNotCached)
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}
