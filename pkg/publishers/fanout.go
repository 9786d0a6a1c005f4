package publishers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
)

// Delivery is the outcome of handing one report to one publisher.
type Delivery struct {
	PublisherID string
	Type        string
	Elapsed     time.Duration
	Err         error
}

// Fanout delivers each report to every configured publisher concurrently.
type Fanout struct {
	publishers []Publisher
}

// NewFanout drops nil entries and keeps the rest in order.
func NewFanout(pubs []Publisher) *Fanout {
	cp := make([]Publisher, 0, len(pubs))
	for _, p := range pubs {
		if p != nil {
			cp = append(cp, p)
		}
	}
	return &Fanout{publishers: cp}
}

// Deliver sends report to all publishers and waits for every one of them.
// Results follow publisher order.
func (f *Fanout) Deliver(ctx context.Context, report Report) []Delivery {
	if f == nil || len(f.publishers) == 0 {
		return nil
	}

	out := make([]Delivery, len(f.publishers))
	var wg sync.WaitGroup
	for i, p := range f.publishers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start := time.Now()
			err := p.Publish(ctx, report)
			out[i] = Delivery{
				PublisherID: p.ID(),
				Type:        p.Type(),
				Elapsed:     time.Since(start),
				Err:         err,
			}
		}()
	}
	wg.Wait()
	return out
}

// Publish is Deliver reduced to a success count and the joined failures.
func (f *Fanout) Publish(ctx context.Context, report Report) (int, error) {
	var errs []error
	successful := 0
	for _, d := range f.Deliver(ctx, report) {
		if d.Err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", d.Type, d.PublisherID, d.Err))
			continue
		}
		successful++
	}
	return successful, errors.Join(errs...)
}

// Size returns the number of active publishers.
func (f *Fanout) Size() int {
	if f == nil {
		return 0
	}
	return len(f.publishers)
}

// Close releases every publisher that holds a connection. All closers run
// even if one fails.
func (f *Fanout) Close() error {
	if f == nil {
		return nil
	}
	var errs []error
	for _, p := range f.publishers {
		c, ok := p.(io.Closer)
		if !ok {
			continue
		}
		if err := c.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s publisher[%s]: %w", p.Type(), p.ID(), err))
		}
	}
	return errors.Join(errs...)
}
