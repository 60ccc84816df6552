// Package batch runs key derivation over many networks concurrently.
package batch

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/wifibear/keybear/internal/keygen"
	"github.com/wifibear/keybear/pkg/wifi"
)

// Generator is the part of keygen.Engine the runner needs.
type Generator interface {
	Generate(id wifi.Identity) (*keygen.Result, error)
}

// Item is the outcome for one input network.
type Item struct {
	Identity wifi.Identity
	Result   *keygen.Result
	Err      error
}

// Runner fans Generate calls over a bounded number of goroutines.
type Runner struct {
	gen     Generator
	workers int
	log     *zap.Logger
}

type Option func(*Runner)

// WithWorkers bounds concurrency; values below one mean one.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.workers = n
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(r *Runner) {
		if log != nil {
			r.log = log
		}
	}
}

func NewRunner(gen Generator, opts ...Option) *Runner {
	r := &Runner{gen: gen, workers: 4, log: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run derives keys for every identity and returns one Item per input, in
// input order. Once ctx is done no further networks are started; their
// items carry ctx.Err() and Run returns it as well.
func (r *Runner) Run(ctx context.Context, ids []wifi.Identity) ([]Item, error) {
	items := make([]Item, len(ids))
	for i, id := range ids {
		items[i].Identity = id
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, r.workers)

	started := 0
launch:
	for i := range ids {
		select {
		case <-ctx.Done():
			break launch
		case sem <- struct{}{}: // Acquire semaphore
		}
		// Both cases may be ready; cancellation wins.
		if ctx.Err() != nil {
			<-sem
			break launch
		}

		started++
		wg.Add(1)
		go func(it *Item) {
			defer wg.Done()
			defer func() { <-sem }() // Release semaphore

			res, err := r.gen.Generate(it.Identity)
			it.Result, it.Err = res, err
			r.logItem(it)
		}(&items[i])
	}
	wg.Wait()

	if started < len(ids) {
		err := ctx.Err()
		for i := started; i < len(items); i++ {
			items[i].Err = err
		}
		r.log.Debug("batch cancelled",
			zap.Int("started", started),
			zap.Int("total", len(ids)),
			zap.Error(err),
		)
		return items, err
	}
	return items, nil
}

func (r *Runner) logItem(it *Item) {
	id := it.Identity.String()
	if it.Err != nil {
		var invalid *keygen.InvalidIdentityError
		if errors.As(it.Err, &invalid) {
			r.log.Warn("skipping invalid network", zap.String("network", id), zap.Error(it.Err))
			return
		}
		r.log.Warn("derivation failed", zap.String("network", id), zap.Error(it.Err))
		return
	}

	for _, run := range it.Result.Failures() {
		r.log.Debug("algorithm failed",
			zap.String("network", id),
			zap.String("algorithm", string(run.Algorithm)),
			zap.Error(run.Err),
		)
	}
	r.log.Debug("derived",
		zap.String("network", id),
		zap.String("outcome", it.Result.Outcome.String()),
		zap.Int("candidates", len(it.Result.Candidates)),
	)
}

// Results returns the successful results of items, in order.
func Results(items []Item) []*keygen.Result {
	out := make([]*keygen.Result, 0, len(items))
	for _, it := range items {
		if it.Err == nil && it.Result != nil {
			out = append(out, it.Result)
		}
	}
	return out
}
