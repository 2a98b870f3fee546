package model

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Pool holds a fixed set of runners, each used by one caller at a time.
type Pool struct {
	runners   chan Runner
	all       []Runner
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewPool opens size runners with open. If any fails, those already opened are
// closed again.
func NewPool(size int, open func() (Runner, error)) (*Pool, error) {
	if size < 1 {
		return nil, fmt.Errorf("pool size must be at least 1, got %d", size)
	}

	p := &Pool{
		runners: make(chan Runner, size),
		done:    make(chan struct{}),
	}
	for i := 0; i < size; i++ {
		r, err := open()
		if err != nil {
			closeErr := p.closeRunners()
			return nil, errors.Join(fmt.Errorf("failed to open runner %d: %w", i, err), closeErr)
		}
		p.all = append(p.all, r)
		p.runners <- r
	}
	return p, nil
}

// Size reports the number of runners.
func (p *Pool) Size() int {
	return len(p.all)
}

// Predict checks out a runner, runs input through it and returns it.
func (p *Pool) Predict(ctx context.Context, input []float32) ([]float32, error) {
	select {
	case <-p.done:
		return nil, ErrClosed
	default:
	}

	var r Runner
	select {
	case r = <-p.runners:
	case <-p.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { p.runners <- r }()

	return r.Run(input)
}

// Close closes every runner. In-flight calls must have returned.
func (p *Pool) Close() error {
	p.closeOnce.Do(func() {
		close(p.done)
		p.closeErr = p.closeRunners()
	})
	return p.closeErr
}

func (p *Pool) closeRunners() error {
	var errs []error
	for _, r := range p.all {
		errs = append(errs, r.Close())
	}
	return errors.Join(errs...)
}
