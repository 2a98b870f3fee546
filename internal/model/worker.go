package model

import (
	"context"
	"sync"
)

type job struct {
	input []float32
	reply chan<- jobResult
}

type jobResult struct {
	output []float32
	err    error
}

// Worker serialises every forward pass through a single goroutine that owns
// the runner. Callers block until the worker picks up their job.
type Worker struct {
	runner    Runner
	jobs      chan job
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

// NewWorker starts the worker goroutine.
func NewWorker(runner Runner) *Worker {
	w := &Worker{
		runner: runner,
		jobs:   make(chan job),
		done:   make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case j := <-w.jobs:
			out, err := w.runner.Run(j.input)
			j.reply <- jobResult{output: out, err: err}
		case <-w.done:
			return
		}
	}
}

// Predict hands input to the worker. Cancelling ctx abandons the wait but not a
// forward pass that already started.
func (w *Worker) Predict(ctx context.Context, input []float32) ([]float32, error) {
	reply := make(chan jobResult, 1)
	select {
	case w.jobs <- job{input: input, reply: reply}:
	case <-w.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case res := <-reply:
		return res.output, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the worker after the current job and closes the runner.
func (w *Worker) Close() error {
	w.closeOnce.Do(func() {
		close(w.done)
		w.wg.Wait()
		w.closeErr = w.runner.Close()
	})
	return w.closeErr
}
