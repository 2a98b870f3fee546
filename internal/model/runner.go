package model

import (
	"context"
	"errors"
)

// ErrClosed is returned by predictors after Close.
var ErrClosed = errors.New("predictor closed")

// Runner executes one forward pass. Implementations need not be safe for
// concurrent use.
type Runner interface {
	Run(input []float32) ([]float32, error)
	Close() error
}

// Predictor is a Runner made safe for concurrent callers.
type Predictor interface {
	Predict(ctx context.Context, input []float32) ([]float32, error)
	Close() error
}

// Artifact describes one exported model file and its tensor contract.
type Artifact struct {
	Selector    Selector
	Path        string
	InputName   string
	OutputName  string
	InputShape  []int64
	OutputShape []int64
}

// RunnerFactory opens a new runner for an artifact.
type RunnerFactory func(Artifact) (Runner, error)
