package model

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Registry holds the predictors that loaded at startup. It is never mutated
// after Load returns, so concurrent reads need no locking.
type Registry struct {
	predictors map[Selector]Predictor
}

// NewRegistry builds a registry from already opened predictors. Nil entries
// are treated as not loaded.
func NewRegistry(predictors map[Selector]Predictor) *Registry {
	r := &Registry{predictors: make(map[Selector]Predictor, len(predictors))}
	for sel, p := range predictors {
		if p != nil {
			r.predictors[sel] = p
		}
	}
	return r
}

// Get returns the predictor for sel if it loaded.
func (r *Registry) Get(sel Selector) (Predictor, bool) {
	p, ok := r.predictors[sel]
	return p, ok
}

// Loaded reports whether sel loaded.
func (r *Registry) Loaded(sel Selector) bool {
	_, ok := r.predictors[sel]
	return ok
}

// Close closes every loaded predictor.
func (r *Registry) Close() error {
	var errs []error
	for _, p := range r.predictors {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}

// Loader opens model artifacts once at process start.
type Loader struct {
	factory  RunnerFactory
	dispatch Dispatch
	logger   *zap.Logger
}

// NewLoader creates a loader that opens runners with factory and wraps them
// according to dispatch.
func NewLoader(factory RunnerFactory, dispatch Dispatch, logger *zap.Logger) *Loader {
	return &Loader{
		factory:  factory,
		dispatch: dispatch,
		logger:   logger.Named("model_loader"),
	}
}

// Load opens every artifact. A failure is logged and leaves that selector
// unloaded; it never aborts the others.
func (l *Loader) Load(artifacts []Artifact) *Registry {
	predictors := make(map[Selector]Predictor, len(artifacts))
	for _, a := range artifacts {
		log := l.logger.With(zap.String("model", string(a.Selector)), zap.String("path", a.Path))

		p, err := l.open(a)
		if err != nil {
			log.Error("error loading model", zap.Error(err))
			continue
		}
		predictors[a.Selector] = p
		log.Info("model loaded", zap.String("dispatch", l.dispatch.Mode))
	}
	return NewRegistry(predictors)
}

func (l *Loader) open(a Artifact) (Predictor, error) {
	info, err := os.Stat(a.Path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", a.Path)
	}
	return l.dispatch.Open(a, l.factory)
}
