package model

import "fmt"

// Dispatch modes.
const (
	DispatchSerialized = "serialized"
	DispatchPool       = "pool"
)

// Dispatch chooses how concurrent requests reach runners.
type Dispatch struct {
	Mode     string
	PoolSize int
}

// Open builds a Predictor for the artifact according to the dispatch mode.
func (d Dispatch) Open(a Artifact, factory RunnerFactory) (Predictor, error) {
	switch d.Mode {
	case DispatchSerialized, "":
		r, err := factory(a)
		if err != nil {
			return nil, err
		}
		return NewWorker(r), nil
	case DispatchPool:
		return NewPool(d.PoolSize, func() (Runner, error) { return factory(a) })
	default:
		return nil, fmt.Errorf("unknown dispatch mode %q", d.Mode)
	}
}
