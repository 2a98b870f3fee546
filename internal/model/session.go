package model

import (
	"errors"
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// Session is an ONNX Runtime session bound to pre-allocated input and output
// tensors. A Session must not be Run concurrently.
type Session struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// NewSessionFactory returns a RunnerFactory opening ONNX sessions. A positive
// intraOpThreads caps the threads each session uses.
func NewSessionFactory(intraOpThreads int) RunnerFactory {
	return func(a Artifact) (Runner, error) {
		return NewSession(a, intraOpThreads)
	}
}

// NewSession opens the artifact with tensors shaped per its contract.
func NewSession(a Artifact, intraOpThreads int) (*Session, error) {
	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(a.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(a.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	var options *ort.SessionOptions
	if intraOpThreads > 0 {
		options, err = ort.NewSessionOptions()
		if err != nil {
			inputTensor.Destroy()
			outputTensor.Destroy()
			return nil, fmt.Errorf("failed to create session options: %w", err)
		}
		defer options.Destroy()
		if err := options.SetIntraOpNumThreads(intraOpThreads); err != nil {
			inputTensor.Destroy()
			outputTensor.Destroy()
			return nil, fmt.Errorf("failed to set intra-op threads: %w", err)
		}
	}

	session, err := ort.NewAdvancedSession(a.Path,
		[]string{a.InputName}, []string{a.OutputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		options)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	return &Session{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Run copies input into the bound tensor, runs the graph and returns a copy of
// the output.
func (s *Session) Run(input []float32) ([]float32, error) {
	dst := s.inputTensor.GetData()
	if len(input) != len(dst) {
		return nil, fmt.Errorf("expected %d input values, got %d", len(dst), len(input))
	}
	copy(dst, input)

	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	out := make([]float32, len(s.outputTensor.GetData()))
	copy(out, s.outputTensor.GetData())
	return out, nil
}

// Close releases the session and its tensors.
func (s *Session) Close() error {
	var errs []error
	if s.session != nil {
		errs = append(errs, s.session.Destroy())
	}
	if s.inputTensor != nil {
		errs = append(errs, s.inputTensor.Destroy())
	}
	if s.outputTensor != nil {
		errs = append(errs, s.outputTensor.Destroy())
	}
	return errors.Join(errs...)
}
