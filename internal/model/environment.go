package model

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// InitEnvironment loads the ONNX Runtime shared library. An empty path keeps
// the library's platform default.
func InitEnvironment(sharedLibraryPath string) error {
	if sharedLibraryPath != "" {
		ort.SetSharedLibraryPath(sharedLibraryPath)
	}
	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("failed to initialize ONNX environment: %w", err)
	}
	return nil
}

// DestroyEnvironment releases the ONNX Runtime. Call after every session is closed.
func DestroyEnvironment() error {
	return ort.DestroyEnvironment()
}
