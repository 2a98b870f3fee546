package segmentation

import (
	"fmt"

	"github.com/Brownie44l1/floodseg-api/internal/model"
)

// RequestError is a problem with the caller's input.
type RequestError struct {
	Message string
}

func (e *RequestError) Error() string {
	return e.Message
}

func missingParameters() error {
	return &RequestError{Message: "Missing image or model parameter"}
}

func unknownModel(name string) error {
	return &RequestError{Message: fmt.Sprintf("Unknown model type: %s", name)}
}

// UnavailableError means the selected model failed to load at startup.
type UnavailableError struct {
	Model model.Selector
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s model not loaded", e.Model.DisplayName())
}
