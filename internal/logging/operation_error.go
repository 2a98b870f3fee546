package logging

import "fmt"

// OperationError annotates an error with the pipeline stage and request it
// belongs to.
type OperationError struct {
	Operation string
	RequestID string
	Err       error
}

// Error prefixes the wrapped message with the stage and, if set, the request id.
func (e *OperationError) Error() string {
	if e == nil || e.Err == nil {
		return ""
	}
	if e.RequestID != "" {
		return fmt.Sprintf("%s (request_id=%s): %v", e.Operation, e.RequestID, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

// Unwrap exposes Err to errors.Is and errors.As.
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Cause returns the message of the wrapped error without operation metadata.
func (e *OperationError) Cause() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// NewOperationError tags err with the stage that produced it. A nil err stays nil.
func NewOperationError(operation, requestID string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Operation: operation, RequestID: requestID, Err: err}
}
