package core

import "fmt"

// ErrorKind tags a failure so the rest of the core never needs to reason
// about unwinding.
type ErrorKind string

const (
	// KindRejected: another extraction is already in progress. A normal
	// negative outcome, not an error condition.
	KindRejected ErrorKind = "rejected"

	// KindAutomation: the automation collaborator raised or returned
	// invalid data.
	KindAutomation ErrorKind = "automation"

	// KindStorage: the persistence collaborator was unavailable or
	// rejected a write.
	KindStorage ErrorKind = "storage"

	// KindValidation: malformed input, rejected before the orchestrator.
	KindValidation ErrorKind = "validation"
)

// ExtractionError is a tagged failure from the extraction path.
type ExtractionError struct {
	Kind    ErrorKind
	Wrapped error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Wrapped)
}

func (e *ExtractionError) Unwrap() error {
	return e.Wrapped
}

func AutomationError(err error) *ExtractionError {
	return &ExtractionError{Kind: KindAutomation, Wrapped: err}
}

func StorageError(err error) *ExtractionError {
	return &ExtractionError{Kind: KindStorage, Wrapped: err}
}
