package analyzer

import "fmt"

// Kind classifies analyzer errors, matching spec.md §7's taxonomy for the
// worker/leader protocol.
type Kind uint8

const (
	// WorkerError wraps an error a worker recorded in the shared error
	// slot, surfaced by the leader per spec.md §4.4 step 9.
	WorkerError Kind = iota

	// AnalysisAlreadyRunning indicates the table lock was already held
	// (spec.md §4.4 step 3, "lock the table in an exclusive mode").
	AnalysisAlreadyRunning

	// InvalidColumnType indicates the target column is not one of the
	// encoded DNA types (spec.md §4.4 step 2).
	InvalidColumnType
)

func (k Kind) String() string {
	switch k {
	case WorkerError:
		return "WorkerError"
	case AnalysisAlreadyRunning:
		return "AnalysisAlreadyRunning"
	case InvalidColumnType:
		return "InvalidColumnType"
	default:
		return fmt.Sprintf("UnknownKind(%d)", k)
	}
}

// Error represents an analyzer run failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("analyzer: %s: %s", e.Kind, e.Message)
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}
