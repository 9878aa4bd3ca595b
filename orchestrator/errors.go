package orchestrator

import (
	"fmt"

	"github.com/go-errors/errors"
)

type ErrorKind int

const (
	MissingDependency ErrorKind = iota + 1
	// DriverFailure covers both access point and client association failures.
	DriverFailure
	ConnectivityCheckFailed
	Busy
	InvalidCredentials
)

func (k ErrorKind) String() string {
	switch k {
	case MissingDependency:
		return "MissingDependency"
	case DriverFailure:
		return "DriverFailure"
	case ConnectivityCheckFailed:
		return "ConnectivityCheckFailed"
	case Busy:
		return "Busy"
	case InvalidCredentials:
		return "InvalidCredentials"
	default:
		return "Unknown"
	}
}

// TransitionError reports why an operation did not lead to the intended mode.
// Timeouts keep the kind of the operation that timed out.
type TransitionError struct {
	Kind    ErrorKind
	Op      string
	Timeout bool
	Err     error
}

func (e *TransitionError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("%v: %v (timed out): %v", e.Op, e.Kind, e.Err)
	}

	return fmt.Sprintf("%v: %v: %v", e.Op, e.Kind, e.Err)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the first TransitionError in err's chain, or zero.
func KindOf(err error) ErrorKind {
	var terr *TransitionError
	if errors.As(err, &terr) {
		return terr.Kind
	}

	return 0
}
