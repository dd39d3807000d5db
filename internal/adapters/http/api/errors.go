package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors. Their text is what clients see.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrSaveEntry   = errors.New("could not save entry")
	ErrLoadBoard   = errors.New("could not load leaderboard")
	ErrUnavailable = errors.New("service unavailable")
)

// opError carries the operation and kind of a handler failure.
type opError struct {
	op   string
	kind error
	err  error
}

func (e *opError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("%s: %v", e.op, e.kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.op, e.kind, e.err)
}

func (e *opError) Unwrap() []error {
	if e.err == nil {
		return []error{e.kind}
	}
	return []error{e.kind, e.err}
}

// WrapKind returns an error of kind for op caused by err.
func WrapKind(op string, kind, err error) error {
	return &opError{op: op, kind: kind, err: err}
}

// publicMessage is the client-facing text of err: the kind, plus the cause
// for bad requests.
func publicMessage(err error) string {
	var oe *opError
	if !errors.As(err, &oe) {
		return err.Error()
	}
	if errors.Is(oe.kind, ErrBadRequest) && oe.err != nil {
		return fmt.Sprintf("%v: %v", oe.kind, oe.err)
	}
	return oe.kind.Error()
}
