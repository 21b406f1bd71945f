package statemachine

import (
	"errors"
	"fmt"

	"github.com/kodebaseai/kodebase/internal/types"
)

// Sentinel error kinds for event log validation failures. Callers match
// them with errors.Is through the wrapping TransitionError.
var (
	ErrEmptyLog             = errors.New("event log is empty")
	ErrInvalidFirstEvent    = errors.New("first event must be draft")
	ErrOutOfOrder           = errors.New("events out of chronological order")
	ErrIllegalTransition    = errors.New("illegal state transition")
	ErrMissingTrigger       = errors.New("event missing trigger")
	ErrBlockedMissingReason = errors.New("blocked transition requires a reason")
)

// TransitionError wraps a validation failure with enough position detail
// for the caller to locate the offending event.
type TransitionError struct {
	Kind  error
	Type  types.ArtifactType
	Index int
	From  types.State
	To    types.State
	Msg   string
}

func (e *TransitionError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Msg)
}

func (e *TransitionError) Unwrap() error { return e.Kind }

func transitionErrf(kind error, typ types.ArtifactType, index int, from, to types.State, format string, args ...any) error {
	return &TransitionError{
		Kind:  kind,
		Type:  typ,
		Index: index,
		From:  from,
		To:    to,
		Msg:   fmt.Sprintf(format, args...),
	}
}
