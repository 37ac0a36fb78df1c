package action

import (
	"context"
	"errors"
	"fmt"

	"spirebridge/internal/app/ports"
	"spirebridge/internal/domain/spire"
)

var (
	ErrUnknownActionType   = errors.New("unknown action type")
	ErrActionNotAllowed    = errors.New("action not allowed on current screen")
	ErrMissingParameter    = errors.New("missing required parameter")
	ErrParameterOutOfRange = errors.New("parameter out of range")
	ErrNoState             = errors.New("no game state received yet")
)

type NotAllowedError struct {
	Type   spire.ActionType
	Screen spire.ScreenType
	Reason string
}

func (e *NotAllowedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s not allowed on %s: %s", e.Type, e.Screen, e.Reason)
	}
	return fmt.Sprintf("%s not allowed on %s", e.Type, e.Screen)
}

func (e *NotAllowedError) Unwrap() error { return ErrActionNotAllowed }

type MissingParameterError struct {
	Type  spire.ActionType
	Param string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s requires %s", e.Type, e.Param)
}

func (e *MissingParameterError) Unwrap() error { return ErrMissingParameter }

type OutOfRangeError struct {
	Type   spire.ActionType
	Param  string
	Detail string
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Type, e.Param, e.Detail)
}

func (e *OutOfRangeError) Unwrap() error { return ErrParameterOutOfRange }

// SubmitUseCase validates a caller-submitted action against the latest
// snapshot and the legality table, then hands it to the queue. Rejected
// actions never reach the queue.
type SubmitUseCase struct {
	Session ports.Coordinator
	Metrics ports.BridgeMetrics
}

func (u SubmitUseCase) Execute(_ context.Context, req Request) (Response, error) {
	latest, ok := u.Session.Latest()
	if !ok {
		u.reject("no_state")
		return Response{}, ErrNoState
	}
	if err := Validate(req.Intent, latest); err != nil {
		u.reject(rejectReason(err))
		return Response{}, err
	}
	seq := u.Session.Enqueue(req.Intent)
	return Response{
		Status:     "queued",
		Sequence:   seq,
		ActionType: req.Intent.Type,
		QueueSize:  u.Session.QueueSize(),
	}, nil
}

func (u SubmitUseCase) reject(reason string) {
	if u.Metrics != nil {
		u.Metrics.RecordRejected(reason)
	}
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownActionType):
		return "unknown_type"
	case errors.Is(err, ErrMissingParameter):
		return "missing_parameter"
	case errors.Is(err, ErrParameterOutOfRange):
		return "out_of_range"
	default:
		return "not_allowed"
	}
}

// ClearUseCase drops every queued, not-yet-dispatched action.
type ClearUseCase struct {
	Session ports.Coordinator
}

func (u ClearUseCase) Execute(context.Context) (ClearResponse, error) {
	return ClearResponse{Removed: u.Session.ClearQueue()}, nil
}
