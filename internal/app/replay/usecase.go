package replay

import (
	"context"
	"errors"

	"spirebridge/internal/app/ports"
)

var ErrNoRecorder = errors.New("no recorder configured")

const defaultLimit = 50

// UseCase lists recorded state reports so an operator can inspect what the
// game sent without attaching to the pipe.
type UseCase struct {
	Recorder ports.RunRecorder
}

func (u UseCase) Execute(ctx context.Context, req Request) (Response, error) {
	if u.Recorder == nil {
		return Response{}, ErrNoRecorder
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	states, err := u.Recorder.ListStates(ctx, limit)
	if err != nil {
		return Response{}, err
	}
	return Response{States: states, Count: len(states)}, nil
}
