package observe

import (
	"context"

	"spirebridge/internal/app/ports"
)

// UseCase answers the state query: the latest snapshot plus its revision
// stamp, or ports.ErrNotFound before the first snapshot arrives. The "no
// content yet" answer is idempotent across repeated calls.
type UseCase struct {
	Session ports.Coordinator
}

func (u UseCase) Execute(context.Context) (Response, error) {
	latest, ok := u.Session.Latest()
	if !ok {
		return Response{}, ports.ErrNotFound
	}
	return Response{
		InGame:            latest.Snapshot.InGame,
		ReadyForCommand:   latest.Snapshot.ReadyForCommand,
		Error:             latest.Snapshot.Error,
		AvailableCommands: latest.Snapshot.AvailableCommands,
		GameState:         latest.Snapshot.Raw,
		Revision:          latest.Revision,
		Timestamp:         latest.ReceivedAt,
	}, nil
}
