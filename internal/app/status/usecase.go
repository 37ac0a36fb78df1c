package status

import (
	"context"

	"spirebridge/internal/app/ports"
)

// UseCase answers the health query from the session's observable state.
// A handshake past its deadline without an ack is the one unrecoverable
// condition; everything else reports ready.
type UseCase struct {
	Session ports.Coordinator
}

func (u UseCase) Execute(context.Context) (Response, error) {
	hs := u.Session.Handshake()

	resp := Response{
		Status:    "ready",
		SessionID: u.Session.ID(),
		HasState:  u.Session.HasState(),
		QueueSize: u.Session.QueueSize(),
		Handshake: hs,
	}
	if hs.TimedOut {
		resp.Status = "handshake_timeout"
	}
	if latest, ok := u.Session.Latest(); ok {
		resp.InGame = latest.Snapshot.InGame
		resp.GameReady = latest.Snapshot.ReadyForCommand
		resp.Revision = latest.Revision
		resp.LastUpdate = latest.ReceivedAt
	}
	return resp, nil
}
