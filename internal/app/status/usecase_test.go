package status

import (
	"context"
	"testing"
	"time"

	"spirebridge/internal/app/ports"
	"spirebridge/internal/domain/spire"
)

type fakeSession struct {
	latest   spire.Versioned
	hasState bool
	queue    int
	hs       ports.HandshakeInfo
}

func (f *fakeSession) ID() string { return "session-abc" }

func (f *fakeSession) Latest() (spire.Versioned, bool) { return f.latest, f.hasState }

func (f *fakeSession) HasState() bool { return f.hasState }

func (f *fakeSession) Enqueue(spire.ActionIntent) uint64 { return 0 }

func (f *fakeSession) ClearQueue() int { return 0 }

func (f *fakeSession) QueueSize() int { return f.queue }

func (f *fakeSession) Handshake() ports.HandshakeInfo { return f.hs }

func (f *fakeSession) TriggerHandshake() error { return nil }

func TestExecute_ReadyBeforeAnyState(t *testing.T) {
	uc := UseCase{Session: &fakeSession{}}

	resp, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Status != "ready" {
		t.Fatalf("status: got %q want ready", resp.Status)
	}
	if resp.HasState || resp.Revision != 0 {
		t.Fatalf("unexpected state fields: %+v", resp)
	}
	if resp.SessionID != "session-abc" {
		t.Fatalf("session id: got %q", resp.SessionID)
	}
}

func TestExecute_ReflectsLatestSnapshot(t *testing.T) {
	recvAt := time.Unix(1700000000, 0).UTC()
	uc := UseCase{Session: &fakeSession{
		hasState: true,
		queue:    2,
		hs:       ports.HandshakeInfo{SignalReceived: true, AckSent: true},
		latest: spire.Versioned{
			Snapshot:   spire.StateSnapshot{InGame: true, ReadyForCommand: true},
			Revision:   12,
			ReceivedAt: recvAt,
		},
	}}

	resp, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !resp.InGame || !resp.GameReady || !resp.HasState {
		t.Fatalf("flags: %+v", resp)
	}
	if resp.QueueSize != 2 || resp.Revision != 12 || !resp.LastUpdate.Equal(recvAt) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestExecute_HandshakeTimeout(t *testing.T) {
	uc := UseCase{Session: &fakeSession{
		hs: ports.HandshakeInfo{SignalReceived: true, TimedOut: true},
	}}

	resp, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Status != "handshake_timeout" {
		t.Fatalf("status: got %q want handshake_timeout", resp.Status)
	}
}
