package observe

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"spirebridge/internal/app/ports"
	"spirebridge/internal/domain/spire"
)

type fakeSession struct {
	latest   spire.Versioned
	hasState bool
}

func (f *fakeSession) ID() string { return "s1" }

func (f *fakeSession) Latest() (spire.Versioned, bool) { return f.latest, f.hasState }

func (f *fakeSession) HasState() bool { return f.hasState }

func (f *fakeSession) Enqueue(spire.ActionIntent) uint64 { return 0 }

func (f *fakeSession) ClearQueue() int { return 0 }

func (f *fakeSession) QueueSize() int { return 0 }

func (f *fakeSession) Handshake() ports.HandshakeInfo { return ports.HandshakeInfo{} }

func (f *fakeSession) TriggerHandshake() error { return nil }

func TestExecute_NoStateYet(t *testing.T) {
	uc := UseCase{Session: &fakeSession{}}

	_, err := uc.Execute(context.Background())
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// Asking again changes nothing.
	_, err = uc.Execute(context.Background())
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("second call: expected ErrNotFound, got %v", err)
	}
}

func TestExecute_PassesRawThrough(t *testing.T) {
	raw := `{"in_game":true,"ready_for_command":true,"unmodeled_field":42}`
	recvAt := time.Unix(1700000000, 0).UTC()
	uc := UseCase{Session: &fakeSession{
		hasState: true,
		latest: spire.Versioned{
			Snapshot: spire.StateSnapshot{
				InGame:            true,
				ReadyForCommand:   true,
				AvailableCommands: []string{"play", "end"},
				Raw:               json.RawMessage(raw),
			},
			Revision:   9,
			ReceivedAt: recvAt,
		},
	}}

	resp, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !resp.InGame || !resp.ReadyForCommand {
		t.Fatalf("unexpected flags: %+v", resp)
	}
	if resp.Revision != 9 || !resp.Timestamp.Equal(recvAt) {
		t.Fatalf("unexpected stamp: %+v", resp)
	}
	if string(resp.GameState) != raw {
		t.Fatalf("raw report must pass through untouched, got %s", resp.GameState)
	}
}
