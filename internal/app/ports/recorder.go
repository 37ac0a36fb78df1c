package ports

import (
	"context"
	"encoding/json"
	"time"
)

// StateRecord is one snapshot as the recorder persists it.
type StateRecord struct {
	Sequence   uint64          `json:"sequence"`
	ScreenType string          `json:"screen_type"`
	ReceivedAt time.Time       `json:"received_at"`
	State      json.RawMessage `json:"state"`
}

// DispatchRecord is one line released to the game.
type DispatchRecord struct {
	Sequence     uint64    `json:"sequence"`
	ActionType   string    `json:"action_type"`
	Line         string    `json:"line"`
	DispatchedAt time.Time `json:"dispatched_at"`
}

// RunRecorder persists what flowed through a session so a run can be
// inspected or replayed later. Recording is best-effort tooling: the
// coordinator logs failures and carries on.
type RunRecorder interface {
	RecordState(ctx context.Context, rec StateRecord) error
	RecordDispatch(ctx context.Context, rec DispatchRecord) error
	ListStates(ctx context.Context, limit int) ([]StateRecord, error)
}
