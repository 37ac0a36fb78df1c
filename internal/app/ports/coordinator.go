package ports

import "spirebridge/internal/domain/spire"

// HandshakeInfo mirrors the session's handshake state for health output.
type HandshakeInfo struct {
	SignalReceived bool `json:"signal_received"`
	AckSent        bool `json:"ack_sent"`
	TimedOut       bool `json:"timed_out"`
}

// Coordinator is the usecases' view of one bridge session. One session owns
// one state store, one queue, and one handshake manager; nothing here is
// process-wide.
type Coordinator interface {
	ID() string
	Latest() (spire.Versioned, bool)
	HasState() bool
	Enqueue(intent spire.ActionIntent) uint64
	ClearQueue() int
	QueueSize() int
	Handshake() HandshakeInfo
	TriggerHandshake() error
}
