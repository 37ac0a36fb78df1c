package session

import (
	"fmt"
	"sync"
	"time"

	"spirebridge/internal/app/ports"
)

// AckDeadline is how long the game waits for the acknowledgment after
// sending its readiness signal. Missing it kills the session; the ack is
// therefore written synchronously in the reader-loop iteration that saw the
// signal.
const AckDeadline = 30 * time.Second

type HandshakeState int

const (
	HandshakeNotStarted HandshakeState = iota
	HandshakeAwaitingSignal
	HandshakeAcknowledged
)

// HandshakeStatus is the observable handshake state for health reporting.
type HandshakeStatus struct {
	SignalReceived bool `json:"signal_received"`
	AckSent        bool `json:"ack_sent"`
	TimedOut       bool `json:"timed_out"`
}

// HandshakeManager acknowledges the game's readiness signal. It is
// re-entrant: the game re-requests on reconnect, and every signal gets a
// fresh, harmless acknowledgment.
type HandshakeManager struct {
	mu        sync.Mutex
	state     HandshakeState
	transport ports.LineTransport
	now       func() time.Time

	signalAt time.Time
	ackAt    time.Time
	deadline time.Time
}

func NewHandshakeManager(transport ports.LineTransport, now func() time.Time) *HandshakeManager {
	if now == nil {
		now = time.Now
	}
	return &HandshakeManager{transport: transport, now: now}
}

// Start moves the manager into AWAITING_SIGNAL. Called once when the reader
// loop starts.
func (h *HandshakeManager) Start() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.state == HandshakeNotStarted {
		h.state = HandshakeAwaitingSignal
	}
}

// ObserveSignal records a readiness signal and writes the acknowledgment
// immediately.
func (h *HandshakeManager) ObserveSignal() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	now := h.now()
	h.signalAt = now
	h.deadline = now.Add(AckDeadline)
	return h.ackLocked()
}

// Trigger forces a re-acknowledgment outside the automatic path.
func (h *HandshakeManager) Trigger() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.ackLocked()
}

func (h *HandshakeManager) ackLocked() error {
	if err := h.transport.WriteLine(readyAckLine); err != nil {
		return fmt.Errorf("write handshake ack: %w", err)
	}
	h.ackAt = h.now()
	h.state = HandshakeAcknowledged
	return nil
}

func (h *HandshakeManager) State() HandshakeState {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

func (h *HandshakeManager) Status() HandshakeStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	st := HandshakeStatus{
		SignalReceived: !h.signalAt.IsZero(),
		AckSent:        !h.ackAt.IsZero(),
	}
	if st.SignalReceived && !st.AckSent && h.now().After(h.deadline) {
		st.TimedOut = true
	}
	return st
}
