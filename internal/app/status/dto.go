package status

import (
	"time"

	"spirebridge/internal/app/ports"
)

type Response struct {
	Status     string              `json:"status"`
	SessionID  string              `json:"session_id"`
	InGame     bool                `json:"in_game"`
	GameReady  bool                `json:"game_ready"`
	HasState   bool                `json:"has_state"`
	QueueSize  int                 `json:"queue_size"`
	Handshake  ports.HandshakeInfo `json:"handshake"`
	Revision   uint64              `json:"revision,omitempty"`
	LastUpdate time.Time           `json:"last_update,omitempty"`
}
