package observe

import (
	"encoding/json"
	"time"
)

// Response carries the latest report verbatim (State) plus the fields
// callers poll for without parsing the whole thing.
type Response struct {
	InGame            bool            `json:"in_game"`
	ReadyForCommand   bool            `json:"ready_for_command"`
	Error             string          `json:"error,omitempty"`
	AvailableCommands []string        `json:"available_commands,omitempty"`
	GameState         json.RawMessage `json:"state"`
	Revision          uint64          `json:"revision"`
	Timestamp         time.Time       `json:"timestamp"`
}
