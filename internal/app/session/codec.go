package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"spirebridge/internal/domain/spire"
)

// ErrMalformedLine marks an inbound line the codec could not decode. The
// reader loop discards these; they never reach callers.
var ErrMalformedLine = errors.New("malformed protocol line")

// Inbound is one decoded line from the game: either the distinguished
// readiness signal or a state snapshot.
type Inbound struct {
	Ready    bool
	Snapshot *spire.StateSnapshot
}

// readyAckLine is the handshake acknowledgment, exactly one line.
const readyAckLine = `{"ready":true}`

// DecodeInbound decodes one newline-stripped line. The readiness signal is
// a JSON object whose only meaningful field is ready:true; everything else
// must decode as a state report.
func DecodeInbound(line string) (Inbound, error) {
	line = strings.TrimSpace(line)
	if line == "" || line[0] != '{' {
		return Inbound{}, fmt.Errorf("%w: %q", ErrMalformedLine, truncate(line, 80))
	}

	var probe struct {
		Ready  *bool           `json:"ready"`
		InGame json.RawMessage `json:"in_game"`
	}
	if err := json.Unmarshal([]byte(line), &probe); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	if probe.Ready != nil && *probe.Ready && probe.InGame == nil {
		return Inbound{Ready: true}, nil
	}

	var snap spire.StateSnapshot
	if err := json.Unmarshal([]byte(line), &snap); err != nil {
		return Inbound{}, fmt.Errorf("%w: %v", ErrMalformedLine, err)
	}
	snap.Raw = json.RawMessage(line)
	return Inbound{Snapshot: &snap}, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// The outbound grammar is the mod's positional text grammar. Hand indices
// are the one 1-based spot in the whole protocol: the boundary API takes
// 0-based card_index and encodePlay shifts it here.

func encodePlay(cardIndex int, targetIndex *int) string {
	if targetIndex != nil {
		return fmt.Sprintf("play %d %d", cardIndex+1, *targetIndex)
	}
	return fmt.Sprintf("play %d", cardIndex+1)
}

func encodePotionUse(potionIndex int, targetIndex *int) string {
	if targetIndex != nil {
		return fmt.Sprintf("potion use %d %d", potionIndex, *targetIndex)
	}
	return fmt.Sprintf("potion use %d", potionIndex)
}

func encodePotionDiscard(potionIndex int) string {
	return fmt.Sprintf("potion discard %d", potionIndex)
}

func encodeStart(character string, ascension *int, seed string) string {
	parts := []string{"start", strings.ToLower(character)}
	if ascension != nil {
		parts = append(parts, strconv.Itoa(*ascension))
	} else if seed != "" {
		parts = append(parts, "0")
	}
	if seed != "" {
		parts = append(parts, seed)
	}
	return strings.Join(parts, " ")
}

func encodeChooseIndex(i int) string {
	return fmt.Sprintf("choose %d", i)
}

func encodeChooseName(name string) string {
	return "choose " + strings.ToLower(name)
}
