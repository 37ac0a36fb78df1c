package httpadapter

import (
	"encoding/json"
	"testing"
	"time"

	"spirebridge/internal/app/action"
	"spirebridge/internal/app/observe"
	"spirebridge/internal/app/ports"
	"spirebridge/internal/app/replay"
	"spirebridge/internal/app/status"
	"spirebridge/internal/domain/spire"
)

func TestResponseJSONUsesSnakeCase(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	cases := []struct {
		name    string
		payload any
		want    []string
		notWant []string
	}{
		{
			name: "observe",
			payload: observe.Response{
				InGame:            true,
				ReadyForCommand:   true,
				AvailableCommands: []string{"play"},
				GameState:         json.RawMessage(`{"in_game":true,"game_state":{"screen_type":"NONE"}}`),
				Revision:          3,
				Timestamp:         now,
			},
			want:    []string{"in_game", "ready_for_command", "available_commands", "state", "revision", "timestamp"},
			notWant: []string{"InGame", "ReadyForCommand", "GameState"},
		},
		{
			name: "action",
			payload: action.Response{
				Status:     "queued",
				Sequence:   2,
				ActionType: spire.ActionPlayCard,
				QueueSize:  1,
			},
			want:    []string{"status", "sequence", "action", "queue_size"},
			notWant: []string{"Status", "Sequence", "ActionType", "QueueSize"},
		},
		{
			name: "status",
			payload: status.Response{
				Status:     "ready",
				SessionID:  "s1",
				InGame:     true,
				GameReady:  true,
				HasState:   true,
				QueueSize:  0,
				Handshake:  ports.HandshakeInfo{SignalReceived: true, AckSent: true},
				Revision:   3,
				LastUpdate: now,
			},
			want:    []string{"status", "session_id", "in_game", "game_ready", "has_state", "queue_size", "handshake", "revision", "last_update"},
			notWant: []string{"SessionID", "InGame", "GameReady", "HasState", "QueueSize", "Handshake"},
		},
		{
			name: "replay",
			payload: replay.Response{
				States: []ports.StateRecord{{Sequence: 1, ScreenType: "NONE", ReceivedAt: now, State: json.RawMessage(`{}`)}},
				Count:  1,
			},
			want:    []string{"states", "count"},
			notWant: []string{"States", "Count"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := json.Marshal(tc.payload)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			var got map[string]any
			if err := json.Unmarshal(b, &got); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			for _, key := range tc.want {
				if _, ok := got[key]; !ok {
					t.Fatalf("expected key %q in %s", key, string(b))
				}
			}
			for _, key := range tc.notWant {
				if _, ok := got[key]; ok {
					t.Fatalf("unexpected key %q in %s", key, string(b))
				}
			}
			if tc.name == "status" {
				hsMap, _ := got["handshake"].(map[string]any)
				if _, ok := hsMap["signal_received"]; !ok {
					t.Fatalf("expected nested snake_case key handshake.signal_received in %s", string(b))
				}
			}
		})
	}
}
