// Package client is a small Go client for the bridge's HTTP API. It mirrors
// the wire contract one to one and adds polling helpers on top.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// ErrNoState is returned by State before the game has reported anything.
var ErrNoState = errors.New("no state received yet")

type Client struct {
	baseURL string
	http    *http.Client
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State is the /state response. Report is the game's latest report verbatim,
// the same JSON object the bridge read off the stream.
type State struct {
	InGame            bool            `json:"in_game"`
	ReadyForCommand   bool            `json:"ready_for_command"`
	Error             string          `json:"error"`
	AvailableCommands []string        `json:"available_commands"`
	Report            json.RawMessage `json:"state"`
	Revision          uint64          `json:"revision"`
	Timestamp         time.Time       `json:"timestamp"`
}

// GameState unwraps the report's nested game_state object, which holds the
// screen type, room phase, and combat state. It is nil outside a run, when
// the report carries no game_state.
func (s State) GameState() (json.RawMessage, error) {
	if len(s.Report) == 0 {
		return nil, nil
	}
	var report struct {
		GameState json.RawMessage `json:"game_state"`
	}
	if err := json.Unmarshal(s.Report, &report); err != nil {
		return nil, err
	}
	return report.GameState, nil
}

type Health struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	InGame    bool   `json:"in_game"`
	GameReady bool   `json:"game_ready"`
	HasState  bool   `json:"has_state"`
	QueueSize int    `json:"queue_size"`
	Handshake struct {
		SignalReceived bool `json:"signal_received"`
		AckSent        bool `json:"ack_sent"`
		TimedOut       bool `json:"timed_out"`
	} `json:"handshake"`
	Revision uint64 `json:"revision"`
}

type Queued struct {
	Status    string `json:"status"`
	Sequence  uint64 `json:"sequence"`
	Action    string `json:"action"`
	QueueSize int    `json:"queue_size"`
}

type Cleared struct {
	Removed int `json:"removed"`
}

// Action mirrors the structured action grammar accepted by POST /action.
type Action struct {
	Type string `json:"type"`

	Character string `json:"character,omitempty"`
	Ascension *int   `json:"ascension,omitempty"`
	Seed      string `json:"seed,omitempty"`

	CardIndex   *int `json:"card_index,omitempty"`
	TargetIndex *int `json:"target_index,omitempty"`
	PotionIndex *int `json:"potion_index,omitempty"`
	ChoiceIndex *int `json:"choice_index,omitempty"`
	RewardIndex *int `json:"reward_index,omitempty"`

	Option    string   `json:"option,omitempty"`
	CardName  string   `json:"card_name,omitempty"`
	Bowl      bool     `json:"bowl,omitempty"`
	RelicName string   `json:"relic_name,omitempty"`
	Name      string   `json:"name,omitempty"`
	CardNames []string `json:"card_names,omitempty"`

	X *int `json:"x,omitempty"`
	Y *int `json:"y,omitempty"`
}

// APIError is a non-2xx response decoded into the bridge's error envelope.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
	Details    map[string]any
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("bridge: %s (%s, http %d)", e.Message, e.Code, e.HTTPStatus)
	}
	return fmt.Sprintf("bridge: http %d", e.HTTPStatus)
}

func (c *Client) Health(ctx context.Context) (Health, error) {
	var out Health
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

func (c *Client) State(ctx context.Context) (State, error) {
	var out State
	err := c.do(ctx, http.MethodGet, "/state", nil, &out)
	return out, err
}

func (c *Client) Submit(ctx context.Context, a Action) (Queued, error) {
	var out Queued
	err := c.do(ctx, http.MethodPost, "/action", a, &out)
	return out, err
}

func (c *Client) ClearQueue(ctx context.Context) (Cleared, error) {
	var out Cleared
	err := c.do(ctx, http.MethodPost, "/queue/clear", nil, &out)
	return out, err
}

func (c *Client) Ready(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/ready", nil, nil)
}

func (c *Client) Replay(ctx context.Context, limit int) (json.RawMessage, error) {
	path := "/replay"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out json.RawMessage
	err := c.do(ctx, http.MethodGet, path, nil, &out)
	return out, err
}

func (c *Client) PlayCard(ctx context.Context, cardIndex int, target *int) (Queued, error) {
	return c.Submit(ctx, Action{Type: "play_card", CardIndex: &cardIndex, TargetIndex: target})
}

func (c *Client) EndTurn(ctx context.Context) (Queued, error) {
	return c.Submit(ctx, Action{Type: "end_turn"})
}

func (c *Client) UsePotion(ctx context.Context, potionIndex int, target *int) (Queued, error) {
	return c.Submit(ctx, Action{Type: "use_potion", PotionIndex: &potionIndex, TargetIndex: target})
}

func (c *Client) DiscardPotion(ctx context.Context, potionIndex int) (Queued, error) {
	return c.Submit(ctx, Action{Type: "discard_potion", PotionIndex: &potionIndex})
}

func (c *Client) Proceed(ctx context.Context) (Queued, error) {
	return c.Submit(ctx, Action{Type: "proceed"})
}

func (c *Client) Cancel(ctx context.Context) (Queued, error) {
	return c.Submit(ctx, Action{Type: "cancel"})
}

func (c *Client) Choose(ctx context.Context, choiceIndex int) (Queued, error) {
	return c.Submit(ctx, Action{Type: "choose", ChoiceIndex: &choiceIndex})
}

func (c *Client) ChooseName(ctx context.Context, name string) (Queued, error) {
	return c.Submit(ctx, Action{Type: "choose", Name: name})
}

func (c *Client) StartGame(ctx context.Context, character string, ascension *int, seed string) (Queued, error) {
	return c.Submit(ctx, Action{Type: "start_game", Character: character, Ascension: ascension, Seed: seed})
}

// WaitForRevision polls /state until the revision moves past after, the
// context expires, or the server errors.
func (c *Client) WaitForRevision(ctx context.Context, after uint64, interval time.Duration) (State, error) {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		st, err := c.State(ctx)
		if err == nil && st.Revision > after {
			return st, nil
		}
		if err != nil && !errors.Is(err, ErrNoState) {
			return State{}, err
		}
		select {
		case <-ctx.Done():
			return State{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return ErrNoState
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || len(data) == 0 {
			return nil
		}
		return json.Unmarshal(data, out)
	default:
		return decodeAPIError(resp.StatusCode, data)
	}
}

func decodeAPIError(status int, data []byte) error {
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Message string         `json:"message"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	apiErr := &APIError{HTTPStatus: status}
	if err := json.Unmarshal(data, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
		apiErr.Details = envelope.Error.Details
	}
	return apiErr
}
