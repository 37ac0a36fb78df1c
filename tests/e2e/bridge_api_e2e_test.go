//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// Exercises a running bridge over HTTP. The bridge does not need a live
// game process: without one the state endpoint stays empty and action
// submission reports the no-state conflict, which is still a contract.
func TestBridgeAPI_MainEndpoints(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://127.0.0.1:7777"), "/")
	client := &http.Client{Timeout: 10 * time.Second}

	t.Run("health", func(t *testing.T) {
		status, body, err := doRequest(client, http.MethodGet, baseURL+"/health", nil)
		if err != nil {
			t.Fatalf("health request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("health status=%d body=%s", status, string(body))
		}
		var health map[string]any
		if err := json.Unmarshal(body, &health); err != nil {
			t.Fatalf("unmarshal health: %v body=%s", err, string(body))
		}
		if _, ok := health["session_id"]; !ok {
			t.Fatalf("expected session_id in health response, got %s", string(body))
		}
	})

	t.Run("state before first report", func(t *testing.T) {
		status, body, err := doRequest(client, http.MethodGet, baseURL+"/state", nil)
		if err != nil {
			t.Fatalf("state request: %v", err)
		}
		if status != http.StatusNoContent && status != http.StatusOK {
			t.Fatalf("state status=%d body=%s", status, string(body))
		}
	})

	t.Run("action contract", func(t *testing.T) {
		status, body, err := doRequest(client, http.MethodPost, baseURL+"/action", map[string]any{"type": "end_turn"})
		if err != nil {
			t.Fatalf("action request: %v", err)
		}
		switch status {
		case http.StatusOK:
			var resp map[string]any
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatalf("unmarshal action: %v body=%s", err, string(body))
			}
			if resp["status"] != "queued" {
				t.Fatalf("expected queued, got %s", string(body))
			}
		case http.StatusConflict, http.StatusBadRequest:
			var resp map[string]any
			if err := json.Unmarshal(body, &resp); err != nil {
				t.Fatalf("unmarshal rejection: %v body=%s", err, string(body))
			}
			if _, ok := resp["error"]; !ok {
				t.Fatalf("expected error envelope, got %s", string(body))
			}
		default:
			t.Fatalf("action status=%d body=%s", status, string(body))
		}
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			status, body, err := doRequest(client, http.MethodPost, baseURL+"/queue/clear", nil)
			if err != nil {
				t.Fatalf("clear request #%d: %v", i, err)
			}
			if status != http.StatusOK {
				t.Fatalf("clear status=%d body=%s", status, string(body))
			}
		}
	})

	t.Run("ops kpi", func(t *testing.T) {
		status, body, err := doRequest(client, http.MethodGet, baseURL+"/ops/kpi", nil)
		if err != nil {
			t.Fatalf("kpi request: %v", err)
		}
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(body))
		}
		var kpi map[string]any
		if err := json.Unmarshal(body, &kpi); err != nil {
			t.Fatalf("unmarshal kpi: %v body=%s", err, string(body))
		}
	})

	t.Run("replay", func(t *testing.T) {
		status, body, err := doRequest(client, http.MethodGet, baseURL+"/replay?limit=5", nil)
		if err != nil {
			t.Fatalf("replay request: %v", err)
		}
		if status != http.StatusOK && status != http.StatusNotFound {
			t.Fatalf("replay status=%d body=%s", status, string(body))
		}
	})
}

func doRequest(client *http.Client, method, url string, payload any) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	return resp.StatusCode, data, nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
