// Package jsonl records run fixtures as newline-delimited JSON under a
// directory, one file per record kind. The files can be replayed against
// the bridge in tests without a live game process.
package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"spirebridge/internal/app/ports"
)

const (
	statesFile     = "states.jsonl"
	dispatchesFile = "dispatches.jsonl"
)

type Recorder struct {
	mu         sync.Mutex
	dir        string
	states     *os.File
	dispatches *os.File
}

func NewRecorder(dir string) (*Recorder, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create fixture dir: %w", err)
	}
	states, err := os.OpenFile(filepath.Join(dir, statesFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", statesFile, err)
	}
	dispatches, err := os.OpenFile(filepath.Join(dir, dispatchesFile), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		states.Close()
		return nil, fmt.Errorf("open %s: %w", dispatchesFile, err)
	}
	return &Recorder{dir: dir, states: states, dispatches: dispatches}, nil
}

func (r *Recorder) RecordState(_ context.Context, rec ports.StateRecord) error {
	return r.appendJSON(r.states, rec)
}

func (r *Recorder) RecordDispatch(_ context.Context, rec ports.DispatchRecord) error {
	return r.appendJSON(r.dispatches, rec)
}

// ListStates returns the most recent records first. The whole file is
// scanned; fixture files stay small enough for that to be fine.
func (r *Recorder) ListStates(_ context.Context, limit int) ([]ports.StateRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(filepath.Join(r.dir, statesFile))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	all := []ports.StateRecord{}
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		var rec ports.StateRecord
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			return nil, fmt.Errorf("decode fixture line: %w", err)
		}
		all = append(all, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]ports.StateRecord, 0, limit)
	for i := len(all) - 1; i >= len(all)-limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}

func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	err := r.states.Close()
	if derr := r.dispatches.Close(); err == nil {
		err = derr
	}
	return err
}

func (r *Recorder) appendJSON(f *os.File, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, err = f.Write(append(data, '\n'))
	return err
}
