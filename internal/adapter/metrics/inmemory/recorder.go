package inmemory

import (
	"sync"
)

type Snapshot struct {
	SnapshotsTotal  uint64            `json:"snapshots_total"`
	DecodeFailures  uint64            `json:"decode_failures"`
	ActionsAdmitted uint64            `json:"actions_admitted"`
	ActionsRejected uint64            `json:"actions_rejected"`
	LinesDispatched uint64            `json:"lines_dispatched"`
	ActionsCleared  uint64            `json:"actions_cleared"`
	ByActionType    map[string]uint64 `json:"by_action_type"`
	ByRejectReason  map[string]uint64 `json:"by_reject_reason"`
}

type Recorder struct {
	mu         sync.Mutex
	snapshots  uint64
	decodeFail uint64
	admitted   uint64
	rejected   uint64
	dispatched uint64
	cleared    uint64
	byAction   map[string]uint64
	byReason   map[string]uint64
}

func NewRecorder() *Recorder {
	return &Recorder{
		byAction: map[string]uint64{},
		byReason: map[string]uint64{},
	}
}

func (r *Recorder) RecordSnapshot() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots++
}

func (r *Recorder) RecordDecodeFailure() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decodeFail++
}

func (r *Recorder) RecordAdmitted(actionType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admitted++
	r.byAction[actionType]++
}

func (r *Recorder) RecordRejected(reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
	r.byReason[reason]++
}

func (r *Recorder) RecordDispatched() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatched++
}

func (r *Recorder) RecordCleared(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared += uint64(count)
}

func (r *Recorder) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := Snapshot{
		SnapshotsTotal:  r.snapshots,
		DecodeFailures:  r.decodeFail,
		ActionsAdmitted: r.admitted,
		ActionsRejected: r.rejected,
		LinesDispatched: r.dispatched,
		ActionsCleared:  r.cleared,
		ByActionType:    make(map[string]uint64, len(r.byAction)),
		ByRejectReason:  make(map[string]uint64, len(r.byReason)),
	}
	for k, v := range r.byAction {
		out.ByActionType[k] = v
	}
	for k, v := range r.byReason {
		out.ByRejectReason[k] = v
	}
	return out
}

func (r *Recorder) SnapshotAny() any {
	return r.Snapshot()
}
