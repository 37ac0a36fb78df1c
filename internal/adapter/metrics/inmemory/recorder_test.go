package inmemory

import "testing"

func TestRecorderSnapshot(t *testing.T) {
	r := NewRecorder()
	r.RecordSnapshot()
	r.RecordSnapshot()
	r.RecordDecodeFailure()
	r.RecordAdmitted("play_card")
	r.RecordAdmitted("play_card")
	r.RecordAdmitted("end_turn")
	r.RecordRejected("not_allowed")
	r.RecordDispatched()
	r.RecordCleared(3)

	s := r.Snapshot()
	if s.SnapshotsTotal != 2 {
		t.Fatalf("expected snapshots 2, got %d", s.SnapshotsTotal)
	}
	if s.DecodeFailures != 1 {
		t.Fatalf("expected decode failures 1, got %d", s.DecodeFailures)
	}
	if s.ActionsAdmitted != 3 {
		t.Fatalf("expected admitted 3, got %d", s.ActionsAdmitted)
	}
	if s.ActionsRejected != 1 {
		t.Fatalf("expected rejected 1, got %d", s.ActionsRejected)
	}
	if s.LinesDispatched != 1 {
		t.Fatalf("expected dispatched 1, got %d", s.LinesDispatched)
	}
	if s.ActionsCleared != 3 {
		t.Fatalf("expected cleared 3, got %d", s.ActionsCleared)
	}
	if s.ByActionType["play_card"] != 2 {
		t.Fatalf("expected play_card count 2")
	}
	if s.ByRejectReason["not_allowed"] != 1 {
		t.Fatalf("expected not_allowed count 1")
	}
}
