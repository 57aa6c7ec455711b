package state

import (
	"fmt"
	"testing"

	"clipcast/types"
)

func TestManagerLifecycle(t *testing.T) {
	m := NewManager()

	if got := m.Stage(); got != types.StageIdle {
		t.Fatalf("fresh manager stage = %q; want idle", got)
	}

	m.SetJob("job-1")
	m.SetStage(types.StageAuthorizing)
	m.SetStage(types.StagePlanning)
	m.SetStage(types.StageTransferring)
	m.SetChunkProgress(2, 3)

	status := m.Status()
	if status.JobUUID != "job-1" {
		t.Fatalf("JobUUID = %q; want job-1", status.JobUUID)
	}
	if status.Stage != types.StageTransferring {
		t.Fatalf("Stage = %q; want transferring", status.Stage)
	}
	if status.ChunkDone != 2 || status.ChunkAll != 3 {
		t.Fatalf("chunk progress = %d/%d; want 2/3", status.ChunkDone, status.ChunkAll)
	}

	m.SetResult(&types.PublishResult{ID: "v1"})
	status = m.Status()
	if status.Stage != types.StagePublished {
		t.Fatalf("Stage after SetResult = %q; want published", status.Stage)
	}
	if !status.Stage.Terminal() {
		t.Fatal("published stage not terminal")
	}
	if status.Result == nil || status.Result.ID != "v1" {
		t.Fatalf("Result = %+v; want id v1", status.Result)
	}
}

func TestManagerFail(t *testing.T) {
	m := NewManager()
	failure := &types.Failure{Stage: types.StageFinalizing, Err: &types.PublishError{Status: 500, Body: "no"}}
	m.Fail(failure)

	if got := m.Stage(); got != types.StageFailed {
		t.Fatalf("stage = %q; want failed", got)
	}
	if m.LastError() != failure {
		t.Fatalf("LastError = %v; want the recorded failure", m.LastError())
	}
	status := m.Status()
	if status.Error == "" {
		t.Fatal("status.Error empty after Fail")
	}
}

func TestLogRingBuffer(t *testing.T) {
	m := NewManager()
	for i := 0; i < 60; i++ {
		m.AddLog(fmt.Sprintf("entry %d", i))
	}

	logs := m.Status().Logs
	if len(logs) != 50 {
		t.Fatalf("kept %d log entries; want 50", len(logs))
	}
	if logs[0].Message != "entry 10" {
		t.Fatalf("oldest kept entry = %q; want entry 10", logs[0].Message)
	}
	if logs[len(logs)-1].Message != "entry 59" {
		t.Fatalf("newest entry = %q; want entry 59", logs[len(logs)-1].Message)
	}
}
