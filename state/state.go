package state

import (
	"fmt"
	"sync"
	"time"

	"clipcast/types"
)

// Manager holds one job's workflow state with thread-safe access. Every job
// gets its own Manager; nothing here is shared between jobs.
type Manager struct {
	mu sync.RWMutex

	stage   types.Stage
	jobUUID string

	chunksDone  int
	chunksTotal int
	result      *types.PublishResult

	// Logs (ring buffer)
	logs    []types.LogEntry
	maxLogs int
	lastErr error
}

// NewManager creates a state manager starting at the idle stage.
func NewManager() *Manager {
	return &Manager{
		stage:   types.StageIdle,
		logs:    make([]types.LogEntry, 0),
		maxLogs: 50, // Keep last 50 log entries
	}
}

// AddLog adds a log entry (thread-safe)
func (m *Manager) AddLog(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendLog(message)
}

// appendLog must be called with the lock held.
func (m *Manager) appendLog(message string) {
	m.logs = append(m.logs, types.LogEntry{Timestamp: time.Now(), Message: message})
	if len(m.logs) > m.maxLogs {
		m.logs = m.logs[len(m.logs)-m.maxLogs:]
	}
}

// Status returns a snapshot of the current state (thread-safe)
func (m *Manager) Status() types.StatusResponse {
	m.mu.RLock()
	defer m.mu.RUnlock()

	resp := types.StatusResponse{
		Stage:     m.stage,
		Logs:      append([]types.LogEntry{}, m.logs...), // Copy slice
		JobUUID:   m.jobUUID,
		ChunkDone: m.chunksDone,
		ChunkAll:  m.chunksTotal,
		Result:    m.result,
	}
	if m.lastErr != nil {
		resp.Error = m.lastErr.Error()
	}
	return resp
}

// SetStage records a stage transition. Transitions are strictly sequential;
// no stage is re-entered.
func (m *Manager) SetStage(stage types.Stage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stage = stage
}

// Stage returns the current stage (thread-safe)
func (m *Manager) Stage() types.Stage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stage
}

// SetJob records the job this manager is tracking.
func (m *Manager) SetJob(uuid string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobUUID = uuid
}

// SetChunkProgress records transfer progress after an acknowledged chunk.
func (m *Manager) SetChunkProgress(done, total int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chunksDone = done
	m.chunksTotal = total
}

// SetResult records the publish result and moves to the published stage.
func (m *Manager) SetResult(res *types.PublishResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.result = res
	m.stage = types.StagePublished
	m.appendLog(fmt.Sprintf("Published! id=%s", res.ID))
}

// Fail records the terminal failure, preserving the failing stage in the
// wrapped cause.
func (m *Manager) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stage = types.StageFailed
	m.lastErr = err
	m.appendLog(fmt.Sprintf("Error: %v", err))
}

// LastError returns the terminal failure, if any.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}
