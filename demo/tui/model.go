package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"clipcast/types"
)

// Model represents the TUI client state (thin client)
type Model struct {
	// Publish API client
	APIClient *APIClient

	// The job to submit when the user presses 'u'
	Job types.PublishJob

	// Local UI state (synced from the server)
	JobUUID   string
	Stage     types.Stage
	Logs      []types.LogEntry
	ChunkDone int
	ChunkAll  int
	Result    *types.PublishResult
	Err       error

	// Connection status
	Connected bool
}

// NewModel creates a new TUI model
func NewModel(baseURL string, job types.PublishJob) Model {
	return Model{
		APIClient: NewAPIClient(baseURL),
		Job:       job,
		Stage:     types.StageIdle,
		Logs:      make([]types.LogEntry, 0),
		Connected: false,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// getStateText returns the appropriate state message
func (m Model) getStateText() string {
	switch m.Stage {
	case types.StageIdle:
		return HighlightStyle.Render("👋 Ready to publish!") + "\n\n" +
			InfoStyle.Render(fmt.Sprintf("File: %s → %s", m.Job.FilePath, m.Job.Platform))
	case types.StageAuthorizing:
		return StatusStyle.Render("🔑 Authorizing...")
	case types.StagePlanning:
		return StatusStyle.Render("📐 Planning chunks...")
	case types.StageTransferring:
		return StatusStyle.Render(fmt.Sprintf("📤 Transferring chunk %d/%d...", m.ChunkDone, m.ChunkAll))
	case types.StageFinalizing:
		return StatusStyle.Render("📦 Finalizing publish...")
	case types.StagePublished:
		return HighlightStyle.Render("✅ PUBLISHED")
	case types.StageFailed:
		errMsg := "Unknown error"
		if m.Err != nil {
			errMsg = m.Err.Error()
		}
		return ErrorStyle.Render(fmt.Sprintf("❌ Failed: %v", errMsg))
	default:
		return ""
	}
}
