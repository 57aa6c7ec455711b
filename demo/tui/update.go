package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"clipcast/types"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case JobSubmittedMsg:
		return m.handleJobSubmitted(msg)
	case StatusUpdateMsg:
		return m.handleStatusUpdate(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "u", "U":
		if m.Stage == types.StageIdle && m.JobUUID == "" {
			return m, submitJob(m.APIClient, m.Job)
		}
	}
	return m, nil
}

// handleJobSubmitted processes the submission response
func (m Model) handleJobSubmitted(msg JobSubmittedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Stage = types.StageFailed
		m.Err = msg.Err
		return m, nil
	}
	m.JobUUID = msg.UUID
	m.Connected = true
	return m, pollStatus(m.APIClient, m.JobUUID)
}

// handleStatusUpdate syncs local state from the server response
func (m Model) handleStatusUpdate(msg StatusUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Connected = false
		return m, nil
	}

	m.Connected = true
	m.Stage = msg.Status.Stage
	m.Logs = msg.Status.Logs
	m.ChunkDone = msg.Status.ChunkDone
	m.ChunkAll = msg.Status.ChunkAll
	m.Result = msg.Status.Result
	if msg.Status.Error != "" {
		m.Err = errors.New(msg.Status.Error)
	}

	return m, nil
}

// handleTick polls the server on every tick while the job is live
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.JobUUID == "" || m.Stage.Terminal() {
		return m, tickCmd()
	}
	return m, tea.Batch(pollStatus(m.APIClient, m.JobUUID), tickCmd())
}
