package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"clipcast/types"
)

// submitJob creates a command to submit the publish job
func submitJob(client *APIClient, job types.PublishJob) tea.Cmd {
	return func() tea.Msg {
		uuid, err := client.SubmitJob(job)
		return JobSubmittedMsg{UUID: uuid, Err: err}
	}
}

// pollStatus creates a command to poll the status of a job
func pollStatus(client *APIClient, uuid string) tea.Cmd {
	return func() tea.Msg {
		status, err := client.GetStatus(uuid)
		return StatusUpdateMsg{
			Status: status,
			Err:    err,
		}
	}
}

// tickCmd creates a command that ticks every 500ms for polling
func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
