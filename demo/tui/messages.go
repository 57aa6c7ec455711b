package tui

import (
	"time"

	"clipcast/types"
)

// Messages for the tea program (polling-based)

// JobSubmittedMsg is sent when the publish job has been accepted
type JobSubmittedMsg struct {
	UUID string
	Err  error
}

// StatusUpdateMsg is sent when we receive status from the server
type StatusUpdateMsg struct {
	Status *types.StatusResponse
	Err    error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}
