package types

import (
	"time"
)

// Privacy is the visibility a platform assigns to published content.
type Privacy string

const (
	PrivacyPublic   Privacy = "public"
	PrivacyPrivate  Privacy = "private"
	PrivacyUnlisted Privacy = "unlisted"
)

// ValidPrivacy reports whether p is one of the accepted visibility values.
func ValidPrivacy(p Privacy) bool {
	switch p {
	case PrivacyPublic, PrivacyPrivate, PrivacyUnlisted:
		return true
	}
	return false
}

// PublishMetadata describes the content being published. It is supplied by
// the caller before finalize and never mutated by the workflow.
type PublishMetadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Privacy     Privacy  `json:"privacy"`
	CategoryID  string   `json:"category_id,omitempty"`
}

// PublishResult is returned only when a finalize call succeeds.
type PublishResult struct {
	ID  string `json:"id"`
	URL string `json:"url,omitempty"`
}

// PublishJob is one upload-and-publish unit of work. Each job owns its file
// path and metadata exclusively; jobs share no mutable state.
type PublishJob struct {
	UUID      string          `json:"uuid"`
	Platform  string          `json:"platform"`
	FilePath  string          `json:"file_path"`
	Metadata  PublishMetadata `json:"metadata"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// Stage identifies where in the workflow an event or failure occurred.
type Stage string

const (
	StageIdle         Stage = "idle"
	StageAuthorizing  Stage = "authorizing"
	StagePlanning     Stage = "planning"
	StageTransferring Stage = "transferring"
	StageFinalizing   Stage = "finalizing"
	StagePublished    Stage = "published"
	StageFailed       Stage = "failed"
)

// Terminal reports whether s is a terminal workflow stage.
func (s Stage) Terminal() bool {
	return s == StagePublished || s == StageFailed
}

// LogEntry is a single timestamped log line kept by the state manager.
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
}

// StatusResponse is the JSON body for the job status endpoint.
type StatusResponse struct {
	Stage     Stage          `json:"stage"`
	Logs      []LogEntry     `json:"logs"`
	JobUUID   string         `json:"job_uuid,omitempty"`
	ChunkDone int            `json:"chunks_done"`
	ChunkAll  int            `json:"chunks_total"`
	Result    *PublishResult `json:"result,omitempty"`
	Error     string         `json:"error,omitempty"`
}
