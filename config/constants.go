package config

import "time"

// Upload Constants
const (
	// ChunkSize is the fixed chunk size for chunked uploads (4 MiB)
	ChunkSize = 4 * 1024 * 1024

	// MaxConcurrentJobs limits the number of publish jobs run simultaneously
	MaxConcurrentJobs = 2

	// JobBatchDelay is the wait time between jobs in batch mode
	JobBatchDelay = 2 * time.Second
)

// Video Output Constants
const (
	// VideoCodec is the video encoding codec
	VideoCodec = "libx264"

	// VideoPreset is the ffmpeg encoding speed preset
	VideoPreset = "fast"
)

// Directory Constants
const (
	// InputDir is the directory containing job JSON files in batch mode
	InputDir = "input"

	// OutputDir is the directory for branded videos
	OutputDir = "output"
)

// Metadata Constants
const (
	// MaxTitleLength is the maximum character length for video titles
	MaxTitleLength = 100

	// DefaultCategoryID is YouTube's Science & Technology category
	DefaultCategoryID = "28"
)
