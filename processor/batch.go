package processor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"clipcast/config"
	"clipcast/types"

	"github.com/google/uuid"
)

// ProcessFromDirectory runs every job JSON file in inputDir. Jobs run with
// bounded concurrency; each is fully isolated, so failures only affect
// their own file.
func (p *Processor) ProcessFromDirectory(ctx context.Context, inputDir string) error {
	files, err := filepath.Glob(filepath.Join(inputDir, "*.json"))
	if err != nil {
		return fmt.Errorf("failed to read job files: %w", err)
	}
	if len(files) == 0 {
		log.Printf("no job files found in %s", inputDir)
		return nil
	}

	log.Printf("found %d jobs to process", len(files))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, config.MaxConcurrentJobs)

	for i, file := range files {
		wg.Add(1)
		go func(idx int, file string) {
			defer wg.Done()

			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := p.processJobFile(ctx, file, idx+1, len(files)); err != nil {
				log.Printf("failed to process %s: %v", file, err)
			}

			if idx < len(files)-1 {
				time.Sleep(config.JobBatchDelay)
			}
		}(i, file)
	}

	wg.Wait()
	log.Println("all jobs processed")
	return nil
}

func (p *Processor) processJobFile(ctx context.Context, path string, current, total int) error {
	log.Printf("[%d/%d] processing %s", current, total, filepath.Base(path))

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read job file: %w", err)
	}

	var job types.PublishJob
	if err := json.Unmarshal(data, &job); err != nil {
		return fmt.Errorf("failed to parse job file: %w", err)
	}
	if job.UUID == "" {
		job.UUID = uuid.New().String()
	}

	return p.ProcessJob(ctx, job)
}
