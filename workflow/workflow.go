// Package workflow sequences one chunked upload-and-publish job end to end:
// authorize, plan, transfer, finalize. Each stage either advances or the
// run terminates with the failing stage and cause surfaced verbatim.
package workflow

import (
	"context"
	"fmt"
	"os"

	"clipcast/auth"
	"clipcast/state"
	"clipcast/types"
	"clipcast/upload"
)

// Platform is the remote side of a chunked publish: it opens an upload
// session and converts the transferred bytes into published content.
type Platform interface {
	InitSession(ctx context.Context, accessToken string, totalSize, chunkSize int64, chunkCount int) (*upload.Session, error)
	Finalize(ctx context.Context, accessToken string, session *upload.Session, meta types.PublishMetadata) (*types.PublishResult, error)
}

// Runner executes the publish workflow for one job at a time. A Runner owns
// its credential and state manager exclusively; run independent Runners for
// concurrent jobs.
type Runner struct {
	Auth      *auth.Flow
	Cred      *auth.Credential
	Platform  Platform
	Transfer  *upload.Transferrer
	ChunkSize int64

	stateManager *state.Manager
}

// NewRunner creates a workflow runner reporting into the given state
// manager. A zero chunk size falls back to the 4 MiB default.
func NewRunner(stateManager *state.Manager, flow *auth.Flow, cred *auth.Credential, platform Platform, transfer *upload.Transferrer) *Runner {
	return &Runner{
		Auth:         flow,
		Cred:         cred,
		Platform:     platform,
		Transfer:     transfer,
		ChunkSize:    upload.DefaultChunkSize,
		stateManager: stateManager,
	}
}

// State exposes the runner's state manager for status reporting.
func (r *Runner) State() *state.Manager { return r.stateManager }

// Run executes the complete workflow for one job and returns the publish
// result, or a *types.Failure naming the stage that stopped it. After a
// failure no further network calls are made.
func (r *Runner) Run(ctx context.Context, job types.PublishJob) (*types.PublishResult, error) {
	r.stateManager.SetJob(job.UUID)

	// Input validation happens before any network call, so an empty or
	// missing file never burns an auth round trip.
	totalSize, err := r.validateInput(job)
	if err != nil {
		return nil, r.fail(types.StagePlanning, err)
	}

	// Step 1: Authorize and open the upload session.
	session, err := r.authorize(ctx, totalSize)
	if err != nil {
		return nil, r.fail(types.StageAuthorizing, err)
	}

	// Step 2: Plan the chunk sequence.
	chunks, err := r.plan(totalSize)
	if err != nil {
		return nil, r.fail(types.StagePlanning, err)
	}

	// Step 3: Transfer every chunk, in order.
	if err := r.transfer(ctx, job.FilePath, session, chunks); err != nil {
		return nil, r.fail(types.StageTransferring, err)
	}

	// Step 4: Finalize into published content.
	result, err := r.finalize(ctx, session, job.Metadata)
	if err != nil {
		return nil, r.fail(types.StageFinalizing, err)
	}

	r.stateManager.SetResult(result)
	return result, nil
}

// validateInput checks the source file without touching the network.
func (r *Runner) validateInput(job types.PublishJob) (int64, error) {
	info, err := os.Stat(job.FilePath)
	if err != nil {
		return 0, &types.InvalidInputError{Reason: fmt.Sprintf("file %s: %v", job.FilePath, err)}
	}
	if info.IsDir() {
		return 0, &types.InvalidInputError{Reason: fmt.Sprintf("%s is a directory", job.FilePath)}
	}
	if info.Size() == 0 {
		return 0, &types.InvalidInputError{Reason: "empty file"}
	}
	return info.Size(), nil
}

// authorize obtains a valid access token and opens the upload session.
func (r *Runner) authorize(ctx context.Context, totalSize int64) (*upload.Session, error) {
	r.stateManager.SetStage(types.StageAuthorizing)
	r.stateManager.AddLog("Authorizing...")

	if err := r.Auth.Authorize(ctx, r.Cred); err != nil {
		return nil, err
	}

	chunkSize := r.ChunkSize
	if chunkSize <= 0 {
		chunkSize = upload.DefaultChunkSize
	}
	chunkCount := int((totalSize + chunkSize - 1) / chunkSize)

	session, err := r.Platform.InitSession(ctx, r.Cred.AccessToken(), totalSize, chunkSize, chunkCount)
	if err != nil {
		return nil, err
	}

	r.stateManager.AddLog(fmt.Sprintf("Upload session opened (id=%s, %d bytes)", session.ID, totalSize))
	return session, nil
}

// plan computes the chunk sequence. Pure: no network.
func (r *Runner) plan(totalSize int64) ([]upload.Chunk, error) {
	r.stateManager.SetStage(types.StagePlanning)

	chunkSize := r.ChunkSize
	if chunkSize <= 0 {
		chunkSize = upload.DefaultChunkSize
	}
	chunks, err := upload.PlanChunks(totalSize, chunkSize)
	if err != nil {
		return nil, err
	}

	r.stateManager.AddLog(fmt.Sprintf("Planned %d chunks of up to %d bytes", len(chunks), chunkSize))
	return chunks, nil
}

// transfer streams the file's chunks to the session's upload URL.
func (r *Runner) transfer(ctx context.Context, filePath string, session *upload.Session, chunks []upload.Chunk) error {
	r.stateManager.SetStage(types.StageTransferring)
	r.stateManager.SetChunkProgress(0, len(chunks))

	f, err := os.Open(filePath)
	if err != nil {
		return &types.InvalidInputError{Reason: fmt.Sprintf("open %s: %v", filePath, err)}
	}
	defer f.Close()

	prev := r.Transfer.Progress
	r.Transfer.Progress = func(done upload.Chunk, total int) {
		r.stateManager.SetChunkProgress(done.Index+1, total)
		if prev != nil {
			prev(done, total)
		}
	}

	if err := r.Transfer.Transfer(ctx, session, chunks, f); err != nil {
		return err
	}

	r.stateManager.AddLog("Transfer complete")
	return nil
}

// finalize converts the transferred bytes into published content. Only
// reached once the transfer executor reports completion.
func (r *Runner) finalize(ctx context.Context, session *upload.Session, meta types.PublishMetadata) (*types.PublishResult, error) {
	r.stateManager.SetStage(types.StageFinalizing)
	r.stateManager.AddLog("Finalizing...")

	if !session.Complete() {
		return nil, fmt.Errorf("finalize before transfer complete (offset %d of %d)", session.NextOffset, session.TotalSize)
	}

	return r.Platform.Finalize(ctx, r.Cred.AccessToken(), session, meta)
}

// fail records the terminal failure and wraps the cause with its stage.
func (r *Runner) fail(stage types.Stage, cause error) error {
	failure := &types.Failure{Stage: stage, Err: cause}
	r.stateManager.Fail(failure)
	return failure
}
