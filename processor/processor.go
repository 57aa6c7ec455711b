// Package processor runs publish jobs end to end: optional branding pass,
// ledger check, platform publish, ledger record. It is the piece the API,
// Kafka, and batch entrypoints all share.
package processor

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"

	"clipcast/auth"
	"clipcast/fetch"
	"clipcast/instagram"
	"clipcast/ledger"
	"clipcast/state"
	"clipcast/storage"
	"clipcast/tiktok"
	"clipcast/types"
	"clipcast/upload"
	"clipcast/video"
	"clipcast/workflow"
	"clipcast/youtube"
)

// Platform names accepted in PublishJob.Platform.
const (
	PlatformTikTok    = "tiktok"
	PlatformYouTube   = "youtube"
	PlatformInstagram = "instagram"
)

// Options carries the optional collaborators. Any of them may be nil; the
// processor degrades to a plain publish pipeline.
type Options struct {
	Ledger  *ledger.Ledger   // skip re-publishing identical files
	Archive *storage.Archive // stage videos for platforms that pull by URL
	Brand   *video.BrandSpec // reformat/brand before publishing
	OutDir  string           // where branded output lands

	// ConfirmFeedURL, when set, is polled after a YouTube publish to log
	// whether the video already shows in the channel feed.
	ConfirmFeedURL string
}

// Processor owns the per-platform clients and credentials.
type Processor struct {
	tiktokFlow   *auth.Flow
	tiktokCred   *auth.Credential
	tiktokClient *tiktok.Client
	chunkSize    int64

	youtubeUploader *youtube.Uploader

	instagramCred   *auth.Credential
	instagramClient *instagram.Client

	opts Options

	mu       sync.RWMutex
	managers map[string]*state.Manager
}

// New creates a processor. Platform clients may be nil; jobs for a platform
// without a configured client fail with InvalidInputError.
func New(tiktokFlow *auth.Flow, tiktokCred *auth.Credential, tiktokClient *tiktok.Client, chunkSize int64,
	youtubeUploader *youtube.Uploader,
	instagramCred *auth.Credential, instagramClient *instagram.Client,
	opts Options) *Processor {
	if chunkSize <= 0 {
		chunkSize = upload.DefaultChunkSize
	}
	return &Processor{
		tiktokFlow:      tiktokFlow,
		tiktokCred:      tiktokCred,
		tiktokClient:    tiktokClient,
		chunkSize:       chunkSize,
		youtubeUploader: youtubeUploader,
		instagramCred:   instagramCred,
		instagramClient: instagramClient,
		opts:            opts,
		managers:        make(map[string]*state.Manager),
	}
}

// Status returns the state snapshot for a job, or false if unknown.
func (p *Processor) Status(jobUUID string) (types.StatusResponse, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	m, ok := p.managers[jobUUID]
	if !ok {
		return types.StatusResponse{}, false
	}
	return m.Status(), true
}

// Register creates the job's state manager ahead of processing, so a status
// poll issued right after submission finds the job instead of a 404.
func (p *Processor) Register(jobUUID string) {
	p.manager(jobUUID)
}

func (p *Processor) manager(jobUUID string) *state.Manager {
	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.managers[jobUUID]; ok {
		return m
	}
	m := state.NewManager()
	p.managers[jobUUID] = m
	return m
}

// ProcessJob runs one job. Jobs are isolated: each gets its own state
// manager, and nothing mutable is shared between concurrent calls beyond
// the serialized per-credential token refresh.
func (p *Processor) ProcessJob(ctx context.Context, job types.PublishJob) error {
	mgr := p.manager(job.UUID)
	mgr.SetJob(job.UUID)

	filePath := job.FilePath

	// Branding pass, when configured: reformat for the target platform and
	// publish the branded output instead of the raw source.
	if p.opts.Brand != nil {
		spec := *p.opts.Brand
		spec.Format = video.ResolveFormat(job.Platform)
		outDir := p.opts.OutDir
		if outDir == "" {
			outDir = "output"
		}
		branded := filepath.Join(outDir, fmt.Sprintf("%s_%s.mp4", job.UUID, job.Platform))
		mgr.AddLog(fmt.Sprintf("Branding for %s (%s)", job.Platform, spec.Format.Name))
		if err := video.Brand(filePath, branded, spec); err != nil {
			failure := &types.Failure{Stage: types.StagePlanning, Err: err}
			mgr.Fail(failure)
			return failure
		}
		filePath = branded
	}

	// Ledger check: a file already published to this platform is skipped,
	// not an error.
	var digest string
	if p.opts.Ledger != nil {
		var err error
		digest, err = ledger.FileDigest(filePath)
		if err != nil {
			failure := &types.Failure{Stage: types.StagePlanning, Err: err}
			mgr.Fail(failure)
			return failure
		}
		seen, err := p.opts.Ledger.Seen(ctx, job.Platform, digest)
		if err != nil {
			log.Printf("ledger lookup failed, continuing without dedup: %v", err)
		} else if seen {
			mgr.AddLog("Already published, skipping")
			mgr.SetResult(&types.PublishResult{ID: "already-published"})
			return nil
		}
	}

	job.FilePath = filePath
	result, err := p.publish(ctx, mgr, job)
	if err != nil {
		return err
	}

	if p.opts.Ledger != nil && digest != "" {
		if err := p.opts.Ledger.Record(ctx, job.Platform, digest, result.ID); err != nil {
			log.Printf("ledger record failed: %v", err)
		}
	}

	p.confirm(result)
	return nil
}

// publish dispatches to the platform-specific path.
func (p *Processor) publish(ctx context.Context, mgr *state.Manager, job types.PublishJob) (*types.PublishResult, error) {
	switch job.Platform {
	case PlatformTikTok:
		return p.publishTikTok(ctx, mgr, job)
	case PlatformYouTube:
		return p.publishYouTube(ctx, mgr, job)
	case PlatformInstagram:
		return p.publishInstagram(ctx, mgr, job)
	default:
		failure := &types.Failure{
			Stage: types.StagePlanning,
			Err:   &types.InvalidInputError{Reason: fmt.Sprintf("unknown platform %q", job.Platform)},
		}
		mgr.Fail(failure)
		return nil, failure
	}
}

// publishTikTok runs the full chunked workflow.
func (p *Processor) publishTikTok(ctx context.Context, mgr *state.Manager, job types.PublishJob) (*types.PublishResult, error) {
	if p.tiktokClient == nil || p.tiktokFlow == nil || p.tiktokCred == nil {
		failure := &types.Failure{
			Stage: types.StageAuthorizing,
			Err:   &types.AuthError{Reason: types.AuthMissingCredential},
		}
		mgr.Fail(failure)
		return nil, failure
	}

	runner := workflow.NewRunner(mgr, p.tiktokFlow, p.tiktokCred, p.tiktokClient, upload.NewTransferrer(nil))
	runner.ChunkSize = p.chunkSize
	return runner.Run(ctx, job)
}

// publishYouTube delegates the transfer to the YouTube SDK.
func (p *Processor) publishYouTube(ctx context.Context, mgr *state.Manager, job types.PublishJob) (*types.PublishResult, error) {
	if p.youtubeUploader == nil {
		failure := &types.Failure{
			Stage: types.StageAuthorizing,
			Err:   &types.AuthError{Reason: types.AuthMissingCredential},
		}
		mgr.Fail(failure)
		return nil, failure
	}

	mgr.SetStage(types.StageTransferring)
	mgr.AddLog("Uploading to YouTube...")
	result, err := p.youtubeUploader.UploadVideo(ctx, job.FilePath, job.Metadata)
	if err != nil {
		failure := &types.Failure{Stage: types.StageTransferring, Err: err}
		mgr.Fail(failure)
		return nil, failure
	}
	mgr.SetResult(result)
	return result, nil
}

// publishInstagram stages the file in the archive and lets the Graph API
// pull it from a presigned URL.
func (p *Processor) publishInstagram(ctx context.Context, mgr *state.Manager, job types.PublishJob) (*types.PublishResult, error) {
	if p.instagramClient == nil || p.instagramCred == nil {
		failure := &types.Failure{
			Stage: types.StageAuthorizing,
			Err:   &types.AuthError{Reason: types.AuthMissingCredential},
		}
		mgr.Fail(failure)
		return nil, failure
	}
	if p.opts.Archive == nil {
		failure := &types.Failure{
			Stage: types.StagePlanning,
			Err:   &types.InvalidInputError{Reason: "instagram publishing needs the archive configured"},
		}
		mgr.Fail(failure)
		return nil, failure
	}

	mgr.SetStage(types.StageTransferring)
	mgr.AddLog("Staging video in archive...")
	key, err := p.opts.Archive.StageVideo(ctx, job.UUID, job.FilePath)
	if err != nil {
		failure := &types.Failure{Stage: types.StageTransferring, Err: err}
		mgr.Fail(failure)
		return nil, failure
	}

	videoURL, err := p.opts.Archive.DownloadURL(ctx, key)
	if err != nil {
		failure := &types.Failure{Stage: types.StageTransferring, Err: err}
		mgr.Fail(failure)
		return nil, failure
	}

	mgr.SetStage(types.StageFinalizing)
	mgr.AddLog("Publishing container...")
	result, err := p.instagramClient.Publish(ctx, p.instagramCred.AccessToken(), videoURL, job.Metadata)
	if err != nil {
		failure := &types.Failure{Stage: types.StageFinalizing, Err: err}
		mgr.Fail(failure)
		return nil, failure
	}

	mgr.SetResult(result)
	return result, nil
}

// confirm checks the channel feed for the published video. Best effort: the
// feed lags publication, so absence is only logged.
func (p *Processor) confirm(result *types.PublishResult) {
	if p.opts.ConfirmFeedURL == "" || result == nil {
		return
	}
	found, err := fetch.ConfirmPublished(p.opts.ConfirmFeedURL, result.ID)
	if err != nil {
		log.Printf("feed confirmation failed: %v", err)
		return
	}
	if found {
		log.Printf("video %s visible in channel feed", result.ID)
	} else {
		log.Printf("video %s not in channel feed yet", result.ID)
	}
}
