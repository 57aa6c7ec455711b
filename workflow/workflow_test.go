package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"clipcast/auth"
	"clipcast/state"
	"clipcast/types"
	"clipcast/upload"
)

// fakePlatform records init/finalize calls and can be told to fail either.
type fakePlatform struct {
	mu sync.Mutex

	uploadURL     string
	initCalls     int
	finalizeCalls int
	finalizeMeta  types.PublishMetadata
	finalizeID    string

	initErr     error
	finalizeErr error
}

func (p *fakePlatform) InitSession(ctx context.Context, accessToken string, totalSize, chunkSize int64, chunkCount int) (*upload.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.initCalls++
	if p.initErr != nil {
		return nil, p.initErr
	}
	return &upload.Session{
		ID:        "vid-1",
		UploadURL: p.uploadURL,
		TotalSize: totalSize,
		ChunkSize: chunkSize,
	}, nil
}

func (p *fakePlatform) Finalize(ctx context.Context, accessToken string, session *upload.Session, meta types.PublishMetadata) (*types.PublishResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.finalizeCalls++
	p.finalizeMeta = meta
	p.finalizeID = session.ID
	if p.finalizeErr != nil {
		return nil, p.finalizeErr
	}
	return &types.PublishResult{ID: "v123", URL: "https://clips.example/v123"}, nil
}

// testEnv wires a runner against counting httptest token and chunk servers.
type testEnv struct {
	runner      *Runner
	platform    *fakePlatform
	chunkCalls  *int
	tokenCalls  *int
	tokenStatus *int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokenCalls := 0
	tokenStatus := http.StatusOK
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenCalls++
		if tokenStatus != http.StatusOK {
			http.Error(w, `{"error":"invalid_grant"}`, tokenStatus)
			return
		}
		fmt.Fprint(w, `{"access_token":"tok","expires_in":3600}`)
	}))
	t.Cleanup(tokenServer.Close)

	chunkCalls := 0
	chunkServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunkCalls++
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(chunkServer.Close)

	platform := &fakePlatform{uploadURL: chunkServer.URL}
	cred := auth.NewCredential("id", "secret", "", "refresh", "")
	flow := auth.NewFlow(tokenServer.URL, nil)
	runner := NewRunner(state.NewManager(), flow, cred, platform, upload.NewTransferrer(nil))
	runner.ChunkSize = 4

	return &testEnv{
		runner:      runner,
		platform:    platform,
		chunkCalls:  &chunkCalls,
		tokenCalls:  &tokenCalls,
		tokenStatus: &tokenStatus,
	}
}

func writeTempFile(t *testing.T, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestRunPublishes(t *testing.T) {
	env := newTestEnv(t)
	job := types.PublishJob{
		UUID:     "job-1",
		Platform: "tiktok",
		FilePath: writeTempFile(t, 10),
		Metadata: types.PublishMetadata{Title: "My Clip", Privacy: types.PrivacyPrivate},
	}

	result, err := env.runner.Run(context.Background(), job)
	if err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if result.ID != "v123" {
		t.Fatalf("result.ID = %q; want v123", result.ID)
	}

	if *env.tokenCalls != 1 {
		t.Fatalf("token endpoint called %d times; want 1", *env.tokenCalls)
	}
	if *env.chunkCalls != 3 {
		t.Fatalf("chunk endpoint called %d times; want 3 (10 bytes / 4)", *env.chunkCalls)
	}
	if env.platform.finalizeCalls != 1 {
		t.Fatalf("finalize called %d times; want 1", env.platform.finalizeCalls)
	}
	if env.platform.finalizeID != "vid-1" {
		t.Fatalf("finalize keyed on %q; want the server-issued session id vid-1", env.platform.finalizeID)
	}
	if env.platform.finalizeMeta.Title != "My Clip" {
		t.Fatalf("finalize metadata = %+v", env.platform.finalizeMeta)
	}

	status := env.runner.State().Status()
	if status.Stage != types.StagePublished {
		t.Fatalf("stage = %q; want published", status.Stage)
	}
	if status.ChunkDone != 3 || status.ChunkAll != 3 {
		t.Fatalf("chunk progress = %d/%d; want 3/3", status.ChunkDone, status.ChunkAll)
	}
}

func TestRunAuthRejectedMakesNoFurtherCalls(t *testing.T) {
	env := newTestEnv(t)
	*env.tokenStatus = http.StatusUnauthorized

	job := types.PublishJob{
		UUID:     "job-2",
		FilePath: writeTempFile(t, 10),
		Metadata: types.PublishMetadata{Title: "x"},
	}

	_, err := env.runner.Run(context.Background(), job)

	var failure *types.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Run error = %v; want Failure", err)
	}
	if failure.Stage != types.StageAuthorizing {
		t.Fatalf("failed stage = %q; want authorizing", failure.Stage)
	}
	var authErr *types.AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("cause = %v; want AuthError", failure.Err)
	}

	if env.platform.initCalls != 0 {
		t.Fatalf("init called %d times after auth rejection; want 0", env.platform.initCalls)
	}
	if *env.chunkCalls != 0 {
		t.Fatalf("chunk endpoint called %d times after auth rejection; want 0", *env.chunkCalls)
	}
	if env.platform.finalizeCalls != 0 {
		t.Fatalf("finalize called %d times after auth rejection; want 0", env.platform.finalizeCalls)
	}

	if stage := env.runner.State().Stage(); stage != types.StageFailed {
		t.Fatalf("stage = %q; want failed", stage)
	}
}

func TestRunFinalizeRejectedIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.platform.finalizeErr = &types.PublishError{Status: 500, Body: "finalize blew up"}

	job := types.PublishJob{
		UUID:     "job-3",
		FilePath: writeTempFile(t, 10),
		Metadata: types.PublishMetadata{Title: "x"},
	}

	_, err := env.runner.Run(context.Background(), job)

	var failure *types.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Run error = %v; want Failure", err)
	}
	if failure.Stage != types.StageFinalizing {
		t.Fatalf("failed stage = %q; want finalizing", failure.Stage)
	}
	var pubErr *types.PublishError
	if !errors.As(err, &pubErr) {
		t.Fatalf("cause = %v; want PublishError", failure.Err)
	}

	// All chunks were transferred before the finalize rejection.
	if *env.chunkCalls != 3 {
		t.Fatalf("chunk endpoint called %d times; want 3", *env.chunkCalls)
	}
	if env.platform.finalizeCalls != 1 {
		t.Fatalf("finalize called %d times; want exactly 1 (no retry)", env.platform.finalizeCalls)
	}
}

func TestRunEmptyFileFailsBeforeAnyNetworkCall(t *testing.T) {
	env := newTestEnv(t)

	job := types.PublishJob{
		UUID:     "job-4",
		FilePath: writeTempFile(t, 0),
		Metadata: types.PublishMetadata{Title: "x"},
	}

	_, err := env.runner.Run(context.Background(), job)

	var failure *types.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Run error = %v; want Failure", err)
	}
	var invalid *types.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("cause = %v; want InvalidInputError", failure.Err)
	}

	if *env.tokenCalls != 0 {
		t.Fatalf("token endpoint called %d times for an empty file; want 0", *env.tokenCalls)
	}
	if env.platform.initCalls != 0 || *env.chunkCalls != 0 || env.platform.finalizeCalls != 0 {
		t.Fatal("network calls made for an empty file")
	}
}

func TestRunMissingFile(t *testing.T) {
	env := newTestEnv(t)

	job := types.PublishJob{UUID: "job-5", FilePath: filepath.Join(t.TempDir(), "nope.mp4")}
	_, err := env.runner.Run(context.Background(), job)

	var invalid *types.InvalidInputError
	if !errors.As(err, &invalid) {
		t.Fatalf("Run error = %v; want InvalidInputError", err)
	}
	if *env.tokenCalls != 0 {
		t.Fatalf("token endpoint called %d times; want 0", *env.tokenCalls)
	}
}

func TestRunChunkFailureStopsTransfer(t *testing.T) {
	tokenServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"access_token":"tok","expires_in":3600}`)
	}))
	defer tokenServer.Close()

	chunkCalls := 0
	chunkServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunkCalls++
		if chunkCalls == 2 {
			http.Error(w, "chunk rejected", http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer chunkServer.Close()

	platform := &fakePlatform{uploadURL: chunkServer.URL}
	cred := auth.NewCredential("id", "secret", "", "refresh", "")
	runner := NewRunner(state.NewManager(), auth.NewFlow(tokenServer.URL, nil), cred, platform, upload.NewTransferrer(nil))
	runner.ChunkSize = 4

	job := types.PublishJob{UUID: "job-6", FilePath: writeTempFile(t, 10)}
	_, err := runner.Run(context.Background(), job)

	var failure *types.Failure
	if !errors.As(err, &failure) {
		t.Fatalf("Run error = %v; want Failure", err)
	}
	if failure.Stage != types.StageTransferring {
		t.Fatalf("failed stage = %q; want transferring", failure.Stage)
	}
	var chunkErr *types.ChunkError
	if !errors.As(err, &chunkErr) {
		t.Fatalf("cause = %v; want ChunkError", failure.Err)
	}
	if chunkErr.Index != 1 {
		t.Fatalf("ChunkError.Index = %d; want 1", chunkErr.Index)
	}

	if chunkCalls != 2 {
		t.Fatalf("chunk endpoint called %d times; want 2 (nothing after the rejection)", chunkCalls)
	}
	if platform.finalizeCalls != 0 {
		t.Fatalf("finalize called %d times after a chunk failure; want 0", platform.finalizeCalls)
	}
}
