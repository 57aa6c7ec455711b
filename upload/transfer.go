package upload

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"

	"clipcast/types"
)

// Progress is called after each acknowledged chunk with the chunk just
// accepted and the total chunk count.
type Progress func(done Chunk, total int)

// Transferrer sends a planned chunk sequence to an upload session's URL,
// one request per chunk, strictly in ascending index order. Chunked upload
// endpoints require contiguous ordered delivery; chunk i+1 is never sent
// before chunk i is acknowledged.
type Transferrer struct {
	Client   *http.Client
	Progress Progress
}

// NewTransferrer creates a Transferrer. A nil client falls back to
// http.DefaultClient.
func NewTransferrer(client *http.Client) *Transferrer {
	if client == nil {
		client = http.DefaultClient
	}
	return &Transferrer{Client: client}
}

// Transfer streams each chunk's bytes from src to the session's upload URL.
// Cancellation is cooperative and checked between chunks only: an in-flight
// request always completes before the context is honored, so the remote
// session is never left mid-chunk.
//
// On a non-2xx response the whole transfer fails with a ChunkError carrying
// the chunk index, status, and body; no later chunk is attempted. The
// session's NextOffset advances after each acknowledgment.
func (t *Transferrer) Transfer(ctx context.Context, session *Session, chunks []Chunk, src io.ReaderAt) error {
	for _, c := range chunks {
		select {
		case <-ctx.Done():
			return fmt.Errorf("transfer canceled before chunk %d: %w", c.Index, ctx.Err())
		default:
		}

		if err := t.sendChunk(ctx, session, c, src); err != nil {
			return err
		}

		session.advance(c)
		log.Printf("chunk %d/%d acknowledged (bytes %d-%d)", c.Index+1, len(chunks), c.Start, c.End)
		if t.Progress != nil {
			t.Progress(c, len(chunks))
		}
	}
	return nil
}

func (t *Transferrer) sendChunk(ctx context.Context, session *Session, c Chunk, src io.ReaderAt) error {
	body := io.NewSectionReader(src, c.Start, c.Length)

	// The request context is detached from the job context: cancellation is
	// honored between chunks only, never by aborting a chunk mid-flight.
	req, err := http.NewRequestWithContext(context.WithoutCancel(ctx), http.MethodPost, session.UploadURL, body)
	if err != nil {
		return fmt.Errorf("build chunk %d request: %w", c.Index, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Content-Range", c.ContentRange(session.TotalSize))
	req.ContentLength = c.Length

	resp, err := t.Client.Do(req)
	if err != nil {
		return &types.TransientError{Err: fmt.Errorf("chunk %d: %w", c.Index, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &types.ChunkError{Index: c.Index, Status: resp.StatusCode, Body: string(respBody)}
	}

	// Drain so the connection can be reused for the next chunk.
	io.Copy(io.Discard, resp.Body)
	return nil
}
