// Package tiktok talks to the TikTok open API's chunked video upload and
// publish endpoints.
package tiktok

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"clipcast/types"
	"clipcast/upload"
)

// Default endpoint bases. Overridable for tests and API version bumps.
const (
	DefaultTokenURL    = "https://open.tiktokapis.com/v2/oauth/token/"
	DefaultInitURL     = "https://open.tiktokapis.com/v2/post/publish/video/init/"
	DefaultFinalizeURL = "https://open.tiktokapis.com/v2/post/publish/video/finalize/"
)

// Client drives one TikTok upload: init a session, then finalize once the
// chunk transfer is complete.
type Client struct {
	InitURL     string
	FinalizeURL string
	HTTP        *http.Client
}

// NewClient creates a Client against the default endpoints. A nil client
// falls back to http.DefaultClient.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		InitURL:     DefaultInitURL,
		FinalizeURL: DefaultFinalizeURL,
		HTTP:        httpClient,
	}
}

type initRequest struct {
	SourceInfo struct {
		Source          string `json:"source"`
		VideoSize       int64  `json:"video_size"`
		ChunkSize       int64  `json:"chunk_size"`
		TotalChunkCount int    `json:"total_chunk_count"`
	} `json:"source_info"`
}

type initResponse struct {
	Data struct {
		VideoID   string `json:"video_id"`
		UploadURL string `json:"upload_url"`
	} `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// InitSession opens an upload session for a file of totalSize bytes split
// into chunkCount chunks of chunkSize. The returned session carries the
// server-issued video ID; finalize is keyed on that ID, not the upload URL.
func (c *Client) InitSession(ctx context.Context, accessToken string, totalSize, chunkSize int64, chunkCount int) (*upload.Session, error) {
	var reqBody initRequest
	reqBody.SourceInfo.Source = "FILE_UPLOAD"
	reqBody.SourceInfo.VideoSize = totalSize
	reqBody.SourceInfo.ChunkSize = chunkSize
	reqBody.SourceInfo.TotalChunkCount = chunkCount

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal init request: %w", err)
	}

	body, status, err := c.post(ctx, c.InitURL, accessToken, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		if status >= 500 {
			return nil, &types.TransientError{Err: fmt.Errorf("init returned %d: %s", status, body)}
		}
		return nil, fmt.Errorf("init returned %d: %s", status, body)
	}

	var resp initResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse init response: %w", err)
	}
	if resp.Data.UploadURL == "" || resp.Data.VideoID == "" {
		return nil, fmt.Errorf("init response missing upload_url or video_id: %s", body)
	}

	return &upload.Session{
		ID:        resp.Data.VideoID,
		UploadURL: resp.Data.UploadURL,
		TotalSize: totalSize,
		ChunkSize: chunkSize,
	}, nil
}

type finalizeRequest struct {
	VideoID  string `json:"video_id"`
	PostInfo struct {
		Title        string `json:"title"`
		Description  string `json:"description,omitempty"`
		PrivacyLevel string `json:"privacy_level"`
	} `json:"post_info"`
}

type finalizeResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
		ShareURL  string `json:"share_url"`
	} `json:"data"`
}

// Finalize publishes the fully transferred video. Must not be called before
// the transfer is complete; the workflow enforces that ordering. A rejected
// finalize is terminal and the uploaded bytes stay orphaned on the platform.
func (c *Client) Finalize(ctx context.Context, accessToken string, session *upload.Session, meta types.PublishMetadata) (*types.PublishResult, error) {
	var reqBody finalizeRequest
	reqBody.VideoID = session.ID
	reqBody.PostInfo.Title = meta.Title
	reqBody.PostInfo.Description = meta.Description
	reqBody.PostInfo.PrivacyLevel = privacyLevel(meta.Privacy)

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal finalize request: %w", err)
	}

	body, status, err := c.post(ctx, c.FinalizeURL, accessToken, payload)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &types.PublishError{Status: status, Body: string(body)}
	}

	var resp finalizeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse finalize response: %w", err)
	}
	if resp.Data.PublishID == "" {
		return nil, &types.PublishError{Status: status, Body: "finalize response missing publish_id"}
	}

	return &types.PublishResult{ID: resp.Data.PublishID, URL: resp.Data.ShareURL}, nil
}

func (c *Client) post(ctx context.Context, url, accessToken string, payload []byte) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, 0, &types.TransientError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &types.TransientError{Err: fmt.Errorf("read response: %w", err)}
	}
	return body, resp.StatusCode, nil
}

// privacyLevel maps the shared privacy enum onto TikTok's post_info values.
func privacyLevel(p types.Privacy) string {
	switch p {
	case types.PrivacyPublic:
		return "PUBLIC_TO_EVERYONE"
	case types.PrivacyUnlisted:
		return "FOLLOWER_OF_CREATOR"
	default:
		return "SELF_ONLY"
	}
}
