// Package instagram publishes videos through the Instagram Graph API:
// create a media container, wait for processing, then publish it.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clipcast/types"
)

// DefaultBaseURL is the Graph API root. Overridable for tests.
const DefaultBaseURL = "https://graph.facebook.com/v21.0"

const (
	containerReady      = "FINISHED"
	containerErrored    = "ERROR"
	defaultPollInterval = 5 * time.Second
	defaultPollTimeout  = 5 * time.Minute
)

// Client publishes reels for one Instagram business account.
type Client struct {
	BaseURL      string
	UserID       string
	HTTP         *http.Client
	PollInterval time.Duration
	PollTimeout  time.Duration
}

// NewClient creates a client for the given IG user. A nil httpClient falls
// back to http.DefaultClient.
func NewClient(userID string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		BaseURL:      DefaultBaseURL,
		UserID:       userID,
		HTTP:         httpClient,
		PollInterval: defaultPollInterval,
		PollTimeout:  defaultPollTimeout,
	}
}

// Publish creates a container for the hosted video at videoURL, waits until
// the platform finishes processing it, and publishes it. The video must
// already be reachable over HTTPS; the Graph API pulls it server-side.
func (c *Client) Publish(ctx context.Context, accessToken, videoURL string, meta types.PublishMetadata) (*types.PublishResult, error) {
	containerID, err := c.createContainer(ctx, accessToken, videoURL, meta)
	if err != nil {
		return nil, err
	}
	log.Printf("container %s created, waiting for processing", containerID)

	if err := c.waitForContainer(ctx, accessToken, containerID); err != nil {
		return nil, err
	}

	return c.publishContainer(ctx, accessToken, containerID)
}

func (c *Client) createContainer(ctx context.Context, accessToken, videoURL string, meta types.PublishMetadata) (string, error) {
	form := url.Values{
		"media_type":   {"REELS"},
		"video_url":    {videoURL},
		"caption":      {caption(meta)},
		"access_token": {accessToken},
	}

	body, status, err := c.postForm(ctx, fmt.Sprintf("%s/%s/media", c.BaseURL, c.UserID), form)
	if err != nil {
		return "", err
	}
	if status < 200 || status >= 300 {
		return "", &types.PublishError{Status: status, Body: string(body)}
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("parse container response: %w", err)
	}
	if resp.ID == "" {
		return "", &types.PublishError{Status: status, Body: "container response missing id"}
	}
	return resp.ID, nil
}

// waitForContainer polls the container's status_code until FINISHED. The
// Graph API processes the pulled video asynchronously; publishing before
// FINISHED is rejected.
func (c *Client) waitForContainer(ctx context.Context, accessToken, containerID string) error {
	deadline := time.Now().Add(c.PollTimeout)
	for {
		status, err := c.containerStatus(ctx, accessToken, containerID)
		if err != nil {
			return err
		}
		switch status {
		case containerReady:
			return nil
		case containerErrored:
			return &types.PublishError{Status: http.StatusUnprocessableEntity, Body: "container processing failed"}
		}

		if time.Now().After(deadline) {
			return &types.TransientError{Err: fmt.Errorf("container %s not ready after %s", containerID, c.PollTimeout)}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.PollInterval):
		}
	}
}

func (c *Client) containerStatus(ctx context.Context, accessToken, containerID string) (string, error) {
	u := fmt.Sprintf("%s/%s?fields=status_code&access_token=%s", c.BaseURL, containerID, url.QueryEscape(accessToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return "", &types.TransientError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &types.PublishError{Status: resp.StatusCode, Body: string(body)}
	}

	var out struct {
		StatusCode string `json:"status_code"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("parse status response: %w", err)
	}
	return out.StatusCode, nil
}

func (c *Client) publishContainer(ctx context.Context, accessToken, containerID string) (*types.PublishResult, error) {
	form := url.Values{
		"creation_id":  {containerID},
		"access_token": {accessToken},
	}

	body, status, err := c.postForm(ctx, fmt.Sprintf("%s/%s/media_publish", c.BaseURL, c.UserID), form)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, &types.PublishError{Status: status, Body: string(body)}
	}

	var resp struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse publish response: %w", err)
	}
	if resp.ID == "" {
		return nil, &types.PublishError{Status: status, Body: "publish response missing id"}
	}
	return &types.PublishResult{ID: resp.ID}, nil
}

func (c *Client) postForm(ctx context.Context, u string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

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

// Media is one published item of the account's media list.
type Media struct {
	ID        string `json:"id"`
	Caption   string `json:"caption,omitempty"`
	Permalink string `json:"permalink,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// RecentMedia lists the account's most recently published media, newest
// first. maxCount of 0 leaves the page size to the API.
func (c *Client) RecentMedia(ctx context.Context, accessToken string, maxCount int) ([]Media, error) {
	u := fmt.Sprintf("%s/%s/media?fields=id,caption,permalink,timestamp&access_token=%s",
		c.BaseURL, c.UserID, url.QueryEscape(accessToken))
	if maxCount > 0 {
		u += fmt.Sprintf("&limit=%d", maxCount)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, &types.TransientError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &types.PublishError{Status: resp.StatusCode, Body: string(body)}
	}

	var out struct {
		Data []Media `json:"data"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("parse media list: %w", err)
	}
	return out.Data, nil
}

// ConfirmPublished reports whether mediaID appears in the account's recent
// media. Like the channel feed, the list can lag a fresh publish.
func (c *Client) ConfirmPublished(ctx context.Context, accessToken, mediaID string) (bool, error) {
	media, err := c.RecentMedia(ctx, accessToken, 0)
	if err != nil {
		return false, err
	}
	for _, m := range media {
		if m.ID == mediaID {
			return true, nil
		}
	}
	return false, nil
}

// caption joins title and hashtags the way the Graph API expects a single
// caption string.
func caption(meta types.PublishMetadata) string {
	parts := []string{meta.Title}
	if meta.Description != "" {
		parts = append(parts, meta.Description)
	}
	if len(meta.Tags) > 0 {
		tags := make([]string, 0, len(meta.Tags))
		for _, t := range meta.Tags {
			tags = append(tags, "#"+strings.ReplaceAll(t, " ", ""))
		}
		parts = append(parts, strings.Join(tags, " "))
	}
	return strings.Join(parts, "\n\n")
}
