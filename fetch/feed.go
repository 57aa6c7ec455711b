// Package fetch reads a YouTube channel's upload feed, used to list recent
// uploads and to confirm that a just-published video shows up publicly.
package fetch

import (
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// ChannelFeedURL builds the public upload-feed URL for a channel ID.
func ChannelFeedURL(channelID string) string {
	return "https://www.youtube.com/feeds/videos.xml?channel_id=" + channelID
}

// Upload is one entry of a channel's upload feed.
type Upload struct {
	VideoID     string    `json:"video_id"`
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// RecentUploads retrieves and parses the channel's feed, returning at most
// maxCount of the newest uploads.
func RecentUploads(feedURL string, maxCount int) ([]*Upload, error) {
	parser := gofeed.NewParser()
	feed, err := parser.ParseURL(feedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}

	count := len(feed.Items)
	if maxCount > 0 && count > maxCount {
		count = maxCount
	}

	uploads := make([]*Upload, 0, count)
	for i := 0; i < count; i++ {
		item := feed.Items[i]

		var publishedAt time.Time
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			publishedAt = *item.UpdatedParsed
		}

		uploads = append(uploads, &Upload{
			VideoID:     videoIDFromGUID(item.GUID, item.Link),
			Title:       item.Title,
			URL:         item.Link,
			PublishedAt: publishedAt,
			FetchedAt:   time.Now(),
		})
	}
	return uploads, nil
}

// ConfirmPublished reports whether videoID appears in the channel's feed.
// The feed lags publication by a little, so absence is not proof of failure.
func ConfirmPublished(feedURL, videoID string) (bool, error) {
	uploads, err := RecentUploads(feedURL, 0)
	if err != nil {
		return false, err
	}
	for _, u := range uploads {
		if u.VideoID == videoID {
			return true, nil
		}
	}
	return false, nil
}

// videoIDFromGUID extracts the video ID from a feed entry. YouTube GUIDs
// look like "yt:video:<id>"; fall back to the watch URL's v parameter.
func videoIDFromGUID(guid, link string) string {
	if rest, ok := strings.CutPrefix(guid, "yt:video:"); ok {
		return rest
	}
	if _, after, ok := strings.Cut(link, "v="); ok {
		if id, _, found := strings.Cut(after, "&"); found {
			return id
		}
		return after
	}
	return guid
}
