// Package youtube uploads videos through the YouTube Data API. Chunking and
// resumability are handled by the SDK's media uploader; this package only
// shapes metadata and credentials.
package youtube

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"clipcast/auth"
	"clipcast/config"
	"clipcast/types"
)

var ErrUnknownStatus = errors.New("unknown video status")

// Upload status constants.
const (
	UploadStatusUploaded  = "uploaded"
	UploadStatusProcessed = "processed"
	UploadStatusFailed    = "failed"
	UploadStatusRejected  = "rejected"
	UploadStatusDeleted   = "deleted"
)

// Uploader wraps the YouTube service for video inserts.
type Uploader struct {
	service *yt.Service
}

// NewUploader builds an Uploader from an OAuth client identity and a stored
// refresh token. Token refreshes flow through the notifying source so the
// caller can persist rotated tokens.
func NewUploader(ctx context.Context, clientID, clientSecret, refreshToken string) (*Uploader, error) {
	cfg := auth.GoogleConfig(clientID, clientSecret, "", yt.YoutubeUploadScope)
	src := auth.NewNotifyingTokenSource(ctx, cfg, &oauth2.Token{RefreshToken: refreshToken}, nil)
	client := oauth2.NewClient(ctx, src)

	service, err := yt.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	return &Uploader{service: service}, nil
}

// NewUploaderWithClient builds an Uploader over a pre-authorized HTTP
// client. Used by tests and by callers that manage their own token source.
func NewUploaderWithClient(ctx context.Context, client *http.Client) (*Uploader, error) {
	service, err := yt.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create YouTube service: %w", err)
	}
	return &Uploader{service: service}, nil
}

// UploadVideo uploads the file at videoPath and returns the published
// result. The insert call streams the whole file; the SDK performs the
// chunked resumable transfer under the hood.
func (u *Uploader) UploadVideo(ctx context.Context, videoPath string, meta types.PublishMetadata) (*types.PublishResult, error) {
	file, err := os.Open(videoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open video file: %w", err)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat video file: %w", err)
	}
	if fileInfo.Size() == 0 {
		return nil, &types.InvalidInputError{Reason: "empty file"}
	}

	log.Printf("Uploading %s (%.2f MB) to YouTube", videoPath, float64(fileInfo.Size())/(1024*1024))

	video, err := buildVideo(meta)
	if err != nil {
		return nil, err
	}

	call := u.service.Videos.Insert([]string{"snippet", "status"}, video).
		Media(file).
		Context(ctx)

	response, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to upload video: %w", err)
	}

	return &types.PublishResult{
		ID:  response.Id,
		URL: "https://youtube.com/watch?v=" + response.Id,
	}, nil
}

// CheckUploadStatus queries the processing status of an uploaded video.
func (u *Uploader) CheckUploadStatus(ctx context.Context, videoID string) (string, error) {
	resp, err := u.service.Videos.List([]string{"status"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to get video status: %w", err)
	}
	if len(resp.Items) == 0 {
		return "", fmt.Errorf("video %s not found", videoID)
	}

	switch s := resp.Items[0].Status.UploadStatus; s {
	case UploadStatusUploaded, UploadStatusProcessed, UploadStatusFailed, UploadStatusRejected, UploadStatusDeleted:
		return s, nil
	default:
		return "", ErrUnknownStatus
	}
}

// buildVideo maps shared publish metadata onto the API's video resource.
func buildVideo(meta types.PublishMetadata) (*yt.Video, error) {
	if meta.Title == "" {
		return nil, &types.InvalidInputError{Reason: "title required"}
	}
	privacy := meta.Privacy
	if privacy == "" {
		privacy = types.PrivacyUnlisted
	}
	if !types.ValidPrivacy(privacy) {
		return nil, &types.InvalidInputError{Reason: fmt.Sprintf("privacy %q", meta.Privacy)}
	}

	category := meta.CategoryID
	if category == "" {
		category = config.DefaultCategoryID
	}
	if sanitiseCategory(category) == "" {
		return nil, &types.InvalidInputError{Reason: fmt.Sprintf("category %q", meta.CategoryID)}
	}

	tags := meta.Tags
	if len(tags) == 0 {
		// The API returns 400 Bad Request if tags is an empty string.
		tags = []string{"clipcast uploads"}
	}

	return &yt.Video{
		Snippet: &yt.VideoSnippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        tags,
			CategoryId:  sanitiseCategory(category),
		},
		Status: &yt.VideoStatus{
			PrivacyStatus:           string(privacy),
			SelfDeclaredMadeForKids: false,
		},
	}, nil
}

// sanitiseCategory accepts a category ID or name and returns the ID, or ""
// when unknown.
func sanitiseCategory(cat string) string {
	categories := map[string]string{
		"1":  "Film & Animation",
		"2":  "Autos & Vehicles",
		"10": "Music",
		"15": "Pets & Animals",
		"17": "Sports",
		"19": "Travel & Events",
		"20": "Gaming",
		"22": "People & Blogs",
		"23": "Comedy",
		"24": "Entertainment",
		"25": "News & Politics",
		"26": "Howto & Style",
		"27": "Education",
		"28": "Science & Technology",
		"29": "Nonprofits & Activism",
	}
	for id, name := range categories {
		if id == cat || name == cat {
			return id
		}
	}
	return ""
}
