package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"clipcast/auth"
	"clipcast/config"
	"clipcast/processor"
	"clipcast/tiktok"
	"clipcast/types"
	"clipcast/youtube"
)

func main() {
	videoPath := flag.String("video", "", "Path to the MP4 file to publish")
	platform := flag.String("platform", "tiktok", "Target platform: tiktok or youtube")
	title := flag.String("title", "", "Title for the video (defaults to filename)")
	description := flag.String("description", "", "Description to use (optional)")
	tagsFlag := flag.String("tags", "", "Comma-separated list of tags")
	privacy := flag.String("privacy", "private", "Visibility: public, private, or unlisted")
	categoryID := flag.String("category-id", config.DefaultCategoryID, "YouTube category ID")

	flag.Parse()
	config.Load()

	if *videoPath == "" {
		flag.Usage()
		log.Fatal("--video is required")
	}
	if err := ensureFileExists(*videoPath); err != nil {
		log.Fatalf("invalid video path: %v", err)
	}
	if !types.ValidPrivacy(types.Privacy(*privacy)) {
		log.Fatalf("invalid privacy %q", *privacy)
	}

	titleVal := strings.TrimSpace(*title)
	if titleVal == "" {
		filename := filepath.Base(*videoPath)
		titleVal = strings.TrimSuffix(filename, filepath.Ext(filename))
	}
	if len(titleVal) > config.MaxTitleLength {
		titleVal = titleVal[:config.MaxTitleLength-3] + "..."
	}

	job := types.PublishJob{
		UUID:     uuid.New().String(),
		Platform: *platform,
		FilePath: *videoPath,
		Metadata: types.PublishMetadata{
			Title:       titleVal,
			Description: strings.TrimSpace(*description),
			Tags:        parseTags(*tagsFlag),
			Privacy:     types.Privacy(*privacy),
			CategoryID:  *categoryID,
		},
	}

	proc, err := buildProcessor(*platform)
	if err != nil {
		log.Fatalf("failed to initialize %s client: %v", *platform, err)
	}

	if err := proc.ProcessJob(context.Background(), job); err != nil {
		log.Fatalf("publish failed: %v", err)
	}

	status, _ := proc.Status(job.UUID)
	if status.Result != nil {
		log.Printf("published successfully! id=%s url=%s", status.Result.ID, status.Result.URL)
	}
}

func buildProcessor(platform string) (*processor.Processor, error) {
	ctx := context.Background()

	switch platform {
	case processor.PlatformTikTok:
		if os.Getenv("TIKTOK_CLIENT_ID") == "" {
			return nil, fmt.Errorf("TIKTOK_CLIENT_ID not set")
		}
		tokenURL := config.GetEnvOrDefault("TIKTOK_TOKEN_URL", tiktok.DefaultTokenURL)
		return processor.New(
			auth.NewFlow(tokenURL, nil),
			config.PlatformCredential("TIKTOK"),
			tiktok.NewClient(nil),
			config.ChunkSizeFromEnv(),
			nil, nil, nil,
			processor.Options{},
		), nil

	case processor.PlatformYouTube:
		uploader, err := youtube.NewUploader(ctx,
			os.Getenv("YOUTUBE_CLIENT_ID"),
			os.Getenv("YOUTUBE_CLIENT_SECRET"),
			os.Getenv("YOUTUBE_REFRESH_TOKEN"))
		if err != nil {
			return nil, err
		}
		return processor.New(nil, nil, nil, 0, uploader, nil, nil, processor.Options{}), nil

	default:
		return nil, fmt.Errorf("unsupported platform %q", platform)
	}
}

func ensureFileExists(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("path is a directory, expected file: %s", path)
	}
	return nil
}

func parseTags(raw string) []string {
	split := strings.Split(raw, ",")
	var tags []string
	for _, tag := range split {
		clean := strings.TrimSpace(tag)
		if clean != "" {
			tags = append(tags, clean)
		}
	}
	return tags
}
