package main

import (
	"context"
	"flag"
	"log"
	"os"

	"clipcast/api"
	"clipcast/auth"
	"clipcast/config"
	"clipcast/instagram"
	"clipcast/kafka"
	"clipcast/ledger"
	"clipcast/processor"
	"clipcast/storage"
	"clipcast/tiktok"
	"clipcast/video"
	"clipcast/youtube"
)

const (
	// DefaultAPIPort is the default port for the HTTP API server
	DefaultAPIPort = ":8081"
)

func main() {
	batchMode := flag.Bool("batch", false, "Run in batch mode (process job files from input/ directory)")
	kafkaMode := flag.Bool("kafka", false, "Run in Kafka consumer mode (consume publish jobs from a topic)")
	apiPort := flag.String("port", DefaultAPIPort, "API server port (e.g., :8081)")
	flag.Parse()

	config.Load()

	log.Println("clipcast publish service starting")

	proc := buildProcessor()

	if *batchMode {
		log.Println("running in BATCH mode")
		if err := proc.ProcessFromDirectory(context.Background(), config.InputDir); err != nil {
			log.Fatalf("batch processing failed: %v", err)
		}
		os.Exit(0)
	}

	if *kafkaMode {
		log.Println("running in KAFKA consumer mode")

		cfg := kafka.JobConsumerConfig{
			Brokers:   kafka.Brokers(),
			Topic:     kafka.Topic(),
			GroupID:   kafka.GroupID(),
			Processor: proc,
		}
		log.Printf("brokers: %v topic: %s group: %s", cfg.Brokers, cfg.Topic, cfg.GroupID)

		if err := kafka.RunJobConsumer(cfg); err != nil {
			log.Fatalf("kafka consumer failed: %v", err)
		}
		os.Exit(0)
	}

	log.Println("running in API mode")

	server := api.NewServer(proc)
	if spec := os.Getenv("BATCH_CRON"); spec != "" {
		if err := server.ScheduleBatch(spec, config.InputDir); err != nil {
			log.Fatalf("failed to schedule batch sweep: %v", err)
		}
		defer server.StopSchedule()
	}

	router := server.Router()
	log.Printf("API server listening on %s", *apiPort)
	log.Println("endpoints:")
	log.Println("   POST /api/jobs               - start a publish job")
	log.Println("   GET  /api/jobs/:uuid/status  - job status")
	log.Println("   GET  /health                 - health check")

	if err := router.Run(*apiPort); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

// buildProcessor wires clients from the environment. Any platform without
// credentials is simply left unconfigured; jobs for it fail cleanly.
func buildProcessor() *processor.Processor {
	ctx := context.Background()

	var (
		tiktokFlow   *auth.Flow
		tiktokCred   *auth.Credential
		tiktokClient *tiktok.Client
	)
	if os.Getenv("TIKTOK_CLIENT_ID") != "" {
		tokenURL := config.GetEnvOrDefault("TIKTOK_TOKEN_URL", tiktok.DefaultTokenURL)
		tiktokFlow = auth.NewFlow(tokenURL, nil)
		tiktokCred = config.PlatformCredential("TIKTOK")
		tiktokClient = tiktok.NewClient(nil)
		log.Println("tiktok client configured")
	}

	var ytUploader *youtube.Uploader
	if os.Getenv("YOUTUBE_CLIENT_ID") != "" {
		var err error
		ytUploader, err = youtube.NewUploader(ctx,
			os.Getenv("YOUTUBE_CLIENT_ID"),
			os.Getenv("YOUTUBE_CLIENT_SECRET"),
			os.Getenv("YOUTUBE_REFRESH_TOKEN"))
		if err != nil {
			log.Printf("youtube uploader not initialized: %v", err)
		} else {
			log.Println("youtube client configured")
		}
	}

	var (
		igCred   *auth.Credential
		igClient *instagram.Client
	)
	if os.Getenv("INSTAGRAM_USER_ID") != "" {
		igCred = config.PlatformCredential("INSTAGRAM")
		igClient = instagram.NewClient(os.Getenv("INSTAGRAM_USER_ID"), nil)
		log.Println("instagram client configured")
	}

	opts := processor.Options{
		OutDir:         config.OutputDir,
		ConfirmFeedURL: os.Getenv("CONFIRM_FEED_URL"),
	}

	if os.Getenv("REDIS_ADDR") != "" {
		led, err := ledger.NewFromEnv()
		if err != nil {
			log.Printf("ledger not initialized: %v", err)
		} else if err := led.Ping(ctx); err != nil {
			log.Printf("ledger unreachable, running without dedup: %v", err)
		} else {
			opts.Ledger = led
			log.Println("publish ledger configured")
		}
	}

	if bucket := os.Getenv("ARCHIVE_BUCKET"); bucket != "" {
		archive, err := storage.NewArchive(ctx, storage.ArchiveConfig{
			Bucket:       bucket,
			Region:       os.Getenv("ARCHIVE_REGION"),
			UsePathStyle: os.Getenv("ARCHIVE_PATH_STYLE") == "true",
		})
		if err != nil {
			log.Printf("archive not initialized: %v", err)
		} else {
			opts.Archive = archive
			log.Println("archive configured")
		}
	}

	if logo := os.Getenv("BRAND_LOGO"); logo != "" {
		opts.Brand = &video.BrandSpec{
			Logo:   &video.Logo{Path: logo, XPosition: "c", YOffsetPercent: 5},
			TopBar: &video.Bar{HeightPercent: 8, Opacity: 0.7},
		}
		log.Println("branding pass enabled")
	}

	return processor.New(
		tiktokFlow, tiktokCred, tiktokClient, config.ChunkSizeFromEnv(),
		ytUploader,
		igCred, igClient,
		opts,
	)
}
