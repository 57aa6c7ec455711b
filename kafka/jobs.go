package kafka

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"clipcast/types"
)

// JobProcessor runs one publish job end to end.
type JobProcessor interface {
	ProcessJob(ctx context.Context, job types.PublishJob) error
}

// JobConsumerConfig wires the consumer to a job processor.
type JobConsumerConfig struct {
	Brokers   []string
	Topic     string
	GroupID   string
	Processor JobProcessor
}

// NewJobConsumer creates a consumer that decodes PublishJob messages and
// hands them to the processor. Processing failures leave the message
// unmarked so the job is retried on redelivery.
func NewJobConsumer(cfg JobConsumerConfig) (*Consumer, error) {
	handler := &TypedMessageHandler[types.PublishJob]{
		Validate: func(job *types.PublishJob) bool {
			if job.UUID == "" {
				log.Printf("job missing uuid, skipping")
				return false
			}
			if job.FilePath == "" || job.Platform == "" {
				log.Printf("job %s missing file_path or platform, skipping", job.UUID)
				return false
			}
			return true
		},
		Process: func(ctx context.Context, job *types.PublishJob) error {
			log.Printf("processing publish job %s (%s -> %s)", job.UUID, job.FilePath, job.Platform)
			if err := cfg.Processor.ProcessJob(ctx, *job); err != nil {
				log.Printf("job %s failed: %v", job.UUID, err)
				return err
			}
			log.Printf("job %s published", job.UUID)
			return nil
		},
		AlwaysMark: true, // mark validation failures, not processing failures
	}

	return NewConsumer(ConsumerConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
		Handler: handler,
	})
}

// RunJobConsumer starts the consumer and blocks until SIGINT/SIGTERM.
func RunJobConsumer(cfg JobConsumerConfig) error {
	consumer, err := NewJobConsumer(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := consumer.Start(ctx); err != nil {
		return err
	}

	sigterm := make(chan os.Signal, 1)
	signal.Notify(sigterm, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigterm:
		log.Println("received termination signal")
	case <-ctx.Done():
	}
	cancel()

	// Give in-flight jobs a moment to finish their current chunk.
	time.Sleep(2 * time.Second)
	return consumer.Close()
}

// Brokers parses the broker list from KAFKA_BOOTSTRAP_SERVERS.
func Brokers() []string {
	brokers := os.Getenv("KAFKA_BOOTSTRAP_SERVERS")
	if brokers == "" {
		brokers = "localhost:9093"
	}
	return strings.Split(brokers, ",")
}

// Topic returns the publish-job topic name.
func Topic() string {
	topic := os.Getenv("KAFKA_TOPIC_PUBLISH_JOBS")
	if topic == "" {
		topic = "publish-jobs"
	}
	return topic
}

// GroupID returns the consumer group ID.
func GroupID() string {
	groupID := os.Getenv("KAFKA_CONSUMER_GROUP_ID")
	if groupID == "" {
		groupID = "clipcast-consumer-group"
	}
	return groupID
}
