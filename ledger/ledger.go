// Package ledger tracks which files have already been published to which
// platform, keyed on the file's content digest, so rerunning a batch never
// double-posts.
package ledger

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config configures the Redis connection and key prefix.
type Config struct {
	Addr     string // e.g. localhost:6379
	Password string
	DB       int
	Prefix   string // key prefix, e.g. "published"
	TTL      time.Duration
}

// Ledger is a minimal Redis-backed published-content ledger.
type Ledger struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewFromEnv creates a Ledger using environment variables REDIS_ADDR,
// REDIS_PASS, REDIS_DB, LEDGER_PREFIX, LEDGER_TTL_SECONDS.
func NewFromEnv() (*Ledger, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	db := 0
	if d := os.Getenv("REDIS_DB"); d != "" {
		if v, err := strconv.Atoi(d); err == nil {
			db = v
		}
	}
	prefix := os.Getenv("LEDGER_PREFIX")
	if prefix == "" {
		prefix = "published"
	}
	ttl := 30 * 24 * time.Hour
	if t := os.Getenv("LEDGER_TTL_SECONDS"); t != "" {
		if secs, err := strconv.Atoi(t); err == nil && secs > 0 {
			ttl = time.Duration(secs) * time.Second
		}
	}

	return New(Config{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASS"),
		DB:       db,
		Prefix:   prefix,
		TTL:      ttl,
	})
}

// New creates a Ledger from explicit config.
func New(cfg Config) (*Ledger, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "published"
	}
	return &Ledger{client: client, prefix: prefix, ttl: cfg.TTL}, nil
}

// Ping verifies the Redis connection.
func (l *Ledger) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

// Close releases the Redis connection.
func (l *Ledger) Close() error {
	return l.client.Close()
}

func (l *Ledger) key(platform, digest string) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, platform, digest)
}

// Seen reports whether the digest was already published to platform.
func (l *Ledger) Seen(ctx context.Context, platform, digest string) (bool, error) {
	n, err := l.client.Exists(ctx, l.key(platform, digest)).Result()
	if err != nil {
		return false, fmt.Errorf("ledger exists: %w", err)
	}
	return n > 0, nil
}

// Record marks the digest as published to platform, storing the published
// content ID for later inspection.
func (l *Ledger) Record(ctx context.Context, platform, digest, publishedID string) error {
	if err := l.client.Set(ctx, l.key(platform, digest), publishedID, l.ttl).Err(); err != nil {
		return fmt.Errorf("ledger set: %w", err)
	}
	return nil
}

// FileDigest returns the hex SHA-256 of the file's content. The digest is
// what identifies a video across renames and re-runs.
func FileDigest(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Digest hashes raw bytes; used when the content is already in memory.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
