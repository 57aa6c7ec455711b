package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"clipcast/auth"
)

// Load reads .env if present. Missing files are fine; real environment
// variables win either way.
func Load() {
	_ = godotenv.Load()
}

// GetEnvOrDefault returns the environment value or a fallback.
func GetEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// ChunkSizeFromEnv returns the configured chunk size, defaulting to 4 MiB.
func ChunkSizeFromEnv() int64 {
	if v := os.Getenv("UPLOAD_CHUNK_SIZE"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return ChunkSize
}

// PlatformCredential builds a credential for one platform from environment
// variables named <PREFIX>_CLIENT_ID, <PREFIX>_CLIENT_SECRET,
// <PREFIX>_ACCESS_TOKEN, <PREFIX>_REFRESH_TOKEN, <PREFIX>_AUTH_CODE.
func PlatformCredential(prefix string) *auth.Credential {
	cred := auth.NewCredential(
		os.Getenv(prefix+"_CLIENT_ID"),
		os.Getenv(prefix+"_CLIENT_SECRET"),
		os.Getenv(prefix+"_ACCESS_TOKEN"),
		os.Getenv(prefix+"_REFRESH_TOKEN"),
		os.Getenv(prefix+"_AUTH_CODE"),
	)
	if v := os.Getenv(prefix + "_TOKEN_EXPIRY_UNIX"); v != "" {
		if secs, err := strconv.ParseInt(v, 10, 64); err == nil {
			cred.SetExpiry(time.Unix(secs, 0))
		}
	}
	return cred
}
