package cfg

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// ModelPath returns the classifier artifact path.
func (s *Settings) ModelPath() string {
	return filepath.Join(s.ModelDir, s.ModelFile)
}

// FeaturesPath returns the feature list artifact path.
func (s *Settings) FeaturesPath() string {
	return filepath.Join(s.ModelDir, s.FeaturesFile)
}

// DataPath returns the dataset path.
func (s *Settings) DataPath() string {
	return filepath.Join(s.ModelDir, s.DataFile)
}

// OriginAllowed reports whether a browser origin may open the live feed.
func (s *Settings) OriginAllowed(origin string) bool {
	if len(s.AllowedOrigins) == 0 || origin == "" {
		return true
	}
	for _, allowed := range s.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.ParseInt(v, 10, 64); err == nil {
			return i
		}
	}
	return defaultValue
}

func splitOrDefault(v string, def []string) []string {
	if v == "" {
		return def
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
