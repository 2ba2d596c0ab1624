package utils

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// SafeEnv returns the environment variable value for key, or fallback if empty.
func SafeEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// SafeEnvInt falls back when the value is empty or not an integer.
func SafeEnvInt(key string, fallback int) int {
	n, err := strconv.Atoi(SafeEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

// SafeEnvBool accepts the strconv.ParseBool spellings.
func SafeEnvBool(key string, fallback bool) bool {
	b, err := strconv.ParseBool(SafeEnv(key, ""))
	if err != nil {
		return fallback
	}
	return b
}

// SafeEnvDuration takes Go duration syntax ("20s", "1m").
func SafeEnvDuration(key string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(SafeEnv(key, ""))
	if err != nil {
		return fallback
	}
	return d
}
