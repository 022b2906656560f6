package env

import (
	"os"
	"time"
)

const (
	ListenAddr        = "CHAT_LISTEN_ADDR"
	StaticDir         = "CHAT_STATIC_DIR"
	WebURL            = "CHAT_WEB_URL"
	HeartbeatInterval = "CHAT_HB_INTERVAL"
	HeartbeatTimeout  = "CHAT_HB_TIMEOUT"
)

func Get(key string) string {
	return os.Getenv(key)
}

func GetOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// GetDuration parses key as a time.Duration, falling back to defaultVal
// when unset or malformed.
func GetDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}
	return d
}
