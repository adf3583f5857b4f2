package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr         string
	Capabilities Capabilities
	Audit        Audit
	RedisURL     string
}

// Capabilities configures the remote capability clients. Timeout and retry
// policy are deliberately explicit configuration, not hard-coded behavior.
type Capabilities struct {
	BaseURL       string
	CallTimeout   time.Duration
	RetryAttempts int
	MaxInFlight   int64

	// Overrides maps a capability name to a full endpoint URL, replacing the
	// BaseURL-derived one. Set via {NAME}_CAPABILITY_URL.
	Overrides map[string]string
}

// Names of the five capabilities, in pipeline order.
var CapabilityNames = []string{"sanctions", "coding", "eligibility", "policy", "regulatory"}

// Audit selects and configures the sanctions audit sink backend.
type Audit struct {
	Backend      string // memory | file | kafka | postgres
	FilePath     string
	KafkaBrokers []string
	KafkaTopic   string
	PostgresDSN  string
}

// HandleCacheTTL bounds retention of cached capability handles.
var HandleCacheTTL = 5 * time.Minute

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PRIORAUTH_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	baseURL := os.Getenv("CAPABILITY_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8100"
	}

	auditBackend := os.Getenv("AUDIT_BACKEND")
	if auditBackend == "" {
		auditBackend = "file"
	}
	auditPath := os.Getenv("AUDIT_FILE_PATH")
	if auditPath == "" {
		auditPath = "data/audit/sanctions_checks.jsonl"
	}
	auditTopic := os.Getenv("AUDIT_KAFKA_TOPIC")
	if auditTopic == "" {
		auditTopic = "priorauth.audit.sanctions"
	}

	var brokers []string
	if raw := os.Getenv("AUDIT_KAFKA_BROKERS"); raw != "" {
		for _, b := range strings.Split(raw, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
	}

	overrides := make(map[string]string)
	for _, name := range CapabilityNames {
		if url := os.Getenv(strings.ToUpper(name) + "_CAPABILITY_URL"); url != "" {
			overrides[name] = url
		}
	}

	return Server{
		Addr: addr,
		Capabilities: Capabilities{
			BaseURL:       baseURL,
			CallTimeout:   envDuration("CAPABILITY_CALL_TIMEOUT", 30*time.Second),
			RetryAttempts: envInt("CAPABILITY_RETRY_ATTEMPTS", 1),
			MaxInFlight:   int64(envInt("CAPABILITY_MAX_IN_FLIGHT", 32)),
			Overrides:     overrides,
		},
		Audit: Audit{
			Backend:      auditBackend,
			FilePath:     auditPath,
			KafkaBrokers: brokers,
			KafkaTopic:   auditTopic,
			PostgresDSN:  os.Getenv("AUDIT_POSTGRES_DSN"),
		},
		RedisURL: os.Getenv("REDIS_URL"),
	}
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return fallback
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
