package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ignite/csv-dupcheck/internal/selection"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where the server looks for its config file.
const DefaultPath = "config/config.yaml"

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig       `yaml:"server"`
	CORS    CORSConfig         `yaml:"cors"`
	Session SessionConfig      `yaml:"session"`
	Upload  UploadConfig       `yaml:"upload"`
	Export  ExportConfig       `yaml:"export"`
	Presets []selection.Preset `yaml:"presets"`
	Log     LogConfig          `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port                int    `yaml:"port"`
	Host                string `yaml:"host"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// In a container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("KUBERNETES_SERVICE_HOST") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// ReadTimeout returns the configured read timeout as a duration
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the configured write timeout as a duration
func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSeconds) * time.Second
}

// CORSConfig lists the browser origins allowed to call the API
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// SessionConfig holds upload session storage settings. An empty RedisURL
// keeps sessions in process memory.
type SessionConfig struct {
	RedisURL   string `yaml:"redis_url"`
	TTLMinutes int    `yaml:"ttl_minutes"`
}

// TTL returns how long an upload session lives
func (c SessionConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// UploadConfig limits accepted uploads
type UploadConfig struct {
	MaxBytes int64 `yaml:"max_bytes"`
}

// ExportConfig holds CSV export settings. Archiving to S3 is enabled when
// S3Bucket is set.
type ExportConfig struct {
	Suffix     string `yaml:"suffix"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	S3Prefix   string `yaml:"s3_prefix"`
	AWSProfile string `yaml:"aws_profile"` // Empty string uses default credential chain
	AccessKey  string `yaml:"access_key"`
	SecretKey  string `yaml:"secret_key"`
}

// ArchiveEnabled reports whether exports can be archived to S3
func (c ExportConfig) ArchiveEnabled() bool {
	return c.S3Bucket != ""
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c ExportConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return "" // Use default credential chain (IAM role)
		}
		return envProfile
	}
	return c.AWSProfile
}

// LogConfig holds logging settings
type LogConfig struct {
	Level     string `yaml:"level"`
	RedactPII *bool  `yaml:"redact_pii"`
}

// Redact reports whether PII redaction is on (default true)
func (c LogConfig) Redact() bool {
	return c.RedactPII == nil || *c.RedactPII
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	// Generous to allow large uploads over slow links.
	if cfg.Server.ReadTimeoutSeconds == 0 {
		cfg.Server.ReadTimeoutSeconds = 120
	}
	if cfg.Server.WriteTimeoutSeconds == 0 {
		cfg.Server.WriteTimeoutSeconds = 120
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if cfg.Session.TTLMinutes == 0 {
		cfg.Session.TTLMinutes = 60
	}
	if cfg.Upload.MaxBytes == 0 {
		cfg.Upload.MaxBytes = 50 << 20 // 50MB
	}
	if cfg.Export.Suffix == "" {
		cfg.Export.Suffix = "duplicates"
	}
	if cfg.Export.S3Region == "" {
		cfg.Export.S3Region = "us-west-2"
	}
	if cfg.Export.S3Prefix == "" {
		cfg.Export.S3Prefix = "exports"
	}
	if len(cfg.Presets) == 0 {
		cfg.Presets = selection.DefaultPresets()
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "INFO"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars.
// A missing config file is not an error; defaults are used instead.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if os.IsNotExist(err) {
		cfg, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Session.RedisURL = v
	}
	if v := os.Getenv("SESSION_TTL_MINUTES"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			cfg.Session.TTLMinutes = ttl
		}
	}
	if v := os.Getenv("EXPORT_S3_BUCKET"); v != "" {
		cfg.Export.S3Bucket = v
	}
	if v := os.Getenv("EXPORT_S3_REGION"); v != "" {
		cfg.Export.S3Region = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		cfg.Export.AccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		cfg.Export.SecretKey = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			cfg.CORS.AllowedOrigins = origins
		}
	}

	return cfg, nil
}
