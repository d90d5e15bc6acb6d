package config

import (
	"log"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var (
	DefaultSkills = []string{
		"python", "sql", "machine learning", "tableau",
		"excel", "communication", "java", "aws",
	}
	DefaultEducation = []string{
		"b.tech", "computer science", "mca", "bca", "data science", "m.tech",
	}
)

const DefaultCutoff = 65.0

type Config struct {
	Server  ServerConfig
	Profile ProfileConfig
	Mail    MailConfig
	Storage StorageConfig
	Worker  WorkerConfig
	Report  ReportConfig
	Log     LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type ProfileConfig struct {
	Skills    []string
	Education []string
	Cutoff    float64
}

type MailConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

type StorageConfig struct {
	MaxFileSize int64
	// MaxUploadSize bounds a whole multipart request. Zero means unlimited.
	MaxUploadSize int64
}

type WorkerConfig struct {
	Concurrency int
	QueueSize   int
}

type ReportConfig struct {
	Bucket string
	Prefix string
	Region string
}

type LogConfig struct {
	Debug bool
	JSON  bool
	Level string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the current environment only.
func FromEnv() *Config {
	username := getEnv("SMTP_USERNAME", "")

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Profile: ProfileConfig{
			Skills:    getEnvAsList("SCREEN_SKILLS", DefaultSkills),
			Education: getEnvAsList("SCREEN_EDUCATION", DefaultEducation),
			Cutoff:    getEnvAsFloat("SCREEN_CUTOFF", DefaultCutoff),
		},
		Mail: MailConfig{
			Enabled:  getEnvAsBool("EMAIL_ENABLED", false),
			Host:     getEnv("SMTP_HOST", "smtp.gmail.com"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: username,
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", username),
			Timeout:  getEnvAsDuration("SMTP_TIMEOUT", "30s"),
		},
		Storage: StorageConfig{
			MaxFileSize:   getEnvAsInt64("MAX_FILE_SIZE", 10485760),
			MaxUploadSize: getEnvAsInt64("MAX_UPLOAD_SIZE", 209715200),
		},
		Worker: WorkerConfig{
			Concurrency: getEnvAsInt("WORKER_CONCURRENCY", 1),
			QueueSize:   getEnvAsInt("WORKER_QUEUE_SIZE", 100),
		},
		Report: ReportConfig{
			Bucket: getEnv("REPORT_S3_BUCKET", ""),
			Prefix: getEnv("REPORT_S3_PREFIX", "reports"),
			Region: getEnv("AWS_REGION", ""),
		},
		Log: LogConfig{
			Debug: getEnvAsBool("LOG_DEBUG", false),
			JSON:  getEnvAsBool("LOG_JSON", false),
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

// getEnvAsList reads a comma separated list. Empty entries are dropped.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return append([]string(nil), defaultValue...)
	}
	return SplitList(valueStr)
}

// SplitList splits a comma separated list, trimming whitespace and dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// BodyLimit converts MaxUploadSize into a request body limit for the HTTP
// server, which treats zero as its own small default.
func (s StorageConfig) BodyLimit() int {
	if s.MaxUploadSize <= 0 || s.MaxUploadSize > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(s.MaxUploadSize)
}
