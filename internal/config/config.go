package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Server   ServerConfig
	App      AppConfig
	Database DatabaseConfig
	Auth     AuthConfig
	AI       AIConfig
	CORS     CORSConfig
	Storage  StorageConfig
	Qdrant   QdrantConfig
	Indexer  IndexerConfig
	Events   EventsConfig
	Log      LogConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type AppConfig struct {
	Name    string
	Version string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type AIConfig struct {
	Provider          string
	GeminiAPIKey      string
	OpenAIAPIKey      string
	AnthropicAPIKey   string
	Model             string
	RequestsPerSecond float64
	MaxRetries        int
}

type CORSConfig struct {
	AllowOrigins string
}

type StorageConfig struct {
	Backend           string
	UploadPath        string
	MaxFileSize       int64
	AllowedExtensions []string
	S3                S3Config
}

type S3Config struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

// Enabled reports whether job recommendations are backed by a vector index.
func (q QdrantConfig) Enabled() bool {
	return q.URL != ""
}

type IndexerConfig struct {
	Concurrency    int
	ResyncSchedule string
}

type EventsConfig struct {
	RabbitMQURL string
	Exchange    string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		App: AppConfig{
			Name:    getEnv("APP_NAME", "SkillSync - AI Resume & Job Match Hub"),
			Version: getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "skillsync"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			TokenTTL:  time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		},
		AI: AIConfig{
			Provider:          strings.ToLower(getEnv("AI_PROVIDER", "gemini")),
			GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
			OpenAIAPIKey:      getEnv("OPENAI_API_KEY", ""),
			AnthropicAPIKey:   getEnv("ANTHROPIC_API_KEY", ""),
			Model:             getEnv("AI_MODEL", ""),
			RequestsPerSecond: getEnvAsFloat("AI_REQUESTS_PER_SECOND", 2),
			MaxRetries:        getEnvAsInt("AI_MAX_RETRIES", 2),
		},
		CORS: CORSConfig{
			AllowOrigins: getEnv("CORS_ORIGINS", "*"),
		},
		Storage: StorageConfig{
			Backend:           strings.ToLower(getEnv("STORAGE_BACKEND", "local")),
			UploadPath:        getEnv("UPLOAD_PATH", "./storage/uploads"),
			MaxFileSize:       getEnvAsInt64("MAX_FILE_SIZE", 10*1024*1024),
			AllowedExtensions: getEnvAsList("ALLOWED_FILE_EXTENSIONS", ".pdf,.docx,.txt"),
			S3: S3Config{
				Bucket:    getEnv("S3_BUCKET", ""),
				Endpoint:  getEnv("S3_ENDPOINT", ""),
				Region:    getEnv("S3_REGION", "auto"),
				AccessKey: getEnv("S3_ACCESS_KEY", ""),
				SecretKey: getEnv("S3_SECRET_KEY", ""),
			},
		},
		Qdrant: QdrantConfig{
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "skillsync_jobs"),
		},
		Indexer: IndexerConfig{
			Concurrency:    getEnvAsInt("INDEX_CONCURRENCY", 2),
			ResyncSchedule: getEnv("INDEX_RESYNC_SCHEDULE", "@every 30m"),
		},
		Events: EventsConfig{
			RabbitMQURL: getEnv("RABBITMQ_URL", ""),
			Exchange:    getEnv("EVENTS_EXCHANGE", "skillsync.analytics"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
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

// getEnvAsList splits a comma separated value; extensions are normalised to
// lower case with a leading dot.
func getEnvAsList(key string, defaultValue string) []string {
	var items []string
	for _, part := range strings.Split(getEnv(key, defaultValue), ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if !strings.HasPrefix(part, ".") {
			part = "." + part
		}
		items = append(items, part)
	}
	return items
}
