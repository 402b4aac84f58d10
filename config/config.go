package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Env         string
	Server      Server
	Database    Database
	Judge0      Judge0
	AI          AI
	Auth        Auth
	Redis       Redis
	Leaderboard Leaderboard
}

type Server struct {
	Port string
}

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN builds the postgres connection string.
func (d Database) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type Judge0 struct {
	BaseURL        string
	APIKey         string
	RapidAPIHost   string
	Timeout        time.Duration
	MaxConcurrency int
	Retries        int
}

type AI struct {
	GeminiApiKey string
	Model        string
	Timeout      time.Duration
}

type Auth struct {
	JWTSecret string
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

type Leaderboard struct {
	CacheTTL       time.Duration
	WarmInterval   time.Duration
	TopLimit       int
	ChallengeLimit int
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("JUDGE0_TIMEOUT", "10s")
	viper.SetDefault("JUDGE0_MAX_CONCURRENCY", 4)
	viper.SetDefault("JUDGE0_RETRY", 1)
	viper.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	viper.SetDefault("AI_TIMEOUT", "20s")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("LEADERBOARD_CACHE_TTL", "60s")
	viper.SetDefault("LEADERBOARD_WARM_INTERVAL", "5m")
	viper.SetDefault("LEADERBOARD_TOP_LIMIT", 50)
	viper.SetDefault("LEADERBOARD_CHALLENGE_LIMIT", 10)
}

func NewConfig() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msg("Error reading config file")
	}

	var config Config

	config.Env = viper.GetString("APP_ENV")
	config.Server.Port = viper.GetString("SERVER_PORT")

	config.Database.Host = viper.GetString("DATABASE_HOST")
	config.Database.Port = viper.GetString("DATABASE_PORT")
	config.Database.User = viper.GetString("DATABASE_USER")
	config.Database.Password = viper.GetString("DATABASE_PASSWORD")
	config.Database.Name = viper.GetString("DATABASE_NAME")
	config.Database.SSLMode = viper.GetString("DATABASE_SSLMODE")

	config.Judge0.BaseURL = strings.TrimRight(viper.GetString("JUDGE0_BASE_URL"), "/")
	config.Judge0.APIKey = viper.GetString("JUDGE0_API_KEY")
	config.Judge0.RapidAPIHost = viper.GetString("JUDGE0_RAPIDAPI_HOST")
	config.Judge0.Timeout = viper.GetDuration("JUDGE0_TIMEOUT")
	config.Judge0.MaxConcurrency = viper.GetInt("JUDGE0_MAX_CONCURRENCY")
	config.Judge0.Retries = viper.GetInt("JUDGE0_RETRY")

	config.AI.GeminiApiKey = viper.GetString("GEMINI_API_KEY")
	config.AI.Model = viper.GetString("GEMINI_MODEL")
	config.AI.Timeout = viper.GetDuration("AI_TIMEOUT")

	config.Auth.JWTSecret = viper.GetString("AUTH_JWT_SECRET")

	config.Redis.Addr = viper.GetString("REDIS_ADDR")
	config.Redis.Password = viper.GetString("REDIS_PASSWORD")
	config.Redis.DB = viper.GetInt("REDIS_DB")

	config.Leaderboard.CacheTTL = viper.GetDuration("LEADERBOARD_CACHE_TTL")
	config.Leaderboard.WarmInterval = viper.GetDuration("LEADERBOARD_WARM_INTERVAL")
	config.Leaderboard.TopLimit = viper.GetInt("LEADERBOARD_TOP_LIMIT")
	config.Leaderboard.ChallengeLimit = viper.GetInt("LEADERBOARD_CHALLENGE_LIMIT")

	if err := config.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("env", config.Env).
		Str("port", config.Server.Port).
		Str("databaseHost", config.Database.Host).
		Str("judge0", config.Judge0.BaseURL).
		Bool("aiConfigured", config.AI.GeminiApiKey != "").
		Bool("redisConfigured", config.Redis.Addr != "").
		Msg("Config loaded")
	return &config, nil
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET is required"))
	}
	if c.Judge0.BaseURL == "" {
		errs = append(errs, errors.New("JUDGE0_BASE_URL is required"))
	}
	if c.Database.Host == "" || c.Database.Name == "" {
		errs = append(errs, errors.New("DATABASE_HOST and DATABASE_NAME are required"))
	}
	if c.Judge0.MaxConcurrency < 1 {
		errs = append(errs, errors.New("JUDGE0_MAX_CONCURRENCY must be at least 1"))
	}
	if c.Judge0.Retries < 0 {
		errs = append(errs, errors.New("JUDGE0_RETRY must not be negative"))
	}
	if c.Judge0.Timeout <= 0 || c.AI.Timeout <= 0 {
		errs = append(errs, errors.New("JUDGE0_TIMEOUT and AI_TIMEOUT must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
