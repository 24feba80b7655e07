package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BrokerRedis = "redis"
	BrokerNATS  = "nats"
)

type Config struct {
	// Server
	Port     string
	Env      string
	LogLevel string

	// Database
	DatabaseURL string

	// Redis
	RedisURL string

	// JWT
	JWTSecret     string
	JWTExpiration time.Duration

	// CORS
	CORSAllowedOrigins []string

	// Judge dispatch
	JudgeBroker          string
	NATSURL              string
	JudgeSubject         string
	JudgeQueueName       string
	JudgeQueueMaxSize    int
	JudgeDispatchTimeout time.Duration
	QueueLengthKey       string

	// Submission
	SubmissionRateLimit  int
	SubmissionRateWindow time.Duration
	MaxCodeLength        int
}

// Load .env → config.yaml(선택) → 환경변수 순으로 설정 로드
func Load() (*Config, error) {
	// .env 파일 로드 (있는 경우)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		Port:                 v.GetString("port"),
		Env:                  v.GetString("env"),
		LogLevel:             v.GetString("log_level"),
		DatabaseURL:          v.GetString("database_url"),
		RedisURL:             v.GetString("redis_url"),
		JWTSecret:            v.GetString("jwt_secret"),
		JWTExpiration:        v.GetDuration("jwt_expiration"),
		CORSAllowedOrigins:   splitList(v.GetString("cors_allowed_origins")),
		JudgeBroker:          strings.ToLower(v.GetString("judge_broker")),
		NATSURL:              v.GetString("nats_url"),
		JudgeSubject:         v.GetString("judge_subject"),
		JudgeQueueName:       v.GetString("judge_queue_name"),
		JudgeQueueMaxSize:    v.GetInt("judge_queue_max_size"),
		JudgeDispatchTimeout: v.GetDuration("judge_dispatch_timeout"),
		QueueLengthKey:       v.GetString("queue_length_key"),
		SubmissionRateLimit:  v.GetInt("submission_rate_limit"),
		SubmissionRateWindow: v.GetDuration("submission_rate_window"),
		MaxCodeLength:        v.GetInt("max_code_length"),
	}

	if cfg.JudgeBroker != BrokerRedis && cfg.JudgeBroker != BrokerNATS {
		return nil, errors.New("JUDGE_BROKER must be redis or nats")
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("database_url", "")
	v.SetDefault("redis_url", "redis://localhost:6379")
	v.SetDefault("jwt_secret", "your-secret-key")
	v.SetDefault("jwt_expiration", "24h")
	v.SetDefault("cors_allowed_origins", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("judge_broker", BrokerRedis)
	v.SetDefault("nats_url", "nats://localhost:4222")
	v.SetDefault("judge_subject", "judge.task")
	v.SetDefault("judge_queue_name", "judge")
	v.SetDefault("judge_queue_max_size", 0)
	v.SetDefault("judge_dispatch_timeout", "5s")
	v.SetDefault("queue_length_key", "judge_queue_length")
	v.SetDefault("submission_rate_limit", 10)
	v.SetDefault("submission_rate_window", "1m")
	v.SetDefault("max_code_length", 65536)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
