package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	AppEnv string
	Port   string

	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBAutoMigrate bool

	RedisAddr string

	KafkaBroker      string
	KafkaGroupPrefix string
	OutboxPollEvery  time.Duration
	OutboxBatchSize  int
	OutboxMaxRetries int
	DispatchAttempts int
	DispatchBackoff  time.Duration

	JWTSecret  string
	CronSecret string

	AppURL     string
	MailFrom   string
	AWSRegion  string
	SESEnabled bool

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads .env (when present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "leave")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("KAFKA_GROUP_PREFIX", "leave-system")
	v.SetDefault("OUTBOX_POLL_INTERVAL", "3s")
	v.SetDefault("OUTBOX_BATCH_SIZE", 50)
	v.SetDefault("OUTBOX_MAX_RETRIES", 20)
	v.SetDefault("DISPATCH_ATTEMPTS", 5)
	v.SetDefault("DISPATCH_BACKOFF", "2s")
	v.SetDefault("APP_URL", "http://localhost:3000")
	v.SetDefault("MAIL_FROM", "no-reply@localhost")
	v.SetDefault("AWS_REGION", "eu-central-1")
	v.SetDefault("SES_ENABLED", false)
	v.SetDefault("RATE_LIMIT_PER_SECOND", 10)
	v.SetDefault("RATE_LIMIT_BURST", 20)

	return &Config{
		AppEnv: v.GetString("APP_ENV"),
		Port:   v.GetString("PORT"),

		DBHost:        v.GetString("DB_HOST"),
		DBPort:        v.GetString("DB_PORT"),
		DBUser:        v.GetString("DB_USER"),
		DBPassword:    v.GetString("DB_PASSWORD"),
		DBName:        v.GetString("DB_NAME"),
		DBSSLMode:     v.GetString("DB_SSLMODE"),
		DBAutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),

		RedisAddr: v.GetString("REDIS_ADDR"),

		KafkaBroker:      v.GetString("KAFKA_BROKER"),
		KafkaGroupPrefix: v.GetString("KAFKA_GROUP_PREFIX"),
		OutboxPollEvery:  v.GetDuration("OUTBOX_POLL_INTERVAL"),
		OutboxBatchSize:  v.GetInt("OUTBOX_BATCH_SIZE"),
		OutboxMaxRetries: v.GetInt("OUTBOX_MAX_RETRIES"),
		DispatchAttempts: v.GetInt("DISPATCH_ATTEMPTS"),
		DispatchBackoff:  v.GetDuration("DISPATCH_BACKOFF"),

		JWTSecret:  v.GetString("JWT_SECRET"),
		CronSecret: v.GetString("CRON_SECRET"),

		AppURL:     v.GetString("APP_URL"),
		MailFrom:   v.GetString("MAIL_FROM"),
		AWSRegion:  v.GetString("AWS_REGION"),
		SESEnabled: v.GetBool("SES_ENABLED"),

		RateLimitPerSecond: v.GetFloat64("RATE_LIMIT_PER_SECOND"),
		RateLimitBurst:     v.GetInt("RATE_LIMIT_BURST"),
	}, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}
