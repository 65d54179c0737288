package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	defaultTokenTTL       = 7 * 24 * time.Hour
	defaultMaxUploadBytes = int64(200 << 20)
	defaultRatePerMinute  = 120
)

type (
	APP struct {
		Name               string
		Host               string
		Port               string        `validate:"required,numeric"`
		Env                string
		JWTSecret          string        `validate:"required"`
		TokenTTL           time.Duration `validate:"gt=0"`
		AdminEmail         string        `validate:"omitempty,email"`
		CookieSecure       bool
		RateLimitPerMinute int `validate:"gte=0"`
	}
	DB struct {
		User     string `validate:"required"`
		Password string
		Name     string `validate:"required"`
		Host     string `validate:"required"`
		Port     string `validate:"required,numeric"`
		SSLMode  string `validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	}
	Storage struct {
		Driver         string `validate:"oneof=local s3"`
		Root           string `validate:"required_if=Driver local"`
		MaxUploadBytes int64  `validate:"gt=0"`
	}
	S3 struct {
		Region          string
		AccessKeyID     string
		SecretAccessKey string
		BucketUploads   string
		Endpoint        string `validate:"omitempty,url"`
		KeyPrefix       string
	}
	MQ struct {
		Enabled      bool
		User         string
		Password     string
		Vhost        string
		Host         string
		AmqpPort     string
		Exchange     string
		ExchangeType string
		QueueName    string
	}

	Config struct {
		App     APP
		DB      DB
		Storage Storage
		S3      S3
		MQ      MQ
	}
)

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	b, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(def)))
	if err != nil {
		return def
	}
	return b
}

func getEnvInt64(key string, def int64) int64 {
	n, err := strconv.ParseInt(getEnv(key, ""), 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return def
	}
	return d
}

func Load() Config {
	app := APP{
		Name:               getEnv("SERVICE_NAME", "minidrive"),
		Host:               getEnv("SERVICE_HOST", ""),
		Port:               getEnv("SERVICE_PORT", "3000"),
		Env:                getEnv("SERVICE_ENV", ""),
		JWTSecret:          getEnv("SERVICE_JWT_SECRET", ""),
		TokenTTL:           getEnvDuration("SERVICE_TOKEN_TTL", defaultTokenTTL),
		AdminEmail:         getEnv("SERVICE_ADMIN_EMAIL", ""),
		CookieSecure:       getEnvBool("SERVICE_COOKIE_SECURE", false),
		RateLimitPerMinute: int(getEnvInt64("SERVICE_RATE_LIMIT_PER_MINUTE", defaultRatePerMinute)),
	}
	db := DB{
		User:     getEnv("POSTGRES_USER", ""),
		Password: getEnv("POSTGRES_PASSWORD", ""),
		Name:     getEnv("POSTGRES_DB", ""),
		Host:     getEnv("POSTGRES_HOST", ""),
		Port:     getEnv("POSTGRES_PORT", "5432"),
		SSLMode:  getEnv("POSTGRES_SSLMODE", ""),
	}
	storage := Storage{
		Driver:         getEnv("STORAGE_DRIVER", StorageDriverLocal),
		Root:           getEnv("STORAGE_ROOT", "./uploads"),
		MaxUploadBytes: getEnvInt64("STORAGE_MAX_UPLOAD_BYTES", defaultMaxUploadBytes),
	}
	s3 := S3{
		Region:          getEnv("S3_REGION", ""),
		AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		BucketUploads:   getEnv("S3_BUCKET_UPLOADS", ""),
		Endpoint:        getEnv("S3_ENDPOINT", ""),
		KeyPrefix:       getEnv("S3_KEY_PREFIX", ""),
	}
	mq := MQ{
		Enabled:      getEnvBool("RABBITMQ_ENABLED", false),
		User:         getEnv("RABBITMQ_USER", ""),
		Password:     getEnv("RABBITMQ_PASSWORD", ""),
		Vhost:        getEnv("RABBITMQ_VHOST", ""),
		Host:         getEnv("RABBITMQ_HOST", ""),
		AmqpPort:     getEnv("RABBITMQ_AMQP_PORT", "5672"),
		Exchange:     getEnv("RABBITMQ_EXCHANGE", "minidrive.files"),
		ExchangeType: getEnv("RABBITMQ_EXCHANGE_TYPE", "direct"),
		QueueName:    getEnv("RABBITMQ_QUEUE_NAME", "minidrive.files.audit"),
	}

	return Config{
		App:     app,
		DB:      db,
		Storage: storage,
		S3:      s3,
		MQ:      mq,
	}
}

func (c Config) DBDSN() (string, error) {
	if c.DB.User == "" || c.DB.Name == "" || c.DB.Host == "" || c.DB.Port == "" {
		return "", fmt.Errorf("incomplete DB config")
	}
	dsn := fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		url.UserPassword(c.DB.User, c.DB.Password).String(),
		c.DB.Host,
		c.DB.Port,
		c.DB.Name,
	)
	if c.DB.SSLMode != "" {
		dsn += "?sslmode=" + url.QueryEscape(c.DB.SSLMode)
	}

	return dsn, nil
}

func (c Config) AMQPDSN() (string, error) {
	if c.MQ.User == "" || c.MQ.Host == "" || c.MQ.AmqpPort == "" {
		return "", fmt.Errorf("invalid MQ config: user, host and amqp port are required")
	}

	return fmt.Sprintf(
		"%s://%s@%s:%s/%s",
		"amqp",
		url.UserPassword(c.MQ.User, c.MQ.Password).String(),
		c.MQ.Host,
		c.MQ.AmqpPort,
		url.PathEscape(c.MQ.Vhost),
	), nil
}
