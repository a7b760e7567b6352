package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	BotToken string `env:"BOT_TOKEN,required"`
	// PublicURL switches the Telegram transport to webhook mode; empty
	// means long polling.
	PublicURL string `env:"PUBLIC_URL"`
	HTTPPort  int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`

	PostgresDSN string `env:"POSTGRES_DSN"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	PendingInputTTL time.Duration `env:"PENDING_INPUT_TTL" envDefault:"1h"`

	YookassaShopID        string `env:"YOOKASSA_SHOP_ID,required"`
	YookassaSecretKey     string `env:"YOOKASSA_SECRET_KEY,required"`
	YookassaWebhookSecret string `env:"YOOKASSA_WEBHOOK_SECRET"`
	PaymentReturnURL      string `env:"PAYMENT_RETURN_URL" envDefault:"https://t.me/Magical_photo_booth_bot"`

	KafkaBrokers       []string `env:"KAFKA_BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	KafkaJobsTopic     string   `env:"KAFKA_JOBS_TOPIC" envDefault:"fulfillment.jobs"`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"photobooth-fulfillment"`

	FulfillmentWorkers int `env:"FULFILLMENT_WORKERS" envDefault:"3"`
}

// Load reads config.env (if present) and parses the environment. All
// components receive their settings from the returned struct; nothing reads
// the environment after startup.
func Load() (Config, error) {
	_ = LoadEnvFile("config.env")
	return env.ParseAs[Config]()
}
