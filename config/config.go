package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/mitchellh/mapstructure"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is shared by every service; each one reads the fields it needs.
type Config struct {
	GatewayPort  string `mapstructure:"gateway_port"`
	MenuSvcPort  string `mapstructure:"menu_svc_port"`
	OrderSvcPort string `mapstructure:"order_svc_port"`

	MenuSvcURL  string `mapstructure:"menu_svc_url"`
	OrderSvcURL string `mapstructure:"order_svc_url"`
	FrontendDir string `mapstructure:"frontend_dir"`

	// CORSAllowedOrigins must list concrete origins: session cookies are
	// credentialed and browsers refuse them with a wildcard origin.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins"`

	POSAPIURL   string `mapstructure:"pos_api_url"`
	POSAPIToken string `mapstructure:"pos_api_token"`
	POSProxyURL string `mapstructure:"pos_proxy_url"`

	MenuCacheTTL         time.Duration `mapstructure:"menu_cache_ttl"`
	MenuNestedCategoryID string        `mapstructure:"menu_nested_category_id"`

	CheckoutDelay    time.Duration `mapstructure:"checkout_delay"`
	FavoritesBackend string        `mapstructure:"favorites_backend"`
	OrderEventsTopic string        `mapstructure:"order_events_topic"`
	OrderEventsGroup string        `mapstructure:"order_events_group"`
	QRBaseURL        string        `mapstructure:"qr_base_url"`

	LogLevel string `mapstructure:"log_level"`
}

var defaults = map[string]interface{}{
	"gateway_port":            "8080",
	"menu_svc_port":           "8081",
	"order_svc_port":          "8082",
	"menu_svc_url":            "http://localhost:8081",
	"order_svc_url":           "http://localhost:8082",
	"frontend_dir":            "./frontend",
	"cors_allowed_origins":    "http://localhost:3000,http://127.0.0.1:3000",
	"pos_api_url":             "",
	"pos_api_token":           "",
	"pos_proxy_url":           "http://localhost:8080/api/data",
	"menu_cache_ttl":          "60s",
	"menu_nested_category_id": "",
	"checkout_delay":          "2s",
	"favorites_backend":       "postgres",
	"order_events_topic":      "order-events",
	"order_events_group":      "agg-svc",
	"qr_base_url":             "http://localhost:8080",
	"log_level":               "info",
}

// Load reads an optional .env file and then the process environment.
// Environment variables use the upper-cased key names (POS_API_URL, ...).
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	hooks := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// MustLoad is Load for service entrypoints.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	return cfg
}

// NewLogger builds the JSON logger every service writes to stdout.
func NewLogger(service, level string) *logrus.Logger {
	log := logrus.New()
	log.Out = os.Stdout
	log.Formatter = &logrus.JSONFormatter{
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "severity",
			logrus.FieldKeyMsg:   "message",
		},
		TimestampFormat: time.RFC3339Nano,
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.Level = lvl
	log.AddHook(serviceHook(service))
	return log
}

type serviceHook string

func (h serviceHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h serviceHook) Fire(e *logrus.Entry) error {
	e.Data["service"] = string(h)
	return nil
}

func MustInitPostgres() *sql.DB {
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")

	connStr := "host=" + dbHost + " port=" + dbPort + " user=" + dbUser +
		" password=" + dbPassword + " dbname=" + dbName + " sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		logrus.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.Ping(); err != nil {
		logrus.Fatalf("Failed to ping database: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: os.Getenv("REDIS_HOST") + ":" + os.Getenv("REDIS_PORT"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logrus.Fatalf("Failed to connect to Redis: %v", err)
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{os.Getenv("KAFKA_BROKER")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:     kafka.TCP(os.Getenv("KAFKA_BROKER")),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}
}
