package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1 << 20

type Config struct {
	App         AppConfig         `koanf:"app"`
	DB          DBConfig          `koanf:"db"`
	Redis       RedisConfig       `koanf:"redis"`
	Idempotency IdempotencyConfig `koanf:"idempotency"`
	Auth        AuthConfig        `koanf:"auth"`
	ML          MLConfig          `koanf:"ml"`
	Chat        ChatConfig        `koanf:"chat"`
	Mail        MailConfig        `koanf:"mail"`
	Events      EventsConfig      `koanf:"events"`
	Kafka       KafkaConfig       `koanf:"kafka"`
	NATS        NATSConfig        `koanf:"nats"`
	RateLimit   RateLimitConfig   `koanf:"ratelimit"`
	Log         LogConfig         `koanf:"log"`
}

type AppConfig struct {
	Port        string `koanf:"port"`
	Debug       bool   `koanf:"debug"`
	FrontendURL string `koanf:"frontend_url"`
}

type DBConfig struct {
	Driver string `koanf:"driver"` // mysql | postgres | sqlite
	Host   string `koanf:"host"`
	Port   string `koanf:"port"`
	Name   string `koanf:"name"`
	User   string `koanf:"user"`
	Pass   string `koanf:"pass"`
}

type RedisConfig struct {
	Addr string `koanf:"addr"`
	DB   int    `koanf:"db"`
}

type IdempotencyConfig struct {
	TTLSecs int `koanf:"ttl_secs"`
}

type AuthConfig struct {
	TokenCacheSecs int `koanf:"token_cache_secs"`
}

type MLConfig struct {
	BaseURL     string  `koanf:"base_url"`
	TimeoutSecs int     `koanf:"timeout_secs"`
	RPS         float64 `koanf:"rps"`
}

type ChatConfig struct {
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
	Model   string `koanf:"model"`
}

type MailConfig struct {
	Driver string `koanf:"driver"` // log | sqs
	From   string `koanf:"from"`
	Queue  string `koanf:"queue"`
}

type EventsConfig struct {
	Driver string `koanf:"driver"` // none | kafka | nats
	Topic  string `koanf:"topic"`
}

type KafkaConfig struct {
	Brokers string `koanf:"brokers"` // comma separated
}

type NATSConfig struct {
	URL string `koanf:"url"`
}

type RateLimitConfig struct {
	RPS   float64 `koanf:"rps"`
	Burst int     `koanf:"burst"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads the optional YAML file at path and overlays environment
// variables on top of it. Env keys map SECTION_FIELD -> section.field,
// e.g. DB_HOST -> db.host, ML_BASE_URL -> ml.base_url.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return nil, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	var c Config
	if err := k.Unmarshal("", &c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(&c)
	return &c, nil
}

var sections = map[string]bool{
	"app": true, "db": true, "redis": true, "idempotency": true, "auth": true,
	"ml": true, "chat": true, "mail": true, "events": true, "kafka": true,
	"nats": true, "ratelimit": true, "log": true,
}

// envKey returns "" for variables outside the known sections so that
// unrelated environment (PATH, HOME, ...) is skipped.
func envKey(s string) string {
	parts := strings.SplitN(strings.ToLower(s), "_", 2)
	if len(parts) != 2 || !sections[parts[0]] {
		return ""
	}
	return parts[0] + "." + parts[1]
}

func readConfigFile(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s too large (%d bytes)", path, info.Size())
	}
	return os.ReadFile(path)
}

func applyDefaults(c *Config) {
	setDefault(&c.App.Port, "8080")
	setDefault(&c.App.FrontendURL, "http://localhost:5173")

	setDefault(&c.DB.Driver, "mysql")
	setDefault(&c.DB.Host, "mysql")
	switch c.DB.Driver {
	case "postgres":
		setDefault(&c.DB.Port, "5432")
	default:
		setDefault(&c.DB.Port, "3306")
	}
	setDefault(&c.DB.Name, "agrifin")
	setDefault(&c.DB.User, "agrifin")

	setDefault(&c.Redis.Addr, "redis:6379")
	if c.Idempotency.TTLSecs <= 0 {
		c.Idempotency.TTLSecs = 300
	}
	if c.Auth.TokenCacheSecs <= 0 {
		c.Auth.TokenCacheSecs = 300
	}

	if c.ML.TimeoutSecs <= 0 {
		c.ML.TimeoutSecs = 10
	}
	if c.ML.RPS <= 0 {
		c.ML.RPS = 20
	}
	setDefault(&c.Chat.Model, "flan-t5-base")

	setDefault(&c.Mail.Driver, "log")
	setDefault(&c.Mail.From, "no-reply@agrifinconnect.rw")
	setDefault(&c.Events.Driver, "none")
	setDefault(&c.Events.Topic, "agrifin.events")
	setDefault(&c.NATS.URL, "nats://127.0.0.1:4222")

	if c.RateLimit.RPS <= 0 {
		c.RateLimit.RPS = 5
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 20
	}

	setDefault(&c.Log.Level, "info")
	setDefault(&c.Log.Format, "json")
}

func setDefault(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

func (c *Config) Validate() error {
	if c.App.Port == "" {
		return errors.New("missing APP_PORT")
	}
	switch c.DB.Driver {
	case "sqlite":
		if c.DB.Name == "" {
			return errors.New("missing DB_NAME (sqlite file path)")
		}
		return nil
	case "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.DB.Host == "" || c.DB.Port == "" || c.DB.Name == "" || c.DB.User == "" {
		return errors.New("missing database config (DB_HOST/PORT/NAME/USER)")
	}
	if _, err := net.LookupPort("tcp", c.DB.Port); err != nil {
		return fmt.Errorf("invalid DB_PORT %q: %w", c.DB.Port, err)
	}
	switch c.Mail.Driver {
	case "log":
	case "sqs":
		if c.Mail.Queue == "" {
			return errors.New("missing MAIL_QUEUE for sqs mail driver")
		}
	default:
		return fmt.Errorf("unsupported MAIL_DRIVER %q", c.Mail.Driver)
	}
	switch c.Events.Driver {
	case "none", "nats":
	case "kafka":
		if len(c.KafkaBrokers()) == 0 {
			return errors.New("missing KAFKA_BROKERS for kafka events driver")
		}
	default:
		return fmt.Errorf("unsupported EVENTS_DRIVER %q", c.Events.Driver)
	}
	return nil
}

func (c *Config) dbAddr() string { return net.JoinHostPort(c.DB.Host, c.DB.Port) }

// DSN renders the connection string for the configured driver.
func (c *Config) DSN() string {
	switch c.DB.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
			c.DB.Host, c.DB.Port, c.DB.User, c.DB.Pass, c.DB.Name)
	case "sqlite":
		return c.DB.Name
	default:
		// parseTime needed for DATETIME/DATE columns
		return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
			c.DB.User, c.DB.Pass, c.dbAddr(), c.DB.Name)
	}
}

func (c *Config) KafkaBrokers() []string {
	var out []string
	for _, b := range strings.Split(c.Kafka.Brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
