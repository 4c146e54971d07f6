package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App struct {
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Content struct {
		Source string `mapstructure:"source"`
		File   string `mapstructure:"file"`
	} `mapstructure:"content"`
	Stats struct {
		Backend string `mapstructure:"backend"`
	} `mapstructure:"stats"`
	DB struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"db"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	Document struct {
		Backend    string        `mapstructure:"backend"`
		ChromePath string        `mapstructure:"chrome_path"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"document"`
}

// LoadConfig reads config.yaml from path (if present), then .env, then the
// process environment. Later sources win.
func LoadConfig(path string) (cfg Config, err error) {
	if err := godotenv.Load(); err != nil {
		log.Println("note: .env file not found, using environment only")
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return cfg, err
		}
	}

	v.SetDefault("app.port", "3000")
	v.SetDefault("app.env", "development")
	v.SetDefault("content.source", "file")
	v.SetDefault("content.file", "data/resume.json")
	v.SetDefault("stats.backend", "memory")
	v.SetDefault("kafka.topic", "resume.downloads")
	v.SetDefault("document.backend", "chromedp")
	v.SetDefault("document.timeout", 60*time.Second)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.BindEnv("app.port", "PORT")
	v.BindEnv("app.env", "APP_ENV")
	v.BindEnv("content.source", "CONTENT_SOURCE")
	v.BindEnv("content.file", "CONTENT_FILE")
	v.BindEnv("stats.backend", "STATS_BACKEND")
	v.BindEnv("db.dsn", "DATABASE_URL")
	v.BindEnv("redis.addr", "REDIS_ADDR")
	v.BindEnv("redis.password", "REDIS_PASSWORD")
	v.BindEnv("kafka.brokers", "KAFKA_BROKERS")
	v.BindEnv("kafka.topic", "KAFKA_TOPIC")
	v.BindEnv("document.backend", "DOCUMENT_BACKEND")
	v.BindEnv("document.chrome_path", "CHROME_PATH")
	v.BindEnv("document.timeout", "DOCUMENT_TIMEOUT")

	if err = v.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.Kafka.Brokers = splitAndTrim(cfg.Kafka.Brokers)
	cfg.App.Env = normalizeEnv(cfg.App.Env)
	return cfg, nil
}

// splitAndTrim flattens comma separated entries; KAFKA_BROKERS arrives as one string.
func splitAndTrim(in []string) []string {
	var out []string
	for _, raw := range in {
		for _, p := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	default:
		return "development"
	}
}
