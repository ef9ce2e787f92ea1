package config

import (
	"database/sql"
	"errors"
	"fmt"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"
	"video-archive-bot/constant"
	"video-archive-bot/dto"
)

var (
	ErrConfigurationMissing = errors.New("required configuration missing")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

type Config struct {
	App      App       `yaml:"app"`
	Bot      Bot       `yaml:"bot"`
	Database Database  `yaml:"database"`
	DB       *sql.DB   `yaml:"-"`
	Queue    *RabbitMQ `yaml:"rabbitmq"`
	Server   Server    `yaml:"server"`
}

type App struct {
	Environment string `yaml:"environment"`
}

type Bot struct {
	Token       string      `yaml:"token"`
	OperatorIDs []int64     `yaml:"admin_ids"`
	Channel     dto.ChatRef `yaml:"channel_id"`
	PollTimeout int         `yaml:"poll_timeout"`
	Debug       bool        `yaml:"debug"`
}

type Database struct {
	Driver constant.DatabaseDriver `yaml:"driver"`
	DSN    string                  `yaml:"dsn"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
	Workers  int    `yaml:"workers"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

// Load reads settings from the environment, an optional .env file and an
// optional config.yaml in path, in that order of precedence. The database
// is opened but not migrated.
func Load(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}

	db, err := OpenDB(cfg.Database)
	if err != nil {
		return nil, err
	}
	cfg.DB = db

	return cfg, nil
}

// Parse is Load without opening the database.
func Parse(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("bot.token", "BOT_TOKEN")
	_ = v.BindEnv("bot.admin_ids", "ADMIN_IDS")
	_ = v.BindEnv("bot.channel_id", "CHANNEL_ID")

	v.SetDefault("app.environment", constant.EnvironmentProduction.String())
	v.SetDefault("bot.poll_timeout", 60)
	v.SetDefault("database.driver", constant.DatabaseDriverSQLite.String())
	v.SetDefault("database.dsn", filepath.Join("data", "videos.db"))
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.workers", 4)
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.exchange", "video_events")
	v.SetDefault("rabbitmq.kind", "topic")

	token := strings.TrimSpace(v.GetString("bot.token"))
	if token == "" {
		return nil, fmt.Errorf("%w: BOT_TOKEN", ErrConfigurationMissing)
	}

	operatorIDs, err := parseOperatorIDs(v.GetString("bot.admin_ids"))
	if err != nil {
		return nil, err
	}

	channelID := strings.TrimSpace(v.GetString("bot.channel_id"))
	if channelID == "" {
		return nil, fmt.Errorf("%w: CHANNEL_ID", ErrConfigurationMissing)
	}
	channel, err := dto.ParseChatRef(channelID)
	if err != nil {
		return nil, fmt.Errorf("%w: CHANNEL_ID %q", ErrInvalidConfiguration, channelID)
	}

	driver := constant.DatabaseDriver(v.GetString("database.driver"))
	if driver != constant.DatabaseDriverSQLite && driver != constant.DatabaseDriverPostgres {
		return nil, fmt.Errorf("%w: database driver %q", ErrInvalidConfiguration, driver)
	}

	cfg := &Config{
		App: App{
			Environment: v.GetString("app.environment"),
		},
		Bot: Bot{
			Token:       token,
			OperatorIDs: operatorIDs,
			Channel:     channel,
			PollTimeout: v.GetInt("bot.poll_timeout"),
			Debug:       v.GetBool("bot.debug"),
		},
		Database: Database{
			Driver: driver,
			DSN:    v.GetString("database.dsn"),
		},
		Server: Server{
			HttpPort: v.GetString("server.port"),
			Workers:  v.GetInt("server.workers"),
		},
	}

	if host := v.GetString("rabbitmq.host"); host != "" {
		cfg.Queue = &RabbitMQ{
			Host:         host,
			Port:         v.GetInt("rabbitmq.port"),
			User:         v.GetString("rabbitmq.user"),
			Pass:         v.GetString("rabbitmq.pass"),
			ExchangeName: v.GetString("rabbitmq.exchange"),
			Kind:         v.GetString("rabbitmq.kind"),
		}
	}

	return cfg, nil
}

func parseOperatorIDs(raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("%w: ADMIN_IDS", ErrConfigurationMissing)
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: ADMIN_IDS %q", ErrInvalidConfiguration, raw)
		}
		ids = append(ids, id)
	}

	return ids, nil
}
