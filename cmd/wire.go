package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	statusadapter "github.com/TwilightLilyy/umatrack/internal/adapters/render/status"
	jsonfilerepo "github.com/TwilightLilyy/umatrack/internal/adapters/repo/jsonfile"
	redisrepo "github.com/TwilightLilyy/umatrack/internal/adapters/repo/redis"
	tomlrepo "github.com/TwilightLilyy/umatrack/internal/adapters/repo/toml"
	"github.com/TwilightLilyy/umatrack/internal/application"
	"github.com/TwilightLilyy/umatrack/internal/domain"
	"github.com/TwilightLilyy/umatrack/internal/ports"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	configDirName = ".umatrack"
	envPrefix     = "UMATRACK"
)

type app struct {
	cfg            *viper.Viper
	log            *logrus.Logger
	service        *application.Service
	statusRenderer func([]domain.ResourceStatus, statusadapter.RenderOptions) (string, error)
	now            func() time.Time
}

func wireApp() (*app, error) {
	cfg := viper.New()

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetEnvPrefix(envPrefix)
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	setDefaults(cfg)

	if err := cfg.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	states, histories, err := wireStorage(cfg, log)
	if err != nil {
		return nil, err
	}

	service := application.NewService(states, histories, ports.SystemClock{}, log, serviceConfig(cfg))

	return &app{
		cfg:            cfg,
		log:            log,
		service:        service,
		statusRenderer: statusadapter.Render,
		now:            time.Now,
	}, nil
}

func setDefaults(cfg *viper.Viper) {
	cfg.SetDefault("storage.backend", "file")
	cfg.SetDefault("storage.redis.addr", "localhost:6379")
	cfg.SetDefault("resources.tp.cap", 100)
	cfg.SetDefault("resources.tp.rate", "10m")
	cfg.SetDefault("resources.tp.milestones", []int{30, 50})
	cfg.SetDefault("resources.rp.cap", 5)
	cfg.SetDefault("resources.rp.rate", "2h")
	cfg.SetDefault("resources.rp.milestones", []int{1, 3})
	cfg.SetDefault("reset.timezone", "America/New_York")
	cfg.SetDefault("overlay.addr", "127.0.0.1:8790")
	cfg.SetDefault("notify.on_full", true)
	cfg.SetDefault("notify.thresholds.tp", 90)
	cfg.SetDefault("notify.thresholds.rp", 4)
	cfg.SetDefault("log.level", "warn")
	cfg.SetDefault("log.format", "text")
}

func newLogger(cfg *viper.Viper) (*logrus.Logger, error) {
	log := logrus.New()

	level, err := logrus.ParseLevel(cfg.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(level)

	if cfg.GetString("log.format") == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	return log, nil
}

func wireStorage(cfg *viper.Viper, log *logrus.Logger) (ports.StateRepository, ports.HistoryRepository, error) {
	switch backend := cfg.GetString("storage.backend"); backend {
	case "file":
		states, err := tomlrepo.NewRepository(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("wire state repository: %w", err)
		}

		histories, err := jsonfilerepo.NewStore(cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("wire history repository: %w", err)
		}

		return states, histories, nil
	case "redis":
		client, err := redisrepo.NewClient(context.Background(), cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("wire redis backend: %w", err)
		}

		return redisrepo.NewStateStore(client, log), redisrepo.NewHistoryStore(client, log), nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q (known: file, redis)", backend)
	}
}

func serviceConfig(cfg *viper.Viper) application.Config {
	specs := domain.DefaultSpecs()
	milestones := make(map[domain.Kind][]int, len(specs))
	thresholds := make(map[domain.Kind]int, len(specs))

	for _, kind := range domain.Kinds() {
		spec := specs[kind]
		if capVal := cfg.GetInt(fmt.Sprintf("resources.%s.cap", kind)); capVal > 0 {
			spec.Cap = capVal
		}
		if rate := cfg.GetDuration(fmt.Sprintf("resources.%s.rate", kind)); rate > 0 {
			spec.RateMs = rate.Milliseconds()
		}
		specs[kind] = spec
		milestones[kind] = cfg.GetIntSlice(fmt.Sprintf("resources.%s.milestones", kind))
		thresholds[kind] = cfg.GetInt(fmt.Sprintf("notify.thresholds.%s", kind))
	}

	return application.Config{
		Specs:        specs,
		Milestones:   milestones,
		Timezone:     cfg.GetString("reset.timezone"),
		Thresholds:   thresholds,
		NotifyOnFull: cfg.GetBool("notify.on_full"),
	}
}
