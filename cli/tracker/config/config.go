package config

/*
Описание конфигурационного файла трекера
*/

import (
	"errors"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"gopkg.in/yaml.v2"
)

const (
	EnvSourceURL = "TRACKER_SOURCE_URL"
	EnvPort      = "TRACKER_PORT"
)

var ErrEmptyPath = errors.New("не задан путь до конфига")

type Source struct {
	URL                 string `yaml:"url" validate:"required,url"`
	TimeoutSeconds      int    `yaml:"timeout_seconds" validate:"gte=0"`
	PollIntervalSeconds int    `yaml:"poll_interval_seconds" validate:"gte=0"`
	InsecureSkipVerify  bool   `yaml:"insecure_skip_verify"`
}

type Map struct {
	CenterLat float64 `yaml:"center_lat" validate:"gte=-90,lte=90"`
	CenterLng float64 `yaml:"center_lng" validate:"gte=-180,lte=180"`
	Zoom      int     `yaml:"zoom" validate:"gte=0,lte=19"`
	TileURL   string  `yaml:"tile_url"`
	Title     string  `yaml:"title"`
}

type Settings struct {
	Host              string            `yaml:"host"`
	Port              string            `yaml:"port" validate:"required,numeric"`
	Debug             bool              `yaml:"debug"`
	LogLevel          string            `yaml:"log_level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR"`
	LogFilePath       string            `yaml:"log_file_path"`
	LogMaxAgeDays     int               `yaml:"log_max_age_days" validate:"gte=0"`
	RefreshIntervalMs int               `yaml:"refresh_interval_ms" validate:"gte=0"`
	MaintenanceCron   string            `yaml:"maintenance_cron"`
	Map               Map               `yaml:"map"`
	Source            Source            `yaml:"source"`
	Store             map[string]string `yaml:"storage"`
}

func (s *Settings) GetListenAddress() string {
	return s.Host + ":" + s.Port
}

func (s *Settings) GetPollInterval() time.Duration {
	return time.Duration(s.Source.PollIntervalSeconds) * time.Second
}

func (s *Settings) GetSourceTimeout() time.Duration {
	return time.Duration(s.Source.TimeoutSeconds) * time.Second
}

func (s *Settings) GetRefreshInterval() time.Duration {
	return time.Duration(s.RefreshIntervalMs) * time.Millisecond
}

func (s *Settings) GetLogLevel() log.Level {
	var lvl log.Level

	switch s.LogLevel {
	case "DEBUG":
		lvl = log.DebugLevel
	case "INFO":
		lvl = log.InfoLevel
	case "WARN":
		lvl = log.WarnLevel
	case "ERROR":
		lvl = log.ErrorLevel
	default:
		lvl = log.InfoLevel
	}
	return lvl
}

// New читает YAML-конфиг, подставляет значения по умолчанию и переменные окружения
// (в том числе из .env) и валидирует результат.
func New(confPath string) (Settings, error) {
	c := Settings{}
	if confPath == "" {
		return c, ErrEmptyPath
	}

	data, err := os.ReadFile(confPath)
	if err != nil {
		return c, err
	}
	if err = yaml.Unmarshal(data, &c); err != nil {
		return c, err
	}

	_ = godotenv.Load()
	if url := os.Getenv(EnvSourceURL); url != "" {
		c.Source.URL = url
	}
	if port := os.Getenv(EnvPort); port != "" {
		c.Port = port
	}

	c.applyDefaults()

	if err = validator.New().Struct(c); err != nil {
		return c, err
	}

	return c, nil
}

func (s *Settings) applyDefaults() {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == "" {
		s.Port = "8051"
	}
	if s.RefreshIntervalMs == 0 {
		s.RefreshIntervalMs = 5000
	}
	if s.MaintenanceCron == "" {
		s.MaintenanceCron = "0 3 * * *"
	}
	if s.Source.TimeoutSeconds == 0 {
		s.Source.TimeoutSeconds = 5
	}
	if s.Source.PollIntervalSeconds == 0 {
		s.Source.PollIntervalSeconds = 5
	}
	if s.Map.CenterLat == 0 && s.Map.CenterLng == 0 {
		s.Map.CenterLat = 30.3753
		s.Map.CenterLng = 69.3451
	}
	if s.Map.Zoom == 0 {
		s.Map.Zoom = 6
	}
	if s.Map.TileURL == "" {
		s.Map.TileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
	}
	if s.Map.Title == "" {
		s.Map.Title = "Live Vehicle Tracking in Pakistan"
	}
	if s.Store == nil {
		s.Store = map[string]string{}
	}
	if s.Store["driver"] == "" {
		s.Store["driver"] = "sqlite"
	}
}
