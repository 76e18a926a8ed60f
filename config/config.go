package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// EnvPath names the environment variable that overrides the config location.
const EnvPath = "HRDASH_CONFIG"

// DefaultPath is used when neither a flag nor EnvPath is set.
const DefaultPath = "config.yaml"

// ErrInvalidConfig wraps every parse and validation failure.
var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Data    DataConfig    `yaml:"data"`
	Model   ModelConfig   `yaml:"model"`
	HTTP    HTTPConfig    `yaml:"http"`
	Log     LogConfig     `yaml:"log"`
	History HistoryConfig `yaml:"history"`
	Cache   CacheConfig   `yaml:"cache"`
}

type DataConfig struct {
	Path string `yaml:"path" validate:"required"`
}

type ModelConfig struct {
	Type    string `yaml:"type" validate:"oneof=decision_tree logistic_regression"`
	Path    string `yaml:"path" validate:"required"`
	Scaling string `yaml:"scaling" validate:"omitempty,oneof=dataset none"`
}

type HTTPConfig struct {
	Port           int           `yaml:"port" validate:"min=1,max=65535"`
	Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RateLimit      float64       `yaml:"rate_limit" validate:"gte=0"`
	Burst          int           `yaml:"burst" validate:"gte=1"`
	MaxBodyBytes   int64         `yaml:"max_body_bytes" validate:"gt=0"`
}

type LogConfig struct {
	Level      string `yaml:"level" validate:"oneof=debug info warn error"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" validate:"gte=0"`
	Compress   bool   `yaml:"compress"`
}

// HistoryConfig controls the prediction history store. An empty path disables it.
type HistoryConfig struct {
	Path  string `yaml:"path"`
	Limit int    `yaml:"limit" validate:"min=1,max=1000"`
}

type CacheConfig struct {
	Size int `yaml:"size" validate:"min=1"`
}

var validate = validator.New()

func Default() *Config {
	return &Config{
		Data: DataConfig{Path: "data/employees_sample.csv"},
		Model: ModelConfig{
			Type:    "logistic_regression",
			Path:    "models/attrition_logreg.json",
			Scaling: "dataset",
		},
		HTTP: HTTPConfig{
			Port:           8080,
			Timeout:        30 * time.Second,
			AllowedOrigins: []string{"http://localhost:8080"},
			RateLimit:      20,
			Burst:          40,
			MaxBodyBytes:   1 << 20,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
		History: HistoryConfig{Path: "data/history.db", Limit: 20},
		Cache:   CacheConfig{Size: 128},
	}
}

// Resolve picks the config file: the explicit flag, then EnvPath, then
// DefaultPath in the working directory or its parent.
func Resolve(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	if _, err := os.Stat(DefaultPath); err != nil {
		parent := filepath.Join("..", DefaultPath)
		if _, err := os.Stat(parent); err == nil {
			return parent
		}
	}
	return DefaultPath
}

// Load reads the YAML file at path over Default and validates it. Relative
// file paths inside the config are resolved against the config's directory.
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := Default()
	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.resolvePaths(filepath.Dir(path))
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %s", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) resolvePaths(dir string) {
	for _, p := range []*string{&c.Data.Path, &c.Model.Path, &c.History.Path, &c.Log.File} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dir, *p)
		}
	}
}
