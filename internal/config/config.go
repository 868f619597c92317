// Package config loads quizdesk settings from an optional YAML file, a .env
// file and the process environment, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EncodingJSON = "json"
	EncodingForm = "form"
)

type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Server  ServerConfig  `yaml:"server"`
}

// BackendConfig points at the generation and save collaborators.
type BackendConfig struct {
	BaseURL      string        `yaml:"base_url"`
	GeneratePath string        `yaml:"generate_path"`
	SavePath     string        `yaml:"save_path"`
	CSRFToken    string        `yaml:"csrf_token"`
	RequireToken bool          `yaml:"require_token"`
	Timeout      time.Duration `yaml:"timeout"`
	SaveEncoding string        `yaml:"save_encoding"`
	ListPath     string        `yaml:"list_path"`

	// Mock swaps the HTTP collaborator for an in-process fake.
	Mock bool `yaml:"mock"`
}

// ServerConfig is used by cmd/quizd only.
type ServerConfig struct {
	Port           string   `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	JWTSecret      string   `yaml:"jwt_secret"`

	// SessionIdleTimeout drops sessions nobody touched for this long.
	SessionIdleTimeout time.Duration `yaml:"session_idle_timeout"`
}

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s", strings.Join(e.Errors, "; "))
}

func Default() Config {
	return Config{
		Backend: BackendConfig{
			BaseURL:      "http://localhost:5000",
			GeneratePath: "/api/generate-quiz",
			SavePath:     "/quizzes/save",
			Timeout:      60 * time.Second,
			SaveEncoding: EncodingJSON,
			ListPath:     "/quizzes",
		},
		Server: ServerConfig{
			Port:               "8080",
			AllowedOrigins:     []string{"*"},
			SessionIdleTimeout: 2 * time.Hour,
		},
	}
}

// Load builds the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("[config] ignoring .env: %v", err)
	}

	cfg := Default()
	if path := os.Getenv("QUIZDESK_CONFIG"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)
	if err := Validate(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return parseYAML(data, cfg)
}

func parseYAML(data []byte, cfg *Config) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && err != io.EOF {
		return fmt.Errorf("parse yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	b := &cfg.Backend
	b.BaseURL = getEnv("QUIZ_BACKEND_URL", b.BaseURL)
	b.GeneratePath = getEnv("QUIZ_GENERATE_PATH", b.GeneratePath)
	b.SavePath = getEnv("QUIZ_SAVE_PATH", b.SavePath)
	b.ListPath = getEnv("QUIZ_LIST_PATH", b.ListPath)
	b.CSRFToken = getEnv("QUIZ_CSRF_TOKEN", b.CSRFToken)
	b.SaveEncoding = strings.ToLower(getEnv("SAVE_ENCODING", b.SaveEncoding))

	if v := os.Getenv("QUIZ_REQUIRE_CSRF"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			b.RequireToken = parsed
		} else {
			log.Printf("[config] QUIZ_REQUIRE_CSRF=%q is not a bool, keeping %v", v, b.RequireToken)
		}
	}
	if v := os.Getenv("QUIZ_MOCK_BACKEND"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			b.Mock = parsed
		} else {
			log.Printf("[config] QUIZ_MOCK_BACKEND=%q is not a bool, keeping %v", v, b.Mock)
		}
	}
	if v := os.Getenv("QUIZ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			b.Timeout = d
		} else {
			log.Printf("[config] QUIZ_TIMEOUT=%q is not a duration, keeping %v", v, b.Timeout)
		}
	}

	s := &cfg.Server
	s.Port = getEnv("PORT", s.Port)
	s.JWTSecret = getEnv("SESSION_JWT_SECRET", s.JWTSecret)
	if v := os.Getenv("SESSION_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			s.SessionIdleTimeout = d
		} else {
			log.Printf("[config] SESSION_IDLE_TIMEOUT=%q is not a duration, keeping %v", v, s.SessionIdleTimeout)
		}
	}
	if v := os.Getenv("CORS_ALLOWED_ORIGINS"); v != "" {
		s.AllowedOrigins = splitList(v)
	}
}

func Validate(cfg *Config) error {
	var errs []string

	if cfg.Backend.BaseURL == "" {
		errs = append(errs, "backend.base_url is required")
	}
	if !strings.HasPrefix(cfg.Backend.GeneratePath, "/") {
		errs = append(errs, "backend.generate_path must start with /")
	}
	if !strings.HasPrefix(cfg.Backend.SavePath, "/") {
		errs = append(errs, "backend.save_path must start with /")
	}
	if cfg.Backend.Timeout <= 0 {
		errs = append(errs, "backend.timeout must be positive")
	}
	if cfg.Backend.SaveEncoding != EncodingJSON && cfg.Backend.SaveEncoding != EncodingForm {
		errs = append(errs, fmt.Sprintf("backend.save_encoding must be %q or %q", EncodingJSON, EncodingForm))
	}
	if cfg.Server.Port == "" {
		errs = append(errs, "server.port is required")
	}
	if cfg.Server.SessionIdleTimeout <= 0 {
		errs = append(errs, "server.session_idle_timeout must be positive")
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
