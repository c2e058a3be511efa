package config

import (
	"errors"
	"strings"
	"time"

	cenv "github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr           string
	NLPBaseURL           string
	NLPAPIKey            string
	ConsultationsBaseURL string
	ConsultationsAPIKey  string
	WebhookURL           string
	WebhookSecret        string
	APIToken             string
	DefaultLanguage      string
	RequestTimeout       time.Duration
	AnalyzeTimeout       time.Duration
	LookupTimeout        time.Duration
	WebhookTimeout       time.Duration
	MaxFormBytes         int64
	LogLevel             string
}

type envConfig struct {
	ListenAddr            string `env:"LISTEN_ADDR" envDefault:":8080"`
	NLPBaseURL            string `env:"NLP_BASE_URL" envDefault:"https://api.clinicnlp.example.com"`
	NLPAPIKey             string `env:"NLP_API_KEY"`
	ConsultationsBaseURL  string `env:"CONSULTATIONS_BASE_URL" envDefault:"http://localhost:4000/api"`
	ConsultationsAPIKey   string `env:"CONSULTATIONS_API_KEY"`
	WebhookURL            string `env:"WEBHOOK_URL"`
	WebhookSecret         string `env:"WEBHOOK_SECRET"`
	APIToken              string `env:"API_TOKEN"`
	DefaultLanguage       string `env:"DEFAULT_LANGUAGE" envDefault:"en-US"`
	RequestTimeoutSeconds int    `env:"REQUEST_TIMEOUT_SECONDS" envDefault:"25"`
	AnalyzeTimeoutSeconds int    `env:"ANALYZE_TIMEOUT_SECONDS" envDefault:"20"`
	LookupTimeoutSeconds  int    `env:"LOOKUP_TIMEOUT_SECONDS" envDefault:"5"`
	WebhookTimeoutSeconds int    `env:"WEBHOOK_TIMEOUT_SECONDS" envDefault:"10"`
	MaxFormBytes          int64  `env:"MAX_FORM_BYTES" envDefault:"26214400"`
	LogLevel              string `env:"LOG_LEVEL" envDefault:"info"`
}

func Load() (Config, error) {
	var raw envConfig
	if err := cenv.Parse(&raw); err != nil {
		return Config{}, err
	}

	cfg := Config{
		ListenAddr:           strings.TrimSpace(raw.ListenAddr),
		NLPBaseURL:           strings.TrimRight(strings.TrimSpace(raw.NLPBaseURL), "/"),
		NLPAPIKey:            strings.TrimSpace(raw.NLPAPIKey),
		ConsultationsBaseURL: strings.TrimRight(strings.TrimSpace(raw.ConsultationsBaseURL), "/"),
		ConsultationsAPIKey:  strings.TrimSpace(raw.ConsultationsAPIKey),
		WebhookURL:           strings.TrimSpace(raw.WebhookURL),
		WebhookSecret:        strings.TrimSpace(raw.WebhookSecret),
		APIToken:             strings.TrimSpace(raw.APIToken),
		DefaultLanguage:      strings.TrimSpace(raw.DefaultLanguage),
		RequestTimeout:       time.Duration(raw.RequestTimeoutSeconds) * time.Second,
		AnalyzeTimeout:       time.Duration(raw.AnalyzeTimeoutSeconds) * time.Second,
		LookupTimeout:        time.Duration(raw.LookupTimeoutSeconds) * time.Second,
		WebhookTimeout:       time.Duration(raw.WebhookTimeoutSeconds) * time.Second,
		MaxFormBytes:         raw.MaxFormBytes,
		LogLevel:             strings.ToLower(strings.TrimSpace(raw.LogLevel)),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("LISTEN_ADDR must not be empty")
	}
	if c.NLPBaseURL == "" {
		return errors.New("NLP_BASE_URL must not be empty")
	}
	if c.ConsultationsBaseURL == "" {
		return errors.New("CONSULTATIONS_BASE_URL must not be empty")
	}
	if c.DefaultLanguage == "" {
		return errors.New("DEFAULT_LANGUAGE must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT_SECONDS must be > 0")
	}
	if c.AnalyzeTimeout <= 0 {
		return errors.New("ANALYZE_TIMEOUT_SECONDS must be > 0")
	}
	if c.LookupTimeout <= 0 {
		return errors.New("LOOKUP_TIMEOUT_SECONDS must be > 0")
	}
	if c.WebhookTimeout <= 0 {
		return errors.New("WEBHOOK_TIMEOUT_SECONDS must be > 0")
	}
	if c.MaxFormBytes <= 0 {
		return errors.New("MAX_FORM_BYTES must be > 0")
	}
	return nil
}
