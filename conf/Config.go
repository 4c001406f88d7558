package conf

import (
	"encoding/json"
	"errors"
	"fmt"
	"gigbot/logger"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"os"
)

const (
	DefaultConfigFile    = "config.json"
	DefaultPort          = "8080"
	DefaultSearchIntent  = "Buscar Conciertos"
	DefaultRefreshMinute = 30
	DefaultSourceName    = "gigbot"
)

type Config struct {
	Address        string   `json:"address"`
	Port           string   `json:"port" validate:"required,numeric"`
	LogMode        string   `json:"log_mode" validate:"omitempty,oneof=production debug"`
	SourceName     string   `json:"source_name"`
	SearchIntent   string   `json:"search_intent" validate:"required"`
	MaxResults     int      `json:"max_results" validate:"gte=0"`
	RefreshMinutes int      `json:"refresh_minutes" validate:"gte=1"`
	AllowedOrigins []string `json:"allowed_origins"`
	WebhookUser    string   `json:"webhook_user" validate:"required_with=WebhookPass"`
	WebhookPass    string   `json:"webhook_password" validate:"required_with=WebhookUser"`

	SpreadsheetId string `json:"spread_sheet_id" validate:"required_with=ReadRange"`
	ReadRange     string `json:"read_range" validate:"required_with=SpreadsheetId"`
	KeyFile       string `json:"key_file" validate:"required_with=SpreadsheetId"`

	EventsUrl    string `json:"events_url" validate:"omitempty,url"`
	EventsApiKey string `json:"events_api_key"`
}

// Load reads .env, then the JSON config file (GIGBOT_CONFIG or config.json),
// applies env overrides and defaults, and validates the result. A missing
// config file is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not load .env %s", err.Error())
	}

	path := os.Getenv("GIGBOT_CONFIG")
	if path == "" {
		path = DefaultConfigFile
	}
	config, err := LoadFile(path)
	if err != nil {
		return Config{}, err
	}
	applyEnv(&config)
	applyDefaults(&config)
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func LoadFile(path string) (Config, error) {
	var config Config
	configFile, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("config file %s not found, using defaults", path)
		return config, nil
	}
	if err != nil {
		return config, fmt.Errorf("open config %s: %w", path, err)
	}
	defer func(configFile *os.File) {
		if err := configFile.Close(); err != nil {
			logger.Warn("could not close config %s", err.Error())
		}
	}(configFile)

	jsonParser := json.NewDecoder(configFile)
	if err := jsonParser.Decode(&config); err != nil {
		return config, fmt.Errorf("decode config %s: %w", path, err)
	}
	return config, nil
}

func applyEnv(c *Config) {
	overrides := map[string]*string{
		"PORT":             &c.Port,
		"ADDRESS":          &c.Address,
		"LOG_MODE":         &c.LogMode,
		"WEBHOOK_USER":     &c.WebhookUser,
		"WEBHOOK_PASSWORD": &c.WebhookPass,
	}
	for key, field := range overrides {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}
}

func applyDefaults(c *Config) {
	if c.Port == "" {
		c.Port = DefaultPort
	}
	if c.SearchIntent == "" {
		c.SearchIntent = DefaultSearchIntent
	}
	if c.RefreshMinutes == 0 {
		c.RefreshMinutes = DefaultRefreshMinute
	}
	if c.SourceName == "" {
		c.SourceName = DefaultSourceName
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func (c Config) SheetsEnabled() bool {
	return c.SpreadsheetId != ""
}

func (c Config) BasicAuthEnabled() bool {
	return c.WebhookUser != ""
}
