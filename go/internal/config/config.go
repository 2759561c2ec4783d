package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/mcdev12/dynasty-auction/go/clients"
	"github.com/mcdev12/dynasty-auction/go/internal/draft/auction"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
	"github.com/mcdev12/dynasty-auction/go/internal/users"
)

// Config is the full server configuration.
type Config struct {
	LogLevel string         `yaml:"log_level"`
	Server   ServerConfig   `yaml:"server"`
	Draft    DraftConfig    `yaml:"draft"`
	Users    []UserConfig   `yaml:"users"`
	Players  PlayersConfig  `yaml:"players"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
}

type ServerConfig struct {
	Port           string   `yaml:"port"`
	DefaultRoom    string   `yaml:"default_room"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// DraftConfig holds the auction rules applied to every room.
type DraftConfig struct {
	BudgetCap        int                `yaml:"budget_cap"`
	NominationWindow time.Duration      `yaml:"nomination_window"`
	BidFloor         time.Duration      `yaml:"bid_floor"`
	TickInterval     time.Duration      `yaml:"tick_interval"`
	WarningMarks     []int              `yaml:"warning_marks"`
	ChatHistory      int                `yaml:"chat_history"`
	Teams            []auction.TeamSeed `yaml:"teams"`
}

type UserConfig struct {
	ID           string `yaml:"id"`
	Username     string `yaml:"username"`
	Role         string `yaml:"role"`
	TeamName     string `yaml:"team_name"`
	PasswordHash string `yaml:"password_hash"`
}

type PlayersConfig struct {
	Source          clients.ExternalSource `yaml:"source"`
	FilePath        string                 `yaml:"file_path"`
	SleeperBaseURL  string                 `yaml:"sleeper_base_url"`
	Limit           int                    `yaml:"limit"`
	RefreshInterval time.Duration          `yaml:"refresh_interval"`
}

// DatabaseConfig holds Postgres connection settings.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the Postgres connection URL.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

type NATSConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	StreamName    string `yaml:"stream_name"`
	SubjectPrefix string `yaml:"subject_prefix"`
}

// Default returns a config that runs a single default room with the stock
// twelve teams, one user per team, and user-1 as commissioner.
func Default() *Config {
	settings := auction.DefaultSettings()

	userCfgs := make([]UserConfig, 0, len(settings.Teams))
	for i, team := range settings.Teams {
		role := string(models.RoleMember)
		if i == 0 {
			role = string(models.RoleCommissioner)
		}
		userCfgs = append(userCfgs, UserConfig{
			ID:       team.OwnerID,
			Username: fmt.Sprintf("owner%d", i+1),
			Role:     role,
			TeamName: team.Name,
		})
	}

	return &Config{
		LogLevel: "info",
		Server: ServerConfig{
			Port:           "8080",
			DefaultRoom:    "main",
			AllowedOrigins: []string{"*"},
		},
		Draft: DraftConfig{
			BudgetCap:        settings.BudgetCap,
			NominationWindow: settings.NominationWindow,
			BidFloor:         settings.BidFloor,
			TickInterval:     settings.TickInterval,
			WarningMarks:     settings.WarningMarks,
			ChatHistory:      settings.ChatHistory,
			Teams:            settings.Teams,
		},
		Users: userCfgs,
		Players: PlayersConfig{
			Source:          clients.ExternalSourceSleeper,
			Limit:           300,
			RefreshInterval: 24 * time.Hour,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			Database: "dynasty_auction",
			SSLMode:  "disable",
		},
		NATS: NATSConfig{
			URL:           "nats://127.0.0.1:4222",
			StreamName:    "AUCTION_EVENTS",
			SubjectPrefix: "auction.events",
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn().Str("path", path).Msg("config file not found, using defaults")
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Server.Port = getEnv("PORT", c.Server.Port)

	c.Database.Enabled = getEnvAsBool("DB_ENABLED", c.Database.Enabled)
	c.Database.Host = getEnv("DB_HOST", c.Database.Host)
	c.Database.Port = getEnvAsInt("DB_PORT", c.Database.Port)
	c.Database.User = getEnv("DB_USER", c.Database.User)
	c.Database.Password = getEnv("DB_PASSWORD", c.Database.Password)
	c.Database.Database = getEnv("DB_NAME", c.Database.Database)
	c.Database.SSLMode = getEnv("DB_SSLMODE", c.Database.SSLMode)

	c.NATS.Enabled = getEnvAsBool("NATS_ENABLED", c.NATS.Enabled)
	c.NATS.URL = getEnv("NATS_URL", c.NATS.URL)

	c.Players.Source = clients.ExternalSource(getEnv("PLAYER_SOURCE", string(c.Players.Source)))
	c.Players.FilePath = getEnv("PLAYER_FILE", c.Players.FilePath)
	c.Players.SleeperBaseURL = getEnv("SLEEPER_BASE_URL", c.Players.SleeperBaseURL)
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if err := c.Draft.Settings().Validate(); err != nil {
		return fmt.Errorf("draft: %w", err)
	}
	if !clients.ValidateExternalSource(c.Players.Source) {
		return fmt.Errorf("players: unknown source %q", c.Players.Source)
	}
	if clients.GetExternalSources()[c.Players.Source].NeedsDB && !c.Database.Enabled {
		return fmt.Errorf("players: source %q requires the database", c.Players.Source)
	}
	if c.Players.Source == clients.ExternalSourceFile && c.Players.FilePath == "" {
		return errors.New("players: file source requires file_path")
	}
	if c.Server.DefaultRoom == "" {
		return errors.New("server: default_room is required")
	}
	return nil
}

// Settings converts the draft section into room settings.
func (d DraftConfig) Settings() auction.Settings {
	return auction.Settings{
		BudgetCap:        d.BudgetCap,
		NominationWindow: d.NominationWindow,
		BidFloor:         d.BidFloor,
		WarningMarks:     d.WarningMarks,
		TickInterval:     d.TickInterval,
		ChatHistory:      d.ChatHistory,
		Teams:            d.Teams,
	}
}

// Accounts converts the users section for the participant directory.
func (c *Config) Accounts() []users.Account {
	accounts := make([]users.Account, 0, len(c.Users))
	for _, u := range c.Users {
		accounts = append(accounts, users.Account{
			Participant: models.Participant{
				ID:       u.ID,
				Username: u.Username,
				Role:     models.Role(u.Role),
				TeamName: u.TeamName,
			},
			PasswordHash: u.PasswordHash,
		})
	}
	return accounts
}
