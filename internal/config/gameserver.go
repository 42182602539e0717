package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/udisondev/rs2go/internal/constants"
	"github.com/udisondev/rs2go/internal/protocol"
)

// GameServer holds all configuration for the game server.
type GameServer struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Protocol
	Revision     int           `yaml:"revision"`
	TickInterval time.Duration `yaml:"tick_interval"`
	MaxPlayers   int           `yaml:"max_players"`
	RSAKeyPath   string        `yaml:"rsa_key_path"` // empty: the login block is not encrypted

	// Content
	EquipmentPath string `yaml:"equipment_path"`

	// Database
	Database DatabaseConfig `yaml:"database"`

	// Security
	AutoCreateAccounts bool `yaml:"auto_create_accounts"`
	LoginTryBeforeBan  int  `yaml:"login_try_before_ban"`
	LoginBlockAfterBan int  `yaml:"login_block_after_ban"` // seconds
	MaxConnectionPerIP int  `yaml:"max_connection_per_ip"`

	// Write queue / timeouts
	WriteTimeout  time.Duration `yaml:"write_timeout"`
	ReadTimeout   time.Duration `yaml:"read_timeout"`
	SendQueueSize int           `yaml:"send_queue_size"`

	// Observability
	MetricsAddress string `yaml:"metrics_address"` // empty disables /metrics
	LogLevel       string `yaml:"log_level"`
}

// DefaultGameServer returns GameServer config with sensible defaults.
func DefaultGameServer() GameServer {
	return GameServer{
		BindAddress:        "0.0.0.0",
		Port:               constants.DefaultPort,
		Revision:           317,
		TickInterval:       constants.TickIntervalMillis * time.Millisecond,
		MaxPlayers:         2000,
		EquipmentPath:      "data/equipment.yaml",
		Database:           DefaultDatabase(),
		AutoCreateAccounts: true,
		LoginTryBeforeBan:  5,
		LoginBlockAfterBan: 900,
		MaxConnectionPerIP: 50,
		WriteTimeout:       5 * time.Second,
		ReadTimeout:        60 * time.Second,
		SendQueueSize:      256,
		MetricsAddress:     "127.0.0.1:9100",
		LogLevel:           "info",
	}
}

// LoadGameServer loads game server config from a YAML file.
// If the file doesn't exist, returns defaults.
func LoadGameServer(path string) (GameServer, error) {
	cfg := DefaultGameServer()
	if err := loadYAML(path, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports settings the server cannot start with.
func (c GameServer) Validate() error {
	if _, err := protocol.Lookup(c.Revision); err != nil {
		return err
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("tick_interval must be positive, got %v", c.TickInterval)
	}
	if c.MaxPlayers <= 0 || c.MaxPlayers > constants.MaxPlayerIndex {
		return fmt.Errorf("max_players must be within 1..%d, got %d", constants.MaxPlayerIndex, c.MaxPlayers)
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// LoginBlockDuration returns how long a throttled address stays blocked.
func (c GameServer) LoginBlockDuration() time.Duration {
	return time.Duration(c.LoginBlockAfterBan) * time.Second
}

// ParseLogLevel maps debug, info, warn and error to slog levels.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}
