package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/.env files.
type Config struct {
	Server struct {
		Host            string
		Port            string
		StaticDir       string
		ShutdownTimeout time.Duration
	}
	Database struct {
		Driver       string
		Host         string
		Port         string
		User         string
		Password     string
		Name         string
		Path         string
		MaxOpenConns int
		AutoMigrate  bool
	}
	Log struct {
		Level string
	}
}

var envKeys = map[string]string{
	"server.host":            "HOST",
	"server.port":            "PORT",
	"server.staticdir":       "STATIC_DIR",
	"server.shutdowntimeout": "SHUTDOWN_TIMEOUT",
	"database.driver":        "DB_DRIVER",
	"database.host":          "DB_HOST",
	"database.port":          "DB_PORT",
	"database.user":          "DB_USER",
	"database.password":      "DB_PASSWORD",
	"database.name":          "DB_NAME",
	"database.path":          "DB_PATH",
	"database.maxopenconns":  "DB_MAX_OPEN_CONNS",
	"database.automigrate":   "DB_AUTO_MIGRATE",
	"log.level":              "LOG_LEVEL",
}

// Load reads configuration from environment variables, after applying an optional .env file.
// Variables already present in the environment win over the file.
func Load() (Config, error) {
	_ = godotenv.Load() // optional file

	v := viper.New()
	for key, env := range envKeys {
		if err := v.BindEnv(key, env); err != nil {
			return Config{}, fmt.Errorf("bind %s: %w", env, err)
		}
	}

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "3000")
	v.SetDefault("server.staticdir", "public")
	v.SetDefault("server.shutdowntimeout", 10*time.Second)
	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.name", "")
	v.SetDefault("database.path", "data/seva.db")
	v.SetDefault("database.maxopenconns", 1)
	v.SetDefault("database.automigrate", false)
	v.SetDefault("log.level", "info")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))

	return cfg, nil
}

// Validate reports missing settings the store cannot connect without.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("PORT must not be empty")
	}

	switch c.Database.Driver {
	case "mysql":
		var missing []string
		for _, kv := range [][2]string{
			{"DB_HOST", c.Database.Host},
			{"DB_PORT", c.Database.Port},
			{"DB_USER", c.Database.User},
			{"DB_NAME", c.Database.Name},
		} {
			if strings.TrimSpace(kv[1]) == "" {
				missing = append(missing, kv[0])
			}
		}
		if len(missing) > 0 {
			return fmt.Errorf("missing database settings: %s", strings.Join(missing, ", "))
		}
	case "sqlite":
		if strings.TrimSpace(c.Database.Path) == "" {
			return errors.New("DB_PATH must not be empty for sqlite")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}
