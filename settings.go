package main

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
)

// Settings holds process configuration. Values come from the environment (after an
// optional .env file) and are overridden by flags given on the command line.
type Settings struct {
	Host        string        `env:"QUORIDOR_HOST" envDefault:"localhost"`
	Port        int           `env:"PORT" envDefault:"8080"`
	ConfigDir   string        `env:"CONFIG_DIR" envDefault:"configs"`
	SessionsDir string        `env:"QUORIDOR_SESSIONS_DIR"`
	Debug       bool          `env:"DEBUG"`
	LogFormat   string        `env:"LOG_FORMAT" envDefault:"text"`
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// Addr returns the host:port the HTTP server binds to
func (s *Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// loadDotEnv loads a .env file from the working directory if there is one
func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("error loading .env file: %v", err)
		}
		return
	}
	log.Debug("loaded environment variables from .env file")
}

// loadSettings reads the environment, then applies any flag the user set explicitly
func loadSettings(cmd *cli.Command) (*Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// The underscore spelling is accepted too
	if s.NgrokAuthToken == "" {
		s.NgrokAuthToken = os.Getenv("NGROK_AUTH_TOKEN")
	}

	if cmd == nil {
		return &s, nil
	}

	if cmd.IsSet("host") {
		s.Host = cmd.String("host")
	}
	if cmd.IsSet("port") {
		s.Port = cmd.Int("port")
	}
	if cmd.IsSet("config-dir") {
		s.ConfigDir = cmd.String("config-dir")
	}
	if cmd.IsSet("sessions-dir") {
		s.SessionsDir = cmd.String("sessions-dir")
	}
	if cmd.IsSet("debug") {
		s.Debug = cmd.Bool("debug")
	}
	if cmd.IsSet("log-format") {
		s.LogFormat = cmd.String("log-format")
	}
	if cmd.IsSet("session-ttl") {
		s.SessionTTL = cmd.Duration("session-ttl")
	}
	if cmd.IsSet("ngrok") {
		s.NgrokEnabled = cmd.Bool("ngrok")
	}
	if cmd.IsSet("ngrok-auth") {
		s.NgrokAuthToken = cmd.String("ngrok-auth")
	}
	if cmd.IsSet("ngrok-domain") {
		s.NgrokDomain = cmd.String("ngrok-domain")
	}

	if s.Port <= 0 || s.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", s.Port)
	}
	if s.SessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", s.SessionTTL)
	}

	return &s, nil
}

// setupLogging configures the global logrus logger
func setupLogging(s *Settings) {
	switch s.LogFormat {
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}

	if s.Debug {
		log.SetLevel(log.DebugLevel)
		log.SetReportCaller(true)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

// globalFlags are shared by every subcommand
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "host", Usage: "HTTP server host (QUORIDOR_HOST)"},
		&cli.IntFlag{Name: "port", Usage: "HTTP server port (PORT)"},
		&cli.StringFlag{Name: "config-dir", Usage: "Directory containing rule set files (CONFIG_DIR)"},
		&cli.StringFlag{Name: "sessions-dir", Usage: "Persist sessions as JSON in this directory (QUORIDOR_SESSIONS_DIR)"},
		&cli.BoolFlag{Name: "debug", Usage: "Enable debug logging (DEBUG)"},
		&cli.StringFlag{Name: "log-format", Usage: "Log format: text or json (LOG_FORMAT)"},
		&cli.DurationFlag{Name: "session-ttl", Usage: "Drop sessions idle longer than this from memory (SESSION_TTL)"},
		&cli.BoolFlag{Name: "ngrok", Usage: "Enable ngrok tunnel (NGROK_ENABLED)"},
		&cli.StringFlag{Name: "ngrok-auth", Usage: "Ngrok auth token (NGROK_AUTHTOKEN)"},
		&cli.StringFlag{Name: "ngrok-domain", Usage: "Custom ngrok domain (NGROK_DOMAIN)"},
	}
}
