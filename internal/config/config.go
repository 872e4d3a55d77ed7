package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Parse modes accepted in HTMLSANITIZE_MODE.
const (
	ModeFragment = "fragment"
	ModeDocument = "document"
)

// Cfg holds the htmlsanitize settings loaded from the environment. Command
// line flags override them.
type Cfg struct {
	PolicyFile string     // HTMLSANITIZE_POLICY=/etc/htmlsanitize/policy.toml
	Mode       string     // HTMLSANITIZE_MODE=fragment|document
	LogLevel   slog.Level // HTMLSANITIZE_LOG_LEVEL=debug|info|warn|error
}

// Load reads .env (if present) then environment variables and returns Cfg.
func Load() (*Cfg, error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	mode := strings.ToLower(strings.TrimSpace(os.Getenv("HTMLSANITIZE_MODE")))
	switch mode {
	case "":
		mode = ModeFragment
	case ModeFragment, ModeDocument:
	default:
		return nil, fmt.Errorf("HTMLSANITIZE_MODE must be %q or %q, got %q", ModeFragment, ModeDocument, mode)
	}

	level := slog.LevelWarn
	if raw := strings.TrimSpace(os.Getenv("HTMLSANITIZE_LOG_LEVEL")); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return nil, fmt.Errorf("HTMLSANITIZE_LOG_LEVEL: %w", err)
		}
	}

	return &Cfg{
		PolicyFile: strings.TrimSpace(os.Getenv("HTMLSANITIZE_POLICY")),
		Mode:       mode,
		LogLevel:   level,
	}, nil
}
