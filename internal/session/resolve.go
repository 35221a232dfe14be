package session

import (
	"os"

	"github.com/matheus3301/convo/internal/config"
)

const (
	DefaultSessionName = "main"
	// SessionEnv names the session when no flag is given.
	SessionEnv = "CONVO_SESSION"
)

// Resolve picks the active session name: the -session flag, then
// $CONVO_SESSION, then default_session from config.toml, then "main".
func Resolve(flagOverride string) string {
	if flagOverride != "" {
		return flagOverride
	}
	if name := os.Getenv(SessionEnv); name != "" {
		return name
	}
	cfg, err := config.Load(ConfigPath())
	if err == nil && cfg.DefaultSession != "" {
		return cfg.DefaultSession
	}
	return DefaultSessionName
}
