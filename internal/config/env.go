// Package config provides centralized configuration for hub builds: the
// APPHUB_* environment, the resolved path layout and the tools file loader.
package config

import (
	"os"
	"strings"
	"sync"
)

// HubEnv holds all APPHUB environment variables.
type HubEnv struct {
	// Root is the project root holding tools.json (APPHUB_ROOT)
	Root string

	// ConfigFile overrides the tools file path (APPHUB_CONFIG)
	ConfigFile string

	// DistDir overrides the distribution directory (APPHUB_DIST)
	DistDir string

	// TmpDir overrides the clone workspace (APPHUB_TMP)
	TmpDir string

	// LogLevel is the minimum structured log level (APPHUB_LOG_LEVEL)
	LogLevel string

	// NoColor disables colored output (APPHUB_NO_COLOR)
	NoColor bool
}

var (
	env     *HubEnv
	envOnce sync.Once
)

// Env returns the singleton environment configuration.
// Thread-safe, loads once on first call.
func Env() *HubEnv {
	envOnce.Do(func() {
		env = &HubEnv{
			Root:       os.Getenv("APPHUB_ROOT"),
			ConfigFile: getEnvDefault("APPHUB_CONFIG", DefaultToolsFile),
			DistDir:    getEnvDefault("APPHUB_DIST", DefaultDistDir),
			TmpDir:     getEnvDefault("APPHUB_TMP", DefaultTmpDir),
			LogLevel:   strings.ToLower(getEnvDefault("APPHUB_LOG_LEVEL", "warn")),
			NoColor:    isTruthy(os.Getenv("APPHUB_NO_COLOR")),
		}
	})
	return env
}

// ResetEnv resets the cached environment (for testing).
func ResetEnv() {
	envOnce = sync.Once{}
	env = nil
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
