package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "KEEP_IMPORT"

type Config struct {
	// Vault is the Obsidian vault root imports are written into.
	Vault string
	// Settings overrides the settings file location. Relative paths resolve
	// against the working directory.
	Settings string
	LogLevel string
	LogFile  string
}

// Load reads flags with KEEP_IMPORT_* environment variables as fallback.
// flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("vault", ".")
	v.SetDefault("settings", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_file", "")

	if flags != nil {
		for key, flag := range map[string]string{
			"vault":     "vault",
			"settings":  "settings",
			"log_level": "log-level",
			"log_file":  "log-file",
		} {
			if f := flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", flag, err)
				}
			}
		}
	}

	cfg := &Config{
		Vault:    v.GetString("vault"),
		Settings: v.GetString("settings"),
		LogLevel: v.GetString("log_level"),
		LogFile:  v.GetString("log_file"),
	}
	if strings.TrimSpace(cfg.Vault) == "" {
		return nil, fmt.Errorf("vault path is empty")
	}
	return cfg, nil
}

// SettingsPath is the settings file location relative to the vault, or an
// absolute override.
func (c *Config) SettingsPath(defaultRel string) (path string, inVault bool) {
	if c.Settings == "" {
		return defaultRel, true
	}
	if filepath.IsAbs(c.Settings) {
		return c.Settings, false
	}
	abs, err := filepath.Abs(c.Settings)
	if err != nil {
		return c.Settings, false
	}
	return abs, false
}
