package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds defaults for the CLI flags. Everything here can be overridden
// on the command line; nothing is read from it after startup.
type Config struct {
	Pattern                 string `mapstructure:"pattern"`
	SkipUninstall           bool   `mapstructure:"skip_uninstall"`
	SkipRegistrationCleanup bool   `mapstructure:"skip_registration_cleanup"`
	SkipReboot              bool   `mapstructure:"skip_reboot"`
	DryRun                  bool   `mapstructure:"dry_run"`
	LogLevel                string `mapstructure:"log_level"`
	LogFormat               string `mapstructure:"log_format"`
}

func Default() *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
	}
}

func Load(cfgFile string) (*Config, error) {
	cfg := Default()

	v := viper.New()
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("avsweep")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("AVSWEEP")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func configDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("ProgramData"), "Avsweep")
	case "darwin":
		return "/Library/Application Support/Avsweep"
	default:
		return "/etc/avsweep"
	}
}
