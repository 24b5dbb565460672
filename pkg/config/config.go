package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"toodone/pkg/keymaps"
)

// Config holds the application configuration
type Config struct {
	DatabaseDriver string            `mapstructure:"database_driver"`
	Database       string            `mapstructure:"database"`
	SweepInterval  time.Duration     `mapstructure:"sweep_interval"`
	ReminderLead   time.Duration     `mapstructure:"reminder_lead"`
	Dispatcher     string            `mapstructure:"dispatcher"`
	NotifyCommand  string            `mapstructure:"notify_command"`
	TodoistToken   string            `mapstructure:"todoist_token"`
	KeyMap         map[string]string `mapstructure:"keymap"`
	StylesFile     string            `mapstructure:"styles_file"`
}

// Styles holds the application colors and styling information
type Styles struct {
	// UI element colors
	BorderColor string `json:"border_color"`
	AccentColor string `json:"accent_color"`

	// Text colors
	NormalTextColor   string `json:"normal_text_color"`
	SelectedTextColor string `json:"selected_text_color"`
	SelectedBgColor   string `json:"selected_bg_color"`
	ErrorColor        string `json:"error_color"`

	// Project and context colors
	ProjectColor string `json:"project_color"`
	ContextColor string `json:"context_color"`

	// Running timer color
	TimerColor string `json:"timer_color"`
}

// Dispatcher selection values.
const (
	DispatcherDesktop = "desktop"
	DispatcherCommand = "command"
	DispatcherLog     = "log"
)

// Load loads the application configuration from the specified path, writing
// a default config file on first run.
func Load(configPath string) (Config, Styles, error) {
	// Get user's home directory for storing the database
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, Styles{}, err
	}

	configDir := filepath.Join(homeDir, ".config", "toodone")

	v := viper.New()
	v.SetDefault("database_driver", "sqlite3")
	v.SetDefault("database", filepath.Join(configDir, "toodone.db"))
	v.SetDefault("sweep_interval", "30s")
	v.SetDefault("reminder_lead", "10m")
	v.SetDefault("dispatcher", DispatcherDesktop)
	v.SetDefault("notify_command", "")
	v.SetDefault("keymap", keymaps.GetDefaultKeyMappings())
	v.SetDefault("styles_file", filepath.Join(configDir, "styles.json"))

	// Token comes from the environment by default, the config file can
	// override it
	v.SetDefault("todoist_token", "")
	v.BindEnv("todoist_token", "TODOIST_API_TOKEN")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("json")
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return Config{}, Styles{}, err
		}
		// Config file not found, create default config
		if err := os.MkdirAll(configDir, 0755); err != nil {
			return Config{}, Styles{}, err
		}
		if err := v.WriteConfigAs(filepath.Join(configDir, "config.json")); err != nil {
			return Config{}, Styles{}, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, Styles{}, err
	}
	if config.SweepInterval <= 0 {
		config.SweepInterval = 30 * time.Second
	}
	if config.ReminderLead < 0 {
		config.ReminderLead = 0
	}

	// Now load the styles file
	styles, err := loadStyles(config.StylesFile)
	if err != nil {
		return config, styles, fmt.Errorf("error loading styles: %w", err)
	}

	return config, styles, nil
}

// loadStyles loads the application styles from the specified path
func loadStyles(stylesPath string) (Styles, error) {
	defaultStyles := Styles{
		BorderColor:       "240",
		AccentColor:       "205",
		NormalTextColor:   "86",
		SelectedTextColor: "229",
		SelectedBgColor:   "57",
		ErrorColor:        "9",
		ProjectColor:      "2",
		ContextColor:      "4",
		TimerColor:        "11",
	}

	// Try to read the styles file
	stylesData, err := os.ReadFile(stylesPath)
	if err != nil {
		// If the file doesn't exist, create it with default values
		if os.IsNotExist(err) {
			stylesDir := filepath.Dir(stylesPath)
			if err := os.MkdirAll(stylesDir, 0755); err != nil {
				return defaultStyles, err
			}

			stylesData, err = json.MarshalIndent(defaultStyles, "", "  ")
			if err != nil {
				return defaultStyles, err
			}

			if err := os.WriteFile(stylesPath, stylesData, 0644); err != nil {
				return defaultStyles, err
			}

			return defaultStyles, nil
		}
		return defaultStyles, err
	}

	// File exists, parse it
	var loadedStyles Styles
	if err := json.Unmarshal(stylesData, &loadedStyles); err != nil {
		return defaultStyles, err
	}

	return loadedStyles, nil
}
