// Package config loads the scriptstudio configuration file: a dnsmasq-style
// line format (`optionName rest of line is the value`) with optional
// [command] sections for per-command options and a [console] section for the
// script console.
package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Config represents the application configuration.
type Config struct {
	// Global options that apply to all commands.
	Global map[string]string
	// Command-specific options.
	Commands map[string]map[string]string
	// Console configures the script console.
	Console ConsoleConfig
	// Warnings contains any warnings generated during config loading.
	Warnings []string
}

// ConsoleConfig controls the script console.
type ConsoleConfig struct {
	// HistoryFile is where executed console lines are persisted.
	HistoryFile string
	// HistoryLimit bounds the number of history lines loaded at startup.
	HistoryLimit int
	// FloatStep is the property grid's float drag increment.
	FloatStep float64
	// PromptColor names the REPL prefix color.
	PromptColor string
}

// NewConfig creates a new configuration with defaults.
func NewConfig() *Config {
	return &Config{
		Global:   make(map[string]string),
		Commands: make(map[string]map[string]string),
		Console: ConsoleConfig{
			HistoryFile:  ".scriptstudio_history",
			HistoryLimit: 500,
			FloatStep:    0.1,
			PromptColor:  "cyan",
		},
	}
}

// Load loads configuration from the default config file path.
func Load() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, fmt.Errorf("failed to get config path: %w", err)
	}
	return LoadFromPath(configPath)
}

// LoadFromPath loads configuration from the specified file path. A missing
// file yields the defaults. Symlinked config files are rejected.
func LoadFromPath(path string) (*Config, error) {
	fi, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewConfig(), nil
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fi.Mode()&os.ModeSymlink != 0 {
		return nil, fmt.Errorf("symlink not allowed in config path: %s", path)
	}

	file, err := os.OpenFile(path, os.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return LoadFromReader(file)
}

// LoadFromReader loads configuration from an io.Reader.
func LoadFromReader(r io.Reader) (*Config, error) {
	config := NewConfig()
	scanner := bufio.NewScanner(r)

	var currentCommand string
	var inConsoleSection bool

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			sectionName := strings.Trim(line, "[]")
			if sectionName == "console" {
				inConsoleSection = true
				currentCommand = ""
			} else {
				inConsoleSection = false
				currentCommand = sectionName
				if config.Commands[currentCommand] == nil {
					config.Commands[currentCommand] = make(map[string]string)
				}
			}
			continue
		}

		parts := strings.SplitN(line, " ", 2)
		optionName := parts[0]
		var value string
		if len(parts) > 1 {
			value = parts[1]
		}

		switch {
		case inConsoleSection:
			if err := parseConsoleOption(&config.Console, optionName, value); err != nil {
				config.addWarning("invalid console option %q: %v", optionName, err)
			}
		case currentCommand == "":
			config.Global[optionName] = value
		default:
			config.Commands[currentCommand][optionName] = value
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config: %w", err)
	}

	return config, nil
}

func parseConsoleOption(cc *ConsoleConfig, name, value string) error {
	switch name {
	case "historyFile":
		cc.HistoryFile = value
	case "historyLimit":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("expected a non-negative integer, got %q", value)
		}
		cc.HistoryLimit = n
	case "floatStep":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("expected a positive number, got %q", value)
		}
		cc.FloatStep = f
	case "promptColor":
		if value == "" {
			return fmt.Errorf("expected a color name")
		}
		cc.PromptColor = value
	default:
		return fmt.Errorf("unknown option")
	}
	return nil
}

func (c *Config) addWarning(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// GetGlobalOption returns a global option value.
func (c *Config) GetGlobalOption(name string) (string, bool) {
	value, exists := c.Global[name]
	return value, exists
}

// GetCommandOption returns a command-specific option, falling back to the
// global option of the same name.
func (c *Config) GetCommandOption(command, name string) (string, bool) {
	if cmdOpts, ok := c.Commands[command]; ok {
		if value, ok := cmdOpts[name]; ok {
			return value, true
		}
	}
	return c.GetGlobalOption(name)
}

// SetGlobalOption sets a global option value.
func (c *Config) SetGlobalOption(name, value string) {
	c.Global[name] = value
}

// GetWarnings returns warnings generated during config loading.
func (c *Config) GetWarnings() []string { return c.Warnings }
