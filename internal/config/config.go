package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// GlobalFlags mirrors the persistent CLI flags before resolution.
type GlobalFlags struct {
	ConfigPath string
	JSON       bool
	Plain      bool
	ResultsOnly bool
	Timeout    string
	Retries    int
	MaxStale   string
	NoStale    bool
	NoCache    bool
	Network    string
}

// Settings is the fully resolved runtime configuration. Resolution order:
// defaults, config file, environment, flags.
type Settings struct {
	OutputMode       string
	ResultsOnly      bool
	Timeout          time.Duration
	Retries          int
	MaxStale         time.Duration
	NoStale          bool
	CacheEnabled     bool
	CachePath        string
	CacheLockPath    string
	Network          string
	AftermathBaseURL string
	AnthropicAPIKey  string
	AnthropicBaseURL string
	AnthropicModel   string
	MaxTokens        int
	Temperature      float64
}

type fileConfig struct {
	Output  string `yaml:"output"`
	Timeout string `yaml:"timeout"`
	Retries *int   `yaml:"retries"`
	Network string `yaml:"network"`
	Cache   struct {
		Enabled  *bool  `yaml:"enabled"`
		MaxStale string `yaml:"max_stale"`
		Path     string `yaml:"path"`
		LockPath string `yaml:"lock_path"`
	} `yaml:"cache"`
	Aftermath struct {
		BaseURL string `yaml:"base_url"`
	} `yaml:"aftermath"`
	Anthropic struct {
		APIKey      string  `yaml:"api_key"`
		APIKeyEnv   string  `yaml:"api_key_env"`
		BaseURL     string  `yaml:"base_url"`
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float64 `yaml:"temperature"`
	} `yaml:"anthropic"`
}

func Load(flags GlobalFlags) (Settings, error) {
	// Credentials may live in a local .env file; absence is not an error.
	_ = godotenv.Load()

	settings, err := defaultSettings()
	if err != nil {
		return Settings{}, err
	}

	cfgPath, err := resolveConfigPath(flags.ConfigPath)
	if err != nil {
		return Settings{}, err
	}

	if err := applyFileConfig(cfgPath, &settings); err != nil {
		return Settings{}, err
	}

	applyEnv(&settings)

	if err := applyFlags(flags, &settings); err != nil {
		return Settings{}, err
	}

	if settings.OutputMode == "" {
		settings.OutputMode = "json"
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 15 * time.Second
	}
	if settings.Retries < 0 {
		settings.Retries = 0
	}
	if settings.MaxStale < 0 {
		settings.MaxStale = 5 * time.Minute
	}
	settings.Network = strings.ToUpper(strings.TrimSpace(settings.Network))
	if settings.Network == "" {
		settings.Network = "MAINNET"
	}

	return settings, nil
}

func defaultSettings() (Settings, error) {
	cachePath, lockPath, err := defaultCachePaths()
	if err != nil {
		return Settings{}, err
	}
	return Settings{
		OutputMode:       "json",
		Timeout:          15 * time.Second,
		Retries:          0,
		MaxStale:         5 * time.Minute,
		CacheEnabled:     true,
		CachePath:        cachePath,
		CacheLockPath:    lockPath,
		Network:          "MAINNET",
		AftermathBaseURL: "https://aftermath.finance/api",
		AnthropicModel:   "claude-3-5-sonnet-latest",
		MaxTokens:        1024,
		Temperature:      0.3,
	}, nil
}

func resolveConfigPath(input string) (string, error) {
	if strings.TrimSpace(input) != "" {
		return input, nil
	}
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "suisage", "config.yaml"), nil
}

func defaultCachePaths() (string, string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", "", err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, "suisage")
	return filepath.Join(dir, "cache.db"), filepath.Join(dir, "cache.lock"), nil
}

func applyFileConfig(path string, settings *Settings) error {
	buf, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(buf, &cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}

	if cfg.Output != "" {
		settings.OutputMode = strings.ToLower(cfg.Output)
	}
	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			return fmt.Errorf("config timeout: %w", err)
		}
		settings.Timeout = d
	}
	if cfg.Retries != nil {
		settings.Retries = *cfg.Retries
	}
	if cfg.Network != "" {
		settings.Network = cfg.Network
	}
	if cfg.Cache.Enabled != nil {
		settings.CacheEnabled = *cfg.Cache.Enabled
	}
	if cfg.Cache.MaxStale != "" {
		d, err := time.ParseDuration(cfg.Cache.MaxStale)
		if err != nil {
			return fmt.Errorf("config cache.max_stale: %w", err)
		}
		settings.MaxStale = d
	}
	if cfg.Cache.Path != "" {
		settings.CachePath = cfg.Cache.Path
	}
	if cfg.Cache.LockPath != "" {
		settings.CacheLockPath = cfg.Cache.LockPath
	}
	if cfg.Aftermath.BaseURL != "" {
		settings.AftermathBaseURL = cfg.Aftermath.BaseURL
	}
	if cfg.Anthropic.APIKey != "" {
		settings.AnthropicAPIKey = cfg.Anthropic.APIKey
	}
	if cfg.Anthropic.APIKeyEnv != "" {
		settings.AnthropicAPIKey = os.Getenv(cfg.Anthropic.APIKeyEnv)
	}
	if cfg.Anthropic.BaseURL != "" {
		settings.AnthropicBaseURL = cfg.Anthropic.BaseURL
	}
	if cfg.Anthropic.Model != "" {
		settings.AnthropicModel = cfg.Anthropic.Model
	}
	if cfg.Anthropic.MaxTokens > 0 {
		settings.MaxTokens = cfg.Anthropic.MaxTokens
	}
	if cfg.Anthropic.Temperature > 0 {
		settings.Temperature = cfg.Anthropic.Temperature
	}
	return nil
}

func applyEnv(settings *Settings) {
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		settings.AnthropicAPIKey = v
	}
	if v := os.Getenv("SUISAGE_AFTERMATH_BASE_URL"); v != "" {
		settings.AftermathBaseURL = v
	}
	if v := os.Getenv("SUISAGE_NETWORK"); v != "" {
		settings.Network = v
	}
	if v := os.Getenv("SUISAGE_OUTPUT"); v != "" {
		settings.OutputMode = strings.ToLower(v)
	}
}

func applyFlags(flags GlobalFlags, settings *Settings) error {
	if flags.JSON && flags.Plain {
		return errors.New("--json and --plain are mutually exclusive")
	}
	if flags.JSON {
		settings.OutputMode = "json"
	}
	if flags.Plain {
		settings.OutputMode = "plain"
	}
	settings.ResultsOnly = flags.ResultsOnly
	if flags.Timeout != "" {
		d, err := time.ParseDuration(flags.Timeout)
		if err != nil {
			return fmt.Errorf("--timeout: %w", err)
		}
		settings.Timeout = d
	}
	if flags.Retries >= 0 {
		settings.Retries = flags.Retries
	}
	if flags.MaxStale != "" {
		d, err := time.ParseDuration(flags.MaxStale)
		if err != nil {
			return fmt.Errorf("--max-stale: %w", err)
		}
		settings.MaxStale = d
	}
	if flags.NoStale {
		settings.NoStale = true
	}
	if flags.NoCache {
		settings.CacheEnabled = false
	}
	if flags.Network != "" {
		settings.Network = flags.Network
	}
	return nil
}
