package config

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	maxConfigFileSize = 1024 * 1024 // 1MB
	appDir            = "jeedom-status"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// envSections are the top-level keys environment variables may target.
var envSections = map[string]bool{
	"jeedom":  true,
	"bar":     true,
	"battery": true,
	"log":     true,
	"github":  true,
}

// envFlags are the single-word environment variables that map to top-level keys.
var envFlags = map[string]bool{
	"debug": true,
	"fake":  true,
}

// Options controls where Load looks for configuration.
type Options struct {
	// Path is the YAML file to read. Empty means the default path,
	// which is skipped silently when it does not exist.
	Path string

	// EnvFile is a dotenv file loaded into the environment before the
	// environment is read. Variables already set are not overridden.
	EnvFile string
}

// Load builds configuration from defaults, the YAML file, then environment variables.
//
// Configuration precedence (highest to lowest):
//  1. Environment variables (JEEDOM_URL, BAR_TYPE, BATTERY_DANGER_THRESHOLD, etc.)
//  2. YAML config file (~/.config/jeedom-status/config.yaml)
//  3. Built-in defaults
//
// The result is normalized but not validated: callers apply command-line
// flags first, then call Validate.
//
// # Security Considerations
//
// File Permissions: the YAML file holds the API key and MUST have 0600 or
// 0400 permissions. Files with weaker permissions are rejected.
//
// Path Validation: only files under ~/.config/jeedom-status/ or
// /etc/jeedom-status/ can be loaded.
//
// File Size Limit: files larger than 1MB are rejected.
//
// # Environment Variable Mapping
//
// The first underscore separates section from field:
//
//	JEEDOM_API_KEY -> jeedom.api_key
//	BAR_IGNORE_BATTERY_WARNING -> bar.ignore_battery_warning
//	BATTERY_DANGER_THRESHOLD -> battery.danger_threshold
//	DEBUG -> debug
func Load(opts Options) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if opts.EnvFile != "" {
		if err := LoadEnvFile(opts.EnvFile); err != nil {
			return nil, err
		}
	}

	explicit := opts.Path != ""
	configPath := opts.Path
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	if err := validateConfigPath(configPath); err != nil {
		return nil, fmt.Errorf("config path validation failed: %w", err)
	}

	content, err := readConfigFile(configPath)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is the common case: flags and env carry everything.
	default:
		return nil, err
	}

	if err := k.Load(env.Provider("", ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	normalize(&cfg)

	return &cfg, nil
}

// envKey maps an environment variable to a config key, or "" to skip it.
func envKey(s string) string {
	lower := strings.ToLower(s)
	parts := strings.SplitN(lower, "_", 2)

	if len(parts) == 1 {
		if envFlags[lower] {
			return lower
		}
		return ""
	}

	if !envSections[parts[0]] || parts[1] == "" {
		return ""
	}
	return parts[0] + "." + parts[1]
}

// LoadEnvFile loads a dotenv file without overriding variables already set.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// DefaultPath returns ~/.config/jeedom-status/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", appDir, "config.yaml"), nil
}

// readConfigFile opens the file once and validates it through the open
// descriptor. A missing file is returned as an os.IsNotExist error.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	if err := validateConfigFileProperties(info); err != nil {
		return nil, fmt.Errorf("config file validation failed: %w", err)
	}

	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// validateConfigPath checks if path is in allowed directories.
// This validation runs even if the file doesn't exist yet.
func validateConfigPath(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	resolvedPath, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		// Paths that do not exist yet are checked as written.
		resolvedPath = absPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	allowedDirs := []string{
		filepath.Join(home, ".config", appDir),
		filepath.Join(string(filepath.Separator), "etc", appDir),
	}

	for _, dir := range allowedDirs {
		if strings.HasPrefix(resolvedPath, dir+string(filepath.Separator)) {
			return nil
		}
	}

	return fmt.Errorf("config file must be in ~/.config/%s/ or /etc/%s/", appDir, appDir)
}

// validateConfigFileProperties checks file permissions and size.
func validateConfigFileProperties(info os.FileInfo) error {
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}

	if info.Size() > maxConfigFileSize {
		return fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	return nil
}
