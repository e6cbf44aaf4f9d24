// ABOUTME: Engine settings loading with global + project layering via viper
// ABOUTME: JSON files under .pi-go/hooks.json; PI_HOOKS_* env vars override both

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultBashTimeoutMs = 60_000
	defaultShell         = "sh"
	envPrefix            = "PI_HOOKS"

	// DefaultProjectDirEnv names the variable carrying the project directory.
	DefaultProjectDirEnv = "PI_PROJECT_DIR"
	// DefaultSessionIDEnv names the variable carrying the session id.
	DefaultSessionIDEnv = "PI_SESSION_ID"
)

// Settings holds the merged engine configuration.
type Settings struct {
	LogLevel      string `mapstructure:"log_level"`
	BashTimeoutMs int    `mapstructure:"bash_timeout_ms"`
	Shell         string `mapstructure:"shell"`
	ProjectDirEnv string `mapstructure:"project_dir_env"`
	SessionIDEnv  string `mapstructure:"session_id_env"`
}

// BashTimeout returns the default timeout for bash actions that set none.
func (s *Settings) BashTimeout() time.Duration {
	if s.BashTimeoutMs <= 0 {
		return defaultBashTimeoutMs * time.Millisecond
	}
	return time.Duration(s.BashTimeoutMs) * time.Millisecond
}

// Load reads and merges global and project-local settings.
// Project settings override global settings; environment overrides both.
func Load(projectRoot string) (*Settings, error) {
	return loadFiles(GlobalSettingsFile(), ProjectSettingsFile(projectRoot))
}

func loadFiles(paths ...string) (*Settings, error) {
	v := newViper()
	for _, path := range paths {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	ResolveEnvVars(&s)
	return &s, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("log_level", "info")
	v.SetDefault("bash_timeout_ms", defaultBashTimeoutMs)
	v.SetDefault("shell", defaultShell)
	v.SetDefault("project_dir_env", DefaultProjectDirEnv)
	v.SetDefault("session_id_env", DefaultSessionIDEnv)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// mergeFile merges one JSON settings file into v. A missing file is skipped.
func mergeFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if err := v.MergeConfig(f); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}
