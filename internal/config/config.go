package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Keys shared by the config file, environment variables and flags.
const (
	KeyHost     = "gitlab_host"
	KeyUsername = "gitlab_username"
	KeyToken    = "gitlab_token"
)

// appDir is the directory name below the OS config directory.
const appDir = "gitlab-timelogs"

// envBindings maps config keys to environment variables.
var envBindings = map[string]string{
	KeyHost:     "GITLAB_HOST",
	KeyUsername: "GITLAB_USERNAME",
	KeyToken:    "GITLAB_TOKEN",
}

// ErrExists is returned by WriteDefault when the file already exists.
var ErrExists = errors.New("config file already exists")

// configTemplate is the annotated config written by "config init".
const configTemplate = `# gitlab-timelogs configuration
#
# Every value can also be passed as a command line option (--host,
# --username, --token) or as an environment variable (GITLAB_HOST,
# GITLAB_USERNAME, GITLAB_TOKEN). Command line options win over environment
# variables, which win over this file.

# Host of the GitLab instance without "https://".
gitlab_host = "gitlab.example.com"

# Your GitLab username.
gitlab_username = "<user>"

# Token with read access (scope "read_api"). Create one at
# https://<gitlab_host>/-/user_settings/personal_access_tokens
gitlab_token = "<token>"
`

// Path returns the location of the config file: on Unix
// $XDG_CONFIG_HOME/gitlab-timelogs/config.toml, falling back to
// $HOME/.config, and %LOCALAPPDATA% on Windows.
func Path() (string, error) {
	var base string
	if runtime.GOOS == "windows" {
		base = os.Getenv("LOCALAPPDATA")
		if base == "" {
			return "", errors.New("cannot determine config directory: LOCALAPPDATA is not set")
		}
	} else {
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("cannot determine home directory: %w", err)
			}
			base = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(base, appDir, "config.toml"), nil
}

// New returns a viper instance with the environment bindings set up.
func New() *viper.Viper {
	v := viper.New()
	Bind(v)
	return v
}

// Bind registers the environment variables of every key on v.
func Bind(v *viper.Viper) {
	for key, env := range envBindings {
		// BindEnv only fails without arguments.
		_ = v.BindEnv(key, env)
	}
}

// Load reads the config file at path into v. An empty path selects Path().
// A missing file is not an error. A file that cannot be read or parsed is
// skipped and reported through the returned warning.
func Load(v *viper.Viper, path string) (warning error) {
	if path == "" {
		p, err := Path()
		if err != nil {
			return err
		}
		path = p
	}

	v.SetConfigFile(path)
	v.SetConfigType("toml")
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("failed to read config file at %s: %w", path, err)
}

// WriteDefault creates the config directory and atomically writes the
// annotated template. An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving default config: %w", err)
	}
	return nil
}
