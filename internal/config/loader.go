package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultConfigFile is the default project file name.
const DefaultConfigFile = ".swaggercov.yaml"

// EnvPrefix is the prefix of environment variable overrides,
// e.g. SWAGGERCOV_DEBUG=true.
const EnvPrefix = "SWAGGERCOV"

// Project file keys.
const (
	keyAPIName        = "api_name"
	keyHost           = "host"
	keyVerifyTLS      = "verify_tls"
	keyDocPath        = "doc_path"
	keyDocsFormat     = "docs_format"
	keyDebug          = "debug"
	keyCoverageConfig = "coverage_config"
	keyInstallDir     = "install_dir"
	keyWorkDir        = "work_dir"
	keyProjectRoot    = "use_project_root"
	keyLauncher       = "launcher"
	keyUsername       = "username"
	keyPassword       = "password"
	keyUseKeyring     = "use_keyring"
	keyCookies        = "cookies"
	keyProxy          = "proxy"
	keyTimeout        = "timeout"
	keyCleanupAfter   = "cleanup_after"
	keySaveHistory    = "history.enabled"
	keyHistoryDir     = "history.dir"
)

// Load builds a Config from defaults, the project file at path (if any) and
// SWAGGERCOV_* environment variables, in increasing order of precedence.
// The password is meant to come from SWAGGERCOV_PASSWORD or the keyring
// rather than the project file.
// An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	defaults := NewConfig()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetDefault(keyVerifyTLS, defaults.VerifyTLS)
	v.SetDefault(keyDocPath, defaults.DocPath)
	v.SetDefault(keyDocsFormat, defaults.DocsFormat)
	v.SetDefault(keyTimeout, defaults.Timeout)
	v.SetDefault(keySaveHistory, defaults.SaveHistory)
	v.SetDefault(keyHistoryDir, defaults.HistoryDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("project file %s: %w", path, err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read project file %s: %w", path, err)
		}
	}

	cfg := &Config{
		APIName:            v.GetString(keyAPIName),
		Host:               v.GetString(keyHost),
		VerifyTLS:          v.GetBool(keyVerifyTLS),
		DocPath:            v.GetString(keyDocPath),
		DocsFormat:         strings.ToLower(v.GetString(keyDocsFormat)),
		Debug:              v.GetBool(keyDebug),
		CoverageConfigFile: v.GetString(keyCoverageConfig),
		InstallDir:         v.GetString(keyInstallDir),
		WorkDir:            v.GetString(keyWorkDir),
		UseProjectRoot:     v.GetBool(keyProjectRoot),
		Launcher:           v.GetString(keyLauncher),
		Username:           v.GetString(keyUsername),
		Password:           v.GetString(keyPassword),
		UseKeyring:         v.GetBool(keyUseKeyring),
		Cookies:            v.GetStringMapString(keyCookies),
		ProxyAddress:       v.GetString(keyProxy),
		Timeout:            v.GetDuration(keyTimeout),
		CleanupAfter:       v.GetBool(keyCleanupAfter),
		SaveHistory:        v.GetBool(keySaveHistory),
		HistoryDir:         v.GetString(keyHistoryDir),
	}
	if cfg.Cookies == nil {
		cfg.Cookies = make(map[string]string)
	}

	return cfg, nil
}

// FindConfigFile searches for the project file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .swaggercov.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
//
// Returns the path to the project file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		cwdConfig := filepath.Join(cwd, DefaultConfigFile)
		if _, err := os.Stat(cwdConfig); err == nil {
			return cwdConfig
		}
	}

	xdgConfig := filepath.Join(XDGConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	return ""
}
