// Package config provides internal configuration loading and processing.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/knadh/koanf/maps"
	tomlparser "github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/smykla-skalski/codeaudit/pkg/config"
)

var (
	// ErrConfigNotFound is returned when an explicitly named configuration
	// file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidPermissions is returned when config file has insecure permissions.
	ErrInvalidPermissions = errors.New("config file has insecure permissions")
)

const (
	// EnvPrefix is the prefix of environment variables read by the loader.
	EnvPrefix = "CODEAUDIT_"

	// GlobalConfigFile is the name of the global configuration file.
	GlobalConfigFile = "config.toml"

	// GlobalConfigDir is the directory name for global configuration.
	GlobalConfigDir = ".codeaudit"

	// ProjectConfigDir is the directory name for project configuration.
	ProjectConfigDir = ".codeaudit"

	// ProjectConfigFile is the primary project configuration file name.
	ProjectConfigFile = "config.toml"

	// ProjectConfigFileAlt is the alternative project configuration file name.
	ProjectConfigFileAlt = "codeaudit.toml"
)

// Flag names understood by Load.
const (
	FlagFormat   = "format"
	FlagParallel = "parallel"
	FlagDisable  = "disable"
	FlagFailOn   = "fail-on"
	FlagMinScore = "min-score"
)

// flagPaths maps CLI flag names to config paths.
var flagPaths = map[string]string{
	FlagFormat:   "output.format",
	FlagParallel: "analyzer.parallel",
	FlagDisable:  "rules.disabled",
	FlagFailOn:   "output.fail_on",
	FlagMinScore: "output.min_score",
}

// listPaths are the config paths holding string lists. Environment values
// for them are split on commas.
var listPaths = map[string]bool{
	"analyzer.extensions": true,
	"analyzer.exclude":    true,
	"rules.disabled":      true,
}

// envPaths maps environment variable names, without the prefix, to config
// paths: ANALYZER_MAX_WORKERS → analyzer.max_workers. Config keys contain
// underscores, so the mapping cannot be derived by splitting on "_".
var envPaths = func() map[string]string {
	flat, _ := maps.Flatten(defaultsToMap(), nil, ".")
	out := make(map[string]string, len(flat))

	for path := range flat {
		out[strings.ToUpper(strings.ReplaceAll(path, ".", "_"))] = path
	}

	return out
}()

// KoanfLoader handles configuration loading from multiple sources using koanf.
// Precedence order (highest to lowest):
// 1. CLI Flags
// 2. Environment Variables (CODEAUDIT_*)
// 3. Explicit config file (--config), or project config
// (.codeaudit/config.toml or codeaudit.toml)
// 4. Global Config (~/.codeaudit/config.toml)
// 5. Defaults
type KoanfLoader struct {
	k          *koanf.Koanf
	homeDir    string
	workDir    string
	configFile string
}

// NewKoanfLoader creates a new KoanfLoader with default directories.
func NewKoanfLoader() (*KoanfLoader, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get home directory")
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get working directory")
	}

	return NewKoanfLoaderWithDirs(homeDir, workDir), nil
}

// NewKoanfLoaderWithDirs creates a new KoanfLoader with custom directories (for testing).
func NewKoanfLoaderWithDirs(homeDir, workDir string) *KoanfLoader {
	return &KoanfLoader{
		k:       koanf.New("."),
		homeDir: homeDir,
		workDir: workDir,
	}
}

// SetConfigFile makes Load read path instead of searching for a project
// config. The file must exist.
func (l *KoanfLoader) SetConfigFile(path string) {
	l.configFile = path
}

// Load loads configuration from all sources with precedence and validates
// the result.
// Defaults → Global TOML → Project TOML → Env Vars → CLI Flags
func (l *KoanfLoader) Load(flags map[string]any) (*config.Config, error) {
	cfg, err := l.LoadWithoutValidation(flags)
	if err != nil {
		return nil, err
	}

	if err := NewValidator().Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return cfg, nil
}

// LoadWithoutValidation loads configuration without running validation.
func (l *KoanfLoader) LoadWithoutValidation(flags map[string]any) (*config.Config, error) {
	// Reset koanf instance for fresh load
	l.k = koanf.New(".")

	// 1. Defaults (lowest priority)
	if err := l.k.Load(confmap.Provider(defaultsToMap(), "."), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load defaults")
	}

	// 2. Global config: ~/.codeaudit/config.toml
	if err := l.loadTOMLFile(l.GlobalConfigPath()); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(err, "failed to load global config")
	}

	// 3. Explicit or project config
	if l.configFile != "" {
		if err := l.loadTOMLFile(l.configFile); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrapf(ErrConfigNotFound, "%s", l.configFile)
			}

			return nil, errors.Wrap(err, "failed to load config file")
		}
	} else if projectPath := l.findProjectConfig(); projectPath != "" {
		if err := l.loadTOMLFile(projectPath); err != nil {
			return nil, errors.Wrap(err, "failed to load project config")
		}
	}

	// 4. Environment variables: CODEAUDIT_*
	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envTransform,
	}

	if err := l.k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, errors.Wrap(err, "failed to load env vars")
	}

	// 5. CLI flags (highest priority)
	if len(flags) > 0 {
		if err := l.k.Load(confmap.Provider(flagsToConfig(flags), "."), nil); err != nil {
			return nil, errors.Wrap(err, "failed to load flags")
		}
	}

	return unmarshal(l.k)
}

// unmarshal decodes the merged koanf state with the custom decode hooks.
func unmarshal(k *koanf.Koanf) (*config.Config, error) {
	var cfg config.Config

	dc := CustomDecoderConfig()
	dc.Result = &cfg

	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag:           "koanf",
		DecoderConfig: dc,
	}); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	return &cfg, nil
}

// loadTOMLFile loads a TOML configuration file with security checks.
func (l *KoanfLoader) loadTOMLFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	// Security check: reject world-writable files
	if info.Mode().Perm()&0o002 != 0 {
		return errors.Wrapf(
			ErrInvalidPermissions,
			"%s is world-writable (mode: %s)",
			path,
			info.Mode().Perm(),
		)
	}

	return l.k.Load(file.Provider(path), tomlparser.Parser())
}

// envTransform transforms environment variable names to config paths.
// CODEAUDIT_RULES_CODE_ORGANIZATION_MAX_LINES → rules.code_organization.max_lines
// Unknown variables are dropped.
func envTransform(key, value string) (string, any) {
	path, ok := envPaths[strings.TrimPrefix(key, EnvPrefix)]
	if !ok {
		return "", nil
	}

	if listPaths[path] {
		return path, splitList(value)
	}

	return path, value
}

func splitList(value string) []string {
	out := make([]string, 0)

	for part := range strings.SplitSeq(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}

	return out
}

// flagsToConfig converts CLI flags to a configuration map. Unknown flags
// and values of unexpected types are ignored.
func flagsToConfig(flags map[string]any) map[string]any {
	flat := make(map[string]any, len(flags))

	for name, value := range flags {
		path, ok := flagPaths[name]
		if !ok {
			continue
		}

		switch v := value.(type) {
		case []string:
			names := make([]string, 0, len(v))
			for _, s := range v {
				names = append(names, splitList(s)...)
			}

			flat[path] = names
		case string, bool, int:
			flat[path] = v
		}
	}

	return maps.Unflatten(flat, ".")
}

// GlobalConfigPath returns the path to the global configuration file.
func (l *KoanfLoader) GlobalConfigPath() string {
	return filepath.Join(l.homeDir, GlobalConfigDir, GlobalConfigFile)
}

// ProjectConfigPaths returns the paths to check for project configuration.
func (l *KoanfLoader) ProjectConfigPaths() []string {
	return []string{
		filepath.Join(l.workDir, ProjectConfigDir, ProjectConfigFile),
		filepath.Join(l.workDir, ProjectConfigFileAlt),
	}
}

// findProjectConfig checks for project config files and returns the first found.
func (l *KoanfLoader) findProjectConfig() string {
	for _, path := range l.ProjectConfigPaths() {
		if fileExists(path) {
			return path
		}
	}

	return ""
}

// HasGlobalConfig checks if a global configuration file exists.
func (l *KoanfLoader) HasGlobalConfig() bool {
	return fileExists(l.GlobalConfigPath())
}

// FindProjectConfigPath returns the path to the project config file if one exists.
// Returns empty string if no project config file is found.
func (l *KoanfLoader) FindProjectConfigPath() string {
	return l.findProjectConfig()
}

// Sources lists the configuration files Load would read, in load order.
func (l *KoanfLoader) Sources() []string {
	var out []string

	if l.HasGlobalConfig() {
		out = append(out, l.GlobalConfigPath())
	}

	if l.configFile != "" {
		return append(out, l.configFile)
	}

	if p := l.findProjectConfig(); p != "" {
		out = append(out, p)
	}

	return out
}

// defaultsToMap converts DefaultConfig to a map for koanf loading.
func defaultsToMap() map[string]any {
	return map[string]any{
		"version": config.CurrentConfigVersion,
		"analyzer": map[string]any{
			"parallel":            false,
			"max_workers":         0,
			"max_file_size":       int64(config.DefaultMaxFileSize),
			"max_files_in_flight": config.DefaultMaxFilesInFlight,
			"extensions":          config.DefaultExtensions,
			"exclude":             config.DefaultExclude,
		},
		"rules": map[string]any{
			"disabled": []string{},
			"code_organization": map[string]any{
				"max_lines":   config.DefaultMaxLines,
				"max_nesting": config.DefaultMaxNesting,
			},
		},
		"output": map[string]any{
			"format":    config.FormatTable,
			"fail_on":   "",
			"min_score": 0,
		},
	}
}

// fileExists checks if a file exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}

	return !info.IsDir()
}
