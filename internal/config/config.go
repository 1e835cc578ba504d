package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"mathtype/internal/convert"
	"mathtype/internal/logger"
	"mathtype/internal/mapping"

	"gopkg.in/yaml.v3"
)

// DefaultFileName is the optional settings file looked up next to the
// executable.
const DefaultFileName = "mathtype.yaml"

const DefaultHistorySize = 200

// Settings configures one process. Precedence: defaults, settings file,
// environment, command line flags.
type Settings struct {
	MappingFile   string `yaml:"mapping_file"`
	DynamicRules  bool   `yaml:"dynamic_rules"`
	TrailingSpace bool   `yaml:"trailing_space"`
	LogLevel      string `yaml:"log_level"`
	JSONLogs      bool   `yaml:"json_logs"`
	WatchMapping  bool   `yaml:"watch_mapping"`
	HistorySize   int    `yaml:"history_size"`
}

// Default returns the settings used when no file exists. The mapping file
// lives in baseDir.
func Default(baseDir string) Settings {
	return Settings{
		MappingFile:  filepath.Join(baseDir, mapping.DefaultFileName),
		DynamicRules: true,
		LogLevel:     "info",
		WatchMapping: true,
		HistorySize:  DefaultHistorySize,
	}
}

// ExecutableDir is the directory of the running program, where the mapping
// document and the settings file are resolved.
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// Load reads the settings file at path on top of the defaults for baseDir.
// A missing file is not an error. A relative mapping_file is resolved
// against the directory of the settings file.
func Load(path, baseDir string) (Settings, error) {
	s := Default(baseDir)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}

	if s.MappingFile != "" && !filepath.IsAbs(s.MappingFile) {
		s.MappingFile = filepath.Join(filepath.Dir(path), s.MappingFile)
	}
	return s, s.Validate()
}

// ApplyEnv overrides settings from the environment.
func (s *Settings) ApplyEnv(getenv func(string) string) {
	if v := getenv("MATHTYPE_MAPPING"); v != "" {
		s.MappingFile = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if v := getenv("MATHTYPE_LOG_LEVEL"); v != "" {
		s.LogLevel = v
	}
	if getenv("DEBUG") == "1" {
		s.LogLevel = "debug"
	}
	if getenv("MATHTYPE_JSON_LOGS") == "true" {
		s.JSONLogs = true
	}
}

func (s *Settings) Validate() error {
	if strings.TrimSpace(s.MappingFile) == "" {
		return errors.New("mapping_file must not be empty")
	}
	if _, err := logger.ParseLevel(s.LogLevel); err != nil {
		return err
	}
	if s.HistorySize <= 0 {
		s.HistorySize = DefaultHistorySize
	}
	return nil
}

func (s Settings) Level() logger.LogLevel {
	level, err := logger.ParseLevel(s.LogLevel)
	if err != nil {
		return logger.InfoLevel
	}
	return level
}

func (s Settings) ConverterOptions() convert.Options {
	return convert.Options{
		DynamicRules:  s.DynamicRules,
		TrailingSpace: s.TrailingSpace,
	}
}

// NewLogger builds the process logger described by the settings.
func (s Settings) NewLogger() logger.Logger {
	if s.JSONLogs {
		return logger.NewJSONLogger(s.Level())
	}
	return logger.NewConsoleLogger(s.Level())
}
