package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/twiced-technology-gmbh/tada/internal/clierr"
)

const fileMode = 0o600

// Sentinel errors.
var (
	ErrNotFound = errors.New("no tada config found (run 'tada init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the tada configuration.
type Config struct {
	Version             int            `yaml:"version"`
	TodoFile            string         `yaml:"todo_file"`
	DoneFile            string         `yaml:"done_file"`
	Defaults            DefaultsConfig `yaml:"defaults"`
	PreserveLineNumbers bool           `yaml:"preserve_line_numbers"`
	AutoArchive         bool           `yaml:"auto_archive"`
	Sort                string         `yaml:"sort"`
	Log                 LogConfig      `yaml:"log"`
	TUI                 TUIConfig      `yaml:"tui,omitempty"`

	// dir is the absolute path to the directory holding the config (not serialized).
	dir string `yaml:"-"`
}

// DefaultsConfig holds default values for new and completed tasks.
type DefaultsConfig struct {
	Priority         string `yaml:"priority,omitempty"`
	AddCreationDate  bool   `yaml:"add_creation_date"`
	CompletePriority string `yaml:"complete_priority"`
}

// LogConfig holds console logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TUIConfig holds TUI-specific display settings.
type TUIConfig struct {
	ShowCompleted bool `yaml:"show_completed"`
}

// Dir returns the absolute path to the config directory.
func (c *Config) Dir() string {
	return c.dir
}

// SetDir sets the config directory path.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// ConfigPath returns the absolute path to the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.dir, ConfigFileName)
}

// TodoPath returns the absolute path to the todo file.
func (c *Config) TodoPath() string {
	return c.resolve(c.TodoFile)
}

// DonePath returns the absolute path to the done file.
func (c *Config) DonePath() string {
	return c.resolve(c.DoneFile)
}

// ActivityPath returns the absolute path to the activity log.
func (c *Config) ActivityPath() string {
	return filepath.Join(c.dir, ActivityLogName)
}

func (c *Config) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.dir, p)
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version:  CurrentVersion,
		TodoFile: DefaultTodoFile,
		DoneFile: DefaultDoneFile,
		Defaults: DefaultsConfig{
			AddCreationDate:  true,
			CompletePriority: DefaultCompletePriority,
		},
		Sort: DefaultSort,
		Log:  LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if c.TodoFile == "" {
		return fmt.Errorf("%w: todo_file is required", ErrInvalid)
	}
	if c.DoneFile == "" {
		return fmt.Errorf("%w: done_file is required", ErrInvalid)
	}
	if c.resolve(c.TodoFile) == c.resolve(c.DoneFile) {
		return fmt.Errorf("%w: todo_file and done_file must differ", ErrInvalid)
	}
	if p := c.Defaults.Priority; p != "" && (len(p) != 1 || p[0] < 'A' || p[0] > 'Z') {
		return fmt.Errorf("%w: defaults.priority %q must be a letter A-Z", ErrInvalid, p)
	}
	if !contains(CompletePolicies, c.Defaults.CompletePriority) {
		return fmt.Errorf("%w: defaults.complete_priority %q not in %v", ErrInvalid, c.Defaults.CompletePriority, CompletePolicies)
	}
	if !contains(SortKeys, c.Sort) {
		return fmt.Errorf("%w: sort %q not in %v", ErrInvalid, c.Sort, SortKeys)
	}
	if !contains(LogLevels, c.Log.Level) {
		return fmt.Errorf("%w: log.level %q not in %v", ErrInvalid, c.Log.Level, LogLevels)
	}
	if !contains(LogFormats, c.Log.Format) {
		return fmt.Errorf("%w: log.format %q not in %v", ErrInvalid, c.Log.Format, LogFormats)
	}
	return nil
}

// Init creates a config in the given directory with default settings and an
// empty todo file if none exists.
func Init(dir string) (*Config, error) {
	const dirMode = 0o750

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg := NewDefault()
	cfg.SetDir(absDir)

	if err := os.MkdirAll(absDir, dirMode); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	if err := touch(cfg.TodoPath()); err != nil {
		return nil, fmt.Errorf("creating todo file: %w", err)
	}

	return cfg, nil
}

func touch(path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, fileMode) //nolint:gosec // path from config
	if err != nil {
		return err
	}
	return f.Close()
}

// Save writes the config to its config file.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.ConfigPath(), data, fileMode)
}

// Load reads and validates the config from the given directory.
func Load(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	path := filepath.Join(absDir, ConfigFileName)
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.dir = absDir

	// Migrate old config versions forward before validating.
	oldVersion := cfg.Version
	if err := migrate(&cfg); err != nil {
		return nil, err
	}

	// Persist migrated config so future loads skip re-migration.
	if cfg.Version != oldVersion {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("saving migrated config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// FindDir walks upward from startDir looking for a directory containing
// .tada.yml. When none is found the user config directory is tried.
func FindDir(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if global, ok := globalDir(); ok {
		return global, nil
	}
	return "", clierr.New(clierr.FileNotFound, ErrNotFound.Error()).WithCause(ErrNotFound)
}

func globalDir() (string, bool) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", false
	}
	dir := filepath.Join(base, GlobalDirName)
	if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err != nil {
		return "", false
	}
	return dir, true
}

func contains(slice []string, item string) bool {
	return IndexOf(slice, item) >= 0
}

// IndexOf returns the index of item in slice, or -1 if not found.
func IndexOf(slice []string, item string) int {
	for i, s := range slice {
		if s == item {
			return i
		}
	}
	return -1
}
