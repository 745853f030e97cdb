package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"pathlang/internal/scan"
)

const (
	DefaultConfigFile = "pathlang.toml"
	DefaultStateDir   = ".pathlang"
	DefaultDBName     = "files.sqlite"
	DefaultMaxFileMB  = 20
	// MaxFileMBLimit keeps MaxFileBytes well inside int64.
	MaxFileMBLimit = 1 << 20

	FormatText = "text"
	FormatJSON = "json"
)

// OutputFormats lists the accepted values for output.format.
var OutputFormats = []string{FormatText, FormatJSON}

type Config struct {
	Scan   ScanConfig   `toml:"scan"`
	State  StateConfig  `toml:"state"`
	Output OutputConfig `toml:"output"`

	// Root is the project directory a relative State.Dir is resolved
	// against. Load sets it from Options.Dir.
	Root string `toml:"-"`
}

type ScanConfig struct {
	PathExcludes   []string `toml:"path_excludes"`
	GitIgnore      bool     `toml:"gitignore"`
	FollowSymlinks bool     `toml:"follow_symlinks"`
	MaxFileMB      int      `toml:"max_file_mb"`
	IncludeUnknown bool     `toml:"include_unknown"`
}

type StateConfig struct {
	Dir string `toml:"dir"`
}

type OutputConfig struct {
	Format string `toml:"format"`
}

func Default() Config {
	return Config{
		Scan: ScanConfig{
			PathExcludes:   slices.Clone(scan.DefaultPathExcludes),
			GitIgnore:      true,
			FollowSymlinks: false,
			MaxFileMB:      DefaultMaxFileMB,
			IncludeUnknown: true,
		},
		State: StateConfig{
			Dir: DefaultStateDir,
		},
		Output: OutputConfig{
			Format: FormatText,
		},
	}
}

// MaxFileBytes converts the configured megabyte cap to bytes.
func (c Config) MaxFileBytes() int64 {
	return int64(c.Scan.MaxFileMB) * 1024 * 1024
}

// StateDir returns State.Dir, joined with Root when it is relative.
func (c Config) StateDir() string {
	if filepath.IsAbs(c.State.Dir) || c.Root == "" {
		return c.State.Dir
	}
	return filepath.Join(c.Root, c.State.Dir)
}

// DBPath returns the location of the scan database inside the state dir.
func (c Config) DBPath() string {
	return filepath.Join(c.StateDir(), DefaultDBName)
}

// Options controls Load. Dir is the project root: a relative ConfigPath,
// the .env and .env.local files and a relative state.dir all resolve against
// it, and empty means the working directory. ConfigPath defaults to
// DefaultConfigFile. Overrides apply last; nil fields are left untouched.
type Options struct {
	Dir        string
	ConfigPath string
	SkipDotEnv bool
	Overrides  *Overrides
}

func (o Options) root() string {
	if strings.TrimSpace(o.Dir) == "" {
		return "."
	}
	return o.Dir
}

// Path returns the config file location for these options.
func (o Options) Path() string {
	p := strings.TrimSpace(o.ConfigPath)
	if p == "" {
		p = DefaultConfigFile
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(o.root(), p)
}

// Overrides holds CLI flag values that win over every other source.
type Overrides struct {
	StateDir *string
	Format   *string
}

// Load builds config with precedence: defaults → .env/.env.local → toml file
// → env vars → Overrides.
func Load(opts Options) (Config, error) {
	if !opts.SkipDotEnv {
		if err := loadDotEnvPrecedence(opts.root()); err != nil {
			return Config{}, fmt.Errorf("CONFIG_INVALID: load dotenv files: %w", err)
		}
	}

	cfg := Default()
	if err := mergeFile(&cfg, opts.Path()); err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	if opts.Overrides != nil {
		applyOverrides(&cfg, opts.Overrides)
	}
	cfg.Root = opts.root()

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func mergeFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("CONFIG_INVALID: stat config %s: %w", path, err)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("CONFIG_INVALID: malformed TOML in %s: %w", path, err)
	}
	cfg.Scan.PathExcludes = normalizeStringSlice(cfg.Scan.PathExcludes)
	return nil
}

func mergeEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("PATHLANG_STATE_DIR")); v != "" {
		cfg.State.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("PATHLANG_FORMAT")); v != "" {
		cfg.Output.Format = strings.ToLower(v)
	}
	if err := envBool("PATHLANG_GITIGNORE", &cfg.Scan.GitIgnore); err != nil {
		return err
	}
	if err := envBool("PATHLANG_FOLLOW_SYMLINKS", &cfg.Scan.FollowSymlinks); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv("PATHLANG_MAX_FILE_MB")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("CONFIG_INVALID: PATHLANG_MAX_FILE_MB=%q is not an integer", v)
		}
		cfg.Scan.MaxFileMB = parsed
	}
	if v, ok := os.LookupEnv("PATHLANG_PATH_EXCLUDES"); ok {
		cfg.Scan.PathExcludes = MergeExcludes(cfg.Scan.PathExcludes, v)
	}
	return nil
}

func envBool(name string, dst *bool) error {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("CONFIG_INVALID: %s=%q is not a boolean", name, v)
	}
	*dst = parsed
	return nil
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o.StateDir != nil && strings.TrimSpace(*o.StateDir) != "" {
		cfg.State.Dir = *o.StateDir
	}
	if o.Format != nil && strings.TrimSpace(*o.Format) != "" {
		cfg.Output.Format = strings.ToLower(*o.Format)
	}
}

// MergeExcludes appends comma-separated globs to existing, keeping
// first-seen order and dropping duplicates.
func MergeExcludes(existing []string, csv string) []string {
	merged := make([]string, 0, len(existing))
	seen := make(map[string]struct{}, len(existing))
	add := func(value string) {
		value = strings.TrimSpace(value)
		if value == "" {
			return
		}
		if _, ok := seen[value]; ok {
			return
		}
		seen[value] = struct{}{}
		merged = append(merged, value)
	}
	for _, value := range existing {
		add(value)
	}
	for _, value := range strings.Split(csv, ",") {
		add(value)
	}
	return merged
}

func normalizeStringSlice(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, value := range values {
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			continue
		}
		out = append(out, trimmed)
	}
	return out
}

// Save writes cfg as TOML, creating parent directories as needed.
func Save(path string, cfg Config) error {
	if strings.TrimSpace(path) == "" {
		return errors.New("config path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write config file %s: %w", path, err)
	}
	return nil
}
