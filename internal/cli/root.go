package cli

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"

	"pathlang/internal/config"
)

// Exit codes returned by the pathlang binary.
const (
	ExitSuccess          = 0
	ExitGenericError     = 1
	ExitConfigInvalid    = 2
	ExitRootInaccessible = 3
	ExitStoreFailure     = 4
)

// GlobalFlags holds flags shared across all commands.
type GlobalFlags struct {
	Dir        string
	ConfigPath string
	StateDir   string
	JSON       bool
	Quiet      bool
}

var globalFlags GlobalFlags

// exitError carries the process exit code alongside the cause.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func withExitCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// ExitCode maps an error returned by Execute to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitGenericError
}

// NewRootCmd builds the full command tree. Each call resets global flags so
// tests can execute commands repeatedly.
func NewRootCmd() *cobra.Command {
	globalFlags = GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:           "pathlang",
		Short:         "Classify files by language from their names",
		Long:          "pathlang maps file paths to language labels using reserved filenames and extensions, and can scan, store and report on whole directory trees.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&globalFlags.Dir, "dir", ".", "root directory to scan")
	rootCmd.PersistentFlags().StringVar(&globalFlags.ConfigPath, "config", config.DefaultConfigFile, "config file path (relative to --dir)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.StateDir, "state-dir", "", "state directory (default: <dir>/.pathlang)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.JSON, "json", false, "emit JSON output")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.Quiet, "quiet", false, "reduce output")

	rootCmd.AddCommand(newClassifyCmd())
	rootCmd.AddCommand(newScanCmd())
	rootCmd.AddCommand(newLanguagesCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newFilesCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the command tree with process args.
func Execute() error {
	return NewRootCmd().Execute()
}

// loadOptions maps global flags to config.Options. A relative --state-dir is
// taken relative to the working directory, unlike state.dir from config.
func loadOptions() config.Options {
	overrides := &config.Overrides{}
	if globalFlags.StateDir != "" {
		stateDir := globalFlags.StateDir
		if abs, err := filepath.Abs(stateDir); err == nil {
			stateDir = abs
		}
		overrides.StateDir = &stateDir
	}
	if globalFlags.JSON {
		format := config.FormatJSON
		overrides.Format = &format
	}
	return config.Options{
		Dir:        globalFlags.Dir,
		ConfigPath: globalFlags.ConfigPath,
		Overrides:  overrides,
	}
}

// loadConfig applies global flag overrides and maps failures to
// ExitConfigInvalid.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(loadOptions())
	if err != nil {
		return config.Config{}, withExitCode(ExitConfigInvalid, err)
	}
	return cfg, nil
}

func jsonOutput(cfg config.Config) bool {
	return globalFlags.JSON || cfg.Output.Format == config.FormatJSON
}
