package config

import (
	"fmt"
	"strings"
)

// Validate checks enum and range constraints. Errors carry the
// CONFIG_INVALID prefix so the CLI can map them to exit code 2.
func Validate(cfg Config) error {
	if !stringIn(cfg.Output.Format, OutputFormats) {
		return fmt.Errorf("CONFIG_INVALID: output.format=%q; allowed: %s", cfg.Output.Format, strings.Join(OutputFormats, ", "))
	}
	if cfg.Scan.MaxFileMB <= 0 || cfg.Scan.MaxFileMB > MaxFileMBLimit {
		return fmt.Errorf("CONFIG_INVALID: scan.max_file_mb=%d; must be between 1 and %d", cfg.Scan.MaxFileMB, MaxFileMBLimit)
	}
	if strings.TrimSpace(cfg.State.Dir) == "" {
		return fmt.Errorf("CONFIG_INVALID: state.dir must not be empty\nSet env: PATHLANG_STATE_DIR=...\nOr run: pathlang config init")
	}
	for _, glob := range cfg.Scan.PathExcludes {
		if strings.Contains(glob, "\x00") {
			return fmt.Errorf("CONFIG_INVALID: scan.path_excludes entry %q contains a NUL byte", glob)
		}
	}
	return nil
}

func stringIn(value string, allowed []string) bool {
	for _, candidate := range allowed {
		if value == candidate {
			return true
		}
	}
	return false
}
