package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pathlang/internal/config"
)

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
	}

	var force, effective bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a pathlang.toml with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd, force, effective)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	initCmd.Flags().BoolVar(&effective, "effective", false, "write the effective config (file, env and flags merged) instead of the commented template")

	printCmd := &cobra.Command{
		Use:   "print",
		Short: "Print the effective config and where each value came from",
		Args:  cobra.NoArgs,
		RunE:  runConfigPrint,
	}

	configCmd.AddCommand(initCmd)
	configCmd.AddCommand(printCmd)
	return configCmd
}

func runConfigInit(cmd *cobra.Command, force, effective bool) error {
	path := loadOptions().Path()
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if effective {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		if !globalFlags.Quiet {
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
		}
		return nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(config.DefaultTOML), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if !globalFlags.Quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Wrote", path)
	}
	return nil
}

func runConfigPrint(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fields := config.EffectiveFields(cfg, loadOptions())

	out := cmd.OutOrStdout()
	if jsonOutput(cfg) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(fields)
	}

	s := newStyles(out, false)
	fmt.Fprintln(out, s.sectionHeader("Effective config"))
	for _, f := range fields {
		fmt.Fprintln(out, s.kv(f.Key, f.Value), s.dim("("+string(f.Source)+")"))
	}
	return nil
}
