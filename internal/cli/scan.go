package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"pathlang/internal/config"
	"pathlang/internal/scan"
	"pathlang/internal/store"
)

func newScanCmd() *cobra.Command {
	var (
		save bool
		list bool
	)
	cmd := &cobra.Command{
		Use:   "scan [dir]",
		Short: "Walk a directory and report files per language",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				globalFlags.Dir = args[0]
			}
			return runScan(cmd, save, list)
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "persist results into the state database")
	cmd.Flags().BoolVar(&list, "list", false, "print every classified file")
	return cmd
}

type scanOutput struct {
	Root    string       `json:"root"`
	Summary scan.Summary `json:"summary"`
	Skipped skipCounts   `json:"skipped"`
	Files   []scan.Entry `json:"files,omitempty"`
	Skips   []scan.Skip  `json:"skips,omitempty"`
	SavedTo string       `json:"saved_to,omitempty"`
}

type skipCounts struct {
	Excluded  int64 `json:"excluded"`
	Oversized int64 `json:"oversized"`
	Errors    int64 `json:"errors"`
}

func runScan(cmd *cobra.Command, save, list bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var skips []scan.Skip
	progress := &scan.Progress{}
	opts := scanOptions(cfg)
	opts.Progress = progress
	opts.OnSkip = func(s scan.Skip) { skips = append(skips, s) }

	var entries []scan.Entry
	if showScanProgress(cmd, cfg) {
		entries, err = walkWithProgress(cmd.Context(), cmd.ErrOrStderr(), globalFlags.Dir, opts)
	} else {
		entries, err = scan.Walk(cmd.Context(), globalFlags.Dir, opts)
	}
	if err != nil {
		if errors.Is(err, os.ErrNotExist) || errors.Is(err, os.ErrPermission) || errors.Is(err, scan.ErrNotDirectory) {
			return withExitCode(ExitRootInaccessible, fmt.Errorf("root directory inaccessible: %w", err))
		}
		return err
	}

	snap := progress.Snapshot()
	result := scanOutput{
		Root:    globalFlags.Dir,
		Summary: scan.Summarize(entries),
		Skipped: skipCounts{Excluded: snap.Excluded, Oversized: snap.Oversized, Errors: snap.Errors},
	}
	if list {
		result.Files = entries
		result.Skips = skips
	}
	if save {
		dbPath := cfg.DBPath()
		if err := saveScan(cmd, dbPath, entries); err != nil {
			return withExitCode(ExitStoreFailure, fmt.Errorf("save scan: %w", err))
		}
		result.SavedTo = dbPath
	}

	out := cmd.OutOrStdout()
	if jsonOutput(cfg) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	s := newStyles(out, false)
	if list {
		for _, e := range entries {
			fmt.Fprintf(out, "%s\t%s\n", e.RelPath, e.Language)
		}
		for _, sk := range skips {
			fmt.Fprintf(out, "%s\t%s\n", skipPath(sk), s.dim(describeSkip(sk)))
		}
		fmt.Fprintln(out)
	}
	rows := make([][]string, 0, len(result.Summary.Languages))
	for _, stat := range result.Summary.Languages {
		rows = append(rows, []string{
			stat.Language.String(),
			stat.Extension,
			strconv.Itoa(stat.Files),
			strconv.FormatInt(stat.Bytes, 10),
		})
	}
	if !globalFlags.Quiet {
		fmt.Fprintln(out, s.sectionHeader("Scan of "+globalFlags.Dir))
	}
	fmt.Fprint(out, s.table([]string{"LANGUAGE", "EXTENSION", "FILES", "BYTES"}, rows))
	fmt.Fprintln(out, s.stat("files", result.Summary.TotalFiles), s.stat("bytes", result.Summary.TotalBytes), s.stat("languages", len(result.Summary.Languages)))
	if skipped := result.Skipped; !globalFlags.Quiet && skipped != (skipCounts{}) {
		fmt.Fprintln(out, s.dim("skipped:"), s.stat("excluded", skipped.Excluded), s.stat("oversized", skipped.Oversized), s.stat("errors", skipped.Errors))
	}
	if result.SavedTo != "" && !globalFlags.Quiet {
		fmt.Fprintln(out, s.success("Saved to "+result.SavedTo))
	}
	return nil
}

func scanOptions(cfg config.Config) scan.Options {
	return scan.Options{
		MaxSizeBytes:   cfg.MaxFileBytes(),
		PathExcludes:   cfg.Scan.PathExcludes,
		UseGitIgnore:   cfg.Scan.GitIgnore,
		FollowSymlinks: cfg.Scan.FollowSymlinks,
		IncludeUnknown: cfg.Scan.IncludeUnknown,
		StateDir:       cfg.StateDir(),
	}
}

func skipPath(sk scan.Skip) string {
	if sk.Dir {
		return sk.RelPath + "/"
	}
	return sk.RelPath
}

// describeSkip renders a skip like "skipped: gitignore *.log (.gitignore)".
func describeSkip(sk scan.Skip) string {
	if sk.Rule == nil {
		return "skipped: " + sk.Reason
	}
	return fmt.Sprintf("skipped: %s %s (%s)", sk.Reason, sk.Rule.Pattern, sk.Rule.Origin)
}

func saveScan(cmd *cobra.Command, dbPath string, entries []scan.Entry) error {
	st := store.NewSQLiteStore(dbPath)
	defer func() { _ = st.Close() }()

	now := time.Now().Unix()
	records := make([]store.FileRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, store.FileRecord{
			RelPath:     e.RelPath,
			Language:    e.Language,
			Extension:   e.Language.Extension(),
			SizeBytes:   e.SizeBytes,
			MTimeUnix:   e.MTimeUnix,
			ScannedUnix: now,
		})
	}
	return st.ReplaceScan(cmd.Context(), records)
}
