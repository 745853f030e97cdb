package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"pathlang/internal/config"
	"pathlang/internal/language"
	"pathlang/internal/store"
)

var errNoScan = errors.New("no saved scan")

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show per-language counts from the last saved scan",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
}

func newFilesCmd() *cobra.Command {
	var (
		lang   string
		limit  int
		offset int
	)
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List files from the last saved scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFiles(cmd, lang, limit, offset)
		},
	}
	cmd.Flags().StringVar(&lang, "language", "", "only list files with this label (e.g. Rust)")
	cmd.Flags().IntVar(&limit, "limit", 200, "maximum number of files to print")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of files to skip")
	return cmd
}

// openSavedStore opens the state database, returning errNoScan when no scan
// has been saved yet rather than creating an empty database.
func openSavedStore(cfg config.Config) (*store.SQLiteStore, error) {
	dbPath := cfg.DBPath()
	if _, err := os.Stat(dbPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errNoScan
		}
		return nil, withExitCode(ExitStoreFailure, err)
	}
	return store.NewSQLiteStore(dbPath), nil
}

func printNoScan(cmd *cobra.Command, cfg config.Config) {
	s := newStyles(cmd.ErrOrStderr(), false)
	fmt.Fprintln(cmd.ErrOrStderr(), s.warnPrefix(), "No scan found at", cfg.DBPath(), "- run 'pathlang scan --save' first.")
}

func runStats(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	st, err := openSavedStore(cfg)
	if errors.Is(err, errNoScan) {
		printNoScan(cmd, cfg)
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	counts, err := st.LanguageCounts(cmd.Context())
	if err != nil {
		return withExitCode(ExitStoreFailure, fmt.Errorf("read stats: %w", err))
	}

	out := cmd.OutOrStdout()
	if jsonOutput(cfg) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(counts)
	}

	s := newStyles(out, false)
	var totalFiles, totalBytes int64
	rows := make([][]string, 0, len(counts))
	for _, c := range counts {
		totalFiles += c.Files
		totalBytes += c.Bytes
		rows = append(rows, []string{
			c.Language.String(),
			strconv.FormatInt(c.Files, 10),
			strconv.FormatInt(c.Bytes, 10),
		})
	}
	if !globalFlags.Quiet {
		fmt.Fprintln(out, s.sectionHeader("Saved scan"))
		fmt.Fprintln(out, s.kv("Database", cfg.DBPath()))
	}
	fmt.Fprint(out, s.table([]string{"LANGUAGE", "FILES", "BYTES"}, rows))
	fmt.Fprintln(out, s.stat("files", totalFiles), s.stat("bytes", totalBytes))
	return nil
}

func runFiles(cmd *cobra.Command, langName string, limit, offset int) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var filter *language.Language
	if langName != "" {
		l, err := language.Parse(langName)
		if err != nil {
			return err
		}
		filter = &l
	}

	st, err := openSavedStore(cfg)
	if errors.Is(err, errNoScan) {
		printNoScan(cmd, cfg)
		return nil
	}
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	files, total, err := st.ListFiles(cmd.Context(), filter, limit, offset)
	if err != nil {
		return withExitCode(ExitStoreFailure, fmt.Errorf("list files: %w", err))
	}

	out := cmd.OutOrStdout()
	if jsonOutput(cfg) {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Total int64              `json:"total"`
			Files []store.FileRecord `json:"files"`
		}{Total: total, Files: files})
	}

	for _, f := range files {
		fmt.Fprintf(out, "%s\t%s\t%s\n", f.RelPath, f.Language, f.Extension)
	}
	if !globalFlags.Quiet {
		s := newStyles(out, false)
		fmt.Fprintln(out, s.dim(fmt.Sprintf("showing %d of %d", len(files), total)))
	}
	return nil
}
