package scan

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"pathlang/internal/language"
)

const defaultMaxFileSizeBytes int64 = 20 * 1024 * 1024

// ErrNotDirectory is returned when the scan root is not a directory.
var ErrNotDirectory = errors.New("root is not a directory")

// Skip reasons reported through Options.OnSkip.
const (
	SkipExcluded  = "excluded"
	SkipGitIgnore = "gitignore"
	SkipOversized = "oversized"
)

// Entry is a classified regular file found under the scan root.
type Entry struct {
	AbsPath   string            `json:"-"`
	RelPath   string            `json:"path"`
	SizeBytes int64             `json:"size_bytes"`
	MTimeUnix int64             `json:"mtime_unix"`
	Language  language.Language `json:"language"`
}

// Skip describes a file or directory left out of the walk. Rule is nil for
// oversized files.
type Skip struct {
	RelPath string `json:"path"`
	Dir     bool   `json:"dir,omitempty"`
	Reason  string `json:"reason"`
	Rule    *Rule  `json:"rule,omitempty"`
}

// Options controls which files Walk reports.
//
// StateDir, when it lies inside the root, is pruned like .git. OnSkip is
// called synchronously for every excluded, ignored or oversized path and
// Progress, when set, receives counter updates.
type Options struct {
	MaxSizeBytes   int64
	PathExcludes   []string
	UseGitIgnore   bool
	FollowSymlinks bool
	IncludeUnknown bool
	StateDir       string
	OnSkip         func(Skip)
	Progress       *Progress
}

// DefaultOptions returns the options used when no config is supplied.
func DefaultOptions() Options {
	return Options{
		MaxSizeBytes:   defaultMaxFileSizeBytes,
		PathExcludes:   slices.Clone(DefaultPathExcludes),
		UseGitIgnore:   true,
		IncludeUnknown: true,
	}
}

// Walk visits rootDir in lexical order and classifies every regular file
// that survives the exclusion policies. Results are sorted by RelPath.
func Walk(ctx context.Context, rootDir string, options Options) ([]Entry, error) {
	if options.MaxSizeBytes <= 0 {
		options.MaxSizeBytes = defaultMaxFileSizeBytes
	}

	absRoot, err := filepath.Abs(rootDir)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	rootInfo, err := os.Stat(absRoot)
	if err != nil {
		return nil, fmt.Errorf("stat root: %w", err)
	}
	if !rootInfo.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, absRoot)
	}

	rootResolved := absRoot
	if resolved, err := filepath.EvalSymlinks(absRoot); err == nil {
		rootResolved = resolved
	}
	rootResolved = filepath.Clean(rootResolved)

	entries := make([]Entry, 0, 256)
	w := walker{
		rootResolved: rootResolved,
		options:      options,
		excludes:     append(newRuleSet(OriginBuiltin, builtinExcludes), newRuleSet(OriginConfig, options.PathExcludes)...),
		stateDirs:    stateDirCandidates(options.StateDir),
		entries:      &entries,
		visitedDirs:  map[string]struct{}{rootResolved: {}},
	}

	options.Progress.setRunning(true)
	defer options.Progress.setRunning(false)
	if err := w.walkDir(ctx, absRoot, "", nil); err != nil {
		return nil, err
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	return entries, nil
}

// stateDirCandidates returns the absolute and symlink-resolved forms of dir.
func stateDirCandidates(dir string) []string {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	out := []string{filepath.Clean(abs)}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil && resolved != out[0] {
		out = append(out, filepath.Clean(resolved))
	}
	return out
}

type walker struct {
	rootResolved string
	options      Options
	excludes     ruleSet
	stateDirs    []string
	entries      *[]Entry
	visitedDirs  map[string]struct{}
}

func (w *walker) skip(s Skip) {
	w.options.Progress.addExcluded()
	if w.options.OnSkip != nil {
		w.options.OnSkip(s)
	}
}

func (w *walker) walkDir(ctx context.Context, absDir, relDir string, parentRules ignoreStack) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rules := parentRules
	if w.options.UseGitIgnore {
		localRules, err := loadGitIgnore(absDir, relDir)
		if err != nil {
			log.Printf("scan: ignoring unreadable .gitignore: %v", err)
			w.options.Progress.addError()
		}
		if len(localRules) > 0 {
			rules = append(slices.Clone(parentRules), localRules...)
		}
	}

	dirEntries, err := os.ReadDir(absDir)
	if err != nil {
		if relDir != "" && errors.Is(err, fs.ErrPermission) {
			log.Printf("scan: skipping unreadable directory %s: %v", relDir, err)
			w.options.Progress.addError()
			return nil
		}
		return err
	}
	sort.Slice(dirEntries, func(i, j int) bool { return dirEntries[i].Name() < dirEntries[j].Name() })

	for _, entry := range dirEntries {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := entry.Name()
		relPath := name
		if relDir != "" {
			relPath = relDir + "/" + name
		}
		fullPath := filepath.Join(absDir, name)

		lstat, err := os.Lstat(fullPath)
		if err != nil {
			return err
		}

		if lstat.Mode()&os.ModeSymlink != 0 {
			if !w.options.FollowSymlinks {
				continue
			}
			if err := w.handleSymlink(ctx, fullPath, relPath, rules); err != nil {
				return err
			}
			continue
		}

		if lstat.IsDir() {
			if err := w.enterDir(ctx, fullPath, relPath, rules); err != nil {
				return err
			}
			continue
		}

		if !lstat.Mode().IsRegular() {
			continue
		}
		w.addFile(fullPath, relPath, lstat, rules)
	}
	return nil
}

func (w *walker) enterDir(ctx context.Context, absDir, relPath string, rules ignoreStack) error {
	if w.pruneDir(absDir, relPath, rules) {
		return nil
	}
	nextDir := filepath.Clean(absDir)
	if w.options.FollowSymlinks {
		if resolved, err := filepath.EvalSymlinks(nextDir); err == nil {
			nextDir = filepath.Clean(resolved)
		}
	}
	if _, ok := w.visitedDirs[nextDir]; ok {
		return nil
	}
	w.visitedDirs[nextDir] = struct{}{}
	return w.walkDir(ctx, nextDir, relPath, rules)
}

func (w *walker) handleSymlink(ctx context.Context, symlinkPath, relPath string, rules ignoreStack) error {
	resolvedPath, err := filepath.EvalSymlinks(symlinkPath)
	if err != nil {
		return nil
	}
	resolvedPath = filepath.Clean(resolvedPath)
	if !isWithinRoot(w.rootResolved, resolvedPath) {
		return nil
	}

	stat, err := os.Stat(symlinkPath)
	if err != nil {
		return nil
	}
	if stat.IsDir() {
		return w.enterDir(ctx, resolvedPath, relPath, rules)
	}
	if !stat.Mode().IsRegular() {
		return nil
	}
	w.addFile(resolvedPath, relPath, stat, rules)
	return nil
}

// pruneDir reports whether a directory is skipped along with everything
// below it.
func (w *walker) pruneDir(absDir, relPath string, rules ignoreStack) bool {
	if slices.Contains(w.stateDirs, filepath.Clean(absDir)) {
		w.skip(Skip{RelPath: relPath, Dir: true, Reason: SkipExcluded, Rule: &Rule{Pattern: relPath + "/", Origin: OriginState}})
		return true
	}
	if rule, ok := w.excludes.match(relPath, true); ok {
		w.skip(Skip{RelPath: relPath, Dir: true, Reason: SkipExcluded, Rule: &rule})
		return true
	}
	if !w.options.UseGitIgnore {
		return false
	}
	if rule, ok := rules.match(relPath, true); ok {
		w.skip(Skip{RelPath: relPath, Dir: true, Reason: SkipGitIgnore, Rule: &rule})
		return true
	}
	return false
}

func (w *walker) addFile(absPath, relPath string, info os.FileInfo, rules ignoreStack) {
	w.options.Progress.addScanned()
	if rule, ok := w.excludes.match(relPath, false); ok {
		w.skip(Skip{RelPath: relPath, Reason: SkipExcluded, Rule: &rule})
		return
	}
	if w.options.UseGitIgnore {
		if rule, ok := rules.match(relPath, false); ok {
			w.skip(Skip{RelPath: relPath, Reason: SkipGitIgnore, Rule: &rule})
			return
		}
	}
	if info.Size() > w.options.MaxSizeBytes {
		w.options.Progress.addOversized()
		if w.options.OnSkip != nil {
			w.options.OnSkip(Skip{RelPath: relPath, Reason: SkipOversized})
		}
		return
	}
	lang := language.Classify(relPath)
	w.options.Progress.addClassified(lang == language.Unknown)
	if lang == language.Unknown && !w.options.IncludeUnknown {
		return
	}
	*w.entries = append(*w.entries, Entry{
		AbsPath:   absPath,
		RelPath:   relPath,
		SizeBytes: info.Size(),
		MTimeUnix: info.ModTime().Unix(),
		Language:  lang,
	})
}

func isWithinRoot(rootResolved, candidate string) bool {
	rel, err := filepath.Rel(filepath.Clean(rootResolved), filepath.Clean(candidate))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return !strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel)
}
