package scan

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ignoreRule is one pattern line of a .gitignore file. base is the
// slash-separated directory holding the file, "" for the scan root.
type ignoreRule struct {
	globRule
	base    string
	negate  bool
	dirOnly bool
}

// ignoreStack is the ordered set of .gitignore rules in effect for a
// directory: ancestors first, so later rules override earlier ones.
type ignoreStack []ignoreRule

// loadGitIgnore reads absDir/.gitignore. A missing file yields no rules.
func loadGitIgnore(absDir, relDir string) ([]ignoreRule, error) {
	f, err := os.Open(filepath.Join(absDir, ".gitignore"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer func() { _ = f.Close() }()
	rules, err := parseGitIgnore(f, relDir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name(), err)
	}
	return rules, nil
}

func parseGitIgnore(r io.Reader, relDir string) ([]ignoreRule, error) {
	origin := ".gitignore"
	if relDir != "" {
		origin = relDir + "/.gitignore"
	}
	var rules []ignoreRule
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		rule, ok := parseGitIgnoreLine(scanner.Text())
		if !ok {
			continue
		}
		rule.base = relDir
		rule.Origin = origin
		rules = append(rules, rule)
	}
	return rules, scanner.Err()
}

// parseGitIgnoreLine follows gitignore(5): "#" starts a comment, "\#" and
// "\!" escape a literal first character, trailing spaces are dropped unless
// escaped with a backslash, a trailing "/" matches directories only and a
// slash anywhere else anchors the pattern to the .gitignore's directory.
func parseGitIgnoreLine(line string) (ignoreRule, bool) {
	line = trimUnescapedTrailingSpaces(strings.TrimSuffix(line, "\r"))
	if line == "" || line[0] == '#' {
		return ignoreRule{}, false
	}
	rule := ignoreRule{}
	rule.Pattern = line

	switch {
	case line[0] == '!':
		rule.negate = true
		line = line[1:]
	case strings.HasPrefix(line, `\!`), strings.HasPrefix(line, `\#`):
		line = line[1:]
	}

	if strings.HasSuffix(line, "/") {
		rule.dirOnly = true
		line = strings.TrimRight(line, "/")
	}
	if line == "" {
		return ignoreRule{}, false
	}

	anchored := strings.Contains(line, "/")
	line = strings.TrimPrefix(line, "/")
	rule.segments = strings.Split(line, "/")
	if !anchored {
		rule.segments = append([]string{"**"}, rule.segments...)
	}
	return rule, true
}

func trimUnescapedTrailingSpaces(line string) string {
	end := len(line)
	for end > 0 && line[end-1] == ' ' {
		if end >= 2 && line[end-2] == '\\' {
			break
		}
		end--
	}
	return line[:end]
}

// match reports whether relPath is ignored and, if so, which rule decided
// it. The last matching rule wins so "!pattern" can re-include a path.
func (s ignoreStack) match(relPath string, isDir bool) (Rule, bool) {
	var (
		decided Rule
		ignored bool
	)
	for _, rule := range s {
		if rule.dirOnly && !isDir {
			continue
		}
		target := relPath
		if rule.base != "" {
			rest, ok := strings.CutPrefix(relPath, rule.base+"/")
			if !ok {
				continue
			}
			target = rest
		}
		if matchSegments(rule.segments, splitRelPath(target)) {
			decided, ignored = rule.Rule, !rule.negate
		}
	}
	return decided, ignored
}
