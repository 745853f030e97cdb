package scan

import (
	"path"
	"path/filepath"
	"strings"
)

// Rule origins other than a .gitignore path.
const (
	OriginBuiltin = "builtin"
	OriginConfig  = "path_excludes"
	OriginState   = "state_dir"
)

// DefaultPathExcludes are the dependency and cache trees skipped unless the
// configured path_excludes replace them.
var DefaultPathExcludes = []string{
	"**/node_modules/**",
	"**/vendor/**",
	"**/__pycache__/**",
}

// builtinExcludes apply to every walk regardless of configuration.
var builtinExcludes = []string{"**/.git/**"}

// Rule is one exclusion pattern and where it was declared. For gitignore
// rules Origin is the slash-separated path of the .gitignore file.
type Rule struct {
	Pattern string `json:"pattern"`
	Origin  string `json:"origin"`
}

// globRule is a Rule split into slash segments; "**" spans any number of
// segments and every other segment is a path.Match pattern.
type globRule struct {
	Rule
	segments []string
}

// ruleSet holds path exclusion globs. The first matching rule decides.
type ruleSet []globRule

func newRuleSet(origin string, globs []string) ruleSet {
	rs := make(ruleSet, 0, len(globs))
	for _, glob := range globs {
		rs = rs.add(origin, glob)
	}
	return rs
}

func (rs ruleSet) add(origin, glob string) ruleSet {
	pattern := strings.TrimSpace(filepath.ToSlash(glob))
	pattern = strings.TrimPrefix(pattern, "./")
	pattern = strings.TrimPrefix(pattern, "/")
	if pattern == "" {
		return rs
	}
	segments := strings.Split(pattern, "/")
	if segments[len(segments)-1] == "" {
		// "dir/" excludes everything below dir.
		segments[len(segments)-1] = "**"
	}
	return append(rs, globRule{Rule: Rule{Pattern: glob, Origin: origin}, segments: segments})
}

// match reports the first rule excluding relPath. A directory is excluded
// when a rule matches it or matches an arbitrary entry directly inside it,
// so "**/dist/**" prunes dist itself.
func (rs ruleSet) match(relPath string, isDir bool) (Rule, bool) {
	segments := splitRelPath(relPath)
	if len(segments) == 0 {
		return Rule{}, false
	}
	var inside []string
	if isDir {
		inside = append(append(make([]string, 0, len(segments)+1), segments...), "")
	}
	for _, r := range rs {
		if matchSegments(r.segments, segments) || (isDir && matchSegments(r.segments, inside)) {
			return r.Rule, true
		}
	}
	return Rule{}, false
}

func splitRelPath(relPath string) []string {
	relPath = strings.Trim(filepath.ToSlash(relPath), "/")
	if relPath == "" || relPath == "." {
		return nil
	}
	return strings.Split(relPath, "/")
}

// matchSegments matches name against pattern segment by segment. It tracks
// the most recent "**" and, on a mismatch, lets that "**" absorb one more
// name segment before retrying.
func matchSegments(pattern, name []string) bool {
	pi, ni := 0, 0
	starPi, starNi := -1, 0
	for ni < len(name) {
		switch {
		case pi < len(pattern) && pattern[pi] == "**":
			starPi, starNi = pi, ni
			pi++
		case pi < len(pattern) && segmentMatch(pattern[pi], name[ni]):
			pi++
			ni++
		case starPi >= 0:
			starNi++
			pi, ni = starPi+1, starNi
		default:
			return false
		}
	}
	for pi < len(pattern) && pattern[pi] == "**" {
		pi++
	}
	return pi == len(pattern)
}

func segmentMatch(pattern, name string) bool {
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
