package language

import (
	"os"
	"strings"
	"unicode/utf8"
)

// Classify maps a path to a label using only its final segment. A reserved
// filename wins over the extension; anything unmatched is Unknown. The path
// does not need to exist.
func Classify(path string) Language {
	name, ok := fileName(path)
	if !ok {
		return Unknown
	}

	if utf8.ValidString(name) {
		if l, found := reservedFilenames[strings.ToLower(name)]; found {
			return l
		}
	}

	ext, ok := extension(name)
	if !ok || !utf8.ValidString(ext) {
		return Unknown
	}
	if l, found := extensions[strings.ToLower(ext)]; found {
		return l
	}
	return Unknown
}

// ClassifyAll classifies each path in order.
func ClassifyAll(paths []string) []Language {
	out := make([]Language, len(paths))
	for i, p := range paths {
		out[i] = Classify(p)
	}
	return out
}

func isSeparator(r rune) bool {
	return r == '/' || r == os.PathSeparator
}

// fileName returns the final normal segment of path. "." segments are
// skipped; a path that is empty, a root, or ends in ".." has no filename.
func fileName(path string) (string, bool) {
	segments := strings.FieldsFunc(path, isSeparator)
	for i := len(segments) - 1; i >= 0; i-- {
		switch segments[i] {
		case ".":
			continue
		case "..":
			return "", false
		default:
			return segments[i], true
		}
	}
	return "", false
}

// extension returns the text after the last dot of name. A leading dot alone
// does not start an extension, so ".env" has none while "prod.env" has "env".
func extension(name string) (string, bool) {
	idx := strings.LastIndexByte(name, '.')
	if idx <= 0 {
		return "", false
	}
	return name[idx+1:], true
}
