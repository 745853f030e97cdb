package language

import "sort"

// reservedFilenames is keyed by lowercase filename; every key must already be
// lowercase or it can never match.
var reservedFilenames = map[string]Language{
	"cargo.toml":         Cargo,
	"cargo.lock":         Cargolock,
	"cmakelists.txt":     CMake,
	"docker-compose.yml": DockerCompose,
	"dockerfile":         Dockerfile,
	".dockerignore":      DockerIgnore,
	".gitignore":         GitIgnore,
	"makefile":           Makefile,
	"readme.md":          ReadMe,
}

// extensions is keyed by lowercase extension without the leading dot.
var extensions = map[string]Language{
	"asm":    Assembly,
	"bash":   Bash,
	"bat":    Batch,
	"cmd":    Batch,
	"c":      C,
	"c++":    CPP,
	"cpp":    CPP,
	"cxx":    CPP,
	"css":    CSS,
	"ex":     Elixir,
	"elm":    Elm,
	"env":    Env,
	"erl":    Erlang,
	"go":     Go,
	"h":      H,
	"hs":     Haskell,
	"hpp":    HPP,
	"html":   HTML,
	"java":   Java,
	"js":     JavaScript,
	"json":   Json,
	"ipynb":  Jupyter,
	"kt":     Kotlin,
	"lisp":   Lisp,
	"lua":    Lua,
	"nix":    Nix,
	"md":     Markdown,
	"ml":     OCaml,
	"perl":   Perl,
	"php":    PHP,
	"ps1":    PowerShell,
	"py":     Python,
	"r":      R,
	"rkt":    Racket,
	"rb":     Ruby,
	"rs":     Rust,
	"sh":     Shell,
	"sql":    SQL,
	"svelte": Svelte,
	"svg":    SVG,
	"swift":  Swift,
	"txt":    Text,
	"toml":   Toml,
	"ts":     Typescript,
	"vue":    Vue,
	"xaml":   XAML,
	"xml":    XML,
	"yaml":   Yaml,
	"yml":    Yaml,
	"zig":    Zig,
	"zsh":    Zsh,
}

var canonicalExtensions = [...]string{
	Assembly:      "asm",
	Bash:          "bash",
	Batch:         "bat",
	C:             "c",
	Cargo:         "toml",
	Cargolock:     "lock",
	CMake:         "cmake",
	CPP:           "cpp",
	CSS:           "css",
	DockerCompose: "yaml",
	Dockerfile:    "dockerfile",
	DockerIgnore:  "dockerfile",
	Elixir:        "elixir",
	Elm:           "elm",
	Env:           "dotenv",
	Erlang:        "erlang",
	GitIgnore:     "git",
	Go:            "go",
	H:             "c",
	Haskell:       "haskell",
	HPP:           "cpp",
	HTML:          "html",
	Java:          "java",
	JavaScript:    "javascript",
	Json:          "json",
	Jupyter:       "jupyter",
	Kotlin:        "kotlin",
	Lisp:          "lisp",
	Lua:           "lua",
	Makefile:      "makefile",
	Markdown:      "markdown",
	Nix:           "nix",
	OCaml:         "ocaml",
	Perl:          "perl",
	PHP:           "php",
	PowerShell:    "powershell",
	Python:        "python",
	R:             "r",
	Racket:        "racket",
	ReadMe:        "markdown",
	Ruby:          "ruby",
	Rust:          "rust",
	Shell:         "bash",
	SQL:           "sql",
	Svelte:        "svelte",
	SVG:           "svg",
	Swift:         "swift",
	Text:          "txt",
	Toml:          "toml",
	Typescript:    "typescript",
	Vue:           "vue",
	XAML:          "xml",
	XML:           "xml",
	Yaml:          "yaml",
	Zig:           "zig",
	Zsh:           "bash",
	Unknown:       "unknown",
}

// CanonicalExtension returns the display extension for l. Several labels
// share one string (Shell, Zsh and Bash all report "bash").
func CanonicalExtension(l Language) string {
	if !l.valid() {
		return canonicalExtensions[Unknown]
	}
	return canonicalExtensions[l]
}

// ReservedFilenames returns the reserved filenames that map to l, sorted.
// Passing Unknown returns every reserved filename.
func ReservedFilenames(l Language) []string {
	return keysFor(reservedFilenames, l)
}

// Extensions returns the extensions (without dot) that map to l, sorted.
// Passing Unknown returns every known extension.
func Extensions(l Language) []string {
	return keysFor(extensions, l)
}

func keysFor(table map[string]Language, l Language) []string {
	out := make([]string, 0, 4)
	for key, mapped := range table {
		if l == Unknown || mapped == l {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}
