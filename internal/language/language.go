package language

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownLanguage is returned by Parse when a name matches no label.
var ErrUnknownLanguage = errors.New("unknown language")

// Language is the closed set of labels a path can be classified into.
type Language int

const (
	Assembly Language = iota
	Bash
	Batch
	C
	Cargo
	Cargolock
	CMake
	CPP
	CSS
	DockerCompose
	Dockerfile
	DockerIgnore
	Elixir
	Elm
	Env
	Erlang
	GitIgnore
	Go
	H
	Haskell
	HPP
	HTML
	Java
	JavaScript
	Json
	Jupyter
	Kotlin
	Lisp
	Lua
	Makefile
	Markdown
	Nix
	OCaml
	Perl
	PHP
	PowerShell
	Python
	R
	Racket
	ReadMe
	Ruby
	Rust
	Shell
	SQL
	Svelte
	SVG
	Swift
	Text
	Toml
	Typescript
	Vue
	XAML
	XML
	Yaml
	Zig
	Zsh
	Unknown
)

var names = [...]string{
	Assembly:      "Assembly",
	Bash:          "Bash",
	Batch:         "Batch",
	C:             "C",
	Cargo:         "Cargo",
	Cargolock:     "Cargolock",
	CMake:         "CMake",
	CPP:           "CPP",
	CSS:           "CSS",
	DockerCompose: "DockerCompose",
	Dockerfile:    "Dockerfile",
	DockerIgnore:  "DockerIgnore",
	Elixir:        "Elixir",
	Elm:           "Elm",
	Env:           "Env",
	Erlang:        "Erlang",
	GitIgnore:     "GitIgnore",
	Go:            "Go",
	H:             "H",
	Haskell:       "Haskell",
	HPP:           "HPP",
	HTML:          "HTML",
	Java:          "Java",
	JavaScript:    "JavaScript",
	Json:          "Json",
	Jupyter:       "Jupyter",
	Kotlin:        "Kotlin",
	Lisp:          "Lisp",
	Lua:           "Lua",
	Makefile:      "Makefile",
	Markdown:      "Markdown",
	Nix:           "Nix",
	OCaml:         "OCaml",
	Perl:          "Perl",
	PHP:           "PHP",
	PowerShell:    "PowerShell",
	Python:        "Python",
	R:             "R",
	Racket:        "Racket",
	ReadMe:        "ReadMe",
	Ruby:          "Ruby",
	Rust:          "Rust",
	Shell:         "Shell",
	SQL:           "SQL",
	Svelte:        "Svelte",
	SVG:           "SVG",
	Swift:         "Swift",
	Text:          "Text",
	Toml:          "Toml",
	Typescript:    "Typescript",
	Vue:           "Vue",
	XAML:          "XAML",
	XML:           "XML",
	Yaml:          "Yaml",
	Zig:           "Zig",
	Zsh:           "Zsh",
	Unknown:       "Unknown",
}

func (l Language) valid() bool {
	return l >= Assembly && l <= Unknown
}

// String returns the display name of the label.
func (l Language) String() string {
	if !l.valid() {
		return fmt.Sprintf("Language(%d)", int(l))
	}
	return names[l]
}

// Extension returns the canonical extension string for the label.
func (l Language) Extension() string {
	return CanonicalExtension(l)
}

// MarshalText encodes the label by display name so it can be used in JSON
// output and as a map key.
func (l Language) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText is the inverse of MarshalText.
func (l *Language) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// All returns every label in declaration order. Unknown is last.
func All() []Language {
	out := make([]Language, 0, len(names))
	for i := range names {
		out = append(out, Language(i))
	}
	return out
}

// Parse resolves a display name (case-insensitive) back to its label.
func Parse(name string) (Language, error) {
	name = strings.TrimSpace(name)
	for i, candidate := range names {
		if strings.EqualFold(candidate, name) {
			return Language(i), nil
		}
	}
	return Unknown, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
}
