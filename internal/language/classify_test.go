package language

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Language
	}{
		{path: "Cargo.toml", want: Cargo},
		{path: "cargo.TOML", want: Cargo},
		{path: "Cargo.lock", want: Cargolock},
		{path: "CMakeLists.txt", want: CMake},
		{path: "docker-compose.yml", want: DockerCompose},
		{path: "Dockerfile", want: Dockerfile},
		{path: ".dockerignore", want: DockerIgnore},
		{path: "Dockerfile.dockerignore", want: Unknown},
		{path: ".gitignore", want: GitIgnore},
		{path: "Makefile", want: Makefile},
		{path: "README.md", want: ReadMe},
		{path: "docs/readme.MD", want: ReadMe},
		{path: "notes.md", want: Markdown},
		{path: "main.rs", want: Rust},
		{path: "main.RS", want: Rust},
		{path: "src/lib/mod.py", want: Python},
		{path: "makefile.py", want: Python},
		{path: "archive.tar.gz", want: Unknown},
		{path: "noextension", want: Unknown},
		{path: "", want: Unknown},
		{path: "/", want: Unknown},
		{path: ".", want: Unknown},
		{path: "..", want: Unknown},
		{path: "src/..", want: Unknown},
		{path: "src/main.go/", want: Go},
		{path: "src/./main.go/.", want: Go},
		{path: "file.", want: Unknown},
		{path: ".env", want: Unknown},
		{path: "prod.env", want: Env},
		{path: "config.yaml", want: Yaml},
		{path: "config.YML", want: Yaml},
		{path: "lib.c++", want: CPP},
		{path: "a.cxx", want: CPP},
		{path: "a.hpp", want: HPP},
		{path: "a.h", want: H},
		{path: "run.cmd", want: Batch},
		{path: "nb.ipynb", want: Jupyter},
		{path: "script.ps1", want: PowerShell},
		{path: "App.vue", want: Vue},
		{path: "x.zsh", want: Zsh},
		{path: "build.zig", want: Zig},
		{path: "/abs/path/to/index.ts", want: Typescript},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.path, func(t *testing.T) {
			got := Classify(tc.path)
			if got != tc.want {
				t.Fatalf("Classify(%q)=%s want=%s", tc.path, got, tc.want)
			}
		})
	}
}

func TestClassify_UndecodableFallsThrough(t *testing.T) {
	if got := Classify("bad\xff\xfe"); got != Unknown {
		t.Fatalf("invalid utf-8 without extension: got %s want Unknown", got)
	}
	if got := Classify("main.r\xffs"); got != Unknown {
		t.Fatalf("invalid utf-8 extension: got %s want Unknown", got)
	}
	if got := Classify("\xff.py"); got != Python {
		t.Fatalf("invalid utf-8 stem with valid extension: got %s want Python", got)
	}
}

func TestClassify_ReservedNameBeatsExtension(t *testing.T) {
	// cargo.toml has a valid .toml extension but must resolve via its name.
	if got := Classify("CARGO.toml"); got != Cargo {
		t.Fatalf("got %s want Cargo", got)
	}
	if got := Classify("other.toml"); got != Toml {
		t.Fatalf("got %s want Toml", got)
	}
}

func TestClassifyAll(t *testing.T) {
	got := ClassifyAll([]string{"a.go", "Makefile", "x.unknownext"})
	want := []Language{Go, Makefile, Unknown}
	if len(got) != len(want) {
		t.Fatalf("len=%d want=%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: got %s want %s", i, got[i], want[i])
		}
	}
}

func TestTableKeysAreLowercase(t *testing.T) {
	for key := range reservedFilenames {
		if key != strings.ToLower(key) {
			t.Errorf("reserved filename %q is not lowercase and can never match", key)
		}
	}
	for key := range extensions {
		if key != strings.ToLower(key) {
			t.Errorf("extension %q is not lowercase and can never match", key)
		}
		if strings.HasPrefix(key, ".") {
			t.Errorf("extension %q must not carry a leading dot", key)
		}
	}
}

func TestEveryTableEntryIsReachable(t *testing.T) {
	for key, want := range reservedFilenames {
		if got := Classify("dir/" + strings.ToUpper(key)); got != want {
			t.Errorf("reserved %q: got %s want %s", key, got, want)
		}
	}
	for key, want := range extensions {
		if got := Classify("file." + key); got != want {
			t.Errorf("extension %q: got %s want %s", key, got, want)
		}
	}
}
