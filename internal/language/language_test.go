package language

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCanonicalExtension(t *testing.T) {
	tests := []struct {
		lang Language
		want string
	}{
		{Shell, "bash"},
		{Zsh, "bash"},
		{Bash, "bash"},
		{C, "c"},
		{H, "c"},
		{Cargo, "toml"},
		{Cargolock, "lock"},
		{DockerCompose, "yaml"},
		{DockerIgnore, "dockerfile"},
		{Env, "dotenv"},
		{GitIgnore, "git"},
		{ReadMe, "markdown"},
		{XAML, "xml"},
		{Text, "txt"},
		{Unknown, "unknown"},
		{Language(-1), "unknown"},
		{Language(999), "unknown"},
	}
	for _, tc := range tests {
		if got := CanonicalExtension(tc.lang); got != tc.want {
			t.Errorf("CanonicalExtension(%s)=%q want=%q", tc.lang, got, tc.want)
		}
	}
}

func TestCanonicalExtension_TotalAndDeterministic(t *testing.T) {
	for _, l := range All() {
		first := CanonicalExtension(l)
		if first == "" {
			t.Errorf("%s has an empty canonical extension", l)
		}
		if second := l.Extension(); second != first {
			t.Errorf("%s: %q then %q", l, first, second)
		}
	}
}

func TestAll(t *testing.T) {
	all := All()
	if len(all) != int(Unknown)+1 {
		t.Fatalf("All() returned %d labels, want %d", len(all), int(Unknown)+1)
	}
	if all[len(all)-1] != Unknown {
		t.Fatalf("last label = %s, want Unknown", all[len(all)-1])
	}
	seen := make(map[string]struct{}, len(all))
	for _, l := range all {
		name := l.String()
		if _, dup := seen[name]; dup {
			t.Fatalf("duplicate display name %q", name)
		}
		seen[name] = struct{}{}
	}
}

func TestParse(t *testing.T) {
	for _, l := range All() {
		got, err := Parse(l.String())
		if err != nil || got != l {
			t.Fatalf("Parse(%q)=%s,%v want %s", l.String(), got, err, l)
		}
	}
	if got, err := Parse("  typescript "); err != nil || got != Typescript {
		t.Fatalf("Parse case-insensitive: got %s, %v", got, err)
	}
	if _, err := Parse("cobol"); !errors.Is(err, ErrUnknownLanguage) {
		t.Fatalf("expected ErrUnknownLanguage, got %v", err)
	}
}

func TestString_OutOfRange(t *testing.T) {
	if got := Language(1000).String(); got != "Language(1000)" {
		t.Fatalf("got %q", got)
	}
}

func TestJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(map[string]Language{"lang": DockerCompose})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != `{"lang":"DockerCompose"}` {
		t.Fatalf("unexpected json: %s", raw)
	}
	var decoded map[string]Language
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["lang"] != DockerCompose {
		t.Fatalf("decoded %s", decoded["lang"])
	}
}

func TestReservedFilenamesAndExtensions(t *testing.T) {
	got := Extensions(Yaml)
	if len(got) != 2 || got[0] != "yaml" || got[1] != "yml" {
		t.Fatalf("Extensions(Yaml)=%v", got)
	}
	if names := ReservedFilenames(ReadMe); len(names) != 1 || names[0] != "readme.md" {
		t.Fatalf("ReservedFilenames(ReadMe)=%v", names)
	}
	if all := ReservedFilenames(Unknown); len(all) != len(reservedFilenames) {
		t.Fatalf("ReservedFilenames(Unknown) len=%d want=%d", len(all), len(reservedFilenames))
	}
	if none := Extensions(Makefile); len(none) != 0 {
		t.Fatalf("Extensions(Makefile)=%v want empty", none)
	}
}
