package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(Options{ConfigPath: filepath.Join(t.TempDir(), "absent.toml"), SkipDotEnv: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if cfg.State.Dir != def.State.Dir || cfg.Output.Format != def.Output.Format || cfg.Scan.MaxFileMB != def.Scan.MaxFileMB {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if cfg.DBPath() != filepath.Join(DefaultStateDir, DefaultDBName) {
		t.Fatalf("DBPath=%q", cfg.DBPath())
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathlang.toml")
	writeFile(t, path, "[scan]\npath_excludes = [\" **/dist/** \", \"\"]\nmax_file_mb = 5\n\n[output]\nformat = \"json\"\n")

	cfg, err := Load(Options{ConfigPath: path, SkipDotEnv: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Format != FormatJSON {
		t.Errorf("format=%q want json", cfg.Output.Format)
	}
	if cfg.Scan.MaxFileMB != 5 || cfg.MaxFileBytes() != 5*1024*1024 {
		t.Errorf("max_file_mb=%d", cfg.Scan.MaxFileMB)
	}
	if len(cfg.Scan.PathExcludes) != 1 || cfg.Scan.PathExcludes[0] != "**/dist/**" {
		t.Errorf("path_excludes=%v", cfg.Scan.PathExcludes)
	}
	// keys absent from the file keep their defaults
	if !cfg.Scan.GitIgnore || cfg.State.Dir != DefaultStateDir {
		t.Errorf("unexpected fallthrough values: %+v", cfg)
	}
}

func TestLoad_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathlang.toml")
	writeFile(t, path, "[state]\ndir = \"from-file\"\n[output]\nformat = \"json\"\n")
	t.Setenv("PATHLANG_STATE_DIR", "from-env")
	t.Setenv("PATHLANG_GITIGNORE", "false")
	t.Setenv("PATHLANG_PATH_EXCLUDES", "**/build/**, **/.git/**")

	format := "text"
	cfg, err := Load(Options{
		ConfigPath: path,
		SkipDotEnv: true,
		Overrides:  &Overrides{Format: &format},
	})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.State.Dir != "from-env" {
		t.Errorf("state dir=%q want from-env", cfg.State.Dir)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("format=%q want text from override", cfg.Output.Format)
	}
	if cfg.Scan.GitIgnore {
		t.Error("gitignore should be disabled via env")
	}
	last := cfg.Scan.PathExcludes[len(cfg.Scan.PathExcludes)-1]
	if last != "**/build/**" {
		t.Errorf("expected appended exclude, got %v", cfg.Scan.PathExcludes)
	}
	count := 0
	for _, glob := range cfg.Scan.PathExcludes {
		if glob == "**/.git/**" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate excludes not removed: %v", cfg.Scan.PathExcludes)
	}
}

func TestLoad_MalformedTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathlang.toml")
	writeFile(t, path, "[scan\nmax_file_mb = ")
	_, err := Load(Options{ConfigPath: path, SkipDotEnv: true})
	if err == nil || !strings.Contains(err.Error(), "CONFIG_INVALID") {
		t.Fatalf("expected CONFIG_INVALID error, got %v", err)
	}
}

func TestLoad_DotEnvDoesNotOverrideShell(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, ".env"), "PATHLANG_FORMAT=json\nPATHLANG_MAX_FILE_MB=7\n")
	t.Setenv("PATHLANG_FORMAT", "text")
	os.Unsetenv("PATHLANG_MAX_FILE_MB")
	t.Cleanup(func() { os.Unsetenv("PATHLANG_MAX_FILE_MB") })

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Format != FormatText {
		t.Errorf("shell env should win over .env, got %q", cfg.Output.Format)
	}
	if cfg.Scan.MaxFileMB != 7 {
		t.Errorf("max_file_mb=%d want 7 from .env", cfg.Scan.MaxFileMB)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "bad format", mutate: func(c *Config) { c.Output.Format = "xml" }, want: "output.format"},
		{name: "zero size", mutate: func(c *Config) { c.Scan.MaxFileMB = 0 }, want: "scan.max_file_mb"},
		{name: "size overflows bytes", mutate: func(c *Config) { c.Scan.MaxFileMB = MaxFileMBLimit + 1 }, want: "scan.max_file_mb"},
		{name: "empty state", mutate: func(c *Config) { c.State.Dir = " " }, want: "pathlang config init"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "CONFIG_INVALID") || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
	if err := Validate(Default()); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pathlang.toml")
	cfg := Default()
	cfg.Scan.PathExcludes = []string{"**/out/**"}
	cfg.Output.Format = FormatJSON
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(Options{ConfigPath: path, SkipDotEnv: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Output.Format != FormatJSON || len(loaded.Scan.PathExcludes) != 1 || loaded.Scan.PathExcludes[0] != "**/out/**" {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}

func TestDefaultTOMLMatchesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pathlang.toml")
	writeFile(t, path, DefaultTOML)
	cfg, err := Load(Options{ConfigPath: path, SkipDotEnv: true})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	def := Default()
	if strings.Join(cfg.Scan.PathExcludes, ",") != strings.Join(def.Scan.PathExcludes, ",") {
		t.Errorf("template excludes %v differ from defaults %v", cfg.Scan.PathExcludes, def.Scan.PathExcludes)
	}
	if cfg.Scan.MaxFileMB != def.Scan.MaxFileMB {
		t.Errorf("template max_file_mb=%d", cfg.Scan.MaxFileMB)
	}
}

func TestEffectiveFields(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "pathlang.toml")
	writeFile(t, path, "[output]\nformat = \"json\"\n")
	t.Setenv("PATHLANG_STATE_DIR", "elsewhere")

	opts := Options{Dir: dir, ConfigPath: path, SkipDotEnv: true}
	cfg, err := Load(opts)
	if err != nil {
		t.Fatal(err)
	}
	sources := map[string]FieldSource{}
	for _, fi := range EffectiveFields(cfg, opts) {
		sources[fi.Key] = fi.Source
	}
	if sources["output.format"] != SourceConfigFile {
		t.Errorf("output.format source=%q", sources["output.format"])
	}
	if sources["state.dir"] != SourceEnv {
		t.Errorf("state.dir source=%q", sources["state.dir"])
	}
	if sources["scan.max_file_mb"] != SourceDefault {
		t.Errorf("scan.max_file_mb source=%q", sources["scan.max_file_mb"])
	}
}

func TestEffectiveFields_ExcludesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pathlang.toml")
	// Same length as the defaults, so a shared backing array would be
	// overwritten in place.
	globs := make([]string, len(Default().Scan.PathExcludes))
	quoted := make([]string, len(globs))
	for i := range globs {
		globs[i] = string(rune('a'+i)) + "/**"
		quoted[i] = `"` + globs[i] + `"`
	}
	writeFile(t, path, "[scan]\npath_excludes = ["+strings.Join(quoted, ", ")+"]\n")

	opts := Options{Dir: dir, ConfigPath: path, SkipDotEnv: true}
	cfg, err := Load(opts)
	if err != nil {
		t.Fatal(err)
	}
	for _, fi := range EffectiveFields(cfg, opts) {
		if fi.Key != "scan.path_excludes" {
			continue
		}
		if fi.Value != strings.Join(globs, ",") || fi.Source != SourceConfigFile {
			t.Fatalf("path_excludes = %q from %q, want %q from %q", fi.Value, fi.Source, strings.Join(globs, ","), SourceConfigFile)
		}
	}
	if got := Default().Scan.PathExcludes; strings.Join(got, ",") == strings.Join(globs, ",") {
		t.Fatalf("defaults were overwritten: %v", got)
	}
}

func TestLoad_InvalidEnvValues(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{name: "non-integer size", key: "PATHLANG_MAX_FILE_MB", value: "abc"},
		{name: "huge size", key: "PATHLANG_MAX_FILE_MB", value: "9223372036854775807"},
		{name: "non-bool gitignore", key: "PATHLANG_GITIGNORE", value: "sometimes"},
		{name: "non-bool symlinks", key: "PATHLANG_FOLLOW_SYMLINKS", value: "2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := Load(Options{Dir: t.TempDir(), SkipDotEnv: true})
			if err == nil || !strings.Contains(err.Error(), "CONFIG_INVALID") {
				t.Fatalf("expected CONFIG_INVALID error, got %v", err)
			}
		})
	}
}

func TestLoad_ResolvesAgainstDir(t *testing.T) {
	cwd := t.TempDir()
	chdir(t, cwd)
	root := t.TempDir()
	writeFile(t, filepath.Join(cwd, ".env"), "PATHLANG_FORMAT=json\n")
	writeFile(t, filepath.Join(root, ".env"), "PATHLANG_MAX_FILE_MB=3\n")
	writeFile(t, filepath.Join(root, DefaultConfigFile), "[state]\ndir = \"cache\"\n")
	for _, key := range []string{"PATHLANG_FORMAT", "PATHLANG_MAX_FILE_MB"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load(Options{Dir: root})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scan.MaxFileMB != 3 || cfg.Output.Format != FormatText {
		t.Fatalf("dotenv should come from Dir only: max=%d format=%q", cfg.Scan.MaxFileMB, cfg.Output.Format)
	}
	if cfg.State.Dir != "cache" {
		t.Fatalf("state.dir=%q, config file not read from Dir", cfg.State.Dir)
	}
	if want := filepath.Join(root, "cache", DefaultDBName); cfg.DBPath() != want {
		t.Fatalf("DBPath=%q want %q", cfg.DBPath(), want)
	}
}
