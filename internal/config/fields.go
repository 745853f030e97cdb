package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// FieldSource indicates where a config value originates.
type FieldSource string

const (
	SourceDefault     FieldSource = "default"
	SourceConfigFile  FieldSource = "pathlang.toml"
	SourceDotEnv      FieldSource = ".env"
	SourceDotEnvLocal FieldSource = ".env.local"
	SourceEnv         FieldSource = "env"
)

// FieldInfo describes a single configurable field and its provenance.
type FieldInfo struct {
	Key    string
	Value  string
	Source FieldSource
}

type fieldDef struct {
	Key    string
	EnvVar string
}

var fieldDefs = []fieldDef{
	{Key: "scan.path_excludes", EnvVar: "PATHLANG_PATH_EXCLUDES"},
	{Key: "scan.gitignore", EnvVar: "PATHLANG_GITIGNORE"},
	{Key: "scan.follow_symlinks", EnvVar: "PATHLANG_FOLLOW_SYMLINKS"},
	{Key: "scan.max_file_mb", EnvVar: "PATHLANG_MAX_FILE_MB"},
	{Key: "scan.include_unknown"},
	{Key: "state.dir", EnvVar: "PATHLANG_STATE_DIR"},
	{Key: "output.format", EnvVar: "PATHLANG_FORMAT"},
}

func fieldValue(cfg Config, key string) string {
	switch key {
	case "scan.path_excludes":
		return strings.Join(cfg.Scan.PathExcludes, ",")
	case "scan.gitignore":
		return strconv.FormatBool(cfg.Scan.GitIgnore)
	case "scan.follow_symlinks":
		return strconv.FormatBool(cfg.Scan.FollowSymlinks)
	case "scan.max_file_mb":
		return strconv.Itoa(cfg.Scan.MaxFileMB)
	case "scan.include_unknown":
		return strconv.FormatBool(cfg.Scan.IncludeUnknown)
	case "state.dir":
		return cfg.State.Dir
	case "output.format":
		return cfg.Output.Format
	default:
		return ""
	}
}

func readDotFile(name string) map[string]string {
	vals, err := godotenv.Read(name)
	if err != nil {
		return nil
	}
	return vals
}

// EffectiveFields reports each field of cfg, as loaded with opts, with the
// source that supplied it, checked in precedence order: env → .env.local →
// .env → config file → default. CLI overrides are reported as env since they
// are not persisted.
func EffectiveFields(cfg Config, opts Options) []FieldInfo {
	dotEnvLocal := readDotFile(filepath.Join(opts.root(), ".env.local"))
	dotEnv := readDotFile(filepath.Join(opts.root(), ".env"))

	def := Default()
	// Decode into its own Default so def never shares slice storage with it.
	fileCfg := Default()
	if _, err := toml.DecodeFile(opts.Path(), &fileCfg); err != nil {
		// A missing or broken file only affects provenance reporting.
		fileCfg = Default()
	}

	out := make([]FieldInfo, 0, len(fieldDefs))
	for _, fd := range fieldDefs {
		fi := FieldInfo{Key: fd.Key, Value: fieldValue(cfg, fd.Key)}
		switch {
		case fd.EnvVar != "" && envSet(fd.EnvVar):
			if _, ok := dotEnvLocal[fd.EnvVar]; ok {
				fi.Source = SourceDotEnvLocal
			} else if _, ok := dotEnv[fd.EnvVar]; ok {
				fi.Source = SourceDotEnv
			} else {
				fi.Source = SourceEnv
			}
		case fieldValue(fileCfg, fd.Key) != fieldValue(def, fd.Key):
			fi.Source = SourceConfigFile
		case fi.Value != fieldValue(def, fd.Key):
			fi.Source = SourceEnv
		default:
			fi.Source = SourceDefault
		}
		out = append(out, fi)
	}
	return out
}

func envSet(name string) bool {
	v, ok := os.LookupEnv(name)
	return ok && strings.TrimSpace(v) != ""
}
