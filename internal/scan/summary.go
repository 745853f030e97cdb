package scan

import (
	"sort"

	"pathlang/internal/language"
)

// LanguageStat aggregates the files of one language.
type LanguageStat struct {
	Language  language.Language `json:"language"`
	Extension string            `json:"extension"`
	Files     int               `json:"files"`
	Bytes     int64             `json:"bytes"`
}

// Summary is the per-language breakdown of a scan.
type Summary struct {
	TotalFiles int            `json:"total_files"`
	TotalBytes int64          `json:"total_bytes"`
	Languages  []LanguageStat `json:"languages"`
}

// Summarize groups entries by language, ordered by file count descending
// and then by name.
func Summarize(entries []Entry) Summary {
	byLang := make(map[language.Language]*LanguageStat)
	summary := Summary{}
	for _, e := range entries {
		summary.TotalFiles++
		summary.TotalBytes += e.SizeBytes
		stat, ok := byLang[e.Language]
		if !ok {
			stat = &LanguageStat{Language: e.Language, Extension: e.Language.Extension()}
			byLang[e.Language] = stat
		}
		stat.Files++
		stat.Bytes += e.SizeBytes
	}

	summary.Languages = make([]LanguageStat, 0, len(byLang))
	for _, stat := range byLang {
		summary.Languages = append(summary.Languages, *stat)
	}
	sort.Slice(summary.Languages, func(i, j int) bool {
		a, b := summary.Languages[i], summary.Languages[j]
		if a.Files != b.Files {
			return a.Files > b.Files
		}
		return a.Language.String() < b.Language.String()
	})
	return summary
}
