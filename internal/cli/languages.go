package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pathlang/internal/language"
)

type languageInfo struct {
	Language          language.Language `json:"language"`
	Extension         string            `json:"canonical_extension"`
	Extensions        []string          `json:"extensions"`
	ReservedFilenames []string          `json:"reserved_filenames"`
}

func newLanguagesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List every label with its extensions and reserved filenames",
		Args:  cobra.NoArgs,
		RunE:  runLanguages,
	}
}

func languageInfos() []languageInfo {
	all := language.All()
	out := make([]languageInfo, 0, len(all))
	for _, l := range all {
		info := languageInfo{
			Language:          l,
			Extension:         l.Extension(),
			Extensions:        []string{},
			ReservedFilenames: []string{},
		}
		// Unknown is the catch-all; asking the tables for it returns every key.
		if l != language.Unknown {
			info.Extensions = language.Extensions(l)
			info.ReservedFilenames = language.ReservedFilenames(l)
		}
		out = append(out, info)
	}
	return out
}

func runLanguages(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()
	infos := languageInfos()
	if globalFlags.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}

	s := newStyles(out, false)
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			info.Language.String(),
			info.Extension,
			strings.Join(info.Extensions, ","),
			strings.Join(info.ReservedFilenames, ","),
		})
	}
	fmt.Fprint(out, s.table([]string{"LANGUAGE", "CANONICAL", "EXTENSIONS", "FILENAMES"}, rows))
	return nil
}
