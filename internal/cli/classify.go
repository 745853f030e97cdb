package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"pathlang/internal/language"
)

type classifyResult struct {
	Path      string            `json:"path"`
	Language  language.Language `json:"language"`
	Extension string            `json:"extension"`
}

func newClassifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify [paths...]",
		Short: "Classify paths by filename and extension",
		Long:  "Classify prints the language label and canonical extension of each path. The files do not need to exist. With no arguments, paths are read one per line from stdin.",
		RunE:  runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	paths := args
	if len(paths) == 0 {
		in := cmd.InOrStdin()
		if isTerminal(in) {
			return errors.New("no paths given; pass paths as arguments or pipe them on stdin")
		}
		read, err := readPaths(in)
		if err != nil {
			return fmt.Errorf("read paths: %w", err)
		}
		paths = read
	}

	labels := language.ClassifyAll(paths)
	if globalFlags.JSON {
		enc := json.NewEncoder(out)
		for i, p := range paths {
			if err := enc.Encode(classifyResult{Path: p, Language: labels[i], Extension: labels[i].Extension()}); err != nil {
				return err
			}
		}
		return nil
	}

	for i, p := range paths {
		fmt.Fprintf(out, "%s\t%s\t%s\n", p, labels[i], labels[i].Extension())
	}
	return nil
}

func readPaths(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	paths := make([]string, 0, 64)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		paths = append(paths, line)
	}
	return paths, scanner.Err()
}
