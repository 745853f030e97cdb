package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/term"
)

// palette holds the ANSI-256 color values used throughout the CLI.
var (
	clrBrand  = lipgloss.Color("214") // orange
	clrGreen  = lipgloss.Color("114")
	clrRed    = lipgloss.Color("203")
	clrYellow = lipgloss.Color("220")
	clrDim    = lipgloss.Color("245")
	clrWhite  = lipgloss.Color("255")
)

// styles wraps lipgloss renderers that respect TTY detection.
// When output is not a terminal (piped, redirected, --json), all
// styling is disabled and raw text is emitted.
type styles struct {
	enabled bool

	Brand   lipgloss.Style
	Dim     lipgloss.Style
	Bold    lipgloss.Style
	Header  lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newStyles creates a styles instance. Colors are enabled only when w
// points to a terminal file descriptor and jsonMode is false.
func newStyles(w io.Writer, jsonMode bool) styles {
	enabled := !jsonMode && isTerminal(w)
	s := styles{enabled: enabled}

	if !enabled {
		noop := lipgloss.NewStyle()
		s.Brand = noop
		s.Dim = noop
		s.Bold = noop
		s.Header = noop
		s.Key = noop
		s.Value = noop
		s.Warning = noop
		s.Error = noop
		s.Success = noop
		return s
	}

	s.Brand = lipgloss.NewStyle().Foreground(clrBrand)
	s.Dim = lipgloss.NewStyle().Foreground(clrDim)
	s.Bold = lipgloss.NewStyle().Bold(true)
	s.Header = lipgloss.NewStyle().Bold(true).Foreground(clrBrand)
	s.Key = lipgloss.NewStyle().Foreground(clrDim)
	s.Value = lipgloss.NewStyle().Foreground(clrWhite)
	s.Warning = lipgloss.NewStyle().Foreground(clrYellow).Bold(true)
	s.Error = lipgloss.NewStyle().Foreground(clrRed).Bold(true)
	s.Success = lipgloss.NewStyle().Foreground(clrGreen)
	return s
}

// kv formats a key-value pair like "  Key:  value".
func (s styles) kv(key, value string) string {
	if !s.enabled {
		return fmt.Sprintf("  %-18s %s", key+":", value)
	}
	return fmt.Sprintf("  %s %s",
		s.Key.Render(fmt.Sprintf("%-18s", key+":")),
		s.Value.Render(value),
	)
}

func (s styles) sectionHeader(title string) string {
	if !s.enabled {
		return title
	}
	return s.Header.Render(title)
}

func (s styles) dim(text string) string {
	if !s.enabled {
		return text
	}
	return s.Dim.Render(text)
}

func (s styles) success(text string) string {
	if !s.enabled {
		return text
	}
	return s.Success.Render(text)
}

func (s styles) warnPrefix() string {
	if !s.enabled {
		return "WARNING:"
	}
	return s.Warning.Render("WARNING:")
}

// stat formats a labeled statistic like "files=412".
func (s styles) stat(label string, value interface{}) string {
	if !s.enabled {
		return fmt.Sprintf("%s=%v", label, value)
	}
	return fmt.Sprintf("%s=%s", s.Dim.Render(label), s.Value.Render(fmt.Sprintf("%v", value)))
}

// table renders rows as a bordered table on a terminal and as
// tab-separated lines otherwise so the output stays easy to pipe.
func (s styles) table(headers []string, rows [][]string) string {
	if !s.enabled {
		var b strings.Builder
		b.WriteString(strings.Join(headers, "\t"))
		b.WriteByte('\n')
		for _, row := range rows {
			b.WriteString(strings.Join(row, "\t"))
			b.WriteByte('\n')
		}
		return b.String()
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Dim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render() + "\n"
}
