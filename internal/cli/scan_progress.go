package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"pathlang/internal/config"
	"pathlang/internal/scan"
)

const scanTickInterval = 100 * time.Millisecond

type scanTickMsg time.Time

// scanDoneMsg is sent once Walk returns.
type scanDoneMsg struct{}

// scanProgressModel draws a one-line spinner with live walk counters.
type scanProgressModel struct {
	spinner  spinner.Model
	progress *scan.Progress
	root     string
	snap     scan.ProgressSnapshot
	cancel   context.CancelFunc
	done     bool
}

func newScanProgressModel(root string, progress *scan.Progress, cancel context.CancelFunc) scanProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(clrBrand)
	return scanProgressModel{
		spinner:  s,
		progress: progress,
		root:     root,
		cancel:   cancel,
	}
}

func tickScanProgress() tea.Cmd {
	return tea.Tick(scanTickInterval, func(t time.Time) tea.Msg {
		return scanTickMsg(t)
	})
}

func (m scanProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickScanProgress())
}

func (m scanProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
		return m, nil
	case scanTickMsg:
		m.snap = m.progress.Snapshot()
		return m, tickScanProgress()
	case scanDoneMsg:
		m.snap = m.progress.Snapshot()
		m.done = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m scanProgressModel) View() string {
	if m.done {
		return ""
	}
	return fmt.Sprintf("%s scanning %s  files=%d classified=%d unknown=%d skipped=%d\n",
		m.spinner.View(), m.root, m.snap.Scanned, m.snap.Classified, m.snap.Unknown,
		m.snap.Excluded+m.snap.Oversized)
}

// showScanProgress reports whether the spinner should be drawn: only for
// text output on an interactive stderr.
func showScanProgress(cmd *cobra.Command, cfg config.Config) bool {
	return !jsonOutput(cfg) && !globalFlags.Quiet && isTerminal(cmd.ErrOrStderr())
}

// walkWithProgress runs Walk in the background while a bubbletea program
// renders opts.Progress on w. Ctrl+C cancels the walk.
func walkWithProgress(ctx context.Context, w io.Writer, root string, opts scan.Options) ([]scan.Entry, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if opts.Progress == nil {
		opts.Progress = &scan.Progress{}
	}

	p := tea.NewProgram(newScanProgressModel(root, opts.Progress, cancel), tea.WithOutput(w))

	type walkResult struct {
		entries []scan.Entry
		err     error
	}
	results := make(chan walkResult, 1)
	go func() {
		entries, err := scan.Walk(ctx, root, opts)
		results <- walkResult{entries: entries, err: err}
		p.Send(scanDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		log.Printf("scan: progress display: %v", err)
	}
	res := <-results
	return res.entries, res.err
}
