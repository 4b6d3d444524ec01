// Package ui provides an optional terminal viewer for validation reports.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"golang.org/x/term"

	"github.com/plexanisync/mappingcheck/internal/config"
	"github.com/plexanisync/mappingcheck/internal/mapping"
	"github.com/plexanisync/mappingcheck/internal/report"
)

// RunFunc produces a fresh validation report.
type RunFunc func(ctx context.Context) (*report.Report, error)

// Filter selects which files the viewer lists.
type Filter int

const (
	FilterAll Filter = iota
	FilterFailed
	FilterPassed
)

func (f Filter) String() string {
	switch f {
	case FilterFailed:
		return "failed"
	case FilterPassed:
		return "passed"
	default:
		return "all"
	}
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Underline(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("204")).Bold(true)
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// RunTUI validates once, then lets the user browse the report rendered to
// out, which must be a terminal. It returns the last report shown so the
// caller can derive the exit status.
func RunTUI(ctx context.Context, cfg *config.Config, out io.Writer, run RunFunc) (*report.Report, error) {
	if !IsTTY(out) {
		return nil, fmt.Errorf("tui requires a TTY")
	}

	initial := newModel(ctx, cfg, run)
	program := tea.NewProgram(initial, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(out))
	finalModel, err := program.Run()
	if err != nil {
		return nil, err
	}
	m, ok := finalModel.(*model)
	if !ok {
		return nil, fmt.Errorf("unexpected tui model %T", finalModel)
	}
	if m.runErr != nil {
		return nil, m.runErr
	}
	return m.rep, nil
}

type model struct {
	ctx      context.Context
	cfg      *config.Config
	run      RunFunc
	spinner  spinner.Model
	rep      *report.Report
	runErr   error
	running  bool
	filter   Filter
	cursor   int
	expanded bool
	showHelp bool
}

type reportMsg struct {
	rep *report.Report
	err error
}

func newModel(ctx context.Context, cfg *config.Config, run RunFunc) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return &model{ctx: ctx, cfg: cfg, run: run, spinner: s}
}

func (m *model) Init() tea.Cmd {
	return m.start()
}

// start marks a validation in flight and ticks the spinner until it ends.
func (m *model) start() tea.Cmd {
	m.running = true
	return tea.Batch(m.spinner.Tick, m.validate())
}

func (m *model) validate() tea.Cmd {
	return func() tea.Msg {
		rep, err := m.run(m.ctx)
		return reportMsg{rep: rep, err: err}
	}
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r", "f5":
			if m.running {
				return m, nil
			}
			return m, m.start()
		case "h", "?":
			m.showHelp = !m.showHelp
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.visible())-1 {
				m.cursor++
			}
		case "enter", " ":
			m.expanded = !m.expanded
		case "0":
			m.setFilter(FilterAll)
		case "1":
			m.setFilter(FilterFailed)
		case "2":
			m.setFilter(FilterPassed)
		}
	case spinner.TickMsg:
		if !m.running {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case reportMsg:
		m.running = false
		if msg.err != nil {
			m.runErr = msg.err
			return m, tea.Quit
		}
		m.rep = msg.rep
		m.clampCursor()
	}

	return m, nil
}

func (m *model) setFilter(f Filter) {
	m.filter = f
	m.cursor = 0
	m.expanded = false
}

func (m *model) clampCursor() {
	if n := len(m.visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// visible returns the results matching the current filter.
func (m *model) visible() []*mapping.FileResult {
	if m.rep == nil {
		return nil
	}
	var out []*mapping.FileResult
	for _, res := range m.rep.Results {
		switch {
		case m.filter == FilterFailed && res.OK():
			continue
		case m.filter == FilterPassed && !res.OK():
			continue
		}
		out = append(out, res)
	}
	return out
}

func (m *model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Custom Mappings Report") + "\n\n")

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	if m.rep == nil {
		b.WriteString(m.spinner.View() + " Validating...\n\n")
		writeFooter(&b)
		return b.String()
	}

	writeOverview(&b, m.rep)
	if m.running {
		b.WriteString(m.spinner.View() + dimStyle.Render(" re-validating") + "\n\n")
	}
	if m.filter != FilterAll {
		b.WriteString(fmt.Sprintf("Filter: %s (0 to clear)\n\n", m.filter))
	}

	files := m.visible()
	if len(files) == 0 {
		b.WriteString("  No files to show.\n\n")
	}
	for i, res := range files {
		line := formatResult(res, m.cfg.Dir)
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line + "\n")
		if i == m.cursor && m.expanded {
			writeDetails(&b, res)
		}
	}
	b.WriteString("\n")

	writeConfig(&b, m.cfg)
	writeFooter(&b)
	return b.String()
}

func writeOverview(b *strings.Builder, rep *report.Report) {
	total := len(rep.Results)
	failed := rep.Failed()
	status := passStyle.Render("PASS")
	if !rep.OK() {
		status = failStyle.Render("FAIL")
	}
	b.WriteString(fmt.Sprintf("  %s  Files: %d  Passed: %d  Failed: %d\n\n", status, total, total-failed, failed))
}

func writeDetails(b *strings.Builder, res *mapping.FileResult) {
	if res.OK() {
		b.WriteString(dimStyle.Render(fmt.Sprintf("      %d entries checked", res.Entries)) + "\n")
		return
	}
	for _, v := range res.Violations {
		b.WriteString(fmt.Sprintf("      [%s] %s\n", v.Kind, v.Message))
		if v.Path != "" {
			b.WriteString(dimStyle.Render("        at "+v.Path) + "\n")
		}
		b.WriteString(dimStyle.Render("        "+truncate(v.InstanceString(), 100)) + "\n")
	}
}

func writeConfig(b *strings.Builder, cfg *config.Config) {
	b.WriteString("Configuration\n\n")
	b.WriteString(fmt.Sprintf("  Directory: %s\n", cfg.Dir))
	b.WriteString(fmt.Sprintf("  Patterns:  %s\n", strings.Join(cfg.Patterns, ", ")))
	b.WriteString(fmt.Sprintf("  Schema:    %s\n\n", cfg.SchemaFile))
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  r, F5        Validate again\n")
	b.WriteString("  up/k down/j  Move selection\n")
	b.WriteString("  enter        Toggle details of the selected file\n")
	b.WriteString("  h, ?         Toggle this help screen\n")
	b.WriteString("  1            Show failed files\n")
	b.WriteString("  2            Show passed files\n")
	b.WriteString("  0            Clear filter\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(dimStyle.Render("Press h for help | q to quit") + "\n")
}

func formatResult(res *mapping.FileResult, baseDir string) string {
	name := report.DisplayPath(baseDir, res.Path)
	if res.OK() {
		return fmt.Sprintf("  %s %s", passStyle.Render("ok  "), name)
	}
	return fmt.Sprintf("  %s %s (%d)", failStyle.Render("FAIL"), name, len(res.Violations))
}

// truncate shortens s to at most n terminal cells.
func truncate(s string, n int) string {
	return ansi.Truncate(s, n, "...")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
