// Package menu implements the interactive terminal menu of the report generator.
package menu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"marketreport/internal/aggregator"
	"marketreport/internal/logger"
	"marketreport/internal/report"
	"marketreport/pkg/utils"
)

// Menu text.
const (
	Title          = "=== Stock & Crypto Market Report Generator ==="
	OptionGenerate = "1. Generate today's market report"
	OptionExit     = "2. Exit"
	Prompt         = "Enter your choice (1/2): "
)

// maxHistory bounds the status lines kept on screen.
const maxHistory = 12

// maxLineWidth is the display width a status line is cut to.
const maxLineWidth = 120

// Generator produces one report per call.
type Generator interface {
	Generate(ctx context.Context) (*report.Result, error)
}

// Line is one status line shown under the menu.
type Line struct {
	Text   string
	Status logger.Status
}

// generateDoneMsg carries the outcome of a report run.
type generateDoneMsg struct {
	result *report.Result
	err    error
}

// Model is the menu's bubbletea model.
type Model struct {
	ctx       context.Context
	generator Generator
	history   []Line
	running   bool
	quitting  bool
}

// NewModel creates the menu. ctx bounds every report run started from it.
func NewModel(ctx context.Context, g Generator) *Model {
	return &Model{
		ctx:       ctx,
		generator: g,
	}
}

// Init initializes the model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case generateDoneMsg:
		m.running = false
		m.handleResult(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc", "2":
		m.quitting = true
		m.push(logger.StatusInfo, "Exiting program.")

		return m, tea.Quit

	case "1":
		if m.running {
			m.push(logger.StatusWarning, "A report is already being generated.")

			return m, nil
		}

		m.running = true
		m.push(logger.StatusInfo, "Generating today's market report...")

		return m, m.generate()

	default:
		m.push(logger.StatusWarning, "Invalid choice. Please try again.")
	}

	return m, nil
}

func (m *Model) generate() tea.Cmd {
	return func() tea.Msg {
		result, err := m.generator.Generate(m.ctx)

		return generateDoneMsg{result: result, err: err}
	}
}

func (m *Model) handleResult(msg generateDoneMsg) {
	switch {
	case errors.Is(msg.err, aggregator.ErrEmptyDataset):
		m.push(logger.StatusWarning, "No articles retrieved. Report not generated.")
	case msg.err != nil:
		m.push(logger.StatusError, fmt.Sprintf("Report generation failed: %v", msg.err))
	default:
		m.push(logger.StatusSuccess, fmt.Sprintf("CSV report generated: %s", msg.result.CSVPath))
		m.push(logger.StatusSuccess, fmt.Sprintf("ASCII text report generated: %s", msg.result.TextPath))

		if msg.result.ChartPath != "" {
			m.push(logger.StatusSuccess, fmt.Sprintf("Sentiment chart generated: %s", msg.result.ChartPath))
		}
	}
}

func (m *Model) push(status logger.Status, text string) {
	text = utils.NewStringHelper().TruncateString(text, maxLineWidth)
	m.history = append(m.history, Line{Status: status, Text: text})
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
}

// History returns the status lines currently kept.
func (m *Model) History() []Line {
	out := make([]Line, len(m.history))
	copy(out, m.history)

	return out
}

// Running reports whether a report run is in progress.
func (m *Model) Running() bool {
	return m.running
}

// View renders the UI.
func (m *Model) View() string {
	lines := make([]string, 0, len(m.history))
	for _, l := range m.history {
		lines = append(lines, logger.Tag(l.Status)+" "+l.Text)
	}

	statusBlock := strings.Join(lines, "\n")

	if m.quitting {
		return statusBlock + "\n"
	}

	menu := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render(Title),
		OptionStyle.Render(OptionGenerate),
		OptionStyle.Render(OptionExit),
	)

	footer := PromptStyle.Render(Prompt)
	if m.running {
		footer = RunningStyle.Render("Fetching and classifying articles...")
	}

	parts := []string{menu, "", footer}
	if statusBlock != "" {
		parts = append(parts, "", statusBlock)
	}

	parts = append(parts, "", HelpStyle.Render("1 generate • 2/q exit"))

	return strings.Join(parts, "\n") + "\n"
}
