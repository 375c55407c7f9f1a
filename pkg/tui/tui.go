// Package tui provides a terminal user interface for sm2bs
package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/james-see/sm2bs/pkg/converter"
	"github.com/james-see/sm2bs/pkg/msd"
	"github.com/james-see/sm2bs/pkg/warn"
)

// Saber colors: left red, right blue
var (
	saberRed   = lipgloss.Color("#FF2A4D")
	saberBlue  = lipgloss.Color("#1E90FF")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#222233")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(saberBlue).
			Background(darkGray).
			Padding(0, 2).
			MarginBottom(1)

	menuStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(saberBlue).
			Bold(true).
			PaddingLeft(2)

	statusStyle = lipgloss.NewStyle().
			Foreground(saberRed).
			PaddingTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(saberRed).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(saberBlue).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB000"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			MarginTop(1)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(saberRed).
			Padding(1, 2)
)

// maxShownWarnings caps the warning list on the result screen
const maxShownWarnings = 8

// State represents the current TUI state
type State int

const (
	StateMenu State = iota
	StateFilePicker
	StateConverting
	StateResult
)

// Action is what a menu entry does with the picked chart
type Action int

const (
	ActionConvert Action = iota
	ActionMIDI
	ActionExit
)

// MenuItem represents a menu option
type MenuItem struct {
	Title       string
	Description string
	Action      Action
}

var menuItems = []MenuItem{
	{Title: "SM → Beat Saber", Description: "Convert a StepMania chart into a Beat Saber map folder", Action: ActionConvert},
	{Title: "SM → MIDI", Description: "Render the first chart as a MIDI preview", Action: ActionMIDI},
	{Title: "Exit", Description: "Exit the application", Action: ActionExit},
}

// Model represents the TUI model
type Model struct {
	state        State
	menuIndex    int
	filePicker   filepicker.Model
	spinner      spinner.Model
	opts         converter.Options
	selectedFile string
	output       string
	warnings     []warn.Warning
	action       MenuItem
	err          error
	width        int
	height       int
}

// conversionDoneMsg signals conversion completion
type conversionDoneMsg struct {
	output   string
	warnings []warn.Warning
	err      error
}

// Init initializes the TUI model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick)
}

// New creates a new TUI model converting with opts
func New(opts converter.Options) Model {
	fp := filepicker.New()
	fp.AllowedTypes = []string{".sm"}
	fp.CurrentDirectory, _ = os.Getwd()

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(saberBlue)

	return Model{
		state:      StateMenu,
		menuIndex:  0,
		filePicker: fp,
		spinner:    s,
		opts:       opts,
	}
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The file picker needs every message while it is open
	if m.state == StateFilePicker {
		if keyMsg, ok := msg.(tea.KeyMsg); ok {
			switch keyMsg.String() {
			case "esc":
				m.state = StateMenu
				return m, nil
			case "q", "ctrl+c":
				return m, tea.Quit
			}
		}

		var cmd tea.Cmd
		m.filePicker, cmd = m.filePicker.Update(msg)

		if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
			m.selectedFile = path
			m.state = StateConverting
			return m, tea.Batch(m.spinner.Tick, m.performConversion())
		}

		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.filePicker.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch m.state {
		case StateMenu:
			return m.updateMenu(msg)
		case StateResult:
			return m.updateResult(msg)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case conversionDoneMsg:
		m.state = StateResult
		m.output = msg.output
		m.warnings = msg.warnings
		m.err = msg.err
		return m, nil
	}

	return m, nil
}

func (m Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.menuIndex > 0 {
			m.menuIndex--
		}
	case "down", "j":
		if m.menuIndex < len(menuItems)-1 {
			m.menuIndex++
		}
	case "enter":
		if menuItems[m.menuIndex].Action == ActionExit {
			return m, tea.Quit
		}
		m.action = menuItems[m.menuIndex]
		m.state = StateFilePicker
		return m, m.filePicker.Init()
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.state = StateMenu
		m.err = nil
		m.selectedFile = ""
		m.output = ""
		m.warnings = nil
		return m, nil
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

// OutputDir is where the TUI writes the map converted from chartPath
func OutputDir(chartPath string) string {
	return strings.TrimSuffix(chartPath, filepath.Ext(chartPath)) + "_beatsaber"
}

func (m Model) performConversion() tea.Cmd {
	chart, action, opts := m.selectedFile, m.action.Action, m.opts
	return func() tea.Msg {
		return convertChart(chart, action, opts)
	}
}

func convertChart(chart string, action Action, opts converter.Options) conversionDoneMsg {
	if action == ActionMIDI {
		song, warnings, err := converter.LoadSong(chart, "", msd.DefaultOptions())
		if err != nil {
			return conversionDoneMsg{err: err}
		}
		out := strings.TrimSuffix(chart, filepath.Ext(chart)) + ".mid"
		if err := converter.NewMIDIExporter().WriteMIDIFile(song, 0, out); err != nil {
			return conversionDoneMsg{err: err}
		}
		return conversionDoneMsg{output: out, warnings: warnings}
	}

	out := OutputDir(chart)
	result, err := converter.New(opts).ConvertFile(chart, out, converter.FileOptions{
		WAVLength: true,
		CopyAudio: true,
	})
	if err != nil {
		return conversionDoneMsg{err: err}
	}
	return conversionDoneMsg{output: out, warnings: result.Warnings}
}

// View renders the TUI
func (m Model) View() string {
	var s strings.Builder

	s.WriteString(asciiLogo())
	s.WriteString("\n")

	switch m.state {
	case StateMenu:
		s.WriteString(m.viewMenu())
	case StateFilePicker:
		s.WriteString(m.viewFilePicker())
	case StateConverting:
		s.WriteString(m.viewConverting())
	case StateResult:
		s.WriteString(m.viewResult())
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render("↑/↓: navigate • enter: select • q: quit"))

	return s.String()
}

func (m Model) viewMenu() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT ACTION "))
	s.WriteString("\n\n")

	for i, item := range menuItems {
		if i == m.menuIndex {
			s.WriteString(selectedStyle.Render(fmt.Sprintf("▸ %s", item.Title)))
			s.WriteString("\n")
			s.WriteString(lipgloss.NewStyle().Foreground(saberRed).PaddingLeft(4).Render(item.Description))
		} else {
			s.WriteString(menuStyle.Render(fmt.Sprintf("  %s", item.Title)))
		}
		s.WriteString("\n")
	}

	return boxStyle.Render(s.String())
}

func (m Model) viewFilePicker() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" SELECT .SM CHART "))
	s.WriteString("\n\n")
	s.WriteString(m.filePicker.View())
	s.WriteString("\n")
	s.WriteString(helpStyle.Render("esc: back to menu"))

	return s.String()
}

func (m Model) viewConverting() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render(" CONVERTING "))
	s.WriteString("\n\n")
	fmt.Fprintf(&s, "%s Converting %s...\n", m.spinner.View(), filepath.Base(m.selectedFile))
	s.WriteString(statusStyle.Render("  " + m.action.Title))

	return boxStyle.Render(s.String())
}

func (m Model) viewResult() string {
	var s strings.Builder

	if m.err != nil {
		s.WriteString(titleStyle.Render(" ERROR "))
		s.WriteString("\n\n")
		s.WriteString(errorStyle.Render(fmt.Sprintf("✗ Conversion failed: %s", m.err.Error())))
	} else {
		s.WriteString(titleStyle.Render(" SUCCESS "))
		s.WriteString("\n\n")
		s.WriteString(successStyle.Render("✓ Conversion complete!"))
		s.WriteString("\n\n")
		fmt.Fprintf(&s, "Input:  %s\n", filepath.Base(m.selectedFile))
		fmt.Fprintf(&s, "Output: %s", m.output)

		if len(m.warnings) > 0 {
			fmt.Fprintf(&s, "\n\n%d warning(s):", len(m.warnings))
			for i, w := range m.warnings {
				if i == maxShownWarnings {
					s.WriteString("\n" + warnStyle.Render(fmt.Sprintf("  ... and %d more", len(m.warnings)-i)))
					break
				}
				s.WriteString("\n" + warnStyle.Render("  ! "+w.String()))
			}
		}
	}

	s.WriteString("\n\n")
	s.WriteString(helpStyle.Render("Press enter to continue"))

	return boxStyle.Render(s.String())
}

func asciiLogo() string {
	logo := `
   ____  __  __ ____  ____ ____
  / ___||  \/  |___ \| __ ) ___|
  \___ \| |\/| | __) |  _ \___ \
   ___) | |  | |/ __/| |_) |__) |
  |____/|_|  |_|_____|____/____/
`
	return lipgloss.NewStyle().Foreground(saberRed).Render(logo)
}

// Run starts the TUI application
func Run(opts converter.Options) error {
	p := tea.NewProgram(New(opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
