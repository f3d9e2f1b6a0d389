// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// =============================================================================
// STYLES
// =============================================================================

var (
	// Colors
	brandPrimary   = lipgloss.Color("#EC4899") // Pink
	brandSecondary = lipgloss.Color("#8B5CF6") // Violet
	brandAccent    = lipgloss.Color("#10B981") // Emerald
	brandWarning   = lipgloss.Color("#F59E0B") // Amber
	brandError     = lipgloss.Color("#EF4444") // Red
	textMuted      = lipgloss.Color("#6B7280") // Gray

	titleStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(textMuted).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(brandAccent).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(brandError).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(brandWarning)

	highlightStyle = lipgloss.NewStyle().
			Foreground(brandSecondary).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(textMuted)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(brandPrimary).
			Padding(1, 2)

	selectedStyle = lipgloss.NewStyle().
			Foreground(brandPrimary).
			Bold(true)
)

const logo = `
       __          _______ _           __
  ____/ /__ _   __/_  __(_)___  ____/ /__  _____
 / __  / _ \ | / / / / / / __ \/ __  / _ \/ ___/
/ /_/ /  __/ |/ / / / / / / / / /_/ /  __/ /
\__,_/\___/|___/ /_/ /_/_/ /_/\__,_/\___/_/
`

const tagline = "Swipe to connect with developers, from your terminal"

// =============================================================================
// INSTALLER MODEL
// =============================================================================

// Phase represents the current setup phase
type Phase int

const (
	PhaseWelcome Phase = iota
	PhaseSystemCheck
	PhaseConfigure
	PhaseComplete
)

// Configure-phase fields, in tab order.
const (
	fieldURL = iota
	fieldTheme
	fieldMouse
	fieldCount
)

// Installer is the setup model
type Installer struct {
	phase    Phase
	width    int
	height   int
	spinner  spinner.Model
	progress progress.Model

	checker      *Checker
	checks       []CheckResult
	currentCheck int

	url      textinput.Model
	theme    int
	mouse    bool
	field    int
	err      string
	saved    string
	cfgDir   string
	writeCfg func(path string, ch Choices) error
}

// NewInstaller creates a setup that writes into dir and first tries the
// backend at apiURL.
func NewInstaller(dir, apiURL string) *Installer {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(brandPrimary)

	in := textinput.New()
	in.Placeholder = "http://localhost:7777"
	in.SetValue(apiURL)
	in.CharLimit = 256
	in.Width = 48

	checks := make([]CheckResult, len(checkNames))
	for idx, name := range checkNames {
		checks[idx] = CheckResult{Name: name, Status: statusChecking}
	}

	return &Installer{
		phase:    PhaseWelcome,
		spinner:  s,
		progress: progress.New(progress.WithDefaultGradient()),
		checker:  NewChecker(dir, apiURL),
		checks:   checks,
		url:      in,
		mouse:    true,
		cfgDir:   dir,
		writeCfg: func(path string, ch Choices) error {
			_, err := writeConfig(path, ch)
			return err
		},
	}
}

// Init initializes the installer
func (i *Installer) Init() tea.Cmd {
	return i.spinner.Tick
}

// =============================================================================
// UPDATE
// =============================================================================

// checkCompleteMsg signals a check is complete
type checkCompleteMsg struct {
	index  int
	result CheckResult
}

// savedMsg reports the config write.
type savedMsg struct {
	path string
	err  error
}

// Update handles messages
func (i *Installer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return i.handleKey(msg)

	case tea.WindowSizeMsg:
		i.width = msg.Width
		i.height = msg.Height
		i.progress.Width = clamp(msg.Width-20, 20, 60)
		boxStyle = boxStyle.Width(clamp(msg.Width-16, 40, 70))
		return i, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		i.spinner, cmd = i.spinner.Update(msg)
		return i, cmd

	case progress.FrameMsg:
		pm, cmd := i.progress.Update(msg)
		i.progress = pm.(progress.Model)
		return i, cmd

	case checkCompleteMsg:
		i.checks[msg.index] = msg.result
		i.currentCheck++
		cmds := []tea.Cmd{i.progress.SetPercent(float64(i.currentCheck) / float64(len(i.checks)))}
		if i.currentCheck < len(i.checks) {
			cmds = append(cmds, i.runCheck(i.currentCheck))
		}
		return i, tea.Batch(cmds...)

	case savedMsg:
		if msg.err != nil {
			i.err = msg.err.Error()
			return i, nil
		}
		i.err = ""
		i.saved = msg.path
		i.phase = PhaseComplete
		return i, nil
	}
	return i, nil
}

func (i *Installer) checksDone() bool {
	return i.currentCheck >= len(i.checks)
}

// handleKey processes key presses
func (i *Installer) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return i, tea.Quit
	}
	if i.phase == PhaseConfigure {
		return i.handleConfigureKey(msg)
	}
	switch msg.String() {
	case "q", "esc":
		return i, tea.Quit
	case "enter", " ":
		return i.handleSelect()
	}
	return i, nil
}

func (i *Installer) handleConfigureKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return i, tea.Quit
	case "tab", "down":
		i.focus((i.field + 1) % fieldCount)
		return i, nil
	case "shift+tab", "up":
		i.focus((i.field + fieldCount - 1) % fieldCount)
		return i, nil
	case "enter":
		return i.handleSelect()
	}

	switch i.field {
	case fieldURL:
		var cmd tea.Cmd
		i.url, cmd = i.url.Update(msg)
		return i, cmd
	case fieldTheme:
		switch msg.String() {
		case "left", "h":
			i.theme = (i.theme + len(model.Themes) - 1) % len(model.Themes)
		case "right", "l", " ":
			i.theme = (i.theme + 1) % len(model.Themes)
		}
	case fieldMouse:
		switch msg.String() {
		case "left", "right", "h", "l", " ":
			i.mouse = !i.mouse
		}
	}
	return i, nil
}

func (i *Installer) focus(field int) {
	i.field = field
	if field == fieldURL {
		i.url.Focus()
	} else {
		i.url.Blur()
	}
}

// handleSelect processes selection/enter
func (i *Installer) handleSelect() (tea.Model, tea.Cmd) {
	switch i.phase {
	case PhaseWelcome:
		i.phase = PhaseSystemCheck
		return i, i.runCheck(0)

	case PhaseSystemCheck:
		if i.checksDone() {
			i.phase = PhaseConfigure
			i.focus(fieldURL)
			return i, textinput.Blink
		}
		return i, nil

	case PhaseConfigure:
		return i, i.save()

	case PhaseComplete:
		return i, tea.Quit
	}
	return i, nil
}

// =============================================================================
// COMMANDS
// =============================================================================

// runCheck runs a system check
func (i *Installer) runCheck(index int) tea.Cmd {
	checker := i.checker
	return func() tea.Msg {
		return checkCompleteMsg{index: index, result: checker.Run(context.Background(), index)}
	}
}

func (i *Installer) save() tea.Cmd {
	path := configFile(i.cfgDir)
	ch := i.choices()
	write := i.writeCfg
	return func() tea.Msg {
		return savedMsg{path: path, err: write(path, ch)}
	}
}

func (i *Installer) choices() Choices {
	url := strings.TrimSpace(i.url.Value())
	if url == "" {
		url = i.url.Placeholder
	}
	return Choices{APIURL: url, Theme: model.Themes[i.theme], Mouse: i.mouse}
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the installer
func (i *Installer) View() string {
	switch i.phase {
	case PhaseWelcome:
		return i.viewWelcome()
	case PhaseSystemCheck:
		return i.viewSystemCheck()
	case PhaseConfigure:
		return i.viewConfigure()
	case PhaseComplete:
		return i.viewComplete()
	}
	return ""
}

func (i *Installer) viewWelcome() string {
	var s strings.Builder
	s.WriteString(lipgloss.NewStyle().Foreground(brandPrimary).Bold(true).Render(logo))
	s.WriteString("\n")
	s.WriteString(subtitleStyle.Render("    " + tagline))
	s.WriteString("\n\n")
	s.WriteString(dimStyle.Render(fmt.Sprintf("    Setup %s", version)))
	s.WriteString("\n\n")

	s.WriteString(boxStyle.Render(`This setup will:

  * Check that devtinder can keep its files
  * Look for your DevTinder backend
  * Pick a theme and mouse swiping
  * Write your configuration`))
	s.WriteString("\n\n")
	s.WriteString(highlightStyle.Render("  Press ENTER to begin"))
	s.WriteString(dimStyle.Render("  |  Press Q to quit"))
	return i.center(s.String())
}

func (i *Installer) viewSystemCheck() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("  System Check"))
	s.WriteString("\n\n")

	for _, c := range i.checks {
		var icon string
		switch c.Status {
		case statusPass:
			icon = successStyle.Render("  [OK]")
		case statusWarn:
			icon = warningStyle.Render("  [!!]")
		case statusFail:
			icon = errorStyle.Render("  [XX]")
		default:
			icon = "  " + i.spinner.View() + "  "
		}
		s.WriteString(fmt.Sprintf("%s %-20s %s\n", icon, c.Name, dimStyle.Render(c.Message)))
		if c.Fix != "" {
			s.WriteString(dimStyle.Render("         -> "+c.Fix) + "\n")
		}
	}
	s.WriteString("\n  " + i.progress.View() + "\n\n")

	if i.checksDone() {
		s.WriteString(highlightStyle.Render("  Press ENTER to continue"))
	} else {
		s.WriteString(dimStyle.Render("  Checking..."))
	}
	return i.center(s.String())
}

func (i *Installer) viewConfigure() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("  Configure devtinder"))
	s.WriteString("\n\n")

	label := func(field int, text string) string {
		if i.field == field {
			return selectedStyle.Render("  > " + text)
		}
		return dimStyle.Render("    " + text)
	}

	s.WriteString(label(fieldURL, "Backend URL") + "\n")
	s.WriteString("      " + i.url.View() + "\n\n")

	s.WriteString(label(fieldTheme, "Theme") + "\n      ")
	for idx, t := range model.Themes {
		if idx == i.theme {
			s.WriteString(selectedStyle.Render("[" + string(t) + "]"))
		} else {
			s.WriteString(dimStyle.Render(" " + string(t) + " "))
		}
		s.WriteString(" ")
	}
	s.WriteString("\n\n")

	mouse := "off"
	if i.mouse {
		mouse = "on"
	}
	s.WriteString(label(fieldMouse, "Drag to swipe") + "\n")
	s.WriteString("      " + highlightStyle.Render(mouse) + "\n\n")

	if i.err != "" {
		s.WriteString(errorStyle.Render("  "+i.err) + "\n\n")
	}
	s.WriteString(dimStyle.Render("  Tab to move  |  Left/Right to change  |  Enter to save  |  Esc to quit"))
	s.WriteString("\n\n")
	s.WriteString(dimStyle.Render("  Config: " + configFile(i.cfgDir)))
	return i.center(s.String())
}

func (i *Installer) viewComplete() string {
	var s strings.Builder
	s.WriteString(successStyle.Render(`
    +------------------------------------------+
    |                                          |
    |          *** Setup Complete! ***         |
    |                                          |
    +------------------------------------------+
`))
	s.WriteString("\n")
	s.WriteString("  Saved " + highlightStyle.Render(i.saved) + "\n\n")
	s.WriteString("  Next:\n")
	s.WriteString("    devtinder login     Log in from the terminal\n")
	s.WriteString("    devtinder           Open the app\n\n")
	s.WriteString(dimStyle.Render("  Press ENTER to close"))
	return i.center(s.String())
}

// center pads content down from the top of the screen.
func (i *Installer) center(content string) string {
	if i.width == 0 || i.height == 0 {
		return content
	}
	top := (i.height - strings.Count(content, "\n") - 1) / 3
	if top < 0 {
		top = 0
	}
	return strings.Repeat("\n", top) + content
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// defaultConfigDir is ~/.devtinder, or the working directory when the
// home directory is unknown.
func defaultConfigDir(resolve func() (string, error)) string {
	if dir, err := resolve(); err == nil {
		return dir
	}
	return filepath.Join(".", ".devtinder")
}
