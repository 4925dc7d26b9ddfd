package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	primaryColor   = lipgloss.Color("62")
	secondaryColor = lipgloss.Color("99")
	accentColor    = lipgloss.Color("214")
	warningColor   = lipgloss.Color("220")
	errorColor     = lipgloss.Color("196")
	successColor   = lipgloss.Color("42")
	textColor      = lipgloss.Color("252")
	mutedColor     = lipgloss.Color("243")
)

var (
	basePanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2).
			Margin(1, 0)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(secondaryColor).
			MarginBottom(1)

	resourceStyle = lipgloss.NewStyle().Foreground(textColor)

	resourceValueStyle = lipgloss.NewStyle().Foreground(accentColor).Bold(true)

	promptStyle = lipgloss.NewStyle().Foreground(primaryColor).Bold(true)

	successStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle   = lipgloss.NewStyle().Foreground(errorColor)
	warningStyle = lipgloss.NewStyle().Foreground(warningColor)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
)

// UI renders the CLI's village/troop/map view, grounded on the teacher's
// panel-composition style.
type UI struct {
	state       *ClientState
	lastCommand string
	lastResult  string
	termWidth   int
	termHeight  int
}

func NewUI() *UI {
	u := &UI{}
	u.updateTerminalSize()
	return u
}

func (u *UI) updateTerminalSize() {
	for _, fd := range []*os.File{os.Stdout, os.Stderr, os.Stdin} {
		if w, h, err := term.GetSize(int(fd.Fd())); err == nil && w > 0 {
			u.termWidth, u.termHeight = w, h
			return
		}
	}
	if cols, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && cols > 0 {
		u.termWidth = cols
	}
	if lines, err := strconv.Atoi(os.Getenv("LINES")); err == nil && lines > 0 {
		u.termHeight = lines
	}
	if u.termWidth == 0 {
		u.termWidth = 80
	}
	if u.termHeight == 0 {
		u.termHeight = 24
	}
	if u.termWidth < 40 {
		u.termWidth = 40
	}
}

func (u *UI) getPanelStyle() lipgloss.Style {
	if u.termWidth >= 80 {
		width := (u.termWidth - 8) / 3
		return basePanelStyle.Width(width)
	}
	return basePanelStyle
}

func (u *UI) UpdateState(state *ClientState) {
	u.state = state
	u.updateTerminalSize()
}

func (u *UI) SetLastCommand(cmd, result string) {
	u.lastCommand = cmd
	u.lastResult = result
}

func (u *UI) ClearCommandOutput() {
	u.lastCommand = ""
	u.lastResult = ""
}

func (u *UI) RenderFullDisplay() string {
	var sections []string
	sections = append(sections, u.RenderStatus())
	sections = append(sections, strings.Repeat("─", u.termWidth))
	sections = append(sections, u.renderCommandArea())
	return strings.Join(sections, "\n")
}

func (u *UI) RenderStatus() string {
	if u.state == nil || !u.state.Connected {
		return u.renderDisconnectedStatus()
	}

	panels := []string{u.renderConnectionInfo(), u.renderVillageResources(), u.renderVillageStorage()}

	if u.termWidth >= 80 {
		return lipgloss.JoinHorizontal(lipgloss.Top, panels...)
	}
	return strings.Join(panels, "\n")
}

func (u *UI) renderDisconnectedStatus() string {
	style := basePanelStyle.BorderForeground(warningColor)
	return style.Render(warningStyle.Render("⚠ not connected to server"))
}

func (u *UI) renderConnectionInfo() string {
	var lines []string
	lines = append(lines, headerStyle.Render("Connection"))
	lines = append(lines, fmt.Sprintf("%s %s", resourceStyle.Render("user:"), resourceValueStyle.Render(u.state.UserID)))

	village := "none selected"
	if u.state.VillageID != "" {
		village = u.state.VillageID
	}
	lines = append(lines, fmt.Sprintf("%s %s", resourceStyle.Render("village:"), resourceValueStyle.Render(village)))

	return u.getPanelStyle().Render(strings.Join(lines, "\n"))
}

func (u *UI) renderVillageResources() string {
	var lines []string
	lines = append(lines, headerStyle.Render("Resources"))

	if u.state.Village == nil {
		lines = append(lines, mutedStyle.Render("no village loaded"))
		return u.getPanelStyle().Render(strings.Join(lines, "\n"))
	}

	res := u.state.Village.Resources
	lines = append(lines, formatResourceLine("🪵", "wood", res.Wood))
	lines = append(lines, formatResourceLine("🪨", "stone", res.Stone))
	lines = append(lines, formatResourceLine("⛏", "iron", res.Iron))
	lines = append(lines, formatResourceLine("🌾", "food", res.Food))

	return u.getPanelStyle().Render(strings.Join(lines, "\n"))
}

func (u *UI) renderVillageStorage() string {
	var lines []string
	lines = append(lines, headerStyle.Render("Holdings"))

	if u.state.Village == nil {
		lines = append(lines, mutedStyle.Render("no village loaded"))
		return u.getPanelStyle().Render(strings.Join(lines, "\n"))
	}

	v := u.state.Village
	lines = append(lines, fmt.Sprintf("%s %s", resourceStyle.Render("location:"), resourceValueStyle.Render(fmt.Sprintf("(%d,%d)", v.Location.X, v.Location.Y))))
	lines = append(lines, fmt.Sprintf("%s %s", resourceStyle.Render("fields:"), resourceValueStyle.Render(fmt.Sprintf("%d", len(v.ResourceFields)))))
	lines = append(lines, fmt.Sprintf("%s %s", resourceStyle.Render("buildings:"), resourceValueStyle.Render(fmt.Sprintf("%d", len(v.City.Constructions)))))
	lines = append(lines, fmt.Sprintf("%s %s", resourceStyle.Render("pending construction:"), resourceValueStyle.Render(fmt.Sprintf("%d", len(v.ConstructionTasks)))))
	lines = append(lines, fmt.Sprintf("%s %s", resourceStyle.Render("pending training:"), resourceValueStyle.Render(fmt.Sprintf("%d", len(v.TroopTrainingTasks)))))

	return u.getPanelStyle().Render(strings.Join(lines, "\n"))
}

func formatResourceLine(icon, name string, amount float64) string {
	return fmt.Sprintf("%s %-7s %s", icon, resourceStyle.Render(name), resourceValueStyle.Render(fmt.Sprintf("%.1f", amount)))
}

func (u *UI) renderCommandArea() string {
	var lines []string
	if u.lastCommand != "" {
		lines = append(lines, mutedStyle.Render("me> "+u.lastCommand))
	}
	if u.lastResult != "" {
		lines = append(lines, u.lastResult)
	}
	if len(lines) == 0 {
		lines = append(lines, mutedStyle.Render("type 'help' to see available commands"))
	}
	return strings.Join(lines, "\n")
}

func (u *UI) RenderPrompt() string {
	return promptStyle.Render("me> ")
}

// RenderMessage renders a single status line with an icon keyed by msgType,
// grounded on the teacher's RenderMessage icon-by-type convention.
func (u *UI) RenderMessage(msgType, message string) string {
	icon := "📨"
	style := resourceStyle
	switch msgType {
	case "success":
		icon = "✅"
		style = successStyle
	case "error":
		icon = "❌"
		style = errorStyle
	case "warning":
		icon = "⚠️"
		style = warningStyle
	case "info":
		icon = "ℹ️"
	}
	return style.Render(fmt.Sprintf("%s %s", icon, message))
}
