package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/spec-kit/desk-console/internal/derive"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)

	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, true, false, false).
			Padding(0, 1).
			Width(24)

	sidebarActiveStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("4"))

	contentStyle = lipgloss.NewStyle().Padding(0, 2)

	labelStyle = lipgloss.NewStyle().Bold(true)

	fieldFocusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	headerRowStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle  = lipgloss.NewStyle().Reverse(true)

	badgeBase = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("0"))

	ticketBadgeStyles = map[derive.TicketBadgeKind]lipgloss.Style{
		derive.TicketBadgeInfo:    badgeBase.Background(lipgloss.Color("14")),
		derive.TicketBadgeWarning: badgeBase.Background(lipgloss.Color("11")),
		derive.TicketBadgeSuccess: badgeBase.Background(lipgloss.Color("10")),
		derive.TicketBadgeNeutral: badgeBase.Background(lipgloss.Color("8")),
	}

	operatorBadgeStyles = map[derive.OperatorBadge]lipgloss.Style{
		derive.OperatorBadgeFree:   badgeBase.Background(lipgloss.Color("10")),
		derive.OperatorBadgeBusy:   badgeBase.Background(lipgloss.Color("11")),
		derive.OperatorBadgeClosed: badgeBase.Background(lipgloss.Color("9")),
	}
)

// renderTicketBadge renders a ticket status with its derived category.
func renderTicketBadge(status string, kind derive.TicketBadgeKind) string {
	style, ok := ticketBadgeStyles[kind]
	if !ok {
		style = ticketBadgeStyles[derive.TicketBadgeNeutral]
	}
	return style.Render(status)
}

// renderOperatorBadge renders the tri-state workload label.
func renderOperatorBadge(badge derive.OperatorBadge) string {
	style, ok := operatorBadgeStyles[badge]
	if !ok {
		style = operatorBadgeStyles[derive.OperatorBadgeClosed]
	}
	return style.Render(string(badge))
}
