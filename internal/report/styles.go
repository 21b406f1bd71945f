// Package report renders kernel outputs for humans. It only ever consumes
// the kernel's plain-data results; nothing here feeds back into analysis.
// Uses the Ayu color theme with adaptive light/dark mode support.
package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kodebaseai/kodebase/internal/types"
)

// Ayu theme color palette
var (
	ColorPass = lipgloss.AdaptiveColor{
		Light: "#86b300",
		Dark:  "#c2d94c",
	}
	ColorWarn = lipgloss.AdaptiveColor{
		Light: "#f2ae49",
		Dark:  "#ffb454",
	}
	ColorFail = lipgloss.AdaptiveColor{
		Light: "#f07171",
		Dark:  "#f07178",
	}
	ColorMuted = lipgloss.AdaptiveColor{
		Light: "#828c99",
		Dark:  "#6c7680",
	}
	ColorAccent = lipgloss.AdaptiveColor{
		Light: "#399ee6",
		Dark:  "#59c2ff",
	}
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	WarnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorFail)
	MutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
)

// HeaderStyle for section headers - bold with accent color
var HeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)

// Status icons
const (
	IconPass = "✓"
	IconWarn = "⚠"
	IconFail = "✗"
)

// StatusGlyph returns a symbol indicator for a lifecycle state.
func StatusGlyph(state types.State) string {
	switch state {
	case types.StateDraft:
		return "○"
	case types.StateReady:
		return "☐"
	case types.StateInProgress:
		return "◧"
	case types.StateInReview:
		return "◫"
	case types.StateCompleted:
		return "☑"
	case types.StateBlocked:
		return "⚠"
	case types.StateCancelled:
		return "⊘"
	case types.StateArchived:
		return "▣"
	default:
		return "?"
	}
}

// StyleForState returns the style used for an artifact line in a state.
func StyleForState(state types.State) lipgloss.Style {
	switch state {
	case types.StateCompleted, types.StateReady:
		return PassStyle
	case types.StateBlocked:
		return FailStyle
	case types.StateCancelled, types.StateArchived:
		return MutedStyle
	case types.StateInProgress, types.StateInReview:
		return AccentStyle
	default:
		return lipgloss.NewStyle()
	}
}
