// SPDX-License-Identifier: MPL-2.0

package cmd

import "github.com/charmbracelet/lipgloss"

// Color palette shared by every report. Tuned for dark terminal backgrounds.
const (
	// ColorPrimary is purple: titles and headers.
	ColorPrimary = lipgloss.Color("#7C3AED")
	// ColorMuted is gray: secondary text.
	ColorMuted = lipgloss.Color("#6B7280")
	// ColorSuccess is green: accepted definitions.
	ColorSuccess = lipgloss.Color("#10B981")
	// ColorError is red: rejected definitions.
	ColorError = lipgloss.Color("#EF4444")
	// ColorWarning is amber: warnings.
	ColorWarning = lipgloss.Color("#F59E0B")
	// ColorHighlight is blue: file paths and keys.
	ColorHighlight = lipgloss.Color("#3B82F6")
)

var (
	// TitleStyle is for report titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// SubtitleStyle is for secondary headers and placeholders.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// SuccessStyle marks accepted definitions.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess)

	// ErrorStyle marks rejected definitions.
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorError)

	// WarningStyle is for warnings.
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// PathStyle is for file names and config keys.
	PathStyle = lipgloss.NewStyle().
			Foreground(ColorHighlight)

	// sectionStyle separates the environment, pipeline and error sections.
	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginTop(1)

	// reasonStyle indents the rejection reason under its file.
	reasonStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			PaddingLeft(4)

	successIcon = SuccessStyle.Render("✓")
	errorIcon   = ErrorStyle.Render("✗")
	arrowIcon   = PathStyle.Render("→")
)
