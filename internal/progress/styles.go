/*
Copyright © 2025 Rebake Contributors
SPDX-License-Identifier: BSD-3-Clause
*/
package progress

import (
	"os"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/fang"
	fanglipgloss "charm.land/lipgloss/v2"
)

// Styles contains the styles used to render deployment progress
type Styles struct {
	Phase   lipgloss.Style
	Running lipgloss.Style
	Success lipgloss.Style
	Retry   lipgloss.Style
	Failure lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Subtle  lipgloss.Style

	UseColour bool
}

// NewStyles creates styles from Fang's colour scheme so progress output matches
// the help and error output. Without colour every style renders text unchanged.
func NewStyles(useColour bool) *Styles {
	s := &Styles{UseColour: useColour}
	plain := lipgloss.NewStyle()

	if !useColour {
		s.Phase = plain
		s.Running = plain
		s.Success = plain
		s.Retry = plain
		s.Failure = plain
		s.Key = plain
		s.Value = plain
		s.Subtle = plain
		return s
	}

	// fang builds its scheme on the pre-rename lipgloss module
	hasDark := fanglipgloss.HasDarkBackground(os.Stdin, os.Stdout)
	scheme := fang.DefaultColorScheme(fanglipgloss.LightDark(hasDark))

	s.Phase = plain.Bold(true).Foreground(scheme.Title)
	s.Running = plain.Foreground(scheme.Comment)
	s.Success = plain.Foreground(scheme.Flag)
	s.Retry = plain.Foreground(scheme.Command)
	s.Failure = plain.Bold(true).Foreground(scheme.ErrorDetails)
	s.Key = plain.Foreground(scheme.Argument)
	s.Value = plain.Foreground(scheme.Base)
	s.Subtle = plain.Foreground(scheme.DimmedArgument)

	return s
}

// ShouldUseColour determines if colour output should be used
func ShouldUseColour() bool {
	// https://no-color.org/
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	term := os.Getenv("TERM")
	if term == "dumb" || term == "" {
		return false
	}

	fileInfo, err := os.Stdout.Stat()
	if err != nil {
		return false
	}

	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
