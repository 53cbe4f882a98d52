package main

import (
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/vsariola/ambler"
)

var (
	primary = lipgloss.Color("#00ff9f")
	dim     = lipgloss.Color("#6e7681")
	accent  = lipgloss.Color("#f0a35e")
)

var styles = struct {
	Title  lipgloss.Style
	Index  lipgloss.Style
	Melody lipgloss.Style
	Accomp lipgloss.Style
	Help   lipgloss.Style
}{
	Title:  lipgloss.NewStyle().Bold(true).Foreground(primary),
	Index:  lipgloss.NewStyle().Foreground(dim).Width(4).Align(lipgloss.Right),
	Melody: lipgloss.NewStyle().Bold(true).Foreground(primary).Width(4),
	Accomp: lipgloss.NewStyle().Foreground(accent),
	Help:   lipgloss.NewStyle().Foreground(dim),
}

var (
	printer = message.NewPrinter(language.English)
	title   = cases.Title(language.English)
)

// summary describes a rendered or sequenced song in one line, e.g.
// "Walk / Harmonic / Drone: 40 notes, 1,323,000 samples at 44,100 Hz (30.0 s)".
func summary(song *ambler.Song, notes, samples int) string {
	head := styles.Title.Render(title.String(string(song.Walk)) + " / " +
		title.String(string(song.Tone.Model)) + " / " +
		title.String(string(song.Accompaniment.Mode)))
	return head + printer.Sprintf(": %d notes, %d samples at %d Hz (%.1f s)",
		notes, samples, song.SampleRate, float64(samples)/float64(song.SampleRate))
}
