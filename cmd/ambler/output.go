package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig"

	"github.com/vsariola/ambler"
)

const defaultOutput = `output/peaceful_piano_{{ printf "%.0f" .Seconds }}s.wav`

// outputPath expands the output path template with the song as data.
func outputPath(pattern string, song *ambler.Song) (string, error) {
	tmpl, err := template.New("output").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(pattern)
	if err != nil {
		return "", fmt.Errorf("could not parse output path %q: %w", pattern, err)
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, song); err != nil {
		return "", fmt.Errorf("could not expand output path %q: %w", pattern, err)
	}
	path := strings.TrimSpace(b.String())
	if path == "" {
		return "", fmt.Errorf("output path %q expands to nothing", pattern)
	}
	return filepath.Clean(path), nil
}
