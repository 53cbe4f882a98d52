package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsariola/ambler"
	"github.com/vsariola/ambler/oto"
)

var renderOpts struct {
	song   songFlags
	output string
	raw    bool
	play   bool
}

var renderCmd = &cobra.Command{
	Use:   "render [song-file]",
	Short: "Render a song to a .wav file",
	Long: `Sequence and synthesize a song and write it as a mono 16-bit .wav file.

The output path is a Go template with the sprig functions available; the song
is the data, e.g. "out/{{ .Walk | toString }}-{{ .Seed }}.wav". Missing parent
directories are created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderOpts.song.register(renderCmd)
	fs := renderCmd.Flags()
	fs.StringVarP(&renderOpts.output, "output", "o", defaultOutput, "output path template")
	fs.BoolVar(&renderOpts.raw, "raw", false, "also write the samples as a headerless .raw file")
	fs.BoolVarP(&renderOpts.play, "play", "p", false, "play the song after rendering")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	song, err := renderOpts.song.load(cmd, args)
	if err != nil {
		return err
	}
	slog.Debug("rendering",
		"seed", song.Seed,
		"notes", song.NumNotes,
		"walk", song.Walk,
		"tone", song.Tone.Model,
		"accompaniment", song.Accompaniment.Mode)
	track, events, err := ambler.Play(song)
	if err != nil {
		return fmt.Errorf("could not render song: %w", err)
	}
	path, err := outputPath(renderOpts.output, &song)
	if err != nil {
		return err
	}
	if err := writeWav(path, track, song.SampleRate); err != nil {
		return err
	}
	slog.Info("wrote .wav file", "path", path, "samples", len(track), "duration", track.Duration(song.SampleRate))
	if renderOpts.raw {
		rawPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".raw"
		raw, err := track.Raw()
		if err != nil {
			return fmt.Errorf("could not generate .raw file: %w", err)
		}
		if err := os.WriteFile(rawPath, raw, 0644); err != nil {
			return fmt.Errorf("could not write file %v: %w", rawPath, err)
		}
		slog.Info("wrote .raw file", "path", rawPath)
	}
	fmt.Fprintln(cmd.OutOrStdout(), summary(&song, len(events), len(track)))
	if renderOpts.play {
		return play(track, song.SampleRate)
	}
	return nil
}

// writeWav creates the parent directory of path if needed and writes the
// track there.
func writeWav(path string, track ambler.AudioBuffer, sampleRate int) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return fmt.Errorf("could not create output directory %v: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create file %v: %w", path, err)
	}
	if err := track.Wav(f, sampleRate); err != nil {
		f.Close()
		return fmt.Errorf("could not write file %v: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("could not write file %v: %w", path, err)
	}
	return nil
}

func play(track ambler.AudioBuffer, sampleRate int) error {
	context, err := oto.NewContext(sampleRate)
	if err != nil {
		return fmt.Errorf("could not acquire oto AudioContext: %w", err)
	}
	defer context.Close()
	slog.Info("playing", "duration", track.Duration(sampleRate))
	waiter, err := context.Play(track)
	if err != nil {
		return err
	}
	waiter.Wait()
	return waiter.Close()
}
