package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsariola/ambler"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ambler",
	Short: "Procedural piano melody generator",
	Long: `ambler - generates a short piano-like melody by a seeded random walk over a
scale and renders it to a mono 16-bit .wav file.

A song file (.yml or .json) can change any field of the default song; the
flags override the song file. The same song and seed always give the same
audio.

Examples:
  # Render the default song to output/peaceful_piano_30s.wav
  ambler render

  # Render a song file with another seed and listen to it
  ambler render songs/chords.yml --seed 7 -p

  # Show the notes without rendering
  ambler sequence --walk uniform`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// songFlags are the song fields that can be overridden on the command line.
type songFlags struct {
	seed          uint64
	notes         int
	duration      float64
	sampleRate    int
	walk          string
	tone          string
	accompaniment string
	headroom      float64
}

func (f *songFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Uint64Var(&f.seed, "seed", ambler.DefaultSeed, "random seed")
	fs.IntVarP(&f.notes, "notes", "n", ambler.DefaultNumNotes, "number of notes")
	fs.Float64VarP(&f.duration, "duration", "d", ambler.DefaultNoteDuration, "note duration in seconds")
	fs.IntVarP(&f.sampleRate, "rate", "r", ambler.DefaultSampleRate, "sample rate in Hz")
	fs.StringVar(&f.walk, "walk", string(ambler.WalkRandom), "melody mode: walk or uniform")
	fs.StringVar(&f.tone, "tone", string(ambler.ToneHarmonic), "tone model: harmonic or decay")
	fs.StringVar(&f.accompaniment, "accompaniment", string(ambler.AccompanimentDrone), "accompaniment: none, drone or chords")
	fs.Float64Var(&f.headroom, "headroom", 0, "peak level after normalization, 0 for the tone model default")
}

// load returns the song of the first argument, or the default song, with the
// flags that were set on the command line applied.
func (f *songFlags) load(cmd *cobra.Command, args []string) (ambler.Song, error) {
	song := ambler.DefaultSong()
	if len(args) > 0 {
		var err error
		if song, err = ambler.LoadSong(args[0]); err != nil {
			return ambler.Song{}, err
		}
		slog.Debug("loaded song", "path", args[0])
	}
	fs := cmd.Flags()
	if fs.Changed("seed") {
		song.Seed = f.seed
	}
	if fs.Changed("notes") {
		song.NumNotes = f.notes
	}
	if fs.Changed("duration") {
		song.NoteDuration = f.duration
	}
	if fs.Changed("rate") {
		song.SampleRate = f.sampleRate
	}
	if fs.Changed("walk") {
		song.Walk = ambler.WalkMode(f.walk)
	}
	if fs.Changed("tone") {
		song.Tone.Model = ambler.ToneModel(f.tone)
	}
	if fs.Changed("accompaniment") {
		song.Accompaniment.Mode = ambler.AccompanimentMode(f.accompaniment)
		if song.Accompaniment.Mode == ambler.AccompanimentDrone && song.Accompaniment.Drone == "" {
			song.Accompaniment.Drone = ambler.DefaultSong().Accompaniment.Drone
		}
	}
	if fs.Changed("headroom") {
		song.Headroom = f.headroom
	}
	if err := song.Validate(); err != nil {
		return ambler.Song{}, fmt.Errorf("invalid song: %w", err)
	}
	return song, nil
}
