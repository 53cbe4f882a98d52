package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vsariola/ambler"
)

var sequenceOpts struct {
	song songFlags
}

var sequenceCmd = &cobra.Command{
	Use:   "sequence [song-file]",
	Short: "Print the notes of a song without rendering it",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		song, err := sequenceOpts.song.load(cmd, args)
		if err != nil {
			return err
		}
		seq, err := ambler.NewSequencer(song)
		if err != nil {
			return err
		}
		events, err := seq.Sequence(ambler.NewRand(song.Seed), song.NumNotes)
		if err != nil {
			return fmt.Errorf("could not sequence song: %w", err)
		}
		out := cmd.OutOrStdout()
		printEvents(out, events)
		fmt.Fprintln(out, summary(&song, len(events), len(events)*song.SamplesPerNote()))
		return nil
	},
}

func init() {
	sequenceOpts.song.register(sequenceCmd)
	rootCmd.AddCommand(sequenceCmd)
}

func printEvents(w io.Writer, events []ambler.Event) {
	for i, e := range events {
		line := styles.Index.Render(fmt.Sprint(i)) + "  " + styles.Melody.Render(e.Melody)
		switch {
		case e.Drone != "":
			line += "  " + styles.Accomp.Render("drone "+e.Drone)
		case len(e.Chord) > 0:
			line += "  " + styles.Accomp.Render("chord "+strings.Join(e.Chord, " "))
		}
		fmt.Fprintln(w, line)
	}
}
