package main

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"
	"github.com/spf13/cobra"

	"github.com/vsariola/ambler"
	"github.com/vsariola/ambler/spectrum"
)

var inspectOpts struct {
	duration float64
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.wav>",
	Short: "Show the format, peak and note pitches of a .wav file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().Float64VarP(&inspectOpts.duration, "duration", "d", ambler.DefaultNoteDuration, "note duration in seconds")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	samples, sampleRate, err := readWav(args[0])
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, styles.Title.Render(args[0])+printer.Sprintf(": %d samples at %d Hz (%.2f s), peak %.4f",
		len(samples), sampleRate, float64(len(samples))/float64(sampleRate), spectrum.Peak(samples)))
	size := int(math.Floor(inspectOpts.duration * float64(sampleRate)))
	if size <= 0 {
		return fmt.Errorf("note duration %v is shorter than one sample", inspectOpts.duration)
	}
	for i, f := range spectrum.Slots(samples, sampleRate, size) {
		fmt.Fprintln(out, styles.Index.Render(fmt.Sprint(i))+"  "+
			styles.Melody.Render(nearestPitch(f, ambler.DefaultPitches))+"  "+
			styles.Help.Render(fmt.Sprintf("%.1f Hz", f)))
	}
	return nil
}

// readWav returns the first channel of a PCM .wav file scaled to [-1, 1].
func readWav(path string) ([]float64, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("could not open %v: %w", path, err)
	}
	defer f.Close()
	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, 0, fmt.Errorf("%v is not a valid .wav file", path)
	}
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("could not decode %v: %w", path, err)
	}
	if d.BitDepth == 0 || d.SampleRate == 0 {
		return nil, 0, fmt.Errorf("%v has no usable format chunk", path)
	}
	channels := max(int(d.NumChans), 1)
	scale := float64(int(1)<<(d.BitDepth-1) - 1)
	samples := make([]float64, 0, len(buf.Data)/channels)
	for i := 0; i < len(buf.Data); i += channels {
		samples = append(samples, float64(buf.Data[i])/scale)
	}
	return samples, int(d.SampleRate), nil
}

// nearestPitch returns the name of the pitch closest to f in cents, or "-"
// for silence.
func nearestPitch(f float64, pitches ambler.PitchTable) string {
	if f <= 0 {
		return "-"
	}
	best, bestDist := "-", math.Inf(1)
	for name, pf := range pitches {
		if pf <= 0 {
			continue
		}
		if d := math.Abs(math.Log2(f / pf)); d < bestDist || (d == bestDist && name < best) {
			best, bestDist = name, d
		}
	}
	return best
}
