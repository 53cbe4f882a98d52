// Command ambler generates a short piano-like melody and renders it to a
// mono 16-bit .wav file.
//
// Usage:
//
//	ambler render [flags] [song.yml]
//	ambler sequence [flags] [song.yml]
//	ambler inspect [flags] <file.wav>
//	ambler version
//
// Without a song file the built-in default song is used: forty 0.75 s notes
// on a pentatonic scale, seed 42, written to output/peaceful_piano_30s.wav.
package main
