// Package spectrum finds the dominant frequencies of rendered audio.
//
// It is used to check rendered tracks: every note slot of a track should have
// its strongest component at the fundamental of the melody pitch, or at the
// drone or chord when those are louder.
package spectrum
