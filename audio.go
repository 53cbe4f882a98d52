package ambler

// AudioContext plays rendered tracks on an audio device.
type AudioContext interface {
	Play(buffer AudioBuffer) (CloserWaiter, error)
	Close() error
}

// CloserWaiter is a track being played. Wait blocks until the track has
// finished; Close stops it early.
type CloserWaiter interface {
	Close() error
	Wait()
}
