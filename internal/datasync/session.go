package datasync

import (
	"math"
	"time"
)

// minFlushMinutes is the noise floor below which elapsed listening time is
// discarded instead of recorded. Comparison is strict: exactly 0.1 minutes
// records nothing.
const minFlushMinutes = 0.1

// ListeningSession is the bounded interval during which one song counts as
// currently playing. At most one session exists per viewer; starting a new
// song flushes the previous session first.
type ListeningSession struct {
	SongID    int64
	StartedAt time.Time
}

// ElapsedMinutes returns the raw elapsed listening time at now.
func (s ListeningSession) ElapsedMinutes(now time.Time) float64 {
	return now.Sub(s.StartedAt).Minutes()
}

// roundMinutes rounds to two decimal places; only the recorded value is
// rounded, never the value compared against the noise floor.
func roundMinutes(m float64) float64 {
	return math.Round(m*100) / 100
}
