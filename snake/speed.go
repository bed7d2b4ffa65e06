package snake

import "time"

// Speed bounds the automatic movement interval. Each point of score
// shortens the interval by Step until it reaches Min.
type Speed struct {
	Max  time.Duration
	Min  time.Duration
	Step time.Duration
}

var DefaultSpeed = Speed{
	Max:  150 * time.Millisecond,
	Min:  60 * time.Millisecond,
	Step: 30 * time.Millisecond,
}

// Interval returns max(Min, Max - score*Step).
func Interval(score int, s Speed) time.Duration {
	if score <= 0 || s.Step <= 0 {
		return max(s.Max, s.Min)
	}
	// compare in steps so large scores cannot overflow the multiplication
	if steps := (s.Max - s.Min) / s.Step; time.Duration(score) > steps {
		return s.Min
	}
	return max(s.Max-time.Duration(score)*s.Step, s.Min)
}
