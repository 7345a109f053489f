package interview

import "time"

// TimeStatus is the coarse severity derived from the absolute remaining time.
// It is one of the signals that can force a phase transition.
type TimeStatus string

const (
	TimeOnTrack    TimeStatus = "on_track"
	TimeAccelerate TimeStatus = "accelerate"
	TimeWrapUp     TimeStatus = "wrap_up"
	TimeCritical   TimeStatus = "critical"
)

// PhaseStrategy is the advisory band derived from the ratio of remaining
// time to the remaining phase targets. It never forces a transition, it only
// adjusts in-phase question depth.
type PhaseStrategy string

const (
	StrategyCriticalShortage PhaseStrategy = "critical_shortage"
	StrategyAccelerate       PhaseStrategy = "accelerate"
	StrategyOnTrack          PhaseStrategy = "on_track"
	StrategyAmpleTime        PhaseStrategy = "ample_time"
)

// TimeBudget tracks the session clock against the configured ceiling and the
// per-phase target schedule. All reads are synchronous queries against the
// clock; nothing mutates the budget from a timer.
type TimeBudget struct {
	cfg   *Config
	start time.Time

	now func() time.Time
}

// NewTimeBudget starts the session clock.
func NewTimeBudget(cfg *Config) *TimeBudget {
	b := &TimeBudget{cfg: cfg, now: time.Now}
	b.start = b.now()
	return b
}

// Elapsed returns the time since session start.
func (b *TimeBudget) Elapsed() time.Duration {
	return b.now().Sub(b.start)
}

// Remaining returns the time left before the session ceiling, floored at zero.
func (b *TimeBudget) Remaining() time.Duration {
	max := time.Duration(b.cfg.MaxSessionMinutes) * time.Minute
	remaining := max - b.Elapsed()
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Status buckets the remaining time into one of four ordered severities using
// the configured minute thresholds.
func (b *TimeBudget) Status() TimeStatus {
	remaining := b.Remaining()
	switch {
	case remaining < time.Duration(b.cfg.Time.CriticalMinutes)*time.Minute:
		return TimeCritical
	case remaining < time.Duration(b.cfg.Time.WrapUpMinutes)*time.Minute:
		return TimeWrapUp
	case remaining < time.Duration(b.cfg.Time.AccelerateMinutes)*time.Minute:
		return TimeAccelerate
	default:
		return TimeOnTrack
	}
}

// PhaseStrategy compares the remaining time to the summed target durations of
// the current phase and everything after it in the canonical order. The
// ratio, not the absolute remaining minutes, picks the band.
func (b *TimeBudget) PhaseStrategy(current Phase) PhaseStrategy {
	var targets time.Duration
	for _, phase := range current.FromCurrent() {
		targets += b.cfg.phaseTarget(phase)
	}
	if targets <= 0 {
		return StrategyOnTrack
	}

	ratio := float64(b.Remaining()) / float64(targets)
	switch {
	case ratio < b.cfg.Time.RatioCritical:
		return StrategyCriticalShortage
	case ratio < b.cfg.Time.RatioTight:
		return StrategyAccelerate
	case ratio <= b.cfg.Time.RatioAmple:
		return StrategyOnTrack
	default:
		return StrategyAmpleTime
	}
}
