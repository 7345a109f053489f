package interview

import (
	"fmt"
	"time"
)

// Config gathers every tunable threshold the engine consumes. All values are
// deployment configuration: missing or nonsensical entries are rejected by
// Validate at startup instead of surfacing mid-session.
type Config struct {
	// Session ceilings.
	MaxSessionMinutes  int `mapstructure:"max-session-minutes"`
	MaxQuestions       int `mapstructure:"max-questions"`
	CriticalRedFlags   int `mapstructure:"critical-red-flags"`
	MaxPlanAreas       int `mapstructure:"max-plan-areas"`
	MaxConcernsInPlan  int `mapstructure:"max-concerns-in-plan"`
	RecentExchanges    int `mapstructure:"recent-exchanges"`
	AnswerPreviewRunes int `mapstructure:"answer-preview-runes"`

	Time       TimeConfig       `mapstructure:"time"`
	Levels     LevelConfig      `mapstructure:"levels"`
	Difficulty DifficultyConfig `mapstructure:"difficulty"`
	Topics     TopicConfig      `mapstructure:"topics"`
	Repetition RepetitionConfig `mapstructure:"repetition"`
	Transition TransitionConfig `mapstructure:"transitions"`
	Report     ReportConfig     `mapstructure:"report"`
}

// TimeConfig drives both absolute time severities and the ratio-based
// per-phase strategy bands. The two signals are consumed independently:
// absolute severity can force a phase transition, the ratio only adjusts
// in-phase question depth.
type TimeConfig struct {
	CriticalMinutes   int `mapstructure:"critical-minutes"`
	WrapUpMinutes     int `mapstructure:"wrap-up-minutes"`
	AccelerateMinutes int `mapstructure:"accelerate-minutes"`

	// Target duration per phase, in minutes, keyed by phase name.
	PhaseTargetMinutes map[string]int `mapstructure:"phase-target-minutes"`

	// Breakpoints for the remaining/targets ratio.
	RatioCritical float64 `mapstructure:"ratio-critical"`
	RatioTight    float64 `mapstructure:"ratio-tight"`
	RatioAmple    float64 `mapstructure:"ratio-ample"`
}

// LevelConfig maps the running technical average into a candidate level once
// enough answers were recorded.
type LevelConfig struct {
	MinAnswers int     `mapstructure:"min-answers"`
	SeniorBar  float64 `mapstructure:"senior-bar"`
	MiddleBar  float64 `mapstructure:"middle-bar"`
}

// DifficultyConfig controls the hysteresis-based difficulty adaptation.
type DifficultyConfig struct {
	WeakThreshold     float64 `mapstructure:"weak-threshold"`
	StrongThreshold   float64 `mapstructure:"strong-threshold"`
	VeryWeakThreshold float64 `mapstructure:"very-weak-threshold"`
	ConsecutiveWeak   int     `mapstructure:"consecutive-weak"`
	ConsecutiveStrong int     `mapstructure:"consecutive-strong"`
	DefaultDifficulty string  `mapstructure:"default"`
}

// TopicConfig controls per-topic failure and strength marking.
type TopicConfig struct {
	FailureThreshold    float64 `mapstructure:"failure-threshold"`
	SuccessThreshold    float64 `mapstructure:"success-threshold"`
	ConsecutiveFailures int     `mapstructure:"consecutive-failures"`
}

// RepetitionConfig controls the repetition guard.
type RepetitionConfig struct {
	TopicFrequencyLimit  int     `mapstructure:"topic-frequency-limit"`
	AlternativeFrequency int     `mapstructure:"alternative-frequency"`
	RecentWindow         int     `mapstructure:"recent-window"`
	MinSharedKeywords    int     `mapstructure:"min-shared-keywords"`
	OverlapRatio         float64 `mapstructure:"overlap-ratio"`
	MinKeywordRunes      int     `mapstructure:"min-keyword-runes"`
}

// TransitionConfig is the recommended-phase policy table.
type TransitionConfig struct {
	ExplorationMinQuestions      int     `mapstructure:"exploration-min-questions"`
	ExplorationFallbackQuestions int     `mapstructure:"exploration-fallback-questions"`
	ValidationStressMinAvg       float64 `mapstructure:"validation-stress-min-avg"`
	ValidationStressMinQuestions int     `mapstructure:"validation-stress-min-questions"`
	ValidationSoftMinQuestions   int     `mapstructure:"validation-soft-min-questions"`
	StressSoftMinQuestions       int     `mapstructure:"stress-soft-min-questions"`
	SoftWrapUpMinQuestions       int     `mapstructure:"soft-wrap-up-min-questions"`
}

// ReportConfig holds the recommendation bands of the final report.
type ReportConfig struct {
	StrongHireScore    int `mapstructure:"strong-hire-score"`
	HireScore          int `mapstructure:"hire-score"`
	ConditionalScore   int `mapstructure:"conditional-score"`
	HireRedFlagCap     int `mapstructure:"hire-red-flag-cap"`
	ConditionalFlagCap int `mapstructure:"conditional-red-flag-cap"`
}

// DefaultConfig returns the stock tuning. Deployments override individual
// keys through the configuration file.
func DefaultConfig() *Config {
	return &Config{
		MaxSessionMinutes:  25,
		MaxQuestions:       12,
		CriticalRedFlags:   8,
		MaxPlanAreas:       4,
		MaxConcernsInPlan:  3,
		RecentExchanges:    3,
		AnswerPreviewRunes: 400,
		Time: TimeConfig{
			CriticalMinutes:   3,
			WrapUpMinutes:     7,
			AccelerateMinutes: 12,
			PhaseTargetMinutes: map[string]int{
				string(PhaseExploration): 5,
				string(PhaseValidation):  8,
				string(PhaseStressTest):  6,
				string(PhaseSoftSkills):  5,
				string(PhaseWrapUp):      1,
			},
			RatioCritical: 0.5,
			RatioTight:    0.8,
			RatioAmple:    1.5,
		},
		Levels: LevelConfig{
			MinAnswers: 3,
			SeniorBar:  7.0,
			MiddleBar:  4.0,
		},
		Difficulty: DifficultyConfig{
			WeakThreshold:     4.0,
			StrongThreshold:   8.0,
			VeryWeakThreshold: 2.0,
			ConsecutiveWeak:   2,
			ConsecutiveStrong: 2,
			DefaultDifficulty: DifficultyMedium,
		},
		Topics: TopicConfig{
			FailureThreshold:    3.0,
			SuccessThreshold:    8.0,
			ConsecutiveFailures: 2,
		},
		Repetition: RepetitionConfig{
			TopicFrequencyLimit:  3,
			AlternativeFrequency: 2,
			RecentWindow:         3,
			MinSharedKeywords:    2,
			OverlapRatio:         0.6,
			MinKeywordRunes:      4,
		},
		Transition: TransitionConfig{
			ExplorationMinQuestions:      2,
			ExplorationFallbackQuestions: 4,
			ValidationStressMinAvg:       6.0,
			ValidationStressMinQuestions: 2,
			ValidationSoftMinQuestions:   3,
			StressSoftMinQuestions:       1,
			SoftWrapUpMinQuestions:       2,
		},
		Report: ReportConfig{
			StrongHireScore:    80,
			HireScore:          65,
			ConditionalScore:   50,
			HireRedFlagCap:     1,
			ConditionalFlagCap: 2,
		},
	}
}

// Validate rejects configurations that would otherwise fail mid-session.
func (c *Config) Validate() error {
	if c.MaxSessionMinutes <= 0 {
		return fmt.Errorf("max-session-minutes must be positive, got %d", c.MaxSessionMinutes)
	}
	if c.MaxQuestions <= 0 {
		return fmt.Errorf("max-questions must be positive, got %d", c.MaxQuestions)
	}
	if c.CriticalRedFlags <= 0 {
		return fmt.Errorf("critical-red-flags must be positive, got %d", c.CriticalRedFlags)
	}
	if c.Time.CriticalMinutes <= 0 ||
		c.Time.WrapUpMinutes <= c.Time.CriticalMinutes ||
		c.Time.AccelerateMinutes <= c.Time.WrapUpMinutes {
		return fmt.Errorf("time severities must satisfy 0 < critical < wrap-up < accelerate, got %d/%d/%d",
			c.Time.CriticalMinutes, c.Time.WrapUpMinutes, c.Time.AccelerateMinutes)
	}
	for _, phase := range Phases() {
		if phase.Terminal() {
			continue
		}
		if _, ok := c.Time.PhaseTargetMinutes[string(phase)]; !ok {
			return fmt.Errorf("time.phase-target-minutes is missing phase %q", phase)
		}
	}
	if !(c.Time.RatioCritical > 0 && c.Time.RatioCritical < c.Time.RatioTight && c.Time.RatioTight < c.Time.RatioAmple) {
		return fmt.Errorf("time ratio breakpoints must satisfy 0 < critical < tight < ample, got %.2f/%.2f/%.2f",
			c.Time.RatioCritical, c.Time.RatioTight, c.Time.RatioAmple)
	}
	if c.Levels.MinAnswers <= 0 {
		return fmt.Errorf("levels.min-answers must be positive, got %d", c.Levels.MinAnswers)
	}
	if c.Levels.MiddleBar >= c.Levels.SeniorBar {
		return fmt.Errorf("levels.middle-bar %.1f must be below levels.senior-bar %.1f", c.Levels.MiddleBar, c.Levels.SeniorBar)
	}
	if c.Difficulty.WeakThreshold >= c.Difficulty.StrongThreshold {
		return fmt.Errorf("difficulty.weak-threshold %.1f must be below difficulty.strong-threshold %.1f",
			c.Difficulty.WeakThreshold, c.Difficulty.StrongThreshold)
	}
	if c.Difficulty.ConsecutiveWeak <= 0 || c.Difficulty.ConsecutiveStrong <= 0 {
		return fmt.Errorf("difficulty consecutive counters must be positive")
	}
	if c.Topics.FailureThreshold >= c.Topics.SuccessThreshold {
		return fmt.Errorf("topics.failure-threshold %.1f must be below topics.success-threshold %.1f",
			c.Topics.FailureThreshold, c.Topics.SuccessThreshold)
	}
	if c.Topics.ConsecutiveFailures <= 0 {
		return fmt.Errorf("topics.consecutive-failures must be positive, got %d", c.Topics.ConsecutiveFailures)
	}
	if c.Repetition.TopicFrequencyLimit <= 0 || c.Repetition.RecentWindow <= 0 {
		return fmt.Errorf("repetition limits must be positive")
	}
	if c.Repetition.OverlapRatio <= 0 || c.Repetition.OverlapRatio >= 1 {
		return fmt.Errorf("repetition.overlap-ratio must be in (0, 1), got %.2f", c.Repetition.OverlapRatio)
	}
	if c.Report.ConditionalScore >= c.Report.HireScore || c.Report.HireScore >= c.Report.StrongHireScore {
		return fmt.Errorf("report bands must satisfy conditional < hire < strong-hire, got %d/%d/%d",
			c.Report.ConditionalScore, c.Report.HireScore, c.Report.StrongHireScore)
	}
	return nil
}

// phaseTarget returns the configured target duration for a phase.
func (c *Config) phaseTarget(p Phase) time.Duration {
	return time.Duration(c.Time.PhaseTargetMinutes[string(p)]) * time.Minute
}
