package interview

import "sort"

// Question difficulty levels used throughout the engine.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// StrategyKind names a questioning strategy.
type StrategyKind string

const (
	StrategySimplify         StrategyKind = "simplify"
	StrategyAlternativeAngle StrategyKind = "alternative_angle"
	StrategyDeepen           StrategyKind = "deepen"
	StrategySwitchTopic      StrategyKind = "switch_topic"
)

// Tactic is the concrete guidance bundle attached to a strategy, consumed
// when framing the next question.
type Tactic struct {
	Difficulty string
	Approach   string
	Style      string
}

var tactics = map[StrategyKind]Tactic{
	StrategySimplify: {
		Difficulty: DifficultyEasy,
		Approach:   "break the problem into smaller steps",
		Style:      "short concrete question with a narrow scope",
	},
	StrategyAlternativeAngle: {
		Difficulty: DifficultyMedium,
		Approach:   "approach the same area from a practical scenario",
		Style:      "scenario-based question grounded in the candidate's experience",
	},
	StrategyDeepen: {
		Difficulty: DifficultyHard,
		Approach:   "probe edge cases and trade-offs",
		Style:      "open question inviting design reasoning",
	},
	StrategySwitchTopic: {
		Difficulty: DifficultyMedium,
		Approach:   "move to an uncovered area from the plan",
		Style:      "fresh introductory question for the new area",
	},
}

// Adaptor converts recent answer-quality signals into a questioning strategy
// and a recommended difficulty. Strategy changes are idempotent: observing
// the same signal twice reports a transition only once.
type Adaptor struct {
	cfg *Config

	current    StrategyKind
	failed     map[StrategyKind]bool
	successful map[StrategyKind]bool

	successfulTopics map[string]bool

	consecutiveWeak   int
	consecutiveStrong int
}

// NewAdaptor creates an adaptor in its neutral starting strategy.
func NewAdaptor(cfg *Config) *Adaptor {
	return &Adaptor{
		cfg:              cfg,
		current:          StrategyAlternativeAngle,
		failed:           make(map[StrategyKind]bool),
		successful:       make(map[StrategyKind]bool),
		successfulTopics: make(map[string]bool),
	}
}

// Observe feeds one technical score into the adaptor. It returns the active
// strategy and whether this observation changed it.
func (a *Adaptor) Observe(topic string, score float64) (StrategyKind, bool) {
	cfg := a.cfg.Difficulty

	switch {
	case score <= cfg.WeakThreshold:
		a.consecutiveWeak++
		a.consecutiveStrong = 0

		target := StrategyAlternativeAngle
		if score <= cfg.VeryWeakThreshold {
			target = StrategySimplify
		}
		return a.switchTo(target, false)

	case score >= cfg.StrongThreshold:
		a.consecutiveStrong++
		a.consecutiveWeak = 0
		if topic != "" {
			a.successfulTopics[topic] = true
		}
		return a.switchTo(StrategyDeepen, true)

	default:
		a.consecutiveWeak = 0
		a.consecutiveStrong = 0
		return a.current, false
	}
}

// switchTo moves to the target strategy if it differs from the current one,
// bookkeeping the outgoing strategy as failed or successful.
func (a *Adaptor) switchTo(target StrategyKind, succeeded bool) (StrategyKind, bool) {
	if succeeded {
		a.successful[a.current] = true
	} else {
		a.failed[a.current] = true
	}
	if target == a.current {
		return a.current, false
	}
	a.current = target
	return a.current, true
}

// Current returns the active strategy.
func (a *Adaptor) Current() StrategyKind { return a.current }

// Tactic returns the guidance bundle for the active strategy.
func (a *Adaptor) Tactic() Tactic { return tactics[a.current] }

// TacticFor returns the guidance bundle for an arbitrary strategy.
func TacticFor(kind StrategyKind) (Tactic, bool) {
	t, ok := tactics[kind]
	return t, ok
}

// TopicSucceeded reports whether a strong answer was observed on the topic.
func (a *Adaptor) TopicSucceeded(topic string) bool { return a.successfulTopics[topic] }

// StrategyFailed reports whether the strategy ever preceded a weak answer.
func (a *Adaptor) StrategyFailed(kind StrategyKind) bool { return a.failed[kind] }

// FailedStrategies returns the strategies that preceded weak answers, sorted.
func (a *Adaptor) FailedStrategies() []string {
	kinds := make([]string, 0, len(a.failed))
	for k := range a.failed {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	return kinds
}

// SuccessfulTopics returns the topics that produced strong answers, sorted.
func (a *Adaptor) SuccessfulTopics() []string {
	return sortedKeys(a.successfulTopics)
}

// RecommendDifficulty picks the next question difficulty. The consecutive
// weak/strong counters take precedence over the average-driven
// recommendation whenever both would fire.
func (a *Adaptor) RecommendDifficulty(avgTechnical float64) string {
	cfg := a.cfg.Difficulty
	switch {
	case a.consecutiveWeak >= cfg.ConsecutiveWeak:
		return DifficultyEasy
	case a.consecutiveStrong >= cfg.ConsecutiveStrong:
		return DifficultyHard
	case avgTechnical < cfg.WeakThreshold:
		return DifficultyEasy
	case avgTechnical > cfg.StrongThreshold:
		return DifficultyHard
	default:
		return DifficultyMedium
	}
}
