package interview

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Level is the dynamically determined seniority of the candidate.
type Level string

const (
	LevelUnknown Level = "unknown"
	LevelJunior  Level = "junior"
	LevelMiddle  Level = "middle"
	LevelSenior  Level = "senior"

	// Provisional levels derived from the recruiter's prior analysis. They
	// are replaced by a confirmed level once enough answers were recorded.
	LevelJuniorCandidate Level = "junior_candidate"
	LevelMiddleCandidate Level = "middle_candidate"
	LevelSeniorCandidate Level = "senior_candidate"
)

// CandidateData is the prior information available before the session starts.
type CandidateData struct {
	Name         string `mapstructure:"name"`
	VacancyTitle string `mapstructure:"vacancy-title"`
	Industry     string `mapstructure:"industry"`
	// HRAnalysisJSON is the raw recruiter screening document. A malformed
	// document degrades to an empty prior, never to an error.
	HRAnalysisJSON string `mapstructure:"hr-analysis-json"`
}

// Scores is the per-answer score bundle extracted by the oracle.
type Scores struct {
	Technical           float64
	Communication       float64
	Confidence          float64
	Depth               float64
	PracticalExperience float64
	Strengths           []string
	RedFlags            []string
	Notes               string
}

// runningMean is an online arithmetic mean kept as an explicit (sum, count)
// accumulator to avoid floating-point drift over long sessions.
type runningMean struct {
	sum float64
	n   int
}

func (m *runningMean) add(x float64) {
	m.sum += x
	m.n++
}

func (m runningMean) value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

// Profile aggregates running statistics for one candidate across one
// session. It is owned exclusively by the session's orchestrator and is never
// shared between sessions.
type Profile struct {
	cfg *Config

	Name         string
	VacancyTitle string
	Industry     string

	level              Level
	communicationStyle string

	tech    runningMean
	comm    runningMean
	conf    runningMean
	answers int

	strengths          []string
	weaknesses         []string
	redFlags           []string
	learningIndicators []string

	hrStrengths []string
	hrConcerns  []string

	areaScores map[string][]float64
	areaAsked  map[string]int

	failStreak  map[string]int
	failedAreas map[string]bool
	strongAreas map[string]bool
}

// hrAnalysis mirrors the relevant slice of the recruiter screening document.
type hrAnalysis struct {
	FinalEvaluation struct {
		KeyStrengths     []string `json:"key_strengths"`
		CriticalConcerns []string `json:"critical_concerns"`
		OverallScore     float64  `json:"overall_score"`
	} `json:"final_evaluation"`
}

// NewProfile builds a profile seeded from the candidate's prior data.
func NewProfile(cfg *Config, data CandidateData) *Profile {
	p := &Profile{
		cfg:                cfg,
		Name:               data.Name,
		VacancyTitle:       data.VacancyTitle,
		Industry:           data.Industry,
		level:              LevelUnknown,
		communicationStyle: "unknown",
		areaScores:         make(map[string][]float64),
		areaAsked:          make(map[string]int),
		failStreak:         make(map[string]int),
		failedAreas:        make(map[string]bool),
		strongAreas:        make(map[string]bool),
	}
	p.seedFromHRAnalysis(data.HRAnalysisJSON)
	return p
}

func (p *Profile) seedFromHRAnalysis(raw string) {
	if strings.TrimSpace(raw) == "" {
		return
	}
	var analysis hrAnalysis
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		// A broken screening document means no prior, nothing more.
		return
	}
	p.hrStrengths = analysis.FinalEvaluation.KeyStrengths
	p.hrConcerns = analysis.FinalEvaluation.CriticalConcerns

	switch score := analysis.FinalEvaluation.OverallScore; {
	case score >= 85:
		p.level = LevelSeniorCandidate
	case score >= 70:
		p.level = LevelMiddleCandidate
	case score >= 50:
		p.level = LevelJuniorCandidate
	}
}

// RecordAnswer folds one evaluated answer into the profile. A nil bundle is
// a no-op: the profile is not perturbed.
func (p *Profile) RecordAnswer(area string, s *Scores) {
	if s == nil {
		return
	}

	p.answers++

	p.tech.add(s.Technical)
	p.comm.add(s.Communication)
	p.conf.add(s.Confidence)

	p.recordAreaScore(area, s.Technical)
	p.updateTopicMarks(area, s.Technical)
	p.updateLevel()
	p.updateCommunicationStyle(s)
	p.updateStrengthsWeaknesses(area, s)
	p.updateLearningIndicators(s.Notes)
	p.updateRedFlags(s.RedFlags)
}

// recordAreaScore appends the technical score to the area history. A score
// of exactly zero means "no score supplied" and is excluded from the area
// history even though it still enters the overall running average. The
// asymmetry is intentional and must stay.
func (p *Profile) recordAreaScore(area string, score float64) {
	if area == "" {
		area = "general"
	}
	p.areaAsked[area]++
	if score > 0 {
		p.areaScores[area] = append(p.areaScores[area], score)
	}
}

// updateTopicMarks maintains the consecutive-failure counter per topic.
// Intermediate scores decay the counter by one instead of resetting it, so a
// single middling answer cannot launder a struggling topic.
func (p *Profile) updateTopicMarks(area string, score float64) {
	if area == "" {
		area = "general"
	}
	switch {
	case score <= p.cfg.Topics.FailureThreshold:
		p.failStreak[area]++
		if p.failStreak[area] >= p.cfg.Topics.ConsecutiveFailures {
			p.failedAreas[area] = true
		}
	case score >= p.cfg.Topics.SuccessThreshold:
		p.failStreak[area] = 0
		p.strongAreas[area] = true
	default:
		if p.failStreak[area] > 0 {
			p.failStreak[area]--
		}
	}
}

func (p *Profile) updateLevel() {
	if p.answers < p.cfg.Levels.MinAnswers {
		return
	}
	avg := p.tech.value()
	switch {
	case avg >= p.cfg.Levels.SeniorBar:
		p.level = LevelSenior
	case avg >= p.cfg.Levels.MiddleBar:
		p.level = LevelMiddle
	default:
		p.level = LevelJunior
	}
}

func (p *Profile) updateCommunicationStyle(s *Scores) {
	switch {
	case s.Confidence >= 8 && s.Communication >= 7:
		p.communicationStyle = "confident"
	case s.Confidence <= 4:
		p.communicationStyle = "uncertain"
	case s.Communication >= 8:
		p.communicationStyle = "concise"
	default:
		p.communicationStyle = "developing"
	}
}

func (p *Profile) updateStrengthsWeaknesses(area string, s *Scores) {
	for _, strength := range s.Strengths {
		p.strengths = appendUnique(p.strengths, strength)
	}

	// A score clearly below the weak-answer bar records a weakness note.
	if s.Technical <= p.cfg.Difficulty.WeakThreshold-1 {
		if area == "" {
			area = "general"
		}
		note := fmt.Sprintf("weak knowledge in %s (score %.0f/10)", area, s.Technical)
		p.weaknesses = appendUnique(p.weaknesses, note)
	}
}

// learningSignals maps a learnability indicator to the phrases in the
// evaluator's notes that evidence it. Checked in a fixed order so indicator
// insertion is deterministic.
var learningSignals = []struct {
	indicator string
	phrases   []string
}{
	{"curious", []string{"asks questions", "wants to know", "shows interest"}},
	{"adaptive", []string{"tries to apply", "connects to experience", "thinks about applying"}},
	{"systematic", []string{"structured approach", "methodical", "step by step"}},
	{"growth_mindset", []string{"ready to learn", "wants to grow", "admits gaps"}},
}

// updateLearningIndicators scans the free-text analysis notes for phrases
// evidencing learnability and records the matched indicators.
func (p *Profile) updateLearningIndicators(notes string) {
	if notes == "" {
		return
	}
	lowered := strings.ToLower(notes)
	for _, signal := range learningSignals {
		for _, phrase := range signal.phrases {
			if strings.Contains(lowered, phrase) {
				p.learningIndicators = appendUnique(p.learningIndicators, signal.indicator)
				break
			}
		}
	}
}

func (p *Profile) updateRedFlags(flags []string) {
	for _, flag := range flags {
		p.redFlags = appendUnique(p.redFlags, flag)
	}
}

// appendUnique appends value unless an exact match is already present,
// preserving insertion order.
func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}

// PriorityConcerns returns the recruiter concerns not yet echoed by any
// confirmed strength, capped at three.
func (p *Profile) PriorityConcerns() []string {
	var unchecked []string
	for _, concern := range p.hrConcerns {
		addressed := false
		for _, strength := range p.strengths {
			if strings.Contains(strings.ToLower(strength), strings.ToLower(concern)) {
				addressed = true
				break
			}
		}
		if !addressed {
			unchecked = append(unchecked, concern)
		}
	}
	if len(unchecked) > 3 {
		unchecked = unchecked[:3]
	}
	return unchecked
}

// TechnicalLevel returns the current candidate level.
func (p *Profile) TechnicalLevel() Level { return p.level }

// LevelConfirmed reports whether the level was derived from this session's
// answers rather than remaining unknown or a recruiter-provided prior.
func (p *Profile) LevelConfirmed() bool {
	return p.level == LevelJunior || p.level == LevelMiddle || p.level == LevelSenior
}

// CommunicationStyle returns the current communication style tag.
func (p *Profile) CommunicationStyle() string { return p.communicationStyle }

// Answers returns how many answers were recorded.
func (p *Profile) Answers() int { return p.answers }

// AvgTechnical returns the running technical average.
func (p *Profile) AvgTechnical() float64 { return p.tech.value() }

// AvgCommunication returns the running communication average.
func (p *Profile) AvgCommunication() float64 { return p.comm.value() }

// AvgConfidence returns the running confidence average.
func (p *Profile) AvgConfidence() float64 { return p.conf.value() }

// Strengths returns the confirmed strengths in insertion order.
func (p *Profile) Strengths() []string { return p.strengths }

// Weaknesses returns the identified weaknesses in insertion order.
func (p *Profile) Weaknesses() []string { return p.weaknesses }

// RedFlags returns the deduplicated red flags in insertion order.
func (p *Profile) RedFlags() []string { return p.redFlags }

// LearningIndicators returns the learnability indicators in insertion order.
func (p *Profile) LearningIndicators() []string { return p.learningIndicators }

// HRStrengths returns the recruiter-provided strengths.
func (p *Profile) HRStrengths() []string { return p.hrStrengths }

// HRConcerns returns the recruiter-provided concerns.
func (p *Profile) HRConcerns() []string { return p.hrConcerns }

// HRValidatedStrengths returns the recruiter-provided strengths echoed by at
// least one confirmed strength, by lowercase substring match.
func (p *Profile) HRValidatedStrengths() []string {
	return echoedBy(p.hrStrengths, p.strengths)
}

// HRConfirmedConcerns returns the recruiter-provided concerns echoed by at
// least one identified weakness, by lowercase substring match.
func (p *Profile) HRConfirmedConcerns() []string {
	return echoedBy(p.hrConcerns, p.weaknesses)
}

func echoedBy(items, confirmations []string) []string {
	var echoed []string
	for _, item := range items {
		lowered := strings.ToLower(item)
		for _, confirmation := range confirmations {
			if strings.Contains(strings.ToLower(confirmation), lowered) {
				echoed = append(echoed, item)
				break
			}
		}
	}
	return echoed
}

// FailedAreas returns the topics marked failed, sorted for determinism.
func (p *Profile) FailedAreas() []string {
	return sortedKeys(p.failedAreas)
}

// StrongAreas returns the topics marked strong, sorted for determinism.
func (p *Profile) StrongAreas() []string {
	return sortedKeys(p.strongAreas)
}

// AreaFailed reports whether a topic is marked failed for this session.
func (p *Profile) AreaFailed(area string) bool { return p.failedAreas[area] }

// AreaScores returns the recorded score history for a topic.
func (p *Profile) AreaScores(area string) []float64 { return p.areaScores[area] }

// AreasCovered returns every topic that received at least one question.
func (p *Profile) AreasCovered() []string {
	keys := make([]string, 0, len(p.areaAsked))
	for area := range p.areaAsked {
		keys = append(keys, area)
	}
	sort.Strings(keys)
	return keys
}

// PerformanceByArea returns the mean recorded score per topic. Topics with
// only unscored answers are omitted.
func (p *Profile) PerformanceByArea() map[string]float64 {
	out := make(map[string]float64, len(p.areaScores))
	for area, scores := range p.areaScores {
		if len(scores) == 0 {
			continue
		}
		var sum float64
		for _, s := range scores {
			sum += s
		}
		out[area] = sum / float64(len(scores))
	}
	return out
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
