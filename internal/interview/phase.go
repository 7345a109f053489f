package interview

import (
	"fmt"
	"time"
)

// Phase is a named stage of the interview. The set is closed: every decision
// point matches exhaustively, so an unrecognized phase name can never be
// accepted silently.
type Phase string

const (
	PhaseExploration Phase = "exploration"
	PhaseValidation  Phase = "validation"
	PhaseStressTest  Phase = "stress_test"
	PhaseSoftSkills  Phase = "soft_skills"
	PhaseWrapUp      Phase = "wrap_up"
	PhaseFinished    Phase = "finished"
)

// phaseOrder is the canonical progression. PhaseFinished is terminal.
var phaseOrder = []Phase{
	PhaseExploration,
	PhaseValidation,
	PhaseStressTest,
	PhaseSoftSkills,
	PhaseWrapUp,
	PhaseFinished,
}

// ParsePhase converts a phase name into a Phase. Unknown names are rejected
// so that a bad value from the oracle or a policy table cannot leak into the
// state machine.
func ParsePhase(name string) (Phase, error) {
	for _, p := range phaseOrder {
		if string(p) == name {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown interview phase: %q", name)
}

// Phases returns the canonical phase order.
func Phases() []Phase {
	out := make([]Phase, len(phaseOrder))
	copy(out, phaseOrder)
	return out
}

// index returns the position of p in the canonical order, or -1.
func (p Phase) index() int {
	for i, candidate := range phaseOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Terminal reports whether the phase accepts no further transitions.
func (p Phase) Terminal() bool { return p == PhaseFinished }

// FromCurrent returns the current phase followed by every phase after it in
// the canonical order, excluding the terminal phase. Used by the time budget
// to sum the remaining target durations.
func (p Phase) FromCurrent() []Phase {
	idx := p.index()
	if idx < 0 {
		return nil
	}
	var out []Phase
	for _, candidate := range phaseOrder[idx:] {
		if candidate.Terminal() {
			continue
		}
		out = append(out, candidate)
	}
	return out
}

// PhaseStats accumulates per-phase bookkeeping while the phase is active.
// Once the phase is exited the record moves verbatim into the phase history
// and is no longer mutated.
type PhaseStats struct {
	QuestionsAsked   int
	DifficultiesUsed []string

	StartedAt time.Time

	scoreSum   float64
	scoreCount int
}

// RecordScore adds a technical score to the phase average.
func (s *PhaseStats) RecordScore(score float64) {
	s.scoreSum += score
	s.scoreCount++
}

// RecordDifficulty notes a difficulty level used within the phase, once.
func (s *PhaseStats) RecordDifficulty(difficulty string) {
	if difficulty == "" {
		return
	}
	for _, d := range s.DifficultiesUsed {
		if d == difficulty {
			return
		}
	}
	s.DifficultiesUsed = append(s.DifficultiesUsed, difficulty)
}

// AvgScore returns the arithmetic mean of the technical scores recorded in
// this phase, or zero when none were recorded.
func (s *PhaseStats) AvgScore() float64 {
	if s.scoreCount == 0 {
		return 0
	}
	return s.scoreSum / float64(s.scoreCount)
}

// PhaseSnapshot is the immutable record appended to the phase history when a
// phase is exited.
type PhaseSnapshot struct {
	Phase          Phase         `json:"phase"`
	Duration       time.Duration `json:"duration"`
	QuestionsAsked int           `json:"questions_asked"`
}
