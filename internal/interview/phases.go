package interview

import "github.com/PRYANIK26/FullStack-AI-HR/internal/oracle"

// recommendedPhase computes the advisory next phase from the policy table.
// It is a pure function of the current phase, the question count within it,
// and the profile; it never forces anything by itself.
func recommendedPhase(cfg *Config, current Phase, questionsInPhase int, profile *Profile) Phase {
	rules := cfg.Transition

	switch current {
	case PhaseExploration:
		if questionsInPhase >= rules.ExplorationMinQuestions && profile.LevelConfirmed() {
			return PhaseValidation
		}
		if questionsInPhase >= rules.ExplorationFallbackQuestions {
			return PhaseValidation
		}

	case PhaseValidation:
		if questionsInPhase >= rules.ValidationStressMinQuestions &&
			profile.AvgTechnical() >= rules.ValidationStressMinAvg {
			return PhaseStressTest
		}
		if questionsInPhase >= rules.ValidationSoftMinQuestions {
			return PhaseSoftSkills
		}

	case PhaseStressTest:
		if questionsInPhase >= rules.StressSoftMinQuestions {
			return PhaseSoftSkills
		}

	case PhaseSoftSkills:
		if questionsInPhase >= rules.SoftWrapUpMinQuestions {
			return PhaseWrapUp
		}

	case PhaseWrapUp:
		return PhaseFinished

	case PhaseFinished:
		return PhaseFinished
	}

	return current
}

// nextPhase resolves the competing transition triggers in strict precedence:
//
//  1. an absolute-critical time status forces wrap_up, skipping anything
//     in between;
//  2. the policy recommendation applies when it differs from the current
//     phase;
//  3. the oracle's adaptation request holds the phase regardless of its own
//     status and time fields;
//  4. the oracle declaring the interview finished ends it;
//  5. the oracle's time field requesting wrap-up or critical handling moves
//     to wrap_up.
//
// A nil decision (fallback turn) evaluates triggers 1 and 2 only.
func nextPhase(current, recommended Phase, timeStatus TimeStatus, decision *oracle.Decision) Phase {
	if current.Terminal() {
		return current
	}

	if timeStatus == TimeCritical {
		if current == PhaseWrapUp {
			return current
		}
		return PhaseWrapUp
	}

	if recommended != current {
		return recommended
	}

	if decision == nil {
		return current
	}

	if decision.WantsAdaptation() {
		return current
	}

	if decision.RequestsFinish() {
		return PhaseFinished
	}

	if decision.RequestsWrapUp() {
		return PhaseWrapUp
	}

	return current
}
