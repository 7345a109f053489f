package oracle

import (
	_ "embed"
	"fmt"
	"strings"
)

//go:embed prompts/initial.md
var initialTemplate string

//go:embed prompts/question.md
var questionTemplate string

// phaseGuidance steers the oracle's questioning within each phase.
var phaseGuidance = map[string]string{
	"exploration": "map the candidate's background and locate their strongest areas",
	"validation":  "verify claimed experience with concrete, specific questions",
	"stress_test": "probe limits with a hard practical problem",
	"soft_skills": "assess collaboration, communication and ownership",
	"wrap_up":     "close the conversation and invite the candidate's questions",
}

// BuildPrompt renders the context document into the prompt for the oracle.
func BuildPrompt(ic Context) string {
	if ic.Initial {
		return renderTemplate(initialTemplate, ic)
	}
	return renderTemplate(questionTemplate, ic)
}

func renderTemplate(template string, ic Context) string {
	replacements := map[string]string{
		"CANDIDATE_NAME":      orNone(ic.CandidateName),
		"VACANCY_TITLE":       orNone(ic.VacancyTitle),
		"INDUSTRY":            orNone(ic.Industry),
		"CANDIDATE_LEVEL":     orNone(ic.CandidateLevel),
		"COMMUNICATION_STYLE": orNone(ic.CommunicationStyle),
		"AVG_TECHNICAL":       fmt.Sprintf("%.1f", ic.AvgTechnical),
		"AVG_COMMUNICATION":   fmt.Sprintf("%.1f", ic.AvgCommunication),
		"AVG_CONFIDENCE":      fmt.Sprintf("%.1f", ic.AvgConfidence),
		"STRENGTHS":           joinOrNone(ic.Strengths),
		"WEAKNESSES":          joinOrNone(ic.Weaknesses),
		"RED_FLAGS":           joinOrNone(ic.RedFlags),
		"LEARNING_INDICATORS": joinOrNone(ic.LearningIndicators),
		"PRIORITY_CONCERNS":   joinOrNone(ic.PriorityConcerns),
		"HR_STRENGTHS":        joinOrNone(ic.HRStrengths),
		"HR_CONCERNS":         joinOrNone(ic.HRConcerns),
		"ELAPSED_MINUTES":     fmt.Sprintf("%d", ic.ElapsedMinutes),
		"QUESTIONS_ASKED":     fmt.Sprintf("%d", ic.QuestionsAsked),
		"TIME_STATUS":         orNone(ic.TimeStatus),
		"PHASE_STRATEGY":      orNone(ic.PhaseStrategy),
		"PHASE":               orNone(ic.Phase),
		"PHASE_GUIDANCE":      orNone(phaseGuidance[ic.Phase]),
		"INTERVIEW_PLAN":      joinOrNone(ic.Plan),
		"COVERED_AREAS":       joinOrNone(ic.CoveredAreas),
		"AVOID_TOPICS":        joinOrNone(ic.AvoidTopics),
		"CURRENT_DIFFICULTY":  orNone(ic.CurrentDifficulty),
		"STRATEGY_APPROACH":   orNone(ic.StrategyApproach),
		"RECENT_EXCHANGES":    renderExchanges(ic.RecentExchanges),
		"LAST_QUESTION":       orNone(ic.LastQuestion),
		"LAST_ANSWER":         orNone(ic.LastAnswer),
	}

	prompt := template
	for key, value := range replacements {
		prompt = strings.ReplaceAll(prompt, "{{"+key+"}}", value)
	}
	return prompt
}

func renderExchanges(exchanges []Exchange) string {
	if len(exchanges) == 0 {
		return "none yet"
	}
	var b strings.Builder
	for i, e := range exchanges {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "[%s] Q: %s\n    A: %s", e.Phase, e.Question, e.Answer)
	}
	return b.String()
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return "none"
	}
	return s
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
