package interview

import (
	"encoding/json"
	"math"
	"os"
	"time"
)

// Recommendation values emitted in the final report.
const (
	RecommendStrongHire      = "strong_hire"
	RecommendHire            = "hire"
	RecommendConditionalHire = "conditional_hire"
	RecommendNoHire          = "no_hire"
)

// PhaseReport summarizes one phase for the final report.
type PhaseReport struct {
	Phase           Phase    `json:"phase"`
	QuestionsAsked  int      `json:"questions_asked"`
	DurationMinutes float64  `json:"duration_minutes"`
	AvgScore        float64  `json:"avg_score"`
	Difficulties    []string `json:"difficulties_used,omitempty"`
}

// Insights captures how the adaptive machinery behaved over the session.
type Insights struct {
	FinalStrategy    string   `json:"final_strategy"`
	FinalDifficulty  string   `json:"final_difficulty"`
	FailedStrategies []string `json:"failed_strategies,omitempty"`
	SuccessfulTopics []string `json:"successful_topics,omitempty"`
	FailedAreas      []string `json:"failed_areas,omitempty"`
	StrongAreas      []string `json:"strong_areas,omitempty"`
}

// HRValidation cross-checks the recruiter's screening against what the
// session actually confirmed.
type HRValidation struct {
	StrengthsValidated []string `json:"strengths_validated,omitempty"`
	ConcernsConfirmed  []string `json:"concerns_confirmed,omitempty"`
}

// Report is the final hiring document for one session.
type Report struct {
	SessionID   string    `json:"session_id"`
	GeneratedAt time.Time `json:"generated_at"`

	Candidate    string `json:"candidate"`
	VacancyTitle string `json:"vacancy_title"`
	Industry     string `json:"industry,omitempty"`

	DurationMinutes float64 `json:"duration_minutes"`
	QuestionsAsked  int     `json:"questions_asked"`

	OverallScore   int    `json:"overall_score"`
	Recommendation string `json:"recommendation"`
	Confidence     string `json:"confidence"`

	TechnicalLevel     Level  `json:"technical_level"`
	CommunicationStyle string `json:"communication_style"`

	AvgTechnical     float64 `json:"avg_technical"`
	AvgCommunication float64 `json:"avg_communication"`
	AvgConfidence    float64 `json:"avg_confidence"`

	Strengths         []string `json:"strengths,omitempty"`
	Weaknesses        []string `json:"weaknesses,omitempty"`
	RedFlags          []string `json:"red_flags,omitempty"`
	LearningPotential []string `json:"learning_potential,omitempty"`

	HRStrengths  []string     `json:"hr_strengths,omitempty"`
	HRConcerns   []string     `json:"hr_concerns,omitempty"`
	HRValidation HRValidation `json:"hr_validation"`

	PerformanceByArea map[string]float64 `json:"performance_by_area,omitempty"`

	PhaseBreakdown []PhaseReport `json:"phase_breakdown"`
	Transcript     []Exchange    `json:"transcript"`

	AdaptiveInsights Insights `json:"adaptive_insights"`
}

// Report synthesizes the final hiring document from the session's current
// state. It can be called at any point; normally the caller invokes it once
// ShouldEnd fires.
func (m *Manager) Report() *Report {
	p := m.profile

	overall := overallScore(p.AvgTechnical(), p.AvgCommunication())
	flags := len(p.RedFlags())

	return &Report{
		SessionID:   m.SessionID,
		GeneratedAt: m.now(),

		Candidate:    p.Name,
		VacancyTitle: p.VacancyTitle,
		Industry:     p.Industry,

		DurationMinutes: m.budget.Elapsed().Minutes(),
		QuestionsAsked:  m.totalQuestions,

		OverallScore:   overall,
		Recommendation: recommendation(&m.cfg.Report, overall, flags),
		Confidence:     confidence(flags),

		TechnicalLevel:     p.TechnicalLevel(),
		CommunicationStyle: p.CommunicationStyle(),

		AvgTechnical:     p.AvgTechnical(),
		AvgCommunication: p.AvgCommunication(),
		AvgConfidence:    p.AvgConfidence(),

		Strengths:         p.Strengths(),
		Weaknesses:        p.Weaknesses(),
		RedFlags:          p.RedFlags(),
		LearningPotential: p.LearningIndicators(),

		HRStrengths: p.HRStrengths(),
		HRConcerns:  p.HRConcerns(),
		HRValidation: HRValidation{
			StrengthsValidated: p.HRValidatedStrengths(),
			ConcernsConfirmed:  p.HRConfirmedConcerns(),
		},

		PerformanceByArea: p.PerformanceByArea(),

		PhaseBreakdown: m.phaseBreakdown(),
		Transcript:     m.transcript,

		AdaptiveInsights: Insights{
			FinalStrategy:    string(m.adaptor.Current()),
			FinalDifficulty:  m.currentDifficulty,
			FailedStrategies: m.adaptor.FailedStrategies(),
			SuccessfulTopics: m.adaptor.SuccessfulTopics(),
			FailedAreas:      p.FailedAreas(),
			StrongAreas:      p.StrongAreas(),
		},
	}
}

// phaseBreakdown renders the closed phases from history plus the still-open
// current phase, without mutating either.
func (m *Manager) phaseBreakdown() []PhaseReport {
	breakdown := make([]PhaseReport, 0, len(m.phaseHistory)+1)
	for _, snap := range m.phaseHistory {
		stats := m.phaseStats[snap.Phase]
		breakdown = append(breakdown, PhaseReport{
			Phase:           snap.Phase,
			QuestionsAsked:  snap.QuestionsAsked,
			DurationMinutes: snap.Duration.Minutes(),
			AvgScore:        stats.AvgScore(),
			Difficulties:    stats.DifficultiesUsed,
		})
	}

	if !m.currentPhase.Terminal() {
		stats := m.phaseStats[m.currentPhase]
		current := PhaseReport{
			Phase:          m.currentPhase,
			QuestionsAsked: stats.QuestionsAsked,
			AvgScore:       stats.AvgScore(),
			Difficulties:   stats.DifficultiesUsed,
		}
		if !stats.StartedAt.IsZero() {
			current.DurationMinutes = m.now().Sub(stats.StartedAt).Minutes()
		}
		breakdown = append(breakdown, current)
	}
	return breakdown
}

// overallScore maps the technical/communication averages (0-10) onto the
// 0-100 report scale.
func overallScore(avgTechnical, avgCommunication float64) int {
	score := int(math.Round((avgTechnical + avgCommunication) / 2 * 10))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// recommendation applies the strict banding chain: each band requires both
// the score bar and its red-flag cap, and the first matching band wins.
func recommendation(cfg *ReportConfig, overall, redFlags int) string {
	switch {
	case overall >= cfg.StrongHireScore && redFlags == 0:
		return RecommendStrongHire
	case overall >= cfg.HireScore && redFlags <= cfg.HireRedFlagCap:
		return RecommendHire
	case overall >= cfg.ConditionalScore && redFlags <= cfg.ConditionalFlagCap:
		return RecommendConditionalHire
	default:
		return RecommendNoHire
	}
}

// confidence is driven by the red-flag count alone.
func confidence(redFlags int) string {
	switch {
	case redFlags == 0:
		return "high"
	case redFlags <= 2:
		return "medium"
	default:
		return "low"
	}
}

// DumpToFile writes the report as indented JSON to the given path.
func (r *Report) DumpToFile(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// DumpToTmpFile writes the report to a temporary JSON file and returns its
// name.
func (r *Report) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "interview_report_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}
