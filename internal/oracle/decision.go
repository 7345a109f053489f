// Package oracle defines the boundary to the external structured-decision
// provider: the context document sent to it, the decision document expected
// back, and the providers that implement the call.
package oracle

import "context"

// Interview status values reported by the oracle.
const (
	StatusContinuing = "continuing"
	StatusFinished   = "finished"
)

// Time-management requests the oracle may make.
const (
	TimeContinue = "continue"
	TimeWrapUp   = "wrap_up"
	TimeCritical = "critical"
	TimeFinish   = "finish"
)

// AdaptationNone means the oracle does not ask to postpone the phase
// transition. Any other adaptation value is a veto holding the phase.
const AdaptationNone = "none"

// Oracle maps a structured interview context to a structured decision. It is
// an external, fallible, latency-bearing call: implementations may block and
// must honor the context.
type Oracle interface {
	Decide(ctx context.Context, ic Context) (*Decision, error)
}

// Exchange is one question/answer pair of the transcript.
type Exchange struct {
	Question string
	Answer   string
	Phase    string
}

// Context is the document describing the session state for the oracle.
type Context struct {
	CandidateName string
	VacancyTitle  string
	Industry      string

	CandidateLevel     string
	CommunicationStyle string
	AvgTechnical       float64
	AvgCommunication   float64
	AvgConfidence      float64
	Strengths          []string
	Weaknesses         []string
	RedFlags           []string
	LearningIndicators []string
	PriorityConcerns   []string
	HRStrengths        []string
	HRConcerns         []string

	ElapsedMinutes int
	QuestionsAsked int
	TimeStatus     string
	PhaseStrategy  string

	Phase             string
	Plan              []string
	CoveredAreas      []string
	AvoidTopics       []string
	CurrentDifficulty string
	StrategyApproach  string

	// RecentExchanges holds the last N exchanges with answers already
	// truncated by the caller.
	RecentExchanges []Exchange
	LastQuestion    string
	LastAnswer      string

	// Initial marks the planning call made before any answer exists.
	Initial bool
}

// AnswerAnalysis is the nested score bundle for the previous answer. Scores
// are conventionally 0-10; zero means the oracle supplied no score.
type AnswerAnalysis struct {
	TechnicalScore      float64  `mapstructure:"technical_score"`
	CommunicationScore  float64  `mapstructure:"communication_score"`
	DepthScore          float64  `mapstructure:"depth_score"`
	ConfidenceScore     float64  `mapstructure:"confidence_score"`
	PracticalExperience float64  `mapstructure:"practical_experience"`
	RedFlags            []string `mapstructure:"red_flags"`
	StrengthsShown      []string `mapstructure:"strengths_shown"`
	AnalysisNotes       string   `mapstructure:"analysis_notes"`
}

// Decision is the structured document returned by the oracle. Missing
// optional fields are defaulted by the consumer, never treated as fatal.
type Decision struct {
	InterviewStatus    string          `mapstructure:"interview_status"`
	CurrentPhase       string          `mapstructure:"current_phase"`
	NextQuestion       string          `mapstructure:"next_question"`
	QuestionArea       string          `mapstructure:"question_area"`
	QuestionDifficulty string          `mapstructure:"question_difficulty"`
	QuestionReasoning  string          `mapstructure:"question_reasoning"`
	CurrentArea        string          `mapstructure:"current_area"`
	InterviewPlan      []string        `mapstructure:"interview_plan"`
	TimeManagement     string          `mapstructure:"time_management"`
	AdaptationNeeded   string          `mapstructure:"adaptation_needed"`
	InterviewerNotes   string          `mapstructure:"interviewer_notes"`
	OverallProgress    string          `mapstructure:"overall_progress"`
	EmotionalApproach  string          `mapstructure:"emotional_approach"`
	Analysis           *AnswerAnalysis `mapstructure:"previous_answer_analysis"`
}

// ApplyDefaults fills the optional fields a terse oracle response may omit.
func (d *Decision) ApplyDefaults(phase, difficulty string) {
	if d.InterviewStatus == "" {
		d.InterviewStatus = StatusContinuing
	}
	if d.CurrentPhase == "" {
		d.CurrentPhase = phase
	}
	if d.QuestionArea == "" {
		d.QuestionArea = "general"
	}
	if d.QuestionDifficulty == "" {
		d.QuestionDifficulty = difficulty
	}
	if d.TimeManagement == "" {
		d.TimeManagement = TimeContinue
	}
	if d.AdaptationNeeded == "" {
		d.AdaptationNeeded = AdaptationNone
	}
}

// WantsAdaptation reports whether the decision vetoes the phase transition
// to ask a clarifying follow-up first.
func (d *Decision) WantsAdaptation() bool {
	return d.AdaptationNeeded != "" && d.AdaptationNeeded != AdaptationNone
}

// RequestsWrapUp reports whether the oracle's time-status field asks for
// wrap-up or critical handling.
func (d *Decision) RequestsWrapUp() bool {
	return d.TimeManagement == TimeWrapUp || d.TimeManagement == TimeCritical
}

// RequestsFinish reports whether the oracle declared the interview finished.
func (d *Decision) RequestsFinish() bool {
	return d.InterviewStatus == StatusFinished
}
