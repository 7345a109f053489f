package interview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PRYANIK26/FullStack-AI-HR/internal/oracle"
	"github.com/PRYANIK26/FullStack-AI-HR/internal/util"
)

// ErrFinished is returned when an operation is invoked on a session whose
// phase already reached the terminal state.
var ErrFinished = errors.New("interview is finished")

// Exchange is one completed question/answer pair of the session transcript.
type Exchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	Phase    Phase     `json:"phase"`
	AskedAt  time.Time `json:"asked_at"`
}

// Turn is the outcome of one orchestration step: the next question to ask
// plus the bookkeeping data the surrounding application needs.
type Turn struct {
	Question   string
	Area       string
	Difficulty string
	Phase      Phase

	// Repetitive flags that the guard considers the question a repeat;
	// Alternatives lists the least-asked usable topics at that moment.
	Repetitive   bool
	Alternatives []string

	// Fallback marks a turn produced without a usable oracle decision.
	Fallback bool

	// Analysis carries the oracle's scores for the previous answer.
	// Nil on the opening turn.
	Analysis *oracle.AnswerAnalysis
}

// Manager is the composition root of one interview session. It owns one of
// every subcomponent and is not safe for concurrent use: the caller must
// process one answer at a time.
type Manager struct {
	cfg    *Config
	logger *zap.Logger
	oracle oracle.Oracle

	// SessionID identifies the session in logs and the exported report.
	SessionID string

	data    CandidateData
	profile *Profile
	budget  *TimeBudget
	guard   *RepetitionGuard
	adaptor *Adaptor

	currentPhase Phase
	phaseStats   map[Phase]*PhaseStats
	phaseHistory []PhaseSnapshot

	plan         []string
	coveredAreas []string

	totalQuestions    int
	currentDifficulty string
	lastQuestion      string
	transcript        []Exchange
	lastDecision      *oracle.Decision

	now func() time.Time
}

// NewManager creates a session around the candidate's prior data and an
// oracle. The configuration must already be validated.
func NewManager(cfg *Config, data CandidateData, orc oracle.Oracle, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}

	stats := make(map[Phase]*PhaseStats, len(phaseOrder))
	for _, phase := range phaseOrder {
		stats[phase] = &PhaseStats{}
	}

	return &Manager{
		cfg:               cfg,
		logger:            logger,
		oracle:            orc,
		SessionID:         uuid.NewString(),
		data:              data,
		profile:           NewProfile(cfg, data),
		budget:            NewTimeBudget(cfg),
		guard:             NewRepetitionGuard(cfg),
		adaptor:           NewAdaptor(cfg),
		currentPhase:      PhaseExploration,
		phaseStats:        stats,
		currentDifficulty: cfg.Difficulty.DefaultDifficulty,
		now:               time.Now,
	}
}

// Profile exposes the candidate profile for read-only consumption.
func (m *Manager) Profile() *Profile { return m.profile }

// CurrentPhase returns the active phase.
func (m *Manager) CurrentPhase() Phase { return m.currentPhase }

// TotalQuestions returns how many questions were emitted so far.
func (m *Manager) TotalQuestions() int { return m.totalQuestions }

// Plan returns the current interview plan.
func (m *Manager) Plan() []string { return m.plan }

// Start computes the initial plan and produces the opening question.
func (m *Manager) Start(ctx context.Context, candidateName string) (*Turn, error) {
	if m.totalQuestions > 0 {
		return nil, fmt.Errorf("session %s already started", m.SessionID)
	}

	m.profile.Name = candidateName
	m.plan = buildPlan(m.cfg, m.data, m.profile.HRConcerns())
	m.phaseStats[m.currentPhase].StartedAt = m.now()

	m.logger.Info("starting interview session",
		zap.String("session_id", m.SessionID),
		zap.String("candidate", candidateName),
		zap.String("vacancy", m.data.VacancyTitle),
		zap.Strings("plan", m.plan),
	)

	ic := m.buildContext("", "")
	ic.Initial = true

	decision, fallback := m.decide(ctx, ic)
	m.adoptPlan(decision)

	turn := m.emitQuestion(decision, fallback)
	turn.Analysis = nil
	return turn, nil
}

// ProcessAnswer folds one completed answer into every subcomponent and
// produces the next question. Exactly one oracle call is made; on failure
// the engine substitutes the deterministic fallback for the current phase
// and does not retry.
func (m *Manager) ProcessAnswer(ctx context.Context, answer string) (*Turn, error) {
	if m.currentPhase.Terminal() {
		return nil, ErrFinished
	}
	if m.lastQuestion == "" {
		return nil, errors.New("no question is pending an answer")
	}

	m.transcript = append(m.transcript, Exchange{
		Question: m.lastQuestion,
		Answer:   answer,
		Phase:    m.currentPhase,
		AskedAt:  m.now(),
	})

	ic := m.buildContext(m.lastQuestion, answer)
	decision, fallback := m.decide(ctx, ic)

	// A fallback turn carries fabricated neutral scores: they are surfaced
	// in the emitted turn but never folded into the profile or the
	// adaptation counters. Only the time- and policy-based transition
	// triggers apply on such a turn.
	if fallback {
		m.checkPhaseTransition(nil)
		return m.emitQuestion(decision, fallback), nil
	}

	area := decision.QuestionArea
	m.profile.RecordAnswer(area, scoresFromAnalysis(decision.Analysis))
	m.syncFailedTopics()

	if decision.Analysis != nil {
		strategy, changed := m.adaptor.Observe(area, decision.Analysis.TechnicalScore)
		if changed {
			m.logger.Info("questioning strategy changed",
				zap.String("session_id", m.SessionID),
				zap.String("strategy", string(strategy)),
			)
		}
	}
	m.currentDifficulty = m.adaptor.RecommendDifficulty(m.profile.AvgTechnical())

	m.checkPhaseTransition(decision)
	m.adoptPlan(decision)

	return m.emitQuestion(decision, fallback), nil
}

// ShouldEnd implements the session termination contract: time cap, question
// cap, terminal phase, or the critical red-flag count. The red-flag trigger
// is deferred one turn when the most recent oracle decision asked for
// adaptation.
func (m *Manager) ShouldEnd(maxMinutes, maxQuestions int) bool {
	if m.budget.Elapsed() >= time.Duration(maxMinutes)*time.Minute {
		return true
	}
	if m.totalQuestions >= maxQuestions {
		return true
	}
	if m.currentPhase == PhaseFinished {
		return true
	}
	if len(m.profile.RedFlags()) >= m.cfg.CriticalRedFlags {
		if m.lastDecision != nil && m.lastDecision.WantsAdaptation() {
			return false
		}
		return true
	}
	return false
}

// decide performs the single oracle call for this turn, falling back to the
// canned decision on any failure.
func (m *Manager) decide(ctx context.Context, ic oracle.Context) (*oracle.Decision, bool) {
	decision, err := m.oracle.Decide(ctx, ic)
	if err == nil && decision != nil && decision.NextQuestion == "" && !decision.RequestsFinish() {
		err = errors.New("decision carries no question")
	}
	if err != nil || decision == nil {
		m.logger.Warn("oracle decision unavailable, using fallback question",
			zap.String("session_id", m.SessionID),
			zap.String("phase", string(m.currentPhase)),
			zap.Error(err),
		)
		decision = m.fallbackDecision()
		decision.ApplyDefaults(string(m.currentPhase), m.currentDifficulty)
		m.lastDecision = decision
		return decision, true
	}

	decision.ApplyDefaults(string(m.currentPhase), m.currentDifficulty)
	m.lastDecision = decision
	return decision, false
}

// emitQuestion finalizes a turn: bookkeeping counters, repetition recording,
// and the emitted question payload.
func (m *Manager) emitQuestion(decision *oracle.Decision, fallback bool) *Turn {
	m.totalQuestions++
	stats := m.phaseStats[m.currentPhase]
	stats.QuestionsAsked++
	if !fallback && decision.Analysis != nil {
		stats.RecordScore(decision.Analysis.TechnicalScore)
	}
	stats.RecordDifficulty(decision.QuestionDifficulty)

	question := decision.NextQuestion
	area := decision.QuestionArea

	var repetitive bool
	var alternatives []string
	if question != "" {
		repetitive = m.guard.IsRepetitive(question, area)
		alternatives = m.guard.Alternatives(area, m.plan)
		if repetitive {
			m.logger.Warn("proposed question flagged as repetitive",
				zap.String("session_id", m.SessionID),
				zap.String("area", area),
				zap.Strings("alternatives", alternatives),
			)
		}
		m.guard.Record(question, area, m.currentPhase, decision.QuestionDifficulty)
	}

	m.lastQuestion = question

	return &Turn{
		Question:     question,
		Area:         area,
		Difficulty:   decision.QuestionDifficulty,
		Phase:        m.currentPhase,
		Repetitive:   repetitive,
		Alternatives: alternatives,
		Fallback:     fallback,
		Analysis:     decision.Analysis,
	}
}

// checkPhaseTransition evaluates the competing transition triggers and
// performs the phase switch when one fires.
func (m *Manager) checkPhaseTransition(decision *oracle.Decision) {
	if decision != nil && decision.CurrentPhase != "" {
		if _, err := ParsePhase(decision.CurrentPhase); err != nil {
			m.logger.Warn("ignoring unknown phase reported by oracle",
				zap.String("session_id", m.SessionID),
				zap.String("phase", decision.CurrentPhase),
			)
		}
	}

	questionsInPhase := m.phaseStats[m.currentPhase].QuestionsAsked
	recommended := recommendedPhase(m.cfg, m.currentPhase, questionsInPhase, m.profile)

	next := nextPhase(m.currentPhase, recommended, m.budget.Status(), decision)
	if next == m.currentPhase {
		return
	}
	m.transitionTo(next)
}

func (m *Manager) transitionTo(next Phase) {
	stats := m.phaseStats[m.currentPhase]
	snapshot := PhaseSnapshot{
		Phase:          m.currentPhase,
		QuestionsAsked: stats.QuestionsAsked,
	}
	if !stats.StartedAt.IsZero() {
		snapshot.Duration = m.now().Sub(stats.StartedAt)
	}
	m.phaseHistory = append(m.phaseHistory, snapshot)

	m.logger.Info("phase transition",
		zap.String("session_id", m.SessionID),
		zap.String("from", string(m.currentPhase)),
		zap.String("to", string(next)),
		zap.Int("questions_asked", stats.QuestionsAsked),
	)

	m.currentPhase = next
	m.phaseStats[next].StartedAt = m.now()
}

// adoptPlan records the covered area and accepts a wholesale plan update
// from the oracle.
func (m *Manager) adoptPlan(decision *oracle.Decision) {
	if decision.CurrentArea != "" {
		m.coveredAreas = appendUnique(m.coveredAreas, decision.CurrentArea)
	}

	if len(decision.InterviewPlan) > 0 && !equalStrings(decision.InterviewPlan, m.plan) {
		m.logger.Info("interview plan updated by oracle",
			zap.String("session_id", m.SessionID),
			zap.Strings("plan", decision.InterviewPlan),
		)
		m.plan = decision.InterviewPlan
	}
}

// syncFailedTopics mirrors the profile's failed topics into the repetition
// guard's avoidance set.
func (m *Manager) syncFailedTopics() {
	for _, area := range m.profile.FailedAreas() {
		m.guard.MarkFailed(area)
	}
}

// buildContext assembles the context document for the oracle.
func (m *Manager) buildContext(lastQuestion, lastAnswer string) oracle.Context {
	recent := m.transcript
	if n := m.cfg.RecentExchanges; len(recent) > n {
		recent = recent[len(recent)-n:]
	}
	exchanges := make([]oracle.Exchange, 0, len(recent))
	for _, e := range recent {
		exchanges = append(exchanges, oracle.Exchange{
			Question: e.Question,
			Answer:   util.TruncateForLog(e.Answer, m.cfg.AnswerPreviewRunes),
			Phase:    string(e.Phase),
		})
	}

	return oracle.Context{
		CandidateName:      m.profile.Name,
		VacancyTitle:       m.data.VacancyTitle,
		Industry:           m.data.Industry,
		CandidateLevel:     string(m.profile.TechnicalLevel()),
		CommunicationStyle: m.profile.CommunicationStyle(),
		AvgTechnical:       m.profile.AvgTechnical(),
		AvgCommunication:   m.profile.AvgCommunication(),
		AvgConfidence:      m.profile.AvgConfidence(),
		Strengths:          m.profile.Strengths(),
		Weaknesses:         m.profile.Weaknesses(),
		RedFlags:           m.profile.RedFlags(),
		LearningIndicators: m.profile.LearningIndicators(),
		PriorityConcerns:   m.profile.PriorityConcerns(),
		HRStrengths:        m.profile.HRStrengths(),
		HRConcerns:         m.profile.HRConcerns(),
		ElapsedMinutes:     int(m.budget.Elapsed().Minutes()),
		QuestionsAsked:     m.totalQuestions,
		TimeStatus:         string(m.budget.Status()),
		PhaseStrategy:      string(m.budget.PhaseStrategy(m.currentPhase)),
		Phase:              string(m.currentPhase),
		Plan:               m.plan,
		CoveredAreas:       m.coveredAreas,
		AvoidTopics:        m.avoidTopics(),
		CurrentDifficulty:  m.currentDifficulty,
		StrategyApproach:   m.adaptor.Tactic().Approach,
		RecentExchanges:    exchanges,
		LastQuestion:       util.TruncateForLog(lastQuestion, m.cfg.AnswerPreviewRunes),
		LastAnswer:         util.TruncateForLog(lastAnswer, m.cfg.AnswerPreviewRunes),
	}
}

// avoidTopics lists topics the oracle should not return to: failed ones and
// those already asked up to the frequency limit.
func (m *Manager) avoidTopics() []string {
	avoid := append([]string(nil), m.profile.FailedAreas()...)
	for _, topic := range m.plan {
		if m.guard.TopicFrequency(topic) >= m.cfg.Repetition.TopicFrequencyLimit {
			avoid = appendUnique(avoid, topic)
		}
	}
	return avoid
}

// fallbackQuestions are the deterministic canned questions substituted when
// the oracle is unreachable or returns an unusable document.
func (m *Manager) fallbackDecision() *oracle.Decision {
	industry := m.data.Industry
	if industry == "" {
		industry = "your field"
	}

	questions := map[Phase]string{
		PhaseExploration: fmt.Sprintf("Tell me about your experience with the technologies commonly used in %s.", industry),
		PhaseValidation:  "Walk me through a concrete project where you applied the technologies you mentioned.",
		PhaseStressTest:  "How would you approach diagnosing and fixing a performance problem in a system under heavy load?",
		PhaseSoftSkills:  "Tell me about a time you worked with a team on a difficult project. What was your role?",
		PhaseWrapUp:      fmt.Sprintf("Thank you for the interview, %s! Do you have any questions about the position?", m.profile.Name),
	}

	status := oracle.StatusContinuing
	timeManagement := oracle.TimeContinue
	if m.currentPhase == PhaseWrapUp {
		status = oracle.StatusFinished
		timeManagement = oracle.TimeFinish
	}

	question, ok := questions[m.currentPhase]
	if !ok {
		question = "Let's continue. Could you expand on your previous answer?"
	}

	return &oracle.Decision{
		InterviewStatus:    status,
		CurrentPhase:       string(m.currentPhase),
		NextQuestion:       question,
		QuestionArea:       AreaGeneral,
		QuestionDifficulty: m.currentDifficulty,
		TimeManagement:     timeManagement,
		AdaptationNeeded:   oracle.AdaptationNone,
		Analysis: &oracle.AnswerAnalysis{
			TechnicalScore:      5,
			CommunicationScore:  5,
			DepthScore:          5,
			ConfidenceScore:     5,
			PracticalExperience: 5,
			AnalysisNotes:       "neutral scores substituted after an oracle failure",
		},
	}
}

func scoresFromAnalysis(a *oracle.AnswerAnalysis) *Scores {
	if a == nil {
		return nil
	}
	return &Scores{
		Technical:           a.TechnicalScore,
		Communication:       a.CommunicationScore,
		Confidence:          a.ConfidenceScore,
		Depth:               a.DepthScore,
		PracticalExperience: a.PracticalExperience,
		Strengths:           a.StrengthsShown,
		RedFlags:            a.RedFlags,
		Notes:               a.AnalysisNotes,
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
