package interview

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/PRYANIK26/FullStack-AI-HR/internal/oracle"
)

type stubResponse struct {
	decision *oracle.Decision
	err      error
}

// stubOracle replays a queue of scripted responses and records every context
// it was given. Once the queue is exhausted it keeps returning a bland
// continuing decision.
type stubOracle struct {
	queue    []stubResponse
	contexts []oracle.Context
}

func (s *stubOracle) Decide(_ context.Context, ic oracle.Context) (*oracle.Decision, error) {
	s.contexts = append(s.contexts, ic)

	if len(s.queue) == 0 {
		return continuingDecision("tell me more about your recent work", "general"), nil
	}

	next := s.queue[0]
	s.queue = s.queue[1:]
	return next.decision, next.err
}

func continuingDecision(question, area string) *oracle.Decision {
	return &oracle.Decision{
		InterviewStatus:    oracle.StatusContinuing,
		NextQuestion:       question,
		QuestionArea:       area,
		QuestionDifficulty: DifficultyMedium,
		Analysis: &oracle.AnswerAnalysis{
			TechnicalScore:     6,
			CommunicationScore: 6,
			ConfidenceScore:    6,
		},
	}
}

func newTestManager(t *testing.T, stub *stubOracle) *Manager {
	t.Helper()
	data := CandidateData{
		Name:         "Ivan",
		VacancyTitle: "Backend Developer",
		Industry:     "fintech",
	}
	return NewManager(DefaultConfig(), data, stub, zap.NewNop())
}

func TestManagerStart(t *testing.T) {
	t.Parallel()

	stub := &stubOracle{queue: []stubResponse{
		{decision: continuingDecision("tell me about yourself", "general_background")},
	}}
	m := newTestManager(t, stub)

	turn, err := m.Start(context.Background(), "Ivan")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if turn.Question != "tell me about yourself" {
		t.Fatalf("question = %q", turn.Question)
	}
	if turn.Phase != PhaseExploration {
		t.Fatalf("phase = %s, want exploration", turn.Phase)
	}
	if turn.Analysis != nil {
		t.Fatal("the opening turn must not carry an answer analysis")
	}
	if m.TotalQuestions() != 1 {
		t.Fatalf("total questions = %d, want 1", m.TotalQuestions())
	}

	if len(stub.contexts) != 1 || !stub.contexts[0].Initial {
		t.Fatal("the opening oracle call must be marked initial")
	}
	if len(m.Plan()) == 0 {
		t.Fatal("starting must compute an interview plan")
	}

	if _, err := m.Start(context.Background(), "Ivan"); err == nil {
		t.Fatal("starting twice must fail")
	}
}

func TestManagerProcessAnswerUpdatesProfile(t *testing.T) {
	t.Parallel()

	scored := continuingDecision("next question about databases and indexes", "databases")
	scored.Analysis = &oracle.AnswerAnalysis{
		TechnicalScore:     8,
		CommunicationScore: 7,
		ConfidenceScore:    6,
		StrengthsShown:     []string{"clear SQL reasoning"},
	}

	stub := &stubOracle{queue: []stubResponse{
		{decision: continuingDecision("opening question", "general_background")},
		{decision: scored},
	}}
	m := newTestManager(t, stub)

	if _, err := m.Start(context.Background(), "Ivan"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	turn, err := m.ProcessAnswer(context.Background(), "I have worked with PostgreSQL for five years")
	if err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}

	if turn.Analysis == nil || turn.Analysis.TechnicalScore != 8 {
		t.Fatalf("turn analysis = %+v, want the oracle scores", turn.Analysis)
	}
	if got := m.Profile().Answers(); got != 1 {
		t.Fatalf("profile answers = %d, want 1", got)
	}
	if got := m.Profile().Strengths(); len(got) != 1 || got[0] != "clear SQL reasoning" {
		t.Fatalf("profile strengths = %v", got)
	}
	if m.TotalQuestions() != 2 {
		t.Fatalf("total questions = %d, want 2", m.TotalQuestions())
	}

	// The second context must carry the completed exchange.
	ic := stub.contexts[1]
	if len(ic.RecentExchanges) != 1 || ic.RecentExchanges[0].Question != "opening question" {
		t.Fatalf("recent exchanges = %+v", ic.RecentExchanges)
	}
	if ic.Initial {
		t.Fatal("follow-up calls must not be marked initial")
	}
}

func TestManagerFallbackOnOracleFailure(t *testing.T) {
	t.Parallel()

	stub := &stubOracle{queue: []stubResponse{
		{err: errors.New("upstream temporarily unavailable")},
	}}
	m := newTestManager(t, stub)

	turn, err := m.Start(context.Background(), "Ivan")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	if !turn.Fallback {
		t.Fatal("oracle failure must produce a fallback turn")
	}
	if turn.Question == "" {
		t.Fatal("fallback turn must still carry a question")
	}
	if !strings.Contains(turn.Question, "fintech") {
		t.Fatalf("exploration fallback should reference the industry, got %q", turn.Question)
	}
}

func TestManagerFallbackOnEmptyQuestion(t *testing.T) {
	t.Parallel()

	empty := continuingDecision("", "general")
	stub := &stubOracle{queue: []stubResponse{{decision: empty}}}
	m := newTestManager(t, stub)

	turn, err := m.Start(context.Background(), "Ivan")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !turn.Fallback || turn.Question == "" {
		t.Fatalf("a decision without a question must fall back, got %+v", turn)
	}
}

func TestManagerFallbackDoesNotTouchProfile(t *testing.T) {
	t.Parallel()

	stub := &stubOracle{queue: []stubResponse{
		{decision: continuingDecision("opening question", "general")},
		{err: errors.New("boom")},
	}}
	m := newTestManager(t, stub)

	if _, err := m.Start(context.Background(), "Ivan"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	turn, err := m.ProcessAnswer(context.Background(), "an answer")
	if err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}

	if !turn.Fallback {
		t.Fatal("expected a fallback turn")
	}
	if turn.Analysis == nil || turn.Analysis.TechnicalScore != 5 {
		t.Fatalf("fallback analysis = %+v, want neutral scores", turn.Analysis)
	}
	// The fabricated scores stay in the emitted turn: the profile records
	// nothing for a turn no evaluator scored.
	if got := m.Profile().Answers(); got != 0 {
		t.Fatalf("answers recorded = %d, want 0 after a fallback turn", got)
	}
	if got := m.Profile().AvgTechnical(); got != 0 {
		t.Fatalf("avg technical = %v, want an untouched 0", got)
	}
	if got := m.CurrentPhase(); got != PhaseExploration {
		t.Fatalf("phase = %s, want exploration held through the fallback turn", got)
	}
}

func TestManagerShouldEndOnQuestionCap(t *testing.T) {
	t.Parallel()

	stub := &stubOracle{}
	m := newTestManager(t, stub)

	if _, err := m.Start(context.Background(), "Ivan"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if m.ShouldEnd(25, 2) {
		t.Fatal("ShouldEnd fired before the question cap")
	}

	if _, err := m.ProcessAnswer(context.Background(), "a reasonable answer"); err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}

	if m.TotalQuestions() != 2 {
		t.Fatalf("total questions = %d, want 2", m.TotalQuestions())
	}
	if !m.ShouldEnd(25, 2) {
		t.Fatal("ShouldEnd must fire at the question cap")
	}
}

func TestManagerRedFlagTerminationDeferredByAdaptation(t *testing.T) {
	t.Parallel()

	flags := []string{"f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8"}

	flagged := continuingDecision("follow-up question", "general")
	flagged.Analysis.RedFlags = flags
	flagged.AdaptationNeeded = "give the candidate one simpler question"

	calm := continuingDecision("another question", "general")

	stub := &stubOracle{queue: []stubResponse{
		{decision: continuingDecision("opening question", "general")},
		{decision: flagged},
		{decision: calm},
	}}
	m := newTestManager(t, stub)

	if _, err := m.Start(context.Background(), "Ivan"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	if _, err := m.ProcessAnswer(context.Background(), "a very alarming answer"); err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}
	if m.ShouldEnd(25, 12) {
		t.Fatal("red-flag termination must be deferred while the oracle asks for adaptation")
	}

	if _, err := m.ProcessAnswer(context.Background(), "still not convincing"); err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}
	if !m.ShouldEnd(25, 12) {
		t.Fatal("red-flag termination must fire once the adaptation request is gone")
	}
}

func TestManagerFinishesWhenOracleSaysSo(t *testing.T) {
	t.Parallel()

	finishing := continuingDecision("thank you, that is all", "general")
	finishing.InterviewStatus = oracle.StatusFinished

	stub := &stubOracle{queue: []stubResponse{
		{decision: continuingDecision("opening question", "general")},
		{decision: finishing},
	}}
	m := newTestManager(t, stub)

	if _, err := m.Start(context.Background(), "Ivan"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := m.ProcessAnswer(context.Background(), "my answer"); err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}

	if m.CurrentPhase() != PhaseFinished {
		t.Fatalf("phase = %s, want finished", m.CurrentPhase())
	}
	if !m.ShouldEnd(25, 12) {
		t.Fatal("a finished session must report ShouldEnd")
	}

	if _, err := m.ProcessAnswer(context.Background(), "anything"); !errors.Is(err, ErrFinished) {
		t.Fatalf("ProcessAnswer on a finished session = %v, want ErrFinished", err)
	}
}

func TestManagerFlagsRepetitiveQuestions(t *testing.T) {
	t.Parallel()

	repeat := "explain database indexing strategies for large analytical tables"

	stub := &stubOracle{queue: []stubResponse{
		{decision: continuingDecision(repeat, "databases")},
		{decision: continuingDecision(repeat, "databases")},
	}}
	m := newTestManager(t, stub)

	first, err := m.Start(context.Background(), "Ivan")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if first.Repetitive {
		t.Fatal("the first occurrence must not be flagged")
	}

	second, err := m.ProcessAnswer(context.Background(), "indexes speed up selective reads")
	if err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}
	if !second.Repetitive {
		t.Fatal("an identical question must be flagged as repetitive")
	}
	if len(second.Alternatives) == 0 {
		t.Fatal("a repetitive turn must offer alternative topics")
	}
}

func TestManagerAdoptsOraclePlan(t *testing.T) {
	t.Parallel()

	replanned := continuingDecision("question from the new plan", "system_design")
	replanned.InterviewPlan = []string{"system_design", "soft_skills"}

	stub := &stubOracle{queue: []stubResponse{
		{decision: continuingDecision("opening question", "general")},
		{decision: replanned},
	}}
	m := newTestManager(t, stub)

	if _, err := m.Start(context.Background(), "Ivan"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := m.ProcessAnswer(context.Background(), "my answer"); err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}

	plan := m.Plan()
	if len(plan) != 2 || plan[0] != "system_design" || plan[1] != "soft_skills" {
		t.Fatalf("plan = %v, want the oracle's replacement plan", plan)
	}
}

func TestManagerPhaseProgression(t *testing.T) {
	t.Parallel()

	// The stub keeps answering with middling scores, so the session walks
	// the whole canonical phase chain on the policy table alone.
	stub := &stubOracle{}
	m := newTestManager(t, stub)

	turn, err := m.Start(context.Background(), "Ivan")
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	progression := []Phase{turn.Phase}
	for i := 0; i < 20; i++ {
		turn, err = m.ProcessAnswer(context.Background(), "a middling answer with some detail")
		if err != nil {
			if errors.Is(err, ErrFinished) {
				break
			}
			t.Fatalf("ProcessAnswer %d: %v", i, err)
		}
		if turn.Phase != progression[len(progression)-1] {
			progression = append(progression, turn.Phase)
		}
	}

	want := []Phase{PhaseExploration, PhaseValidation, PhaseStressTest, PhaseSoftSkills, PhaseWrapUp, PhaseFinished}
	if len(progression) != len(want) {
		t.Fatalf("phase progression = %v, want %v", progression, want)
	}
	for i := range want {
		if progression[i] != want[i] {
			t.Fatalf("phase progression = %v, want %v", progression, want)
		}
	}

	report := m.Report()
	if len(report.PhaseBreakdown) != 5 {
		t.Fatalf("phase breakdown = %+v, want the 5 exited phases", report.PhaseBreakdown)
	}
}

func TestManagerReportAfterSession(t *testing.T) {
	t.Parallel()

	strong := continuingDecision("next", "general")
	strong.Analysis = &oracle.AnswerAnalysis{
		TechnicalScore:     9,
		CommunicationScore: 8,
		ConfidenceScore:    8,
		AnalysisNotes:      "Structured approach, solves the problem step by step.",
	}

	stub := &stubOracle{queue: []stubResponse{
		{decision: continuingDecision("opening question", "general")},
		{decision: strong},
	}}
	m := newTestManager(t, stub)

	if _, err := m.Start(context.Background(), "Ivan"); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if _, err := m.ProcessAnswer(context.Background(), "a strong answer"); err != nil {
		t.Fatalf("ProcessAnswer: %v", err)
	}

	report := m.Report()
	if report.Candidate != "Ivan" {
		t.Fatalf("report candidate = %q", report.Candidate)
	}
	if report.OverallScore != 85 {
		t.Fatalf("overall score = %d, want 85", report.OverallScore)
	}
	if report.Recommendation != RecommendStrongHire {
		t.Fatalf("recommendation = %s, want strong_hire", report.Recommendation)
	}
	if report.QuestionsAsked != 2 {
		t.Fatalf("questions asked = %d, want 2", report.QuestionsAsked)
	}
	if len(report.Transcript) != 1 {
		t.Fatalf("transcript length = %d, want 1", len(report.Transcript))
	}
	if report.SessionID == "" {
		t.Fatal("report must carry the session id")
	}
	if got := report.LearningPotential; len(got) != 1 || got[0] != "systematic" {
		t.Fatalf("learning potential = %v, want [systematic]", got)
	}
}
