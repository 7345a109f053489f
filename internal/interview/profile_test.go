package interview

import (
	"math"
	"testing"
)

func TestProfileRunningAverages(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{Name: "Ivan"})

	p.RecordAnswer("technical_basics", &Scores{Technical: 6, Communication: 7, Confidence: 5})
	p.RecordAnswer("technical_basics", &Scores{Technical: 8, Communication: 5, Confidence: 7})

	if got := p.AvgTechnical(); math.Abs(got-7) > 1e-9 {
		t.Fatalf("avg technical = %v, want 7", got)
	}
	if got := p.AvgCommunication(); math.Abs(got-6) > 1e-9 {
		t.Fatalf("avg communication = %v, want 6", got)
	}
	if p.Answers() != 2 {
		t.Fatalf("answers = %d, want 2", p.Answers())
	}
}

func TestProfileNilScoresAreIgnored(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{})
	p.RecordAnswer("general", nil)

	if p.Answers() != 0 {
		t.Fatalf("nil scores must not count as an answer, got %d", p.Answers())
	}
}

func TestProfileZeroScoreAsymmetry(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{})
	p.RecordAnswer("system_design", &Scores{Technical: 0, Communication: 6, Confidence: 6})
	p.RecordAnswer("system_design", &Scores{Technical: 6, Communication: 6, Confidence: 6})

	// The zero score is excluded from the per-area history...
	if got := p.AreaScores("system_design"); len(got) != 1 || got[0] != 6 {
		t.Fatalf("area scores = %v, want [6]", got)
	}

	// ...but still drags down the overall running average.
	if got := p.AvgTechnical(); math.Abs(got-3) > 1e-9 {
		t.Fatalf("avg technical = %v, want 3", got)
	}
}

func TestProfileTopicFailsAfterConsecutiveLowScores(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{})

	p.RecordAnswer("algorithms", &Scores{Technical: 2})
	if p.AreaFailed("algorithms") {
		t.Fatal("one low score must not fail the topic")
	}

	p.RecordAnswer("algorithms", &Scores{Technical: 3})
	if !p.AreaFailed("algorithms") {
		t.Fatal("two consecutive low scores must fail the topic")
	}
}

func TestProfileMiddlingScoreDecaysFailStreak(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{})

	p.RecordAnswer("algorithms", &Scores{Technical: 2})
	p.RecordAnswer("algorithms", &Scores{Technical: 5}) // decays the streak to 0
	p.RecordAnswer("algorithms", &Scores{Technical: 3})

	if p.AreaFailed("algorithms") {
		t.Fatal("streak should have decayed, topic must not be failed")
	}

	p.RecordAnswer("algorithms", &Scores{Technical: 2})
	if !p.AreaFailed("algorithms") {
		t.Fatal("two consecutive low scores after the decay must fail the topic")
	}
}

func TestProfileStrongAnswerResetsStreakAndMarksStrong(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{})

	p.RecordAnswer("databases", &Scores{Technical: 3})
	p.RecordAnswer("databases", &Scores{Technical: 9})
	p.RecordAnswer("databases", &Scores{Technical: 3})

	if p.AreaFailed("databases") {
		t.Fatal("strong answer must fully reset the failure streak")
	}
	if got := p.StrongAreas(); len(got) != 1 || got[0] != "databases" {
		t.Fatalf("strong areas = %v, want [databases]", got)
	}
}

func TestProfileLevelConfirmation(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{})

	p.RecordAnswer("general", &Scores{Technical: 8})
	p.RecordAnswer("general", &Scores{Technical: 9})
	if p.LevelConfirmed() {
		t.Fatalf("level confirmed after 2 answers, got %s", p.TechnicalLevel())
	}

	p.RecordAnswer("general", &Scores{Technical: 7})
	if got := p.TechnicalLevel(); got != LevelSenior {
		t.Fatalf("level = %s, want %s", got, LevelSenior)
	}
	if !p.LevelConfirmed() {
		t.Fatal("level must be confirmed after the minimum answer count")
	}
}

func TestProfileSeedsFromHRAnalysis(t *testing.T) {
	t.Parallel()

	raw := `{
		"final_evaluation": {
			"key_strengths": ["strong python background"],
			"critical_concerns": ["no system design experience", "short tenure"],
			"overall_score": 86
		}
	}`

	p := NewProfile(DefaultConfig(), CandidateData{HRAnalysisJSON: raw})

	if got := p.TechnicalLevel(); got != LevelSeniorCandidate {
		t.Fatalf("level = %s, want %s", got, LevelSeniorCandidate)
	}
	if p.LevelConfirmed() {
		t.Fatal("a recruiter prior must not count as a confirmed level")
	}
	if got := p.HRConcerns(); len(got) != 2 {
		t.Fatalf("hr concerns = %v, want 2 entries", got)
	}
}

func TestProfileIgnoresBrokenHRAnalysis(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{HRAnalysisJSON: "{not json"})

	if got := p.TechnicalLevel(); got != LevelUnknown {
		t.Fatalf("level = %s, want %s", got, LevelUnknown)
	}
	if len(p.HRConcerns()) != 0 {
		t.Fatalf("hr concerns must stay empty, got %v", p.HRConcerns())
	}
}

func TestPriorityConcernsExcludeAddressedOnes(t *testing.T) {
	t.Parallel()

	raw := `{
		"final_evaluation": {
			"critical_concerns": ["system design", "algorithms", "testing", "communication"]
		}
	}`

	p := NewProfile(DefaultConfig(), CandidateData{HRAnalysisJSON: raw})
	p.RecordAnswer("system_design", &Scores{
		Technical: 9,
		Strengths: []string{"excellent system design reasoning"},
	})

	concerns := p.PriorityConcerns()
	if len(concerns) != 3 {
		t.Fatalf("priority concerns = %v, want 3 entries (capped)", concerns)
	}
	for _, concern := range concerns {
		if concern == "system design" {
			t.Fatal("addressed concern must not be listed")
		}
	}
}

func TestProfileWeaknessNote(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{})
	p.RecordAnswer("algorithms", &Scores{Technical: 3})

	want := "weak knowledge in algorithms (score 3/10)"
	if got := p.Weaknesses(); len(got) != 1 || got[0] != want {
		t.Fatalf("weaknesses = %v, want [%q]", got, want)
	}

	// Repeating the same weak answer must not duplicate the note.
	p.RecordAnswer("algorithms", &Scores{Technical: 3})
	if got := p.Weaknesses(); len(got) != 1 {
		t.Fatalf("weaknesses = %v, want a single deduplicated note", got)
	}
}

func TestProfileRedFlagsDeduplicated(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{})
	p.RecordAnswer("general", &Scores{Technical: 5, RedFlags: []string{"evasive answer", "blames colleagues"}})
	p.RecordAnswer("general", &Scores{Technical: 5, RedFlags: []string{"evasive answer"}})

	if got := p.RedFlags(); len(got) != 2 {
		t.Fatalf("red flags = %v, want 2 deduplicated entries", got)
	}
}

func TestProfileLearningIndicators(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{})
	p.RecordAnswer("general", &Scores{Technical: 6, Notes: "Asks questions about our stack, works step by step."})
	p.RecordAnswer("general", &Scores{Technical: 6, Notes: "Again asks questions before answering."})
	p.RecordAnswer("general", &Scores{Technical: 6, Notes: "Admits gaps in distributed systems."})

	want := []string{"curious", "systematic", "growth_mindset"}
	got := p.LearningIndicators()
	if len(got) != len(want) {
		t.Fatalf("learning indicators = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("learning indicators = %v, want %v", got, want)
		}
	}
}

func TestProfileLearningIndicatorsIgnorePlainNotes(t *testing.T) {
	t.Parallel()

	p := NewProfile(DefaultConfig(), CandidateData{})
	p.RecordAnswer("general", &Scores{Technical: 6, Notes: "A solid answer without anything notable."})

	if got := p.LearningIndicators(); len(got) != 0 {
		t.Fatalf("learning indicators = %v, want none", got)
	}
}

func TestProfileHRValidation(t *testing.T) {
	t.Parallel()

	raw := `{
		"final_evaluation": {
			"key_strengths": ["python", "communication"],
			"critical_concerns": ["system design", "algorithms"],
			"overall_score": 70
		}
	}`

	p := NewProfile(DefaultConfig(), CandidateData{HRAnalysisJSON: raw})
	p.RecordAnswer("technical_basics", &Scores{Technical: 8, Strengths: []string{"deep Python internals knowledge"}})
	p.RecordAnswer("algorithms", &Scores{Technical: 2})

	if got := p.HRValidatedStrengths(); len(got) != 1 || got[0] != "python" {
		t.Fatalf("validated strengths = %v, want [python]", got)
	}
	if got := p.HRConfirmedConcerns(); len(got) != 1 || got[0] != "algorithms" {
		t.Fatalf("confirmed concerns = %v, want [algorithms]", got)
	}
}
