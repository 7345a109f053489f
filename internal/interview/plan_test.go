package interview

import "testing"

func TestClassifyVacancy(t *testing.T) {
	t.Parallel()

	tests := []struct {
		title    string
		industry string
		want     string
	}{
		{"Senior Frontend Developer", "fintech", "frontend"},
		{"Python разработчик", "", "backend"},
		{"Fullstack Python Engineer", "", "fullstack"},
		{"DevOps инженер", "cloud", "devops"},
		{"Инженер по тестированию", "", "qa"},
		{"Data Scientist", "", "fullstack"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()

			if got := classifyVacancy(tt.title, tt.industry); got != tt.want {
				t.Fatalf("classifyVacancy(%q, %q) = %s, want %s", tt.title, tt.industry, got, tt.want)
			}
		})
	}
}

func TestBuildPlanRoutesConcernsFirst(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	data := CandidateData{VacancyTitle: "Backend Developer"}

	plan := buildPlan(cfg, data, []string{"слабые знания алгоритмов"})

	if len(plan) != cfg.MaxPlanAreas {
		t.Fatalf("plan = %v, want %d areas", plan, cfg.MaxPlanAreas)
	}
	if plan[0] != AreaProblemSolving {
		t.Fatalf("plan = %v, want the routed concern area first", plan)
	}
}

func TestBuildPlanDeduplicatesAndCaps(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	data := CandidateData{VacancyTitle: "Backend Developer"}

	// Both concerns route to system_design; the backend base plan already
	// contains it too. More concerns than the cap are cut before routing.
	plan := buildPlan(cfg, data, []string{
		"no architecture experience",
		"weak system design",
		"никогда не работал с большими системами",
		"also too many concerns",
	})

	seen := make(map[string]bool)
	for _, area := range plan {
		if seen[area] {
			t.Fatalf("plan %v contains duplicate area %s", plan, area)
		}
		seen[area] = true
	}
	if len(plan) > cfg.MaxPlanAreas {
		t.Fatalf("plan %v exceeds the cap of %d", plan, cfg.MaxPlanAreas)
	}
	if plan[0] != AreaSystemDesign {
		t.Fatalf("plan = %v, want system_design first", plan)
	}
}

func TestBuildPlanWithoutConcerns(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	plan := buildPlan(cfg, CandidateData{VacancyTitle: "DevOps Engineer"}, nil)

	want := vacancyFocusAreas["devops"]
	if len(plan) != len(want) {
		t.Fatalf("plan = %v, want %v", plan, want)
	}
	for i := range want {
		if plan[i] != want[i] {
			t.Fatalf("plan = %v, want %v", plan, want)
		}
	}
}
