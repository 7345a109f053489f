package interview

import "strings"

// Topic areas used by interview plans.
const (
	AreaGeneral             = "general"
	AreaGeneralBackground   = "general_background"
	AreaTechnicalBasics     = "technical_basics"
	AreaSystemDesign        = "system_design"
	AreaProblemSolving      = "problem_solving"
	AreaPracticalExperience = "practical_experience"
	AreaSoftSkills          = "soft_skills"
)

// vacancyKeywords classifies a vacancy by keywords in its title and industry.
// The order matters: the first matching type wins, so the more specific
// types come before the broad ones.
var vacancyKeywords = []struct {
	vacancyType string
	keywords    []string
}{
	{"fullstack", []string{"fullstack", "фулстек", "полный стек"}},
	{"mobile", []string{"mobile", "мобил", "ios", "android", "react native", "flutter"}},
	{"devops", []string{"devops", "девопс", "docker", "kubernetes", "aws", "ci/cd", "infrastructure"}},
	{"qa", []string{"qa", "тестиров", "quality assurance"}},
	{"frontend", []string{"frontend", "фронтенд", "react", "vue", "angular", "javascript", "css", "html"}},
	{"backend", []string{"backend", "бэкенд", "python", "java", "node", "api", "database", "server"}},
}

// vacancyFocusAreas prioritizes topic areas per vacancy type.
var vacancyFocusAreas = map[string][]string{
	"frontend":  {AreaTechnicalBasics, AreaPracticalExperience, AreaProblemSolving, AreaSoftSkills},
	"backend":   {AreaTechnicalBasics, AreaSystemDesign, AreaProblemSolving, AreaPracticalExperience},
	"fullstack": {AreaTechnicalBasics, AreaPracticalExperience, AreaSystemDesign, AreaSoftSkills},
	"mobile":    {AreaTechnicalBasics, AreaPracticalExperience, AreaProblemSolving, AreaSoftSkills},
	"devops":    {AreaSystemDesign, AreaTechnicalBasics, AreaProblemSolving, AreaSoftSkills},
	"qa":        {AreaTechnicalBasics, AreaProblemSolving, AreaPracticalExperience, AreaSoftSkills},
}

// concernRouting maps recruiter-concern keywords to the topic area that can
// verify the concern during the interview.
var concernRouting = []struct {
	area     string
	keywords []string
}{
	{AreaProblemSolving, []string{"алгоритм", "структур", "задач", "algorithm", "data structure"}},
	{AreaSystemDesign, []string{"архитектур", "дизайн", "систем", "architecture", "design", "system"}},
	{AreaSoftSkills, []string{"команд", "лидер", "управлен", "team", "lead", "management"}},
	{AreaTechnicalBasics, []string{"технолог", "фреймворк", "язык", "framework", "language", "stack"}},
}

// classifyVacancy determines the vacancy type by keywords, defaulting to
// fullstack when nothing matches.
func classifyVacancy(vacancyTitle, industry string) string {
	text := strings.ToLower(vacancyTitle + " " + industry)
	for _, entry := range vacancyKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(text, keyword) {
				return entry.vacancyType
			}
		}
	}
	return "fullstack"
}

// buildPlan computes the initial interview plan: recruiter concerns routed
// into priority areas first, then the vacancy-type focus areas, deduplicated
// and capped. The oracle may later overwrite the plan wholesale.
func buildPlan(cfg *Config, data CandidateData, hrConcerns []string) []string {
	vacancyType := classifyVacancy(data.VacancyTitle, data.Industry)
	base := vacancyFocusAreas[vacancyType]

	var priority []string
	concerns := hrConcerns
	if len(concerns) > cfg.MaxConcernsInPlan {
		concerns = concerns[:cfg.MaxConcernsInPlan]
	}
	for _, concern := range concerns {
		lower := strings.ToLower(concern)
		for _, route := range concernRouting {
			matched := false
			for _, keyword := range route.keywords {
				if strings.Contains(lower, keyword) {
					matched = true
					break
				}
			}
			if matched {
				priority = append(priority, route.area)
				break
			}
		}
	}

	var plan []string
	for _, area := range append(priority, base...) {
		plan = appendUnique(plan, area)
	}
	if len(plan) > cfg.MaxPlanAreas {
		plan = plan[:cfg.MaxPlanAreas]
	}
	return plan
}
