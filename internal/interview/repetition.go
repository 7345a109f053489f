package interview

import (
	"sort"
	"strings"
	"time"
	"unicode"
)

// QuestionRecord is an immutable entry in the repetition guard's append-only
// log of everything asked during the session.
type QuestionRecord struct {
	Text       string
	Topic      string
	Keywords   map[string]bool
	Phase      Phase
	Difficulty string
	AskedAt    time.Time
}

// stopwords are tokens too generic to signal repetition. The interview runs
// in English or Russian, so both vocabularies are covered.
var stopwords = map[string]bool{
	"about": true, "been": true, "could": true, "describe": true,
	"example": true, "experience": true, "have": true, "how": true,
	"please": true, "question": true, "tell": true, "that": true,
	"their": true, "there": true, "these": true, "this": true,
	"what": true, "when": true, "where": true, "which": true,
	"will": true, "with": true, "would": true, "your": true,

	"больше": true, "будет": true, "было": true, "ваших": true,
	"вашем": true, "вопрос": true, "если": true, "есть": true,
	"используете": true, "какие": true, "каким": true, "какой": true,
	"когда": true, "компании": true, "который": true, "можете": true,
	"опыте": true, "пожалуйста": true, "почему": true, "примере": true,
	"проекте": true, "расскажите": true, "своем": true, "чтобы": true,
}

// RepetitionGuard records every asked question and flags proposed questions
// that would repeat a topic or a recent question pattern.
type RepetitionGuard struct {
	cfg *Config

	log       []QuestionRecord
	topicFreq map[string]int
	failed    map[string]bool

	now func() time.Time
}

// NewRepetitionGuard creates an empty guard.
func NewRepetitionGuard(cfg *Config) *RepetitionGuard {
	return &RepetitionGuard{
		cfg:       cfg,
		topicFreq: make(map[string]int),
		failed:    make(map[string]bool),
		now:       time.Now,
	}
}

// Record appends an asked question to the log and bumps its topic frequency.
func (g *RepetitionGuard) Record(text, topic string, phase Phase, difficulty string) {
	g.log = append(g.log, QuestionRecord{
		Text:       text,
		Topic:      topic,
		Keywords:   g.extractKeywords(text),
		Phase:      phase,
		Difficulty: difficulty,
		AskedAt:    g.now(),
	})
	g.topicFreq[topic]++
}

// MarkFailed flags a topic for avoidance in Alternatives.
func (g *RepetitionGuard) MarkFailed(topic string) {
	g.failed[topic] = true
}

// IsRepetitive reports whether a proposed question would be repetitive:
// either its topic has already hit the frequency limit, or it overlaps too
// heavily with one of the most recently asked questions. A question with no
// extractable keywords can only trip the frequency rule.
func (g *RepetitionGuard) IsRepetitive(text, topic string) bool {
	if g.topicFreq[topic] >= g.cfg.Repetition.TopicFrequencyLimit {
		return true
	}

	proposed := g.extractKeywords(text)
	if len(proposed) == 0 {
		return false
	}

	recent := g.log
	if window := g.cfg.Repetition.RecentWindow; len(recent) > window {
		recent = recent[len(recent)-window:]
	}

	for _, record := range recent {
		shared := 0
		for keyword := range proposed {
			if record.Keywords[keyword] {
				shared++
			}
		}
		ratio := float64(shared) / float64(len(proposed))
		if shared >= g.cfg.Repetition.MinSharedKeywords && ratio > g.cfg.Repetition.OverlapRatio {
			return true
		}
	}
	return false
}

// Alternatives returns the candidate topics other than the current one that
// are neither failed nor asked too often already, least-asked first. The sort
// is stable so equally-asked topics keep their given order.
func (g *RepetitionGuard) Alternatives(current string, candidates []string) []string {
	var out []string
	for _, topic := range candidates {
		if topic == current {
			continue
		}
		if g.failed[topic] {
			continue
		}
		if g.topicFreq[topic] >= g.cfg.Repetition.AlternativeFrequency {
			continue
		}
		out = append(out, topic)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return g.topicFreq[out[i]] < g.topicFreq[out[j]]
	})
	return out
}

// TopicFrequency returns how often a topic was asked.
func (g *RepetitionGuard) TopicFrequency(topic string) int { return g.topicFreq[topic] }

// Questions returns the number of recorded questions.
func (g *RepetitionGuard) Questions() int { return len(g.log) }

// extractKeywords lowercases the question and splits it into single-script
// letter runs, discarding short tokens and stopwords.
func (g *RepetitionGuard) extractKeywords(text string) map[string]bool {
	keywords := make(map[string]bool)
	for _, token := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	}) {
		if !singleScript(token) {
			continue
		}
		if len([]rune(token)) < g.cfg.Repetition.MinKeywordRunes {
			continue
		}
		if stopwords[token] {
			continue
		}
		keywords[token] = true
	}
	return keywords
}

// singleScript reports whether every rune of the token belongs to the same
// script. Mixed-script tokens are usually transcription noise.
func singleScript(token string) bool {
	var script *unicode.RangeTable
	for _, r := range token {
		current := scriptOf(r)
		if current == nil {
			return false
		}
		if script == nil {
			script = current
			continue
		}
		if script != current {
			return false
		}
	}
	return true
}

func scriptOf(r rune) *unicode.RangeTable {
	switch {
	case unicode.Is(unicode.Latin, r):
		return unicode.Latin
	case unicode.Is(unicode.Cyrillic, r):
		return unicode.Cyrillic
	default:
		return nil
	}
}
