package oracle

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// decisionSchema constrains the shape of a decision document without
// requiring optional fields: a response of the wrong structure is rejected
// here and handled by the caller's fallback path, while a merely incomplete
// one passes and gets defaulted.
const decisionSchema = `{
	"type": "object",
	"properties": {
		"interview_status": {"type": "string"},
		"current_phase": {"type": "string"},
		"next_question": {"type": "string"},
		"question_area": {"type": "string"},
		"question_difficulty": {"type": "string"},
		"question_reasoning": {"type": "string"},
		"current_area": {"type": "string"},
		"interview_plan": {"type": "array", "items": {"type": "string"}},
		"time_management": {"type": "string"},
		"adaptation_needed": {"type": "string"},
		"interviewer_notes": {"type": "string"},
		"overall_progress": {"type": "string"},
		"emotional_approach": {"type": "string"},
		"previous_answer_analysis": {
			"type": "object",
			"properties": {
				"technical_score": {"type": ["number", "string"]},
				"communication_score": {"type": ["number", "string"]},
				"depth_score": {"type": ["number", "string"]},
				"confidence_score": {"type": ["number", "string"]},
				"practical_experience": {"type": ["number", "string"]},
				"red_flags": {"type": "array", "items": {"type": "string"}},
				"strengths_shown": {"type": "array", "items": {"type": "string"}},
				"analysis_notes": {"type": "string"}
			}
		}
	}
}`

var (
	fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func schema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(decisionSchema))
		if err != nil {
			compileErr = fmt.Errorf("parse decision schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://decision.json", doc); err != nil {
			compileErr = fmt.Errorf("add decision schema: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("schema://decision.json")
	})
	return compiledSchema, compileErr
}

// ParseDecision extracts and decodes a decision document from the oracle's
// free-text response. The fenced form is tried first, then the outermost
// brace-delimited substring. Any decode or validation failure is returned as
// an error for the caller's fallback path; it is never fatal to a session.
func ParseDecision(raw string) (*Decision, error) {
	payload := extractJSON(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON document in oracle response")
	}

	parsed, err := jsonschema.UnmarshalJSON(strings.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("decode oracle response: %w", err)
	}

	sch, err := schema()
	if err != nil {
		return nil, err
	}
	if err := sch.Validate(parsed); err != nil {
		return nil, fmt.Errorf("oracle response failed schema validation: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal([]byte(payload), &fields); err != nil {
		return nil, fmt.Errorf("decode oracle response: %w", err)
	}

	var decision Decision
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &decision,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("build decision decoder: %w", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return nil, fmt.Errorf("map oracle response: %w", err)
	}

	return &decision, nil
}

// extractJSON returns the JSON payload embedded in the response: the fenced
// code block when present, otherwise the first-to-last brace substring.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if match := fencedJSON.FindStringSubmatch(raw); match != nil {
		return match[1]
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end <= start {
		return ""
	}
	return raw[start : end+1]
}
