package worker

import "strings"

// Summary is the canonical recommendation shape the API exposes, derived
// from the worker's loosely structured long-term memory. Score and
// confidence are pointers so "absent" serializes as null rather than zero.
type Summary struct {
	SleepScore       *float64       `json:"sleep_score"`
	Confidence       *float64       `json:"confidence"`
	Issues           []string       `json:"issues"`
	Recommendations  map[string]any `json:"recommendations"`
	PersonalizedTips []any          `json:"personalized_tips"`
}

// Summarize derives a Summary from a long-term memory object. It is pure
// and total: missing or malformed substructures degrade to defaults, field
// resolution is first-present-wins.
//
//   - sleep_score: top-level, else trends.avg_sleep_score, else null
//   - confidence:  top-level, else trends.confidence, else null
//   - issues:      top-level issues list if non-empty, else derived from
//     the patterns list (see issuesFromPatterns)
//   - recommendations, personalized_tips: top-level, else empty
func Summarize(ltm map[string]any) Summary {
	trends, _ := ltm["trends"].(map[string]any)

	score := numberField(ltm, "sleep_score")
	if score == nil {
		score = numberField(trends, "avg_sleep_score")
	}

	confidence := numberField(ltm, "confidence")
	if confidence == nil {
		confidence = numberField(trends, "confidence")
	}

	issues := stringList(ltm["issues"])
	if len(issues) == 0 {
		issues = issuesFromPatterns(ltm["patterns"])
	}

	recommendations, _ := ltm["recommendations"].(map[string]any)
	if recommendations == nil {
		recommendations = map[string]any{}
	}

	tips, _ := ltm["personalized_tips"].([]any)
	if tips == nil {
		tips = []any{}
	}

	return Summary{
		SleepScore:       score,
		Confidence:       confidence,
		Issues:           issues,
		Recommendations:  recommendations,
		PersonalizedTips: tips,
	}
}

// issuesFromPatterns filters a generic patterns list down to actual issues,
// preserving source order. Structured entries qualify when their type is
// "issue" or contains "problem"/"warning" (case-insensitive); plain strings
// qualify when they mention "issue" or "problem".
func issuesFromPatterns(v any) []string {
	patterns, _ := v.([]any)
	issues := []string{}
	for _, p := range patterns {
		switch pattern := p.(type) {
		case map[string]any:
			typ, _ := pattern["type"].(string)
			lower := strings.ToLower(typ)
			if typ == "issue" || strings.Contains(lower, "problem") || strings.Contains(lower, "warning") {
				desc, _ := pattern["description"].(string)
				issues = append(issues, desc)
			}
		case string:
			lower := strings.ToLower(pattern)
			if strings.Contains(lower, "issue") || strings.Contains(lower, "problem") {
				issues = append(issues, pattern)
			}
		}
	}
	return issues
}

// DefaultMemory is the fixed degraded shape /api/memory falls back to when
// the worker agent cannot be reached.
func DefaultMemory() map[string]any {
	return map[string]any{
		"stm": map[string]any{
			"sessions": []any{},
			"count":    0,
		},
		"ltm": map[string]any{
			"trends":      map[string]any{},
			"patterns":    []any{},
			"preferences": map[string]any{},
			"available":   false,
		},
	}
}

func numberField(m map[string]any, key string) *float64 {
	if m == nil {
		return nil
	}
	switch n := m[key].(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	}
	return nil
}

func stringList(v any) []string {
	items, _ := v.([]any)
	out := []string{}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
