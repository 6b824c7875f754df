package validation

import (
	"strings"
)

// Rule is the kind of check a violation failed
type Rule string

const (
	RuleRequired            Rule = "required"             // blank value where one is mandatory
	RuleInvalidValue        Rule = "invalid_value"        // value outside a closed set
	RuleUnknownCode         Rule = "unknown_code"         // code not in the mission type vocabulary
	RuleFormat              Rule = "format"               // value does not parse in the expected layout
	RuleNotUpperCase        Rule = "not_upper_case"       // value must already be upper-case
	RuleNotNumeric          Rule = "not_numeric"          // value must be digits only
	RuleUnresolvedReference Rule = "unresolved_reference" // allotment reference matches no allotment
)

// Violation is one failed rule. Path uses the canonical dictionary keys, with
// zero-based list indexes, e.g. "task_units[0].aircraft_mission_data.mission_number".
type Violation struct {
	Path   string
	Rule   Rule
	Detail string // rule-specific: offending value, allowed set or expected layout
}

// String renders the violation in English
func (v Violation) String() string {
	return DefaultRenderer.Render(v)
}

// Violations is the ordered result of a validation run
type Violations []Violation

// Valid reports whether no rule failed
func (vs Violations) Valid() bool {
	return len(vs) == 0
}

// Strings renders every violation with r, preserving order
func (vs Violations) Strings(r *Renderer) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		out = append(out, r.Render(v))
	}
	return out
}

// Under returns the violations whose path is prefix or lies below it
func (vs Violations) Under(prefix string) Violations {
	var out Violations
	for _, v := range vs {
		if v.Path == prefix || strings.HasPrefix(v.Path, prefix+".") || strings.HasPrefix(v.Path, prefix+"[") {
			out = append(out, v)
		}
	}
	return out
}
