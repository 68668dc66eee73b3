package rules

import (
	"strings"
	"unicode"

	"github.com/joelilypad/analysis/internal/util"
)

type taskRule struct {
	Triggers []string
	Label    string
}

// taskRules is first-match-wins over lowercase substrings. More specific
// triggers ("meeting prep") must precede catch-alls that also match ("eval").
var taskRules = []taskRule{
	{[]string{"report"}, "Report Writing"},
	{[]string{"testing"}, "Testing"},
	{[]string{"interview", "observation"}, "Interview and Observation"},
	{[]string{"eval", "planning"}, "Eval Planning"},
	{[]string{"scoring", "upload"}, "Scoring and Uploading"},
	{[]string{"meeting prep"}, "Meeting Prep"},
	{[]string{"iep"}, "IEP Meeting Attendance"},
	{[]string{"rating"}, "Rating Scales"},
	{[]string{"guardian", "parent"}, "Guardian Contact"},
	{[]string{"teacher"}, "Teacher Contact"},
	{[]string{"staff"}, "School Staff Contact"},
	{[]string{"scheduling"}, "Scheduling"},
	{[]string{"onboarding"}, "Onboarding"},
	{[]string{"caseload"}, "Caseload Organization"},
	{[]string{"pd", "development"}, "Professional Development"},
	{[]string{"email", "communication"}, "Internal Communication"},
	{[]string{"troubleshoot", "tech"}, "Troubleshooting"},
	{[]string{"waiting"}, "Waiting"},
}

var evaluationTasks = map[string]struct{}{
	"Eval Planning": {}, "Scheduling": {}, "Guardian Contact": {}, "Teacher Contact": {},
	"School Staff Contact": {}, "Rating Scales": {}, "Eval Prep": {}, "Waiting": {},
	"Testing": {}, "Interview and Observation": {}, "Scoring and Uploading": {},
	"Report Writing": {}, "Post Eval School Consultation": {}, "Meeting Prep": {},
	"IEP Meeting Attendance": {},
}

var adminTasks = map[string]struct{}{
	"Onboarding": {}, "Internal Communication": {}, "Professional Development": {},
	"Caseload Organization": {}, "Troubleshooting": {},
}

// StandardizeTask maps a raw task phrase onto the canonical task vocabulary,
// falling back to the title-cased raw text when no trigger matches.
func StandardizeTask(task *string) *string {
	if task == nil {
		return nil
	}
	lowered := strings.ToLower(strings.TrimSpace(*task))
	for _, rule := range taskRules {
		for _, trigger := range rule.Triggers {
			if strings.Contains(lowered, trigger) {
				return util.StringPtr(rule.Label)
			}
		}
	}
	return util.StringPtr(titleCase(*task))
}

// CategorizeTask is pure set membership over the canonical labels, not a
// substring match.
func CategorizeTask(task string) string {
	if _, ok := evaluationTasks[task]; ok {
		return "Evaluation"
	}
	if _, ok := adminTasks[task]; ok {
		return "Admin"
	}
	return "Uncategorized"
}

// titleCase capitalizes every letter that follows a non-letter, so hyphenated
// phrases come out as "Make-Up Work", not "Make-up Work".
func titleCase(s string) string {
	r := []rune(strings.ToLower(strings.TrimSpace(s)))
	prevLetter := false
	for i, c := range r {
		if unicode.IsLetter(c) {
			if !prevLetter {
				r[i] = unicode.ToUpper(c)
			}
			prevLetter = true
		} else {
			prevLetter = false
		}
	}
	return string(r)
}
