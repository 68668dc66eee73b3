package rules

import (
	"sort"
	"strings"

	"github.com/joelilypad/analysis/internal/util"
)

const (
	MultilingualEvaluation = "Multilingual Evaluation"
	HaitianCreoleEval      = "Haitian Creole Evaluation"
	SpanishEvaluation      = "Spanish Evaluation"
	BilingualEvaluation    = "Bilingual Evaluation"
	CognitiveOnly          = "Cognitive Only"
	EducationalOnly        = "Educational Only"
	FullEvaluation         = "Full Evaluation"
	AcademicTestingAddOn   = "Academic Testing (Add-on)"
	IEPMeetingAddOn        = "IEP Meeting (Add-on)"
	RatingScales           = "Rating Scales"
	RemoteSetup            = "Remote Setup"
	SetupFee               = "Setup Fee"
)

var psychoedPhrases = []string{
	"psychoeducational evaluation", "psychoed eval", "psychoed evaluation",
	"psychological eval", "psychological evaluation",
}

var addOnPhrases = []string{"academic", "iep", "set-up", "setup"}

// ExtractServiceComponents detects the canonical service components named in
// one invoice line description. Bilingual language variants take precedence
// over generic psychoeducational phrasings, which take precedence over the
// bare "evaluation" catch-all.
func ExtractServiceComponents(description string) []string {
	desc := strings.ToLower(description)
	if strings.TrimSpace(desc) == "" {
		return nil
	}

	var components []string
	switch {
	case strings.Contains(desc, "bilingual"):
		switch {
		case strings.Contains(desc, "spanish & haitian creole"), strings.Contains(desc, "spanish and haitian creole"):
			components = append(components, MultilingualEvaluation)
		case strings.Contains(desc, "haitian creole"):
			components = append(components, HaitianCreoleEval)
		case strings.Contains(desc, "spanish"):
			components = append(components, SpanishEvaluation)
		default:
			components = append(components, BilingualEvaluation)
		}
	case containsAny(desc, psychoedPhrases):
		switch {
		case strings.Contains(desc, "cognitive only"):
			components = append(components, CognitiveOnly)
		case strings.Contains(desc, "educational only"):
			components = append(components, EducationalOnly)
		default:
			components = append(components, FullEvaluation)
		}
	case strings.Contains(desc, "evaluation") && !containsAny(desc, addOnPhrases):
		// Evaluations phrased without the psychoeducational vocabulary.
		components = append(components, FullEvaluation)
	}

	if strings.Contains(desc, "academic") &&
		(strings.Contains(desc, "assessment") || strings.Contains(desc, "testing")) {
		components = append(components, AcademicTestingAddOn)
	}
	if strings.Contains(desc, "iep") &&
		(strings.Contains(desc, "meeting") || strings.Contains(desc, "presentation")) {
		components = append(components, IEPMeetingAddOn)
	}
	if strings.Contains(desc, "rating scales") {
		components = append(components, RatingScales)
	}
	if strings.Contains(desc, "set-up") || strings.Contains(desc, "setup") {
		components = append(components, RemoteSetup)
	}

	return components
}

// primaryTypePrecedence decides which detected component names the line's
// service type. Specific language evaluations outrank the generic forms, and
// add-ons are never promoted over a real evaluation.
var primaryTypePrecedence = []struct {
	Component string
	Type      string
}{
	{MultilingualEvaluation, MultilingualEvaluation},
	{HaitianCreoleEval, HaitianCreoleEval},
	{SpanishEvaluation, SpanishEvaluation},
	{BilingualEvaluation, BilingualEvaluation},
	{CognitiveOnly, CognitiveOnly},
	{EducationalOnly, EducationalOnly},
	{FullEvaluation, FullEvaluation},
	{AcademicTestingAddOn, AcademicTestingAddOn},
	{IEPMeetingAddOn, IEPMeetingAddOn},
	{RemoteSetup, SetupFee},
}

func PrimaryServiceType(components []string) *string {
	present := map[string]struct{}{}
	for _, c := range components {
		present[c] = struct{}{}
	}
	for _, rule := range primaryTypePrecedence {
		if _, ok := present[rule.Component]; ok {
			return util.StringPtr(rule.Type)
		}
	}
	return nil
}

// ServiceBundle joins the sorted, de-duplicated component set with " + ". A
// line with no detected components yields an empty bundle, not a dropped row.
func ServiceBundle(components []string) string {
	seen := map[string]struct{}{}
	unique := make([]string, 0, len(components))
	for _, c := range components {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		unique = append(unique, c)
	}
	sort.Strings(unique)
	return strings.Join(unique, " + ")
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
