package util

import (
	"math"
	"regexp"
	"strings"
	"time"
)

var (
	reTimeRangeStart  = regexp.MustCompile(`^\d{1,2}:\d{2}`)
	reTimeRangePrefix = regexp.MustCompile(`^\d{1,2}:\d{2}(?: ?[APMapm]{2})?\s*-\s*\d{1,2}:\d{2}(?: ?[APMapm]{2})?\s*>?`)
	reEmbeddedRange   = regexp.MustCompile(`\d{1,2}:\d{2}(?:\s?[APMapm]{2})?\s*-\s*\d{1,2}:\d{2}`)
	reInitialsToken   = regexp.MustCompile(`\b[A-Z]{1,3}\b`)
	reNewlines        = regexp.MustCompile(`\n+`)
)

// EstimateHours parses a "start - end" clock range and returns the elapsed time
// in hours rounded to 3 decimals. The side format is chosen by colon presence
// ("9:00 AM" vs "9 AM"); meridiems are case-insensitive. An end before the
// start rolls over to the next day. Returns nil on any malformed input.
func EstimateHours(timeRange string) *float64 {
	if !strings.Contains(timeRange, "-") {
		return nil
	}
	parts := strings.Split(timeRange, "-")
	if len(parts) != 2 {
		return nil
	}
	start := strings.ToUpper(strings.TrimSpace(parts[0]))
	end := strings.ToUpper(strings.TrimSpace(parts[1]))

	layout := "3 PM"
	if strings.Contains(start, ":") {
		layout = "3:04 PM"
	}
	startT, err := time.Parse(layout, start)
	if err != nil {
		return nil
	}
	endT, err := time.Parse(layout, end)
	if err != nil {
		return nil
	}
	if endT.Before(startT) {
		endT = endT.Add(24 * time.Hour)
	}
	hours := math.Round(endT.Sub(startT).Hours()*1000) / 1000
	return FloatPtr(hours)
}

// SplitNoteEntries splits a free-text note field into its activity segments:
// first on newline runs, then at every position where a new embedded time range
// begins, with the range kept attached to the following segment.
func SplitNoteEntries(note string) []string {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil
	}
	out := []string{}
	for _, line := range reNewlines.Split(note, -1) {
		for _, part := range splitBeforeRanges(line) {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func splitBeforeRanges(line string) []string {
	matches := reEmbeddedRange.FindAllStringIndex(line, -1)
	if len(matches) == 0 {
		return []string{line}
	}
	cuts := []int{}
	for _, m := range matches {
		if m[0] > 0 {
			cuts = append(cuts, m[0])
		}
	}
	if len(cuts) == 0 {
		return []string{line}
	}
	out := make([]string, 0, len(cuts)+1)
	prev := 0
	for _, c := range cuts {
		out = append(out, line[prev:c])
		prev = c
	}
	return append(out, line[prev:])
}

// chevronFields splits a note on ">" and discards a leading time-range field.
func chevronFields(note string) []string {
	parts := strings.Split(strings.TrimSpace(note), ">")
	if len(parts) > 0 && reTimeRangeStart.MatchString(strings.TrimSpace(parts[0])) {
		parts = parts[1:]
	}
	return parts
}

// ExtractStudentInitials pulls every 1-3 letter uppercase token out of the
// initials block (second chevron field) and returns them comma-joined, or nil
// when none are found.
func ExtractStudentInitials(note string) *string {
	parts := chevronFields(note)
	if len(parts) < 2 {
		return nil
	}
	tokens := reInitialsToken.FindAllString(strings.ToUpper(parts[1]), -1)
	if len(tokens) == 0 {
		return nil
	}
	return StringPtr(strings.Join(tokens, ", "))
}

// ExtractTask returns the third chevron field with any trailing " - suffix"
// stripped, or nil when the note has no task field.
func ExtractTask(note string) *string {
	parts := chevronFields(note)
	if len(parts) < 3 {
		return nil
	}
	task := strings.TrimSpace(strings.SplitN(parts[2], "-", 2)[0])
	return StringPtr(task)
}

// ExtractDistrictCandidate strips a leading time-range prefix and returns the
// text before the first chevron, or the whole remainder when no chevron exists.
func ExtractDistrictCandidate(note string) string {
	note = strings.TrimSpace(note)
	note = strings.TrimSpace(reTimeRangePrefix.ReplaceAllString(note, ""))
	if i := strings.Index(note, ">"); i >= 0 {
		return strings.TrimSpace(note[:i])
	}
	return note
}

// Evaluation-number patterns in precedence order. The bare 2+ digit fallback is
// deliberately last; it can pick up noise like dates.
var evalNumberPatterns = []*regexp.Regexp{
	regexp.MustCompile(`Evaluation #?\s*(\d+)`),
	regexp.MustCompile(`Eval #?\s*(\d+)`),
	regexp.MustCompile(`#\s*(\d+)`),
	regexp.MustCompile(`\(#(\d+)\)`),
	regexp.MustCompile(`(\d{2,})`),
}

var reParenInitials = regexp.MustCompile(`\(([A-Z]{2,3})\)`)

// ExtractEvaluationNumber applies the ordered numeric-id patterns to a billing
// line description; the first matching pattern wins.
func ExtractEvaluationNumber(description string) *string {
	for _, re := range evalNumberPatterns {
		if m := re.FindStringSubmatch(description); m != nil {
			return StringPtr(m[1])
		}
	}
	return nil
}

// ExtractParenInitials returns the first parenthesized 2-3 uppercase-letter
// group in a billing line description.
func ExtractParenInitials(description string) *string {
	if m := reParenInitials.FindStringSubmatch(description); m != nil {
		return StringPtr(m[1])
	}
	return nil
}

// LooksLikeTimeRange reports whether the text starts with a bare clock time,
// which marks leftover range fragments that must not pass for site names.
func LooksLikeTimeRange(text string) bool {
	return reTimeRangeStart.MatchString(strings.TrimSpace(text))
}
