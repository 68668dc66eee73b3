package pipeline

import (
	"encoding/csv"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joelilypad/analysis/internal"
	"github.com/joelilypad/analysis/internal/rules"
	"github.com/joelilypad/analysis/internal/util"
)

var reBlockHeader = regexp.MustCompile(`Hours for (.+?) \(Contractor\)`)

// ParseTimesheet converts a raw Gusto-style time-tracking export into flat
// time entries. The export is a sequence of per-psychologist blocks, each
// introduced by an "Hours for <name> (Contractor)" line and followed by a
// CSV-ish table. Bad blocks and bad rows are logged and skipped; an entirely
// empty or unparseable file yields an empty result, not an error, because
// partial timesheets are a normal occurrence.
func ParseTimesheet(content string) []internal.TimeEntry {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var entries []internal.TimeEntry
	psychologist := ""
	var block []string

	flush := func() {
		if len(block) > 0 {
			entries = append(entries, processBlock(block, psychologist)...)
			block = nil
		}
	}

	for _, line := range lines {
		if strings.Contains(line, "Hours for") && strings.Contains(line, "(Contractor)") {
			flush()
			psychologist = "Unknown"
			if m := reBlockHeader.FindStringSubmatch(line); m != nil {
				psychologist = strings.TrimSpace(m[1])
			}
			continue
		}
		if strings.TrimSpace(line) != "" {
			block = append(block, line)
		}
	}
	flush()

	// Entries whose hours could not be estimated carry zero and represent no
	// attributable work; drop them so downstream sums stay meaningful.
	out := make([]internal.TimeEntry, 0, len(entries))
	for _, e := range entries {
		if e.EstimatedHours > 0 {
			out = append(out, e)
		}
	}
	return out
}

func processBlock(blockLines []string, psychologist string) []internal.TimeEntry {
	r := csv.NewReader(strings.NewReader(strings.Join(blockLines, "\n")))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		slog.Warn("skipping block due to read error", "psychologist", psychologist, "error", err)
		return nil
	}
	if len(records) < 2 {
		return nil
	}

	header := make([]string, len(records[0]))
	for i, col := range records[0] {
		header[i] = strings.TrimSpace(col)
	}

	totalIdx := headerIndex(header, "Total hours")
	dateIdx := headerIndex(header, "Date")
	if dateIdx < 0 {
		dateIdx = headerIndex(header, `"Date"`)
	}
	hoursIdx, notesIdx := pairedColumns(header)

	var results []internal.TimeEntry
	for _, row := range records[1:] {
		if totalIdx >= 0 {
			total, err := strconv.ParseFloat(strings.TrimSpace(cell(row, totalIdx)), 64)
			if err != nil || total <= 0 {
				continue
			}
		}

		date, ok := parseDate(cell(row, dateIdx))
		if !ok {
			continue
		}

		for i := 0; i < len(hoursIdx) && i < len(notesIdx); i++ {
			h := cell(row, hoursIdx[i])
			n := cell(row, notesIdx[i])
			if strings.TrimSpace(h) == "" && strings.TrimSpace(n) == "" {
				continue
			}
			results = append(results, explodePair(date, psychologist, h, n)...)
		}
	}
	return results
}

// explodePair turns one Hours/Notes column pair into one entry per
// (sub-note, student) combination. The pair's estimated duration is split
// evenly across sub-notes and across the students matched within each
// sub-note, so the emitted hours always recombine to the original estimate.
func explodePair(date time.Time, psychologist, hoursRaw, note string) []internal.TimeEntry {
	est := util.EstimateHours(hoursRaw)
	subNotes := util.SplitNoteEntries(note)
	if len(subNotes) == 0 {
		subNotes = []string{note}
	}

	var out []internal.TimeEntry
	for _, subNote := range subNotes {
		students := []*string{nil}
		if initials := util.ExtractStudentInitials(subNote); initials != nil {
			students = students[:0]
			for _, s := range strings.Split(*initials, ",") {
				if s = strings.TrimSpace(s); s != "" {
					students = append(students, util.StringPtr(s))
				}
			}
			if len(students) == 0 {
				students = []*string{nil}
			}
		}

		splitHours := 0.0
		if est != nil {
			splitHours = *est / float64(len(subNotes)) / float64(len(students))
		}

		district := rules.StandardizeDistrict(util.ExtractDistrictCandidate(subNote))
		task := util.ExtractTask(subNote)
		stdTask := rules.StandardizeTask(task)
		category := "Uncategorized"
		if stdTask != nil {
			category = rules.CategorizeTask(*stdTask)
		}

		for _, student := range students {
			out = append(out, internal.TimeEntry{
				Date:             date,
				Psychologist:     psychologist,
				TimeRange:        hoursRaw,
				EstimatedHours:   splitHours,
				Note:             subNote,
				StudentInitials:  student,
				District:         district,
				Task:             task,
				StandardizedTask: stdTask,
				TaskCategory:     category,
			})
		}
	}
	return out
}

var dateLayouts = []string{"1/2/2006", "1/2/06", "2006-01-02"}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.Trim(strings.TrimSpace(raw), `"`)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func headerIndex(header []string, name string) int {
	for i, col := range header {
		if col == name {
			return i
		}
	}
	return -1
}

// pairedColumns locates every Hours*/Notes* column pair; the export repeats
// the pair for multiple time entries logged on one day.
func pairedColumns(header []string) (hours, notes []int) {
	for i, col := range header {
		if strings.HasPrefix(col, "Hours") && !strings.HasPrefix(col, "Hours for") {
			hours = append(hours, i)
		}
		if strings.HasPrefix(col, "Notes") {
			notes = append(notes, i)
		}
	}
	return hours, notes
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
