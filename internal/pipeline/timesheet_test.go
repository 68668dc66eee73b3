package pipeline

import (
	"math"
	"testing"
)

const timesheetFixture = `Timesheet export,,,,,
Hours for Nancy Smith (Contractor),,,,,
Date,Total hours,Hours 1,Notes 1,Hours 2,Notes 2
1/6/2025,2,9:00 AM - 10:00 AM,"9:00 AM - 10:00 AM > Lawrence High > AB, CD > Testing - initial session",10:00 AM - 11:00 AM,10:00 AM - 11:00 AM > LHS > AB > Scoring
1/7/2025,0,9:00 AM - 10:00 AM,zero total row,,
Hours for Angela Ruiz (Contractor),,,,,
Date,Total hours,Hours 1,Notes 1,,
1/8/2025,1.5,1:00 PM - 2:30 PM,1:00 PM - 2:30 PM > WSHS > MK > Report writing,,
bad date,1,1:00 PM - 2:00 PM,skipped row,,
1/9/2025,1,all afternoon,no estimable range here,,
`

func TestParseTimesheet(t *testing.T) {
	entries := ParseTimesheet(timesheetFixture)
	if len(entries) != 4 {
		t.Fatalf("got %d entries: %+v", len(entries), entries)
	}

	sum := 0.0
	for _, e := range entries {
		sum += e.EstimatedHours
	}
	// Splitting across sub-notes and students must conserve the block totals.
	if math.Abs(sum-3.5) > 1e-9 {
		t.Fatalf("total hours = %v, want 3.5", sum)
	}

	first := entries[0]
	if first.Psychologist != "Nancy Smith" {
		t.Fatalf("psychologist = %q", first.Psychologist)
	}
	if first.Date.Format("2006-01-02") != "2025-01-06" {
		t.Fatalf("date = %v", first.Date)
	}
	if first.StudentInitials == nil || *first.StudentInitials != "AB" {
		t.Fatalf("initials = %v", first.StudentInitials)
	}
	if first.EstimatedHours != 0.5 {
		t.Fatalf("hours = %v", first.EstimatedHours)
	}
	if first.District == nil || *first.District != "Lawrence" {
		t.Fatalf("district = %v", first.District)
	}
	if first.StandardizedTask == nil || *first.StandardizedTask != "Testing" {
		t.Fatalf("task = %v", first.StandardizedTask)
	}
	if first.TaskCategory != "Evaluation" {
		t.Fatalf("category = %q", first.TaskCategory)
	}

	second := entries[1]
	if second.StudentInitials == nil || *second.StudentInitials != "CD" {
		t.Fatalf("initials = %v", second.StudentInitials)
	}
	if second.EstimatedHours != 0.5 {
		t.Fatalf("hours = %v", second.EstimatedHours)
	}

	third := entries[2]
	if third.EstimatedHours != 1 {
		t.Fatalf("hours = %v", third.EstimatedHours)
	}
	if third.StandardizedTask == nil || *third.StandardizedTask != "Scoring and Uploading" {
		t.Fatalf("task = %v", third.StandardizedTask)
	}

	fourth := entries[3]
	if fourth.Psychologist != "Angela Ruiz" {
		t.Fatalf("psychologist = %q", fourth.Psychologist)
	}
	if fourth.EstimatedHours != 1.5 {
		t.Fatalf("hours = %v", fourth.EstimatedHours)
	}
	if fourth.District == nil || *fourth.District != "West Springfield" {
		t.Fatalf("district = %v", fourth.District)
	}
}

func TestParseTimesheetEmpty(t *testing.T) {
	if got := ParseTimesheet(""); len(got) != 0 {
		t.Fatalf("empty input produced %d entries", len(got))
	}
	if got := ParseTimesheet("random,csv,content\n1,2,3\n"); len(got) != 0 {
		t.Fatalf("headerless input produced %d entries", len(got))
	}
}

func TestParseTimesheetUnknownPsychologist(t *testing.T) {
	content := "Hours for  (Contractor),,,\n" +
		"Date,Total hours,Hours 1,Notes 1\n" +
		"1/6/2025,1,9:00 AM - 10:00 AM,Lawrence High > AB > Testing\n"
	entries := ParseTimesheet(content)
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Psychologist != "Unknown" {
		t.Fatalf("psychologist = %q", entries[0].Psychologist)
	}
}
