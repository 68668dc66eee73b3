package rules

import "testing"

func TestStandardizeTask(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Report writing", "Report Writing"},
		{"wrote the report", "Report Writing"},
		{"Testing", "Testing"},
		{"classroom observation", "Interview and Observation"},
		{"eval prep", "Eval Planning"},
		{"scoring protocols", "Scoring and Uploading"},
		{"meeting prep", "Meeting Prep"},
		{"IEP attendance", "IEP Meeting Attendance"},
		{"called parent", "Guardian Contact"},
		{"emails", "Internal Communication"},
		{"tech setup", "Troubleshooting"},
		{"waiting for student", "Waiting"},
	}
	for _, tc := range cases {
		got := StandardizeTask(&tc.input)
		if got == nil || *got != tc.want {
			t.Fatalf("StandardizeTask(%q) = %v, want %q", tc.input, got, tc.want)
		}
	}
}

func TestStandardizeTaskFallback(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"lunch duty", "Lunch Duty"},
		{"make-up work", "Make-Up Work"},
		{"follow-up (am)", "Follow-Up (Am)"},
	}
	for _, tc := range cases {
		got := StandardizeTask(&tc.input)
		if got == nil || *got != tc.want {
			t.Fatalf("StandardizeTask(%q) = %v, want %q", tc.input, got, tc.want)
		}
	}
	if StandardizeTask(nil) != nil {
		t.Fatal("nil task should stay nil")
	}
}

func TestStandardizeTaskTriggerOrder(t *testing.T) {
	// "iep meeting prep" contains both "meeting prep" and "iep"; the earlier
	// rule wins.
	input := "iep meeting prep"
	got := StandardizeTask(&input)
	if got == nil || *got != "Meeting Prep" {
		t.Fatalf("got %v, want Meeting Prep", got)
	}
}

func TestCategorizeTask(t *testing.T) {
	cases := []struct {
		task string
		want string
	}{
		{"Testing", "Evaluation"},
		{"Report Writing", "Evaluation"},
		{"Waiting", "Evaluation"},
		{"Onboarding", "Admin"},
		{"Troubleshooting", "Admin"},
		{"Lunch Duty", "Uncategorized"},
		{"testing", "Uncategorized"},
	}
	for _, tc := range cases {
		if got := CategorizeTask(tc.task); got != tc.want {
			t.Fatalf("CategorizeTask(%q) = %q, want %q", tc.task, got, tc.want)
		}
	}
}
