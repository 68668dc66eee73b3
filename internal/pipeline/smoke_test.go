package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joelilypad/analysis/internal"
	"github.com/joelilypad/analysis/internal/report"
	"github.com/joelilypad/analysis/internal/storage"
)

// End-to-end pass over both pipelines: parse, persist, read back, export.
func TestPipelineSmoke(t *testing.T) {
	dir := t.TempDir()
	db, err := storage.Open(filepath.Join(dir, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	entries := ParseTimesheet(timesheetFixture)
	if len(entries) == 0 {
		t.Fatal("no time entries parsed")
	}
	hash := storage.Fingerprint([]byte(timesheetFixture))
	file, err := db.SaveTimeEntries("timesheet.csv", hash, entries)
	if err != nil {
		t.Fatal(err)
	}
	if file.Records != len(entries) {
		t.Fatalf("file records = %d, want %d", file.Records, len(entries))
	}

	cached, err := db.LookupFile(internal.SourceTimesheet, hash)
	if err != nil {
		t.Fatal(err)
	}
	if cached == nil || cached.ID != file.ID {
		t.Fatalf("cache lookup = %+v", cached)
	}

	loaded, err := db.TimeEntriesForFile(file.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != len(entries) {
		t.Fatalf("loaded %d entries, want %d", len(loaded), len(entries))
	}
	var parsedSum, loadedSum float64
	for i := range entries {
		parsedSum += entries[i].EstimatedHours
		loadedSum += loaded[i].EstimatedHours
	}
	if parsedSum != loadedSum {
		t.Fatalf("hours changed across storage: %v vs %v", parsedSum, loadedSum)
	}

	// Re-importing identical content replaces, never duplicates.
	again, err := db.SaveTimeEntries("timesheet.csv", hash, entries)
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != file.ID {
		t.Fatalf("re-import created new file row %d, had %d", again.ID, file.ID)
	}

	records, err := ParseBilling(billingFixture)
	if err != nil {
		t.Fatal(err)
	}
	billingFile, err := db.SaveBillingLines("billing.csv", storage.Fingerprint([]byte(billingFixture)), records)
	if err != nil {
		t.Fatal(err)
	}
	loadedRecords, err := db.BillingLinesForFile(billingFile.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(loadedRecords) != len(records) {
		t.Fatalf("loaded %d records, want %d", len(loadedRecords), len(records))
	}
	if loadedRecords[0].ServiceBundle != records[0].ServiceBundle {
		t.Fatalf("bundle changed across storage: %q vs %q", loadedRecords[0].ServiceBundle, records[0].ServiceBundle)
	}
	if len(loadedRecords[0].ServiceComponents) != len(records[0].ServiceComponents) {
		t.Fatalf("components changed across storage")
	}

	if err := db.InsertRun("trace-1", file.ID, map[string]float64{"parse": 0.1}, map[string]int{"entries": len(entries)}); err != nil {
		t.Fatal(err)
	}

	exports := map[string]func(string) error{
		"entries.xlsx": func(p string) error { return ExportTimeEntriesToXLSX(entries, p) },
		"billing.xlsx": func(p string) error { return ExportBillingLinesToXLSX(records, p) },
		"pivot.xlsx":   func(p string) error { return ExportPivotToXLSX(report.StudentTaskBreakdown(entries), p) },
	}
	for name, export := range exports {
		path := filepath.Join(dir, name)
		if err := export(path); err != nil {
			t.Fatalf("export %s: %v", name, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}
