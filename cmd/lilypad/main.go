package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/joelilypad/analysis/internal"
	"github.com/joelilypad/analysis/internal/config"
	"github.com/joelilypad/analysis/internal/logger"
	"github.com/joelilypad/analysis/internal/pipeline"
	"github.com/joelilypad/analysis/internal/report"
	"github.com/joelilypad/analysis/internal/storage"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	must(err)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	db, err := storage.Open(cfg.DBPath)
	must(err)
	defer db.Close()

	cmd := os.Args[1]
	switch cmd {
	case "timesheet:parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw time-tracking export path")
		out := fs.String("out", "", "optional output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}
		entries, file := loadTimeEntries(db, *input)
		fmt.Printf("parsed %d time entries from %s\n", len(entries), file.Name)
		if *out != "" {
			must(pipeline.ExportTimeEntriesToXLSX(entries, *out))
			fmt.Printf("exported %d rows to %s\n", len(entries), *out)
		}
	case "billing:parse":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw sales export path")
		out := fs.String("out", "", "optional output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}
		records, file := loadBillingLines(db, *input)
		fmt.Printf("parsed %d billing lines from %s\n", len(records), file.Name)
		if *out != "" {
			must(pipeline.ExportBillingLinesToXLSX(records, *out))
			fmt.Printf("exported %d rows to %s\n", len(records), *out)
		}
	case "report:monthly":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw time-tracking export path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}
		entries, _ := loadTimeEntries(db, *input)
		for _, m := range report.MonthlyCostSummary(entries, cfg) {
			fmt.Printf("%s\t$%.2f\n", m.Month, m.Cost)
		}
	case "report:cases":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw time-tracking export path")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *out == "" {
			must(fmt.Errorf("--input and --out are required"))
		}
		entries, _ := loadTimeEntries(db, *input)
		cases := report.CaseFinancialReport(entries, cfg)
		must(pipeline.ExportCaseReportToXLSX(cases, *out))
		fmt.Printf("exported %d cases to %s\n", len(cases), *out)
	case "report:pivot":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw time-tracking export path")
		out := fs.String("out", "", "output xlsx path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" || *out == "" {
			must(fmt.Errorf("--input and --out are required"))
		}
		entries, _ := loadTimeEntries(db, *input)
		pivot := report.StudentTaskBreakdown(entries)
		must(pipeline.ExportPivotToXLSX(pivot, *out))
		fmt.Printf("exported %d pivot rows to %s\n", len(pivot.Rows), *out)
	case "report:revenue":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		input := fs.String("input", "", "raw sales export path")
		_ = fs.Parse(os.Args[2:])
		if *input == "" {
			must(fmt.Errorf("--input is required"))
		}
		records, _ := loadBillingLines(db, *input)
		summary := report.RevenueSummary(records)
		for _, district := range summary.Groups {
			for _, month := range summary.Months {
				fmt.Printf("%s\t%s\t$%.2f\n", district, month, summary.Values[district][month])
			}
		}
		for _, month := range summary.Months {
			fmt.Printf("Total\t%s\t$%.2f\n", month, summary.Totals[month])
		}
	case "export:xlsx":
		fs := flag.NewFlagSet(cmd, flag.ExitOnError)
		timesheet := fs.String("timesheet", "", "raw time-tracking export path")
		billing := fs.String("billing", "", "raw sales export path")
		outDir := fs.String("outdir", cfg.OutputDir, "output directory")
		_ = fs.Parse(os.Args[2:])
		if *timesheet == "" && *billing == "" {
			must(fmt.Errorf("at least one of --timesheet or --billing is required"))
		}
		if *timesheet != "" {
			entries, _ := loadTimeEntries(db, *timesheet)
			must(pipeline.ExportTimeEntriesToXLSX(entries, filepath.Join(*outDir, "time_entries.xlsx")))
			must(pipeline.ExportCaseReportToXLSX(report.CaseFinancialReport(entries, cfg), filepath.Join(*outDir, "cases.xlsx")))
			must(pipeline.ExportPivotToXLSX(report.StudentTaskBreakdown(entries), filepath.Join(*outDir, "breakdown.xlsx")))
			fmt.Printf("exported %d time entries to %s\n", len(entries), *outDir)
		}
		if *billing != "" {
			records, _ := loadBillingLines(db, *billing)
			must(pipeline.ExportBillingLinesToXLSX(records, filepath.Join(*outDir, "billing_lines.xlsx")))
			fmt.Printf("exported %d billing lines to %s\n", len(records), *outDir)
		}
	default:
		usage()
		os.Exit(1)
	}
}

func loadTimeEntries(db *storage.DB, path string) ([]internal.TimeEntry, storage.FileRow) {
	content, err := os.ReadFile(path)
	must(err)
	hash := storage.Fingerprint(content)

	cached, err := db.LookupFile(internal.SourceTimesheet, hash)
	must(err)
	if cached != nil {
		entries, err := db.TimeEntriesForFile(cached.ID)
		must(err)
		return entries, *cached
	}

	start := time.Now()
	entries := pipeline.ParseTimesheet(string(content))
	file, err := db.SaveTimeEntries(path, hash, entries)
	must(err)
	_ = db.InsertRun(uuid.NewString(), file.ID,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"entries": len(entries)})
	return entries, file
}

func loadBillingLines(db *storage.DB, path string) ([]internal.BillingLine, storage.FileRow) {
	content, err := os.ReadFile(path)
	must(err)
	hash := storage.Fingerprint(content)

	cached, err := db.LookupFile(internal.SourceBilling, hash)
	must(err)
	if cached != nil {
		records, err := db.BillingLinesForFile(cached.ID)
		must(err)
		return records, *cached
	}

	start := time.Now()
	records, err := pipeline.ParseBilling(string(content))
	must(err)
	file, err := db.SaveBillingLines(path, hash, records)
	must(err)
	_ = db.InsertRun(uuid.NewString(), file.ID,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{"lines": len(records)})
	return records, file
}

func usage() {
	fmt.Println("usage: lilypad <command>")
	fmt.Println("commands:")
	fmt.Println("  timesheet:parse --input=gusto.csv [--out=./out/entries.xlsx]")
	fmt.Println("  billing:parse --input=sales.csv [--out=./out/billing.xlsx]")
	fmt.Println("  report:monthly --input=gusto.csv")
	fmt.Println("  report:cases --input=gusto.csv --out=./out/cases.xlsx")
	fmt.Println("  report:pivot --input=gusto.csv --out=./out/breakdown.xlsx")
	fmt.Println("  report:revenue --input=sales.csv")
	fmt.Println("  export:xlsx [--timesheet=gusto.csv] [--billing=sales.csv] [--outdir=./out]")
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
