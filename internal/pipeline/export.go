package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/joelilypad/analysis/internal"
	"github.com/joelilypad/analysis/internal/report"
)

func ExportTimeEntriesToXLSX(entries []internal.TimeEntry, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"date", "psychologist", "time_entry", "estimated_hours", "note",
		"student_initials", "district", "task", "standardized_task",
		"task_category", "month", "week",
	}
	writeHeaders(f, sheet, headers)

	for i, e := range entries {
		set := rowSetter(f, sheet, i+2)
		set(1, e.Date.Format("2006-01-02"))
		set(2, e.Psychologist)
		set(3, e.TimeRange)
		set(4, e.EstimatedHours)
		set(5, e.Note)
		set(6, derefString(e.StudentInitials))
		set(7, derefString(e.District))
		set(8, derefString(e.Task))
		set(9, derefString(e.StandardizedTask))
		set(10, e.TaskCategory)
		set(11, e.Month())
		set(12, e.Week())
	}

	return save(f, outputPath)
}

func ExportBillingLinesToXLSX(records []internal.BillingLine, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"date", "invoice_date", "customer", "district", "invoice", "service",
		"description", "student_initials", "evaluation_number", "service_type",
		"service_bundle", "amount", "quantity", "unit_price",
		"month", "week", "invoice_month",
	}
	writeHeaders(f, sheet, headers)

	for i, b := range records {
		set := rowSetter(f, sheet, i+2)
		set(1, b.Date.Format("2006-01-02"))
		set(2, b.InvoiceDate.Format("2006-01-02"))
		set(3, b.Customer)
		set(4, b.District)
		set(5, b.Invoice)
		set(6, b.Service)
		set(7, b.Description)
		set(8, derefString(b.StudentInitials))
		set(9, derefString(b.EvaluationNumber))
		set(10, derefString(b.ServiceType))
		set(11, b.ServiceBundle)
		set(12, b.Amount)
		set(13, b.Quantity)
		set(14, b.UnitPrice)
		set(15, b.Month())
		set(16, b.Week())
		set(17, b.InvoiceMonth())
	}

	return save(f, outputPath)
}

func ExportCaseReportToXLSX(cases []report.CaseSummary, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"case_id", "student_initials", "district", "estimated_hours",
		"estimated_cost", "psychologists", "start_date", "end_date",
		"revenue", "profit",
	}
	writeHeaders(f, sheet, headers)

	for i, c := range cases {
		set := rowSetter(f, sheet, i+2)
		set(1, c.CaseID)
		set(2, c.StudentInitials)
		set(3, c.District)
		set(4, c.EstimatedHours)
		set(5, c.EstimatedCost)
		set(6, c.Psychologists)
		set(7, c.StartDate.Format("2006-01-02"))
		set(8, c.EndDate.Format("2006-01-02"))
		set(9, c.Revenue)
		set(10, c.Profit)
	}

	return save(f, outputPath)
}

func ExportPivotToXLSX(pivot report.TaskPivot, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"student_initials", "district", "psychologist"}
	headers = append(headers, pivot.Tasks...)
	headers = append(headers, "total_hours")
	writeHeaders(f, sheet, headers)

	for i, row := range pivot.Rows {
		set := rowSetter(f, sheet, i+2)
		set(1, row.StudentInitials)
		set(2, row.District)
		set(3, row.Psychologist)
		for j, task := range pivot.Tasks {
			set(4+j, row.TaskHours[task])
		}
		set(4+len(pivot.Tasks), row.TotalHours)
	}

	return save(f, outputPath)
}

func writeHeaders(f *excelize.File, sheet string, headers []string) {
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}
}

func rowSetter(f *excelize.File, sheet string, row int) func(col int, value any) {
	return func(col int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}
}

func save(f *excelize.File, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
