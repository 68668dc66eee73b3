package pipeline

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/joelilypad/analysis/internal"
	"github.com/joelilypad/analysis/internal/rules"
	"github.com/joelilypad/analysis/internal/util"
)

const billingHeaderMarker = "Transaction date,Transaction type"

var requiredBillingColumns = []string{
	"Transaction date", "Transaction type", "Num", "Customer",
	"Product/Service full name", "Line description", "Amount",
	"Quantity", "Sales price",
}

// ParseBilling converts a raw QuickBooks-style sales export into flat invoice
// line items. The preamble before the column header row is discarded. Bad rows
// are logged and skipped; the pipeline fails only on file-level problems: no
// header, a missing required column, or zero surviving records. A billing
// file with no extractable revenue is almost certainly the wrong file.
func ParseBilling(content string) ([]internal.BillingLine, error) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	start := -1
	for i, line := range lines {
		if strings.Contains(line, billingHeaderMarker) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, ErrNoHeader
	}

	r := csv.NewReader(strings.NewReader(strings.Join(lines[start:], "\n")))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	headerRow, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read billing header: %w", err)
	}
	cols := map[string]int{}
	for i, col := range headerRow {
		cols[strings.TrimSpace(col)] = i
	}

	var missing []string
	for _, col := range requiredBillingColumns {
		if _, ok := cols[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	serviceDateIdx, hasServiceDate := cols["Service date"]

	var records []internal.BillingLine
	currentCustomer := ""
	skipped := 0
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn("skipping unreadable billing row", "customer", currentCustomer, "error", err)
			skipped++
			continue
		}

		txDateRaw := strings.TrimSpace(cell(row, cols["Transaction date"]))
		txType := strings.ToLower(strings.TrimSpace(cell(row, cols["Transaction type"])))
		if txDateRaw == "" || strings.HasPrefix(txType, "total") {
			continue
		}

		// Invoices omit repeating the customer on continuation lines.
		customer := strings.TrimSpace(cell(row, cols["Customer"]))
		if customer != "" {
			currentCustomer = customer
		} else {
			customer = currentCustomer
		}

		invoiceDate, ok := parseDate(txDateRaw)
		if !ok {
			slog.Warn("skipping billing row with unparseable date", "customer", customer, "date", txDateRaw)
			skipped++
			continue
		}

		date := invoiceDate
		if hasServiceDate {
			if serviceDate, ok := parseDate(cell(row, serviceDateIdx)); ok {
				date = serviceDate
			}
		}

		description := cell(row, cols["Line description"])
		components := rules.ExtractServiceComponents(description)

		records = append(records, internal.BillingLine{
			Date:              date,
			InvoiceDate:       invoiceDate,
			Customer:          customer,
			District:          rules.CustomerDistrict(customer),
			Invoice:           strings.TrimSpace(cell(row, cols["Num"])),
			Service:           strings.TrimSpace(cell(row, cols["Product/Service full name"])),
			Description:       strings.TrimSpace(description),
			StudentInitials:   util.ExtractParenInitials(description),
			EvaluationNumber:  util.ExtractEvaluationNumber(description),
			ServiceType:       rules.PrimaryServiceType(components),
			ServiceComponents: components,
			ServiceBundle:     rules.ServiceBundle(components),
			Amount:            util.CleanAmount(cell(row, cols["Amount"])),
			Quantity:          util.CleanAmount(cell(row, cols["Quantity"])),
			UnitPrice:         util.CleanAmount(cell(row, cols["Sales price"])),
		})
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	total := 0.0
	minDate, maxDate := records[0].Date, records[0].Date
	for _, rec := range records {
		total += rec.Amount
		if rec.Date.Before(minDate) {
			minDate = rec.Date
		}
		if rec.Date.After(maxDate) {
			maxDate = rec.Date
		}
	}
	if total <= 0 {
		return nil, fmt.Errorf("total amount is zero or negative (%.2f) - possible data processing error", total)
	}

	slog.Info("processed billing export",
		"records", len(records),
		"skipped", skipped,
		"total", total,
		"from", minDate.Format("2006-01-02"),
		"to", maxDate.Format("2006-01-02"))

	return records, nil
}
