package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/joelilypad/analysis/internal/rules"
)

const billingFixture = `Lilypad Psychological Services
Sales by Customer Detail
January 2025
,,,,,,,,,
Transaction date,Transaction type,Num,Customer,Service date,Product/Service full name,Line description,Amount,Quantity,Sales price
1/15/2025,Invoice,1001,Lawrence Public Schools,1/10/2025,Evaluation Services,Psychoeducational Evaluation #46 (TR),"$1,200.00",1,"$1,200.00"
1/15/2025,Invoice,1001,,1/11/2025,Evaluation Services,Spanish Bilingual Psychoeducational Evaluation #45 (MK),"$1,350.00",1,"$1,350.00"
1/15/2025,Total for Lawrence Public Schools,,,,,,"$2,550.00",,
,,,,,,,,,
1/16/2025,Invoice,1002,Narnia Academy,,Consulting,Remote set-up fee,$500.00,1,$500.00
`

func TestParseBilling(t *testing.T) {
	records, err := ParseBilling(billingFixture)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records: %+v", len(records), records)
	}

	first := records[0]
	if first.Customer != "Lawrence Public Schools" || first.District != "Lawrence" {
		t.Fatalf("customer = %q district = %q", first.Customer, first.District)
	}
	if first.Date.Format("2006-01-02") != "2025-01-10" {
		t.Fatalf("service date = %v", first.Date)
	}
	if first.InvoiceDate.Format("2006-01-02") != "2025-01-15" {
		t.Fatalf("invoice date = %v", first.InvoiceDate)
	}
	if first.Amount != 1200 {
		t.Fatalf("amount = %v", first.Amount)
	}
	if first.EvaluationNumber == nil || *first.EvaluationNumber != "46" {
		t.Fatalf("eval number = %v", first.EvaluationNumber)
	}
	if first.StudentInitials == nil || *first.StudentInitials != "TR" {
		t.Fatalf("initials = %v", first.StudentInitials)
	}
	if first.ServiceType == nil || *first.ServiceType != rules.FullEvaluation {
		t.Fatalf("service type = %v", first.ServiceType)
	}

	// The customer column is blank on continuation lines and carries forward.
	second := records[1]
	if second.Customer != "Lawrence Public Schools" {
		t.Fatalf("carried customer = %q", second.Customer)
	}
	if second.ServiceType == nil || *second.ServiceType != rules.SpanishEvaluation {
		t.Fatalf("service type = %v", second.ServiceType)
	}
	if second.ServiceBundle != rules.SpanishEvaluation {
		t.Fatalf("bundle = %q", second.ServiceBundle)
	}

	third := records[2]
	if third.District != "Narnia Academy" {
		t.Fatalf("unmapped district = %q", third.District)
	}
	if third.Date != third.InvoiceDate {
		t.Fatalf("blank service date should fall back to invoice date")
	}
	if third.ServiceType == nil || *third.ServiceType != rules.SetupFee {
		t.Fatalf("service type = %v", third.ServiceType)
	}
}

func TestParseBillingNoHeader(t *testing.T) {
	_, err := ParseBilling("just,some,csv\n1,2,3\n")
	if !errors.Is(err, ErrNoHeader) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseBillingMissingColumns(t *testing.T) {
	content := "Transaction date,Transaction type,Num,Customer,Line description\n" +
		"1/15/2025,Invoice,1001,Lawrence Public Schools,Evaluation #1\n"
	_, err := ParseBilling(content)
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Fatalf("err = %v", err)
	}
	for _, col := range []string{"Amount", "Quantity", "Sales price"} {
		found := false
		for _, m := range schemaErr.Missing {
			if m == col {
				found = true
			}
		}
		if !found {
			t.Fatalf("missing columns %v do not include %q", schemaErr.Missing, col)
		}
	}
}

func TestParseBillingNoRecords(t *testing.T) {
	content := "Transaction date,Transaction type,Num,Customer,Product/Service full name,Line description,Amount,Quantity,Sales price\n" +
		",Total,,,,,\"$2,550.00\",,\n"
	_, err := ParseBilling(content)
	if !errors.Is(err, ErrNoRecords) {
		t.Fatalf("err = %v", err)
	}
}

func TestParseBillingNonPositiveTotal(t *testing.T) {
	content := "Transaction date,Transaction type,Num,Customer,Product/Service full name,Line description,Amount,Quantity,Sales price\n" +
		"1/15/2025,Credit Memo,1001,Lawrence Public Schools,Evaluation Services,Refund,-100,1,-100\n"
	_, err := ParseBilling(content)
	if err == nil || !strings.Contains(err.Error(), "total amount is zero or negative") {
		t.Fatalf("err = %v", err)
	}
}
