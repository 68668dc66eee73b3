package internal

import (
	"fmt"
	"time"
)

type SourceKind string

const (
	SourceTimesheet SourceKind = "timesheet"
	SourceBilling   SourceKind = "billing"
)

// TimeEntry is one slice of a psychologist's working time attributed to at most
// one case. Entries are produced by exploding one raw Hours/Notes column pair
// and are immutable once emitted.
type TimeEntry struct {
	Date             time.Time
	Psychologist     string
	TimeRange        string
	EstimatedHours   float64
	Note             string
	StudentInitials  *string
	District         *string
	Task             *string
	StandardizedTask *string
	TaskCategory     string
}

// BillingLine is one invoice line from the sales export.
type BillingLine struct {
	Date              time.Time
	InvoiceDate       time.Time
	Customer          string
	District          string
	Invoice           string
	Service           string
	Description       string
	StudentInitials   *string
	EvaluationNumber  *string
	ServiceType       *string
	ServiceComponents []string
	ServiceBundle     string
	Amount            float64
	Quantity          float64
	UnitPrice         float64
}

func (e TimeEntry) Month() string { return e.Date.Format("2006-01") }
func (e TimeEntry) Week() string  { return ISOWeek(e.Date) }

func (b BillingLine) Month() string        { return b.Date.Format("2006-01") }
func (b BillingLine) Week() string         { return ISOWeek(b.Date) }
func (b BillingLine) InvoiceMonth() string { return b.InvoiceDate.Format("2006-01") }

func ISOWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// CaseID is the operational case key. Initials may collide across students at
// different sites in the same period; the pair with District is the only key
// the time-tracking source provides.
func (e TimeEntry) CaseID() string {
	initials := ""
	if e.StudentInitials != nil {
		initials = *e.StudentInitials
	}
	district := ""
	if e.District != nil {
		district = *e.District
	}
	return initials + " | " + district
}
