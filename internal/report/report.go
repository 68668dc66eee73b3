package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/joelilypad/analysis/internal"
	"github.com/joelilypad/analysis/internal/config"
)

type MonthlyCost struct {
	Month string
	Cost  float64
}

// MonthlyCostSummary groups time entries by calendar month and sums their
// estimated cost at each psychologist's hourly rate.
func MonthlyCostSummary(entries []internal.TimeEntry, cfg config.Config) []MonthlyCost {
	byMonth := map[string]float64{}
	for _, e := range entries {
		byMonth[e.Month()] += e.EstimatedHours * cfg.HourlyRate(firstName(e.Psychologist))
	}

	out := make([]MonthlyCost, 0, len(byMonth))
	for month, cost := range byMonth {
		out = append(out, MonthlyCost{Month: month, Cost: cost})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

type CaseSummary struct {
	CaseID          string
	StudentInitials string
	District        string
	EstimatedHours  float64
	EstimatedCost   float64
	Psychologists   string
	StartDate       time.Time
	EndDate         time.Time
	Revenue         float64
	Profit          float64
}

// CaseFinancialReport rolls time entries up to cases (initials + district),
// prices the hours at psychologist rates, and sets revenue from the district's
// flat per-case fee. Districts with no fee on file get zero revenue, so their
// profit shows the full cost as a loss rather than hiding the case.
func CaseFinancialReport(entries []internal.TimeEntry, cfg config.Config) []CaseSummary {
	type acc struct {
		summary CaseSummary
		psychs  map[string]struct{}
	}
	byCase := map[string]*acc{}

	for _, e := range entries {
		id := e.CaseID()
		a, ok := byCase[id]
		if !ok {
			a = &acc{
				summary: CaseSummary{
					CaseID:          id,
					StudentInitials: derefOr(e.StudentInitials, ""),
					District:        derefOr(e.District, ""),
					StartDate:       e.Date,
					EndDate:         e.Date,
				},
				psychs: map[string]struct{}{},
			}
			byCase[id] = a
		}
		a.summary.EstimatedHours += e.EstimatedHours
		a.summary.EstimatedCost += e.EstimatedHours * cfg.HourlyRate(firstName(e.Psychologist))
		if e.Psychologist != "" {
			a.psychs[e.Psychologist] = struct{}{}
		}
		if e.Date.Before(a.summary.StartDate) {
			a.summary.StartDate = e.Date
		}
		if e.Date.After(a.summary.EndDate) {
			a.summary.EndDate = e.Date
		}
	}

	out := make([]CaseSummary, 0, len(byCase))
	for _, a := range byCase {
		names := make([]string, 0, len(a.psychs))
		for name := range a.psychs {
			names = append(names, name)
		}
		sort.Strings(names)
		a.summary.Psychologists = strings.Join(names, ", ")
		a.summary.Revenue = cfg.DistrictFee(a.summary.District)
		a.summary.Profit = a.summary.Revenue - a.summary.EstimatedCost
		out = append(out, a.summary)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CaseID < out[j].CaseID })
	return out
}

type PivotRow struct {
	StudentInitials string
	District        string
	Psychologist    string
	TaskHours       map[string]float64
	TotalHours      float64
}

type TaskPivot struct {
	Tasks []string
	Rows  []PivotRow
}

// StudentTaskBreakdown pivots hours by (student, district, psychologist) rows
// against canonical task columns, zero-filled, with a trailing total. Entries
// with no student initials or no standardized task are excluded.
func StudentTaskBreakdown(entries []internal.TimeEntry) TaskPivot {
	type key struct{ initials, district, psych string }
	byRow := map[key]map[string]float64{}
	taskSet := map[string]struct{}{}

	for _, e := range entries {
		if e.StudentInitials == nil || *e.StudentInitials == "" || e.StandardizedTask == nil {
			continue
		}
		k := key{*e.StudentInitials, derefOr(e.District, ""), e.Psychologist}
		if byRow[k] == nil {
			byRow[k] = map[string]float64{}
		}
		byRow[k][*e.StandardizedTask] += e.EstimatedHours
		taskSet[*e.StandardizedTask] = struct{}{}
	}

	tasks := make([]string, 0, len(taskSet))
	for t := range taskSet {
		tasks = append(tasks, t)
	}
	sort.Strings(tasks)

	rows := make([]PivotRow, 0, len(byRow))
	for k, hours := range byRow {
		row := PivotRow{
			StudentInitials: k.initials,
			District:        k.district,
			Psychologist:    k.psych,
			TaskHours:       map[string]float64{},
		}
		for _, t := range tasks {
			row.TaskHours[t] = hours[t]
			row.TotalHours += hours[t]
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.StudentInitials != b.StudentInitials {
			return a.StudentInitials < b.StudentInitials
		}
		if a.District != b.District {
			return a.District < b.District
		}
		return a.Psychologist < b.Psychologist
	})

	return TaskPivot{Tasks: tasks, Rows: rows}
}

type GroupedMonthly struct {
	Groups []string
	Months []string
	// Values is group -> month -> value, zero when absent.
	Values map[string]map[string]float64
	Totals map[string]float64
}

// RevenueSummary sums billed amounts by district and month, with a per-month
// total row appended the way the source spreadsheets carried one.
func RevenueSummary(records []internal.BillingLine) GroupedMonthly {
	out := GroupedMonthly{Values: map[string]map[string]float64{}, Totals: map[string]float64{}}
	groupSet := map[string]struct{}{}
	monthSet := map[string]struct{}{}

	for _, b := range records {
		month := b.Month()
		if out.Values[b.District] == nil {
			out.Values[b.District] = map[string]float64{}
		}
		out.Values[b.District][month] += b.Amount
		out.Totals[month] += b.Amount
		groupSet[b.District] = struct{}{}
		monthSet[month] = struct{}{}
	}

	out.Groups = sortedKeys(groupSet)
	out.Months = sortedKeys(monthSet)
	return out
}

// EvaluationCounts counts distinct evaluation numbers by district and month
// over lines whose service type is an evaluation.
func EvaluationCounts(records []internal.BillingLine) GroupedMonthly {
	type cellKey struct{ district, month string }
	distinct := map[cellKey]map[string]struct{}{}
	groupSet := map[string]struct{}{}
	monthSet := map[string]struct{}{}

	for _, b := range records {
		if b.ServiceType == nil || !strings.Contains(*b.ServiceType, "Evaluation") {
			continue
		}
		if b.EvaluationNumber == nil {
			continue
		}
		k := cellKey{b.District, b.Month()}
		if distinct[k] == nil {
			distinct[k] = map[string]struct{}{}
		}
		distinct[k][*b.EvaluationNumber] = struct{}{}
		groupSet[b.District] = struct{}{}
		monthSet[b.Month()] = struct{}{}
	}

	out := GroupedMonthly{Values: map[string]map[string]float64{}, Totals: map[string]float64{}}
	for k, nums := range distinct {
		if out.Values[k.district] == nil {
			out.Values[k.district] = map[string]float64{}
		}
		out.Values[k.district][k.month] = float64(len(nums))
		out.Totals[k.month] += float64(len(nums))
	}
	out.Groups = sortedKeys(groupSet)
	out.Months = sortedKeys(monthSet)
	return out
}

type BundleSummary struct {
	ServiceBundle    string
	District         string
	TotalRevenue     float64
	AverageRevenue   float64
	TransactionCount int
	StudentCount     int
}

// ServiceBundleAnalysis aggregates revenue per (bundle, district) pair.
func ServiceBundleAnalysis(records []internal.BillingLine) []BundleSummary {
	type key struct{ bundle, district string }
	type acc struct {
		total    float64
		count    int
		students map[string]struct{}
	}
	byKey := map[key]*acc{}

	for _, b := range records {
		k := key{b.ServiceBundle, b.District}
		a, ok := byKey[k]
		if !ok {
			a = &acc{students: map[string]struct{}{}}
			byKey[k] = a
		}
		a.total += b.Amount
		a.count++
		if b.StudentInitials != nil {
			a.students[*b.StudentInitials] = struct{}{}
		}
	}

	out := make([]BundleSummary, 0, len(byKey))
	for k, a := range byKey {
		out = append(out, BundleSummary{
			ServiceBundle:    k.bundle,
			District:         k.district,
			TotalRevenue:     round2(a.total),
			AverageRevenue:   round2(a.total / float64(a.count)),
			TransactionCount: a.count,
			StudentCount:     len(a.students),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ServiceBundle != out[j].ServiceBundle {
			return out[i].ServiceBundle < out[j].ServiceBundle
		}
		return out[i].District < out[j].District
	})
	return out
}

func firstName(full string) string {
	fields := strings.Fields(full)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func derefOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
