package gtfs

import (
	"fmt"

	"github.com/datasciencecampus/assess-gtfs/constants"
)

// Severity classifies a finding. Errors block network building in
// connectivity-asserting mode; warnings and informational findings do not.
type Severity string

const (
	SeverityError   Severity = "ERROR"
	SeverityWarning Severity = "WARNING"
	SeverityInfo    Severity = "INFO"
)

// Finding is a single data-quality observation about a feed.
type Finding struct {
	Severity Severity        `json:"severity"`
	Table    constants.Table `json:"table"`
	EntityID string          `json:"entity_id,omitempty"`
	Message  string          `json:"message"`
	// Feed names the source feed. Populated only by multi-feed validation.
	Feed string `json:"feed,omitempty"`
}

func (f Finding) String() string {
	s := fmt.Sprintf("%s %s", f.Severity, f.Table)
	if f.Feed != "" {
		s = fmt.Sprintf("%s [%s] %s", f.Severity, f.Feed, f.Table)
	}
	if f.EntityID != "" {
		s += fmt.Sprintf(" %q", f.EntityID)
	}
	return s + ": " + f.Message
}

// Report accumulates findings from validation and filtering. It is the only
// way data-quality problems are surfaced: the validator never fails on them.
//
// The zero value is ready to use. A Report is not safe for concurrent
// mutation; pass one report through a single validation pass.
type Report struct {
	Findings []Finding `json:"findings"`
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{}
}

// Add appends a finding, preserving insertion order.
func (r *Report) Add(severity Severity, table constants.Table, entityID, message string) {
	r.Findings = append(r.Findings, Finding{
		Severity: severity,
		Table:    table,
		EntityID: entityID,
		Message:  message,
	})
}

// Merge appends all findings from other.
func (r *Report) Merge(other *Report) {
	r.Findings = append(r.Findings, other.Findings...)
}

// Errors returns the findings with severity ERROR.
func (r *Report) Errors() []Finding {
	return r.filter(SeverityError)
}

// Warnings returns the findings with severity WARNING.
func (r *Report) Warnings() []Finding {
	return r.filter(SeverityWarning)
}

func (r *Report) filter(severity Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == severity {
			out = append(out, f)
		}
	}
	return out
}

// HasErrors reports whether any finding has severity ERROR.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// CountBySeverity returns the number of findings per severity.
func (r *Report) CountBySeverity() map[Severity]int {
	counts := map[Severity]int{}
	for _, f := range r.Findings {
		counts[f.Severity]++
	}
	return counts
}

// FilterSummary records, per table, how many records a filter removed and
// how many remain.
type FilterSummary struct {
	Removed   map[constants.Table]int `json:"removed"`
	Remaining map[constants.Table]int `json:"remaining"`
}

func newFilterSummary() *FilterSummary {
	return &FilterSummary{
		Removed:   map[constants.Table]int{},
		Remaining: map[constants.Table]int{},
	}
}

func (s *FilterSummary) record(table constants.Table, before, after int) {
	s.Removed[table] += before - after
	s.Remaining[table] = after
}

// AddToReport folds the summary into a report as informational findings,
// one per table that lost records.
func (s *FilterSummary) AddToReport(r *Report) {
	for _, table := range []constants.Table{
		constants.AgencyTable,
		constants.StopsTable,
		constants.StopTimesTable,
		constants.TripsTable,
		constants.RoutesTable,
		constants.CalendarTable,
		constants.ShapesTable,
		constants.TransfersTable,
	} {
		removed, ok := s.Removed[table]
		if !ok || removed == 0 {
			continue
		}
		r.Add(SeverityInfo, table, "", fmt.Sprintf("filter removed %d records, %d remain", removed, s.Remaining[table]))
	}
}
