package gtfs

import (
	"fmt"

	"github.com/datasciencecampus/assess-gtfs/constants"
)

// DropTrips returns a new feed with the named trips removed, cascading the
// removal to routes, calendars, shapes and transfers that no surviving
// trip justifies. Stops are left in place. Unknown trip IDs are an error.
func DropTrips(feed *Feed, tripIDs []string) (*Feed, *FilterSummary, error) {
	drop := make(map[string]bool, len(tripIDs))
	for _, id := range tripIDs {
		if _, ok := feed.TripByID(id); !ok {
			return nil, nil, fmt.Errorf("no trip with trip_id %q in feed", id)
		}
		drop[id] = true
	}
	keepTrip := func(trip *ScheduledTrip) bool {
		return !drop[trip.ID]
	}
	filtered, summary := applyFilter(feed, nil, keepTrip)
	return filtered, summary, nil
}

// CleanFastTravel validates the feed's implied travel speeds and returns a
// new feed with every flagged trip removed, alongside the findings that
// triggered the removals.
func CleanFastTravel(feed *Feed, opts ValidateOptions) (*Feed, *Report) {
	report := NewReport()
	if opts.MaxSpeedKPH == nil {
		opts.MaxSpeedKPH = DefaultMaxSpeedKPH()
	}
	validateFastTravel(feed, opts, report)

	drop := map[string]bool{}
	for _, finding := range report.Findings {
		if finding.Table == constants.TripsTable || finding.Table == constants.StopTimesTable {
			drop[finding.EntityID] = true
		}
	}
	if len(drop) == 0 {
		return feed, report
	}
	keepTrip := func(trip *ScheduledTrip) bool {
		return !drop[trip.ID]
	}
	cleaned, summary := applyFilter(feed, nil, keepTrip)
	summary.AddToReport(report)
	return cleaned, report
}
