package gtfs

import (
	"errors"
	"fmt"
	"time"
)

// MultiFeed holds several named feeds, typically the archives covering
// adjacent regions, and applies validation and filtering to all of them
// at once.
type MultiFeed struct {
	names []string
	feeds []*Feed
}

// NewMultiFeed builds a MultiFeed. Names and feeds are parallel; duplicate
// names are an error.
func NewMultiFeed(names []string, feeds []*Feed) (*MultiFeed, error) {
	if len(names) != len(feeds) {
		return nil, fmt.Errorf("got %d names for %d feeds", len(names), len(feeds))
	}
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("duplicate feed name %q", name)
		}
		seen[name] = true
	}
	return &MultiFeed{
		names: append([]string(nil), names...),
		feeds: append([]*Feed(nil), feeds...),
	}, nil
}

// Names returns the feed names in order.
func (m *MultiFeed) Names() []string {
	return append([]string(nil), m.names...)
}

// Feed returns the feed with the given name.
func (m *MultiFeed) Feed(name string) (*Feed, bool) {
	for i, n := range m.names {
		if n == name {
			return m.feeds[i], true
		}
	}
	return nil, false
}

// ValidateAll validates every feed and merges the findings into one
// report, with each finding tagged by its feed's name.
func (m *MultiFeed) ValidateAll(opts ValidateOptions) *Report {
	merged := NewReport()
	for i, feed := range m.feeds {
		report := Validate(feed, opts)
		for _, finding := range report.Findings {
			finding.Feed = m.names[i]
			merged.Findings = append(merged.Findings, finding)
		}
	}
	return merged
}

// FilterByBoundingBox applies the bounding box filter to every feed and
// returns a new MultiFeed of the results.
func (m *MultiFeed) FilterByBoundingBox(bbox BoundingBox) (*MultiFeed, error) {
	return m.filter(func(feed *Feed) (*Feed, *FilterSummary, error) {
		return FilterByBoundingBox(feed, bbox)
	})
}

// FilterByDate applies the date filter to every feed and returns a new
// MultiFeed of the results. A feed whose service span does not cover the
// date is reduced to an empty feed rather than failing the whole set.
func (m *MultiFeed) FilterByDate(date time.Time) (*MultiFeed, error) {
	return m.filter(func(feed *Feed) (*Feed, *FilterSummary, error) {
		filtered, summary, err := FilterByDate(feed, date)
		var dateErr *InvalidDateError
		if errors.As(err, &dateErr) && dateErr.Input != "" {
			keepNone := func(*ScheduledTrip) bool { return false }
			emptied, emptySummary := applyFilter(feed, nil, keepNone)
			return emptied, emptySummary, nil
		}
		return filtered, summary, err
	})
}

func (m *MultiFeed) filter(apply func(*Feed) (*Feed, *FilterSummary, error)) (*MultiFeed, error) {
	filtered := make([]*Feed, len(m.feeds))
	for i, feed := range m.feeds {
		out, _, err := apply(feed)
		if err != nil {
			return nil, fmt.Errorf("filtering feed %q: %w", m.names[i], err)
		}
		filtered[i] = out
	}
	return &MultiFeed{names: append([]string(nil), m.names...), feeds: filtered}, nil
}

// EmptyFeedNames returns the names of feeds left with no trips, in order.
// Filtering a regional set often empties the feeds outside the region of
// interest; callers can drop or flag them.
func (m *MultiFeed) EmptyFeedNames() []string {
	var names []string
	for i, feed := range m.feeds {
		if len(feed.Trips) == 0 {
			names = append(names, m.names[i])
		}
	}
	return names
}

// SummariseTrips aggregates the per-feed daily trip counts into one
// summary, as if the feeds were a single feed.
func (m *MultiFeed) SummariseTrips() []SummaryRow {
	combined := &Feed{}
	for _, feed := range m.feeds {
		combined.Routes = append(combined.Routes, feed.Routes...)
		combined.Services = append(combined.Services, feed.Services...)
		combined.Trips = append(combined.Trips, feed.Trips...)
	}
	return SummariseTrips(combined)
}
