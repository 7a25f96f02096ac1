package gtfs

import (
	"sort"
	"time"
)

// SummaryRow aggregates daily counts for one weekday and route type over
// the feed's service span.
type SummaryRow struct {
	Weekday   time.Weekday `json:"weekday"`
	RouteType RouteType    `json:"route_type"`
	Min       int          `json:"min"`
	Max       int          `json:"max"`
	Mean      float64      `json:"mean"`
	Median    float64      `json:"median"`
}

// SummariseTrips counts the trips active on each date of the feed's
// service span, split by route type, and aggregates the daily counts per
// weekday. Rows are sorted by weekday (Sunday first) then route type.
func SummariseTrips(feed *Feed) []SummaryRow {
	return summarise(feed, func(date time.Time, counts map[RouteType]int) {
		for i := range feed.Trips {
			trip := &feed.Trips[i]
			if trip.Service == nil || !trip.Service.ActiveOn(date) {
				continue
			}
			counts[tripRouteType(trip)]++
		}
	})
}

// SummariseRoutes is SummariseTrips for distinct routes: a route counts
// towards a date when at least one of its trips is active.
func SummariseRoutes(feed *Feed) []SummaryRow {
	return summarise(feed, func(date time.Time, counts map[RouteType]int) {
		seen := map[string]bool{}
		for i := range feed.Trips {
			trip := &feed.Trips[i]
			if trip.Service == nil || !trip.Service.ActiveOn(date) {
				continue
			}
			if trip.Route == nil || seen[trip.RouteID] {
				continue
			}
			seen[trip.RouteID] = true
			counts[trip.Route.Type]++
		}
	})
}

func tripRouteType(trip *ScheduledTrip) RouteType {
	if trip.Route == nil {
		return RouteType_Unknown
	}
	return trip.Route.Type
}

func summarise(feed *Feed, countOn func(time.Time, map[RouteType]int)) []SummaryRow {
	start, end, ok := feed.ServiceDateRange()
	if !ok {
		return nil
	}

	// Route types present in the feed. Every one gets a count on every
	// date, zero included, so quiet days pull the statistics down.
	present := map[RouteType]bool{}
	for i := range feed.Routes {
		present[feed.Routes[i].Type] = true
	}
	for i := range feed.Trips {
		if feed.Trips[i].Route == nil {
			present[RouteType_Unknown] = true
		}
	}

	type key struct {
		weekday   time.Weekday
		routeType RouteType
	}
	samples := map[key][]int{}
	for date := start; !date.After(end); date = date.AddDate(0, 0, 1) {
		counts := map[RouteType]int{}
		countOn(date, counts)
		for routeType := range present {
			k := key{weekday: date.Weekday(), routeType: routeType}
			samples[k] = append(samples[k], counts[routeType])
		}
	}

	var rows []SummaryRow
	for k, values := range samples {
		rows = append(rows, SummaryRow{
			Weekday:   k.weekday,
			RouteType: k.routeType,
			Min:       minInt(values),
			Max:       maxInt(values),
			Mean:      meanInt(values),
			Median:    medianInt(values),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Weekday != rows[j].Weekday {
			return rows[i].Weekday < rows[j].Weekday
		}
		return rows[i].RouteType < rows[j].RouteType
	})
	return rows
}

func minInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxInt(values []int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func meanInt(values []int) float64 {
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

func medianInt(values []int) float64 {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// RouteModeSummary describes how often one mode of transport appears in
// the feed's routes.
type RouteModeSummary struct {
	RouteType   RouteType `json:"route_type"`
	Description string    `json:"description"`
	Count       int       `json:"count"`
	Proportion  float64   `json:"proportion"`
}

// Descriptions from the GTFS reference for routes.txt.
var routeTypeDescriptions = map[RouteType]string{
	RouteType_Tram:       "Tram, Streetcar, Light rail",
	RouteType_Subway:     "Subway, Metro",
	RouteType_Rail:       "Rail",
	RouteType_Bus:        "Bus",
	RouteType_Ferry:      "Ferry",
	RouteType_CableTram:  "Cable tram",
	RouteType_AerialLift: "Aerial lift, suspended cable car",
	RouteType_Funicular:  "Funicular",
	RouteType_TrolleyBus: "Trolleybus",
	RouteType_Monorail:   "Monorail",
}

// RouteModes tallies the feed's routes by mode of transport, with each
// mode's share of all routes. Rows are sorted by route type.
func RouteModes(feed *Feed) []RouteModeSummary {
	counts := map[RouteType]int{}
	for i := range feed.Routes {
		counts[feed.Routes[i].Type]++
	}
	var rows []RouteModeSummary
	for routeType, count := range counts {
		description, ok := routeTypeDescriptions[routeType]
		if !ok {
			description = "Unknown"
		}
		rows = append(rows, RouteModeSummary{
			RouteType:   routeType,
			Description: description,
			Count:       count,
			Proportion:  float64(count) / float64(len(feed.Routes)),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].RouteType < rows[j].RouteType })
	return rows
}
