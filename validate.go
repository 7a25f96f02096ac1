package gtfs

import (
	"fmt"
	"math"
	"time"

	"github.com/datasciencecampus/assess-gtfs/constants"
)

// ValidateOptions tunes the validation pass. The zero value runs every
// check with the default speed limits and the current time.
type ValidateOptions struct {
	// Now anchors the feed expiry check. Zero means time.Now().
	Now time.Time
	// MaxSpeedKPH caps the implied travel speed per route type for the
	// fast-travel checks. Nil means DefaultMaxSpeedKPH().
	MaxSpeedKPH map[RouteType]float64
	// DuplicateStopPrecision is the number of decimal places to which stop
	// coordinates are rounded when looking for duplicated stops. Zero means
	// 5 places, roughly one meter.
	DuplicateStopPrecision int
	// ExpiryHorizon warns about feeds expiring within the horizon, not
	// only feeds already expired.
	ExpiryHorizon time.Duration
}

// DefaultMaxSpeedKPH returns the default fast-travel speed limits in km/h
// per route type.
func DefaultMaxSpeedKPH() map[RouteType]float64 {
	return map[RouteType]float64{
		RouteType_Tram:       100,
		RouteType_Subway:     120,
		RouteType_Rail:       300,
		RouteType_Bus:        150,
		RouteType_Ferry:      80,
		RouteType_CableTram:  30,
		RouteType_AerialLift: 50,
		RouteType_Funicular:  50,
		RouteType_TrolleyBus: 150,
		RouteType_Monorail:   120,
		RouteType_Unknown:    200,
	}
}

// Validate checks the referential and temporal consistency of the feed.
//
// Data-quality problems never cause a failure: every check runs and appends
// its findings to the returned report independently, so one pass surfaces
// every problem. Only ParseStatic can fail, on structural malformation.
func Validate(feed *Feed, opts ValidateOptions) *Report {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if opts.MaxSpeedKPH == nil {
		opts.MaxSpeedKPH = DefaultMaxSpeedKPH()
	}
	if opts.DuplicateStopPrecision == 0 {
		opts.DuplicateStopPrecision = 5
	}
	report := NewReport()
	validateReferences(feed, report)
	validateStopCoordinates(feed, report)
	validateStopTimeOrder(feed, report)
	validateDuplicateStops(feed, opts, report)
	validateExpiry(feed, opts, report)
	validateFastTravel(feed, opts, report)
	return report
}

func validateReferences(feed *Feed, report *Report) {
	for i := range feed.Routes {
		route := &feed.Routes[i]
		if route.Agency == nil {
			report.Add(SeverityError, constants.RoutesTable, route.Id,
				fmt.Sprintf("agency_id %q does not resolve to an agency", route.AgencyID))
		}
	}
	for i := range feed.Stops {
		stop := &feed.Stops[i]
		if stop.ParentID != "" && stop.Parent == nil {
			report.Add(SeverityError, constants.StopsTable, stop.Id,
				fmt.Sprintf("parent_station %q does not resolve to a stop", stop.ParentID))
		}
	}
	for i := range feed.Transfers {
		transfer := &feed.Transfers[i]
		if transfer.From == nil {
			report.Add(SeverityError, constants.TransfersTable, transfer.FromStopID,
				fmt.Sprintf("from_stop_id %q does not resolve to a stop", transfer.FromStopID))
		}
		if transfer.To == nil {
			report.Add(SeverityError, constants.TransfersTable, transfer.ToStopID,
				fmt.Sprintf("to_stop_id %q does not resolve to a stop", transfer.ToStopID))
		}
	}
	for i := range feed.Trips {
		trip := &feed.Trips[i]
		if trip.Route == nil {
			report.Add(SeverityError, constants.TripsTable, trip.ID,
				fmt.Sprintf("route_id %q does not resolve to a route", trip.RouteID))
		}
		if trip.Service == nil {
			report.Add(SeverityError, constants.TripsTable, trip.ID,
				fmt.Sprintf("service_id %q does not resolve to a calendar entry", trip.ServiceID))
		}
		if trip.ShapeID != "" && trip.Shape == nil {
			report.Add(SeverityError, constants.TripsTable, trip.ID,
				fmt.Sprintf("shape_id %q does not resolve to a shape", trip.ShapeID))
		}
		for j := range trip.StopTimes {
			stopTime := &trip.StopTimes[j]
			if stopTime.Stop == nil {
				report.Add(SeverityError, constants.StopTimesTable, trip.ID,
					fmt.Sprintf("stop_id %q at stop_sequence %d does not resolve to a stop", stopTime.StopID, stopTime.StopSequence))
			}
		}
	}
}

func validateStopCoordinates(feed *Feed, report *Report) {
	for i := range feed.Stops {
		stop := &feed.Stops[i]
		if stop.Latitude != nil && (*stop.Latitude < -90 || *stop.Latitude > 90) {
			report.Add(SeverityError, constants.StopsTable, stop.Id,
				fmt.Sprintf("latitude %v is outside [-90, 90]", *stop.Latitude))
		}
		if stop.Longitude != nil && (*stop.Longitude < -180 || *stop.Longitude > 180) {
			report.Add(SeverityError, constants.StopsTable, stop.Id,
				fmt.Sprintf("longitude %v is outside [-180, 180]", *stop.Longitude))
		}
	}
}

// validateStopTimeOrder checks that within each trip the stop_sequence
// values strictly increase and the stop times never decrease.
func validateStopTimeOrder(feed *Feed, report *Report) {
	for i := range feed.Trips {
		trip := &feed.Trips[i]
		for j := range trip.StopTimes {
			current := &trip.StopTimes[j]
			if current.ArrivalTime >= 0 && current.DepartureTime >= 0 && current.DepartureTime < current.ArrivalTime {
				report.Add(SeverityError, constants.StopTimesTable, trip.ID,
					fmt.Sprintf("departure before arrival at stop_sequence %d", current.StopSequence))
			}
			if j == 0 {
				continue
			}
			previous := &trip.StopTimes[j-1]
			if current.StopSequence <= previous.StopSequence {
				report.Add(SeverityError, constants.StopTimesTable, trip.ID,
					fmt.Sprintf("stop_sequence %d does not increase after %d", current.StopSequence, previous.StopSequence))
			}
			if current.ArrivalTime >= 0 && previous.DepartureTime >= 0 && current.ArrivalTime < previous.DepartureTime {
				report.Add(SeverityError, constants.StopTimesTable, trip.ID,
					fmt.Sprintf("arrival at stop_sequence %d is before the previous departure", current.StopSequence))
			}
		}
	}
}

// validateDuplicateStops warns about stops sharing a name and effectively
// identical coordinates. They are reported, never merged.
func validateDuplicateStops(feed *Feed, opts ValidateOptions, report *Report) {
	scale := math.Pow(10, float64(opts.DuplicateStopPrecision))
	type key struct {
		name     string
		lat, lon int64
	}
	seen := map[key]string{}
	for i := range feed.Stops {
		stop := &feed.Stops[i]
		if !stop.HasLocation() {
			continue
		}
		k := key{
			name: stop.Name,
			lat:  int64(math.Round(*stop.Latitude * scale)),
			lon:  int64(math.Round(*stop.Longitude * scale)),
		}
		if firstID, ok := seen[k]; ok {
			report.Add(SeverityWarning, constants.StopsTable, stop.Id,
				fmt.Sprintf("duplicate of stop %q: same name and coordinates", firstID))
			continue
		}
		seen[k] = stop.Id
	}
}

func validateExpiry(feed *Feed, opts ValidateOptions, report *Report) {
	_, end, ok := feed.ServiceDateRange()
	if !ok {
		return
	}
	today := opts.Now.Truncate(24 * time.Hour)
	if end.Before(today) {
		report.Add(SeverityWarning, constants.CalendarTable, "", "Feed expired")
		return
	}
	if opts.ExpiryHorizon > 0 && end.Before(today.Add(opts.ExpiryHorizon)) {
		report.Add(SeverityWarning, constants.CalendarTable, "",
			fmt.Sprintf("Feed expires on %s", end.Format("20060102")))
	}
}

// validateFastTravel flags trips whose scheduled times imply an impossible
// speed, both between consecutive stops and over the trip's full stop span.
func validateFastTravel(feed *Feed, opts ValidateOptions, report *Report) {
	for i := range feed.Trips {
		trip := &feed.Trips[i]
		limit := opts.MaxSpeedKPH[RouteType_Unknown]
		if trip.Route != nil {
			if l, ok := opts.MaxSpeedKPH[trip.Route.Type]; ok {
				limit = l
			}
		}
		if limit <= 0 {
			continue
		}
		var totalKM float64
		var totalTime time.Duration
		flaggedConsecutive := false
		for j := 1; j < len(trip.StopTimes); j++ {
			from := &trip.StopTimes[j-1]
			to := &trip.StopTimes[j]
			if from.Stop == nil || to.Stop == nil || !from.Stop.HasLocation() || !to.Stop.HasLocation() {
				continue
			}
			if from.DepartureTime < 0 || to.ArrivalTime < 0 || to.ArrivalTime <= from.DepartureTime {
				continue
			}
			km := haversineKM(*from.Stop.Latitude, *from.Stop.Longitude, *to.Stop.Latitude, *to.Stop.Longitude)
			elapsed := to.ArrivalTime - from.DepartureTime
			totalKM += km
			totalTime += elapsed
			if !flaggedConsecutive && km/elapsed.Hours() > limit {
				report.Add(SeverityWarning, constants.StopTimesTable, trip.ID,
					fmt.Sprintf("fast travel between consecutive stops %q and %q: %.0f km/h exceeds %.0f km/h",
						from.Stop.Id, to.Stop.Id, km/elapsed.Hours(), limit))
				flaggedConsecutive = true
			}
		}
		if totalTime > 0 && totalKM/totalTime.Hours() > limit {
			report.Add(SeverityWarning, constants.TripsTable, trip.ID,
				fmt.Sprintf("fast travel over multiple stops: %.0f km/h exceeds %.0f km/h",
					totalKM/totalTime.Hours(), limit))
		}
	}
}
