package gtfs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/datasciencecampus/assess-gtfs/constants"
)

// BoundingBox is a rectangular geographic filter region in WGS84
// coordinates. Both boundaries are inclusive.
type BoundingBox struct {
	MinLon float64
	MinLat float64
	MaxLon float64
	MaxLat float64
}

// Validate returns an *InvalidBoundsError when min is not less than max on
// either axis or a bound is outside valid Earth coordinates.
func (b BoundingBox) Validate() error {
	if b.MinLon >= b.MaxLon {
		return &InvalidBoundsError{Reason: fmt.Sprintf("min longitude (%v) is not less than max longitude (%v)", b.MinLon, b.MaxLon)}
	}
	if b.MinLat >= b.MaxLat {
		return &InvalidBoundsError{Reason: fmt.Sprintf("min latitude (%v) is not less than max latitude (%v)", b.MinLat, b.MaxLat)}
	}
	if b.MinLon < -180 || b.MaxLon > 180 {
		return &InvalidBoundsError{Reason: "longitude bounds outside [-180, 180]"}
	}
	if b.MinLat < -90 || b.MaxLat > 90 {
		return &InvalidBoundsError{Reason: "latitude bounds outside [-90, 90]"}
	}
	return nil
}

// Contains reports whether the coordinate lies within the box, boundary
// included.
func (b BoundingBox) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// ParseBoundingBox parses a bounding box of the form
// "minLon,minLat,maxLon,maxLat".
func ParseBoundingBox(s string) (BoundingBox, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return BoundingBox{}, &InvalidBoundsError{Reason: fmt.Sprintf("expected 4 comma-separated bounds, found %d", len(parts))}
	}
	var values [4]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return BoundingBox{}, &InvalidBoundsError{Reason: fmt.Sprintf("bound %q is not numeric", part)}
		}
		values[i] = v
	}
	bbox := BoundingBox{MinLon: values[0], MinLat: values[1], MaxLon: values[2], MaxLat: values[3]}
	return bbox, bbox.Validate()
}

// ParseFilterDate parses a GTFS filter date of the form YYYYMMDD.
func ParseFilterDate(s string) (time.Time, error) {
	date, err := parseDate(s)
	if err != nil {
		return time.Time{}, &InvalidDateError{Input: s, Reason: "should be of the form YYYYMMDD"}
	}
	return date, nil
}

// FilterByBoundingBox returns a new feed reduced to the entities
// intersecting the bounding box.
//
// A stop survives iff its coordinates lie within the box, boundary
// included; parent stations of surviving stops are retained so no parent
// reference dangles. A trip survives iff at least one of its stop times
// references a surviving stop; stop times referencing removed stops are
// removed from surviving trips, and a trip left with fewer than two stop
// times is dropped entirely. Routes, calendars, shapes and transfers with
// no surviving justification are removed. The input feed is not modified.
func FilterByBoundingBox(feed *Feed, bbox BoundingBox) (*Feed, *FilterSummary, error) {
	if err := bbox.Validate(); err != nil {
		return nil, nil, err
	}
	keepStop := func(stop *Stop) bool {
		return stop.HasLocation() && bbox.Contains(*stop.Latitude, *stop.Longitude)
	}
	filtered, summary := applyFilter(feed, keepStop, nil)
	return filtered, summary, nil
}

// FilterByDate returns a new feed reduced to the trips whose service is
// active on the given date, with the same downward cascade as
// FilterByBoundingBox. Stops are unaffected, which makes the two filters
// commute.
//
// A date outside the feed's overall service range yields an
// *InvalidDateError before any filtering.
func FilterByDate(feed *Feed, date time.Time) (*Feed, *FilterSummary, error) {
	if date.IsZero() {
		return nil, nil, &InvalidDateError{Reason: "date is zero"}
	}
	start, end, ok := feed.ServiceDateRange()
	if ok && (date.Before(start) || date.After(end)) {
		return nil, nil, &InvalidDateError{
			Input:  date.Format("20060102"),
			Reason: fmt.Sprintf("not present in feed dates (%s to %s)", start.Format("20060102"), end.Format("20060102")),
		}
	}
	keepTrip := func(trip *ScheduledTrip) bool {
		return trip.Service != nil && trip.Service.ActiveOn(date)
	}
	filtered, summary := applyFilter(feed, nil, keepTrip)
	return filtered, summary, nil
}

// FilterAroundTrip returns a new feed reduced to the bounding box of the
// named trip's stop locations, expanded by bufferKM kilometers on each
// side.
func FilterAroundTrip(feed *Feed, tripID string, bufferKM float64) (*Feed, *FilterSummary, error) {
	trip, ok := feed.TripByID(tripID)
	if !ok {
		return nil, nil, fmt.Errorf("no trip with trip_id %q in feed", tripID)
	}
	bbox := BoundingBox{MinLon: math.Inf(1), MinLat: math.Inf(1), MaxLon: math.Inf(-1), MaxLat: math.Inf(-1)}
	located := false
	for i := range trip.StopTimes {
		stop := trip.StopTimes[i].Stop
		if stop == nil || !stop.HasLocation() {
			continue
		}
		located = true
		bbox.MinLat = math.Min(bbox.MinLat, *stop.Latitude)
		bbox.MaxLat = math.Max(bbox.MaxLat, *stop.Latitude)
		bbox.MinLon = math.Min(bbox.MinLon, *stop.Longitude)
		bbox.MaxLon = math.Max(bbox.MaxLon, *stop.Longitude)
	}
	if !located {
		return nil, nil, fmt.Errorf("trip %q has no locatable stops", tripID)
	}
	// Convert the buffer to degrees. The longitude scale shrinks with
	// latitude.
	latBuffer := bufferKM / 110.574
	midLat := (bbox.MinLat + bbox.MaxLat) / 2
	lonBuffer := bufferKM / (111.320 * math.Cos(midLat*math.Pi/180))
	bbox.MinLat -= latBuffer
	bbox.MaxLat += latBuffer
	bbox.MinLon -= lonBuffer
	bbox.MaxLon += lonBuffer
	return FilterByBoundingBox(feed, bbox)
}

// applyFilter is the shared cascade behind the filters and cleaners.
//
// GTFS foreign keys are acyclic, so a single downward dependency-ordered
// pass (stops, stop_times, trips, then routes/calendars/shapes/transfers)
// reaches the fixpoint; routes and the rest are only ever removed as a
// consequence of trip removal, never the reverse.
func applyFilter(feed *Feed, keepStop func(*Stop) bool, keepTrip func(*ScheduledTrip) bool) (*Feed, *FilterSummary) {
	summary := newFilterSummary()

	// Stops. Parents of survivors are pulled in so the hierarchy stays
	// closed.
	var keptStops map[string]bool
	if keepStop != nil {
		keptStops = map[string]bool{}
		for i := range feed.Stops {
			stop := &feed.Stops[i]
			if !keepStop(stop) {
				continue
			}
			keptStops[stop.Id] = true
			for parent := stop.Parent; parent != nil; parent = parent.Parent {
				keptStops[parent.Id] = true
			}
		}
	}
	stopSurvives := func(id string) bool {
		return keptStops == nil || keptStops[id]
	}

	// Trips and their stop times.
	type keptTrip struct {
		trip      *ScheduledTrip
		stopTimes []ScheduledStopTime
	}
	var keptTrips []keptTrip
	beforeStopTimes, afterStopTimes := 0, 0
	usedRoutes := map[string]bool{}
	usedServices := map[string]bool{}
	usedShapes := map[string]bool{}
	for i := range feed.Trips {
		trip := &feed.Trips[i]
		beforeStopTimes += len(trip.StopTimes)
		if keepTrip != nil && !keepTrip(trip) {
			continue
		}
		var stopTimes []ScheduledStopTime
		if keptStops == nil {
			stopTimes = append([]ScheduledStopTime(nil), trip.StopTimes...)
		} else {
			for j := range trip.StopTimes {
				stopTime := trip.StopTimes[j]
				if stopTime.Stop != nil && keptStops[stopTime.StopID] {
					stopTimes = append(stopTimes, stopTime)
				}
			}
		}
		// A trip needs at least a start and an end.
		if len(stopTimes) < 2 {
			continue
		}
		afterStopTimes += len(stopTimes)
		keptTrips = append(keptTrips, keptTrip{trip: trip, stopTimes: stopTimes})
		usedRoutes[trip.RouteID] = true
		usedServices[trip.ServiceID] = true
		if trip.ShapeID != "" {
			usedShapes[trip.ShapeID] = true
		}
	}

	out := &Feed{Warnings: feed.Warnings}

	// Agencies reference nothing and are carried over unchanged.
	out.Agencies = append([]Agency(nil), feed.Agencies...)
	agenciesByID := map[string]*Agency{}
	for i := range out.Agencies {
		agenciesByID[out.Agencies[i].Id] = &out.Agencies[i]
	}

	for i := range feed.Stops {
		stop := feed.Stops[i]
		if !stopSurvives(stop.Id) {
			continue
		}
		stop.Parent = nil
		out.Stops = append(out.Stops, stop)
	}
	stopsByID := map[string]*Stop{}
	for i := range out.Stops {
		stopsByID[out.Stops[i].Id] = &out.Stops[i]
	}
	for i := range out.Stops {
		stop := &out.Stops[i]
		if stop.ParentID != "" {
			stop.Parent = stopsByID[stop.ParentID]
		}
	}

	for i := range feed.Routes {
		route := feed.Routes[i]
		if !usedRoutes[route.Id] {
			continue
		}
		route.Agency = agenciesByID[route.AgencyID]
		out.Routes = append(out.Routes, route)
	}
	routesByID := map[string]*Route{}
	for i := range out.Routes {
		routesByID[out.Routes[i].Id] = &out.Routes[i]
	}

	for i := range feed.Services {
		service := feed.Services[i]
		if !usedServices[service.Id] {
			continue
		}
		service.AddedDates = append([]time.Time(nil), service.AddedDates...)
		service.RemovedDates = append([]time.Time(nil), service.RemovedDates...)
		out.Services = append(out.Services, service)
	}
	servicesByID := map[string]*Service{}
	for i := range out.Services {
		servicesByID[out.Services[i].Id] = &out.Services[i]
	}

	for i := range feed.Shapes {
		shape := feed.Shapes[i]
		if !usedShapes[shape.ID] {
			continue
		}
		shape.Points = append([]ShapePoint(nil), shape.Points...)
		out.Shapes = append(out.Shapes, shape)
	}
	shapesByID := map[string]*Shape{}
	for i := range out.Shapes {
		shapesByID[out.Shapes[i].ID] = &out.Shapes[i]
	}

	for _, kept := range keptTrips {
		trip := *kept.trip
		trip.Route = routesByID[trip.RouteID]
		trip.Service = servicesByID[trip.ServiceID]
		trip.Shape = nil
		if trip.ShapeID != "" {
			trip.Shape = shapesByID[trip.ShapeID]
		}
		trip.Frequencies = append([]Frequency(nil), kept.trip.Frequencies...)
		trip.StopTimes = kept.stopTimes
		for j := range trip.StopTimes {
			trip.StopTimes[j].Stop = stopsByID[trip.StopTimes[j].StopID]
		}
		out.Trips = append(out.Trips, trip)
	}

	for i := range feed.Transfers {
		transfer := feed.Transfers[i]
		if transfer.From == nil || transfer.To == nil {
			continue
		}
		if !stopSurvives(transfer.FromStopID) || !stopSurvives(transfer.ToStopID) {
			continue
		}
		transfer.From = stopsByID[transfer.FromStopID]
		transfer.To = stopsByID[transfer.ToStopID]
		out.Transfers = append(out.Transfers, transfer)
	}

	out.buildIndexes()

	summary.record(constants.AgencyTable, len(feed.Agencies), len(out.Agencies))
	summary.record(constants.StopsTable, len(feed.Stops), len(out.Stops))
	summary.record(constants.StopTimesTable, beforeStopTimes, afterStopTimes)
	summary.record(constants.TripsTable, len(feed.Trips), len(out.Trips))
	summary.record(constants.RoutesTable, len(feed.Routes), len(out.Routes))
	summary.record(constants.CalendarTable, len(feed.Services), len(out.Services))
	summary.record(constants.ShapesTable, len(feed.Shapes), len(out.Shapes))
	summary.record(constants.TransfersTable, len(feed.Transfers), len(out.Transfers))
	return out, summary
}
