// Package gtfs assesses GTFS static feeds: it parses them into a typed
// in-memory model, validates their referential and temporal integrity,
// derives a network graph for connectivity diagnostics, and produces reduced
// sub-feeds constrained by a bounding box and/or a service date.
package gtfs

import (
	"time"

	"github.com/datasciencecampus/assess-gtfs/warnings"
)

// Feed contains the parsed content of a single GTFS static archive.
//
// A Feed is immutable after construction. Filtering operations return a new
// Feed rather than mutating in place, so concurrent reads of the same Feed
// are always safe.
type Feed struct {
	Agencies  []Agency
	Routes    []Route
	Stops     []Stop
	Transfers []Transfer
	Services  []Service
	Trips     []ScheduledTrip
	Shapes    []Shape

	// Warnings contains the non-fatal problems encountered while parsing.
	Warnings []warnings.StaticWarning

	agenciesByID map[string]*Agency
	routesByID   map[string]*Route
	stopsByID    map[string]*Stop
	servicesByID map[string]*Service
	tripsByID    map[string]*ScheduledTrip
	shapesByID   map[string]*Shape
}

// Agency corresponds to a single row in the agency.txt file.
type Agency struct {
	Id       string
	Name     string
	Url      string
	Timezone string
	Language string
	Phone    string
	FareUrl  string
	Email    string
}

// Route corresponds to a single row in the routes.txt file.
//
// AgencyID always holds the raw foreign key. Agency is nil when the key does
// not resolve; the validator reports such rows as referential errors.
type Route struct {
	Id                string
	AgencyID          string
	Agency            *Agency
	Color             string
	TextColor         string
	ShortName         string
	LongName          string
	Description       string
	Type              RouteType
	Url               string
	SortOrder         *int32
	ContinuousPickup  PickupDropOffPolicy
	ContinuousDropOff PickupDropOffPolicy
}

// Stop corresponds to a single row in the stops.txt file.
type Stop struct {
	Id                 string
	Code               string
	Name               string
	Description        string
	ZoneId             string
	Longitude          *float64
	Latitude           *float64
	Url                string
	Type               StopType
	ParentID           string
	Parent             *Stop
	Timezone           string
	WheelchairBoarding WheelchairBoarding
	PlatformCode       string
}

// Root returns the root of the stop's station hierarchy.
func (stop *Stop) Root() *Stop {
	for {
		if stop.Parent == nil {
			return stop
		}
		stop = stop.Parent
	}
}

// HasLocation reports whether both coordinates are populated.
func (stop *Stop) HasLocation() bool {
	return stop.Longitude != nil && stop.Latitude != nil
}

// Transfer corresponds to a single row in the transfers.txt file.
type Transfer struct {
	FromStopID      string
	From            *Stop
	ToStopID        string
	To              *Stop
	Type            TransferType
	MinTransferTime *int32
}

// Service corresponds to a single row in the calendar.txt file, merged with
// the exception dates for the same service_id in calendar_dates.txt.
type Service struct {
	Id        string
	Monday    bool
	Tuesday   bool
	Wednesday bool
	Thursday  bool
	Friday    bool
	Saturday  bool
	Sunday    bool
	StartDate time.Time
	EndDate   time.Time
	// AddedDates and RemovedDates come from calendar_dates.txt rows with
	// exception_type 1 and 2 respectively.
	AddedDates   []time.Time
	RemovedDates []time.Time
}

// ActiveOn reports whether the service runs on the given date.
//
// The service is active iff its weekday flag matches, the date falls inside
// [StartDate, EndDate] and the date is not removed - or the date is
// explicitly added.
func (s *Service) ActiveOn(date time.Time) bool {
	for _, added := range s.AddedDates {
		if sameDate(added, date) {
			return true
		}
	}
	for _, removed := range s.RemovedDates {
		if sameDate(removed, date) {
			return false
		}
	}
	if date.Before(s.StartDate) || date.After(s.EndDate) {
		return false
	}
	switch date.Weekday() {
	case time.Monday:
		return s.Monday
	case time.Tuesday:
		return s.Tuesday
	case time.Wednesday:
		return s.Wednesday
	case time.Thursday:
		return s.Thursday
	case time.Friday:
		return s.Friday
	case time.Saturday:
		return s.Saturday
	default:
		return s.Sunday
	}
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// ScheduledTrip corresponds to a single row in the trips.txt file, with its
// stop times from stop_times.txt attached in stop_sequence order.
type ScheduledTrip struct {
	ID                   string
	RouteID              string
	Route                *Route
	ServiceID            string
	Service              *Service
	ShapeID              string
	Shape                *Shape
	Headsign             string
	ShortName            string
	DirectionId          DirectionID
	BlockID              string
	WheelchairAccessible WheelchairBoarding
	BikesAllowed         BikesAllowed
	StopTimes            []ScheduledStopTime
	Frequencies          []Frequency
}

// ScheduledStopTime corresponds to a single row in the stop_times.txt file.
//
// Arrival and departure times are durations since midnight and may exceed 24
// hours for overnight services.
type ScheduledStopTime struct {
	StopID                string
	Stop                  *Stop
	Headsign              string
	StopSequence          int
	ArrivalTime           time.Duration
	DepartureTime         time.Duration
	PickupType            PickupDropOffPolicy
	DropOffType           PickupDropOffPolicy
	ContinuousPickup      PickupDropOffPolicy
	ContinuousDropOff     PickupDropOffPolicy
	ShapeDistanceTraveled *float64
	ExactTimes            bool
}

// Frequency corresponds to a single row in the frequencies.txt file.
type Frequency struct {
	StartTime  time.Duration
	EndTime    time.Duration
	Headway    time.Duration
	ExactTimes ExactTimes
}

// Shape corresponds to the rows of shapes.txt sharing one shape_id, with
// points in shape_pt_sequence order.
type Shape struct {
	ID     string
	Points []ShapePoint
}

// ShapePoint is a single point in a shape.
type ShapePoint struct {
	Latitude  float64
	Longitude float64
	Distance  *float64
}

// AgencyByID returns the agency with the given ID.
func (f *Feed) AgencyByID(id string) (*Agency, bool) {
	a, ok := f.agenciesByID[id]
	return a, ok
}

// RouteByID returns the route with the given ID.
func (f *Feed) RouteByID(id string) (*Route, bool) {
	r, ok := f.routesByID[id]
	return r, ok
}

// StopByID returns the stop with the given ID.
func (f *Feed) StopByID(id string) (*Stop, bool) {
	s, ok := f.stopsByID[id]
	return s, ok
}

// ServiceByID returns the service with the given ID.
func (f *Feed) ServiceByID(id string) (*Service, bool) {
	s, ok := f.servicesByID[id]
	return s, ok
}

// TripByID returns the trip with the given ID.
func (f *Feed) TripByID(id string) (*ScheduledTrip, bool) {
	t, ok := f.tripsByID[id]
	return t, ok
}

// ShapeByID returns the shape with the given ID.
func (f *Feed) ShapeByID(id string) (*Shape, bool) {
	s, ok := f.shapesByID[id]
	return s, ok
}

// ServiceDateRange returns the earliest and latest dates on which any
// service in the feed can run, including calendar date exceptions. The
// second return value is false when the feed has no services.
func (f *Feed) ServiceDateRange() (time.Time, time.Time, bool) {
	var start, end time.Time
	found := false
	observe := func(d time.Time) {
		if d.IsZero() {
			return
		}
		if !found || d.Before(start) {
			start = d
		}
		if !found || d.After(end) {
			end = d
		}
		found = true
	}
	for i := range f.Services {
		s := &f.Services[i]
		observe(s.StartDate)
		observe(s.EndDate)
		for _, d := range s.AddedDates {
			observe(d)
		}
	}
	return start, end, found
}

// buildIndexes populates the primary key lookup maps. It must be called
// after the record slices reach their final size, as the maps point into
// the slices' backing arrays.
func (f *Feed) buildIndexes() {
	f.agenciesByID = make(map[string]*Agency, len(f.Agencies))
	for i := range f.Agencies {
		f.agenciesByID[f.Agencies[i].Id] = &f.Agencies[i]
	}
	f.routesByID = make(map[string]*Route, len(f.Routes))
	for i := range f.Routes {
		f.routesByID[f.Routes[i].Id] = &f.Routes[i]
	}
	f.stopsByID = make(map[string]*Stop, len(f.Stops))
	for i := range f.Stops {
		f.stopsByID[f.Stops[i].Id] = &f.Stops[i]
	}
	f.servicesByID = make(map[string]*Service, len(f.Services))
	for i := range f.Services {
		f.servicesByID[f.Services[i].Id] = &f.Services[i]
	}
	f.tripsByID = make(map[string]*ScheduledTrip, len(f.Trips))
	for i := range f.Trips {
		f.tripsByID[f.Trips[i].ID] = &f.Trips[i]
	}
	f.shapesByID = make(map[string]*Shape, len(f.Shapes))
	for i := range f.Shapes {
		f.shapesByID[f.Shapes[i].ID] = &f.Shapes[i]
	}
}
