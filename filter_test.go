package gtfs_test

import (
	"crypto/sha256"
	"errors"
	"testing"
	"time"

	gtfs "github.com/datasciencecampus/assess-gtfs"
	"github.com/datasciencecampus/assess-gtfs/constants"
	"github.com/datasciencecampus/assess-gtfs/internal/testutil"
)

// regionFixture builds a feed straddling the test bounding box: stops A and
// B inside or on the boundary, C and D outside. Trip t1 crosses the
// boundary, trip t2 runs entirely outside, and t2's route and calendar
// have no other trips.
func regionFixture(t *testing.T) *gtfs.Feed {
	return testutil.NewZipBuilder().Add(
		"agency.txt",
		"agency_id,agency_name,agency_url,agency_timezone",
		"a,Agency,http://example.com,Etc/UTC",
	).Add(
		"routes.txt",
		"route_id,route_type",
		"r1,3",
		"r2,2",
	).Add(
		"stops.txt",
		"stop_id,stop_name,stop_lat,stop_lon",
		"A,Alpha,1.5,1.5",
		"B,Bravo,2.0,2.0",
		"C,Charlie,3.5,3.5",
		"D,Delta,4.0,4.0",
	).Add(
		"calendar.txt",
		"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
		"weekday,1,1,1,1,1,0,0,20220501,20220531",
		"sunday,0,0,0,0,0,0,1,20220501,20220531",
	).Add(
		"trips.txt",
		"route_id,service_id,trip_id",
		"r1,weekday,t1",
		"r2,sunday,t2",
	).Add(
		"stop_times.txt",
		"stop_id,trip_id,arrival_time,departure_time,stop_sequence",
		"A,t1,04:00:00,04:00:00,1",
		"B,t1,04:10:00,04:10:00,2",
		"C,t1,04:20:00,04:20:00,3",
		"C,t2,05:00:00,05:00:00,1",
		"D,t2,05:10:00,05:10:00,2",
	).Add(
		"transfers.txt",
		"from_stop_id,to_stop_id,transfer_type",
		"A,B,0",
		"B,C,0",
	).MustParse(t)
}

// testBox has B exactly on its boundary.
var testBox = gtfs.BoundingBox{MinLon: 1.0, MinLat: 1.0, MaxLon: 2.0, MaxLat: 2.0}

func feedHash(feed *gtfs.Feed) [32]byte {
	h := sha256.New()
	feed.Hash(h)
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

func stopIDs(feed *gtfs.Feed) []string {
	var ids []string
	for _, stop := range feed.Stops {
		ids = append(ids, stop.Id)
	}
	return ids
}

func TestFilterByBoundingBox(t *testing.T) {
	feed := regionFixture(t)
	filtered, summary, err := gtfs.FilterByBoundingBox(feed, testBox)
	if err != nil {
		t.Fatalf("filter failed: %s", err)
	}

	// A is inside and B sits exactly on the max corner; both survive.
	if got := stopIDs(filtered); len(got) != 2 || got[0] != "A" || got[1] != "B" {
		t.Errorf("got stops %v, want [A B]", got)
	}

	// t1 keeps its two in-box stop times; t2 lost every stop and is gone.
	if len(filtered.Trips) != 1 || filtered.Trips[0].ID != "t1" {
		t.Fatalf("got trips %+v, want only t1", filtered.Trips)
	}
	t1 := filtered.Trips[0]
	if len(t1.StopTimes) != 2 || t1.StopTimes[0].StopID != "A" || t1.StopTimes[1].StopID != "B" {
		t.Errorf("got stop times %+v, want A then B", t1.StopTimes)
	}

	// The cascade removes t2's route and calendar.
	if _, ok := filtered.RouteByID("r2"); ok {
		t.Error("route r2 survived with no trips")
	}
	if _, ok := filtered.ServiceByID("sunday"); ok {
		t.Error("calendar sunday survived with no trips")
	}

	// Only the in-box transfer survives.
	if len(filtered.Transfers) != 1 || filtered.Transfers[0].FromStopID != "A" {
		t.Errorf("got transfers %+v, want only A-B", filtered.Transfers)
	}

	if got := summary.Removed[constants.StopsTable]; got != 2 {
		t.Errorf("summary says %d stops removed, want 2", got)
	}
	if got := summary.Remaining[constants.TripsTable]; got != 1 {
		t.Errorf("summary says %d trips remain, want 1", got)
	}
}

func TestFilterReferentialClosure(t *testing.T) {
	feed := regionFixture(t)
	filtered, _, err := gtfs.FilterByBoundingBox(feed, testBox)
	if err != nil {
		t.Fatalf("filter failed: %s", err)
	}
	report := gtfs.Validate(filtered, gtfs.ValidateOptions{
		Now: time.Date(2022, 5, 5, 0, 0, 0, 0, time.UTC),
	})
	if report.HasErrors() {
		t.Errorf("filtered feed has dangling references: %v", report.Errors())
	}
}

func TestFilterRewiresPointers(t *testing.T) {
	feed := regionFixture(t)
	filtered, _, err := gtfs.FilterByBoundingBox(feed, testBox)
	if err != nil {
		t.Fatalf("filter failed: %s", err)
	}
	trip := filtered.Trips[0]
	wantRoute, _ := filtered.RouteByID("r1")
	if trip.Route != wantRoute {
		t.Error("trip route points outside the filtered feed")
	}
	wantStop, _ := filtered.StopByID("A")
	if trip.StopTimes[0].Stop != wantStop {
		t.Error("stop time stop points outside the filtered feed")
	}
	original, _ := feed.StopByID("A")
	if wantStop == original {
		t.Error("filtered feed shares stop records with the input")
	}
}

func TestFilterByDate(t *testing.T) {
	feed := regionFixture(t)
	// 2022-05-02 is a Monday: t1 runs, t2 does not.
	filtered, _, err := gtfs.FilterByDate(feed, time.Date(2022, 5, 2, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("filter failed: %s", err)
	}
	if len(filtered.Trips) != 1 || filtered.Trips[0].ID != "t1" {
		t.Fatalf("got trips %+v, want only t1", filtered.Trips)
	}
	// The date filter leaves stops alone.
	if got := len(filtered.Stops); got != 4 {
		t.Errorf("got %d stops, want 4", got)
	}
	if _, ok := filtered.RouteByID("r2"); ok {
		t.Error("route r2 survived with no trips")
	}
	// t1 keeps all three stop times.
	if got := len(filtered.Trips[0].StopTimes); got != 3 {
		t.Errorf("got %d stop times, want 3", got)
	}
}

func TestFilterIdempotent(t *testing.T) {
	feed := regionFixture(t)
	date := time.Date(2022, 5, 2, 0, 0, 0, 0, time.UTC)

	once, _, err := gtfs.FilterByBoundingBox(feed, testBox)
	if err != nil {
		t.Fatal(err)
	}
	twice, _, err := gtfs.FilterByBoundingBox(once, testBox)
	if err != nil {
		t.Fatal(err)
	}
	if feedHash(once) != feedHash(twice) {
		t.Error("bounding box filter is not idempotent")
	}

	dateOnce, _, err := gtfs.FilterByDate(feed, date)
	if err != nil {
		t.Fatal(err)
	}
	dateTwice, _, err := gtfs.FilterByDate(dateOnce, date)
	if err != nil {
		t.Fatal(err)
	}
	if feedHash(dateOnce) != feedHash(dateTwice) {
		t.Error("date filter is not idempotent")
	}
}

func TestFilterCommutative(t *testing.T) {
	feed := regionFixture(t)
	date := time.Date(2022, 5, 2, 0, 0, 0, 0, time.UTC)

	boxFirst, _, err := gtfs.FilterByBoundingBox(feed, testBox)
	if err != nil {
		t.Fatal(err)
	}
	boxThenDate, _, err := gtfs.FilterByDate(boxFirst, date)
	if err != nil {
		t.Fatal(err)
	}

	dateFirst, _, err := gtfs.FilterByDate(feed, date)
	if err != nil {
		t.Fatal(err)
	}
	dateThenBox, _, err := gtfs.FilterByBoundingBox(dateFirst, testBox)
	if err != nil {
		t.Fatal(err)
	}

	if feedHash(boxThenDate) != feedHash(dateThenBox) {
		t.Error("bounding box and date filters do not commute")
	}
}

func TestFilterInputUnchanged(t *testing.T) {
	feed := regionFixture(t)
	before := feedHash(feed)
	if _, _, err := gtfs.FilterByBoundingBox(feed, testBox); err != nil {
		t.Fatal(err)
	}
	if _, _, err := gtfs.FilterByDate(feed, time.Date(2022, 5, 2, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if feedHash(feed) != before {
		t.Error("filtering modified the input feed")
	}
}

func TestFilterKeepsParentStations(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"stops.txt",
		"stop_id,stop_lat,stop_lon,parent_station",
		"platform,1.5,1.5,station",
		"station,5.0,5.0,",
		"stop_id_2,1.6,1.6,",
	).Add(
		"stop_times.txt",
		"stop_id,trip_id,stop_sequence",
		"platform,trip_id,1",
		"stop_id_2,trip_id,2",
	).MustParse(t)

	// The station is outside the box but its platform is inside.
	filtered, _, err := gtfs.FilterByBoundingBox(feed, testBox)
	if err != nil {
		t.Fatal(err)
	}
	station, ok := filtered.StopByID("station")
	if !ok {
		t.Fatal("parent station of a surviving platform was removed")
	}
	platform, _ := filtered.StopByID("platform")
	if platform.Parent != station {
		t.Error("platform parent not rewired to the filtered station")
	}
}

func TestFilterDropsShortTrips(t *testing.T) {
	// Only one of t1's stops is in the box, leaving a single stop time.
	box := gtfs.BoundingBox{MinLon: 1.0, MinLat: 1.0, MaxLon: 1.6, MaxLat: 1.6}
	feed := regionFixture(t)
	filtered, _, err := gtfs.FilterByBoundingBox(feed, box)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(filtered.Trips); got != 0 {
		t.Errorf("got %d trips, want 0: a trip needs at least two stop times", got)
	}
	for _, trip := range filtered.Trips {
		if len(trip.StopTimes) < 2 {
			t.Errorf("trip %s has %d stop times", trip.ID, len(trip.StopTimes))
		}
	}
}

func TestFilterInvalidBounds(t *testing.T) {
	feed := regionFixture(t)
	for name, box := range map[string]gtfs.BoundingBox{
		"min lon above max": {MinLon: 3, MinLat: 1, MaxLon: 2, MaxLat: 2},
		"min lat above max": {MinLon: 1, MinLat: 3, MaxLon: 2, MaxLat: 2},
		"equal bounds":      {MinLon: 1, MinLat: 1, MaxLon: 1, MaxLat: 2},
		"off the planet":    {MinLon: -200, MinLat: 1, MaxLon: 2, MaxLat: 2},
	} {
		t.Run(name, func(t *testing.T) {
			_, _, err := gtfs.FilterByBoundingBox(feed, box)
			var boundsErr *gtfs.InvalidBoundsError
			if !errors.As(err, &boundsErr) {
				t.Errorf("got %v, want an InvalidBoundsError", err)
			}
		})
	}
}

func TestFilterDateOutsideFeed(t *testing.T) {
	feed := regionFixture(t)
	_, _, err := gtfs.FilterByDate(feed, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	var dateErr *gtfs.InvalidDateError
	if !errors.As(err, &dateErr) {
		t.Fatalf("got %v, want an InvalidDateError", err)
	}
	if dateErr.Input != "20230101" {
		t.Errorf("got input %q, want 20230101", dateErr.Input)
	}
}

func TestParseBoundingBox(t *testing.T) {
	bbox, err := gtfs.ParseBoundingBox("-3.0, 51.4, -2.9, 51.5")
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	want := gtfs.BoundingBox{MinLon: -3.0, MinLat: 51.4, MaxLon: -2.9, MaxLat: 51.5}
	if bbox != want {
		t.Errorf("got %+v, want %+v", bbox, want)
	}

	for _, input := range []string{"", "1,2,3", "a,b,c,d", "2,1,1,2"} {
		if _, err := gtfs.ParseBoundingBox(input); err == nil {
			t.Errorf("no error for input %q", input)
		}
	}
}

func TestParseFilterDate(t *testing.T) {
	date, err := gtfs.ParseFilterDate("20220502")
	if err != nil {
		t.Fatalf("parse failed: %s", err)
	}
	if !date.Equal(time.Date(2022, 5, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %s", date)
	}

	_, err = gtfs.ParseFilterDate("2022-05-02")
	var dateErr *gtfs.InvalidDateError
	if !errors.As(err, &dateErr) {
		t.Errorf("got %v, want an InvalidDateError", err)
	}
}

func TestFilterAroundTrip(t *testing.T) {
	feed := regionFixture(t)
	filtered, _, err := gtfs.FilterAroundTrip(feed, "t2", 5)
	if err != nil {
		t.Fatalf("filter failed: %s", err)
	}
	// t2's span plus a small buffer covers C and D but not A or B.
	if _, ok := filtered.StopByID("A"); ok {
		t.Error("stop A inside a box built around t2")
	}
	if _, ok := filtered.StopByID("C"); !ok {
		t.Error("stop C missing from the box built around t2")
	}
	if _, ok := filtered.TripByID("t2"); !ok {
		t.Error("t2 missing from its own surrounding box")
	}

	if _, _, err := gtfs.FilterAroundTrip(feed, "ghost", 5); err == nil {
		t.Error("no error for an unknown trip")
	}
}
