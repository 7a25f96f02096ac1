package gtfs_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	gtfs "github.com/datasciencecampus/assess-gtfs"
	"github.com/datasciencecampus/assess-gtfs/constants"
	"github.com/datasciencecampus/assess-gtfs/internal/testutil"
	"github.com/datasciencecampus/assess-gtfs/warnings"
)

func TestParseStaticDefaults(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().MustParse(t)

	wantAgencies := []gtfs.Agency{{Id: "a", Name: "b", Url: "c", Timezone: "d"}}
	if diff := cmp.Diff(feed.Agencies, wantAgencies); diff != "" {
		t.Errorf("agencies diff: %s", diff)
	}

	if got := len(feed.Routes); got != 1 {
		t.Fatalf("got %d routes, want 1", got)
	}
	route := feed.Routes[0]
	if route.Type != gtfs.RouteType_Bus {
		t.Errorf("got route type %s, want %s", route.Type, gtfs.RouteType_Bus)
	}
	// With a single agency in the feed an omitted agency_id resolves to it.
	if route.Agency == nil || route.Agency.Id != "a" {
		t.Errorf("route agency not resolved to the unique agency: %+v", route.Agency)
	}

	trip, ok := feed.TripByID("trip_id")
	if !ok {
		t.Fatal("trip_id not found in feed")
	}
	if trip.Route == nil || trip.Route.Id != "route_id" {
		t.Errorf("trip route not resolved: %+v", trip.Route)
	}
	if trip.Service == nil || trip.Service.Id != "service_id" {
		t.Errorf("trip service not resolved: %+v", trip.Service)
	}
	if got := len(trip.StopTimes); got != 2 {
		t.Fatalf("got %d stop times, want 2", got)
	}
	first := trip.StopTimes[0]
	if first.Stop == nil || first.Stop.Id != "stop_id_1" {
		t.Errorf("stop time stop not resolved: %+v", first.Stop)
	}
	wantArrival := 4*time.Hour + 5*time.Minute + 6*time.Second
	if first.ArrivalTime != wantArrival {
		t.Errorf("got arrival %s, want %s", first.ArrivalTime, wantArrival)
	}
}

func TestParseStaticMissingFile(t *testing.T) {
	for _, fileName := range []string{"agency.txt", "routes.txt", "stops.txt", "trips.txt", "stop_times.txt"} {
		t.Run(fileName, func(t *testing.T) {
			b := testutil.NewZipBuilderWithDefaults().Remove(fileName).Build()
			_, err := gtfs.ParseStatic(b)
			var tableErr *gtfs.MalformedTableError
			if !errors.As(err, &tableErr) {
				t.Fatalf("got %v, want a MalformedTableError", err)
			}
			if got := string(tableErr.File); got != fileName {
				t.Errorf("got error for file %q, want %q", got, fileName)
			}
		})
	}
}

func TestParseStaticMissingColumn(t *testing.T) {
	b := testutil.NewZipBuilderWithDefaults().Add(
		"routes.txt", "route_id\nroute_id",
	).Build()
	_, err := gtfs.ParseStatic(b)
	var tableErr *gtfs.MalformedTableError
	if !errors.As(err, &tableErr) {
		t.Fatalf("got %v, want a MalformedTableError", err)
	}
	if diff := cmp.Diff(tableErr.MissingColumns, []string{"route_type"}); diff != "" {
		t.Errorf("missing columns diff: %s", diff)
	}
}

func TestParseStaticNoCalendars(t *testing.T) {
	b := testutil.NewZipBuilderWithDefaults().Remove("calendar.txt").Build()
	_, err := gtfs.ParseStatic(b)
	var tableErr *gtfs.MalformedTableError
	if !errors.As(err, &tableErr) {
		t.Fatalf("got %v, want a MalformedTableError", err)
	}
	if tableErr.File != constants.CalendarFile {
		t.Errorf("got error for file %q, want %q", tableErr.File, constants.CalendarFile)
	}
}

func TestParseStaticCalendarDatesOnly(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Remove("calendar.txt").Add(
		"calendar_dates.txt",
		"service_id,date,exception_type",
		"service_id,20220505,1",
		"service_id,20220503,1",
	).MustParse(t)

	service, ok := feed.ServiceByID("service_id")
	if !ok {
		t.Fatal("service_id not found in feed")
	}
	if got := len(service.AddedDates); got != 2 {
		t.Fatalf("got %d added dates, want 2", got)
	}
	// The implied range covers exactly the added dates.
	wantStart := time.Date(2022, 5, 3, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2022, 5, 5, 0, 0, 0, 0, time.UTC)
	if !service.StartDate.Equal(wantStart) || !service.EndDate.Equal(wantEnd) {
		t.Errorf("got range [%s, %s], want [%s, %s]", service.StartDate, service.EndDate, wantStart, wantEnd)
	}
	if !service.ActiveOn(time.Date(2022, 5, 5, 0, 0, 0, 0, time.UTC)) {
		t.Error("service not active on an added date")
	}
	if service.ActiveOn(time.Date(2022, 5, 4, 0, 0, 0, 0, time.UTC)) {
		t.Error("service active on a date that was never added")
	}
}

func TestParseStaticRemovedDate(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"calendar_dates.txt",
		"service_id,date,exception_type",
		"service_id,20220505,2",
	).MustParse(t)

	service, ok := feed.ServiceByID("service_id")
	if !ok {
		t.Fatal("service_id not found in feed")
	}
	// 2022-05-05 is a Thursday inside the range, removed by the exception.
	if service.ActiveOn(time.Date(2022, 5, 5, 0, 0, 0, 0, time.UTC)) {
		t.Error("service active on a removed date")
	}
	if !service.ActiveOn(time.Date(2022, 5, 4, 0, 0, 0, 0, time.UTC)) {
		t.Error("service not active on a regular weekday in range")
	}
}

func TestParseStaticOvernightTimes(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"stop_times.txt",
		"stop_id,trip_id,arrival_time,departure_time,stop_sequence",
		"stop_id_1,trip_id,23:55:00,23:56:00,1",
		"stop_id_2,trip_id,25:30:00,25:31:00,2",
	).MustParse(t)

	trip, _ := feed.TripByID("trip_id")
	if got := len(trip.StopTimes); got != 2 {
		t.Fatalf("got %d stop times, want 2", got)
	}
	want := 25*time.Hour + 30*time.Minute
	if got := trip.StopTimes[1].ArrivalTime; got != want {
		t.Errorf("got arrival %s, want %s", got, want)
	}
}

func TestParseStaticUnsetTimes(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"stop_times.txt",
		"stop_id,trip_id,arrival_time,departure_time,stop_sequence",
		"stop_id_1,trip_id,04:00:00,04:00:00,1",
		"stop_id_2,trip_id,,,2",
	).MustParse(t)

	trip, _ := feed.TripByID("trip_id")
	second := trip.StopTimes[1]
	if second.ArrivalTime >= 0 || second.DepartureTime >= 0 {
		t.Errorf("unset times not negative: arrival %s departure %s", second.ArrivalTime, second.DepartureTime)
	}
}

func TestParseStaticOrphanStopTime(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"stop_times.txt",
		"stop_id,trip_id,stop_sequence",
		"stop_id_1,trip_id,1",
		"stop_id_2,trip_id,2",
		"stop_id_1,ghost_trip,1",
	).MustParse(t)

	trip, _ := feed.TripByID("trip_id")
	if got := len(trip.StopTimes); got != 2 {
		t.Errorf("got %d stop times, want 2", got)
	}
	found := false
	for _, w := range feed.Warnings {
		if ref, ok := w.(warnings.UnknownReference); ok && ref.Value == "ghost_trip" {
			found = true
		}
	}
	if !found {
		t.Errorf("no unknown reference warning for the orphan row; warnings: %v", feed.Warnings)
	}
}

func TestParseStaticDanglingStopReference(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"stop_times.txt",
		"stop_id,trip_id,stop_sequence",
		"stop_id_1,trip_id,1",
		"no_such_stop,trip_id,2",
	).MustParse(t)

	trip, _ := feed.TripByID("trip_id")
	if got := len(trip.StopTimes); got != 2 {
		t.Fatalf("got %d stop times, want 2: the dangling row must survive for validation", got)
	}
	dangling := trip.StopTimes[1]
	if dangling.StopID != "no_such_stop" || dangling.Stop != nil {
		t.Errorf("dangling reference not preserved: %+v", dangling)
	}
}

func TestParseStaticUnrecognizedColumns(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"routes.txt", "route_id,route_type,zzz_custom\nroute_id,3,x",
	).MustParse(t)

	found := false
	for _, w := range feed.Warnings {
		if u, ok := w.(warnings.UnrecognizedColumns); ok {
			if diff := cmp.Diff(u.Columns, []string{"zzz_custom"}); diff != "" {
				t.Errorf("columns diff: %s", diff)
			}
			found = true
		}
	}
	if !found {
		t.Errorf("no unrecognized columns warning; warnings: %v", feed.Warnings)
	}
}

func TestParseStaticDuplicateRows(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"routes.txt", "route_id,route_type\nroute_id,3\nroute_id,2",
	).MustParse(t)

	if got := len(feed.Routes); got != 1 {
		t.Fatalf("got %d routes, want 1", got)
	}
	// The first row wins.
	if feed.Routes[0].Type != gtfs.RouteType_Bus {
		t.Errorf("got route type %s, want %s", feed.Routes[0].Type, gtfs.RouteType_Bus)
	}
	found := false
	for _, w := range feed.Warnings {
		if _, ok := w.(warnings.DuplicateRow); ok {
			found = true
		}
	}
	if !found {
		t.Errorf("no duplicate row warning; warnings: %v", feed.Warnings)
	}
}

func TestParseStaticShapes(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"shapes.txt",
		"shape_id,shape_pt_lat,shape_pt_lon,shape_pt_sequence,shape_dist_traveled",
		"shape_1,1.5,1.5,2,",
		"shape_1,1.0,1.0,1,0.0",
	).Add(
		"trips.txt",
		"route_id,service_id,trip_id,shape_id",
		"route_id,service_id,trip_id,shape_1",
	).MustParse(t)

	shape, ok := feed.ShapeByID("shape_1")
	if !ok {
		t.Fatal("shape_1 not found in feed")
	}
	want := []gtfs.ShapePoint{
		{Latitude: 1.0, Longitude: 1.0, Distance: ptr(0.0)},
		{Latitude: 1.5, Longitude: 1.5},
	}
	if diff := cmp.Diff(shape.Points, want); diff != "" {
		t.Errorf("points diff: %s", diff)
	}
	trip, _ := feed.TripByID("trip_id")
	if trip.Shape != shape {
		t.Errorf("trip shape not resolved to the parsed shape")
	}
}

func TestParseStaticFrequencies(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"frequencies.txt",
		"trip_id,start_time,end_time,headway_secs,exact_times",
		"trip_id,06:00:00,10:00:00,600,1",
	).MustParse(t)

	trip, _ := feed.TripByID("trip_id")
	want := []gtfs.Frequency{{
		StartTime:  6 * time.Hour,
		EndTime:    10 * time.Hour,
		Headway:    10 * time.Minute,
		ExactTimes: gtfs.ScheduleBased,
	}}
	if diff := cmp.Diff(trip.Frequencies, want); diff != "" {
		t.Errorf("frequencies diff: %s", diff)
	}
}

func TestParseStaticTransfers(t *testing.T) {
	feed := testutil.NewZipBuilderWithDefaults().Add(
		"transfers.txt",
		"from_stop_id,to_stop_id,transfer_type,min_transfer_time",
		"stop_id_1,stop_id_2,2,300",
	).MustParse(t)

	if got := len(feed.Transfers); got != 1 {
		t.Fatalf("got %d transfers, want 1", got)
	}
	transfer := feed.Transfers[0]
	if transfer.From == nil || transfer.From.Id != "stop_id_1" || transfer.To == nil || transfer.To.Id != "stop_id_2" {
		t.Errorf("transfer stops not resolved: %+v", transfer)
	}
	if transfer.Type != gtfs.TransferType_RequiresTime {
		t.Errorf("got transfer type %v, want %v", transfer.Type, gtfs.TransferType_RequiresTime)
	}
	if transfer.MinTransferTime == nil || *transfer.MinTransferTime != 300 {
		t.Errorf("min transfer time not parsed: %v", transfer.MinTransferTime)
	}
}

func TestParseStaticNotAZip(t *testing.T) {
	if _, err := gtfs.ParseStatic([]byte("not a zip archive")); err == nil {
		t.Error("expected an error for garbage input")
	}
}

func ptr[T any](t T) *T {
	return &t
}
