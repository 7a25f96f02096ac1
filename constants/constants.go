package constants

// StaticFile is the name of a file inside a GTFS static zip archive.
type StaticFile string

const (
	AgencyFile        StaticFile = "agency.txt"
	RoutesFile        StaticFile = "routes.txt"
	StopsFile         StaticFile = "stops.txt"
	TransfersFile     StaticFile = "transfers.txt"
	CalendarFile      StaticFile = "calendar.txt"
	CalendarDatesFile StaticFile = "calendar_dates.txt"
	TripsFile         StaticFile = "trips.txt"
	StopTimesFile     StaticFile = "stop_times.txt"
	ShapesFile        StaticFile = "shapes.txt"
	FrequenciesFile   StaticFile = "frequencies.txt"
)

// Table identifies a GTFS table in validation findings and filter summaries.
type Table string

const (
	AgencyTable       Table = "agency"
	RoutesTable       Table = "routes"
	StopsTable        Table = "stops"
	TransfersTable    Table = "transfers"
	CalendarTable     Table = "calendar"
	CalendarDateTable Table = "calendar_dates"
	TripsTable        Table = "trips"
	StopTimesTable    Table = "stop_times"
	ShapesTable       Table = "shapes"
)
