package gtfs

import (
	"archive/zip"
	"bytes"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/datasciencecampus/assess-gtfs/constants"
	"github.com/datasciencecampus/assess-gtfs/csv"
	"github.com/datasciencecampus/assess-gtfs/warnings"
	"github.com/rs/zerolog/log"
)

// ParseStatic parses the content as a GTFS static archive.
//
// A missing required table or required column yields a *MalformedTableError
// and no feed. Rows with empty required cells are skipped and recorded as
// parse warnings on the feed. Rows whose foreign keys do not resolve are
// kept with a nil pointer and the raw key preserved, so that Validate can
// report them.
func ParseStatic(content []byte) (*Feed, error) {
	reader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}
	fileNameToFile := map[constants.StaticFile]*zip.File{}
	for _, file := range reader.File {
		fileNameToFile[constants.StaticFile(strings.ToLower(file.Name))] = file
	}
	feed := &Feed{}
	p := &parser{feed: feed}
	for _, table := range []struct {
		fileName constants.StaticFile
		optional bool
		action   func(file *csv.File)
	}{
		{constants.AgencyFile, false, p.parseAgencies},
		{constants.RoutesFile, false, p.parseRoutes},
		{constants.StopsFile, false, p.parseStops},
		{constants.TransfersFile, true, p.parseTransfers},
		{constants.CalendarFile, true, p.parseCalendar},
		{constants.CalendarDatesFile, true, p.parseCalendarDates},
		{constants.ShapesFile, true, p.parseShapes},
		{constants.TripsFile, false, p.parseTrips},
		{constants.StopTimesFile, false, p.parseStopTimes},
		{constants.FrequenciesFile, true, p.parseFrequencies},
	} {
		zipFile, ok := fileNameToFile[table.fileName]
		if !ok {
			if table.optional {
				continue
			}
			return nil, &MalformedTableError{File: table.fileName}
		}
		file, err := readCsvFile(zipFile, table.fileName)
		if err != nil {
			return nil, &MalformedTableError{File: table.fileName, Err: err}
		}
		table.action(file)
		if missing := file.MissingRequiredColumns(); len(missing) > 0 {
			file.Close()
			return nil, &MalformedTableError{File: table.fileName, MissingColumns: missing}
		}
		if err := file.Close(); err != nil {
			return nil, &MalformedTableError{File: table.fileName, Err: err}
		}
	}
	// One of calendar.txt and calendar_dates.txt must be present.
	if _, hasCalendar := fileNameToFile[constants.CalendarFile]; !hasCalendar {
		if _, hasDates := fileNameToFile[constants.CalendarDatesFile]; !hasDates {
			return nil, &MalformedTableError{File: constants.CalendarFile}
		}
	}
	feed.buildIndexes()
	return feed, nil
}

func readCsvFile(zipFile *zip.File, fileName constants.StaticFile) (*csv.File, error) {
	content, err := zipFile.Open()
	if err != nil {
		return nil, err
	}
	f, err := csv.New(fileName, content)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// parser accumulates tables into the feed and carries the lookup state
// needed to resolve references between them.
type parser struct {
	feed *Feed

	agenciesByID map[string]*Agency
	routesByID   map[string]*Route
	stopsByID    map[string]*Stop
	servicesByID map[string]*Service
	shapesByID   map[string]*Shape
	tripsByID    map[string]*ScheduledTrip
}

func (p *parser) warn(w warnings.StaticWarning) {
	log.Debug().Str("file", string(w.File())).Msg(w.Error())
	p.feed.Warnings = append(p.feed.Warnings, w)
}

func (p *parser) warnUnrecognizedColumns(file *csv.File, known ...string) {
	knownSet := map[string]bool{}
	for _, col := range known {
		knownSet[col] = true
	}
	var unrecognized []string
	for _, col := range file.HeaderContent() {
		if !knownSet[col] {
			unrecognized = append(unrecognized, col)
		}
	}
	if len(unrecognized) > 0 {
		p.warn(warnings.UnrecognizedColumns{StaticFile: file.Name(), Columns: unrecognized})
	}
}

func (p *parser) parseAgencies(f *csv.File) {
	p.warnUnrecognizedColumns(f, "agency_id", "agency_name", "agency_url", "agency_timezone",
		"agency_lang", "agency_phone", "agency_fare_url", "agency_email")
	idColumn := f.OptionalColumn("agency_id")
	nameColumn := f.RequiredColumn("agency_name")
	urlColumn := f.RequiredColumn("agency_url")
	timezoneColumn := f.RequiredColumn("agency_timezone")
	languageColumn := f.OptionalColumn("agency_lang")
	phoneColumn := f.OptionalColumn("agency_phone")
	fareUrlColumn := f.OptionalColumn("agency_fare_url")
	emailColumn := f.OptionalColumn("agency_email")
	for f.NextRow() {
		name := nameColumn.Read()
		agency := Agency{
			// The agency ID is optional when the feed contains a single agency.
			Id:       idColumn.ReadOr(name + "_id"),
			Name:     name,
			Url:      urlColumn.Read(),
			Timezone: timezoneColumn.Read(),
			Language: languageColumn.Read(),
			Phone:    phoneColumn.Read(),
			FareUrl:  fareUrlColumn.Read(),
			Email:    emailColumn.Read(),
		}
		if missing := f.MissingRowKeys(); len(missing) > 0 {
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), EntityID: agency.Id, MissingKeys: missing})
			continue
		}
		p.feed.Agencies = append(p.feed.Agencies, agency)
	}
	p.agenciesByID = map[string]*Agency{}
	for i := range p.feed.Agencies {
		p.agenciesByID[p.feed.Agencies[i].Id] = &p.feed.Agencies[i]
	}
}

func (p *parser) parseRoutes(f *csv.File) {
	p.warnUnrecognizedColumns(f, "route_id", "agency_id", "route_short_name", "route_long_name",
		"route_desc", "route_type", "route_url", "route_color", "route_text_color",
		"route_sort_order", "continuous_pickup", "continuous_drop_off")
	idColumn := f.RequiredColumn("route_id")
	agencyIDColumn := f.OptionalColumn("agency_id")
	colorColumn := f.OptionalColumn("route_color")
	textColorColumn := f.OptionalColumn("route_text_color")
	shortNameColumn := f.OptionalColumn("route_short_name")
	longNameColumn := f.OptionalColumn("route_long_name")
	descriptionColumn := f.OptionalColumn("route_desc")
	routeTypeColumn := f.RequiredColumn("route_type")
	urlColumn := f.OptionalColumn("route_url")
	sortOrderColumn := f.OptionalColumn("route_sort_order")
	continuousPickupColumn := f.OptionalColumn("continuous_pickup")
	continuousDropOffColumn := f.OptionalColumn("continuous_drop_off")
	seen := map[string]bool{}
	for f.NextRow() {
		agencyID := agencyIDColumn.Read()
		var agency *Agency
		if agencyID != "" {
			agency = p.agenciesByID[agencyID]
		} else if len(p.feed.Agencies) == 1 {
			// In GTFS static if there is a single agency, a route's agency ID
			// field can be omitted, in which case the route's agency is the
			// unique agency in the feed.
			agency = &p.feed.Agencies[0]
			agencyID = agency.Id
		}
		route := Route{
			Id:                idColumn.Read(),
			AgencyID:          agencyID,
			Agency:            agency,
			Color:             colorColumn.ReadOr("FFFFFF"),
			TextColor:         textColorColumn.ReadOr("000000"),
			ShortName:         shortNameColumn.Read(),
			LongName:          longNameColumn.Read(),
			Description:       descriptionColumn.Read(),
			Type:              parseRouteType(routeTypeColumn.Read()),
			Url:               urlColumn.Read(),
			SortOrder:         parseInt32(sortOrderColumn.Read()),
			ContinuousPickup:  parsePickupDropOffPolicy(continuousPickupColumn.Read()),
			ContinuousDropOff: parsePickupDropOffPolicy(continuousDropOffColumn.Read()),
		}
		if missing := f.MissingRowKeys(); len(missing) > 0 {
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), EntityID: route.Id, MissingKeys: missing})
			continue
		}
		if seen[route.Id] {
			p.warn(warnings.DuplicateRow{StaticFile: f.Name(), EntityID: route.Id})
			continue
		}
		seen[route.Id] = true
		p.feed.Routes = append(p.feed.Routes, route)
	}
	p.routesByID = map[string]*Route{}
	for i := range p.feed.Routes {
		p.routesByID[p.feed.Routes[i].Id] = &p.feed.Routes[i]
	}
}

func (p *parser) parseStops(f *csv.File) {
	p.warnUnrecognizedColumns(f, "stop_id", "stop_code", "stop_name", "stop_desc", "zone_id",
		"stop_lon", "stop_lat", "stop_url", "location_type", "parent_station", "stop_timezone",
		"wheelchair_boarding", "platform_code")
	idColumn := f.RequiredColumn("stop_id")
	codeColumn := f.OptionalColumn("stop_code")
	nameColumn := f.OptionalColumn("stop_name")
	descriptionColumn := f.OptionalColumn("stop_desc")
	zoneIdColumn := f.OptionalColumn("zone_id")
	longitudeColumn := f.OptionalColumn("stop_lon")
	latitudeColumn := f.OptionalColumn("stop_lat")
	urlColumn := f.OptionalColumn("stop_url")
	typeColumn := f.OptionalColumn("location_type")
	parentColumn := f.OptionalColumn("parent_station")
	timezoneColumn := f.OptionalColumn("stop_timezone")
	wheelchairBoardingColumn := f.OptionalColumn("wheelchair_boarding")
	platformCodeColumn := f.OptionalColumn("platform_code")
	seen := map[string]bool{}
	for f.NextRow() {
		parentID := parentColumn.Read()
		stop := Stop{
			Id:                 idColumn.Read(),
			Code:               codeColumn.Read(),
			Name:               nameColumn.Read(),
			Description:        descriptionColumn.Read(),
			ZoneId:             zoneIdColumn.Read(),
			Longitude:          parseFloat64(longitudeColumn.Read()),
			Latitude:           parseFloat64(latitudeColumn.Read()),
			Url:                urlColumn.Read(),
			Type:               parseStopType(typeColumn.Read(), parentID != ""),
			ParentID:           parentID,
			Timezone:           timezoneColumn.Read(),
			WheelchairBoarding: parseWheelchairBoarding(wheelchairBoardingColumn.Read()),
			PlatformCode:       platformCodeColumn.Read(),
		}
		if missing := f.MissingRowKeys(); len(missing) > 0 {
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), EntityID: stop.Id, MissingKeys: missing})
			continue
		}
		if seen[stop.Id] {
			p.warn(warnings.DuplicateRow{StaticFile: f.Name(), EntityID: stop.Id})
			continue
		}
		seen[stop.Id] = true
		p.feed.Stops = append(p.feed.Stops, stop)
	}
	p.stopsByID = map[string]*Stop{}
	for i := range p.feed.Stops {
		p.stopsByID[p.feed.Stops[i].Id] = &p.feed.Stops[i]
	}
	// Parent pointers can only be resolved once all stops are read.
	for i := range p.feed.Stops {
		stop := &p.feed.Stops[i]
		if stop.ParentID != "" {
			stop.Parent = p.stopsByID[stop.ParentID]
		}
	}
}

func (p *parser) parseTransfers(f *csv.File) {
	p.warnUnrecognizedColumns(f, "from_stop_id", "to_stop_id", "transfer_type", "min_transfer_time")
	fromColumn := f.RequiredColumn("from_stop_id")
	toColumn := f.RequiredColumn("to_stop_id")
	typeColumn := f.OptionalColumn("transfer_type")
	minTimeColumn := f.OptionalColumn("min_transfer_time")
	for f.NextRow() {
		fromStopID := fromColumn.Read()
		toStopID := toColumn.Read()
		if missing := f.MissingRowKeys(); len(missing) > 0 {
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), MissingKeys: missing})
			continue
		}
		p.feed.Transfers = append(p.feed.Transfers, Transfer{
			FromStopID:      fromStopID,
			From:            p.stopsByID[fromStopID],
			ToStopID:        toStopID,
			To:              p.stopsByID[toStopID],
			Type:            parseTransferType(typeColumn.Read()),
			MinTransferTime: parseInt32(minTimeColumn.Read()),
		})
	}
}

func (p *parser) parseCalendar(f *csv.File) {
	p.warnUnrecognizedColumns(f, "service_id", "monday", "tuesday", "wednesday", "thursday",
		"friday", "saturday", "sunday", "start_date", "end_date")
	idColumn := f.RequiredColumn("service_id")
	dayColumns := []csv.RequiredColumn{
		f.RequiredColumn("monday"),
		f.RequiredColumn("tuesday"),
		f.RequiredColumn("wednesday"),
		f.RequiredColumn("thursday"),
		f.RequiredColumn("friday"),
		f.RequiredColumn("saturday"),
		f.RequiredColumn("sunday"),
	}
	startDateColumn := f.RequiredColumn("start_date")
	endDateColumn := f.RequiredColumn("end_date")
	for f.NextRow() {
		var days [7]bool
		for i := range dayColumns {
			days[i] = dayColumns[i].Read() == "1"
		}
		startDate, startErr := parseDate(startDateColumn.Read())
		endDate, endErr := parseDate(endDateColumn.Read())
		service := Service{
			Id:        idColumn.Read(),
			Monday:    days[0],
			Tuesday:   days[1],
			Wednesday: days[2],
			Thursday:  days[3],
			Friday:    days[4],
			Saturday:  days[5],
			Sunday:    days[6],
			StartDate: startDate,
			EndDate:   endDate,
		}
		missing := f.MissingRowKeys()
		if startErr != nil {
			missing = append(missing, "start_date")
		}
		if endErr != nil {
			missing = append(missing, "end_date")
		}
		if len(missing) > 0 {
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), EntityID: service.Id, MissingKeys: missing})
			continue
		}
		p.feed.Services = append(p.feed.Services, service)
	}
	p.indexServices()
}

func (p *parser) parseCalendarDates(f *csv.File) {
	p.warnUnrecognizedColumns(f, "service_id", "date", "exception_type")
	idColumn := f.RequiredColumn("service_id")
	dateColumn := f.RequiredColumn("date")
	exceptionTypeColumn := f.RequiredColumn("exception_type")
	if p.servicesByID == nil {
		p.servicesByID = map[string]*Service{}
	}
	for f.NextRow() {
		serviceID := idColumn.Read()
		date, dateErr := parseDate(dateColumn.Read())
		exceptionType := exceptionTypeColumn.Read()
		missing := f.MissingRowKeys()
		if dateErr != nil {
			missing = append(missing, "date")
		}
		if len(missing) > 0 {
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), EntityID: serviceID, MissingKeys: missing})
			continue
		}
		service := p.servicesByID[serviceID]
		if service == nil {
			// A service defined only through calendar_dates.txt: the date
			// range covers exactly its exception dates.
			p.feed.Services = append(p.feed.Services, Service{Id: serviceID})
			p.indexServices()
			service = p.servicesByID[serviceID]
		}
		switch exceptionType {
		case "1":
			service.AddedDates = append(service.AddedDates, date)
			if service.StartDate.IsZero() || date.Before(service.StartDate) {
				service.StartDate = date
			}
			if service.EndDate.IsZero() || date.After(service.EndDate) {
				service.EndDate = date
			}
		case "2":
			service.RemovedDates = append(service.RemovedDates, date)
		default:
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), EntityID: serviceID, MissingKeys: []string{"exception_type"}})
		}
	}
}

func (p *parser) indexServices() {
	p.servicesByID = map[string]*Service{}
	for i := range p.feed.Services {
		p.servicesByID[p.feed.Services[i].Id] = &p.feed.Services[i]
	}
}

func (p *parser) parseShapes(f *csv.File) {
	p.warnUnrecognizedColumns(f, "shape_id", "shape_pt_lat", "shape_pt_lon",
		"shape_pt_sequence", "shape_dist_traveled")
	idColumn := f.RequiredColumn("shape_id")
	latitudeColumn := f.RequiredColumn("shape_pt_lat")
	longitudeColumn := f.RequiredColumn("shape_pt_lon")
	sequenceColumn := f.RequiredColumn("shape_pt_sequence")
	distanceColumn := f.OptionalColumn("shape_dist_traveled")
	type point struct {
		ShapePoint
		sequence int
	}
	pointsByShape := map[string][]point{}
	var shapeIDs []string
	for f.NextRow() {
		shapeID := idColumn.Read()
		latitude := parseFloat64(latitudeColumn.Read())
		longitude := parseFloat64(longitudeColumn.Read())
		sequence := parseInt32(sequenceColumn.Read())
		missing := f.MissingRowKeys()
		if len(missing) > 0 || latitude == nil || longitude == nil || sequence == nil {
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), EntityID: shapeID, MissingKeys: missing})
			continue
		}
		if _, ok := pointsByShape[shapeID]; !ok {
			shapeIDs = append(shapeIDs, shapeID)
		}
		pointsByShape[shapeID] = append(pointsByShape[shapeID], point{
			ShapePoint: ShapePoint{
				Latitude:  *latitude,
				Longitude: *longitude,
				Distance:  parseFloat64(distanceColumn.Read()),
			},
			sequence: int(*sequence),
		})
	}
	for _, shapeID := range shapeIDs {
		points := pointsByShape[shapeID]
		sort.SliceStable(points, func(i, j int) bool {
			return points[i].sequence < points[j].sequence
		})
		shape := Shape{ID: shapeID, Points: make([]ShapePoint, len(points))}
		for i, pt := range points {
			shape.Points[i] = pt.ShapePoint
		}
		p.feed.Shapes = append(p.feed.Shapes, shape)
	}
	p.shapesByID = map[string]*Shape{}
	for i := range p.feed.Shapes {
		p.shapesByID[p.feed.Shapes[i].ID] = &p.feed.Shapes[i]
	}
}

func (p *parser) parseTrips(f *csv.File) {
	p.warnUnrecognizedColumns(f, "trip_id", "route_id", "service_id", "trip_headsign",
		"trip_short_name", "direction_id", "block_id", "shape_id", "wheelchair_accessible",
		"bikes_allowed")
	idColumn := f.RequiredColumn("trip_id")
	routeIDColumn := f.RequiredColumn("route_id")
	serviceIDColumn := f.RequiredColumn("service_id")
	headsignColumn := f.OptionalColumn("trip_headsign")
	shortNameColumn := f.OptionalColumn("trip_short_name")
	directionIDColumn := f.OptionalColumn("direction_id")
	blockIDColumn := f.OptionalColumn("block_id")
	shapeIDColumn := f.OptionalColumn("shape_id")
	wheelchairAccessibleColumn := f.OptionalColumn("wheelchair_accessible")
	bikesAllowedColumn := f.OptionalColumn("bikes_allowed")
	seen := map[string]bool{}
	for f.NextRow() {
		routeID := routeIDColumn.Read()
		serviceID := serviceIDColumn.Read()
		shapeID := shapeIDColumn.Read()
		trip := ScheduledTrip{
			ID:                   idColumn.Read(),
			RouteID:              routeID,
			Route:                p.routesByID[routeID],
			ServiceID:            serviceID,
			Service:              p.servicesByID[serviceID],
			ShapeID:              shapeID,
			Headsign:             headsignColumn.Read(),
			ShortName:            shortNameColumn.Read(),
			DirectionId:          parseDirectionID(directionIDColumn.Read()),
			BlockID:              blockIDColumn.Read(),
			WheelchairAccessible: parseWheelchairBoarding(wheelchairAccessibleColumn.Read()),
			BikesAllowed:         parseBikesAllowed(bikesAllowedColumn.Read()),
		}
		if shapeID != "" {
			trip.Shape = p.shapesByID[shapeID]
		}
		if missing := f.MissingRowKeys(); len(missing) > 0 {
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), EntityID: trip.ID, MissingKeys: missing})
			continue
		}
		if seen[trip.ID] {
			p.warn(warnings.DuplicateRow{StaticFile: f.Name(), EntityID: trip.ID})
			continue
		}
		seen[trip.ID] = true
		p.feed.Trips = append(p.feed.Trips, trip)
	}
	p.tripsByID = map[string]*ScheduledTrip{}
	for i := range p.feed.Trips {
		p.tripsByID[p.feed.Trips[i].ID] = &p.feed.Trips[i]
	}
}

func (p *parser) parseStopTimes(f *csv.File) {
	p.warnUnrecognizedColumns(f, "trip_id", "stop_id", "stop_sequence", "arrival_time",
		"departure_time", "stop_headsign", "pickup_type", "drop_off_type", "continuous_pickup",
		"continuous_drop_off", "shape_dist_traveled", "timepoint")
	tripIDColumn := f.RequiredColumn("trip_id")
	stopIDColumn := f.RequiredColumn("stop_id")
	sequenceColumn := f.RequiredColumn("stop_sequence")
	arrivalColumn := f.OptionalColumn("arrival_time")
	departureColumn := f.OptionalColumn("departure_time")
	headsignColumn := f.OptionalColumn("stop_headsign")
	pickupTypeColumn := f.OptionalColumn("pickup_type")
	dropOffTypeColumn := f.OptionalColumn("drop_off_type")
	continuousPickupColumn := f.OptionalColumn("continuous_pickup")
	continuousDropOffColumn := f.OptionalColumn("continuous_drop_off")
	distanceColumn := f.OptionalColumn("shape_dist_traveled")
	timepointColumn := f.OptionalColumn("timepoint")
	for f.NextRow() {
		tripID := tripIDColumn.Read()
		stopID := stopIDColumn.Read()
		sequence := parseInt32(sequenceColumn.Read())
		missing := f.MissingRowKeys()
		if sequence == nil {
			missing = append(missing, "stop_sequence")
		}
		if len(missing) > 0 {
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), EntityID: tripID, MissingKeys: missing})
			continue
		}
		arrival, hasArrival := parseGTFSTime(arrivalColumn.Read())
		departure, hasDeparture := parseGTFSTime(departureColumn.Read())
		if !hasArrival {
			arrival = -1
		}
		if !hasDeparture {
			departure = -1
		}
		stopTime := ScheduledStopTime{
			StopID:                stopID,
			Stop:                  p.stopsByID[stopID],
			Headsign:              headsignColumn.Read(),
			StopSequence:          int(*sequence),
			ArrivalTime:           arrival,
			DepartureTime:         departure,
			PickupType:            parsePickupDropOffPolicy(pickupTypeColumn.Read()),
			DropOffType:           parsePickupDropOffPolicy(dropOffTypeColumn.Read()),
			ContinuousPickup:      parsePickupDropOffPolicy(continuousPickupColumn.Read()),
			ContinuousDropOff:     parsePickupDropOffPolicy(continuousDropOffColumn.Read()),
			ShapeDistanceTraveled: parseFloat64(distanceColumn.Read()),
			ExactTimes:            timepointColumn.Read() == "1",
		}
		trip := p.tripsByID[tripID]
		if trip == nil {
			// There is no trip to attach the row to, so it cannot survive
			// into the model for Validate to find.
			p.warn(warnings.UnknownReference{StaticFile: f.Name(), Column: "trip_id", Value: tripID})
			continue
		}
		// Stop times are kept in file order. Validate reports rows whose
		// stop_sequence is not strictly increasing.
		trip.StopTimes = append(trip.StopTimes, stopTime)
	}
}

func (p *parser) parseFrequencies(f *csv.File) {
	p.warnUnrecognizedColumns(f, "trip_id", "start_time", "end_time", "headway_secs", "exact_times")
	tripIDColumn := f.RequiredColumn("trip_id")
	startTimeColumn := f.RequiredColumn("start_time")
	endTimeColumn := f.RequiredColumn("end_time")
	headwayColumn := f.RequiredColumn("headway_secs")
	exactTimesColumn := f.OptionalColumn("exact_times")
	for f.NextRow() {
		tripID := tripIDColumn.Read()
		startTime, hasStart := parseGTFSTime(startTimeColumn.Read())
		endTime, hasEnd := parseGTFSTime(endTimeColumn.Read())
		headway := parseInt32(headwayColumn.Read())
		missing := f.MissingRowKeys()
		if !hasStart {
			missing = append(missing, "start_time")
		}
		if !hasEnd {
			missing = append(missing, "end_time")
		}
		if headway == nil {
			missing = append(missing, "headway_secs")
		}
		if len(missing) > 0 {
			p.warn(warnings.RowMissingColumns{StaticFile: f.Name(), EntityID: tripID, MissingKeys: missing})
			continue
		}
		trip := p.tripsByID[tripID]
		if trip == nil {
			p.warn(warnings.UnknownReference{StaticFile: f.Name(), Column: "trip_id", Value: tripID})
			continue
		}
		trip.Frequencies = append(trip.Frequencies, Frequency{
			StartTime:  startTime,
			EndTime:    endTime,
			Headway:    time.Duration(*headway) * time.Second,
			ExactTimes: parseExactTimes(exactTimesColumn.Read()),
		})
	}
}

func parseFloat64(raw string) *float64 {
	if raw == "" {
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt32(raw string) *int32 {
	if raw == "" {
		return nil
	}
	i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return nil
	}
	i32 := int32(i)
	return &i32
}

// parseGTFSTime parses a GTFS time of the form HH:MM:SS or H:MM:SS.
// The hour component may exceed 24 to represent overnight service.
func parseGTFSTime(raw string) (time.Duration, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return 0, false
	}
	hours, err1 := strconv.Atoi(parts[0])
	minutes, err2 := strconv.Atoi(parts[1])
	seconds, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil || hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return 0, false
	}
	return time.Duration(hours)*time.Hour + time.Duration(minutes)*time.Minute + time.Duration(seconds)*time.Second, true
}

// parseDate parses a GTFS date of the form YYYYMMDD. GTFS dates are
// feed-local and naive, so the result is anchored in UTC.
func parseDate(raw string) (time.Time, error) {
	return time.Parse("20060102", strings.TrimSpace(raw))
}
