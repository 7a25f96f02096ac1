// Package testutil builds in-memory GTFS static archives for tests.
package testutil

import (
	"archive/zip"
	"bytes"
	"io"
	"strings"
	"testing"

	gtfs "github.com/datasciencecampus/assess-gtfs"
)

// ZipBuilder accumulates the files of a GTFS static zip archive.
type ZipBuilder struct {
	m map[string]string
}

// NewZipBuilder returns a builder pre-populated with the header rows of
// every required file, so tests only fill in the tables they exercise.
func NewZipBuilder() *ZipBuilder {
	return (&ZipBuilder{m: map[string]string{}}).Add(
		"agency.txt", "agency_id,agency_name,agency_url,agency_timezone",
	).Add(
		"routes.txt", "route_id,route_type",
	).Add(
		"stops.txt", "stop_id",
	).Add(
		"calendar.txt", "service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date",
	).Add(
		"trips.txt", "route_id,service_id,trip_id",
	).Add(
		"stop_times.txt", "stop_id,trip_id,stop_sequence",
	)
}

// NewZipBuilderWithDefaults returns a builder holding one row in every
// required file, forming a minimal consistent feed.
func NewZipBuilderWithDefaults() *ZipBuilder {
	return NewZipBuilder().Add(
		"agency.txt",
		"agency_id,agency_name,agency_url,agency_timezone\na,b,c,d",
	).Add(
		"routes.txt",
		"route_id,route_type\nroute_id,3",
	).Add(
		"stops.txt",
		"stop_id,stop_lat,stop_lon\nstop_id_1,1.0,1.0\nstop_id_2,2.0,2.0",
	).Add(
		"calendar.txt",
		"service_id,monday,tuesday,wednesday,thursday,friday,saturday,sunday,start_date,end_date\n"+
			"service_id,1,1,1,1,1,0,0,20220504,20220507",
	).Add(
		"stop_times.txt",
		"stop_id,trip_id,arrival_time,departure_time,stop_sequence\n"+
			"stop_id_1,trip_id,04:05:06,04:05:06,1\n"+
			"stop_id_2,trip_id,05:05:06,05:05:06,2",
	).Add(
		"trips.txt",
		"route_id,service_id,trip_id\nroute_id,service_id,trip_id")
}

// Add sets a file's content, joining the given lines with newlines.
func (z *ZipBuilder) Add(fileName string, fileContent ...string) *ZipBuilder {
	z.m[fileName] = strings.Join(fileContent, "\n")
	return z
}

// Remove drops a file from the archive.
func (z *ZipBuilder) Remove(fileName string) *ZipBuilder {
	delete(z.m, fileName)
	return z
}

// Build serializes the archive.
func (z *ZipBuilder) Build() []byte {
	var b bytes.Buffer
	zipWriter := zip.NewWriter(&b)
	for fileName, fileContent := range z.m {
		fileWriter, err := zipWriter.Create(fileName)
		if err != nil {
			panic(err)
		}
		if _, err := io.Copy(fileWriter, bytes.NewBufferString(fileContent)); err != nil {
			panic(err)
		}
	}
	if err := zipWriter.Close(); err != nil {
		panic(err)
	}
	return b.Bytes()
}

// MustParse builds the archive and parses it, failing the test on error.
func (z *ZipBuilder) MustParse(t *testing.T) *gtfs.Feed {
	t.Helper()
	feed, err := gtfs.ParseStatic(z.Build())
	if err != nil {
		t.Fatalf("failed to parse static feed: %s", err)
	}
	return feed
}
