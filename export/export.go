// Package export serializes a feed's core tables back to GTFS-shaped CSV
// files, so a filtered feed can be inspected or fed to other tooling.
package export

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"text/template"
	"time"

	gtfs "github.com/datasciencecampus/assess-gtfs"
)

//go:embed trips.csv.tmpl
var tripsCsvTmpl string

//go:embed stop_times.csv.tmpl
var stopTimesCsvTmpl string

//go:embed stops.csv.tmpl
var stopsCsvTmpl string

var funcMap = template.FuncMap{
	"NullableFloat": func(f *float64) string {
		if f == nil {
			return ""
		}
		return fmt.Sprintf("%g", *f)
	},
	"FormatTime": func(d time.Duration) string {
		if d < 0 {
			return ""
		}
		h := int(d / time.Hour)
		m := int(d/time.Minute) % 60
		s := int(d/time.Second) % 60
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	},
	"FormatDirectionID": func(d gtfs.DirectionID) string {
		switch d {
		case gtfs.DirectionID_False:
			return "0"
		case gtfs.DirectionID_True:
			return "1"
		default:
			return ""
		}
	},
}

var tripsCsv *template.Template = template.Must(template.New("trips.csv.tmpl").Funcs(funcMap).Parse(tripsCsvTmpl))
var stopTimesCsv *template.Template = template.Must(template.New("stop_times.csv.tmpl").Funcs(funcMap).Parse(stopTimesCsvTmpl))
var stopsCsv *template.Template = template.Must(template.New("stops.csv.tmpl").Funcs(funcMap).Parse(stopsCsvTmpl))

// CsvExport contains CSV renderings of a feed's core tables.
type CsvExport struct {
	TripsCsv     []byte
	StopTimesCsv []byte
	StopsCsv     []byte
}

// ToCsv renders the feed's trips, stop times and stops.
func ToCsv(feed *gtfs.Feed) (*CsvExport, error) {
	var tripsB bytes.Buffer
	if err := tripsCsv.Execute(&tripsB, feed.Trips); err != nil {
		return nil, err
	}
	var stopTimesB bytes.Buffer
	if err := stopTimesCsv.Execute(&stopTimesB, feed.Trips); err != nil {
		return nil, err
	}
	var stopsB bytes.Buffer
	if err := stopsCsv.Execute(&stopsB, feed.Stops); err != nil {
		return nil, err
	}
	return &CsvExport{
		TripsCsv:     tripsB.Bytes(),
		StopTimesCsv: stopTimesB.Bytes(),
		StopsCsv:     stopsB.Bytes(),
	}, nil
}

// WriteDir writes the three CSV files into dir, creating it if needed.
func (e *CsvExport) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for _, f := range []struct {
		name    string
		content []byte
	}{
		{"trips.csv", e.TripsCsv},
		{"stop_times.csv", e.StopTimesCsv},
		{"stops.csv", e.StopsCsv},
	} {
		if err := os.WriteFile(filepath.Join(dir, f.name), f.content, 0o644); err != nil {
			return err
		}
	}
	return nil
}
