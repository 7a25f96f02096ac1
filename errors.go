package gtfs

import (
	"fmt"
	"strings"

	"github.com/datasciencecampus/assess-gtfs/constants"
)

// MalformedTableError indicates a structural problem with the archive: a
// required table is missing entirely, or a required column is absent from
// its header. No meaningful validation is possible, so parsing aborts.
type MalformedTableError struct {
	File           constants.StaticFile
	MissingColumns []string
	Err            error
}

func (e *MalformedTableError) Error() string {
	if len(e.MissingColumns) > 0 {
		return fmt.Sprintf("%s is missing required columns: %s", e.File, strings.Join(e.MissingColumns, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("failed to read %s: %s", e.File, e.Err)
	}
	return fmt.Sprintf("no %s file in GTFS static feed", e.File)
}

func (e *MalformedTableError) Unwrap() error {
	return e.Err
}

// InvalidBoundsError indicates a malformed bounding box. It is returned
// before any filtering takes place.
type InvalidBoundsError struct {
	Reason string
}

func (e *InvalidBoundsError) Error() string {
	return "invalid bounding box: " + e.Reason
}

// InvalidDateError indicates a malformed or unusable filter date. It is
// returned before any filtering takes place.
type InvalidDateError struct {
	Input  string
	Reason string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid date %q: %s", e.Input, e.Reason)
}

// DisconnectedNetworkError is returned by NetworkGraph.AssertConnected when
// the network has more than one weakly connected component.
type DisconnectedNetworkError struct {
	// ComponentSizes holds the number of stops in each component, largest
	// first.
	ComponentSizes []int
}

func (e *DisconnectedNetworkError) Error() string {
	return fmt.Sprintf("network is not connected: %d components with sizes %v", len(e.ComponentSizes), e.ComponentSizes)
}
