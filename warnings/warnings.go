// Package warnings contains the warnings that can be attached to a feed while parsing it.
package warnings

import (
	"fmt"
	"strings"

	"github.com/datasciencecampus/assess-gtfs/constants"
)

// StaticWarning is a non-fatal problem encountered while parsing a GTFS static archive.
type StaticWarning interface {
	File() constants.StaticFile
	Error() string
}

// RowMissingColumns indicates a row that was skipped because one or more
// required cells were empty.
type RowMissingColumns struct {
	StaticFile  constants.StaticFile
	EntityID    string
	MissingKeys []string
}

func (w RowMissingColumns) File() constants.StaticFile {
	return w.StaticFile
}

func (w RowMissingColumns) Error() string {
	return fmt.Sprintf("skipping row %q because of missing columns %s", w.EntityID, w.MissingKeys)
}

// UnrecognizedColumns indicates header columns that are not part of the GTFS
// schema for the file.
type UnrecognizedColumns struct {
	StaticFile constants.StaticFile
	Columns    []string
}

func (w UnrecognizedColumns) File() constants.StaticFile {
	return w.StaticFile
}

func (w UnrecognizedColumns) Error() string {
	return fmt.Sprintf("unrecognized columns %s", strings.Join(w.Columns, ", "))
}

// UnknownReference indicates a row that was skipped because a foreign key
// pointed at a row that does not exist and there is no parent record to
// attach the row to.
type UnknownReference struct {
	StaticFile constants.StaticFile
	Column     string
	Value      string
}

func (w UnknownReference) File() constants.StaticFile {
	return w.StaticFile
}

func (w UnknownReference) Error() string {
	return fmt.Sprintf("skipping row because %s %q does not reference an existing row", w.Column, w.Value)
}

// DuplicateRow indicates a row sharing a primary key with an earlier row.
// The first row wins; subsequent rows are dropped.
type DuplicateRow struct {
	StaticFile constants.StaticFile
	EntityID   string
}

func (w DuplicateRow) File() constants.StaticFile {
	return w.StaticFile
}

func (w DuplicateRow) Error() string {
	return fmt.Sprintf("skipping row with duplicate ID %q", w.EntityID)
}
