package spreadsheet

import (
	"context"
	"io"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/student"
)

const rosterSheet = "Roster"

var rosterHeader = []interface{}{"ID", "Name", "Grade", "Classes", "Accommodations", "Date Added"}

// WriteRoster writes the student roster to w as an .xlsx workbook.
func (svc *Service) WriteRoster(ctx context.Context, w io.Writer) error {
	roster, err := svc.students.Roster(ctx)
	if err != nil {
		return err
	}
	return WriteRoster(w, roster)
}

// WriteRoster writes roster entries to w as an .xlsx workbook, one row per student.
func WriteRoster(w io.Writer, roster []student.RosterEntry) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), rosterSheet); err != nil {
		return errors.Wrap(err, "naming roster sheet")
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	if err = f.SetSheetRow(rosterSheet, "A1", &rosterHeader); err != nil {
		return errors.Wrap(err, "writing roster header")
	}
	if err = f.SetRowStyle(rosterSheet, 1, 1, bold); err != nil {
		return errors.Wrap(err, "styling roster header")
	}

	for i, entry := range roster {
		axis, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return errors.Wrap(err, "computing roster cell")
		}
		row := []interface{}{
			entry.ID,
			entry.Name,
			entry.Grade,
			entry.ClassList(),
			entry.AccommodationList(),
			entry.DateAdded.UTC().Format(core.DateLayout),
		}
		if err = f.SetSheetRow(rosterSheet, axis, &row); err != nil {
			return errors.Wrapf(err, "writing roster row %d", i+2)
		}
	}

	if err = f.SetColWidth(rosterSheet, "B", "B", 30); err != nil {
		return errors.Wrap(err, "sizing roster columns")
	}
	if err = f.SetColWidth(rosterSheet, "D", "E", 50); err != nil {
		return errors.Wrap(err, "sizing roster columns")
	}

	if err = f.Write(w); err != nil {
		return errors.Wrap(err, "writing roster workbook")
	}
	return nil
}
