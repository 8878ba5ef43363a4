package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/accommodation"
	"github.com/trezcool/accommodations/core/class"
	"github.com/trezcool/accommodations/core/student"
)

// Import sheet columns. The first row is a header and is skipped.
const (
	colName = iota
	colGrade
	colClasses
	colAccommodations
	colNotes
)

var (
	// errors
	ErrUnreadable = errors.New("not a readable .xlsx workbook")
	ErrNoSheet    = errors.New("spreadsheet does not contain any sheet")
)

// RowError reports a skipped spreadsheet row (1-based, as shown by spreadsheet apps).
type RowError struct {
	Row int
	Err error
}

func (re RowError) Error() string {
	return fmt.Sprintf("row %d: %v", re.Row, re.Err)
}

// ImportResult summarises a students import.
type ImportResult struct {
	Imported []student.Student
	Skipped  []RowError
}

type Service struct {
	students       *student.Service
	classes        *class.Service
	accommodations *accommodation.Service
	logger         core.Logger
}

func NewService(students *student.Service, classes *class.Service, accommodations *accommodation.Service, logger core.Logger) *Service {
	return &Service{
		students:       students,
		classes:        classes,
		accommodations: accommodations,
		logger:         logger,
	}
}

type importRow struct {
	line    int
	student student.NewStudent
}

// readStudents parses the first sheet of an .xlsx workbook into new students.
//
// Columns: A name, B grade, C comma-separated classes, D comma-separated accommodation names,
// E notes. A class is given by its code or name, optionally followed by a level and a
// section: "PHY HL .1". Blank rows are ignored. Rows that cannot be resolved are reported
// as RowErrors.
func (svc *Service) readStudents(ctx context.Context, r io.Reader) ([]importRow, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		svc.logger.Debug("opening spreadsheet", err)
		return nil, nil, ErrUnreadable
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading sheet %s", sheet)
	}

	classes, err := svc.classes.QueryByName(ctx)
	if err != nil {
		return nil, nil, err
	}
	types, err := svc.accommodations.QueryAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	classIdx := make(map[string]class.Class, 2*len(classes))
	for _, c := range classes {
		classIdx[core.CleanString(c.Name, true /* lower */)] = c
	}
	for code, c := range class.ByCode(classes) {
		classIdx[code] = c
	}
	accIdx := accommodation.ByName(types)

	parsed := make([]importRow, 0, len(rows))
	skipped := make([]RowError, 0)
	for i, row := range rows {
		if i == 0 || isBlank(row) {
			continue // header
		}
		ns, err := parseRow(row, classIdx, accIdx)
		if err != nil {
			skipped = append(skipped, RowError{Row: i + 1, Err: err})
			continue
		}
		parsed = append(parsed, importRow{line: i + 1, student: ns})
	}
	return parsed, skipped, nil
}

// ImportStudents creates every valid student of the workbook. Each student is created in
// its own transaction, so a rejected row does not prevent the others from being imported.
func (svc *Service) ImportStudents(ctx context.Context, r io.Reader) (ImportResult, error) {
	rows, skipped, err := svc.readStudents(ctx, r)
	if err != nil {
		return ImportResult{}, err
	}

	res := ImportResult{Imported: make([]student.Student, 0, len(rows)), Skipped: skipped}
	for _, row := range rows {
		s, err := svc.students.Create(ctx, row.student)
		if err != nil {
			res.Skipped = append(res.Skipped, RowError{Row: row.line, Err: err})
			continue
		}
		res.Imported = append(res.Imported, s)
	}
	sort.Slice(res.Skipped, func(i, j int) bool { return res.Skipped[i].Row < res.Skipped[j].Row })

	for _, re := range res.Skipped {
		svc.logger.Warn("skipped spreadsheet row", re)
	}
	svc.logger.Info(fmt.Sprintf("imported %d students (%d rows skipped)", len(res.Imported), len(res.Skipped)))
	return res, nil
}

func cell(row []string, col int) string {
	if col < len(row) {
		return strings.TrimSpace(row[col])
	}
	return ""
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func splitList(s string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseRow(row []string, classIdx map[string]class.Class, accIdx map[string]accommodation.Type) (student.NewStudent, error) {
	ns := student.NewStudent{
		Name:  cell(row, colName),
		Notes: cell(row, colNotes),
	}

	grade, err := strconv.Atoi(cell(row, colGrade))
	if err != nil {
		return ns, errors.Errorf("invalid grade %q", cell(row, colGrade))
	}
	ns.Grade = grade

	for _, item := range splitList(cell(row, colClasses)) {
		sel, err := parseClass(item, classIdx)
		if err != nil {
			return ns, err
		}
		ns.Classes = append(ns.Classes, sel)
	}

	for _, name := range splitList(cell(row, colAccommodations)) {
		typ, ok := accIdx[core.CleanString(name, true /* lower */)]
		if !ok {
			return ns, errors.Errorf("unknown accommodation %q", name)
		}
		ns.AccommodationIDs = append(ns.AccommodationIDs, typ.ID)
	}
	return ns, nil
}

// parseClass resolves "CODE [LEVEL] [SECTION]".
func parseClass(item string, classIdx map[string]class.Class) (student.ClassSelection, error) {
	fields := strings.Fields(item)
	code := fields[0]
	quals := fields[1:]

	// class names may contain spaces: take the longest known prefix
	for n := len(fields); n > 0; n-- {
		if _, ok := classIdx[strings.ToLower(strings.Join(fields[:n], " "))]; ok {
			code, quals = strings.Join(fields[:n], " "), fields[n:]
			break
		}
	}

	c, ok := classIdx[strings.ToLower(code)]
	if !ok {
		return student.ClassSelection{}, errors.Errorf("unknown class %q", item)
	}
	sel := student.ClassSelection{ClassID: c.ID}
	for _, q := range quals {
		if strings.HasPrefix(q, ".") {
			sel.Section = q
		} else {
			sel.Level = q
		}
	}
	return sel, nil
}
