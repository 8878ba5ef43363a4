package echoapi

import (
	"sort"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/student"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind reads "?ordering=field,-other" where a leading "-" sorts descending.
func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

func parseID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}

func parseIDs(field string, values []string) ([]int64, error) {
	ids := make([]int64, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, core.NewValidationError(nil, core.FieldError{Field: field, Error: "invalid id " + strconv.Quote(v)})
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// bindNewStudent reads the new student form.
//
// Selected classes are sent either as repeated "classes" values or as "class_<id>=yes"
// checkboxes, with optional "level_<id>" and "section_<id>" qualifiers.
// An unparsable grade is left at zero and rejected by validation.
func bindNewStudent(ctx echo.Context) (student.NewStudent, error) {
	form, err := ctx.FormParams()
	if err != nil {
		return student.NewStudent{}, errors.Wrap(err, "parsing student form")
	}

	ns := student.NewStudent{
		Name:  form.Get("name"),
		Notes: form.Get("notes"),
	}
	ns.Grade, _ = strconv.Atoi(strings.TrimSpace(form.Get("grade")))

	classIDs, err := parseIDs("classes", form["classes"])
	if err != nil {
		return ns, err
	}
	checked := make([]int64, 0)
	for key, vals := range form {
		if !strings.HasPrefix(key, "class_") || len(vals) == 0 {
			continue
		}
		switch strings.ToLower(vals[0]) {
		case "yes", "on", "true", "1":
			id, err := strconv.ParseInt(strings.TrimPrefix(key, "class_"), 10, 64)
			if err != nil {
				continue // not a checkbox: eg. class_name
			}
			checked = append(checked, id)
		}
	}
	sort.Slice(checked, func(i, j int) bool { return checked[i] < checked[j] })
	classIDs = append(classIDs, checked...)

	seen := make(map[int64]bool, len(classIDs))
	for _, id := range classIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		suffix := strconv.FormatInt(id, 10)
		ns.Classes = append(ns.Classes, student.ClassSelection{
			ClassID: id,
			Level:   form.Get("level_" + suffix),
			Section: form.Get("section_" + suffix),
		})
	}

	if ns.AccommodationIDs, err = parseIDs("accommodations", form["accommodations"]); err != nil {
		return ns, err
	}
	return ns, nil
}
