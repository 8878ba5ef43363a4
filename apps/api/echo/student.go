package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core/accommodation"
	"github.com/trezcool/accommodations/core/class"
	"github.com/trezcool/accommodations/core/student"
)

type studentForm struct {
	Classes        []class.Class
	Accommodations []accommodation.Type
	Levels         []string
	Sections       []string
	Grades         []int
}

func (app webApp) roster(ctx echo.Context) error {
	roster, err := app.deps.StudentSvc.Roster(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying roster")
	}
	return app.render(ctx, "index.html", "Students", roster)
}

func (app webApp) newStudentForm(ctx echo.Context) error {
	c := ctx.Request().Context()
	classes, err := app.deps.ClassSvc.QueryBySubject(c)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	types, err := app.deps.AccommodationSvc.QueryAll(c)
	if err != nil {
		return errors.Wrap(err, "querying accommodations")
	}
	return app.render(ctx, "add_student.html", "Add Student", studentForm{
		Classes:        classes,
		Accommodations: types,
		Levels:         student.Levels,
		Sections:       student.Sections,
		Grades:         student.Grades,
	})
}

func (app webApp) createStudent(ctx echo.Context) error {
	data, err := bindNewStudent(ctx)
	if err != nil {
		return err
	}
	if _, err = app.deps.StudentSvc.Create(ctx.Request().Context(), data); err != nil {
		return err
	}
	return redirectWithFlash(ctx, "/", flashSuccess, "Student added successfully!")
}

func (app webApp) viewStudent(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	detail, err := app.deps.StudentSvc.Detail(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return redirectWithFlash(ctx, "/", flashDanger, "Student not found")
		}
		return errors.Wrap(err, "getting student detail")
	}
	return app.render(ctx, "view_student.html", detail.Name, detail)
}

func (app webApp) deleteStudent(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	if err = app.deps.StudentSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return redirectWithFlash(ctx, "/", flashSuccess, "Student deleted successfully!")
}
