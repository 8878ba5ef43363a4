package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core/class"
	"github.com/trezcool/accommodations/core/schedule"
)

type testForm struct {
	Classes    []class.Class
	Periods    []string
	LastPeriod string
}

func (app webApp) calendar(ctx echo.Context) error {
	tests, err := app.deps.ScheduleSvc.Calendar(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying calendar")
	}
	return app.render(ctx, "calendar.html", "Test Calendar", tests)
}

func (app webApp) newTestForm(ctx echo.Context) error {
	classes, err := app.deps.ClassSvc.QueryByName(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return app.render(ctx, "add_test.html", "Schedule Test", testForm{
		Classes:    classes,
		Periods:    schedule.Periods,
		LastPeriod: app.deps.ScheduleSvc.LastPeriod(),
	})
}

func (app webApp) createTest(ctx echo.Context) error {
	var data schedule.NewTest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTest")
	}
	if _, err := app.deps.ScheduleSvc.Create(ctx.Request().Context(), data); err != nil {
		return err
	}
	return redirectWithFlash(ctx, "/calendar", flashSuccess, "Test added successfully!")
}

func (app webApp) viewTest(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	report, err := app.deps.ScheduleSvc.Report(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == schedule.ErrNotFound {
			return redirectWithFlash(ctx, "/calendar", flashDanger, "Test not found")
		}
		return errors.Wrap(err, "building test report")
	}
	title := report.Test.ClassName
	if report.Test.Name.Valid {
		title = report.Test.Name.String
	}
	return app.render(ctx, "view_test.html", title, report)
}

func (app webApp) deleteTest(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	if err = app.deps.ScheduleSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting test")
	}
	return redirectWithFlash(ctx, "/calendar", flashSuccess, "Test deleted successfully!")
}
