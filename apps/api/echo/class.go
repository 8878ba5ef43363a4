package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core/class"
)

func (app webApp) manageClasses(ctx echo.Context) error {
	classes, err := app.deps.ClassSvc.QueryBySubject(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return app.render(ctx, "manage_classes.html", "Manage Classes", classes)
}

func (app webApp) createClass(ctx echo.Context) error {
	var data class.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if _, err := app.deps.ClassSvc.Create(ctx.Request().Context(), data); err != nil {
		return err
	}
	return redirectWithFlash(ctx, "/manage_classes", flashSuccess, "Class added successfully!")
}

func (app webApp) deleteClass(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	if err = app.deps.ClassSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return redirectWithFlash(ctx, "/manage_classes", flashSuccess, "Class deleted successfully!")
}
