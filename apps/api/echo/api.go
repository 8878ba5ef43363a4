package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// jsonApi is the read-only JSON view of the tracker.
type jsonApi struct {
	deps ServerDeps
}

func registerJSONAPI(g *echo.Group, deps ServerDeps) {
	api := jsonApi{deps: deps}

	g.GET("/students", api.queryStudents)
	g.GET("/students/:id", api.retrieveStudent)
	g.GET("/classes", api.queryClasses)
	g.GET("/classes/:id", api.retrieveClass)
	g.GET("/accommodations", api.queryAccommodations)
	g.GET("/accommodations/:id", api.retrieveAccommodation)
	g.GET("/tests", api.queryTests)
	g.GET("/tests/:id", api.retrieveTest)
}

func (api *jsonApi) queryStudents(ctx echo.Context) error {
	roster, err := api.deps.StudentSvc.Roster(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying roster")
	}
	return ctx.JSON(http.StatusOK, roster)
}

func (api *jsonApi) retrieveStudent(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	detail, err := api.deps.StudentSvc.Detail(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting student detail")
	}
	return ctx.JSON(http.StatusOK, detail)
}

func (api *jsonApi) queryClasses(ctx echo.Context) error {
	var ord Ordering
	ord.Bind(ctx)

	classes, err := api.deps.ClassSvc.Query(ctx.Request().Context(), ord.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *jsonApi) retrieveClass(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	c, err := api.deps.ClassSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *jsonApi) retrieveAccommodation(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	typ, err := api.deps.AccommodationSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "getting accommodation")
	}
	return ctx.JSON(http.StatusOK, typ)
}

func (api *jsonApi) queryAccommodations(ctx echo.Context) error {
	types, err := api.deps.AccommodationSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying accommodations")
	}
	return ctx.JSON(http.StatusOK, types)
}

func (api *jsonApi) queryTests(ctx echo.Context) error {
	tests, err := api.deps.ScheduleSvc.Calendar(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying calendar")
	}
	return ctx.JSON(http.StatusOK, tests)
}

func (api *jsonApi) retrieveTest(ctx echo.Context) error {
	id, err := parseID(ctx)
	if err != nil {
		return err
	}
	report, err := api.deps.ScheduleSvc.Report(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "building test report")
	}
	return ctx.JSON(http.StatusOK, report)
}
