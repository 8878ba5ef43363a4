package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type webApp struct {
	deps ServerDeps
}

func registerWebRoutes(e *echo.Echo, deps ServerDeps) {
	app := webApp{deps: deps}
	getOrPost := []string{http.MethodGet, http.MethodPost}

	e.GET("/", app.roster)
	e.GET("/add_student", app.newStudentForm)
	e.POST("/add_student", app.createStudent)
	e.GET("/view_student/:id", app.viewStudent)
	e.Match(getOrPost, "/delete_student/:id", app.deleteStudent)

	e.GET("/manage_classes", app.manageClasses)
	e.POST("/manage_classes", app.createClass)
	e.Match(getOrPost, "/delete_class/:id", app.deleteClass)

	e.GET("/calendar", app.calendar)
	e.GET("/add_test", app.newTestForm)
	e.POST("/add_test", app.createTest)
	e.GET("/view_test/:id", app.viewTest)
	e.Match(getOrPost, "/delete_test/:id", app.deleteTest)

	e.GET("/export_roster", app.exportRoster)
	e.POST("/import_students", app.importStudents)
}

func (app webApp) render(ctx echo.Context, name, title string, data interface{}) error {
	return ctx.Render(http.StatusOK, name, newPage(ctx, title, data))
}
