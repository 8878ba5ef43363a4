package echoapi

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/services/spreadsheet"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (app webApp) exportRoster(ctx echo.Context) error {
	var buf bytes.Buffer
	if err := app.deps.SpreadsheetSvc.WriteRoster(ctx.Request().Context(), &buf); err != nil {
		return errors.Wrap(err, "exporting roster")
	}
	filename := fmt.Sprintf("roster-%s.xlsx", time.Now().Format(core.DateLayout))
	ctx.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return ctx.Blob(http.StatusOK, xlsxMIME, buf.Bytes())
}

func (app webApp) importStudents(ctx echo.Context) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "an .xlsx file is required"})
	}
	f, err := fh.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer func() { _ = f.Close() }()

	res, err := app.deps.SpreadsheetSvc.ImportStudents(ctx.Request().Context(), f)
	if err != nil {
		if cause := errors.Cause(err); cause == spreadsheet.ErrUnreadable || cause == spreadsheet.ErrNoSheet {
			return core.NewValidationError(cause, core.FieldError{Field: "file", Error: cause.Error()})
		}
		return errors.Wrap(err, "importing students")
	}

	if len(res.Imported) == 0 && len(res.Skipped) == 0 {
		return redirectWithFlash(ctx, "/", flashInfo, "No students found in the workbook.")
	}

	msg := fmt.Sprintf("Imported %d students.", len(res.Imported))
	kind := flashSuccess
	if len(res.Skipped) > 0 {
		kind = flashWarning
		msg += fmt.Sprintf(" Skipped %d rows (%s", len(res.Skipped), res.Skipped[0].Error())
		if len(res.Skipped) > 1 {
			msg += ", ..."
		}
		msg += ")."
	}
	return redirectWithFlash(ctx, "/", kind, msg)
}
