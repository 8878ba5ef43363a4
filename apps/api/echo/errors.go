package echoapi

import (
	"net/http"
	"sort"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/accommodation"
	"github.com/trezcool/accommodations/core/class"
	"github.com/trezcool/accommodations/core/schedule"
	"github.com/trezcool/accommodations/core/student"
	logsvc "github.com/trezcool/accommodations/services/logger"
)

const apiPrefix = "/api"

var errHttpNotFound = echo.NewHTTPError(http.StatusNotFound, "not found")

func isNotFound(err error) bool {
	switch errors.Cause(err) {
	case student.ErrNotFound, class.ErrNotFound, schedule.ErrNotFound, accommodation.ErrNotFound:
		return true
	default:
		return false
	}
}

// errorPage is rendered for failed HTML requests.
type errorPage struct {
	Code    int
	Status  string
	Message string
	Fields  []core.FieldError
}

// newAppHTTPErrorHandler returns a custom echo.HTTPErrorHandler that knows how to handle our errors.
// /api requests get JSON bodies, every other request gets the HTML error page.
func newAppHTTPErrorHandler(logger core.Logger, translator ut.Translator) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		var (
			code    int
			message string
			fields  []core.FieldError
		)

		switch origErr := errors.Cause(err).(type) {
		case *echo.HTTPError:
			if origErr.Internal != nil {
				if herr, ok := origErr.Internal.(*echo.HTTPError); ok {
					origErr = herr
				}
			}
			code = origErr.Code
			if m, ok := origErr.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(code)
			}
		case validator.ValidationErrors:
			fields = make([]core.FieldError, 0, len(origErr))
			for _, vErr := range origErr {
				fields = append(fields, core.FieldError{Field: vErr.Field(), Error: vErr.Translate(translator)})
			}
			code = http.StatusBadRequest
			message = "invalid input"
		case *core.ValidationError:
			fields = origErr.Fields
			code = http.StatusBadRequest
			message = origErr.Error()
		default:
			if isNotFound(err) {
				code = http.StatusNotFound
				message = errors.Cause(err).Error()
				break
			}

			// any other error is a server error
			code = http.StatusInternalServerError
			msg := http.StatusText(http.StatusInternalServerError)
			message = msg

			req := ctx.Request()
			logger.Error(msg, errors.Wrap(err, msg), logsvc.RequestInfo{
				ID:     ctx.Response().Header().Get(echo.HeaderXRequestID),
				Method: req.Method,
				Path:   req.URL.Path,
			})
		}

		if ctx.Echo().Debug {
			message = err.Error()
		}

		// Send response
		if ctx.Response().Committed {
			return
		}
		if ctx.Request().Method == http.MethodHead { // Issue #608
			err = ctx.NoContent(code)
		} else if strings.HasPrefix(ctx.Request().URL.Path, apiPrefix) {
			err = ctx.JSON(code, jsonError(message, fields))
		} else {
			err = ctx.Render(code, "error.html", newPage(ctx, http.StatusText(code), errorPage{
				Code:    code,
				Status:  http.StatusText(code),
				Message: message,
				Fields:  sortedFields(fields),
			}))
		}
		if err != nil {
			ctx.Echo().Logger.Error(err)
		}
	}
}

func jsonError(message string, fields []core.FieldError) interface{} {
	if len(fields) == 0 {
		return echo.Map{"error": message}
	}
	fldErrs := make(map[string]string, len(fields))
	for _, fErr := range fields {
		fldErrs[fErr.Field] = fErr.Error
	}
	return fldErrs
}

func sortedFields(fields []core.FieldError) []core.FieldError {
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return fields
}
