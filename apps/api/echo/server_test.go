package echoapi_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	. "github.com/trezcool/accommodations/apps/api/echo"
	"github.com/trezcool/accommodations/core/accommodation"
	"github.com/trezcool/accommodations/core/class"
	"github.com/trezcool/accommodations/core/schedule"
	"github.com/trezcool/accommodations/core/student"
	"github.com/trezcool/accommodations/services/spreadsheet"
	"github.com/trezcool/accommodations/storage/database/sqlxrepos"
	"github.com/trezcool/accommodations/tests"
)

func setup(t *testing.T) (Server, *sqlx.DB) {
	conf := testutil.NewConfig(t)
	db := testutil.PrepareDB(t, conf)
	validate, translator := testutil.NewValidator()
	logger := testutil.NewLogger(t)

	stdSvc := student.NewService(db, sqlxrepos.NewStudentRepository(db), validate, conf.School.Location())
	classSvc := class.NewService(sqlxrepos.NewClassRepository(db), validate)
	accSvc := accommodation.NewService(sqlxrepos.NewAccommodationRepository(db))

	srv, err := NewServer(ServerDeps{
		Conf:             conf,
		Logger:           logger,
		DB:               db,
		StudentSvc:       stdSvc,
		ClassSvc:         classSvc,
		AccommodationSvc: accSvc,
		ScheduleSvc:      schedule.NewService(sqlxrepos.NewScheduleRepository(db), validate, conf.School.LastPeriod),
		SpreadsheetSvc:   spreadsheet.NewService(stdSvc, classSvc, accSvc, logger),
		Translator:       translator,
	})
	require.NoError(t, err)
	return srv, db
}

type httpTest struct {
	name      string
	method    string
	path      string
	form      url.Values
	wantCode  int
	wantPath  string // redirect location
	wantFlash string
	wantBody  []string
}

func newRequest(method, path string, form url.Values, cookies ...*http.Cookie) (*http.Request, *httptest.ResponseRecorder) {
	var body *strings.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	} else {
		body = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req, httptest.NewRecorder()
}

// follow replays the redirect with the response cookies and returns the rendered page.
func follow(t *testing.T, srv Server, rec *httptest.ResponseRecorder) string {
	t.Helper()
	req, next := newRequest(http.MethodGet, rec.Header().Get("Location"), nil, rec.Result().Cookies()...)
	srv.ServeHTTP(next, req)
	require.Equal(t, http.StatusOK, next.Code)
	return next.Body.String()
}

func run(t *testing.T, srv Server, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.form)
			srv.ServeHTTP(rec, req)

			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			body := rec.Body.String()
			if tt.wantPath != "" {
				assert.Equal(t, tt.wantPath, rec.Header().Get("Location"))
				body = follow(t, srv, rec)
			}
			if tt.wantFlash != "" {
				assert.Contains(t, body, tt.wantFlash)
			}
			for _, want := range tt.wantBody {
				assert.Contains(t, body, want)
			}
		})
	}
}

func id(v int64) string {
	return strconv.FormatInt(v, 10)
}

func TestServer_students(t *testing.T) {
	srv, db := setup(t)
	phy := testutil.ClassByName(t, db, "Physics")
	bio := testutil.ClassByName(t, db, "Biology")
	ext25 := testutil.AccommodationByName(t, db, "Extended Time (25%)")
	ext50 := testutil.AccommodationByName(t, db, "Extended Time (50%)")

	asha := url.Values{}
	asha.Set("name", "Asha Patel")
	asha.Set("grade", "10")
	asha.Set("classes", id(phy.ID))
	asha.Set("level_"+id(phy.ID), "HL")
	asha.Set("section_"+id(phy.ID), ".1")
	asha.Set("class_"+id(bio.ID), "yes")
	asha.Add("accommodations", id(ext25.ID))
	asha.Add("accommodations", id(ext50.ID))
	asha.Set("notes", "front row")

	run(t, srv, []httpTest{
		{name: "empty roster", method: http.MethodGet, path: "/", wantCode: http.StatusOK, wantBody: []string{"No students yet."}},
		{name: "add student form", method: http.MethodGet, path: "/add_student", wantCode: http.StatusOK, wantBody: []string{
			`name="level_` + id(phy.ID) + `"`, "Extended Time (50%)", "Preferential Seating",
		}},
		{
			name:      "add student",
			method:    http.MethodPost,
			path:      "/add_student",
			form:      asha,
			wantCode:  http.StatusSeeOther,
			wantPath:  "/",
			wantFlash: "Student added successfully!",
			wantBody:  []string{"Asha Patel", "Physics (HL .1), Biology", "Extended Time (25%), Extended Time (50%)"},
		},
		{
			name:     "grade out of range",
			method:   http.MethodPost,
			path:     "/add_student",
			form:     url.Values{"name": {"Ben Okafor"}, "grade": {"13"}},
			wantCode: http.StatusBadRequest,
			wantBody: []string{"grade must be between 9 and 12"},
		},
		{
			name:     "invalid section",
			method:   http.MethodPost,
			path:     "/add_student",
			form:     url.Values{"name": {"Ben Okafor"}, "grade": {"11"}, "classes": {id(phy.ID)}, "section_" + id(phy.ID): {".7"}},
			wantCode: http.StatusBadRequest,
			wantBody: []string{"section must be one of .1, .2, .3"},
		},
		{
			name:     "blank name",
			method:   http.MethodPost,
			path:     "/add_student",
			form:     url.Values{"name": {"  "}, "grade": {"11"}},
			wantCode: http.StatusBadRequest,
			wantBody: []string{"this field cannot be blank"},
		},
		{name: "unknown student", method: http.MethodGet, path: "/view_student/999", wantCode: http.StatusSeeOther, wantPath: "/", wantFlash: "Student not found"},
		{name: "malformed id", method: http.MethodGet, path: "/view_student/lol", wantCode: http.StatusNotFound},
		{name: "delete unknown student", method: http.MethodGet, path: "/delete_student/999", wantCode: http.StatusSeeOther, wantPath: "/", wantFlash: "Student deleted successfully!"},
	})
	assert.Equal(t, 1, testutil.Count(t, db, "students", ""))
}

// tableRows counts the body rows of the table with the given id.
func tableRows(t *testing.T, page, tableID string) int {
	t.Helper()
	start := strings.Index(page, `id="`+tableID+`"`)
	require.NotEqual(t, -1, start, "table %s not rendered", tableID)
	table := page[start:]
	table = table[:strings.Index(table, "</table>")]
	body := table[strings.Index(table, "<tbody>"):]
	return strings.Count(body, "<tr>")
}

func TestServer_viewAndDeleteStudent(t *testing.T) {
	srv, db := setup(t)
	phy := testutil.ClassByName(t, db, "Physics")
	ext25 := testutil.AccommodationByName(t, db, "Extended Time (25%)")

	form := url.Values{}
	form.Set("name", "Asha Patel")
	form.Set("grade", "10")
	form.Set("classes", id(phy.ID))
	form.Set("level_"+id(phy.ID), "HL")
	form.Set("section_"+id(phy.ID), ".1")
	form.Set("accommodations", id(ext25.ID))

	req, rec := newRequest(http.MethodPost, "/add_student", form)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())

	var ashaID int64
	require.NoError(t, db.Get(&ashaID, "SELECT student_id FROM students WHERE student_name = ?", "Asha Patel"))

	req, rec = newRequest(http.MethodGet, "/view_student/"+id(ashaID), nil)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	page := rec.Body.String()

	assert.Contains(t, page, "Grade 10")
	assert.Equal(t, 1, tableRows(t, page, "classes"))
	assert.Equal(t, 1, tableRows(t, page, "accommodations"))
	for _, want := range []string{"Physics", "PHY", "HL", ".1", "Extended Time (25%)", "1.25x"} {
		assert.Contains(t, page, want)
	}

	run(t, srv, []httpTest{
		{name: "delete", method: http.MethodPost, path: "/delete_student/" + id(ashaID), wantCode: http.StatusSeeOther, wantPath: "/", wantFlash: "Student deleted successfully!"},
	})
	assert.Zero(t, testutil.Count(t, db, "students", ""))
	assert.Zero(t, testutil.Count(t, db, "student_classes", ""))
	assert.Zero(t, testutil.Count(t, db, "student_accommodations", ""))
}

func TestServer_classes(t *testing.T) {
	srv, db := setup(t)
	hist := testutil.ClassByName(t, db, "History")

	run(t, srv, []httpTest{
		{name: "list", method: http.MethodGet, path: "/manage_classes", wantCode: http.StatusOK, wantBody: []string{"Computer Science", "ENG-A"}},
		{
			name:      "add class",
			method:    http.MethodPost,
			path:      "/manage_classes",
			form:      url.Values{"class_name": {"Economics"}, "class_code": {"ECON"}, "subject_area": {"Humanities"}},
			wantCode:  http.StatusSeeOther,
			wantPath:  "/manage_classes",
			wantFlash: "Class added successfully!",
			wantBody:  []string{"Economics", "ECON"},
		},
		{
			name:     "duplicate name",
			method:   http.MethodPost,
			path:     "/manage_classes",
			form:     url.Values{"class_name": {"Physics"}},
			wantCode: http.StatusBadRequest,
			wantBody: []string{"a class with this name already exists"},
		},
		{name: "delete class", method: http.MethodPost, path: "/delete_class/" + id(hist.ID), wantCode: http.StatusSeeOther, wantPath: "/manage_classes", wantFlash: "Class deleted successfully!"},
		{name: "delete unknown class", method: http.MethodGet, path: "/delete_class/999", wantCode: http.StatusSeeOther, wantPath: "/manage_classes", wantFlash: "Class deleted successfully!"},
	})
	assert.Equal(t, 8, testutil.Count(t, db, "classes", ""))
}

func TestServer_tests(t *testing.T) {
	srv, db := setup(t)
	phy := testutil.ClassByName(t, db, "Physics")

	asha := testutil.CreateStudent(t, db, "Asha Patel", 10)
	testutil.Enroll(t, db, asha.ID, phy.ID, "HL", ".1")
	testutil.Assign(t, db, asha.ID, testutil.AccommodationByName(t, db, "Extended Time (25%)").ID, "")
	testutil.Assign(t, db, asha.ID, testutil.AccommodationByName(t, db, "Extended Time (50%)").ID, "")

	last := testutil.CreateTest(t, db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), schedule.Period4th, phy.ID, "Kinematics")
	first := testutil.CreateTest(t, db, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), schedule.Period1st, phy.ID, "Optics")

	run(t, srv, []httpTest{
		{name: "calendar", method: http.MethodGet, path: "/calendar", wantCode: http.StatusOK, wantBody: []string{"2024-03-18", "2024-03-15", "Kinematics", "Optics"}},
		{name: "add test form", method: http.MethodGet, path: "/add_test", wantCode: http.StatusOK, wantBody: []string{"4th (extra time before class)"}},
		{name: "last period report", method: http.MethodGet, path: "/view_test/" + id(last.ID), wantCode: http.StatusOK, wantBody: []string{
			schedule.BeforeClassAdvisory, "Asha Patel", "Extended Time (25%), Extended Time (50%)", "1.5x",
		}},
		{
			name:      "schedule test",
			method:    http.MethodPost,
			path:      "/add_test",
			form:      url.Values{"test_date": {"2024-04-02"}, "period": {"2nd"}, "class_id": {id(phy.ID)}, "test_name": {"Waves"}},
			wantCode:  http.StatusSeeOther,
			wantPath:  "/calendar",
			wantFlash: "Test added successfully!",
			wantBody:  []string{"Waves", "2024-04-02"},
		},
		{
			name:     "invalid period",
			method:   http.MethodPost,
			path:     "/add_test",
			form:     url.Values{"test_date": {"2024-04-02"}, "period": {"5th"}, "class_id": {id(phy.ID)}},
			wantCode: http.StatusBadRequest,
			wantBody: []string{"period must be one of 1st, 2nd, 3rd, 4th"},
		},
		{name: "unknown test", method: http.MethodGet, path: "/view_test/999", wantCode: http.StatusSeeOther, wantPath: "/calendar", wantFlash: "Test not found"},
		{name: "delete test", method: http.MethodPost, path: "/delete_test/" + id(last.ID), wantCode: http.StatusSeeOther, wantPath: "/calendar", wantFlash: "Test deleted successfully!"},
	})

	req, rec := newRequest(http.MethodGet, "/view_test/"+id(first.ID), nil)
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), schedule.BeforeClassAdvisory)
}

func TestServer_jsonAPI(t *testing.T) {
	srv, db := setup(t)
	phy := testutil.ClassByName(t, db, "Physics")
	asha := testutil.CreateStudent(t, db, "Asha Patel", 10)
	testutil.Enroll(t, db, asha.ID, phy.ID, "HL", ".1")
	testutil.Assign(t, db, asha.ID, testutil.AccommodationByName(t, db, "Extended Time (50%)").ID, "")
	tst := testutil.CreateTest(t, db, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), schedule.Period4th, phy.ID, "")

	get := func(path string) (int, map[string]interface{}, []interface{}) {
		req, rec := newRequest(http.MethodGet, path, nil)
		srv.ServeHTTP(rec, req)
		var obj map[string]interface{}
		var list []interface{}
		if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "[") {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		} else {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &obj))
		}
		return rec.Code, obj, list
	}

	code, _, list := get("/api/students")
	assert.Equal(t, http.StatusOK, code)
	if assert.Len(t, list, 1) {
		entry := list[0].(map[string]interface{})
		assert.Equal(t, []interface{}{"Physics (HL .1)"}, entry["classes"])
		assert.Equal(t, []interface{}{"Extended Time (50%)"}, entry["accommodations"])
	}

	code, obj, _ := get("/api/students/" + id(asha.ID))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Asha Patel", obj["name"])
	assert.Len(t, obj["classes"], 1)

	code, obj, _ = get("/api/students/999")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, map[string]interface{}{"error": "student not found"}, obj)

	code, _, list = get("/api/classes?ordering=-class_code")
	assert.Equal(t, http.StatusOK, code)
	if assert.Len(t, list, 8) {
		assert.Equal(t, "SPA-B", list[0].(map[string]interface{})["code"])
	}

	code, obj, _ = get("/api/classes?ordering=lol")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, map[string]interface{}{"ordering": "cannot order by lol"}, obj)

	code, obj, _ = get("/api/classes/" + id(phy.ID))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Physics", obj["name"])
	assert.Equal(t, "PHY", obj["code"])

	code, obj, _ = get("/api/classes/999")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, map[string]interface{}{"error": "class not found"}, obj)

	code, _, list = get("/api/accommodations")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, list, 4)

	ext25 := testutil.AccommodationByName(t, db, "Extended Time (25%)")
	code, obj, _ = get("/api/accommodations/" + id(ext25.ID))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1.25, obj["time_multiplier"])

	code, obj, _ = get("/api/accommodations/999")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, map[string]interface{}{"error": "accommodation not found"}, obj)

	code, _, list = get("/api/tests")
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, list, 1)

	code, obj, _ = get("/api/tests/" + id(tst.ID))
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, schedule.BeforeClassAdvisory, obj["advisory"])
	if students, ok := obj["students"].([]interface{}); assert.True(t, ok) && assert.Len(t, students, 1) {
		assert.Equal(t, 1.5, students[0].(map[string]interface{})["effective_multiplier"])
	}

	code, obj, _ = get("/api/nope")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Not Found", obj["error"])
}

func TestServer_healthzAndNotFound(t *testing.T) {
	srv, _ := setup(t)

	run(t, srv, []httpTest{
		{name: "healthz", method: http.MethodGet, path: "/healthz", wantCode: http.StatusOK, wantBody: []string{`"status":"ok"`}},
		{name: "unknown page", method: http.MethodGet, path: "/nope", wantCode: http.StatusNotFound, wantBody: []string{"404 Not Found"}},
	})
}

// upload posts rows as an .xlsx workbook to /import_students.
func upload(t *testing.T, srv Server, rows [][]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		row := row
		require.NoError(t, f.SetSheetRow(sheet, "A"+strconv.Itoa(i+1), &row))
	}
	var xlsx bytes.Buffer
	require.NoError(t, f.Write(&xlsx))
	_ = f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "students.xlsx")
	require.NoError(t, err)
	_, err = fw.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/import_students", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestServer_spreadsheet(t *testing.T) {
	srv, db := setup(t)

	// import
	rec := upload(t, srv, [][]interface{}{
		{"Name", "Grade", "Classes", "Accommodations", "Notes"},
		{"Asha Patel", 10, "PHY HL .1", "Extended Time (25%)", ""},
		{"Ben Okafor", 14, "", "", ""},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	page := follow(t, srv, rec)
	assert.Contains(t, page, "Imported 1 students. Skipped 1 rows (row 3:")
	assert.Contains(t, page, "Physics (HL .1)")
	assert.Equal(t, 1, testutil.Count(t, db, "students", ""))

	// nothing to import
	rec = upload(t, srv, [][]interface{}{{"Name", "Grade", "Classes", "Accommodations", "Notes"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, follow(t, srv, rec), "No students found in the workbook.")
	assert.Equal(t, 1, testutil.Count(t, db, "students", ""))

	// no file
	req, rec := newRequest(http.MethodPost, "/import_students", url.Values{})
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "an .xlsx file is required")

	// export
	req, rec = newRequest(http.MethodGet, "/export_roster", nil)
	srv.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment; filename=\"roster-")

	out, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = out.Close() }()
	rows, err := out.GetRows("Roster")
	require.NoError(t, err)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "Asha Patel", rows[1][1])
		assert.Equal(t, "Physics (HL .1)", rows[1][3])
	}
}
