package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/accommodation"
	"github.com/trezcool/accommodations/core/class"
	"github.com/trezcool/accommodations/core/schedule"
	"github.com/trezcool/accommodations/core/student"
	"github.com/trezcool/accommodations/storage/database"
	"github.com/trezcool/accommodations/storage/database/sqlxrepos"
)

// NewConfig returns a test config backed by a fresh SQLite file.
func NewConfig(t *testing.T) *core.Config {
	t.Helper()
	return &core.Config{
		Env:      "TEST",
		Debug:    true,
		TestMode: true,
		AppName:  "Accommodations",
		Build:    "test",
		Server: core.ServerConfig{
			Address:         ":0",
			Host:            "localhost",
			DisableReqLogs:  true,
			ReadTimeout:     5 * time.Second,
			WriteTimeout:    5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Database: core.DatabaseConfig{
			Engine: core.EngineSQLite,
			Path:   filepath.Join(t.TempDir(), "test.db"),
		},
		School: core.SchoolConfig{LastPeriod: schedule.Period4th, TimeZone: "UTC"},
	}
}

// PrepareDB opens a migrated and seeded database, closed when the test ends.
func PrepareDB(t *testing.T, conf ...*core.Config) *sqlx.DB {
	t.Helper()

	c := NewConfig(t)
	if len(conf) > 0 {
		c = conf[0]
	}
	database.SetLogger(nil)

	db, err := database.Open(c)
	if err != nil {
		t.Fatalf("database.Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err = database.Initialize(context.Background(), db, c.Database.Engine); err != nil {
		t.Fatalf("database.Initialize() failed: %v", err)
	}
	return db
}

// NewValidator returns a validator with every domain validator registered.
func NewValidator() (*validator.Validate, ut.Translator) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	student.InitValidators(validate, translator)
	schedule.InitValidators(validate, translator)
	return validate, translator
}

func ClassByName(t *testing.T, db *sqlx.DB, name string) class.Class {
	t.Helper()
	classes, err := sqlxrepos.NewClassRepository(db).QueryClasses(context.Background(), class.OrderByName)
	if err != nil {
		t.Fatalf("QueryClasses() failed: %v", err)
	}
	for _, c := range classes {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("class %q not found", name)
	return class.Class{}
}

func AccommodationByName(t *testing.T, db *sqlx.DB, name string) accommodation.Type {
	t.Helper()
	types, err := sqlxrepos.NewAccommodationRepository(db).QueryTypes(context.Background())
	if err != nil {
		t.Fatalf("QueryTypes() failed: %v", err)
	}
	if typ, ok := accommodation.ByName(types)[core.CleanString(name, true)]; ok {
		return typ
	}
	t.Fatalf("accommodation %q not found", name)
	return accommodation.Type{}
}

func CreateStudent(t *testing.T, db *sqlx.DB, name string, grade int) student.Student {
	t.Helper()
	s, err := sqlxrepos.NewStudentRepository(db).CreateStudent(context.Background(), student.Student{
		Name:      name,
		Grade:     grade,
		DateAdded: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return s
}

// Enroll adds studentID to classID. Empty level or section are stored as NULL.
func Enroll(t *testing.T, db *sqlx.DB, studentID, classID int64, level, section string) student.Enrollment {
	t.Helper()
	e, err := sqlxrepos.NewStudentRepository(db).CreateEnrollment(context.Background(), student.Enrollment{
		StudentID:      studentID,
		ClassID:        classID,
		Level:          null.NewString(level, level != ""),
		Section:        null.NewString(section, section != ""),
		EnrollmentDate: null.TimeFrom(core.Today(time.UTC)),
	})
	if err != nil {
		t.Fatalf("CreateEnrollment() failed: %v", err)
	}
	return e
}

func Assign(t *testing.T, db *sqlx.DB, studentID, accommodationID int64, notes string) student.Assignment {
	t.Helper()
	a, err := sqlxrepos.NewStudentRepository(db).CreateAssignment(context.Background(), student.Assignment{
		StudentID:       studentID,
		AccommodationID: accommodationID,
		StartDate:       core.Today(time.UTC),
		Notes:           null.NewString(notes, notes != ""),
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return a
}

func CreateTest(t *testing.T, db *sqlx.DB, date time.Time, period string, classID int64, name string) schedule.Test {
	t.Helper()
	tst, err := sqlxrepos.NewScheduleRepository(db).CreateTest(context.Background(), schedule.Test{
		Date:    date,
		Period:  period,
		ClassID: classID,
		Name:    null.NewString(name, name != ""),
	})
	if err != nil {
		t.Fatalf("CreateTest() failed: %v", err)
	}
	return tst
}

// Count returns the number of rows of table matching where (may be empty).
func Count(t *testing.T, db *sqlx.DB, table, where string, args ...interface{}) int {
	t.Helper()
	q := "SELECT COUNT(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	if err := db.Get(&n, db.Rebind(q), args...); err != nil {
		t.Fatalf("Count(%s) failed: %v", table, err)
	}
	return n
}

// Logger is a core.Logger writing to the test log.
type Logger struct {
	t *testing.T
}

var _ core.Logger = (*Logger)(nil)

func NewLogger(t *testing.T) *Logger {
	return &Logger{t: t}
}

func (l Logger) log(level, msg string, args []interface{}) {
	l.t.Helper()
	l.t.Logf("%s: %s %v", level, msg, args)
}

func (l Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l Logger) Fatal(msg string, args ...interface{}) { l.t.Fatalf("FATAL: %s %v", msg, args) }
