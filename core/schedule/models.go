package schedule

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/accommodations/core"
)

// Periods
const (
	Period1st = "1st"
	Period2nd = "2nd"
	Period3rd = "3rd"
	Period4th = "4th"
)

var Periods = []string{Period1st, Period2nd, Period3rd, Period4th}

// BeforeClassAdvisory is attached to tests held in the last period of the day.
const BeforeClassAdvisory = "NOTICE: Extra time is BEFORE class for this test"

// Test is a scheduled test event for a class.
type Test struct {
	ID        int64       `db:"test_id" json:"id"`
	Date      time.Time   `db:"test_date" json:"date"`
	Period    string      `db:"period" json:"period"`
	ClassID   int64       `db:"class_id" json:"class_id"`
	Name      null.String `db:"test_name" json:"name"`
	Notes     null.String `db:"notes" json:"notes"`
	ClassName string      `db:"class_name" json:"class_name"`
	ClassCode null.String `db:"class_code" json:"class_code"`
}

// NewTest contains information needed to schedule a new Test.
type NewTest struct {
	Date    string `form:"test_date" json:"test_date" validate:"required,datetime=2006-01-02"`
	Period  string `form:"period" json:"period" validate:"period"`
	ClassID int64  `form:"class_id" json:"class_id" validate:"gt=0"`
	Name    string `form:"test_name" json:"test_name" validate:"max=200"`
	Notes   string `form:"notes" json:"notes"`
}

func (nt *NewTest) clean() {
	nt.Date = core.CleanString(nt.Date)
	nt.Period = core.CleanString(nt.Period, true /* lower */)
	nt.Name = core.CleanString(nt.Name)
	nt.Notes = core.CleanString(nt.Notes)
}

// ImpactRow is one (enrollment, accommodation) pair of a student enrolled in a test's class.
type ImpactRow struct {
	StudentID         int64       `db:"student_id"`
	StudentName       string      `db:"student_name"`
	Grade             int         `db:"grade"`
	Section           null.String `db:"section"`
	Level             null.String `db:"level"`
	AccommodationName string      `db:"accommodation_name"`
	TimeMultiplier    float64     `db:"time_multiplier"`
}

// AffectedStudent is an accommodated student sitting a test, per (student, section, level).
type AffectedStudent struct {
	StudentID           int64       `json:"student_id"`
	Name                string      `json:"name"`
	Grade               int         `json:"grade"`
	Section             null.String `json:"section"`
	Level               null.String `json:"level"`
	Accommodations      []string    `json:"accommodations"`
	EffectiveMultiplier float64     `json:"effective_multiplier"`
}

// Report is a test with the accommodated students it affects.
type Report struct {
	Test     Test              `json:"test"`
	Students []AffectedStudent `json:"students"`
	Advisory string            `json:"advisory,omitempty"`
}
