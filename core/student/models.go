package student

import (
	"strings"
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/accommodations/core"
)

// Levels
const (
	LevelHigher   = "HL"
	LevelStandard = "SL"
)

// Sections
const (
	Section1 = ".1"
	Section2 = ".2"
	Section3 = ".3"
)

const (
	MinGrade = 9
	MaxGrade = 12
)

var (
	Levels   = []string{LevelHigher, LevelStandard}
	Sections = []string{Section1, Section2, Section3}
	Grades   = []int{9, 10, 11, 12}
)

type Student struct {
	ID        int64     `db:"student_id" json:"id"`
	Name      string    `db:"student_name" json:"name"`
	Grade     int       `db:"grade" json:"grade"`
	DateAdded time.Time `db:"date_added" json:"date_added"` // UTC
}

// Enrollment is a student's membership in a class, optionally qualified by level and section.
type Enrollment struct {
	ID             int64       `db:"student_class_id" json:"id"`
	StudentID      int64       `db:"student_id" json:"student_id"`
	ClassID        int64       `db:"class_id" json:"class_id"`
	ClassName      string      `db:"class_name" json:"class_name"`
	ClassCode      null.String `db:"class_code" json:"class_code"`
	SubjectArea    null.String `db:"subject_area" json:"subject_area"`
	Level          null.String `db:"level" json:"level"`
	Section        null.String `db:"section" json:"section"`
	EnrollmentDate null.Time   `db:"enrollment_date" json:"enrollment_date"`
}

// Label formats the enrollment as "name (level section)", dropping whichever qualifier is absent.
func (e Enrollment) Label() string {
	quals := make([]string, 0, 2)
	if e.Level.Valid && e.Level.String != "" {
		quals = append(quals, e.Level.String)
	}
	if e.Section.Valid && e.Section.String != "" {
		quals = append(quals, e.Section.String)
	}
	if len(quals) == 0 {
		return e.ClassName
	}
	return e.ClassName + " (" + strings.Join(quals, " ") + ")"
}

// Assignment links a student to an accommodation type from a start date.
type Assignment struct {
	ID                   int64       `db:"student_accommodation_id" json:"id"`
	StudentID            int64       `db:"student_id" json:"student_id"`
	AccommodationID      int64       `db:"accommodation_id" json:"accommodation_id"`
	Name                 string      `db:"accommodation_name" json:"name"`
	Description          null.String `db:"description" json:"description"`
	TimeMultiplier       float64     `db:"time_multiplier" json:"time_multiplier"`
	RequiresSeparateRoom bool        `db:"requires_separate_room" json:"requires_separate_room"`
	StartDate            time.Time   `db:"start_date" json:"start_date"`
	Notes                null.String `db:"notes" json:"notes"`
}

// Detail is a student with every enrollment and accommodation assignment.
type Detail struct {
	Student
	Classes        []Enrollment `json:"classes"`
	Accommodations []Assignment `json:"accommodations"`
}

// ClassSelection is one class picked on the new student form.
type ClassSelection struct {
	ClassID int64  `form:"class_id" json:"class_id" validate:"gt=0"`
	Level   string `form:"level" json:"level" validate:"omitempty,level"`
	Section string `form:"section" json:"section" validate:"omitempty,section"`
}

// NewStudent contains information needed to create a new Student with their enrollments
// and accommodations.
type NewStudent struct {
	Name             string           `form:"name" json:"name" validate:"notblank,max=200"`
	Grade            int              `form:"grade" json:"grade" validate:"grade"`
	Classes          []ClassSelection `form:"classes" json:"classes" validate:"dive"`
	AccommodationIDs []int64          `form:"accommodations" json:"accommodations" validate:"dive,gt=0"`
	Notes            string           `form:"notes" json:"notes"`
}

func (ns *NewStudent) clean() {
	ns.Name = core.CleanString(ns.Name)
	ns.Notes = core.CleanString(ns.Notes)
	for i := range ns.Classes {
		ns.Classes[i].Level = strings.ToUpper(core.CleanString(ns.Classes[i].Level))
		ns.Classes[i].Section = core.CleanString(ns.Classes[i].Section)
	}
}
