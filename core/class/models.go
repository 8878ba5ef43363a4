package class

import (
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/accommodations/core"
)

// Class is a course offering students enroll in.
type Class struct {
	ID            int64       `db:"class_id" json:"id"`
	Name          string      `db:"class_name" json:"name"`
	Code          null.String `db:"class_code" json:"code"`
	SubjectArea   null.String `db:"subject_area" json:"subject_area"`
	AcademicLevel null.String `db:"academic_level" json:"academic_level"`
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name          string `form:"class_name" json:"class_name" validate:"notblank,max=200"`
	Code          string `form:"class_code" json:"class_code" validate:"max=20"`
	SubjectArea   string `form:"subject_area" json:"subject_area" validate:"max=100"`
	AcademicLevel string `form:"academic_level" json:"academic_level" validate:"max=50"`
}

func (nc *NewClass) clean() {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	nc.SubjectArea = core.CleanString(nc.SubjectArea)
	nc.AcademicLevel = core.CleanString(nc.AcademicLevel)
}

func (nc NewClass) toClass() Class {
	return Class{
		Name:          nc.Name,
		Code:          null.NewString(nc.Code, nc.Code != ""),
		SubjectArea:   null.NewString(nc.SubjectArea, nc.SubjectArea != ""),
		AcademicLevel: null.NewString(nc.AcademicLevel, nc.AcademicLevel != ""),
	}
}

// OrderFields are the columns classes can be ordered by.
var OrderFields = []string{"class_id", "class_name", "class_code", "subject_area", "academic_level"}

func isOrderField(field string) bool {
	for _, f := range OrderFields {
		if f == field {
			return true
		}
	}
	return false
}

var (
	// OrderBySubject lists classes grouped by subject area.
	OrderBySubject = []core.DBOrdering{{Field: "subject_area", Ascending: true}, {Field: "class_name", Ascending: true}}
	// OrderByName lists classes alphabetically.
	OrderByName = []core.DBOrdering{{Field: "class_name", Ascending: true}}
)

// DefaultClasses is the reference catalog seeded into an empty store.
var DefaultClasses = []Class{
	{Name: "Math Analysis & Approaches", Code: null.StringFrom("MAA"), SubjectArea: null.StringFrom("Mathematics")},
	{Name: "Physics", Code: null.StringFrom("PHY"), SubjectArea: null.StringFrom("Science")},
	{Name: "Biology", Code: null.StringFrom("BIO"), SubjectArea: null.StringFrom("Science")},
	{Name: "Chemistry", Code: null.StringFrom("CHEM"), SubjectArea: null.StringFrom("Science")},
	{Name: "English A", Code: null.StringFrom("ENG-A"), SubjectArea: null.StringFrom("Language")},
	{Name: "Spanish B", Code: null.StringFrom("SPA-B"), SubjectArea: null.StringFrom("Language")},
	{Name: "History", Code: null.StringFrom("HIST"), SubjectArea: null.StringFrom("Humanities")},
	{Name: "Computer Science", Code: null.StringFrom("CS"), SubjectArea: null.StringFrom("Technology")},
}

// ByCode indexes classes by case-insensitive class code, falling back to the class name
// for classes without a code.
func ByCode(classes []Class) map[string]Class {
	idx := make(map[string]Class, len(classes))
	for _, c := range classes {
		key := c.Name
		if c.Code.Valid && c.Code.String != "" {
			key = c.Code.String
		}
		idx[core.CleanString(key, true /* lower */)] = c
	}
	return idx
}
