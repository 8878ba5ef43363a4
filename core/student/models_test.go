package student

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/accommodations/core"
)

func TestEnrollment_Label(t *testing.T) {
	tests := []struct {
		name    string
		level   null.String
		section null.String
		want    string
	}{
		{name: "level and section", level: null.StringFrom("HL"), section: null.StringFrom(".1"), want: "Physics (HL .1)"},
		{name: "level only", level: null.StringFrom("SL"), want: "Physics (SL)"},
		{name: "section only", section: null.StringFrom(".3"), want: "Physics (.3)"},
		{name: "neither", want: "Physics"},
		{name: "empty strings", level: null.StringFrom(""), section: null.StringFrom(""), want: "Physics"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Enrollment{ClassName: "Physics", Level: tt.level, Section: tt.section}
			assert.Equal(t, tt.want, e.Label())
		})
	}
}

func newValidate() (*validator.Validate, func(error) map[string]string) {
	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)

	fields := func(err error) map[string]string {
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return nil
		}
		msgs := make(map[string]string, len(vErrs))
		for _, fe := range vErrs {
			msgs[fe.Field()] = fe.Translate(translator)
		}
		return msgs
	}
	return validate, fields
}

func TestNewStudent_validation(t *testing.T) {
	validate, fields := newValidate()

	tests := []struct {
		name       string
		ns         NewStudent
		wantFields map[string]string
	}{
		{name: "grade 9", ns: NewStudent{Name: "Asha Patel", Grade: 9}},
		{name: "grade 10", ns: NewStudent{Name: "Asha Patel", Grade: 10}},
		{name: "grade 11", ns: NewStudent{Name: "Asha Patel", Grade: 11}},
		{name: "grade 12", ns: NewStudent{Name: "Asha Patel", Grade: 12}},
		{name: "grade 8", ns: NewStudent{Name: "Asha Patel", Grade: 8}, wantFields: map[string]string{"grade": gradeText}},
		{name: "grade 13", ns: NewStudent{Name: "Asha Patel", Grade: 13}, wantFields: map[string]string{"grade": gradeText}},
		{name: "blank name", ns: NewStudent{Name: " ", Grade: 10}, wantFields: map[string]string{"name": "this field cannot be blank"}},
		{
			name: "full selection",
			ns: NewStudent{
				Name: "Asha Patel", Grade: 10,
				Classes:          []ClassSelection{{ClassID: 2, Level: "HL", Section: ".1"}, {ClassID: 3}},
				AccommodationIDs: []int64{1},
			},
		},
		{
			name: "bad level",
			ns: NewStudent{
				Name: "Asha Patel", Grade: 10,
				Classes: []ClassSelection{{ClassID: 2, Level: "AP"}},
			},
			wantFields: map[string]string{"level": levelText},
		},
		{
			name: "bad section",
			ns: NewStudent{
				Name: "Asha Patel", Grade: 10,
				Classes: []ClassSelection{{ClassID: 2, Section: ".4"}},
			},
			wantFields: map[string]string{"section": sectionText},
		},
		{
			name: "bad accommodation id",
			ns: NewStudent{
				Name: "Asha Patel", Grade: 10,
				AccommodationIDs: []int64{0},
			},
			wantFields: map[string]string{"accommodations[0]": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.ns.clean()
			err := validate.Struct(tt.ns)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			got := fields(err)
			for fld, msg := range tt.wantFields {
				require.Contains(t, got, fld)
				if msg != "" {
					assert.Equal(t, msg, got[fld])
				}
			}
		})
	}
}

func TestNewStudent_clean(t *testing.T) {
	ns := NewStudent{
		Name:    "  Asha Patel ",
		Notes:   " quiet room ",
		Classes: []ClassSelection{{ClassID: 2, Level: " hl", Section: " .1 "}},
	}
	ns.clean()

	assert.Equal(t, "Asha Patel", ns.Name)
	assert.Equal(t, "quiet room", ns.Notes)
	assert.Equal(t, []ClassSelection{{ClassID: 2, Level: "HL", Section: ".1"}}, ns.Classes)
}
