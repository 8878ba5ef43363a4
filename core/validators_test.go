package core

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type formSample struct {
	Name  string `form:"name" validate:"notblank"`
	Color string `json:"color" validate:"required"`
	Size  string `validate:"omitempty,size"`
}

func TestInitValidators(t *testing.T) {
	validate := validator.New()
	translator := NewTranslator()
	InitValidators(validate, translator)
	require.NoError(t, validate.RegisterValidation("size", OneOfValidation("S", "M", "L")))

	tests := []struct {
		name       string
		sample     formSample
		wantFields map[string]string
	}{
		{name: "valid", sample: formSample{Name: "Asha", Color: "red", Size: "M"}},
		{name: "empty size is allowed", sample: formSample{Name: "Asha", Color: "red"}},
		{
			name:   "empty name",
			sample: formSample{Color: "red"},
			wantFields: map[string]string{
				"name": "this field cannot be blank",
			},
		},
		{
			name:   "blank name",
			sample: formSample{Name: "   ", Color: "red"},
			wantFields: map[string]string{
				"name": "this field cannot be blank",
			},
		},
		{
			name:   "missing json-tagged field",
			sample: formSample{Name: "Asha"},
			wantFields: map[string]string{
				"color": "this field is required",
			},
		},
		{
			name:       "bad size",
			sample:     formSample{Name: "Asha", Color: "red", Size: "XL"},
			wantFields: map[string]string{"Size": ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.sample)
			if tt.wantFields == nil {
				assert.NoError(t, err)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "got %T", err)
			got := make(map[string]string, len(vErrs))
			for _, fe := range vErrs {
				got[fe.Field()] = fe.Translate(translator)
			}
			for fld, msg := range tt.wantFields {
				assert.Contains(t, got, fld)
				if msg != "" {
					assert.Equal(t, msg, got[fld])
				}
			}
		})
	}
}

func TestValidationError_Error(t *testing.T) {
	assert.Equal(t, "", ValidationError{}.Error())
	assert.Equal(t, "name: taken", ValidationError{Fields: []FieldError{{Field: "name", Error: "taken"}}}.Error())
	assert.Equal(t, assert.AnError.Error(), NewValidationError(assert.AnError).Error())
}
