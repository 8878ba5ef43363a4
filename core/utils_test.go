package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCleanString(t *testing.T) {
	assert.Equal(t, "Asha Patel", CleanString("  Asha Patel \n"))
	assert.Equal(t, "hl", CleanString(" HL ", true /* lower */))
}

func TestDateOf(t *testing.T) {
	kampala := time.FixedZone("EAT", 3*60*60)
	late := time.Date(2026, time.October, 19, 23, 30, 0, 0, kampala)

	got := DateOf(late)
	assert.Equal(t, time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC), got)
	assert.Equal(t, "2026-10-19", got.Format(DateLayout))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate(" 2026-11-02 ")
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("02/11/2026")
	assert.Error(t, err)
}
