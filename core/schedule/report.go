package schedule

import (
	"sort"
	"strings"

	"github.com/trezcool/accommodations/core/accommodation"
)

type impactKey struct {
	studentID int64
	section   string
	level     string
}

// BuildImpactReport groups rows per (student, section, level), lists each accommodation once
// and surfaces the highest time multiplier as the effective one.
// Students are ordered by section (absent first), name, level then ID.
func BuildImpactReport(rows []ImpactRow) []AffectedStudent {
	affected := make([]AffectedStudent, 0)
	multipliers := make([][]float64, 0)
	pos := make(map[impactKey]int)

	for _, row := range rows {
		key := impactKey{studentID: row.StudentID, section: row.Section.String, level: row.Level.String}
		i, ok := pos[key]
		if !ok {
			i = len(affected)
			pos[key] = i
			affected = append(affected, AffectedStudent{
				StudentID:      row.StudentID,
				Name:           row.StudentName,
				Grade:          row.Grade,
				Section:        row.Section,
				Level:          row.Level,
				Accommodations: []string{},
			})
			multipliers = append(multipliers, nil)
		}
		if !contains(affected[i].Accommodations, row.AccommodationName) {
			affected[i].Accommodations = append(affected[i].Accommodations, row.AccommodationName)
		}
		multipliers[i] = append(multipliers[i], row.TimeMultiplier)
	}

	for i := range affected {
		affected[i].EffectiveMultiplier = accommodation.EffectiveMultiplier(multipliers[i]...)
	}

	sort.SliceStable(affected, func(i, j int) bool {
		a, b := affected[i], affected[j]
		if a.Section.String != b.Section.String {
			return a.Section.String < b.Section.String
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		if a.Level.String != b.Level.String {
			return a.Level.String < b.Level.String
		}
		return a.StudentID < b.StudentID
	})
	return affected
}

// AdvisoryFor returns BeforeClassAdvisory when period is the last period of the day.
func AdvisoryFor(period, lastPeriod string) string {
	if lastPeriod == "" {
		lastPeriod = Period4th
	}
	if strings.EqualFold(period, lastPeriod) {
		return BeforeClassAdvisory
	}
	return ""
}

// AccommodationList joins the student's accommodations for display.
func (as AffectedStudent) AccommodationList() string {
	return strings.Join(as.Accommodations, ", ")
}

func contains(list []string, val string) bool {
	for _, v := range list {
		if v == val {
			return true
		}
	}
	return false
}
