package student

import "strings"

// RosterEntry is one row of the roster: a student with their distinct class labels and
// accommodation names.
type RosterEntry struct {
	Student
	Classes        []string `json:"classes"`
	Accommodations []string `json:"accommodations"`
}

func (re RosterEntry) ClassList() string {
	return strings.Join(re.Classes, ", ")
}

func (re RosterEntry) AccommodationList() string {
	return strings.Join(re.Accommodations, ", ")
}

// BuildRoster aggregates enrollments and assignments per student.
// Every student yields exactly one entry, in the order given, even without any enrollment
// or assignment. Duplicate labels and names are listed once.
func BuildRoster(students []Student, enrollments []Enrollment, assignments []Assignment) []RosterEntry {
	entries := make([]RosterEntry, len(students))
	pos := make(map[int64]int, len(students))
	for i, s := range students {
		entries[i] = RosterEntry{Student: s, Classes: []string{}, Accommodations: []string{}}
		pos[s.ID] = i
	}

	for _, e := range enrollments {
		if i, ok := pos[e.StudentID]; ok {
			entries[i].Classes = appendDistinct(entries[i].Classes, e.Label())
		}
	}
	for _, a := range assignments {
		if i, ok := pos[a.StudentID]; ok {
			entries[i].Accommodations = appendDistinct(entries[i].Accommodations, a.Name)
		}
	}
	return entries
}

func appendDistinct(list []string, val string) []string {
	for _, v := range list {
		if v == val {
			return list
		}
	}
	return append(list, val)
}
