package student

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/accommodations/core"
)

var (
	// errors
	ErrNotFound = errors.New("student not found")
)

type (
	// QueryFilter narrows enrollment and assignment queries. A zero StudentID means all students.
	QueryFilter struct {
		StudentID int64
	}

	Repository interface {
		CreateStudent(ctx context.Context, s Student, exec ...core.DBExecutor) (Student, error)
		CreateEnrollment(ctx context.Context, e Enrollment, exec ...core.DBExecutor) (Enrollment, error)
		CreateAssignment(ctx context.Context, a Assignment, exec ...core.DBExecutor) (Assignment, error)
		// QueryStudents returns all students by ascending ID.
		QueryStudents(ctx context.Context, exec ...core.DBExecutor) ([]Student, error)
		GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (Student, error)
		// QueryEnrollments returns enrollments joined with their class, in insertion order.
		QueryEnrollments(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Enrollment, error)
		// QueryAssignments returns assignments joined with their accommodation type, in insertion order.
		QueryAssignments(ctx context.Context, filter QueryFilter, exec ...core.DBExecutor) ([]Assignment, error)
		// DeleteStudent removes the student, their enrollments and assignments.
		DeleteStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		db       core.DB
		repo     Repository
		validate *validator.Validate
		loc      *time.Location
		now      func() time.Time
	}
)

func NewService(db core.DB, repo Repository, validate *validator.Validate, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{
		db:       db,
		repo:     repo,
		validate: validate,
		loc:      loc,
		now:      time.Now,
	}
}

// Create validates ns and inserts the student with one enrollment per selected class and
// one assignment per selected accommodation, all dated today, in a single transaction.
func (svc *Service) Create(ctx context.Context, ns NewStudent) (Student, error) {
	ns.clean()
	if err := svc.validate.Struct(ns); err != nil {
		return Student{}, err
	}

	now := svc.now()
	today := core.DateOf(now.In(svc.loc))
	var usr Student

	err := core.RunInTx(ctx, svc.db, func(tx core.DBExecutor) error {
		var err error
		usr, err = svc.repo.CreateStudent(ctx, Student{Name: ns.Name, Grade: ns.Grade, DateAdded: now.UTC()}, tx)
		if err != nil {
			return err
		}

		for _, sel := range ns.Classes {
			_, err = svc.repo.CreateEnrollment(ctx, Enrollment{
				StudentID:      usr.ID,
				ClassID:        sel.ClassID,
				Level:          null.NewString(sel.Level, sel.Level != ""),
				Section:        null.NewString(sel.Section, sel.Section != ""),
				EnrollmentDate: null.TimeFrom(today),
			}, tx)
			if err != nil {
				return err
			}
		}

		for _, accID := range ns.AccommodationIDs {
			_, err = svc.repo.CreateAssignment(ctx, Assignment{
				StudentID:       usr.ID,
				AccommodationID: accID,
				StartDate:       today,
				Notes:           null.NewString(ns.Notes, ns.Notes != ""),
			}, tx)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return Student{}, err
	}
	return usr, nil
}

// Roster returns one entry per student by ascending ID.
func (svc *Service) Roster(ctx context.Context) ([]RosterEntry, error) {
	students, err := svc.repo.QueryStudents(ctx)
	if err != nil {
		return nil, err
	}
	enrollments, err := svc.repo.QueryEnrollments(ctx, QueryFilter{})
	if err != nil {
		return nil, err
	}
	assignments, err := svc.repo.QueryAssignments(ctx, QueryFilter{})
	if err != nil {
		return nil, err
	}
	return BuildRoster(students, enrollments, assignments), nil
}

// Detail returns the student with all their enrollments and assignments, or ErrNotFound.
func (svc *Service) Detail(ctx context.Context, id int64) (Detail, error) {
	usr, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	filter := QueryFilter{StudentID: id}
	enrollments, err := svc.repo.QueryEnrollments(ctx, filter)
	if err != nil {
		return Detail{}, err
	}
	assignments, err := svc.repo.QueryAssignments(ctx, filter)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Student: usr, Classes: enrollments, Accommodations: assignments}, nil
}

// Delete removes a student. Deleting an unknown student is a no-op.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	_, err := svc.repo.DeleteStudent(ctx, id)
	return err
}
