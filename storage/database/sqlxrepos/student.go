package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/student"
)

type studentRepository struct {
	exec core.DBExecutor
}

var _ student.Repository = (*studentRepository)(nil) // interface compliance check

func NewStudentRepository(exec core.DBExecutor) *studentRepository {
	return &studentRepository{exec: exec}
}

const (
	selectStudents = `
SELECT student_id, student_name, grade, date_added
FROM students`

	selectEnrollments = `
SELECT sc.student_class_id, sc.student_id, sc.class_id, c.class_name, c.class_code, c.subject_area,
       sc.level, sc.section, sc.enrollment_date
FROM student_classes sc
JOIN classes c ON c.class_id = sc.class_id`

	selectAssignments = `
SELECT sa.student_accommodation_id, sa.student_id, sa.accommodation_id, a.accommodation_name,
       a.description, a.time_multiplier, a.requires_separate_room, sa.start_date, sa.notes
FROM student_accommodations sa
JOIN accommodation_types a ON a.accommodation_id = sa.accommodation_id`
)

func (repo studentRepository) CreateStudent(ctx context.Context, s student.Student, exec ...core.DBExecutor) (student.Student, error) {
	ex := getExec(repo.exec, exec)
	q := ex.Rebind(`
		INSERT INTO students (student_name, grade, date_added)
		VALUES (?, ?, ?)
		RETURNING student_id`)
	s.DateAdded = s.DateAdded.UTC()
	if err := sqlx.GetContext(ctx, ex, &s.ID, q, s.Name, s.Grade, s.DateAdded); err != nil {
		return student.Student{}, errors.Wrap(err, "inserting student")
	}
	return s, nil
}

func (repo studentRepository) CreateEnrollment(ctx context.Context, e student.Enrollment, exec ...core.DBExecutor) (student.Enrollment, error) {
	ex := getExec(repo.exec, exec)
	q := ex.Rebind(`
		INSERT INTO student_classes (student_id, class_id, level, section, enrollment_date)
		VALUES (?, ?, ?, ?, ?)
		RETURNING student_class_id`)
	if err := sqlx.GetContext(ctx, ex, &e.ID, q, e.StudentID, e.ClassID, e.Level, e.Section, e.EnrollmentDate); err != nil {
		return student.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return e, nil
}

func (repo studentRepository) CreateAssignment(ctx context.Context, a student.Assignment, exec ...core.DBExecutor) (student.Assignment, error) {
	ex := getExec(repo.exec, exec)
	q := ex.Rebind(`
		INSERT INTO student_accommodations (student_id, accommodation_id, start_date, notes)
		VALUES (?, ?, ?, ?)
		RETURNING student_accommodation_id`)
	if err := sqlx.GetContext(ctx, ex, &a.ID, q, a.StudentID, a.AccommodationID, a.StartDate, a.Notes); err != nil {
		return student.Assignment{}, errors.Wrap(err, "inserting accommodation assignment")
	}
	return a, nil
}

func (repo studentRepository) QueryStudents(ctx context.Context, exec ...core.DBExecutor) ([]student.Student, error) {
	students := make([]student.Student, 0)
	if err := sqlx.SelectContext(ctx, getExec(repo.exec, exec), &students, selectStudents+" ORDER BY student_id"); err != nil {
		return nil, errors.Wrap(err, "selecting students")
	}
	return students, nil
}

func (repo studentRepository) GetStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (student.Student, error) {
	ex := getExec(repo.exec, exec)
	var s student.Student
	if err := sqlx.GetContext(ctx, ex, &s, ex.Rebind(selectStudents+" WHERE student_id = ?"), id); err != nil {
		return student.Student{}, trapNoRowsErr(err, student.ErrNotFound, "selecting student")
	}
	return s, nil
}

func (repo studentRepository) QueryEnrollments(ctx context.Context, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Enrollment, error) {
	ex := getExec(repo.exec, exec)
	q, args := selectEnrollments, make([]interface{}, 0, 1)
	if filter.StudentID != 0 {
		q += " WHERE sc.student_id = ?"
		args = append(args, filter.StudentID)
	}
	q += " ORDER BY sc.student_class_id"

	enrollments := make([]student.Enrollment, 0)
	if err := sqlx.SelectContext(ctx, ex, &enrollments, ex.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting enrollments")
	}
	return enrollments, nil
}

func (repo studentRepository) QueryAssignments(ctx context.Context, filter student.QueryFilter, exec ...core.DBExecutor) ([]student.Assignment, error) {
	ex := getExec(repo.exec, exec)
	q, args := selectAssignments, make([]interface{}, 0, 1)
	if filter.StudentID != 0 {
		q += " WHERE sa.student_id = ?"
		args = append(args, filter.StudentID)
	}
	q += " ORDER BY sa.student_accommodation_id"

	assignments := make([]student.Assignment, 0)
	if err := sqlx.SelectContext(ctx, ex, &assignments, ex.Rebind(q), args...); err != nil {
		return nil, errors.Wrap(err, "selecting accommodation assignments")
	}
	return assignments, nil
}

func (repo studentRepository) DeleteStudent(ctx context.Context, id int64, exec ...core.DBExecutor) (int, error) {
	ex := getExec(repo.exec, exec)
	res, err := ex.ExecContext(ctx, ex.Rebind("DELETE FROM students WHERE student_id = ?"), id)
	if err != nil {
		return 0, errors.Wrap(err, "deleting student")
	}
	return rowsAffected(res, "deleting student")
}
