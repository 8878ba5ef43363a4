package sqlxrepos

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/class"
)

type classRepository struct {
	exec core.DBExecutor
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(exec core.DBExecutor) *classRepository {
	return &classRepository{exec: exec}
}

const selectClasses = `
SELECT class_id, class_name, class_code, subject_area, academic_level
FROM classes`

func (repo classRepository) CreateClass(ctx context.Context, c class.Class, exec ...core.DBExecutor) (class.Class, error) {
	ex := getExec(repo.exec, exec)
	q := ex.Rebind(`
		INSERT INTO classes (class_name, class_code, subject_area, academic_level)
		VALUES (?, ?, ?, ?)
		RETURNING class_id`)
	if err := sqlx.GetContext(ctx, ex, &c.ID, q, c.Name, c.Code, c.SubjectArea, c.AcademicLevel); err != nil {
		if isUniqueViolation(err) {
			return class.Class{}, class.ErrNameExists
		}
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return c, nil
}

func (repo classRepository) QueryClasses(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]class.Class, error) {
	order := make([]string, 0, len(ordering)+1)
	allowed := make(map[string]bool, len(class.OrderFields))
	for _, f := range class.OrderFields {
		allowed[f] = true
	}
	for _, ord := range ordering {
		if !allowed[ord.Field] {
			return nil, errors.Errorf("cannot order classes by %q", ord.Field)
		}
		order = append(order, ord.String())
	}
	order = append(order, "class_id ASC")

	classes := make([]class.Class, 0)
	q := selectClasses + " ORDER BY " + strings.Join(order, ", ")
	if err := sqlx.SelectContext(ctx, getExec(repo.exec, exec), &classes, q); err != nil {
		return nil, errors.Wrap(err, "selecting classes")
	}
	return classes, nil
}

func (repo classRepository) GetClass(ctx context.Context, id int64, exec ...core.DBExecutor) (class.Class, error) {
	ex := getExec(repo.exec, exec)
	var c class.Class
	if err := sqlx.GetContext(ctx, ex, &c, ex.Rebind(selectClasses+" WHERE class_id = ?"), id); err != nil {
		return class.Class{}, trapNoRowsErr(err, class.ErrNotFound, "selecting class")
	}
	return c, nil
}

func (repo classRepository) CountClasses(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, getExec(repo.exec, exec), &n, "SELECT COUNT(*) FROM classes"); err != nil {
		return 0, errors.Wrap(err, "counting classes")
	}
	return n, nil
}

func (repo classRepository) DeleteClass(ctx context.Context, id int64, exec ...core.DBExecutor) (int, error) {
	ex := getExec(repo.exec, exec)
	res, err := ex.ExecContext(ctx, ex.Rebind("DELETE FROM classes WHERE class_id = ?"), id)
	if err != nil {
		return 0, errors.Wrap(err, "deleting class")
	}
	return rowsAffected(res, "deleting class")
}
