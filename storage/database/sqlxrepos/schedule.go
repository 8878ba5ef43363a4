package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/schedule"
)

type scheduleRepository struct {
	exec core.DBExecutor
}

var _ schedule.Repository = (*scheduleRepository)(nil) // interface compliance check

func NewScheduleRepository(exec core.DBExecutor) *scheduleRepository {
	return &scheduleRepository{exec: exec}
}

const (
	selectTests = `
SELECT t.test_id, t.test_date, t.period, t.class_id, t.test_name, t.notes, c.class_name, c.class_code
FROM test_schedule t
JOIN classes c ON c.class_id = t.class_id`

	// only students holding at least one accommodation survive the inner joins
	selectImpactRows = `
SELECT s.student_id, s.student_name, s.grade, sc.section, sc.level, a.accommodation_name, a.time_multiplier
FROM student_classes sc
JOIN students s ON s.student_id = sc.student_id
JOIN student_accommodations sa ON sa.student_id = s.student_id
JOIN accommodation_types a ON a.accommodation_id = sa.accommodation_id
WHERE sc.class_id = ?
ORDER BY sc.student_class_id, sa.student_accommodation_id`
)

func (repo scheduleRepository) CreateTest(ctx context.Context, t schedule.Test, exec ...core.DBExecutor) (schedule.Test, error) {
	ex := getExec(repo.exec, exec)
	q := ex.Rebind(`
		INSERT INTO test_schedule (test_date, period, class_id, test_name, notes)
		VALUES (?, ?, ?, ?, ?)
		RETURNING test_id`)
	t.Date = core.DateOf(t.Date)
	if err := sqlx.GetContext(ctx, ex, &t.ID, q, t.Date, t.Period, t.ClassID, t.Name, t.Notes); err != nil {
		return schedule.Test{}, errors.Wrap(err, "inserting test")
	}
	return t, nil
}

func (repo scheduleRepository) QueryTests(ctx context.Context, exec ...core.DBExecutor) ([]schedule.Test, error) {
	tests := make([]schedule.Test, 0)
	q := selectTests + " ORDER BY t.test_date DESC, t.period ASC, t.test_id ASC"
	if err := sqlx.SelectContext(ctx, getExec(repo.exec, exec), &tests, q); err != nil {
		return nil, errors.Wrap(err, "selecting tests")
	}
	return tests, nil
}

func (repo scheduleRepository) GetTest(ctx context.Context, id int64, exec ...core.DBExecutor) (schedule.Test, error) {
	ex := getExec(repo.exec, exec)
	var t schedule.Test
	if err := sqlx.GetContext(ctx, ex, &t, ex.Rebind(selectTests+" WHERE t.test_id = ?"), id); err != nil {
		return schedule.Test{}, trapNoRowsErr(err, schedule.ErrNotFound, "selecting test")
	}
	return t, nil
}

func (repo scheduleRepository) QueryImpactRows(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]schedule.ImpactRow, error) {
	ex := getExec(repo.exec, exec)
	rows := make([]schedule.ImpactRow, 0)
	if err := sqlx.SelectContext(ctx, ex, &rows, ex.Rebind(selectImpactRows), classID); err != nil {
		return nil, errors.Wrap(err, "selecting test impact")
	}
	return rows, nil
}

func (repo scheduleRepository) DeleteTest(ctx context.Context, id int64, exec ...core.DBExecutor) (int, error) {
	ex := getExec(repo.exec, exec)
	res, err := ex.ExecContext(ctx, ex.Rebind("DELETE FROM test_schedule WHERE test_id = ?"), id)
	if err != nil {
		return 0, errors.Wrap(err, "deleting test")
	}
	return rowsAffected(res, "deleting test")
}
