package sqlxrepos

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/accommodation"
)

type accommodationRepository struct {
	exec core.DBExecutor
}

var _ accommodation.Repository = (*accommodationRepository)(nil) // interface compliance check

func NewAccommodationRepository(exec core.DBExecutor) *accommodationRepository {
	return &accommodationRepository{exec: exec}
}

const selectTypes = `
SELECT accommodation_id, accommodation_name, description, time_multiplier, requires_separate_room
FROM accommodation_types`

func (repo accommodationRepository) CreateType(ctx context.Context, typ accommodation.Type, exec ...core.DBExecutor) (accommodation.Type, error) {
	if typ.TimeMultiplier == 0 {
		typ.TimeMultiplier = accommodation.BaseMultiplier
	}
	ex := getExec(repo.exec, exec)
	q := ex.Rebind(`
		INSERT INTO accommodation_types (accommodation_name, description, time_multiplier, requires_separate_room)
		VALUES (?, ?, ?, ?)
		RETURNING accommodation_id`)
	if err := sqlx.GetContext(ctx, ex, &typ.ID, q, typ.Name, typ.Description, typ.TimeMultiplier, typ.RequiresSeparateRoom); err != nil {
		return accommodation.Type{}, errors.Wrap(err, "inserting accommodation type")
	}
	return typ, nil
}

func (repo accommodationRepository) QueryTypes(ctx context.Context, exec ...core.DBExecutor) ([]accommodation.Type, error) {
	types := make([]accommodation.Type, 0)
	if err := sqlx.SelectContext(ctx, getExec(repo.exec, exec), &types, selectTypes+" ORDER BY accommodation_name, accommodation_id"); err != nil {
		return nil, errors.Wrap(err, "selecting accommodation types")
	}
	return types, nil
}

func (repo accommodationRepository) GetType(ctx context.Context, id int64, exec ...core.DBExecutor) (accommodation.Type, error) {
	ex := getExec(repo.exec, exec)
	var typ accommodation.Type
	if err := sqlx.GetContext(ctx, ex, &typ, ex.Rebind(selectTypes+" WHERE accommodation_id = ?"), id); err != nil {
		return accommodation.Type{}, trapNoRowsErr(err, accommodation.ErrNotFound, "selecting accommodation type")
	}
	return typ, nil
}

func (repo accommodationRepository) CountTypes(ctx context.Context, exec ...core.DBExecutor) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, getExec(repo.exec, exec), &n, "SELECT COUNT(*) FROM accommodation_types"); err != nil {
		return 0, errors.Wrap(err, "counting accommodation types")
	}
	return n, nil
}
