package database

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/accommodations/core"
	"github.com/trezcool/accommodations/core/accommodation"
	"github.com/trezcool/accommodations/core/class"
	"github.com/trezcool/accommodations/storage/database/sqlxrepos"
)

// Seed inserts the default accommodation types and classes into their tables when empty.
func Seed(ctx context.Context, db *sqlx.DB) error {
	accRepo := sqlxrepos.NewAccommodationRepository(db)
	classRepo := sqlxrepos.NewClassRepository(db)

	return core.RunInTx(ctx, db, func(tx core.DBExecutor) error {
		n, err := accRepo.CountTypes(ctx, tx)
		if err != nil {
			return err
		}
		if n == 0 {
			for _, typ := range accommodation.DefaultTypes {
				if _, err = accRepo.CreateType(ctx, typ, tx); err != nil {
					return errors.Wrap(err, "seeding accommodation types")
				}
			}
		}

		if n, err = classRepo.CountClasses(ctx, tx); err != nil {
			return err
		}
		if n == 0 {
			for _, c := range class.DefaultClasses {
				if _, err = classRepo.CreateClass(ctx, c, tx); err != nil {
					return errors.Wrap(err, "seeding classes")
				}
			}
		}
		return nil
	})
}
