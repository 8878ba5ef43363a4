package schedule

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/accommodations/core"
)

var (
	// errors
	ErrNotFound = errors.New("test not found")
)

type (
	Repository interface {
		CreateTest(ctx context.Context, t Test, exec ...core.DBExecutor) (Test, error)
		// QueryTests returns all tests with their class, most recent date first then by period.
		QueryTests(ctx context.Context, exec ...core.DBExecutor) ([]Test, error)
		GetTest(ctx context.Context, id int64, exec ...core.DBExecutor) (Test, error)
		// QueryImpactRows returns one row per (enrollment, accommodation) of the accommodated
		// students enrolled in classID.
		QueryImpactRows(ctx context.Context, classID int64, exec ...core.DBExecutor) ([]ImpactRow, error)
		DeleteTest(ctx context.Context, id int64, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		repo       Repository
		validate   *validator.Validate
		lastPeriod string
	}
)

func NewService(repo Repository, validate *validator.Validate, lastPeriod string) *Service {
	if lastPeriod == "" {
		lastPeriod = Period4th
	}
	return &Service{repo: repo, validate: validate, lastPeriod: lastPeriod}
}

func (svc *Service) LastPeriod() string {
	return svc.lastPeriod
}

func (svc *Service) Create(ctx context.Context, nt NewTest) (Test, error) {
	nt.clean()
	if err := svc.validate.Struct(nt); err != nil {
		return Test{}, err
	}
	date, err := core.ParseDate(nt.Date)
	if err != nil {
		return Test{}, core.NewValidationError(err, core.FieldError{Field: "test_date", Error: "invalid date"})
	}
	return svc.repo.CreateTest(ctx, Test{
		Date:    date,
		Period:  nt.Period,
		ClassID: nt.ClassID,
		Name:    null.NewString(nt.Name, nt.Name != ""),
		Notes:   null.NewString(nt.Notes, nt.Notes != ""),
	})
}

// Calendar lists all scheduled tests, most recent date first.
func (svc *Service) Calendar(ctx context.Context) ([]Test, error) {
	return svc.repo.QueryTests(ctx)
}

// GetByID returns the test or ErrNotFound.
func (svc *Service) GetByID(ctx context.Context, id int64) (Test, error) {
	return svc.repo.GetTest(ctx, id)
}

// Report returns the test, the accommodated students of its class and the period advisory.
func (svc *Service) Report(ctx context.Context, id int64) (Report, error) {
	t, err := svc.GetByID(ctx, id)
	if err != nil {
		return Report{}, err
	}
	rows, err := svc.repo.QueryImpactRows(ctx, t.ClassID)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Test:     t,
		Students: BuildImpactReport(rows),
		Advisory: AdvisoryFor(t.Period, svc.lastPeriod),
	}, nil
}

// Delete removes a test. Deleting an unknown test is a no-op.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	_, err := svc.repo.DeleteTest(ctx, id)
	return err
}
