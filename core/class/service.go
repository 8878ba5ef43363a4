package class

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/accommodations/core"
)

var (
	// errors
	ErrNotFound   = errors.New("class not found")
	ErrNameExists = errors.New("a class with this name already exists")
)

type (
	Repository interface {
		CreateClass(ctx context.Context, c Class, exec ...core.DBExecutor) (Class, error)
		QueryClasses(ctx context.Context, ordering []core.DBOrdering, exec ...core.DBExecutor) ([]Class, error)
		GetClass(ctx context.Context, id int64, exec ...core.DBExecutor) (Class, error)
		CountClasses(ctx context.Context, exec ...core.DBExecutor) (int, error)
		// DeleteClass removes the class, its enrollments and scheduled tests.
		DeleteClass(ctx context.Context, id int64, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		repo     Repository
		validate *validator.Validate
	}
)

func NewService(repo Repository, validate *validator.Validate) *Service {
	return &Service{repo: repo, validate: validate}
}

func (svc *Service) Create(ctx context.Context, nc NewClass) (Class, error) {
	nc.clean()
	if err := svc.validate.Struct(nc); err != nil {
		return Class{}, err
	}
	c, err := svc.repo.CreateClass(ctx, nc.toClass())
	if err == ErrNameExists {
		return Class{}, core.NewValidationError(err, core.FieldError{Field: "class_name", Error: err.Error()})
	}
	return c, err
}

// Query lists all classes in the given order, by subject area then name by default.
func (svc *Service) Query(ctx context.Context, ordering []core.DBOrdering) ([]Class, error) {
	if len(ordering) == 0 {
		return svc.QueryBySubject(ctx)
	}
	for _, ord := range ordering {
		if !isOrderField(ord.Field) {
			return nil, core.NewValidationError(nil, core.FieldError{Field: "ordering", Error: "cannot order by " + ord.Field})
		}
	}
	return svc.repo.QueryClasses(ctx, ordering)
}

// QueryBySubject lists all classes ordered by subject area then name.
func (svc *Service) QueryBySubject(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx, OrderBySubject)
}

// QueryByName lists all classes ordered by name.
func (svc *Service) QueryByName(ctx context.Context) ([]Class, error) {
	return svc.repo.QueryClasses(ctx, OrderByName)
}

func (svc *Service) GetByID(ctx context.Context, id int64) (Class, error) {
	return svc.repo.GetClass(ctx, id)
}

// Delete removes a class. Deleting an unknown class is a no-op.
func (svc *Service) Delete(ctx context.Context, id int64) error {
	_, err := svc.repo.DeleteClass(ctx, id)
	return err
}
