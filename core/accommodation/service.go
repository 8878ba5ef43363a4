package accommodation

import (
	"context"
	"errors"

	"github.com/trezcool/accommodations/core"
)

var ErrNotFound = errors.New("accommodation not found")

type (
	Repository interface {
		CreateType(ctx context.Context, typ Type, exec ...core.DBExecutor) (Type, error)
		// QueryTypes returns the whole catalog ordered by name.
		QueryTypes(ctx context.Context, exec ...core.DBExecutor) ([]Type, error)
		GetType(ctx context.Context, id int64, exec ...core.DBExecutor) (Type, error)
		CountTypes(ctx context.Context, exec ...core.DBExecutor) (int, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) QueryAll(ctx context.Context) ([]Type, error) {
	return svc.repo.QueryTypes(ctx)
}

// GetByID returns the accommodation type or ErrNotFound.
func (svc *Service) GetByID(ctx context.Context, id int64) (Type, error) {
	return svc.repo.GetType(ctx, id)
}

// ByName indexes the catalog by case-insensitive accommodation name.
func ByName(types []Type) map[string]Type {
	idx := make(map[string]Type, len(types))
	for _, typ := range types {
		idx[core.CleanString(typ.Name, true /* lower */)] = typ
	}
	return idx
}
