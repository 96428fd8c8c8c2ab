package contract

import (
	"context"

	"navi-be/internal/entity"
	"navi-be/internal/repository/specification"
)

type MatchRepository interface {
	Create(ctx context.Context, match *entity.Match) error
	CreateBulk(ctx context.Context, matches []*entity.Match) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Match, error)
	Delete(ctx context.Context, specs ...specification.Specification) error
}
