package contract

import (
	"context"

	"navi-be/internal/entity"
	"navi-be/internal/repository/specification"
)

type PersonaRepository interface {
	Create(ctx context.Context, persona *entity.Persona) error
	Update(ctx context.Context, persona *entity.Persona) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Persona, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Persona, error)
	Delete(ctx context.Context, specs ...specification.Specification) error
}
