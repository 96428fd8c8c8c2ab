package implementation

import (
	"context"

	"navi-be/internal/entity"
	"navi-be/internal/mapper"
	"navi-be/internal/model"
	"navi-be/internal/repository/contract"
	"navi-be/internal/repository/specification"

	"gorm.io/gorm"
)

type MatchRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MatchMapper
}

func NewMatchRepository(db *gorm.DB) contract.MatchRepository {
	return &MatchRepositoryImpl{
		db:     db,
		mapper: mapper.NewMatchMapper(),
	}
}

func (r *MatchRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MatchRepositoryImpl) Create(ctx context.Context, match *entity.Match) error {
	m := r.mapper.ToModel(match)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*match = *r.mapper.ToEntity(m)
	return nil
}

func (r *MatchRepositoryImpl) CreateBulk(ctx context.Context, matches []*entity.Match) error {
	if len(matches) == 0 {
		return nil
	}
	models := r.mapper.ToModels(matches)
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*matches[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *MatchRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Match, error) {
	var models []*model.Match
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *MatchRepositoryImpl) Delete(ctx context.Context, specs ...specification.Specification) error {
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	return query.Delete(&model.Match{}).Error
}
