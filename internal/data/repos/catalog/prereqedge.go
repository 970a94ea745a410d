package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
)

type PrereqEdgeRepo interface {
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.PrereqEdge) (int, error)
	GetByFromSkillIDs(dbc dbctx.Context, fromIDs []uuid.UUID) ([]*types.PrereqEdge, error)
	GetByToSkillIDs(dbc dbctx.Context, toIDs []uuid.UUID) ([]*types.PrereqEdge, error)
	ListAll(dbc dbctx.Context) ([]*types.PrereqEdge, error)
}

type prereqEdgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPrereqEdgeRepo(db *gorm.DB, baseLog *logger.Logger) PrereqEdgeRepo {
	return &prereqEdgeRepo{db: db, log: baseLog.With("repo", "PrereqEdgeRepo")}
}

func (r *prereqEdgeRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.PrereqEdge) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_skill_id"}, {Name: "to_skill_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *prereqEdgeRepo) GetByFromSkillIDs(dbc dbctx.Context, fromIDs []uuid.UUID) ([]*types.PrereqEdge, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.PrereqEdge{}
	if len(fromIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("from_skill_id IN ?", fromIDs).
		Order("from_skill_id ASC, edge_type ASC, strength DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *prereqEdgeRepo) GetByToSkillIDs(dbc dbctx.Context, toIDs []uuid.UUID) ([]*types.PrereqEdge, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.PrereqEdge{}
	if len(toIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("to_skill_id IN ?", toIDs).
		Order("to_skill_id ASC, edge_type ASC, strength DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *prereqEdgeRepo) ListAll(dbc dbctx.Context) ([]*types.PrereqEdge, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.PrereqEdge{}
	if err := t.WithContext(dbc.Ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
