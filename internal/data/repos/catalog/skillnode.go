package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
)

type SkillNodeRepo interface {
	Create(dbc dbctx.Context, rows []*types.SkillNode) ([]*types.SkillNode, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SkillNode, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.SkillNode, error)
	GetByCanonicalName(dbc dbctx.Context, name string) (*types.SkillNode, error)
	ListAll(dbc dbctx.Context) ([]*types.SkillNode, error)
}

type skillNodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSkillNodeRepo(db *gorm.DB, baseLog *logger.Logger) SkillNodeRepo {
	return &skillNodeRepo{db: db, log: baseLog.With("repo", "SkillNodeRepo")}
}

func (r *skillNodeRepo) Create(dbc dbctx.Context, rows []*types.SkillNode) ([]*types.SkillNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.SkillNode{}, nil
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *skillNodeRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.SkillNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.SkillNode
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *skillNodeRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.SkillNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.SkillNode{}
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *skillNodeRepo) GetByCanonicalName(dbc dbctx.Context, name string) (*types.SkillNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if name == "" {
		return nil, nil
	}
	var row types.SkillNode
	if err := t.WithContext(dbc.Ctx).Where("canonical_name = ?", name).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *skillNodeRepo) ListAll(dbc dbctx.Context) ([]*types.SkillNode, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.SkillNode{}
	if err := t.WithContext(dbc.Ctx).Order("canonical_name ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
