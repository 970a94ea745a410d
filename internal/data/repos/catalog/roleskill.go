package catalog

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
)

type RoleRepo interface {
	Create(dbc dbctx.Context, row *types.Role) (*types.Role, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Role, error)
	GetByName(dbc dbctx.Context, name string) (*types.Role, error)
}

type roleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleRepo(db *gorm.DB, baseLog *logger.Logger) RoleRepo {
	return &roleRepo{db: db, log: baseLog.With("repo", "RoleRepo")}
}

func (r *roleRepo) Create(dbc dbctx.Context, row *types.Role) (*types.Role, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := t.WithContext(dbc.Ctx).Create(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (r *roleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Role, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Role
	if err := t.WithContext(dbc.Ctx).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *roleRepo) GetByName(dbc dbctx.Context, name string) (*types.Role, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if name == "" {
		return nil, nil
	}
	var row types.Role
	if err := t.WithContext(dbc.Ctx).Where("name = ?", name).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

type RoleSkillRepo interface {
	CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.RoleSkill) (int, error)
	GetByRoleID(dbc dbctx.Context, roleID uuid.UUID) ([]*types.RoleSkill, error)
}

type roleSkillRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRoleSkillRepo(db *gorm.DB, baseLog *logger.Logger) RoleSkillRepo {
	return &roleSkillRepo{db: db, log: baseLog.With("repo", "RoleSkillRepo")}
}

func (r *roleSkillRepo) CreateIgnoreDuplicates(dbc dbctx.Context, rows []*types.RoleSkill) (int, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return 0, nil
	}
	res := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "role_id"}, {Name: "skill_id"}},
			DoNothing: true,
		}).
		Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}
	return int(res.RowsAffected), nil
}

func (r *roleSkillRepo) GetByRoleID(dbc dbctx.Context, roleID uuid.UUID) ([]*types.RoleSkill, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.RoleSkill{}
	if roleID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("role_id = ?", roleID).
		Order("weight DESC, skill_id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
