package mastery

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
)

type EvidenceRepo interface {
	Create(dbc dbctx.Context, row *types.Evidence) (*types.Evidence, error)
	CreateLinks(dbc dbctx.Context, rows []*types.EvidenceSkillLink) ([]*types.EvidenceSkillLink, error)
	ListLinksByUserAndSkill(dbc dbctx.Context, userID uuid.UUID, skillID uuid.UUID) ([]*types.EvidenceSkillLink, error)
}

type evidenceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvidenceRepo(db *gorm.DB, baseLog *logger.Logger) EvidenceRepo {
	return &evidenceRepo{db: db, log: baseLog.With("repo", "EvidenceRepo")}
}

func (r *evidenceRepo) Create(dbc dbctx.Context, row *types.Evidence) (*types.Evidence, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil {
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

func (r *evidenceRepo) CreateLinks(dbc dbctx.Context, rows []*types.EvidenceSkillLink) ([]*types.EvidenceSkillLink, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.EvidenceSkillLink{}, nil
	}
	for _, row := range rows {
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
	}
	if err := t.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *evidenceRepo) ListLinksByUserAndSkill(dbc dbctx.Context, userID uuid.UUID, skillID uuid.UUID) ([]*types.EvidenceSkillLink, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.EvidenceSkillLink{}
	if userID == uuid.Nil || skillID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Joins(`JOIN evidence ON evidence.id = evidence_skill_link.evidence_id`).
		Where("evidence.user_id = ? AND evidence_skill_link.skill_id = ?", userID, skillID).
		Order("evidence_skill_link.created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
