package mastery

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
)

type UserSkillStateRepo interface {
	Get(dbc dbctx.Context, userID uuid.UUID, skillID uuid.UUID) (*types.UserSkillState, error)
	// GetForUpdate takes a row lock so concurrent evidence for the same
	// (user, skill) serializes inside the caller's transaction.
	GetForUpdate(dbc dbctx.Context, userID uuid.UUID, skillID uuid.UUID) (*types.UserSkillState, error)
	ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserSkillState, error)
	ListByUserAndSkillIDs(dbc dbctx.Context, userID uuid.UUID, skillIDs []uuid.UUID) ([]*types.UserSkillState, error)
	Save(dbc dbctx.Context, row *types.UserSkillState) error
	// ClaimExpiredProved locks and returns PROVED rows past their stale
	// deadline, skipping rows other workers hold.
	ClaimExpiredProved(dbc dbctx.Context, now time.Time, limit int) ([]*types.UserSkillState, error)
}

type userSkillStateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserSkillStateRepo(db *gorm.DB, baseLog *logger.Logger) UserSkillStateRepo {
	return &userSkillStateRepo{db: db, log: baseLog.With("repo", "UserSkillStateRepo")}
}

// sqlite (used by the test harness) has no row locks; its single-writer
// model serializes writes anyway.
func supportsRowLocks(t *gorm.DB) bool {
	return t.Dialector.Name() == "postgres"
}

func (r *userSkillStateRepo) Get(dbc dbctx.Context, userID uuid.UUID, skillID uuid.UUID) (*types.UserSkillState, error) {
	return r.get(dbc, userID, skillID, false)
}

func (r *userSkillStateRepo) GetForUpdate(dbc dbctx.Context, userID uuid.UUID, skillID uuid.UUID) (*types.UserSkillState, error) {
	return r.get(dbc, userID, skillID, true)
}

func (r *userSkillStateRepo) get(dbc dbctx.Context, userID uuid.UUID, skillID uuid.UUID, lock bool) (*types.UserSkillState, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil || skillID == uuid.Nil {
		return nil, nil
	}
	q := t.WithContext(dbc.Ctx)
	if lock && supportsRowLocks(t) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.UserSkillState
	if err := q.
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *userSkillStateRepo) ListByUser(dbc dbctx.Context, userID uuid.UUID) ([]*types.UserSkillState, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.UserSkillState{}
	if userID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).Where("user_id = ?", userID).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userSkillStateRepo) ListByUserAndSkillIDs(dbc dbctx.Context, userID uuid.UUID, skillIDs []uuid.UUID) ([]*types.UserSkillState, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	out := []*types.UserSkillState{}
	if userID == uuid.Nil || len(skillIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(dbc.Ctx).
		Where("user_id = ? AND skill_id IN ?", userID, skillIDs).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *userSkillStateRepo) Save(dbc dbctx.Context, row *types.UserSkillState) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.SkillID == uuid.Nil {
		return nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	row.UpdatedAt = time.Now().UTC()
	return t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status", "confidence", "evidence_score", "last_evidence_at", "stale_at", "updated_at",
			}),
		}).
		Create(row).Error
}

func (r *userSkillStateRepo) ClaimExpiredProved(dbc dbctx.Context, now time.Time, limit int) ([]*types.UserSkillState, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if limit <= 0 {
		limit = 100
	}
	q := t.WithContext(dbc.Ctx)
	if supportsRowLocks(t) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
	}
	out := []*types.UserSkillState{}
	if err := q.
		Where("status = ? AND stale_at IS NOT NULL AND stale_at < ?", types.StatusProved, now).
		Order("stale_at ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
