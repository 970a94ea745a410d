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

type SessionRepo interface {
	Create(dbc dbctx.Context, row *types.Session) (*types.Session, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error)
	GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Session, error)
	// GetOpenByUserForUpdate returns the user's PROPOSED or ACTIVE
	// session, locked, so the exclusivity check cannot race.
	GetOpenByUserForUpdate(dbc dbctx.Context, userID uuid.UUID) (*types.Session, error)
	UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error
	ListExpiredOpen(dbc dbctx.Context, now time.Time, limit int) ([]*types.Session, error)
}

type sessionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSessionRepo(db *gorm.DB, baseLog *logger.Logger) SessionRepo {
	return &sessionRepo{db: db, log: baseLog.With("repo", "SessionRepo")}
}

func (r *sessionRepo) Create(dbc dbctx.Context, row *types.Session) (*types.Session, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.UserID == uuid.Nil || row.SkillNodeID == uuid.Nil {
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

func (r *sessionRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Session, error) {
	return r.getByID(dbc, id, false)
}

func (r *sessionRepo) GetByIDForUpdate(dbc dbctx.Context, id uuid.UUID) (*types.Session, error) {
	return r.getByID(dbc, id, true)
}

func (r *sessionRepo) getByID(dbc dbctx.Context, id uuid.UUID, lock bool) (*types.Session, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	q := t.WithContext(dbc.Ctx)
	if lock && supportsRowLocks(t) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.Session
	if err := q.Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepo) GetOpenByUserForUpdate(dbc dbctx.Context, userID uuid.UUID) (*types.Session, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if userID == uuid.Nil {
		return nil, nil
	}
	q := t.WithContext(dbc.Ctx)
	if supportsRowLocks(t) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row types.Session
	if err := q.
		Where("user_id = ? AND session_state IN ?", userID, []string{types.SessionProposed, types.SessionActive}).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *sessionRepo) UpdateFields(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) error {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(dbc.Ctx).
		Model(&types.Session{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *sessionRepo) ListExpiredOpen(dbc dbctx.Context, now time.Time, limit int) ([]*types.Session, error) {
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
	out := []*types.Session{}
	if err := q.
		Where("session_state IN ? AND expires_at < ?", []string{types.SessionProposed, types.SessionActive}, now).
		Order("expires_at ASC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
