package mastery

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/DhairyaSeth21/CareerMap-sub000/internal/data/repos"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/dbctx"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/realtime/bus"
)

type UsecasesDeps struct {
	DB  *gorm.DB
	Log *logger.Logger
	Bus bus.Bus

	Skills     repos.SkillNodeRepo
	Edges      repos.PrereqEdgeRepo
	Roles      repos.RoleRepo
	RoleSkills repos.RoleSkillRepo
	States     repos.UserSkillStateRepo
	Evidence   repos.EvidenceRepo
	Sessions   repos.SessionRepo

	// SessionTTL bounds the propose->complete window; default 24h.
	SessionTTL time.Duration

	// now is swappable in tests.
	now func() time.Time
}

type Usecases struct {
	deps UsecasesDeps
	log  *logger.Logger
}

func NewUsecases(deps UsecasesDeps) Usecases {
	if deps.SessionTTL <= 0 {
		deps.SessionTTL = 24 * time.Hour
	}
	if deps.now == nil {
		deps.now = func() time.Time { return time.Now().UTC() }
	}
	if deps.Bus == nil {
		deps.Bus = bus.NewNoopBus()
	}
	log := deps.Log
	if log != nil {
		log = log.With("module", "mastery")
	}
	return Usecases{deps: deps, log: log}
}

// inTx runs fn inside one transaction. Every mutating operation is one
// atomic read-modify-write scoped to a (user, skill) or session key.
// Without a DB (pure-logic tests on fake repos) fn runs directly.
func (u Usecases) inTx(ctx context.Context, fn func(dbc dbctx.Context) error) error {
	if u.deps.DB == nil {
		return fn(dbctx.Context{Ctx: ctx})
	}
	return u.deps.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(dbctx.Context{Ctx: ctx, Tx: tx})
	})
}

func (u Usecases) publishTransition(ctx context.Context, ev bus.TransitionEvent) {
	if err := u.deps.Bus.PublishTransition(ctx, ev); err != nil && u.log != nil {
		u.log.Warn("transition publish failed", "error", err, "skill_id", ev.SkillID)
	}
}
