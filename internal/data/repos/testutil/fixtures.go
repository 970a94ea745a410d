package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:        uuid.New(),
		Email:     email,
		FirstName: "A",
		LastName:  "B",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedSkill(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.SkillNode {
	tb.Helper()
	s := &types.SkillNode{
		ID:                uuid.New(),
		CanonicalName:     name,
		Domain:            "engineering",
		Difficulty:        3,
		DecayHalfLifeDays: 180,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed skill: %v", err)
	}
	return s
}

func SeedEdge(tb testing.TB, ctx context.Context, tx *gorm.DB, from, to uuid.UUID, edgeType string, strength float64) *types.PrereqEdge {
	tb.Helper()
	e := &types.PrereqEdge{
		ID:          uuid.New(),
		FromSkillID: from,
		ToSkillID:   to,
		EdgeType:    edgeType,
		Strength:    strength,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed edge: %v", err)
	}
	return e
}

func SeedRole(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Role {
	tb.Helper()
	r := &types.Role{ID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed role: %v", err)
	}
	return r
}

func SeedRoleSkill(tb testing.TB, ctx context.Context, tx *gorm.DB, roleID, skillID uuid.UUID, weight float64) *types.RoleSkill {
	tb.Helper()
	rs := &types.RoleSkill{
		ID:      uuid.New(),
		RoleID:  roleID,
		SkillID: skillID,
		Weight:  weight,
	}
	if err := tx.WithContext(ctx).Create(rs).Error; err != nil {
		tb.Fatalf("seed role skill: %v", err)
	}
	return rs
}

func SeedState(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID, status string, confidence float64) *types.UserSkillState {
	tb.Helper()
	st := &types.UserSkillState{
		ID:         uuid.New(),
		UserID:     userID,
		SkillID:    skillID,
		Status:     status,
		Confidence: confidence,
	}
	if err := tx.WithContext(ctx).Create(st).Error; err != nil {
		tb.Fatalf("seed state: %v", err)
	}
	return st
}

func SeedSession(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, skillID uuid.UUID, state string) *types.Session {
	tb.Helper()
	s := &types.Session{
		ID:           uuid.New(),
		UserID:       userID,
		SkillNodeID:  skillID,
		SessionType:  types.SessionProbe,
		SessionState: state,
		ExpiresAt:    time.Now().Add(24 * time.Hour).UTC(),
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed session: %v", err)
	}
	return s
}

// UniqueEmail keeps fixture users distinct across tests sharing a DB.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.com", prefix, uuid.NewString()[:8])
}
