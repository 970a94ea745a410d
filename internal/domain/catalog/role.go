package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Role is a target position a user can pursue.
type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name      string    `gorm:"column:name;type:text;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (Role) TableName() string { return "role" }

// RoleSkill is a demand edge: how much a role wants a skill.
type RoleSkill struct {
	ID      uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RoleID  uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_role_skill_pair,priority:1" json:"role_id"`
	SkillID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_role_skill_pair,priority:2" json:"skill_id"`

	// Weight is relative importance, unbounded positive.
	Weight        float64 `gorm:"column:weight;not null;default:0" json:"weight"`
	RequiredLevel int     `gorm:"column:required_level;not null;default:0" json:"required_level"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (RoleSkill) TableName() string { return "role_skill" }
