package catalog

import (
	"time"

	"github.com/google/uuid"
)

// SkillNode is an immutable catalog entry, created once at seeding time.
type SkillNode struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CanonicalName string    `gorm:"column:canonical_name;type:text;not null;uniqueIndex" json:"canonical_name"`
	Domain        string    `gorm:"column:domain;type:text;not null;index" json:"domain"`

	// Difficulty runs 1..10.
	Difficulty int `gorm:"column:difficulty;not null;default:1" json:"difficulty"`

	DecayHalfLifeDays int `gorm:"column:decay_half_life_days;not null;default:180" json:"decay_half_life_days"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (SkillNode) TableName() string { return "skill_node" }
