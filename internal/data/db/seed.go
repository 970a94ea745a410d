package db

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gopkg.in/yaml.v3"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/normalization"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
)

// CatalogFile is the on-disk shape of the skill/role catalog. Seeding is
// idempotent: rows are keyed by canonical name and re-runs do not
// duplicate or mutate existing entries.
type CatalogFile struct {
	Skills []struct {
		Name              string `yaml:"name"`
		Domain            string `yaml:"domain"`
		Difficulty        int    `yaml:"difficulty"`
		DecayHalfLifeDays int    `yaml:"decay_half_life_days"`
	} `yaml:"skills"`
	Edges []struct {
		From     string  `yaml:"from"`
		To       string  `yaml:"to"`
		Type     string  `yaml:"type"`
		Strength float64 `yaml:"strength"`
	} `yaml:"edges"`
	Roles []struct {
		Name   string `yaml:"name"`
		Skills []struct {
			Skill         string  `yaml:"skill"`
			Weight        float64 `yaml:"weight"`
			RequiredLevel int     `yaml:"required_level"`
		} `yaml:"skills"`
	} `yaml:"roles"`
}

// SeedCatalog loads the catalog YAML and inserts missing skills, edges,
// roles and demand weights. It rejects cyclic prerequisite graphs so the
// frontier walk can assume a DAG.
func SeedCatalog(gdb *gorm.DB, log *logger.Logger, path string) error {
	seedLog := log.With("service", "CatalogSeeder")

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read catalog: %w", err)
	}
	var file CatalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse catalog: %w", err)
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		byName := map[string]uuid.UUID{}

		for _, s := range file.Skills {
			name := normalization.CanonicalName(s.Name)
			if name == "" {
				return fmt.Errorf("catalog skill with empty name")
			}
			difficulty := s.Difficulty
			if difficulty < 1 {
				difficulty = 1
			}
			if difficulty > 10 {
				difficulty = 10
			}
			halfLife := s.DecayHalfLifeDays
			if halfLife <= 0 {
				halfLife = 180
			}
			row := &types.SkillNode{
				ID:                uuid.New(),
				CanonicalName:     name,
				Domain:            s.Domain,
				Difficulty:        difficulty,
				DecayHalfLifeDays: halfLife,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "canonical_name"}},
				DoNothing: true,
			}).Create(row).Error; err != nil {
				return err
			}
		}

		var skills []*types.SkillNode
		if err := tx.Find(&skills).Error; err != nil {
			return err
		}
		for _, s := range skills {
			byName[s.CanonicalName] = s.ID
		}

		adjacency := map[uuid.UUID][]uuid.UUID{}
		for _, e := range file.Edges {
			fromID, ok := byName[normalization.CanonicalName(e.From)]
			if !ok {
				return fmt.Errorf("edge references unknown skill %q", e.From)
			}
			toID, ok := byName[normalization.CanonicalName(e.To)]
			if !ok {
				return fmt.Errorf("edge references unknown skill %q", e.To)
			}
			edgeType := e.Type
			if edgeType != types.EdgeHard && edgeType != types.EdgeSoft {
				return fmt.Errorf("edge %s->%s has invalid type %q", e.From, e.To, e.Type)
			}
			strength := e.Strength
			if strength < 0 {
				strength = 0
			}
			if strength > 1 {
				strength = 1
			}
			adjacency[fromID] = append(adjacency[fromID], toID)
			row := &types.PrereqEdge{
				ID:          uuid.New(),
				FromSkillID: fromID,
				ToSkillID:   toID,
				EdgeType:    edgeType,
				Strength:    strength,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "from_skill_id"}, {Name: "to_skill_id"}},
				DoNothing: true,
			}).Create(row).Error; err != nil {
				return err
			}
		}

		if cycleAt := findCycle(adjacency); cycleAt != uuid.Nil {
			return fmt.Errorf("prerequisite graph has a cycle through skill %s", cycleAt)
		}

		for _, r := range file.Roles {
			if r.Name == "" {
				return fmt.Errorf("catalog role with empty name")
			}
			role := &types.Role{ID: uuid.New(), Name: r.Name}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoNothing: true,
			}).Create(role).Error; err != nil {
				return err
			}
			var existing types.Role
			if err := tx.Where("name = ?", r.Name).First(&existing).Error; err != nil {
				return err
			}
			for _, rs := range r.Skills {
				skillID, ok := byName[normalization.CanonicalName(rs.Skill)]
				if !ok {
					return fmt.Errorf("role %q references unknown skill %q", r.Name, rs.Skill)
				}
				row := &types.RoleSkill{
					ID:            uuid.New(),
					RoleID:        existing.ID,
					SkillID:       skillID,
					Weight:        rs.Weight,
					RequiredLevel: rs.RequiredLevel,
				}
				if err := tx.Clauses(clause.OnConflict{
					Columns:   []clause.Column{{Name: "role_id"}, {Name: "skill_id"}},
					DoNothing: true,
				}).Create(row).Error; err != nil {
					return err
				}
			}
		}

		seedLog.Info("Catalog seeded", "skills", len(file.Skills), "edges", len(file.Edges), "roles", len(file.Roles))
		return nil
	})
}

// findCycle runs a three-color DFS; returns an involved node or uuid.Nil.
func findCycle(adjacency map[uuid.UUID][]uuid.UUID) uuid.UUID {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := map[uuid.UUID]int{}

	var visit func(n uuid.UUID) uuid.UUID
	visit = func(n uuid.UUID) uuid.UUID {
		color[n] = gray
		for _, next := range adjacency[n] {
			switch color[next] {
			case gray:
				return next
			case white:
				if hit := visit(next); hit != uuid.Nil {
					return hit
				}
			}
		}
		color[n] = black
		return uuid.Nil
	}

	for n := range adjacency {
		if color[n] == white {
			if hit := visit(n); hit != uuid.Nil {
				return hit
			}
		}
	}
	return uuid.Nil
}
