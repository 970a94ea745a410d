package repos

import (
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/data/repos/catalog"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/data/repos/mastery"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/data/repos/user"
)

type UserRepo = user.UserRepo

type SkillNodeRepo = catalog.SkillNodeRepo
type PrereqEdgeRepo = catalog.PrereqEdgeRepo
type RoleRepo = catalog.RoleRepo
type RoleSkillRepo = catalog.RoleSkillRepo

type UserSkillStateRepo = mastery.UserSkillStateRepo
type EvidenceRepo = mastery.EvidenceRepo
type SessionRepo = mastery.SessionRepo

var (
	NewUserRepo = user.NewUserRepo

	NewSkillNodeRepo  = catalog.NewSkillNodeRepo
	NewPrereqEdgeRepo = catalog.NewPrereqEdgeRepo
	NewRoleRepo       = catalog.NewRoleRepo
	NewRoleSkillRepo  = catalog.NewRoleSkillRepo

	NewUserSkillStateRepo = mastery.NewUserSkillStateRepo
	NewEvidenceRepo       = mastery.NewEvidenceRepo
	NewSessionRepo        = mastery.NewSessionRepo
)
