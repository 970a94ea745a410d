package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	types "github.com/DhairyaSeth21/CareerMap-sub000/internal/domain"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/envutil"
	"github.com/DhairyaSeth21/CareerMap-sub000/internal/platform/logger"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	host := envutil.String("POSTGRES_HOST", "localhost")
	port := envutil.String("POSTGRES_PORT", "5432")
	user := envutil.String("POSTGRES_USER", "postgres")
	password := envutil.String("POSTGRES_PASSWORD", "")
	name := envutil.String("POSTGRES_NAME", "careermap")

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port, name)

	serviceLog.Info("Connecting to Postgres...")
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		serviceLog.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		serviceLog.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("enable uuid-ossp: %w", err)
	}

	return &PostgresService{db: gdb, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("Auto migration failed", "error", err)
		return err
	}
	return nil
}

// AutoMigrateAll migrates every table of the mastery core. The partial
// unique index is what enforces "at most one open session per user"
// against concurrent proposals.
func AutoMigrateAll(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(
		&types.User{},
		&types.SkillNode{},
		&types.PrereqEdge{},
		&types.Role{},
		&types.RoleSkill{},
		&types.UserSkillState{},
		&types.Evidence{},
		&types.EvidenceSkillLink{},
		&types.Session{},
	); err != nil {
		return err
	}
	return gdb.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_session_open_user
		ON "session"(user_id)
		WHERE session_state IN ('PROPOSED', 'ACTIVE')
	`).Error
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
