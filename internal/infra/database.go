package infra

import (
	"fmt"

	"github.com/HicaroDev/obra-vista-sub001/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for the engine's tables. TranslateError is enabled so unique
// violations surface as gorm.ErrDuplicatedKey and services can map them to
// the duplicate-código domain error.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return db, nil
}

// RunMigrations creates/updates the engine's tables. The FK cascades declared
// on the models matter here: deleting an orçamento must drop its items and
// their frozen snapshot rows in one shot.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Insumo{},
		&model.Composicao{},
		&model.ComposicaoItem{},
		&model.Orcamento{},
		&model.OrcamentoItem{},
		&model.ComposicaoInsumo{},
	)
}
