package migrations

import (
	"fmt"
	"time"

	"idl-tracker/logging"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Migration struct {
	ID        uint      `gorm:"primaryKey"`
	Name      string    `gorm:"unique;not null"`
	Batch     int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type MigrationFunc func(*gorm.DB) error

type MigrationDefinition struct {
	Name string
	Up   MigrationFunc
	Down MigrationFunc
}

type Migrator struct {
	db         *gorm.DB
	migrations []MigrationDefinition
}

func NewMigrator(db *gorm.DB) (*Migrator, error) {
	if err := db.AutoMigrate(&Migration{}); err != nil {
		return nil, fmt.Errorf("create migrations table: %w", err)
	}
	return &Migrator{
		db:         db,
		migrations: []MigrationDefinition{},
	}, nil
}

func (m *Migrator) AddMigration(migration MigrationDefinition) {
	m.migrations = append(m.migrations, migration)
}

func (m *Migrator) Migrate() error {
	logging.Info("Running database migrations...")

	batch, err := m.latestBatch()
	if err != nil {
		return err
	}
	batch++

	for _, migration := range m.migrations {
		ran, err := m.hasRun(migration.Name)
		if err != nil {
			return err
		}
		if ran {
			continue
		}

		logging.Info("Migrating", zap.String("migration", migration.Name))

		err = m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return fmt.Errorf("migration %s failed: %w", migration.Name, err)
			}

			record := Migration{
				Name:  migration.Name,
				Batch: batch,
			}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to record migration %s: %w", migration.Name, err)
			}
			return nil
		})
		if err != nil {
			return err
		}

		logging.Info("Migrated", zap.String("migration", migration.Name))
	}

	logging.Info("Migration completed successfully")
	return nil
}

func (m *Migrator) Rollback(steps int) error {
	if steps <= 0 {
		steps = 1
	}

	logging.Info("Rolling back migrations", zap.Int("steps", steps))

	batch, err := m.latestBatch()
	if err != nil {
		return err
	}

	for i := 0; i < steps && batch > 0; i++ {
		var toRollback []Migration
		if err := m.db.Where("batch = ?", batch).Order("id DESC").Find(&toRollback).Error; err != nil {
			return err
		}

		for _, record := range toRollback {
			migration := m.findMigration(record.Name)
			if migration == nil {
				return fmt.Errorf("migration definition not found: %s", record.Name)
			}
			if migration.Down == nil {
				return fmt.Errorf("rollback not defined for migration: %s", record.Name)
			}

			logging.Info("Rolling back", zap.String("migration", record.Name))

			err := m.db.Transaction(func(tx *gorm.DB) error {
				if err := migration.Down(tx); err != nil {
					return fmt.Errorf("rollback failed for %s: %w", record.Name, err)
				}
				if err := tx.Delete(&record).Error; err != nil {
					return fmt.Errorf("failed to remove migration record %s: %w", record.Name, err)
				}
				return nil
			})
			if err != nil {
				return err
			}

			logging.Info("Rolled back", zap.String("migration", record.Name))
		}

		batch--
	}

	logging.Info("Rollback completed successfully")
	return nil
}

// Status reports whether each registered migration has run.
func (m *Migrator) Status() (map[string]bool, error) {
	status := make(map[string]bool, len(m.migrations))
	for _, migration := range m.migrations {
		ran, err := m.hasRun(migration.Name)
		if err != nil {
			return nil, err
		}
		status[migration.Name] = ran
	}
	return status, nil
}

// Names returns the registered migration names in order.
func (m *Migrator) Names() []string {
	names := make([]string, 0, len(m.migrations))
	for _, migration := range m.migrations {
		names = append(names, migration.Name)
	}
	return names
}

func (m *Migrator) hasRun(name string) (bool, error) {
	var count int64
	err := m.db.Model(&Migration{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (m *Migrator) latestBatch() (int, error) {
	var migration Migration
	result := m.db.Order("batch DESC").Limit(1).Find(&migration)
	if result.Error != nil {
		return 0, result.Error
	}
	return migration.Batch, nil
}

func (m *Migrator) findMigration(name string) *MigrationDefinition {
	for i := range m.migrations {
		if m.migrations[i].Name == name {
			return &m.migrations[i]
		}
	}
	return nil
}
