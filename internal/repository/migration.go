package repository

import (
	"fmt"

	"gorm.io/gorm"

	"clearcheck/internal/domain/event"
	"clearcheck/internal/domain/order"
	"clearcheck/internal/domain/readmodel"
	"clearcheck/internal/domain/slaclock"
)

// InitSchema handles the database schema migration.
// It creates necessary extensions, runs Gorm auto-migration and adds the
// indexes the workers depend on.
func InitSchema(db *gorm.DB) error {
	// 1. Extensions
	// Note: Creating extensions usually requires superuser privileges.
	// If this fails, ensure the extensions are pre-installed or the user has permissions.
	extensions := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`,
		`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	}

	for _, ext := range extensions {
		if err := db.Exec(ext).Error; err != nil {
			return fmt.Errorf("failed to create extension: %w", err)
		}
	}

	// 2. Tables
	if err := db.AutoMigrate(
		&order.Order{},
		&slaclock.Clock{},
		&event.DomainEvent{},
		&event.ProjectionCheckpoint{},
		&event.CommandLog{},
		&readmodel.OrderSummary{},
		&readmodel.SlaDashboardRow{},
	); err != nil {
		return fmt.Errorf("failed to run auto-migration: %w", err)
	}

	// 3. Indexes
	// Partial index keeps the dispatch poll cheap no matter how large the
	// event log grows.
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_domain_events_undispatched
			ON domain_events (position) WHERE dispatched = false;`,
		`CREATE INDEX IF NOT EXISTS idx_sla_clocks_watchdog
			ON sla_clocks (state, deadline_at, at_risk_threshold_at);`,
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
