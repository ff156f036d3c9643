package database

import (
	"aurum-backend/internal/domain"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Open opens a GORM DB from DSN.
// PreferSimpleProtocol disables prepared statement caching to avoid 42P05
// ("prepared statement already exists") when using connection poolers (e.g. PgBouncer).
// TranslateError maps driver unique-violation errors to gorm.ErrDuplicatedKey,
// which the ledger relies on for payment reference deduplication.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{TranslateError: true})
}

// AutoMigrate creates the shared multi-tenant schema. One table set for
// all tenants; tenant_id is a mandatory key column everywhere.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.Tenant{},
		&domain.User{},
		&domain.Holding{},
		&domain.Transaction{},
		&domain.KycRecord{},
	)
}
