package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	auditdomain "github.com/smallbiznis/gstbilling/internal/audit/domain"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	podomain "github.com/smallbiznis/gstbilling/internal/purchaseorder/domain"
	quotationdomain "github.com/smallbiznis/gstbilling/internal/quotation/domain"
	sequencedomain "github.com/smallbiznis/gstbilling/internal/sequence/domain"
	supplierdomain "github.com/smallbiznis/gstbilling/internal/supplier/domain"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every persisted model, in the order AutoMigrate creates them.
func Models() []any {
	return []any{
		&customerdomain.Customer{},
		&productdomain.Product{},
		&supplierdomain.Supplier{},
		&quotationdomain.Quotation{},
		&invoicedomain.Invoice{},
		&podomain.PurchaseOrder{},
		&sequencedomain.Counter{},
		&auditdomain.Event{},
	}
}

// Migrate brings the schema up to date. Postgres runs the versioned SQL
// migrations; other dialects are migrated from the models.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if conn.Dialector.Name() != "postgres" {
		return AutoMigrate(conn)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

func AutoMigrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}
