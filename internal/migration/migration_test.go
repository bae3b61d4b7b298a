package migration

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/smallbiznis/gstbilling/pkg/db/dbtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateSQLite(t *testing.T) {
	conn := dbtest.Open(t)
	require.NoError(t, Migrate(conn))
	// A second run is a no-op.
	require.NoError(t, Migrate(conn))

	for _, table := range []string{"customers", "products", "suppliers", "quotations", "invoices", "purchase_orders", "sequence_counters", "document_audit_events"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	assert.True(t, conn.Migrator().HasIndex("invoices", "uq_invoices_source_quotation"))
}

func TestEmbeddedMigrationsCoverEveryTable(t *testing.T) {
	up, err := fs.ReadFile(embeddedMigrations, migrationsDir+"/000001_init.up.sql")
	require.NoError(t, err)
	down, err := fs.ReadFile(embeddedMigrations, migrationsDir+"/000001_init.down.sql")
	require.NoError(t, err)

	conn := dbtest.Open(t)
	for _, model := range Models() {
		stmt := conn.Model(model).Statement
		require.NoError(t, stmt.Parse(model))
		table := stmt.Schema.Table
		assert.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS "+table+" (", table)
		assert.True(t, strings.Contains(string(down), "DROP TABLE IF EXISTS "+table+";"), table)
	}
}
