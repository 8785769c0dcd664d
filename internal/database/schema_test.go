package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaFor(t *testing.T, table string) string {
	t.Helper()
	for _, stmt := range schemaStatements {
		if strings.Contains(stmt, "EXISTS "+table+" ") || strings.Contains(stmt, "EXISTS "+table+"(") {
			return stmt
		}
	}
	t.Fatalf("table %s absente du schéma", table)
	return ""
}

func TestSchemaCoversAllTables(t *testing.T) {
	for _, table := range []string{
		"users", "users_by_email", "user_activity",
		"products", "categories", "cart_items",
		"orders", "orders_by_user", "order_items",
		"payments", "payments_by_order",
		"reviews", "wishlist_items", "checkout_transitions",
	} {
		schemaFor(t, table)
	}
	assert.Len(t, schemaStatements, 14)
}

func TestUserActivityColumns(t *testing.T) {
	ddl := schemaFor(t, "user_activity")

	// colonnes attendues par ScyllaActivity.Record
	require.Contains(t, ddl, "user_id uuid")
	require.Contains(t, ddl, "created_at timestamp")
	require.Contains(t, ddl, "action text")
	assert.Contains(t, ddl, "PRIMARY KEY (user_id, created_at)")
}
