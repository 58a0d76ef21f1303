package testdb

import (
	"context"
	"strings"
	"testing"

	"student-orm/internal/db"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

// NewSQLite opens a private in-memory SQLite database for one test and
// creates tables for models. The database is closed when the test ends.
func NewSQLite(t *testing.T, models ...interface{}) *bun.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	bdb, err := db.NewSQLite("file:" + name + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { bdb.Close() })

	require.NoError(t, db.SyncSchema(context.Background(), bdb, db.SchemaCreate, models...))
	return bdb
}
