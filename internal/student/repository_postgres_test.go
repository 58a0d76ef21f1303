package student_test

import (
	"context"
	"testing"

	"student-orm/internal/metrics"
	"student-orm/internal/student"
	"student-orm/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Postgres(t *testing.T) {
	pgContainer := testdb.SetupSharedPostgres(t)
	defer pgContainer.Cleanup(t)

	pgContainer.RunMigrations(t, (*student.Table)(nil))
	ctx := context.Background()

	t.Run("StoreAssigned", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, student.TableName)
		repo := student.NewRepository(pgContainer.DB, newMapper(t, student.IDStore), metrics.NewMock())

		lee := &student.Student{Name: "Lee", DateOfBirth: date(1999, 1, 1), Group: student.GroupDaisy}
		_, err := repo.Create(ctx, lee)
		require.NoError(t, err)
		assert.Positive(t, lee.ID)

		got, err := repo.GetByID(ctx, lee.ID)
		require.NoError(t, err)
		assert.Equal(t, lee.ID, got.ID)
		assert.Equal(t, "Lee", got.Name)
		assert.Equal(t, date(1999, 1, 1), got.DateOfBirth)
		assert.Equal(t, student.GroupDaisy, got.Group)
	})

	t.Run("GroupStoredByName", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, student.TableName)
		repo := student.NewRepository(pgContainer.DB, newMapper(t, student.IDStore), metrics.NewMock())

		s := &student.Student{Name: "Amal", Group: student.GroupLotus}
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)

		var stored string
		err = pgContainer.DB.NewSelect().
			Column("student_group").
			TableExpr(student.TableName).
			Where("id = ?", s.ID).
			Scan(ctx, &stored)
		require.NoError(t, err)
		assert.Equal(t, "LOTUS", stored)
	})

	t.Run("CallerAssignedDuplicate", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, student.TableName)
		repo := student.NewRepository(pgContainer.DB, newMapper(t, student.IDCaller), metrics.NewMock())

		_, err := repo.Create(ctx, &student.Student{ID: 1, Name: "Jack", DateOfBirth: date(2000, 1, 1), Group: student.GroupRose})
		require.NoError(t, err)

		_, err = repo.Create(ctx, &student.Student{ID: 1, Name: "Jack", DateOfBirth: date(2000, 1, 1), Group: student.GroupRose})
		assert.ErrorIs(t, err, student.ErrDuplicateID)
	})

	t.Run("CorruptGroup", func(t *testing.T) {
		testdb.CleanupTables(t, pgContainer.DB, student.TableName)
		repo := student.NewRepository(pgContainer.DB, newMapper(t, student.IDStore), metrics.NewMock())

		s := &student.Student{Name: "Lee", Group: student.GroupDaisy}
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)

		_, err = pgContainer.DB.ExecContext(ctx, "UPDATE students SET student_group = 'TULIP' WHERE id = ?", s.ID)
		require.NoError(t, err)

		_, err = repo.GetByID(ctx, s.ID)
		assert.ErrorIs(t, err, student.ErrDecoding)
	})
}
