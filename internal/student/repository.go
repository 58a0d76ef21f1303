package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"student-orm/internal/metrics"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/feature"
	"github.com/uptrace/bun/driver/pgdriver"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Repository interface {
	Create(ctx context.Context, student *Student) (*Student, error)
	CreateAll(ctx context.Context, students []*Student) error
	GetAll(ctx context.Context) ([]Student, error)
	GetByID(ctx context.Context, id int64) (*Student, error)
	Update(ctx context.Context, student *Student) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db      *bun.DB
	mapper  *Mapper
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, mapper *Mapper, m *metrics.Metrics) Repository {
	if m == nil {
		m = metrics.NewMock()
	}
	return &repository{
		db:      db,
		mapper:  mapper,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, student *Student) (*Student, error) {
	if err := r.insert(ctx, r.db, student); err != nil {
		return nil, err
	}
	return student, nil
}

// CreateAll persists every student in a single transaction. Either all rows
// are written or none.
func (r *repository) CreateAll(ctx context.Context, students []*Student) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, s := range students {
			if err := r.insert(ctx, tx, s); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) insert(ctx context.Context, idb bun.IDB, student *Student) error {
	row, err := r.mapper.ToRow(student)
	if err != nil {
		return err
	}
	values := row.Map()

	start := time.Now()
	q := idb.NewInsert().Model(&values).TableExpr(TableName)

	if r.mapper.IDStrategy() == IDCaller {
		_, err = q.Exec(ctx)
	} else if r.db.HasFeature(feature.InsertReturning) {
		var id int64
		_, err = q.Returning(ColumnID).Exec(ctx, &id)
		if err == nil {
			student.ID = id
		}
	} else {
		var res sql.Result
		res, err = q.Exec(ctx)
		if err == nil {
			student.ID, err = res.LastInsertId()
		}
	}

	r.metrics.Database.RecordQuery(ctx, "insert", TableName, time.Since(start), err)

	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: %d", ErrDuplicateID, student.ID)
		}
		return err
	}
	r.metrics.RecordStudentPersisted(ctx)
	return nil
}

func (r *repository) GetAll(ctx context.Context) ([]Student, error) {
	start := time.Now()
	var rows []map[string]interface{}
	err := r.db.NewSelect().
		Column(r.mapper.Columns()...).
		TableExpr(TableName).
		OrderExpr("? ASC", bun.Ident(ColumnID)).
		Scan(ctx, &rows)

	r.metrics.Database.RecordQuery(ctx, "select", TableName, time.Since(start), err)

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	students := make([]Student, 0, len(rows))
	for _, m := range rows {
		s, err := r.mapper.FromRow(RowFromMap(m, r.mapper.Columns()))
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Student, error) {
	start := time.Now()
	values := make(map[string]interface{})
	err := r.db.NewSelect().
		Column(r.mapper.Columns()...).
		TableExpr(TableName).
		Where("? = ?", bun.Ident(ColumnID), id).
		Scan(ctx, &values)

	r.metrics.Database.RecordQuery(ctx, "select", TableName, time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return r.mapper.FromRow(RowFromMap(values, r.mapper.Columns()))
}

func (r *repository) Update(ctx context.Context, student *Student) error {
	if student == nil || student.ID <= 0 {
		return &ValidationError{Field: "ID", Message: "id is required for update"}
	}
	row, err := r.mapper.ToRow(student)
	if err != nil {
		return err
	}
	values := row.Map()
	delete(values, ColumnID)

	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(&values).
		TableExpr(TableName).
		Where("? = ?", bun.Ident(ColumnID), student.ID).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", TableName, time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	result, err := r.db.NewDelete().
		Model((*Table)(nil)).
		Where("? = ?", bun.Ident(ColumnID), id).
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "delete", TableName, time.Since(start), err)

	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrStudentNotFound
	}
	return nil
}

// isDuplicateKey reports whether err is a primary key or unique violation
// raised by Postgres or SQLite.
func isDuplicateKey(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		case sqlite3.SQLITE_CONSTRAINT:
			return strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
		}
	}
	return false
}
