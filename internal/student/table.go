package student

import (
	"time"

	"github.com/uptrace/bun"
)

// TableName is the table students are persisted to.
const TableName = "students"

// Table describes the students table for schema synchronization. Reads and
// writes go through Row and the Mapper, not through this struct.
type Table struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Name        string    `bun:"name,notnull"`
	DateOfBirth time.Time `bun:"date_of_birth,type:date,nullzero"`
	Group       string    `bun:"student_group,nullzero"`
}
