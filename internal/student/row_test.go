package student_test

import (
	"testing"

	"student-orm/internal/student"

	"github.com/stretchr/testify/assert"
)

func TestRowFromMapKeepsOrder(t *testing.T) {
	m := map[string]interface{}{
		"student_group": "ROSE",
		"id":            int64(1),
		"name":          "Jack",
	}

	row := student.RowFromMap(m, []string{"id", "name", "date_of_birth", "student_group"})

	assert.Equal(t, []string{"id", "name", "student_group"}, row.Names())
	assert.Equal(t, []any{int64(1), "Jack", "ROSE"}, row.Values())
	assert.Equal(t, m, row.Map())

	_, ok := row.Get("date_of_birth")
	assert.False(t, ok)
}

func TestGroupTable(t *testing.T) {
	for _, g := range student.Groups() {
		name, ok := g.Name()
		assert.True(t, ok)
		parsed, ok := student.ParseGroup(name)
		assert.True(t, ok)
		assert.Equal(t, g, parsed)
	}

	assert.False(t, student.Group("TULIP").Valid())
	_, ok := student.ParseGroup("rose")
	assert.False(t, ok, "names are case sensitive")
}
