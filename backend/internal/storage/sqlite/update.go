package sqlite

import (
	"fmt"
	"strings"
	"time"
)

// setClause builds "UPDATE ... SET ... RETURNING ..." for partial updates.
// updated_at is always part of the SET list.
type setClause struct {
	columns []string
	args    []any
}

func newSetClause(updatedAt time.Time) *setClause {
	c := &setClause{}
	c.add("updated_at", updatedAt.UnixNano())
	return c
}

func (c *setClause) add(column string, value any) {
	c.args = append(c.args, value)
	c.columns = append(c.columns, fmt.Sprintf("%s = ?%d", column, len(c.args)))
}

func (c *setClause) build(table, id, returning string) (string, []any) {
	args := append(c.args, id)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?%d RETURNING %s",
		table, strings.Join(c.columns, ", "), len(args), returning)
	return query, args
}
