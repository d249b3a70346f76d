package sqlstore

import (
	"database/sql"
	"fmt"
	"strings"

	appDb "github.com/navbryce/next-blog-be/db"
	"github.com/upper/db/v4"
)

// whereClause joins conditions with AND into the variadic form Selector.Where takes.
// No conditions returns nil, which selects everything.
type whereClause struct {
	conds []string
	args  []interface{}
}

func (wc *whereClause) add(cond string, args ...interface{}) {
	wc.conds = append(wc.conds, cond)
	wc.args = append(wc.args, args...)
}

func (wc *whereClause) build() []interface{} {
	if len(wc.conds) == 0 {
		return nil
	}
	return append([]interface{}{strings.Join(wc.conds, " AND ")}, wc.args...)
}

// insertedId converts the adapter specific id from an insert into an int64
func insertedId(res db.InsertResult) (int64, error) {
	switch id := res.ID().(type) {
	case int64:
		return id, nil
	case int:
		return int64(id), nil
	case int32:
		return int64(id), nil
	case uint64:
		return int64(id), nil
	case []byte:
		var parsed int64
		_, err := fmt.Sscan(string(id), &parsed)
		return parsed, err
	default:
		return 0, fmt.Errorf("unexpected inserted id type %T", id)
	}
}

type countRow struct {
	Total int `db:"total"`
}

// requireAffected turns a write that touched no rows into ErrNotFound.
func requireAffected(res sql.Result, what string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%v: %w", what, appDb.ErrNotFound)
	}
	return nil
}
