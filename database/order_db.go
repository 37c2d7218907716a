package database

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// MaxDisplayOrderQuery builds the scope-max query the append path runs before
// every insert. pred narrows the scope (photos of one project, photos of one
// category); nil means the whole table.
func MaxDisplayOrderQuery(table string, pred interface{}) (string, []interface{}, error) {
	queryBuilder := psql.Select("MAX(display_order)").From(table)
	if pred != nil {
		queryBuilder = queryBuilder.Where(pred)
	}
	sqlStr, args, err := queryBuilder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build SQL query for max display_order on %s: %w", table, err)
	}
	return sqlStr, args, nil
}

// SetDisplayOrderUpdate builds the positional update issued for each id of a
// reorder batch: row at position i gets display_order = i and a fresh
// updated_at. extraPred optionally pins the row to a scope (project_id check
// for photo-in-project reorders).
func SetDisplayOrderUpdate(table string, id uint, position int, now int64, extraPred interface{}) (string, []interface{}, error) {
	updateBuilder := psql.Update(table).
		Set("display_order", position).
		Set("updated_at", now).
		Where(sq.Eq{"id": id})
	if extraPred != nil {
		updateBuilder = updateBuilder.Where(extraPred)
	}
	sqlStr, args, err := updateBuilder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("failed to build SQL update for display_order on %s: %w", table, err)
	}
	return sqlStr, args, nil
}
