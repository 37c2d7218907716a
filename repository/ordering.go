package repository

import (
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"github.com/rizopoulos/portfoliobackend/database"
)

// nextDisplayOrder reads the current scope maximum and returns max+1, or 0
// when the scope is empty. Shared by the project and photo repositories; the
// read and the subsequent insert are not serialized against concurrent
// creators, so equal orders from a racing pair are tolerated and resolved by
// the list tiebreak.
func nextDisplayOrder(db *gorm.DB, table string, pred interface{}) (int, error) {
	sqlStr, args, err := database.MaxDisplayOrderQuery(table, pred)
	if err != nil {
		return 0, err
	}
	var max sql.NullInt64
	if err := db.Raw(sqlStr, args...).Scan(&max).Error; err != nil {
		return 0, fmt.Errorf("failed to read max display_order from %s: %w", table, err)
	}
	if !max.Valid {
		return 0, nil
	}
	return int(max.Int64) + 1, nil
}
