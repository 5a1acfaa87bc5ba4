package repositories

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// isDuplicateKeyError matches unique violations from gorm's translator and,
// for drivers it does not know, from the raw driver message.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505")
}

func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}

	errStr := err.Error()
	return strings.Contains(errStr, "FOREIGN KEY constraint") ||
		strings.Contains(errStr, "violates foreign key") ||
		strings.Contains(errStr, "23503")
}

// likeEscape must follow every LIKE that binds a likePattern.
const likeEscape = ` ESCAPE '\'`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern for
// LOWER(col) LIKE ? ESCAPE '\'. Wildcards in s match literally.
func likePattern(s string) string {
	return "%" + likeReplacer.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}
