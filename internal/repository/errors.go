package repository

import (
	"errors"

	"github.com/lib/pq"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name()
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == "unique_violation"
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == "foreign_key_violation"
}
