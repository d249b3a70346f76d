package db

import (
	"errors"
	"regexp"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

const (
	mysqlDupEntry      = 1062
	postgresUniqueCode = "23505"
)

var mysqlDupKeyRegexp = regexp.MustCompile(`(for key ')((.)+)(')`)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDupKeyErr reports whether err is a unique constraint violation from any supported store.
func IsDupKeyErr(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicate) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDupEntry || strings.Contains(mysqlErr.Error(), "Duplicate")
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == postgresUniqueCode
	}
	return false
}

// GetDupKey returns the violated mysql key name, or "" if it can't be determined.
func GetDupKey(err error) string {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		match := mysqlDupKeyRegexp.FindStringSubmatch(mysqlErr.Message)
		if len(match) > 2 {
			return match[2]
		}
		return ""
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}
