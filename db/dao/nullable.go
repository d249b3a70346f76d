package dao

import "database/sql"

type NullInt64 struct {
	sql.NullInt64
}

func NullInt64From(val *int64) NullInt64 {
	if val == nil {
		return NullInt64{}
	}
	return NullInt64{sql.NullInt64{Int64: *val, Valid: true}}
}

// AsPtr if parent is nil, returns nil
func (ni *NullInt64) AsPtr() *int64 {
	if !ni.NullInt64.Valid {
		return nil
	}
	val := ni.NullInt64.Int64
	return &val
}

type NullString struct {
	sql.NullString
}

// AsString if parent is nil, returns ""
func (ns *NullString) AsString() string {
	if !ns.NullString.Valid {
		return ""
	}
	return ns.NullString.String
}
