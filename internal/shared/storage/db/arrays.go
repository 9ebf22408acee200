package db

import (
	"database/sql"

	"github.com/jackc/pgx/v5/pgtype"
)

// StringArray scans a Postgres text[] column into dst. NULL scans as an empty slice.
func StringArray(dst *[]string) sql.Scanner {
	return &stringArray{dst: dst}
}

type stringArray struct {
	dst *[]string
}

func (a *stringArray) Scan(src any) error {
	if src == nil {
		*a.dst = []string{}
		return nil
	}
	var out []string
	if err := pgtype.NewMap().SQLScanner(&out).Scan(src); err != nil {
		return err
	}
	if out == nil {
		out = []string{}
	}
	*a.dst = out
	return nil
}

// NonNilStrings returns values, or an empty slice when values is nil, so text[] columns never receive NULL.
func NonNilStrings(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
