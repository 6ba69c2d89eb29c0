package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// encodeJSON stores nil pointers and empty slices as NULL.
func encodeJSON(v any) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return sql.NullString{}, nil
		}
	case reflect.Slice, reflect.Map:
		if rv.Len() == 0 {
			return sql.NullString{}, nil
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode json column: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func decodeJSON(ns sql.NullString, dst any) error {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(ns.String), dst); err != nil {
		return fmt.Errorf("failed to decode json column: %w", err)
	}
	return nil
}

func nullTime(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
