package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// KeywordCount maps keyword -> occurrence count. Stored as jsonb so the
// vocabulary stays open.
type KeywordCount map[string]int

// Value implements driver.Valuer for jsonb columns.
func (k KeywordCount) Value() (driver.Value, error) {
	if k == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(k)
}

// Scan implements sql.Scanner for jsonb columns.
func (k *KeywordCount) Scan(src interface{}) error {
	return scanJSON(src, k)
}

// KeywordList is an ordered keyword list stored as jsonb.
type KeywordList []string

// Value implements driver.Valuer for jsonb columns.
func (k KeywordList) Value() (driver.Value, error) {
	if k == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(k)
}

// Scan implements sql.Scanner for jsonb columns.
func (k *KeywordList) Scan(src interface{}) error {
	return scanJSON(src, k)
}

func scanJSON(src, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", src)
	}
}
