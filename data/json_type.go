package data

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// JSONMap is a GORM-compatible map[string]any that stores JSONB/JSON in a DB.
type JSONMap map[string]any

// Value implements the driver.Valuer interface for database serialization.
func (m *JSONMap) Value() (driver.Value, error) {
	if m == nil || *m == nil {
		return nil, nil //nolint:nilnil //nothing to serialise is not an error
	}
	return json.Marshal(*m)
}

// Scan implements the sql.Scanner interface for database deserialization.
func (m *JSONMap) Scan(value any) error {
	if value == nil {
		*m = make(JSONMap)
		return nil
	}

	var payload []byte
	switch v := value.(type) {
	case []byte:
		payload = v
	case string:
		payload = []byte(v)
	default:
		return fmt.Errorf("jsonmap: unsupported Scan type: %T", value)
	}

	var temp map[string]any
	if err := json.Unmarshal(payload, &temp); err != nil {
		return fmt.Errorf("jsonmap: decode error: %w", err)
	}

	*m = temp
	return nil
}

// MarshalJSON customizes the JSON encoding.
func (m *JSONMap) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(map[string]any(*m))
}

// UnmarshalJSON deserializes JSON into the map.
func (m *JSONMap) UnmarshalJSON(payload []byte) error {
	if len(payload) == 0 {
		*m = make(JSONMap)
		return nil
	}
	var temp map[string]any
	if err := json.Unmarshal(payload, &temp); err != nil {
		return err
	}
	*m = temp
	return nil
}

// DeepCopy returns an independent copy of the map. The copy shares nothing
// with the receiver so mutations on either side stay invisible to the other.
func (m JSONMap) DeepCopy() JSONMap {
	if m == nil {
		return nil
	}

	payload, err := json.Marshal(map[string]any(m))
	if err != nil {
		return make(JSONMap)
	}

	duplicate := make(JSONMap, len(m))
	_ = json.Unmarshal(payload, &duplicate)
	return duplicate
}

// GormDataType returns the common GORM data type.
func (m *JSONMap) GormDataType() string {
	return "jsonmap"
}

// GormDBDataType returns the dialect-specific database column type.
func (m *JSONMap) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	switch db.Dialector.Name() {
	case "postgres":
		return "JSONB"
	case "mysql", "sqlite":
		return "JSON"
	case "sqlserver":
		return "NVARCHAR(MAX)"
	default:
		return ""
	}
}

// GormValue optimizes how values are rendered in SQL for specific dialects.
func (m *JSONMap) GormValue(_ context.Context, db *gorm.DB) clause.Expr {
	if m == nil {
		return clause.Expr{SQL: "?", Vars: []any{nil}}
	}

	payload, err := json.Marshal(map[string]any(*m))
	if err != nil {
		return clause.Expr{SQL: "?", Vars: []any{nil}}
	}

	switch db.Dialector.Name() {
	case "mysql":
		return gorm.Expr("CAST(? AS JSON)", payload)
	default:
		return gorm.Expr("?", payload)
	}
}
