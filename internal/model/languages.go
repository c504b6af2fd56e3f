package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Languages is stored as a JSON array column, relevance order preserved.
type Languages []string

func (l Languages) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *Languages) Scan(src interface{}) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Languages", src)
	}
	return json.Unmarshal(data, (*[]string)(l))
}

func (Languages) GormDataType() string {
	return "json"
}
