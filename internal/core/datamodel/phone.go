package datamodel

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Phone groups a user's numbers by kind. It is stored as a JSON document in a text column.
type Phone struct {
	Mobile []string `json:"mobile"`
	Office []string `json:"office"`
	Home   []string `json:"home"`
}

func (p Phone) Value() (driver.Value, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Phone) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*p = Phone{}
		return nil
	case string:
		return json.Unmarshal([]byte(v), p)
	case []byte:
		return json.Unmarshal(v, p)
	default:
		return fmt.Errorf("phone: cannot scan %T", value)
	}
}
