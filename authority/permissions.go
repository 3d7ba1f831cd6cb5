package authority

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
)

// Permissions is an ordered permission set. It persists as a JSON text
// column so that array order and content round-trip unchanged.
type Permissions []string

func (p Permissions) Contains(permission string) bool {
	for _, v := range p {
		if v == permission {
			return true
		}
	}
	return false
}

// Normalize trims every entry, drops empties and deduplicates while
// preserving first-occurrence order.
func (p Permissions) Normalize() Permissions {
	result := Permissions{}
	seen := map[string]bool{}
	for _, v := range p {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}

// Unknown returns the entries not present in the catalog.
func (p Permissions) Unknown() []string {
	var unknown []string
	for _, v := range p {
		if !IsValid(v) {
			unknown = append(unknown, v)
		}
	}
	return unknown
}

func (p Permissions) Value() (driver.Value, error) {
	if p == nil {
		p = Permissions{}
	}
	return json.Marshal(p)
}

func (p *Permissions) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = Permissions{}
		return nil
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return errors.New("unsupported source type of permissions")
	}
}
