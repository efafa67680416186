// Package uuid produces the time-ordered ids used as primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a new UUIDv7 string. Ids created later sort after earlier
// ones, so ordering by id follows insertion order.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.NewString()
	}
	return id.String()
}

// Parse returns the canonical lowercase form of s.
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}

// IsValid reports whether s is a UUID in any of the accepted textual forms.
func IsValid(s string) bool {
	return googleuuid.Validate(s) == nil
}
