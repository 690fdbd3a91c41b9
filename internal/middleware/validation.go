package middleware

import (
	"errors"
	"unicode/utf8"
)

// ValidateCollectionName validates a collection path parameter.
func ValidateCollectionName(name string) error {
	if len(name) == 0 {
		return errors.New("collection name cannot be empty")
	}
	if len(name) > 64 {
		return errors.New("collection name exceeds maximum length")
	}
	for _, r := range name {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '_' {
			return errors.New("collection name contains invalid characters")
		}
	}
	return nil
}

// ValidateItemID validates a record id path parameter.
func ValidateItemID(id string) error {
	if len(id) == 0 {
		return errors.New("item id cannot be empty")
	}
	if len(id) > 128 {
		return errors.New("item id exceeds maximum length")
	}
	if !utf8.ValidString(id) {
		return errors.New("item id must be valid UTF-8")
	}
	return nil
}
