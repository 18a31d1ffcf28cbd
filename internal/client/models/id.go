package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
)

var ErrEmptyID = errors.New("empty id")

// ID identifies a record inside its collection. Backends hand out either
// integer or string keys; both are kept in their textual form. Canonical
// integer ids are written back to JSON as numbers so the backend sees its own
// type.
type ID string

// ParseID trims s and rejects empty input.
func ParseID(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmptyID
	}
	return ID(s), nil
}

func (id ID) String() string { return string(id) }

func (id ID) IsZero() bool { return id == "" }

// numeric reports whether id is a canonical JSON integer: no leading zeros
// and no "-0". Keys like "007" stay strings.
func (id ID) numeric() bool {
	s := strings.TrimPrefix(string(id), "-")
	if s == "" || (s[0] == '0' && (len(s) > 1 || len(s) < len(id))) {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}
