package forms

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/admindash/internal/client/models"
)

// Decode validates values and builds a T from them. Number fields become
// JSON numbers; empty optional fields are left out so T keeps its zero value.
// Field names are the JSON names of T.
func Decode[T any](s Schema, values map[string]string) (T, error) {
	var zero T
	return DecodeInto(s, zero, values)
}

// DecodeInto is Decode starting from base instead of the zero value. Fields
// of base outside the schema, and fields left empty, keep their value.
func DecodeInto[T any](s Schema, base T, values map[string]string) (T, error) {
	out := base
	if err := s.Validate(values); err != nil {
		return base, err
	}

	doc := make(map[string]any, len(s.Fields))
	for _, f := range s.Fields {
		v := strings.TrimSpace(values[f.Name])
		if v == "" {
			continue
		}
		if f.Type == TypeNumber {
			n, _ := strconv.ParseFloat(v, 64) // validated above
			doc[f.Name] = n
			continue
		}
		doc[f.Name] = v
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return base, fmt.Errorf("encode form: %w", err)
	}
	if err := json.Unmarshal(b, &out); err != nil {
		return base, fmt.Errorf("decode form: %w", err)
	}
	return out, nil
}

// Prefill returns the current values of rec for every field of the schema,
// for editing an existing record.
func Prefill(s Schema, rec models.Fielder) map[string]string {
	values := make(map[string]string, len(s.Fields))
	for _, f := range s.Fields {
		v, ok := rec.Field(f.Name)
		if !ok || v == nil {
			continue
		}
		switch x := v.(type) {
		case string:
			values[f.Name] = x
		case float64:
			values[f.Name] = formatNumber(x)
		default:
			values[f.Name] = fmt.Sprint(x)
		}
	}
	return values
}
