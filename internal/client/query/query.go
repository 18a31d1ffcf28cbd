// Package query sorts and filters snapshots of a collection mirror for
// display. It never touches the mirror itself.
package query

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/admindash/internal/client/models"
)

var ErrUnknownField = errors.New("unknown field")

// View is the display state of one collection table.
type View struct {
	SortField string
	Desc      bool
	Filter    string
}

// Apply filters items by v.Filter over columns and then sorts them by
// v.SortField. Empty settings are no-ops. The result is a new slice.
func Apply[T models.Fielder](v View, items []T, columns []string) ([]T, error) {
	out := Filter(items, v.Filter, columns)
	if v.SortField == "" {
		return out, nil
	}
	if err := Sort(out, v.SortField, v.Desc); err != nil {
		return nil, err
	}
	return out, nil
}

// Sort orders items in place by field. Numbers compare numerically, booleans
// false before true and everything else as case-insensitive text. The sort is
// stable so equal keys keep mirror order.
func Sort[T models.Fielder](items []T, field string, desc bool) error {
	if len(items) > 0 {
		if _, ok := items[0].Field(field); !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, field)
		}
	}
	slices.SortStableFunc(items, func(a, b T) int {
		av, _ := a.Field(field)
		bv, _ := b.Field(field)
		c := Compare(av, bv)
		if desc {
			return -c
		}
		return c
	})
	return nil
}

// Filter keeps the items where any of fields contains text, ignoring case.
// Blank text keeps everything.
func Filter[T models.Fielder](items []T, text string, fields []string) []T {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]T, 0, len(items))
	for _, it := range items {
		if needle == "" || matches(it, needle, fields) {
			out = append(out, it)
		}
	}
	return out
}

func matches(it models.Fielder, needle string, fields []string) bool {
	for _, f := range fields {
		v, ok := it.Field(f)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToLower(Format(v)), needle) {
			return true
		}
	}
	return false
}

// Compare orders two field values of the same field.
func Compare(a, b any) int {
	switch x := a.(type) {
	case float64:
		if y, ok := b.(float64); ok {
			return cmp.Compare(x, y)
		}
	case int:
		if y, ok := b.(int); ok {
			return cmp.Compare(x, y)
		}
	case bool:
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			default:
				return 1
			}
		}
	}
	return compareText(Format(a), Format(b))
}

// compareText compares numerically when both sides are integers, so that
// numeric ids sort as 2 < 10.
func compareText(a, b string) int {
	if na, err := strconv.ParseInt(a, 10, 64); err == nil {
		if nb, err := strconv.ParseInt(b, 10, 64); err == nil {
			return cmp.Compare(na, nb)
		}
	}
	return cmp.Compare(strings.ToLower(a), strings.ToLower(b))
}

// Format renders a field value as table text.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", x), "0"), ".")
	case bool:
		if x {
			return "yes"
		}
		return "no"
	}
	return fmt.Sprint(v)
}
