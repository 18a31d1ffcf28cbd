package forms

import (
	"errors"
	"fmt"
	"math"
	"net/mail"
	"strconv"
	"strings"
)

var ErrInvalid = errors.New("invalid form input")

type FieldError struct {
	Field string
	Msg   string
}

func (e FieldError) Error() string { return e.Field + ": " + e.Msg }

// ValidationErrors collects every failing field of a form, in schema order.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	parts := make([]string, 0, len(v))
	for _, e := range v {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "; ")
}

func (v ValidationErrors) Unwrap() error { return ErrInvalid }

// Validate checks values against the schema. Values are trimmed first; keys
// the schema does not know are ignored.
func (s Schema) Validate(values map[string]string) error {
	var errs ValidationErrors
	for _, f := range s.Fields {
		if msg := f.check(strings.TrimSpace(values[f.Name])); msg != "" {
			errs = append(errs, FieldError{Field: f.Name, Msg: msg})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// check returns a message describing why v is not acceptable, or "".
func (f Field) check(v string) string {
	if v == "" {
		if f.Required {
			return "is required"
		}
		return ""
	}

	switch f.Type {
	case TypeNumber:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return "must be a number"
		}
		if f.Min != nil && n < *f.Min {
			return fmt.Sprintf("must be at least %s", formatNumber(*f.Min))
		}
		if f.Max != nil && n > *f.Max {
			return fmt.Sprintf("must be at most %s", formatNumber(*f.Max))
		}
		if f.Step > 0 && !onStep(n, f.base(), f.Step) {
			return fmt.Sprintf("must be a multiple of %s", formatNumber(f.Step))
		}
	case TypeEmail:
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v {
			return "must be an email address"
		}
	case TypeTel:
		if !isPhone(v) {
			return "must be a phone number"
		}
	}
	return ""
}

// base is the value steps are counted from: Min when set, otherwise zero.
func (f Field) base() float64 {
	if f.Min != nil {
		return *f.Min
	}
	return 0
}

func onStep(n, base, step float64) bool {
	q := (n - base) / step
	return math.Abs(q-math.Round(q)) < 1e-9
}

// isPhone accepts digits with the usual separators and an optional leading
// plus, and requires at least three digits.
func isPhone(v string) bool {
	digits := 0
	for i, r := range v {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')' || r == 'x':
		default:
			return false
		}
	}
	return digits >= 3
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
