// Package parse normalizes the localized wire values SIPAC sends:
// "R$ 1.234,56" currency strings, DD/MM/YYYY dates, ids that arrive
// either as JSON numbers or strings, and "code - description" pairs.
package parse

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var codeDescRe = regexp.MustCompile(`^(\d+)\s*-\s*(.*)$`)

// ID parses an integer-like remote identifier in base 10.
// Non-numeric content is a mapping error.
func ID(raw string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse id %q: %w", raw, err)
	}
	return id, nil
}

// FlexID accepts a remote id encoded either as a JSON number or a string.
type FlexID int

func (f *FlexID) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	id, err := ID(string(data))
	if err != nil {
		return err
	}
	*f = FlexID(id)
	return nil
}

func (f FlexID) Int() int { return int(f) }

// Decimal normalizes a localized currency or quantity string into a
// canonical decimal: the "R$" prefix and surrounding whitespace are
// stripped, thousands-separator dots removed, and the decimal comma
// replaced with a dot.
func Decimal(s string) (decimal.Decimal, error) {
	normalized := strings.TrimSpace(s)
	normalized = strings.TrimPrefix(normalized, "R$")
	normalized = strings.TrimSpace(normalized)
	normalized = strings.ReplaceAll(normalized, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return d, nil
}

// Date parses a DD/MM/YYYY string. Anything that does not split into
// three numeric parts yields ok=false rather than an error; whether an
// absent date is acceptable is decided at persistence time.
func Date(s string) (time.Time, bool) {
	parts := strings.Split(strings.TrimSpace(s), "/")
	if len(parts) != 3 {
		return time.Time{}, false
	}

	day, errD := strconv.Atoi(parts[0])
	month, errM := strconv.Atoi(parts[1])
	year, errY := strconv.Atoi(parts[2])
	if errD != nil || errM != nil || errY != nil {
		return time.Time{}, false
	}

	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), true
}

// CodeDescription splits a composite "302400029834 - PARAFUSO" string
// into its numeric code and free-text description.
func CodeDescription(s string) (code, description string, ok bool) {
	m := codeDescRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
