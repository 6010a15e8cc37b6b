package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Stat is a numeric statistic that is either present or missing.
// Missing values come from unparseable source cells or unmatched join rows;
// they must never be coerced to zero, since every downstream use is a ratio
// against a position average.
type Stat struct {
	value   float64
	present bool
}

// StatOf returns a present Stat. Non-finite inputs are treated as missing.
func StatOf(v float64) Stat {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Stat{}
	}
	return Stat{value: v, present: true}
}

// MissingStat returns the missing Stat.
func MissingStat() Stat {
	return Stat{}
}

// ParseStat converts a raw table cell to a Stat. Empty or unparseable
// cells become missing, never zero and never an error.
func ParseStat(cell string) Stat {
	s := strings.TrimSpace(cell)
	if s == "" {
		return Stat{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Stat{}
	}
	return StatOf(v)
}

// Present reports whether the value is available.
func (s Stat) Present() bool { return s.present }

// Value returns the numeric value and whether it is present.
func (s Stat) Value() (float64, bool) { return s.value, s.present }

// Or returns the value if present, otherwise the fallback.
func (s Stat) Or(fallback float64) float64 {
	if s.present {
		return s.value
	}
	return fallback
}

// MarshalJSON encodes a present Stat as a number and a missing one as null.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.present {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON decodes null as missing and a number as present.
func (s *Stat) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Stat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = StatOf(v)
	return nil
}
