// Package units converts MSTS numeric literals, which may carry a unit
// suffix such as "20.5m", "3ft" or "48t", into SI values.
package units

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrNotNumeric is returned when a literal has no numeric part.
var ErrNotNumeric = errors.New("literal is not numeric")

// Dimension is the physical quantity a Unit measures.
type Dimension int

const (
	Dimensionless Dimension = iota
	Length
	Weight
)

// Unit is a canonical unit a reader asks for. The SI unit of each dimension
// has a factor of 1.
type Unit struct {
	Name      string
	Dimension Dimension
	Factor    float64
}

var (
	None     = Unit{Name: "", Dimension: Dimensionless, Factor: 1}
	Meter    = Unit{Name: "m", Dimension: Length, Factor: 1}
	Kilogram = Unit{Name: "kg", Dimension: Weight, Factor: 1}
)

// suffixes maps a lower-case literal suffix to its factor, per dimension.
var suffixes = map[Dimension]map[string]float64{
	Length: {
		"m":  1,
		"cm": 0.01,
		"mm": 0.001,
		"km": 1000,
		"in": 0.0254,
		"ft": 0.3048,
		"yd": 0.9144,
		"mi": 1609.344,
	},
	Weight: {
		"kg":   1,
		"g":    0.001,
		"t":    1000,
		"lb":   0.45359237,
		"t-uk": 1016.0469088,
		"t-us": 907.18474,
	},
}

// Convert parses literal and returns its value in the SI unit of u's
// dimension. A literal without a suffix is taken to already be in u.
// Suffixes that do not belong to u's dimension are rejected.
func Convert(literal string, u Unit) (float64, error) {
	literal = strings.TrimSpace(literal)
	split := numericPrefix(literal)
	if split == 0 {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, literal)
	}

	v, err := strconv.ParseFloat(literal[:split], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrNotNumeric, literal)
	}

	suffix := strings.ToLower(literal[split:])
	if suffix == "" {
		return v * u.Factor, nil
	}
	if u.Dimension == Dimensionless {
		return 0, fmt.Errorf("unexpected unit %q on dimensionless value %q", suffix, literal)
	}
	factor, ok := suffixes[u.Dimension][suffix]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q in %q", suffix, literal)
	}
	return v * factor, nil
}

// numericPrefix returns the length of the leading float literal in s.
func numericPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	// Exponent, only when followed by digits so "1e" stays a suffix.
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		if j < len(s) && s[j] >= '0' && s[j] <= '9' {
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			i = j
		}
	}
	return i
}
