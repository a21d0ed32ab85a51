package models

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	// TokenSeparator separates platoons (and terrains) in an army string
	TokenSeparator = ";"
	// CountSeparator separates a unit type from its troop count
	CountSeparator = "#"
)

// Platoon is a group of troops of a single unit type
type Platoon struct {
	Type  UnitType `json:"type" yaml:"type"`
	Units int      `json:"units" yaml:"units"`
}

// String formats the platoon as Name#count
func (p Platoon) String() string {
	return fmt.Sprintf("%s%s%d", p.Type, CountSeparator, p.Units)
}

// Army is an ordered list of platoons. For a defender the order is the lane
// assignment; for an attacker it is what the solver permutes.
type Army []Platoon

// String formats the army as Name#count tokens joined by ';'
func (a Army) String() string {
	parts := make([]string, len(a))
	for i, p := range a {
		parts[i] = p.String()
	}
	return strings.Join(parts, TokenSeparator)
}

// TotalUnits returns total troop count of the army
func (a Army) TotalUnits() int {
	total := 0
	for _, p := range a {
		total += p.Units
	}
	return total
}

// Clone returns a copy of the army
func (a Army) Clone() Army {
	if a == nil {
		return nil
	}
	c := make(Army, len(a))
	copy(c, a)
	return c
}

// String formats the terrains as names joined by ';'
func (ts Terrains) String() string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = string(t)
	}
	return strings.Join(parts, TokenSeparator)
}

// TokenError describes an input token that was skipped during parsing
type TokenError struct {
	Token  string
	Reason string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("skipping malformed token %q: %s", e.Token, e.Reason)
}

// ParsePlatoon parses a single Name#count token
func ParsePlatoon(token string) (Platoon, error) {
	token = strings.TrimSpace(token)
	parts := strings.Split(token, CountSeparator)
	if len(parts) != 2 {
		return Platoon{}, &TokenError{Token: token, Reason: "expected exactly one '#'"}
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Platoon{}, &TokenError{Token: token, Reason: "missing unit type"}
	}

	count := strings.TrimSpace(parts[1])
	units, err := strconv.Atoi(count)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(count, "-") {
			return Platoon{}, &TokenError{Token: token, Reason: "count is negative"}
		}
		return Platoon{}, &TokenError{Token: token, Reason: fmt.Sprintf("count exceeds the maximum of %d", math.MaxInt)}
	}
	if err != nil {
		return Platoon{}, &TokenError{Token: token, Reason: "count is not an integer"}
	}
	if units < 0 {
		return Platoon{}, &TokenError{Token: token, Reason: "count is negative"}
	}

	return Platoon{Type: UnitType(name), Units: units}, nil
}

// ParseArmy builds an army from Name#count tokens joined by ';'.
// Malformed tokens are logged and skipped; the skipped tokens are returned
// so callers can report them. Blank tokens are ignored.
func ParseArmy(s string) (Army, []error) {
	var army Army
	var skipped []error

	for _, part := range strings.Split(strings.TrimSpace(s), TokenSeparator) {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePlatoon(part)
		if err != nil {
			log.Warn().Err(err).Msg("skipping platoon")
			skipped = append(skipped, err)
			continue
		}
		if !p.Type.Known() {
			log.Debug().Str("unit_type", string(p.Type)).Msg("unknown unit type, it holds no advantages")
		}
		army = append(army, p)
	}

	return army, skipped
}

// ParseTerrains builds a per-lane terrain list from names joined by ';'.
// Unknown names are logged and skipped.
func ParseTerrains(s string) (Terrains, []error) {
	var terrains Terrains
	var skipped []error

	for _, part := range strings.Split(strings.TrimSpace(s), TokenSeparator) {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		t, ok := ParseTerrainType(name)
		if !ok {
			err := &TokenError{Token: name, Reason: "invalid terrain type"}
			log.Warn().Err(err).Msg("skipping terrain")
			skipped = append(skipped, err)
			continue
		}
		terrains = append(terrains, t)
	}

	return terrains, skipped
}
