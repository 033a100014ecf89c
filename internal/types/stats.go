package types

import (
	"fmt"
	"strings"
)

// Stat identifies anything a modifier can target or a check can read:
// base attributes, derived capabilities, runtime resources and meta stats.
type Stat string

const (
	StatIntelligence Stat = "intelligence"
	StatPhysical     Stat = "physical"
	StatPerception   Stat = "perception"
	StatCharisma     Stat = "charisma"

	StatHack        Stat = "hack"
	StatCombat      Stat = "combat"
	StatStealth     Stat = "stealth"
	StatNegotiation Stat = "negotiation"
	StatAnalysis    Stat = "analysis"

	StatHealth     Stat = "health"
	StatBattery    Stat = "battery"
	StatMaxHealth  Stat = "max_health"
	StatMaxBattery Stat = "max_battery"

	StatLevel      Stat = "level"
	StatCredits    Stat = "credits"
	StatKarma      Stat = "karma"
	StatNotoriety  Stat = "notoriety"
	StatReputation Stat = "reputation"
)

// Attributes lists the base attributes in display order.
var Attributes = []Stat{StatIntelligence, StatPhysical, StatPerception, StatCharisma}

// Capabilities lists the derived capabilities in display order.
var Capabilities = []Stat{StatHack, StatCombat, StatStealth, StatNegotiation, StatAnalysis}

var allStats = map[Stat]struct{}{
	StatIntelligence: {}, StatPhysical: {}, StatPerception: {}, StatCharisma: {},
	StatHack: {}, StatCombat: {}, StatStealth: {}, StatNegotiation: {}, StatAnalysis: {},
	StatHealth: {}, StatBattery: {}, StatMaxHealth: {}, StatMaxBattery: {},
	StatLevel: {}, StatCredits: {}, StatKarma: {}, StatNotoriety: {}, StatReputation: {},
}

// statAliases maps content spellings onto canonical stats.
var statAliases = map[string]Stat{
	"energy":     StatBattery,
	"max_energy": StatMaxBattery,
	"int":        StatIntelligence,
	"phys":       StatPhysical,
	"per":        StatPerception,
	"cha":        StatCharisma,
}

// IsAttribute reports whether s is a base attribute.
func (s Stat) IsAttribute() bool {
	switch s {
	case StatIntelligence, StatPhysical, StatPerception, StatCharisma:
		return true
	}
	return false
}

// IsCapability reports whether s is a derived capability.
func (s Stat) IsCapability() bool {
	switch s {
	case StatHack, StatCombat, StatStealth, StatNegotiation, StatAnalysis:
		return true
	}
	return false
}

// Valid reports whether s is a known stat.
func (s Stat) Valid() bool {
	_, ok := allStats[s]
	return ok
}

// ParseStat converts a content string into a Stat.
func ParseStat(raw string) (Stat, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := statAliases[key]; ok {
		return alias, nil
	}
	s := Stat(key)
	if !s.Valid() {
		return "", fmt.Errorf("%w: stat %q", ErrUnknownEnum, raw)
	}
	return s, nil
}

// Role is the character archetype chosen at creation.
type Role string

const (
	RoleHacker      Role = "hacker"
	RoleMerc        Role = "merc"
	RoleInfiltrator Role = "infiltrator"
	RoleFixer       Role = "fixer"
)

// ParseRole converts a string into a Role.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch r {
	case RoleHacker, RoleMerc, RoleInfiltrator, RoleFixer:
		return r, nil
	}
	return "", fmt.Errorf("%w: role %q", ErrUnknownEnum, raw)
}

// Difficulty scales starting resources.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyNormal Difficulty = "normal"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty converts a string into a Difficulty.
func ParseDifficulty(raw string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(raw)))
	switch d {
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("%w: difficulty %q", ErrUnknownEnum, raw)
}
