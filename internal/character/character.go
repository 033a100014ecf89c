package character

import (
	"errors"
	"sort"

	"github.com/user/district-runner/internal/types"
)

// ErrInsufficientCredits is returned when a purchase costs more than the character holds.
var ErrInsufficientCredits = errors.New("insufficient credits")

// DefaultBatteryPenalty is the notoriety added when battery would go below zero.
const DefaultBatteryPenalty = 5

// Options configures a new character.
type Options struct {
	MaxHealth      int
	MaxBattery     int
	BatteryPenalty int
}

// DefaultOptions returns the stock resource maxima.
func DefaultOptions() Options {
	return Options{
		MaxHealth:      100,
		MaxBattery:     100,
		BatteryPenalty: DefaultBatteryPenalty,
	}
}

// roleAttributes holds the fixed base attributes per role.
var roleAttributes = map[types.Role]map[types.Stat]int{
	types.RoleHacker: {
		types.StatIntelligence: 5, types.StatPhysical: 1, types.StatPerception: 3, types.StatCharisma: 2,
	},
	types.RoleMerc: {
		types.StatIntelligence: 2, types.StatPhysical: 5, types.StatPerception: 3, types.StatCharisma: 1,
	},
	types.RoleInfiltrator: {
		types.StatIntelligence: 3, types.StatPhysical: 2, types.StatPerception: 5, types.StatCharisma: 2,
	},
	types.RoleFixer: {
		types.StatIntelligence: 3, types.StatPhysical: 2, types.StatPerception: 2, types.StatCharisma: 5,
	},
}

var startingCredits = map[types.Difficulty]int{
	types.DifficultyEasy:   300,
	types.DifficultyNormal: 150,
	types.DifficultyHard:   50,
}

// Character is the player character and owns every stat layer.
type Character struct {
	Name       string
	Role       types.Role
	Difficulty types.Difficulty

	base      map[types.Stat]int
	modifiers *modifierArena

	health         int
	battery        int
	baseMaxHealth  int
	baseMaxBattery int
	batteryPenalty int

	level      int
	credits    int
	karma      int
	notoriety  int
	reputation int

	inventory map[string]Item
}

// New creates a character with the base attributes of its role.
func New(name string, role types.Role, difficulty types.Difficulty, opts Options) *Character {
	if opts.MaxHealth <= 0 {
		opts.MaxHealth = DefaultOptions().MaxHealth
	}
	if opts.MaxBattery <= 0 {
		opts.MaxBattery = DefaultOptions().MaxBattery
	}
	if opts.BatteryPenalty < 0 {
		opts.BatteryPenalty = 0
	}

	base := make(map[types.Stat]int, len(types.Attributes))
	for stat, value := range roleAttributes[role] {
		base[stat] = value
	}

	return &Character{
		Name:           name,
		Role:           role,
		Difficulty:     difficulty,
		base:           base,
		modifiers:      newModifierArena(),
		health:         opts.MaxHealth,
		battery:        opts.MaxBattery,
		baseMaxHealth:  opts.MaxHealth,
		baseMaxBattery: opts.MaxBattery,
		batteryPenalty: opts.BatteryPenalty,
		level:          1,
		credits:        startingCredits[difficulty],
		inventory:      make(map[string]Item),
	}
}

// Base returns the unmodified value of a base attribute, or 0 for anything else.
func (c *Character) Base(stat types.Stat) int {
	return c.base[stat]
}

// EffectiveAttribute returns base plus active modifiers for a base attribute.
func (c *Character) EffectiveAttribute(stat types.Stat) int {
	if !stat.IsAttribute() {
		return 0
	}
	return c.base[stat] + c.modifiers.sum(stat)
}

// EffectiveCapability computes a derived capability from effective attributes
// plus modifiers that target the capability itself.
func (c *Character) EffectiveCapability(stat types.Stat) int {
	intel := c.EffectiveAttribute(types.StatIntelligence)
	phys := c.EffectiveAttribute(types.StatPhysical)
	per := c.EffectiveAttribute(types.StatPerception)
	cha := c.EffectiveAttribute(types.StatCharisma)

	var value int
	switch stat {
	case types.StatHack:
		value = intel + per/2
	case types.StatCombat:
		value = phys + per/2
	case types.StatStealth:
		value = per + phys/2
	case types.StatNegotiation:
		value = cha + intel/2
	case types.StatAnalysis:
		value = per + intel/2
	default:
		return 0
	}
	return value + c.modifiers.sum(stat)
}

// Effective returns the current value of any stat or resource. Checks read
// through this.
func (c *Character) Effective(stat types.Stat) int {
	switch {
	case stat.IsAttribute():
		return c.EffectiveAttribute(stat)
	case stat.IsCapability():
		return c.EffectiveCapability(stat)
	}

	switch stat {
	case types.StatHealth:
		return c.health
	case types.StatBattery:
		return c.battery
	case types.StatMaxHealth:
		return c.MaxHealth()
	case types.StatMaxBattery:
		return c.MaxBattery()
	case types.StatLevel:
		return c.level
	case types.StatCredits:
		return c.credits
	case types.StatKarma:
		return c.karma
	case types.StatNotoriety:
		return c.notoriety
	case types.StatReputation:
		return c.reputation
	}
	return 0
}

// AddModifier registers a modifier. A negative duration makes it permanent;
// a duration of 0 is legal and expires at the next tick.
func (c *Character) AddModifier(target types.Stat, value, duration int, description string) ModifierID {
	id := c.modifiers.add(target, value, duration, description, "")
	c.clampResources()
	return id
}

// RemoveModifier deletes a modifier by id. It reports whether the id existed.
func (c *Character) RemoveModifier(id ModifierID) bool {
	if !c.modifiers.remove(id) {
		return false
	}
	c.clampResources()
	return true
}

// TickModifiers advances every timed modifier by one tick and returns the
// ones that expired.
func (c *Character) TickModifiers() []Modifier {
	expired := c.modifiers.tick()
	if len(expired) > 0 {
		c.clampResources()
	}
	return expired
}

// Modifiers returns a copy of the active modifiers ordered by id.
func (c *Character) Modifiers() []Modifier {
	return c.modifiers.list()
}

// MaxHealth returns the configured maximum plus max_health modifiers.
func (c *Character) MaxHealth() int {
	return max(0, c.baseMaxHealth+c.modifiers.sum(types.StatMaxHealth))
}

// MaxBattery returns the configured maximum plus max_battery modifiers.
func (c *Character) MaxBattery() int {
	return max(0, c.baseMaxBattery+c.modifiers.sum(types.StatMaxBattery))
}

// Health returns current health.
func (c *Character) Health() int { return c.health }

// Battery returns current battery.
func (c *Character) Battery() int { return c.battery }

// ChangeHealth adds delta to health, clamped to [0, MaxHealth].
func (c *Character) ChangeHealth(delta int) int {
	c.health = clamp(c.health+delta, 0, c.MaxHealth())
	return c.health
}

// ChangeBattery adds delta to battery, clamped to [0, MaxBattery]. Draining
// more than is available empties the battery and raises notoriety by the
// battery penalty; the returned bool reports that depletion.
func (c *Character) ChangeBattery(delta int) (depleted bool) {
	next := c.battery + delta
	if next < 0 {
		c.battery = 0
		c.notoriety += c.batteryPenalty
		return true
	}
	c.battery = clamp(next, 0, c.MaxBattery())
	return false
}

// BatteryPenalty returns the notoriety penalty applied on depletion.
func (c *Character) BatteryPenalty() int { return c.batteryPenalty }

// Level returns the character level.
func (c *Character) Level() int { return c.level }

// Credits returns the credit balance.
func (c *Character) Credits() int { return c.credits }

// AddCredits adds delta to the balance. Credits never go below zero.
func (c *Character) AddCredits(delta int) int {
	c.credits = max(0, c.credits+delta)
	return c.credits
}

// SpendCredits removes amount from the balance or fails without changing it.
func (c *Character) SpendCredits(amount int) error {
	if amount > c.credits {
		return ErrInsufficientCredits
	}
	c.credits -= amount
	return nil
}

// Karma returns karma.
func (c *Character) Karma() int { return c.karma }

// ChangeKarma adds delta to karma.
func (c *Character) ChangeKarma(delta int) int {
	c.karma += delta
	return c.karma
}

// Notoriety returns notoriety.
func (c *Character) Notoriety() int { return c.notoriety }

// ChangeNotoriety adds delta to notoriety.
func (c *Character) ChangeNotoriety(delta int) int {
	c.notoriety += delta
	return c.notoriety
}

// Reputation returns the character's mirrored reputation.
func (c *Character) Reputation() int { return c.reputation }

// SetReputation stores the reputation value. The world store is the source
// of truth; callers mirror its clamped value here after every change.
func (c *Character) SetReputation(value int) { c.reputation = value }

func (c *Character) clampResources() {
	c.health = clamp(c.health, 0, c.MaxHealth())
	c.battery = clamp(c.battery, 0, c.MaxBattery())
}

func clamp(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// Snapshot is the persisted form of a character.
type Snapshot struct {
	Name           string             `json:"name"`
	Role           types.Role         `json:"role"`
	Difficulty     types.Difficulty   `json:"difficulty"`
	Base           map[types.Stat]int `json:"base"`
	Modifiers      []Modifier         `json:"modifiers"`
	NextModifierID ModifierID         `json:"next_modifier_id"`
	Health         int                `json:"health"`
	Battery        int                `json:"battery"`
	MaxHealth      int                `json:"max_health"`
	MaxBattery     int                `json:"max_battery"`
	BatteryPenalty int                `json:"battery_penalty"`
	Level          int                `json:"level"`
	Credits        int                `json:"credits"`
	Karma          int                `json:"karma"`
	Notoriety      int                `json:"notoriety"`
	Reputation     int                `json:"reputation"`
	Inventory      []Item             `json:"inventory"`
}

// Snapshot captures the full character state.
func (c *Character) Snapshot() Snapshot {
	base := make(map[types.Stat]int, len(c.base))
	for stat, value := range c.base {
		base[stat] = value
	}
	return Snapshot{
		Name:           c.Name,
		Role:           c.Role,
		Difficulty:     c.Difficulty,
		Base:           base,
		Modifiers:      c.modifiers.list(),
		NextModifierID: c.modifiers.next,
		Health:         c.health,
		Battery:        c.battery,
		MaxHealth:      c.baseMaxHealth,
		MaxBattery:     c.baseMaxBattery,
		BatteryPenalty: c.batteryPenalty,
		Level:          c.level,
		Credits:        c.credits,
		Karma:          c.karma,
		Notoriety:      c.notoriety,
		Reputation:     c.reputation,
		Inventory:      c.Items(),
	}
}

// Restore rebuilds a character from a snapshot.
func Restore(s Snapshot) *Character {
	base := make(map[types.Stat]int, len(s.Base))
	for stat, value := range s.Base {
		base[stat] = value
	}
	arena := newModifierArena()
	arena.next = max(arena.next, s.NextModifierID)
	for _, m := range s.Modifiers {
		mod := m
		arena.byID[mod.ID] = &mod
		arena.next = max(arena.next, mod.ID+1)
	}

	inventory := make(map[string]Item, len(s.Inventory))
	for _, item := range s.Inventory {
		inventory[item.ID] = item
	}

	return &Character{
		Name:           s.Name,
		Role:           s.Role,
		Difficulty:     s.Difficulty,
		base:           base,
		modifiers:      arena,
		health:         s.Health,
		battery:        s.Battery,
		baseMaxHealth:  s.MaxHealth,
		baseMaxBattery: s.MaxBattery,
		batteryPenalty: s.BatteryPenalty,
		level:          s.Level,
		credits:        s.Credits,
		karma:          s.Karma,
		notoriety:      s.Notoriety,
		reputation:     s.Reputation,
		inventory:      inventory,
	}
}

func sortedItemIDs(items map[string]Item) []string {
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
