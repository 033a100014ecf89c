package scene

import (
	"fmt"
	"strings"

	"github.com/user/district-runner/internal/character"
	"github.com/user/district-runner/internal/types"
	"github.com/user/district-runner/internal/world"
)

// Kind names a consequence variant.
type Kind string

const (
	KindChangeBattery    Kind = "change_battery"
	KindChangeCredits    Kind = "change_credits"
	KindChangeReputation Kind = "change_reputation"
	KindChangeNotoriety  Kind = "change_notoriety"
	KindChangeHealth     Kind = "change_health"
	KindChangeKarma      Kind = "change_karma"
	KindChangeFaction    Kind = "change_faction"
	KindSetFlag          Kind = "set_flag"
	KindClearFlag        Kind = "clear_flag"
	KindAppendLog        Kind = "append_log"
	KindAddItem          Kind = "add_item"
	KindRemoveItem       Kind = "remove_item"
	KindAddModifier      Kind = "add_modifier"
)

// kindAliases accepts the spellings older content uses.
var kindAliases = map[string]Kind{
	"change_energy": KindChangeBattery,
	"energy":        KindChangeBattery,
	"battery":       KindChangeBattery,
	"credits":       KindChangeCredits,
	"reputation":    KindChangeReputation,
	"notoriety":     KindChangeNotoriety,
	"health":        KindChangeHealth,
	"karma":         KindChangeKarma,
	"faction":       KindChangeFaction,
	"flag":          KindSetFlag,
	"log":           KindAppendLog,
	"modifier":      KindAddModifier,
}

// Target is the part of a run a consequence may mutate.
type Target struct {
	Character *character.Character
	World     *world.State
	Factions  *world.Factions
	Catalog   character.Catalog
}

// Applied describes one applied consequence.
type Applied struct {
	Kind        Kind   `json:"kind"`
	Description string `json:"description"`
	Log         string `json:"log,omitempty"`
}

// Consequence is a closed set of state mutations. Each variant applies
// itself; the unexported method keeps the set closed to this package.
type Consequence interface {
	Kind() Kind
	apply(t Target) Applied
}

// ChangeBattery adds Delta to battery. Overdraw clamps to zero and raises notoriety.
type ChangeBattery struct{ Delta int }

// ChangeCredits adds Delta to credits, never below zero.
type ChangeCredits struct{ Delta int }

// ChangeReputation adds Delta to global reputation.
type ChangeReputation struct{ Delta int }

// ChangeNotoriety adds Delta to notoriety.
type ChangeNotoriety struct{ Delta int }

// ChangeHealth adds Delta to health.
type ChangeHealth struct{ Delta int }

// ChangeKarma adds Delta to karma.
type ChangeKarma struct{ Delta int }

// ChangeFaction adds Delta to one faction's reputation.
type ChangeFaction struct {
	Faction string
	Delta   int
}

// SetFlag stores a world flag.
type SetFlag struct {
	Name  string
	Value bool
}

// ClearFlag removes a world flag.
type ClearFlag struct{ Name string }

// AppendLog emits a log line without touching state.
type AppendLog struct{ Text string }

// AddItem grants a narrative item, and the catalog item of the same id if any.
type AddItem struct{ ItemID string }

// RemoveItem takes a narrative item away, and the owned catalog item if any.
type RemoveItem struct{ ItemID string }

// AddModifier attaches a modifier to the character.
type AddModifier struct {
	Stat        types.Stat
	Value       int
	Duration    int
	Description string
}

func (ChangeBattery) Kind() Kind    { return KindChangeBattery }
func (ChangeCredits) Kind() Kind    { return KindChangeCredits }
func (ChangeReputation) Kind() Kind { return KindChangeReputation }
func (ChangeNotoriety) Kind() Kind  { return KindChangeNotoriety }
func (ChangeHealth) Kind() Kind     { return KindChangeHealth }
func (ChangeKarma) Kind() Kind      { return KindChangeKarma }
func (ChangeFaction) Kind() Kind    { return KindChangeFaction }
func (SetFlag) Kind() Kind          { return KindSetFlag }
func (ClearFlag) Kind() Kind        { return KindClearFlag }
func (AppendLog) Kind() Kind        { return KindAppendLog }
func (AddItem) Kind() Kind          { return KindAddItem }
func (RemoveItem) Kind() Kind       { return KindRemoveItem }
func (AddModifier) Kind() Kind      { return KindAddModifier }

func (c ChangeBattery) apply(t Target) Applied {
	out := Applied{Kind: c.Kind(), Description: fmt.Sprintf("battery %+d", c.Delta)}
	if t.Character.ChangeBattery(c.Delta) {
		out.Log = fmt.Sprintf("battery depleted: notoriety +%d", t.Character.BatteryPenalty())
	}
	return out
}

func (c ChangeCredits) apply(t Target) Applied {
	t.Character.AddCredits(c.Delta)
	return Applied{Kind: c.Kind(), Description: fmt.Sprintf("credits %+d", c.Delta)}
}

func (c ChangeReputation) apply(t Target) Applied {
	t.Character.SetReputation(t.World.ModifyReputation(c.Delta))
	return Applied{Kind: c.Kind(), Description: fmt.Sprintf("reputation %+d", c.Delta)}
}

func (c ChangeNotoriety) apply(t Target) Applied {
	t.Character.ChangeNotoriety(c.Delta)
	return Applied{Kind: c.Kind(), Description: fmt.Sprintf("notoriety %+d", c.Delta)}
}

func (c ChangeHealth) apply(t Target) Applied {
	t.Character.ChangeHealth(c.Delta)
	return Applied{Kind: c.Kind(), Description: fmt.Sprintf("health %+d", c.Delta)}
}

func (c ChangeKarma) apply(t Target) Applied {
	t.Character.ChangeKarma(c.Delta)
	return Applied{Kind: c.Kind(), Description: fmt.Sprintf("karma %+d", c.Delta)}
}

func (c ChangeFaction) apply(t Target) Applied {
	t.Factions.ModifyReputation(c.Faction, c.Delta)
	return Applied{Kind: c.Kind(), Description: fmt.Sprintf("%s reputation %+d", c.Faction, c.Delta)}
}

func (c SetFlag) apply(t Target) Applied {
	t.World.SetFlag(c.Name, c.Value)
	return Applied{Kind: c.Kind(), Description: fmt.Sprintf("flag %s=%t", c.Name, c.Value)}
}

func (c ClearFlag) apply(t Target) Applied {
	t.World.ClearFlag(c.Name)
	return Applied{Kind: c.Kind(), Description: "flag cleared: " + c.Name}
}

func (c AppendLog) apply(Target) Applied {
	return Applied{Kind: c.Kind(), Description: "log", Log: c.Text}
}

func (c AddItem) apply(t Target) Applied {
	t.World.AddItem(c.ItemID)
	if item, ok := t.Catalog.Lookup(c.ItemID); ok {
		t.Character.AddItem(item)
	}
	return Applied{Kind: c.Kind(), Description: "item acquired: " + c.ItemID}
}

func (c RemoveItem) apply(t Target) Applied {
	t.World.RemoveItem(c.ItemID)
	t.Character.RemoveItem(c.ItemID)
	return Applied{Kind: c.Kind(), Description: "item lost: " + c.ItemID}
}

func (c AddModifier) apply(t Target) Applied {
	t.Character.AddModifier(c.Stat, c.Value, c.Duration, c.Description)
	return Applied{Kind: c.Kind(), Description: fmt.Sprintf("%s %+d (%d)", c.Stat, c.Value, c.Duration)}
}

// Params carries the raw fields of a consequence definition.
type Params struct {
	Value       int
	Stat        string
	Flag        string
	FlagValue   *bool
	Item        string
	Text        string
	Faction     string
	Duration    *int
	Description string
}

// NewConsequence builds a variant from a kind string. Unknown kinds and
// missing required fields fail here, at load time.
func NewConsequence(kind string, p Params) (Consequence, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return nil, err
	}

	switch k {
	case KindChangeBattery:
		return ChangeBattery{Delta: p.Value}, nil
	case KindChangeCredits:
		return ChangeCredits{Delta: p.Value}, nil
	case KindChangeReputation:
		return ChangeReputation{Delta: p.Value}, nil
	case KindChangeNotoriety:
		return ChangeNotoriety{Delta: p.Value}, nil
	case KindChangeHealth:
		return ChangeHealth{Delta: p.Value}, nil
	case KindChangeKarma:
		return ChangeKarma{Delta: p.Value}, nil
	case KindChangeFaction:
		if p.Faction == "" {
			return nil, fmt.Errorf("%w: faction", types.ErrMissingField)
		}
		return ChangeFaction{Faction: p.Faction, Delta: p.Value}, nil
	case KindSetFlag:
		if p.Flag == "" {
			return nil, fmt.Errorf("%w: flag", types.ErrMissingField)
		}
		value := true
		if p.FlagValue != nil {
			value = *p.FlagValue
		}
		return SetFlag{Name: p.Flag, Value: value}, nil
	case KindClearFlag:
		if p.Flag == "" {
			return nil, fmt.Errorf("%w: flag", types.ErrMissingField)
		}
		return ClearFlag{Name: p.Flag}, nil
	case KindAppendLog:
		return AppendLog{Text: p.Text}, nil
	case KindAddItem, KindRemoveItem:
		if p.Item == "" {
			return nil, fmt.Errorf("%w: item", types.ErrMissingField)
		}
		if k == KindAddItem {
			return AddItem{ItemID: p.Item}, nil
		}
		return RemoveItem{ItemID: p.Item}, nil
	case KindAddModifier:
		stat, err := types.ParseStat(p.Stat)
		if err != nil {
			return nil, err
		}
		duration := character.Permanent
		if p.Duration != nil {
			duration = *p.Duration
		}
		return AddModifier{Stat: stat, Value: p.Value, Duration: duration, Description: p.Description}, nil
	}
	return nil, fmt.Errorf("%w: consequence %q", types.ErrUnknownEnum, kind)
}

// ParseKind converts a content string into a Kind.
func ParseKind(raw string) (Kind, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if alias, ok := kindAliases[key]; ok {
		return alias, nil
	}
	k := Kind(key)
	switch k {
	case KindChangeBattery, KindChangeCredits, KindChangeReputation, KindChangeNotoriety,
		KindChangeHealth, KindChangeKarma, KindChangeFaction, KindSetFlag, KindClearFlag,
		KindAppendLog, KindAddItem, KindRemoveItem, KindAddModifier:
		return k, nil
	}
	return "", fmt.Errorf("%w: consequence %q", types.ErrUnknownEnum, raw)
}
