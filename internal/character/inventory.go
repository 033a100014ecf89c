package character

import (
	"fmt"
	"strings"

	"github.com/user/district-runner/internal/types"
)

// ItemKind separates plain gear from installed upgrades.
type ItemKind string

const (
	KindItem    ItemKind = "item"
	KindUpgrade ItemKind = "upgrade"
)

// ParseItemKind converts a content string into an ItemKind. Empty means KindItem.
func ParseItemKind(raw string) (ItemKind, error) {
	k := ItemKind(strings.ToLower(strings.TrimSpace(raw)))
	switch k {
	case "":
		return KindItem, nil
	case KindItem, KindUpgrade:
		return k, nil
	}
	return "", fmt.Errorf("%w: item kind %q", types.ErrUnknownEnum, raw)
}

// ModifierSpec describes a modifier an item injects while owned. A zero
// duration lasts as long as the item is owned.
type ModifierSpec struct {
	Target      types.Stat `json:"target"`
	Value       int        `json:"value"`
	Duration    int        `json:"duration"`
	Description string     `json:"description,omitempty"`
}

// Item is a catalog entry that can be owned by a character.
type Item struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Kind        ItemKind       `json:"kind"`
	Price       int            `json:"price"`
	Faction     string         `json:"faction,omitempty"` // seller, drives price standing
	Modifiers   []ModifierSpec `json:"modifiers,omitempty"`
}

// Catalog indexes the items a run knows about.
type Catalog map[string]Item

// Lookup returns the catalog item with the given id.
func (c Catalog) Lookup(id string) (Item, bool) {
	item, ok := c[id]
	return item, ok
}

// AddItem takes ownership of item and injects its modifiers. It returns
// false if the item is already owned.
func (c *Character) AddItem(item Item) bool {
	if _, owned := c.inventory[item.ID]; owned {
		return false
	}
	c.inventory[item.ID] = item
	for _, spec := range item.Modifiers {
		duration := spec.Duration
		if duration == 0 {
			duration = Permanent
		}
		desc := spec.Description
		if desc == "" {
			desc = item.Name
		}
		c.modifiers.add(spec.Target, spec.Value, duration, desc, item.ID)
	}
	c.clampResources()
	return true
}

// RemoveItem drops an owned item and withdraws every modifier it injected.
func (c *Character) RemoveItem(id string) bool {
	if _, owned := c.inventory[id]; !owned {
		return false
	}
	delete(c.inventory, id)
	c.modifiers.removeSource(id)
	c.clampResources()
	return true
}

// HasItem reports whether the character owns the item.
func (c *Character) HasItem(id string) bool {
	_, ok := c.inventory[id]
	return ok
}

// Items returns owned items ordered by id.
func (c *Character) Items() []Item {
	ids := sortedItemIDs(c.inventory)
	items := make([]Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, c.inventory[id])
	}
	return items
}
