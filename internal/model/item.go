package model

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrContainerFull is returned when an item does not fit.
	ErrContainerFull = errors.New("container full")
	// ErrInvalidSlot is returned for a slot outside the container.
	ErrInvalidSlot = errors.New("invalid slot")
)

// MaxStack is the largest amount a single slot can hold.
const MaxStack = math.MaxInt32

// Item is an item id and amount. The zero value is an empty slot.
type Item struct {
	ID     int
	Amount int
}

// Empty reports whether the slot holds nothing.
func (i Item) Empty() bool {
	return i.Amount <= 0
}

// StackPolicy decides whether amounts of the same id share one slot.
type StackPolicy int

const (
	// StackDefinitions stacks items marked stackable in their definition.
	StackDefinitions StackPolicy = iota
	// StackAlways stacks everything (banks, shops).
	StackAlways
	// StackNever keeps every item in its own slot.
	StackNever
)

// Container is a fixed number of item slots, e.g. the inventory or the worn equipment.
// Changed slots are remembered until ClearDirty so only they are resent.
type Container struct {
	items  []Item
	policy StackPolicy
	defs   *EquipmentDefinitions
	dirty  map[int]struct{}
	full   bool // every slot changed
}

// NewContainer creates an empty container.
func NewContainer(capacity int, policy StackPolicy, defs *EquipmentDefinitions) *Container {
	return &Container{
		items:  make([]Item, capacity),
		policy: policy,
		defs:   defs,
		dirty:  make(map[int]struct{}),
		full:   true,
	}
}

// Capacity returns the number of slots.
func (c *Container) Capacity() int {
	return len(c.items)
}

// Get returns the item in a slot.
func (c *Container) Get(slot int) (Item, error) {
	if slot < 0 || slot >= len(c.items) {
		return Item{}, fmt.Errorf("slot %d of %d: %w", slot, len(c.items), ErrInvalidSlot)
	}
	return c.items[slot], nil
}

// Set replaces the item in a slot.
func (c *Container) Set(slot int, item Item) error {
	if slot < 0 || slot >= len(c.items) {
		return fmt.Errorf("slot %d of %d: %w", slot, len(c.items), ErrInvalidSlot)
	}
	if item.Empty() {
		item = Item{}
	}
	c.items[slot] = item
	c.dirty[slot] = struct{}{}
	return nil
}

func (c *Container) stackable(id int) bool {
	switch c.policy {
	case StackAlways:
		return true
	case StackNever:
		return false
	}
	if c.defs == nil {
		return false
	}
	def, ok := c.defs.Get(id)
	return ok && def.Stackable
}

// Add puts an item in the container, stacking when allowed.
// A non-stackable item with an amount above one takes that many slots.
func (c *Container) Add(item Item) error {
	if item.Empty() {
		return nil
	}
	if c.stackable(item.ID) {
		if slot := c.SlotOf(item.ID); slot >= 0 {
			total := int64(c.items[slot].Amount) + int64(item.Amount)
			if total > MaxStack {
				return fmt.Errorf("stack of item %d overflows: %w", item.ID, ErrContainerFull)
			}
			c.items[slot].Amount = int(total)
			c.dirty[slot] = struct{}{}
			return nil
		}
		slot := c.freeSlot()
		if slot < 0 {
			return ErrContainerFull
		}
		return c.Set(slot, item)
	}

	if c.FreeSlots() < item.Amount {
		return fmt.Errorf("need %d slots, have %d: %w", item.Amount, c.FreeSlots(), ErrContainerFull)
	}
	for range item.Amount {
		_ = c.Set(c.freeSlot(), Item{ID: item.ID, Amount: 1})
	}
	return nil
}

// Remove takes up to amount of an item, preferring the given slot first.
// It returns how many were removed.
func (c *Container) Remove(id, amount, preferredSlot int) int {
	removed := 0
	take := func(slot int) {
		it := c.items[slot]
		if it.Empty() || it.ID != id || removed >= amount {
			return
		}
		n := min(it.Amount, amount-removed)
		it.Amount -= n
		removed += n
		_ = c.Set(slot, it)
	}
	if preferredSlot >= 0 && preferredSlot < len(c.items) {
		take(preferredSlot)
	}
	for slot := range c.items {
		take(slot)
	}
	return removed
}

// Swap exchanges two slots.
func (c *Container) Swap(a, b int) error {
	if a < 0 || a >= len(c.items) || b < 0 || b >= len(c.items) {
		return fmt.Errorf("swap %d and %d: %w", a, b, ErrInvalidSlot)
	}
	c.items[a], c.items[b] = c.items[b], c.items[a]
	c.dirty[a] = struct{}{}
	c.dirty[b] = struct{}{}
	return nil
}

// Insert moves the item at from to position to, shifting the items between.
func (c *Container) Insert(from, to int) error {
	if from < 0 || from >= len(c.items) || to < 0 || to >= len(c.items) {
		return fmt.Errorf("insert %d at %d: %w", from, to, ErrInvalidSlot)
	}
	for from < to {
		if err := c.Swap(from, from+1); err != nil {
			return err
		}
		from++
	}
	for from > to {
		if err := c.Swap(from, from-1); err != nil {
			return err
		}
		from--
	}
	return nil
}

// Clear empties every slot.
func (c *Container) Clear() {
	clear(c.items)
	c.full = true
}

// SlotOf returns the first slot holding the item id, or -1.
func (c *Container) SlotOf(id int) int {
	for slot, it := range c.items {
		if !it.Empty() && it.ID == id {
			return slot
		}
	}
	return -1
}

// Amount returns how many of an item the container holds.
func (c *Container) Amount(id int) int {
	total := 0
	for _, it := range c.items {
		if !it.Empty() && it.ID == id {
			total += it.Amount
		}
	}
	return total
}

func (c *Container) freeSlot() int {
	for slot, it := range c.items {
		if it.Empty() {
			return slot
		}
	}
	return -1
}

// FreeSlots returns the number of empty slots.
func (c *Container) FreeSlots() int {
	n := 0
	for _, it := range c.items {
		if it.Empty() {
			n++
		}
	}
	return n
}

// Items returns a copy of all slots.
func (c *Container) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Changed returns the slots modified since the last ClearDirty and whether the
// whole container should be resent instead.
func (c *Container) Changed() (slots []int, all bool) {
	if c.full {
		return nil, true
	}
	for slot := range c.items {
		if _, ok := c.dirty[slot]; ok {
			slots = append(slots, slot)
		}
	}
	return slots, false
}

// ClearDirty forgets pending changes.
func (c *Container) ClearDirty() {
	clear(c.dirty)
	c.full = false
}
