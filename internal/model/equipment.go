package model

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownItem is returned when an item has no definition.
var ErrUnknownItem = errors.New("unknown item")

// Equipment slots as the client numbers them.
const (
	SlotHead   = 0
	SlotCape   = 1
	SlotAmulet = 2
	SlotWeapon = 3
	SlotBody   = 4
	SlotShield = 5
	SlotLegs   = 7
	SlotHands  = 9
	SlotFeet   = 10
	SlotRing   = 12
	SlotArrows = 13

	// NoSlot marks an item that cannot be worn.
	NoSlot = -1
)

var slotNames = map[string]int{
	"head":   SlotHead,
	"cape":   SlotCape,
	"amulet": SlotAmulet,
	"weapon": SlotWeapon,
	"body":   SlotBody,
	"shield": SlotShield,
	"legs":   SlotLegs,
	"hands":  SlotHands,
	"feet":   SlotFeet,
	"ring":   SlotRing,
	"arrows": SlotArrows,
}

// EquipmentDefinition describes how an item is worn and drawn.
type EquipmentDefinition struct {
	ID        int
	Name      string
	Slot      int
	Stackable bool
	TwoHanded bool
	// FullBody hides the arms.
	FullBody bool
	// FullHelm hides the hair.
	FullHelm bool
	// FullMask hides the beard.
	FullMask bool
}

// Wearable reports whether the item goes in an equipment slot.
func (d EquipmentDefinition) Wearable() bool {
	return d.Slot != NoSlot
}

// EquipmentDefinitions is the read-only item definition table.
type EquipmentDefinitions struct {
	defs map[int]EquipmentDefinition
}

// NewEquipmentDefinitions builds a table from a list.
func NewEquipmentDefinitions(defs ...EquipmentDefinition) *EquipmentDefinitions {
	t := &EquipmentDefinitions{defs: make(map[int]EquipmentDefinition, len(defs))}
	for _, d := range defs {
		t.defs[d.ID] = d
	}
	return t
}

// Get returns a definition.
func (t *EquipmentDefinitions) Get(id int) (EquipmentDefinition, bool) {
	d, ok := t.defs[id]
	return d, ok
}

// Lookup returns a definition or ErrUnknownItem.
func (t *EquipmentDefinitions) Lookup(id int) (EquipmentDefinition, error) {
	d, ok := t.defs[id]
	if !ok {
		return EquipmentDefinition{}, fmt.Errorf("item %d: %w", id, ErrUnknownItem)
	}
	return d, nil
}

// Len returns the number of definitions.
func (t *EquipmentDefinitions) Len() int {
	return len(t.defs)
}

type equipmentFile struct {
	Items []struct {
		ID        int    `yaml:"id"`
		Name      string `yaml:"name"`
		Slot      string `yaml:"slot"`
		Stackable bool   `yaml:"stackable"`
		TwoHanded bool   `yaml:"two_handed"`
		FullBody  bool   `yaml:"full_body"`
		FullHelm  bool   `yaml:"full_helm"`
		FullMask  bool   `yaml:"full_mask"`
	} `yaml:"items"`
}

// ParseEquipment parses item definitions from YAML.
func ParseEquipment(data []byte) (*EquipmentDefinitions, error) {
	var f equipmentFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing equipment definitions: %w", err)
	}

	defs := make([]EquipmentDefinition, 0, len(f.Items))
	seen := make(map[int]struct{}, len(f.Items))
	for _, it := range f.Items {
		if it.ID < 0 {
			return nil, fmt.Errorf("item %q: negative id %d", it.Name, it.ID)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("item %d defined twice", it.ID)
		}
		seen[it.ID] = struct{}{}

		slot := NoSlot
		if it.Slot != "" {
			s, ok := slotNames[it.Slot]
			if !ok {
				return nil, fmt.Errorf("item %d: unknown slot %q", it.ID, it.Slot)
			}
			slot = s
		}
		defs = append(defs, EquipmentDefinition{
			ID:        it.ID,
			Name:      it.Name,
			Slot:      slot,
			Stackable: it.Stackable,
			TwoHanded: it.TwoHanded,
			FullBody:  it.FullBody,
			FullHelm:  it.FullHelm,
			FullMask:  it.FullMask,
		})
	}
	return NewEquipmentDefinitions(defs...), nil
}

// LoadEquipment loads item definitions from a YAML file.
// A missing file yields an empty table.
func LoadEquipment(path string) (*EquipmentDefinitions, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewEquipmentDefinitions(), nil
		}
		return nil, fmt.Errorf("reading equipment definitions %s: %w", path, err)
	}
	return ParseEquipment(data)
}
