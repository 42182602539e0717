package model

import "fmt"

// Gender values.
const (
	GenderMale   = 0
	GenderFemale = 1
)

// Look slots (character design body parts).
const (
	LookHead = iota
	LookBeard
	LookTorso
	LookArms
	LookHands
	LookLegs
	LookFeet
	LookSlots
)

// ColorSlots is the number of recolourable parts (hair, torso, legs, feet, skin).
const ColorSlots = 5

// Appearance is the designed look of a character.
type Appearance struct {
	Gender int
	Look   [LookSlots]int
	Colors [ColorSlots]int
}

// DefaultAppearance returns the look new characters start with.
func DefaultAppearance() Appearance {
	return Appearance{
		Gender: GenderMale,
		Look:   [LookSlots]int{0, 10, 18, 26, 33, 36, 42},
		Colors: [ColorSlots]int{7, 8, 9, 5, 0},
	}
}

// lookRanges holds the valid design ids per look slot for male and female bodies.
// Female characters have no beard.
var lookRanges = [2][LookSlots][2]int{
	GenderMale:   {{0, 8}, {10, 17}, {18, 25}, {26, 31}, {33, 34}, {36, 40}, {42, 43}},
	GenderFemale: {{45, 54}, {-1, -1}, {56, 60}, {61, 65}, {67, 68}, {70, 77}, {79, 80}},
}

var colorLimits = [ColorSlots]int{11, 15, 15, 5, 7}

// Validate checks a design submitted by the client.
func (a Appearance) Validate() error {
	if a.Gender != GenderMale && a.Gender != GenderFemale {
		return fmt.Errorf("invalid gender %d", a.Gender)
	}
	for slot, v := range a.Look {
		r := lookRanges[a.Gender][slot]
		if r[0] < 0 {
			continue
		}
		if v < r[0] || v > r[1] {
			return fmt.Errorf("look slot %d: value %d out of range [%d,%d]", slot, v, r[0], r[1])
		}
	}
	for slot, v := range a.Colors {
		if v < 0 || v > colorLimits[slot] {
			return fmt.Errorf("color slot %d: value %d out of range [0,%d]", slot, v, colorLimits[slot])
		}
	}
	return nil
}
