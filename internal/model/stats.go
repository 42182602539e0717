package model

import (
	"fmt"
	"math"
)

// Skill ids in client order.
const (
	SkillAttack = iota
	SkillDefence
	SkillStrength
	SkillHitpoints
	SkillRanged
	SkillPrayer
	SkillMagic
	SkillCooking
	SkillWoodcutting
	SkillFletching
	SkillFishing
	SkillFiremaking
	SkillCrafting
	SkillSmithing
	SkillMining
	SkillHerblore
	SkillAgility
	SkillThieving
	SkillSlayer
	SkillFarming
	SkillRunecrafting
	SkillCount
)

const (
	MaxLevel      = 99
	MaxExperience = 200_000_000
)

var skillNames = [SkillCount]string{
	"attack", "defence", "strength", "hitpoints", "ranged", "prayer", "magic",
	"cooking", "woodcutting", "fletching", "fishing", "firemaking", "crafting",
	"smithing", "mining", "herblore", "agility", "thieving", "slayer", "farming",
	"runecrafting",
}

// SkillName returns the lowercase name of a skill id.
func SkillName(id int) string {
	if id < 0 || id >= SkillCount {
		return fmt.Sprintf("skill(%d)", id)
	}
	return skillNames[id]
}

// experienceTable[l] is the experience needed for level l+1.
var experienceTable = func() (t [MaxLevel]int) {
	points := 0.0
	for lvl := 1; lvl < MaxLevel; lvl++ {
		points += math.Floor(float64(lvl) + 300*math.Pow(2, float64(lvl)/7))
		t[lvl] = int(math.Floor(points / 4))
	}
	return t
}()

// ExperienceForLevel returns the minimum experience of a level (1-99).
func ExperienceForLevel(level int) int {
	level = min(max(level, 1), MaxLevel)
	return experienceTable[level-1]
}

// LevelForExperience returns the level reached with the given experience.
func LevelForExperience(xp int) int {
	for lvl := MaxLevel; lvl > 1; lvl-- {
		if xp >= experienceTable[lvl-1] {
			return lvl
		}
	}
	return 1
}

// Skill is a level and experience pair. Level is the current (boostable) level.
type Skill struct {
	Level      int
	Experience int
}

// Stats holds all skills of a player.
type Stats struct {
	skills [SkillCount]Skill
	dirty  [SkillCount]bool
}

// NewStats returns the stats of a fresh character (10 hitpoints, level 1 elsewhere).
func NewStats() *Stats {
	s := &Stats{}
	for id := range s.skills {
		s.skills[id] = Skill{Level: 1}
	}
	s.skills[SkillHitpoints] = Skill{Level: 10, Experience: ExperienceForLevel(10)}
	for id := range s.dirty {
		s.dirty[id] = true
	}
	return s
}

// Skill returns one skill.
func (s *Stats) Skill(id int) Skill {
	return s.skills[id]
}

// MaxLevel returns the level a skill's experience is worth.
func (s *Stats) MaxLevel(id int) int {
	return LevelForExperience(s.skills[id].Experience)
}

// SetLevel sets a skill to exactly the given level and its base experience.
func (s *Stats) SetLevel(id, level int) error {
	if id < 0 || id >= SkillCount {
		return fmt.Errorf("unknown skill %d", id)
	}
	if level < 1 || level > MaxLevel {
		return fmt.Errorf("level %d out of range", level)
	}
	s.skills[id] = Skill{Level: level, Experience: ExperienceForLevel(level)}
	s.dirty[id] = true
	return nil
}

// AddExperience adds experience and raises the level when a threshold is crossed.
// It returns the number of levels gained.
func (s *Stats) AddExperience(id, xp int) int {
	sk := &s.skills[id]
	before := LevelForExperience(sk.Experience)
	sk.Experience = min(sk.Experience+xp, MaxExperience)
	after := LevelForExperience(sk.Experience)
	sk.Level += after - before
	s.dirty[id] = true
	return after - before
}

// Boost changes the current level without touching experience.
func (s *Stats) Boost(id, delta int) {
	sk := &s.skills[id]
	sk.Level = max(sk.Level+delta, 0)
	s.dirty[id] = true
}

// CombatLevel derives the combat level from the base levels.
func (s *Stats) CombatLevel() int {
	att := s.MaxLevel(SkillAttack)
	def := s.MaxLevel(SkillDefence)
	str := s.MaxLevel(SkillStrength)
	hp := s.MaxLevel(SkillHitpoints)
	prayer := s.MaxLevel(SkillPrayer)
	ranged := s.MaxLevel(SkillRanged)
	magic := s.MaxLevel(SkillMagic)

	base := 0.25 * float64(def+hp+prayer/2)
	melee := 0.325 * float64(att+str)
	rng := 0.325 * float64(ranged/2+ranged)
	mage := 0.325 * float64(magic/2+magic)
	return int(base + max(melee, rng, mage))
}

// TotalLevel is the sum of all base levels.
func (s *Stats) TotalLevel() int {
	total := 0
	for id := range s.skills {
		total += s.MaxLevel(id)
	}
	return total
}

// Dirty returns the skills changed since the last ClearDirty, in id order.
func (s *Stats) Dirty() []int {
	var ids []int
	for id, d := range s.dirty {
		if d {
			ids = append(ids, id)
		}
	}
	return ids
}

// ClearDirty forgets pending skill changes.
func (s *Stats) ClearDirty() {
	s.dirty = [SkillCount]bool{}
}
