package catalog

import "strings"

type Quality string

const (
	Fair Quality = "fair"
	Foul Quality = "foul"
)

type Size string

const (
	Small  Size = "small"
	Medium Size = "medium"
	Large  Size = "large"
	Huge   Size = "huge"
)

// FishCard is one physical fish card. Copies of a species get distinct ids.
type FishCard struct {
	ID         string    `yaml:"id" json:"id"`
	Species    string    `yaml:"-" json:"species"`
	Name       string    `yaml:"name" json:"name"`
	Depth      int       `yaml:"depth" json:"depth"`
	Size       Size      `yaml:"size" json:"size"`
	Value      int       `yaml:"value" json:"value"`
	Difficulty int       `yaml:"difficulty" json:"difficulty"`
	MinDice    int       `yaml:"minDice" json:"minDice,omitempty"`
	Quality    Quality   `yaml:"quality" json:"quality"`
	Abilities  []Ability `yaml:"abilities" json:"abilities,omitempty"`
	Tags       []string  `yaml:"tags" json:"tags,omitempty"`
}

// HasTag reports whether the fish carries tag. Size doubles as a tag.
func (f FishCard) HasTag(tag string) bool {
	if string(f.Size) == tag {
		return true
	}
	for _, t := range f.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// relentlessNames are fish that always demand their full printed difficulty.
var relentlessNames = []string{"eel", "octopus", "kraken"}

// IsRelentless reports whether difficulty reductions and auto-catch are ignored for this fish.
func (f FishCard) IsRelentless() bool {
	name := strings.ToLower(f.Name)
	for _, n := range relentlessNames {
		if strings.Contains(name, n) {
			return true
		}
	}
	return false
}

type RegretCard struct {
	ID        string `yaml:"id" json:"id"`
	FrontText string `yaml:"frontText" json:"frontText"`
	Value     int    `yaml:"value" json:"value"`
}

type UpgradeKind string

const (
	Rod    UpgradeKind = "rod"
	Reel   UpgradeKind = "reel"
	Supply UpgradeKind = "supply"
)

type UpgradeCard struct {
	ID        string      `yaml:"id"`
	Name      string      `yaml:"name"`
	Kind      UpgradeKind `yaml:"kind"`
	Cost      int         `yaml:"cost"`
	Abilities []Ability   `yaml:"abilities"`
}

type Timing string

const (
	AtSea   Timing = "sea"
	AtPort  Timing = "port"
	AnyTime Timing = "any"
)

type DinkCard struct {
	ID      string    `yaml:"id"`
	Name    string    `yaml:"name"`
	OneShot bool      `yaml:"oneShot"`
	Effects []Ability `yaml:"effects"`
	Timing  Timing    `yaml:"timing"`
}

type TackleDie struct {
	ID    string `yaml:"id"`
	Color string `yaml:"color"`
	Cost  int    `yaml:"cost"`
	Faces []int  `yaml:"faces"`
}

// Character is a starting bonus package.
type Character struct {
	ID                string `yaml:"id"`
	Name              string `yaml:"name"`
	BaseMaxDice       int    `yaml:"baseMaxDice"`
	RerollOnes        bool   `yaml:"rerollOnes"`
	StartingFishbucks int    `yaml:"startingFishbucks"`
	RegretShields     int    `yaml:"regretShields"`
	DescendDiscount   int    `yaml:"descendDiscount"`
	ExtraMountSlots   int    `yaml:"extraMountSlots"`
}
