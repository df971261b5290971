package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AbilityKind enumerates every effect a fish, an upgrade or a dink card can carry.
type AbilityKind int

const (
	AbilityNone AbilityKind = iota

	// Catch effects
	RegretDraw    // draw N regrets
	DinkOnCatch   // draw one dink
	DiscardTagged // discard another hand fish carrying Tag
	PlugErosion   // erode the plug and force a pass
	MadnessAdjust // shift madness offset by N (signed)

	// Eat effects
	EatDiscardRegret
	EatGainDie
	EatFishbucks

	// Equipment
	AutoCatch
	ReduceRegretDraw
	DescendDiscount
	NegateDiscardSmall
	MadnessImmunity
	ExtraMountSlot
	ExtraDie
	CatchBonus

	// Dink effects
	RerollFresh
	GainFishbucks
	ShopDiscount
	RegretShield
	DifficultyMinus
	DiscardRandomRegret
	PreventMadness
)

// Ability is a typed effect parsed from a data-table token such as "madness_+1".
type Ability struct {
	Kind AbilityKind
	N    int
	Tag  string
}

var fixedTokens = map[string]Ability{
	"regret_draw":           {Kind: RegretDraw, N: 1},
	"dink_on_catch":         {Kind: DinkOnCatch},
	"discard_small":         {Kind: DiscardTagged, Tag: "small"},
	"shark":                 {Kind: DiscardTagged, Tag: "small"},
	"plug":                  {Kind: PlugErosion},
	"eat_regret":            {Kind: EatDiscardRegret},
	"eat_die":               {Kind: EatGainDie},
	"auto_catch":            {Kind: AutoCatch},
	"reduce_regret_draw":    {Kind: ReduceRegretDraw},
	"negate_discard_small":  {Kind: NegateDiscardSmall},
	"madness_immunity":      {Kind: MadnessImmunity},
	"extra_mount_slot":      {Kind: ExtraMountSlot, N: 1},
	"extra_die":             {Kind: ExtraDie, N: 1},
	"reroll_fresh":          {Kind: RerollFresh},
	"regret_shield":         {Kind: RegretShield, N: 1},
	"discard_random_regret": {Kind: DiscardRandomRegret},
	"prevent_madness":       {Kind: PreventMadness},
}

// Tokens whose trailing number is the ability's N.
var numericPrefixes = []struct {
	prefix string
	kind   AbilityKind
}{
	{"regret_draw_", RegretDraw},
	{"eat_fishbucks_", EatFishbucks},
	{"descend_discount_", DescendDiscount},
	{"catch_bonus_", CatchBonus},
	{"gain_fishbucks_", GainFishbucks},
	{"shop_discount_", ShopDiscount},
	{"difficulty_minus_", DifficultyMinus},
	{"madness_", MadnessAdjust},
}

// ParseAbility converts a data-table token into an Ability.
func ParseAbility(token string) (Ability, error) {
	token = strings.TrimSpace(strings.ToLower(token))
	if a, ok := fixedTokens[token]; ok {
		return a, nil
	}
	for _, p := range numericPrefixes {
		rest, ok := strings.CutPrefix(token, p.prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil {
			return Ability{}, fmt.Errorf("ability %q: bad amount: %w", token, err)
		}
		if p.kind == MadnessAdjust && !strings.HasPrefix(rest, "+") && !strings.HasPrefix(rest, "-") {
			return Ability{}, fmt.Errorf("ability %q: madness amount needs a sign", token)
		}
		return Ability{Kind: p.kind, N: n}, nil
	}
	return Ability{}, fmt.Errorf("unknown ability %q", token)
}

// String returns the canonical token, the inverse of ParseAbility.
func (a Ability) String() string {
	switch a.Kind {
	case RegretDraw:
		if a.N <= 1 {
			return "regret_draw"
		}
		return fmt.Sprintf("regret_draw_%d", a.N)
	case DiscardTagged:
		return "discard_" + a.Tag
	case MadnessAdjust:
		return fmt.Sprintf("madness_%+d", a.N)
	case EatFishbucks:
		return fmt.Sprintf("eat_fishbucks_%d", a.N)
	case DescendDiscount:
		return fmt.Sprintf("descend_discount_%d", a.N)
	case CatchBonus:
		return fmt.Sprintf("catch_bonus_%d", a.N)
	case GainFishbucks:
		return fmt.Sprintf("gain_fishbucks_%d", a.N)
	case ShopDiscount:
		return fmt.Sprintf("shop_discount_%d", a.N)
	case DifficultyMinus:
		return fmt.Sprintf("difficulty_minus_%d", a.N)
	}
	for token, fixed := range fixedTokens {
		if fixed.Kind == a.Kind && token != "shark" {
			return token
		}
	}
	return "none"
}

func (a Ability) MarshalText() ([]byte, error) {
	if a.Kind == AbilityNone {
		return nil, fmt.Errorf("cannot marshal empty ability")
	}
	return []byte(a.String()), nil
}

func (a *Ability) UnmarshalText(text []byte) error {
	parsed, err := ParseAbility(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

func (a *Ability) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: ability must be a scalar token", value.Line)
	}
	parsed, err := ParseAbility(value.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", value.Line, err)
	}
	*a = parsed
	return nil
}

// Has reports whether abilities contains one of the given kind.
func Has(abilities []Ability, kind AbilityKind) bool {
	for _, a := range abilities {
		if a.Kind == kind {
			return true
		}
	}
	return false
}

// Total sums N over every ability of the given kind.
func Total(abilities []Ability, kind AbilityKind) int {
	total := 0
	for _, a := range abilities {
		if a.Kind == kind {
			total += a.N
		}
	}
	return total
}
