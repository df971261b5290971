package game

import (
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"deepregrets/catalog"
)

type Phase int

const (
	StartPhase Phase = iota
	RefreshPhase
	DeclarationPhase
	ActionPhase
	EndgamePhase
)

var phaseNames = []string{"start", "refresh", "declaration", "action", "endgame"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

func (p Phase) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Phase) UnmarshalText(text []byte) error {
	i := slices.Index(phaseNames, string(text))
	if i < 0 {
		return fmt.Errorf("unknown phase %q", text)
	}
	*p = Phase(i)
	return nil
}

type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

func (d Day) String() string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}
	if d < 0 || int(d) >= len(names) {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return names[d]
}

type Location int

const (
	AtSea Location = iota
	AtPort
)

func (l Location) String() string {
	if l == AtPort {
		return "port"
	}
	return "sea"
}

func (l Location) MarshalText() ([]byte, error) { return []byte(l.String()), nil }

func (l *Location) UnmarshalText(text []byte) error {
	switch string(text) {
	case "sea":
		*l = AtSea
	case "port":
		*l = AtPort
	default:
		return fmt.Errorf("unknown location %q", text)
	}
	return nil
}

// NoShoal marks a player who has not picked a shoal at their depth.
const NoShoal = -1

type EffectKind int

const (
	EffectLifePreserverDiscount EffectKind = iota // one-shot shop discount
	EffectDinkDiscount                            // one-shot shop discount from a dink
	EffectPreventMadness                          // cancels the next madness increase
	EffectDifficultyReduction                     // lowers the next catch difficulty
	EffectDiscardRandomRegret                     // allows one DISCARD_RANDOM_REGRET
)

// Effect is a transient flag consumed by a later action.
type Effect struct {
	Kind   EffectKind `json:"kind"`
	Amount int        `json:"amount,omitempty"`
}

// ShopVisits tracks what a player already did in port this turn.
type ShopVisits struct {
	Rod    bool `json:"rod,omitempty"`
	Reel   bool `json:"reel,omitempty"`
	Supply bool `json:"supply,omitempty"`
	Tackle bool `json:"tackle,omitempty"`
	Regret bool `json:"regret,omitempty"`
}

type MountedFish struct {
	Slot       int              `json:"slot"`
	Multiplier int              `json:"multiplier"`
	Fish       catalog.FishCard `json:"fish"`
}

type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Character string `json:"character"`

	Location     Location `json:"location"`
	CurrentDepth int      `json:"currentDepth"`
	CurrentShoal int      `json:"currentShoal"`

	FreshDice   []int    `json:"freshDice"`
	SpentDice   []int    `json:"spentDice"`
	TackleDice  []string `json:"tackleDice"`
	MaxDice     int      `json:"maxDice"`
	BaseMaxDice int      `json:"baseMaxDice"`

	Fishbucks     int                  `json:"fishbucks"`
	HandFish      []catalog.FishCard   `json:"handFish"`
	MountedFish   []MountedFish        `json:"mountedFish"`
	Regrets       []catalog.RegretCard `json:"regrets"`
	MadnessLevel  int                  `json:"madnessLevel"`
	MadnessOffset int                  `json:"madnessOffset"`

	EquippedRod    string   `json:"equippedRod,omitempty"`
	EquippedReel   string   `json:"equippedReel,omitempty"`
	Supplies       []string `json:"supplies"`
	Dinks          []string `json:"dinks"`
	ExhaustedDinks []string `json:"exhaustedDinks"`
	ActiveEffects  []Effect `json:"activeEffects"`

	RegretShields    int        `json:"regretShields"`
	RerollOnes       bool       `json:"rerollOnes"`
	DescendDiscount  int        `json:"descendDiscount"`
	MaxMountSlots    int        `json:"maxMountSlots"`
	HasPassed        bool       `json:"hasPassed"`
	LifeboatFlipped  bool       `json:"lifeboatFlipped"`
	CanOfWormsFaceUp bool       `json:"canOfWormsFaceUp"`
	ShopVisits       ShopVisits `json:"shopVisits"`
}

// Plug tracks the erosion of the plug at the bottom of the sea.
type Plug struct {
	Eroded   bool   `json:"eroded"`
	ErodedBy string `json:"erodedBy,omitempty"`
}

type Sea struct {
	// Shoals[depth-1][shoal] is a stack; index 0 is the top card.
	Shoals     [][][]catalog.FishCard `json:"shoals"`
	Graveyards [][]catalog.FishCard   `json:"graveyards"`
	Revealed   map[string]bool        `json:"revealed"`
	Plug       Plug                   `json:"plug"`
}

type Shop struct {
	Visible []string `json:"visible"`
	Pool    []string `json:"pool"`
}

type Port struct {
	Rods          Shop                 `json:"rods"`
	Reels         Shop                 `json:"reels"`
	Supplies      Shop                 `json:"supplies"`
	TackleMarket  []string             `json:"tackleMarket"`
	TackleBag     []string             `json:"tackleBag"`
	DinkDeck      []string             `json:"dinkDeck"`
	DinkDiscard   []string             `json:"dinkDiscard"`
	RegretDeck    []catalog.RegretCard `json:"regretDeck"`
	RegretDiscard []catalog.RegretCard `json:"regretDiscard"`
}

type DiceRemoval struct {
	PlayerID string `json:"playerId"`
	Count    int    `json:"count"`
}

type LastPlayerTurns struct {
	PlayerID string `json:"playerId"`
	Turns    int    `json:"turns"`
}

type DifficultyReduction struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

// GameState is the single authoritative state of a game. Only the reducer mutates it.
type GameState struct {
	GameID string `json:"gameId"`
	Rules  Rules  `json:"rules"`

	Players            []Player `json:"players"`
	CurrentPlayerIndex int      `json:"currentPlayerIndex"`
	FirstPlayerIndex   int      `json:"firstPlayerIndex"`
	Day                Day      `json:"day"`
	Phase              Phase    `json:"phase"`

	Sea  Sea  `json:"sea"`
	Port Port `json:"port"`

	LifePreserverOwner string `json:"lifePreserverOwner,omitempty"`
	FishCoinOwner      string `json:"fishCoinOwner,omitempty"`

	PendingDiceRemoval               []DiceRemoval        `json:"pendingDiceRemoval"`
	PendingLifePreserverGift         string               `json:"pendingLifePreserverGift,omitempty"`
	PendingPassingReward             string               `json:"pendingPassingReward,omitempty"`
	PendingSkippedRewards            []string             `json:"pendingSkippedRewards"`
	LastPlayerTurnsRemaining         *LastPlayerTurns     `json:"lastPlayerTurnsRemaining,omitempty"`
	LifePreserverDifficultyReduction *DifficultyReduction `json:"lifePreserverDifficultyReduction,omitempty"`

	IsGameOver  bool             `json:"isGameOver"`
	Winner      string           `json:"winner,omitempty"`
	FinalScores []ScoreBreakdown `json:"finalScores"`
}

// Copy returns a deep copy. Fish cards are shared: their ability and tag
// slices are reference data and never written.
func (gs *GameState) Copy() *GameState {
	out := *gs

	out.Players = make([]Player, len(gs.Players))
	for i, p := range gs.Players {
		out.Players[i] = p.copy()
	}

	out.Sea.Shoals = make([][][]catalog.FishCard, len(gs.Sea.Shoals))
	for d, shoals := range gs.Sea.Shoals {
		out.Sea.Shoals[d] = make([][]catalog.FishCard, len(shoals))
		for s, stack := range shoals {
			out.Sea.Shoals[d][s] = slices.Clone(stack)
		}
	}
	out.Sea.Graveyards = make([][]catalog.FishCard, len(gs.Sea.Graveyards))
	for d, g := range gs.Sea.Graveyards {
		out.Sea.Graveyards[d] = slices.Clone(g)
	}
	out.Sea.Revealed = maps.Clone(gs.Sea.Revealed)

	out.Port.Rods = gs.Port.Rods.copy()
	out.Port.Reels = gs.Port.Reels.copy()
	out.Port.Supplies = gs.Port.Supplies.copy()
	out.Port.TackleMarket = slices.Clone(gs.Port.TackleMarket)
	out.Port.TackleBag = slices.Clone(gs.Port.TackleBag)
	out.Port.DinkDeck = slices.Clone(gs.Port.DinkDeck)
	out.Port.DinkDiscard = slices.Clone(gs.Port.DinkDiscard)
	out.Port.RegretDeck = slices.Clone(gs.Port.RegretDeck)
	out.Port.RegretDiscard = slices.Clone(gs.Port.RegretDiscard)

	out.PendingDiceRemoval = slices.Clone(gs.PendingDiceRemoval)
	out.PendingSkippedRewards = slices.Clone(gs.PendingSkippedRewards)
	if gs.LastPlayerTurnsRemaining != nil {
		v := *gs.LastPlayerTurnsRemaining
		out.LastPlayerTurnsRemaining = &v
	}
	if gs.LifePreserverDifficultyReduction != nil {
		v := *gs.LifePreserverDifficultyReduction
		out.LifePreserverDifficultyReduction = &v
	}
	out.FinalScores = slices.Clone(gs.FinalScores)
	return &out
}

func (s Shop) copy() Shop {
	return Shop{Visible: slices.Clone(s.Visible), Pool: slices.Clone(s.Pool)}
}

func (p Player) copy() Player {
	out := p
	out.FreshDice = slices.Clone(p.FreshDice)
	out.SpentDice = slices.Clone(p.SpentDice)
	out.TackleDice = slices.Clone(p.TackleDice)
	out.HandFish = slices.Clone(p.HandFish)
	out.MountedFish = slices.Clone(p.MountedFish)
	out.Regrets = slices.Clone(p.Regrets)
	out.Supplies = slices.Clone(p.Supplies)
	out.Dinks = slices.Clone(p.Dinks)
	out.ExhaustedDinks = slices.Clone(p.ExhaustedDinks)
	out.ActiveEffects = slices.Clone(p.ActiveEffects)
	return out
}

// Player returns the player with the given id.
func (gs *GameState) Player(id string) (*Player, bool) {
	i := gs.playerIndex(id)
	if i < 0 {
		return nil, false
	}
	return &gs.Players[i], true
}

func (gs *GameState) playerIndex(id string) int {
	return slices.IndexFunc(gs.Players, func(p Player) bool { return p.ID == id })
}

func (gs *GameState) CurrentPlayer() *Player {
	return &gs.Players[gs.CurrentPlayerIndex]
}

func (gs *GameState) allPassed() bool {
	for _, p := range gs.Players {
		if !p.HasPassed {
			return false
		}
	}
	return true
}

func (gs *GameState) isLastDay() bool {
	return int(gs.Day) >= gs.Rules.Days-1
}

// shoal returns the stack at depth/shoal, or nil when out of range.
func (gs *GameState) shoal(depth, index int) []catalog.FishCard {
	if depth < 1 || depth > len(gs.Sea.Shoals) {
		return nil
	}
	shoals := gs.Sea.Shoals[depth-1]
	if index < 0 || index >= len(shoals) {
		return nil
	}
	return shoals[index]
}

// TopFish returns the top card of a shoal.
func (gs *GameState) TopFish(depth, index int) (catalog.FishCard, bool) {
	stack := gs.shoal(depth, index)
	if len(stack) == 0 {
		return catalog.FishCard{}, false
	}
	return stack[0], true
}

// IsRevealed reports whether the top card of a shoal is face up.
func (gs *GameState) IsRevealed(depth, index int) bool {
	return gs.Sea.Revealed[shoalKey(depth, index)]
}

func (gs *GameState) validShoal(depth, index int) bool {
	return depth >= 1 && depth <= len(gs.Sea.Shoals) && index >= 0 && index < len(gs.Sea.Shoals[depth-1])
}

func shoalKey(depth, index int) string {
	return fmt.Sprintf("%d-%d", depth, index)
}

// seaEmpty reports whether every shoal at every depth is empty.
func (gs *GameState) seaEmpty() bool {
	for _, shoals := range gs.Sea.Shoals {
		for _, stack := range shoals {
			if len(stack) > 0 {
				return false
			}
		}
	}
	return true
}

// HasEffect reports whether an effect of kind is waiting to be consumed.
func (p *Player) HasEffect(kind EffectKind) bool {
	return slices.ContainsFunc(p.ActiveEffects, func(e Effect) bool { return e.Kind == kind })
}

// consumeEffect removes the first effect of kind and returns it.
func (p *Player) consumeEffect(kind EffectKind) (Effect, bool) {
	i := slices.IndexFunc(p.ActiveEffects, func(e Effect) bool { return e.Kind == kind })
	if i < 0 {
		return Effect{}, false
	}
	e := p.ActiveEffects[i]
	p.ActiveEffects = slices.Delete(p.ActiveEffects, i, i+1)
	return e, true
}

func (p *Player) handFishIndex(id string) int {
	return slices.IndexFunc(p.HandFish, func(f catalog.FishCard) bool { return f.ID == id })
}

func (p *Player) slotTaken(slot int) bool {
	return slices.ContainsFunc(p.MountedFish, func(m MountedFish) bool { return m.Slot == slot })
}

func (p *Player) gainFishbucks(amount, cap int) {
	p.Fishbucks = clamp(p.Fishbucks+amount, 0, cap)
}
