package game

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"deepregrets/catalog"
)

var (
	ErrNotInitialized = errors.New("game state is not initialized")
	ErrUnknownAction  = errors.New("unknown action type")
	ErrInvalidPayload = errors.New("invalid action payload")
)

// SystemPlayer is the actor for actions no player is responsible for.
const SystemPlayer = "system"

// ActionType represents the type of action a player can perform.
type ActionType int

const (
	InitGame ActionType = iota
	ResetGame
	NextPhase
	DeclareLocation
	RevealFish
	Descend
	MoveDeeper
	CatchFish
	SellFish
	MountFish
	BuyUpgrade
	BuyTackleDice
	CycleMarket
	DrawDink
	PlayDink
	DiscardRegret
	DiscardRandomRegret
	UseLifePreserver
	GiveLifePreserver
	ClaimPassingReward
	RollDice
	RemoveDie
	EatFish
	UseCanOfWorms
	AbandonShip
	Pass
	EndTurn
	numActionTypes
)

var actionNames = [numActionTypes]string{
	"INIT_GAME", "RESET_GAME", "NEXT_PHASE", "DECLARE_LOCATION", "REVEAL_FISH",
	"DESCEND", "MOVE_DEEPER", "CATCH_FISH", "SELL_FISH", "MOUNT_FISH",
	"BUY_UPGRADE", "BUY_TACKLE_DICE", "CYCLE_MARKET", "DRAW_DINK", "PLAY_DINK",
	"DISCARD_REGRET", "DISCARD_RANDOM_REGRET", "USE_LIFE_PRESERVER", "GIVE_LIFE_PRESERVER",
	"CLAIM_PASSING_REWARD", "ROLL_DICE", "REMOVE_DIE", "EAT_FISH", "USE_CAN_OF_WORMS",
	"ABANDON_SHIP", "PASS", "END_TURN",
}

func (t ActionType) String() string {
	if t < 0 || t >= numActionTypes {
		return fmt.Sprintf("ActionType(%d)", int(t))
	}
	return actionNames[t]
}

func (t ActionType) MarshalText() ([]byte, error) {
	if t < 0 || t >= numActionTypes {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, int(t))
	}
	return []byte(t.String()), nil
}

func (t *ActionType) UnmarshalText(text []byte) error {
	parsed, err := ParseActionType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ParseActionType resolves an action name, suggesting the closest name on a miss.
func ParseActionType(name string) (ActionType, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for i, n := range actionNames {
		if n == upper {
			return ActionType(i), nil
		}
	}
	if s := catalog.Suggest(upper, actionNames[:]); s != "" {
		return 0, fmt.Errorf("%w %q (did you mean %s?)", ErrUnknownAction, name, s)
	}
	return 0, fmt.Errorf("%w %q", ErrUnknownAction, name)
}

// Action is a tagged union: Payload's concrete type is fixed by Type.
type Action struct {
	Type     ActionType `json:"type"`
	PlayerID string     `json:"playerId"`
	Payload  Payload    `json:"payload,omitempty"`
}

type Payload interface {
	validate() error
}

type PlayerSetup struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Character string `json:"character"`
}

type InitGamePayload struct {
	Players []PlayerSetup `json:"players"`
	Rules   *Rules        `json:"rules,omitempty"`
}

type DeclareLocationPayload struct {
	Location Location `json:"location"`
}

// ShoalPayload targets one shoal; used by REVEAL_FISH and USE_CAN_OF_WORMS.
type ShoalPayload struct {
	Depth int `json:"depth"`
	Shoal int `json:"shoal"`
}

type DescendPayload struct {
	TargetDepth int `json:"targetDepth"`
}

type CatchFishPayload struct {
	Depth             int    `json:"depth"`
	Shoal             int    `json:"shoal"`
	FishID            string `json:"fishId"`
	DiceIndices       []int  `json:"diceIndices"`
	TackleDiceIndices []int  `json:"tackleDiceIndices,omitempty"`
}

// FishPayload names a hand fish; used by SELL_FISH and EAT_FISH.
type FishPayload struct {
	FishID string `json:"fishId"`
}

type MountFishPayload struct {
	FishID string `json:"fishId"`
	Slot   int    `json:"slot"`
}

type BuyUpgradePayload struct {
	Category catalog.UpgradeKind `json:"category"`
	CardID   string              `json:"cardId"`
}

type BuyTackleDicePayload struct {
	MarketIndices []int `json:"marketIndices"`
}

type DinkPayload struct {
	DinkID string `json:"dinkId"`
}

type DiscardRegretPayload struct {
	RegretIndex int `json:"regretIndex"`
}

type LifePreserverUse string

const (
	UseAtSea  LifePreserverUse = "sea"
	UseAtPort LifePreserverUse = "port"
)

type UseLifePreserverPayload struct {
	UseType LifePreserverUse `json:"useType"`
}

type GiveLifePreserverPayload struct {
	TargetPlayerID string `json:"targetPlayerId"`
}

type RewardChoice string

const (
	RewardDink          RewardChoice = "dink"
	RewardDiscardRegret RewardChoice = "discard_regret"
)

type ClaimPassingRewardPayload struct {
	Choice RewardChoice `json:"choice"`
}

type RemoveDiePayload struct {
	DieIndex int `json:"dieIndex"`
}

func (p *InitGamePayload) validate() error {
	if len(p.Players) == 0 {
		return errors.New("at least one player is required")
	}
	seen := map[string]bool{}
	for i, s := range p.Players {
		if s.Name == "" {
			return fmt.Errorf("player %d has no name", i)
		}
		if s.ID == SystemPlayer {
			return fmt.Errorf("player id %q is reserved", SystemPlayer)
		}
		if s.ID != "" && seen[s.ID] {
			return fmt.Errorf("duplicate player id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}

func (p *DeclareLocationPayload) validate() error {
	if p.Location != AtSea && p.Location != AtPort {
		return fmt.Errorf("location %d", p.Location)
	}
	return nil
}

func (p *ShoalPayload) validate() error {
	if p.Depth < 1 || p.Shoal < 0 {
		return fmt.Errorf("shoal %d-%d", p.Depth, p.Shoal)
	}
	return nil
}

func (p *DescendPayload) validate() error {
	if p.TargetDepth < 1 {
		return fmt.Errorf("target depth %d", p.TargetDepth)
	}
	return nil
}

func (p *CatchFishPayload) validate() error {
	if p.FishID == "" {
		return errors.New("fish id is required")
	}
	if p.Depth < 1 || p.Shoal < 0 {
		return fmt.Errorf("shoal %d-%d", p.Depth, p.Shoal)
	}
	if err := distinctIndices(p.DiceIndices); err != nil {
		return fmt.Errorf("dice: %w", err)
	}
	if err := distinctIndices(p.TackleDiceIndices); err != nil {
		return fmt.Errorf("tackle dice: %w", err)
	}
	return nil
}

func (p *FishPayload) validate() error {
	if p.FishID == "" {
		return errors.New("fish id is required")
	}
	return nil
}

func (p *MountFishPayload) validate() error {
	if p.FishID == "" {
		return errors.New("fish id is required")
	}
	if p.Slot < 0 {
		return fmt.Errorf("slot %d", p.Slot)
	}
	return nil
}

func (p *BuyUpgradePayload) validate() error {
	switch p.Category {
	case catalog.Rod, catalog.Reel, catalog.Supply:
	default:
		return fmt.Errorf("category %q", p.Category)
	}
	if p.CardID == "" {
		return errors.New("card id is required")
	}
	return nil
}

func (p *BuyTackleDicePayload) validate() error {
	if len(p.MarketIndices) == 0 {
		return errors.New("nothing to buy")
	}
	return distinctIndices(p.MarketIndices)
}

func (p *DinkPayload) validate() error {
	if p.DinkID == "" {
		return errors.New("dink id is required")
	}
	return nil
}

func (p *DiscardRegretPayload) validate() error {
	if p.RegretIndex < 0 {
		return fmt.Errorf("regret index %d", p.RegretIndex)
	}
	return nil
}

func (p *UseLifePreserverPayload) validate() error {
	if p.UseType != UseAtSea && p.UseType != UseAtPort {
		return fmt.Errorf("use type %q", p.UseType)
	}
	return nil
}

func (p *GiveLifePreserverPayload) validate() error {
	if p.TargetPlayerID == "" {
		return errors.New("target player is required")
	}
	return nil
}

func (p *ClaimPassingRewardPayload) validate() error {
	if p.Choice != RewardDink && p.Choice != RewardDiscardRegret {
		return fmt.Errorf("choice %q", p.Choice)
	}
	return nil
}

func (p *RemoveDiePayload) validate() error {
	if p.DieIndex < 0 {
		return fmt.Errorf("die index %d", p.DieIndex)
	}
	return nil
}

func distinctIndices(indices []int) error {
	seen := map[int]bool{}
	for _, i := range indices {
		if i < 0 {
			return fmt.Errorf("negative index %d", i)
		}
		if seen[i] {
			return fmt.Errorf("duplicate index %d", i)
		}
		seen[i] = true
	}
	return nil
}

// newPayload returns an empty payload of the type an action requires, or nil
// when the action carries none.
func newPayload(t ActionType) Payload {
	switch t {
	case InitGame:
		return &InitGamePayload{}
	case DeclareLocation:
		return &DeclareLocationPayload{}
	case RevealFish, UseCanOfWorms:
		return &ShoalPayload{}
	case Descend:
		return &DescendPayload{}
	case CatchFish:
		return &CatchFishPayload{}
	case SellFish, EatFish:
		return &FishPayload{}
	case MountFish:
		return &MountFishPayload{}
	case BuyUpgrade:
		return &BuyUpgradePayload{}
	case BuyTackleDice:
		return &BuyTackleDicePayload{}
	case PlayDink:
		return &DinkPayload{}
	case DiscardRegret:
		return &DiscardRegretPayload{}
	case UseLifePreserver:
		return &UseLifePreserverPayload{}
	case GiveLifePreserver:
		return &GiveLifePreserverPayload{}
	case ClaimPassingReward:
		return &ClaimPassingRewardPayload{}
	case RemoveDie:
		return &RemoveDiePayload{}
	}
	return nil
}

// Validate checks the action's shape: a known type, an actor, and a payload of
// the right concrete type with well-formed fields.
func (a Action) Validate() error {
	if a.Type < 0 || a.Type >= numActionTypes {
		return fmt.Errorf("%w: %d", ErrUnknownAction, int(a.Type))
	}
	if a.PlayerID == "" {
		return fmt.Errorf("%w: %s has no player", ErrInvalidPayload, a.Type)
	}
	want := newPayload(a.Type)
	if want == nil {
		if a.Payload != nil {
			return fmt.Errorf("%w: %s takes no payload", ErrInvalidPayload, a.Type)
		}
		return nil
	}
	if a.Payload == nil || reflect.ValueOf(a.Payload).IsNil() {
		return fmt.Errorf("%w: %s needs a %T", ErrInvalidPayload, a.Type, want)
	}
	if reflect.TypeOf(a.Payload) != reflect.TypeOf(want) {
		return fmt.Errorf("%w: %s needs a %T, got %T", ErrInvalidPayload, a.Type, want, a.Payload)
	}
	if err := a.Payload.validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, a.Type, err)
	}
	return nil
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type     ActionType      `json:"type"`
		PlayerID string          `json:"playerId"`
		Payload  json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.Type = raw.Type
	a.PlayerID = raw.PlayerID
	a.Payload = nil
	if p := newPayload(raw.Type); p != nil && len(raw.Payload) > 0 && string(raw.Payload) != "null" {
		if err := json.Unmarshal(raw.Payload, p); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, raw.Type, err)
		}
		a.Payload = p
	}
	return nil
}
