package spire

import (
	"encoding/json"
	"time"
)

// StateSnapshot is one decoded state report from the communication mod.
// A snapshot is immutable once constructed: the coordinator replaces the
// previous one wholesale, it never merges fields.
type StateSnapshot struct {
	InGame            bool       `json:"in_game"`
	ReadyForCommand   bool       `json:"ready_for_command"`
	Error             string     `json:"error,omitempty"`
	AvailableCommands []string   `json:"available_commands,omitempty"`
	GameState         *GameState `json:"game_state,omitempty"`

	// Raw is the original line, kept so the boundary API and the recorder
	// can pass through fields the bridge does not model.
	Raw json.RawMessage `json:"-"`
}

// Versioned wraps a snapshot with the store's revision stamp.
type Versioned struct {
	Snapshot   StateSnapshot
	Revision   uint64
	ReceivedAt time.Time
}

// GameState carries the fields the legality table and validator inspect.
// Everything else the mod reports survives in the snapshot's Raw line.
type GameState struct {
	ScreenType  string       `json:"screen_type"`
	RoomPhase   string       `json:"room_phase"`
	RoomType    string       `json:"room_type"`
	ChoiceList  []string     `json:"choice_list,omitempty"`
	CombatState *CombatState `json:"combat_state,omitempty"`
	Potions     []Potion     `json:"potions,omitempty"`
	ScreenState *ScreenState `json:"screen_state,omitempty"`
}

type CombatState struct {
	Hand     []Card    `json:"hand"`
	Monsters []Monster `json:"monsters"`
}

type Card struct {
	Name       string `json:"name"`
	ID         string `json:"id,omitempty"`
	Cost       int    `json:"cost"`
	IsPlayable bool   `json:"is_playable"`
	HasTarget  bool   `json:"has_target"`
	Upgrades   int    `json:"upgrades,omitempty"`
}

type Monster struct {
	Name      string `json:"name"`
	CurrentHP int    `json:"current_hp"`
	MaxHP     int    `json:"max_hp"`
	IsGone    bool   `json:"is_gone"`
	HalfDead  bool   `json:"half_dead,omitempty"`
}

type Potion struct {
	Name           string `json:"name"`
	CanUse         bool   `json:"can_use"`
	CanDiscard     bool   `json:"can_discard"`
	RequiresTarget bool   `json:"requires_target"`
}

type Relic struct {
	Name string `json:"name"`
	ID   string `json:"id,omitempty"`
}

type MapNode struct {
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Symbol string `json:"symbol,omitempty"`
}

type EventOption struct {
	Text        string `json:"text"`
	Label       string `json:"label"`
	Disabled    bool   `json:"disabled"`
	ChoiceIndex int    `json:"choice_index"`
}

type Reward struct {
	RewardType string `json:"reward_type"`
	Gold       int    `json:"gold,omitempty"`
	Relic      *Relic `json:"relic,omitempty"`
	Potion     *struct {
		Name string `json:"name"`
	} `json:"potion,omitempty"`
}

// ScreenState is the union of the per-screen payloads the validator and
// dispatcher consult. The mod only populates the fields relevant to the
// current screen_type.
type ScreenState struct {
	// EVENT
	EventName string        `json:"event_name,omitempty"`
	Options   []EventOption `json:"options,omitempty"`

	// CHEST
	ChestType string `json:"chest_type,omitempty"`
	ChestOpen bool   `json:"chest_open,omitempty"`

	// REST
	HasRested   bool     `json:"has_rested,omitempty"`
	RestOptions []string `json:"rest_options,omitempty"`

	// CARD_REWARD / GRID / HAND_SELECT / SHOP_SCREEN
	Cards         []Card `json:"cards,omitempty"`
	BowlAvailable bool   `json:"bowl_available,omitempty"`
	SkipAvailable bool   `json:"skip_available,omitempty"`

	// COMBAT_REWARD
	Rewards []Reward `json:"rewards,omitempty"`

	// MAP
	CurrentNode   *MapNode  `json:"current_node,omitempty"`
	NextNodes     []MapNode `json:"next_nodes,omitempty"`
	BossAvailable bool      `json:"boss_available,omitempty"`

	// BOSS_REWARD / SHOP_SCREEN
	Relics []Relic `json:"relics,omitempty"`

	// SHOP_SCREEN
	Potions        []Potion `json:"potions,omitempty"`
	PurgeAvailable bool     `json:"purge_available,omitempty"`
	PurgeCost      int      `json:"purge_cost,omitempty"`

	// GRID
	NumCards   int  `json:"num_cards,omitempty"`
	AnyNumber  bool `json:"any_number,omitempty"`
	ConfirmUp  bool `json:"confirm_up,omitempty"`
	ForUpgrade bool `json:"for_upgrade,omitempty"`
	ForPurge   bool `json:"for_purge,omitempty"`

	// HAND_SELECT
	Hand        []Card `json:"hand,omitempty"`
	Selected    []Card `json:"selected,omitempty"`
	MaxCards    int    `json:"max_cards,omitempty"`
	CanPickZero bool   `json:"can_pick_zero,omitempty"`

	// GAME_OVER
	Score   int  `json:"score,omitempty"`
	Victory bool `json:"victory,omitempty"`
}

// SelectableCards returns the card list a card_select unit chooses from on
// the current screen.
func (s *ScreenState) SelectableCards(screen ScreenType) []Card {
	if s == nil {
		return nil
	}
	if screen == ScreenHandSelect {
		return s.Hand
	}
	return s.Cards
}
