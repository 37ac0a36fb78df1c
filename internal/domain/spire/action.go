package spire

// ActionType discriminates the structured action grammar the boundary API
// accepts. Indices are 0-based throughout; the line codec owns the shift to
// the mod's 1-based hand indices.
type ActionType string

const (
	ActionStartGame     ActionType = "start_game"
	ActionPlayCard      ActionType = "play_card"
	ActionEndTurn       ActionType = "end_turn"
	ActionUsePotion     ActionType = "use_potion"
	ActionDiscardPotion ActionType = "discard_potion"
	ActionProceed       ActionType = "proceed"
	ActionCancel        ActionType = "cancel"
	ActionChoose        ActionType = "choose"
	ActionRest          ActionType = "rest"
	ActionCardReward    ActionType = "card_reward"
	ActionCombatReward  ActionType = "combat_reward"
	ActionBossReward    ActionType = "boss_reward"
	ActionBuyCard       ActionType = "buy_card"
	ActionBuyRelic      ActionType = "buy_relic"
	ActionBuyPotion     ActionType = "buy_potion"
	ActionBuyPurge      ActionType = "buy_purge"
	ActionCardSelect    ActionType = "card_select"
	ActionChooseMapNode ActionType = "choose_map_node"
	ActionChooseMapBoss ActionType = "choose_map_boss"
	ActionOpenChest     ActionType = "open_chest"
	ActionEventOption   ActionType = "event_option"
)

// ActionIntent is one caller-submitted action in the structured grammar.
// Pointer fields distinguish "absent" from zero values so the validator can
// enforce required parameters.
type ActionIntent struct {
	Type ActionType `json:"type"`

	Character string `json:"character,omitempty"`
	Ascension *int   `json:"ascension,omitempty"`
	Seed      string `json:"seed,omitempty"`

	CardIndex   *int `json:"card_index,omitempty"`
	TargetIndex *int `json:"target_index,omitempty"`
	PotionIndex *int `json:"potion_index,omitempty"`
	ChoiceIndex *int `json:"choice_index,omitempty"`
	RewardIndex *int `json:"reward_index,omitempty"`

	Option    string   `json:"option,omitempty"`
	CardName  string   `json:"card_name,omitempty"`
	Bowl      bool     `json:"bowl,omitempty"`
	RelicName string   `json:"relic_name,omitempty"`
	Name      string   `json:"name,omitempty"`
	CardNames []string `json:"card_names,omitempty"`

	X *int `json:"x,omitempty"`
	Y *int `json:"y,omitempty"`
}

// AllActionTypes enumerates the structured grammar, for unknown-type checks.
var AllActionTypes = []ActionType{
	ActionStartGame, ActionPlayCard, ActionEndTurn, ActionUsePotion,
	ActionDiscardPotion, ActionProceed, ActionCancel, ActionChoose,
	ActionRest, ActionCardReward, ActionCombatReward, ActionBossReward,
	ActionBuyCard, ActionBuyRelic, ActionBuyPotion, ActionBuyPurge,
	ActionCardSelect, ActionChooseMapNode, ActionChooseMapBoss,
	ActionOpenChest, ActionEventOption,
}

func KnownActionType(t ActionType) bool {
	for _, known := range AllActionTypes {
		if known == t {
			return true
		}
	}
	return false
}

// RestOptions the mod accepts at a rest site.
var RestOptions = []string{"rest", "smith", "dig", "lift", "recall", "toke"}

func IsRestOption(option string) bool {
	for _, o := range RestOptions {
		if o == option {
			return true
		}
	}
	return false
}
