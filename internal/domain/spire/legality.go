package spire

// ProceedPolicy states whether the parameterless advance action moves past
// the screen: required to leave it, optional (an equivalent alternative
// exists), or disallowed because the game transitions on its own.
type ProceedPolicy int

const (
	ProceedDisallowed ProceedPolicy = iota
	ProceedOptional
	ProceedRequired
)

// ConfirmMode states whether a card_select unit ends with a trailing
// confirm primitive on this screen.
type ConfirmMode int

const (
	ConfirmNever ConfirmMode = iota
	ConfirmAlways
	ConfirmWhenShown // only when the screen reports confirm_up
)

// ParamRule lists the parameters an action type demands on a screen.
type ParamRule struct {
	Required []string
	Optional []string
}

// ScreenRule is one row of the legality table.
type ScreenRule struct {
	Allowed       map[ActionType]ParamRule
	Proceed       ProceedPolicy
	SelectConfirm ConfirmMode
}

var (
	noParams       = ParamRule{}
	startGameRule  = ParamRule{Required: []string{"character"}, Optional: []string{"ascension", "seed"}}
	playCardRule   = ParamRule{Required: []string{"card_index"}, Optional: []string{"target_index"}}
	usePotionRule  = ParamRule{Required: []string{"potion_index"}, Optional: []string{"target_index"}}
	discPotionRule = ParamRule{Required: []string{"potion_index"}}
	chooseRule     = ParamRule{Required: []string{"choice_index"}}
	restRule       = ParamRule{Required: []string{"option"}}
	cardRewardRule = ParamRule{Optional: []string{"card_name", "bowl"}}
	comRewardRule  = ParamRule{Required: []string{"reward_index"}}
	bossRewardRule = ParamRule{Required: []string{"relic_name"}}
	buyRule        = ParamRule{Required: []string{"name"}}
	buyPurgeRule   = ParamRule{Optional: []string{"card_name"}}
	cardSelectRule = ParamRule{Required: []string{"card_names"}}
	mapNodeRule    = ParamRule{Required: []string{"x", "y"}}
	eventRule      = ParamRule{Required: []string{"choice_index"}}
)

func legalityTable() map[ScreenType]ScreenRule {
	return map[ScreenType]ScreenRule{
		ScreenMainMenu: {
			Allowed: map[ActionType]ParamRule{
				ActionStartGame: startGameRule,
			},
			Proceed: ProceedDisallowed,
		},
		ScreenCombat: {
			Allowed: map[ActionType]ParamRule{
				ActionPlayCard:      playCardRule,
				ActionEndTurn:       noParams,
				ActionUsePotion:     usePotionRule,
				ActionDiscardPotion: discPotionRule,
			},
			Proceed: ProceedDisallowed,
		},
		ScreenNone: {
			Allowed: map[ActionType]ParamRule{
				ActionProceed:       noParams,
				ActionCancel:        noParams,
				ActionChoose:        chooseRule,
				ActionUsePotion:     usePotionRule,
				ActionDiscardPotion: discPotionRule,
			},
			Proceed: ProceedOptional,
		},
		ScreenEvent: {
			Allowed: map[ActionType]ParamRule{
				ActionEventOption: eventRule,
				ActionChoose:      chooseRule,
				ActionProceed:     noParams,
			},
			Proceed: ProceedOptional,
		},
		ScreenChest: {
			Allowed: map[ActionType]ParamRule{
				ActionOpenChest: noParams,
				ActionChoose:    chooseRule,
				ActionProceed:   noParams,
			},
			Proceed: ProceedOptional,
		},
		ScreenShopRoom: {
			Allowed: map[ActionType]ParamRule{
				ActionChoose:  chooseRule,
				ActionProceed: noParams,
			},
			Proceed: ProceedOptional,
		},
		ScreenRest: {
			Allowed: map[ActionType]ParamRule{
				ActionRest:    restRule,
				ActionChoose:  chooseRule,
				ActionProceed: noParams,
			},
			Proceed: ProceedOptional,
		},
		ScreenCardReward: {
			Allowed: map[ActionType]ParamRule{
				ActionCardReward: cardRewardRule,
				ActionChoose:     chooseRule,
				ActionCancel:     noParams,
			},
			Proceed: ProceedOptional,
		},
		ScreenCombatReward: {
			Allowed: map[ActionType]ParamRule{
				ActionCombatReward: comRewardRule,
				ActionChoose:       chooseRule,
				ActionProceed:      noParams,
			},
			Proceed: ProceedOptional,
		},
		ScreenMap: {
			Allowed: map[ActionType]ParamRule{
				ActionChooseMapNode: mapNodeRule,
				ActionChooseMapBoss: noParams,
				ActionChoose:        chooseRule,
			},
			Proceed: ProceedDisallowed,
		},
		ScreenBossReward: {
			Allowed: map[ActionType]ParamRule{
				ActionBossReward: bossRewardRule,
				ActionChoose:     chooseRule,
				ActionProceed:    noParams,
			},
			Proceed: ProceedOptional,
		},
		ScreenShop: {
			Allowed: map[ActionType]ParamRule{
				ActionBuyCard:   buyRule,
				ActionBuyRelic:  buyRule,
				ActionBuyPotion: buyRule,
				ActionBuyPurge:  buyPurgeRule,
				ActionChoose:    chooseRule,
				ActionCancel:    noParams,
			},
			Proceed: ProceedDisallowed,
		},
		ScreenGrid: {
			Allowed: map[ActionType]ParamRule{
				ActionCardSelect: cardSelectRule,
				ActionChoose:     chooseRule,
				ActionCancel:     noParams,
				ActionProceed:    noParams,
			},
			Proceed:       ProceedOptional,
			SelectConfirm: ConfirmWhenShown,
		},
		ScreenHandSelect: {
			Allowed: map[ActionType]ParamRule{
				ActionCardSelect: cardSelectRule,
				ActionChoose:     chooseRule,
				ActionProceed:    noParams,
			},
			Proceed:       ProceedRequired,
			SelectConfirm: ConfirmAlways,
		},
		ScreenGameOver: {
			Allowed: map[ActionType]ParamRule{
				ActionProceed: noParams,
			},
			Proceed: ProceedRequired,
		},
		ScreenComplete: {
			Allowed: map[ActionType]ParamRule{
				ActionProceed: noParams,
			},
			Proceed: ProceedRequired,
		},
	}
}

var legality = legalityTable()

// RuleFor looks up the legality row for a screen descriptor.
func RuleFor(screen ScreenType) (ScreenRule, bool) {
	rule, ok := legality[screen]
	return rule, ok
}

// KnownScreens lists every screen the table covers, for tests and docs.
func KnownScreens() []ScreenType {
	out := make([]ScreenType, 0, len(legality))
	for screen := range legality {
		out = append(out, screen)
	}
	return out
}
