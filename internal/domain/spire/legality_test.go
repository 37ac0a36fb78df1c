package spire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegalityTable_CoversEveryScreen(t *testing.T) {
	want := []ScreenType{
		ScreenMainMenu, ScreenCombat, ScreenNone, ScreenEvent, ScreenChest,
		ScreenShopRoom, ScreenRest, ScreenCardReward, ScreenCombatReward,
		ScreenMap, ScreenBossReward, ScreenShop, ScreenGrid, ScreenHandSelect,
		ScreenGameOver, ScreenComplete,
	}
	for _, screen := range want {
		_, ok := RuleFor(screen)
		assert.True(t, ok, "missing legality row for %s", screen)
	}
	assert.Len(t, KnownScreens(), len(want))
}

func TestLegalityTable_EveryAllowedTypeIsKnown(t *testing.T) {
	for _, screen := range KnownScreens() {
		rule, _ := RuleFor(screen)
		for actionType := range rule.Allowed {
			assert.True(t, KnownActionType(actionType),
				"screen %s allows unknown action %q", screen, actionType)
		}
	}
}

func TestLegalityTable_ScreenRows(t *testing.T) {
	cases := []struct {
		screen     ScreenType
		allowed    []ActionType
		notAllowed []ActionType
		proceed    ProceedPolicy
		confirm    ConfirmMode
	}{
		{
			screen:     ScreenMainMenu,
			allowed:    []ActionType{ActionStartGame},
			notAllowed: []ActionType{ActionPlayCard, ActionProceed, ActionChoose},
			proceed:    ProceedDisallowed,
		},
		{
			screen:     ScreenCombat,
			allowed:    []ActionType{ActionPlayCard, ActionEndTurn, ActionUsePotion, ActionDiscardPotion},
			notAllowed: []ActionType{ActionProceed, ActionStartGame, ActionChoose},
			proceed:    ProceedDisallowed,
		},
		{
			screen:     ScreenMap,
			allowed:    []ActionType{ActionChooseMapNode, ActionChooseMapBoss, ActionChoose},
			notAllowed: []ActionType{ActionProceed, ActionCancel},
			proceed:    ProceedDisallowed,
		},
		{
			screen:     ScreenShop,
			allowed:    []ActionType{ActionBuyCard, ActionBuyRelic, ActionBuyPotion, ActionBuyPurge, ActionCancel},
			notAllowed: []ActionType{ActionProceed, ActionPlayCard},
			proceed:    ProceedDisallowed,
		},
		{
			screen:  ScreenGrid,
			allowed: []ActionType{ActionCardSelect, ActionCancel, ActionProceed},
			proceed: ProceedOptional,
			confirm: ConfirmWhenShown,
		},
		{
			screen:     ScreenHandSelect,
			allowed:    []ActionType{ActionCardSelect, ActionProceed},
			notAllowed: []ActionType{ActionCancel},
			proceed:    ProceedRequired,
			confirm:    ConfirmAlways,
		},
		{
			screen:     ScreenGameOver,
			allowed:    []ActionType{ActionProceed},
			notAllowed: []ActionType{ActionChoose, ActionCancel, ActionStartGame},
			proceed:    ProceedRequired,
		},
		{
			screen:     ScreenComplete,
			allowed:    []ActionType{ActionProceed},
			notAllowed: []ActionType{ActionChoose},
			proceed:    ProceedRequired,
		},
	}

	for _, tc := range cases {
		t.Run(string(tc.screen), func(t *testing.T) {
			rule, ok := RuleFor(tc.screen)
			require.True(t, ok)
			for _, a := range tc.allowed {
				_, found := rule.Allowed[a]
				assert.True(t, found, "%s should allow %s", tc.screen, a)
			}
			for _, a := range tc.notAllowed {
				_, found := rule.Allowed[a]
				assert.False(t, found, "%s should not allow %s", tc.screen, a)
			}
			assert.Equal(t, tc.proceed, rule.Proceed)
			assert.Equal(t, tc.confirm, rule.SelectConfirm)
		})
	}
}

func TestLegalityTable_RequiredParams(t *testing.T) {
	cases := []struct {
		screen   ScreenType
		action   ActionType
		required []string
	}{
		{ScreenMainMenu, ActionStartGame, []string{"character"}},
		{ScreenCombat, ActionPlayCard, []string{"card_index"}},
		{ScreenCombat, ActionUsePotion, []string{"potion_index"}},
		{ScreenMap, ActionChooseMapNode, []string{"x", "y"}},
		{ScreenGrid, ActionCardSelect, []string{"card_names"}},
		{ScreenEvent, ActionEventOption, []string{"choice_index"}},
		{ScreenBossReward, ActionBossReward, []string{"relic_name"}},
	}
	for _, tc := range cases {
		rule, ok := RuleFor(tc.screen)
		require.True(t, ok)
		params, found := rule.Allowed[tc.action]
		require.True(t, found, "%s/%s", tc.screen, tc.action)
		assert.Equal(t, tc.required, params.Required, "%s/%s", tc.screen, tc.action)
	}
}
