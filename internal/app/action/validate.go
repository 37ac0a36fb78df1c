package action

import (
	"fmt"
	"strings"

	"spirebridge/internal/domain/spire"
)

// Validate admits or rejects an action against the latest snapshot before
// it may enter the queue. Rejection reasons: the type is not admissible on
// the current screen, a required parameter is missing, or a parameter falls
// outside what the snapshot declares.
func Validate(intent spire.ActionIntent, latest spire.Versioned) error {
	if !spire.KnownActionType(intent.Type) {
		return fmt.Errorf("%w: %q", ErrUnknownActionType, intent.Type)
	}

	desc := spire.Describe(&latest.Snapshot)
	rule, ok := spire.RuleFor(desc.Screen)
	if !ok {
		return &NotAllowedError{Type: intent.Type, Screen: desc.Screen, Reason: "screen has no admissible actions"}
	}
	params, allowed := rule.Allowed[intent.Type]
	if !allowed {
		return &NotAllowedError{Type: intent.Type, Screen: desc.Screen}
	}
	for _, p := range params.Required {
		if !hasParam(intent, p) {
			return &MissingParameterError{Type: intent.Type, Param: p}
		}
	}
	return validateRanges(intent, desc)
}

func hasParam(intent spire.ActionIntent, name string) bool {
	switch name {
	case "character":
		return intent.Character != ""
	case "ascension":
		return intent.Ascension != nil
	case "seed":
		return intent.Seed != ""
	case "card_index":
		return intent.CardIndex != nil
	case "target_index":
		return intent.TargetIndex != nil
	case "potion_index":
		return intent.PotionIndex != nil
	case "choice_index":
		return intent.ChoiceIndex != nil
	case "reward_index":
		return intent.RewardIndex != nil
	case "option":
		return intent.Option != ""
	case "card_name":
		return intent.CardName != ""
	case "bowl":
		return intent.Bowl
	case "relic_name":
		return intent.RelicName != ""
	case "name":
		return intent.Name != ""
	case "card_names":
		return len(intent.CardNames) > 0
	case "x":
		return intent.X != nil
	case "y":
		return intent.Y != nil
	default:
		return false
	}
}

func validateRanges(intent spire.ActionIntent, desc spire.Descriptor) error {
	gs := desc.GameState()
	ss := desc.ScreenState()

	switch intent.Type {
	case spire.ActionStartGame:
		if intent.Ascension != nil && (*intent.Ascension < 0 || *intent.Ascension > 20) {
			return &OutOfRangeError{Type: intent.Type, Param: "ascension", Detail: "must be 0..20"}
		}

	case spire.ActionPlayCard:
		if gs == nil || gs.CombatState == nil {
			return &NotAllowedError{Type: intent.Type, Screen: desc.Screen, Reason: "no combat state"}
		}
		hand := gs.CombatState.Hand
		i := *intent.CardIndex
		if i < 0 || i >= len(hand) {
			return &OutOfRangeError{Type: intent.Type, Param: "card_index",
				Detail: fmt.Sprintf("%d not in hand of %d", i, len(hand))}
		}
		if hand[i].HasTarget && intent.TargetIndex == nil {
			return &MissingParameterError{Type: intent.Type, Param: "target_index"}
		}
		if intent.TargetIndex != nil {
			if err := checkMonsterTarget(intent, gs.CombatState, *intent.TargetIndex); err != nil {
				return err
			}
		}

	case spire.ActionUsePotion:
		potions := potionsOf(gs)
		i := *intent.PotionIndex
		if i < 0 || i >= len(potions) {
			return &OutOfRangeError{Type: intent.Type, Param: "potion_index",
				Detail: fmt.Sprintf("%d not in belt of %d", i, len(potions))}
		}
		if !potions[i].CanUse {
			return &NotAllowedError{Type: intent.Type, Screen: desc.Screen,
				Reason: fmt.Sprintf("%s cannot be used now", potions[i].Name)}
		}
		if potions[i].RequiresTarget && intent.TargetIndex == nil {
			return &MissingParameterError{Type: intent.Type, Param: "target_index"}
		}
		if intent.TargetIndex != nil && gs != nil && gs.CombatState != nil {
			if err := checkMonsterTarget(intent, gs.CombatState, *intent.TargetIndex); err != nil {
				return err
			}
		}

	case spire.ActionDiscardPotion:
		potions := potionsOf(gs)
		i := *intent.PotionIndex
		if i < 0 || i >= len(potions) {
			return &OutOfRangeError{Type: intent.Type, Param: "potion_index",
				Detail: fmt.Sprintf("%d not in belt of %d", i, len(potions))}
		}
		if !potions[i].CanDiscard {
			return &NotAllowedError{Type: intent.Type, Screen: desc.Screen,
				Reason: fmt.Sprintf("%s cannot be discarded", potions[i].Name)}
		}

	case spire.ActionChoose:
		n := 0
		if gs != nil {
			n = len(gs.ChoiceList)
		}
		if i := *intent.ChoiceIndex; i < 0 || i >= n {
			return &OutOfRangeError{Type: intent.Type, Param: "choice_index",
				Detail: fmt.Sprintf("%d not in choice list of %d", i, n)}
		}

	case spire.ActionRest:
		option := strings.ToLower(intent.Option)
		if !spire.IsRestOption(option) {
			return &OutOfRangeError{Type: intent.Type, Param: "option",
				Detail: fmt.Sprintf("%q is not a rest option", intent.Option)}
		}
		if ss != nil && !containsFold(ss.RestOptions, option) {
			return &OutOfRangeError{Type: intent.Type, Param: "option",
				Detail: fmt.Sprintf("%q not offered here", intent.Option)}
		}

	case spire.ActionCardReward:
		if !intent.Bowl && intent.CardName == "" {
			return &MissingParameterError{Type: intent.Type, Param: "card_name"}
		}
		if intent.Bowl {
			if ss == nil || !ss.BowlAvailable {
				return &NotAllowedError{Type: intent.Type, Screen: desc.Screen, Reason: "bowl not available"}
			}
			return nil
		}
		if !cardOffered(ss, intent.CardName) {
			return &OutOfRangeError{Type: intent.Type, Param: "card_name",
				Detail: fmt.Sprintf("%q not offered", intent.CardName)}
		}

	case spire.ActionCombatReward:
		n := 0
		if ss != nil {
			n = len(ss.Rewards)
		}
		if i := *intent.RewardIndex; i < 0 || i >= n {
			return &OutOfRangeError{Type: intent.Type, Param: "reward_index",
				Detail: fmt.Sprintf("%d not in rewards of %d", i, n)}
		}

	case spire.ActionBossReward:
		if !relicOffered(ss, intent.RelicName) {
			return &OutOfRangeError{Type: intent.Type, Param: "relic_name",
				Detail: fmt.Sprintf("%q not offered", intent.RelicName)}
		}

	case spire.ActionBuyCard:
		if !cardOffered(ss, intent.Name) {
			return &OutOfRangeError{Type: intent.Type, Param: "name",
				Detail: fmt.Sprintf("%q not for sale", intent.Name)}
		}

	case spire.ActionBuyRelic:
		if !relicOffered(ss, intent.Name) {
			return &OutOfRangeError{Type: intent.Type, Param: "name",
				Detail: fmt.Sprintf("%q not for sale", intent.Name)}
		}

	case spire.ActionBuyPotion:
		if ss == nil || !potionOffered(ss.Potions, intent.Name) {
			return &OutOfRangeError{Type: intent.Type, Param: "name",
				Detail: fmt.Sprintf("%q not for sale", intent.Name)}
		}

	case spire.ActionBuyPurge:
		if ss == nil || !ss.PurgeAvailable {
			return &NotAllowedError{Type: intent.Type, Screen: desc.Screen, Reason: "purge not available"}
		}

	case spire.ActionCardSelect:
		return validateCardSelect(intent, desc, ss)

	case spire.ActionChooseMapNode:
		if ss == nil || !nodeReachable(ss.NextNodes, *intent.X, *intent.Y) {
			return &OutOfRangeError{Type: intent.Type, Param: "x,y",
				Detail: fmt.Sprintf("node (%d,%d) not reachable", *intent.X, *intent.Y)}
		}

	case spire.ActionChooseMapBoss:
		if ss == nil || !ss.BossAvailable {
			return &NotAllowedError{Type: intent.Type, Screen: desc.Screen, Reason: "boss not available"}
		}

	case spire.ActionEventOption:
		var options []spire.EventOption
		if ss != nil {
			options = ss.Options
		}
		i := *intent.ChoiceIndex
		if i < 0 || i >= len(options) {
			return &OutOfRangeError{Type: intent.Type, Param: "choice_index",
				Detail: fmt.Sprintf("%d not in options of %d", i, len(options))}
		}
		if options[i].Disabled {
			return &NotAllowedError{Type: intent.Type, Screen: desc.Screen,
				Reason: fmt.Sprintf("option %d is disabled", i)}
		}
	}
	return nil
}

// validateCardSelect vets the whole multi-card unit up front; the
// dispatcher later lowers it to one primitive per card.
func validateCardSelect(intent spire.ActionIntent, desc spire.Descriptor, ss *spire.ScreenState) error {
	if ss == nil {
		return &NotAllowedError{Type: intent.Type, Screen: desc.Screen, Reason: "no selection in progress"}
	}
	selectable := ss.SelectableCards(desc.Screen)
	for _, name := range intent.CardNames {
		if !cardNamed(selectable, name) {
			return &OutOfRangeError{Type: intent.Type, Param: "card_names",
				Detail: fmt.Sprintf("%q not selectable", name)}
		}
	}
	switch desc.Screen {
	case spire.ScreenGrid:
		if !ss.AnyNumber && ss.NumCards > 0 && len(intent.CardNames) != ss.NumCards {
			return &OutOfRangeError{Type: intent.Type, Param: "card_names",
				Detail: fmt.Sprintf("screen wants exactly %d cards, got %d", ss.NumCards, len(intent.CardNames))}
		}
	case spire.ScreenHandSelect:
		if ss.MaxCards > 0 && len(intent.CardNames) > ss.MaxCards {
			return &OutOfRangeError{Type: intent.Type, Param: "card_names",
				Detail: fmt.Sprintf("screen allows at most %d cards, got %d", ss.MaxCards, len(intent.CardNames))}
		}
	}
	return nil
}

func checkMonsterTarget(intent spire.ActionIntent, cs *spire.CombatState, target int) error {
	if target < 0 || target >= len(cs.Monsters) {
		return &OutOfRangeError{Type: intent.Type, Param: "target_index",
			Detail: fmt.Sprintf("%d not in monsters of %d", target, len(cs.Monsters))}
	}
	if cs.Monsters[target].IsGone {
		return &OutOfRangeError{Type: intent.Type, Param: "target_index",
			Detail: fmt.Sprintf("monster %d is gone", target)}
	}
	return nil
}

func potionsOf(gs *spire.GameState) []spire.Potion {
	if gs == nil {
		return nil
	}
	return gs.Potions
}

func cardOffered(ss *spire.ScreenState, name string) bool {
	if ss == nil {
		return false
	}
	return cardNamed(ss.Cards, name)
}

func cardNamed(cards []spire.Card, name string) bool {
	for _, c := range cards {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

func relicOffered(ss *spire.ScreenState, name string) bool {
	if ss == nil {
		return false
	}
	for _, r := range ss.Relics {
		if strings.EqualFold(r.Name, name) {
			return true
		}
	}
	return false
}

func potionOffered(potions []spire.Potion, name string) bool {
	for _, p := range potions {
		if strings.EqualFold(p.Name, name) {
			return true
		}
	}
	return false
}

func nodeReachable(nodes []spire.MapNode, x, y int) bool {
	for _, n := range nodes {
		if n.X == x && n.Y == y {
			return true
		}
	}
	return false
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}
	return false
}
