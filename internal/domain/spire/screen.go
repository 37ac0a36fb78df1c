package spire

// ScreenType names a mode of the game's interaction surface. The values
// match the communication mod's screen_type strings, plus two synthetic
// descriptors the mod never sends: MAIN_MENU for out-of-game reports and
// COMBAT for in-combat reports (which the mod labels NONE).
type ScreenType string

const (
	ScreenMainMenu     ScreenType = "MAIN_MENU"
	ScreenCombat       ScreenType = "COMBAT"
	ScreenNone         ScreenType = "NONE"
	ScreenEvent        ScreenType = "EVENT"
	ScreenChest        ScreenType = "CHEST"
	ScreenShopRoom     ScreenType = "SHOP_ROOM"
	ScreenRest         ScreenType = "REST"
	ScreenCardReward   ScreenType = "CARD_REWARD"
	ScreenCombatReward ScreenType = "COMBAT_REWARD"
	ScreenMap          ScreenType = "MAP"
	ScreenBossReward   ScreenType = "BOSS_REWARD"
	ScreenShop         ScreenType = "SHOP_SCREEN"
	ScreenGrid         ScreenType = "GRID"
	ScreenHandSelect   ScreenType = "HAND_SELECT"
	ScreenGameOver     ScreenType = "GAME_OVER"
	ScreenComplete     ScreenType = "COMPLETE"
)

const roomPhaseCombat = "COMBAT"

// Descriptor is a read-only view of a snapshot used for legality lookups.
type Descriptor struct {
	Screen            ScreenType
	RoomPhase         string
	RoomType          string
	AvailableCommands []string
	State             *StateSnapshot
}

// Describe derives the legality-table key for a snapshot.
func Describe(s *StateSnapshot) Descriptor {
	d := Descriptor{State: s}
	if s == nil || !s.InGame || s.GameState == nil {
		d.Screen = ScreenMainMenu
		return d
	}
	gs := s.GameState
	d.RoomPhase = gs.RoomPhase
	d.RoomType = gs.RoomType
	d.AvailableCommands = s.AvailableCommands

	switch {
	case ScreenType(gs.ScreenType) == ScreenNone && gs.RoomPhase == roomPhaseCombat:
		d.Screen = ScreenCombat
	case gs.ScreenType == "":
		d.Screen = ScreenNone
	default:
		d.Screen = ScreenType(gs.ScreenType)
	}
	return d
}

// ScreenState returns the per-screen payload, nil-safe.
func (d Descriptor) ScreenState() *ScreenState {
	if d.State == nil || d.State.GameState == nil {
		return nil
	}
	return d.State.GameState.ScreenState
}

// GameState returns the snapshot's game state, nil-safe.
func (d Descriptor) GameState() *GameState {
	if d.State == nil {
		return nil
	}
	return d.State.GameState
}
