package game

import (
	"fmt"
	"strings"
	"testing"
)

// scriptedLibrary maps "Protocol-Value" to an ability set; anything else
// resolves to a vanilla card.
type scriptedLibrary map[string]*AbilitySet

func (l scriptedLibrary) AbilitySetFor(protocol string, value int) *AbilitySet {
	return l[fmt.Sprintf("%s-%d", protocol, value)]
}

// flatRNG always picks index 0 and never shuffles, which keeps hand-built
// boards stable under random effects.
type flatRNG struct{}

func (flatRNG) Intn(n int) int { return 0 }

func (flatRNG) Shuffle(n int, swap func(i, j int)) {}

func newTestEngine() *Engine {
	return NewEngine(nil, flatRNG{}, nil)
}

func newSeededEngine(lib CardLibrary, seed int64) *Engine {
	return NewEngine(nil, NewRand(seed), lib)
}

// emptyState builds a bare two-player board with nothing dealt. Tests place
// cards directly and pick the phase they need.
func emptyState() *GameState {
	st := &GameState{
		Players: [2]*PlayerState{
			{Protocols: [LaneCount]string{"Alpha", "Beta", "Gamma"}},
			{Protocols: [LaneCount]string{"Delta", "Epsilon", "Zeta"}},
		},
		Turn:  SeatOne,
		Phase: PhaseStart,
	}
	return st
}

var testCardSeq int

// card mints a uniquely-identified test card.
func card(protocol string, value int, faceUp bool, ability *AbilitySet) *Card {
	testCardSeq++
	return &Card{
		ID:       fmt.Sprintf("test-card-%d", testCardSeq),
		Protocol: protocol,
		Value:    value,
		FaceUp:   faceUp,
		Ability:  ability,
	}
}

// place puts a card on top of a lane stack without firing triggers.
func place(st *GameState, seat Seat, lane int, c *Card) *Card {
	st.Players[seat].Lanes[lane] = append(st.Players[seat].Lanes[lane], c)
	recalculateAllLaneValues(st)
	return c
}

func addDeck(st *GameState, seat Seat, cards ...*Card) {
	st.Players[seat].Deck = append(st.Players[seat].Deck, cards...)
}

func addHand(st *GameState, seat Seat, cards ...*Card) {
	st.Players[seat].Hand = append(st.Players[seat].Hand, cards...)
}

// ability wraps effect definitions into one box of an ability set.
func ability(pos BoxPosition, defs ...EffectDefinition) *AbilitySet {
	set := &AbilitySet{}
	switch pos {
	case PositionTop:
		set.Top = defs
	case PositionMiddle:
		set.Middle = defs
	case PositionBottom:
		set.Bottom = defs
	}
	return set
}

func modifierAbility(pos BoxPosition, m ValueModifier) *AbilitySet {
	return ability(pos, EffectDefinition{
		Kind:    KindValueModifier,
		Trigger: TriggerPassive,
		Params:  EffectParams{Modifier: &m},
	})
}

func hasLog(st *GameState, fragment string) bool {
	for _, entry := range st.Log {
		if strings.Contains(entry.Message, fragment) {
			return true
		}
	}
	return false
}

func requireNoPending(t *testing.T, st *GameState) {
	t.Helper()
	if st.ActionRequired != nil {
		t.Fatalf("unexpected pending action %T", st.ActionRequired)
	}
}
