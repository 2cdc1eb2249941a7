package game

import "fmt"

// Card values printed for each protocol. Every protocol contributes one card
// of each value to its owner's deck.
const protocolCardValues = 6 // values 0 through 5

// NewGame deals a fresh match. Each player's deck is built from their three
// chosen protocols, shuffled with the engine's random source, and an opening
// hand is drawn. Player 1 opens.
func (e *Engine) NewGame(p1Protocols, p2Protocols [LaneCount]string, useControl bool) *GameState {
	st := &GameState{
		Players: [2]*PlayerState{
			e.newPlayer(p1Protocols),
			e.newPlayer(p2Protocols),
		},
		Turn:       SeatOne,
		Phase:      PhaseStart,
		UseControl: useControl,
	}
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		ps := st.Players[seat]
		ps.Hand = ps.Deck[:OpeningHandSize]
		ps.Deck = ps.Deck[OpeningHandSize:]
		ps.Stats.CardsDrawn = OpeningHandSize
	}
	recalculateAllLaneValues(st)
	st.addSystemLog(fmt.Sprintf("Match started: %s opens.", st.Turn))
	return st
}

func (e *Engine) newPlayer(protocols [LaneCount]string) *PlayerState {
	ps := &PlayerState{Protocols: protocols}
	for _, protocol := range protocols {
		for value := 0; value < protocolCardValues; value++ {
			ps.Deck = append(ps.Deck, e.newCard(protocol, value))
		}
	}
	e.rng.Shuffle(len(ps.Deck), func(i, j int) {
		ps.Deck[i], ps.Deck[j] = ps.Deck[j], ps.Deck[i]
	})
	return ps
}
