package game

// The value calculator derives lane totals from the board. Passive
// value-modifier effects contributed by face-up cards are read declaratively;
// they are never executed by the interpreter.

// activeModifier is a passive modifier currently in force, with its source
// location attached.
type activeModifier struct {
	mod   ValueModifier
	owner Seat
	lane  int
}

// collectModifiers gathers every live value modifier on the board. A modifier
// is live when its source card is face-up and its box position permits it
// (middle/bottom boxes require the card to be uncovered).
func collectModifiers(st *GameState) []activeModifier {
	var out []activeModifier
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		ps := st.Players[seat]
		for lane := 0; lane < LaneCount; lane++ {
			for i, c := range ps.Lanes[lane] {
				if !c.FaceUp || c.Ability == nil {
					continue
				}
				uncovered := i == len(ps.Lanes[lane])-1
				for _, def := range c.Ability.allEffects() {
					if def.Kind != KindValueModifier || def.Trigger != TriggerPassive || def.Params.Modifier == nil {
						continue
					}
					if def.Position != PositionTop && !uncovered {
						continue
					}
					out = append(out, activeModifier{mod: *def.Params.Modifier, owner: seat, lane: lane})
				}
			}
		}
	}
	return out
}

// effectiveValue computes a single card's contribution before lane-level
// adjustments. Face-down cards count as FaceDownValue unless a set_to_fixed
// modifier in the same lane overrides them.
func effectiveValue(st *GameState, c *Card, owner Seat, lane int, mods []activeModifier) int {
	if c.FaceUp {
		return c.Value
	}
	value := FaceDownValue
	for _, am := range mods {
		if am.mod.Kind != ModifierSetToFixed || am.lane != lane {
			continue
		}
		switch am.mod.AppliesTo {
		case OwnerSelf:
			if am.owner != owner {
				continue
			}
		case OwnerOpponent:
			if am.owner == owner {
				continue
			}
		}
		value = am.mod.Value
	}
	return value
}

// laneValue computes one player's total for a lane, including board-wide
// add_per_condition and add_to_total modifiers, clamped at zero.
func laneValue(st *GameState, seat Seat, lane int, mods []activeModifier) int {
	ps := st.Players[seat]
	total := 0
	for _, c := range ps.Lanes[lane] {
		total += effectiveValue(st, c, seat, lane, mods)
	}
	for _, am := range mods {
		if am.owner != seat {
			continue
		}
		switch am.mod.Kind {
		case ModifierAddPerCondition:
			if am.lane != lane {
				continue
			}
			total += am.mod.Value * conditionCount(st, am)
		case ModifierAddToTotal:
			if am.lane != lane {
				continue
			}
			if am.mod.RequiresCoveredAlly && !hasOtherProtocolAlly(st, am) {
				continue
			}
			total += am.mod.Value
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

func conditionCount(st *GameState, am activeModifier) int {
	ps := st.Players[am.owner]
	opp := st.Players[am.owner.Other()]
	switch am.mod.Condition {
	case CondFaceDownInLane:
		n := 0
		for _, c := range ps.Lanes[am.lane] {
			if !c.FaceUp {
				n++
			}
		}
		return n
	case CondFaceUpInLane:
		n := 0
		for _, c := range ps.Lanes[am.lane] {
			if c.FaceUp {
				n++
			}
		}
		return n
	case CondAllInLane:
		return len(ps.Lanes[am.lane])
	case CondCardsInHand:
		return len(ps.Hand)
	case CondOpponentCardsInLane:
		return len(opp.Lanes[am.lane])
	}
	return 0
}

// hasOtherProtocolAlly reports whether the modifier's owner has another
// face-up card of a different protocol in the same stack.
func hasOtherProtocolAlly(st *GameState, am activeModifier) bool {
	stack := st.Players[am.owner].Lanes[am.lane]
	protocols := map[string]int{}
	for _, c := range stack {
		if c.FaceUp {
			protocols[c.Protocol]++
		}
	}
	return len(protocols) > 1
}

// recalculateAllLaneValues refreshes both players' cached lane totals. It
// must run after every structural change to lanes, hands, or protocol
// assignment; callers never read a stale cache.
func recalculateAllLaneValues(st *GameState) {
	mods := collectModifiers(st)
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		for lane := 0; lane < LaneCount; lane++ {
			st.Players[seat].LaneValues[lane] = laneValue(st, seat, lane, mods)
		}
	}
}

// EffectiveCardValue is the exported single-card valuation used by the
// presentation layer.
func EffectiveCardValue(st *GameState, cardID string) int {
	ref, c, ok := st.findOnBoard(cardID)
	if !ok {
		return 0
	}
	return effectiveValue(st, c, ref.Owner, ref.Lane, collectModifiers(st))
}

// LaneTotal recomputes one lane total from scratch, bypassing the cache.
func LaneTotal(st *GameState, seat Seat, lane int) int {
	return laneValue(st, seat, lane, collectModifiers(st))
}
