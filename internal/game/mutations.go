package game

import "fmt"

// Board mutation primitives. Every helper here leaves the lane-value cache
// fresh and fires the structural triggers the mutation implies.

// placeOnLane puts a card on top of a lane stack. The previously uncovered
// card, if face-up, gets its on_cover effects run.
func (e *Engine) placeOnLane(st *GameState, seat Seat, lane int, card *Card, faceUp bool) {
	covered := st.Players[seat].uncovered(lane)
	card.FaceUp = faceUp
	st.Players[seat].Lanes[lane] = append(st.Players[seat].Lanes[lane], card)
	recalculateAllLaneValues(st)
	if covered != nil && covered.FaceUp {
		e.runCardTrigger(st, covered.ID, TriggerOnCover)
	}
}

// flipCard toggles or forces a card's orientation.
func (e *Engine) flipCard(st *GameState, ref cardRef, directed, faceDown bool) {
	c := st.Players[ref.Owner].Lanes[ref.Lane][ref.Index]
	if directed {
		c.FaceUp = !faceDown
	} else {
		c.FaceUp = !c.FaceUp
	}
	st.Players[ref.Owner].Stats.CardsFlipped++
	st.Ctx.LastTargetCardID = c.ID
	orientation := "face-down"
	if c.FaceUp {
		orientation = "face-up"
	}
	st.addLog(ref.Owner, fmt.Sprintf("A card in lane %d was flipped %s.", ref.Lane+1, orientation))
	recalculateAllLaneValues(st)
}

// deleteCards moves the given board cards, anonymized, to their owners'
// discard piles and fires after-delete reactions once for the batch.
func (e *Engine) deleteCards(st *GameState, actor Seat, ids []string) int {
	deleted := 0
	for _, id := range ids {
		ref, c, ok := st.findOnBoard(id)
		if !ok {
			continue
		}
		st.removeFromBoard(ref)
		st.Players[ref.Owner].toDiscard(c)
		st.Players[actor].Stats.CardsDeleted++
		st.addLog(actor, fmt.Sprintf("Deleted a card from %s's lane %d.", ref.Owner, ref.Lane+1))
		deleted++
	}
	if deleted > 0 {
		recalculateAllLaneValues(st)
		e.fireReactive(st, TriggerAfterDelete, actor)
	}
	return deleted
}

// returnCards sends board cards back to their owners' hands. Identity is
// kept; orientation is not meaningful in hand.
func (e *Engine) returnCards(st *GameState, actor Seat, ids []string) int {
	returned := 0
	for _, id := range ids {
		ref, c, ok := st.findOnBoard(id)
		if !ok {
			continue
		}
		st.removeFromBoard(ref)
		c.FaceUp = false
		st.Players[ref.Owner].Hand = append(st.Players[ref.Owner].Hand, c)
		st.addLog(actor, fmt.Sprintf("Returned a card from lane %d to %s's hand.", ref.Lane+1, ref.Owner))
		returned++
	}
	if returned > 0 {
		recalculateAllLaneValues(st)
	}
	return returned
}

// discardHandCards anonymizes the given hand cards into the owner's discard
// pile, records the count for discard-chained effects, and fires
// after-discard reactions.
func (e *Engine) discardHandCards(st *GameState, owner Seat, ids []string) int {
	ps := st.Players[owner]
	discarded := 0
	for _, id := range ids {
		i, c, ok := ps.findInHand(id)
		if !ok {
			continue
		}
		ps.removeFromHand(i)
		ps.toDiscard(c)
		ps.Stats.CardsDiscarded++
		discarded++
	}
	if discarded > 0 {
		st.Ctx.DiscardedCount = discarded
		st.addLog(owner, fmt.Sprintf("%s discarded %d card(s).", owner, discarded))
		recalculateAllLaneValues(st)
		e.fireReactive(st, TriggerAfterDiscard, owner)
	}
	return discarded
}

// moveCard shifts a board card to another lane on the same side.
func (e *Engine) moveCard(st *GameState, id string, destLane int) bool {
	ref, c, ok := st.findOnBoard(id)
	if !ok || destLane == ref.Lane || destLane < 0 || destLane >= LaneCount {
		return false
	}
	st.removeFromBoard(ref)
	st.addLog(ref.Owner, fmt.Sprintf("Shifted a card from lane %d to lane %d.", ref.Lane+1, destLane+1))
	e.placeOnLane(st, ref.Owner, destLane, c, c.FaceUp)
	return true
}

// drawCards moves up to n cards from the seat's deck to its hand, recycling
// the discard pile into a fresh shuffled deck when the deck runs dry.
func (e *Engine) drawCards(st *GameState, seat Seat, n int) int {
	ps := st.Players[seat]
	drawn := 0
	for i := 0; i < n; i++ {
		if len(ps.Deck) == 0 {
			e.recycleDiscard(st, seat)
		}
		if len(ps.Deck) == 0 {
			break
		}
		c := ps.Deck[0]
		ps.Deck = ps.Deck[1:]
		ps.Hand = append(ps.Hand, c)
		ps.Stats.CardsDrawn++
		drawn++
	}
	if drawn > 0 {
		recalculateAllLaneValues(st)
		e.fireReactive(st, TriggerAfterDraw, seat)
	}
	return drawn
}

// recycleDiscard rebuilds the seat's deck from its discard pile. Discarded
// cards are anonymous, so each gets a fresh id and its ability set looked up
// from the card library.
func (e *Engine) recycleDiscard(st *GameState, seat Seat) {
	ps := st.Players[seat]
	if len(ps.Discard) == 0 {
		return
	}
	for _, dc := range ps.Discard {
		ps.Deck = append(ps.Deck, e.newCard(dc.Protocol, dc.Value))
	}
	ps.Discard = nil
	e.rng.Shuffle(len(ps.Deck), func(i, j int) {
		ps.Deck[i], ps.Deck[j] = ps.Deck[j], ps.Deck[i]
	})
	st.addLog(seat, fmt.Sprintf("%s shuffled the discard pile into a new deck.", seat))
}

// fireReactive runs every live reactive ability listening for the given
// trigger after acted's action. Cards watch the opposing seat's actions
// unless their effect names its own side as the actor. The first reaction
// needing a choice becomes the pending action — interrupting the turn if the
// reacting card belongs to the non-active player — and later ones queue.
func (e *Engine) fireReactive(st *GameState, trig Trigger, acted Seat) {
	type hit struct {
		cardID string
		owner  Seat
		def    EffectDefinition
	}
	var hits []hit
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		ps := st.Players[seat]
		for lane := 0; lane < LaneCount; lane++ {
			for i, c := range ps.Lanes[lane] {
				if !c.FaceUp || c.Ability == nil {
					continue
				}
				uncovered := i == len(ps.Lanes[lane])-1
				for _, def := range c.Ability.allEffects() {
					if def.Trigger != trig {
						continue
					}
					if def.Position != PositionTop && !uncovered {
						continue
					}
					watched := seat.Other()
					if def.Params.Actor == OwnerSelf {
						watched = seat
					}
					if acted != watched {
						continue
					}
					hits = append(hits, hit{cardID: c.ID, owner: seat, def: def})
				}
			}
		}
	}
	for _, h := range hits {
		if st.ActionRequired != nil {
			st.pushBack(QueuedAction{SourceID: h.cardID, Effect: h.def})
			continue
		}
		e.execute(st, h.cardID, h.def)
		if st.ActionRequired != nil && st.ActionRequired.Actor() != st.Turn {
			e.beginInterrupt(st)
		}
	}
}

// beginInterrupt suspends the active player's turn so the pending action's
// actor can resolve it through normal channels.
func (e *Engine) beginInterrupt(st *GameState) {
	if st.InterruptedTurn != nil || st.ActionRequired == nil {
		return
	}
	turn, phase := st.Turn, st.Phase
	st.InterruptedTurn = &turn
	st.InterruptedPhase = &phase
	st.Turn = st.ActionRequired.Actor()
}
