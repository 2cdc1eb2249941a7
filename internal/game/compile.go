package game

import "fmt"

// CompilableLanes lists the lanes the seat could compile right now: lane
// value at or above the threshold and strictly above the opposing value,
// unless a block-compile effect is in force against the seat.
func (e *Engine) CompilableLanes(st *GameState, seat Seat) []int {
	if st.Players[seat].CannotCompile {
		return nil
	}
	var lanes []int
	other := seat.Other()
	for lane := 0; lane < LaneCount; lane++ {
		v := st.Players[seat].LaneValues[lane]
		if v >= CompileThreshold && v > st.Players[other].LaneValues[lane] {
			lanes = append(lanes, lane)
		}
	}
	return lanes
}

// compileLane begins the active player's compile of a lane. With the control
// mechanic on and the marker held by the active player, the compile pauses
// for an optional rearrangement of either side's protocols first; the lane
// choice is kept and resumed when the rearrangement lands.
func (e *Engine) compileLane(st *GameState, lane int) {
	valid := false
	for _, l := range e.CompilableLanes(st, st.Turn) {
		if l == lane {
			valid = true
			break
		}
	}
	if !valid {
		st.addSystemLog("Compile rejected: lane is not compilable.")
		return
	}
	if st.UseControl && st.Control != nil && *st.Control == st.Turn {
		pending := lane
		st.Control = nil
		st.ActionRequired = &RearrangeRequired{
			pendingBase:        pendingBase{Seat: st.Turn},
			Target:             st.Turn,
			AnyTarget:          true,
			PendingCompileLane: &pending,
		}
		return
	}
	e.doCompile(st, lane)
	e.settleBoard(st)
}

// doCompile resolves the compile itself: last-word triggers, clearing the
// lane on both sides, marking the protocol compiled, and the aftermath.
// Cards with a live compile-shift ability escape deletion and instead pick a
// neighboring lane to move to. When a last-word reaction needs a choice, the
// partition is put on hold and resumes from settleBoard once it settles.
func (e *Engine) doCompile(st *GameState, lane int) {
	active := st.Turn
	other := active.Other()

	// Cards about to be deleted get their last word first.
	for _, seat := range [2]Seat{active, other} {
		ps := st.Players[seat]
		stack := append([]*Card(nil), ps.Lanes[lane]...)
		for i, c := range stack {
			if !c.FaceUp || c.Ability == nil {
				continue
			}
			uncovered := i == len(stack)-1
			for _, def := range c.Ability.allEffects() {
				if def.Trigger != TriggerBeforeCompileDelete {
					continue
				}
				if def.Position != PositionTop && !uncovered {
					continue
				}
				if st.ActionRequired != nil {
					st.pushBack(QueuedAction{SourceID: c.ID, Effect: def})
					continue
				}
				e.execute(st, c.ID, def)
				if st.ActionRequired != nil && st.ActionRequired.Actor() != st.Turn {
					e.beginInterrupt(st)
				}
			}
		}
	}
	if st.ActionRequired != nil || len(st.Queued) > 0 {
		l := lane
		st.PendingCompileLane = &l
		return
	}
	e.finishCompile(st, lane)
}

// finishCompile partitions the compiled lane after every last-word reaction
// has resolved.
func (e *Engine) finishCompile(st *GameState, lane int) {
	active := st.Turn
	other := active.Other()

	// Clear the lane. Compile deletions are anonymized like any other but do
	// not count toward either player's delete stats. Survivors with a live
	// compile-shift ability stay on the board and relocate below.
	type survivor struct {
		cardID string
		owner  Seat
	}
	var survivors []survivor
	deletedAny := false
	for _, seat := range [2]Seat{active, other} {
		ps := st.Players[seat]
		stack := ps.Lanes[lane]
		var kept []*Card
		for i, c := range stack {
			if c.FaceUp && hasCompileShift(c, i == len(stack)-1) {
				kept = append(kept, c)
				survivors = append(survivors, survivor{cardID: c.ID, owner: seat})
				continue
			}
			ps.toDiscard(c)
			deletedAny = true
		}
		ps.Lanes[lane] = kept
	}

	wasCompiled := st.Players[active].Compiled[lane]
	st.Players[active].Compiled[lane] = true
	st.Players[active].Stats.LanesCompiled++
	st.addLog(active, fmt.Sprintf("%s compiled %s.", active, st.Players[active].Protocols[lane]))

	if wasCompiled {
		// Re-compiling an already-compiled protocol grants the top card of
		// the opponent's deck instead of a new compile marker.
		opp := st.Players[other]
		if len(opp.Deck) == 0 {
			e.recycleDiscard(st, other)
		}
		if len(opp.Deck) > 0 {
			c := opp.Deck[0]
			opp.Deck = opp.Deck[1:]
			st.Players[active].Hand = append(st.Players[active].Hand, c)
			st.addLog(active, fmt.Sprintf("%s claimed the top card of %s's deck.", active, other))
		}
	}

	recalculateAllLaneValues(st)

	if st.Players[active].compiledCount() == LaneCount {
		w := active
		st.Winner = &w
		st.addSystemLog(fmt.Sprintf("%s wins: all three protocols compiled.", active))
		return
	}
	// Compiling was the turn's move.
	st.Phase = PhaseHandLimit

	if deletedAny {
		e.fireReactive(st, TriggerAfterDelete, active)
	}
	e.fireCompileTriggers(st, active)

	// Survivors pick their destination lanes. The first open choice becomes
	// the pending action; the rest wait in the queue. A surviving card of the
	// non-active player interrupts the turn for its owner's choice.
	for _, s := range survivors {
		if st.ActionRequired != nil {
			st.pushBack(QueuedAction{SourceID: s.cardID, Effect: selfShiftDef()})
			continue
		}
		st.ActionRequired = &SelectLaneRequired{
			pendingBase:  pendingBase{SourceID: s.cardID, Seat: s.owner},
			Def:          selfShiftDef(),
			CardID:       s.cardID,
			CardOwner:    s.owner,
			AllowedLanes: shiftDestinations(lane),
		}
		if s.owner != st.Turn {
			e.beginInterrupt(st)
		}
	}
}

// selfShiftDef is the synthesized effect a compile survivor resolves: shift
// this card to an adjacent lane.
func selfShiftDef() EffectDefinition {
	return EffectDefinition{
		Kind:   KindShift,
		Params: EffectParams{SelfTarget: true},
	}
}

func hasCompileShift(c *Card, uncovered bool) bool {
	if c.Ability == nil {
		return false
	}
	for _, def := range c.Ability.allEffects() {
		if def.Kind != KindCompileShift {
			continue
		}
		if def.Position != PositionTop && !uncovered {
			continue
		}
		return true
	}
	return false
}

// fireCompileTriggers runs after-compile reactions: the compiler's own cards
// listening for their side's compile, and the opponent's cards listening for
// an enemy compile.
func (e *Engine) fireCompileTriggers(st *GameState, compiler Seat) {
	type hit struct {
		cardID string
		owner  Seat
		def    EffectDefinition
	}
	var hits []hit
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		trig := TriggerAfterCompile
		if seat != compiler {
			trig = TriggerAfterOpponentCompile
		}
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
