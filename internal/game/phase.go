package game

import (
	"fmt"

	"go.uber.org/zap"
)

// Phase is the step of the active player's turn currently being processed.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseControl
	PhaseCompile
	PhaseAction
	PhaseHandLimit
	PhaseEnd
)

var phaseNames = map[Phase]string{
	PhaseStart:     "START",
	PhaseControl:   "CONTROL",
	PhaseCompile:   "COMPILE",
	PhaseAction:    "ACTION",
	PhaseHandLimit: "HAND_LIMIT",
	PhaseEnd:       "END",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// maxPhaseSteps bounds a single progression call. A well-formed game never
// comes close; hitting it means the machine is wedged and we stop rather
// than spin.
const maxPhaseSteps = 64

// AdvanceAutomatically drives the turn forward through every step that needs
// no player input and returns the new state. It stops at the action phase
// (the player must move), at a compilable compile phase (compiling is
// mandatory), at any pending action, and when the game is won.
func (e *Engine) AdvanceAutomatically(state *GameState) *GameState {
	st := state.Clone()
	e.continueTurn(st)
	return st
}

func (e *Engine) continueTurn(st *GameState) {
	for steps := 0; steps < maxPhaseSteps; steps++ {
		if st.Winner != nil || st.ActionRequired != nil {
			return
		}
		before, beforeTurn := st.Phase, st.Turn

		switch st.Phase {
		case PhaseStart:
			e.runTurnTriggers(st, TriggerStartOfTurn)
			if st.ActionRequired != nil {
				return
			}
			st.Phase = PhaseControl
		case PhaseControl:
			e.applyControl(st)
			st.Phase = PhaseCompile
		case PhaseCompile:
			if len(e.CompilableLanes(st, st.Turn)) > 0 {
				// Compiling is mandatory; the caller must pick a lane.
				return
			}
			st.Phase = PhaseAction
		case PhaseAction:
			return
		case PhaseHandLimit:
			excess := len(st.Players[st.Turn].Hand) - HandLimit
			if excess > 0 && !e.handLimitExempt(st, st.Turn) {
				st.ActionRequired = &DiscardToLimitRequired{
					pendingBase: pendingBase{Seat: st.Turn},
					Count:       excess,
				}
				return
			}
			st.Phase = PhaseEnd
		case PhaseEnd:
			e.runTurnTriggers(st, TriggerEndOfTurn)
			if st.ActionRequired != nil {
				return
			}
			e.drainQueue(st)
			if st.ActionRequired != nil {
				return
			}
			e.endTurn(st)
		}

		if st.Phase == before && st.Turn == beforeTurn &&
			st.ActionRequired == nil && st.Winner == nil &&
			st.Phase != PhaseAction && st.Phase != PhaseCompile {
			e.log.Error("turn progression stalled",
				zap.String("phase", st.Phase.String()),
				zap.String("turn", st.Turn.String()))
			st.addSystemLog("Engine halted: turn progression stalled.")
			return
		}
	}
	e.log.Error("turn progression exceeded step bound",
		zap.Int("steps", maxPhaseSteps))
	st.addSystemLog("Engine halted: turn progression did not converge.")
}

// runTurnTriggers fires the active player's start- or end-of-turn abilities.
// Each live effect fires at most once per phase, keyed by card id and box
// slot, so a turn re-entered after an interrupt does not double-fire.
func (e *Engine) runTurnTriggers(st *GameState, trig Trigger) {
	processed := st.Ctx.ProcessedStart
	if trig == TriggerEndOfTurn {
		processed = st.Ctx.ProcessedEnd
	}
	if processed == nil {
		processed = make(map[string]bool)
		if trig == TriggerEndOfTurn {
			st.Ctx.ProcessedEnd = processed
		} else {
			st.Ctx.ProcessedStart = processed
		}
	}

	type hit struct {
		key    string
		cardID string
		def    EffectDefinition
	}
	var hits []hit
	ps := st.Players[st.Turn]
	for lane := 0; lane < LaneCount; lane++ {
		for i, c := range ps.Lanes[lane] {
			if !c.FaceUp || c.Ability == nil {
				continue
			}
			uncovered := i == len(ps.Lanes[lane])-1
			for idx, def := range c.Ability.allEffects() {
				if def.Trigger != trig {
					continue
				}
				if def.Position != PositionTop && !uncovered {
					continue
				}
				hits = append(hits, hit{
					key:    fmt.Sprintf("%s#%d", c.ID, idx),
					cardID: c.ID,
					def:    def,
				})
			}
		}
	}
	for _, h := range hits {
		if processed[h.key] {
			continue
		}
		processed[h.key] = true
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

// applyControl reassigns the control marker to whichever seat leads in lane
// value on at least two of the three lanes. A tie on a lane counts for
// neither side; with no majority the marker stays where it is.
func (e *Engine) applyControl(st *GameState) {
	if !st.UseControl {
		return
	}
	leads := [2]int{}
	for lane := 0; lane < LaneCount; lane++ {
		v1 := st.Players[SeatOne].LaneValues[lane]
		v2 := st.Players[SeatTwo].LaneValues[lane]
		if v1 > v2 {
			leads[SeatOne]++
		} else if v2 > v1 {
			leads[SeatTwo]++
		}
	}
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		if leads[seat] >= 2 && (st.Control == nil || *st.Control != seat) {
			s := seat
			st.Control = &s
			st.addSystemLog(fmt.Sprintf("%s took control.", seat))
		}
	}
}

// handLimitExempt reports whether a live ability frees the seat from the
// hand-limit discard this turn.
func (e *Engine) handLimitExempt(st *GameState, seat Seat) bool {
	ps := st.Players[seat]
	for lane := 0; lane < LaneCount; lane++ {
		for i, c := range ps.Lanes[lane] {
			if !c.FaceUp || c.Ability == nil {
				continue
			}
			uncovered := i == len(ps.Lanes[lane])-1
			for _, def := range c.Ability.allEffects() {
				if def.Kind != KindExemptHandLimit {
					continue
				}
				if def.Position != PositionTop && !uncovered {
					continue
				}
				return true
			}
		}
	}
	return false
}

// endTurn hands the turn to the other seat. The compile block placed on the
// ending player expires now; per-turn scratch data is reset.
func (e *Engine) endTurn(st *GameState) {
	st.Players[st.Turn].CannotCompile = false
	st.Turn = st.Turn.Other()
	st.Phase = PhaseStart
	st.Ctx = EffectContext{}
	st.addSystemLog(fmt.Sprintf("%s's turn.", st.Turn))
}
