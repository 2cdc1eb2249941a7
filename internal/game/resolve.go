package game

import "fmt"

// Per-variant resolvers for pending actions. Each validates the supplied
// choice against the live ActionRequired; a resolver invoked against a
// mismatched or invalid pending action leaves the state untouched.

// validSelection checks a card choice against the prompt's constraints.
func validSelection(ids, candidates []string, count int, upTo bool) bool {
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return false
		}
		seen[id] = true
		found := false
		for _, c := range candidates {
			if c == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if upTo {
		return len(ids) <= count
	}
	want := count
	if len(candidates) < want {
		want = len(candidates)
	}
	return len(ids) == want
}

func (e *Engine) resolveSelectCards(st *GameState, ids []string) {
	p, ok := st.ActionRequired.(*SelectCardsRequired)
	if !ok {
		return
	}
	if !validSelection(ids, p.Candidates, p.Count, p.UpTo) {
		return
	}
	st.ActionRequired = nil
	executed := len(ids) > 0

	switch p.Def.Kind {
	case KindFlip, KindDelete, KindReturn, KindReveal:
		e.applyKindTo(st, p.Seat, p.Def, ids)
	case KindDiscard:
		e.discardHandCards(st, p.HandOwner, ids)
	case KindGive:
		if len(ids) == 1 {
			e.giveCard(st, p.HandOwner, ids[0])
		}
	case KindShift:
		if len(ids) == 1 {
			res := e.promptShiftDestination(st, p.SourceID, p.Seat, ids[0], p.Def)
			if res.pending && st.ActionRequired != nil {
				if p.Follow != nil && !st.ActionRequired.attachFollowUp(p.Follow) {
					st.queueFollowUp(p.Follow)
				}
				attachWorklist(st.ActionRequired, p.Lanes)
				return
			}
			executed = false
		}
	case KindPlay:
		if len(ids) == 1 {
			lanes := e.playDestinations(st, p.SourceID, p.Def)
			st.ActionRequired = &SelectLaneRequired{
				pendingBase:  pendingBase{SourceID: p.SourceID, Seat: p.Seat, Follow: p.Follow},
				Def:          p.Def,
				CardID:       ids[0],
				CardOwner:    p.HandOwner,
				AllowedLanes: lanes,
				FaceDown:     p.Def.Params.FaceDown,
				Lanes:        p.Lanes,
			}
			return
		}
	}
	e.finishPending(st, p.SourceID, p.Def, p.Lanes, p.Follow, executed)
}

// playDestinations re-resolves the lane set a play effect allows, relative
// to the source card's current position.
func (e *Engine) playDestinations(st *GameState, sourceID string, def EffectDefinition) []int {
	sourceLane := -1
	if ref, _, ok := st.findOnBoard(sourceID); ok {
		sourceLane = ref.Lane
	}
	return allowedLanes(def.Params.Scope, sourceLane)
}

func (e *Engine) resolveSelectLane(st *GameState, lane int) {
	p, ok := st.ActionRequired.(*SelectLaneRequired)
	if !ok {
		return
	}
	allowed := false
	for _, l := range p.AllowedLanes {
		if l == lane {
			allowed = true
			break
		}
	}
	if !allowed {
		return
	}
	st.ActionRequired = nil
	executed := false

	switch p.Def.Kind {
	case KindShift:
		executed = e.moveCard(st, p.CardID, lane)
	case KindPlay:
		var c *Card
		ps := st.Players[p.CardOwner]
		if p.FromDeck {
			if len(ps.Deck) > 0 {
				c = ps.Deck[0]
				ps.Deck = ps.Deck[1:]
			}
		} else if i, cc, ok := ps.findInHand(p.CardID); ok {
			_ = cc
			c = ps.removeFromHand(i)
		}
		if c != nil {
			e.placeOnLane(st, p.CardOwner, lane, c, !p.FaceDown)
			ps.Stats.CardsPlayed++
			st.addLog(p.CardOwner, fmt.Sprintf("%s played a card into lane %d.", p.CardOwner, lane+1))
			if c.FaceUp {
				if st.ActionRequired != nil {
					st.QueuedOnPlay = &QueuedOnPlay{CardID: c.ID, Owner: p.CardOwner, Lane: lane}
				} else {
					e.runCardTrigger(st, c.ID, TriggerOnPlay)
				}
			}
			executed = true
		}
	case KindDeleteAllInLane:
		if ref, card, ok := st.findOnBoard(p.SourceID); ok {
			ids := laneWideTargets(st, card, ref.Owner, lane, p.Def.Params.Target)
			if len(ids) > 0 {
				st.addLog(p.Seat, fmt.Sprintf("All qualifying cards in lane %d were deleted.", lane+1))
				e.deleteCards(st, p.Seat, ids)
				executed = true
			}
		}
	}
	e.finishPending(st, p.SourceID, p.Def, p.Lanes, p.Follow, executed)
}

func (e *Engine) resolveConfirm(st *GameState, yes bool) {
	p, ok := st.ActionRequired.(*ConfirmRequired)
	if !ok {
		return
	}
	st.ActionRequired = nil
	if !yes {
		st.addLog(p.Seat, fmt.Sprintf("%s declined an optional effect.", p.Seat))
		e.settle(st, p.Follow, false)
		return
	}
	res := e.execute(st, p.SourceID, p.Effect)
	e.settle(st, p.Follow, res.executed || res.pending)
}

func (e *Engine) resolveBranch(st *GameState, idx int) {
	p, ok := st.ActionRequired.(*BranchRequired)
	if !ok || idx < 0 || idx > 1 {
		return
	}
	st.ActionRequired = nil
	res := e.execute(st, p.SourceID, p.Options[idx])
	e.settle(st, p.Follow, res.executed || res.pending)
}

func (e *Engine) resolveNumber(st *GameState, n int) {
	p, ok := st.ActionRequired.(*NumberRequired)
	if !ok || n < 0 || n > 5 {
		return
	}
	st.ActionRequired = nil
	def := p.Effect
	def.Params.Target.Selector = SelectEquals
	def.Params.Target.Value = n
	st.addLog(p.Seat, fmt.Sprintf("%s named the value %d.", p.Seat, n))
	res := e.execute(st, p.SourceID, def)
	e.settle(st, p.Follow, res.executed || res.pending)
}

func (e *Engine) resolveProtocol(st *GameState, name string) {
	p, ok := st.ActionRequired.(*ProtocolRequired)
	if !ok || name == "" {
		return
	}
	st.ActionRequired = nil
	def := p.Effect
	def.Params.Target.Protocol = name
	st.addLog(p.Seat, fmt.Sprintf("%s named the protocol %s.", p.Seat, name))
	res := e.execute(st, p.SourceID, def)
	e.settle(st, p.Follow, res.executed || res.pending)
}

func isPermutation(order [LaneCount]int) bool {
	var seen [LaneCount]bool
	for _, i := range order {
		if i < 0 || i >= LaneCount || seen[i] {
			return false
		}
		seen[i] = true
	}
	return true
}

func (e *Engine) resolveRearrange(st *GameState, target Seat, order [LaneCount]int) {
	p, ok := st.ActionRequired.(*RearrangeRequired)
	if !ok || !isPermutation(order) {
		return
	}
	if !p.AnyTarget && target != p.Target {
		return
	}
	st.ActionRequired = nil
	ps := st.Players[target]
	var protocols [LaneCount]string
	var compiled [LaneCount]bool
	for lane, from := range order {
		protocols[lane] = ps.Protocols[from]
		compiled[lane] = ps.Compiled[from]
	}
	ps.Protocols = protocols
	ps.Compiled = compiled
	recalculateAllLaneValues(st)
	st.addLog(p.Seat, fmt.Sprintf("%s rearranged %s's protocols.", p.Seat, target))
	if p.PendingCompileLane != nil {
		e.doCompile(st, *p.PendingCompileLane)
	}
	e.settle(st, p.Follow, true)
}

func (e *Engine) resolveSwap(st *GameState, i, j int) {
	p, ok := st.ActionRequired.(*SwapRequired)
	if !ok || i < 0 || j < 0 || i >= LaneCount || j >= LaneCount || i == j {
		return
	}
	st.ActionRequired = nil
	ps := st.Players[p.Target]
	ps.Protocols[i], ps.Protocols[j] = ps.Protocols[j], ps.Protocols[i]
	ps.Compiled[i], ps.Compiled[j] = ps.Compiled[j], ps.Compiled[i]
	recalculateAllLaneValues(st)
	st.addLog(p.Seat, fmt.Sprintf("%s swapped two of %s's protocols.", p.Seat, p.Target))
	e.settle(st, p.Follow, true)
}

func (e *Engine) resolveDiscardToLimit(st *GameState, ids []string) {
	p, ok := st.ActionRequired.(*DiscardToLimitRequired)
	if !ok || len(ids) != p.Count {
		return
	}
	for _, id := range ids {
		if _, _, found := st.Players[p.Seat].findInHand(id); !found {
			return
		}
	}
	st.ActionRequired = nil
	e.discardHandCards(st, p.Seat, ids)
	e.settle(st, nil, true)
}

// finishPending resumes an interrupted each-lane walk, then settles the
// board state: follow-ups, the on-play trigger still owed to a placed card,
// the queue, and any interrupted turn.
func (e *Engine) finishPending(st *GameState, sourceID string, def EffectDefinition, wl *LaneWorklist, fu *FollowUp, executed bool) {
	if wl != nil && len(wl.Remaining) > 0 && st.ActionRequired == nil {
		lanes := wl.Remaining
		for i, lane := range lanes {
			ref, card, ok := st.findOnBoard(sourceID)
			if !ok || !card.FaceUp {
				break
			}
			res := e.executeKind(st, ref, card, def, lane)
			executed = executed || res.executed
			if st.ActionRequired != nil {
				if res.pending {
					attachWorklist(st.ActionRequired, &LaneWorklist{
						Current:   lane,
						Remaining: append([]int(nil), lanes[i+1:]...),
					})
					if fu != nil && !st.ActionRequired.attachFollowUp(fu) {
						st.queueFollowUp(fu)
					}
					return
				}
				queueLaneSteps(st, sourceID, def, lanes[i+1:])
				break
			}
		}
	}
	e.settle(st, fu, executed)
}

// settle runs a carried follow-up under the inner-before-outer rule, then
// settles the board. A follow-up that cannot attach to the live pending
// action is queued rather than dropped.
func (e *Engine) settle(st *GameState, fu *FollowUp, executed bool) {
	if fu != nil {
		switch {
		case fu.Type == ConditionalIfExecuted && !executed:
			// Primary never executed; the chained effect stays dead.
		case st.ActionRequired != nil:
			if !(st.ActionRequired.Source() == fu.SourceCardID && st.ActionRequired.attachFollowUp(fu)) {
				st.queueFollowUp(fu)
			}
		default:
			e.execute(st, fu.SourceCardID, fu.Effect)
		}
	}
	e.settleBoard(st)
}

// settleBoard drives everything that happens automatically once a choice
// lands: the deferred on-play trigger, the action queue, restoration of an
// interrupted turn, and a compile whose lane partition was put on hold for
// last-word reactions. When the active player's move has fully resolved
// during the action phase, the turn moves on to the hand-limit phase.
func (e *Engine) settleBoard(st *GameState) {
	for {
		if st.ActionRequired != nil {
			return
		}
		if st.QueuedOnPlay != nil {
			q := *st.QueuedOnPlay
			st.QueuedOnPlay = nil
			e.runCardTrigger(st, q.CardID, TriggerOnPlay)
			continue
		}
		if len(st.Queued) > 0 {
			e.drainQueue(st)
			continue
		}
		if st.InterruptedTurn != nil {
			st.Turn = *st.InterruptedTurn
			st.Phase = *st.InterruptedPhase
			st.InterruptedTurn, st.InterruptedPhase = nil, nil
			continue
		}
		if st.PendingCompileLane != nil {
			lane := *st.PendingCompileLane
			st.PendingCompileLane = nil
			e.finishCompile(st, lane)
			continue
		}
		break
	}
	if st.Phase == PhaseAction && st.Winner == nil {
		st.Phase = PhaseHandLimit
	}
}
