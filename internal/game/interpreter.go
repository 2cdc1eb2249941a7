package game

import (
	"fmt"

	"go.uber.org/zap"
)

// execResult reports what one effect invocation did. executed means state was
// actually mutated by the effect itself; pending means a player choice is now
// awaited.
type execResult struct {
	executed bool
	pending  bool
}

// execute runs one declarative effect for the given source card against the
// current board. Ability resolution is asynchronous with respect to player
// choices, so by the time a deferred or chained effect runs its source card
// may have been deleted, flipped or covered; the guards at the top turn all
// of those into logged no-ops.
func (e *Engine) execute(st *GameState, sourceID string, def EffectDefinition) execResult {
	return e.executeScoped(st, sourceID, def, -1)
}

func (e *Engine) executeScoped(st *GameState, sourceID string, def EffectDefinition, restrictLane int) execResult {
	st.Ctx.SkippedNoTargets = false

	ref, card, ok := st.findOnBoard(sourceID)
	if !ok {
		st.addSystemLog("An effect fizzled: its source card is no longer on the board.")
		return execResult{}
	}
	if !card.FaceUp {
		return execResult{}
	}
	if def.Position != PositionTop && def.Trigger != TriggerOnCover && !st.isUncovered(ref) {
		return execResult{}
	}

	switch def.Kind {
	case KindValueModifier, KindExemptHandLimit, KindCompileShift:
		// Passive kinds are read declaratively, never executed.
		return execResult{}
	}

	// Prompts that must precede target resolution: state a number or a
	// protocol, then re-resolve with the filter bound.
	if def.Params.AskValue {
		wrapped := def
		wrapped.Params.AskValue = false
		st.ActionRequired = &NumberRequired{
			pendingBase: pendingBase{SourceID: sourceID, Seat: actorSeat(ref.Owner, def.Params.Actor)},
			Effect:      wrapped,
		}
		return execResult{pending: true}
	}
	if def.Params.AskProtocol {
		wrapped := def
		wrapped.Params.AskProtocol = false
		st.ActionRequired = &ProtocolRequired{
			pendingBase: pendingBase{SourceID: sourceID, Seat: actorSeat(ref.Owner, def.Params.Actor)},
			Effect:      wrapped,
		}
		return execResult{pending: true}
	}

	// Optional effects check for a legal target before prompting: the player
	// is never asked to decline a vacuous choice.
	if def.Params.Optional {
		inner := def
		inner.Params.Optional = false
		if !e.hasAnyTarget(st, ref, card, inner) {
			st.Ctx.SkippedNoTargets = true
			st.addLog(ref.Owner, "An optional effect had no legal targets and was skipped.")
			return e.afterPrimary(st, sourceID, def, execResult{})
		}
		st.ActionRequired = &ConfirmRequired{
			pendingBase: pendingBase{SourceID: sourceID, Seat: actorSeat(ref.Owner, def.Params.Actor)},
			Effect:      inner,
		}
		return execResult{pending: true}
	}

	if (def.Params.Scope == ScopeEachLane || def.Params.Scope == ScopeEachOtherLane) && restrictLane < 0 {
		return e.executeEachLane(st, sourceID, ref, def)
	}

	res := e.executeKind(st, ref, card, def, restrictLane)
	return e.afterPrimary(st, sourceID, def, res)
}

// executeEachLane runs the effect once per qualifying lane, in lane order. A
// lane that needs a choice halts the walk; the remaining lanes travel inside
// the pending action and resume after the choice resolves.
func (e *Engine) executeEachLane(st *GameState, sourceID string, ref cardRef, def EffectDefinition) execResult {
	var lanes []int
	for lane := 0; lane < LaneCount; lane++ {
		if def.Params.Scope == ScopeEachOtherLane && lane == ref.Lane {
			continue
		}
		lanes = append(lanes, lane)
	}
	executedAny := false
	for i, lane := range lanes {
		sub := def
		sub.Conditional = nil
		res := e.executeKind(st, ref, e.mustCard(st, sourceID), sub, lane)
		executedAny = executedAny || res.executed
		if st.ActionRequired != nil {
			if res.pending {
				wl := &LaneWorklist{Current: lane, Remaining: append([]int(nil), lanes[i+1:]...)}
				attachWorklist(st.ActionRequired, wl)
				return e.afterPrimary(st, sourceID, def, execResult{executed: executedAny, pending: true})
			}
			// A reaction elsewhere grabbed the pending slot mid-walk; the
			// remaining lanes queue as single-lane steps behind it.
			queueLaneSteps(st, sourceID, sub, lanes[i+1:])
			return e.afterPrimary(st, sourceID, def, execResult{executed: executedAny})
		}
		if _, c, ok := st.findOnBoard(sourceID); !ok || !c.FaceUp {
			break
		}
	}
	return e.afterPrimary(st, sourceID, def, execResult{executed: executedAny})
}

// mustCard re-fetches the source card mid-walk; callers have already
// validated presence this invocation.
func (e *Engine) mustCard(st *GameState, id string) *Card {
	_, c, _ := st.findOnBoard(id)
	return c
}

// queueLaneSteps defers the tail of an each-lane walk, front of queue in
// lane order, so the walk resumes right after the interjecting work settles.
func queueLaneSteps(st *GameState, sourceID string, def EffectDefinition, lanes []int) {
	for i := len(lanes) - 1; i >= 0; i-- {
		lane := lanes[i]
		st.pushFront(QueuedAction{SourceID: sourceID, Effect: def, Lane: &lane})
	}
}

func attachWorklist(ar ActionRequired, wl *LaneWorklist) {
	switch p := ar.(type) {
	case *SelectCardsRequired:
		p.Lanes = wl
	case *SelectLaneRequired:
		p.Lanes = wl
	}
}

// afterPrimary handles the conditional follow-up once the primary effect has
// done whatever it could. A pending primary carries the follow-up with it —
// attached if the pending action belongs to the same card, queued otherwise
// so an interrupting reactive ability cannot lose it. An immediate primary
// runs the follow-up now, unless it is if_executed and the primary was
// skipped for lack of targets.
func (e *Engine) afterPrimary(st *GameState, sourceID string, def EffectDefinition, res execResult) execResult {
	if def.Conditional == nil || def.Conditional.Effect == nil {
		return res
	}
	next := *def.Conditional.Effect
	if next.Position == "" {
		next.Position = def.Position
	}
	fu := &FollowUp{SourceCardID: sourceID, Effect: next, Type: def.Conditional.Type}
	if st.ActionRequired != nil {
		if st.ActionRequired.Source() == sourceID && st.ActionRequired.attachFollowUp(fu) {
			return res
		}
		// Inner work resolves first; the outer follow-up waits in the queue.
		st.queueFollowUp(fu)
		return res
	}
	if def.Conditional.Type == ConditionalIfExecuted && !res.executed {
		return res
	}
	e.execute(st, sourceID, next)
	return res
}

// executeKind dispatches on the closed set of action kinds. An unknown kind
// is an authoring error: logged, skipped, never fatal.
func (e *Engine) executeKind(st *GameState, ref cardRef, card *Card, def EffectDefinition, restrictLane int) execResult {
	switch def.Kind {
	case KindDraw:
		return e.execDraw(st, ref, card, def)
	case KindFlip, KindDelete, KindReturn:
		return e.execBoardTargets(st, ref, card, def, restrictLane)
	case KindDiscard:
		return e.execDiscard(st, ref, card, def)
	case KindShift:
		return e.execShift(st, ref, card, def, restrictLane)
	case KindPlay:
		return e.execPlay(st, ref, card, def)
	case KindReveal:
		return e.execReveal(st, ref, card, def, restrictLane)
	case KindGive:
		return e.execGive(st, ref, card, def)
	case KindTake:
		return e.execTake(st, ref, card, def)
	case KindChoice:
		return e.execChoice(st, ref, card, def)
	case KindBlockCompile:
		return e.execBlockCompile(st, ref, def)
	case KindDeleteAllInLane:
		return e.execDeleteAllInLane(st, ref, card, def, restrictLane)
	case KindRearrangeProtocols:
		return e.execRearrange(st, ref, card, def)
	case KindSwapProtocols:
		return e.execSwap(st, ref, card, def)
	default:
		e.log.Error("unknown effect kind in ability definition",
			zap.String("kind", string(def.Kind)),
			zap.String("source", card.ID))
		st.addSystemLog("An unknown ability effect was skipped.")
		return execResult{}
	}
}

func (e *Engine) execDraw(st *GameState, ref cardRef, card *Card, def EffectDefinition) execResult {
	actor := actorSeat(ref.Owner, def.Params.Actor)
	n := resolveCount(st, card, ref.Owner, def.Params)
	if n <= 0 {
		return e.skipNoTargets(st, ref.Owner)
	}
	drawn := e.drawCards(st, actor, n)
	if drawn == 0 {
		return e.skipNoTargets(st, actor)
	}
	if drawn < n {
		st.addLog(actor, fmt.Sprintf("Only %d of %d card(s) could be drawn.", drawn, n))
	} else {
		st.addLog(actor, fmt.Sprintf("%s drew %d card(s).", actor, drawn))
	}
	return execResult{executed: true}
}

// execBoardTargets covers flip, delete and return: the kinds whose targets
// are board cards and whose application is a single per-card mutation.
func (e *Engine) execBoardTargets(st *GameState, ref cardRef, card *Card, def EffectDefinition, restrictLane int) execResult {
	actor := actorSeat(ref.Owner, def.Params.Actor)

	if def.Params.SelfTarget {
		e.applyKindTo(st, actor, def, []string{card.ID})
		return execResult{executed: true}
	}
	if def.Params.UsePrevTarget {
		id := st.Ctx.LastTargetCardID
		st.Ctx.LastTargetCardID = ""
		if id == "" {
			return e.skipNoTargets(st, ref.Owner)
		}
		if _, _, ok := st.findOnBoard(id); !ok {
			st.addLog(ref.Owner, "The previously chosen card is gone; the effect was skipped.")
			st.Ctx.SkippedNoTargets = true
			return execResult{}
		}
		e.applyKindTo(st, actor, def, []string{id})
		return execResult{executed: true}
	}

	cands := boardCandidates(st, card, ref.Owner, ref.Lane, def.Params.Target, def.Params.Scope, restrictLane)
	if len(cands) == 0 {
		return e.skipNoTargets(st, ref.Owner)
	}
	n := resolveCount(st, card, ref.Owner, def.Params)
	if def.Params.CountMode == CountAll {
		e.applyKindTo(st, actor, def, cands)
		return execResult{executed: true}
	}
	if n <= 0 {
		return e.skipNoTargets(st, ref.Owner)
	}
	if def.Params.Auto {
		e.applyKindTo(st, actor, def, cands[:min(n, len(cands))])
		return execResult{executed: true}
	}
	if def.Params.Random {
		e.applyKindTo(st, actor, def, e.pickRandom(cands, n))
		return execResult{executed: true}
	}
	upTo := def.Params.CountMode == CountUpTo
	if !upTo && len(cands) <= n {
		e.applyKindTo(st, actor, def, cands)
		return execResult{executed: true}
	}
	st.ActionRequired = &SelectCardsRequired{
		pendingBase: pendingBase{SourceID: card.ID, Seat: actor},
		Def:         stripConditional(def),
		Count:       n,
		UpTo:        upTo,
		Candidates:  cands,
	}
	return execResult{pending: true}
}

// applyKindTo applies a flip, delete or return to a resolved target set.
func (e *Engine) applyKindTo(st *GameState, actor Seat, def EffectDefinition, ids []string) {
	switch def.Kind {
	case KindFlip:
		for _, id := range ids {
			if ref, _, ok := st.findOnBoard(id); ok {
				e.flipCard(st, ref, def.Params.Directed, def.Params.FaceDown)
			}
		}
	case KindDelete:
		e.deleteCards(st, actor, ids)
	case KindReturn:
		e.returnCards(st, actor, ids)
	case KindReveal:
		for _, id := range ids {
			if ref, c, ok := st.findOnBoard(id); ok {
				st.addLog(actor, fmt.Sprintf("Revealed %s-%d in %s's lane %d.", c.Protocol, c.Value, ref.Owner, ref.Lane+1))
			}
		}
	}
}

func (e *Engine) execDiscard(st *GameState, ref cardRef, card *Card, def EffectDefinition) execResult {
	actor := actorSeat(ref.Owner, def.Params.Actor)
	hand := st.Players[actor].Hand
	if len(hand) == 0 {
		return e.skipNoTargets(st, actor)
	}
	n := resolveCount(st, card, ref.Owner, def.Params)
	if def.Params.CountMode == CountAll {
		n = len(hand)
	}
	if n <= 0 {
		return e.skipNoTargets(st, actor)
	}
	if n > len(hand) {
		st.addLog(actor, fmt.Sprintf("Only %d card(s) in hand; the discard was reduced.", len(hand)))
		n = len(hand)
	}
	ids := handCandidates(st, actor, card, def.Params.Target)
	if len(ids) == 0 {
		return e.skipNoTargets(st, actor)
	}
	if def.Params.Random {
		e.discardHandCards(st, actor, e.pickRandom(ids, n))
		return execResult{executed: true}
	}
	if n >= len(ids) && def.Params.CountMode != CountUpTo {
		e.discardHandCards(st, actor, ids)
		return execResult{executed: true}
	}
	st.ActionRequired = &SelectCardsRequired{
		pendingBase: pendingBase{SourceID: card.ID, Seat: actor},
		Def:         stripConditional(def),
		Count:       n,
		UpTo:        def.Params.CountMode == CountUpTo,
		Candidates:  ids,
		FromHand:    true,
		HandOwner:   actor,
	}
	return execResult{pending: true}
}

func (e *Engine) execShift(st *GameState, ref cardRef, card *Card, def EffectDefinition, restrictLane int) execResult {
	actor := actorSeat(ref.Owner, def.Params.Actor)

	var id string
	switch {
	case def.Params.SelfTarget:
		id = card.ID
	case def.Params.UsePrevTarget:
		id = st.Ctx.LastTargetCardID
		st.Ctx.LastTargetCardID = ""
		if id == "" {
			return e.skipNoTargets(st, ref.Owner)
		}
		if _, _, ok := st.findOnBoard(id); !ok {
			st.addLog(ref.Owner, "The previously chosen card is gone; the shift was skipped.")
			st.Ctx.SkippedNoTargets = true
			return execResult{}
		}
	default:
		cands := boardCandidates(st, card, ref.Owner, ref.Lane, def.Params.Target, def.Params.Scope, restrictLane)
		if len(cands) == 0 {
			return e.skipNoTargets(st, ref.Owner)
		}
		if len(cands) > 1 {
			st.ActionRequired = &SelectCardsRequired{
				pendingBase: pendingBase{SourceID: card.ID, Seat: actor},
				Def:         stripConditional(def),
				Count:       1,
				Candidates:  cands,
			}
			return execResult{pending: true}
		}
		id = cands[0]
	}
	return e.promptShiftDestination(st, card.ID, actor, id, stripConditional(def))
}

// promptShiftDestination asks for the target lane of a shift. With three
// lanes there are always two legal destinations, so this is always a choice.
func (e *Engine) promptShiftDestination(st *GameState, sourceID string, actor Seat, cardID string, def EffectDefinition) execResult {
	ref, _, ok := st.findOnBoard(cardID)
	if !ok {
		return e.skipNoTargets(st, actor)
	}
	st.ActionRequired = &SelectLaneRequired{
		pendingBase:  pendingBase{SourceID: sourceID, Seat: actor},
		Def:          def,
		CardID:       cardID,
		CardOwner:    ref.Owner,
		AllowedLanes: shiftDestinations(ref.Lane),
	}
	return execResult{pending: true}
}

func (e *Engine) execPlay(st *GameState, ref cardRef, card *Card, def EffectDefinition) execResult {
	actor := actorSeat(ref.Owner, def.Params.Actor)
	lanes := allowedLanes(def.Params.Scope, ref.Lane)

	if def.Params.FromDeck {
		ps := st.Players[actor]
		if len(ps.Deck) == 0 {
			e.recycleDiscard(st, actor)
		}
		if len(ps.Deck) == 0 {
			return e.skipNoTargets(st, actor)
		}
		st.ActionRequired = &SelectLaneRequired{
			pendingBase:  pendingBase{SourceID: card.ID, Seat: actor},
			Def:          stripConditional(def),
			CardOwner:    actor,
			AllowedLanes: lanes,
			FaceDown:     def.Params.FaceDown,
			FromDeck:     true,
		}
		return execResult{pending: true}
	}

	hand := st.Players[actor].Hand
	if len(hand) == 0 {
		return e.skipNoTargets(st, actor)
	}
	if len(hand) == 1 {
		st.ActionRequired = &SelectLaneRequired{
			pendingBase:  pendingBase{SourceID: card.ID, Seat: actor},
			Def:          stripConditional(def),
			CardID:       hand[0].ID,
			CardOwner:    actor,
			AllowedLanes: lanes,
			FaceDown:     def.Params.FaceDown,
		}
		return execResult{pending: true}
	}
	st.ActionRequired = &SelectCardsRequired{
		pendingBase: pendingBase{SourceID: card.ID, Seat: actor},
		Def:         stripConditional(def),
		Count:       1,
		Candidates:  handCandidates(st, actor, card, def.Params.Target),
		FromHand:    true,
		HandOwner:   actor,
	}
	return execResult{pending: true}
}

func (e *Engine) execReveal(st *GameState, ref cardRef, card *Card, def EffectDefinition, restrictLane int) execResult {
	actor := actorSeat(ref.Owner, def.Params.Actor)
	if def.Params.Target.Face == FaceDown {
		// Reveal face-down board cards.
		cands := boardCandidates(st, card, ref.Owner, ref.Lane, def.Params.Target, def.Params.Scope, restrictLane)
		if len(cands) == 0 {
			return e.skipNoTargets(st, ref.Owner)
		}
		n := resolveCount(st, card, ref.Owner, def.Params)
		if def.Params.CountMode == CountAll || n >= len(cands) {
			e.applyKindTo(st, actor, def, cands)
			return execResult{executed: true}
		}
		if n <= 0 {
			return e.skipNoTargets(st, ref.Owner)
		}
		st.ActionRequired = &SelectCardsRequired{
			pendingBase: pendingBase{SourceID: card.ID, Seat: actor},
			Def:         stripConditional(def),
			Count:       n,
			Candidates:  cands,
		}
		return execResult{pending: true}
	}
	// Reveal the opposing hand.
	target := ref.Owner.Other()
	hand := st.Players[target].Hand
	if len(hand) == 0 {
		return e.skipNoTargets(st, ref.Owner)
	}
	for _, c := range hand {
		st.addLog(target, fmt.Sprintf("Revealed from hand: %s-%d.", c.Protocol, c.Value))
	}
	return execResult{executed: true}
}

func (e *Engine) execGive(st *GameState, ref cardRef, card *Card, def EffectDefinition) execResult {
	giver := actorSeat(ref.Owner, def.Params.Actor)
	hand := st.Players[giver].Hand
	if len(hand) == 0 {
		return e.skipNoTargets(st, giver)
	}
	if def.Params.Random || len(hand) == 1 {
		var id string
		if len(hand) == 1 {
			id = hand[0].ID
		} else {
			id = hand[e.rng.Intn(len(hand))].ID
		}
		e.giveCard(st, giver, id)
		return execResult{executed: true}
	}
	st.ActionRequired = &SelectCardsRequired{
		pendingBase: pendingBase{SourceID: card.ID, Seat: giver},
		Def:         stripConditional(def),
		Count:       1,
		Candidates:  handCandidates(st, giver, card, def.Params.Target),
		FromHand:    true,
		HandOwner:   giver,
	}
	return execResult{pending: true}
}

// giveCard hands one card from giver's hand to the opponent.
func (e *Engine) giveCard(st *GameState, giver Seat, id string) {
	ps := st.Players[giver]
	i, c, ok := ps.findInHand(id)
	if !ok {
		return
	}
	ps.removeFromHand(i)
	st.Players[giver.Other()].Hand = append(st.Players[giver.Other()].Hand, c)
	st.addLog(giver, fmt.Sprintf("%s gave a card to %s.", giver, giver.Other()))
	recalculateAllLaneValues(st)
}

func (e *Engine) execTake(st *GameState, ref cardRef, card *Card, def EffectDefinition) execResult {
	taker := actorSeat(ref.Owner, def.Params.Actor)
	victim := taker.Other()
	vs := st.Players[victim]
	if def.Params.FromDeck {
		if len(vs.Deck) == 0 {
			return e.skipNoTargets(st, taker)
		}
		c := vs.Deck[0]
		vs.Deck = vs.Deck[1:]
		st.Players[taker].Hand = append(st.Players[taker].Hand, c)
		st.addLog(taker, fmt.Sprintf("%s took the top card of %s's deck.", taker, victim))
		recalculateAllLaneValues(st)
		return execResult{executed: true}
	}
	if len(vs.Hand) == 0 {
		return e.skipNoTargets(st, taker)
	}
	i := e.rng.Intn(len(vs.Hand))
	c := vs.removeFromHand(i)
	st.Players[taker].Hand = append(st.Players[taker].Hand, c)
	st.addLog(taker, fmt.Sprintf("%s took a random card from %s's hand.", taker, victim))
	recalculateAllLaneValues(st)
	return execResult{executed: true}
}

func (e *Engine) execChoice(st *GameState, ref cardRef, card *Card, def EffectDefinition) execResult {
	a, b := def.Params.Branches[0], def.Params.Branches[1]
	switch {
	case a == nil && b == nil:
		return e.skipNoTargets(st, ref.Owner)
	case a == nil:
		return e.execute(st, card.ID, inheritPosition(def, *b))
	case b == nil:
		return e.execute(st, card.ID, inheritPosition(def, *a))
	}
	st.ActionRequired = &BranchRequired{
		pendingBase: pendingBase{SourceID: card.ID, Seat: actorSeat(ref.Owner, def.Params.Actor)},
		Options:     [2]EffectDefinition{inheritPosition(def, *a), inheritPosition(def, *b)},
		Labels:      def.Params.Labels,
	}
	return execResult{pending: true}
}

func (e *Engine) execBlockCompile(st *GameState, ref cardRef, def EffectDefinition) execResult {
	target := ref.Owner.Other()
	if def.Params.Target.Owner == OwnerSelf {
		target = ref.Owner
	}
	st.Players[target].CannotCompile = true
	st.addLog(ref.Owner, fmt.Sprintf("%s cannot compile this turn.", target))
	return execResult{executed: true}
}

func (e *Engine) execDeleteAllInLane(st *GameState, ref cardRef, card *Card, def EffectDefinition, restrictLane int) execResult {
	actor := actorSeat(ref.Owner, def.Params.Actor)
	lane := restrictLane
	if lane < 0 && def.Params.Scope == ScopeThisLane {
		lane = ref.Lane
	}
	if lane < 0 {
		st.ActionRequired = &SelectLaneRequired{
			pendingBase:  pendingBase{SourceID: card.ID, Seat: actor},
			Def:          stripConditional(def),
			AllowedLanes: allowedLanes(def.Params.Scope, ref.Lane),
		}
		return execResult{pending: true}
	}
	ids := laneWideTargets(st, card, ref.Owner, lane, def.Params.Target)
	if len(ids) == 0 {
		return e.skipNoTargets(st, ref.Owner)
	}
	st.addLog(actor, fmt.Sprintf("All qualifying cards in lane %d were deleted.", lane+1))
	e.deleteCards(st, actor, ids)
	return execResult{executed: true}
}

func (e *Engine) execRearrange(st *GameState, ref cardRef, card *Card, def EffectDefinition) execResult {
	target := ref.Owner
	if def.Params.Target.Owner == OwnerOpponent {
		target = ref.Owner.Other()
	}
	st.ActionRequired = &RearrangeRequired{
		pendingBase: pendingBase{SourceID: card.ID, Seat: actorSeat(ref.Owner, def.Params.Actor)},
		Target:      target,
	}
	return execResult{pending: true}
}

func (e *Engine) execSwap(st *GameState, ref cardRef, card *Card, def EffectDefinition) execResult {
	target := ref.Owner
	if def.Params.Target.Owner == OwnerOpponent {
		target = ref.Owner.Other()
	}
	st.ActionRequired = &SwapRequired{
		pendingBase: pendingBase{SourceID: card.ID, Seat: actorSeat(ref.Owner, def.Params.Actor)},
		Target:      target,
	}
	return execResult{pending: true}
}

// skipNoTargets logs an impossible-action no-op and flags it for any
// if_executed conditional chained behind it.
func (e *Engine) skipNoTargets(st *GameState, seat Seat) execResult {
	st.Ctx.SkippedNoTargets = true
	st.addLog(seat, "An effect had no legal targets and was skipped.")
	return execResult{}
}

// pickRandom draws n distinct entries from ids using the match RNG.
func (e *Engine) pickRandom(ids []string, n int) []string {
	if n >= len(ids) {
		return ids
	}
	pool := append([]string(nil), ids...)
	e.rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:n]
}

// inheritPosition copies the parent's box position onto a nested effect that
// did not state its own, so liveness checks treat the pair consistently.
func inheritPosition(parent EffectDefinition, sub EffectDefinition) EffectDefinition {
	if sub.Position == "" {
		sub.Position = parent.Position
	}
	return sub
}

// stripConditional removes the conditional before storing a definition inside
// a pending action; the follow-up travels separately so it cannot double-run.
func stripConditional(def EffectDefinition) EffectDefinition {
	def.Conditional = nil
	return def
}

// allowedLanes lists lane indices legal under a scope, relative to the
// source card's lane.
func allowedLanes(scope Scope, sourceLane int) []int {
	var out []int
	for lane := 0; lane < LaneCount; lane++ {
		if laneInScope(scope, lane, sourceLane) {
			out = append(out, lane)
		}
	}
	return out
}

// laneWideTargets collects every card in one lane matching the filter, on
// both sides of the board.
func laneWideTargets(st *GameState, source *Card, sourceOwner Seat, lane int, f TargetFilter) []string {
	var out []string
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		for i, c := range st.Players[seat].Lanes[lane] {
			ref := cardRef{Owner: seat, Lane: lane, Index: i}
			if matchesFilter(st, ref, c, source, sourceOwner, f) {
				out = append(out, c.ID)
			}
		}
	}
	return out
}

// runCardTrigger runs every effect of one card with the given trigger, in
// box order. If one of them leaves a pending action, the rest are pushed to
// the front of the queue so they still resolve ahead of unrelated work.
func (e *Engine) runCardTrigger(st *GameState, cardID string, trig Trigger) {
	_, card, ok := st.findOnBoard(cardID)
	if !ok || !card.FaceUp || card.Ability == nil {
		return
	}
	var defs []EffectDefinition
	for _, def := range card.Ability.allEffects() {
		if def.Trigger == trig {
			defs = append(defs, def)
		}
	}
	for i, def := range defs {
		if st.ActionRequired != nil {
			for j := len(defs) - 1; j >= i; j-- {
				st.pushFront(QueuedAction{SourceID: cardID, Effect: defs[j]})
			}
			return
		}
		e.execute(st, cardID, def)
	}
}

// hasAnyTarget reports whether the effect could do anything at all right now,
// using the same candidate queries execution uses. The optional-effect
// prompt and the queue drain both rely on it.
func (e *Engine) hasAnyTarget(st *GameState, ref cardRef, card *Card, def EffectDefinition) bool {
	actor := actorSeat(ref.Owner, def.Params.Actor)
	switch def.Kind {
	case KindDraw:
		ps := st.Players[actor]
		return resolveCount(st, card, ref.Owner, def.Params) > 0 &&
			(len(ps.Deck) > 0 || len(ps.Discard) > 0)
	case KindFlip, KindDelete, KindReturn, KindShift:
		if def.Params.SelfTarget {
			return true
		}
		if def.Params.UsePrevTarget {
			if st.Ctx.LastTargetCardID == "" {
				return false
			}
			_, _, ok := st.findOnBoard(st.Ctx.LastTargetCardID)
			return ok
		}
		return len(boardCandidates(st, card, ref.Owner, ref.Lane, def.Params.Target, def.Params.Scope, -1)) > 0
	case KindDiscard, KindGive:
		return len(handCandidates(st, actor, card, def.Params.Target)) > 0
	case KindPlay:
		if def.Params.FromDeck {
			ps := st.Players[actor]
			return len(ps.Deck) > 0 || len(ps.Discard) > 0
		}
		return len(st.Players[actor].Hand) > 0
	case KindTake:
		vs := st.Players[actor.Other()]
		if def.Params.FromDeck {
			return len(vs.Deck) > 0
		}
		return len(vs.Hand) > 0
	case KindReveal:
		if def.Params.Target.Face == FaceDown {
			return len(boardCandidates(st, card, ref.Owner, ref.Lane, def.Params.Target, def.Params.Scope, -1)) > 0
		}
		return len(st.Players[ref.Owner.Other()].Hand) > 0
	case KindDeleteAllInLane:
		for _, lane := range allowedLanes(def.Params.Scope, ref.Lane) {
			if len(laneWideTargets(st, card, ref.Owner, lane, def.Params.Target)) > 0 {
				return true
			}
		}
		return false
	case KindChoice, KindBlockCompile, KindRearrangeProtocols, KindSwapProtocols:
		return true
	}
	return false
}
