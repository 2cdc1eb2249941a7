package game

import "go.uber.org/zap"

// QueuedAction is a deferred ability: fully determined, but waiting its turn
// behind player input or higher-priority reactive work. The source card's
// board position is re-resolved when the entry runs.
type QueuedAction struct {
	SourceID string
	Effect   EffectDefinition
	Lane     *int // restricts an each-lane step to one lane; nil means unrestricted
}

// pushFront inserts a child entry ahead of its siblings. Effects spawned
// while another queued action resolves use this, so a child chain fully
// resolves before the sibling entries behind it.
func (st *GameState) pushFront(qa QueuedAction) {
	st.Queued = append([]QueuedAction{qa}, st.Queued...)
}

// pushBack appends an independent deferred ability in FIFO order.
func (st *GameState) pushBack(qa QueuedAction) {
	st.Queued = append(st.Queued, qa)
}

// autoResolving reports whether a queued effect executes without any player
// choice: a self-flip, a hand reveal, or a shift of a card selected earlier
// in the chain.
func autoResolving(def EffectDefinition) bool {
	switch def.Kind {
	case KindFlip:
		return def.Params.SelfTarget || def.Params.UsePrevTarget
	case KindReveal:
		return true
	case KindShift:
		return def.Params.UsePrevTarget
	}
	return false
}

// drainQueue resolves queued actions until one needs a choice or the queue is
// empty. Entries whose source card left the board or turned face-down are
// cancelled; entries whose precondition no longer holds are skipped. Both
// cases are logged and the loop continues.
func (e *Engine) drainQueue(st *GameState) {
	for st.ActionRequired == nil && len(st.Queued) > 0 {
		qa := st.Queued[0]
		st.Queued = st.Queued[1:]

		ref, card, ok := st.findOnBoard(qa.SourceID)
		if !ok || !card.FaceUp {
			st.addSystemLog("A queued effect fizzled: its source card is gone.")
			e.log.Debug("queued action cancelled",
				zap.String("source", qa.SourceID),
				zap.String("kind", string(qa.Effect.Kind)))
			continue
		}

		if !autoResolving(qa.Effect) {
			// Check targets before prompting: a choice whose precondition
			// now fails is skipped, not surfaced.
			if !e.hasAnyTarget(st, ref, card, qa.Effect) {
				st.addLog(ref.Owner, "A deferred effect had no legal targets and was skipped.")
				continue
			}
		}

		restrict := -1
		if qa.Lane != nil {
			restrict = *qa.Lane
		}
		e.executeScoped(st, qa.SourceID, qa.Effect, restrict)
		if st.ActionRequired != nil && st.ActionRequired.Actor() != st.Turn {
			e.beginInterrupt(st)
		}
	}
}
