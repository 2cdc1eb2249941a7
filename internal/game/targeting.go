package game

// Target resolution for board effects. The same candidate query backs both
// the optional-effect check and the actual execution, so an optional effect
// with no legal target is skipped before any prompt exists.

// matchesFilter checks a single board card against a filter, relative to the
// effect's source.
func matchesFilter(st *GameState, ref cardRef, c *Card, source *Card, sourceOwner Seat, f TargetFilter) bool {
	switch f.Owner {
	case OwnerSelf:
		if ref.Owner != sourceOwner {
			return false
		}
	case OwnerOpponent:
		if ref.Owner == sourceOwner {
			return false
		}
	}
	switch f.Face {
	case FaceUp:
		if !c.FaceUp {
			return false
		}
	case FaceDown:
		if c.FaceUp {
			return false
		}
	}
	switch f.Cover {
	case CoverUncovered:
		if !st.isUncovered(ref) {
			return false
		}
	case CoverCovered:
		if st.isUncovered(ref) {
			return false
		}
	}
	if f.Selector == SelectEquals && c.Value != f.Value {
		return false
	}
	if f.SameProtocol && (source == nil || c.Protocol != source.Protocol) {
		return false
	}
	if f.Protocol != "" && c.Protocol != f.Protocol {
		return false
	}
	return true
}

// laneInScope checks whether a lane qualifies under the effect's scope,
// relative to the source card's lane.
func laneInScope(scope Scope, lane, sourceLane int) bool {
	switch scope {
	case ScopeThisLane:
		return lane == sourceLane
	case ScopeOtherLanes, ScopeEachOtherLane:
		return lane != sourceLane
	default:
		return true
	}
}

// boardCandidates collects the ids of every board card matching the filter
// within scope. A restrictLane >= 0 narrows the query to that single lane,
// which the per-lane work-list uses.
func boardCandidates(st *GameState, source *Card, sourceOwner Seat, sourceLane int, f TargetFilter, scope Scope, restrictLane int) []string {
	type cand struct {
		id    string
		value int
	}
	var cands []cand
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		ps := st.Players[seat]
		for lane := 0; lane < LaneCount; lane++ {
			if restrictLane >= 0 && lane != restrictLane {
				continue
			}
			if restrictLane < 0 && !laneInScope(scope, lane, sourceLane) {
				continue
			}
			for i, c := range ps.Lanes[lane] {
				ref := cardRef{Owner: seat, Lane: lane, Index: i}
				if source != nil && c.ID == source.ID {
					continue
				}
				if !matchesFilter(st, ref, c, source, sourceOwner, f) {
					continue
				}
				cands = append(cands, cand{id: c.ID, value: effectiveCandidateValue(st, ref, c)})
			}
		}
	}
	if len(cands) == 0 {
		return nil
	}
	if f.Selector == SelectHighest || f.Selector == SelectLowest {
		best := cands[0].value
		for _, c := range cands[1:] {
			if (f.Selector == SelectHighest && c.value > best) ||
				(f.Selector == SelectLowest && c.value < best) {
				best = c.value
			}
		}
		kept := cands[:0]
		for _, c := range cands {
			if c.value == best {
				kept = append(kept, c)
			}
		}
		cands = kept
	}
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.id
	}
	return out
}

// effectiveCandidateValue ranks candidates for highest/lowest selection.
// Face-down cards rank by their effective value, since their printed value
// is hidden.
func effectiveCandidateValue(st *GameState, ref cardRef, c *Card) int {
	if c.FaceUp {
		return c.Value
	}
	return effectiveValue(st, c, ref.Owner, ref.Lane, collectModifiers(st))
}

// handCandidates collects hand card ids for discard/give/reveal effects.
func handCandidates(st *GameState, seat Seat, source *Card, f TargetFilter) []string {
	var out []string
	for _, c := range st.Players[seat].Hand {
		if f.Selector == SelectEquals && c.Value != f.Value {
			continue
		}
		if f.SameProtocol && (source == nil || c.Protocol != source.Protocol) {
			continue
		}
		if f.Protocol != "" && c.Protocol != f.Protocol {
			continue
		}
		out = append(out, c.ID)
	}
	return out
}

// resolveCount turns the effect's count parameters into a concrete number.
// Dynamic modes read the board or the effect context; the result is never
// negative.
func resolveCount(st *GameState, source *Card, sourceOwner Seat, p EffectParams) int {
	n := p.Count
	switch p.CountMode {
	case CountPerFaceDown:
		n = 0
		for seat := SeatOne; seat <= SeatTwo; seat++ {
			for lane := 0; lane < LaneCount; lane++ {
				for _, c := range st.Players[seat].Lanes[lane] {
					if !c.FaceUp {
						n++
					}
				}
			}
		}
	case CountEqualValue:
		if source != nil {
			n = source.Value
		}
	case CountDiscarded:
		n = st.Ctx.DiscardedCount
	}
	if n < 0 {
		return 0
	}
	return n
}

// actorSeat resolves an effect's acting seat relative to the source owner.
func actorSeat(sourceOwner Seat, actor TargetOwner) Seat {
	if actor == OwnerOpponent {
		return sourceOwner.Other()
	}
	return sourceOwner
}

// shiftDestinations lists the lanes a board card may shift to: every lane of
// its owner's side except the one it is in.
func shiftDestinations(current int) []int {
	var out []int
	for lane := 0; lane < LaneCount; lane++ {
		if lane != current {
			out = append(out, lane)
		}
	}
	return out
}
