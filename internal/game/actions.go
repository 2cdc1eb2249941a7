package game

// ActionRequired describes the player input the engine is waiting on. While
// one is set, no automatic resolution may occur; a caller must resolve it
// through ApplyPlayerAction with the matching action type.
type ActionRequired interface {
	// Actor is the seat that must supply the choice.
	Actor() Seat
	// Source is the id of the card whose effect is waiting, or "" for
	// engine-driven prompts like the hand-limit discard.
	Source() string

	followUp() *FollowUp
	// attachFollowUp attaches an outer follow-up, failing if one is already
	// attached. The inner follow-up always resolves first; an outer one that
	// cannot attach is queued instead so it is not lost.
	attachFollowUp(*FollowUp) bool
}

// FollowUp is a conditional follow-up effect carried across a player-input
// boundary. SourceCardID is re-resolved against the board when it runs, since
// the card may have moved in the meantime.
type FollowUp struct {
	SourceCardID string
	Effect       EffectDefinition
	Type         ConditionalType
}

// LaneWorklist threads an each-lane effect across prompts: the current lane
// resolves fully before the next one is attempted.
type LaneWorklist struct {
	Current   int
	Remaining []int
}

// pendingBase carries the fields every variant shares.
type pendingBase struct {
	SourceID string
	Seat     Seat
	Follow   *FollowUp
}

func (p *pendingBase) Actor() Seat         { return p.Seat }
func (p *pendingBase) Source() string      { return p.SourceID }
func (p *pendingBase) followUp() *FollowUp { return p.Follow }
func (p *pendingBase) attachFollowUp(fu *FollowUp) bool {
	if p.Follow != nil {
		return false
	}
	p.Follow = fu
	return true
}

// SelectCardsRequired asks the actor to pick Count cards (or up to Count)
// from Candidates; Def is the interrupted effect, re-applied to the chosen
// targets when the choice arrives.
type SelectCardsRequired struct {
	pendingBase
	Def        EffectDefinition
	Count      int
	UpTo       bool
	Candidates []string
	FromHand   bool // candidates are hand cards of HandOwner
	HandOwner  Seat
	Lanes      *LaneWorklist
}

// SelectLaneRequired asks the actor to pick a destination lane for a card
// being shifted or played, or the target lane of a lane-wide effect.
type SelectLaneRequired struct {
	pendingBase
	Def          EffectDefinition
	CardID       string // card being moved; "" for lane-wide or deck plays
	CardOwner    Seat
	AllowedLanes []int
	FaceDown     bool
	FromDeck     bool
	Lanes        *LaneWorklist
}

// ConfirmRequired is the yes/no prompt of an optional effect. The wrapped
// effect runs on yes with its own conditional still attached.
type ConfirmRequired struct {
	pendingBase
	Effect EffectDefinition
}

// BranchRequired asks the actor to pick one of two effect branches.
type BranchRequired struct {
	pendingBase
	Options [2]EffectDefinition
	Labels  [2]string
}

// NumberRequired asks the actor to state a number; the wrapped effect then
// resolves with its value filter bound to that number.
type NumberRequired struct {
	pendingBase
	Effect EffectDefinition
}

// ProtocolRequired asks the actor to state a protocol name; the wrapped
// effect then resolves filtered to that protocol.
type ProtocolRequired struct {
	pendingBase
	Effect EffectDefinition
}

// RearrangeRequired asks the actor to supply a new order for Target's three
// protocols. When set by the compile phase under the control mechanic,
// PendingCompileLane stores the original compile request so it resumes after
// the rearrangement.
type RearrangeRequired struct {
	pendingBase
	Target             Seat
	AnyTarget          bool // actor may pick which side to rearrange
	PendingCompileLane *int
}

// SwapRequired asks the actor to pick two of Target's protocols to swap.
type SwapRequired struct {
	pendingBase
	Target Seat
}

// DiscardToLimitRequired is the hand-limit phase prompt: discard down to the
// hand limit.
type DiscardToLimitRequired struct {
	pendingBase
	Count int
}

// queueFollowUp defers an outer follow-up that could not attach to the live
// pending action, so it runs once the interrupting work settles. By the time
// a follow-up is queued its chain is committed, so it runs unconditionally.
func (st *GameState) queueFollowUp(fu *FollowUp) {
	st.pushFront(QueuedAction{SourceID: fu.SourceCardID, Effect: fu.Effect})
}
