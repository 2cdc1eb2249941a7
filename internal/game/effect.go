package game

// EffectKind discriminates the closed set of ability actions the interpreter
// understands. Unknown kinds are logged and skipped, never fatal: ability
// definitions are authored outside the engine.
type EffectKind string

const (
	KindDraw               EffectKind = "draw"
	KindFlip               EffectKind = "flip"
	KindDelete             EffectKind = "delete"
	KindDiscard            EffectKind = "discard"
	KindShift              EffectKind = "shift"
	KindReturn             EffectKind = "return"
	KindPlay               EffectKind = "play"
	KindRearrangeProtocols EffectKind = "rearrange_protocols"
	KindSwapProtocols      EffectKind = "swap_protocols"
	KindReveal             EffectKind = "reveal"
	KindGive               EffectKind = "give"
	KindTake               EffectKind = "take"
	KindChoice             EffectKind = "choice"
	KindBlockCompile       EffectKind = "block_compile"
	KindDeleteAllInLane    EffectKind = "delete_all_in_lane"

	// Passive kinds. These are never executed imperatively: the value
	// calculator reads KindValueModifier, the hand-limit phase reads
	// KindExemptHandLimit, and the compile resolver reads KindCompileShift.
	KindValueModifier   EffectKind = "value_modifier"
	KindExemptHandLimit EffectKind = "exempt_hand_limit"
	KindCompileShift    EffectKind = "compile_shift"
)

// Trigger states when an effect fires.
type Trigger string

const (
	TriggerOnPlay               Trigger = "on_play"
	TriggerOnCover              Trigger = "on_cover"
	TriggerBeforeCompileDelete  Trigger = "before_compile_delete"
	TriggerStartOfTurn          Trigger = "start_of_turn"
	TriggerEndOfTurn            Trigger = "end_of_turn"
	TriggerPassive              Trigger = "passive"
	TriggerAfterDraw            Trigger = "after_draw"
	TriggerAfterDiscard         Trigger = "after_discard"
	TriggerAfterDelete          Trigger = "after_delete"
	TriggerAfterCompile         Trigger = "after_compile"
	TriggerAfterOpponentCompile Trigger = "after_opponent_compile"
)

// BoxPosition is the text box an effect lives in. Middle and bottom effects
// go dormant while the card is covered; top effects stay live.
type BoxPosition string

const (
	PositionTop    BoxPosition = "top"
	PositionMiddle BoxPosition = "middle"
	PositionBottom BoxPosition = "bottom"
)

// CountMode states how the effect's count parameter is resolved.
type CountMode string

const (
	CountFixed       CountMode = ""              // use Count as-is
	CountAll         CountMode = "all"           // every legal target
	CountUpTo        CountMode = "up_to"         // player picks 0..Count
	CountPerFaceDown CountMode = "per_face_down" // 1 per face-down card anywhere
	CountEqualValue  CountMode = "equal_value"   // equal to the source card's value
	CountDiscarded   CountMode = "discarded"     // equal to the number just discarded
)

// TargetOwner restricts targets by side, relative to the source card's owner.
type TargetOwner string

const (
	OwnerAny      TargetOwner = ""
	OwnerSelf     TargetOwner = "own"
	OwnerOpponent TargetOwner = "opponent"
)

// FaceFilter restricts targets by orientation.
type FaceFilter string

const (
	FaceAny  FaceFilter = ""
	FaceUp   FaceFilter = "face_up"
	FaceDown FaceFilter = "face_down"
)

// CoverFilter restricts targets by stack position.
type CoverFilter string

const (
	CoverAny       CoverFilter = ""
	CoverUncovered CoverFilter = "uncovered"
	CoverCovered   CoverFilter = "covered"
)

// ValueSelector narrows a candidate set by face value.
type ValueSelector string

const (
	SelectAnyValue ValueSelector = ""
	SelectHighest  ValueSelector = "highest"
	SelectLowest   ValueSelector = "lowest"
	SelectEquals   ValueSelector = "equals" // compare against Filter.Value
)

// Scope states which lanes an effect considers.
type Scope string

const (
	ScopeBoard         Scope = ""                // anywhere on the board
	ScopeThisLane      Scope = "this_lane"       // the source card's lane only
	ScopeOtherLanes    Scope = "other_lanes"     // any lane but the source's
	ScopeEachLane      Scope = "each_lane"       // once per lane, sequentially
	ScopeEachOtherLane Scope = "each_other_lane" // once per other lane, sequentially
)

// TargetFilter is the board query attached to a targeted effect.
type TargetFilter struct {
	Owner    TargetOwner   `json:"owner,omitempty" yaml:"owner,omitempty"`
	Face     FaceFilter    `json:"face,omitempty" yaml:"face,omitempty"`
	Cover    CoverFilter   `json:"cover,omitempty" yaml:"cover,omitempty"`
	Selector ValueSelector `json:"selector,omitempty" yaml:"selector,omitempty"`
	Value    int           `json:"value,omitempty" yaml:"value,omitempty"`
	// SameProtocol restricts targets to cards sharing the source's protocol.
	SameProtocol bool `json:"same_protocol,omitempty" yaml:"same_protocol,omitempty"`
	// Protocol restricts targets to a named protocol.
	Protocol string `json:"protocol,omitempty" yaml:"protocol,omitempty"`
}

// ModifierKind is the category of a passive value modifier.
type ModifierKind string

const (
	ModifierSetToFixed      ModifierKind = "set_to_fixed"
	ModifierAddPerCondition ModifierKind = "add_per_condition"
	ModifierAddToTotal      ModifierKind = "add_to_total"
)

// ModifierCondition is the countable quantity an add_per_condition modifier
// multiplies its value by.
type ModifierCondition string

const (
	CondFaceDownInLane      ModifierCondition = "face_down_in_lane"
	CondFaceUpInLane        ModifierCondition = "face_up_in_lane"
	CondAllInLane           ModifierCondition = "all_in_lane"
	CondCardsInHand         ModifierCondition = "cards_in_hand"
	CondOpponentCardsInLane ModifierCondition = "opponent_cards_in_lane"
)

// ValueModifier is the declarative payload of a KindValueModifier passive.
type ValueModifier struct {
	Kind      ModifierKind      `json:"kind" yaml:"kind"`
	Value     int               `json:"value" yaml:"value"`
	Condition ModifierCondition `json:"condition,omitempty" yaml:"condition,omitempty"`
	// AppliesTo limits set_to_fixed to face-down cards of one side.
	AppliesTo TargetOwner `json:"applies_to,omitempty" yaml:"applies_to,omitempty"`
	// RequiresCoveredAlly gates add_to_total on the owner having another
	// face-up card of a different protocol in the same stack.
	RequiresCoveredAlly bool `json:"requires_covered_ally,omitempty" yaml:"requires_covered_ally,omitempty"`
}

// ConditionalType states when a follow-up effect runs.
type ConditionalType string

const (
	// ConditionalThen always runs the follow-up once the primary resolves.
	ConditionalThen ConditionalType = "then"
	// ConditionalIfExecuted runs the follow-up only if the primary actually
	// executed (skipped primaries suppress it).
	ConditionalIfExecuted ConditionalType = "if_executed"
)

// Conditional attaches a follow-up effect to a primary effect. Conditionals
// nest arbitrarily.
type Conditional struct {
	Type   ConditionalType   `json:"type" yaml:"type"`
	Effect *EffectDefinition `json:"effect" yaml:"effect"`
}

// EffectParams carries the kind-specific knobs of an effect.
type EffectParams struct {
	Count     int       `json:"count,omitempty" yaml:"count,omitempty"`
	CountMode CountMode `json:"count_mode,omitempty" yaml:"count_mode,omitempty"`
	Optional  bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
	// Auto executes a single-target selection without a prompt, picking by
	// the filter's value selector (e.g. "delete the lowest-value card").
	Auto   bool         `json:"auto,omitempty" yaml:"auto,omitempty"`
	Target TargetFilter `json:"target,omitempty" yaml:"target,omitempty"`
	Scope  Scope        `json:"scope,omitempty" yaml:"scope,omitempty"`
	// SelfTarget makes the effect operate on the source card itself.
	SelfTarget bool `json:"self_target,omitempty" yaml:"self_target,omitempty"`
	// UsePrevTarget makes the effect operate on the card a prior chained
	// effect selected. If that card is gone, the effect is skipped.
	UsePrevTarget bool `json:"use_prev_target,omitempty" yaml:"use_prev_target,omitempty"`
	// FaceDown orients a played or returned-to-board card face-down; for
	// KindFlip it selects the flip direction when set together with Directed.
	FaceDown bool `json:"face_down,omitempty" yaml:"face_down,omitempty"`
	// Directed forces KindFlip to the FaceDown orientation instead of
	// toggling.
	Directed bool `json:"directed,omitempty" yaml:"directed,omitempty"`
	// Actor names who makes the choice (and, for hand effects, whose hand):
	// OwnerSelf is the source card's owner, OwnerOpponent the other seat.
	Actor TargetOwner `json:"actor,omitempty" yaml:"actor,omitempty"`
	// Random picks targets with the match RNG instead of prompting.
	Random bool `json:"random,omitempty" yaml:"random,omitempty"`
	// FromDeck sources the card from the top of the deck instead of the hand
	// (KindPlay, KindTake).
	FromDeck bool `json:"from_deck,omitempty" yaml:"from_deck,omitempty"`
	// AskValue prompts the actor to state a number before resolving; the
	// stated number becomes the filter's value match.
	AskValue bool `json:"ask_value,omitempty" yaml:"ask_value,omitempty"`
	// AskProtocol prompts the actor to state a protocol name before
	// resolving; the stated name becomes the filter's protocol match.
	AskProtocol bool `json:"ask_protocol,omitempty" yaml:"ask_protocol,omitempty"`
	// Branches are the two alternatives of a KindChoice effect.
	Branches [2]*EffectDefinition `json:"branches,omitempty" yaml:"branches,omitempty"`
	Labels   [2]string            `json:"labels,omitempty" yaml:"labels,omitempty"`
	// Modifier is the payload of a KindValueModifier passive.
	Modifier *ValueModifier `json:"modifier,omitempty" yaml:"modifier,omitempty"`
}

// EffectDefinition is one declarative ability step. A card's ability set is a
// tree of these; the engine accepts any well-formed tree without a
// compile/link step.
type EffectDefinition struct {
	Kind        EffectKind   `json:"kind" yaml:"kind"`
	Trigger     Trigger      `json:"trigger" yaml:"trigger"`
	Position    BoxPosition  `json:"position" yaml:"position"`
	Params      EffectParams `json:"params,omitempty" yaml:"params,omitempty"`
	Conditional *Conditional `json:"conditional,omitempty" yaml:"conditional,omitempty"`
}

// effectsAt returns the effect sequence in the given box, or nil.
func (a *AbilitySet) effectsAt(pos BoxPosition) []EffectDefinition {
	if a == nil {
		return nil
	}
	switch pos {
	case PositionTop:
		return a.Top
	case PositionMiddle:
		return a.Middle
	case PositionBottom:
		return a.Bottom
	}
	return nil
}

// allEffects iterates every effect of the set with its box position filled in.
func (a *AbilitySet) allEffects() []EffectDefinition {
	if a == nil {
		return nil
	}
	out := make([]EffectDefinition, 0, len(a.Top)+len(a.Middle)+len(a.Bottom))
	for _, pos := range []BoxPosition{PositionTop, PositionMiddle, PositionBottom} {
		for _, def := range a.effectsAt(pos) {
			def.Position = pos
			out = append(out, def)
		}
	}
	return out
}
