package game

// Board geometry and fixed rule constants.
const (
	LaneCount        = 3
	HandLimit        = 5
	OpeningHandSize  = 5
	CompileThreshold = 10
	FaceDownValue    = 2
)

// Seat identifies one of the two players.
type Seat int

const (
	SeatOne Seat = iota
	SeatTwo
)

var seatNames = map[Seat]string{
	SeatOne: "Player 1",
	SeatTwo: "Player 2",
}

func (s Seat) String() string {
	if name, ok := seatNames[s]; ok {
		return name
	}
	return "Unknown"
}

// Other returns the opposing seat.
func (s Seat) Other() Seat {
	if s == SeatOne {
		return SeatTwo
	}
	return SeatOne
}

// Card is a single card instance. The ID is generated when the card enters a
// player's deck or hand; discarded cards lose both ID and orientation.
type Card struct {
	ID       string      `json:"id" yaml:"id"`
	Protocol string      `json:"protocol" yaml:"protocol"`
	Value    int         `json:"value" yaml:"value"`
	FaceUp   bool        `json:"face_up" yaml:"face_up"`
	Ability  *AbilitySet `json:"ability,omitempty" yaml:"ability,omitempty"`
}

// AbilitySet is the three text boxes of a card. Top effects stay live while
// the card is covered; middle and bottom effects require the card to be the
// top of its stack.
type AbilitySet struct {
	Top    []EffectDefinition `json:"top,omitempty" yaml:"top,omitempty"`
	Middle []EffectDefinition `json:"middle,omitempty" yaml:"middle,omitempty"`
	Bottom []EffectDefinition `json:"bottom,omitempty" yaml:"bottom,omitempty"`
}

// DiscardedCard is an anonymized card in a discard pile. Identity and
// orientation are stripped on discard.
type DiscardedCard struct {
	Protocol string `json:"protocol" yaml:"protocol"`
	Value    int    `json:"value" yaml:"value"`
}

// Stats tracks cumulative per-player counters for the match.
type Stats struct {
	CardsPlayed    int `json:"cards_played"`
	CardsDrawn     int `json:"cards_drawn"`
	CardsDiscarded int `json:"cards_discarded"`
	CardsDeleted   int `json:"cards_deleted"`
	CardsFlipped   int `json:"cards_flipped"`
	LanesCompiled  int `json:"lanes_compiled"`
}

// PlayerState holds everything owned by one seat.
type PlayerState struct {
	Hand          []*Card
	Deck          []*Card // top of deck is index 0
	Discard       []DiscardedCard
	Lanes         [LaneCount][]*Card // last element is the uncovered card
	Protocols     [LaneCount]string
	Compiled      [LaneCount]bool
	LaneValues    [LaneCount]int // derived cache, see recalculateAllLaneValues
	CannotCompile bool
	Stats         Stats
}

// LogEntry is one line of the player-visible match log.
type LogEntry struct {
	Actor   string `json:"actor"`
	Message string `json:"message"`
}

// EffectContext carries transient data between chained effect invocations.
// Fields are cleared when consumed; nothing here survives a turn boundary.
type EffectContext struct {
	LastTargetCardID string
	DiscardedCount   int
	SkippedNoTargets bool
	ProcessedStart   map[string]bool
	ProcessedEnd     map[string]bool
}

// GameState is the complete match state. It is treated as an immutable value
// between public operations: every operation clones its input and returns the
// clone, which keeps AI lookahead and undo safe.
type GameState struct {
	Players [2]*PlayerState
	Turn    Seat
	Phase   Phase
	Winner  *Seat
	Log     []LogEntry

	ActionRequired ActionRequired
	Queued         []QueuedAction
	QueuedOnPlay   *QueuedOnPlay

	// PendingCompileLane is a compile whose lane partition is on hold until
	// the before-delete reactions it triggered have settled.
	PendingCompileLane *int

	InterruptedTurn  *Seat
	InterruptedPhase *Phase

	UseControl bool
	Control    *Seat

	Ctx EffectContext
}

// QueuedOnPlay is an on-play trigger for a card already placed on the board
// whose resolution was pre-empted by a reactive ability.
type QueuedOnPlay struct {
	CardID string
	Owner  Seat
	Lane   int
}

// Player returns the state for the given seat.
func (st *GameState) Player(s Seat) *PlayerState {
	return st.Players[s]
}

// cardRef locates a card on the board.
type cardRef struct {
	Owner Seat
	Lane  int
	Index int
}

// findOnBoard locates a card in either player's lanes.
func (st *GameState) findOnBoard(id string) (cardRef, *Card, bool) {
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		ps := st.Players[seat]
		for lane := 0; lane < LaneCount; lane++ {
			for i, c := range ps.Lanes[lane] {
				if c.ID == id {
					return cardRef{Owner: seat, Lane: lane, Index: i}, c, true
				}
			}
		}
	}
	return cardRef{}, nil, false
}

// findInHand locates a card in the given player's hand.
func (ps *PlayerState) findInHand(id string) (int, *Card, bool) {
	for i, c := range ps.Hand {
		if c.ID == id {
			return i, c, true
		}
	}
	return -1, nil, false
}

// isUncovered reports whether the card at ref is the top of its stack.
func (st *GameState) isUncovered(ref cardRef) bool {
	stack := st.Players[ref.Owner].Lanes[ref.Lane]
	return len(stack) > 0 && ref.Index == len(stack)-1
}

// uncovered returns the top card of a lane stack, or nil if the lane is empty.
func (ps *PlayerState) uncovered(lane int) *Card {
	stack := ps.Lanes[lane]
	if len(stack) == 0 {
		return nil
	}
	return stack[len(stack)-1]
}

// removeFromBoard detaches the card at ref from its lane and returns it.
func (st *GameState) removeFromBoard(ref cardRef) *Card {
	ps := st.Players[ref.Owner]
	stack := ps.Lanes[ref.Lane]
	c := stack[ref.Index]
	ps.Lanes[ref.Lane] = append(stack[:ref.Index:ref.Index], stack[ref.Index+1:]...)
	return c
}

// removeFromHand detaches the card at index i from the hand and returns it.
func (ps *PlayerState) removeFromHand(i int) *Card {
	c := ps.Hand[i]
	ps.Hand = append(ps.Hand[:i:i], ps.Hand[i+1:]...)
	return c
}

// toDiscard anonymizes a card into the owner's discard pile.
func (ps *PlayerState) toDiscard(c *Card) {
	ps.Discard = append(ps.Discard, DiscardedCard{Protocol: c.Protocol, Value: c.Value})
}

// compiledCount returns how many of the player's lanes are compiled.
func (ps *PlayerState) compiledCount() int {
	n := 0
	for _, c := range ps.Compiled {
		if c {
			n++
		}
	}
	return n
}

// Clone produces a deep copy of the state. Queued actions and the pending
// ActionRequired are value-like once created and are shared, never mutated
// in place.
func (st *GameState) Clone() *GameState {
	cp := *st
	for seat := SeatOne; seat <= SeatTwo; seat++ {
		cp.Players[seat] = st.Players[seat].clone()
	}
	cp.Log = append([]LogEntry(nil), st.Log...)
	cp.Queued = append([]QueuedAction(nil), st.Queued...)
	if st.Winner != nil {
		w := *st.Winner
		cp.Winner = &w
	}
	if st.InterruptedTurn != nil {
		t := *st.InterruptedTurn
		cp.InterruptedTurn = &t
	}
	if st.InterruptedPhase != nil {
		p := *st.InterruptedPhase
		cp.InterruptedPhase = &p
	}
	if st.Control != nil {
		c := *st.Control
		cp.Control = &c
	}
	if st.QueuedOnPlay != nil {
		q := *st.QueuedOnPlay
		cp.QueuedOnPlay = &q
	}
	if st.PendingCompileLane != nil {
		l := *st.PendingCompileLane
		cp.PendingCompileLane = &l
	}
	cp.Ctx.ProcessedStart = cloneSet(st.Ctx.ProcessedStart)
	cp.Ctx.ProcessedEnd = cloneSet(st.Ctx.ProcessedEnd)
	return &cp
}

func (ps *PlayerState) clone() *PlayerState {
	cp := *ps
	cp.Hand = cloneCards(ps.Hand)
	cp.Deck = cloneCards(ps.Deck)
	cp.Discard = append([]DiscardedCard(nil), ps.Discard...)
	for lane := 0; lane < LaneCount; lane++ {
		cp.Lanes[lane] = cloneCards(ps.Lanes[lane])
	}
	return &cp
}

func cloneCards(cards []*Card) []*Card {
	if cards == nil {
		return nil
	}
	out := make([]*Card, len(cards))
	for i, c := range cards {
		cc := *c
		out[i] = &cc
	}
	return out
}

func cloneSet(set map[string]bool) map[string]bool {
	if set == nil {
		return nil
	}
	out := make(map[string]bool, len(set))
	for k, v := range set {
		out[k] = v
	}
	return out
}

// addLog appends an actor-tagged entry to the match log.
func (st *GameState) addLog(actor Seat, message string) {
	st.Log = append(st.Log, LogEntry{Actor: actor.String(), Message: message})
}

// addSystemLog appends an entry not attributable to either seat.
func (st *GameState) addSystemLog(message string) {
	st.Log = append(st.Log, LogEntry{Actor: "Game", Message: message})
}
