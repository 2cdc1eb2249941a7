package game

import "testing"

func TestAdvanceStopsAtActionPhase(t *testing.T) {
	e := newTestEngine()
	st := emptyState()

	st = e.AdvanceAutomatically(st)

	if st.Phase != PhaseAction {
		t.Fatalf("phase = %s, want ACTION", st.Phase)
	}
	requireNoPending(t, st)
}

func TestStartOfTurnTriggerFires(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	place(st, SeatOne, 0, card("Alpha", 1, true,
		ability(PositionMiddle, EffectDefinition{
			Kind:    KindDraw,
			Trigger: TriggerStartOfTurn,
			Params:  EffectParams{Count: 1},
		})))
	addDeck(st, SeatOne, card("Alpha", 2, false, nil))

	st = e.AdvanceAutomatically(st)

	if len(st.Players[SeatOne].Hand) != 1 {
		t.Fatal("start-of-turn draw did not fire")
	}
	if st.Phase != PhaseAction {
		t.Fatalf("phase = %s, want ACTION", st.Phase)
	}
}

func TestStartTriggerNotRefiredAfterInterrupt(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	place(st, SeatOne, 0, card("Alpha", 1, true,
		ability(PositionMiddle, EffectDefinition{
			Kind:    KindDiscard,
			Trigger: TriggerStartOfTurn,
			Params:  EffectParams{Count: 1, Actor: OwnerSelf},
		})))
	h1 := card("Alpha", 2, false, nil)
	h2 := card("Alpha", 3, false, nil)
	addHand(st, SeatOne, h1, h2)

	st = e.AdvanceAutomatically(st)
	if _, ok := st.ActionRequired.(*SelectCardsRequired); !ok {
		t.Fatalf("pending = %T, want the start-trigger discard prompt", st.ActionRequired)
	}

	st = e.ApplyPlayerAction(st, PlayerAction{
		Type:    ActionSelectCards,
		Seat:    SeatOne,
		CardIDs: []string{h1.ID},
	})
	st = e.AdvanceAutomatically(st)

	if st.Phase != PhaseAction {
		t.Fatalf("phase = %s, want ACTION", st.Phase)
	}
	if len(st.Players[SeatOne].Hand) != 1 {
		t.Fatal("the start trigger must fire exactly once per turn")
	}
}

func TestControlMarkerFollowsLaneMajority(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	st.UseControl = true
	place(st, SeatOne, 0, card("Alpha", 4, true, nil))
	place(st, SeatOne, 1, card("Beta", 4, true, nil))

	st = e.AdvanceAutomatically(st)

	if st.Control == nil || *st.Control != SeatOne {
		t.Fatal("leading two lanes must take the control marker")
	}
	if !hasLog(st, "took control") {
		t.Fatal("expected a control log entry")
	}
}

func TestControlTiedLanesCountForNeither(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	st.UseControl = true
	// Lane 0 tied, lane 1 led by one side only: no majority.
	place(st, SeatOne, 0, card("Alpha", 3, true, nil))
	place(st, SeatTwo, 0, card("Delta", 3, true, nil))
	place(st, SeatOne, 1, card("Beta", 2, true, nil))

	st = e.AdvanceAutomatically(st)

	if st.Control != nil {
		t.Fatal("a single lane lead must not move the marker")
	}
}

func TestControlMarkerSticky(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	st.UseControl = true
	holder := SeatTwo
	st.Control = &holder

	st = e.AdvanceAutomatically(st)

	if st.Control == nil || *st.Control != SeatTwo {
		t.Fatal("with no majority the marker must stay put")
	}
}

func TestHandLimitPromptsDiscard(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	st.Phase = PhaseHandLimit
	var ids []string
	for i := 0; i < HandLimit+2; i++ {
		c := card("Alpha", i%6, false, nil)
		addHand(st, SeatOne, c)
		ids = append(ids, c.ID)
	}

	st = e.AdvanceAutomatically(st)

	p, ok := st.ActionRequired.(*DiscardToLimitRequired)
	if !ok {
		t.Fatalf("pending = %T, want *DiscardToLimitRequired", st.ActionRequired)
	}
	if p.Count != 2 {
		t.Fatalf("discard count = %d, want 2", p.Count)
	}

	st = e.ApplyPlayerAction(st, PlayerAction{
		Type:    ActionDiscardToLimit,
		Seat:    SeatOne,
		CardIDs: ids[:2],
	})
	st = e.AdvanceAutomatically(st)

	if len(st.Players[SeatOne].Hand) != HandLimit {
		t.Fatalf("hand = %d, want %d", len(st.Players[SeatOne].Hand), HandLimit)
	}
	if st.Turn != SeatTwo || st.Phase != PhaseAction {
		t.Fatalf("turn/phase = %s/%s, want the opponent's action phase", st.Turn, st.Phase)
	}
}

func TestHandLimitExemptAbility(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	st.Phase = PhaseHandLimit
	place(st, SeatOne, 0, card("Alpha", 1, true,
		ability(PositionMiddle, EffectDefinition{
			Kind:    KindExemptHandLimit,
			Trigger: TriggerPassive,
		})))
	for i := 0; i < HandLimit+2; i++ {
		addHand(st, SeatOne, card("Alpha", i%6, false, nil))
	}

	st = e.AdvanceAutomatically(st)

	requireNoPending(t, st)
	if len(st.Players[SeatOne].Hand) != HandLimit+2 {
		t.Fatal("an exempt player keeps the oversized hand")
	}
	if st.Turn != SeatTwo {
		t.Fatal("the turn must still pass")
	}
}

func TestEndTurnClearsCompileBlock(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	st.Phase = PhaseHandLimit
	st.Players[SeatOne].CannotCompile = true

	st = e.AdvanceAutomatically(st)

	if st.Players[SeatOne].CannotCompile {
		t.Fatal("the compile block must expire with the blocked player's turn")
	}
	if st.Turn != SeatTwo {
		t.Fatalf("turn = %s, want Player 2", st.Turn)
	}
}

func TestEndOfTurnTriggerFires(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	st.Phase = PhaseHandLimit
	place(st, SeatOne, 0, card("Alpha", 1, true,
		ability(PositionMiddle, EffectDefinition{
			Kind:    KindDraw,
			Trigger: TriggerEndOfTurn,
			Params:  EffectParams{Count: 1},
		})))
	addDeck(st, SeatOne, card("Alpha", 2, false, nil))

	st = e.AdvanceAutomatically(st)

	if len(st.Players[SeatOne].Hand) != 1 {
		t.Fatal("end-of-turn draw did not fire")
	}
	if st.Turn != SeatTwo || st.Phase != PhaseAction {
		t.Fatalf("turn/phase = %s/%s, want the opponent's action phase", st.Turn, st.Phase)
	}
}
