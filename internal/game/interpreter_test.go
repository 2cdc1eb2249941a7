package game

import "testing"

func TestDrawEffect(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	addDeck(st, SeatOne, card("Alpha", 2, false, nil), card("Alpha", 3, false, nil))

	res := e.execute(st, src.ID, EffectDefinition{Kind: KindDraw, Params: EffectParams{Count: 2}})

	if !res.executed {
		t.Fatal("draw did not report executed")
	}
	if len(st.Players[SeatOne].Hand) != 2 {
		t.Fatalf("hand size = %d, want 2", len(st.Players[SeatOne].Hand))
	}
	if st.Players[SeatOne].Stats.CardsDrawn != 2 {
		t.Fatalf("draw stat = %d, want 2", st.Players[SeatOne].Stats.CardsDrawn)
	}
}

func TestEffectFizzlesWhenSourceGone(t *testing.T) {
	e := newTestEngine()
	st := emptyState()

	res := e.execute(st, "vanished", EffectDefinition{Kind: KindDraw, Params: EffectParams{Count: 1}})

	if res.executed || res.pending {
		t.Fatal("effect with a missing source must be a no-op")
	}
	if !hasLog(st, "fizzled") {
		t.Fatal("expected a fizzle log entry")
	}
}

func TestFaceDownSourceDoesNothing(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, false, nil))
	addDeck(st, SeatOne, card("Alpha", 2, false, nil))

	e.execute(st, src.ID, EffectDefinition{Kind: KindDraw, Params: EffectParams{Count: 1}})

	if len(st.Players[SeatOne].Hand) != 0 {
		t.Fatal("face-down source must not resolve its effects")
	}
}

func TestCoveredMiddleEffectDoesNothing(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	place(st, SeatOne, 0, card("Alpha", 2, true, nil))
	addDeck(st, SeatOne, card("Alpha", 3, false, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind:     KindDraw,
		Position: PositionMiddle,
		Params:   EffectParams{Count: 1},
	})

	if len(st.Players[SeatOne].Hand) != 0 {
		t.Fatal("covered middle-box effect must stay dormant")
	}
}

func TestCoveredTopEffectStaysLive(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	place(st, SeatOne, 0, card("Alpha", 2, true, nil))
	addDeck(st, SeatOne, card("Alpha", 3, false, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind:     KindDraw,
		Position: PositionTop,
		Params:   EffectParams{Count: 1},
	})

	if len(st.Players[SeatOne].Hand) != 1 {
		t.Fatal("covered top-box effect must still resolve")
	}
}

func TestOptionalEffectSkippedWithoutTargets(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))

	res := e.execute(st, src.ID, EffectDefinition{
		Kind: KindDelete,
		Params: EffectParams{
			Count:    1,
			Optional: true,
			Target:   TargetFilter{Owner: OwnerOpponent},
		},
	})

	requireNoPending(t, st)
	if res.pending {
		t.Fatal("vacuous optional effect must not prompt")
	}
	if !st.Ctx.SkippedNoTargets {
		t.Fatal("skip flag not set")
	}
}

func TestOptionalEffectPromptAndDecline(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	victim := place(st, SeatTwo, 1, card("Delta", 3, true, nil))

	res := e.execute(st, src.ID, EffectDefinition{
		Kind: KindDelete,
		Params: EffectParams{
			Count:    1,
			Optional: true,
			Target:   TargetFilter{Owner: OwnerOpponent},
		},
	})

	if !res.pending {
		t.Fatal("optional effect with a target must prompt")
	}
	if _, ok := st.ActionRequired.(*ConfirmRequired); !ok {
		t.Fatalf("pending = %T, want *ConfirmRequired", st.ActionRequired)
	}

	e.resolveConfirm(st, false)
	requireNoPending(t, st)
	if _, _, ok := st.findOnBoard(victim.ID); !ok {
		t.Fatal("declined delete must leave the target in place")
	}
}

func TestOptionalEffectAccepted(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	victim := place(st, SeatTwo, 1, card("Delta", 3, true, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind: KindDelete,
		Params: EffectParams{
			Count:    1,
			Optional: true,
			Target:   TargetFilter{Owner: OwnerOpponent},
		},
	})
	e.resolveConfirm(st, true)

	requireNoPending(t, st)
	if _, _, ok := st.findOnBoard(victim.ID); ok {
		t.Fatal("accepted delete must remove the target")
	}
	if len(st.Players[SeatTwo].Discard) != 1 {
		t.Fatal("deleted card must land anonymized in its owner's discard")
	}
}

func TestThenConditionalRunsAfterPrimary(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	target := place(st, SeatTwo, 1, card("Delta", 3, true, nil))
	addDeck(st, SeatOne, card("Alpha", 2, false, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind:   KindFlip,
		Params: EffectParams{Count: 1, Target: TargetFilter{Owner: OwnerOpponent}},
		Conditional: &Conditional{
			Type:   ConditionalThen,
			Effect: &EffectDefinition{Kind: KindDraw, Params: EffectParams{Count: 1}},
		},
	})

	if target.FaceUp {
		t.Fatal("primary flip did not apply")
	}
	if len(st.Players[SeatOne].Hand) != 1 {
		t.Fatal("then follow-up did not run")
	}
}

func TestIfExecutedSuppressedWhenPrimarySkipped(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	addDeck(st, SeatOne, card("Alpha", 2, false, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind:   KindDelete,
		Params: EffectParams{Count: 1, Target: TargetFilter{Owner: OwnerOpponent}},
		Conditional: &Conditional{
			Type:   ConditionalIfExecuted,
			Effect: &EffectDefinition{Kind: KindDraw, Params: EffectParams{Count: 1}},
		},
	})

	if len(st.Players[SeatOne].Hand) != 0 {
		t.Fatal("if_executed follow-up must not run after a skipped primary")
	}
}

func TestUsePrevTargetChainsFlipIntoShift(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	target := place(st, SeatTwo, 1, card("Delta", 3, true, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind:   KindFlip,
		Params: EffectParams{Count: 1, Target: TargetFilter{Owner: OwnerOpponent}},
		Conditional: &Conditional{
			Type:   ConditionalThen,
			Effect: &EffectDefinition{Kind: KindShift, Params: EffectParams{UsePrevTarget: true}},
		},
	})

	p, ok := st.ActionRequired.(*SelectLaneRequired)
	if !ok {
		t.Fatalf("pending = %T, want *SelectLaneRequired", st.ActionRequired)
	}
	if p.CardID != target.ID {
		t.Fatal("shift must address the card the flip just touched")
	}
	if len(p.AllowedLanes) != 2 {
		t.Fatalf("allowed lanes = %v, want the two other lanes", p.AllowedLanes)
	}

	e.resolveSelectLane(st, 2)
	ref, _, found := st.findOnBoard(target.ID)
	if !found || ref.Lane != 2 {
		t.Fatal("shifted card must sit in the chosen lane")
	}
}

func TestEachLaneDeleteWalksAllLanes(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 1, card("Beta", 1, true, nil))
	for lane := 0; lane < LaneCount; lane++ {
		place(st, SeatTwo, lane, card("Delta", 2, true, nil))
	}

	e.execute(st, src.ID, EffectDefinition{
		Kind: KindDelete,
		Params: EffectParams{
			CountMode: CountAll,
			Scope:     ScopeEachLane,
			Target:    TargetFilter{Owner: OwnerOpponent},
		},
	})

	requireNoPending(t, st)
	for lane := 0; lane < LaneCount; lane++ {
		if len(st.Players[SeatTwo].Lanes[lane]) != 0 {
			t.Fatalf("lane %d not cleared", lane)
		}
	}
	if len(st.Players[SeatTwo].Discard) != LaneCount {
		t.Fatalf("discard size = %d, want %d", len(st.Players[SeatTwo].Discard), LaneCount)
	}
}

func TestEachOtherLaneSkipsSourceLane(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 1, card("Beta", 1, true, nil))
	for lane := 0; lane < LaneCount; lane++ {
		place(st, SeatTwo, lane, card("Delta", 2, true, nil))
	}

	e.execute(st, src.ID, EffectDefinition{
		Kind: KindDelete,
		Params: EffectParams{
			CountMode: CountAll,
			Scope:     ScopeEachOtherLane,
			Target:    TargetFilter{Owner: OwnerOpponent},
		},
	})

	if len(st.Players[SeatTwo].Lanes[1]) != 1 {
		t.Fatal("the source card's lane must be spared")
	}
	if len(st.Players[SeatTwo].Lanes[0]) != 0 || len(st.Players[SeatTwo].Lanes[2]) != 0 {
		t.Fatal("the other lanes must be cleared")
	}
}

func TestSelectCardsPromptAndResolve(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	a := place(st, SeatTwo, 0, card("Delta", 2, true, nil))
	b := place(st, SeatTwo, 1, card("Delta", 3, true, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind:   KindDelete,
		Params: EffectParams{Count: 1, Target: TargetFilter{Owner: OwnerOpponent}},
	})

	p, ok := st.ActionRequired.(*SelectCardsRequired)
	if !ok {
		t.Fatalf("pending = %T, want *SelectCardsRequired", st.ActionRequired)
	}
	if len(p.Candidates) != 2 {
		t.Fatalf("candidates = %v, want both opposing cards", p.Candidates)
	}

	e.resolveSelectCards(st, []string{b.ID})
	requireNoPending(t, st)
	if _, _, ok := st.findOnBoard(b.ID); ok {
		t.Fatal("chosen card must be deleted")
	}
	if _, _, ok := st.findOnBoard(a.ID); !ok {
		t.Fatal("unchosen card must survive")
	}
}

func TestSelectCardsRejectsInvalidSelection(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	place(st, SeatTwo, 0, card("Delta", 2, true, nil))
	place(st, SeatTwo, 1, card("Delta", 3, true, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind:   KindDelete,
		Params: EffectParams{Count: 1, Target: TargetFilter{Owner: OwnerOpponent}},
	})

	e.resolveSelectCards(st, []string{"not-a-candidate"})
	if st.ActionRequired == nil {
		t.Fatal("invalid selection must leave the prompt in place")
	}
}

func TestHighestSelectorNarrowsToPrompt(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	low := place(st, SeatTwo, 0, card("Delta", 1, true, nil))
	high := place(st, SeatTwo, 1, card("Delta", 5, true, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind: KindDelete,
		Params: EffectParams{
			Count:  1,
			Target: TargetFilter{Owner: OwnerOpponent, Selector: SelectHighest},
		},
	})

	requireNoPending(t, st)
	if _, _, ok := st.findOnBoard(high.ID); ok {
		t.Fatal("the single highest card must be deleted without a prompt")
	}
	if _, _, ok := st.findOnBoard(low.ID); !ok {
		t.Fatal("the lower card must survive")
	}
}

func TestChoiceEffectPromptsBranch(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	addDeck(st, SeatOne, card("Alpha", 2, false, nil), card("Alpha", 3, false, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind: KindChoice,
		Params: EffectParams{
			Branches: [2]*EffectDefinition{
				{Kind: KindDraw, Params: EffectParams{Count: 1}},
				{Kind: KindDraw, Params: EffectParams{Count: 2}},
			},
			Labels: [2]string{"Draw 1", "Draw 2"},
		},
	})

	p, ok := st.ActionRequired.(*BranchRequired)
	if !ok {
		t.Fatalf("pending = %T, want *BranchRequired", st.ActionRequired)
	}
	if p.Labels[1] != "Draw 2" {
		t.Fatalf("labels = %v", p.Labels)
	}

	e.resolveBranch(st, 1)
	if len(st.Players[SeatOne].Hand) != 2 {
		t.Fatalf("hand = %d, want 2 after taking the second branch", len(st.Players[SeatOne].Hand))
	}
}

func TestAskValuePromptBindsFilter(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	three := place(st, SeatTwo, 0, card("Delta", 3, true, nil))
	four := place(st, SeatTwo, 1, card("Delta", 4, true, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind: KindDelete,
		Params: EffectParams{
			AskValue:  true,
			CountMode: CountAll,
			Target:    TargetFilter{Owner: OwnerOpponent, Face: FaceUp},
		},
	})

	if _, ok := st.ActionRequired.(*NumberRequired); !ok {
		t.Fatalf("pending = %T, want *NumberRequired", st.ActionRequired)
	}
	e.resolveNumber(st, 3)

	if _, _, ok := st.findOnBoard(three.ID); ok {
		t.Fatal("card matching the named value must be deleted")
	}
	if _, _, ok := st.findOnBoard(four.ID); !ok {
		t.Fatal("card of another value must survive")
	}
}

func TestUnknownEffectKindIsSkipped(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))

	res := e.execute(st, src.ID, EffectDefinition{Kind: EffectKind("teleport")})

	if res.executed || res.pending {
		t.Fatal("unknown kind must be a no-op")
	}
	if !hasLog(st, "unknown ability effect") {
		t.Fatal("expected the skip to be logged")
	}
}

func TestDiscardCountFeedsChainedDraw(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	h1 := card("Alpha", 2, false, nil)
	h2 := card("Alpha", 3, false, nil)
	addHand(st, SeatOne, h1, h2)
	addDeck(st, SeatOne,
		card("Alpha", 4, false, nil),
		card("Alpha", 5, false, nil),
		card("Alpha", 0, false, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind:   KindDiscard,
		Params: EffectParams{Count: 3, CountMode: CountUpTo, Actor: OwnerSelf},
		Conditional: &Conditional{
			Type:   ConditionalThen,
			Effect: &EffectDefinition{Kind: KindDraw, Params: EffectParams{CountMode: CountDiscarded}},
		},
	})

	p, ok := st.ActionRequired.(*SelectCardsRequired)
	if !ok {
		t.Fatalf("pending = %T, want *SelectCardsRequired", st.ActionRequired)
	}
	if !p.UpTo || p.Count != 2 {
		t.Fatalf("prompt count = %d upTo = %t, want up to 2 (reduced to hand size)", p.Count, p.UpTo)
	}

	e.resolveSelectCards(st, []string{h1.ID, h2.ID})
	requireNoPending(t, st)
	if st.Players[SeatOne].Stats.CardsDiscarded != 2 {
		t.Fatalf("discarded = %d, want 2", st.Players[SeatOne].Stats.CardsDiscarded)
	}
	if got := st.Players[SeatOne].Stats.CardsDrawn; got != 2 {
		t.Fatalf("drawn = %d, want 2 (one per discarded card)", got)
	}
}

func TestHandDiscardSameProtocolFilter(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	a1 := card("Alpha", 2, false, nil)
	a2 := card("Alpha", 3, false, nil)
	addHand(st, SeatOne, a1, a2, card("Beta", 4, false, nil))

	e.execute(st, src.ID, EffectDefinition{
		Kind: KindDiscard,
		Params: EffectParams{
			Count:  1,
			Target: TargetFilter{SameProtocol: true},
		},
	})

	p, ok := st.ActionRequired.(*SelectCardsRequired)
	if !ok {
		t.Fatalf("pending = %T, want *SelectCardsRequired", st.ActionRequired)
	}
	want := []string{a1.ID, a2.ID}
	if len(p.Candidates) != 2 || p.Candidates[0] != want[0] || p.Candidates[1] != want[1] {
		t.Fatalf("candidates = %v, want only the cards sharing the source's protocol", p.Candidates)
	}
}

func TestHandDiscardNamedProtocolFilter(t *testing.T) {
	e := newTestEngine()
	st := emptyState()
	src := place(st, SeatOne, 0, card("Alpha", 1, true, nil))
	b := card("Beta", 4, false, nil)
	addHand(st, SeatOne, card("Alpha", 2, false, nil), b)

	e.execute(st, src.ID, EffectDefinition{
		Kind: KindDiscard,
		Params: EffectParams{
			CountMode: CountAll,
			Target:    TargetFilter{Protocol: "Beta"},
		},
	})

	requireNoPending(t, st)
	if len(st.Players[SeatOne].Hand) != 1 || st.Players[SeatOne].Hand[0].Protocol != "Alpha" {
		t.Fatal("only the named protocol's hand cards may be discarded")
	}
	if st.Players[SeatOne].Stats.CardsDiscarded != 1 {
		t.Fatalf("discarded = %d, want 1", st.Players[SeatOne].Stats.CardsDiscarded)
	}
}
